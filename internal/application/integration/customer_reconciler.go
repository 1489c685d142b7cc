package integration

import (
	"context"
	"fmt"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerReconciler maps remote customers onto local customers.
//
// Lookup order is remote id, then normalized email. An email match without
// a remote id is promoted to the remote customer (merge-on-discovery).
type CustomerReconciler struct{}

// NewCustomerReconciler creates a new CustomerReconciler
func NewCustomerReconciler() *CustomerReconciler {
	return &CustomerReconciler{}
}

// Reconcile upserts one remote customer
func (r *CustomerReconciler) Reconcile(ctx context.Context, scope ReconcileScope, remote integration.RemoteCustomer) (ReconcileOutcome, error) {
	customer, err := findCustomerByRemoteID(ctx, scope, remote.RemoteID)
	if err != nil {
		return "", err
	}

	promoted := false
	if customer == nil {
		customer, err = findCustomerByEmail(ctx, scope, remote.Email)
		if err != nil {
			return "", err
		}
		if customer != nil {
			if err := customer.Promote(remote.RemoteID); err != nil {
				return "", fmt.Errorf("customer %d (%s): %w", remote.RemoteID, customer.Email, err)
			}
			promoted = true
			scope.Logger.Info("Promoted local customer to remote customer",
				zap.Int64("remote_id", remote.RemoteID),
				zap.String("customer_id", customer.ID.String()),
			)
		}
	}

	outcome := OutcomeUnchanged
	if customer == nil {
		customer, err = partner.NewCustomer(remote.Email, scope.Now)
		if err != nil {
			return "", fmt.Errorf("customer %d: %w", remote.RemoteID, err)
		}
		if err := customer.Promote(remote.RemoteID); err != nil {
			return "", fmt.Errorf("customer %d: %w", remote.RemoteID, err)
		}
		outcome = OutcomeCreated
	} else if promoted {
		outcome = OutcomeUpdated
	}

	if outcome == OutcomeCreated || shared.RemoteIsNewer(remote.ModifiedAt, customer.ModifiedAt) {
		scope.entities().evictCustomer(customer)
		customer.ApplyRemote(remote.Email, remote.FirstName, remote.LastName, toBillingAddress(remote.Billing), remote.ModifiedAt)
		if outcome == OutcomeUnchanged {
			outcome = OutcomeUpdated
		}
	}
	customer.MarkSynced(scope.Now)

	if err := scope.Repos.Customers.Save(ctx, customer); err != nil {
		return "", err
	}
	scope.entities().putCustomer(customer)
	return outcome, nil
}
