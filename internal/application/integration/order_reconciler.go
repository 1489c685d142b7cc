package integration

import (
	"context"
	"errors"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderReconciler maps remote orders onto local orders.
//
// Orders are keyed by remote id only. The buyer is resolved through the
// remote customer id when it is already mirrored, otherwise through the
// billing email, creating a guest customer if needed.
type OrderReconciler struct{}

// NewOrderReconciler creates a new OrderReconciler
func NewOrderReconciler() *OrderReconciler {
	return &OrderReconciler{}
}

// Reconcile upserts one remote order together with its line items
func (r *OrderReconciler) Reconcile(ctx context.Context, scope ReconcileScope, remote integration.RemoteOrder) (ReconcileOutcome, error) {
	order, err := scope.Repos.Orders.FindByRemoteID(ctx, remote.RemoteID)
	outcome := OutcomeUnchanged
	switch {
	case errors.Is(err, shared.ErrNotFound):
		order, err = trade.NewOrder(remote.RemoteID, scope.Now)
		if err != nil {
			return "", err
		}
		outcome = OutcomeCreated
	case err != nil:
		return "", err
	}

	apply := outcome == OutcomeCreated || shared.RemoteIsNewer(remote.ModifiedAt, order.ModifiedAt)
	if apply {
		customerID, err := r.resolveCustomer(ctx, scope, remote)
		if err != nil {
			return "", err
		}

		status, ok := trade.ParseRemoteOrderStatus(remote.Status)
		if !ok {
			scope.Logger.Warn("Unknown order status, defaulting to PENDING",
				zap.String("status", remote.Status),
				zap.Int64("remote_id", remote.RemoteID),
			)
		}

		order.ApplyRemote(
			remote.Number,
			status,
			parseAmount(scope.Logger, remote.Total, "total", remote.RemoteID),
			remote.CreatedAt,
			remote.ModifiedAt,
		)
		order.AssignCustomer(customerID)
		order.ReplaceItems(r.lineItems(scope, remote))
		if outcome == OutcomeUnchanged {
			outcome = OutcomeUpdated
		}
	}
	order.MarkSynced(scope.Now)

	if err := scope.Repos.Orders.Save(ctx, order); err != nil {
		return "", err
	}
	if apply {
		if err := scope.Repos.Orders.ReplaceItems(ctx, order); err != nil {
			return "", err
		}
	}
	return outcome, nil
}

// resolveCustomer returns the local customer id of the buyer, or nil when
// the order carries no usable email
func (r *OrderReconciler) resolveCustomer(ctx context.Context, scope ReconcileScope, remote integration.RemoteOrder) (*uuid.UUID, error) {
	if !remote.IsGuest() {
		customer, err := findCustomerByRemoteID(ctx, scope, remote.RemoteCustomerID)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			return &customer.ID, nil
		}
		scope.Logger.Debug("Order customer not mirrored yet, resolving by billing email",
			zap.Int64("remote_id", remote.RemoteID),
			zap.Int64("remote_customer_id", remote.RemoteCustomerID),
		)
	}

	email := partner.NormalizeEmail(remote.Billing.Email)
	if email == "" {
		scope.Logger.Warn("Order has no billing email, leaving it without customer",
			zap.Int64("remote_id", remote.RemoteID),
		)
		return nil, nil
	}

	billing := toBillingAddress(remote.Billing)
	customer, err := findCustomerByEmail(ctx, scope, email)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		if customer.FillBlanks(remote.Billing.FirstName, remote.Billing.LastName, billing) {
			customer.MarkSynced(scope.Now)
			if err := scope.Repos.Customers.Save(ctx, customer); err != nil {
				return nil, err
			}
		}
		return &customer.ID, nil
	}

	customer, err = partner.NewCustomer(email, scope.Now)
	if err != nil {
		return nil, err
	}
	customer.FillBlanks(remote.Billing.FirstName, remote.Billing.LastName, billing)
	customer.MarkSynced(scope.Now)
	if err := scope.Repos.Customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	scope.entities().putCustomer(customer)
	scope.Logger.Debug("Created guest customer from order",
		zap.Int64("remote_id", remote.RemoteID),
		zap.String("customer_id", customer.ID.String()),
	)
	return &customer.ID, nil
}

func (r *OrderReconciler) lineItems(scope ReconcileScope, remote integration.RemoteOrder) []trade.OrderItem {
	items := make([]trade.OrderItem, 0, len(remote.LineItems))
	for _, li := range remote.LineItems {
		items = append(items, trade.OrderItem{
			RemoteID:        li.RemoteID,
			RemoteProductID: li.RemoteProductID,
			Name:            li.Name,
			Quantity:        li.Quantity,
			Total:           parseAmount(scope.Logger, li.Total, "line_item.total", remote.RemoteID),
			Metadata:        itemMetadata(li.MetaData),
		})
	}
	return items
}
