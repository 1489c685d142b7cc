package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/shared"
)

// ProductReconciler maps remote products onto local products and, for
// variable products, reconciles their variations in the same unit of work
type ProductReconciler struct {
	remote     integration.RemoteCatalog
	variations *VariationReconciler
}

// NewProductReconciler creates a new ProductReconciler
func NewProductReconciler(remote integration.RemoteCatalog, variations *VariationReconciler) *ProductReconciler {
	return &ProductReconciler{
		remote:     remote,
		variations: variations,
	}
}

// Reconcile upserts one remote product
func (r *ProductReconciler) Reconcile(ctx context.Context, scope ReconcileScope, remote integration.RemoteProduct) (ReconcileOutcome, error) {
	product, err := scope.Repos.Products.FindByRemoteID(ctx, remote.RemoteID)
	outcome := OutcomeUnchanged
	switch {
	case errors.Is(err, shared.ErrNotFound):
		product, err = catalog.NewProduct(remote.RemoteID, scope.Now)
		if err != nil {
			return "", err
		}
		outcome = OutcomeCreated
	case err != nil:
		return "", err
	}

	if outcome == OutcomeCreated || shared.RemoteIsNewer(remote.ModifiedAt, product.ModifiedAt) {
		product.ApplyRemote(catalog.ProductDetails{
			Name:             remote.Name,
			Slug:             remote.Slug,
			SKU:              remote.SKU,
			Price:            parseAmount(scope.Logger, remote.Price, "price", remote.RemoteID),
			RegularPrice:     parseAmount(scope.Logger, remote.RegularPrice, "regular_price", remote.RemoteID),
			SalePrice:        parseAmount(scope.Logger, remote.SalePrice, "sale_price", remote.RemoteID),
			Description:      stripHTML(remote.Description),
			ShortDescription: stripHTML(remote.ShortDescription),
			Type:             remote.Type,
			Status:           remote.Status,
			RemoteCreatedAt:  remote.CreatedAt,
		}, remote.ModifiedAt)
		if outcome == OutcomeUnchanged {
			outcome = OutcomeUpdated
		}
	}
	product.MarkSynced(scope.Now)

	if err := scope.Repos.Products.Save(ctx, product); err != nil {
		return "", err
	}

	if remote.Type != catalog.ProductTypeVariable {
		return outcome, nil
	}

	remoteVariations, err := r.remote.FetchProductVariations(ctx, remote.RemoteID)
	if err != nil {
		return "", fmt.Errorf("fetch variations of product %d: %w", remote.RemoteID, err)
	}
	if _, err := r.variations.Reconcile(ctx, scope, product, remoteVariations); err != nil {
		return "", err
	}
	return outcome, nil
}
