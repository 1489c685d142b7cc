package integration

import (
	"context"
	"fmt"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/shared"
	"go.uber.org/zap"
)

// VariationDiff counts what a variation reconciliation changed
type VariationDiff struct {
	Created   int
	Updated   int
	Unchanged int
	Deleted   int
	Local     int // local-owned variations left alone
}

// VariationReconciler brings the variations of one product in line with the
// remote set.
//
// Remote-owned variations are upserted from the remote set and deleted when
// absent from it. Local-owned variations are never read for update, changed
// or deleted here.
type VariationReconciler struct{}

// NewVariationReconciler creates a new VariationReconciler
func NewVariationReconciler() *VariationReconciler {
	return &VariationReconciler{}
}

// Reconcile diffs the stored variations of product against remote, writing
// through scope.Repos.Variations and logging with the scope's run logger
func (r *VariationReconciler) Reconcile(
	ctx context.Context,
	scope ReconcileScope,
	product *catalog.Product,
	remote []integration.RemoteVariation,
) (VariationDiff, error) {
	var diff VariationDiff
	repo, now := scope.Repos.Variations, scope.Now

	existing, err := repo.FindAllForProduct(ctx, product.ID)
	if err != nil {
		return diff, err
	}

	byRemoteID := make(map[int64]*catalog.ProductVariation, len(existing))
	for _, v := range existing {
		if owned, ok := v.Ownership.(catalog.RemoteOwned); ok {
			byRemoteID[owned.RemoteID] = v
		}
	}

	processed := make(map[int64]struct{}, len(remote))
	for _, rv := range remote {
		variation, found := byRemoteID[rv.RemoteID]
		if !found {
			variation, err = catalog.NewRemoteVariation(product.ID, rv.RemoteID, now)
			if err != nil {
				return diff, fmt.Errorf("variation %d of product %d: %w", rv.RemoteID, product.RemoteID, err)
			}
			byRemoteID[rv.RemoteID] = variation
		}

		apply := !found || shared.RemoteIsNewer(rv.ModifiedAt, variation.ModifiedAt)
		switch {
		case !found:
			diff.Created++
		case apply:
			diff.Updated++
		default:
			diff.Unchanged++
		}
		if apply {
			if err := variation.ApplyRemote(r.details(scope.Logger, rv), rv.ModifiedAt); err != nil {
				return diff, err
			}
		}
		if err := variation.MarkSynced(now); err != nil {
			return diff, err
		}
		if err := repo.Save(ctx, variation); err != nil {
			return diff, err
		}
		processed[rv.RemoteID] = struct{}{}
	}

	for _, v := range existing {
		switch owned := v.Ownership.(type) {
		case catalog.RemoteOwned:
			if _, seen := processed[owned.RemoteID]; seen {
				continue
			}
			if err := repo.Delete(ctx, v.ID); err != nil {
				return diff, err
			}
			diff.Deleted++
		case catalog.LocalOwned:
			diff.Local++
		}
	}

	scope.Logger.Debug("Variations reconciled",
		zap.Int64("product_remote_id", product.RemoteID),
		zap.Int("created", diff.Created),
		zap.Int("updated", diff.Updated),
		zap.Int("unchanged", diff.Unchanged),
		zap.Int("deleted", diff.Deleted),
		zap.Int("local", diff.Local),
	)
	return diff, nil
}

func (r *VariationReconciler) details(logger *zap.Logger, rv integration.RemoteVariation) catalog.VariationDetails {
	attributes := make([]catalog.VariationAttribute, 0, len(rv.Attributes))
	for _, a := range rv.Attributes {
		attributes = append(attributes, catalog.VariationAttribute{Name: a.Name, Option: a.Option})
	}
	return catalog.VariationDetails{
		SKU:          rv.SKU,
		Price:        parseAmount(logger, rv.Price, "variation.price", rv.RemoteID),
		RegularPrice: parseAmount(logger, rv.RegularPrice, "variation.regular_price", rv.RemoteID),
		SalePrice:    parseAmount(logger, rv.SalePrice, "variation.sale_price", rv.RemoteID),
		Description:  stripHTML(rv.Description),
		Attributes:   attributes,
		Weight:       rv.Weight,
		Dimensions: catalog.Dimensions{
			Length: rv.Dimensions.Length,
			Width:  rv.Dimensions.Width,
			Height: rv.Dimensions.Height,
		},
		Status:          rv.Status,
		RemoteCreatedAt: rv.CreatedAt,
	}
}
