package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence.
// Finders return shared.ErrNotFound when no row matches.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByRemoteID(ctx context.Context, remoteID int64) (*Product, error)
	Save(ctx context.Context, product *Product) error
}

// ProductVariationRepository defines the interface for variation persistence
type ProductVariationRepository interface {
	// FindByID finds a variation by local ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductVariation, error)

	// FindAllForProduct returns every variation of a product regardless of ownership
	FindAllForProduct(ctx context.Context, productID uuid.UUID) ([]*ProductVariation, error)

	// Save creates or updates a variation
	Save(ctx context.Context, variation *ProductVariation) error

	// Delete removes a variation
	Delete(ctx context.Context, id uuid.UUID) error
}

// ManagedAttributeRepository defines the interface for the attribute palette
type ManagedAttributeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ManagedAttribute, error)

	// FindByType lists the palette of one type ordered by sort order then name.
	// activeOnly drops retired entries.
	FindByType(ctx context.Context, attrType string, activeOnly bool) ([]*ManagedAttribute, error)

	// FindByTypeAndValue finds an entry by its natural key
	FindByTypeAndValue(ctx context.Context, attrType, value string) (*ManagedAttribute, error)

	Save(ctx context.Context, attribute *ManagedAttribute) error
}
