package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/erp/storesync/internal/domain/shared"
)

// ProductTypeVariable is the store product type whose variations are mirrored
const ProductTypeVariable = "variable"

// ProductDetails holds the product fields owned by the store
type ProductDetails struct {
	Name             string
	Slug             string
	SKU              string
	Price            decimal.Decimal
	RegularPrice     decimal.Decimal
	SalePrice        decimal.Decimal
	Description      string
	ShortDescription string
	Type             string
	Status           string
	RemoteCreatedAt  *time.Time
}

// Product is the local mirror of a store product
type Product struct {
	shared.BaseEntity
	RemoteID int64
	ProductDetails
	ModifiedAt   *time.Time
	LastSyncedAt *time.Time
}

// NewProduct creates a product for the given store id
func NewProduct(remoteID int64, now time.Time) (*Product, error) {
	if remoteID <= 0 {
		return nil, shared.ErrInvalidInput.WithMessage("remote product id must be positive")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntityAt(now),
		RemoteID:   remoteID,
		ProductDetails: ProductDetails{
			Price:        decimal.Zero,
			RegularPrice: decimal.Zero,
			SalePrice:    decimal.Zero,
		},
	}, nil
}

// ApplyRemote overwrites the store-owned fields
func (p *Product) ApplyRemote(details ProductDetails, modifiedAt *time.Time) {
	p.ProductDetails = details
	p.ModifiedAt = modifiedAt
}

// IsVariable reports whether the product carries variations
func (p *Product) IsVariable() bool {
	return p.Type == ProductTypeVariable
}

// MarkSynced records that a sync pass considered this product
func (p *Product) MarkSynced(now time.Time) {
	p.LastSyncedAt = &now
	p.Touch(now)
}
