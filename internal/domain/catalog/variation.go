package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/storesync/internal/domain/shared"
)

// ErrLocalVariationImmutable is returned when sync tries to write a
// hand-curated variation
var ErrLocalVariationImmutable = shared.NewDomainError(
	"LOCAL_VARIATION_IMMUTABLE",
	"Locally curated variations cannot be changed by sync",
)

// VariationAttribute is one attribute option of a variation (e.g. Color=Red)
type VariationAttribute struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}

// Dimensions of a variation as reported by the store
type Dimensions struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// VariationDetails holds the descriptive fields of a variation
type VariationDetails struct {
	SKU             string
	Price           decimal.Decimal
	RegularPrice    decimal.Decimal
	SalePrice       decimal.Decimal
	Description     string
	Attributes      []VariationAttribute
	Weight          string
	Dimensions      Dimensions
	Status          string
	RemoteCreatedAt *time.Time
}

// ProductVariation is a variant of a variable product
type ProductVariation struct {
	shared.BaseEntity
	ProductID uuid.UUID
	Ownership Ownership
	VariationDetails
	ModifiedAt   *time.Time
	LastSyncedAt *time.Time
}

// NewRemoteVariation creates a sync-governed variation
func NewRemoteVariation(productID uuid.UUID, remoteID int64, now time.Time) (*ProductVariation, error) {
	if remoteID <= 0 {
		return nil, shared.ErrInvalidInput.WithMessage("remote variation id must be positive")
	}
	return &ProductVariation{
		BaseEntity:       shared.NewBaseEntityAt(now),
		ProductID:        productID,
		Ownership:        RemoteOwned{RemoteID: remoteID},
		VariationDetails: zeroPrices(VariationDetails{}),
	}, nil
}

// NewLocalVariation creates a hand-curated variation. It never carries a
// remote id, which keeps it out of every sync sweep.
func NewLocalVariation(productID uuid.UUID, details VariationDetails, now time.Time) (*ProductVariation, error) {
	if productID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("product id is required")
	}
	if len(details.Attributes) == 0 {
		return nil, shared.ErrInvalidInput.WithMessage("a local variation needs at least one attribute")
	}
	if details.Status == "" {
		details.Status = "publish"
	}
	return &ProductVariation{
		BaseEntity:       shared.NewBaseEntityAt(now),
		ProductID:        productID,
		Ownership:        LocalOwned{},
		VariationDetails: zeroPrices(details),
		ModifiedAt:       &now,
	}, nil
}

func zeroPrices(d VariationDetails) VariationDetails {
	if d.Price.IsZero() {
		d.Price = decimal.Zero
	}
	if d.RegularPrice.IsZero() {
		d.RegularPrice = decimal.Zero
	}
	if d.SalePrice.IsZero() {
		d.SalePrice = decimal.Zero
	}
	return d
}

// RemoteID returns the store id of a remote-owned variation
func (v *ProductVariation) RemoteID() (int64, bool) {
	if r, ok := v.Ownership.(RemoteOwned); ok {
		return r.RemoteID, true
	}
	return 0, false
}

// IsRemoteOwned reports whether sync governs this variation
func (v *ProductVariation) IsRemoteOwned() bool {
	_, ok := v.RemoteID()
	return ok
}

// ApplyRemote overwrites the details of a remote-owned variation
func (v *ProductVariation) ApplyRemote(details VariationDetails, modifiedAt *time.Time) error {
	if !v.IsRemoteOwned() {
		return ErrLocalVariationImmutable
	}
	v.VariationDetails = details
	v.ModifiedAt = modifiedAt
	return nil
}

// MarkSynced records that a sync pass considered this variation
func (v *ProductVariation) MarkSynced(now time.Time) error {
	if !v.IsRemoteOwned() {
		return ErrLocalVariationImmutable
	}
	v.LastSyncedAt = &now
	v.Touch(now)
	return nil
}

// HasAttribute reports whether the variation has the given attribute option
func (v *ProductVariation) HasAttribute(name, option string) bool {
	for _, a := range v.Attributes {
		if strings.EqualFold(a.Name, name) && strings.EqualFold(a.Option, option) {
			return true
		}
	}
	return false
}
