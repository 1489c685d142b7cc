package integration

import (
	"time"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Checkpoint DTOs
// ---------------------------------------------------------------------------

// CheckpointResponse represents a sync checkpoint in API responses
type CheckpointResponse struct {
	Domain                integration.SyncDomain       `json:"domain"`
	Status                integration.CheckpointStatus `json:"status"`
	LastSuccessfulSync    *time.Time                   `json:"last_successful_sync,omitempty"`
	LastAttemptedSync     *time.Time                   `json:"last_attempted_sync,omitempty"`
	LastProcessedPage     *int                         `json:"last_processed_page,omitempty"`
	TotalRecordsProcessed int                          `json:"total_records_processed"`
	FailedRecords         int                          `json:"failed_records"`
	ErrorMessage          *string                      `json:"error_message,omitempty"`
	UpdatedAt             time.Time                    `json:"updated_at"`
}

// ToCheckpointResponse converts a checkpoint for API output
func ToCheckpointResponse(c *integration.SyncCheckpoint) CheckpointResponse {
	return CheckpointResponse{
		Domain:                c.Domain,
		Status:                c.Status,
		LastSuccessfulSync:    c.LastSuccessfulSync,
		LastAttemptedSync:     c.LastAttemptedSync,
		LastProcessedPage:     c.LastProcessedPage,
		TotalRecordsProcessed: c.TotalRecordsProcessed,
		FailedRecords:         c.FailedRecords,
		ErrorMessage:          c.ErrorMessage,
		UpdatedAt:             c.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Variation curation DTOs
// ---------------------------------------------------------------------------

// AttributeInput is one attribute option of a curated variation
type AttributeInput struct {
	Name   string `json:"name" validate:"required,max=100"`
	Option string `json:"option" validate:"required,max=100"`
}

// LocalVariationInput describes a manually curated variation
type LocalVariationInput struct {
	SKU          string           `json:"sku" validate:"omitempty,max=100"`
	Price        decimal.Decimal  `json:"price"`
	RegularPrice decimal.Decimal  `json:"regular_price"`
	SalePrice    decimal.Decimal  `json:"sale_price"`
	Description  string           `json:"description" validate:"max=2000"`
	Attributes   []AttributeInput `json:"attributes" validate:"required,min=1,dive"`
	Weight       string           `json:"weight" validate:"max=20"`
	Length       string           `json:"length" validate:"max=20"`
	Width        string           `json:"width" validate:"max=20"`
	Height       string           `json:"height" validate:"max=20"`
	Status       string           `json:"status" validate:"omitempty,oneof=publish private draft pending"`
}

func (in LocalVariationInput) details() catalog.VariationDetails {
	attributes := make([]catalog.VariationAttribute, 0, len(in.Attributes))
	for _, a := range in.Attributes {
		attributes = append(attributes, catalog.VariationAttribute{Name: a.Name, Option: a.Option})
	}
	return catalog.VariationDetails{
		SKU:          in.SKU,
		Price:        in.Price,
		RegularPrice: in.RegularPrice,
		SalePrice:    in.SalePrice,
		Description:  in.Description,
		Attributes:   attributes,
		Weight:       in.Weight,
		Dimensions:   catalog.Dimensions{Length: in.Length, Width: in.Width, Height: in.Height},
		Status:       in.Status,
	}
}

// VariationResponse represents a product variation in API responses
type VariationResponse struct {
	ID           uuid.UUID                    `json:"id"`
	ProductID    uuid.UUID                    `json:"product_id"`
	Ownership    string                       `json:"ownership"`
	SKU          string                       `json:"sku"`
	Price        decimal.Decimal              `json:"price"`
	RegularPrice decimal.Decimal              `json:"regular_price"`
	SalePrice    decimal.Decimal              `json:"sale_price"`
	Description  string                       `json:"description"`
	Attributes   []catalog.VariationAttribute `json:"attributes"`
	Status       string                       `json:"status"`
}

// ToVariationResponse converts a variation for API output
func ToVariationResponse(v *catalog.ProductVariation) VariationResponse {
	return VariationResponse{
		ID:           v.ID,
		ProductID:    v.ProductID,
		Ownership:    v.Ownership.String(),
		SKU:          v.SKU,
		Price:        v.Price,
		RegularPrice: v.RegularPrice,
		SalePrice:    v.SalePrice,
		Description:  v.Description,
		Attributes:   v.Attributes,
		Status:       v.Status,
	}
}

// ManagedAttributeInput describes a new palette entry
type ManagedAttributeInput struct {
	Type      string `json:"type" validate:"required,max=50"`
	Name      string `json:"name" validate:"required,max=100"`
	Value     string `json:"value" validate:"required,max=100"`
	HexCode   string `json:"hex_code" validate:"omitempty,len=7"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
}

// ManagedAttributeResponse represents a palette entry in API responses
type ManagedAttributeResponse struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	HexCode   string    `json:"hex_code,omitempty"`
	SortOrder int       `json:"sort_order"`
	Active    bool      `json:"active"`
}

// ToManagedAttributeResponse converts a palette entry for API output
func ToManagedAttributeResponse(a *catalog.ManagedAttribute) ManagedAttributeResponse {
	return ManagedAttributeResponse{
		ID:        a.ID,
		Type:      a.Type,
		Name:      a.Name,
		Value:     a.Value,
		HexCode:   a.HexCode,
		SortOrder: a.SortOrder,
		Active:    a.Active,
	}
}
