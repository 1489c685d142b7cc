package handler

import (
	"context"
	"strconv"

	integrationapp "github.com/erp/storesync/internal/application/integration"
	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// VariationCurator manages hand-curated variations
type VariationCurator interface {
	AddLocalVariation(ctx context.Context, productID uuid.UUID, input integrationapp.LocalVariationInput) (*catalog.ProductVariation, error)
	AddColorVariations(ctx context.Context, productID uuid.UUID, colors []string) ([]*catalog.ProductVariation, error)
	ApplyActiveColors(ctx context.Context, productID uuid.UUID) ([]*catalog.ProductVariation, error)
	DeleteLocalVariation(ctx context.Context, id uuid.UUID) error

	CreateManagedAttribute(ctx context.Context, input integrationapp.ManagedAttributeInput) (*catalog.ManagedAttribute, error)
	ListManagedAttributes(ctx context.Context, attrType string, activeOnly bool) ([]*catalog.ManagedAttribute, error)
	SetManagedAttributeActive(ctx context.Context, id uuid.UUID, active bool) (*catalog.ManagedAttribute, error)
}

// VariationHandler handles local variation curation endpoints
type VariationHandler struct {
	BaseHandler
	curator VariationCurator
}

// NewVariationHandler creates a new VariationHandler
func NewVariationHandler(curator VariationCurator) *VariationHandler {
	return &VariationHandler{curator: curator}
}

// AddColorVariationsRequest lists the colors to add
type AddColorVariationsRequest struct {
	Colors []string `json:"colors"`
}

// UpdateManagedAttributeRequest toggles a palette entry
type UpdateManagedAttributeRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// Create adds a local variation to a product.
// POST /products/:id/variations
func (h *VariationHandler) Create(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, dto.ErrCodeInvalidInput, "Invalid product ID format")
		return
	}

	var req integrationapp.LocalVariationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	variation, err := h.curator.AddLocalVariation(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, integrationapp.ToVariationResponse(variation))
}

// CreateColors adds one local variation per color.
// POST /products/:id/variations/colors
func (h *VariationHandler) CreateColors(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, dto.ErrCodeInvalidInput, "Invalid product ID format")
		return
	}

	var req AddColorVariationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	variations, err := h.curator.AddColorVariations(c.Request.Context(), productID, req.Colors)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, variationResponses(variations))
}

// ApplyColors adds a local variation for every active palette color the
// product lacks.
// POST /products/:id/variations/apply-colors
func (h *VariationHandler) ApplyColors(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, dto.ErrCodeInvalidInput, "Invalid product ID format")
		return
	}

	variations, err := h.curator.ApplyActiveColors(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, variationResponses(variations))
}

func variationResponses(variations []*catalog.ProductVariation) []integrationapp.VariationResponse {
	resp := make([]integrationapp.VariationResponse, 0, len(variations))
	for _, v := range variations {
		resp = append(resp, integrationapp.ToVariationResponse(v))
	}
	return resp
}

// Delete removes a local variation.
// DELETE /variations/:id
func (h *VariationHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, dto.ErrCodeInvalidInput, "Invalid variation ID format")
		return
	}

	if err := h.curator.DeleteLocalVariation(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListAttributes lists the attribute palette.
// GET /variation-attributes?type=color&active=true
func (h *VariationHandler) ListAttributes(c *gin.Context) {
	activeOnly := false
	if raw := c.Query("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, dto.ErrCodeInvalidInput, "Invalid active filter")
			return
		}
		activeOnly = parsed
	}

	attributes, err := h.curator.ListManagedAttributes(c.Request.Context(), c.DefaultQuery("type", catalog.AttributeTypeColor), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]integrationapp.ManagedAttributeResponse, 0, len(attributes))
	for _, a := range attributes {
		resp = append(resp, integrationapp.ToManagedAttributeResponse(a))
	}
	h.Success(c, resp)
}

// CreateAttribute adds a palette entry.
// POST /variation-attributes
func (h *VariationHandler) CreateAttribute(c *gin.Context) {
	var req integrationapp.ManagedAttributeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	attribute, err := h.curator.CreateManagedAttribute(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, integrationapp.ToManagedAttributeResponse(attribute))
}

// UpdateAttribute activates or retires a palette entry.
// PATCH /variation-attributes/:id
func (h *VariationHandler) UpdateAttribute(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, dto.ErrCodeInvalidInput, "Invalid attribute ID format")
		return
	}

	var req UpdateManagedAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	attribute, err := h.curator.SetManagedAttributeActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, integrationapp.ToManagedAttributeResponse(attribute))
}
