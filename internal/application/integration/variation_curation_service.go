package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ColorAttributeName is the attribute used by color variations
const ColorAttributeName = "Color"

// VariationCurationService manages hand-curated (local-owned) variations.
// Sync never touches the variations created here.
type VariationCurationService struct {
	uow      integration.UnitOfWork
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewVariationCurationService creates a new VariationCurationService
func NewVariationCurationService(uow integration.UnitOfWork, logger *zap.Logger) *VariationCurationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VariationCurationService{
		uow:      uow,
		validate: validator.New(),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AddLocalVariation creates a local-owned variation for a product
func (s *VariationCurationService) AddLocalVariation(ctx context.Context, productID uuid.UUID, input LocalVariationInput) (*catalog.ProductVariation, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.ErrInvalidInput.WithMessage(err.Error())
	}

	var created *catalog.ProductVariation
	err := s.uow.Do(ctx, func(ctx context.Context, repos integration.Repositories) error {
		if _, err := repos.Products.FindByID(ctx, productID); err != nil {
			return err
		}
		variation, err := catalog.NewLocalVariation(productID, input.details(), s.now())
		if err != nil {
			return err
		}
		if err := repos.Variations.Save(ctx, variation); err != nil {
			return err
		}
		created = variation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Local variation created",
		zap.String("product_id", productID.String()),
		zap.String("variation_id", created.ID.String()),
	)
	return created, nil
}

// AddColorVariations creates one local variation per color, priced like the
// product. Colors the product already has (in any ownership) are skipped.
func (s *VariationCurationService) AddColorVariations(ctx context.Context, productID uuid.UUID, colors []string) ([]*catalog.ProductVariation, error) {
	if err := s.validate.Var(colors, "required,min=1,dive,required,max=100"); err != nil {
		return nil, shared.ErrInvalidInput.WithMessage(err.Error())
	}

	var created []*catalog.ProductVariation
	err := s.uow.Do(ctx, func(ctx context.Context, repos integration.Repositories) error {
		var err error
		created, err = s.createColorVariations(ctx, repos, productID, colors)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Color variations created",
		zap.String("product_id", productID.String()),
		zap.Int("requested", len(colors)),
		zap.Int("created", len(created)),
	)
	return created, nil
}

// ApplyActiveColors creates a local color variation for every active color
// of the managed palette that the product does not have yet. An empty
// palette creates nothing.
func (s *VariationCurationService) ApplyActiveColors(ctx context.Context, productID uuid.UUID) ([]*catalog.ProductVariation, error) {
	var (
		created []*catalog.ProductVariation
		palette int
	)
	err := s.uow.Do(ctx, func(ctx context.Context, repos integration.Repositories) error {
		colors, err := repos.Attributes.FindByType(ctx, catalog.AttributeTypeColor, true)
		if err != nil {
			return err
		}
		palette = len(colors)
		if palette == 0 {
			// still report a missing product
			_, err := repos.Products.FindByID(ctx, productID)
			return err
		}
		names := make([]string, len(colors))
		for i, c := range colors {
			names[i] = c.Name
		}
		created, err = s.createColorVariations(ctx, repos, productID, names)
		return err
	})
	if err != nil {
		return nil, err
	}

	if palette == 0 {
		s.logger.Warn("No active colors in the attribute palette",
			zap.String("product_id", productID.String()),
		)
		return created, nil
	}
	s.logger.Info("Active colors applied",
		zap.String("product_id", productID.String()),
		zap.Int("palette", palette),
		zap.Int("created", len(created)),
	)
	return created, nil
}

func (s *VariationCurationService) createColorVariations(ctx context.Context, repos integration.Repositories, productID uuid.UUID, colors []string) ([]*catalog.ProductVariation, error) {
	product, err := repos.Products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	existing, err := repos.Variations.FindAllForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	created := make([]*catalog.ProductVariation, 0, len(colors))
	for _, color := range colors {
		color = strings.TrimSpace(color)
		if hasColor(existing, color) {
			continue
		}
		variation, err := catalog.NewLocalVariation(productID, catalog.VariationDetails{
			Price:        product.Price,
			RegularPrice: product.RegularPrice,
			SalePrice:    product.SalePrice,
			Description:  fmt.Sprintf("%s - %s", product.Name, color),
			Attributes:   []catalog.VariationAttribute{{Name: ColorAttributeName, Option: color}},
		}, now)
		if err != nil {
			return nil, err
		}
		if err := repos.Variations.Save(ctx, variation); err != nil {
			return nil, err
		}
		existing = append(existing, variation)
		created = append(created, variation)
	}
	return created, nil
}

func hasColor(variations []*catalog.ProductVariation, color string) bool {
	for _, v := range variations {
		if v.HasAttribute(ColorAttributeName, color) {
			return true
		}
	}
	return false
}

// CreateManagedAttribute adds an entry to the attribute palette
func (s *VariationCurationService) CreateManagedAttribute(ctx context.Context, input ManagedAttributeInput) (*catalog.ManagedAttribute, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.ErrInvalidInput.WithMessage(err.Error())
	}
	attribute, err := catalog.NewManagedAttribute(input.Type, input.Name, input.Value, input.HexCode, input.SortOrder, s.now())
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context, repos integration.Repositories) error {
		_, err := repos.Attributes.FindByTypeAndValue(ctx, attribute.Type, attribute.Value)
		switch {
		case err == nil:
			return catalog.ErrDuplicateAttribute
		case !errors.Is(err, shared.ErrNotFound):
			return err
		}
		return repos.Attributes.Save(ctx, attribute)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Managed attribute created",
		zap.String("attribute_id", attribute.ID.String()),
		zap.String("type", attribute.Type),
		zap.String("value", attribute.Value),
	)
	return attribute, nil
}

// ListManagedAttributes lists the palette of one type
func (s *VariationCurationService) ListManagedAttributes(ctx context.Context, attrType string, activeOnly bool) ([]*catalog.ManagedAttribute, error) {
	attrType = strings.ToLower(strings.TrimSpace(attrType))
	if attrType == "" {
		return nil, shared.ErrInvalidInput.WithMessage("attribute type is required")
	}
	var attributes []*catalog.ManagedAttribute
	err := s.uow.Do(ctx, func(ctx context.Context, repos integration.Repositories) error {
		var err error
		attributes, err = repos.Attributes.FindByType(ctx, attrType, activeOnly)
		return err
	})
	return attributes, err
}

// SetManagedAttributeActive activates or retires a palette entry. Existing
// variations keep their attributes.
func (s *VariationCurationService) SetManagedAttributeActive(ctx context.Context, id uuid.UUID, active bool) (*catalog.ManagedAttribute, error) {
	var attribute *catalog.ManagedAttribute
	err := s.uow.Do(ctx, func(ctx context.Context, repos integration.Repositories) error {
		var err error
		attribute, err = repos.Attributes.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !attribute.SetActive(active, s.now()) {
			return nil
		}
		return repos.Attributes.Save(ctx, attribute)
	})
	if err != nil {
		return nil, err
	}
	return attribute, nil
}

// DeleteLocalVariation deletes a local-owned variation. Remote-owned
// variations can only disappear through sync.
func (s *VariationCurationService) DeleteLocalVariation(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(ctx context.Context, repos integration.Repositories) error {
		variation, err := repos.Variations.FindByID(ctx, id)
		if err != nil {
			return err
		}
		switch variation.Ownership.(type) {
		case catalog.LocalOwned:
			return repos.Variations.Delete(ctx, id)
		default:
			return shared.ErrInvalidState.WithMessage("remote-owned variations are managed by sync")
		}
	})
}
