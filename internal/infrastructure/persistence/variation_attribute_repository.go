package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/infrastructure/persistence/models"
)

// GormManagedAttributeRepository stores the attribute palette in variation_attributes
type GormManagedAttributeRepository struct {
	db *gorm.DB
}

// NewGormManagedAttributeRepository creates a new GormManagedAttributeRepository
func NewGormManagedAttributeRepository(db *gorm.DB) *GormManagedAttributeRepository {
	return &GormManagedAttributeRepository{db: db}
}

// FindByID finds a palette entry by its ID
func (r *GormManagedAttributeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ManagedAttribute, error) {
	var model models.VariationAttributeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTypeAndValue finds a palette entry by type and value
func (r *GormManagedAttributeRepository) FindByTypeAndValue(ctx context.Context, attrType, value string) (*catalog.ManagedAttribute, error) {
	var model models.VariationAttributeModel
	if err := r.db.WithContext(ctx).
		First(&model, "attribute_type = ? AND attribute_value = ?", strings.ToLower(attrType), value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByType lists the palette of one type
func (r *GormManagedAttributeRepository) FindByType(ctx context.Context, attrType string, activeOnly bool) ([]*catalog.ManagedAttribute, error) {
	query := r.db.WithContext(ctx).Where("attribute_type = ?", strings.ToLower(attrType))
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var rows []models.VariationAttributeModel
	if err := query.Order("sort_order ASC, attribute_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	attributes := make([]*catalog.ManagedAttribute, len(rows))
	for i := range rows {
		attributes[i] = rows[i].ToDomain()
	}
	return attributes, nil
}

// Save creates or updates a palette entry
func (r *GormManagedAttributeRepository) Save(ctx context.Context, attribute *catalog.ManagedAttribute) error {
	model := &models.VariationAttributeModel{}
	model.FromDomain(attribute)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormManagedAttributeRepository implements ManagedAttributeRepository
var _ catalog.ManagedAttributeRepository = (*GormManagedAttributeRepository)(nil)
