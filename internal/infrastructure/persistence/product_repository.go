package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/infrastructure/persistence/models"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRemoteID finds a product by its remote store id
func (r *GormProductRepository) FindByRemoteID(ctx context.Context, remoteID int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "remote_id = ?", remoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// GormProductVariationRepository implements ProductVariationRepository using GORM
type GormProductVariationRepository struct {
	db *gorm.DB
}

// NewGormProductVariationRepository creates a new GormProductVariationRepository
func NewGormProductVariationRepository(db *gorm.DB) *GormProductVariationRepository {
	return &GormProductVariationRepository{db: db}
}

// FindByID finds a variation by its ID
func (r *GormProductVariationRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductVariation, error) {
	var model models.ProductVariationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForProduct returns every variation of a product, remote and local, oldest first
func (r *GormProductVariationRepository) FindAllForProduct(ctx context.Context, productID uuid.UUID) ([]*catalog.ProductVariation, error) {
	var rows []models.ProductVariationModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	variations := make([]*catalog.ProductVariation, len(rows))
	for i := range rows {
		variations[i] = rows[i].ToDomain()
	}
	return variations, nil
}

// Save creates or updates a variation
func (r *GormProductVariationRepository) Save(ctx context.Context, variation *catalog.ProductVariation) error {
	model := &models.ProductVariationModel{}
	model.FromDomain(variation)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a variation by ID
func (r *GormProductVariationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductVariationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProductVariationRepository implements ProductVariationRepository
var _ catalog.ProductVariationRepository = (*GormProductVariationRepository)(nil)
