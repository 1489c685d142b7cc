package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/domain/trade"
	"github.com/erp/storesync/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID, with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByRemoteID finds an order by its remote store id, with its items
func (r *GormOrderRepository) FindByRemoteID(ctx context.Context, remoteID int64) (*trade.Order, error) {
	return r.findOne(ctx, "remote_id = ?", remoteID)
}

func (r *GormOrderRepository) findOne(ctx context.Context, query string, args ...any) (*trade.Order, error) {
	var model models.OrderModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where(query, args...).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates the order row. Items are left untouched; see ReplaceItems.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error
}

// ReplaceItems deletes the stored items of the order and inserts its current ones
func (r *GormOrderRepository) ReplaceItems(ctx context.Context, order *trade.Order) error {
	items := models.OrderItemModelsFromDomain(order)
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", order.ID).Delete(&models.OrderItemModel{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
