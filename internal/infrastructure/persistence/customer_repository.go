package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/infrastructure/persistence/models"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByRemoteID finds a customer by its remote store id
func (r *GormCustomerRepository) FindByRemoteID(ctx context.Context, remoteID int64) (*partner.Customer, error) {
	return r.findOne(ctx, "remote_id = ?", remoteID)
}

// FindByEmail finds a customer by email. Emails are stored normalized.
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	return r.findOne(ctx, "email = ?", partner.NormalizeEmail(email))
}

func (r *GormCustomerRepository) findOne(ctx context.Context, query string, args ...any) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
