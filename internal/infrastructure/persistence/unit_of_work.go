package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/erp/storesync/internal/domain/integration"
)

// GormUnitOfWork runs reconciliation steps inside a database transaction.
// Every repository handed to the callback is bound to the same transaction,
// so a returned error or a panic rolls all of its writes back.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Do executes fn within a transaction
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos integration.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, RepositoriesFor(tx))
	})
}

// RepositoriesFor builds the reconciliation repositories on top of db
func RepositoriesFor(db *gorm.DB) integration.Repositories {
	return integration.Repositories{
		Customers:  NewGormCustomerRepository(db),
		Orders:     NewGormOrderRepository(db),
		Products:   NewGormProductRepository(db),
		Variations: NewGormProductVariationRepository(db),
		Attributes: NewGormManagedAttributeRepository(db),
	}
}

// Ensure GormUnitOfWork implements UnitOfWork
var _ integration.UnitOfWork = (*GormUnitOfWork)(nil)
