package integration

import (
	"context"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/trade"
)

// Repositories is the set of repositories bound to one unit of work
type Repositories struct {
	Customers  partner.CustomerRepository
	Orders     trade.OrderRepository
	Products   catalog.ProductRepository
	Variations catalog.ProductVariationRepository
	Attributes catalog.ManagedAttributeRepository
}

// UnitOfWork runs fn atomically. All writes made through repos are
// committed when fn returns nil and rolled back otherwise, including when
// fn panics.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
