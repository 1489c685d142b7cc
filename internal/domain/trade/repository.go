package trade

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order (with its items) by local ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByRemoteID finds an order (with its items) by store id.
	// Returns shared.ErrNotFound when absent.
	FindByRemoteID(ctx context.Context, remoteID int64) (*Order, error)

	// Save creates or updates the order row without touching its items
	Save(ctx context.Context, order *Order) error

	// ReplaceItems deletes the stored line items of the order and inserts order.Items
	ReplaceItems(ctx context.Context, order *Order) error
}
