package partner

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence.
// Finders return shared.ErrNotFound when no row matches.
type CustomerRepository interface {
	// FindByID finds a customer by its local ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByRemoteID finds a customer by its store id
	FindByRemoteID(ctx context.Context, remoteID int64) (*Customer, error)

	// FindByEmail finds a customer by its normalized email (natural key)
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error
}
