package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides the identity and audit timestamps shared by every
// mirrored entity. The ID is local; remote identifiers live on the
// concrete entity because not every entity has one.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity creates a new base entity with a generated ID
func NewBaseEntity() BaseEntity {
	return NewBaseEntityAt(time.Now())
}

// NewBaseEntityAt creates a base entity stamped with the given time
func NewBaseEntityAt(now time.Time) BaseEntity {
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch records a modification of the local row
func (e *BaseEntity) Touch(now time.Time) {
	e.UpdatedAt = now
}
