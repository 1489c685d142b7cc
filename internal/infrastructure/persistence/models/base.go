package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/storesync/internal/domain/shared"
)

// BaseModel holds the local identity and audit columns of a mirrored row
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns an ID when the entity was built without one
func (m *BaseModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	*m = BaseModel{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

// All lists the mirror schema in dependency order for AutoMigrate
func All() []any {
	return []any{
		&SyncCheckpointModel{},
		&CustomerModel{},
		&ProductModel{},
		&ProductVariationModel{},
		&VariationAttributeModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
