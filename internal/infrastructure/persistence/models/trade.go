package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/erp/storesync/internal/domain/trade"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	BaseModel
	RemoteID         int64             `gorm:"not null;uniqueIndex:idx_orders_remote_id"`
	OrderNumber      string            `gorm:"type:varchar(50)"`
	Status           trade.OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Total            decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	CustomerID       *uuid.UUID        `gorm:"type:uuid;index"`
	RemoteCreatedAt  *time.Time
	RemoteModifiedAt *time.Time       `gorm:"column:remote_modified_at"`
	LastSyncedAt     *time.Time
	Items            []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for an order line item.
// Metadata holds the whitelisted line item meta entries as JSON.
type OrderItemModel struct {
	ID              uuid.UUID                               `gorm:"type:uuid;primary_key"`
	OrderID         uuid.UUID                               `gorm:"type:uuid;not null;index"`
	Position        int                                     `gorm:"not null;default:0"`
	RemoteID        int64                                   `gorm:"not null"`
	RemoteProductID int64                                   `gorm:"not null;default:0"`
	Name            string                                  `gorm:"type:varchar(255)"`
	Quantity        int                                     `gorm:"not null;default:0"`
	Total           decimal.Decimal                         `gorm:"type:decimal(18,4);not null;default:0"`
	Metadata        datatypes.JSONSlice[trade.ItemMetadata] `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order entity.
// Items are only populated when they were preloaded.
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		BaseEntity:      m.BaseModel.ToDomain(),
		RemoteID:        m.RemoteID,
		OrderNumber:     m.OrderNumber,
		Status:          m.Status,
		Total:           m.Total,
		CustomerID:      m.CustomerID,
		RemoteCreatedAt: m.RemoteCreatedAt,
		ModifiedAt:      m.RemoteModifiedAt,
		LastSyncedAt:    m.LastSyncedAt,
		Items:           make([]trade.OrderItem, 0, len(m.Items)),
	}
	for i := range m.Items {
		order.Items = append(order.Items, m.Items[i].ToDomain())
	}
	return order
}

// FromDomain populates the order columns from a domain Order. Items are
// written separately, see OrderItemModelsFromDomain.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.RemoteID = o.RemoteID
	m.OrderNumber = o.OrderNumber
	m.Status = o.Status
	m.Total = o.Total
	m.CustomerID = o.CustomerID
	m.RemoteCreatedAt = o.RemoteCreatedAt
	m.RemoteModifiedAt = o.ModifiedAt
	m.LastSyncedAt = o.LastSyncedAt
}

// OrderModelFromDomain creates a new persistence model from domain entity.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:              m.ID,
		OrderID:         m.OrderID,
		RemoteID:        m.RemoteID,
		RemoteProductID: m.RemoteProductID,
		Name:            m.Name,
		Quantity:        m.Quantity,
		Total:           m.Total,
		Metadata:        m.Metadata,
	}
}

// OrderItemModelsFromDomain converts the items of an order, keeping their
// order through the Position column.
func OrderItemModelsFromDomain(o *trade.Order) []OrderItemModel {
	items := make([]OrderItemModel, 0, len(o.Items))
	for i, item := range o.Items {
		metadata := datatypes.JSONSlice[trade.ItemMetadata](item.Metadata)
		if metadata == nil {
			metadata = datatypes.JSONSlice[trade.ItemMetadata]{}
		}
		items = append(items, OrderItemModel{
			ID:              item.ID,
			OrderID:         o.ID,
			Position:        i,
			RemoteID:        item.RemoteID,
			RemoteProductID: item.RemoteProductID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			Total:           item.Total,
			Metadata:        metadata,
		})
	}
	return items
}
