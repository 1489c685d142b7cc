package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/storesync/internal/domain/shared"
)

// OrderStatus represents the status of a mirrored store order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusOnHold     OrderStatus = "ON_HOLD"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
	OrderStatusFailed     OrderStatus = "FAILED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusOnHold, OrderStatusCompleted,
		OrderStatusCancelled, OrderStatusRefunded, OrderStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// ParseRemoteOrderStatus maps a store status such as "on-hold" onto an
// OrderStatus. Unknown values map to PENDING and ok is false.
func ParseRemoteOrderStatus(remote string) (status OrderStatus, ok bool) {
	s := OrderStatus(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(remote), "-", "_")))
	if !s.IsValid() {
		return OrderStatusPending, false
	}
	return s, true
}

// ItemMetadata is one display-relevant metadata entry of a line item
type ItemMetadata struct {
	Key          string `json:"key"`
	DisplayKey   string `json:"display_key"`
	Value        string `json:"value"`
	DisplayValue string `json:"display_value"`
}

// OrderItem is a line item of a mirrored order
type OrderItem struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	RemoteID        int64
	RemoteProductID int64
	Name            string
	Quantity        int
	Total           decimal.Decimal
	Metadata        []ItemMetadata
}

// Order is the local mirror of a store order. Orders always originate
// remotely, so RemoteID is required.
type Order struct {
	shared.BaseEntity
	RemoteID        int64
	OrderNumber     string
	Status          OrderStatus
	Total           decimal.Decimal
	CustomerID      *uuid.UUID
	RemoteCreatedAt *time.Time
	ModifiedAt      *time.Time
	LastSyncedAt    *time.Time
	Items           []OrderItem
}

// NewOrder creates an order for the given store id
func NewOrder(remoteID int64, now time.Time) (*Order, error) {
	if remoteID <= 0 {
		return nil, shared.ErrInvalidInput.WithMessage("remote order id must be positive")
	}
	return &Order{
		BaseEntity: shared.NewBaseEntityAt(now),
		RemoteID:   remoteID,
		Status:     OrderStatusPending,
		Total:      decimal.Zero,
		Items:      make([]OrderItem, 0),
	}, nil
}

// ApplyRemote overwrites the store-owned header fields
func (o *Order) ApplyRemote(number string, status OrderStatus, total decimal.Decimal, createdAt, modifiedAt *time.Time) {
	o.OrderNumber = number
	o.Status = status
	o.Total = total
	o.RemoteCreatedAt = createdAt
	o.ModifiedAt = modifiedAt
}

// AssignCustomer links the order to a local customer; nil unlinks it
func (o *Order) AssignCustomer(customerID *uuid.UUID) {
	o.CustomerID = customerID
}

// ReplaceItems swaps the full line-item set for the given items
func (o *Order) ReplaceItems(items []OrderItem) {
	replaced := make([]OrderItem, 0, len(items))
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = o.ID
		replaced = append(replaced, item)
	}
	o.Items = replaced
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// MarkSynced records that a sync pass considered this order
func (o *Order) MarkSynced(now time.Time) {
	o.LastSyncedAt = &now
	o.Touch(now)
}
