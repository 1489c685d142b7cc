package integration

import (
	"context"
	"time"
)

// ---------------------------------------------------------------------------
// Remote record snapshots
// ---------------------------------------------------------------------------

// Remote records are read-only snapshots of the store's REST resources.
// Monetary fields are kept as the raw strings the store returns; parsing
// them is a reconciliation concern. ModifiedAt is nil when the store did
// not send a usable timestamp.

// RemoteAddress is a billing address as sent by the store
type RemoteAddress struct {
	FirstName string
	LastName  string
	Company   string
	Email     string
	Phone     string
	Address1  string
	Address2  string
	City      string
	Postcode  string
	State     string
	Country   string
}

// RemoteCustomer is a customer resource
type RemoteCustomer struct {
	RemoteID   int64
	Email      string
	FirstName  string
	LastName   string
	Billing    RemoteAddress
	ModifiedAt *time.Time
}

// RemoteMetaData is one metadata entry of a line item. Value holds the
// decoded JSON value and may be a string, number, bool, map or slice.
type RemoteMetaData struct {
	ID           int64
	Key          string
	Value        any
	DisplayKey   string
	DisplayValue any
}

// RemoteLineItem is one line of a remote order
type RemoteLineItem struct {
	RemoteID        int64
	Name            string
	RemoteProductID int64
	Quantity        int
	Total           string
	MetaData        []RemoteMetaData
}

// RemoteOrder is an order resource
type RemoteOrder struct {
	RemoteID         int64
	Number           string
	Status           string
	Total            string
	RemoteCustomerID int64 // 0 for guest orders
	Billing          RemoteAddress
	LineItems        []RemoteLineItem
	CreatedAt        *time.Time
	ModifiedAt       *time.Time
}

// IsGuest reports whether the order was placed without a store account
func (o RemoteOrder) IsGuest() bool {
	return o.RemoteCustomerID <= 0
}

// RemoteProduct is a product resource
type RemoteProduct struct {
	RemoteID         int64
	Name             string
	Slug             string
	SKU              string
	Price            string
	RegularPrice     string
	SalePrice        string
	Description      string
	ShortDescription string
	Type             string
	Status           string
	CreatedAt        *time.Time
	ModifiedAt       *time.Time
}

// RemoteAttribute is one selected attribute option of a variation
type RemoteAttribute struct {
	ID     int64
	Name   string
	Option string
}

// RemoteDimensions are the package dimensions of a variation
type RemoteDimensions struct {
	Length string
	Width  string
	Height string
}

// RemoteVariation is a product variation resource
type RemoteVariation struct {
	RemoteID     int64
	SKU          string
	Price        string
	RegularPrice string
	SalePrice    string
	Description  string
	Attributes   []RemoteAttribute
	Weight       string
	Dimensions   RemoteDimensions
	Status       string
	CreatedAt    *time.Time
	ModifiedAt   *time.Time
}

// ---------------------------------------------------------------------------
// RemoteCatalog port
// ---------------------------------------------------------------------------

// RemoteCatalog reads pages of records from the remote store.
//
// Page numbers start at 1 and records are ordered by remote id. A page
// holding fewer than PageSize records, including an empty one, ends the
// stream. modifiedAfter restricts the results to records changed after the
// given instant; nil requests a full scan.
//
// Implementations return ErrRemoteRateLimited, ErrRemoteAPI (usually as a
// *RemoteAPIError) or ErrRemoteUnavailable on failure.
type RemoteCatalog interface {
	// FetchOrders fetches one page of orders
	FetchOrders(ctx context.Context, page int, modifiedAfter *time.Time) ([]RemoteOrder, error)

	// FetchCustomers fetches one page of customers
	FetchCustomers(ctx context.Context, page int, modifiedAfter *time.Time) ([]RemoteCustomer, error)

	// FetchProducts fetches one page of products
	FetchProducts(ctx context.Context, page int, modifiedAfter *time.Time) ([]RemoteProduct, error)

	// FetchProductVariations fetches all variations of one remote product
	FetchProductVariations(ctx context.Context, productRemoteID int64) ([]RemoteVariation, error)

	// PageSize returns the fixed page size used for paged fetches
	PageSize() int
}
