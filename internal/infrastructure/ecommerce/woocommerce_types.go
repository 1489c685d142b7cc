package ecommerce

import "encoding/json"

// WooCommerce REST API v3 response shapes. Only the fields the mirror
// stores are declared; everything else is ignored on decode.

// WooAddress is a billing address
type WooAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// WooCustomer is a registered customer
type WooCustomer struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Billing         WooAddress `json:"billing"`
	DateModified    string     `json:"date_modified"`
	DateModifiedGMT string     `json:"date_modified_gmt"`
}

// WooMetaData is a line item meta entry. Values are arbitrary JSON.
type WooMetaData struct {
	ID           int64  `json:"id"`
	Key          string `json:"key"`
	Value        any    `json:"value"`
	DisplayKey   string `json:"display_key"`
	DisplayValue any    `json:"display_value"`
}

// WooLineItem is an order line
type WooLineItem struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	ProductID int64         `json:"product_id"`
	Quantity  int           `json:"quantity"`
	Total     string        `json:"total"`
	MetaData  []WooMetaData `json:"meta_data"`
}

// WooOrder is an order; customer_id is 0 for guest checkouts
type WooOrder struct {
	ID              int64         `json:"id"`
	Number          string        `json:"number"`
	Status          string        `json:"status"`
	Total           string        `json:"total"`
	CustomerID      int64         `json:"customer_id"`
	Billing         WooAddress    `json:"billing"`
	LineItems       []WooLineItem `json:"line_items"`
	DateCreated     string        `json:"date_created"`
	DateCreatedGMT  string        `json:"date_created_gmt"`
	DateModified    string        `json:"date_modified"`
	DateModifiedGMT string        `json:"date_modified_gmt"`
}

// WooProduct is a catalog product
type WooProduct struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	SKU              string `json:"sku"`
	Price            string `json:"price"`
	RegularPrice     string `json:"regular_price"`
	SalePrice        string `json:"sale_price"`
	Description      string `json:"description"`
	ShortDescription string `json:"short_description"`
	Type             string `json:"type"`
	Status           string `json:"status"`
	DateCreated      string `json:"date_created"`
	DateCreatedGMT   string `json:"date_created_gmt"`
	DateModified     string `json:"date_modified"`
	DateModifiedGMT  string `json:"date_modified_gmt"`
}

// WooVariationAttribute is one attribute option of a variation
type WooVariationAttribute struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Option string `json:"option"`
}

// WooDimensions holds package dimensions as strings
type WooDimensions struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// WooProductVariation is a variation of a variable product
type WooProductVariation struct {
	ID              int64                   `json:"id"`
	SKU             string                  `json:"sku"`
	Price           string                  `json:"price"`
	RegularPrice    string                  `json:"regular_price"`
	SalePrice       string                  `json:"sale_price"`
	Description     string                  `json:"description"`
	Attributes      []WooVariationAttribute `json:"attributes"`
	Weight          string                  `json:"weight"`
	Dimensions      WooDimensions           `json:"dimensions"`
	Status          string                  `json:"status"`
	DateCreated     string                  `json:"date_created"`
	DateCreatedGMT  string                  `json:"date_created_gmt"`
	DateModified    string                  `json:"date_modified"`
	DateModifiedGMT string                  `json:"date_modified_gmt"`
}

// wooErrorBody is the error envelope WooCommerce returns with 4xx/5xx
type wooErrorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}
