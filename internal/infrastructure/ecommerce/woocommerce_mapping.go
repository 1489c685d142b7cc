package ecommerce

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/erp/storesync/internal/domain/integration"
)

// ParseRemoteTime parses a WooCommerce timestamp. Zone-less values are
// taken as UTC; RFC 3339 values keep their offset. Empty input yields nil.
func ParseRemoteTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(wooTimeLayout, value, time.UTC); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("unrecognized timestamp %q", value)
}

// remoteTime prefers the GMT variant of a date field. An unparseable value
// is dropped with a warning so that one bad field does not reject the record.
func (c *WooCommerceClient) remoteTime(resource string, remoteID int64, field, gmt, local string) *time.Time {
	value := gmt
	if value == "" {
		value = local
	}
	t, err := ParseRemoteTime(value)
	if err != nil {
		c.logger.Warn("Ignoring malformed remote timestamp",
			zap.String("resource", resource),
			zap.Int64("remote_id", remoteID),
			zap.String("field", field),
			zap.Error(err))
		return nil
	}
	return t
}

func toRemoteAddress(a WooAddress) integration.RemoteAddress {
	return integration.RemoteAddress{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Company:   a.Company,
		Email:     a.Email,
		Phone:     a.Phone,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		Postcode:  a.Postcode,
		State:     a.State,
		Country:   a.Country,
	}
}

func (c *WooCommerceClient) toRemoteCustomer(w *WooCustomer) integration.RemoteCustomer {
	return integration.RemoteCustomer{
		RemoteID:   w.ID,
		Email:      w.Email,
		FirstName:  w.FirstName,
		LastName:   w.LastName,
		Billing:    toRemoteAddress(w.Billing),
		ModifiedAt: c.remoteTime("customer", w.ID, "date_modified", w.DateModifiedGMT, w.DateModified),
	}
}

func (c *WooCommerceClient) toRemoteOrder(w *WooOrder) integration.RemoteOrder {
	items := make([]integration.RemoteLineItem, 0, len(w.LineItems))
	for _, li := range w.LineItems {
		meta := make([]integration.RemoteMetaData, 0, len(li.MetaData))
		for _, m := range li.MetaData {
			meta = append(meta, integration.RemoteMetaData{
				ID:           m.ID,
				Key:          m.Key,
				Value:        m.Value,
				DisplayKey:   m.DisplayKey,
				DisplayValue: m.DisplayValue,
			})
		}
		items = append(items, integration.RemoteLineItem{
			RemoteID:        li.ID,
			Name:            li.Name,
			RemoteProductID: li.ProductID,
			Quantity:        li.Quantity,
			Total:           li.Total,
			MetaData:        meta,
		})
	}
	return integration.RemoteOrder{
		RemoteID:         w.ID,
		Number:           w.Number,
		Status:           w.Status,
		Total:            w.Total,
		RemoteCustomerID: w.CustomerID,
		Billing:          toRemoteAddress(w.Billing),
		LineItems:        items,
		CreatedAt:        c.remoteTime("order", w.ID, "date_created", w.DateCreatedGMT, w.DateCreated),
		ModifiedAt:       c.remoteTime("order", w.ID, "date_modified", w.DateModifiedGMT, w.DateModified),
	}
}

func (c *WooCommerceClient) toRemoteProduct(w *WooProduct) integration.RemoteProduct {
	return integration.RemoteProduct{
		RemoteID:         w.ID,
		Name:             w.Name,
		Slug:             w.Slug,
		SKU:              w.SKU,
		Price:            w.Price,
		RegularPrice:     w.RegularPrice,
		SalePrice:        w.SalePrice,
		Description:      w.Description,
		ShortDescription: w.ShortDescription,
		Type:             w.Type,
		Status:           w.Status,
		CreatedAt:        c.remoteTime("product", w.ID, "date_created", w.DateCreatedGMT, w.DateCreated),
		ModifiedAt:       c.remoteTime("product", w.ID, "date_modified", w.DateModifiedGMT, w.DateModified),
	}
}

func (c *WooCommerceClient) toRemoteVariation(w *WooProductVariation) integration.RemoteVariation {
	attributes := make([]integration.RemoteAttribute, 0, len(w.Attributes))
	for _, a := range w.Attributes {
		attributes = append(attributes, integration.RemoteAttribute{
			ID:     a.ID,
			Name:   a.Name,
			Option: a.Option,
		})
	}
	return integration.RemoteVariation{
		RemoteID:     w.ID,
		SKU:          w.SKU,
		Price:        w.Price,
		RegularPrice: w.RegularPrice,
		SalePrice:    w.SalePrice,
		Description:  w.Description,
		Attributes:   attributes,
		Weight:       w.Weight,
		Dimensions: integration.RemoteDimensions{
			Length: w.Dimensions.Length,
			Width:  w.Dimensions.Width,
			Height: w.Dimensions.Height,
		},
		Status:     w.Status,
		CreatedAt:  c.remoteTime("variation", w.ID, "date_created", w.DateCreatedGMT, w.DateCreated),
		ModifiedAt: c.remoteTime("variation", w.ID, "date_modified", w.DateModifiedGMT, w.DateModified),
	}
}

// Ensure WooCommerceClient implements RemoteCatalog
var _ integration.RemoteCatalog = (*WooCommerceClient)(nil)
