package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/erp/storesync/internal/domain/integration"
)

// maxResponseSize is the maximum allowed response size from the WooCommerce API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// maxErrorBodySize bounds the response text kept on a RemoteAPIError
const maxErrorBodySize = 512

// wooTimeLayout is the zone-less ISO-8601 format WooCommerce uses for dates
// and expects for modified_after
const wooTimeLayout = "2006-01-02T15:04:05"

// WooCommerceClient implements integration.RemoteCatalog against the
// WooCommerce REST API v3. Records are requested in ascending id order so
// that page numbers stay stable while a run resumes.
type WooCommerceClient struct {
	config     *WooCommerceConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWooCommerceClient creates a new client with the given configuration
func NewWooCommerceClient(config *WooCommerceConfig, logger *zap.Logger) (*WooCommerceClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WooCommerceClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.Named("woocommerce"),
	}, nil
}

// PageSize returns the number of records requested per page
func (c *WooCommerceClient) PageSize() int {
	return c.config.PerPage
}

// FetchOrders fetches one page of orders modified after the given time
func (c *WooCommerceClient) FetchOrders(ctx context.Context, page int, modifiedAfter *time.Time) ([]integration.RemoteOrder, error) {
	var raw []WooOrder
	if err := c.getJSON(ctx, "orders", c.pageQuery(page, modifiedAfter), &raw); err != nil {
		return nil, err
	}
	orders := make([]integration.RemoteOrder, 0, len(raw))
	for i := range raw {
		orders = append(orders, c.toRemoteOrder(&raw[i]))
	}
	c.logPage("orders", page, len(orders))
	return orders, nil
}

// FetchCustomers fetches one page of registered customers
func (c *WooCommerceClient) FetchCustomers(ctx context.Context, page int, modifiedAfter *time.Time) ([]integration.RemoteCustomer, error) {
	var raw []WooCustomer
	if err := c.getJSON(ctx, "customers", c.pageQuery(page, modifiedAfter), &raw); err != nil {
		return nil, err
	}
	customers := make([]integration.RemoteCustomer, 0, len(raw))
	for i := range raw {
		customers = append(customers, c.toRemoteCustomer(&raw[i]))
	}
	c.logPage("customers", page, len(customers))
	return customers, nil
}

// FetchProducts fetches one page of products
func (c *WooCommerceClient) FetchProducts(ctx context.Context, page int, modifiedAfter *time.Time) ([]integration.RemoteProduct, error) {
	var raw []WooProduct
	if err := c.getJSON(ctx, "products", c.pageQuery(page, modifiedAfter), &raw); err != nil {
		return nil, err
	}
	products := make([]integration.RemoteProduct, 0, len(raw))
	for i := range raw {
		products = append(products, c.toRemoteProduct(&raw[i]))
	}
	c.logPage("products", page, len(products))
	return products, nil
}

// FetchProductVariations fetches every variation of a variable product,
// following pages of up to 100 records until a short page. The caller
// deletes whatever is missing from the result, so it is all or nothing.
func (c *WooCommerceClient) FetchProductVariations(ctx context.Context, productRemoteID int64) ([]integration.RemoteVariation, error) {
	path := "products/" + strconv.FormatInt(productRemoteID, 10) + "/variations"
	variations := make([]integration.RemoteVariation, 0)

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(variationsPerPage))
		query.Set("orderby", "id")
		query.Set("order", "asc")

		var raw []WooProductVariation
		if err := c.getJSON(ctx, path, query, &raw); err != nil {
			return nil, err
		}
		for i := range raw {
			variations = append(variations, c.toRemoteVariation(&raw[i]))
		}
		if len(raw) < variationsPerPage {
			c.logger.Debug("Fetched product variations",
				zap.Int64("product_remote_id", productRemoteID),
				zap.Int("pages", page),
				zap.Int("count", len(variations)))
			return variations, nil
		}
	}
}

func (c *WooCommerceClient) pageQuery(page int, modifiedAfter *time.Time) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(c.config.PerPage))
	query.Set("orderby", "id")
	query.Set("order", "asc")
	if modifiedAfter != nil {
		query.Set("modified_after", modifiedAfter.UTC().Format(wooTimeLayout))
		query.Set("dates_are_gmt", "true")
	}
	return query
}

func (c *WooCommerceClient) logPage(resource string, page, count int) {
	c.logger.Debug("Fetched page",
		zap.String("resource", resource),
		zap.Int("page", page),
		zap.Int("count", count))
}

// getJSON performs an authenticated GET and decodes the JSON body into out.
// Numbers inside untyped values are kept as json.Number.
func (c *WooCommerceClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.config.BaseURL + "/wp-json/wc/v3/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("woocommerce: failed to create request: %w", err)
	}
	req.SetBasicAuth(c.config.ConsumerKey, c.config.ConsumerSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", integration.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", integration.ErrRemoteUnavailable, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: retry after %q", integration.ErrRemoteRateLimited, resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode >= 400 {
		return &integration.RemoteAPIError{
			StatusCode: resp.StatusCode,
			Body:       errorText(body),
		}
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", integration.ErrRemoteAPI, path, err)
	}
	return nil
}

// errorText extracts the message of a WooCommerce error envelope, falling
// back to the truncated raw body
func errorText(body []byte) string {
	var envelope wooErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		if envelope.Code != "" {
			return envelope.Code + ": " + envelope.Message
		}
		return envelope.Message
	}
	if len(body) > maxErrorBodySize {
		body = body[:maxErrorBodySize]
	}
	return string(bytes.TrimSpace(body))
}
