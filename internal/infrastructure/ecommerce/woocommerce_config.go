package ecommerce

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults for the WooCommerce REST client
const (
	DefaultWooCommercePerPage = 100
	DefaultWooCommerceTimeout = 30 * time.Second

	// variationsPerPage is the page size of variation requests
	variationsPerPage = 100
)

// ErrWooCommerceConfigInvalid is returned for an unusable client configuration
var ErrWooCommerceConfigInvalid = errors.New("woocommerce: invalid configuration")

// WooCommerceConfig holds configuration for the WooCommerce REST API v3
type WooCommerceConfig struct {
	// BaseURL is the shop root, e.g. https://shop.example.com
	BaseURL        string        `validate:"required,url"`
	ConsumerKey    string        `validate:"required"`
	ConsumerSecret string        `validate:"required"`
	PerPage        int           `validate:"min=1,max=100"`
	Timeout        time.Duration `validate:"gte=0"`
}

// NewWooCommerceConfig creates a configuration with defaults
func NewWooCommerceConfig(baseURL, consumerKey, consumerSecret string) *WooCommerceConfig {
	return &WooCommerceConfig{
		BaseURL:        baseURL,
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		PerPage:        DefaultWooCommercePerPage,
		Timeout:        DefaultWooCommerceTimeout,
	}
}

// Validate validates the configuration and fills in defaults
func (c *WooCommerceConfig) Validate() error {
	if c.PerPage == 0 {
		c.PerPage = DefaultWooCommercePerPage
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultWooCommerceTimeout
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed on %q", ErrWooCommerceConfigInvalid, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrWooCommerceConfigInvalid, err)
	}
	return nil
}
