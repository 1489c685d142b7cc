package integration

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReconcileOutcome tells what reconciliation did with one remote record
type ReconcileOutcome string

const (
	OutcomeCreated   ReconcileOutcome = "created"
	OutcomeUpdated   ReconcileOutcome = "updated"
	OutcomeUnchanged ReconcileOutcome = "unchanged" // not newer; only lastSyncedAt moved
)

// ReconcileScope is what a reconciler works with while handling one record.
// Repos are bound to the record's unit of work.
type ReconcileScope struct {
	Repos  integration.Repositories
	Logger *zap.Logger
	Now    time.Time

	cache *entityCache
}

// NewReconcileScope creates a scope with a fresh entity cache
func NewReconcileScope(repos integration.Repositories, logger *zap.Logger, now time.Time) ReconcileScope {
	if logger == nil {
		logger = zap.NewNop()
	}
	return ReconcileScope{Repos: repos, Logger: logger, Now: now, cache: newEntityCache()}
}

func (s ReconcileScope) entities() *entityCache {
	if s.cache == nil {
		return newEntityCache()
	}
	return s.cache
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

// findCustomerByRemoteID returns nil without error when the customer is unknown
func findCustomerByRemoteID(ctx context.Context, scope ReconcileScope, remoteID int64) (*partner.Customer, error) {
	cache := scope.entities()
	if customer, ok := cache.customerByRemoteID(remoteID); ok {
		return customer, nil
	}
	customer, err := scope.Repos.Customers.FindByRemoteID(ctx, remoteID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cache.putCustomer(customer)
	return customer, nil
}

// findCustomerByEmail returns nil without error when the customer is unknown
func findCustomerByEmail(ctx context.Context, scope ReconcileScope, email string) (*partner.Customer, error) {
	email = partner.NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	cache := scope.entities()
	if customer, ok := cache.customerByEmail(email); ok {
		return customer, nil
	}
	customer, err := scope.Repos.Customers.FindByEmail(ctx, email)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cache.putCustomer(customer)
	return customer, nil
}

// ---------------------------------------------------------------------------
// Field mapping
// ---------------------------------------------------------------------------

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes markup tags from store-authored descriptions
func stripHTML(html string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(html, ""))
}

// parseAmount parses a store amount. Blank amounts are zero; malformed ones
// are zero with a warning.
func parseAmount(logger *zap.Logger, raw, field string, remoteID int64) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		logger.Warn("Unparseable amount, using zero",
			zap.String("field", field),
			zap.String("value", raw),
			zap.Int64("remote_id", remoteID),
		)
		return decimal.Zero
	}
	return amount
}

func toBillingAddress(a integration.RemoteAddress) partner.BillingAddress {
	return partner.BillingAddress{
		Company:  a.Company,
		Phone:    a.Phone,
		Address1: a.Address1,
		Address2: a.Address2,
		City:     a.City,
		Postcode: a.Postcode,
		State:    a.State,
		Country:  a.Country,
	}
}

// itemMetadata keeps the display-relevant metadata of a line item. Internal
// keys (leading underscore) and structured values are dropped.
func itemMetadata(entries []integration.RemoteMetaData) []trade.ItemMetadata {
	kept := make([]trade.ItemMetadata, 0, len(entries))
	for _, meta := range entries {
		if meta.Key == "" || strings.HasPrefix(meta.Key, "_") {
			continue
		}
		value, ok := scalarString(meta.Value)
		if !ok {
			continue
		}
		displayValue := value
		if meta.DisplayValue != nil {
			dv, ok := scalarString(meta.DisplayValue)
			if !ok {
				continue
			}
			displayValue = dv
		}
		displayKey := meta.DisplayKey
		if displayKey == "" {
			displayKey = meta.Key
		}
		kept = append(kept, trade.ItemMetadata{
			Key:          meta.Key,
			DisplayKey:   displayKey,
			Value:        value,
			DisplayValue: displayValue,
		})
	}
	return kept
}

// scalarString renders a decoded JSON scalar; ok is false for objects and arrays
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case json.Number:
		return val.String(), true
	case map[string]any, []any:
		return "", false
	default:
		return "", false
	}
}
