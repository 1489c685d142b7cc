package integration

import (
	"fmt"
	"strings"
)

// SyncDomain identifies an independently checkpointed sync stream
type SyncDomain string

const (
	SyncDomainProduct  SyncDomain = "PRODUCT"
	SyncDomainCustomer SyncDomain = "CUSTOMER"
	SyncDomainOrder    SyncDomain = "ORDER"
)

// RunOrder is the fixed order in which a full sync visits the domains.
// Products and customers go first so that orders can link to them.
var RunOrder = []SyncDomain{SyncDomainProduct, SyncDomainCustomer, SyncDomainOrder}

// IsValid returns true if the domain is known
func (d SyncDomain) IsValid() bool {
	switch d {
	case SyncDomainProduct, SyncDomainCustomer, SyncDomainOrder:
		return true
	default:
		return false
	}
}

// String returns the string representation of SyncDomain
func (d SyncDomain) String() string {
	return string(d)
}

// ParseSyncDomain parses a domain name case-insensitively; plural forms
// such as "orders" are accepted for URL friendliness
func ParseSyncDomain(s string) (SyncDomain, error) {
	d := SyncDomain(strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(s)), "S"))
	if !d.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSyncDomain, s)
	}
	return d, nil
}
