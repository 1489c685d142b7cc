package partner

import (
	"strings"
	"time"

	"github.com/erp/storesync/internal/domain/shared"
)

// ErrCustomerRemoteIDConflict is returned when an email-matched customer is
// already bound to a different remote customer. Remote ids are never re-keyed.
var ErrCustomerRemoteIDConflict = shared.NewDomainError(
	"CUSTOMER_REMOTE_ID_CONFLICT",
	"Customer is already linked to a different remote customer",
)

// BillingAddress holds the billing contact details mirrored from the store
type BillingAddress struct {
	Company  string
	Phone    string
	Address1 string
	Address2 string
	City     string
	Postcode string
	State    string
	Country  string
}

// IsEmpty reports whether no street address has been recorded
func (a BillingAddress) IsEmpty() bool {
	return strings.TrimSpace(a.Address1) == ""
}

// Customer is the local mirror of a store customer.
//
// A customer with a nil RemoteID was discovered locally (for example as the
// buyer of a guest order) and is keyed by its normalized email until a
// customer sync promotes it.
type Customer struct {
	shared.BaseEntity
	RemoteID     *int64
	Email        string
	FirstName    string
	LastName     string
	Billing      BillingAddress
	ModifiedAt   *time.Time
	LastSyncedAt *time.Time
}

// NormalizeEmail returns the natural-key form of an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewCustomer creates a customer without a remote id
func NewCustomer(email string, now time.Time) (*Customer, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, shared.ErrInvalidInput.WithMessage("customer email is required")
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntityAt(now),
		Email:      email,
	}, nil
}

// IsGuest reports whether the customer has not been confirmed by the store yet
func (c *Customer) IsGuest() bool {
	return c.RemoteID == nil
}

// Promote binds a locally discovered customer to its remote counterpart.
// Promoting to the id the customer already carries is a no-op.
func (c *Customer) Promote(remoteID int64) error {
	if remoteID <= 0 {
		return shared.ErrInvalidInput.WithMessage("remote customer id must be positive")
	}
	if c.RemoteID != nil {
		if *c.RemoteID == remoteID {
			return nil
		}
		return ErrCustomerRemoteIDConflict
	}
	c.RemoteID = &remoteID
	return nil
}

// ApplyRemote overwrites the mirrored fields with a remote snapshot
func (c *Customer) ApplyRemote(email, firstName, lastName string, billing BillingAddress, modifiedAt *time.Time) {
	if normalized := NormalizeEmail(email); normalized != "" {
		c.Email = normalized
	}
	c.FirstName = firstName
	c.LastName = lastName
	c.Billing = billing
	c.ModifiedAt = modifiedAt
}

// FillBlanks copies name, company and address details into fields that are
// still empty. It returns true when anything changed.
func (c *Customer) FillBlanks(firstName, lastName string, billing BillingAddress) bool {
	changed := false
	if c.Billing.IsEmpty() && !billing.IsEmpty() {
		company := c.Billing.Company
		c.Billing = billing
		if company != "" {
			c.Billing.Company = company
		}
		changed = true
	}
	if c.Billing.Company == "" && billing.Company != "" {
		c.Billing.Company = billing.Company
		changed = true
	}
	if c.FirstName == "" && firstName != "" {
		c.FirstName = firstName
		changed = true
	}
	if c.LastName == "" && lastName != "" {
		c.LastName = lastName
		changed = true
	}
	return changed
}

// MarkSynced records that a sync pass considered this customer
func (c *Customer) MarkSynced(now time.Time) {
	c.LastSyncedAt = &now
	c.Touch(now)
}
