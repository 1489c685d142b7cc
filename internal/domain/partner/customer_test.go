package partner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/storesync/internal/domain/shared"
)

func TestNewCustomer(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("normalizes email", func(t *testing.T) {
		c, err := NewCustomer("  A@B.com ", now)
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", c.Email)
		assert.True(t, c.IsGuest())
		assert.Equal(t, now, c.CreatedAt)
	})

	t.Run("rejects empty email", func(t *testing.T) {
		_, err := NewCustomer("   ", now)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestCustomer_Promote(t *testing.T) {
	c, err := NewCustomer("a@b.com", time.Now())
	require.NoError(t, err)

	require.NoError(t, c.Promote(42))
	require.NotNil(t, c.RemoteID)
	assert.Equal(t, int64(42), *c.RemoteID)
	assert.False(t, c.IsGuest())

	// same id again is accepted
	assert.NoError(t, c.Promote(42))

	// never re-keyed to another remote customer
	assert.ErrorIs(t, c.Promote(43), ErrCustomerRemoteIDConflict)
	assert.Equal(t, int64(42), *c.RemoteID)

	assert.ErrorIs(t, c.Promote(0), shared.ErrInvalidInput)
}

func TestCustomer_FillBlanks(t *testing.T) {
	billing := BillingAddress{
		Company:  "Acme",
		Phone:    "0612345678",
		Address1: "Markt 1",
		City:     "Roermond",
		Postcode: "6041 EL",
		Country:  "NL",
	}

	t.Run("fills empty customer", func(t *testing.T) {
		c, _ := NewCustomer("a@b.com", time.Now())
		changed := c.FillBlanks("Jan", "Jansen", billing)
		assert.True(t, changed)
		assert.Equal(t, "Jan", c.FirstName)
		assert.Equal(t, "Jansen", c.LastName)
		assert.Equal(t, billing, c.Billing)
	})

	t.Run("keeps existing values", func(t *testing.T) {
		c, _ := NewCustomer("a@b.com", time.Now())
		c.FirstName = "Piet"
		c.Billing = BillingAddress{Address1: "Kerkstraat 2", City: "Venlo"}

		changed := c.FillBlanks("Jan", "Jansen", billing)
		assert.True(t, changed)
		assert.Equal(t, "Piet", c.FirstName)
		assert.Equal(t, "Jansen", c.LastName)
		assert.Equal(t, "Kerkstraat 2", c.Billing.Address1)
		assert.Equal(t, "Venlo", c.Billing.City)
		assert.Equal(t, "Acme", c.Billing.Company)
	})

	t.Run("nothing to fill", func(t *testing.T) {
		c, _ := NewCustomer("a@b.com", time.Now())
		c.FirstName = "Piet"
		c.LastName = "Peters"
		c.Billing = billing
		assert.False(t, c.FillBlanks("Jan", "Jansen", BillingAddress{}))
	})
}

func TestCustomer_ApplyRemote(t *testing.T) {
	c, _ := NewCustomer("old@b.com", time.Now())
	modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	c.ApplyRemote("New@B.com", "Jan", "Jansen", BillingAddress{City: "Roermond"}, &modified)

	assert.Equal(t, "new@b.com", c.Email)
	assert.Equal(t, "Jan", c.FirstName)
	assert.Equal(t, "Roermond", c.Billing.City)
	assert.Equal(t, &modified, c.ModifiedAt)

	// an empty remote email keeps the natural key
	c.ApplyRemote("", "Jan", "Jansen", BillingAddress{}, &modified)
	assert.Equal(t, "new@b.com", c.Email)
}
