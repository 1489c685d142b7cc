package integration

import "github.com/erp/storesync/internal/domain/partner"

// entityCache is a run-scoped write-through cache of customers touched by
// the run. Entries are added only after they were written inside a unit of
// work; the whole cache is dropped whenever a record fails so that no
// rolled-back entity survives into the next record.
type entityCache struct {
	byRemoteID map[int64]*partner.Customer
	byEmail    map[string]*partner.Customer
}

func newEntityCache() *entityCache {
	c := &entityCache{}
	c.reset()
	return c
}

func (c *entityCache) reset() {
	c.byRemoteID = make(map[int64]*partner.Customer)
	c.byEmail = make(map[string]*partner.Customer)
}

func (c *entityCache) customerByRemoteID(id int64) (*partner.Customer, bool) {
	customer, ok := c.byRemoteID[id]
	return customer, ok
}

func (c *entityCache) customerByEmail(email string) (*partner.Customer, bool) {
	customer, ok := c.byEmail[partner.NormalizeEmail(email)]
	return customer, ok
}

func (c *entityCache) putCustomer(customer *partner.Customer) {
	if customer.RemoteID != nil {
		c.byRemoteID[*customer.RemoteID] = customer
	}
	if customer.Email != "" {
		c.byEmail[customer.Email] = customer
	}
}

// evictCustomer removes the keys the customer is currently cached under.
// Call it before changing a customer's email.
func (c *entityCache) evictCustomer(customer *partner.Customer) {
	if customer.RemoteID != nil {
		delete(c.byRemoteID, *customer.RemoteID)
	}
	delete(c.byEmail, customer.Email)
}

func (c *entityCache) size() int {
	return len(c.byEmail)
}
