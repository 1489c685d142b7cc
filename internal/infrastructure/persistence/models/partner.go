package models

import (
	"time"

	"github.com/erp/storesync/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer domain entity.
// remote_id is NULL for guest customers created from orders.
type CustomerModel struct {
	BaseModel
	RemoteID         *int64     `gorm:"uniqueIndex:idx_customers_remote_id"`
	Email            string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_customers_email"`
	FirstName        string     `gorm:"type:varchar(100)"`
	LastName         string     `gorm:"type:varchar(100)"`
	BillingCompany   string     `gorm:"type:varchar(200)"`
	BillingPhone     string     `gorm:"type:varchar(50)"`
	BillingAddress1  string     `gorm:"type:varchar(255)"`
	BillingAddress2  string     `gorm:"type:varchar(255)"`
	BillingCity      string     `gorm:"type:varchar(100)"`
	BillingPostcode  string     `gorm:"type:varchar(20)"`
	BillingState     string     `gorm:"type:varchar(100)"`
	BillingCountry   string     `gorm:"type:varchar(2)"`
	RemoteModifiedAt *time.Time `gorm:"column:remote_modified_at"`
	LastSyncedAt     *time.Time
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		RemoteID:   m.RemoteID,
		Email:      m.Email,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Billing: partner.BillingAddress{
			Company:  m.BillingCompany,
			Phone:    m.BillingPhone,
			Address1: m.BillingAddress1,
			Address2: m.BillingAddress2,
			City:     m.BillingCity,
			Postcode: m.BillingPostcode,
			State:    m.BillingState,
			Country:  m.BillingCountry,
		},
		ModifiedAt:   m.RemoteModifiedAt,
		LastSyncedAt: m.LastSyncedAt,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.RemoteID = c.RemoteID
	m.Email = c.Email
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.BillingCompany = c.Billing.Company
	m.BillingPhone = c.Billing.Phone
	m.BillingAddress1 = c.Billing.Address1
	m.BillingAddress2 = c.Billing.Address2
	m.BillingCity = c.Billing.City
	m.BillingPostcode = c.Billing.Postcode
	m.BillingState = c.Billing.State
	m.BillingCountry = c.Billing.Country
	m.RemoteModifiedAt = c.ModifiedAt
	m.LastSyncedAt = c.LastSyncedAt
}

// CustomerModelFromDomain creates a new persistence model from domain entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
