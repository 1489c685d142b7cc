package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/erp/storesync/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	BaseModel
	RemoteID         int64           `gorm:"not null;uniqueIndex:idx_products_remote_id"`
	Name             string          `gorm:"type:varchar(255)"`
	Slug             string          `gorm:"type:varchar(255);index"`
	SKU              string          `gorm:"column:sku;type:varchar(100);index"`
	Price            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RegularPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Description      string          `gorm:"type:text"`
	ShortDescription string          `gorm:"type:text"`
	Type             string          `gorm:"type:varchar(20)"`
	Status           string          `gorm:"type:varchar(20)"`
	RemoteCreatedAt  *time.Time
	RemoteModifiedAt *time.Time `gorm:"column:remote_modified_at"`
	LastSyncedAt     *time.Time
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity: m.BaseModel.ToDomain(),
		RemoteID:   m.RemoteID,
		ProductDetails: catalog.ProductDetails{
			Name:             m.Name,
			Slug:             m.Slug,
			SKU:              m.SKU,
			Price:            m.Price,
			RegularPrice:     m.RegularPrice,
			SalePrice:        m.SalePrice,
			Description:      m.Description,
			ShortDescription: m.ShortDescription,
			Type:             m.Type,
			Status:           m.Status,
			RemoteCreatedAt:  m.RemoteCreatedAt,
		},
		ModifiedAt:   m.RemoteModifiedAt,
		LastSyncedAt: m.LastSyncedAt,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.RemoteID = p.RemoteID
	m.Name = p.Name
	m.Slug = p.Slug
	m.SKU = p.SKU
	m.Price = p.Price
	m.RegularPrice = p.RegularPrice
	m.SalePrice = p.SalePrice
	m.Description = p.Description
	m.ShortDescription = p.ShortDescription
	m.Type = p.Type
	m.Status = p.Status
	m.RemoteCreatedAt = p.RemoteCreatedAt
	m.RemoteModifiedAt = p.ModifiedAt
	m.LastSyncedAt = p.LastSyncedAt
}

// ProductModelFromDomain creates a new persistence model from domain entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductVariationModel is the persistence model for a product variation.
// A NULL remote_id marks a locally curated variation.
type ProductVariationModel struct {
	BaseModel
	ProductID        uuid.UUID                                     `gorm:"type:uuid;not null;index"`
	RemoteID         *int64                                        `gorm:"uniqueIndex:idx_product_variations_remote_id"`
	SKU              string                                        `gorm:"column:sku;type:varchar(100)"`
	Price            decimal.Decimal                               `gorm:"type:decimal(18,4);not null;default:0"`
	RegularPrice     decimal.Decimal                               `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice        decimal.Decimal                               `gorm:"type:decimal(18,4);not null;default:0"`
	Description      string                                        `gorm:"type:text"`
	Attributes       datatypes.JSONSlice[catalog.VariationAttribute] `gorm:"type:jsonb"`
	Weight           string                                        `gorm:"type:varchar(20)"`
	Length           string                                        `gorm:"type:varchar(20)"`
	Width            string                                        `gorm:"type:varchar(20)"`
	Height           string                                        `gorm:"type:varchar(20)"`
	Status           string                                        `gorm:"type:varchar(20)"`
	RemoteCreatedAt  *time.Time
	RemoteModifiedAt *time.Time `gorm:"column:remote_modified_at"`
	LastSyncedAt     *time.Time
}

// TableName returns the table name for GORM
func (ProductVariationModel) TableName() string {
	return "product_variations"
}

// ToDomain converts the persistence model to a domain ProductVariation.
func (m *ProductVariationModel) ToDomain() *catalog.ProductVariation {
	return &catalog.ProductVariation{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		Ownership:  catalog.OwnershipFromRemoteID(m.RemoteID),
		VariationDetails: catalog.VariationDetails{
			SKU:          m.SKU,
			Price:        m.Price,
			RegularPrice: m.RegularPrice,
			SalePrice:    m.SalePrice,
			Description:  m.Description,
			Attributes:   m.Attributes,
			Weight:       m.Weight,
			Dimensions: catalog.Dimensions{
				Length: m.Length,
				Width:  m.Width,
				Height: m.Height,
			},
			Status:          m.Status,
			RemoteCreatedAt: m.RemoteCreatedAt,
		},
		ModifiedAt:   m.RemoteModifiedAt,
		LastSyncedAt: m.LastSyncedAt,
	}
}

// FromDomain populates the persistence model from a domain ProductVariation.
func (m *ProductVariationModel) FromDomain(v *catalog.ProductVariation) {
	attributes := datatypes.JSONSlice[catalog.VariationAttribute](v.Attributes)
	if attributes == nil {
		attributes = datatypes.JSONSlice[catalog.VariationAttribute]{}
	}
	m.FromDomainBaseEntity(v.BaseEntity)
	m.ProductID = v.ProductID
	m.RemoteID = catalog.RemoteIDOf(v.Ownership)
	m.SKU = v.SKU
	m.Price = v.Price
	m.RegularPrice = v.RegularPrice
	m.SalePrice = v.SalePrice
	m.Description = v.Description
	m.Attributes = attributes
	m.Weight = v.Weight
	m.Length = v.Dimensions.Length
	m.Width = v.Dimensions.Width
	m.Height = v.Dimensions.Height
	m.Status = v.Status
	m.RemoteCreatedAt = v.RemoteCreatedAt
	m.RemoteModifiedAt = v.ModifiedAt
	m.LastSyncedAt = v.LastSyncedAt
}

// VariationAttributeModel is the persistence model for a managed palette entry
type VariationAttributeModel struct {
	BaseModel
	AttributeType  string `gorm:"type:varchar(50);not null;uniqueIndex:idx_variation_attributes_type_value,priority:1"`
	AttributeName  string `gorm:"type:varchar(100);not null"`
	AttributeValue string `gorm:"type:varchar(100);not null;uniqueIndex:idx_variation_attributes_type_value,priority:2"`
	HexCode        string `gorm:"type:varchar(7);not null;default:''"`
	SortOrder      int    `gorm:"not null;default:0"`
	Active         bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VariationAttributeModel) TableName() string {
	return "variation_attributes"
}

// ToDomain converts the persistence model to a domain ManagedAttribute.
func (m *VariationAttributeModel) ToDomain() *catalog.ManagedAttribute {
	return &catalog.ManagedAttribute{
		BaseEntity: m.BaseModel.ToDomain(),
		Type:       m.AttributeType,
		Name:       m.AttributeName,
		Value:      m.AttributeValue,
		HexCode:    m.HexCode,
		SortOrder:  m.SortOrder,
		Active:     m.Active,
	}
}

// FromDomain populates the persistence model from a domain ManagedAttribute.
func (m *VariationAttributeModel) FromDomain(a *catalog.ManagedAttribute) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.AttributeType = a.Type
	m.AttributeName = a.Name
	m.AttributeValue = a.Value
	m.HexCode = a.HexCode
	m.SortOrder = a.SortOrder
	m.Active = a.Active
}
