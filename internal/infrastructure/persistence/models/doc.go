// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: BaseModel shared by every mirrored table
// - partner.go: customers
// - trade.go: orders and their line items
// - catalog.go: products and product variations
// - integration.go: per-domain sync checkpoints
package models
