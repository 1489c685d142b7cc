package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/erp/storesync/internal/domain/integration"
)

// SyncCheckpointModel is the persistence model for a per-domain sync checkpoint.
type SyncCheckpointModel struct {
	ID                    uuid.UUID                    `gorm:"type:uuid;primary_key"`
	Domain                integration.SyncDomain       `gorm:"type:varchar(20);not null;uniqueIndex:idx_sync_checkpoints_domain"`
	Status                integration.CheckpointStatus `gorm:"type:varchar(20);not null;default:'SUCCESS'"`
	LastSuccessfulSync    *time.Time
	LastAttemptedSync     *time.Time
	LastProcessedPage     *int
	TotalRecordsProcessed int       `gorm:"not null;default:0"`
	FailedRecords         int       `gorm:"not null;default:0"`
	ErrorMessage          *string   `gorm:"type:text"`
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncCheckpointModel) TableName() string {
	return "sync_checkpoints"
}

// ToDomain converts the persistence model to a domain SyncCheckpoint.
func (m *SyncCheckpointModel) ToDomain() *integration.SyncCheckpoint {
	return &integration.SyncCheckpoint{
		ID:                    m.ID,
		Domain:                m.Domain,
		Status:                m.Status,
		LastSuccessfulSync:    m.LastSuccessfulSync,
		LastAttemptedSync:     m.LastAttemptedSync,
		LastProcessedPage:     m.LastProcessedPage,
		TotalRecordsProcessed: m.TotalRecordsProcessed,
		FailedRecords:         m.FailedRecords,
		ErrorMessage:          m.ErrorMessage,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain SyncCheckpoint.
func (m *SyncCheckpointModel) FromDomain(c *integration.SyncCheckpoint) {
	m.ID = c.ID
	m.Domain = c.Domain
	m.Status = c.Status
	m.LastSuccessfulSync = c.LastSuccessfulSync
	m.LastAttemptedSync = c.LastAttemptedSync
	m.LastProcessedPage = c.LastProcessedPage
	m.TotalRecordsProcessed = c.TotalRecordsProcessed
	m.FailedRecords = c.FailedRecords
	m.ErrorMessage = c.ErrorMessage
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// SyncCheckpointModelFromDomain creates a new persistence model from domain entity.
func SyncCheckpointModelFromDomain(c *integration.SyncCheckpoint) *SyncCheckpointModel {
	m := &SyncCheckpointModel{}
	m.FromDomain(c)
	return m
}
