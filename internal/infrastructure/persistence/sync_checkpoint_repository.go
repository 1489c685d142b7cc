package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/infrastructure/persistence/models"
)

// GormSyncCheckpointRepository implements SyncCheckpointRepository using GORM
type GormSyncCheckpointRepository struct {
	db *gorm.DB
}

// NewGormSyncCheckpointRepository creates a new GormSyncCheckpointRepository
func NewGormSyncCheckpointRepository(db *gorm.DB) *GormSyncCheckpointRepository {
	return &GormSyncCheckpointRepository{db: db}
}

// FindByDomain finds the checkpoint of a sync domain
func (r *GormSyncCheckpointRepository) FindByDomain(ctx context.Context, domain integration.SyncDomain) (*integration.SyncCheckpoint, error) {
	var model models.SyncCheckpointModel
	if err := r.db.WithContext(ctx).First(&model, "domain = ?", string(domain)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every checkpoint ordered by domain
func (r *GormSyncCheckpointRepository) FindAll(ctx context.Context) ([]*integration.SyncCheckpoint, error) {
	var rows []models.SyncCheckpointModel
	if err := r.db.WithContext(ctx).Order("domain ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	checkpoints := make([]*integration.SyncCheckpoint, len(rows))
	for i := range rows {
		checkpoints[i] = rows[i].ToDomain()
	}
	return checkpoints, nil
}

// CreateIfAbsent inserts the checkpoint unless one already exists for its
// domain, and returns the stored row either way.
func (r *GormSyncCheckpointRepository) CreateIfAbsent(ctx context.Context, checkpoint *integration.SyncCheckpoint) (*integration.SyncCheckpoint, error) {
	model := models.SyncCheckpointModelFromDomain(checkpoint)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "domain"}},
			DoNothing: true,
		}).
		Create(model).Error
	if err != nil {
		return nil, err
	}
	return r.FindByDomain(ctx, checkpoint.Domain)
}

// Save updates all columns of the checkpoint
func (r *GormSyncCheckpointRepository) Save(ctx context.Context, checkpoint *integration.SyncCheckpoint) error {
	model := models.SyncCheckpointModelFromDomain(checkpoint)
	return r.db.WithContext(ctx).Save(model).Error
}

// TryBeginRun flips the checkpoint to RUNNING with a conditional UPDATE and
// reads the row back in the same transaction. The row itself is the run lock
// across processes: nil is returned when it is already RUNNING or PAUSED.
func (r *GormSyncCheckpointRepository) TryBeginRun(ctx context.Context, checkpoint *integration.SyncCheckpoint) (*integration.SyncCheckpoint, error) {
	var locked *integration.SyncCheckpoint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SyncCheckpointModel{}).
			Where("domain = ? AND status NOT IN ?", string(checkpoint.Domain), []string{
				string(integration.CheckpointStatusRunning),
				string(integration.CheckpointStatusPaused),
			}).
			Updates(map[string]any{
				"status":                  string(checkpoint.Status),
				"last_attempted_sync":     checkpoint.LastAttemptedSync,
				"total_records_processed": checkpoint.TotalRecordsProcessed,
				"failed_records":          checkpoint.FailedRecords,
				"updated_at":              checkpoint.UpdatedAt,
			})
		if result.Error != nil || result.RowsAffected != 1 {
			return result.Error
		}

		var model models.SyncCheckpointModel
		if err := tx.First(&model, "domain = ?", string(checkpoint.Domain)).Error; err != nil {
			return err
		}
		locked = model.ToDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return locked, nil
}

// TryPause parks the domain unless a run holds it
func (r *GormSyncCheckpointRepository) TryPause(ctx context.Context, domain integration.SyncDomain, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SyncCheckpointModel{}).
		Where("domain = ? AND status <> ?", string(domain), string(integration.CheckpointStatusRunning)).
		Updates(map[string]any{
			"status":     string(integration.CheckpointStatusPaused),
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkInterrupted fails every checkpoint left RUNNING, keeping the last
// processed page so the next run resumes there.
func (r *GormSyncCheckpointRepository) MarkInterrupted(ctx context.Context, message string, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SyncCheckpointModel{}).
		Where("status = ?", string(integration.CheckpointStatusRunning)).
		Updates(map[string]any{
			"status":        string(integration.CheckpointStatusFailed),
			"error_message": message,
			"updated_at":    now,
		})
	return result.RowsAffected, result.Error
}

// Ensure GormSyncCheckpointRepository implements SyncCheckpointRepository
var _ integration.SyncCheckpointRepository = (*GormSyncCheckpointRepository)(nil)
