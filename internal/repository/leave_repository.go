package repository

import (
	"errors"

	"github.com/yukikurage/resource-planning-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLeaveRepository is a GORM implementation of LeaveRepository
type GormLeaveRepository struct {
	db *gorm.DB
}

// NewLeaveRepository creates a new LeaveRepository
func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &GormLeaveRepository{db: db}
}

// SaveRecords inserts records, skipping external ids that are already cached
func (r *GormLeaveRepository) SaveRecords(records []models.LeaveRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	res := r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoNothing: true,
		}).
		CreateInBatches(&records, 100)
	if res.Error != nil {
		return 0, translateError(res.Error)
	}
	return res.RowsAffected, nil
}

// ListByStatus lists cached records with the given status, oldest first
func (r *GormLeaveRepository) ListByStatus(status string) ([]models.LeaveRecord, error) {
	var records []models.LeaveRecord
	if err := r.db.Where("status = ?", status).Order("id ASC").Find(&records).Error; err != nil {
		return nil, translateError(err)
	}
	return records, nil
}

// GetState returns the stored state or a fresh one starting at page zero
func (r *GormLeaveRepository) GetState(key string) (*models.SyncState, error) {
	var state models.SyncState
	err := r.db.Where("sync_key = ?", key).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.SyncState{Key: key}, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &state, nil
}

// SaveState upserts the state by key
func (r *GormLeaveRepository) SaveState(state *models.SyncState) error {
	return translateError(r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sync_key"}},
			UpdateAll: true,
		}).
		Create(state).Error)
}
