package repository

import (
	"time"

	"github.com/yukikurage/resource-planning-api/internal/models"
	"gorm.io/gorm"
)

// GormOTPRepository is a GORM implementation of OTPRepository
type GormOTPRepository struct {
	db *gorm.DB
}

// NewOTPRepository creates a new OTPRepository
func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &GormOTPRepository{db: db}
}

// Replace invalidates outstanding codes for the email and stores the new one
func (r *GormOTPRepository) Replace(code *models.OneTimeCode) error {
	return translateError(r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OneTimeCode{}).
			Where("email = ? AND is_valid = ?", code.Email, true).
			Update("is_valid", false).Error; err != nil {
			return err
		}
		code.IsValid = true
		return tx.Create(code).Error
	}))
}

// ListValid returns unexpired valid codes for the email, newest first
func (r *GormOTPRepository) ListValid(email string, now time.Time) ([]models.OneTimeCode, error) {
	var codes []models.OneTimeCode
	if err := r.db.Where("email = ? AND is_valid = ? AND expires_at > ?", email, true, now).
		Order("created_at DESC").
		Find(&codes).Error; err != nil {
		return nil, translateError(err)
	}
	return codes, nil
}

// Invalidate marks a code as used
func (r *GormOTPRepository) Invalidate(id uint64) error {
	res := r.db.Model(&models.OneTimeCode{}).Where("id = ?", id).Update("is_valid", false)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
