package models

import "time"

// OneTimeCode stores a bcrypt hash of a login code, never the code itself.
type OneTimeCode struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;index" json:"email"`
	CodeHash  string    `gorm:"type:varchar(255);not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsValid   bool      `gorm:"not null;default:true" json:"is_valid"`
	CreatedAt time.Time `json:"created_at"`
}

func (OneTimeCode) TableName() string {
	return "otps"
}
