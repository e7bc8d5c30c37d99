package models

import (
	"time"
)

type User struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	Email           string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	IsPlatformAdmin bool      `gorm:"not null;default:false" json:"is_platform_admin"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Organizations []OrganizationMember `gorm:"foreignKey:UserID" json:"-"`
}
