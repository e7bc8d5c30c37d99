package models

import (
	"time"
)

type Organization struct {
	ID               uint64    `gorm:"primarykey" json:"id"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	SuperuserID      uint64    `gorm:"not null" json:"superuser_id"`
	SubscriptionTier string    `gorm:"type:varchar(50);not null;default:'free'" json:"subscription_tier"`
	MaxUsers         int       `gorm:"not null;default:5" json:"max_users"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relations
	Superuser User                 `gorm:"foreignKey:SuperuserID" json:"superuser,omitempty"`
	Members   []OrganizationMember `gorm:"foreignKey:OrganizationID" json:"members,omitempty"`
	People    []Person             `gorm:"foreignKey:OrganizationID" json:"-"`
	Projects  []Project            `gorm:"foreignKey:OrganizationID" json:"-"`
}
