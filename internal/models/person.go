package models

import (
	"time"
)

type PersonRole string

const (
	PersonRoleProjectAssociate       PersonRole = "Project Associate"
	PersonRoleSeniorProjectAssociate PersonRole = "Senior Project Associate"
	PersonRoleProjectManager         PersonRole = "Project Manager"
	PersonRoleSeniorProjectManager   PersonRole = "Senior Project Manager"
	PersonRoleSpecialist             PersonRole = "Specialist Role"
)

var PersonRoles = []PersonRole{
	PersonRoleProjectAssociate,
	PersonRoleSeniorProjectAssociate,
	PersonRoleProjectManager,
	PersonRoleSeniorProjectManager,
	PersonRoleSpecialist,
}

func (r PersonRole) Valid() bool {
	for _, known := range PersonRoles {
		if r == known {
			return true
		}
	}
	return false
}

type Availability string

const (
	AvailabilityFullTime Availability = "Full-Time"
	AvailabilityPartTime Availability = "Part-Time"
)

func (a Availability) Valid() bool {
	return a == AvailabilityFullTime || a == AvailabilityPartTime
}

type Person struct {
	ID             uint64       `gorm:"primarykey" json:"id"`
	Name           string       `gorm:"type:varchar(255);not null" json:"name"`
	Role           PersonRole   `gorm:"type:varchar(100);not null" json:"role"`
	Availability   Availability `gorm:"type:varchar(20);not null" json:"availability"`
	OrganizationID uint64       `gorm:"not null;index" json:"organization_id"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Assignments  []Assignment `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
}

// TableName keeps the historical table name.
func (Person) TableName() string {
	return "people"
}
