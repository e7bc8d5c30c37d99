package models

import (
	"time"
)

// Assignment links one person to one project for a date range. A (project, person)
// pair is unique.
type Assignment struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	ProjectID  uint64    `gorm:"not null;uniqueIndex:idx_assignments_project_person" json:"project_id"`
	PersonID   uint64    `gorm:"not null;uniqueIndex:idx_assignments_project_person;index" json:"person_id"`
	Allocation int       `gorm:"not null;check:allocation >= 1 AND allocation <= 100" json:"allocation"`
	StartDate  time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null" json:"end_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Person  Person  `gorm:"foreignKey:PersonID" json:"person,omitempty"`
}
