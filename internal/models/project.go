package models

import (
	"time"
)

type ProjectType string

const (
	ProjectTypeInternal   ProjectType = "Internal"
	ProjectTypeExternal   ProjectType = "External"
	ProjectTypeInitiative ProjectType = "Initiative"
)

// ProjectTypes lists the accepted project types in display order.
var ProjectTypes = []ProjectType{ProjectTypeExternal, ProjectTypeInternal, ProjectTypeInitiative}

// Valid reports whether t is a known project type.
func (t ProjectType) Valid() bool {
	for _, known := range ProjectTypes {
		if t == known {
			return true
		}
	}
	return false
}

type ProjectStatus string

const (
	ProjectStatusNotStarted ProjectStatus = "Not Started"
	ProjectStatusActive     ProjectStatus = "Active"
	ProjectStatusOnHold     ProjectStatus = "On Hold"
	ProjectStatusCompleted  ProjectStatus = "Completed"
	ProjectStatusCancelled  ProjectStatus = "Cancelled"
	ProjectStatusOverdue    ProjectStatus = "Overdue"
)

// ProjectStatuses lists the accepted stored statuses in display order.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusNotStarted,
	ProjectStatusActive,
	ProjectStatusOnHold,
	ProjectStatusCompleted,
	ProjectStatusCancelled,
	ProjectStatusOverdue,
}

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	for _, known := range ProjectStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Project struct {
	ID             uint64        `gorm:"primarykey" json:"id"`
	Name           string        `gorm:"type:varchar(255);not null" json:"name"`
	Type           ProjectType   `gorm:"column:project_type;type:varchar(50);not null" json:"project_type"`
	Status         ProjectStatus `gorm:"type:varchar(50);not null" json:"status"`
	StartDate      time.Time     `gorm:"type:date;not null" json:"start_date"`
	EndDate        time.Time     `gorm:"type:date;not null" json:"end_date"`
	OrganizationID uint64        `gorm:"not null;index" json:"organization_id"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Assignments  []Assignment `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
}
