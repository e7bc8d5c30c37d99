package models

import "time"

// LeaveRecord is a cached approved time-off transaction from the HR system.
type LeaveRecord struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	ExternalID   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"external_id"`
	EmployeeID   string    `gorm:"type:varchar(64);index" json:"employee_id"`
	EmployeeName string    `gorm:"type:varchar(255)" json:"employee_name"`
	Status       string    `gorm:"type:varchar(50);not null" json:"status"`
	Payload      string    `gorm:"type:text" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// SyncState tracks pagination progress and timestamps of a sync job.
type SyncState struct {
	Key           string     `gorm:"primarykey;column:sync_key;type:varchar(64)" json:"key"`
	LastPage      int        `gorm:"not null;default:0" json:"last_page"`
	LastUpdated   *time.Time `json:"last_updated"`
	LastAutoFetch *time.Time `json:"last_auto_fetch"`
}
