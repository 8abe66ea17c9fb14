package models

import "time"

// Timesheet status values. Routing beyond draft/submitted lives outside this
// service.
const (
	TimesheetStatusDraft     = "draft"
	TimesheetStatusSubmitted = "submitted"
)

// Timesheet represents the timesheets table. One draft timesheet per
// (project, user) is bootstrapped when a planned project is finalized.
type Timesheet struct {
	TimesheetID    int        `gorm:"primaryKey;column:timesheet_id" json:"timesheet_id"`
	ProjectID      int        `gorm:"column:project_id;uniqueIndex:uq_timesheet_project_user" json:"project_id"`
	UserID         int        `gorm:"column:user_id;uniqueIndex:uq_timesheet_project_user" json:"user_id"`
	OrganizationID int        `gorm:"column:organization_id" json:"organization_id"`
	Reference      string     `gorm:"column:reference" json:"reference"`
	Status         string     `gorm:"column:status" json:"status"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`

	User    User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project Project          `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Entries []TimesheetEntry `gorm:"foreignKey:TimesheetID;references:TimesheetID" json:"entries,omitempty"`
}

// TableName overrides the table name for Timesheet
func (Timesheet) TableName() string {
	return "timesheets"
}

// TimesheetEntry represents the timesheet_entries table: hours actually
// worked on a date. These feed the actual-cost side of the cost summary.
type TimesheetEntry struct {
	EntryID     int        `gorm:"primaryKey;column:entry_id" json:"entry_id"`
	TimesheetID int        `gorm:"column:timesheet_id" json:"timesheet_id"`
	WorkDate    time.Time  `gorm:"column:work_date;type:date" json:"work_date"`
	Hours       float64    `gorm:"column:hours" json:"hours"`
	Note        *string    `gorm:"column:note" json:"note,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
}

// TableName overrides the table name for TimesheetEntry
func (TimesheetEntry) TableName() string {
	return "timesheet_entries"
}
