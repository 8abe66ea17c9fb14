package models

import "time"

// Project status values
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
)

// Project type values
const (
	ProjectTypeSimple  = "simple"
	ProjectTypePlanned = "planned"
)

// Setup status values. Only the planning engine mutates SetupStatus:
// save-draft forces "draft", finalize moves to "ready".
const (
	SetupStatusDraft  = "draft"
	SetupStatusReady  = "ready"
	SetupStatusLocked = "locked"
)

// Project represents the projects table
type Project struct {
	ProjectID      int        `gorm:"primaryKey;column:project_id" json:"project_id"`
	OrganizationID int        `gorm:"column:organization_id" json:"organization_id"`
	Title          string     `gorm:"column:title" json:"title"`
	StartDate      time.Time  `gorm:"column:start_date" json:"start_date"`
	EndDate        time.Time  `gorm:"column:end_date" json:"end_date"`
	Status         string     `gorm:"column:status" json:"status"`
	ProjectType    string     `gorm:"column:project_type" json:"project_type"`
	SetupStatus    string     `gorm:"column:setup_status" json:"setup_status"`
	CreatedBy      *int       `gorm:"column:created_by" json:"created_by"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Organization Organization    `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Members      []ProjectMember `gorm:"foreignKey:ProjectID;references:ProjectID" json:"members,omitempty"`
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}

// ProjectMember represents the project_members table. Rows are materialized
// from validated allocation rows when a planned project is finalized.
type ProjectMember struct {
	MemberID  int        `gorm:"primaryKey;column:member_id" json:"member_id"`
	ProjectID int        `gorm:"column:project_id;uniqueIndex:uq_project_user" json:"project_id"`
	UserID    int        `gorm:"column:user_id;uniqueIndex:uq_project_user" json:"user_id"`
	Duty      string     `gorm:"column:duty" json:"duty"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName overrides the table name for ProjectMember
func (ProjectMember) TableName() string {
	return "project_members"
}
