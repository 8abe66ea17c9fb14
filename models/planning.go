package models

import "time"

// DefaultSoldCostPercentage is the firm's baked-in overhead applied when a
// setup header is lazily created.
const DefaultSoldCostPercentage = 11.0

// Margin status values produced by the margin engine.
const (
	MarginStatusGreen  = "green"
	MarginStatusYellow = "yellow"
	MarginStatusRed    = "red"
)

// ProjectSetup represents the project_setups table: the per-project planning
// header. TotalWeeks is derived from the project dates; the Total*/Margin*
// fields are derived by the totals updater and never hand-edited.
type ProjectSetup struct {
	SetupID             int        `gorm:"primaryKey;column:setup_id" json:"setup_id"`
	ProjectID           int        `gorm:"column:project_id;uniqueIndex" json:"project_id"`
	TotalWeeks          int        `gorm:"column:total_weeks" json:"total_weeks"`
	CustomerRatePerHour float64    `gorm:"column:customer_rate_per_hour" json:"customer_rate_per_hour"`
	SoldCostPercentage  float64    `gorm:"column:sold_cost_percentage" json:"sold_cost_percentage"`
	TotalInternalHours  float64    `gorm:"column:total_internal_hours" json:"total_internal_hours"`
	TotalInternalCost   float64    `gorm:"column:total_internal_cost" json:"total_internal_cost"`
	TotalCustomerAmount float64    `gorm:"column:total_customer_amount" json:"total_customer_amount"`
	GrossMargin         float64    `gorm:"column:gross_margin" json:"gross_margin"`
	CurrentMargin       float64    `gorm:"column:current_margin" json:"current_margin"`
	MarginStatus        string     `gorm:"column:margin_status" json:"margin_status"`
	CreateAt            *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt            *time.Time `gorm:"column:update_at" json:"update_at"`
}

// TableName overrides the table name for ProjectSetup
func (ProjectSetup) TableName() string {
	return "project_setups"
}

// ProjectRoleAllocation represents the project_role_allocations table: one
// row in the planning grid. Role and user stay nullable so incomplete draft
// rows can be saved; completeness is enforced only at finalize time.
type ProjectRoleAllocation struct {
	AllocationID        int        `gorm:"primaryKey;column:allocation_id" json:"allocation_id"`
	ProjectID           int        `gorm:"column:project_id" json:"project_id"`
	OrgRoleID           *int       `gorm:"column:org_role_id" json:"org_role_id"`
	UserID              *int       `gorm:"column:user_id" json:"user_id"`
	HourlyRate          float64    `gorm:"column:hourly_rate" json:"hourly_rate"`
	CustomerRatePerHour float64    `gorm:"column:customer_rate_per_hour" json:"customer_rate_per_hour"`
	DisplayOrder        int        `gorm:"column:display_order" json:"display_order"`
	TotalHours          float64    `gorm:"column:total_hours" json:"total_hours"`
	TotalAmount         float64    `gorm:"column:total_amount" json:"total_amount"`
	CreateAt            *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt            *time.Time `gorm:"column:update_at" json:"update_at"`

	OrgRole     *OrgRole             `gorm:"foreignKey:OrgRoleID" json:"org_role,omitempty"`
	User        *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	WeeklyHours []ProjectWeeklyHours `gorm:"foreignKey:AllocationID;references:AllocationID" json:"weekly_hours,omitempty"`
}

// TableName overrides the table name for ProjectRoleAllocation
func (ProjectRoleAllocation) TableName() string {
	return "project_role_allocations"
}

// ProjectWeeklyHours represents the project_weekly_hours table. A week with
// no row is "no entry yet", distinct in storage from an explicit 0; the
// calculators collapse both to 0.
type ProjectWeeklyHours struct {
	WeeklyHoursID int        `gorm:"primaryKey;column:weekly_hours_id" json:"weekly_hours_id"`
	AllocationID  int        `gorm:"column:allocation_id;uniqueIndex:uq_allocation_week" json:"allocation_id"`
	WeekNumber    int        `gorm:"column:week_number;uniqueIndex:uq_allocation_week" json:"week_number"`
	Hours         float64    `gorm:"column:hours" json:"hours"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
}

// TableName overrides the table name for ProjectWeeklyHours
func (ProjectWeeklyHours) TableName() string {
	return "project_weekly_hours"
}
