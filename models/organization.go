package models

import "time"

// Organization represents the organizations table. Currency code/symbol are
// presentation hints for clients; all planning math is currency-agnostic.
type Organization struct {
	OrganizationID int        `gorm:"primaryKey;column:organization_id" json:"organization_id"`
	Name           string     `gorm:"column:name" json:"name"`
	CurrencyCode   string     `gorm:"column:currency_code" json:"currency_code"`
	CurrencySymbol string     `gorm:"column:currency_symbol" json:"currency_symbol"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides the table name for Organization
func (Organization) TableName() string {
	return "organizations"
}

// OrgRole represents the org_roles table: the organization-scoped catalog of
// planning roles (e.g. "Senior Developer") that allocation rows reference.
// Default rates are copied onto new allocation rows as a convenience; the
// row-level values are authoritative afterwards.
type OrgRole struct {
	OrgRoleID           int        `gorm:"primaryKey;column:org_role_id" json:"org_role_id"`
	OrganizationID      int        `gorm:"column:organization_id" json:"organization_id"`
	Name                string     `gorm:"column:name" json:"name"`
	DefaultHourlyRate   float64    `gorm:"column:default_hourly_rate" json:"default_hourly_rate"`
	DefaultCustomerRate float64    `gorm:"column:default_customer_rate" json:"default_customer_rate"`
	DisplayOrder        int        `gorm:"column:display_order" json:"display_order"`
	IsActive            bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt            *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt            *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt            *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides the table name for OrgRole
func (OrgRole) TableName() string {
	return "org_roles"
}
