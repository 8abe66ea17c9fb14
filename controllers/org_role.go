package controllers

import (
	"net/http"
	"time"

	"timesheet-planning-api/config"
	"timesheet-planning-api/models"
	"timesheet-planning-api/utils"

	"github.com/gin-gonic/gin"
)

// GetOrgRoles lists the active planning roles of the caller's organization
func GetOrgRoles(c *gin.Context) {
	var roles []models.OrgRole
	err := config.DB.
		Where("organization_id = ? AND is_active = 1 AND delete_at IS NULL", callerOrganizationID(c)).
		Order("display_order ASC, org_role_id ASC").
		Find(&roles).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch roles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"roles":   roles,
		"total":   len(roles),
	})
}

// CreateOrgRole adds a planning role to the catalog (admin only)
func CreateOrgRole(c *gin.Context) {
	type request struct {
		Name                string  `json:"name" binding:"required"`
		DefaultHourlyRate   float64 `json:"default_hourly_rate"`
		DefaultCustomerRate float64 `json:"default_customer_rate"`
		DisplayOrder        int     `json:"display_order"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.DefaultHourlyRate < 0 || req.DefaultCustomerRate < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rates must not be negative"})
		return
	}

	now := time.Now()
	role := models.OrgRole{
		OrganizationID:      callerOrganizationID(c),
		Name:                utils.SanitizeInput(req.Name),
		DefaultHourlyRate:   req.DefaultHourlyRate,
		DefaultCustomerRate: req.DefaultCustomerRate,
		DisplayOrder:        req.DisplayOrder,
		IsActive:            true,
		CreateAt:            &now,
		UpdateAt:            &now,
	}

	if err := config.DB.Create(&role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create role"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Role created successfully",
		"role":    role,
	})
}
