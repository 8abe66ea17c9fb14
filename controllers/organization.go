package controllers

import (
	"net/http"
	"time"

	"timesheet-planning-api/config"
	"timesheet-planning-api/models"
	"timesheet-planning-api/utils"

	"github.com/gin-gonic/gin"
)

// callerOrganizationID returns the organization the authenticated user
// belongs to. Every org-scoped query filters on it.
func callerOrganizationID(c *gin.Context) int {
	orgID, _ := c.Get("organizationID")
	id, _ := orgID.(int)
	return id
}

// CreateOrganization handles organization onboarding (admin only)
func CreateOrganization(c *gin.Context) {
	type request struct {
		Name           string `json:"name" binding:"required"`
		CurrencyCode   string `json:"currency_code" binding:"required,len=3"`
		CurrencySymbol string `json:"currency_symbol" binding:"required"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	org := models.Organization{
		Name:           utils.SanitizeInput(req.Name),
		CurrencyCode:   req.CurrencyCode,
		CurrencySymbol: req.CurrencySymbol,
		CreateAt:       &now,
		UpdateAt:       &now,
	}

	if err := config.DB.Create(&org).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create organization"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Organization created successfully",
		"organization": org,
	})
}

// GetOrganization returns the caller's own organization
func GetOrganization(c *gin.Context) {
	var org models.Organization
	if err := config.DB.Where("organization_id = ? AND delete_at IS NULL", callerOrganizationID(c)).
		First(&org).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"organization": org})
}
