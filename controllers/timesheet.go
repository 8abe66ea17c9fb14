package controllers

import (
	"net/http"
	"time"

	"timesheet-planning-api/config"
	"timesheet-planning-api/models"
	"timesheet-planning-api/utils"

	"github.com/gin-gonic/gin"
)

// GetProjectTimesheets lists the timesheets bootstrapped for a project
func GetProjectTimesheets(c *gin.Context) {
	project, ok := loadOrgProject(c, c.Param("id"))
	if !ok {
		return
	}

	var timesheets []models.Timesheet
	err := config.DB.Preload("User").
		Preload("Entries").
		Where("project_id = ?", project.ProjectID).
		Order("timesheet_id ASC").
		Find(&timesheets).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch timesheets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"timesheets": timesheets,
		"total":      len(timesheets),
	})
}

// AddTimesheetEntry logs hours on the caller's own timesheet. These entries
// are the actual-cost input of the cost summary.
func AddTimesheetEntry(c *gin.Context) {
	timesheetID, ok := parseID(c, "id")
	if !ok {
		return
	}

	type request struct {
		WorkDate string  `json:"work_date" binding:"required"`
		Hours    float64 `json:"hours" binding:"required,gt=0"`
		Note     *string `json:"note"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workDate, err := time.Parse("2006-01-02", req.WorkDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid work_date format. Use YYYY-MM-DD"})
		return
	}

	userID, _ := c.Get("userID")

	var timesheet models.Timesheet
	err = config.DB.
		Where("timesheet_id = ? AND user_id = ? AND organization_id = ?",
			timesheetID, userID, callerOrganizationID(c)).
		First(&timesheet).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Timesheet not found"})
		return
	}

	if timesheet.Status != models.TimesheetStatusDraft {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot add entries to a submitted timesheet"})
		return
	}

	now := time.Now()
	var note *string
	if req.Note != nil {
		sanitized := utils.SanitizeInput(*req.Note)
		note = &sanitized
	}
	entry := models.TimesheetEntry{
		TimesheetID: timesheet.TimesheetID,
		WorkDate:    workDate,
		Hours:       req.Hours,
		Note:        note,
		CreateAt:    &now,
		UpdateAt:    &now,
	}

	if err := config.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add entry"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Entry added",
		"entry":   entry,
	})
}
