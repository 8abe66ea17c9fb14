package controllers

import (
	"net/http"
	"time"

	"timesheet-planning-api/config"
	"timesheet-planning-api/models"
	"timesheet-planning-api/utils"

	"github.com/gin-gonic/gin"
)

// loadOrgProject fetches a project scoped to the caller's organization,
// writing the 404 itself on a miss.
func loadOrgProject(c *gin.Context, projectID string) (*models.Project, bool) {
	var project models.Project
	err := config.DB.
		Where("project_id = ? AND organization_id = ? AND delete_at IS NULL", projectID, callerOrganizationID(c)).
		First(&project).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return nil, false
	}
	return &project, true
}

// CreateProject handles project creation (manager/admin)
func CreateProject(c *gin.Context) {
	type request struct {
		Title       string `json:"title" binding:"required"`
		StartDate   string `json:"start_date" binding:"required"`
		EndDate     string `json:"end_date" binding:"required"`
		ProjectType string `json:"project_type" binding:"required"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date format. Use YYYY-MM-DD"})
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date format. Use YYYY-MM-DD"})
		return
	}
	if endDate.Before(startDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must not be before start_date"})
		return
	}
	if req.ProjectType != models.ProjectTypeSimple && req.ProjectType != models.ProjectTypePlanned {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_type must be 'simple' or 'planned'"})
		return
	}

	userID, _ := c.Get("userID")
	creator := userID.(int)

	now := time.Now()
	project := models.Project{
		OrganizationID: callerOrganizationID(c),
		Title:          utils.SanitizeInput(req.Title),
		StartDate:      startDate,
		EndDate:        endDate,
		Status:         models.ProjectStatusActive,
		ProjectType:    req.ProjectType,
		SetupStatus:    models.SetupStatusDraft,
		CreatedBy:      &creator,
		CreateAt:       &now,
		UpdateAt:       &now,
	}

	if err := config.DB.Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project created successfully",
		"project": project,
	})
}

// GetProjects lists the caller's organization projects
func GetProjects(c *gin.Context) {
	var projects []models.Project
	query := config.DB.
		Where("organization_id = ? AND delete_at IS NULL", callerOrganizationID(c))

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if projectType := c.Query("project_type"); projectType != "" {
		query = query.Where("project_type = ?", projectType)
	}

	if err := query.Order("start_date DESC, project_id DESC").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": projects,
		"total":    len(projects),
	})
}

// GetProject returns one project with its members
func GetProject(c *gin.Context) {
	project, ok := loadOrgProject(c, c.Param("id"))
	if !ok {
		return
	}

	if err := config.DB.Preload("Members.User").First(project, project.ProjectID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// CompleteProject marks a project completed (manager/admin)
func CompleteProject(c *gin.Context) {
	project, ok := loadOrgProject(c, c.Param("id"))
	if !ok {
		return
	}

	now := time.Now()
	project.Status = models.ProjectStatusCompleted
	project.UpdateAt = &now

	if err := config.DB.Save(project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project completed",
		"project": project,
	})
}
