package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"timesheet-planning-api/config"
	"timesheet-planning-api/models"
	"timesheet-planning-api/services"

	"github.com/gin-gonic/gin"
)

// planningService is shared by the setup handlers; the engine itself is
// stateless between requests.
var planningService *services.PlanningService

func getPlanningService() *services.PlanningService {
	if planningService == nil {
		planningService = services.NewPlanningService(config.DB)
	}
	return planningService
}

// writePlanningError maps engine errors onto the HTTP taxonomy.
func writePlanningError(c *gin.Context, err error) {
	var validation *services.FinalizeValidationError
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrSetupNotFound),
		errors.Is(err, services.ErrAllocationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPlanLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "retryable": true})
	case errors.Is(err, services.ErrPricingOutOfBounds):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Plan validation failed",
			"validation_errors": validation.Rows,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// rejectLockedPlan blocks every mutating setup operation while a plan is
// administratively locked. Locking and unlocking happen outside the engine.
func rejectLockedPlan(c *gin.Context, project *models.Project) bool {
	if project.SetupStatus == models.SetupStatusLocked {
		c.JSON(http.StatusConflict, gin.H{"error": "Project plan is locked"})
		return true
	}
	return false
}

// GetProjectSetup returns the planning header and grid, lazily creating the
// header on first read.
func GetProjectSetup(c *gin.Context) {
	project, ok := loadOrgProject(c, c.Param("id"))
	if !ok {
		return
	}

	svc := getPlanningService()
	setup, err := svc.GetOrCreateSetup(project.ProjectID)
	if err != nil {
		writePlanningError(c, err)
		return
	}

	allocations, err := svc.LoadAllocations(project.ProjectID)
	if err != nil {
		writePlanningError(c, err)
		return
	}

	// Phases are not modeled yet; the key stays so clients can rely on the
	// response shape.
	c.JSON(http.StatusOK, gin.H{
		"setup":        setup,
		"allocations":  allocations,
		"phases":       []gin.H{},
		"setup_status": project.SetupStatus,
	})
}

// SaveProjectDraft applies a save-draft batch and forces the plan back to
// draft.
func SaveProjectDraft(c *gin.Context) {
	project, ok := loadOrgProject(c, c.Param("id"))
	if !ok {
		return
	}
	if rejectLockedPlan(c, project) {
		return
	}

	var input services.SaveDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := getPlanningService().SaveDraft(project.ProjectID, input); err != nil {
		writePlanningError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Draft saved",
		"setup_status": "draft",
	})
}

// UpdateSetupPricing updates the header customer rate and/or sold cost
// percentage.
func UpdateSetupPricing(c *gin.Context) {
	project, ok := loadOrgProject(c, c.Param("id"))
	if !ok {
		return
	}
	if rejectLockedPlan(c, project) {
		return
	}

	type request struct {
		CustomerRatePerHour *float64 `json:"customer_rate_per_hour"`
		SoldCostPercentage  *float64 `json:"sold_cost_percentage"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CustomerRatePerHour == nil && req.SoldCostPercentage == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	setup, err := getPlanningService().UpdateHeaderPricing(project.ProjectID, services.HeaderPricingUpdate{
		CustomerRatePerHour: req.CustomerRatePerHour,
		SoldCostPercentage:  req.SoldCostPercentage,
	})
	if err != nil {
		writePlanningError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pricing updated",
		"setup":   setup,
	})
}

// FinalizeProject validates the plan and moves it from draft to ready.
func FinalizeProject(c *gin.Context) {
	project, ok := loadOrgProject(c, c.Param("id"))
	if !ok {
		return
	}
	if rejectLockedPlan(c, project) {
		return
	}

	result, err := getPlanningService().Finalize(project.ProjectID)
	if err != nil {
		writePlanningError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Plan finalized",
		"setup_status": result.SetupStatus,
		"warnings":     result.Warnings,
	})
}

// GetProjectCostSummary returns the planned-vs-actual cost view.
func GetProjectCostSummary(c *gin.Context) {
	project, ok := loadOrgProject(c, c.Param("id"))
	if !ok {
		return
	}

	summary, err := getPlanningService().ProjectCostSummary(project.ProjectID)
	if err != nil {
		writePlanningError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// parseID is shared by handlers that take numeric path params.
func parseID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
