package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"timesheet-planning-api/models"

	"gorm.io/gorm"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrSetupNotFound      = errors.New("project setup not found")
	ErrAllocationNotFound = errors.New("allocation not found")

	// ErrPlanLocked means another save/finalize holds the per-project lock.
	// Surfaced to callers as a retryable conflict.
	ErrPlanLocked = errors.New("project plan is being modified by another request")
)

// PlanningService owns the cost-planning engine: setup lifecycle, derived
// totals, save-draft batches and finalization. It never performs
// authorization checks; handlers resolve the caller before invoking it.
type PlanningService struct {
	db *gorm.DB
}

func NewPlanningService(db *gorm.DB) *PlanningService {
	return &PlanningService{db: db}
}

// GetOrCreateSetup returns a project's setup header, creating it with zero
// totals on first read. This is the only place a missing record is
// auto-created rather than reported.
func (s *PlanningService) GetOrCreateSetup(projectID int) (*models.ProjectSetup, error) {
	var project models.Project
	if err := s.db.Where("project_id = ? AND delete_at IS NULL", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project %d: %w", projectID, err)
	}

	var setup models.ProjectSetup
	err := s.db.Where("project_id = ?", projectID).First(&setup).Error
	if err == nil {
		return &setup, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load setup for project %d: %w", projectID, err)
	}

	weeks, err := TotalWeeks(project.StartDate, project.EndDate)
	if err != nil {
		return nil, fmt.Errorf("project %d has invalid dates: %w", projectID, err)
	}

	now := time.Now()
	setup = models.ProjectSetup{
		ProjectID:          projectID,
		TotalWeeks:         weeks,
		SoldCostPercentage: models.DefaultSoldCostPercentage,
		MarginStatus:       models.MarginStatusRed,
		CreateAt:           &now,
		UpdateAt:           &now,
	}
	if err := s.db.Create(&setup).Error; err != nil {
		return nil, fmt.Errorf("failed to create setup for project %d: %w", projectID, err)
	}
	return &setup, nil
}

// LoadAllocations returns a project's allocation rows with role, user and
// weekly-hour joins, in grid display order.
func (s *PlanningService) LoadAllocations(projectID int) ([]models.ProjectRoleAllocation, error) {
	var allocations []models.ProjectRoleAllocation
	err := s.db.Where("project_id = ?", projectID).
		Preload("OrgRole").
		Preload("User").
		Preload("WeeklyHours", func(db *gorm.DB) *gorm.DB {
			return db.Order("week_number ASC")
		}).
		Order("display_order ASC, allocation_id ASC").
		Find(&allocations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load allocations for project %d: %w", projectID, err)
	}
	return allocations, nil
}

// RefreshAllocationTotals recomputes one row's total hours and amount from
// its weekly-hour entries. A missing row is reported, never zeroed over:
// deciding whether an empty draft row should be zeroed is the orchestrator's
// call.
func (s *PlanningService) RefreshAllocationTotals(allocationID int) error {
	var allocation models.ProjectRoleAllocation
	if err := s.db.Where("allocation_id = ?", allocationID).First(&allocation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAllocationNotFound
		}
		return fmt.Errorf("failed to load allocation %d: %w", allocationID, err)
	}

	var weekly []models.ProjectWeeklyHours
	if err := s.db.Where("allocation_id = ?", allocationID).Find(&weekly).Error; err != nil {
		return fmt.Errorf("failed to load weekly hours for allocation %d: %w", allocationID, err)
	}

	totals := CalcAllocationTotals(allocation.HourlyRate, weekly)
	err := s.db.Model(&models.ProjectRoleAllocation{}).
		Where("allocation_id = ?", allocationID).
		Updates(map[string]interface{}{
			"total_hours":  totals.TotalHours,
			"total_amount": totals.TotalAmount,
			"update_at":    time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to store totals for allocation %d: %w", allocationID, err)
	}
	return nil
}

// RefreshSetupTotals is the single recompute-and-persist entry point called
// after any mutation to rows, weekly hours or header pricing. It performs no
// validation and gates no transitions; calling it twice in a row writes the
// same values twice. If the header cannot be loaded nothing is written.
func (s *PlanningService) RefreshSetupTotals(projectID int) error {
	var setup models.ProjectSetup
	if err := s.db.Where("project_id = ?", projectID).First(&setup).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSetupNotFound
		}
		return fmt.Errorf("failed to load setup for project %d: %w", projectID, err)
	}

	var allocations []models.ProjectRoleAllocation
	if err := s.db.Where("project_id = ?", projectID).Find(&allocations).Error; err != nil {
		return fmt.Errorf("failed to load allocations for project %d: %w", projectID, err)
	}

	// Re-aggregation of already-computed row totals. Customer amount is
	// summed per row from the row's own customer rate; the header rate is
	// only a default applied at row creation.
	var totalHours, totalCost, customerAmount float64
	for _, row := range allocations {
		totalHours += row.TotalHours
		totalCost += row.TotalAmount
		customerAmount += row.TotalHours * row.CustomerRatePerHour
	}
	totalHours = Round2(totalHours)
	totalCost = Round2(totalCost)
	customerAmount = Round2(customerAmount)

	margins := CalcMargins(totalCost, customerAmount, setup.SoldCostPercentage)

	err := s.db.Model(&models.ProjectSetup{}).
		Where("project_id = ?", projectID).
		Updates(map[string]interface{}{
			"total_internal_hours":  totalHours,
			"total_internal_cost":   totalCost,
			"total_customer_amount": customerAmount,
			"gross_margin":          margins.GrossMargin,
			"current_margin":        margins.CurrentMargin,
			"margin_status":         margins.MarginStatus,
			"update_at":             time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to store totals for project %d: %w", projectID, err)
	}
	return nil
}

// HeaderPricingUpdate carries the optional header pricing fields. Nil means
// leave unchanged.
type HeaderPricingUpdate struct {
	CustomerRatePerHour *float64
	SoldCostPercentage  *float64
}

// ErrPricingOutOfBounds covers the header pricing bounds: rate >= 0, sold
// cost percentage within [0, 100].
var ErrPricingOutOfBounds = errors.New("pricing value out of bounds")

// UpdateHeaderPricing validates and persists header pricing, then recomputes
// the derived totals. Holds the plan lock so the recompute never interleaves
// with a concurrent save-draft.
func (s *PlanningService) UpdateHeaderPricing(projectID int, update HeaderPricingUpdate) (*models.ProjectSetup, error) {
	if update.CustomerRatePerHour != nil && *update.CustomerRatePerHour < 0 {
		return nil, fmt.Errorf("%w: customer rate must not be negative", ErrPricingOutOfBounds)
	}
	if update.SoldCostPercentage != nil && (*update.SoldCostPercentage < 0 || *update.SoldCostPercentage > 100) {
		return nil, fmt.Errorf("%w: sold cost percentage must be between 0 and 100", ErrPricingOutOfBounds)
	}

	release, err := s.acquireProjectLock(projectID)
	if err != nil {
		return nil, err
	}
	defer release()

	setup, err := s.GetOrCreateSetup(projectID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"update_at": time.Now()}
	if update.CustomerRatePerHour != nil {
		fields["customer_rate_per_hour"] = *update.CustomerRatePerHour
	}
	if update.SoldCostPercentage != nil {
		fields["sold_cost_percentage"] = *update.SoldCostPercentage
	}

	if err := s.db.Model(&models.ProjectSetup{}).Where("project_id = ?", projectID).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("failed to update pricing for project %d: %w", projectID, err)
	}

	if err := s.RefreshSetupTotals(projectID); err != nil {
		return nil, err
	}

	if err := s.db.Where("project_id = ?", projectID).First(setup).Error; err != nil {
		return nil, fmt.Errorf("failed to reload setup for project %d: %w", projectID, err)
	}
	return setup, nil
}

// CostSummary is the planned-vs-actual view handed to reporting callers.
type CostSummary struct {
	PlannedCost        float64 `json:"planned_cost"`
	ActualCost         float64 `json:"actual_cost"`
	Variance           float64 `json:"variance"`
	VariancePercentage float64 `json:"variance_percentage"`
	BudgetStatus       string  `json:"budget_status"`
}

// ProjectCostSummary prices logged timesheet hours at each member's
// allocation rate and compares them to the planned internal cost.
func (s *PlanningService) ProjectCostSummary(projectID int) (*CostSummary, error) {
	setup, err := s.GetOrCreateSetup(projectID)
	if err != nil {
		return nil, err
	}

	var allocations []models.ProjectRoleAllocation
	if err := s.db.Where("project_id = ?", projectID).Order("allocation_id ASC").Find(&allocations).Error; err != nil {
		return nil, fmt.Errorf("failed to load allocations for project %d: %w", projectID, err)
	}

	// First allocation per user wins when a user appears on several rows.
	rateByUser := make(map[int]float64, len(allocations))
	for _, row := range allocations {
		if row.UserID == nil {
			continue
		}
		if _, ok := rateByUser[*row.UserID]; !ok {
			rateByUser[*row.UserID] = row.HourlyRate
		}
	}

	var timesheets []models.Timesheet
	if err := s.db.Where("project_id = ?", projectID).Preload("Entries").Find(&timesheets).Error; err != nil {
		return nil, fmt.Errorf("failed to load timesheets for project %d: %w", projectID, err)
	}

	// Entries by a user with no allocation row price at 0: the plan never
	// budgeted that user, so their hours surface in the variance instead of
	// inventing a rate.
	var actual float64
	for _, ts := range timesheets {
		rate, priced := rateByUser[ts.UserID]
		if !priced && len(ts.Entries) > 0 {
			log.Printf("Warning: user %d logged hours on project %d without an allocation row; priced at 0", ts.UserID, projectID)
		}
		for _, entry := range ts.Entries {
			actual += entry.Hours * rate
		}
	}
	actual = Round2(actual)

	variance, variancePct, status := CalcBudgetStatus(setup.TotalInternalCost, actual)
	return &CostSummary{
		PlannedCost:        setup.TotalInternalCost,
		ActualCost:         actual,
		Variance:           variance,
		VariancePercentage: variancePct,
		BudgetStatus:       status,
	}, nil
}
