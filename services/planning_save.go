package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"timesheet-planning-api/models"

	"gorm.io/gorm"
)

// SaveDraftWeeklyHours is one week cell in a save-draft payload. Weeks absent
// from the payload are stored as absent, not as 0.
type SaveDraftWeeklyHours struct {
	WeekNumber int     `json:"week_number"`
	Hours      float64 `json:"hours"`
}

// SaveDraftRow is one allocation row in a save-draft payload. AllocationID 0
// means a new row. Rows missing from the payload are deleted.
type SaveDraftRow struct {
	AllocationID        int                    `json:"id"`
	OrgRoleID           *int                   `json:"role_id"`
	UserID              *int                   `json:"user_id"`
	HourlyRate          float64                `json:"hourly_rate"`
	CustomerRatePerHour *float64               `json:"customer_rate_per_hour"`
	WeeklyHours         []SaveDraftWeeklyHours `json:"weekly_hours"`
}

// SaveDraftInput is the full save-draft batch.
type SaveDraftInput struct {
	Rows               []SaveDraftRow `json:"rows"`
	SoldCostPercentage *float64       `json:"sold_cost_percentage"`
}

// SaveDraft applies a batch of allocation rows under the per-project lock:
// deletes omitted rows, upserts the rest with their weekly hours, recomputes
// each row (failures isolated), refreshes the project totals and forces the
// setup status back to draft. The structural writes run in one transaction,
// so a persistence failure mid-batch leaves the stored plan untouched. A
// finalized plan that is edited again is no longer authoritative until
// re-finalized.
func (s *PlanningService) SaveDraft(projectID int, input SaveDraftInput) error {
	if input.SoldCostPercentage != nil && (*input.SoldCostPercentage < 0 || *input.SoldCostPercentage > 100) {
		return fmt.Errorf("%w: sold cost percentage must be between 0 and 100", ErrPricingOutOfBounds)
	}

	release, err := s.acquireProjectLock(projectID)
	if err != nil {
		return err
	}
	defer release()

	setup, err := s.GetOrCreateSetup(projectID)
	if err != nil {
		return err
	}

	now := time.Now()
	touched := make([]int, 0, len(input.Rows))
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if input.SoldCostPercentage != nil {
			err := tx.Model(&models.ProjectSetup{}).
				Where("project_id = ?", projectID).
				Updates(map[string]interface{}{
					"sold_cost_percentage": *input.SoldCostPercentage,
					"update_at":            now,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to update sold cost for project %d: %w", projectID, err)
			}
		}

		if err := deleteOmittedRows(tx, projectID, input.Rows); err != nil {
			return err
		}

		for i, row := range input.Rows {
			allocationID, err := upsertAllocationRow(tx, projectID, setup, i, row, now)
			if err != nil {
				return err
			}
			touched = append(touched, allocationID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Per-row recompute failures must not sink the batch: log, skip, and let
	// the next save pick the row up again. The project aggregate always runs
	// afterwards so the header never reflects a half-applied batch longer
	// than necessary.
	for _, allocationID := range touched {
		if err := s.RefreshAllocationTotals(allocationID); err != nil {
			log.Printf("Warning: recompute failed for allocation %d: %v", allocationID, err)
		}
	}

	if err := s.RefreshSetupTotals(projectID); err != nil {
		return err
	}

	err = s.db.Model(&models.Project{}).
		Where("project_id = ?", projectID).
		Updates(map[string]interface{}{
			"setup_status": models.SetupStatusDraft,
			"update_at":    now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to reset setup status for project %d: %w", projectID, err)
	}
	return nil
}

// deleteOmittedRows removes allocation rows (and their weekly hours) that the
// batch no longer contains.
func deleteOmittedRows(tx *gorm.DB, projectID int, rows []SaveDraftRow) error {
	keep := make(map[int]bool, len(rows))
	for _, row := range rows {
		if row.AllocationID > 0 {
			keep[row.AllocationID] = true
		}
	}

	var existing []models.ProjectRoleAllocation
	if err := tx.Select("allocation_id").Where("project_id = ?", projectID).Find(&existing).Error; err != nil {
		return fmt.Errorf("failed to list allocations for project %d: %w", projectID, err)
	}

	for _, row := range existing {
		if keep[row.AllocationID] {
			continue
		}
		if err := tx.Where("allocation_id = ?", row.AllocationID).Delete(&models.ProjectWeeklyHours{}).Error; err != nil {
			return fmt.Errorf("failed to delete weekly hours for allocation %d: %w", row.AllocationID, err)
		}
		if err := tx.Where("allocation_id = ?", row.AllocationID).Delete(&models.ProjectRoleAllocation{}).Error; err != nil {
			return fmt.Errorf("failed to delete allocation %d: %w", row.AllocationID, err)
		}
	}
	return nil
}

// upsertAllocationRow creates or updates one grid row and replaces its weekly
// hours with the payload set. The header customer rate is copied onto new
// rows that don't bring their own; after creation the row value is
// authoritative.
func upsertAllocationRow(tx *gorm.DB, projectID int, setup *models.ProjectSetup, displayOrder int, row SaveDraftRow, now time.Time) (int, error) {
	customerRate := setup.CustomerRatePerHour
	if row.CustomerRatePerHour != nil {
		customerRate = *row.CustomerRatePerHour
	}

	allocationID := row.AllocationID
	if allocationID > 0 {
		var existing models.ProjectRoleAllocation
		if err := tx.Where("allocation_id = ? AND project_id = ?", allocationID, projectID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, fmt.Errorf("allocation %d: %w", allocationID, ErrAllocationNotFound)
			}
			return 0, fmt.Errorf("failed to load allocation %d: %w", allocationID, err)
		}
		if row.CustomerRatePerHour == nil {
			customerRate = existing.CustomerRatePerHour
		}
		err := tx.Model(&models.ProjectRoleAllocation{}).
			Where("allocation_id = ?", allocationID).
			Updates(map[string]interface{}{
				"org_role_id":            row.OrgRoleID,
				"user_id":                row.UserID,
				"hourly_rate":            row.HourlyRate,
				"customer_rate_per_hour": customerRate,
				"display_order":          displayOrder,
				"update_at":              now,
			}).Error
		if err != nil {
			return 0, fmt.Errorf("failed to update allocation %d: %w", allocationID, err)
		}
	} else {
		allocation := models.ProjectRoleAllocation{
			ProjectID:           projectID,
			OrgRoleID:           row.OrgRoleID,
			UserID:              row.UserID,
			HourlyRate:          row.HourlyRate,
			CustomerRatePerHour: customerRate,
			DisplayOrder:        displayOrder,
			CreateAt:            &now,
			UpdateAt:            &now,
		}
		if err := tx.Create(&allocation).Error; err != nil {
			return 0, fmt.Errorf("failed to create allocation row %d: %w", displayOrder, err)
		}
		allocationID = allocation.AllocationID
	}

	if err := replaceWeeklyHours(tx, allocationID, row.WeeklyHours, now); err != nil {
		return 0, err
	}
	return allocationID, nil
}

// replaceWeeklyHours upserts the provided week cells and drops the rest, so
// "no entry yet" stays distinct from an explicit 0 in storage.
func replaceWeeklyHours(tx *gorm.DB, allocationID int, weeks []SaveDraftWeeklyHours, now time.Time) error {
	for _, wh := range weeks {
		if wh.WeekNumber < 1 || wh.Hours < 0 {
			return fmt.Errorf("allocation %d: invalid weekly hours entry (week %d, hours %.2f)", allocationID, wh.WeekNumber, wh.Hours)
		}
	}

	query := tx.Where("allocation_id = ?", allocationID)
	if len(weeks) > 0 {
		weekNumbers := make([]int, 0, len(weeks))
		for _, wh := range weeks {
			weekNumbers = append(weekNumbers, wh.WeekNumber)
		}
		query = query.Where("week_number NOT IN ?", weekNumbers)
	}
	if err := query.Delete(&models.ProjectWeeklyHours{}).Error; err != nil {
		return fmt.Errorf("failed to prune weekly hours for allocation %d: %w", allocationID, err)
	}

	for _, wh := range weeks {
		var existing models.ProjectWeeklyHours
		err := tx.Where("allocation_id = ? AND week_number = ?", allocationID, wh.WeekNumber).First(&existing).Error
		if err == nil {
			err = tx.Model(&models.ProjectWeeklyHours{}).
				Where("weekly_hours_id = ?", existing.WeeklyHoursID).
				Updates(map[string]interface{}{"hours": wh.Hours, "update_at": now}).Error
			if err != nil {
				return fmt.Errorf("failed to update week %d for allocation %d: %w", wh.WeekNumber, allocationID, err)
			}
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load week %d for allocation %d: %w", wh.WeekNumber, allocationID, err)
		}

		entry := models.ProjectWeeklyHours{
			AllocationID: allocationID,
			WeekNumber:   wh.WeekNumber,
			Hours:        wh.Hours,
			CreateAt:     &now,
			UpdateAt:     &now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to store week %d for allocation %d: %w", wh.WeekNumber, allocationID, err)
		}
	}
	return nil
}
