package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"timesheet-planning-api/config"
	"timesheet-planning-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RowValidationError lists every violation on one grid row so a UI can
// highlight all offending cells at once. RowIndex -1 carries plan-level
// violations that belong to no single row.
type RowValidationError struct {
	RowIndex int      `json:"row_index"`
	Errors   []string `json:"errors"`
}

// FinalizeValidationError rejects a draft→ready transition with the complete
// violation set. The project stays in draft and nothing is written.
type FinalizeValidationError struct {
	Rows []RowValidationError
}

func (e *FinalizeValidationError) Error() string {
	return fmt.Sprintf("plan validation failed for %d row(s)", len(e.Rows))
}

// FinalizeResult reports a successful transition. Warnings carry phase-2
// bootstrap failures (memberships, timesheets, mail) that deliberately do
// not roll the transition back; each is independently retryable by
// re-finalizing.
type FinalizeResult struct {
	SetupStatus string   `json:"setup_status"`
	Warnings    []string `json:"warnings,omitempty"`
}

// validateAllocationRows applies the finalize guard: every row needs a role,
// a user and a positive rate, and a positive customer rate once any hours
// are planned. Violations are collected, not fail-fast.
func validateAllocationRows(rows []models.ProjectRoleAllocation) []RowValidationError {
	if len(rows) == 0 {
		return []RowValidationError{{
			RowIndex: -1,
			Errors:   []string{"At least one allocation row is required"},
		}}
	}

	var out []RowValidationError
	for i, row := range rows {
		var errs []string
		if row.OrgRoleID == nil {
			errs = append(errs, "Role is required")
		}
		if row.UserID == nil {
			errs = append(errs, "User is required")
		}
		if row.HourlyRate <= 0 {
			errs = append(errs, "Hourly rate must be greater than 0")
		}
		if row.TotalHours > 0 && row.CustomerRatePerHour <= 0 {
			errs = append(errs, "Customer rate is required when hours are allocated")
		}
		if len(errs) > 0 {
			out = append(out, RowValidationError{RowIndex: i, Errors: errs})
		}
	}
	return out
}

// Finalize validates the plan and moves the project from draft to ready.
// Phase 1 (validate + status flip) is atomic. Phase 2 runs only for planned
// projects and is best-effort: membership and draft-timesheet
// materialization plus a notification mail, all idempotent so re-finalizing
// never duplicates.
func (s *PlanningService) Finalize(projectID int) (*FinalizeResult, error) {
	release, err := s.acquireProjectLock(projectID)
	if err != nil {
		return nil, err
	}
	defer release()

	var project models.Project
	if err := s.db.Where("project_id = ? AND delete_at IS NULL", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project %d: %w", projectID, err)
	}

	var allocations []models.ProjectRoleAllocation
	err = s.db.Where("project_id = ?", projectID).
		Order("display_order ASC, allocation_id ASC").
		Find(&allocations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load allocations for project %d: %w", projectID, err)
	}

	if violations := validateAllocationRows(allocations); len(violations) > 0 {
		return nil, &FinalizeValidationError{Rows: violations}
	}

	now := time.Now()
	err = s.db.Model(&models.Project{}).
		Where("project_id = ?", projectID).
		Updates(map[string]interface{}{
			"setup_status": models.SetupStatusReady,
			"update_at":    now,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to finalize project %d: %w", projectID, err)
	}

	result := &FinalizeResult{SetupStatus: models.SetupStatusReady}
	if project.ProjectType == models.ProjectTypePlanned {
		result.Warnings = s.bootstrapPlannedProject(&project, allocations, now)
	}
	return result, nil
}

// bootstrapPlannedProject materializes one membership and one draft
// timesheet per distinct allocated user, then notifies the members. Failures
// are logged and returned as warnings; the plan stays finalized.
func (s *PlanningService) bootstrapPlannedProject(project *models.Project, allocations []models.ProjectRoleAllocation, now time.Time) []string {
	var warnings []string

	userIDs := make([]int, 0, len(allocations))
	seen := make(map[int]bool, len(allocations))
	dutyByUser := make(map[int]string, len(allocations))
	for _, row := range allocations {
		if row.UserID == nil || seen[*row.UserID] {
			continue
		}
		seen[*row.UserID] = true
		userIDs = append(userIDs, *row.UserID)
		if row.OrgRoleID != nil {
			var role models.OrgRole
			if err := s.db.Where("org_role_id = ?", *row.OrgRoleID).First(&role).Error; err == nil {
				dutyByUser[*row.UserID] = role.Name
			}
		}
	}

	for _, userID := range userIDs {
		member := models.ProjectMember{
			ProjectID: project.ProjectID,
			UserID:    userID,
			Duty:      dutyByUser[userID],
			CreateAt:  &now,
			UpdateAt:  &now,
		}
		err := s.db.Where("project_id = ? AND user_id = ?", project.ProjectID, userID).
			FirstOrCreate(&member).Error
		if err != nil {
			log.Printf("Warning: failed to add member %d to project %d: %v", userID, project.ProjectID, err)
			warnings = append(warnings, fmt.Sprintf("membership for user %d was not created", userID))
			continue
		}

		timesheet := models.Timesheet{
			ProjectID:      project.ProjectID,
			UserID:         userID,
			OrganizationID: project.OrganizationID,
			Reference:      "TS-" + uuid.NewString(),
			Status:         models.TimesheetStatusDraft,
			CreateAt:       &now,
			UpdateAt:       &now,
		}
		err = s.db.Where("project_id = ? AND user_id = ?", project.ProjectID, userID).
			FirstOrCreate(&timesheet).Error
		if err != nil {
			log.Printf("Warning: failed to bootstrap timesheet for user %d on project %d: %v", userID, project.ProjectID, err)
			warnings = append(warnings, fmt.Sprintf("draft timesheet for user %d was not created", userID))
		}
	}

	if warning := s.notifyMembers(project, userIDs); warning != "" {
		warnings = append(warnings, warning)
	}
	return warnings
}

// notifyMembers sends the finalize notification. Returns a warning string on
// failure, empty on success.
func (s *PlanningService) notifyMembers(project *models.Project, userIDs []int) string {
	if len(userIDs) == 0 {
		return ""
	}

	var users []models.User
	if err := s.db.Where("user_id IN ? AND delete_at IS NULL", userIDs).Find(&users).Error; err != nil {
		log.Printf("Warning: failed to load members for finalize mail on project %d: %v", project.ProjectID, err)
		return "notification mail was not sent"
	}

	to := make([]string, 0, len(users))
	for _, u := range users {
		if u.Email != "" {
			to = append(to, u.Email)
		}
	}

	subject := fmt.Sprintf("Project plan finalized: %s", project.Title)
	var body strings.Builder
	body.WriteString("<p>The plan for project <b>")
	body.WriteString(project.Title)
	body.WriteString("</b> has been finalized.</p>")
	body.WriteString("<p>A draft timesheet has been created for you. Period: ")
	body.WriteString(project.StartDate.Format("2006-01-02"))
	body.WriteString(" to ")
	body.WriteString(project.EndDate.Format("2006-01-02"))
	body.WriteString(".</p>")

	if err := config.SendMail(to, subject, body.String()); err != nil {
		log.Printf("Warning: finalize mail for project %d failed: %v", project.ProjectID, err)
		return "notification mail was not sent"
	}
	return ""
}
