package services

import (
	"errors"
	"math"
	"time"

	"timesheet-planning-api/models"

	"github.com/shopspring/decimal"
)

// Margin thresholds, applied to the 2-decimal-rounded current margin.
// Business constants today; named so a configuration layer can override them
// later without touching the engine.
const (
	// MarginRedMax: current margin at or below this is critical.
	MarginRedMax = 5.0
	// MarginGreenMin: current margin at or above this is healthy. Anything
	// between the two is a warning.
	MarginGreenMin = 20.0
)

// Budget status thresholds for the planned-vs-actual cost summary.
const (
	// BudgetYellowHeadroomPct: actual cost within this percentage of the plan
	// is a warning even though the project is still under budget.
	BudgetYellowHeadroomPct = 10.0
)

const millisPerDay = 86_400_000

// ErrEndBeforeStart is returned when a project's end date precedes its start
// date. Date order is validated at the project boundary, so the calculators
// only see this on corrupted rows.
var ErrEndBeforeStart = errors.New("end date is before start date")

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}

// TotalWeeks returns the number of calendar weeks spanned by the inclusive
// [start, end] range. A single day is 1 week; exactly 7 days is still 1 week;
// 8 days is 2.
func TotalWeeks(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, ErrEndBeforeStart
	}

	diffMillis := end.Sub(start).Milliseconds()
	days := int(math.Ceil(float64(diffMillis)/millisPerDay)) + 1
	weeks := int(math.Ceil(float64(days) / 7))
	if weeks < 1 {
		weeks = 1
	}
	return weeks, nil
}

// AllocationTotals holds the derived fields of one allocation row.
type AllocationTotals struct {
	TotalHours  float64 `json:"total_hours"`
	TotalAmount float64 `json:"total_amount"`
}

// CalcAllocationTotals sums the weekly hours of one allocation row and prices
// them at the row's internal hourly rate. Weeks with no entry contribute 0.
func CalcAllocationTotals(hourlyRate float64, weeklyHours []models.ProjectWeeklyHours) AllocationTotals {
	var hours float64
	for _, wh := range weeklyHours {
		hours += wh.Hours
	}
	return AllocationTotals{
		TotalHours:  Round2(hours),
		TotalAmount: Round2(hours * hourlyRate),
	}
}

// MarginResult is the margin engine output.
type MarginResult struct {
	GrossMargin   float64 `json:"gross_margin"`
	CurrentMargin float64 `json:"current_margin"`
	MarginStatus  string  `json:"margin_status"`
}

// CalcMargins classifies a project's margin risk. A project with no customer
// billing is definitionally at risk, which also guards the division.
func CalcMargins(internalCost, customerAmount, soldCostPercentage float64) MarginResult {
	if customerAmount == 0 {
		return MarginResult{GrossMargin: 0, CurrentMargin: 0, MarginStatus: models.MarginStatusRed}
	}

	gross := Round2((customerAmount - internalCost) / customerAmount * 100)
	current := Round2(gross - soldCostPercentage)

	status := models.MarginStatusGreen
	switch {
	case current <= MarginRedMax:
		status = models.MarginStatusRed
	case current < MarginGreenMin:
		status = models.MarginStatusYellow
	}

	return MarginResult{GrossMargin: gross, CurrentMargin: current, MarginStatus: status}
}

// CalcBudgetStatus classifies planned-vs-actual cost. Over plan is red; under
// plan but with less than BudgetYellowHeadroomPct of the plan left is yellow.
func CalcBudgetStatus(plannedCost, actualCost float64) (variance, variancePct float64, status string) {
	variance = Round2(plannedCost - actualCost)
	if plannedCost != 0 {
		variancePct = Round2(variance / plannedCost * 100)
	}

	switch {
	case variance < 0:
		status = models.MarginStatusRed
	case variancePct < BudgetYellowHeadroomPct:
		status = models.MarginStatusYellow
	default:
		status = models.MarginStatusGreen
	}
	return variance, variancePct, status
}
