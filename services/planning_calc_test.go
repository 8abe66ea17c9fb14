package services

import (
	"errors"
	"testing"
	"time"

	"timesheet-planning-api/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTotalWeeks(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"single day", date(2025, time.March, 3), date(2025, time.March, 3), 1},
		{"exactly seven days", date(2025, time.March, 3), date(2025, time.March, 9), 1},
		{"eight days rolls into second week", date(2025, time.March, 3), date(2025, time.March, 10), 2},
		{"fourteen day span", date(2025, time.March, 3), date(2025, time.March, 16), 2},
		{"fifteen day span rounds up", date(2025, time.March, 3), date(2025, time.March, 17), 3},
		{"full quarter", date(2025, time.January, 1), date(2025, time.March, 31), 13},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TotalWeeks(tc.start, tc.end)
			if err != nil {
				t.Fatalf("TotalWeeks returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("TotalWeeks(%s, %s) = %d, want %d",
					tc.start.Format("2006-01-02"), tc.end.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestTotalWeeksRejectsReversedDates(t *testing.T) {
	_, err := TotalWeeks(date(2025, time.March, 10), date(2025, time.March, 3))
	if !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}
}

func TestCalcAllocationTotals(t *testing.T) {
	weekly := []models.ProjectWeeklyHours{
		{WeekNumber: 1, Hours: 10},
		{WeekNumber: 2, Hours: 20},
		{WeekNumber: 3, Hours: 0},
		{WeekNumber: 4, Hours: 5},
	}

	totals := CalcAllocationTotals(50, weekly)
	if totals.TotalHours != 35 {
		t.Fatalf("expected 35 total hours, got %v", totals.TotalHours)
	}
	if totals.TotalAmount != 1750 {
		t.Fatalf("expected 1750 total amount, got %v", totals.TotalAmount)
	}
}

func TestCalcAllocationTotalsEmptyRow(t *testing.T) {
	totals := CalcAllocationTotals(80, nil)
	if totals.TotalHours != 0 || totals.TotalAmount != 0 {
		t.Fatalf("expected zero totals for empty row, got %+v", totals)
	}
}

func TestCalcAllocationTotalsRounds(t *testing.T) {
	weekly := []models.ProjectWeeklyHours{
		{WeekNumber: 1, Hours: 7.333},
		{WeekNumber: 2, Hours: 7.333},
	}

	totals := CalcAllocationTotals(33.33, weekly)
	if totals.TotalHours != 14.67 {
		t.Fatalf("expected 14.67 total hours, got %v", totals.TotalHours)
	}
	// 14.666 * 33.33 = 488.817...
	if totals.TotalAmount != 488.82 {
		t.Fatalf("expected 488.82 total amount, got %v", totals.TotalAmount)
	}
}

func TestCalcMarginsZeroCustomerAmount(t *testing.T) {
	got := CalcMargins(1000, 0, 11)
	if got.GrossMargin != 0 || got.CurrentMargin != 0 {
		t.Fatalf("expected zero margins, got %+v", got)
	}
	if got.MarginStatus != models.MarginStatusRed {
		t.Fatalf("expected red status, got %s", got.MarginStatus)
	}
}

func TestCalcMarginsThresholds(t *testing.T) {
	cases := []struct {
		name           string
		internalCost   float64
		customerAmount float64
		soldCost       float64
		wantGross      float64
		wantCurrent    float64
		wantStatus     string
	}{
		{"yellow boundary at 19", 700, 1000, 11, 30, 19, models.MarginStatusYellow},
		{"green boundary at 20", 690, 1000, 10, 31, 21, models.MarginStatusGreen},
		{"exactly 20 is green", 700, 1000, 10, 30, 20, models.MarginStatusGreen},
		{"exactly 5 is red", 840, 1000, 11, 16, 5, models.MarginStatusRed},
		{"just above 5 is yellow", 800, 1000, 11, 20, 9, models.MarginStatusYellow},
		{"negative margin is red", 1200, 1000, 11, -20, -31, models.MarginStatusRed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalcMargins(tc.internalCost, tc.customerAmount, tc.soldCost)
			if got.GrossMargin != tc.wantGross {
				t.Fatalf("gross margin = %v, want %v", got.GrossMargin, tc.wantGross)
			}
			if got.CurrentMargin != tc.wantCurrent {
				t.Fatalf("current margin = %v, want %v", got.CurrentMargin, tc.wantCurrent)
			}
			if got.MarginStatus != tc.wantStatus {
				t.Fatalf("status = %s, want %s", got.MarginStatus, tc.wantStatus)
			}
		})
	}
}

func TestCalcMarginsRoundsToTwoDecimals(t *testing.T) {
	// (1000 - 666.67) / 1000 * 100 = 33.333
	got := CalcMargins(666.67, 1000, 11)
	if got.GrossMargin != 33.33 {
		t.Fatalf("gross margin = %v, want 33.33", got.GrossMargin)
	}
	if got.CurrentMargin != 22.33 {
		t.Fatalf("current margin = %v, want 22.33", got.CurrentMargin)
	}
}

func TestCalcBudgetStatus(t *testing.T) {
	cases := []struct {
		name       string
		planned    float64
		actual     float64
		wantVar    float64
		wantPct    float64
		wantStatus string
	}{
		{"over budget", 1000, 1100, -100, -10, models.MarginStatusRed},
		{"tight headroom", 1000, 950, 50, 5, models.MarginStatusYellow},
		{"healthy headroom", 1000, 500, 500, 50, models.MarginStatusGreen},
		{"no plan yet", 0, 0, 0, 0, models.MarginStatusYellow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			variance, pct, status := CalcBudgetStatus(tc.planned, tc.actual)
			if variance != tc.wantVar || pct != tc.wantPct || status != tc.wantStatus {
				t.Fatalf("got (%v, %v, %s), want (%v, %v, %s)",
					variance, pct, status, tc.wantVar, tc.wantPct, tc.wantStatus)
			}
		})
	}
}

func TestRound2HalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01},
		{1.004, 1.0},
		{2.675, 2.68},
		{0, 0},
	}

	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
