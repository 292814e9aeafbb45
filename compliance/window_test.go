package compliance_test

import (
	"testing"
	"time"

	"github.com/thegspiro/the-logbook-sub001/compliance"
)

// Note: date, dptr, and the requirement builders are defined in
// evaluate_test.go.

func TestWindowFor_Annual_CurrentYear(t *testing.T) {
	// GIVEN: An annual requirement with no pinned year
	// WHEN: Computing the window on any day of 2026
	// THEN: The full calendar year 2026

	req := hoursRequirement("r", "fire", 10, compliance.FrequencyAnnual)

	win, ok := compliance.WindowFor(req, date(2026, time.July, 4))

	if !ok {
		t.Fatal("expected an annual window")
	}
	if !win.Start.Equal(date(2026, time.January, 1)) || !win.End.Equal(date(2026, time.December, 31)) {
		t.Errorf("expected 2026-01-01..2026-12-31, got %v..%v", win.Start, win.End)
	}
}

func TestWindowFor_Annual_PinnedYear(t *testing.T) {
	// GIVEN: An annual requirement pinned to 2025
	// WHEN: Computing the window in 2026
	// THEN: The pinned year wins over the evaluation date

	req := hoursRequirement("r", "fire", 10, compliance.FrequencyAnnual)
	req.Year = 2025

	win, ok := compliance.WindowFor(req, date(2026, time.July, 4))

	if !ok {
		t.Fatal("expected an annual window")
	}
	if win.Start.Year() != 2025 || win.End.Year() != 2025 {
		t.Errorf("expected the pinned year 2025, got %v..%v", win.Start, win.End)
	}
}

func TestWindowFor_Quarterly_Boundaries(t *testing.T) {
	// GIVEN: A quarterly requirement
	// WHEN: Evaluating on dates in each quarter
	// THEN: The window snaps to the containing calendar quarter

	req := hoursRequirement("r", "driver", 5, compliance.FrequencyQuarterly)

	cases := []struct {
		today      compliance.Date
		start, end compliance.Date
	}{
		{date(2026, time.January, 1), date(2026, time.January, 1), date(2026, time.March, 31)},
		{date(2026, time.May, 15), date(2026, time.April, 1), date(2026, time.June, 30)},
		{date(2026, time.September, 30), date(2026, time.July, 1), date(2026, time.September, 30)},
		{date(2026, time.December, 31), date(2026, time.October, 1), date(2026, time.December, 31)},
	}

	for _, tc := range cases {
		win, ok := compliance.WindowFor(req, tc.today)
		if !ok {
			t.Fatalf("expected a quarterly window for %v", tc.today)
		}
		if !win.Start.Equal(tc.start) || !win.End.Equal(tc.end) {
			t.Errorf("for %v expected %v..%v, got %v..%v", tc.today, tc.start, tc.end, win.Start, win.End)
		}
	}
}

func TestWindowFor_Monthly_FebruaryLengths(t *testing.T) {
	// GIVEN: A monthly requirement
	// WHEN: Evaluating in February of leap and non-leap years
	// THEN: The window end lands on the real last day of the month

	req := hoursRequirement("r", "ems", 4, compliance.FrequencyMonthly)

	win, ok := compliance.WindowFor(req, date(2026, time.February, 15))
	if !ok {
		t.Fatal("expected a monthly window")
	}
	if !win.End.Equal(date(2026, time.February, 28)) {
		t.Errorf("expected 2026-02-28, got %v", win.End)
	}

	win, ok = compliance.WindowFor(req, date(2028, time.February, 15))
	if !ok {
		t.Fatal("expected a monthly window")
	}
	if !win.End.Equal(date(2028, time.February, 29)) {
		t.Errorf("expected 2028-02-29 in a leap year, got %v", win.End)
	}
}

func TestWindowFor_OneTimeAndBiannual_NoWindow(t *testing.T) {
	// GIVEN: One-time and biannual requirements
	// WHEN: Computing the window
	// THEN: Neither has one; all history is in scope

	oneTime := hoursRequirement("r1", "fire", 10, compliance.FrequencyOneTime)
	if _, ok := compliance.WindowFor(oneTime, date(2026, time.July, 4)); ok {
		t.Error("one-time requirements must not have a window")
	}

	biannual := hoursRequirement("r2", "fire", 10, compliance.FrequencyBiannual)
	if _, ok := compliance.WindowFor(biannual, date(2026, time.July, 4)); ok {
		t.Error("biannual requirements must not have a window")
	}
}

func TestWindowFor_Rolling_TrailingMonths(t *testing.T) {
	// GIVEN: A rolling 12-month requirement
	// WHEN: Computing the window on 2026-08-15
	// THEN: Exactly one year back, ending today

	req := hoursRequirement("r", "hazmat", 6, compliance.FrequencyAnnual)
	req.DueDateType = compliance.DueRolling
	req.RollingPeriodMonths = 12

	win, ok := compliance.WindowFor(req, date(2026, time.August, 15))

	if !ok {
		t.Fatal("expected a rolling window")
	}
	if !win.Start.Equal(date(2025, time.August, 15)) || !win.End.Equal(date(2026, time.August, 15)) {
		t.Errorf("expected 2025-08-15..2026-08-15, got %v..%v", win.Start, win.End)
	}
}

func TestWindowFor_Rolling_OverridesFrequency(t *testing.T) {
	// GIVEN: A monthly requirement marked rolling with a 3-month period
	// WHEN: Computing the window
	// THEN: The rolling period wins over the monthly calendar window

	req := hoursRequirement("r", "ems", 4, compliance.FrequencyMonthly)
	req.DueDateType = compliance.DueRolling
	req.RollingPeriodMonths = 3

	win, ok := compliance.WindowFor(req, date(2026, time.August, 15))

	if !ok {
		t.Fatal("expected a rolling window")
	}
	if !win.Start.Equal(date(2026, time.May, 15)) {
		t.Errorf("expected 2026-05-15, got %v", win.Start)
	}
}

func TestWindowFor_Rolling_ZeroMonthsFallsBackToFrequency(t *testing.T) {
	// GIVEN: A rolling due-date type but no period configured
	// WHEN: Computing the window for an annual requirement
	// THEN: The calendar-year window applies

	req := hoursRequirement("r", "fire", 10, compliance.FrequencyAnnual)
	req.DueDateType = compliance.DueRolling

	win, ok := compliance.WindowFor(req, date(2026, time.July, 4))

	if !ok {
		t.Fatal("expected the annual fallback window")
	}
	if !win.Start.Equal(date(2026, time.January, 1)) {
		t.Errorf("expected the calendar year, got start %v", win.Start)
	}
}

func TestWindowFor_UnrecognizedFrequency_TreatedAsAnnual(t *testing.T) {
	// GIVEN: A frequency value this version does not know
	// WHEN: Computing the window
	// THEN: The annual window applies rather than no window at all

	req := hoursRequirement("r", "fire", 10, compliance.Frequency("weekly"))

	win, ok := compliance.WindowFor(req, date(2026, time.July, 4))

	if !ok {
		t.Fatal("expected a window for an unknown frequency")
	}
	if !win.Start.Equal(date(2026, time.January, 1)) || !win.End.Equal(date(2026, time.December, 31)) {
		t.Errorf("expected the calendar year, got %v..%v", win.Start, win.End)
	}
}
