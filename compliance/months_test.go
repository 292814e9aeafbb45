package compliance_test

import (
	"testing"
	"time"

	"github.com/thegspiro/the-logbook-sub001/compliance"
)

func TestMonthsBetween_InclusiveGrid(t *testing.T) {
	// GIVEN: A span from November 2025 to February 2026
	// WHEN: Enumerating the months
	// THEN: Four months, inclusive on both ends, crossing the year boundary

	months := compliance.MonthsBetween(date(2025, time.November, 20), date(2026, time.February, 3))

	if len(months) != 4 {
		t.Fatalf("expected 4 months, got %d", len(months))
	}
	want := []compliance.Month{
		{Year: 2025, Month: time.November},
		{Year: 2025, Month: time.December},
		{Year: 2026, Month: time.January},
		{Year: 2026, Month: time.February},
	}
	for i, m := range months {
		if m != want[i] {
			t.Errorf("month %d: expected %v, got %v", i, want[i], m)
		}
	}
}

func TestMonthsBetween_SameMonth(t *testing.T) {
	months := compliance.MonthsBetween(date(2026, time.March, 1), date(2026, time.March, 31))
	if len(months) != 1 {
		t.Errorf("expected 1 month, got %d", len(months))
	}
}

func TestMonthsBetween_EndBeforeStart(t *testing.T) {
	months := compliance.MonthsBetween(date(2026, time.March, 1), date(2026, time.February, 1))
	if months != nil {
		t.Errorf("expected nil for an inverted span, got %v", months)
	}
}

func TestCountMonths(t *testing.T) {
	// GIVEN: Various day-level spans
	// WHEN: Counting touched months
	// THEN: Partial months count as whole months

	cases := []struct {
		name       string
		start, end compliance.Date
		want       int
	}{
		{"full year", date(2026, time.January, 1), date(2026, time.December, 31), 12},
		{"two days, two months", date(2026, time.January, 31), date(2026, time.February, 1), 2},
		{"single day", date(2026, time.June, 15), date(2026, time.June, 15), 1},
		{"inverted", date(2026, time.February, 1), date(2026, time.January, 31), 0},
	}

	for _, tc := range cases {
		if got := compliance.CountMonths(tc.start, tc.end); got != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestMonth_Overlaps(t *testing.T) {
	june := compliance.Month{Year: 2026, Month: time.June}

	if !june.Overlaps(date(2026, time.June, 30), date(2026, time.June, 30)) {
		t.Error("a single day inside the month must overlap")
	}
	if june.Overlaps(date(2026, time.July, 1), date(2026, time.August, 1)) {
		t.Error("an adjacent span must not overlap")
	}
	if june.Overlaps(date(2026, time.June, 20), date(2026, time.June, 10)) {
		t.Error("an inverted span must not overlap")
	}
	if !june.Overlaps(date(2026, time.January, 1), date(2026, time.December, 31)) {
		t.Error("a span containing the month must overlap")
	}
}

func TestMonth_NextRollsTheYear(t *testing.T) {
	dec := compliance.Month{Year: 2025, Month: time.December}
	next := dec.Next()
	if next.Year != 2026 || next.Month != time.January {
		t.Errorf("expected January 2026, got %v", next)
	}
}

func TestMonth_BoundsInLeapFebruary(t *testing.T) {
	feb := compliance.Month{Year: 2028, Month: time.February}
	if !feb.Start().Equal(date(2028, time.February, 1)) {
		t.Errorf("expected start 2028-02-01, got %v", feb.Start())
	}
	if !feb.End().Equal(date(2028, time.February, 29)) {
		t.Errorf("expected end 2028-02-29, got %v", feb.End())
	}
}
