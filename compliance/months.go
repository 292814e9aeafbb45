package compliance

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH GRID - Calendar-month arithmetic for waiver proration
// =============================================================================
// Waiver proration counts calendar months, and an off-by-one here silently
// flips compliance outcomes, so the month arithmetic lives in one small
// unit-tested place instead of inline in the adjuster.

// Month identifies a single calendar month.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(d Date) Month {
	return Month{Year: d.Year(), Month: d.Month()}
}

func (m Month) Start() Date { return StartOfMonth(m.Year, m.Month) }
func (m Month) End() Date   { return EndOfMonth(m.Year, m.Month) }

func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }

// index maps a month onto a single integer so spans reduce to subtraction.
func (m Month) index() int { return m.Year*12 + int(m.Month) - 1 }

// Overlaps reports whether the inclusive range [start, end] covers at least
// one day of this month.
func (m Month) Overlaps(start, end Date) bool {
	if end.Before(start) {
		return false
	}
	return !start.After(m.End()) && !end.Before(m.Start())
}

// MonthsBetween returns every calendar month touched by the inclusive range
// [start, end], in order. A range inside one month yields that single month;
// end before start yields nil.
func MonthsBetween(start, end Date) []Month {
	if end.Before(start) {
		return nil
	}
	first := MonthOf(start)
	last := MonthOf(end)
	months := make([]Month, 0, last.index()-first.index()+1)
	for m := first; m.index() <= last.index(); m = m.Next() {
		months = append(months, m)
	}
	return months
}

// CountMonths returns how many calendar months [start, end] touches. Partial
// months count: Jan 31 - Feb 1 spans two months.
func CountMonths(start, end Date) int {
	if end.Before(start) {
		return 0
	}
	return MonthOf(end).index() - MonthOf(start).index() + 1
}
