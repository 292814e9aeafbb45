package compliance

import (
	"time"
)

// =============================================================================
// DATE - Day-granularity time point
// =============================================================================
// Every date the engine touches (completion dates, expirations, waiver
// bounds, the reference date) is a calendar day in UTC. Hour-level precision
// never matters for compliance, so Date normalizes everything to midnight.

type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now().UTC())
}

// ParseDate parses an ISO date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.Time.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{Time: d.Time.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

// Snapping
func (d Date) StartOfMonth() Date { return StartOfMonth(d.Year(), d.Month()) }
func (d Date) StartOfYear() Date  { return StartOfYear(d.Year()) }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// =============================================================================
// DATE UTILITIES
// =============================================================================

// DaysBetween returns to - from in whole days. Negative when to is earlier.
func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

func StartOfYear(year int) Date { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date   { return NewDate(year, time.December, 31) }

func StartOfMonth(year int, month time.Month) Date { return NewDate(year, month, 1) }

// EndOfMonth relies on time.Date normalizing month 13 into January of the
// next year, so December (and quarter-end arithmetic) needs no special case.
func EndOfMonth(year int, month time.Month) Date {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Date{Time: t}
}
