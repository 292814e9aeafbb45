package compliance

import "time"

// =============================================================================
// WINDOW - The date range records are counted over
// =============================================================================

// Window is an inclusive [Start, End] date range.
type Window struct {
	Start Date
	End   Date
}

// Contains returns true if the date is within the window [Start, End].
func (w Window) Contains(d Date) bool {
	return d.AfterOrEqual(w.Start) && d.BeforeOrEqual(w.End)
}

func (w Window) String() string {
	return "[" + w.Start.String() + ", " + w.End.String() + "]"
}

// =============================================================================
// WINDOW RESOLVER - Which window applies as of a reference date
// =============================================================================

// WindowFor resolves the evaluation window for a requirement as of today.
// ok is false when the requirement has no bounded window: one-time rules
// evaluate against the member's entire history, and biannual rules derive
// their due-date semantics from certificate expirations rather than
// calendar boundaries.
//
// A rolling due-date type overrides the frequency entirely: the window is
// always the trailing RollingPeriodMonths months ending today.
func WindowFor(r Requirement, today Date) (Window, bool) {
	if r.DueDateType == DueRolling && r.RollingPeriodMonths > 0 {
		return Window{Start: today.AddMonths(-r.RollingPeriodMonths), End: today}, true
	}

	switch r.Frequency {
	case FrequencyOneTime:
		return Window{}, false

	case FrequencyBiannual:
		return Window{}, false

	case FrequencyQuarterly:
		quarterStart := time.Month((int(today.Month())-1)/3*3 + 1)
		return Window{
			Start: StartOfMonth(today.Year(), quarterStart),
			End:   EndOfMonth(today.Year(), quarterStart+2),
		}, true

	case FrequencyMonthly:
		return Window{
			Start: StartOfMonth(today.Year(), today.Month()),
			End:   EndOfMonth(today.Year(), today.Month()),
		}, true

	default:
		// Annual, and any frequency this version does not recognize.
		year := today.Year()
		if r.Year > 0 {
			year = r.Year
		}
		return Window{Start: StartOfYear(year), End: EndOfYear(year)}, true
	}
}
