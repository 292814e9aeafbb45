package compliance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// WAIVER ADJUSTER - Prorate targets for waived months
// =============================================================================

// WaiverAdjustment is the prorated target for one evaluation.
type WaiverAdjustment struct {
	Required     decimal.Decimal
	WaivedMonths int
	ActiveMonths int
}

// AdjustForWaivers prorates the base target down for calendar months covered
// by an applicable waiver. Skipped entirely (base passes through, months
// report zero) when the target is non-positive or the requirement has no
// bounded window.
//
// Total months come from the calendar span of the window, except rolling
// windows which use the configured rolling length directly. Any month where
// an applicable waiver covers at least one day counts as waived. The
// prorated target rounds half-up to two decimal places.
func AdjustForWaivers(r Requirement, base decimal.Decimal, win Window, hasWindow bool, waivers []WaiverPeriod, today Date) WaiverAdjustment {
	adj := WaiverAdjustment{Required: base}
	if !hasWindow || base.Sign() <= 0 {
		return adj
	}

	total := CountMonths(win.Start, win.End)
	if r.DueDateType == DueRolling && r.RollingPeriodMonths > 0 {
		total = r.RollingPeriodMonths
	}
	if total == 0 {
		return adj
	}

	applicable := applicableWaivers(waivers, r.ID)
	waived := 0
	for _, m := range MonthsBetween(win.Start, win.End) {
		if monthWaived(m, applicable, today) {
			waived++
		}
	}

	// A rolling window's grid can touch one more calendar month than the
	// configured length, so active is clamped at zero.
	active := total - waived
	if active < 0 {
		active = 0
	}

	adj.WaivedMonths = waived
	adj.ActiveMonths = active
	adj.Required = base.
		Mul(decimal.NewFromInt(int64(active))).
		DivRound(decimal.NewFromInt(int64(total)), 2)
	return adj
}

// applicableWaivers keeps blanket waivers and those targeting the
// requirement.
func applicableWaivers(waivers []WaiverPeriod, id RequirementID) []WaiverPeriod {
	var out []WaiverPeriod
	for _, w := range waivers {
		if w.RequirementID == nil || *w.RequirementID == id {
			out = append(out, w)
		}
	}
	return out
}

// monthWaived reports whether any waiver covers at least one day of the
// month. Open-ended waivers run through the reference date.
func monthWaived(m Month, waivers []WaiverPeriod, today Date) bool {
	for _, w := range waivers {
		end := today
		if w.End != nil {
			end = *w.End
		}
		if m.Overlaps(w.Start, end) {
			return true
		}
	}
	return false
}
