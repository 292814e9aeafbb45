package compliance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PROGRESS ASSEMBLER - Window + raw progress + waivers -> final result
// =============================================================================

var hundred = decimal.NewFromInt(100)

// assembleProgress applies the completion and expiration rules, in order:
// a non-positive adjusted target is automatically satisfied, an expired
// certification zeroes the percentage no matter what, and completeness
// requires both a full percentage and a live certification.
func assembleProgress(r Requirement, win Window, hasWindow bool, raw rawProgress, adj WaiverAdjustment, today Date) RequirementProgress {
	p := RequirementProgress{
		CompletedValue:        raw.completed,
		RequiredValue:         adj.Required,
		OriginalRequiredValue: raw.baseRequired,
		WaivedMonths:          adj.WaivedMonths,
		ActiveMonths:          adj.ActiveMonths,
		CertExpired:           raw.certExpired,
		BlocksActivity:        raw.blocksActivity,
	}

	if adj.Required.Sign() <= 0 {
		p.Percentage = hundred
	} else {
		pct := raw.completed.Mul(hundred).DivRound(adj.Required, 2)
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
		p.Percentage = pct
	}
	if raw.certExpired {
		p.Percentage = decimal.Zero
	}

	p.IsComplete = p.Percentage.GreaterThanOrEqual(hundred) && !raw.certExpired

	if due := effectiveDueDate(r, win, hasWindow, raw, today); due != nil {
		p.DueDate = due
		days := DaysBetween(today, *due)
		p.DaysUntilDue = &days
	}
	return p
}

// effectiveDueDate picks the due date in precedence order. Biannual rules
// are due when their latest matching certificate expires (today, when
// nothing is on file); everything else honors an explicit due date first,
// then falls back to the window end.
func effectiveDueDate(r Requirement, win Window, hasWindow bool, raw rawProgress, today Date) *Date {
	if r.Frequency == FrequencyBiannual {
		if raw.latestExpiration != nil {
			due := *raw.latestExpiration
			return &due
		}
		due := today
		return &due
	}
	if r.DueDate != nil {
		due := *r.DueDate
		return &due
	}
	if hasWindow {
		due := win.End
		return &due
	}
	return nil
}
