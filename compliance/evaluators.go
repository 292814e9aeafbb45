package compliance

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TYPE EVALUATORS - Raw completed/required per requirement shape
// =============================================================================
// Each evaluator consumes the member's completed records (already status
// filtered), the resolved window if one exists, and the reference date, and
// produces the raw pair the assembler turns into RequirementProgress.
//
// Two families:
//   windowed (hours, courses, shifts, calls): count records whose completion
//     date falls inside the window
//   certification-like (certification, fallback): ignore the window, find the
//     best matching record, judge it by expiration

// rawProgress is the unassembled evaluator output.
type rawProgress struct {
	completed      decimal.Decimal
	baseRequired   decimal.Decimal
	certExpired    bool
	blocksActivity bool

	// latestExpiration feeds the biannual due-date override.
	latestExpiration *Date
}

// evaluateType dispatches on the requirement type. Unrecognized types take
// the fallback arm rather than being skipped, so a rule written by a newer
// version still evaluates to something visible instead of vanishing from
// compliance reports.
func evaluateType(r Requirement, win Window, hasWindow bool, records []TrainingRecord, today Date) rawProgress {
	var raw rawProgress
	switch r.Type {
	case RequirementHours:
		raw = evaluateHours(r, win, hasWindow, records)
	case RequirementCourses:
		raw = evaluateCourses(r, win, hasWindow, records)
	case RequirementCertification:
		raw = evaluateCertLike(records, today, func(rec TrainingRecord) bool {
			return matchesCertification(r, rec)
		})
	case RequirementShifts:
		raw = evaluateCount(r.RequiredShifts, r.TrainingType, win, hasWindow, records)
	case RequirementCalls:
		raw = evaluateCount(r.RequiredCalls, r.TrainingType, win, hasWindow, records)
	default:
		raw = evaluateCertLike(records, today, func(rec TrainingRecord) bool {
			return matchesFallback(r, rec)
		})
	}

	// Biannual hours carry a certification rider: an expired (or missing)
	// certificate overrides accumulated hours unconditionally.
	if r.Type == RequirementHours && r.Frequency == FrequencyBiannual {
		applyExpirationOverride(&raw, r, records, today)
	}
	return raw
}

// =============================================================================
// WINDOWED EVALUATORS
// =============================================================================

func evaluateHours(r Requirement, win Window, hasWindow bool, records []TrainingRecord) rawProgress {
	raw := rawProgress{baseRequired: r.RequiredHours, completed: decimal.Zero}
	courses := courseSet(r.RequiredCourses)
	for _, rec := range records {
		if !inWindow(rec, win, hasWindow) {
			continue
		}
		if !matchesTrainingType(rec, r.TrainingType) {
			continue
		}
		if len(courses) > 0 && !courses[rec.CourseID] {
			continue
		}
		raw.completed = raw.completed.Add(rec.HoursCompleted)
	}
	return raw
}

func evaluateCourses(r Requirement, win Window, hasWindow bool, records []TrainingRecord) rawProgress {
	raw := rawProgress{baseRequired: decimal.NewFromInt(int64(len(r.RequiredCourses)))}
	courses := courseSet(r.RequiredCourses)
	seen := make(map[CourseID]bool)
	for _, rec := range records {
		if !inWindow(rec, win, hasWindow) {
			continue
		}
		if courses[rec.CourseID] {
			seen[rec.CourseID] = true
		}
	}
	raw.completed = decimal.NewFromInt(int64(len(seen)))
	return raw
}

func evaluateCount(required int, trainingType string, win Window, hasWindow bool, records []TrainingRecord) rawProgress {
	raw := rawProgress{baseRequired: decimal.NewFromInt(int64(required))}
	count := 0
	for _, rec := range records {
		if !inWindow(rec, win, hasWindow) {
			continue
		}
		if !matchesTrainingType(rec, trainingType) {
			continue
		}
		count++
	}
	raw.completed = decimal.NewFromInt(int64(count))
	return raw
}

// =============================================================================
// CERTIFICATION-LIKE EVALUATORS
// =============================================================================

// evaluateCertLike finds the latest matching record by completion date and
// judges it by expiration. No match at all reads as expired: a member with
// nothing on file is just as out of compliance as one whose card lapsed.
func evaluateCertLike(records []TrainingRecord, today Date, match func(TrainingRecord) bool) rawProgress {
	raw := rawProgress{baseRequired: decimal.NewFromInt(1), completed: decimal.Zero}

	var best *TrainingRecord
	for i := range records {
		if !match(records[i]) {
			continue
		}
		if best == nil || completionOf(records[i]).After(completionOf(*best)) {
			best = &records[i]
		}
	}

	if best == nil {
		raw.certExpired = true
		return raw
	}

	if best.ExpirationDate != nil {
		exp := *best.ExpirationDate
		raw.latestExpiration = &exp
		if exp.Before(today) {
			raw.certExpired = true
			raw.blocksActivity = true
			return raw
		}
	}

	raw.completed = decimal.NewFromInt(1)
	return raw
}

// matchesCertification matches on any of the three certification keys.
// Empty keys never match: an unset name would otherwise substring-match
// every course on file.
func matchesCertification(r Requirement, rec TrainingRecord) bool {
	if r.TrainingType != "" && rec.TrainingType == r.TrainingType {
		return true
	}
	if r.Name != "" && containsFold(rec.CourseName, r.Name) {
		return true
	}
	if r.RegistryCode != "" && rec.CertificationNumber != "" && containsFold(rec.CertificationNumber, r.RegistryCode) {
		return true
	}
	return false
}

// matchesFallback prefers the training-type filter when one is configured,
// otherwise falls back to name matching.
func matchesFallback(r Requirement, rec TrainingRecord) bool {
	if r.TrainingType != "" {
		return rec.TrainingType == r.TrainingType
	}
	if r.Name != "" {
		return containsFold(rec.CourseName, r.Name)
	}
	return false
}

// =============================================================================
// BIANNUAL EXPIRATION OVERRIDE
// =============================================================================

// applyExpirationOverride scans the full history for the latest expiration
// on records matching the requirement's training type. Expired (or absent)
// forces the requirement incomplete regardless of hours on file.
func applyExpirationOverride(raw *rawProgress, r Requirement, records []TrainingRecord, today Date) {
	var latest *Date
	for _, rec := range records {
		if !matchesTrainingType(rec, r.TrainingType) {
			continue
		}
		if rec.ExpirationDate == nil {
			continue
		}
		if latest == nil || rec.ExpirationDate.After(*latest) {
			exp := *rec.ExpirationDate
			latest = &exp
		}
	}

	if latest == nil {
		raw.certExpired = true
		return
	}

	raw.latestExpiration = latest
	if latest.Before(today) {
		raw.certExpired = true
		raw.blocksActivity = true
		raw.completed = decimal.Zero
	}
}

// =============================================================================
// RECORD FILTERS
// =============================================================================

// inWindow reports whether a record counts for a windowed evaluator.
// Records without a completion date never do, window or not.
func inWindow(rec TrainingRecord, win Window, hasWindow bool) bool {
	if rec.CompletionDate == nil {
		return false
	}
	if !hasWindow {
		return true
	}
	return win.Contains(*rec.CompletionDate)
}

func matchesTrainingType(rec TrainingRecord, trainingType string) bool {
	return trainingType == "" || rec.TrainingType == trainingType
}

// completionOf treats a missing completion date as the zero date so it
// always loses the "latest" comparison.
func completionOf(rec TrainingRecord) Date {
	if rec.CompletionDate == nil {
		return Date{}
	}
	return *rec.CompletionDate
}

func courseSet(ids []CourseID) map[CourseID]bool {
	set := make(map[CourseID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// containsFold reports whether substr occurs within s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
