package compliance

import (
	"context"
)

// =============================================================================
// EVALUATE - The shared, I/O-free core
// =============================================================================

// Evaluate computes compliance for one (member, requirement) pair as of the
// reference date. It is pure: it reads only its arguments, never touches a
// store or the wall clock, and is safe to call concurrently. Identical
// inputs always produce an identical RequirementProgress.
func Evaluate(r Requirement, records []TrainingRecord, waivers []WaiverPeriod, today Date) RequirementProgress {
	completed := completedOnly(records)
	win, hasWindow := WindowFor(r, today)
	raw := evaluateType(r, win, hasWindow, completed, today)
	adj := AdjustForWaivers(r, raw.baseRequired, win, hasWindow, waivers, today)
	return assembleProgress(r, win, hasWindow, raw, adj, today)
}

// completedOnly drops everything except completed records. In-progress and
// cancelled entries never count toward compliance.
func completedOnly(records []TrainingRecord) []TrainingRecord {
	out := make([]TrainingRecord, 0, len(records))
	for _, rec := range records {
		if rec.Status == StatusCompleted {
			out = append(out, rec)
		}
	}
	return out
}

// =============================================================================
// BATCH EVALUATION - Roster scale, pre-resolved inputs
// =============================================================================

// BatchInput carries everything a roster-wide evaluation needs, resolved up
// front by the caller in one pass. Members with no records at all must still
// appear in Members so their non-compliance is visible.
type BatchInput struct {
	Requirements []Requirement
	Members      []MemberID
	Records      map[MemberID][]TrainingRecord
	Waivers      map[MemberID][]WaiverPeriod
}

// Evaluation pairs one (member, requirement) with its computed progress.
type Evaluation struct {
	MemberID      MemberID
	RequirementID RequirementID
	Progress      RequirementProgress
}

// BatchEvaluate runs the shared core over every member and every active
// requirement. It trusts its input: the caller has already resolved records
// and waivers, so no lookups happen inside the loop. Results are ordered by
// member, then by requirement, following the input order.
func BatchEvaluate(in BatchInput, today Date) []Evaluation {
	evals := make([]Evaluation, 0, len(in.Members)*len(in.Requirements))
	for _, memberID := range in.Members {
		records := in.Records[memberID]
		waivers := in.Waivers[memberID]
		for _, r := range in.Requirements {
			if !r.Active {
				continue
			}
			evals = append(evals, Evaluation{
				MemberID:      memberID,
				RequirementID: r.ID,
				Progress:      Evaluate(r, records, waivers, today),
			})
		}
	}
	return evals
}

// =============================================================================
// POINT EVALUATION - Single lookups for ad hoc checks
// =============================================================================

// Source resolves the three inputs a point evaluation needs. The full Store
// satisfies it; so does anything narrower.
type Source interface {
	// GetRequirement returns ErrRequirementNotFound (possibly wrapped) when
	// the id does not resolve.
	GetRequirement(ctx context.Context, id RequirementID) (Requirement, error)
	ListMemberRecords(ctx context.Context, memberID MemberID) ([]TrainingRecord, error)
	ListMemberWaivers(ctx context.Context, memberID MemberID) ([]WaiverPeriod, error)
}

// PointEvaluator answers one-off "is this member compliant with this
// requirement" questions with a single targeted lookup per input. For the
// same underlying data it produces exactly what BatchEvaluate produces;
// the two paths differ only in how inputs are resolved.
type PointEvaluator struct {
	Source Source
}

// Evaluate resolves the requirement and the member's records and waivers,
// then runs the shared core. Inactive requirements still evaluate: an ad hoc
// check may legitimately inspect a retired rule.
func (pe *PointEvaluator) Evaluate(ctx context.Context, memberID MemberID, requirementID RequirementID, today Date) (RequirementProgress, error) {
	r, err := pe.Source.GetRequirement(ctx, requirementID)
	if err != nil {
		return RequirementProgress{}, err
	}
	records, err := pe.Source.ListMemberRecords(ctx, memberID)
	if err != nil {
		return RequirementProgress{}, err
	}
	waivers, err := pe.Source.ListMemberWaivers(ctx, memberID)
	if err != nil {
		return RequirementProgress{}, err
	}
	return Evaluate(r, records, waivers, today), nil
}
