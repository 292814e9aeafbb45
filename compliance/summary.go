package compliance

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ROSTER SUMMARY - Tiered compliance rollup
// =============================================================================
// Pure aggregation over BatchEvaluate output. Nothing here re-evaluates;
// the summary is only a different view of the same evaluations.

type ComplianceTier string

const (
	TierGreen  ComplianceTier = "green"  // every active requirement complete
	TierYellow ComplianceTier = "yellow" // something incomplete, nothing blocking
	TierRed    ComplianceTier = "red"    // an expired certification or blocked activity
)

// MemberSummary rolls one member's evaluations into a single line.
type MemberSummary struct {
	MemberID     MemberID
	Total        int
	Complete     int
	ExpiredCerts int
	Blocked      bool
	Percentage   decimal.Decimal // complete/total as 0-100
	Tier         ComplianceTier
}

// RosterSummary buckets a roster into compliance tiers.
type RosterSummary struct {
	AsOf    Date
	Members []MemberSummary
	Green   int
	Yellow  int
	Red     int
}

// Summarize groups evaluations by member and assigns each a tier. Members
// are ordered by id so the output is deterministic regardless of input
// ordering.
func Summarize(evals []Evaluation, asOf Date) RosterSummary {
	byMember := make(map[MemberID]*MemberSummary)
	for _, ev := range evals {
		ms, ok := byMember[ev.MemberID]
		if !ok {
			ms = &MemberSummary{MemberID: ev.MemberID}
			byMember[ev.MemberID] = ms
		}
		ms.Total++
		if ev.Progress.IsComplete {
			ms.Complete++
		}
		if ev.Progress.CertExpired {
			ms.ExpiredCerts++
		}
		if ev.Progress.BlocksActivity {
			ms.Blocked = true
		}
	}

	summary := RosterSummary{AsOf: asOf}
	for _, ms := range byMember {
		ms.Percentage = completionRate(ms.Complete, ms.Total)
		ms.Tier = tierOf(*ms)
		switch ms.Tier {
		case TierGreen:
			summary.Green++
		case TierYellow:
			summary.Yellow++
		case TierRed:
			summary.Red++
		}
		summary.Members = append(summary.Members, *ms)
	}

	sort.Slice(summary.Members, func(i, j int) bool {
		return summary.Members[i].MemberID < summary.Members[j].MemberID
	})
	return summary
}

func tierOf(ms MemberSummary) ComplianceTier {
	switch {
	case ms.ExpiredCerts > 0 || ms.Blocked:
		return TierRed
	case ms.Complete == ms.Total:
		return TierGreen
	default:
		return TierYellow
	}
}

// =============================================================================
// REQUIREMENT REPORT - Per-requirement rollup across the roster
// =============================================================================

// RequirementReport aggregates one requirement across every evaluated
// member.
type RequirementReport struct {
	RequirementID  RequirementID
	Members        int
	Complete       int
	ExpiredCerts   int
	CompletionRate decimal.Decimal // 0-100
}

// ReportByRequirement groups evaluations by requirement, ordered by id.
func ReportByRequirement(evals []Evaluation) []RequirementReport {
	byReq := make(map[RequirementID]*RequirementReport)
	for _, ev := range evals {
		rr, ok := byReq[ev.RequirementID]
		if !ok {
			rr = &RequirementReport{RequirementID: ev.RequirementID}
			byReq[ev.RequirementID] = rr
		}
		rr.Members++
		if ev.Progress.IsComplete {
			rr.Complete++
		}
		if ev.Progress.CertExpired {
			rr.ExpiredCerts++
		}
	}

	reports := make([]RequirementReport, 0, len(byReq))
	for _, rr := range byReq {
		rr.CompletionRate = completionRate(rr.Complete, rr.Members)
		reports = append(reports, *rr)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].RequirementID < reports[j].RequirementID
	})
	return reports
}

func completionRate(complete, total int) decimal.Decimal {
	if total == 0 {
		return hundred
	}
	return decimal.NewFromInt(int64(complete)).
		Mul(hundred).
		DivRound(decimal.NewFromInt(int64(total)), 2)
}
