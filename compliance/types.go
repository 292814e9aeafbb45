/*
Package compliance provides the training-requirement compliance engine.

PURPOSE:
  This package contains the types and algorithms that decide whether a
  department member currently satisfies a training requirement, how much
  progress they have made, and when the requirement is next due. It
  reconciles six requirement shapes (hours, course checklists, expiring
  certifications, shift counts, call counts, free-form fallbacks) against
  five recurrence frequencies and three due-date strategies, and prorates
  targets for approved waiver periods.

KEY CONCEPTS IN THIS FILE (types.go):
  - Requirement: An administrator-defined compliance rule
  - TrainingRecord: One completed-training fact for a member
  - WaiverPeriod: An approved exemption reducing a target for part of a window
  - RequirementProgress: The computed result for one (member, requirement) pair
  - Member/Requirement/Record IDs: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Purity: Evaluate reads its arguments and nothing else. No clock reads,
     no store lookups, no caching. The reference date is always an argument.
  2. Precision: decimal.Decimal for hours, targets, and percentages so
     fractional hours never drift.
  3. Leniency: a requirement with an absent or zero target is auto-satisfied
     rather than an error, so a half-configured rule degrades a report
     instead of crashing it.
  4. Fail-safe dispatch: unrecognized requirement types fall through to the
     fallback evaluator instead of being silently skipped.

USAGE:
  progress := compliance.Evaluate(requirement, records, waivers, today)
  if !progress.IsComplete {
      // member is out of compliance for this requirement
  }

SEE ALSO:
  - window.go: evaluation-window resolution per frequency
  - evaluators.go: the six per-type evaluators
  - waiver.go: waiver-based target proration
  - evaluate.go: Evaluate, BatchEvaluate, PointEvaluator
*/
package compliance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type MemberID string
type RequirementID string
type RecordID string
type WaiverID string
type CourseID string

// =============================================================================
// REQUIREMENT - An administrator-defined compliance rule
// =============================================================================

type RequirementType string

const (
	RequirementHours         RequirementType = "hours"         // Accumulate N training hours in the window
	RequirementCourses       RequirementType = "courses"       // Complete a checklist of specific courses
	RequirementCertification RequirementType = "certification" // Hold one unexpired certification
	RequirementShifts        RequirementType = "shifts"        // Work N shifts in the window
	RequirementCalls         RequirementType = "calls"         // Respond to N calls in the window
	RequirementFallback      RequirementType = "fallback"      // Free-form match, certification semantics
)

type Frequency string

const (
	FrequencyOneTime   Frequency = "one_time"  // Ever, against the full history
	FrequencyAnnual    Frequency = "annual"    // Calendar year (optionally pinned by Requirement.Year)
	FrequencyQuarterly Frequency = "quarterly" // Calendar quarter containing the reference date
	FrequencyMonthly   Frequency = "monthly"   // Calendar month containing the reference date
	FrequencyBiannual  Frequency = "biannual"  // Two-year certification cycle, driven by expirations
)

type DueDateType string

const (
	DueCalendarPeriod DueDateType = "calendar_period" // Due at the end of the frequency window
	DueRolling        DueDateType = "rolling"         // Window is the trailing N months from today
	DueFixed          DueDateType = "fixed"           // Explicit Requirement.DueDate
)

// Requirement is a single compliance rule. Exactly one of the Required*
// targets should be populated, matching Type; an absent or non-positive
// target makes the requirement auto-satisfied.
type Requirement struct {
	ID          RequirementID
	Name        string // Display name; also the substring key for certification/fallback matching
	Description string
	Type        RequirementType
	Frequency   Frequency
	DueDateType DueDateType

	// RollingPeriodMonths is the trailing-window length when DueDateType is
	// rolling. Ignored otherwise.
	RollingPeriodMonths int

	// TrainingType narrows which records count (empty = no filter for the
	// windowed evaluators, and one of the match keys for certification).
	TrainingType string

	RequiredHours   decimal.Decimal
	RequiredCourses []CourseID
	RequiredShifts  int
	RequiredCalls   int

	// RegistryCode is matched as a substring of a record's certification
	// number (e.g. a ProBoard or state registry prefix).
	RegistryCode string

	// Year pins an annual window to a specific calendar year. Zero means
	// "the reference date's year".
	Year int

	// DueDate overrides the derived due date when set.
	DueDate *Date

	Active bool
}

// =============================================================================
// TRAINING RECORD - One completed-training fact
// =============================================================================

type RecordStatus string

const (
	StatusCompleted  RecordStatus = "completed"
	StatusInProgress RecordStatus = "in_progress"
	StatusCancelled  RecordStatus = "cancelled"
)

// TrainingRecord is one training fact for a member, whether entered by hand
// or synced from an external provider. Only completed records count toward
// compliance. A record with no completion date is invisible to the windowed
// evaluators but still visible to certification matching, which cares about
// expiration instead.
type TrainingRecord struct {
	ID                  RecordID
	MemberID            MemberID
	CourseID            CourseID
	CourseName          string
	TrainingType        string
	CompletionDate      *Date
	ExpirationDate      *Date
	HoursCompleted      decimal.Decimal
	CertificationNumber string
	Status              RecordStatus
}

// =============================================================================
// WAIVER PERIOD - An approved exemption
// =============================================================================

// WaiverPeriod exempts a member for a span of time. A nil RequirementID is a
// blanket waiver covering every requirement; a nil End means the waiver is
// open-ended and runs through the reference date.
type WaiverPeriod struct {
	ID            WaiverID
	MemberID      MemberID
	RequirementID *RequirementID
	Start         Date
	End           *Date
	Reason        string
}

// =============================================================================
// REQUIREMENT PROGRESS - The engine's sole output
// =============================================================================

// RequirementProgress is a pure projection, recomputed on every evaluation
// and never persisted.
type RequirementProgress struct {
	CompletedValue        decimal.Decimal
	RequiredValue         decimal.Decimal // waiver-adjusted target
	OriginalRequiredValue decimal.Decimal // target before waiver proration
	Percentage            decimal.Decimal // 0-100
	IsComplete            bool
	DueDate               *Date
	DaysUntilDue          *int // negative when overdue
	WaivedMonths          int
	ActiveMonths          int
	CertExpired           bool
	BlocksActivity        bool
}
