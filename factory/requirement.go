/*
Package factory provides JSON to Go requirement conversion.

PURPOSE:
  Converts JSON requirement definitions into compliance.Requirement values.
  This enables rule configuration without code changes - a training officer
  can define requirements in JSON, and the factory creates the proper Go
  structs.

WHY JSON?
  - Non-developers can modify requirements
  - Easy integration with the admin UI
  - Version control for department rule sets
  - Database storage of requirement configs

JSON SCHEMA:
  {
    "id": "req-fire-hours",
    "name": "Annual Fire Training",
    "type": "hours",
    "frequency": "annual",
    "due_date_type": "calendar_period",
    "training_type": "fire",
    "required_hours": 24,
    "active": true
  }

VALIDATION:
  The factory is strict where the engine is lenient. Unknown type/frequency
  spellings are rejected here so admin typos surface immediately; the
  engine's fallback arm only exists for rows that bypass the factory. A
  target that is merely absent is allowed (the engine treats it as
  auto-satisfied), but a target belonging to a different type is rejected.

USAGE:
  f := factory.NewRequirementFactory()
  req, err := f.ParseRequirement(jsonStr)

SEE ALSO:
  - compliance/types.go: Requirement definition
  - training/presets.go: Go-based requirement presets
*/
package factory

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/thegspiro/the-logbook-sub001/compliance"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RequirementJSON is the JSON representation of a requirement.
type RequirementJSON struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description,omitempty"`
	Type                string   `json:"type"`
	Frequency           string   `json:"frequency,omitempty"`      // default "annual"
	DueDateType         string   `json:"due_date_type,omitempty"`  // default "calendar_period"
	RollingPeriodMonths int      `json:"rolling_period_months,omitempty"`
	TrainingType        string   `json:"training_type,omitempty"`
	RequiredHours       float64  `json:"required_hours,omitempty"`
	RequiredCourses     []string `json:"required_courses,omitempty"`
	RequiredShifts      int      `json:"required_shifts,omitempty"`
	RequiredCalls       int      `json:"required_calls,omitempty"`
	RegistryCode        string   `json:"registry_code,omitempty"`
	Year                int      `json:"year,omitempty"`
	DueDate             string   `json:"due_date,omitempty"` // ISO date
	Active              *bool    `json:"active,omitempty"`   // default true
}

// =============================================================================
// REQUIREMENT FACTORY
// =============================================================================

// RequirementFactory converts JSON requirements to Go structs.
type RequirementFactory struct{}

// NewRequirementFactory creates a new requirement factory.
func NewRequirementFactory() *RequirementFactory {
	return &RequirementFactory{}
}

// ParseRequirement parses a JSON string into a Requirement.
func (f *RequirementFactory) ParseRequirement(jsonStr string) (compliance.Requirement, error) {
	var rj RequirementJSON
	if err := json.Unmarshal([]byte(jsonStr), &rj); err != nil {
		return compliance.Requirement{}, fmt.Errorf("failed to parse requirement JSON: %w", err)
	}
	return f.FromJSON(rj)
}

// ParseRequirements parses a JSON array of requirement definitions.
func (f *RequirementFactory) ParseRequirements(jsonStr string) ([]compliance.Requirement, error) {
	var rjs []RequirementJSON
	if err := json.Unmarshal([]byte(jsonStr), &rjs); err != nil {
		return nil, fmt.Errorf("failed to parse requirements JSON: %w", err)
	}
	reqs := make([]compliance.Requirement, 0, len(rjs))
	for _, rj := range rjs {
		r, err := f.FromJSON(rj)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, nil
}

// FromJSON validates and converts one definition.
func (f *RequirementFactory) FromJSON(rj RequirementJSON) (compliance.Requirement, error) {
	id := compliance.RequirementID(rj.ID)
	if rj.ID == "" {
		return compliance.Requirement{}, &compliance.RequirementError{Field: "id", Reason: "required"}
	}
	if rj.Name == "" {
		return compliance.Requirement{}, &compliance.RequirementError{ID: id, Field: "name", Reason: "required"}
	}

	reqType, err := parseRequirementType(rj.Type)
	if err != nil {
		return compliance.Requirement{}, &compliance.RequirementError{ID: id, Field: "type", Reason: err.Error()}
	}
	freq, err := parseFrequency(rj.Frequency)
	if err != nil {
		return compliance.Requirement{}, &compliance.RequirementError{ID: id, Field: "frequency", Reason: err.Error()}
	}
	dueType, err := parseDueDateType(rj.DueDateType)
	if err != nil {
		return compliance.Requirement{}, &compliance.RequirementError{ID: id, Field: "due_date_type", Reason: err.Error()}
	}

	if dueType == compliance.DueRolling && rj.RollingPeriodMonths <= 0 {
		return compliance.Requirement{}, &compliance.RequirementError{
			ID: id, Field: "rolling_period_months", Reason: "required for rolling due date type",
		}
	}
	if rj.Year != 0 && (rj.Year < 1970 || rj.Year > 2100) {
		return compliance.Requirement{}, &compliance.RequirementError{ID: id, Field: "year", Reason: "out of range"}
	}
	if err := checkTargets(reqType, rj); err != nil {
		return compliance.Requirement{}, &compliance.RequirementError{ID: id, Field: "required_*", Reason: err.Error()}
	}

	r := compliance.Requirement{
		ID:                  id,
		Name:                rj.Name,
		Description:         rj.Description,
		Type:                reqType,
		Frequency:           freq,
		DueDateType:         dueType,
		RollingPeriodMonths: rj.RollingPeriodMonths,
		TrainingType:        rj.TrainingType,
		RequiredHours:       decimal.NewFromFloat(rj.RequiredHours),
		RequiredShifts:      rj.RequiredShifts,
		RequiredCalls:       rj.RequiredCalls,
		RegistryCode:        rj.RegistryCode,
		Year:                rj.Year,
		Active:              true,
	}
	for _, c := range rj.RequiredCourses {
		r.RequiredCourses = append(r.RequiredCourses, compliance.CourseID(c))
	}
	if rj.Active != nil {
		r.Active = *rj.Active
	}
	if rj.DueDate != "" {
		due, err := compliance.ParseDate(rj.DueDate)
		if err != nil {
			return compliance.Requirement{}, &compliance.RequirementError{ID: id, Field: "due_date", Reason: "not an ISO date"}
		}
		r.DueDate = &due
	}
	return r, nil
}

// ToJSON converts a Requirement back to its JSON form.
func (f *RequirementFactory) ToJSON(r compliance.Requirement) RequirementJSON {
	hours, _ := r.RequiredHours.Float64()
	active := r.Active
	rj := RequirementJSON{
		ID:                  string(r.ID),
		Name:                r.Name,
		Description:         r.Description,
		Type:                string(r.Type),
		Frequency:           string(r.Frequency),
		DueDateType:         string(r.DueDateType),
		RollingPeriodMonths: r.RollingPeriodMonths,
		TrainingType:        r.TrainingType,
		RequiredHours:       hours,
		RequiredShifts:      r.RequiredShifts,
		RequiredCalls:       r.RequiredCalls,
		RegistryCode:        r.RegistryCode,
		Year:                r.Year,
		Active:              &active,
	}
	for _, c := range r.RequiredCourses {
		rj.RequiredCourses = append(rj.RequiredCourses, string(c))
	}
	if r.DueDate != nil {
		rj.DueDate = r.DueDate.String()
	}
	return rj
}

// =============================================================================
// PARSE HELPERS
// =============================================================================

func parseRequirementType(s string) (compliance.RequirementType, error) {
	switch compliance.RequirementType(s) {
	case compliance.RequirementHours, compliance.RequirementCourses,
		compliance.RequirementCertification, compliance.RequirementShifts,
		compliance.RequirementCalls, compliance.RequirementFallback:
		return compliance.RequirementType(s), nil
	case "":
		return "", fmt.Errorf("required")
	default:
		return "", fmt.Errorf("unknown type %q", s)
	}
}

func parseFrequency(s string) (compliance.Frequency, error) {
	switch compliance.Frequency(s) {
	case compliance.FrequencyOneTime, compliance.FrequencyAnnual,
		compliance.FrequencyQuarterly, compliance.FrequencyMonthly,
		compliance.FrequencyBiannual:
		return compliance.Frequency(s), nil
	case "":
		return compliance.FrequencyAnnual, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", s)
	}
}

func parseDueDateType(s string) (compliance.DueDateType, error) {
	switch compliance.DueDateType(s) {
	case compliance.DueCalendarPeriod, compliance.DueRolling, compliance.DueFixed:
		return compliance.DueDateType(s), nil
	case "":
		return compliance.DueCalendarPeriod, nil
	default:
		return "", fmt.Errorf("unknown due date type %q", s)
	}
}

// checkTargets rejects targets that belong to a different requirement type.
// The matching target may be absent: the engine treats that as
// auto-satisfied rather than a configuration error.
func checkTargets(t compliance.RequirementType, rj RequirementJSON) error {
	if rj.RequiredHours != 0 && t != compliance.RequirementHours {
		return fmt.Errorf("required_hours set on %s requirement", t)
	}
	if len(rj.RequiredCourses) != 0 && t != compliance.RequirementCourses {
		return fmt.Errorf("required_courses set on %s requirement", t)
	}
	if rj.RequiredShifts != 0 && t != compliance.RequirementShifts {
		return fmt.Errorf("required_shifts set on %s requirement", t)
	}
	if rj.RequiredCalls != 0 && t != compliance.RequirementCalls {
		return fmt.Errorf("required_calls set on %s requirement", t)
	}
	return nil
}
