/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Members:
    MemberDTO, CreateMemberRequest

  Requirements:
    Responses reuse factory.RequirementJSON directly - it already is the
    canonical wire shape, and round-tripping through it keeps the API and
    the import format identical.

  Records / Waivers:
    RecordDTO, CreateRecordRequest, WaiverDTO, CreateWaiverRequest

  Compliance:
    ProgressDTO, MemberComplianceDTO, MemberSummaryDTO, RosterSummaryDTO,
    RequirementReportDTO

  Scenarios:
    ScenarioDTO

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
  Requirement bodies are the exception: the factory validates those.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/requirement.go: RequirementJSON type
*/
package api

import (
	"time"

	"github.com/thegspiro/the-logbook-sub001/compliance"
	"github.com/thegspiro/the-logbook-sub001/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// MemberDTO represents a roster member in API responses.
type MemberDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Rank      string `json:"rank,omitempty"`
	JoinDate  string `json:"join_date"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateMemberRequest is the request to create a member.
// ID is optional; the server generates one when it is omitted.
type CreateMemberRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Rank     string `json:"rank"`
	JoinDate string `json:"join_date"`
}

// RecordDTO represents a training record in API responses.
type RecordDTO struct {
	ID                  string  `json:"id"`
	MemberID            string  `json:"member_id"`
	CourseID            string  `json:"course_id,omitempty"`
	CourseName          string  `json:"course_name,omitempty"`
	TrainingType        string  `json:"training_type,omitempty"`
	CompletionDate      *string `json:"completion_date,omitempty"`
	ExpirationDate      *string `json:"expiration_date,omitempty"`
	HoursCompleted      float64 `json:"hours_completed"`
	CertificationNumber string  `json:"certification_number,omitempty"`
	Status              string  `json:"status"`
}

// CreateRecordRequest is the request to log a training record.
type CreateRecordRequest struct {
	ID                  string  `json:"id"`
	CourseID            string  `json:"course_id"`
	CourseName          string  `json:"course_name"`
	TrainingType        string  `json:"training_type"`
	CompletionDate      string  `json:"completion_date"`
	ExpirationDate      string  `json:"expiration_date"`
	HoursCompleted      float64 `json:"hours_completed"`
	CertificationNumber string  `json:"certification_number"`
	Status              string  `json:"status"`
}

// WaiverDTO represents a waiver period in API responses.
type WaiverDTO struct {
	ID            string  `json:"id"`
	MemberID      string  `json:"member_id"`
	RequirementID *string `json:"requirement_id,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       *string `json:"end_date,omitempty"`
	Reason        string  `json:"reason,omitempty"`
}

// CreateWaiverRequest is the request to record a waiver period.
// RequirementID nil means the waiver covers every requirement.
// EndDate empty means the waiver is still open.
type CreateWaiverRequest struct {
	ID            string  `json:"id"`
	RequirementID *string `json:"requirement_id,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Reason        string  `json:"reason"`
}

// ProgressDTO represents evaluated progress against one requirement.
type ProgressDTO struct {
	RequirementID   string   `json:"requirement_id"`
	RequirementName string   `json:"requirement_name"`
	Type            string   `json:"type"`
	Frequency       string   `json:"frequency"`
	Completed       float64  `json:"completed"`
	Required        float64  `json:"required"`
	RequiredBase    float64  `json:"required_base"`
	Percentage      float64  `json:"percentage"`
	IsComplete      bool     `json:"is_complete"`
	DueDate         *string  `json:"due_date,omitempty"`
	DaysUntilDue    *int     `json:"days_until_due,omitempty"`
	WaivedMonths    int      `json:"waived_months"`
	ActiveMonths    int      `json:"active_months"`
	CertExpired     bool     `json:"cert_expired"`
	BlocksActivity  bool     `json:"blocks_activity"`
}

// MemberComplianceDTO is the full compliance picture for one member.
type MemberComplianceDTO struct {
	MemberID     string        `json:"member_id"`
	MemberName   string        `json:"member_name"`
	AsOf         string        `json:"as_of"`
	Requirements []ProgressDTO `json:"requirements"`
	Complete     int           `json:"complete"`
	Total        int           `json:"total"`
}

// MemberSummaryDTO is one roster row in the station summary.
type MemberSummaryDTO struct {
	MemberID     string  `json:"member_id"`
	Name         string  `json:"name,omitempty"`
	Total        int     `json:"total"`
	Complete     int     `json:"complete"`
	ExpiredCerts int     `json:"expired_certs"`
	Blocked      bool    `json:"blocked"`
	Percentage   float64 `json:"percentage"`
	Tier         string  `json:"tier"`
}

// RosterSummaryDTO is the station-wide compliance summary.
type RosterSummaryDTO struct {
	AsOf    string             `json:"as_of"`
	Green   int                `json:"green"`
	Yellow  int                `json:"yellow"`
	Red     int                `json:"red"`
	Members []MemberSummaryDTO `json:"members"`
}

// RequirementReportDTO is the per-requirement completion breakdown.
type RequirementReportDTO struct {
	RequirementID  string  `json:"requirement_id"`
	Name           string  `json:"name,omitempty"`
	Members        int     `json:"members"`
	Complete       int     `json:"complete"`
	ExpiredCerts   int     `json:"expired_certs"`
	CompletionRate float64 `json:"completion_rate"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toMemberDTO(m sqlite.Member) MemberDTO {
	return MemberDTO{
		ID:        string(m.ID),
		Name:      m.Name,
		Email:     m.Email,
		Rank:      m.Rank,
		JoinDate:  m.JoinDate.String(),
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

func toRecordDTO(rec compliance.TrainingRecord) RecordDTO {
	hours, _ := rec.HoursCompleted.Float64()
	return RecordDTO{
		ID:                  string(rec.ID),
		MemberID:            string(rec.MemberID),
		CourseID:            string(rec.CourseID),
		CourseName:          rec.CourseName,
		TrainingType:        rec.TrainingType,
		CompletionDate:      dateString(rec.CompletionDate),
		ExpirationDate:      dateString(rec.ExpirationDate),
		HoursCompleted:      hours,
		CertificationNumber: rec.CertificationNumber,
		Status:              string(rec.Status),
	}
}

func toRecordDTOs(records []compliance.TrainingRecord) []RecordDTO {
	dtos := make([]RecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRecordDTO(rec)
	}
	return dtos
}

func toWaiverDTO(w compliance.WaiverPeriod) WaiverDTO {
	dto := WaiverDTO{
		ID:        string(w.ID),
		MemberID:  string(w.MemberID),
		StartDate: w.Start.String(),
		EndDate:   dateString(w.End),
		Reason:    w.Reason,
	}
	if w.RequirementID != nil {
		s := string(*w.RequirementID)
		dto.RequirementID = &s
	}
	return dto
}

func toWaiverDTOs(waivers []compliance.WaiverPeriod) []WaiverDTO {
	dtos := make([]WaiverDTO, len(waivers))
	for i, w := range waivers {
		dtos[i] = toWaiverDTO(w)
	}
	return dtos
}

func toProgressDTO(r compliance.Requirement, p compliance.RequirementProgress) ProgressDTO {
	completed, _ := p.CompletedValue.Float64()
	required, _ := p.RequiredValue.Float64()
	base, _ := p.OriginalRequiredValue.Float64()
	pct, _ := p.Percentage.Float64()

	return ProgressDTO{
		RequirementID:   string(r.ID),
		RequirementName: r.Name,
		Type:            string(r.Type),
		Frequency:       string(r.Frequency),
		Completed:       completed,
		Required:        required,
		RequiredBase:    base,
		Percentage:      pct,
		IsComplete:      p.IsComplete,
		DueDate:         dateString(p.DueDate),
		DaysUntilDue:    p.DaysUntilDue,
		WaivedMonths:    p.WaivedMonths,
		ActiveMonths:    p.ActiveMonths,
		CertExpired:     p.CertExpired,
		BlocksActivity:  p.BlocksActivity,
	}
}

func toMemberSummaryDTO(s compliance.MemberSummary, name string) MemberSummaryDTO {
	pct, _ := s.Percentage.Float64()
	return MemberSummaryDTO{
		MemberID:     string(s.MemberID),
		Name:         name,
		Total:        s.Total,
		Complete:     s.Complete,
		ExpiredCerts: s.ExpiredCerts,
		Blocked:      s.Blocked,
		Percentage:   pct,
		Tier:         string(s.Tier),
	}
}

func toRequirementReportDTO(rep compliance.RequirementReport, name string) RequirementReportDTO {
	rate, _ := rep.CompletionRate.Float64()
	return RequirementReportDTO{
		RequirementID:  string(rep.RequirementID),
		Name:           name,
		Members:        rep.Members,
		Complete:       rep.Complete,
		ExpiredCerts:   rep.ExpiredCerts,
		CompletionRate: rate,
	}
}

func dateString(d *compliance.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
