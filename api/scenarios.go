/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates members, requirements,
	training records, and waivers that demonstrate specific engine features.

AVAILABLE SCENARIOS:

	monthly-hours:  Monthly EMS hours with in-window and out-of-window records
	expired-cpr:    Expired CPR card blocking an otherwise compliant member
	waived-shifts:  Annual shift minimum prorated by a six-month deployment
	station-roster: Four-member station with green, yellow, and red tiers

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create requirements via presets or factory JSON
 3. Create members
 4. Add training records and waivers
 5. Compliance endpoints then evaluate the data live

DATE ANCHORING:

	Loaders anchor every date to the current day so the demo reads the same
	whenever it is loaded: "this month", "expired six weeks ago", and so on.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "station-roster"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Compliance endpoints that read this data
  - training/presets.go: Requirement presets
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/thegspiro/the-logbook-sub001/compliance"
	"github.com/thegspiro/the-logbook-sub001/store/sqlite"
	"github.com/thegspiro/the-logbook-sub001/training"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "monthly-hours",
		Name:        "Monthly EMS Hours",
		Description: "Monthly hours requirement counting only this month's training",
		Category:    "hours",
	},
	{
		ID:          "expired-cpr",
		Name:        "Expired CPR Card",
		Description: "Lapsed certification forcing zero progress and blocking activity",
		Category:    "certification",
	},
	{
		ID:          "waived-shifts",
		Name:        "Deployment Waiver",
		Description: "Annual shift minimum prorated by a six-month military deployment",
		Category:    "waiver",
	},
	{
		ID:          "station-roster",
		Name:        "Station Roster",
		Description: "Four members across green, yellow, and red compliance tiers",
		Category:    "summary",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	// Scenario ID exists but not in list (shouldn't happen)
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ScenarioID {
	case "monthly-hours":
		err = h.loadMonthlyHoursScenario(ctx)
	case "expired-cpr":
		err = h.loadExpiredCPRScenario(ctx)
	case "waived-shifts":
		err = h.loadWaivedShiftsScenario(ctx)
	case "station-roster":
		err = h.loadStationRosterScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID
	h.Log.Info("scenario loaded", "scenario", req.ScenarioID)

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadMonthlyHoursScenario(ctx context.Context) error {
	today := compliance.Today()

	if err := h.Store.SaveRequirement(ctx, training.MonthlyEMSTrainingHours("ems-monthly-4", 4)); err != nil {
		return err
	}

	member := sqlite.Member{
		ID:       "ff-001",
		Name:     "Alice Nguyen",
		Email:    "alice@station4.example.com",
		Rank:     "EMT",
		JoinDate: today.AddYears(-3),
	}
	if err := h.Store.SaveMember(ctx, member); err != nil {
		return err
	}

	thisMonth := today.StartOfMonth()
	lastMonth := thisMonth.AddDays(-15)

	records := []compliance.TrainingRecord{
		// Counts: completed inside the current month
		hoursRecord("rec-001", member.ID, training.TypeEMS, "Airway Management Drill", 3, thisMonth.AddDays(1)),
		// Does not count: completed last month
		hoursRecord("rec-002", member.ID, training.TypeEMS, "Trauma Assessment", 5, lastMonth),
		// Does not count: still in progress
		inProgress(hoursRecord("rec-003", member.ID, training.TypeEMS, "Pediatric Emergencies", 2, thisMonth.AddDays(2))),
	}
	return h.addRecords(ctx, records)
}

func (h *Handler) loadExpiredCPRScenario(ctx context.Context) error {
	today := compliance.Today()

	if err := h.Store.SaveRequirement(ctx, training.CPRCertification("cpr-cert")); err != nil {
		return err
	}
	if err := h.Store.SaveRequirement(ctx, training.AnnualFireTrainingHours("fire-annual-12", 12)); err != nil {
		return err
	}

	member := sqlite.Member{
		ID:       "ff-002",
		Name:     "Marcus Webb",
		Email:    "marcus@station4.example.com",
		Rank:     "Firefighter",
		JoinDate: today.AddYears(-6),
	}
	if err := h.Store.SaveMember(ctx, member); err != nil {
		return err
	}

	year := today.StartOfYear()
	records := []compliance.TrainingRecord{
		// Card lapsed six weeks ago
		certRecord("rec-010", member.ID, "CPR/AED Certification", today.AddYears(-2), today.AddDays(-45), "CPR-2024-118"),
		// Plenty of fire hours, which do nothing for the lapsed card
		hoursRecord("rec-011", member.ID, training.TypeFire, "Ladder Operations", 6, year.AddMonths(1)),
		hoursRecord("rec-012", member.ID, training.TypeFire, "Engine Company Basics", 8, year.AddMonths(3)),
	}
	return h.addRecords(ctx, records)
}

func (h *Handler) loadWaivedShiftsScenario(ctx context.Context) error {
	today := compliance.Today()
	year := today.StartOfYear()

	if err := h.Store.SaveRequirement(ctx, training.AnnualShiftMinimum("shift-annual-12", 12)); err != nil {
		return err
	}

	member := sqlite.Member{
		ID:       "ff-003",
		Name:     "Priya Shah",
		Email:    "priya@station4.example.com",
		Rank:     "Lieutenant",
		JoinDate: today.AddYears(-8),
	}
	if err := h.Store.SaveMember(ctx, member); err != nil {
		return err
	}

	// Deployed for the first half of the year: 12 shifts prorate to 6
	end := year.AddMonths(6).AddDays(-1)
	waiver := compliance.WaiverPeriod{
		ID:       "waiver-001",
		MemberID: member.ID,
		Start:    year,
		End:      &end,
		Reason:   "Military deployment",
	}
	if err := h.Store.AddWaiver(ctx, waiver); err != nil {
		return err
	}

	// Six shifts after returning
	var records []compliance.TrainingRecord
	for i := 0; i < 6; i++ {
		records = append(records, shiftRecord(
			fmt.Sprintf("rec-02%d", i),
			member.ID,
			year.AddMonths(6+i).AddDays(4),
		))
	}
	return h.addRecords(ctx, records)
}

func (h *Handler) loadStationRosterScenario(ctx context.Context) error {
	today := compliance.Today()
	year := today.StartOfYear()

	// Requirements: three presets plus one defined as factory JSON,
	// the same shape the POST /api/requirements endpoint accepts.
	reqs := []compliance.Requirement{
		training.AnnualFireTrainingHours("fire-annual-24", 24),
		training.CPRCertification("cpr-cert"),
		training.AnnualCallMinimum("call-annual-12", 12),
	}
	hazmat, err := h.Factory.ParseRequirement(`{
		"id": "hazmat-rolling-6",
		"name": "Hazmat Refresher Hours",
		"type": "hours",
		"frequency": "annual",
		"due_date_type": "rolling",
		"rolling_period_months": 12,
		"training_type": "hazmat",
		"required_hours": 6
	}`)
	if err != nil {
		return err
	}
	reqs = append(reqs, hazmat)

	for _, req := range reqs {
		if err := h.Store.SaveRequirement(ctx, req); err != nil {
			return err
		}
	}

	members := []sqlite.Member{
		{ID: "ff-101", Name: "Dana Ortiz", Rank: "Captain", JoinDate: today.AddYears(-12)},
		{ID: "ff-102", Name: "Theo Brandt", Rank: "Probationary", JoinDate: today.AddMonths(-10)},
		{ID: "ff-103", Name: "Imani Cole", Rank: "Firefighter", JoinDate: today.AddYears(-5)},
		{ID: "ff-104", Name: "Lena Fox", Rank: "Engineer", JoinDate: today.AddYears(-7)},
	}
	for _, m := range members {
		m.Email = fmt.Sprintf("%s@station4.example.com", m.ID)
		if err := h.Store.SaveMember(ctx, m); err != nil {
			return err
		}
	}

	var records []compliance.TrainingRecord

	// Dana: everything current -> green
	records = append(records,
		hoursRecord("rec-101", "ff-101", training.TypeFire, "Live Fire Evolutions", 10, year.AddMonths(1)),
		hoursRecord("rec-102", "ff-101", training.TypeFire, "Incident Command", 8, year.AddMonths(2)),
		hoursRecord("rec-103", "ff-101", training.TypeFire, "RIT Operations", 8, year.AddMonths(4)),
		hoursRecord("rec-104", "ff-101", training.TypeHazmat, "Hazmat Ops Refresher", 8, today.AddMonths(-5)),
		certRecord("rec-105", "ff-101", "CPR/AED Certification", today.AddYears(-1), today.AddDays(300), "CPR-2025-031"),
	)
	records = append(records, callRecords("ff-101", 13, year)...)

	// Theo: short on hours and hazmat -> yellow
	records = append(records,
		hoursRecord("rec-111", "ff-102", training.TypeFire, "Recruit Academy Block", 10, year.AddMonths(1)),
		certRecord("rec-112", "ff-102", "CPR/AED Certification", today.AddMonths(-9), today.AddMonths(15), "CPR-2025-204"),
	)
	records = append(records, callRecords("ff-102", 6, year)...)

	// Imani: CPR lapsed a month ago -> red, blocked
	records = append(records,
		hoursRecord("rec-121", "ff-103", training.TypeFire, "Vehicle Extrication", 13, year.AddMonths(2)),
		hoursRecord("rec-122", "ff-103", training.TypeFire, "Pump Operations", 12, year.AddMonths(5)),
		hoursRecord("rec-123", "ff-103", training.TypeHazmat, "Hazmat Decon", 6, today.AddMonths(-3)),
		certRecord("rec-124", "ff-103", "CPR/AED Certification", today.AddYears(-2), today.AddDays(-30), "CPR-2023-517"),
	)
	records = append(records, callRecords("ff-103", 13, year)...)

	// Lena: three months of medical leave prorate her annual targets
	leaveEnd := year.AddMonths(3).AddDays(-1)
	leave := compliance.WaiverPeriod{
		ID:       "waiver-101",
		MemberID: "ff-104",
		Start:    year,
		End:      &leaveEnd,
		Reason:   "Medical leave",
	}
	if err := h.Store.AddWaiver(ctx, leave); err != nil {
		return err
	}
	records = append(records,
		hoursRecord("rec-131", "ff-104", training.TypeFire, "Aerial Apparatus", 9, year.AddMonths(4)),
		hoursRecord("rec-132", "ff-104", training.TypeFire, "Forcible Entry", 9, year.AddMonths(6)),
		hoursRecord("rec-133", "ff-104", training.TypeHazmat, "Hazmat Awareness", 7, today.AddMonths(-2)),
		certRecord("rec-134", "ff-104", "CPR/AED Certification", today.AddMonths(-14), today.AddMonths(10), "CPR-2025-092"),
	)
	records = append(records, callRecords("ff-104", 9, year.AddMonths(3))...)

	return h.addRecords(ctx, records)
}

// =============================================================================
// LOADER HELPERS
// =============================================================================

func (h *Handler) addRecords(ctx context.Context, records []compliance.TrainingRecord) error {
	for _, rec := range records {
		if err := h.Store.AddRecord(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func hoursRecord(id string, memberID compliance.MemberID, trainingType, courseName string, hours float64, completed compliance.Date) compliance.TrainingRecord {
	return compliance.TrainingRecord{
		ID:             compliance.RecordID(id),
		MemberID:       memberID,
		CourseName:     courseName,
		TrainingType:   trainingType,
		CompletionDate: &completed,
		HoursCompleted: decimal.NewFromFloat(hours),
		Status:         compliance.StatusCompleted,
	}
}

func certRecord(id string, memberID compliance.MemberID, courseName string, completed, expires compliance.Date, certNumber string) compliance.TrainingRecord {
	return compliance.TrainingRecord{
		ID:                  compliance.RecordID(id),
		MemberID:            memberID,
		CourseName:          courseName,
		TrainingType:        training.TypeEMS,
		CompletionDate:      &completed,
		ExpirationDate:      &expires,
		CertificationNumber: certNumber,
		Status:              compliance.StatusCompleted,
	}
}

func shiftRecord(id string, memberID compliance.MemberID, completed compliance.Date) compliance.TrainingRecord {
	return compliance.TrainingRecord{
		ID:             compliance.RecordID(id),
		MemberID:       memberID,
		CourseName:     "Station Duty Shift",
		TrainingType:   training.TypeDutyShift,
		CompletionDate: &completed,
		Status:         compliance.StatusCompleted,
	}
}

// callRecords spreads n emergency-call responses across the year from start.
func callRecords(memberID compliance.MemberID, n int, start compliance.Date) []compliance.TrainingRecord {
	records := make([]compliance.TrainingRecord, n)
	for i := 0; i < n; i++ {
		completed := start.AddDays(i * 20)
		records[i] = compliance.TrainingRecord{
			ID:             compliance.RecordID(fmt.Sprintf("call-%s-%03d", memberID, i)),
			MemberID:       memberID,
			CourseName:     "Emergency Response",
			TrainingType:   training.TypeEmergencyCall,
			CompletionDate: &completed,
			Status:         compliance.StatusCompleted,
		}
	}
	return records
}

func inProgress(rec compliance.TrainingRecord) compliance.TrainingRecord {
	rec.Status = compliance.StatusInProgress
	return rec
}
