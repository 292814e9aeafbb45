/*
handlers.go - HTTP API handlers for the training compliance system

PURPOSE:
  Exposes the compliance engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Members:
    GET    /api/members                    List roster
    POST   /api/members                    Create member
    GET    /api/members/{id}               Get member details
    DELETE /api/members/{id}               Remove member

  Records / Waivers:
    GET    /api/members/{id}/records       Training history
    POST   /api/members/{id}/records       Log a training record
    GET    /api/members/{id}/waivers       Waiver periods
    POST   /api/members/{id}/waivers       Record a waiver period

  Compliance:
    GET    /api/members/{id}/compliance            All requirements for one member
    GET    /api/members/{id}/requirements/{reqID}  One requirement for one member
    GET    /api/compliance/summary                 Station-wide roster summary
    GET    /api/compliance/report                  Per-requirement breakdown

  Requirements:
    GET    /api/requirements               List requirement definitions
    POST   /api/requirements               Create requirement from JSON

  Scenarios:
    GET    /api/scenarios                  List demo scenarios
    POST   /api/scenarios/load             Load a demo scenario

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Factory: JSON to Requirement conversion
  - Evaluator: Point evaluation backed by the store

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (evaluate, summarize)
  4. Serialize response
  5. Handle errors

EVALUATION DATE:
  Compliance endpoints accept ?as_of=YYYY-MM-DD. Handlers resolve the
  date once and pass it down; the engine itself never reads the clock,
  so the same request with the same as_of always returns the same body.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate record or waiver id)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thegspiro/the-logbook-sub001/compliance"
	"github.com/thegspiro/the-logbook-sub001/factory"
	"github.com/thegspiro/the-logbook-sub001/logger"
	"github.com/thegspiro/the-logbook-sub001/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     *sqlite.Store
	Factory   *factory.RequirementFactory
	Evaluator *compliance.PointEvaluator
	Log       *logger.Logger

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		Store:     store,
		Factory:   factory.NewRequirementFactory(),
		Evaluator: &compliance.PointEvaluator{Source: store},
		Log:       log,
	}
}

// =============================================================================
// MEMBER HANDLERS
// =============================================================================

// ListMembers returns the roster.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Store.ListMembers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list members", err)
		return
	}

	dtos := make([]MemberDTO, len(members))
	for i, m := range members {
		dtos[i] = toMemberDTO(m)
	}

	writeJSON(w, http.StatusOK, dtos)
}

// GetMember returns a single member.
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	id := compliance.MemberID(chi.URLParam(r, "id"))

	m, err := h.Store.GetMember(r.Context(), id)
	if compliance.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Member not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get member", err)
		return
	}

	writeJSON(w, http.StatusOK, toMemberDTO(m))
}

// CreateMember creates a new roster member.
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	joinDate := compliance.Today()
	if req.JoinDate != "" {
		var err error
		joinDate, err = compliance.ParseDate(req.JoinDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid join_date format (use YYYY-MM-DD)", err)
			return
		}
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	m := sqlite.Member{
		ID:       compliance.MemberID(req.ID),
		Name:     req.Name,
		Email:    req.Email,
		Rank:     req.Rank,
		JoinDate: joinDate,
	}

	if err := h.Store.SaveMember(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create member", err)
		return
	}

	writeJSON(w, http.StatusCreated, toMemberDTO(m))
}

// DeleteMember removes a member from the roster.
func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id := compliance.MemberID(chi.URLParam(r, "id"))

	if err := h.Store.DeleteMember(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete member", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// TRAINING RECORD HANDLERS
// =============================================================================

// ListRecords returns a member's training history.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	memberID := compliance.MemberID(chi.URLParam(r, "id"))

	if _, err := h.Store.GetMember(r.Context(), memberID); err != nil {
		if compliance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Member not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get member", err)
		return
	}

	records, err := h.Store.ListMemberRecords(r.Context(), memberID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list records", err)
		return
	}

	writeJSON(w, http.StatusOK, toRecordDTOs(records))
}

// CreateRecord logs a training record for a member.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	memberID := compliance.MemberID(chi.URLParam(r, "id"))
	ctx := r.Context()

	if _, err := h.Store.GetMember(ctx, memberID); err != nil {
		if compliance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Member not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get member", err)
		return
	}

	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec := compliance.TrainingRecord{
		MemberID:            memberID,
		CourseID:            compliance.CourseID(req.CourseID),
		CourseName:          req.CourseName,
		TrainingType:        req.TrainingType,
		HoursCompleted:      decimal.NewFromFloat(req.HoursCompleted),
		CertificationNumber: req.CertificationNumber,
		Status:              compliance.StatusCompleted,
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	rec.ID = compliance.RecordID(req.ID)

	if req.Status != "" {
		switch compliance.RecordStatus(req.Status) {
		case compliance.StatusCompleted, compliance.StatusInProgress, compliance.StatusCancelled:
			rec.Status = compliance.RecordStatus(req.Status)
		default:
			writeError(w, http.StatusBadRequest, "Unknown status (use completed, in_progress, cancelled)", nil)
			return
		}
	}

	if req.CompletionDate != "" {
		d, err := compliance.ParseDate(req.CompletionDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid completion_date format (use YYYY-MM-DD)", err)
			return
		}
		rec.CompletionDate = &d
	}

	if req.ExpirationDate != "" {
		d, err := compliance.ParseDate(req.ExpirationDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid expiration_date format (use YYYY-MM-DD)", err)
			return
		}
		rec.ExpirationDate = &d
	}

	if err := h.Store.AddRecord(ctx, rec); err != nil {
		if errors.Is(err, compliance.ErrDuplicateID) {
			writeError(w, http.StatusConflict, "Record id already exists", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to add record", err)
		return
	}

	writeJSON(w, http.StatusCreated, toRecordDTO(rec))
}

// =============================================================================
// WAIVER HANDLERS
// =============================================================================

// ListWaivers returns a member's waiver periods.
func (h *Handler) ListWaivers(w http.ResponseWriter, r *http.Request) {
	memberID := compliance.MemberID(chi.URLParam(r, "id"))

	if _, err := h.Store.GetMember(r.Context(), memberID); err != nil {
		if compliance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Member not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get member", err)
		return
	}

	waivers, err := h.Store.ListMemberWaivers(r.Context(), memberID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list waivers", err)
		return
	}

	writeJSON(w, http.StatusOK, toWaiverDTOs(waivers))
}

// CreateWaiver records a waiver period for a member.
func (h *Handler) CreateWaiver(w http.ResponseWriter, r *http.Request) {
	memberID := compliance.MemberID(chi.URLParam(r, "id"))
	ctx := r.Context()

	if _, err := h.Store.GetMember(ctx, memberID); err != nil {
		if compliance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Member not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get member", err)
		return
	}

	var req CreateWaiverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.StartDate == "" {
		writeError(w, http.StatusBadRequest, "start_date is required", nil)
		return
	}
	start, err := compliance.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}

	waiver := compliance.WaiverPeriod{
		MemberID: memberID,
		Start:    start,
		Reason:   req.Reason,
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	waiver.ID = compliance.WaiverID(req.ID)

	if req.EndDate != "" {
		end, err := compliance.ParseDate(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
			return
		}
		if end.Before(start) {
			writeError(w, http.StatusBadRequest, "end_date is before start_date", nil)
			return
		}
		waiver.End = &end
	}

	if req.RequirementID != nil && *req.RequirementID != "" {
		reqID := compliance.RequirementID(*req.RequirementID)
		if _, err := h.Store.GetRequirement(ctx, reqID); err != nil {
			if compliance.IsNotFound(err) {
				writeError(w, http.StatusNotFound, "Requirement not found", nil)
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to get requirement", err)
			return
		}
		waiver.RequirementID = &reqID
	}

	if err := h.Store.AddWaiver(ctx, waiver); err != nil {
		if errors.Is(err, compliance.ErrDuplicateID) {
			writeError(w, http.StatusConflict, "Waiver id already exists", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to add waiver", err)
		return
	}

	writeJSON(w, http.StatusCreated, toWaiverDTO(waiver))
}

// =============================================================================
// REQUIREMENT HANDLERS
// =============================================================================

// ListRequirements returns every requirement definition.
func (h *Handler) ListRequirements(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Store.ListRequirements(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list requirements", err)
		return
	}

	dtos := make([]factory.RequirementJSON, len(reqs))
	for i, req := range reqs {
		dtos[i] = h.Factory.ToJSON(req)
	}

	writeJSON(w, http.StatusOK, dtos)
}

// GetRequirement returns a single requirement definition.
func (h *Handler) GetRequirement(w http.ResponseWriter, r *http.Request) {
	id := compliance.RequirementID(chi.URLParam(r, "id"))

	req, err := h.Store.GetRequirement(r.Context(), id)
	if compliance.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Requirement not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get requirement", err)
		return
	}

	writeJSON(w, http.StatusOK, h.Factory.ToJSON(req))
}

// CreateRequirement creates a requirement from its JSON definition.
// The factory validates the body; a bad definition never reaches the store.
func (h *Handler) CreateRequirement(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	req, err := h.Factory.ParseRequirement(string(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid requirement definition", err)
		return
	}

	if err := h.Store.SaveRequirement(r.Context(), req); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save requirement", err)
		return
	}

	writeJSON(w, http.StatusCreated, h.Factory.ToJSON(req))
}

// DeleteRequirement removes a requirement definition.
func (h *Handler) DeleteRequirement(w http.ResponseWriter, r *http.Request) {
	id := compliance.RequirementID(chi.URLParam(r, "id"))

	if err := h.Store.DeleteRequirement(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete requirement", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// COMPLIANCE HANDLERS
// =============================================================================

// GetMemberCompliance evaluates every active requirement for one member.
func (h *Handler) GetMemberCompliance(w http.ResponseWriter, r *http.Request) {
	memberID := compliance.MemberID(chi.URLParam(r, "id"))
	ctx := r.Context()

	asOf, ok := h.asOfDate(w, r)
	if !ok {
		return
	}

	member, err := h.Store.GetMember(ctx, memberID)
	if compliance.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Member not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get member", err)
		return
	}

	reqs, err := h.Store.ListRequirements(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list requirements", err)
		return
	}

	records, err := h.Store.ListMemberRecords(ctx, memberID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list records", err)
		return
	}

	waivers, err := h.Store.ListMemberWaivers(ctx, memberID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list waivers", err)
		return
	}

	in := compliance.BatchInput{
		Requirements: reqs,
		Members:      []compliance.MemberID{memberID},
		Records:      map[compliance.MemberID][]compliance.TrainingRecord{memberID: records},
		Waivers:      map[compliance.MemberID][]compliance.WaiverPeriod{memberID: waivers},
	}
	evals := compliance.BatchEvaluate(in, asOf)

	reqByID := make(map[compliance.RequirementID]compliance.Requirement, len(reqs))
	for _, req := range reqs {
		reqByID[req.ID] = req
	}

	dto := MemberComplianceDTO{
		MemberID:     string(memberID),
		MemberName:   member.Name,
		AsOf:         asOf.String(),
		Requirements: make([]ProgressDTO, 0, len(evals)),
	}
	for _, ev := range evals {
		dto.Requirements = append(dto.Requirements, toProgressDTO(reqByID[ev.RequirementID], ev.Progress))
		dto.Total++
		if ev.Progress.IsComplete {
			dto.Complete++
		}
	}

	writeJSON(w, http.StatusOK, dto)
}

// GetRequirementProgress evaluates one requirement for one member.
func (h *Handler) GetRequirementProgress(w http.ResponseWriter, r *http.Request) {
	memberID := compliance.MemberID(chi.URLParam(r, "id"))
	reqID := compliance.RequirementID(chi.URLParam(r, "reqID"))
	ctx := r.Context()

	asOf, ok := h.asOfDate(w, r)
	if !ok {
		return
	}

	if _, err := h.Store.GetMember(ctx, memberID); err != nil {
		if compliance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Member not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get member", err)
		return
	}

	req, err := h.Store.GetRequirement(ctx, reqID)
	if compliance.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Requirement not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get requirement", err)
		return
	}

	progress, err := h.Evaluator.Evaluate(ctx, memberID, reqID, asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to evaluate requirement", err)
		return
	}

	writeJSON(w, http.StatusOK, toProgressDTO(req, progress))
}

// GetRosterSummary evaluates the whole roster and buckets members into tiers.
func (h *Handler) GetRosterSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	asOf, ok := h.asOfDate(w, r)
	if !ok {
		return
	}

	in, members, err := h.loadBatchInput(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load roster data", err)
		return
	}

	evals := compliance.BatchEvaluate(in, asOf)
	summary := compliance.Summarize(evals, asOf)

	names := make(map[compliance.MemberID]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}

	dto := RosterSummaryDTO{
		AsOf:    summary.AsOf.String(),
		Green:   summary.Green,
		Yellow:  summary.Yellow,
		Red:     summary.Red,
		Members: make([]MemberSummaryDTO, len(summary.Members)),
	}
	for i, s := range summary.Members {
		dto.Members[i] = toMemberSummaryDTO(s, names[s.MemberID])
	}

	writeJSON(w, http.StatusOK, dto)
}

// GetRequirementReport breaks completion down per requirement.
func (h *Handler) GetRequirementReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	asOf, ok := h.asOfDate(w, r)
	if !ok {
		return
	}

	in, _, err := h.loadBatchInput(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load roster data", err)
		return
	}

	evals := compliance.BatchEvaluate(in, asOf)
	reports := compliance.ReportByRequirement(evals)

	names := make(map[compliance.RequirementID]string, len(in.Requirements))
	for _, req := range in.Requirements {
		names[req.ID] = req.Name
	}

	dtos := make([]RequirementReportDTO, len(reports))
	for i, rep := range reports {
		dtos[i] = toRequirementReportDTO(rep, names[rep.RequirementID])
	}

	writeJSON(w, http.StatusOK, dtos)
}

// loadBatchInput assembles the full-roster evaluation input: every
// requirement, every member, and both fact sets grouped by member.
func (h *Handler) loadBatchInput(ctx context.Context) (compliance.BatchInput, []sqlite.Member, error) {
	reqs, err := h.Store.ListRequirements(ctx)
	if err != nil {
		return compliance.BatchInput{}, nil, err
	}

	members, err := h.Store.ListMembers(ctx)
	if err != nil {
		return compliance.BatchInput{}, nil, err
	}

	records, err := h.Store.AllRecordsByMember(ctx)
	if err != nil {
		return compliance.BatchInput{}, nil, err
	}

	waivers, err := h.Store.AllWaiversByMember(ctx)
	if err != nil {
		return compliance.BatchInput{}, nil, err
	}

	in := compliance.BatchInput{
		Requirements: reqs,
		Members:      make([]compliance.MemberID, len(members)),
		Records:      records,
		Waivers:      waivers,
	}
	for i, m := range members {
		in.Members[i] = m.ID
	}
	return in, members, nil
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// asOfDate resolves the evaluation date for a request. Reports false after
// writing a 400 when the parameter is present but malformed.
func (h *Handler) asOfDate(w http.ResponseWriter, r *http.Request) (compliance.Date, bool) {
	param := r.URL.Query().Get("as_of")
	if param == "" {
		return compliance.Today(), true
	}

	d, err := compliance.ParseDate(param)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of format (use YYYY-MM-DD)", err)
		return compliance.Date{}, false
	}
	return d, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
