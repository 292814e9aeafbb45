/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements compliance.Store (and therefore compliance.Source) plus the
  roster surface the API needs. In production, the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  compliance.Store:  Requirements, training records, waiver periods
  compliance.Source: The three lookups behind PointEvaluator

KEY TABLES:
  members:          Roster entries
  requirements:     Rule definitions (factory-validated)
  training_records: Completed-training facts, manual or provider-synced
  waiver_periods:   Approved exemptions

WHAT IS NOT HERE:
  No progress table. RequirementProgress is recomputed from current inputs
  on every evaluation and never persisted.

DATES:
  Day-granularity fields (completion, expiration, waiver bounds) are stored
  as ISO dates (2006-01-02) so they sort lexicographically. Audit
  timestamps stay RFC3339.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/logbook.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  pe := &compliance.PointEvaluator{Source: store}

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - compliance/store.go: Interface definitions
  - compliance/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/thegspiro/the-logbook-sub001/compliance"
)

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Roster
	CREATE TABLE IF NOT EXISTS members (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		rank TEXT,
		join_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Requirement definitions
	CREATE TABLE IF NOT EXISTS requirements (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		req_type TEXT NOT NULL,
		frequency TEXT NOT NULL,
		due_date_type TEXT NOT NULL,
		rolling_period_months INTEGER DEFAULT 0,
		training_type TEXT,
		required_hours TEXT NOT NULL DEFAULT '0',
		required_courses_json TEXT,
		required_shifts INTEGER DEFAULT 0,
		required_calls INTEGER DEFAULT 0,
		registry_code TEXT,
		pinned_year INTEGER DEFAULT 0,
		due_date TEXT,
		active BOOLEAN DEFAULT TRUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requirements_active
		ON requirements(active);

	-- Completed-training facts
	CREATE TABLE IF NOT EXISTS training_records (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		course_id TEXT,
		course_name TEXT,
		training_type TEXT,
		completion_date TEXT,
		expiration_date TEXT,
		hours_completed TEXT NOT NULL DEFAULT '0',
		certification_number TEXT,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Hot path: every evaluation loads one member's records
	CREATE INDEX IF NOT EXISTS idx_records_member
		ON training_records(member_id, completion_date);
	CREATE INDEX IF NOT EXISTS idx_records_training_type
		ON training_records(training_type);
	CREATE INDEX IF NOT EXISTS idx_records_status
		ON training_records(status);

	-- Approved exemptions
	CREATE TABLE IF NOT EXISTS waiver_periods (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		requirement_id TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT,
		reason TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_waivers_member
		ON waiver_periods(member_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// MEMBER STORE
// =============================================================================

// Member is a roster entry.
type Member struct {
	ID        compliance.MemberID
	Name      string
	Email     string
	Rank      string
	JoinDate  compliance.Date
	CreatedAt time.Time
}

// SaveMember inserts or updates a member.
func (s *Store) SaveMember(ctx context.Context, m Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO members (id, name, email, rank, join_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			rank = excluded.rank,
			join_date = excluded.join_date
	`

	_, err := s.db.ExecContext(ctx, query,
		string(m.ID), m.Name, m.Email, m.Rank,
		m.JoinDate.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetMember retrieves a member by id.
func (s *Store) GetMember(ctx context.Context, id compliance.MemberID) (Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var m Member
	var memberID, joinDate, createdAt string
	var email, rank sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, rank, join_date, created_at FROM members WHERE id = ?",
		string(id),
	).Scan(&memberID, &m.Name, &email, &rank, &joinDate, &createdAt)

	if err == sql.ErrNoRows {
		return Member{}, fmt.Errorf("%w: %s", compliance.ErrMemberNotFound, id)
	}
	if err != nil {
		return Member{}, err
	}

	m.ID = compliance.MemberID(memberID)
	m.Email = email.String
	m.Rank = rank.String
	m.JoinDate, _ = compliance.ParseDate(joinDate)
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return m, nil
}

// ListMembers returns the roster ordered by name.
func (s *Store) ListMembers(ctx context.Context) ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, rank, join_date, created_at FROM members ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		var memberID, joinDate, createdAt string
		var email, rank sql.NullString
		if err := rows.Scan(&memberID, &m.Name, &email, &rank, &joinDate, &createdAt); err != nil {
			return nil, err
		}
		m.ID = compliance.MemberID(memberID)
		m.Email = email.String
		m.Rank = rank.String
		m.JoinDate, _ = compliance.ParseDate(joinDate)
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		members = append(members, m)
	}
	return members, rows.Err()
}

// DeleteMember removes a member from the roster.
func (s *Store) DeleteMember(ctx context.Context, id compliance.MemberID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM members WHERE id = ?", string(id))
	return err
}

// =============================================================================
// REQUIREMENT STORE (compliance.Store interface)
// =============================================================================

// SaveRequirement inserts or replaces a requirement definition.
func (s *Store) SaveRequirement(ctx context.Context, r compliance.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coursesJSON, _ := json.Marshal(r.RequiredCourses)
	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		INSERT INTO requirements
		(id, name, description, req_type, frequency, due_date_type, rolling_period_months,
		 training_type, required_hours, required_courses_json, required_shifts, required_calls,
		 registry_code, pinned_year, due_date, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			req_type = excluded.req_type,
			frequency = excluded.frequency,
			due_date_type = excluded.due_date_type,
			rolling_period_months = excluded.rolling_period_months,
			training_type = excluded.training_type,
			required_hours = excluded.required_hours,
			required_courses_json = excluded.required_courses_json,
			required_shifts = excluded.required_shifts,
			required_calls = excluded.required_calls,
			registry_code = excluded.registry_code,
			pinned_year = excluded.pinned_year,
			due_date = excluded.due_date,
			active = excluded.active,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		string(r.ID), r.Name, r.Description,
		string(r.Type), string(r.Frequency), string(r.DueDateType),
		r.RollingPeriodMonths,
		nullString(r.TrainingType),
		r.RequiredHours.String(),
		string(coursesJSON),
		r.RequiredShifts, r.RequiredCalls,
		nullString(r.RegistryCode),
		r.Year,
		nullDate(r.DueDate),
		r.Active,
		now, now,
	)
	return err
}

// GetRequirement retrieves a requirement by id.
func (s *Store) GetRequirement(ctx context.Context, id compliance.RequirementID) (compliance.Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectRequirement+" WHERE id = ?", string(id))
	r, err := scanRequirement(row)
	if err == sql.ErrNoRows {
		return compliance.Requirement{}, fmt.Errorf("%w: %s", compliance.ErrRequirementNotFound, id)
	}
	if err != nil {
		return compliance.Requirement{}, err
	}
	return r, nil
}

// ListRequirements returns every requirement ordered by id.
func (s *Store) ListRequirements(ctx context.Context) ([]compliance.Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectRequirement+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []compliance.Requirement
	for rows.Next() {
		r, err := scanRequirement(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, rows.Err()
}

// DeleteRequirement removes a requirement definition.
func (s *Store) DeleteRequirement(ctx context.Context, id compliance.RequirementID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM requirements WHERE id = ?", string(id))
	return err
}

const selectRequirement = `
	SELECT id, name, description, req_type, frequency, due_date_type, rolling_period_months,
	       training_type, required_hours, required_courses_json, required_shifts, required_calls,
	       registry_code, pinned_year, due_date, active
	FROM requirements`

// scanRequirement reads one requirement row from either a *sql.Row or *sql.Rows.
func scanRequirement(row interface{ Scan(dest ...any) error }) (compliance.Requirement, error) {
	var r compliance.Requirement
	var id, reqType, frequency, dueDateType, requiredHours string
	var description, trainingType, coursesJSON, registryCode, dueDate sql.NullString

	err := row.Scan(&id, &r.Name, &description, &reqType, &frequency, &dueDateType,
		&r.RollingPeriodMonths, &trainingType, &requiredHours, &coursesJSON,
		&r.RequiredShifts, &r.RequiredCalls, &registryCode, &r.Year, &dueDate, &r.Active)
	if err != nil {
		return compliance.Requirement{}, err
	}

	r.ID = compliance.RequirementID(id)
	r.Description = description.String
	r.Type = compliance.RequirementType(reqType)
	r.Frequency = compliance.Frequency(frequency)
	r.DueDateType = compliance.DueDateType(dueDateType)
	r.TrainingType = trainingType.String
	r.RequiredHours = parseDecimal(requiredHours)
	r.RegistryCode = registryCode.String
	if coursesJSON.Valid && coursesJSON.String != "" {
		_ = json.Unmarshal([]byte(coursesJSON.String), &r.RequiredCourses)
	}
	r.DueDate = parseDatePtr(dueDate)
	return r, nil
}

// =============================================================================
// TRAINING RECORD STORE
// =============================================================================

// AddRecord appends one training record. A duplicate id maps to
// compliance.ErrDuplicateID so a provider re-sync cannot double-count.
func (s *Store) AddRecord(ctx context.Context, rec compliance.TrainingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO training_records
		(id, member_id, course_id, course_name, training_type, completion_date,
		 expiration_date, hours_completed, certification_number, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		string(rec.ID), string(rec.MemberID),
		nullString(string(rec.CourseID)), nullString(rec.CourseName),
		nullString(rec.TrainingType),
		nullDate(rec.CompletionDate), nullDate(rec.ExpirationDate),
		rec.HoursCompleted.String(),
		nullString(rec.CertificationNumber),
		string(rec.Status),
		time.Now().UTC().Format(time.RFC3339),
	)

	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: record %s", compliance.ErrDuplicateID, rec.ID)
		}
		return fmt.Errorf("failed to add training record: %w", err)
	}
	return nil
}

// ListMemberRecords returns one member's records ordered by completion date.
func (s *Store) ListMemberRecords(ctx context.Context, memberID compliance.MemberID) ([]compliance.TrainingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		selectRecord+" WHERE member_id = ? ORDER BY completion_date",
		string(memberID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// AllRecordsByMember loads the entire record set grouped by member in one
// query. This is the batch-evaluation path: one pass, no per-member lookups.
func (s *Store) AllRecordsByMember(ctx context.Context) (map[compliance.MemberID][]compliance.TrainingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectRecord+" ORDER BY member_id, completion_date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := collectRecords(rows)
	if err != nil {
		return nil, err
	}
	byMember := make(map[compliance.MemberID][]compliance.TrainingRecord)
	for _, rec := range records {
		byMember[rec.MemberID] = append(byMember[rec.MemberID], rec)
	}
	return byMember, nil
}

const selectRecord = `
	SELECT id, member_id, course_id, course_name, training_type, completion_date,
	       expiration_date, hours_completed, certification_number, status
	FROM training_records`

func collectRecords(rows *sql.Rows) ([]compliance.TrainingRecord, error) {
	var records []compliance.TrainingRecord
	for rows.Next() {
		var rec compliance.TrainingRecord
		var id, memberID, status, hoursCompleted string
		var courseID, courseName, trainingType, completionDate, expirationDate, certNumber sql.NullString

		if err := rows.Scan(&id, &memberID, &courseID, &courseName, &trainingType,
			&completionDate, &expirationDate, &hoursCompleted, &certNumber, &status); err != nil {
			return nil, err
		}

		rec.ID = compliance.RecordID(id)
		rec.MemberID = compliance.MemberID(memberID)
		rec.CourseID = compliance.CourseID(courseID.String)
		rec.CourseName = courseName.String
		rec.TrainingType = trainingType.String
		rec.CompletionDate = parseDatePtr(completionDate)
		rec.ExpirationDate = parseDatePtr(expirationDate)
		rec.HoursCompleted = parseDecimal(hoursCompleted)
		rec.CertificationNumber = certNumber.String
		rec.Status = compliance.RecordStatus(status)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// WAIVER STORE
// =============================================================================

// AddWaiver appends one waiver period.
func (s *Store) AddWaiver(ctx context.Context, w compliance.WaiverPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reqID sql.NullString
	if w.RequirementID != nil {
		reqID = sql.NullString{String: string(*w.RequirementID), Valid: true}
	}

	query := `
		INSERT INTO waiver_periods
		(id, member_id, requirement_id, start_date, end_date, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		string(w.ID), string(w.MemberID), reqID,
		w.Start.String(), nullDate(w.End),
		nullString(w.Reason),
		time.Now().UTC().Format(time.RFC3339),
	)

	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: waiver %s", compliance.ErrDuplicateID, w.ID)
		}
		return fmt.Errorf("failed to add waiver: %w", err)
	}
	return nil
}

// ListMemberWaivers returns one member's waivers ordered by start date.
func (s *Store) ListMemberWaivers(ctx context.Context, memberID compliance.MemberID) ([]compliance.WaiverPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		selectWaiver+" WHERE member_id = ? ORDER BY start_date",
		string(memberID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWaivers(rows)
}

// AllWaiversByMember loads every waiver grouped by member in one query.
func (s *Store) AllWaiversByMember(ctx context.Context) (map[compliance.MemberID][]compliance.WaiverPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectWaiver+" ORDER BY member_id, start_date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	waivers, err := collectWaivers(rows)
	if err != nil {
		return nil, err
	}
	byMember := make(map[compliance.MemberID][]compliance.WaiverPeriod)
	for _, w := range waivers {
		byMember[w.MemberID] = append(byMember[w.MemberID], w)
	}
	return byMember, nil
}

const selectWaiver = `
	SELECT id, member_id, requirement_id, start_date, end_date, reason
	FROM waiver_periods`

func collectWaivers(rows *sql.Rows) ([]compliance.WaiverPeriod, error) {
	var waivers []compliance.WaiverPeriod
	for rows.Next() {
		var w compliance.WaiverPeriod
		var id, memberID, startDate string
		var reqID, endDate, reason sql.NullString

		if err := rows.Scan(&id, &memberID, &reqID, &startDate, &endDate, &reason); err != nil {
			return nil, err
		}

		w.ID = compliance.WaiverID(id)
		w.MemberID = compliance.MemberID(memberID)
		if reqID.Valid {
			rid := compliance.RequirementID(reqID.String)
			w.RequirementID = &rid
		}
		w.Start, _ = compliance.ParseDate(startDate)
		w.End = parseDatePtr(endDate)
		w.Reason = reason.String
		waivers = append(waivers, w)
	}
	return waivers, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"waiver_periods", "training_records", "requirements", "members"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDate(d *compliance.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseDatePtr(ns sql.NullString) *compliance.Date {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	d, err := compliance.ParseDate(ns.String)
	if err != nil {
		return nil
	}
	return &d
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
