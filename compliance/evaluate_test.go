package compliance_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thegspiro/the-logbook-sub001/compliance"
)

// =============================================================================
// TEST HELPERS
// =============================================================================
// Shared by the other _test files in this package.

func date(year int, month time.Month, day int) compliance.Date {
	return compliance.NewDate(year, month, day)
}

func dptr(d compliance.Date) *compliance.Date {
	return &d
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func hoursRequirement(id string, trainingType string, hours float64, freq compliance.Frequency) compliance.Requirement {
	return compliance.Requirement{
		ID:            compliance.RequirementID(id),
		Name:          id,
		Type:          compliance.RequirementHours,
		Frequency:     freq,
		TrainingType:  trainingType,
		RequiredHours: dec(hours),
		Active:        true,
	}
}

func certRequirement(id, name string) compliance.Requirement {
	return compliance.Requirement{
		ID:        compliance.RequirementID(id),
		Name:      name,
		Type:      compliance.RequirementCertification,
		Frequency: compliance.FrequencyBiannual,
		Active:    true,
	}
}

func hoursOn(id, trainingType string, hours float64, completed compliance.Date) compliance.TrainingRecord {
	return compliance.TrainingRecord{
		ID:             compliance.RecordID(id),
		MemberID:       "ff-1",
		CourseName:     "Course " + id,
		TrainingType:   trainingType,
		CompletionDate: dptr(completed),
		HoursCompleted: dec(hours),
		Status:         compliance.StatusCompleted,
	}
}

func certOnFile(id, courseName string, completed, expires compliance.Date) compliance.TrainingRecord {
	return compliance.TrainingRecord{
		ID:             compliance.RecordID(id),
		MemberID:       "ff-1",
		CourseName:     courseName,
		CompletionDate: dptr(completed),
		ExpirationDate: dptr(expires),
		Status:         compliance.StatusCompleted,
	}
}

func countOn(id, trainingType string, completed compliance.Date) compliance.TrainingRecord {
	return compliance.TrainingRecord{
		ID:             compliance.RecordID(id),
		MemberID:       "ff-1",
		TrainingType:   trainingType,
		CompletionDate: dptr(completed),
		Status:         compliance.StatusCompleted,
	}
}

func blanketWaiver(id string, start, end compliance.Date) compliance.WaiverPeriod {
	return compliance.WaiverPeriod{
		ID:       compliance.WaiverID(id),
		MemberID: "ff-1",
		Start:    start,
		End:      dptr(end),
	}
}

func assertDecimal(t *testing.T, label string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s: expected %v, got %v", label, want, got)
	}
}

// =============================================================================
// HOURS REQUIREMENTS
// =============================================================================

func TestEvaluate_MonthlyHours_CountsOnlyWindowRecords(t *testing.T) {
	// GIVEN: Monthly requirement of 4 EMS hours, one record inside February
	//        and one record in January
	// WHEN: Evaluating as of February 15
	// THEN: Only the in-window record counts: 3 of 4 hours, 75%

	req := hoursRequirement("ems-monthly", "ems", 4, compliance.FrequencyMonthly)
	records := []compliance.TrainingRecord{
		hoursOn("rec-1", "ems", 3, date(2026, time.February, 10)),
		hoursOn("rec-2", "ems", 5, date(2026, time.January, 20)),
	}

	p := compliance.Evaluate(req, records, nil, date(2026, time.February, 15))

	assertDecimal(t, "completed", p.CompletedValue, dec(3))
	assertDecimal(t, "required", p.RequiredValue, dec(4))
	assertDecimal(t, "percentage", p.Percentage, dec(75))
	if p.IsComplete {
		t.Error("expected incomplete at 75%")
	}
	if p.DueDate == nil || !p.DueDate.Equal(date(2026, time.February, 28)) {
		t.Errorf("expected due date 2026-02-28, got %v", p.DueDate)
	}
	if p.DaysUntilDue == nil || *p.DaysUntilDue != 13 {
		t.Errorf("expected 13 days until due, got %v", p.DaysUntilDue)
	}
}

func TestEvaluate_Hours_SumsFractionalHours(t *testing.T) {
	// GIVEN: Annual requirement of 4 hours, records of 2.5 and 1.25 hours
	// WHEN: Evaluating
	// THEN: Completed is exactly 3.75, not a float approximation

	req := hoursRequirement("fire-annual", "fire", 4, compliance.FrequencyAnnual)
	records := []compliance.TrainingRecord{
		hoursOn("rec-1", "fire", 2.5, date(2026, time.March, 1)),
		hoursOn("rec-2", "fire", 1.25, date(2026, time.April, 1)),
	}

	p := compliance.Evaluate(req, records, nil, date(2026, time.June, 1))

	assertDecimal(t, "completed", p.CompletedValue, dec(3.75))
	assertDecimal(t, "percentage", p.Percentage, dec(93.75))
}

func TestEvaluate_Hours_IgnoresOtherTrainingTypes(t *testing.T) {
	// GIVEN: EMS hours requirement and a mix of EMS and fire records
	// WHEN: Evaluating
	// THEN: Only EMS hours count

	req := hoursRequirement("ems-annual", "ems", 10, compliance.FrequencyAnnual)
	records := []compliance.TrainingRecord{
		hoursOn("rec-1", "ems", 4, date(2026, time.March, 1)),
		hoursOn("rec-2", "fire", 6, date(2026, time.March, 2)),
	}

	p := compliance.Evaluate(req, records, nil, date(2026, time.June, 1))

	assertDecimal(t, "completed", p.CompletedValue, dec(4))
}

func TestEvaluate_Hours_RequiredCoursesRestrictTheSum(t *testing.T) {
	// GIVEN: Hours requirement listing specific course ids
	// WHEN: Evaluating records from listed and unlisted courses
	// THEN: Only hours from listed courses count

	req := hoursRequirement("officer-dev", "", 8, compliance.FrequencyAnnual)
	req.RequiredCourses = []compliance.CourseID{"crs-101", "crs-102"}

	inCourse := hoursOn("rec-1", "officer", 5, date(2026, time.March, 1))
	inCourse.CourseID = "crs-101"
	offCourse := hoursOn("rec-2", "officer", 5, date(2026, time.March, 2))
	offCourse.CourseID = "crs-999"

	p := compliance.Evaluate(req, []compliance.TrainingRecord{inCourse, offCourse}, nil, date(2026, time.June, 1))

	assertDecimal(t, "completed", p.CompletedValue, dec(5))
}

func TestEvaluate_Hours_EmptyTrainingTypeCountsEverything(t *testing.T) {
	// GIVEN: Hours requirement with no training-type filter
	// WHEN: Evaluating records of different types
	// THEN: All completed hours in the window count

	req := hoursRequirement("any-hours", "", 10, compliance.FrequencyAnnual)
	records := []compliance.TrainingRecord{
		hoursOn("rec-1", "ems", 4, date(2026, time.March, 1)),
		hoursOn("rec-2", "fire", 6, date(2026, time.March, 2)),
	}

	p := compliance.Evaluate(req, records, nil, date(2026, time.June, 1))

	assertDecimal(t, "completed", p.CompletedValue, dec(10))
	if !p.IsComplete {
		t.Error("expected complete at exactly the target")
	}
}

// =============================================================================
// COURSE CHECKLIST REQUIREMENTS
// =============================================================================

func TestEvaluate_Courses_CountsDistinctMatches(t *testing.T) {
	// GIVEN: Checklist of three courses; one completed twice, one once
	// WHEN: Evaluating
	// THEN: Two distinct courses complete; repeats do not double count

	req := compliance.Requirement{
		ID:              "recruit-checklist",
		Name:            "Recruit Checklist",
		Type:            compliance.RequirementCourses,
		Frequency:       compliance.FrequencyOneTime,
		RequiredCourses: []compliance.CourseID{"crs-1", "crs-2", "crs-3"},
		Active:          true,
	}

	rec1 := countOn("rec-1", "fire", date(2025, time.May, 1))
	rec1.CourseID = "crs-1"
	rec1Again := countOn("rec-2", "fire", date(2025, time.June, 1))
	rec1Again.CourseID = "crs-1"
	rec2 := countOn("rec-3", "ems", date(2025, time.July, 1))
	rec2.CourseID = "crs-2"

	p := compliance.Evaluate(req, []compliance.TrainingRecord{rec1, rec1Again, rec2}, nil, date(2026, time.June, 1))

	assertDecimal(t, "completed", p.CompletedValue, dec(2))
	assertDecimal(t, "required", p.RequiredValue, dec(3))
	assertDecimal(t, "percentage", p.Percentage, dec(66.67))
	if p.IsComplete {
		t.Error("expected incomplete with one course missing")
	}
}

func TestEvaluate_Courses_NoTrainingTypeFilter(t *testing.T) {
	// GIVEN: Checklist requirement that also names a training type
	// WHEN: A listed course was completed under a different training type
	// THEN: It still counts; checklists match on course id alone

	req := compliance.Requirement{
		ID:              "driver-checklist",
		Name:            "Driver Checklist",
		Type:            compliance.RequirementCourses,
		Frequency:       compliance.FrequencyAnnual,
		TrainingType:    "driver",
		RequiredCourses: []compliance.CourseID{"crs-evoc"},
		Active:          true,
	}

	rec := countOn("rec-1", "fire", date(2026, time.March, 1))
	rec.CourseID = "crs-evoc"

	p := compliance.Evaluate(req, []compliance.TrainingRecord{rec}, nil, date(2026, time.June, 1))

	if !p.IsComplete {
		t.Error("expected checklist complete regardless of record training type")
	}
}

// =============================================================================
// SHIFT AND CALL REQUIREMENTS
// =============================================================================

func TestEvaluate_Shifts_CountsWindowRecords(t *testing.T) {
	// GIVEN: Annual minimum of 2 duty shifts and three shift records,
	//        one outside the year
	// WHEN: Evaluating
	// THEN: Two in-year shifts count and the requirement is complete

	req := compliance.Requirement{
		ID:             "shift-min",
		Name:           "Shift Minimum",
		Type:           compliance.RequirementShifts,
		Frequency:      compliance.FrequencyAnnual,
		TrainingType:   "duty_shift",
		RequiredShifts: 2,
		Active:         true,
	}
	records := []compliance.TrainingRecord{
		countOn("rec-1", "duty_shift", date(2026, time.February, 5)),
		countOn("rec-2", "duty_shift", date(2026, time.March, 5)),
		countOn("rec-3", "duty_shift", date(2025, time.December, 5)),
	}

	p := compliance.Evaluate(req, records, nil, date(2026, time.June, 1))

	assertDecimal(t, "completed", p.CompletedValue, dec(2))
	if !p.IsComplete {
		t.Error("expected complete with 2 of 2 shifts")
	}
}

func TestEvaluate_Calls_CountsWindowRecords(t *testing.T) {
	// GIVEN: Quarterly minimum of 3 call responses, two inside the quarter
	// WHEN: Evaluating mid-quarter
	// THEN: 2 of 3, incomplete

	req := compliance.Requirement{
		ID:            "call-min",
		Name:          "Call Minimum",
		Type:          compliance.RequirementCalls,
		Frequency:     compliance.FrequencyQuarterly,
		TrainingType:  "emergency_call",
		RequiredCalls: 3,
		Active:        true,
	}
	records := []compliance.TrainingRecord{
		countOn("rec-1", "emergency_call", date(2026, time.April, 10)),
		countOn("rec-2", "emergency_call", date(2026, time.May, 2)),
		countOn("rec-3", "emergency_call", date(2026, time.March, 30)), // Q1
	}

	p := compliance.Evaluate(req, records, nil, date(2026, time.May, 15))

	assertDecimal(t, "completed", p.CompletedValue, dec(2))
	if p.IsComplete {
		t.Error("expected incomplete with 2 of 3 calls")
	}
}

// =============================================================================
// CERTIFICATION REQUIREMENTS
// =============================================================================

func TestEvaluate_Certification_ValidCard(t *testing.T) {
	// GIVEN: CPR requirement and a card expiring next year
	// WHEN: Evaluating
	// THEN: Complete, 100%, due on the expiration date

	req := certRequirement("cpr", "CPR")
	records := []compliance.TrainingRecord{
		certOnFile("rec-1", "CPR/AED Certification", date(2025, time.March, 10), date(2027, time.March, 10)),
	}

	p := compliance.Evaluate(req, records, nil, date(2026, time.February, 1))

	if !p.IsComplete {
		t.Error("expected complete with a valid card")
	}
	assertDecimal(t, "percentage", p.Percentage, dec(100))
	if p.CertExpired || p.BlocksActivity {
		t.Error("valid card should not read as expired or blocking")
	}
	if p.DueDate == nil || !p.DueDate.Equal(date(2027, time.March, 10)) {
		t.Errorf("expected due date on expiration, got %v", p.DueDate)
	}
}

func TestEvaluate_Certification_ExpiredCard_ZeroProgress(t *testing.T) {
	// GIVEN: CPR requirement and a card that lapsed a month ago
	// WHEN: Evaluating
	// THEN: Expired, blocking, 0%, incomplete, overdue by 31 days

	req := certRequirement("cpr", "CPR")
	records := []compliance.TrainingRecord{
		certOnFile("rec-1", "CPR/AED Certification", date(2024, time.March, 10), date(2026, time.January, 1)),
	}

	p := compliance.Evaluate(req, records, nil, date(2026, time.February, 1))

	if !p.CertExpired {
		t.Error("expected cert_expired")
	}
	if !p.BlocksActivity {
		t.Error("expected blocks_activity")
	}
	assertDecimal(t, "completed", p.CompletedValue, dec(0))
	assertDecimal(t, "percentage", p.Percentage, dec(0))
	if p.IsComplete {
		t.Error("expected incomplete")
	}
	if p.DaysUntilDue == nil || *p.DaysUntilDue != -31 {
		t.Errorf("expected -31 days until due, got %v", p.DaysUntilDue)
	}
}

func TestEvaluate_Certification_NothingOnFile(t *testing.T) {
	// GIVEN: CPR requirement and no matching records at all
	// WHEN: Evaluating
	// THEN: Reads as expired but not blocking; due today

	req := certRequirement("cpr", "CPR")
	records := []compliance.TrainingRecord{
		hoursOn("rec-1", "fire", 8, date(2026, time.January, 5)),
	}
	today := date(2026, time.February, 1)

	p := compliance.Evaluate(req, records, nil, today)

	if !p.CertExpired {
		t.Error("expected cert_expired with nothing on file")
	}
	if p.BlocksActivity {
		t.Error("nothing on file should not block activity")
	}
	assertDecimal(t, "percentage", p.Percentage, dec(0))
	if p.DueDate == nil || !p.DueDate.Equal(today) {
		t.Errorf("expected due today, got %v", p.DueDate)
	}
}

func TestEvaluate_Certification_LatestCardWins(t *testing.T) {
	// GIVEN: An old expired card and a newer valid renewal
	// WHEN: Evaluating
	// THEN: The renewal governs; the requirement is complete

	req := certRequirement("cpr", "CPR")
	records := []compliance.TrainingRecord{
		certOnFile("rec-old", "CPR/AED Certification", date(2022, time.March, 1), date(2024, time.March, 1)),
		certOnFile("rec-new", "CPR/AED Certification", date(2024, time.April, 1), date(2026, time.April, 1)),
	}

	p := compliance.Evaluate(req, records, nil, date(2026, time.February, 1))

	if !p.IsComplete {
		t.Error("expected the newer card to govern")
	}
	if p.DueDate == nil || !p.DueDate.Equal(date(2026, time.April, 1)) {
		t.Errorf("expected due on the renewal's expiration, got %v", p.DueDate)
	}
}

func TestEvaluate_Certification_NoExpirationNeverExpires(t *testing.T) {
	// GIVEN: A matching record with no expiration date
	// WHEN: Evaluating
	// THEN: Complete; a card without an expiration cannot lapse

	req := certRequirement("cpr", "CPR")
	records := []compliance.TrainingRecord{
		{
			ID:             "rec-1",
			MemberID:       "ff-1",
			CourseName:     "CPR Instructor Course",
			CompletionDate: dptr(date(2020, time.June, 1)),
			Status:         compliance.StatusCompleted,
		},
	}

	p := compliance.Evaluate(req, records, nil, date(2026, time.February, 1))

	if !p.IsComplete {
		t.Error("expected complete without an expiration date")
	}
}

func TestEvaluate_Certification_MatchKeys(t *testing.T) {
	// GIVEN: Requirements keyed by training type, name, and registry code
	// WHEN: Matching records against each key
	// THEN: Any single key matches; empty keys never match

	today := date(2026, time.February, 1)

	t.Run("training type", func(t *testing.T) {
		req := certRequirement("emt", "State EMT Card")
		req.TrainingType = "ems"
		rec := certOnFile("rec-1", "Paramedic Refresher", date(2025, time.May, 1), date(2027, time.May, 1))
		rec.TrainingType = "ems"

		p := compliance.Evaluate(req, []compliance.TrainingRecord{rec}, nil, today)
		if !p.IsComplete {
			t.Error("expected training-type match")
		}
	})

	t.Run("name substring, case-insensitive", func(t *testing.T) {
		req := certRequirement("cpr", "cpr")
		rec := certOnFile("rec-1", "Heartsaver CPR/AED", date(2025, time.May, 1), date(2027, time.May, 1))

		p := compliance.Evaluate(req, []compliance.TrainingRecord{rec}, nil, today)
		if !p.IsComplete {
			t.Error("expected case-insensitive name match")
		}
	})

	t.Run("registry code in certification number", func(t *testing.T) {
		req := certRequirement("nremt", "National Registry")
		req.Name = "" // force the registry key
		req.RegistryCode = "NREMT"
		rec := certOnFile("rec-1", "Recert Cycle", date(2025, time.May, 1), date(2027, time.May, 1))
		rec.CertificationNumber = "NREMT-884213"

		p := compliance.Evaluate(req, []compliance.TrainingRecord{rec}, nil, today)
		if !p.IsComplete {
			t.Error("expected registry-code match")
		}
	})

	t.Run("empty keys never match", func(t *testing.T) {
		req := certRequirement("blank", "")
		rec := certOnFile("rec-1", "Anything At All", date(2025, time.May, 1), date(2027, time.May, 1))

		p := compliance.Evaluate(req, []compliance.TrainingRecord{rec}, nil, today)
		if p.IsComplete {
			t.Error("a requirement with no keys must not match every record")
		}
		if !p.CertExpired {
			t.Error("no match should read as nothing on file")
		}
	})
}

// =============================================================================
// FALLBACK REQUIREMENTS
// =============================================================================

func TestEvaluate_Fallback_TrainingTypeWinsOverName(t *testing.T) {
	// GIVEN: Fallback requirement with both a training type and a name
	// WHEN: A record matches the name but not the type
	// THEN: No match; the type filter governs when configured

	req := compliance.Requirement{
		ID:           "misc",
		Name:         "Rope Rescue",
		Type:         compliance.RequirementFallback,
		Frequency:    compliance.FrequencyOneTime,
		TrainingType: "rescue",
		Active:       true,
	}
	rec := countOn("rec-1", "fire", date(2026, time.January, 5))
	rec.CourseName = "Rope Rescue Awareness"

	p := compliance.Evaluate(req, []compliance.TrainingRecord{rec}, nil, date(2026, time.June, 1))

	if p.IsComplete {
		t.Error("name match must not satisfy a type-filtered fallback")
	}
}

func TestEvaluate_Fallback_NameWhenNoType(t *testing.T) {
	// GIVEN: Fallback requirement with only a name
	// WHEN: A record's course name contains it
	// THEN: Complete

	req := compliance.Requirement{
		ID:        "misc",
		Name:      "Rope Rescue",
		Type:      compliance.RequirementFallback,
		Frequency: compliance.FrequencyOneTime,
		Active:    true,
	}
	rec := countOn("rec-1", "fire", date(2026, time.January, 5))
	rec.CourseName = "Rope Rescue Awareness"

	p := compliance.Evaluate(req, []compliance.TrainingRecord{rec}, nil, date(2026, time.June, 1))

	if !p.IsComplete {
		t.Error("expected name match to satisfy the fallback")
	}
}

func TestEvaluate_UnrecognizedType_TakesFallbackArm(t *testing.T) {
	// GIVEN: A requirement type this version does not know
	// WHEN: Evaluating against a record matching by name
	// THEN: It evaluates (fallback semantics) instead of vanishing

	req := compliance.Requirement{
		ID:        "future-rule",
		Name:      "Drone Operations",
		Type:      compliance.RequirementType("simulator"),
		Frequency: compliance.FrequencyAnnual,
		Active:    true,
	}
	rec := countOn("rec-1", "fire", date(2026, time.January, 5))
	rec.CourseName = "Drone Operations Part 107"

	p := compliance.Evaluate(req, []compliance.TrainingRecord{rec}, nil, date(2026, time.June, 1))

	if !p.IsComplete {
		t.Error("unknown type should evaluate with fallback semantics")
	}
}

// =============================================================================
// BIANNUAL HOURS OVERRIDE
// =============================================================================

func TestEvaluate_BiannualHours_ExpiredOverridesSufficientHours(t *testing.T) {
	// GIVEN: Biannual 16-hour requirement, 20 hours on file, but the latest
	//        matching expiration has passed
	// WHEN: Evaluating
	// THEN: Expired and blocking; completed forced to zero despite the hours

	req := hoursRequirement("live-burn", "fire", 16, compliance.FrequencyBiannual)
	withExp := hoursOn("rec-1", "fire", 20, date(2025, time.March, 1))
	withExp.ExpirationDate = dptr(date(2026, time.January, 15))

	p := compliance.Evaluate(req, []compliance.TrainingRecord{withExp}, nil, date(2026, time.February, 1))

	if !p.CertExpired || !p.BlocksActivity {
		t.Error("expected expired and blocking")
	}
	assertDecimal(t, "completed", p.CompletedValue, dec(0))
	assertDecimal(t, "percentage", p.Percentage, dec(0))
	if p.IsComplete {
		t.Error("expected incomplete")
	}
}

func TestEvaluate_BiannualHours_CurrentExpirationKeepsHours(t *testing.T) {
	// GIVEN: Biannual 16-hour requirement with a future expiration
	// WHEN: Evaluating
	// THEN: All history counts (no window) and the expiration is the due date

	req := hoursRequirement("live-burn", "fire", 16, compliance.FrequencyBiannual)
	older := hoursOn("rec-1", "fire", 10, date(2024, time.June, 1))
	newer := hoursOn("rec-2", "fire", 8, date(2025, time.September, 1))
	newer.ExpirationDate = dptr(date(2027, time.September, 1))

	p := compliance.Evaluate(req, []compliance.TrainingRecord{older, newer}, nil, date(2026, time.February, 1))

	assertDecimal(t, "completed", p.CompletedValue, dec(18))
	if !p.IsComplete {
		t.Error("expected complete with 18 of 16 hours")
	}
	if p.DueDate == nil || !p.DueDate.Equal(date(2027, time.September, 1)) {
		t.Errorf("expected due on expiration, got %v", p.DueDate)
	}
}

func TestEvaluate_BiannualHours_NoExpirationOnFile(t *testing.T) {
	// GIVEN: Biannual hours requirement and matching hours that carry no
	//        expiration date at all
	// WHEN: Evaluating
	// THEN: Expired (nothing proves a live cycle) but not blocking; due today

	req := hoursRequirement("live-burn", "fire", 16, compliance.FrequencyBiannual)
	records := []compliance.TrainingRecord{
		hoursOn("rec-1", "fire", 20, date(2025, time.March, 1)),
	}
	today := date(2026, time.February, 1)

	p := compliance.Evaluate(req, records, nil, today)

	if !p.CertExpired {
		t.Error("expected cert_expired with no expiration on file")
	}
	if p.BlocksActivity {
		t.Error("missing expiration should not block activity")
	}
	assertDecimal(t, "percentage", p.Percentage, dec(0))
	if p.DueDate == nil || !p.DueDate.Equal(today) {
		t.Errorf("expected due today, got %v", p.DueDate)
	}
}

// =============================================================================
// RECORD VISIBILITY
// =============================================================================

func TestEvaluate_StatusFiltering_OnlyCompletedCounts(t *testing.T) {
	// GIVEN: Completed, in-progress, and cancelled records of 2 hours each
	// WHEN: Evaluating an hours requirement
	// THEN: Only the completed record counts

	req := hoursRequirement("fire-annual", "fire", 6, compliance.FrequencyAnnual)

	inProgress := hoursOn("rec-2", "fire", 2, date(2026, time.March, 2))
	inProgress.Status = compliance.StatusInProgress
	cancelled := hoursOn("rec-3", "fire", 2, date(2026, time.March, 3))
	cancelled.Status = compliance.StatusCancelled

	records := []compliance.TrainingRecord{
		hoursOn("rec-1", "fire", 2, date(2026, time.March, 1)),
		inProgress,
		cancelled,
	}

	p := compliance.Evaluate(req, records, nil, date(2026, time.June, 1))

	assertDecimal(t, "completed", p.CompletedValue, dec(2))
}

func TestEvaluate_NoCompletionDate_InvisibleToWindowedTypes(t *testing.T) {
	// GIVEN: An hours record with no completion date
	// WHEN: Evaluating hours requirements with and without a window
	// THEN: The record never counts

	rec := compliance.TrainingRecord{
		ID:             "rec-1",
		MemberID:       "ff-1",
		TrainingType:   "fire",
		HoursCompleted: dec(5),
		Status:         compliance.StatusCompleted,
	}

	annual := hoursRequirement("fire-annual", "fire", 5, compliance.FrequencyAnnual)
	p := compliance.Evaluate(annual, []compliance.TrainingRecord{rec}, nil, date(2026, time.June, 1))
	assertDecimal(t, "annual completed", p.CompletedValue, dec(0))

	oneTime := hoursRequirement("fire-ever", "fire", 5, compliance.FrequencyOneTime)
	p = compliance.Evaluate(oneTime, []compliance.TrainingRecord{rec}, nil, date(2026, time.June, 1))
	assertDecimal(t, "one-time completed", p.CompletedValue, dec(0))
}

func TestEvaluate_NoCompletionDate_VisibleToCertification(t *testing.T) {
	// GIVEN: A certification record with an expiration but no completion date
	// WHEN: Evaluating
	// THEN: It still matches; expiration is what certification cares about

	req := certRequirement("cpr", "CPR")
	rec := compliance.TrainingRecord{
		ID:             "rec-1",
		MemberID:       "ff-1",
		CourseName:     "CPR/AED Certification",
		ExpirationDate: dptr(date(2027, time.January, 1)),
		Status:         compliance.StatusCompleted,
	}

	p := compliance.Evaluate(req, []compliance.TrainingRecord{rec}, nil, date(2026, time.February, 1))

	if !p.IsComplete {
		t.Error("expected certification to see a record without a completion date")
	}
}

// =============================================================================
// AUTO-SATISFACTION AND DETERMINISM
// =============================================================================

func TestEvaluate_ZeroTarget_AutoSatisfied(t *testing.T) {
	// GIVEN: An hours requirement with no target set
	// WHEN: Evaluating with no records at all
	// THEN: 100% and complete

	req := hoursRequirement("optional", "fire", 0, compliance.FrequencyAnnual)

	p := compliance.Evaluate(req, nil, nil, date(2026, time.June, 1))

	assertDecimal(t, "percentage", p.Percentage, dec(100))
	if !p.IsComplete {
		t.Error("expected auto-satisfied requirement to be complete")
	}
}

func TestEvaluate_WaiverCannotExcuseExpiredCert(t *testing.T) {
	// GIVEN: An expired CPR card and a waiver covering the whole year
	// WHEN: Evaluating
	// THEN: Certifications have no window, so waivers never prorate them;
	//       the expiration still fails the requirement

	req := certRequirement("cpr", "CPR")
	records := []compliance.TrainingRecord{
		certOnFile("rec-1", "CPR/AED Certification", date(2023, time.March, 1), date(2025, time.March, 1)),
	}
	waivers := []compliance.WaiverPeriod{
		blanketWaiver("w-1", date(2026, time.January, 1), date(2026, time.December, 31)),
	}

	p := compliance.Evaluate(req, records, waivers, date(2026, time.February, 1))

	assertDecimal(t, "percentage", p.Percentage, dec(0))
	if p.IsComplete {
		t.Error("an expired certification can never be complete")
	}
	if p.WaivedMonths != 0 {
		t.Errorf("expected no waived months without a window, got %d", p.WaivedMonths)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	// GIVEN: A fixed set of inputs
	// WHEN: Evaluating twice
	// THEN: Byte-for-byte identical results

	req := hoursRequirement("ems-monthly", "ems", 4, compliance.FrequencyMonthly)
	records := []compliance.TrainingRecord{
		hoursOn("rec-1", "ems", 3, date(2026, time.February, 10)),
		hoursOn("rec-2", "ems", 5, date(2026, time.January, 20)),
	}
	waivers := []compliance.WaiverPeriod{
		blanketWaiver("w-1", date(2026, time.February, 1), date(2026, time.February, 3)),
	}
	today := date(2026, time.February, 15)

	first := compliance.Evaluate(req, records, waivers, today)
	second := compliance.Evaluate(req, records, waivers, today)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results, got %+v then %+v", first, second)
	}
}
