/*
presets.go - Standard requirement definitions

Builders for the compliance rules most departments run, so scenarios and
department onboarding don't hand-assemble Requirement structs. Every preset
returns an active requirement; callers tweak fields afterward if their
department differs.

USAGE:
  req := training.AnnualFireTrainingHours("req-fire-hours", 24)
  store.SaveRequirement(ctx, req)
*/
package training

import (
	"github.com/shopspring/decimal"

	"github.com/thegspiro/the-logbook-sub001/compliance"
)

// CPRCertification requires a current CPR card. Biannual frequency makes
// the due date track the card's expiration.
func CPRCertification(id compliance.RequirementID) compliance.Requirement {
	return compliance.Requirement{
		ID:          id,
		Name:        "CPR",
		Description: "Current CPR/AED certification",
		Type:        compliance.RequirementCertification,
		Frequency:   compliance.FrequencyBiannual,
		DueDateType: compliance.DueCalendarPeriod,
		Active:      true,
	}
}

// EMTRecertification requires a current EMT certification, matched by the
// national registry prefix on the certificate number.
func EMTRecertification(id compliance.RequirementID) compliance.Requirement {
	return compliance.Requirement{
		ID:           id,
		Name:         "EMT",
		Description:  "National Registry EMT certification",
		Type:         compliance.RequirementCertification,
		Frequency:    compliance.FrequencyBiannual,
		DueDateType:  compliance.DueCalendarPeriod,
		TrainingType: TypeEMS,
		RegistryCode: "NREMT",
		Active:       true,
	}
}

// AnnualFireTrainingHours requires N hours of fire-suppression training per
// calendar year.
func AnnualFireTrainingHours(id compliance.RequirementID, hours int) compliance.Requirement {
	return compliance.Requirement{
		ID:            id,
		Name:          "Annual Fire Training",
		Description:   "Structural fire training hours per calendar year",
		Type:          compliance.RequirementHours,
		Frequency:     compliance.FrequencyAnnual,
		DueDateType:   compliance.DueCalendarPeriod,
		TrainingType:  TypeFire,
		RequiredHours: decimal.NewFromInt(int64(hours)),
		Active:        true,
	}
}

// MonthlyEMSTrainingHours requires N hours of EMS training per month.
func MonthlyEMSTrainingHours(id compliance.RequirementID, hours int) compliance.Requirement {
	return compliance.Requirement{
		ID:            id,
		Name:          "Monthly EMS Training",
		Description:   "EMS continuing education hours per month",
		Type:          compliance.RequirementHours,
		Frequency:     compliance.FrequencyMonthly,
		DueDateType:   compliance.DueCalendarPeriod,
		TrainingType:  TypeEMS,
		RequiredHours: decimal.NewFromInt(int64(hours)),
		Active:        true,
	}
}

// QuarterlyDriverHours requires N driver/operator hours per calendar
// quarter.
func QuarterlyDriverHours(id compliance.RequirementID, hours int) compliance.Requirement {
	return compliance.Requirement{
		ID:            id,
		Name:          "Quarterly Driver Training",
		Description:   "Apparatus driver/operator hours per quarter",
		Type:          compliance.RequirementHours,
		Frequency:     compliance.FrequencyQuarterly,
		DueDateType:   compliance.DueCalendarPeriod,
		TrainingType:  TypeDriver,
		RequiredHours: decimal.NewFromInt(int64(hours)),
		Active:        true,
	}
}

// RollingHazmatHours requires N hazmat hours in the trailing window of the
// given length.
func RollingHazmatHours(id compliance.RequirementID, hours, months int) compliance.Requirement {
	return compliance.Requirement{
		ID:                  id,
		Name:                "Hazmat Refresher",
		Description:         "Hazmat operations hours in the trailing period",
		Type:                compliance.RequirementHours,
		Frequency:           compliance.FrequencyAnnual,
		DueDateType:         compliance.DueRolling,
		RollingPeriodMonths: months,
		TrainingType:        TypeHazmat,
		RequiredHours:       decimal.NewFromInt(int64(hours)),
		Active:              true,
	}
}

// LiveBurnHours requires N live-fire hours on a two-year certification
// cycle. An expired live-burn certificate blocks the member regardless of
// accumulated hours.
func LiveBurnHours(id compliance.RequirementID, hours int) compliance.Requirement {
	return compliance.Requirement{
		ID:            id,
		Name:          "Live Burn",
		Description:   "Live-fire training hours on a two-year certification cycle",
		Type:          compliance.RequirementHours,
		Frequency:     compliance.FrequencyBiannual,
		DueDateType:   compliance.DueCalendarPeriod,
		TrainingType:  TypeFire,
		RequiredHours: decimal.NewFromInt(int64(hours)),
		Active:        true,
	}
}

// AnnualShiftMinimum requires N duty shifts per calendar year.
func AnnualShiftMinimum(id compliance.RequirementID, shifts int) compliance.Requirement {
	return compliance.Requirement{
		ID:             id,
		Name:           "Annual Shift Minimum",
		Description:    "Duty shifts worked per calendar year",
		Type:           compliance.RequirementShifts,
		Frequency:      compliance.FrequencyAnnual,
		DueDateType:    compliance.DueCalendarPeriod,
		TrainingType:   TypeDutyShift,
		RequiredShifts: shifts,
		Active:         true,
	}
}

// AnnualCallMinimum requires N emergency-call responses per calendar year.
func AnnualCallMinimum(id compliance.RequirementID, calls int) compliance.Requirement {
	return compliance.Requirement{
		ID:            id,
		Name:          "Annual Call Minimum",
		Description:   "Emergency calls responded to per calendar year",
		Type:          compliance.RequirementCalls,
		Frequency:     compliance.FrequencyAnnual,
		DueDateType:   compliance.DueCalendarPeriod,
		TrainingType:  TypeEmergencyCall,
		RequiredCalls: calls,
		Active:        true,
	}
}

// RecruitCourseChecklist requires completing every listed course once.
func RecruitCourseChecklist(id compliance.RequirementID, courses []compliance.CourseID) compliance.Requirement {
	return compliance.Requirement{
		ID:              id,
		Name:            "Recruit Task Book",
		Description:     "Firefighter I course checklist",
		Type:            compliance.RequirementCourses,
		Frequency:       compliance.FrequencyOneTime,
		DueDateType:     compliance.DueCalendarPeriod,
		RequiredCourses: courses,
		Active:          true,
	}
}
