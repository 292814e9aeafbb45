/*
Package training provides the fire-service training domain layer.

PURPOSE:
  The compliance engine is deliberately ignorant of what "ems" or "hazmat"
  mean; it just filters on training-type codes. This package owns those
  codes: a registry of known training types with display metadata, plus
  preset requirement builders for the rules most departments run.

HOW IT WORKS:
  1. Built-in types register on package init
  2. Departments register custom types at startup
  3. The API uses GetOrCreate for display, so an unknown code coming out of
     the database still renders instead of erroring

USAGE:
  t := training.GetOrCreate(record.TrainingType)
  fmt.Println(t.Name) // "Emergency Medical"

SEE ALSO:
  - presets.go: standard requirement definitions
  - compliance/types.go: the records these codes appear on
*/
package training

import (
	"fmt"
	"sort"
	"sync"
)

// =============================================================================
// TRAINING TYPE REGISTRY
// =============================================================================

// Type describes one training-type code.
type Type struct {
	Code   string // stored on TrainingRecord.TrainingType
	Name   string // display name
	Domain string // "fire", "ems", "operations"
}

var (
	typeRegistry = make(map[string]Type)
	registryMu   sync.RWMutex
)

// Built-in codes every department starts with.
const (
	TypeFire          = "fire"
	TypeEMS           = "ems"
	TypeDriver        = "driver"
	TypeHazmat        = "hazmat"
	TypeRescue        = "rescue"
	TypeOfficer       = "officer"
	TypeDutyShift     = "duty_shift"
	TypeEmergencyCall = "emergency_call"
)

func init() {
	for _, t := range []Type{
		{Code: TypeFire, Name: "Fire Suppression", Domain: "fire"},
		{Code: TypeEMS, Name: "Emergency Medical", Domain: "ems"},
		{Code: TypeDriver, Name: "Driver/Operator", Domain: "operations"},
		{Code: TypeHazmat, Name: "Hazardous Materials", Domain: "fire"},
		{Code: TypeRescue, Name: "Technical Rescue", Domain: "fire"},
		{Code: TypeOfficer, Name: "Officer Development", Domain: "operations"},
		{Code: TypeDutyShift, Name: "Duty Shift", Domain: "operations"},
		{Code: TypeEmergencyCall, Name: "Emergency Call", Domain: "operations"},
	} {
		Register(t)
	}
}

// Register adds a training type to the registry. Later registrations with
// the same code win, so departments can rename built-ins.
func Register(t Type) {
	registryMu.Lock()
	defer registryMu.Unlock()
	typeRegistry[t.Code] = t
}

// Lookup finds a registered type by code.
func Lookup(code string) (Type, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := typeRegistry[code]
	return t, ok
}

// MustLookup finds a registered type or panics. Use in tests.
func MustLookup(code string) Type {
	t, ok := Lookup(code)
	if !ok {
		panic(fmt.Sprintf("training type not registered: %s", code))
	}
	return t
}

// GetOrCreate looks up a type, or fabricates a displayable fallback for
// codes written by other systems.
func GetOrCreate(code string) Type {
	if t, ok := Lookup(code); ok {
		return t
	}
	return Type{Code: code, Name: code, Domain: "unknown"}
}

// List returns all registered types ordered by code.
func List() []Type {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]Type, 0, len(typeRegistry))
	for _, t := range typeRegistry {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result
}
