/*
store.go - Persistence interface for compliance data

PURPOSE:
  Defines the interface between the engine's callers and the database.
  The engine itself never touches a Store; only the entry points that
  resolve inputs (PointEvaluator, the API layer, the sweep scheduler) do.

KEY INTERFACES:
  Source: The three targeted lookups a point evaluation needs
  Store:  Source plus the write/list surface the platform needs

READ-MOSTLY CONTRACT:
  Requirements are saved and listed; training records and waivers are
  appended and listed per member. Progress is never written anywhere:
  RequirementProgress is recomputed from current inputs on every call.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - compliance/store/memory.go: In-memory for testing

SEE ALSO:
  - evaluate.go: Source definition and PointEvaluator
  - store/sqlite/sqlite.go: Concrete implementation
*/
package compliance

import "context"

// =============================================================================
// STORE - Platform persistence contract
// =============================================================================

// Store is the persistence surface for compliance inputs. It embeds Source,
// so any Store backs a PointEvaluator directly.
type Store interface {
	Source

	// SaveRequirement inserts or replaces a requirement definition.
	SaveRequirement(ctx context.Context, r Requirement) error

	// ListRequirements returns every requirement, active or not, ordered
	// by id. Callers filter on Active themselves; BatchEvaluate already
	// skips inactive rules.
	ListRequirements(ctx context.Context) ([]Requirement, error)

	// AddRecord appends one training record. Returns ErrDuplicateID when
	// the record id already exists.
	AddRecord(ctx context.Context, rec TrainingRecord) error

	// AddWaiver appends one waiver period.
	AddWaiver(ctx context.Context, w WaiverPeriod) error
}
