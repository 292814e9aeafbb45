/*
errors.go - Centralized error types for the compliance engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Store implementations and the API layer wrap these with context.

ERROR CATEGORIES:
  1. Not-found errors - A referenced requirement/member/record is missing
  2. Validation errors - A requirement definition violates its invariants
  3. Store errors - Persistence-level failures

USAGE:
  Callers branch with errors.Is:

    if errors.Is(err, compliance.ErrRequirementNotFound) {
        // 404
    }

SEE ALSO:
  - evaluate.go: PointEvaluator surfaces ErrRequirementNotFound
  - store.go: Store contract referencing these errors
*/
package compliance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrRequirementNotFound is returned when a requirement id does not
	// resolve. PointEvaluator surfaces it unchanged.
	ErrRequirementNotFound = errors.New("requirement not found")

	// ErrMemberNotFound is returned when a referenced member doesn't exist.
	ErrMemberNotFound = errors.New("member not found")

	// ErrRecordNotFound is returned when a referenced training record
	// doesn't exist.
	ErrRecordNotFound = errors.New("training record not found")

	// ErrWaiverNotFound is returned when a referenced waiver doesn't exist.
	ErrWaiverNotFound = errors.New("waiver not found")

	// ErrDuplicateID is returned when an insert collides with an existing id.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrInvalidRequirement is returned when a requirement definition fails
	// validation. Wrap with RequirementError for the offending field.
	ErrInvalidRequirement = errors.New("invalid requirement")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RequirementError reports which field of a requirement definition is
// invalid and why.
type RequirementError struct {
	ID     RequirementID
	Field  string
	Reason string
}

func (e *RequirementError) Error() string {
	return fmt.Sprintf("invalid requirement %q: %s: %s", e.ID, e.Field, e.Reason)
}

func (e *RequirementError) Unwrap() error {
	return ErrInvalidRequirement
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRequirementNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, ErrWaiverNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRequirement) ||
		errors.Is(err, ErrDuplicateID)
}
