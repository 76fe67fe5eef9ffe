package planner

import "errors"

// Sentinel errors surfaced by Plan and its collaborators. Callers should
// compare with errors.Is, not string matching.
var (
	// ErrNoPlan signals that open emptied before a goal state was reached.
	// It is a normal, recoverable outcome, not a fault.
	ErrNoPlan = errors.New("planner: no plan exists in the reachable subgraph")

	// ErrCancelled signals that the caller's context was cancelled before
	// the search reached a goal or exhausted open.
	ErrCancelled = errors.New("planner: search cancelled")

	// ErrInvariantViolation signals a bug: e.g. the parent walk failed to
	// reach the initial state during plan reconstruction. This should be
	// impossible and is never recovered from.
	ErrInvariantViolation = errors.New("planner: internal invariant violation")
)

// ProblemError reports a malformed problem: an unknown symbol, an arity
// mismatch, or another syntactic or semantic failure discovered while
// parsing and validating a problem file (package problem); GroundAll,
// NewWorldState and Plan never return one. It carries enough detail for the
// caller to point at the offending input.
type ProblemError struct {
	Section string // e.g. "InitialConditions", "Actions", "GoalConditions"
	Detail  string
}

func (e *ProblemError) Error() string {
	if e.Section == "" {
		return "planner: malformed problem: " + e.Detail
	}
	return "planner: malformed problem in " + e.Section + ": " + e.Detail
}

// NewProblemError constructs a ProblemError for the given section and
// detail message.
func NewProblemError(section, detail string) *ProblemError {
	return &ProblemError{Section: section, Detail: detail}
}
