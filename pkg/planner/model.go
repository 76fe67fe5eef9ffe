// Package planner implements a symbolic STRIPS-style task planner: a
// grounder that enumerates ground actions over a symbol universe, a state
// algebra over sets of ground conditions, and a best-first search engine
// with pluggable heuristic strategies.
//
// The package is deliberately single-threaded. A planning run owns its own
// open/closed/best-g/parent bookkeeping for the lifetime of one Plan call
// and releases it on return; nothing here is safe for concurrent mutation
// from multiple goroutines.
package planner

import (
	"fmt"
	"sort"
	"strings"
)

// Symbol is an opaque identifier drawn from a problem's declared universe.
// Equality is string equality.
type Symbol string

// Polarity distinguishes a positive ground condition ("this holds") from a
// negative one ("this is absent"). World states only ever carry Positive
// conditions; Negative appears in preconditions and in effects (which
// delete).
type Polarity bool

const (
	Positive Polarity = true
	Negative Polarity = false
)

func (p Polarity) String() string {
	if p == Positive {
		return ""
	}
	return "!"
}

// Condition is a lifted (schema-level) predicate application: an ordered
// argument list whose entries are either schema parameter names (variables)
// or constant symbols, together with a polarity. A Condition whose every
// argument matches a schema parameter is a "schema condition"; one whose
// arguments are all concrete symbols is, structurally, already ground.
type Condition struct {
	Predicate string
	Args      []string
	Polarity  Polarity
}

// GroundCondition is a Condition whose arguments are all Symbols drawn from
// the problem's universe. Its canonical string form is the hash key used
// throughout the state algebra and the search engine.
type GroundCondition struct {
	Predicate string
	Args      []Symbol
	Polarity  Polarity
}

// Canonical returns the deterministic string form of a ground condition:
// name(arg1,arg2,...) with a leading "!" when the polarity is Negative. Two
// ground conditions are equal as values iff their Canonical forms match.
func (g GroundCondition) Canonical() string {
	var b strings.Builder
	if g.Polarity == Negative {
		b.WriteByte('!')
	}
	b.WriteString(g.Predicate)
	b.WriteByte('(')
	for i, a := range g.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(a))
	}
	b.WriteByte(')')
	return b.String()
}

func (g GroundCondition) String() string {
	return g.Canonical()
}

// Equal reports whether two ground conditions share predicate, arguments,
// and polarity — i.e. whether their canonical forms coincide.
func (g GroundCondition) Equal(other GroundCondition) bool {
	return g.Canonical() == other.Canonical()
}

// ActionSchema is a parameterized template: a name, an ordered parameter
// list, and lifted precondition/effect sets whose arguments are drawn from
// the parameter list or are constants. Schema equality is by (name, arity);
// see SchemaKey.
type ActionSchema struct {
	Name          string
	Parameters    []string
	Preconditions []Condition
	Effects       []Condition
}

// Arity returns the number of formal parameters of the schema.
func (a ActionSchema) Arity() int {
	return len(a.Parameters)
}

// SchemaKey returns the (name, arity) pair used for schema equality.
func (a ActionSchema) SchemaKey() string {
	return fmt.Sprintf("%s/%d", a.Name, a.Arity())
}

// GroundAction is an ActionSchema with every parameter bound to one Symbol,
// together with its precomputed ground preconditions and effects.
type GroundAction struct {
	Name          string
	Args          []Symbol
	Preconditions []GroundCondition
	Effects       []GroundCondition
}

// Canonical returns a deterministic string form for a ground action,
// Name(arg1,arg2,...), used for logging and plan serialization. It is not
// used as a search key — states, not actions, are hashed for open/closed
// bookkeeping.
func (a GroundAction) Canonical() string {
	var b strings.Builder
	b.WriteString(a.Name)
	b.WriteByte('(')
	for i, s := range a.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(s))
	}
	b.WriteByte(')')
	return b.String()
}

func (a GroundAction) String() string {
	return a.Canonical()
}

// WorldState is the unordered set of ground conditions currently true. The
// semantics is closed-world: a ground condition holds exactly when it is a
// member of the set. States are value types — every State method that
// "changes" a state returns a new one; the receiver is left untouched.
type WorldState struct {
	facts map[string]GroundCondition
}

// NewWorldState builds a WorldState from an initial slice of ground
// conditions. Duplicate canonical forms collapse to one entry, matching the
// "no two distinct ground conditions share canonical form" invariant.
func NewWorldState(conditions []GroundCondition) WorldState {
	facts := make(map[string]GroundCondition, len(conditions))
	for _, c := range conditions {
		facts[c.Canonical()] = c
	}
	return WorldState{facts: facts}
}

// Contains reports whether the given ground condition, compared including
// polarity, is a member of the state.
func (s WorldState) Contains(c GroundCondition) bool {
	got, ok := s.facts[c.Canonical()]
	return ok && got.Polarity == c.Polarity
}

// Conditions returns the state's ground conditions as a slice. The order is
// unspecified; callers that need a deterministic order should sort on
// Canonical.
func (s WorldState) Conditions() []GroundCondition {
	out := make([]GroundCondition, 0, len(s.facts))
	for _, c := range s.facts {
		out = append(out, c)
	}
	return out
}

// Len reports the number of ground conditions held in the state.
func (s WorldState) Len() int {
	return len(s.facts)
}

// Canonical returns the deterministic serialization used as the open/
// closed/parent map key: the state's ground conditions' canonical strings,
// sorted lexicographically and concatenated. Two states are equal as sets
// of ground conditions iff their Canonical forms are equal.
func (s WorldState) Canonical() string {
	keys := make([]string, 0, len(s.facts))
	for k := range s.facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, "")
}
