package planner

// Satisfies reports whether every element of pre is present in state under
// ground-condition equality, polarity included. Because states carry only
// Positive ground conditions, a Negative precondition can never be
// satisfied this way — this mirrors the source planner's behavior exactly
// (see SPEC_FULL.md §4 / spec.md §3's "Correction to that rule"), it is not
// a bug to be fixed here.
func Satisfies(state WorldState, pre []GroundCondition) bool {
	for _, c := range pre {
		if !state.Contains(c) {
			return false
		}
	}
	return true
}

// Apply returns a new state obtained from state by inserting every Positive
// effect and removing the Positive ground condition matching every
// Negative effect's name and arguments. The receiver is left unmodified.
// Effect application order is immaterial as long as no effect set names the
// same ground condition with both polarities; callers must not feed such
// effect sets in.
func Apply(state WorldState, effects []GroundCondition) WorldState {
	next := make(map[string]GroundCondition, len(state.facts)+len(effects))
	for k, v := range state.facts {
		next[k] = v
	}
	for _, e := range effects {
		positive := GroundCondition{Predicate: e.Predicate, Args: e.Args, Polarity: Positive}
		key := positive.Canonical()
		if e.Polarity == Positive {
			next[key] = positive
		} else {
			delete(next, key)
		}
	}
	return WorldState{facts: next}
}

// Canonical is re-exported at the package level for callers that prefer a
// free function over the WorldState method; it returns state.Canonical().
func Canonical(state WorldState) string {
	return state.Canonical()
}
