package planner

// HeuristicMode selects among the three heuristic strategies this engine
// recognizes. The zero value is Dijkstra (h ≡ 0, no weighting).
type HeuristicMode int

const (
	// ModeDijkstra sets h ≡ 0: optimal, expands the full shortest-path
	// tree up to the goal's g-level.
	ModeDijkstra HeuristicMode = 0

	// ModeWeightedMissingLiterals sets h(s) = W * |goal \ s|: fast but not
	// admissible; see DefaultWeight.
	ModeWeightedMissingLiterals HeuristicMode = 1

	// ModeRelaxedPlan runs an inner Dijkstra over the relaxed problem
	// (negative effects ignored) from s to goal; admissible in the relaxed
	// sense used by this engine.
	ModeRelaxedPlan HeuristicMode = 2
)

// DefaultWeight is the empirical weight W used by ModeWeightedMissingLiterals
// when no override is supplied via Config. No claim of admissibility is
// made for this constant; see SPEC_FULL.md §9 / spec.md §9.
const DefaultWeight = 10

// DefaultRelaxedStepBound bounds the inner Dijkstra run by
// ModeRelaxedPlan so that a relaxed subgraph in which positive effects
// cannot reach the goal terminates instead of exhausting memory. Reached
// via either open-list exhaustion (the normal case) or this step cap,
// whichever comes first.
const DefaultRelaxedStepBound = 100000

// heuristic computes h(state) for the configured mode. goal and actions are
// the outer search's goal condition set and ground action set; weight is
// used only by ModeWeightedMissingLiterals.
func (e *engine) heuristic(state WorldState) int {
	switch e.mode {
	case ModeDijkstra:
		return 0
	case ModeWeightedMissingLiterals:
		return e.weight * missingGoalLiterals(state, e.goal)
	case ModeRelaxedPlan:
		return e.relaxedPlanLength(state)
	default:
		return 0
	}
}

// missingGoalLiterals counts the ground goal conditions absent from state.
func missingGoalLiterals(state WorldState, goal []GroundCondition) int {
	missing := 0
	for _, g := range goal {
		if !state.Contains(g) {
			missing++
		}
	}
	return missing
}

// relaxedApply is the relaxed effect-application operator used by the
// mode-2 inner search: it inserts every Positive effect and performs no
// deletions, i.e. negative effects are ignored entirely.
func relaxedApply(state WorldState, effects []GroundCondition) WorldState {
	next := make(map[string]GroundCondition, len(state.facts)+len(effects))
	for k, v := range state.facts {
		next[k] = v
	}
	for _, e := range effects {
		if e.Polarity != Positive {
			continue
		}
		next[e.Canonical()] = e
	}
	return WorldState{facts: next}
}

// relaxedPlanLength runs an inner Dijkstra (h ≡ 0) from state to e.goal
// over the relaxed graph (relaxedApply in place of Apply), using the same
// goal test and the same ground action set as the outer search, bounded by
// e.relaxedStepBound (DefaultRelaxedStepBound if unset) expansions to guard
// against a relaxed subgraph that can never reach the goal. Returns the
// inner plan's length, or the bound itself if it is hit or open empties
// first.
func (e *engine) relaxedPlanLength(state WorldState) int {
	if Satisfies(state, e.goal) {
		return 0
	}

	open := &nodeHeap{}
	initKey := state.Canonical()
	pushNode(open, &searchNode{state: state, g: 0, f: 0})

	bestG := map[string]int{initKey: 0}
	closed := make(map[string]bool)

	bound := e.relaxedStepBound
	if bound == 0 {
		bound = DefaultRelaxedStepBound
	}

	steps := 0
	for open.Len() > 0 && steps < bound {
		steps++
		n := popNode(open)
		key := n.state.Canonical()
		if closed[key] {
			continue
		}
		closed[key] = true

		if Satisfies(n.state, e.goal) {
			return n.g
		}

		for _, a := range e.actions {
			if !Satisfies(n.state, a.Preconditions) {
				continue
			}
			next := relaxedApply(n.state, a.Effects)
			nextKey := next.Canonical()
			if closed[nextKey] {
				continue
			}
			gPrime := n.g + 1
			if best, ok := bestG[nextKey]; !ok || gPrime < best {
				bestG[nextKey] = gPrime
				pushNode(open, &searchNode{state: next, g: gPrime, f: gPrime})
			}
		}
	}
	return bound
}
