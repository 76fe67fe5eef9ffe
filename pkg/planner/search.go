package planner

import (
	"container/heap"
	"context"
)

// searchNode is one entry in the open queue: a world state reached at cost
// g, its priority f = g + h, and the monotonic insertion sequence used to
// break ties deterministically. Back-pointers for plan reconstruction are
// kept separately, in Plan's parent map.
type searchNode struct {
	state WorldState
	g     int
	f     int
	seq   int
}

// openQueue is a binary-heap priority queue ordered by (f, seq) ascending,
// i.e. min-f first with insertion order as the tie-break. It deliberately
// does not support decrease-key: the caller discards a stale entry at pop
// time when its key is already closed (bestG is consulted only before a
// push), per spec.md §4.3 / §9.
type openQueue struct {
	items   []*searchNode
	counter int
}

func (q *openQueue) Len() int { return len(q.items) }

func (q *openQueue) Less(i, j int) bool {
	if q.items[i].f != q.items[j].f {
		return q.items[i].f < q.items[j].f
	}
	return q.items[i].seq < q.items[j].seq
}

func (q *openQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *openQueue) Push(x any) { q.items = append(q.items, x.(*searchNode)) }

func (q *openQueue) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	return item
}

// push assigns the next insertion sequence number to n and inserts it.
func (q *openQueue) push(n *searchNode) {
	n.seq = q.counter
	q.counter++
	heap.Push(q, n)
}

// pop removes and returns the minimum-(f, seq) node.
func (q *openQueue) pop() *searchNode {
	return heap.Pop(q).(*searchNode)
}

// nodeHeap and the push/popNode helpers give the relaxed-plan inner search
// (heuristic.go) its own independent openQueue instance without depending
// on the outer search's bookkeeping.
type nodeHeap = openQueue

func pushNode(q *nodeHeap, n *searchNode) { q.push(n) }
func popNode(q *nodeHeap) *searchNode     { return q.pop() }

// Result is the outcome of a successful Plan call: the ground actions in
// forward order, and search statistics useful for logging (SPEC_FULL.md
// §11's --stats flag).
type Result struct {
	Actions  []GroundAction
	Expanded int
}

// engine bundles one Plan invocation's read-only view of the problem: the
// goal, the full ground action set, the selected heuristic mode, and its
// weight. It is not reused across calls.
type engine struct {
	goal             []GroundCondition
	actions          []GroundAction
	mode             HeuristicMode
	weight           int
	relaxedStepBound int
}

// Config carries the tunable knobs a caller may override; the zero value
// selects the engine's defaults (DefaultWeight for mode 1,
// DefaultRelaxedStepBound for mode 2).
type Config struct {
	Mode             HeuristicMode
	Weight           int // overrides DefaultWeight when non-zero
	RelaxedStepBound int // overrides DefaultRelaxedStepBound when non-zero
}

// Plan runs best-first search over the directed graph whose nodes are world
// states and whose edges are ground-action applications, from initial to
// any state satisfying goal, using the heuristic strategy named by
// cfg.Mode. It returns the shortest (for mode 0) or heuristic-guided plan
// in forward order, or ErrNoPlan if open empties first, or ErrCancelled if
// ctx is done before either of those. A malformed problem is the caller's
// responsibility to rule out before calling Plan; Plan itself never
// produces a ProblemError.
func Plan(ctx context.Context, initial WorldState, goal []GroundCondition, actions []GroundAction, cfg Config) (Result, error) {
	weight := cfg.Weight
	if weight == 0 {
		weight = DefaultWeight
	}
	stepBound := cfg.RelaxedStepBound
	if stepBound == 0 {
		stepBound = DefaultRelaxedStepBound
	}
	e := &engine{goal: goal, actions: actions, mode: cfg.Mode, weight: weight, relaxedStepBound: stepBound}

	open := &openQueue{}
	closed := make(map[string]bool)
	bestG := make(map[string]int)
	parent := make(map[string]parentEntry)

	initKey := initial.Canonical()
	start := &searchNode{state: initial, g: 0, f: e.heuristic(initial)}
	open.push(start)
	bestG[initKey] = 0

	expanded := 0

	for open.Len() > 0 {
		select {
		case <-ctx.Done():
			return Result{}, ErrCancelled
		default:
		}

		n := open.pop()
		key := n.state.Canonical()
		if closed[key] {
			continue
		}
		closed[key] = true
		expanded++

		if Satisfies(n.state, goal) {
			plan, err := reconstruct(n, key, initKey, parent)
			if err != nil {
				return Result{}, err
			}
			return Result{Actions: plan, Expanded: expanded}, nil
		}

		for i := range actions {
			a := actions[i]
			if !Satisfies(n.state, a.Preconditions) {
				continue
			}
			next := Apply(n.state, a.Effects)
			nextKey := next.Canonical()
			if closed[nextKey] {
				continue
			}
			gPrime := n.g + 1
			if best, ok := bestG[nextKey]; ok && gPrime >= best {
				continue
			}
			bestG[nextKey] = gPrime
			parent[nextKey] = parentEntry{parentKey: key, action: a}
			fPrime := gPrime + e.heuristic(next)
			open.push(&searchNode{state: next, g: gPrime, f: fPrime})
		}
	}

	return Result{}, ErrNoPlan
}

// parentEntry is the back-pointer stored per reached canonical key: the
// predecessor's canonical key and the ground action that produced this key
// from the predecessor.
type parentEntry struct {
	parentKey string
	action    GroundAction
}

// reconstruct walks parent from goalNode's key back to initKey, collecting
// actions, then reverses the collected sequence into forward order. A walk
// that never reaches initKey signals ErrInvariantViolation: this should be
// impossible since parent only ever records edges discovered from a
// reachable predecessor.
func reconstruct(goalNode *searchNode, goalKey, initKey string, parent map[string]parentEntry) ([]GroundAction, error) {
	var reversed []GroundAction
	key := goalKey
	for key != initKey {
		entry, ok := parent[key]
		if !ok {
			return nil, ErrInvariantViolation
		}
		reversed = append(reversed, entry.action)
		key = entry.parentKey
	}
	actions := make([]GroundAction, len(reversed))
	for i, a := range reversed {
		actions[len(reversed)-1-i] = a
	}
	return actions, nil
}
