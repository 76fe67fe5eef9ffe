// Package problem implements the textual problem-file reader described in
// SPEC_FULL.md §5.4 / spec.md §6: a thin, external collaborator that turns
// a line-oriented problem description into the fully-populated Problem the
// search core consumes. The core never re-parses or re-validates this
// output beyond what grounding and state construction already check.
package problem

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/gitrdm/gokanlogic-planner/pkg/planner"
)

// Problem is the fully-populated description the core consumes: the symbol
// universe, the initial world state, the goal condition set, and the
// action schemas to ground.
type Problem struct {
	Universe []planner.Symbol
	Initial  []planner.GroundCondition
	Goal     []planner.GroundCondition
	Schemas  []planner.ActionSchema
}

var (
	literalPattern = regexp.MustCompile(`(!?)([A-Za-z][A-Za-z0-9_]*)\(([^)]*)\)`)
	headPattern    = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)\(([^)]*)\)$`)
)

const (
	secSymbols = "symbols"
	secInitial = "initialconditions"
	secGoal    = "goalconditions"
	secActions = "actions"
	secPre     = "preconditions"
	secEff     = "effects"
)

// Parse reads a problem file per SPEC_FULL.md §5.4: Symbols, then
// InitialConditions, then GoalConditions, then an Actions block of
// (head, Preconditions, Effects) triples. Section header comparison is
// case-insensitive; all other lines are parsed with surrounding and
// interior whitespace stripped.
func Parse(r io.Reader) (Problem, error) {
	scanner := bufio.NewScanner(r)
	var (
		p          Problem
		sawSymbols bool
		sawInitial bool
		sawGoal    bool
	)

	for scanner.Scan() {
		line := stripWhitespace(scanner.Text())
		if line == "" {
			continue
		}

		header, rest, ok := splitHeader(line)
		if !ok {
			return Problem{}, planner.NewProblemError("", fmt.Sprintf("line without a recognized section header: %q", line))
		}

		switch strings.ToLower(header) {
		case secSymbols:
			p.Universe = parseSymbols(rest)
			sawSymbols = true
		case secInitial:
			lits, err := parseLiterals(rest)
			if err != nil {
				return Problem{}, wrapSection("InitialConditions", err)
			}
			p.Initial = resolveGroundSet(lits)
			sawInitial = true
		case secGoal:
			lits, err := parseLiterals(rest)
			if err != nil {
				return Problem{}, wrapSection("GoalConditions", err)
			}
			p.Goal = resolveGroundSet(lits)
			sawGoal = true
		case secActions:
			schemas, err := parseActions(scanner)
			if err != nil {
				return Problem{}, err
			}
			p.Schemas = schemas
		default:
			return Problem{}, planner.NewProblemError("", fmt.Sprintf("unexpected section header %q", header))
		}
	}
	if err := scanner.Err(); err != nil {
		return Problem{}, err
	}

	if !sawSymbols {
		return Problem{}, planner.NewProblemError("Symbols", "missing required section")
	}
	if !sawInitial {
		return Problem{}, planner.NewProblemError("InitialConditions", "missing required section")
	}
	if !sawGoal {
		return Problem{}, planner.NewProblemError("GoalConditions", "missing required section")
	}

	if err := validate(p); err != nil {
		return Problem{}, err
	}
	return p, nil
}

// stripWhitespace removes every space, tab, carriage return and newline
// from line (other Unicode whitespace is kept), per §6's
// "whitespace-insensitive per line (whitespace removed before parsing)".
// Literal and header tokens are self-delimited by parentheses and colons,
// so removing separating spaces does not make them ambiguous to retokenize.
func stripWhitespace(line string) string {
	var b strings.Builder
	for _, r := range line {
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// splitHeader splits "Header:rest" into its header name and remainder. A
// line with no colon has no recognized header and ok is false.
func splitHeader(line string) (header, rest string, ok bool) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", "", false
	}
	return line[:idx], line[idx+1:], true
}

// parseSymbols splits a comma-separated symbol list. An empty remainder
// yields an empty (not nil) universe.
func parseSymbols(rest string) []planner.Symbol {
	if rest == "" {
		return []planner.Symbol{}
	}
	parts := strings.Split(rest, ",")
	out := make([]planner.Symbol, len(parts))
	for i, p := range parts {
		out[i] = planner.Symbol(p)
	}
	return out
}

// literal is a parsed ground-or-lifted condition before its arguments are
// known to be symbols (ground) or parameter names (lifted); the two
// call sites (resolveGroundSet, schema bodies) interpret Args accordingly.
type literal struct {
	Predicate string
	Args      []string
	Polarity  planner.Polarity
}

// parseLiterals extracts every "!?Name(arg1,arg2,...)" token from rest. A
// non-empty remainder that yields zero matches, or that leaves unmatched
// characters between matches, is a syntactically invalid literal.
func parseLiterals(rest string) ([]literal, error) {
	if rest == "" {
		return nil, nil
	}
	matches := literalPattern.FindAllStringSubmatchIndex(rest, -1)
	if matches == nil {
		return nil, fmt.Errorf("no literals found in %q", rest)
	}

	var lits []literal
	cursor := 0
	for _, m := range matches {
		if m[0] != cursor {
			return nil, fmt.Errorf("unrecognized text %q before literal", rest[cursor:m[0]])
		}
		cursor = m[1]

		neg := rest[m[2]:m[3]] == "!"
		name := rest[m[4]:m[5]]
		argsRaw := rest[m[6]:m[7]]

		var args []string
		if argsRaw != "" {
			args = strings.Split(argsRaw, ",")
		}
		polarity := planner.Positive
		if neg {
			polarity = planner.Negative
		}
		lits = append(lits, literal{Predicate: name, Args: args, Polarity: polarity})
	}
	if cursor != len(rest) {
		return nil, fmt.Errorf("unrecognized trailing text %q", rest[cursor:])
	}
	return lits, nil
}

// resolveGroundSet turns the literals of an InitialConditions or
// GoalConditions line into a positive-only ground condition set. Per §6, "!"
// in these two sections is not a polarity marker carried into the result: it
// is an exclusion against an accumulating set. "P(A) !P(A)" adds P(A) then
// removes it, leaving nothing; "!P(A)" with no prior "P(A)" on the same set
// is simply a no-op removal from the (empty) accumulator. This mirrors
// Env::add_initial_condition/remove_initial_condition, which store initial
// and goal conditions in a polarity-less set. A GroundCondition built here
// always has Polarity Positive; literals are applied in the order they
// appear.
func resolveGroundSet(lits []literal) []planner.GroundCondition {
	order := make([]string, 0, len(lits))
	set := make(map[string]planner.GroundCondition, len(lits))

	for _, l := range lits {
		args := make([]planner.Symbol, len(l.Args))
		for j, a := range l.Args {
			args[j] = planner.Symbol(a)
		}
		gc := planner.GroundCondition{Predicate: l.Predicate, Args: args, Polarity: planner.Positive}
		key := gc.Canonical()

		if l.Polarity == planner.Positive {
			if _, exists := set[key]; !exists {
				order = append(order, key)
			}
			set[key] = gc
			continue
		}

		if _, exists := set[key]; exists {
			delete(set, key)
			for i, k := range order {
				if k == key {
					order = append(order[:i], order[i+1:]...)
					break
				}
			}
		}
	}

	out := make([]planner.GroundCondition, 0, len(order))
	for _, key := range order {
		out = append(out, set[key])
	}
	return out
}

// toCondition converts a lifted literal (variables-or-constants) into a
// planner.Condition, used for schema precondition/effect sets.
func toCondition(lits []literal) []planner.Condition {
	out := make([]planner.Condition, len(lits))
	for i, l := range lits {
		out[i] = planner.Condition{Predicate: l.Predicate, Args: l.Args, Polarity: l.Polarity}
	}
	return out
}

// parseActions reads the repeated three-line (head, Preconditions, Effects)
// blocks that make up the Actions section until the scanner is exhausted.
// Actions is the last section: a line that is not an action head where one
// is expected, including another section header, is a ProblemError.
func parseActions(scanner *bufio.Scanner) ([]planner.ActionSchema, error) {
	var schemas []planner.ActionSchema

	for scanner.Scan() {
		headLine := stripWhitespace(scanner.Text())
		if headLine == "" {
			continue
		}

		m := headPattern.FindStringSubmatch(headLine)
		if m == nil {
			return nil, planner.NewProblemError("Actions", fmt.Sprintf("expected an action head, got %q", headLine))
		}
		name := m[1]
		var params []string
		if m[2] != "" {
			params = strings.Split(m[2], ",")
		}

		preLine, ok := nextNonBlank(scanner)
		if !ok {
			return nil, planner.NewProblemError("Actions", "action block missing Preconditions line")
		}
		preHeader, preRest, ok := splitHeader(preLine)
		if !ok || strings.ToLower(preHeader) != secPre {
			return nil, planner.NewProblemError("Actions", fmt.Sprintf("expected Preconditions:, got %q", preLine))
		}
		preLits, err := parseLiterals(preRest)
		if err != nil {
			return nil, wrapSection("Actions/Preconditions", err)
		}

		effLine, ok := nextNonBlank(scanner)
		if !ok {
			return nil, planner.NewProblemError("Actions", "action block missing Effects line")
		}
		effHeader, effRest, ok := splitHeader(effLine)
		if !ok || strings.ToLower(effHeader) != secEff {
			return nil, planner.NewProblemError("Actions", fmt.Sprintf("expected Effects:, got %q", effLine))
		}
		effLits, err := parseLiterals(effRest)
		if err != nil {
			return nil, wrapSection("Actions/Effects", err)
		}

		schemas = append(schemas, planner.ActionSchema{
			Name:          name,
			Parameters:    params,
			Preconditions: toCondition(preLits),
			Effects:       toCondition(effLits),
		})
	}
	return schemas, nil
}

// nextNonBlank advances the scanner past blank lines and returns the next
// non-blank, whitespace-stripped line.
func nextNonBlank(scanner *bufio.Scanner) (string, bool) {
	for scanner.Scan() {
		line := stripWhitespace(scanner.Text())
		if line != "" {
			return line, true
		}
	}
	return "", false
}

func wrapSection(section string, err error) error {
	return planner.NewProblemError(section, err.Error())
}

// validate checks the invariants from spec.md §3: every argument of every
// initial and goal ground condition is drawn from the universe, and every
// predicate is used with one arity across the initial and goal literals and
// every schema precondition and effect.
func validate(p Problem) error {
	universe := make(map[planner.Symbol]bool, len(p.Universe))
	for _, s := range p.Universe {
		universe[s] = true
	}
	arity := make(map[string]int)

	checkGround := func(section string, conds []planner.GroundCondition) error {
		for _, c := range conds {
			if want, ok := arity[c.Predicate]; ok && want != len(c.Args) {
				return planner.NewProblemError(section, fmt.Sprintf("predicate %s used with inconsistent arity", c.Predicate))
			}
			arity[c.Predicate] = len(c.Args)
			for _, a := range c.Args {
				if !universe[a] {
					return planner.NewProblemError(section, fmt.Sprintf("undefined symbol %q in %s", a, c.Canonical()))
				}
			}
		}
		return nil
	}

	if err := checkGround("InitialConditions", p.Initial); err != nil {
		return err
	}
	if err := checkGround("GoalConditions", p.Goal); err != nil {
		return err
	}

	for _, schema := range p.Schemas {
		for _, conds := range [][]planner.Condition{schema.Preconditions, schema.Effects} {
			for _, c := range conds {
				if want, ok := arity[c.Predicate]; ok && want != len(c.Args) {
					return planner.NewProblemError("Actions", fmt.Sprintf("predicate %s used with inconsistent arity in schema %s", c.Predicate, schema.Name))
				}
				arity[c.Predicate] = len(c.Args)
			}
		}
	}
	return nil
}
