package planner

// GroundAll enumerates, for every action schema, all ground actions
// obtained by binding the schema's parameters to an ordered tuple of
// distinct symbols drawn from universe. Permutations are computed once per
// arity and shared across every schema of that arity. A schema whose arity
// exceeds len(universe) contributes zero ground actions — not an error.
// Output order is deterministic: schemas in input order, and for each
// schema its bindings in the order permutations generates them.
func GroundAll(schemas []ActionSchema, universe []Symbol) []GroundAction {
	permsByArity := make(map[int][][]Symbol)
	var actions []GroundAction

	for _, schema := range schemas {
		k := schema.Arity()
		if k > len(universe) {
			continue
		}
		perms, ok := permsByArity[k]
		if !ok {
			perms = permutations(universe, k)
			permsByArity[k] = perms
		}
		for _, binding := range perms {
			actions = append(actions, groundSchema(schema, binding))
		}
	}
	return actions
}

// permutations returns every ordered k-tuple of distinct elements of
// universe, i.e. the k-permutations of universe without repetition.
func permutations(universe []Symbol, k int) [][]Symbol {
	if k == 0 {
		return [][]Symbol{{}}
	}
	var out [][]Symbol
	used := make([]bool, len(universe))
	current := make([]Symbol, 0, k)

	var recurse func()
	recurse = func() {
		if len(current) == k {
			tuple := make([]Symbol, k)
			copy(tuple, current)
			out = append(out, tuple)
			return
		}
		for i, s := range universe {
			if used[i] {
				continue
			}
			used[i] = true
			current = append(current, s)
			recurse()
			current = current[:len(current)-1]
			used[i] = false
		}
	}
	recurse()
	return out
}

// groundSchema substitutes schema's parameters by position with binding and
// returns the resulting ground action, including its ground preconditions
// and effects.
func groundSchema(schema ActionSchema, binding []Symbol) GroundAction {
	paramIndex := make(map[string]int, len(schema.Parameters))
	for i, p := range schema.Parameters {
		paramIndex[p] = i
	}
	return GroundAction{
		Name:          schema.Name,
		Args:          binding,
		Preconditions: groundConditions(schema.Preconditions, paramIndex, binding),
		Effects:       groundConditions(schema.Effects, paramIndex, binding),
	}
}

// groundConditions substitutes every lifted argument that names a schema
// parameter with the symbol at the matching positional index of binding;
// arguments that do not match any parameter are constants and are carried
// through unchanged.
func groundConditions(conds []Condition, paramIndex map[string]int, binding []Symbol) []GroundCondition {
	out := make([]GroundCondition, len(conds))
	for i, c := range conds {
		args := make([]Symbol, len(c.Args))
		for j, arg := range c.Args {
			if idx, ok := paramIndex[arg]; ok {
				args[j] = binding[idx]
			} else {
				args[j] = Symbol(arg)
			}
		}
		out[i] = GroundCondition{Predicate: c.Predicate, Args: args, Polarity: c.Polarity}
	}
	return out
}
