package cnf

import "math/rand/v2"

// GenerateFormula builds a random formula for round-trip tests.
func GenerateFormula(variables int64, clauses int) Formula {
	formula := Formula{
		Variables: variables,
		Clauses:   make([]Clause, clauses),
	}

	for i := range clauses {
		formula.Clauses[i] = make(Clause, 0, variables)
		for v := int64(1); v <= variables; v++ {
			if rand.Float32() < 0.5 {
				continue
			}
			literal := Literal(v)
			if rand.Float32() < 0.5 {
				literal = literal.Negate()
			}
			formula.Clauses[i] = append(formula.Clauses[i], literal)
		}

		if len(formula.Clauses[i]) == 0 {
			literal := Literal(1 + rand.Int64N(variables))
			if rand.Float32() < 0.5 {
				literal = literal.Negate()
			}
			formula.Clauses[i] = append(formula.Clauses[i], literal)
		}
	}

	return formula
}

// Satisfiable is a reference DPLL oracle for tests. Values in fixed are
// pinned before the search starts. It returns a satisfying assignment
// extending fixed, or false.
func Satisfiable(formula Formula, fixed Assignment) (Assignment, bool) {
	assignment := make(Assignment, formula.Variables)
	for v, value := range fixed {
		assignment[v] = value
	}
	if dpll(formula, assignment) {
		return assignment, true
	}
	return nil, false
}

// CountSolutions enumerates all assignments over variables 1..Variables and
// counts the satisfying ones. Only usable for small instances.
func CountSolutions(formula Formula) int {
	count := 0
	total := int64(1) << formula.Variables
	for mask := int64(0); mask < total; mask++ {
		assignment := make(Assignment, formula.Variables)
		for v := int64(1); v <= formula.Variables; v++ {
			assignment[v] = mask&(1<<(v-1)) != 0
		}
		if formula.Eval(assignment) {
			count++
		}
	}
	return count
}

func dpll(formula Formula, assignment Assignment) bool {
	// Unit propagation.
	for {
		propagated := false
		for _, clause := range formula.Clauses {
			var unit Literal
			unsatisfied := 0
			satisfied := false
			for _, literal := range clause {
				value, ok := assignment[literal.Var()]
				if !ok {
					unsatisfied++
					unit = literal
				} else if value == literal.Positive() {
					satisfied = true
					break
				}
			}
			if satisfied {
				continue
			}
			if unsatisfied == 0 {
				return false
			}
			if unsatisfied == 1 {
				assignment[unit.Var()] = unit.Positive()
				propagated = true
			}
		}
		if !propagated {
			break
		}
	}

	branch := int64(0)
	for v := int64(1); v <= formula.Variables; v++ {
		if _, ok := assignment[v]; !ok {
			branch = v
			break
		}
	}
	if branch == 0 {
		return formula.Eval(assignment)
	}

	for _, value := range []bool{true, false} {
		trail := make(Assignment, len(assignment))
		for k, v := range assignment {
			trail[k] = v
		}
		trail[branch] = value
		if dpll(formula, trail) {
			for k, v := range trail {
				assignment[k] = v
			}
			return true
		}
	}
	return false
}
