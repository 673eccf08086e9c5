package cnf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteral(t *testing.T) {
	assert.Equal(t, int64(7), Literal(7).Var())
	assert.Equal(t, int64(7), Literal(-7).Var())
	assert.True(t, Literal(7).Positive())
	assert.False(t, Literal(-7).Positive())
	assert.Equal(t, Literal(-7), Literal(7).Negate())
}

func TestEval(t *testing.T) {
	formula := Formula{
		Variables: 2,
		Clauses:   []Clause{{1, -2}, {-1, 2}},
	}

	assert.True(t, formula.Eval(Assignment{1: true, 2: true}))
	assert.True(t, formula.Eval(Assignment{1: false, 2: false}))
	assert.False(t, formula.Eval(Assignment{1: true, 2: false}))
	assert.False(t, formula.Eval(Assignment{1: false, 2: true}))
}

func TestDIMACS(t *testing.T) {
	formula := Formula{Variables: 3, Clauses: []Clause{{1, -3}, {2}}}
	assert.Equal(t, "p cnf 3 2\n1 -3 0\n2 0\n", formula.DIMACS())
}

func TestSatisfiableOracle(t *testing.T) {
	satisfiable := Formula{Variables: 2, Clauses: []Clause{{1, -2}, {-1, 2}, {1, 2}}}
	assignment, ok := Satisfiable(satisfiable, nil)
	require.True(t, ok)
	assert.True(t, satisfiable.Eval(assignment))

	unsatisfiable := Formula{Variables: 1, Clauses: []Clause{{1}, {-1}}}
	_, ok = Satisfiable(unsatisfiable, nil)
	assert.False(t, ok)
}

func TestSatisfiableRespectsFixedValues(t *testing.T) {
	formula := Formula{Variables: 2, Clauses: []Clause{{1, 2}}}

	_, ok := Satisfiable(formula, Assignment{1: false, 2: false})
	assert.False(t, ok)

	assignment, ok := Satisfiable(formula, Assignment{1: false})
	require.True(t, ok)
	assert.False(t, assignment[1])
	assert.True(t, assignment[2])
}

func TestCountSolutions(t *testing.T) {
	formula := Formula{Variables: 2, Clauses: []Clause{{1, 2}}}
	assert.Equal(t, 3, CountSolutions(formula))

	contradiction := Formula{Variables: 2, Clauses: []Clause{{1}, {-1}}}
	assert.Equal(t, 0, CountSolutions(contradiction))
}
