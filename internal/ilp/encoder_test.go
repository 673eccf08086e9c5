package ilp

import (
	"math/rand/v2"
	"testing"

	"github.com/onsi/gomega"

	"github.com/mmaaz-git/pipip/internal/cnf"
)

// feasible evaluates the constraint system directly under a 0/1 point.
func feasible(constraints []Constraint, point []int64) bool {
	for _, constraint := range constraints {
		var sum int64
		for i, weight := range constraint.Coeffs {
			sum += weight * point[i]
		}
		if sum > constraint.Bound {
			return false
		}
	}
	return true
}

// checkEquivalence verifies the core compilation contract: for every 0/1
// assignment of the original variables, the compiled CNF is satisfiable
// under that assignment exactly when all constraints hold under it.
func checkEquivalence(t *testing.T, constraints []Constraint) {
	t.Helper()
	g := gomega.NewWithT(t)

	formula, numVars, err := Encode(constraints)
	g.Expect(err).NotTo(gomega.HaveOccurred())

	for mask := int64(0); mask < 1<<numVars; mask++ {
		point := make([]int64, numVars)
		fixed := make(cnf.Assignment, numVars)
		for v := int64(0); v < numVars; v++ {
			if mask&(1<<v) != 0 {
				point[v] = 1
			}
			fixed[v+1] = point[v] == 1
		}

		_, satisfiable := cnf.Satisfiable(formula, fixed)
		g.Expect(satisfiable).To(gomega.Equal(feasible(constraints, point)),
			"point %v of system %v", point, constraints)
	}
}

func TestEncodeEquivalence(t *testing.T) {
	cases := []struct {
		name        string
		constraints []Constraint
	}{
		{"single small", []Constraint{{Coeffs: []int64{2, 3}, Bound: 4}}},
		{"tight bound", []Constraint{{Coeffs: []int64{1, 1, 1}, Bound: 2}}},
		{"power of two weights", []Constraint{{Coeffs: []int64{1, 2, 4}, Bound: 5}}},
		{"uneven weights", []Constraint{{Coeffs: []int64{3, 5, 7}, Bound: 9}}},
		{"zero weight skipped", []Constraint{{Coeffs: []int64{0, 4, 2}, Bound: 4}}},
		{"two constraints", []Constraint{
			{Coeffs: []int64{2, 3}, Bound: 4},
			{Coeffs: []int64{1, 1}, Bound: 1},
		}},
		{"negative weight", []Constraint{{Coeffs: []int64{-2, 3}, Bound: 1}}},
		{"all negative", []Constraint{{Coeffs: []int64{-1, -1, -1}, Bound: -2}}},
		{"ragged rows", []Constraint{
			{Coeffs: []int64{1}, Bound: 0},
			{Coeffs: []int64{2, 2, 2}, Bound: 4},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			checkEquivalence(t, tc.constraints)
		})
	}
}

func TestEncodeEquivalenceRandomized(t *testing.T) {
	for range 60 {
		variables := rand.IntN(3) + 1
		rows := rand.IntN(3) + 1
		constraints := make([]Constraint, rows)
		for i := range constraints {
			coeffs := make([]int64, variables)
			for j := range coeffs {
				coeffs[j] = rand.Int64N(15) - 7
			}
			constraints[i] = Constraint{Coeffs: coeffs, Bound: rand.Int64N(21) - 10}
		}
		checkEquivalence(t, constraints)
	}
}

func TestNegativeCoefficientNormalization(t *testing.T) {
	g := gomega.NewWithT(t)

	// -2*x1 + 3*x2 <= 1: (1,1) gives 1 <= 1, accepted; (0,1) gives 3 > 1,
	// rejected.
	constraints := []Constraint{{Coeffs: []int64{-2, 3}, Bound: 1}}
	formula, _, err := Encode(constraints)
	g.Expect(err).NotTo(gomega.HaveOccurred())

	_, accepted := cnf.Satisfiable(formula, cnf.Assignment{1: true, 2: true})
	g.Expect(accepted).To(gomega.BeTrue())

	_, accepted = cnf.Satisfiable(formula, cnf.Assignment{1: false, 2: true})
	g.Expect(accepted).To(gomega.BeFalse())
}

func TestStaticInfeasibilityShortCircuit(t *testing.T) {
	g := gomega.NewWithT(t)

	// Non-negative weights can never sum below zero; no circuit is built,
	// just a contradictory unit pair over a fresh auxiliary variable.
	formula, numVars, err := Encode([]Constraint{{Coeffs: []int64{2, 1}, Bound: -1}})
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(numVars).To(gomega.Equal(int64(2)))
	g.Expect(formula.Clauses).To(gomega.HaveLen(2))
	g.Expect(formula.Clauses[0]).To(gomega.HaveLen(1))
	g.Expect(formula.Clauses[1]).To(gomega.HaveLen(1))
	g.Expect(formula.Clauses[0][0]).To(gomega.Equal(formula.Clauses[1][0].Negate()))
	g.Expect(formula.Clauses[0][0].Var()).To(gomega.BeNumerically(">", numVars))

	_, satisfiable := cnf.Satisfiable(formula, nil)
	g.Expect(satisfiable).To(gomega.BeFalse())
}

func TestTriviallySatisfiedConstraintEmitsNothing(t *testing.T) {
	g := gomega.NewWithT(t)

	formula, numVars, err := Encode([]Constraint{{Coeffs: []int64{1, 1}, Bound: 5}})
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(formula.Clauses).To(gomega.BeEmpty())
	g.Expect(formula.Variables).To(gomega.Equal(numVars))
}

func TestAllocatorRangesAreDisjointAcrossConstraints(t *testing.T) {
	g := gomega.NewWithT(t)

	constraints := []Constraint{
		{Coeffs: []int64{2, 3}, Bound: 3},
		{Coeffs: []int64{1, 2}, Bound: 2},
	}
	formula, numVars, err := Encode(constraints)
	g.Expect(err).NotTo(gomega.HaveOccurred())

	// Every auxiliary index above the originals is defined at most once as
	// a gate output; two runs of the same encoding allocate identically.
	again, _, err := Encode(constraints)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(again).To(gomega.Equal(formula))
	g.Expect(formula.Variables).To(gomega.BeNumerically(">", numVars))
}
