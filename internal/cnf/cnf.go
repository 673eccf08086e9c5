package cnf

import (
	"fmt"
	"strings"
)

// Literal is a variable index with a sign: positive means the variable must
// be true, negative means it must be false. The zero value is not a valid
// literal (0 terminates clauses in DIMACS).
type Literal int64

// Var returns the 1-based variable index of the literal.
func (l Literal) Var() int64 {
	if l < 0 {
		return int64(-l)
	}
	return int64(l)
}

// Positive reports whether the literal asserts its variable.
func (l Literal) Positive() bool {
	return l > 0
}

// Negate returns the literal with flipped polarity.
func (l Literal) Negate() Literal {
	return -l
}

// Clause is a disjunction of literals.
type Clause []Literal

// Formula is a conjunction of clauses over variables 1..Variables.
type Formula struct {
	Variables int64
	Clauses   []Clause
}

// Assignment maps a variable index to its truth value.
type Assignment map[int64]bool

func (f Formula) DIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", f.Variables, len(f.Clauses))
	for _, clause := range f.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// Eval reports whether the assignment satisfies every clause. Variables
// missing from the assignment are treated as false.
func (f Formula) Eval(assignment Assignment) bool {
	for _, clause := range f.Clauses {
		satisfied := false
		for _, literal := range clause {
			if assignment[literal.Var()] == literal.Positive() {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}
