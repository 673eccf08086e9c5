package ilp

import (
	"math"

	"github.com/pkg/errors"

	"github.com/mmaaz-git/pipip/internal/cnf"
)

// gateAllocator hands out fresh auxiliary variable indices. It is explicit
// state threaded through one encoding run, so separate runs can never alias
// each other's gates.
type gateAllocator struct {
	next int64
}

func newGateAllocator(after int64) *gateAllocator {
	return &gateAllocator{next: after + 1}
}

func (a *gateAllocator) fresh() cnf.Literal {
	literal := cnf.Literal(a.next)
	a.next++
	return literal
}

// Encode compiles a constraint system into a single CNF formula. Original
// variables keep indices 1..n (n = NumVariables); every auxiliary gate
// variable sits above n. The formula is satisfiable exactly when the system
// has a feasible 0/1 point, and the projection of any model onto 1..n is
// such a point.
func Encode(constraints []Constraint) (cnf.Formula, int64, error) {
	numVars := NumVariables(constraints)
	enc := &encoder{alloc: newGateAllocator(numVars)}

	for _, constraint := range constraints {
		if err := enc.constraint(constraint); err != nil {
			return cnf.Formula{}, 0, err
		}
	}

	formula := cnf.Formula{
		Variables: enc.alloc.next - 1,
		Clauses:   enc.clauses,
	}
	if formula.Variables < numVars {
		formula.Variables = numVars
	}
	return formula, numVars, nil
}

type encoder struct {
	alloc   *gateAllocator
	clauses []cnf.Clause
}

func (e *encoder) emit(literals ...cnf.Literal) {
	e.clauses = append(e.clauses, cnf.Clause(literals))
}

// constraint compiles sum(w_i * x_i) <= bound. Negative weights are
// rewritten over the complement literal: -|w|*x == |w|*(1-x) - |w|, which
// feeds ¬x into the adder with weight |w| and raises the bound by |w|.
func (e *encoder) constraint(c Constraint) error {
	bound := c.Bound
	var total int64
	var columns [][]cnf.Literal

	push := func(bit int, literal cnf.Literal) {
		for len(columns) <= bit {
			columns = append(columns, nil)
		}
		columns[bit] = append(columns[bit], literal)
	}

	for i, weight := range c.Coeffs {
		if weight == 0 {
			continue
		}
		literal := cnf.Literal(int64(i + 1))
		if weight < 0 {
			if weight == math.MinInt64 {
				return errors.Errorf("coefficient %d on x%d overflows", weight, i+1)
			}
			weight = -weight
			literal = literal.Negate()
			if bound > math.MaxInt64-weight {
				return errors.Errorf("bound overflows while normalizing x%d", i+1)
			}
			bound += weight
		}
		if total > math.MaxInt64-weight {
			return errors.Errorf("constraint weight total overflows int64")
		}
		total += weight
		for bit := 0; bit < 63; bit++ {
			if weight&(1<<bit) != 0 {
				push(bit, literal)
			}
		}
	}

	// After normalization all weights are non-negative, so a negative
	// bound can never be met: emit a contradiction instead of a circuit.
	if bound < 0 {
		contradiction := e.alloc.fresh()
		e.emit(contradiction)
		e.emit(contradiction.Negate())
		return nil
	}
	// The sum can never exceed the total of the weights.
	if bound >= total {
		return nil
	}

	bits := e.reduce(columns)
	e.compare(bits, bound)
	return nil
}

// reduce collapses each bit column to at most one literal with a cascade of
// half and full adders, carrying into the next column. The result is the
// binary representation of the weighted sum.
func (e *encoder) reduce(columns [][]cnf.Literal) []cnf.Literal {
	for bit := 0; bit < len(columns); bit++ {
		column := columns[bit]
		carry := func(literal cnf.Literal) {
			if bit+1 == len(columns) {
				columns = append(columns, nil)
			}
			columns[bit+1] = append(columns[bit+1], literal)
		}
		for len(column) >= 3 {
			sum, c := e.fullAdder(column[0], column[1], column[2])
			column = append(column[3:], sum)
			carry(c)
		}
		if len(column) == 2 {
			sum, c := e.halfAdder(column[0], column[1])
			column = []cnf.Literal{sum}
			carry(c)
		}
		columns[bit] = column
	}

	bits := make([]cnf.Literal, len(columns))
	for bit, column := range columns {
		if len(column) == 1 {
			bits[bit] = column[0]
		}
	}
	return bits
}

// compare constrains the sum bit-vector to be <= bound, walking from the
// most significant bit down while tracking "every bit so far equals the
// bound's bit" through AND gates. A zero literal stands for a constant-zero
// sum bit.
func (e *encoder) compare(bits []cnf.Literal, bound int64) {
	var equalSoFar cnf.Literal // 0 means "constant true"

	for bit := len(bits) - 1; bit >= 0; bit-- {
		boundBit := bound >> bit & 1
		sumBit := bits[bit]
		if boundBit == 1 {
			if sumBit == 0 {
				// The sum bit is constant zero under a one bound bit:
				// the prefix is already strictly smaller, nothing below
				// this position can violate the constraint.
				return
			}
			if bit == 0 {
				// A one bound bit at the bottom admits both sum bits;
				// there is nothing below to track equality for.
				continue
			}
			if equalSoFar == 0 {
				equalSoFar = sumBit
			} else {
				equalSoFar = e.and(equalSoFar, sumBit)
			}
			continue
		}
		if sumBit == 0 {
			continue
		}
		if equalSoFar == 0 {
			e.emit(sumBit.Negate())
		} else {
			e.emit(equalSoFar.Negate(), sumBit.Negate())
		}
	}
}

// Tseitin gates: each returns a fresh literal constrained to equal the gate
// output.

func (e *encoder) and(a, b cnf.Literal) cnf.Literal {
	g := e.alloc.fresh()
	e.emit(g.Negate(), a)
	e.emit(g.Negate(), b)
	e.emit(g, a.Negate(), b.Negate())
	return g
}

func (e *encoder) or(a, b cnf.Literal) cnf.Literal {
	g := e.alloc.fresh()
	e.emit(g, a.Negate())
	e.emit(g, b.Negate())
	e.emit(g.Negate(), a, b)
	return g
}

func (e *encoder) xor(a, b cnf.Literal) cnf.Literal {
	g := e.alloc.fresh()
	e.emit(g.Negate(), a, b)
	e.emit(g.Negate(), a.Negate(), b.Negate())
	e.emit(g, a.Negate(), b)
	e.emit(g, a, b.Negate())
	return g
}

func (e *encoder) halfAdder(a, b cnf.Literal) (sum, carry cnf.Literal) {
	return e.xor(a, b), e.and(a, b)
}

func (e *encoder) fullAdder(a, b, c cnf.Literal) (sum, carry cnf.Literal) {
	partial := e.xor(a, b)
	return e.xor(partial, c), e.or(e.and(a, b), e.and(partial, c))
}
