package ilp

import (
	"fmt"

	"github.com/mmaaz-git/pipip/internal/cnf"
)

// DecodeError signals that an original variable is missing from a
// satisfying assignment, which can only happen when the SAT pipeline broke
// its contract.
type DecodeError struct {
	Variable int64
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ilp: variable x%d missing from assignment", e.Variable)
}

// DecodeValues projects a satisfying assignment of the compiled formula
// onto the original variables 1..numVars, reporting each as 0 or 1.
// Auxiliary gate variables are discarded.
func DecodeValues(assignment cnf.Assignment, numVars int64) (map[int64]int64, error) {
	values := make(map[int64]int64, numVars)
	for v := int64(1); v <= numVars; v++ {
		truth, ok := assignment[v]
		if !ok {
			return nil, &DecodeError{Variable: v}
		}
		if truth {
			values[v] = 1
		} else {
			values[v] = 0
		}
	}
	return values, nil
}
