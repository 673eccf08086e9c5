// Package ilp compiles systems of 0/1 integer linear inequalities into CNF
// and recovers integer solutions from satisfying assignments.
package ilp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Constraint is one inequality: sum(Coeffs[i] * x_{i+1}) <= Bound, with
// every x in {0,1}. Rows may be ragged; variable identity is positional.
type Constraint struct {
	Coeffs []int64
	Bound  int64
}

// FormatError reports a malformed line in a constraint system stream.
type FormatError struct {
	Line   int
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("ilp: line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// ParseSystem reads one constraint per line: whitespace-separated integers,
// all but the last being coefficients and the last the bound. Lines whose
// first token starts with "c" are comments; blank lines are skipped.
func ParseSystem(r io.Reader) ([]Constraint, error) {
	var (
		constraints []Constraint
		lineNum     int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if strings.HasPrefix(fields[0], "c") {
			continue
		}
		if len(fields) < 2 {
			return nil, &FormatError{Line: lineNum, Text: line, Reason: "constraint has no coefficients"}
		}

		values := make([]int64, len(fields))
		for i, field := range fields {
			value, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, &FormatError{Line: lineNum, Text: line, Reason: "non-numeric token"}
			}
			values[i] = value
		}
		constraints = append(constraints, Constraint{
			Coeffs: values[:len(values)-1],
			Bound:  values[len(values)-1],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "ilp: reading input")
	}
	return constraints, nil
}

// NumVariables is the variable count of a system: the longest coefficient
// row. Shorter rows implicitly weight the remaining variables with zero.
func NumVariables(constraints []Constraint) int64 {
	var n int64
	for _, constraint := range constraints {
		if int64(len(constraint.Coeffs)) > n {
			n = int64(len(constraint.Coeffs))
		}
	}
	return n
}
