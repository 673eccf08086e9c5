package cnf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FormatError reports a malformed line in a DIMACS CNF stream.
type FormatError struct {
	Line   int
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cnf: line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Parse reads a DIMACS CNF stream into a Formula.
//
// Lines starting with "c" are comments. A "p cnf <vars> <clauses>" header is
// optional; when its declared variable count disagrees with the literals
// actually referenced, the maximum observed index wins. Every other
// non-empty line is a single clause: whitespace-separated integers
// terminated by 0. Lines consisting only of "%" or "0" are tolerated
// (SATLIB benchmark trailers).
func Parse(r io.Reader) (Formula, error) {
	var (
		formula      Formula
		declaredVars int64
		lineNum      int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "%" || line == "0" {
			continue
		}

		fields := strings.Fields(line)
		if strings.HasPrefix(fields[0], "c") || strings.HasPrefix(fields[0], "%") {
			continue
		}
		if fields[0] == "p" {
			if len(fields) >= 3 {
				if v, err := strconv.ParseInt(fields[2], 10, 64); err == nil {
					declaredVars = v
				}
			}
			continue
		}

		clause, err := parseClause(fields, lineNum, line)
		if err != nil {
			return Formula{}, err
		}
		formula.Clauses = append(formula.Clauses, clause)
		for _, literal := range clause {
			if literal.Var() > formula.Variables {
				formula.Variables = literal.Var()
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Formula{}, errors.Wrap(err, "cnf: reading input")
	}

	// A header is advisory: trust it only when it covers every index seen.
	if declaredVars > formula.Variables {
		formula.Variables = declaredVars
	}
	return formula, nil
}

func parseClause(fields []string, lineNum int, line string) (Clause, error) {
	clause := make(Clause, 0, len(fields)-1)
	terminated := false
	for _, field := range fields {
		if terminated {
			return nil, &FormatError{Line: lineNum, Text: line, Reason: "tokens after clause terminator"}
		}
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, &FormatError{Line: lineNum, Text: line, Reason: "non-numeric token"}
		}
		if value == 0 {
			terminated = true
			continue
		}
		clause = append(clause, Literal(value))
	}
	if !terminated {
		return nil, &FormatError{Line: lineNum, Text: line, Reason: "clause missing terminating 0"}
	}
	if len(clause) == 0 {
		return nil, &FormatError{Line: lineNum, Text: line, Reason: "empty clause"}
	}
	return clause, nil
}
