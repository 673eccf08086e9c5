// Package solve wires the encoding pipelines together: parse, encode,
// resolve, decode, verify.
package solve

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mmaaz-git/pipip/internal/cnf"
	"github.com/mmaaz-git/pipip/internal/depgraph"
	"github.com/mmaaz-git/pipip/internal/ilp"
	"github.com/mmaaz-git/pipip/internal/resolver"
)

// SAT runs a formula through the dependency-resolution pipeline. The bool
// reports satisfiability; UNSAT is (nil, false, nil), never an error.
func SAT(ctx context.Context, formula cnf.Formula, engine resolver.Resolver) (cnf.Assignment, bool, error) {
	graph := depgraph.Encode(formula)
	logrus.WithFields(logrus.Fields{
		"variables": formula.Variables,
		"clauses":   len(formula.Clauses),
		"nodes":     len(graph.Nodes),
	}).Debug("encoded formula as dependency graph")

	resolution, err := engine.Resolve(ctx, graph)
	if err != nil {
		return nil, false, err
	}
	if resolution == nil {
		return nil, false, nil
	}

	assignment, err := depgraph.Decode(graph, resolution)
	if err != nil {
		return nil, false, err
	}
	// The resolver is trusted to be sound, but a broken adapter would
	// surface here rather than as a silently wrong answer.
	if !formula.Eval(assignment) {
		return nil, false, &depgraph.DecodeError{Node: "root", Reason: "resolution decodes to a non-satisfying assignment"}
	}
	return assignment, true, nil
}

// ILP compiles a constraint system to CNF, solves it through the SAT
// pipeline, and recovers the original 0/1 variable values. Infeasibility is
// (nil, false, nil).
func ILP(ctx context.Context, constraints []ilp.Constraint, engine resolver.Resolver) (map[int64]int64, bool, error) {
	formula, numVars, err := ilp.Encode(constraints)
	if err != nil {
		return nil, false, err
	}
	logrus.WithFields(logrus.Fields{
		"constraints": len(constraints),
		"variables":   numVars,
		"auxiliary":   formula.Variables - numVars,
		"clauses":     len(formula.Clauses),
	}).Debug("compiled constraint system to CNF")

	assignment, satisfiable, err := SAT(ctx, formula, engine)
	if err != nil || !satisfiable {
		return nil, false, err
	}

	values, err := ilp.DecodeValues(assignment, numVars)
	if err != nil {
		return nil, false, err
	}
	return values, true, nil
}
