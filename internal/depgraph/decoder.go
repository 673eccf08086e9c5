package depgraph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mmaaz-git/pipip/internal/cnf"
)

// DecodeError signals a contract violation between the generated graph and
// the resolver's answer. It is a bug indicator, never an expected outcome.
type DecodeError struct {
	Node   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("depgraph: node %s: %s", e.Node, e.Reason)
}

// Decode reads the truth value of every variable node out of a resolution.
// Every variable node present in the graph must appear in the resolution
// with one of its two versions; anything else is a DecodeError.
func Decode(graph *Graph, resolution Resolution) (cnf.Assignment, error) {
	assignment := make(cnf.Assignment)
	for _, node := range graph.Nodes {
		v, ok := variableIndex(node.Name)
		if !ok {
			continue
		}
		version, ok := resolution[node.Name]
		if !ok {
			return nil, &DecodeError{Node: node.Name, Reason: "missing from resolution"}
		}
		switch version {
		case TrueVersion:
			assignment[v] = true
		case FalseVersion:
			assignment[v] = false
		default:
			return nil, &DecodeError{Node: node.Name, Reason: fmt.Sprintf("unexpected version %q", version)}
		}
	}
	return assignment, nil
}

func variableIndex(name string) (int64, bool) {
	rest, ok := strings.CutPrefix(name, "x")
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
