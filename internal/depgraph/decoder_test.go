package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmaaz-git/pipip/internal/cnf"
)

func TestDecode(t *testing.T) {
	formula := cnf.Formula{Variables: 2, Clauses: []cnf.Clause{{1, 2}}}
	graph := Encode(formula)

	assignment, err := Decode(graph, Resolution{
		"x1": TrueVersion,
		"x2": FalseVersion,
		"c1": FalseVersion,
	})
	require.NoError(t, err)
	assert.Equal(t, cnf.Assignment{1: true, 2: false}, assignment)
}

func TestDecodeMissingVariableNode(t *testing.T) {
	formula := cnf.Formula{Variables: 2, Clauses: []cnf.Clause{{1, 2}}}
	graph := Encode(formula)

	_, err := Decode(graph, Resolution{"x1": TrueVersion, "c1": FalseVersion})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "x2", decodeErr.Node)
}

func TestDecodeUnknownVersion(t *testing.T) {
	formula := cnf.Formula{Variables: 1, Clauses: nil}
	graph := Encode(formula)

	_, err := Decode(graph, Resolution{"x1": "3.0.0"})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestSatisfies(t *testing.T) {
	formula := cnf.Formula{Variables: 1, Clauses: []cnf.Clause{{1}}}
	graph := Encode(formula)

	assert.True(t, graph.Satisfies(Resolution{"x1": TrueVersion, "c1": FalseVersion}))
	// Clause requires x1 at its true version.
	assert.False(t, graph.Satisfies(Resolution{"x1": FalseVersion, "c1": FalseVersion}))
	// Root requires the clause node to be selected.
	assert.False(t, graph.Satisfies(Resolution{"x1": TrueVersion}))
}
