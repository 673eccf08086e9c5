package cnf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := "c a comment\np cnf 2 3\n1 -2 0\n-1 2 0\n1 2 0\n"
	formula, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, int64(2), formula.Variables)
	require.Len(t, formula.Clauses, 3)
	assert.Equal(t, Clause{1, -2}, formula.Clauses[0])
	assert.Equal(t, Clause{-1, 2}, formula.Clauses[1])
	assert.Equal(t, Clause{1, 2}, formula.Clauses[2])
}

func TestParseWithoutHeader(t *testing.T) {
	formula, err := Parse(strings.NewReader("1 -3 0\n2 0\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), formula.Variables)
	assert.Len(t, formula.Clauses, 2)
}

func TestParseHeaderLeniency(t *testing.T) {
	t.Run("undercounting header is corrected from the clauses", func(t *testing.T) {
		formula, err := Parse(strings.NewReader("p cnf 1 1\n1 -3 0\n"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), formula.Variables)
	})

	t.Run("overcounting header declares extra variables", func(t *testing.T) {
		formula, err := Parse(strings.NewReader("p cnf 5 1\n1 0\n"))
		require.NoError(t, err)
		assert.Equal(t, int64(5), formula.Variables)
	})
}

func TestParseBenchmarkTrailer(t *testing.T) {
	formula, err := Parse(strings.NewReader("1 2 0\n%\n0\n\n"))
	require.NoError(t, err)
	assert.Len(t, formula.Clauses, 1)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"missing terminating zero", "1 2\n"},
		{"non-numeric token", "1 two 0\n"},
		{"tokens after terminator", "1 0 2\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			require.Error(t, err)
			var formatErr *FormatError
			assert.ErrorAs(t, err, &formatErr)
			assert.Equal(t, 1, formatErr.Line)
		})
	}
}

func TestParseRoundTripsThroughDIMACS(t *testing.T) {
	original := GenerateFormula(6, 10)
	parsed, err := Parse(strings.NewReader(original.DIMACS()))
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}
