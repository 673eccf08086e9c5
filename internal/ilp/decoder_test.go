package ilp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmaaz-git/pipip/internal/cnf"
)

func TestDecodeValues(t *testing.T) {
	assignment := cnf.Assignment{1: true, 2: false, 3: true, 4: true, 5: false}

	// Only the first three indices are original variables; the rest are
	// gate outputs and must be discarded.
	values, err := DecodeValues(assignment, 3)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 1, 2: 0, 3: 1}, values)
}

func TestDecodeValuesMissingVariable(t *testing.T) {
	_, err := DecodeValues(cnf.Assignment{1: true}, 2)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, int64(2), decodeErr.Variable)
}
