package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimensionsMatch(t *testing.T) {
	a := Grid{{1, 2}, {3, 4}}

	assert.True(t, DimensionsMatch(a, Grid{{0, 0}, {0, 0}}))
	assert.False(t, DimensionsMatch(a, Grid{{1, 2, 3}}))
	assert.False(t, DimensionsMatch(a, Grid{{1, 2}, {3, 4}, {5, 6}}))
	// Same row count, ragged column count
	assert.False(t, DimensionsMatch(a, Grid{{1, 2}, {3}}))
}

func TestEqual(t *testing.T) {
	a := Grid{{1, 2}, {3, 4}}

	assert.True(t, Equal(a, Grid{{1, 2}, {3, 4}}))
	assert.False(t, Equal(a, Grid{{1, 2}, {3, 5}}))
	// Mismatched dimensions are false without cell inspection
	assert.False(t, Equal(a, Grid{{1, 2, 3}}))
}

func TestGridFromValue(t *testing.T) {
	// Decoded JSON arrives as []any of []any of float64
	v := []any{[]any{float64(1), float64(2)}, []any{float64(3), float64(4)}}
	grid, ok := GridFromValue(v)
	assert.True(t, ok)
	assert.Equal(t, Grid{{1, 2}, {3, 4}}, grid)

	// Cells outside [0,9] are rejected
	_, ok = GridFromValue([]any{[]any{float64(10)}})
	assert.False(t, ok)

	// Non-integral cells are rejected
	_, ok = GridFromValue([]any{[]any{1.5}})
	assert.False(t, ok)

	// Non-array rows are rejected
	_, ok = GridFromValue([]any{"not a row"})
	assert.False(t, ok)

	_, ok = GridFromValue(nil)
	assert.False(t, ok)
}
