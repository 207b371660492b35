package memoize_test

import (
	"testing"

	"github.com/isometry/gh-issue-bridge/internal/memoize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct{ X int }

func TestArgs_Key(t *testing.T) {
	testCases := []struct {
		Name  string
		A, B  memoize.Args
		Equal bool
	}{
		{
			Name:  "same_positional",
			A:     memoize.P(1, "a"),
			B:     memoize.P(1, "a"),
			Equal: true,
		},
		{
			Name: "reordered_positional",
			A:    memoize.P(1, "a"),
			B:    memoize.P("a", 1),
		},
		{
			Name:  "reordered_keyword",
			A:     memoize.Args{Keyword: map[string]any{"a": 1, "b": 2}},
			B:     memoize.P().With("b", 2).With("a", 1),
			Equal: true,
		},
		{
			Name: "positional_vs_keyword",
			A:    memoize.P(1),
			B:    memoize.P().With("x", 1),
		},
		{
			Name:  "pointers_compare_by_value",
			A:     memoize.P(&point{X: 1}),
			B:     memoize.P(&point{X: 1}),
			Equal: true,
		},
		{
			Name:  "struct_and_map_with_same_fields",
			A:     memoize.P(point{X: 1}),
			B:     memoize.P(map[string]int{"X": 1}),
			Equal: true,
		},
		{
			Name:  "integer_widths",
			A:     memoize.P(int(42)),
			B:     memoize.P(int64(42)),
			Equal: true,
		},
		{
			Name: "integer_and_float",
			A:    memoize.P(1),
			B:    memoize.P(1.0),
		},
		{
			Name:  "nil_and_empty",
			A:     memoize.Args{},
			B:     memoize.Args{Positional: []any{}, Keyword: map[string]any{}},
			Equal: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			a, err := tc.A.Key()
			require.NoError(t, err)
			b, err := tc.B.Key()
			require.NoError(t, err)
			if tc.Equal {
				assert.Equal(t, a, b)
			} else {
				assert.NotEqual(t, a, b)
			}
		})
	}
}

func TestArgs_WithDoesNotMutate(t *testing.T) {
	base := memoize.P(1).With("x", 1)
	_ = base.With("y", 2)
	assert.Len(t, base.Keyword, 1)
}
