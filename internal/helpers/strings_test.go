package helpers_test

import (
	"github.com/isometry/gh-issue-bridge/internal/helpers"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestString(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    *string
		Expected string
	}{
		{
			Name:     "nil_string",
			Input:    nil,
			Expected: "",
		},
		{
			Name:     "empty_string",
			Input:    new(string),
			Expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, helpers.String(tc.Input))
		})
	}
}

func TestTruncate(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    string
		Length   int
		Expected string
	}{
		{
			Name:     "short_string",
			Input:    "rate limited",
			Length:   140,
			Expected: "rate limited",
		},
		{
			Name:     "long_string",
			Input:    "repository not found",
			Length:   10,
			Expected: "reposit...",
		},
		{
			Name:     "no_room_for_ellipsis",
			Input:    "repository",
			Length:   2,
			Expected: "re",
		},
		{
			Name:     "zero_length",
			Input:    "repository",
			Length:   0,
			Expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, helpers.Truncate(tc.Input, tc.Length))
		})
	}
}
