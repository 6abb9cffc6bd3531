package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicate_FirstOccurrenceWins(t *testing.T) {
	input := []*Fault{
		{Maker: "A", Model: "1", ErrorCode: "E1", Troubleshooting: "x"},
		{Maker: "A", Model: "1", ErrorCode: "E1", Troubleshooting: "y"},
	}

	out := Deduplicate(input)
	require.Len(t, out, 1)
	assert.Equal(t, "x", out[0].Troubleshooting, "first occurrence must be retained")
}

func TestDeduplicate_PreservesOrder(t *testing.T) {
	input := []*Fault{
		{Maker: "B", Model: "2", ErrorCode: "E2"},
		{Maker: "A", Model: "1", ErrorCode: "E1"},
		{Maker: "B", Model: "2", ErrorCode: "E2"},
		{Maker: "C", Model: "3", ErrorCode: "E3"},
	}

	out := Deduplicate(input)
	require.Len(t, out, 3)
	assert.Equal(t, "B", out[0].Maker)
	assert.Equal(t, "A", out[1].Maker)
	assert.Equal(t, "C", out[2].Maker)
}

func TestDeduplicate_UniqueKeys(t *testing.T) {
	input := []*Fault{
		{Maker: "A", Model: "1", ErrorCode: "E1"},
		{Maker: "A", Model: "1", ErrorCode: "E2"},
		{Maker: "A", Model: "2", ErrorCode: "E1"},
		{Maker: "A", Model: "1", ErrorCode: "E1"},
	}

	out := Deduplicate(input)
	assert.LessOrEqual(t, len(out), len(input))

	seen := make(map[string]bool)
	for _, f := range out {
		assert.False(t, seen[f.Key()], "key %q appears twice", f.Key())
		seen[f.Key()] = true
	}
	assert.Len(t, out, 3)
}

func TestDeduplicate_EmptyIdentityFields(t *testing.T) {
	// Malformed records collapse onto the same empty-component key.
	input := []*Fault{
		{PossibleCause: "first"},
		{PossibleCause: "second"},
	}

	out := Deduplicate(input)
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].PossibleCause)
}

func TestDeduplicate_Empty(t *testing.T) {
	assert.Empty(t, Deduplicate(nil))
	assert.Empty(t, Deduplicate([]*Fault{}))
}
