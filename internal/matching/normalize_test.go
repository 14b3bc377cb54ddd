package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lower stays", "lactate", "lactate"},
		{"upper folds", "LACTATE", "lactate"},
		{"trims", "  P001 ", "p001"},
		{"unicode folds", "ŞTIRBEY", "ştirbey"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Key(tt.input))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("Lidl", "lidl"))
	assert.True(t, Equal("p001", "P001"))
	assert.False(t, Equal("p001", "p002"))
}

func TestMatchesOptional(t *testing.T) {
	assert.True(t, MatchesOptional("", "anything"))
	assert.True(t, MatchesOptional("  ", "anything"))
	assert.True(t, MatchesOptional("Zuzu", "zuzu"))
	assert.False(t, MatchesOptional("zuzu", "pilos"))
}
