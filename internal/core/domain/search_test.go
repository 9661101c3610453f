package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormaliseMaxResults tests the lower bound on result limits
func TestNormaliseMaxResults(t *testing.T) {
	tests := []struct {
		in, expected int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{5, 5},
		{100, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormaliseMaxResults(tt.in))
	}
}
