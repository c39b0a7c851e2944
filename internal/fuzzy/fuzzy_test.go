package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"héllo", "hello", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("French", "french"))
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))

	s := Similarity("Frnch", "French")
	assert.Greater(t, s, 0.5)
	assert.Less(t, s, 1.0)
}

func TestBest(t *testing.T) {
	best, score := Best("germn", []string{"French", "German", "Greek"})
	assert.Equal(t, "German", best)
	assert.InDelta(t, 1-1.0/6.0, score, 1e-9)

	best, score = Best("x", nil)
	assert.Equal(t, "", best)
	assert.Equal(t, 0.0, score)
}
