package chunker_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/polytran/internal/chunker"
)

func TestShortTextIsOnePiece(t *testing.T) {
	assert.Equal(t, []string{"Hello, world!"}, chunker.Chunks("  Hello, world!\n", 100))
}

func TestUnlimited(t *testing.T) {
	text := strings.Repeat("word ", 500)
	assert.Len(t, chunker.Chunks(text, 0), 1)
}

func TestEmptyYieldsNothing(t *testing.T) {
	assert.Empty(t, chunker.Chunks("   \n\n ", 10))
}

func TestParagraphBoundary(t *testing.T) {
	text := "First paragraph text here.\n\nSecond paragraph text here."

	assert.Equal(t, []string{
		"First paragraph text here.",
		"Second paragraph text here.",
	}, chunker.Chunks(text, 40))
}

func TestSentenceBoundary(t *testing.T) {
	text := "First sentence ends here. Second sentence follows. Third sentence."

	chunks := chunker.Chunks(text, 55)
	require.Len(t, chunks, 2)
	assert.Equal(t, "First sentence ends here. Second sentence follows.", chunks[0])
	assert.Equal(t, "Third sentence.", chunks[1])
}

func TestWordBoundary(t *testing.T) {
	chunks := chunker.Chunks("alpha beta gamma delta", 12)

	assert.Equal(t, []string{"alpha beta", "gamma delta"}, chunks)
}

func TestHardCut(t *testing.T) {
	chunks := chunker.Chunks(strings.Repeat("x", 25), 10)

	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, chunks)
}

func TestPiecesRespectLimitInRunes(t *testing.T) {
	text := strings.Repeat("Привіт світе. ", 40)

	for _, c := range chunker.Chunks(text, 30) {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 30)
		assert.NotEmpty(t, c)
	}
}

func TestSplitStopsEarly(t *testing.T) {
	var seen []string
	for piece := range chunker.Split("a b c d e f", 2) {
		seen = append(seen, piece)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}
