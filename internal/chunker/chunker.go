// Package chunker splits long input into pieces small enough for a single
// backend request. The pieces feed the lazy bulk operations.
package chunker

import (
	"iter"
	"strings"
	"unicode"
)

// Split yields the trimmed pieces of text, each at most maxRunes code points.
// Cuts prefer, in order: a blank line, the end of a sentence, whitespace.
// A piece without any of them is hard cut. maxRunes <= 0 yields text whole.
// Empty pieces are never yielded.
func Split(text string, maxRunes int) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := []rune(strings.TrimSpace(text))
		if len(rest) == 0 {
			return
		}
		if maxRunes <= 0 {
			yield(string(rest))
			return
		}

		for len(rest) > maxRunes {
			cut := cutPoint(rest[:maxRunes])
			if piece := strings.TrimSpace(string(rest[:cut])); piece != "" {
				if !yield(piece) {
					return
				}
			}
			rest = []rune(strings.TrimSpace(string(rest[cut:])))
		}
		if len(rest) > 0 {
			yield(string(rest))
		}
	}
}

// Chunks collects Split into a slice.
func Chunks(text string, maxRunes int) []string {
	var out []string
	for piece := range Split(text, maxRunes) {
		out = append(out, piece)
	}
	return out
}

// cutPoint returns the rune index at which window should be cut.
func cutPoint(window []rune) int {
	// blank line
	for i := len(window) - 1; i > 0; i-- {
		if window[i] == '\n' && window[i-1] == '\n' {
			return i + 1
		}
	}
	// sentence end followed by a space
	for i := len(window) - 2; i > 0; i-- {
		if isSentenceEnd(window[i]) && unicode.IsSpace(window[i+1]) {
			return i + 1
		}
	}
	for i := len(window) - 1; i > 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i
		}
	}
	return len(window)
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？', '…':
		return true
	}
	return false
}
