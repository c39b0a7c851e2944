// Package placeholder masks spans an LLM must not translate (code, markup,
// URLs) behind numbered [PHn] markers and puts them back afterwards.
package placeholder

import (
	"regexp"
	"strconv"
	"strings"
)

// protectedRe lists the masked spans by priority: a fenced block wins over
// the inline code and tags inside it.
var protectedRe = regexp.MustCompile("(?s)```.*?```|`[^`\n]+`|<[^<>\n]+>|https?://[^\\s<>\"'`]+")

var markerRe = regexp.MustCompile(`\[PH(\d+)\]`)

// Hint is appended to prompts whose text carries markers.
const Hint = "Keep every [PHn] marker exactly as written. Do not translate, move or drop them."

// Masked is text with its protected spans replaced by markers.
type Masked struct {
	Text  string
	spans []string
}

// Protect masks every protected span of text, numbering markers in order of
// appearance.
func Protect(text string) Masked {
	var spans []string
	masked := protectedRe.ReplaceAllStringFunc(text, func(span string) string {
		spans = append(spans, span)
		return marker(len(spans) - 1)
	})
	return Masked{Text: masked, spans: spans}
}

// Len is the number of masked spans.
func (m Masked) Len() int { return len(m.spans) }

// Restore puts the masked spans back into text, typically the model's
// answer. Markers with an unknown index are left untouched.
func (m Masked) Restore(text string) string {
	if len(m.spans) == 0 {
		return text
	}
	return markerRe.ReplaceAllStringFunc(text, func(mk string) string {
		idx, err := strconv.Atoi(markerRe.FindStringSubmatch(mk)[1])
		if err != nil || idx >= len(m.spans) {
			return mk
		}
		return m.spans[idx]
	})
}

// Missing returns the indices of markers absent from text.
func (m Masked) Missing(text string) []int {
	var missing []int
	for i := range m.spans {
		if !strings.Contains(text, marker(i)) {
			missing = append(missing, i)
		}
	}
	return missing
}

func marker(i int) string {
	return "[PH" + strconv.Itoa(i) + "]"
}
