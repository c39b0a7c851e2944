// Package postprocess strips the chatter language models wrap around their
// answers, so the LLM backends can hand back plain payloads.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean removes reasoning blocks, a leading "here is the ..." echo and
// wrapping quotes, then trims the result.
func Clean(text string) string {
	for _, stage := range []func(string) string{
		removeThinkingBlocks,
		removeInstructionEchoes,
		removeQuoteWrapping,
	} {
		text = stage(text)
	}
	return strings.TrimSpace(text)
}

// ExtractJSON returns the outermost JSON array or object found in an LLM
// answer, dropping markdown fences and surrounding prose. When no JSON
// delimiters are present the cleaned text is returned unchanged.
func ExtractJSON(text string) string {
	text = removeThinkingBlocks(text)
	text = fenceRe.ReplaceAllString(text, "$1")

	start := strings.IndexAny(text, "[{")
	if start < 0 {
		return strings.TrimSpace(text)
	}
	closer := "]"
	if text[start] == '{' {
		closer = "}"
	}
	end := strings.LastIndex(text, closer)
	if end < start {
		return strings.TrimSpace(text[start:])
	}
	return text[start : end+1]
}

var fenceRe = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// thinkingBlockRe matches complete reasoning blocks. RE2 has no
// backreferences, so every tag pair is spelled out.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
)

// truncatedThinkingRe matches an opening tag whose block was cut off.
var truncatedThinkingRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>|<reflection>).*$`,
)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// echoPatterns are anchored at the start and require a colon, so legitimate
// text that merely mentions "translation" survives.
var echoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:(?:certainly|sure|of course)[,.!]?\s+)?here(?:'s| is| are)(?: the)? (?:refined |polished |translated |corrected )?(?:translation|transliteration|text|result|examples|definitions)\s*:`),
	regexp.MustCompile(`(?i)^(?:the )?(?:refined |polished |corrected )?(?:translation|translated text|transliteration|corrected text|language code|language)\s*:`),
}

func removeInstructionEchoes(text string) string {
	for _, re := range echoPatterns {
		if loc := re.FindStringIndex(text); loc != nil {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

// quotePairs are the opening/closing pairs stripped when they wrap the
// whole answer.
var quotePairs = [][2]rune{
	{'"', '"'},
	{'\'', '\''},
	{'«', '»'},
	{'“', '”'},
	{'‘', '’'},
	{'„', '“'},
}

func removeQuoteWrapping(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	for _, pair := range quotePairs {
		if runes[0] == pair[0] && runes[n-1] == pair[1] {
			return strings.TrimSpace(string(runes[1 : n-1]))
		}
	}
	return text
}
