package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/valpere/polytran/internal/language"
	"github.com/valpere/polytran/internal/placeholder"
	"github.com/valpere/polytran/internal/postprocess"
)

// completion is one answer of a chat/generate style model.
type completion struct {
	Text  string
	Model string
	Meta  map[string]string
}

// completer sends a system prompt and a user message to a language model.
type completer interface {
	complete(ctx context.Context, system, user string) (completion, error)
}

// llmConfidence is reported for every model answer; models give no score.
const llmConfidence = 0.7

// maxAlternatives caps the alternatives asked from a model.
const maxAlternatives = 5

// promptOps implements the text operations on top of any completer.
// Backends embed it and fill llm with themselves.
type promptOps struct {
	Unsupported
	llm completer
}

func (p promptOps) Translate(ctx context.Context, text, dest, source string) (*TranslationResult, error) {
	masked := placeholder.Protect(text)

	system := fmt.Sprintf("You are a professional translator. Translate the following text from %s to %s.\n"+
		"Only respond with the translation, nothing else. No explanations, no quotes, just the translation.",
		languageName(source), languageName(dest))
	if masked.Len() > 0 {
		system += " " + placeholder.Hint
	}

	answer, err := p.llm.complete(ctx, system, masked.Text)
	if err != nil {
		return nil, err
	}
	translation := masked.Restore(postprocess.Clean(answer.Text))
	if translation == "" {
		return nil, ErrNoResult
	}

	return &TranslationResult{
		SourceLanguage:      detected(source),
		DestinationLanguage: language.FromCode(dest),
		Translation:         translation,
		Confidence:          llmConfidence,
		Metadata:            withModel(answer),
	}, nil
}

func (p promptOps) Alternatives(ctx context.Context, prev *TranslationResult, dest, source string) ([]*TranslationResult, error) {
	system := fmt.Sprintf("You are a professional translator. Give up to %d alternative translations from %s to %s "+
		"of the user's text. Each must differ from: %q.\n"+
		"Respond with a JSON array of strings and nothing else.",
		maxAlternatives, languageName(source), languageName(dest), prev.Translation)

	answer, err := p.llm.complete(ctx, system, prev.Source)
	if err != nil {
		return nil, err
	}
	var candidates []string
	if err := decodeAnswer(answer, &candidates); err != nil {
		return nil, err
	}

	seen := map[string]bool{prev.Translation: true}
	var results []*TranslationResult
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		results = append(results, &TranslationResult{
			SourceLanguage:      prev.SourceLanguage,
			DestinationLanguage: prev.DestinationLanguage,
			Translation:         c,
			Confidence:          llmConfidence,
			Metadata:            withModel(answer),
		})
	}
	return results, nil
}

func (p promptOps) Transliterate(ctx context.Context, text, dest, source string) (*TransliterationResult, error) {
	system := fmt.Sprintf("Transliterate the following %s text into the writing system of %s. "+
		"Keep the original words, only change the script.\n"+
		"Only respond with the transliteration, nothing else.",
		languageName(source), languageName(dest))

	answer, err := p.llm.complete(ctx, system, text)
	if err != nil {
		return nil, err
	}
	out := postprocess.Clean(answer.Text)
	if out == "" {
		return nil, ErrNoResult
	}
	return &TransliterationResult{
		SourceLanguage:      detected(source),
		DestinationLanguage: language.FromCode(dest),
		Transliteration:     out,
	}, nil
}

func (p promptOps) Spellcheck(ctx context.Context, text, source string) (*SpellcheckResult, error) {
	system := fmt.Sprintf("You are a proofreader for %s. Fix the spelling of the user's text without rephrasing it.\n"+
		`Respond with JSON only: {"corrected": "<text>", "mistakes": [{"word": "<wrong>", "suggestion": "<fixed>"}]}`,
		languageName(source))

	answer, err := p.llm.complete(ctx, system, text)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Corrected string    `json:"corrected"`
		Mistakes  []Mistake `json:"mistakes"`
	}
	if err := decodeAnswer(answer, &payload); err != nil {
		return nil, err
	}
	if payload.Corrected == "" {
		return nil, ErrNoResult
	}
	for i := range payload.Mistakes {
		payload.Mistakes[i].Offset = strings.Index(text, payload.Mistakes[i].Word)
	}

	return &SpellcheckResult{
		SourceLanguage: detected(source),
		Corrected:      payload.Corrected,
		Mistakes:       payload.Mistakes,
	}, nil
}

func (p promptOps) Language(ctx context.Context, text string) (*LanguageResult, error) {
	system := "Identify the language of the user's text.\n" +
		"Only respond with its two-letter ISO 639-1 code, nothing else."

	answer, err := p.llm.complete(ctx, system, text)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(postprocess.Clean(answer.Text))
	if len(fields) == 0 {
		return nil, ErrNoResult
	}
	code := strings.Trim(strings.ToLower(fields[0]), ".,;:\"'`")
	lang, err := language.Resolve(code)
	if err != nil || lang.IsAuto() {
		return nil, fmt.Errorf("model answered %q: %w", answer.Text, ErrNoResult)
	}
	return &LanguageResult{Language: lang, Confidence: llmConfidence}, nil
}

func (p promptOps) Example(ctx context.Context, text, source string) ([]*ExampleResult, error) {
	system := fmt.Sprintf("Write up to %d short, natural %s sentences that use the user's word or phrase.\n"+
		"Respond with a JSON array of strings and nothing else.",
		maxAlternatives, languageName(source))

	answer, err := p.llm.complete(ctx, system, text)
	if err != nil {
		return nil, err
	}
	var sentences []string
	if err := decodeAnswer(answer, &sentences); err != nil {
		return nil, err
	}

	src := detected(source)
	var results []*ExampleResult
	for _, s := range sentences {
		if s = strings.TrimSpace(s); s != "" {
			results = append(results, &ExampleResult{SourceLanguage: src, Example: s, Reference: answer.Model})
		}
	}
	return results, nil
}

func (p promptOps) Dictionary(ctx context.Context, text, source string) ([]*DictionaryResult, error) {
	system := fmt.Sprintf("You are a %s dictionary. List the meanings of the user's word.\n"+
		`Respond with a JSON array only, one object per meaning: `+
		`[{"meaning": "", "part_of_speech": "", "synonyms": [], "examples": []}]`,
		languageName(source))

	answer, err := p.llm.complete(ctx, system, text)
	if err != nil {
		return nil, err
	}
	var entries []*DictionaryResult
	if err := decodeAnswer(answer, &entries); err != nil {
		return nil, err
	}

	src := detected(source)
	results := entries[:0]
	for _, e := range entries {
		if e == nil || strings.TrimSpace(e.Meaning) == "" {
			continue
		}
		e.SourceLanguage = src
		results = append(results, e)
	}
	return results, nil
}

func decodeAnswer(answer completion, v any) error {
	if err := json.Unmarshal([]byte(postprocess.ExtractJSON(answer.Text)), v); err != nil {
		return fmt.Errorf("decode %s answer: %w", answer.Model, err)
	}
	return nil
}

// languageName renders a backend code for a prompt.
func languageName(code string) string {
	if code == "" || code == language.AutoCode {
		return "the detected language"
	}
	return language.FromCode(code).Name
}

// detected returns the language for code, or the zero Language when the
// source was left to detection.
func detected(code string) language.Language {
	if code == "" || code == language.AutoCode {
		return language.Language{}
	}
	return language.FromCode(code)
}

func withModel(c completion) map[string]string {
	meta := map[string]string{"model": c.Model}
	for k, v := range c.Meta {
		meta[k] = v
	}
	return meta
}
