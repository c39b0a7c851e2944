package dispatch

import (
	"context"
	"iter"

	"github.com/valpere/polytran/internal/lazy"
	tr "github.com/valpere/polytran/internal/translator"
)

// The *All variants apply an operation to every element of a sequence. The
// returned Sequence runs the pipeline for an element only when a consumer
// reaches it, and remembers results for later passes.

func (t *Translator) TranslateAll(ctx context.Context, texts iter.Seq[string], dest, source string) *lazy.Sequence[string, *tr.TranslationResult] {
	return lazy.New(texts, func(text string) (*tr.TranslationResult, error) {
		return t.Translate(ctx, text, dest, source)
	})
}

func (t *Translator) AlternativesAll(ctx context.Context, prevs iter.Seq[*tr.TranslationResult]) *lazy.Sequence[*tr.TranslationResult, []*tr.TranslationResult] {
	return lazy.New(prevs, func(prev *tr.TranslationResult) ([]*tr.TranslationResult, error) {
		return t.Alternatives(ctx, prev)
	})
}

func (t *Translator) TransliterateAll(ctx context.Context, texts iter.Seq[string], dest, source string) *lazy.Sequence[string, *tr.TransliterationResult] {
	return lazy.New(texts, func(text string) (*tr.TransliterationResult, error) {
		return t.Transliterate(ctx, text, dest, source)
	})
}

func (t *Translator) SpellcheckAll(ctx context.Context, texts iter.Seq[string], source string) *lazy.Sequence[string, *tr.SpellcheckResult] {
	return lazy.New(texts, func(text string) (*tr.SpellcheckResult, error) {
		return t.Spellcheck(ctx, text, source)
	})
}

func (t *Translator) LanguageAll(ctx context.Context, texts iter.Seq[string]) *lazy.Sequence[string, *tr.LanguageResult] {
	return lazy.New(texts, func(text string) (*tr.LanguageResult, error) {
		return t.Language(ctx, text)
	})
}

func (t *Translator) ExampleAll(ctx context.Context, texts iter.Seq[string], source string) *lazy.Sequence[string, []*tr.ExampleResult] {
	return lazy.New(texts, func(text string) ([]*tr.ExampleResult, error) {
		return t.Example(ctx, text, source)
	})
}

func (t *Translator) DictionaryAll(ctx context.Context, texts iter.Seq[string], source string) *lazy.Sequence[string, []*tr.DictionaryResult] {
	return lazy.New(texts, func(text string) ([]*tr.DictionaryResult, error) {
		return t.Dictionary(ctx, text, source)
	})
}

func (t *Translator) TextToSpeechAll(ctx context.Context, texts iter.Seq[string], speed int, gender tr.Gender, source string) *lazy.Sequence[string, *tr.SpeechResult] {
	return lazy.New(texts, func(text string) (*tr.SpeechResult, error) {
		return t.TextToSpeech(ctx, text, speed, gender, source)
	})
}
