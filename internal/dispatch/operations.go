package dispatch

import (
	"context"

	"github.com/valpere/polytran/internal/language"
	tr "github.com/valpere/polytran/internal/translator"
)

// Translate translates text into dest. An empty source means auto.
func (t *Translator) Translate(ctx context.Context, text, dest, source string) (*tr.TranslationResult, error) {
	text = normalize(text)
	if text == "" {
		return stamped(t, &tr.TranslationResult{}, text), nil
	}
	destLang, err := t.resolve(ctx, tr.OpTranslate, dest)
	if err != nil {
		return nil, err
	}
	srcLang, err := t.resolve(ctx, tr.OpTranslate, source)
	if err != nil {
		return nil, err
	}
	if !destLang.IsAuto() && destLang.Code == srcLang.Code {
		return stamped(t, &tr.TranslationResult{
			SourceLanguage:      srcLang,
			DestinationLanguage: destLang,
			Translation:         text,
			Confidence:          1,
		}, text), nil
	}

	return runSingle(ctx, t, call[tr.TranslationResult]{
		op:    tr.OpTranslate,
		text:  text,
		parts: []any{destLang.Code, srcLang.Code},
		fill: func(r *tr.TranslationResult) {
			fillLanguage(&r.SourceLanguage, srcLang)
			fillLanguage(&r.DestinationLanguage, destLang)
		},
		invoke: func(ctx context.Context) (*tr.TranslationResult, error) {
			return t.backend.Translate(ctx, text, destLang.Code, srcLang.Code)
		},
	})
}

// Alternatives asks for other translations of prev, which is usually the
// result of Translate.
func (t *Translator) Alternatives(ctx context.Context, prev *tr.TranslationResult) ([]*tr.TranslationResult, error) {
	if prev == nil {
		return []*tr.TranslationResult{}, nil
	}
	text := normalize(prev.Translation)
	if text == "" {
		return []*tr.TranslationResult{}, nil
	}
	srcLang, err := t.resolve(ctx, tr.OpAlternatives, prev.SourceLanguage.Code)
	if err != nil {
		return nil, err
	}
	destLang, err := t.resolve(ctx, tr.OpAlternatives, prev.DestinationLanguage.Code)
	if err != nil {
		return nil, err
	}
	original := normalize(prev.Source)

	return runMulti(ctx, t, multiCall[tr.TranslationResult]{
		op:    tr.OpAlternatives,
		text:  text,
		parts: []any{srcLang.Code, destLang.Code, original},
		fill: func(r *tr.TranslationResult) {
			fillLanguage(&r.SourceLanguage, srcLang)
			fillLanguage(&r.DestinationLanguage, destLang)
		},
		invoke: func(ctx context.Context) ([]*tr.TranslationResult, error) {
			return t.backend.Alternatives(ctx, prev, destLang.Code, srcLang.Code)
		},
	}), nil
}

// Transliterate rewrites text in the script of dest.
func (t *Translator) Transliterate(ctx context.Context, text, dest, source string) (*tr.TransliterationResult, error) {
	text = normalize(text)
	if text == "" {
		return stamped(t, &tr.TransliterationResult{}, text), nil
	}
	destLang, err := t.resolve(ctx, tr.OpTransliterate, dest)
	if err != nil {
		return nil, err
	}
	srcLang, err := t.resolve(ctx, tr.OpTransliterate, source)
	if err != nil {
		return nil, err
	}
	if !destLang.IsAuto() && destLang.Code == srcLang.Code {
		return stamped(t, &tr.TransliterationResult{
			SourceLanguage:      srcLang,
			DestinationLanguage: destLang,
			Transliteration:     text,
		}, text), nil
	}

	return runSingle(ctx, t, call[tr.TransliterationResult]{
		op:    tr.OpTransliterate,
		text:  text,
		parts: []any{destLang.Code, srcLang.Code},
		fill: func(r *tr.TransliterationResult) {
			fillLanguage(&r.SourceLanguage, srcLang)
			fillLanguage(&r.DestinationLanguage, destLang)
		},
		invoke: func(ctx context.Context) (*tr.TransliterationResult, error) {
			return t.backend.Transliterate(ctx, text, destLang.Code, srcLang.Code)
		},
	})
}

func (t *Translator) Spellcheck(ctx context.Context, text, source string) (*tr.SpellcheckResult, error) {
	text = normalize(text)
	if text == "" {
		return stamped(t, &tr.SpellcheckResult{}, text), nil
	}
	srcLang, err := t.resolve(ctx, tr.OpSpellcheck, source)
	if err != nil {
		return nil, err
	}

	return runSingle(ctx, t, call[tr.SpellcheckResult]{
		op:    tr.OpSpellcheck,
		text:  text,
		parts: []any{srcLang.Code},
		fill: func(r *tr.SpellcheckResult) {
			fillLanguage(&r.SourceLanguage, srcLang)
		},
		invoke: func(ctx context.Context) (*tr.SpellcheckResult, error) {
			return t.backend.Spellcheck(ctx, text, srcLang.Code)
		},
	})
}

// Language detects the language of text.
func (t *Translator) Language(ctx context.Context, text string) (*tr.LanguageResult, error) {
	text = normalize(text)
	if text == "" {
		return stamped(t, &tr.LanguageResult{}, text), nil
	}

	return runSingle(ctx, t, call[tr.LanguageResult]{
		op:   tr.OpLanguage,
		text: text,
		invoke: func(ctx context.Context) (*tr.LanguageResult, error) {
			return t.backend.Language(ctx, text)
		},
	})
}

// Example returns sentences using text.
func (t *Translator) Example(ctx context.Context, text, source string) ([]*tr.ExampleResult, error) {
	text = normalize(text)
	if text == "" {
		return []*tr.ExampleResult{}, nil
	}
	srcLang, err := t.resolve(ctx, tr.OpExample, source)
	if err != nil {
		return nil, err
	}

	return runMulti(ctx, t, multiCall[tr.ExampleResult]{
		op:    tr.OpExample,
		text:  text,
		parts: []any{srcLang.Code},
		fill: func(r *tr.ExampleResult) {
			fillLanguage(&r.SourceLanguage, srcLang)
		},
		invoke: func(ctx context.Context) ([]*tr.ExampleResult, error) {
			return t.backend.Example(ctx, text, srcLang.Code)
		},
	}), nil
}

// Dictionary returns the senses of text.
func (t *Translator) Dictionary(ctx context.Context, text, source string) ([]*tr.DictionaryResult, error) {
	text = normalize(text)
	if text == "" {
		return []*tr.DictionaryResult{}, nil
	}
	srcLang, err := t.resolve(ctx, tr.OpDictionary, source)
	if err != nil {
		return nil, err
	}

	return runMulti(ctx, t, multiCall[tr.DictionaryResult]{
		op:    tr.OpDictionary,
		text:  text,
		parts: []any{srcLang.Code},
		fill: func(r *tr.DictionaryResult) {
			fillLanguage(&r.SourceLanguage, srcLang)
		},
		invoke: func(ctx context.Context) ([]*tr.DictionaryResult, error) {
			return t.backend.Dictionary(ctx, text, srcLang.Code)
		},
	}), nil
}

// TextToSpeech renders text as audio. speed is a percentage of the normal
// rate; zero means DefaultSpeed.
func (t *Translator) TextToSpeech(ctx context.Context, text string, speed int, gender tr.Gender, source string) (*tr.SpeechResult, error) {
	if speed <= 0 {
		speed = tr.DefaultSpeed
	}
	if gender == "" {
		gender = tr.GenderOther
	}
	text = normalize(text)
	if text == "" {
		return stamped(t, &tr.SpeechResult{Speed: speed, Gender: gender}, text), nil
	}
	srcLang, err := t.resolve(ctx, tr.OpTextToSpeech, source)
	if err != nil {
		return nil, err
	}

	return runSingle(ctx, t, call[tr.SpeechResult]{
		op:    tr.OpTextToSpeech,
		text:  text,
		parts: []any{speed, srcLang.Code, string(gender)},
		fill: func(r *tr.SpeechResult) {
			fillLanguage(&r.SourceLanguage, srcLang)
			if r.Speed == 0 {
				r.Speed = speed
			}
			if r.Gender == "" {
				r.Gender = gender
			}
		},
		invoke: func(ctx context.Context) (*tr.SpeechResult, error) {
			return t.backend.TextToSpeech(ctx, text, speed, gender, srcLang.Code)
		},
	})
}

// stamped stamps a result the pipeline built itself.
func stamped[T any, P result[T]](t *Translator, r P, source string) *T {
	r.Stamp(t.name, source)
	return r
}

// fillLanguage sets *dst to resolved when the backend left it empty.
func fillLanguage(dst *language.Language, resolved language.Language) {
	if dst.IsZero() {
		*dst = resolved
	}
}
