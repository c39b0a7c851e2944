package translator

import (
	"context"
	"time"
)

// Operation names one capability a backend may implement.
type Operation string

const (
	OpTranslate     Operation = "translate"
	OpAlternatives  Operation = "alternatives"
	OpTransliterate Operation = "transliterate"
	OpSpellcheck    Operation = "spellcheck"
	OpLanguage      Operation = "language"
	OpExample       Operation = "example"
	OpDictionary    Operation = "dictionary"
	OpTextToSpeech  Operation = "text_to_speech"
)

// Operations lists every operation in a stable order.
var Operations = []Operation{
	OpTranslate, OpAlternatives, OpTransliterate, OpSpellcheck,
	OpLanguage, OpExample, OpDictionary, OpTextToSpeech,
}

// ServiceConfig carries the settings of one backend.
type ServiceConfig struct {
	Credentials string        `mapstructure:"credentials" json:"credentials"`
	APIKey      string        `mapstructure:"api_key" json:"api_key"`
	Models      []string      `mapstructure:"models" json:"models"`
	BaseURL     string        `mapstructure:"base_url" json:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
	Region      string        `mapstructure:"region" json:"region"`
	Email       string        `mapstructure:"email" json:"email"`

	// FunctionPrefix names the Lambda functions hosting translation models.
	FunctionPrefix string `mapstructure:"function_prefix" json:"function_prefix"`
}

// Backend is the contract a translation provider satisfies to be dispatched
// and raced. Language arguments are backend language codes ("auto" for the
// source means "detect"). Results may leave Service and Source empty: the
// dispatch pipeline stamps them. Operations a backend does not implement
// return ErrUnsupported; embed Unsupported to get that for free.
type Backend interface {
	Name() string

	Translate(ctx context.Context, text, dest, source string) (*TranslationResult, error)
	Alternatives(ctx context.Context, prev *TranslationResult, dest, source string) ([]*TranslationResult, error)
	Transliterate(ctx context.Context, text, dest, source string) (*TransliterationResult, error)
	Spellcheck(ctx context.Context, text, source string) (*SpellcheckResult, error)
	Language(ctx context.Context, text string) (*LanguageResult, error)
	Example(ctx context.Context, text, source string) ([]*ExampleResult, error)
	Dictionary(ctx context.Context, text, source string) ([]*DictionaryResult, error)
	TextToSpeech(ctx context.Context, text string, speed int, gender Gender, source string) (*SpeechResult, error)

	IsAvailable(ctx context.Context) error
	// SupportedLanguages returns the backend language codes it accepts, or
	// nil when it accepts anything.
	SupportedLanguages(ctx context.Context) ([]string, error)
}

// Unsupported implements every Backend operation by returning ErrUnsupported.
type Unsupported struct{}

func (Unsupported) Translate(context.Context, string, string, string) (*TranslationResult, error) {
	return nil, ErrUnsupported
}

func (Unsupported) Alternatives(context.Context, *TranslationResult, string, string) ([]*TranslationResult, error) {
	return nil, ErrUnsupported
}

func (Unsupported) Transliterate(context.Context, string, string, string) (*TransliterationResult, error) {
	return nil, ErrUnsupported
}

func (Unsupported) Spellcheck(context.Context, string, string) (*SpellcheckResult, error) {
	return nil, ErrUnsupported
}

func (Unsupported) Language(context.Context, string) (*LanguageResult, error) {
	return nil, ErrUnsupported
}

func (Unsupported) Example(context.Context, string, string) ([]*ExampleResult, error) {
	return nil, ErrUnsupported
}

func (Unsupported) Dictionary(context.Context, string, string) ([]*DictionaryResult, error) {
	return nil, ErrUnsupported
}

func (Unsupported) TextToSpeech(context.Context, string, int, Gender, string) (*SpeechResult, error) {
	return nil, ErrUnsupported
}

func (Unsupported) IsAvailable(context.Context) error { return nil }

func (Unsupported) SupportedLanguages(context.Context) ([]string, error) { return nil, nil }
