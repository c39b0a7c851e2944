// Package language resolves user supplied language identifiers (codes,
// English names, native names) against a static catalog.
package language

import (
	"fmt"
	"sort"
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/valpere/polytran/internal/fuzzy"
)

// AutoCode is the identifier that defers source-language detection to the
// backend.
const AutoCode = "auto"

// Language is a resolved language. Two languages are equal when their codes
// are equal.
type Language struct {
	Code   string `json:"code"`
	Alpha3 string `json:"alpha3,omitempty"`
	Name   string `json:"name"`
}

// Auto is the "let the backend decide" sentinel.
var Auto = Language{Code: AutoCode, Name: "Automatic"}

func (l Language) IsAuto() bool { return l.Code == AutoCode }

// IsZero reports whether l was never resolved.
func (l Language) IsZero() bool { return l.Code == "" }

func (l Language) String() string {
	if l.Name != "" {
		return l.Name
	}
	return l.Code
}

// UnknownLanguageError is returned when an identifier matches nothing in the
// catalog. Guess is the closest catalog entry; Similarity is in [0, 1].
type UnknownLanguageError struct {
	Input      string
	Guess      Language
	Similarity float64
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("unknown language %q (did you mean %s? similarity %.2f)", e.Input, e.Guess, e.Similarity)
}

// iso6391 is the set of languages the catalog knows about.
var iso6391 = []string{
	"af", "am", "ar", "az", "be", "bg", "bn", "bs", "ca", "cs", "cy", "da", "de",
	"el", "en", "eo", "es", "et", "eu", "fa", "fi", "fr", "ga", "gd", "gl", "gu",
	"ha", "he", "hi", "hr", "ht", "hu", "hy", "id", "ig", "is", "it", "ja", "jv",
	"ka", "kk", "km", "kn", "ko", "ku", "ky", "la", "lb", "lo", "lt", "lv", "mg",
	"mi", "mk", "ml", "mn", "mr", "ms", "mt", "my", "ne", "nl", "no", "ny", "pa",
	"pl", "ps", "pt", "ro", "ru", "sd", "si", "sk", "sl", "sm", "sn", "so", "sq",
	"sr", "st", "su", "sv", "sw", "ta", "te", "tg", "th", "tk", "tl", "tr", "tt",
	"ug", "uk", "ur", "uz", "vi", "xh", "yi", "yo", "zh", "zu",
}

// Catalog is an immutable index of languages by code and name.
type Catalog struct {
	languages []Language
	byKey     map[string]Language
	keys      []string
}

// Default is the catalog built from the ISO 639-1 list.
var Default = NewCatalog(iso6391)

// NewCatalog indexes the given ISO 639-1 codes. Codes x/text cannot parse are
// skipped.
func NewCatalog(codes []string) *Catalog {
	c := &Catalog{byKey: make(map[string]Language)}
	english := display.English.Languages()

	var selfNames []struct {
		name string
		lang Language
	}
	for _, code := range codes {
		tag, err := xlanguage.Parse(code)
		if err != nil {
			continue
		}
		base, _ := tag.Base()
		lang := Language{
			Code:   base.String(),
			Alpha3: base.ISO3(),
			Name:   english.Name(tag),
		}
		if lang.Name == "" {
			lang.Name = lang.Code
		}
		c.languages = append(c.languages, lang)
		c.add(lang.Code, lang)
		c.add(lang.Alpha3, lang)
		c.add(lang.Name, lang)
		if self := display.Self.Name(tag); self != "" {
			selfNames = append(selfNames, struct {
				name string
				lang Language
			}{self, lang})
		}
	}
	// English names win over native names on collision.
	for _, s := range selfNames {
		c.add(s.name, s.lang)
	}

	sort.Slice(c.languages, func(i, j int) bool { return c.languages[i].Code < c.languages[j].Code })
	sort.Strings(c.keys)
	return c
}

func (c *Catalog) add(key string, lang Language) {
	key = normalize(key)
	if key == "" {
		return
	}
	if _, exists := c.byKey[key]; exists {
		return
	}
	c.byKey[key] = lang
	c.keys = append(c.keys, key)
}

// Languages returns every catalog entry sorted by code.
func (c *Catalog) Languages() []Language {
	out := make([]Language, len(c.languages))
	copy(out, c.languages)
	return out
}

// Resolve maps raw to a catalog language. "" and "auto" resolve to Auto.
// Codes may carry region or script subtags ("pt-BR", "zh_Hant").
func (c *Catalog) Resolve(raw string) (Language, error) {
	key := normalize(raw)
	if key == "" || key == AutoCode {
		return Auto, nil
	}
	if lang, ok := c.byKey[key]; ok {
		return lang, nil
	}
	if tag, err := xlanguage.Parse(strings.ReplaceAll(key, "_", "-")); err == nil {
		if base, conf := tag.Base(); conf != xlanguage.No {
			if lang, ok := c.byKey[base.String()]; ok {
				return lang, nil
			}
		}
	}

	guessKey, score := fuzzy.Best(key, c.keys)
	return Language{}, &UnknownLanguageError{
		Input:      raw,
		Guess:      c.byKey[guessKey],
		Similarity: score,
	}
}

// FromCode resolves code against the catalog and falls back to a bare
// Language carrying the code when it is unknown. Backends use it to report
// detected languages.
func (c *Catalog) FromCode(code string) Language {
	if lang, err := c.Resolve(code); err == nil {
		return lang
	}
	code = normalize(code)
	return Language{Code: code, Name: code}
}

// Resolve resolves raw against the Default catalog.
func Resolve(raw string) (Language, error) {
	return Default.Resolve(raw)
}

// FromCode looks code up in the Default catalog.
func FromCode(code string) Language {
	return Default.FromCode(code)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
