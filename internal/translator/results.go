package translator

import (
	"fmt"
	"strings"

	"github.com/valpere/polytran/internal/language"
)

// Provenance records which backend produced a result and from what input.
type Provenance struct {
	Service string `json:"service"`
	Source  string `json:"source"`
}

// Stamp sets the provenance fields. Only the dispatch pipeline calls it.
func (p *Provenance) Stamp(service, source string) {
	p.Service = service
	p.Source = source
}

type TranslationResult struct {
	Provenance
	SourceLanguage      language.Language `json:"source_language"`
	DestinationLanguage language.Language `json:"destination_language"`
	Translation         string            `json:"translation"`
	Confidence          float64           `json:"confidence,omitempty"`
	Metadata            map[string]string `json:"metadata,omitempty"`
}

func (r *TranslationResult) String() string { return r.Translation }

type TransliterationResult struct {
	Provenance
	SourceLanguage      language.Language `json:"source_language"`
	DestinationLanguage language.Language `json:"destination_language"`
	Transliteration     string            `json:"transliteration"`
}

func (r *TransliterationResult) String() string { return r.Transliteration }

// Mistake is one spelling error found by a backend that reports them.
type Mistake struct {
	Word       string `json:"word"`
	Suggestion string `json:"suggestion"`
	Offset     int    `json:"offset"`
}

type SpellcheckResult struct {
	Provenance
	SourceLanguage language.Language `json:"source_language"`
	Corrected      string            `json:"corrected"`
	Mistakes       []Mistake         `json:"mistakes,omitempty"`
}

func (r *SpellcheckResult) String() string { return r.Corrected }

type LanguageResult struct {
	Provenance
	Language   language.Language `json:"language"`
	Confidence float64           `json:"confidence,omitempty"`
}

func (r *LanguageResult) String() string { return r.Language.Code }

type ExampleResult struct {
	Provenance
	SourceLanguage language.Language `json:"source_language"`
	Example        string            `json:"example"`
	Reference      string            `json:"reference,omitempty"`
}

func (r *ExampleResult) String() string { return r.Example }

type DictionaryResult struct {
	Provenance
	SourceLanguage language.Language `json:"source_language"`
	Meaning        string            `json:"meaning"`
	PartOfSpeech   string            `json:"part_of_speech,omitempty"`
	Synonyms       []string          `json:"synonyms,omitempty"`
	Examples       []string          `json:"examples,omitempty"`
}

func (r *DictionaryResult) String() string { return r.Meaning }

// Gender selects the voice of a text-to-speech result.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
	GenderOther  Gender = "other"
)

// ParseGender accepts "female", "male" and "other" in any case; "" is Other.
func ParseGender(raw string) (Gender, error) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(raw))); g {
	case "":
		return GenderOther, nil
	case GenderFemale, GenderMale, GenderOther:
		return g, nil
	default:
		return "", fmt.Errorf("invalid gender %q (want female, male or other)", raw)
	}
}

// DefaultSpeed is the normal speaking rate, in percent.
const DefaultSpeed = 100

type SpeechResult struct {
	Provenance
	SourceLanguage language.Language `json:"source_language"`
	Audio          []byte            `json:"audio"`
	MIMEType       string            `json:"mime_type,omitempty"`
	Speed          int               `json:"speed"`
	Gender         Gender            `json:"gender"`
}
