package translator

import (
	"context"
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"github.com/valpere/polytran/internal/language"
)

// minDetectLetters is the shortest sample worth running detection on.
const minDetectLetters = 3

// LinguaService detects languages offline with lingua-go. The detector loads
// its models on first use.
type LinguaService struct {
	Unsupported

	once     sync.Once
	detector lingua.LanguageDetector
}

func NewLinguaService() *LinguaService {
	return &LinguaService{}
}

func (s *LinguaService) Name() string {
	return "lingua"
}

func (s *LinguaService) getDetector() lingua.LanguageDetector {
	s.once.Do(func() {
		s.detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build()
	})
	return s.detector
}

func (s *LinguaService) Language(ctx context.Context, text string) (*LanguageResult, error) {
	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < minDetectLetters {
		return nil, ErrNoResult
	}

	values := s.getDetector().ComputeLanguageConfidenceValues(text)
	if len(values) == 0 || values[0].Value() == 0 {
		return nil, ErrNoResult
	}

	best := values[0]
	code := strings.ToLower(best.Language().IsoCode639_1().String())
	return &LanguageResult{
		Language:   language.FromCode(code),
		Confidence: best.Value(),
	}, nil
}
