package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/valpere/polytran/internal/language"
)

// MyMemoryService queries the MyMemory translation memory. Besides the best
// translation it exposes the other memory matches as alternatives.
type MyMemoryService struct {
	Unsupported

	email   string
	baseURL string
	client  *http.Client
}

func NewMyMemoryService(cfg ServiceConfig) *MyMemoryService {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.mymemory.translated.net"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MyMemoryService{
		email:   cfg.Email,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *MyMemoryService) Name() string {
	return "mymemory"
}

type myMemoryMatch struct {
	Segment     string  `json:"segment"`
	Translation string  `json:"translation"`
	Match       float64 `json:"match"`
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string  `json:"translatedText"`
		Match          float64 `json:"match"`
	} `json:"responseData"`
	// responseStatus arrives as a number or as a quoted number.
	ResponseStatus  any             `json:"responseStatus"`
	ResponseDetails string          `json:"responseDetails"`
	Matches         []myMemoryMatch `json:"matches"`
}

func (s *MyMemoryService) get(ctx context.Context, text, dest, source string) (*myMemoryResponse, error) {
	if source == "" || source == language.AutoCode {
		source = "autodetect"
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", source+"|"+dest)
	if s.email != "" {
		q.Set("de", s.email)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/get?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var mymemResp myMemoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&mymemResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if status := fmt.Sprint(mymemResp.ResponseStatus); status != "200" {
		return nil, fmt.Errorf("API error: %s (%s)", mymemResp.ResponseDetails, status)
	}
	return &mymemResp, nil
}

func (s *MyMemoryService) Translate(ctx context.Context, text, dest, source string) (*TranslationResult, error) {
	resp, err := s.get(ctx, text, dest, source)
	if err != nil {
		return nil, err
	}
	if resp.ResponseData.TranslatedText == "" {
		return nil, ErrNoResult
	}
	return &TranslationResult{
		SourceLanguage:      detected(source),
		DestinationLanguage: language.FromCode(dest),
		Translation:         resp.ResponseData.TranslatedText,
		Confidence:          clamp01(resp.ResponseData.Match),
	}, nil
}

// Alternatives returns the memory matches for the original text that differ
// from the previous translation, best match first.
func (s *MyMemoryService) Alternatives(ctx context.Context, prev *TranslationResult, dest, source string) ([]*TranslationResult, error) {
	resp, err := s.get(ctx, prev.Source, dest, source)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{prev.Translation: true}
	var results []*TranslationResult
	for _, m := range resp.Matches {
		t := strings.TrimSpace(m.Translation)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		results = append(results, &TranslationResult{
			SourceLanguage:      prev.SourceLanguage,
			DestinationLanguage: prev.DestinationLanguage,
			Translation:         t,
			Confidence:          clamp01(m.Match),
		})
	}
	return results, nil
}

func (s *MyMemoryService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{
		"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh",
		"ar", "nl", "pl", "tr", "sv", "da", "no", "fi", "el", "he",
		"th", "vi", "id", "ms", "cs", "hu", "ro", "uk", "bg", "ca",
	}, nil
}

func clamp01(f float64) float64 {
	return min(max(f, 0), 1)
}
