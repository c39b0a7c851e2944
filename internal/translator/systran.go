package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/valpere/polytran/internal/language"
)

const systranHost = "api-systran-systran-translation-v1.p.rapidapi.com"

var errSystranKey = errors.New("Systran API key required")

// SystranService translates through the Systran API published on RapidAPI.
type SystranService struct {
	Unsupported

	apiKey  string
	baseURL string
	client  *http.Client
}

func NewSystranService(cfg ServiceConfig) *SystranService {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://" + systranHost
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SystranService{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *SystranService) Name() string {
	return "systran"
}

func (s *SystranService) Translate(ctx context.Context, text, dest, source string) (*TranslationResult, error) {
	if s.apiKey == "" {
		return nil, errSystranKey
	}
	if source == "" {
		source = language.AutoCode
	}

	jsonData, err := json.Marshal(map[string]any{
		"text":   []string{text},
		"source": source,
		"target": dest,
		"format": "text",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/translation/text/translate", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-RapidAPI-Key", s.apiKey)
	httpReq.Header.Set("X-RapidAPI-Host", systranHost)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var systranResp struct {
		Outputs []struct {
			Output string `json:"output"`
		} `json:"outputs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&systranResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(systranResp.Outputs) == 0 || systranResp.Outputs[0].Output == "" {
		return nil, fmt.Errorf("empty translation response: %w", ErrNoResult)
	}

	return &TranslationResult{
		SourceLanguage:      detected(source),
		DestinationLanguage: language.FromCode(dest),
		Translation:         systranResp.Outputs[0].Output,
		Confidence:          1.0,
	}, nil
}

func (s *SystranService) IsAvailable(ctx context.Context) error {
	if s.apiKey == "" {
		return errSystranKey
	}
	return nil
}

func (s *SystranService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{"en", "fr", "es", "de", "it", "pt", "ru", "zh", "ja", "ko", "ar"}, nil
}
