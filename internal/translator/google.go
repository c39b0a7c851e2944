package translator

import (
	"context"
	"fmt"
	"sync"

	translate "cloud.google.com/go/translate"
	xlanguage "golang.org/x/text/language"
	"google.golang.org/api/option"

	"github.com/valpere/polytran/internal/language"
)

// googleClient is the part of the Cloud Translation client the service uses.
type googleClient interface {
	Translate(ctx context.Context, inputs []string, target xlanguage.Tag, opts *translate.Options) ([]translate.Translation, error)
	DetectLanguage(ctx context.Context, inputs []string) ([][]translate.Detection, error)
	Close() error
}

// GoogleService translates and detects languages with Google Cloud
// Translation (v2). The client is created on first use and reused.
type GoogleService struct {
	Unsupported

	opts []option.ClientOption

	mu     sync.Mutex
	client googleClient
}

func NewGoogleService(cfg ServiceConfig) *GoogleService {
	var opts []option.ClientOption
	if cfg.Credentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Credentials))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	return &GoogleService{opts: opts}
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) getClient(ctx context.Context) (googleClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}
	client, err := translate.NewClient(ctx, s.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.client = client
	return client, nil
}

func (s *GoogleService) Translate(ctx context.Context, text, dest, source string) (*TranslationResult, error) {
	target, err := xlanguage.Parse(dest)
	if err != nil {
		return nil, fmt.Errorf("invalid target language: %w", err)
	}

	var opts *translate.Options
	if source != "" && source != language.AutoCode {
		src, err := xlanguage.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("invalid source language: %w", err)
		}
		opts = &translate.Options{Source: src, Format: translate.Text}
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}
	translations, err := client.Translate(ctx, []string{text}, target, opts)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}
	if len(translations) == 0 {
		return nil, ErrNoResult
	}

	t := translations[0]
	result := &TranslationResult{
		SourceLanguage:      detected(source),
		DestinationLanguage: language.FromCode(dest),
		Translation:         t.Text,
		Confidence:          1.0,
	}
	if result.SourceLanguage.IsZero() && t.Source != xlanguage.Und {
		result.SourceLanguage = language.FromCode(t.Source.String())
	}
	if t.Model != "" {
		result.Metadata = map[string]string{"model": t.Model}
	}
	return result, nil
}

func (s *GoogleService) Language(ctx context.Context, text string) (*LanguageResult, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}
	detections, err := client.DetectLanguage(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}
	if len(detections) == 0 || len(detections[0]) == 0 {
		return nil, ErrNoResult
	}

	best := detections[0][0]
	for _, d := range detections[0][1:] {
		if d.Confidence > best.Confidence {
			best = d
		}
	}
	return &LanguageResult{
		Language:   language.FromCode(best.Language.String()),
		Confidence: best.Confidence,
	}, nil
}

// Close releases the client, if one was created.
func (s *GoogleService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
