package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/valpere/polytran/internal/language"
)

// functionInvoker is the part of the Lambda client the service uses.
type functionInvoker interface {
	Invoke(ctx context.Context, in *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// Language groups served by the opus-mt models.
var (
	romanceLanguages = map[string]bool{
		"es": true, "fr": true, "it": true, "pt": true, "ca": true, "ro": true,
		"gl": true, "la": true, "oc": true, "co": true, "rm": true, "sc": true,
		"wa": true, "an": true,
	}
	marianLanguages = func() map[string]bool {
		all := map[string]bool{"en": true, "de": true}
		for code := range romanceLanguages {
			all[code] = true
		}
		return all
	}()
)

const defaultFunctionPrefix = "polytran-translator"

// MarianService translates with opus-mt models deployed as Lambda functions,
// one function per model. Pairs not involving English pivot through it.
type MarianService struct {
	Unsupported

	prefix string
	client functionInvoker
}

func NewMarianService(ctx context.Context, cfg ServiceConfig) (*MarianService, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	prefix := cfg.FunctionPrefix
	if prefix == "" {
		prefix = defaultFunctionPrefix
	}
	return &MarianService{prefix: prefix, client: lambda.NewFromConfig(awsCfg)}, nil
}

func (s *MarianService) Name() string {
	return "marian"
}

type marianRequest struct {
	Chunks     [][]string `json:"chunks"`
	TargetLang string     `json:"target_lang,omitempty"`
}

type marianResponse struct {
	Translations [][]string `json:"translations"`
	Error        string     `json:"error,omitempty"`
}

// hop is one model invocation. target is set only for the multi-target
// en-romance model.
type hop struct {
	model  string
	target string
}

// route returns the model chain translating source into dest, or nil.
func route(source, dest string) []hop {
	toEnglish := func(code string) (hop, bool) {
		switch {
		case code == "de":
			return hop{model: "de-en"}, true
		case romanceLanguages[code]:
			return hop{model: "romance-en"}, true
		}
		return hop{}, false
	}
	fromEnglish := func(code string) (hop, bool) {
		switch {
		case code == "de":
			return hop{model: "en-de"}, true
		case romanceLanguages[code]:
			return hop{model: "en-romance", target: code}, true
		}
		return hop{}, false
	}

	switch {
	case source == dest:
		return nil
	case source == "en":
		if h, ok := fromEnglish(dest); ok {
			return []hop{h}
		}
	case dest == "en":
		if h, ok := toEnglish(source); ok {
			return []hop{h}
		}
	default:
		in, okIn := toEnglish(source)
		out, okOut := fromEnglish(dest)
		if okIn && okOut {
			return []hop{in, out}
		}
	}
	return nil
}

func (s *MarianService) Translate(ctx context.Context, text, dest, source string) (*TranslationResult, error) {
	if source == "" || source == language.AutoCode {
		return nil, fmt.Errorf("opus-mt models need an explicit source language: %w", ErrUnsupportedLanguage)
	}
	hops := route(source, dest)
	if hops == nil {
		return nil, fmt.Errorf("pair %s-%s: %w", source, dest, ErrUnsupportedLanguage)
	}

	current := text
	for i, h := range hops {
		out, err := s.invoke(ctx, h, current)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s) failed: %w", i+1, h.model, err)
		}
		current = out
	}

	models := make([]string, len(hops))
	for i, h := range hops {
		models[i] = h.model
	}
	return &TranslationResult{
		SourceLanguage:      language.FromCode(source),
		DestinationLanguage: language.FromCode(dest),
		Translation:         current,
		Confidence:          0.8,
		Metadata:            map[string]string{"models": fmt.Sprint(models)},
	}, nil
}

func (s *MarianService) invoke(ctx context.Context, h hop, text string) (string, error) {
	payload, err := json.Marshal(marianRequest{Chunks: [][]string{{text}}, TargetLang: h.target})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	functionName := s.prefix + "-" + h.model
	result, err := s.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: &functionName,
		Payload:      payload,
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke %s: %w", functionName, err)
	}
	if result.FunctionError != nil {
		return "", fmt.Errorf("lambda error: %s", *result.FunctionError)
	}

	var resp marianResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("translator error: %s", resp.Error)
	}
	if len(resp.Translations) == 0 || len(resp.Translations[0]) == 0 {
		return "", ErrNoResult
	}
	return resp.Translations[0][0], nil
}

func (s *MarianService) SupportedLanguages(ctx context.Context) ([]string, error) {
	codes := make([]string, 0, len(marianLanguages))
	for code := range marianLanguages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}
