package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

var DefaultOpenRouterModels = []string{
	"google/gemini-2.0-flash-exp:free",
	"qwen/qwen2.5-72b-instruct:free",
	"mistralai/mistral-nemo:free",
	"meta-llama/llama-3.1-8b-instruct:free",
}

var errOpenRouterKey = errors.New("OpenRouter API key required")

// OpenRouterService runs every text operation through the OpenRouter chat
// completions API.
type OpenRouterService struct {
	promptOps

	apiKey  string
	baseURL string
	models  []string
	client  *http.Client
}

func NewOpenRouterService(cfg ServiceConfig) *OpenRouterService {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	models := cfg.Models
	if len(models) == 0 {
		models = DefaultOpenRouterModels
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	s := &OpenRouterService{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		models:  models,
		client:  &http.Client{Timeout: timeout},
	}
	s.llm = s
	return s
}

func (s *OpenRouterService) Name() string {
	return "openrouter"
}

func (s *OpenRouterService) getRandomModel() string {
	if len(s.models) == 0 {
		return "google/gemini-2.0-flash-exp:free"
	}
	return s.models[rand.Intn(len(s.models))]
}

func (s *OpenRouterService) complete(ctx context.Context, system, user string) (completion, error) {
	if s.apiKey == "" {
		return completion{}, errOpenRouterKey
	}
	model := s.getRandomModel()

	jsonData, err := json.Marshal(map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"max_tokens": 4096,
	})
	if err != nil {
		return completion{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return completion{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	httpReq.Header.Set("HTTP-Referer", "https://polytran.local")
	httpReq.Header.Set("X-Title", "PolyTran")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return completion{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return completion{}, fmt.Errorf("API returned status %d: %s", resp.StatusCode, errResp.Error.Message)
	}

	var openrouterResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&openrouterResp); err != nil {
		return completion{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(openrouterResp.Choices) == 0 {
		return completion{}, fmt.Errorf("empty response from API: %w", ErrNoResult)
	}

	return completion{
		Text:  openrouterResp.Choices[0].Message.Content,
		Model: model,
		Meta: map[string]string{
			"prompt_tokens":     fmt.Sprint(openrouterResp.Usage.PromptTokens),
			"completion_tokens": fmt.Sprint(openrouterResp.Usage.CompletionTokens),
		},
	}, nil
}

func (s *OpenRouterService) IsAvailable(ctx context.Context) error {
	if s.apiKey == "" {
		return errOpenRouterKey
	}
	return nil
}
