package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

var DefaultOllamaModels = []string{
	"llama3.2",
	"gemma2:2b",
	"qwen2.5:3b",
	"mistral:7b",
	"phi4:14b",
}

// OllamaService runs every text operation on a local Ollama server.
type OllamaService struct {
	promptOps

	baseURL string
	models  []string
	client  *http.Client
}

func NewOllamaService(cfg ServiceConfig) *OllamaService {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	models := cfg.Models
	if len(models) == 0 {
		models = DefaultOllamaModels
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	s := &OllamaService{
		baseURL: baseURL,
		models:  models,
		client:  &http.Client{Timeout: timeout},
	}
	s.llm = s
	return s
}

func (s *OllamaService) Name() string {
	return "ollama"
}

func (s *OllamaService) getRandomModel() string {
	if len(s.models) == 0 {
		return "llama3.2"
	}
	return s.models[rand.Intn(len(s.models))]
}

func (s *OllamaService) complete(ctx context.Context, system, user string) (completion, error) {
	model := s.getRandomModel()

	jsonData, err := json.Marshal(map[string]any{
		"model":  model,
		"system": system,
		"prompt": user,
		"stream": false,
	})
	if err != nil {
		return completion{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return completion{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return completion{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return completion{}, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var ollamaResp struct {
		Response        string `json:"response"`
		PromptEvalCount int    `json:"prompt_eval_count"`
		EvalCount       int    `json:"eval_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return completion{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return completion{
		Text:  ollamaResp.Response,
		Model: model,
		Meta: map[string]string{
			"prompt_tokens":     fmt.Sprint(ollamaResp.PromptEvalCount),
			"completion_tokens": fmt.Sprint(ollamaResp.EvalCount),
		},
	}, nil
}

func (s *OllamaService) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("Ollama not available: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Ollama returned status %d", resp.StatusCode)
	}
	return nil
}
