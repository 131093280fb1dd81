// Package llm — Groq HTTP adapter.
// GroqProvider calls Groq's OpenAI-compatible REST API using stdlib net/http.
// Endpoints used:
//   - POST /openai/v1/chat/completions — non-streaming chat completion
//   - GET  /openai/v1/models           — health check (lists available models)
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultGroqBaseURL is Groq's public API host.
	DefaultGroqBaseURL = "https://api.groq.com"

	// DefaultGroqModel is the chat model used when none is configured.
	DefaultGroqModel = "llama-3.3-70b-versatile"

	mimeJSON          = "application/json"
	headerContentType = "Content-Type"
)

// GroqProvider implements LLMProvider against the Groq cloud API.
type GroqProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGroqProvider creates a GroqProvider with a 60s default timeout.
// The API key is required; validation happens at agent construction, not here.
func NewGroqProvider(baseURL, apiKey, model string) *GroqProvider {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	if model == "" {
		model = DefaultGroqModel
	}
	return &GroqProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ─── internal Groq JSON types (OpenAI wire format) ───────────────────────────

type groqChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqChatRequest struct {
	Model       string            `json:"model"`
	Messages    []groqChatMessage `json:"messages"`
	Temperature float32           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	Stream      bool              `json:"stream"`
}

type groqChatResponse struct {
	Choices []struct {
		Message      groqChatMessage `json:"message"`
		FinishReason string          `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// ─── LLMProvider implementation ─────────────────────────────────────────────

// ChatCompletion performs a non-streaming chat via POST /openai/v1/chat/completions.
func (p *GroqProvider) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	msgs := make([]groqChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = groqChatMessage(m)
	}

	body, err := json.Marshal(groqChatRequest{
		Model:       model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      false,
	})
	if err != nil {
		return nil, err
	}

	respBody, postErr := p.doPost(ctx, "/openai/v1/chat/completions", body)
	if postErr != nil {
		return nil, postErr
	}
	defer respBody.Close() //nolint:errcheck

	var decoded groqChatResponse
	if decodeErr := json.NewDecoder(respBody).Decode(&decoded); decodeErr != nil {
		return nil, fmt.Errorf("decode chat response: %w", decodeErr)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("groq chat: response contained no choices")
	}
	return &ChatResponse{
		Content:    decoded.Choices[0].Message.Content,
		StopReason: decoded.Choices[0].FinishReason,
		Tokens:     decoded.Usage.TotalTokens,
	}, nil
}

// ModelInfo returns static metadata for this provider/model.
func (p *GroqProvider) ModelInfo() ModelMeta {
	return ModelMeta{
		ID:        p.model,
		Provider:  "groq",
		Version:   "v1",
		MaxTokens: 32768,
	}
}

// HealthCheck calls GET /openai/v1/models — returns nil if Groq is reachable
// and the key is accepted.
func (p *GroqProvider) HealthCheck(ctx context.Context) error {
	url := p.baseURL + "/openai/v1/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("groq healthcheck: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("groq healthcheck: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("groq healthcheck: status %d", resp.StatusCode)
	}
	return nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// doPost sends an authenticated POST to baseURL+path and returns the body.
// Caller is responsible for closing the returned ReadCloser.
func (p *GroqProvider) doPost(ctx context.Context, path string, body []byte) (io.ReadCloser, error) {
	url := p.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("groq post %s: build request: %w", path, err)
	}
	req.Header.Set(headerContentType, mimeJSON)
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("groq post %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("groq post %s: status %d", path, resp.StatusCode)
	}
	return resp.Body, nil
}
