// Copyright 2025 DealDesk
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const (
	// DefaultOpenAIBaseURL is the default OpenAI API endpoint
	DefaultOpenAIBaseURL = "https://api.openai.com"

	// DefaultOpenAIModel is the model used when none is specified
	DefaultOpenAIModel = "gpt-4o"

	// DefaultOpenAITimeout is the default HTTP timeout
	DefaultOpenAITimeout = 120 * time.Second
)

// HTTPClient is an interface for HTTP client operations (enables testing)
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// OpenAIProvider implements Provider against the OpenAI chat completions API.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  HTTPClient
	healthy bool
	mu      sync.RWMutex
}

// OpenAIOption configures an OpenAIProvider.
type OpenAIOption func(*OpenAIProvider)

// WithOpenAIBaseURL overrides the API endpoint (used for tests and proxies).
func WithOpenAIBaseURL(baseURL string) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.baseURL = baseURL
	}
}

// WithOpenAIHTTPClient overrides the HTTP client.
func WithOpenAIHTTPClient(client HTTPClient) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.client = client
	}
}

// NewOpenAIProvider creates an OpenAI provider. The model may be empty, in
// which case DefaultOpenAIModel is used.
func NewOpenAIProvider(apiKey, model string, opts ...OpenAIOption) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}

	p := &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: DefaultOpenAIBaseURL,
		model:   model,
		client:  &http.Client{Timeout: DefaultOpenAITimeout},
		healthy: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsHealthy returns whether the provider is healthy
func (p *OpenAIProvider) IsHealthy() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.healthy && p.apiKey != ""
}

func (p *OpenAIProvider) setHealthy(healthy bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.healthy = healthy
}

// EstimateCost estimates the cost for a given number of tokens
func (p *OpenAIProvider) EstimateCost(tokens int) float64 {
	return float64(tokens) * 0.00002 // $0.02 per 1K tokens
}

// Complete generates a completion for the given request
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = p.model
	}

	messages := make([]openAIMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: req.Prompt})

	apiReq := openAIRequest{
		Model:    model,
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		apiReq.MaxTokens = req.MaxTokens
	}
	if req.Temperature >= 0 {
		apiReq.Temperature = &req.Temperature
	}

	reqBody, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/v1/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.setHealthy(false)
		return nil, &CallError{
			Provider: p.Name(),
			Code:     ErrCodeUnavailable,
			Message:  err.Error(),
			Cause:    err,
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			p.setHealthy(false)
		}
		return nil, p.parseAPIError(resp.StatusCode, body)
	}

	p.setHealthy(true)

	var apiResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	content := ""
	if len(apiResp.Choices) > 0 {
		content = apiResp.Choices[0].Message.Content
	}

	return &CompletionResponse{
		Content:    content,
		Model:      model,
		TokensUsed: apiResp.Usage.TotalTokens,
		Latency:    time.Since(start),
	}, nil
}

// parseAPIError maps an OpenAI error response into a CallError
func (p *OpenAIProvider) parseAPIError(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}

	callErr := &CallError{
		Provider:   p.Name(),
		StatusCode: statusCode,
		Message:    string(body),
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		callErr.Message = errResp.Error.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized:
		callErr.Code = ErrCodeAuth
	case statusCode == http.StatusTooManyRequests:
		callErr.Code = ErrCodeRateLimit
	case statusCode >= 500:
		callErr.Code = ErrCodeServerError
	default:
		callErr.Code = ErrCodeInvalidRequest
	}
	return callErr
}

// Internal API types

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}
