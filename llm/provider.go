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
	"context"
)

// Provider is the interface implemented by all text-generation backends.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Name returns the provider identifier used in logging and errors.
	Name() string

	// Complete generates a completion for the given request.
	// The context should be used for cancellation and timeout.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsHealthy reports whether the provider is believed operational.
	IsHealthy() bool

	// EstimateCost estimates the cost in USD for a given number of tokens.
	EstimateCost(tokens int) float64
}

// Client wraps a single Provider as an explicit capability object. The zero
// value (or NewClient(nil)) is the "not configured" state: Generate returns
// ErrNotConfigured without attempting a call.
type Client struct {
	provider Provider
}

// NewClient creates a Client backed by the given provider. A nil provider
// yields a not-configured client.
func NewClient(provider Provider) *Client {
	return &Client{provider: provider}
}

// Configured reports whether a provider is available.
func (c *Client) Configured() bool {
	return c != nil && c.provider != nil
}

// Provider returns the wrapped provider, or nil when not configured.
func (c *Client) Provider() Provider {
	if c == nil {
		return nil
	}
	return c.provider
}

// Generate invokes the provider with a (system instruction, user message)
// pair and returns the generated text verbatim. It validates that both
// arguments are non-empty but performs no structural validation of content,
// no retries, and no post-processing.
func (c *Client) Generate(ctx context.Context, systemInstruction, userMessage string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if systemInstruction == "" || userMessage == "" {
		return "", NewCallError(c.provider.Name(), ErrCodeInvalidRequest, "system instruction and user message must be non-empty")
	}

	resp, err := c.provider.Complete(ctx, CompletionRequest{
		SystemPrompt: systemInstruction,
		Prompt:       userMessage,
		Temperature:  defaultTemperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// GenerateWithModel is Generate with an explicit model override, for callers
// that run on a different model tier than the provider default.
func (c *Client) GenerateWithModel(ctx context.Context, model, systemInstruction, userMessage string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if systemInstruction == "" || userMessage == "" {
		return "", NewCallError(c.provider.Name(), ErrCodeInvalidRequest, "system instruction and user message must be non-empty")
	}

	resp, err := c.provider.Complete(ctx, CompletionRequest{
		SystemPrompt: systemInstruction,
		Prompt:       userMessage,
		Model:        model,
		Temperature:  defaultTemperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// defaultTemperature matches the generation settings used across the
// analysis prompts.
const defaultTemperature = 0.7
