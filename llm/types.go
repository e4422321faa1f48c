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
	"errors"
	"fmt"
	"time"
)

// ErrNotConfigured is returned by a Client that has no provider. It marks the
// distinct "no credential configured" state; callers must not treat it as a
// transient call failure.
var ErrNotConfigured = errors.New("llm: no provider configured")

// CompletionRequest encapsulates a single generation request.
type CompletionRequest struct {
	// SystemPrompt sets the role-specific instruction for the call.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Prompt is the user message.
	Prompt string `json:"prompt"`

	// Model overrides the provider's default model.
	Model string `json:"model,omitempty"`

	// MaxTokens limits the response length. 0 uses provider defaults.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness. Negative values use provider defaults.
	Temperature float64 `json:"temperature,omitempty"`
}

// CompletionResponse contains the result of a generation call.
type CompletionResponse struct {
	// Content is the generated text, verbatim from the provider.
	Content string `json:"content"`

	// Model is the model that produced the response.
	Model string `json:"model"`

	// TokensUsed is the total token count reported by the provider.
	TokensUsed int `json:"tokens_used"`

	// Latency is the time taken to generate the response.
	Latency time.Duration `json:"latency"`
}

// Common error codes carried by CallError.
const (
	// ErrCodeAuth indicates authentication failure.
	ErrCodeAuth = "authentication_error"

	// ErrCodeRateLimit indicates rate limiting by the provider.
	ErrCodeRateLimit = "rate_limit"

	// ErrCodeInvalidRequest indicates a malformed request.
	ErrCodeInvalidRequest = "invalid_request"

	// ErrCodeServerError indicates a provider-side failure.
	ErrCodeServerError = "server_error"

	// ErrCodeUnavailable indicates the provider could not be reached.
	ErrCodeUnavailable = "unavailable"
)

// CallError represents a failed generation call. It carries the provider name
// and a machine-readable code alongside the underlying message.
type CallError struct {
	// Provider is the name of the provider that returned the error.
	Provider string `json:"provider"`

	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// StatusCode is the HTTP status code, if applicable.
	StatusCode int `json:"status_code,omitempty"`

	// Cause is the underlying error, if any.
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *CallError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error.
func (e *CallError) Unwrap() error {
	return e.Cause
}

// NewCallError creates a new CallError.
func NewCallError(provider, code, message string) *CallError {
	return &CallError{
		Provider: provider,
		Code:     code,
		Message:  message,
	}
}
