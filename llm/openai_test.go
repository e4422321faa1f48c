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
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHTTPClient implements HTTPClient for testing
type mockHTTPClient struct {
	response *http.Response
	err      error
	lastReq  *http.Request
	lastBody []byte
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.lastReq = req
	if req.Body != nil {
		m.lastBody, _ = io.ReadAll(req.Body)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestOpenAIComplete(t *testing.T) {
	mock := &mockHTTPClient{
		response: jsonResponse(200, `{
			"choices": [{"message": {"content": "Analysis of the deal."}}],
			"usage": {"total_tokens": 42}
		}`),
	}
	p := NewOpenAIProvider("test-key", "", WithOpenAIHTTPClient(mock))

	resp, err := p.Complete(context.Background(), CompletionRequest{
		SystemPrompt: "You are an analyst.",
		Prompt:       "Analyze this deal.",
		Temperature:  0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "Analysis of the deal.", resp.Content)
	assert.Equal(t, 42, resp.TokensUsed)
	assert.Equal(t, DefaultOpenAIModel, resp.Model)

	// Request shape: system message first, then user message
	require.NotNil(t, mock.lastReq)
	assert.Equal(t, "Bearer test-key", mock.lastReq.Header.Get("Authorization"))

	var sent openAIRequest
	require.NoError(t, json.Unmarshal(mock.lastBody, &sent))
	require.Len(t, sent.Messages, 2)
	assert.Equal(t, "system", sent.Messages[0].Role)
	assert.Equal(t, "You are an analyst.", sent.Messages[0].Content)
	assert.Equal(t, "user", sent.Messages[1].Role)
}

func TestOpenAICompleteNoSystemPrompt(t *testing.T) {
	mock := &mockHTTPClient{
		response: jsonResponse(200, `{"choices":[{"message":{"content":"ok"}}],"usage":{"total_tokens":1}}`),
	}
	p := NewOpenAIProvider("test-key", "gpt-4o-mini", WithOpenAIHTTPClient(mock))

	_, err := p.Complete(context.Background(), CompletionRequest{Prompt: "route this"})
	require.NoError(t, err)

	var sent openAIRequest
	require.NoError(t, json.Unmarshal(mock.lastBody, &sent))
	require.Len(t, sent.Messages, 1)
	assert.Equal(t, "user", sent.Messages[0].Role)
	assert.Equal(t, "gpt-4o-mini", sent.Model)
}

func TestOpenAIErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantCode   string
		wantStatus int
	}{
		{
			name:       "auth failure",
			status:     401,
			body:       `{"error":{"type":"invalid_request_error","message":"Incorrect API key"}}`,
			wantCode:   ErrCodeAuth,
			wantStatus: 401,
		},
		{
			name:       "rate limited",
			status:     429,
			body:       `{"error":{"type":"rate_limit_error","message":"Rate limit reached"}}`,
			wantCode:   ErrCodeRateLimit,
			wantStatus: 429,
		},
		{
			name:       "server error",
			status:     500,
			body:       `{"error":{"type":"server_error","message":"overloaded"}}`,
			wantCode:   ErrCodeServerError,
			wantStatus: 500,
		},
		{
			name:       "bad request with unparseable body",
			status:     400,
			body:       `not json`,
			wantCode:   ErrCodeInvalidRequest,
			wantStatus: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockHTTPClient{response: jsonResponse(tt.status, tt.body)}
			p := NewOpenAIProvider("test-key", "", WithOpenAIHTTPClient(mock))

			_, err := p.Complete(context.Background(), CompletionRequest{Prompt: "x"})
			var callErr *CallError
			require.True(t, errors.As(err, &callErr), "expected CallError, got %v", err)
			assert.Equal(t, tt.wantCode, callErr.Code)
			assert.Equal(t, tt.wantStatus, callErr.StatusCode)
		})
	}
}

func TestOpenAINetworkFailure(t *testing.T) {
	mock := &mockHTTPClient{err: errors.New("connection refused")}
	p := NewOpenAIProvider("test-key", "", WithOpenAIHTTPClient(mock))

	_, err := p.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	var callErr *CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, ErrCodeUnavailable, callErr.Code)
	assert.False(t, p.IsHealthy(), "provider should be marked unhealthy after network failure")
}

func TestOpenAIHealth(t *testing.T) {
	p := NewOpenAIProvider("", "")
	assert.False(t, p.IsHealthy(), "provider without API key should not report healthy")

	p = NewOpenAIProvider("key", "")
	assert.True(t, p.IsHealthy())
}
