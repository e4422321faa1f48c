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

package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteAgent is an HTTP client for one role's standalone agent service.
type RemoteAgent struct {
	endpoint   string
	httpClient *http.Client
}

// NewRemoteAgent creates a client for the agent service at endpoint.
func NewRemoteAgent(endpoint string) *RemoteAgent {
	return &RemoteAgent{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			// Role analyses can take a while on large documents
			Timeout: 120 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// analyzeRequest is the wire format of the agent service's analyze call.
type analyzeRequest struct {
	Text string `json:"text"`
}

// Ask sends the document text to the remote agent's analyze endpoint and
// coerces the reply to plain text.
func (a *RemoteAgent) Ask(ctx context.Context, documentText string) (string, error) {
	reqBody, err := json.Marshal(analyzeRequest{Text: documentText})
	if err != nil {
		return "", fmt.Errorf("failed to marshal agent request: %w", err)
	}

	url := a.endpoint + "/analyze"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("agent request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read agent response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("agent returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return coerceReply(respBody), nil
}

// IsHealthy checks the remote agent's liveness probe.
func (a *RemoteAgent) IsHealthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", a.endpoint+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	return resp.StatusCode == http.StatusOK
}

// Reply variants. Remote agents answer in one of three shapes:
//
//	PlainText: "the analysis"
//	Segmented: {"content": [{"type": "text", "text": "A"}, ...]}  -> joined by newline
//	Nested:    {"content": {"text": "the analysis"}}
//
// Anything else falls back to the raw body string.

type segmentedReply struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type nestedReply struct {
	Content struct {
		Text string `json:"text"`
	} `json:"content"`
}

// coerceReply converts a remote agent reply body to plain text, trying each
// variant in order.
func coerceReply(body []byte) string {
	var plain string
	if err := json.Unmarshal(body, &plain); err == nil {
		return plain
	}

	var segmented segmentedReply
	if err := json.Unmarshal(body, &segmented); err == nil && len(segmented.Content) > 0 {
		parts := make([]string, 0, len(segmented.Content))
		for _, item := range segmented.Content {
			if item.Text != "" {
				parts = append(parts, item.Text)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n")
		}
	}

	var nested nestedReply
	if err := json.Unmarshal(body, &nested); err == nil && nested.Content.Text != "" {
		return nested.Content.Text
	}

	return string(body)
}
