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

package routing

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

// askFunc dispatches a query to a remote agent and returns its decoded
// reply. Extracted as a function type so the router can be tested without a
// network.
type askFunc func(ctx context.Context, endpoint, query string) (interface{}, error)

// askAgent is the production dispatcher: it POSTs the query to the agent's
// ask endpoint and decodes the reply, preserving list shape for token-cost
// accounting.
func askAgent(ctx context.Context, endpoint, query string) (interface{}, error) {
	client := &http.Client{Timeout: 60 * time.Second}

	body, err := json.Marshal(map[string]string{"text": query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	url := strings.TrimRight(endpoint, "/") + "/ask"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read agent response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return decodeAgentReply(respBody), nil
}

// decodeAgentReply keeps JSON lists as lists (their length feeds the token
// cost), unwraps JSON strings, and otherwise returns the raw body text.
func decodeAgentReply(body []byte) interface{} {
	var list []interface{}
	if err := json.Unmarshal(body, &list); err == nil {
		return list
	}

	var text string
	if err := json.Unmarshal(body, &text); err == nil {
		return text
	}

	return string(body)
}
