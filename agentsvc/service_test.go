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

package agentsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dealdesk/platform/llm"
	"dealdesk/platform/pipeline"
)

type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Content: p.reply, Model: req.Model, Latency: time.Millisecond}, nil
}

func (p *stubProvider) IsHealthy() bool { return true }

func (p *stubProvider) EstimateCost(tokens int) float64 { return 0 }

func newTestService(t *testing.T, role pipeline.Role, provider llm.Provider) *Service {
	t.Helper()
	cfg, err := pipeline.NewCatalog(nil).Config(role)
	if err != nil {
		t.Fatalf("Config failed: %v", err)
	}
	return New(cfg, llm.NewClient(provider))
}

func postAnalyze(t *testing.T, svc *Service, text string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"text": text})
	req := httptest.NewRequest("POST", "/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeReturnsSegmentedReply(t *testing.T) {
	svc := newTestService(t, pipeline.RoleLegal, &stubProvider{reply: "legal analysis"})

	rec := postAnalyze(t, svc, "the deal document")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	var reply segmentedReply
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(reply.Content) != 1 {
		t.Fatalf("Expected 1 content part, got %d", len(reply.Content))
	}
	if reply.Content[0].Type != "text" || reply.Content[0].Text != "legal analysis" {
		t.Errorf("Unexpected part %+v", reply.Content[0])
	}
}

func TestAnalyzeNotConfigured(t *testing.T) {
	svc := newTestService(t, pipeline.RoleRealEstate, nil)

	rec := postAnalyze(t, svc, "the deal document")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	var reply segmentedReply
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if reply.Content[0].Text != pipeline.NotConfiguredText {
		t.Errorf("Expected not-configured text, got %q", reply.Content[0].Text)
	}
}

func TestAnalyzeModelFailureDegrades(t *testing.T) {
	svc := newTestService(t, pipeline.RoleMarketAnalysis, &stubProvider{err: errors.New("rate limited")})

	rec := postAnalyze(t, svc, "the deal document")
	if rec.Code != http.StatusOK {
		t.Fatalf("Model failure should still answer 200, got %d", rec.Code)
	}

	var reply segmentedReply
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if reply.Content[0].Text == "" {
		t.Error("Expected degraded error text in reply")
	}
}

func TestAnalyzeInvalidBody(t *testing.T) {
	svc := newTestService(t, pipeline.RoleLegal, &stubProvider{reply: "x"})

	req := httptest.NewRequest("POST", "/analyze", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", rec.Code)
	}
}

func TestHealthIdentifiesAgent(t *testing.T) {
	for _, role := range pipeline.RoleOrder() {
		svc := newTestService(t, role, &stubProvider{reply: "x"})

		rec := httptest.NewRecorder()
		svc.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200", rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if body["status"] != "healthy" {
			t.Errorf("%s status = %q", role, body["status"])
		}
		if body["agent"] != role.DisplayName() {
			t.Errorf("%s agent = %q, want %q", role, body["agent"], role.DisplayName())
		}
		if body["version"] != Version {
			t.Errorf("%s version = %q", role, body["version"])
		}
	}
}

func TestRemoteAgentRoundTrip(t *testing.T) {
	// The orchestrator's remote client must understand this service's reply.
	svc := newTestService(t, pipeline.RoleLegal, &stubProvider{reply: "remote legal analysis"})
	server := httptest.NewServer(svc.Handler())
	defer server.Close()

	remote := pipeline.NewRemoteAgent(server.URL)
	text, err := remote.Ask(context.Background(), "the deal document")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if text != "remote legal analysis" {
		t.Errorf("Round-trip text = %q", text)
	}
	if !remote.IsHealthy(context.Background()) {
		t.Error("Health round-trip failed")
	}
}
