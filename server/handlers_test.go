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

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"dealdesk/platform/config"
	"dealdesk/platform/llm"
	"dealdesk/platform/pipeline"
	"dealdesk/platform/routing"
	"dealdesk/platform/shared/logger"
)

// echoProvider answers every completion with a fixed reply.
type echoProvider struct {
	reply string
}

func (p *echoProvider) Name() string { return "echo" }

func (p *echoProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: p.reply, Model: req.Model, Latency: time.Millisecond}, nil
}

func (p *echoProvider) IsHealthy() bool { return true }

func (p *echoProvider) EstimateCost(tokens int) float64 { return 0 }

func newTestServer(t *testing.T, provider llm.Provider) *Server {
	t.Helper()

	cfg := &config.Config{
		Port:      "0",
		UploadDir: t.TempDir(),
		ReportDir: t.TempDir(),
	}

	store, err := pipeline.NewReportStore(cfg.ReportDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	model := llm.NewClient(provider)
	catalog := pipeline.NewCatalog(nil)
	analyzers := make([]pipeline.Analyzer, 0, 4)
	for _, role := range pipeline.RoleOrder() {
		roleCfg, err := catalog.Config(role)
		if err != nil {
			t.Fatalf("Config(%s) failed: %v", role, err)
		}
		analyzers = append(analyzers, pipeline.NewAgentProxy(roleCfg, model))
	}

	registry := prometheus.NewRegistry()
	audit := pipeline.NewRunAuditLogger("")

	return &Server{
		cfg:      cfg,
		pipeline: pipeline.NewPipeline(analyzers, model, store, pipeline.WithMetrics(pipeline.NewMetrics(registry))),
		store:    store,
		router:   routing.NewRouter(),
		limiter:  NewRateLimiter("", 10),
		audit:    audit,
		registry: registry,
		log:      logger.New("server-test"),
	}
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("Failed to write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestHealthHandler(t *testing.T) {
	srv := newTestServer(t, &echoProvider{reply: "x"})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("Status field = %q, want healthy", body["status"])
	}
}

func TestAnalyzeHandler(t *testing.T) {
	srv := newTestServer(t, &echoProvider{reply: "generated analysis"})

	buf, contentType := multipartBody(t, "file", "deal.txt", "Purchase of a 40-unit apartment complex.")
	req := httptest.NewRequest("POST", "/analyze", buf)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("Status = %q", resp.Status)
	}
	if !strings.HasPrefix(resp.ReportID, "report_") {
		t.Errorf("ReportID = %q", resp.ReportID)
	}
	if resp.OrchestratorReport != "generated analysis" {
		t.Errorf("Orchestrator report = %q", resp.OrchestratorReport)
	}
	if len(resp.Reports) != 5 {
		t.Fatalf("Expected 5 report paths, got %d", len(resp.Reports))
	}

	// Each advertised path must be downloadable.
	for key, path := range resp.Reports {
		dlRec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(dlRec, httptest.NewRequest("GET", path, nil))
		if dlRec.Code != http.StatusOK {
			t.Errorf("Download of %s (%s) = %d, want 200", key, path, dlRec.Code)
		}
	}
}

func TestAnalyzeHandlerNotConfigured(t *testing.T) {
	// No provider: the run still completes with the fixed degraded text.
	srv := newTestServer(t, nil)

	buf, contentType := multipartBody(t, "file", "deal.md", "# Deal memo")
	req := httptest.NewRequest("POST", "/analyze", buf)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if resp.RealEstateReport != pipeline.NotConfiguredText {
		t.Errorf("Expected not-configured text, got %q", resp.RealEstateReport)
	}
}

func TestAnalyzeHandlerValidation(t *testing.T) {
	srv := newTestServer(t, &echoProvider{reply: "x"})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/analyze", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want 400", rec.Code)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		buf, contentType := multipartBody(t, "file", "deal.xlsx", "binary")
		req := httptest.NewRequest("POST", "/analyze", buf)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("Status = %d, want 400", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "File type not allowed") {
			t.Errorf("Unexpected body %s", rec.Body.String())
		}
	})

	t.Run("wrong field name", func(t *testing.T) {
		buf, contentType := multipartBody(t, "document", "deal.txt", "text")
		req := httptest.NewRequest("POST", "/analyze", buf)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want 400", rec.Code)
		}
	})
}

func TestReportHandlerNotFound(t *testing.T) {
	srv := newTestServer(t, &echoProvider{reply: "x"})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/reports/absent.txt", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Status = %d, want 404", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["error"] != "Report not found" {
		t.Errorf("Error = %q", body["error"])
	}
}

func TestRouteHandler(t *testing.T) {
	srv := newTestServer(t, &echoProvider{reply: "x"})

	body, _ := json.Marshal(routeRequest{Query: "what is the weather"})
	req := httptest.NewRequest("POST", "/route", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	var result routing.RouteResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if result.Response != routing.NoAgentMessage {
		t.Errorf("Response = %v", result.Response)
	}
	if result.TokenCost != 0 {
		t.Errorf("TokenCost = %d, want 0", result.TokenCost)
	}
}

func TestMetricsHandler(t *testing.T) {
	srv := newTestServer(t, &echoProvider{reply: "x"})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["service"] != "dealdesk-orchestrator" {
		t.Errorf("Service = %v", body["service"])
	}
}
