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
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"dealdesk/platform/loader"
	"dealdesk/platform/pipeline"
)

// maxUploadBytes caps the multipart form size of an analyze request.
const maxUploadBytes = 16 << 20 // 16 MB

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// healthHandler is the service liveness probe.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// analyzeResponse is the success payload of the analyze endpoint: the five
// report texts inline plus their download paths.
type analyzeResponse struct {
	Status             string            `json:"status"`
	ReportID           string            `json:"report_id"`
	RealEstateReport   string            `json:"real_estate_report"`
	FinancialReport    string            `json:"financial_modeling_report"`
	MarketReport       string            `json:"market_analysis_report"`
	LegalReport        string            `json:"legal_report"`
	OrchestratorReport string            `json:"orchestrator_report"`
	Reports            map[string]string `json:"reports"`
}

// analyzeHandler accepts a multipart document upload, runs the full analysis
// pipeline, and returns the complete report bundle. Any run failure is a
// 500 with the error text; a missing model credential is not a failure.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	started := time.Now()

	if !s.limiter.Allow(r.Context(), clientAddr(r)) {
		writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	if !loader.Allowed(header.Filename) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("File type not allowed. Allowed types: %s",
			strings.Join(loader.SupportedExtensions(), ", ")))
		return
	}

	uploadPath, err := s.saveUpload(file, header.Filename)
	if err != nil {
		s.log.ErrorWithCode("", requestID, "failed to save upload", http.StatusInternalServerError, err, nil)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := s.pipeline.Run(r.Context(), uploadPath)
	if err != nil {
		s.log.ErrorWithCode("", requestID, "analysis run failed", http.StatusInternalServerError, err, map[string]interface{}{
			"file": header.Filename,
		})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.log.InfoWithDuration(result.RunID, requestID, "analysis request complete",
		float64(time.Since(started).Milliseconds()), map[string]interface{}{
			"file": header.Filename,
		})

	writeJSON(w, http.StatusOK, analyzeResponse{
		Status:             "success",
		ReportID:           result.RunID,
		RealEstateReport:   result.Reports[pipeline.RoleRealEstate].Text,
		FinancialReport:    result.Reports[pipeline.RoleFinancialModeling].Text,
		MarketReport:       result.Reports[pipeline.RoleMarketAnalysis].Text,
		LegalReport:        result.Reports[pipeline.RoleLegal].Text,
		OrchestratorReport: result.Synthesis,
		Reports:            result.Paths,
	})
}

// unsafeFilenameChars matches everything stripped from uploaded filenames.
var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// saveUpload writes the uploaded file under a timestamped, sanitized name.
func (s *Server) saveUpload(file io.Reader, filename string) (string, error) {
	safe := unsafeFilenameChars.ReplaceAllString(filepath.Base(filename), "_")
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(s.cfg.UploadDir, fmt.Sprintf("%s_%s", timestamp, safe))

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()

	if _, err := io.Copy(out, file); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return path, nil
}

// reportHandler serves a persisted report file as a download.
func (s *Server) reportHandler(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	path, ok := s.store.Path(filename)
	if !ok {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	http.ServeFile(w, r, path)
}

// routeRequest is the query routing payload.
type routeRequest struct {
	Query         string   `json:"query"`
	AllowedAgents []string `json:"allowed_agents,omitempty"`
}

// routeHandler dispatches a free-form query to a specialized agent. Routing
// never fails: the response is always a {response, token_cost} payload.
func (s *Server) routeHandler(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result := s.router.Route(r.Context(), req.Query, req.AllowedAgents)
	writeJSON(w, http.StatusOK, result)
}

// metricsHandler reports basic service info as JSON. The Prometheus scrape
// format lives at /prometheus.
func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":            "dealdesk-orchestrator",
		"rate_limit_enabled": s.limiter.Enabled(),
		"audit_enabled":      s.audit.Enabled(),
		"external_agents":    s.cfg.UseExternalAgents,
	})
}

// clientAddr extracts the client identity used for rate limiting.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
