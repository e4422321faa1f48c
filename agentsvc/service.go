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
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"dealdesk/platform/llm"
	"dealdesk/platform/pipeline"
	"dealdesk/platform/shared/logger"
)

// Version is reported by every agent's health probe.
const Version = "1.0.0"

// DefaultPort returns the conventional listen port for a role's agent.
func DefaultPort(role pipeline.Role) string {
	switch role {
	case pipeline.RoleRealEstate:
		return "5005"
	case pipeline.RoleFinancialModeling:
		return "5006"
	case pipeline.RoleMarketAnalysis:
		return "5007"
	case pipeline.RoleLegal:
		return "5008"
	default:
		return "5005"
	}
}

// Service is one role's standalone agent.
type Service struct {
	cfg   pipeline.RoleConfig
	model *llm.Client
	log   *logger.Logger
}

// New creates the agent service for one role.
func New(cfg pipeline.RoleConfig, model *llm.Client) *Service {
	return &Service{
		cfg:   cfg,
		model: model,
		log:   logger.New("agent-" + cfg.Role.String()),
	}
}

// analyzeRequest is the wire format of the analyze call.
type analyzeRequest struct {
	Text string `json:"text"`
}

// segmentedReply is the reply shape: a list of typed text parts.
type segmentedReply struct {
	Content []textPart `json:"content"`
}

type textPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// analyzeHandler runs the role's analysis for the posted document text.
// Model failures degrade to an error-text reply rather than an HTTP error;
// the orchestrator treats any non-200 as reason to fall back, and a degraded
// text is more useful than a silent fallback here.
func (s *Service) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}

	text, err := s.model.Generate(r.Context(), s.cfg.SystemPrompt, s.cfg.UserMessage(req.Text))
	if errors.Is(err, llm.ErrNotConfigured) {
		text = pipeline.NotConfiguredText
	} else if err != nil {
		s.log.Error("", "", "analysis failed", map[string]interface{}{
			"role":  s.cfg.Role.String(),
			"error": err.Error(),
		})
		text = fmt.Sprintf("Error performing %s analysis: %v", s.cfg.Role, err)
	}

	writeJSON(w, http.StatusOK, segmentedReply{
		Content: []textPart{{Type: "text", Text: text}},
	})
}

// healthHandler identifies the agent.
func (s *Service) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"agent":   s.cfg.Role.DisplayName(),
		"version": Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Handler builds the agent's HTTP routing table.
func (s *Service) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/analyze", s.analyzeHandler).Methods("POST")
	r.HandleFunc("/health", s.healthHandler).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

// Run starts the agent's HTTP server and blocks.
func (s *Service) Run(port string) {
	if port == "" {
		port = DefaultPort(s.cfg.Role)
	}
	log.Printf("Starting %s on port %s", s.cfg.Role.DisplayName(), port)
	log.Fatal(http.ListenAndServe(":"+port, s.Handler()))
}
