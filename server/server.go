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
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"dealdesk/platform/config"
	"dealdesk/platform/llm"
	"dealdesk/platform/pipeline"
	"dealdesk/platform/routing"
	"dealdesk/platform/shared/logger"
)

// Server is the assembled orchestrator service.
type Server struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	store    *pipeline.ReportStore
	router   *routing.Router
	limiter  *RateLimiter
	audit    *pipeline.RunAuditLogger
	registry *prometheus.Registry
	log      *logger.Logger
}

// New wires the full service from configuration: model provider, role
// proxies, pipeline, report store, query router, rate limiter, and audit
// trail.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	lg := logger.New("server")

	model, err := buildModelClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := pipeline.NewReportStore(cfg.ReportDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	catalog := pipeline.NewCatalog(cfg.AgentEndpoints)
	analyzers := make([]pipeline.Analyzer, 0, 4)
	for _, role := range pipeline.RoleOrder() {
		roleCfg, err := catalog.Config(role)
		if err != nil {
			return nil, err
		}
		opts := []pipeline.ProxyOption{}
		if cfg.UseExternalAgents {
			opts = append(opts, pipeline.WithRemoteAgent(pipeline.NewRemoteAgent(roleCfg.Endpoint)))
		}
		analyzers = append(analyzers, pipeline.NewAgentProxy(roleCfg, model, opts...))
	}

	registry := prometheus.NewRegistry()
	audit := pipeline.NewRunAuditLogger(cfg.DatabaseURL)

	pipe := pipeline.NewPipeline(analyzers, model, store,
		pipeline.WithMetrics(pipeline.NewMetrics(registry)),
		pipeline.WithAuditLogger(audit),
	)

	return &Server{
		cfg:      cfg,
		pipeline: pipe,
		store:    store,
		// The heuristic classifier is the active routing path; swap in
		// routing.NewLLMClassifier(model) via WithClassifier to route on the
		// model instead.
		router:   routing.NewRouter(),
		limiter:  NewRateLimiter(cfg.RedisURL, cfg.RateLimitPerMinute),
		audit:    audit,
		registry: registry,
		log:      lg,
	}, nil
}

// buildModelClient selects the provider from configuration. A missing OpenAI
// key yields a not-configured client rather than an error; analyses then
// degrade to the fixed not-configured text.
func buildModelClient(ctx context.Context, cfg *config.Config) (*llm.Client, error) {
	switch cfg.LLMProvider {
	case config.ProviderBedrock:
		provider, err := llm.NewBedrockProvider(cfg.BedrockRegion, cfg.BedrockModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create Bedrock provider: %w", err)
		}
		return llm.NewClient(provider), nil

	case config.ProviderOpenAI:
		config.ResolveOpenAIKey(ctx, cfg)
		if cfg.OpenAIAPIKey == "" {
			log.Printf("[Server] OPENAI_API_KEY not set, running in not-configured mode")
			return llm.NewClient(nil), nil
		}
		return llm.NewClient(llm.NewOpenAIProvider(cfg.OpenAIAPIKey, "")), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.healthHandler).Methods("GET")
	r.HandleFunc("/metrics", s.metricsHandler).Methods("GET")
	r.Handle("/prometheus", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods("GET")

	r.HandleFunc("/analyze", s.analyzeHandler).Methods("POST")
	r.HandleFunc("/reports/{filename}", s.reportHandler).Methods("GET")
	r.HandleFunc("/route", s.routeHandler).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// Run starts the HTTP server and blocks.
func (s *Server) Run() {
	defer func() {
		_ = s.limiter.Close()
		_ = s.audit.Close()
	}()

	log.Printf("DealDesk orchestrator listening on port %s", s.cfg.Port)
	log.Fatal(http.ListenAndServe(":"+s.cfg.Port, s.Handler()))
}
