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

// Package main is the entry point for the DealDesk orchestrator service.
//
// The orchestrator runs the full investment-deal analysis pipeline:
// - Extracts text from uploaded deal documents (txt, md, pdf, doc, docx)
// - Fans the document out to four specialized analyses (real estate,
//   financial modeling, market analysis, legal)
// - Synthesizes the analyses into a final investment recommendation
// - Routes free-form queries to named remote agents
//
// Usage:
//
//	./server
//
// Environment Variables:
//
//	PORT - HTTP server port (default: 5000)
//	OPENAI_API_KEY - OpenAI API key (optional; unset runs degraded)
//	OPENAI_API_KEY_SECRET_ARN - Secrets Manager ARN for the key (optional)
//	LLM_PROVIDER - "openai" or "bedrock" (default: openai)
//	BEDROCK_REGION - AWS Bedrock region (default: us-east-1)
//	USE_EXTERNAL_AGENTS - enable remote role agents (default: false)
//	DEALDESK_CONFIG - path to a YAML config file (optional)
//	DATABASE_URL - PostgreSQL connection string for run auditing (optional)
//	REDIS_URL - Redis connection string for rate limiting (optional)
package main

import (
	"context"
	"log"
	"os"

	"dealdesk/platform/config"
	"dealdesk/platform/server"
)

func main() {
	cfg, err := config.LoadWithFile(os.Getenv("DEALDESK_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	srv, err := server.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	srv.Run()
}
