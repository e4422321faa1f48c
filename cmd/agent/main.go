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

// Package main is the entry point for a standalone DealDesk role agent.
//
// Each agent serves one analysis specialization over HTTP; the orchestrator
// calls it in external-agent mode and falls back to direct model calls when
// it is unreachable.
//
// Usage:
//
//	./agent -role legal
//
// Environment Variables:
//
//	PORT - HTTP server port (default: per-role, 5005-5008)
//	OPENAI_API_KEY - OpenAI API key (optional; unset runs degraded)
package main

import (
	"flag"
	"log"
	"os"

	"dealdesk/platform/agentsvc"
	"dealdesk/platform/llm"
	"dealdesk/platform/pipeline"
)

func main() {
	roleName := flag.String("role", string(pipeline.RoleRealEstate), "analysis role to serve")
	flag.Parse()

	role, err := pipeline.ParseRole(*roleName)
	if err != nil {
		log.Fatalf("Invalid role: %v", err)
	}

	cfg, err := pipeline.NewCatalog(nil).Config(role)
	if err != nil {
		log.Fatalf("Failed to load role config: %v", err)
	}

	var model *llm.Client
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		model = llm.NewClient(llm.NewOpenAIProvider(apiKey, ""))
	} else {
		log.Printf("[Agent] OPENAI_API_KEY not set, running in not-configured mode")
		model = llm.NewClient(nil)
	}

	agentsvc.New(cfg, model).Run(os.Getenv("PORT"))
}
