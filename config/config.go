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

package config

import (
	"os"
	"strconv"

	"dealdesk/platform/pipeline"
)

// LLM provider selectors.
const (
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
)

// Config is the resolved runtime configuration of the orchestrator service.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// LLMProvider selects the model backend: "openai" or "bedrock".
	LLMProvider string

	// OpenAIAPIKey is the OpenAI credential. Empty means not configured.
	OpenAIAPIKey string

	// OpenAIKeySecretARN optionally names an AWS Secrets Manager secret to
	// resolve the OpenAI key from when no environment key is set.
	OpenAIKeySecretARN string

	// BedrockRegion is the AWS region for the Bedrock provider.
	BedrockRegion string

	// BedrockModel overrides the default Bedrock model identifier.
	BedrockModel string

	// UseExternalAgents enables external-agent mode for every role proxy.
	UseExternalAgents bool

	// AgentEndpoints holds per-role remote agent endpoint overrides.
	AgentEndpoints pipeline.EndpointOverrides

	// UploadDir is where incoming documents are written.
	UploadDir string

	// ReportDir is where completed run reports are written.
	ReportDir string

	// DatabaseURL enables the PostgreSQL run audit trail when set.
	DatabaseURL string

	// RedisURL enables request rate limiting when set.
	RedisURL string

	// RateLimitPerMinute caps analyze requests per client per minute.
	RateLimitPerMinute int
}

// Load builds the configuration from the environment, applying defaults for
// everything unset.
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "5000"),
		LLMProvider:        getEnv("LLM_PROVIDER", ProviderOpenAI),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIKeySecretARN: os.Getenv("OPENAI_API_KEY_SECRET_ARN"),
		BedrockRegion:      getEnv("BEDROCK_REGION", "us-east-1"),
		BedrockModel:       os.Getenv("BEDROCK_MODEL"),
		UseExternalAgents:  getEnvBool("USE_EXTERNAL_AGENTS", false),
		AgentEndpoints: pipeline.EndpointOverrides{
			pipeline.RoleRealEstate:        os.Getenv("REAL_ESTATE_AGENT_URL"),
			pipeline.RoleFinancialModeling: os.Getenv("FINANCIAL_AGENT_URL"),
			pipeline.RoleMarketAnalysis:    os.Getenv("MARKET_AGENT_URL"),
			pipeline.RoleLegal:             os.Getenv("LEGAL_AGENT_URL"),
		},
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		ReportDir:          getEnv("REPORT_DIR", "reports"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}
