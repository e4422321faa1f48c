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
	"errors"
	"fmt"
	"os"
	"regexp"

	"dealdesk/platform/pipeline"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the root structure of the optional YAML configuration file.
type ConfigFile struct {
	Version string            `yaml:"version"`
	Server  ServerFileConfig  `yaml:"server,omitempty"`
	LLM     LLMFileConfig     `yaml:"llm,omitempty"`
	Agents  AgentsFileConfig  `yaml:"agents,omitempty"`
	Storage StorageFileConfig `yaml:"storage,omitempty"`
}

// ServerFileConfig holds the HTTP and filesystem settings.
type ServerFileConfig struct {
	Port               string `yaml:"port,omitempty"`
	UploadDir          string `yaml:"upload_dir,omitempty"`
	ReportDir          string `yaml:"report_dir,omitempty"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute,omitempty"`
}

// LLMFileConfig holds the model backend settings.
type LLMFileConfig struct {
	Provider      string `yaml:"provider,omitempty"`
	APIKey        string `yaml:"api_key,omitempty"`
	BedrockRegion string `yaml:"bedrock_region,omitempty"`
	BedrockModel  string `yaml:"bedrock_model,omitempty"`
}

// AgentsFileConfig holds the external-agent settings.
type AgentsFileConfig struct {
	External  bool              `yaml:"external,omitempty"`
	Endpoints map[string]string `yaml:"endpoints,omitempty"`
}

// StorageFileConfig holds the optional backing-store settings.
type StorageFileConfig struct {
	DatabaseURL string `yaml:"database_url,omitempty"`
	RedisURL    string `yaml:"redis_url,omitempty"`
}

// LoadFile reads and parses a YAML config file, expanding ${VAR} references
// from the environment before parsing.
func LoadFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var file ConfigFile
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &file, nil
}

// Apply overlays file values onto cfg. A field is only taken from the file
// when its environment variable is unset, so the precedence is environment,
// then file, then built-in default.
func (f *ConfigFile) Apply(cfg *Config) {
	applyString := func(envKey, fileValue string, target *string) {
		if fileValue != "" && os.Getenv(envKey) == "" {
			*target = fileValue
		}
	}

	applyString("PORT", f.Server.Port, &cfg.Port)
	applyString("UPLOAD_DIR", f.Server.UploadDir, &cfg.UploadDir)
	applyString("REPORT_DIR", f.Server.ReportDir, &cfg.ReportDir)
	if f.Server.RateLimitPerMinute > 0 && os.Getenv("RATE_LIMIT_PER_MINUTE") == "" {
		cfg.RateLimitPerMinute = f.Server.RateLimitPerMinute
	}

	applyString("LLM_PROVIDER", f.LLM.Provider, &cfg.LLMProvider)
	applyString("OPENAI_API_KEY", f.LLM.APIKey, &cfg.OpenAIAPIKey)
	applyString("BEDROCK_REGION", f.LLM.BedrockRegion, &cfg.BedrockRegion)
	applyString("BEDROCK_MODEL", f.LLM.BedrockModel, &cfg.BedrockModel)

	if f.Agents.External && os.Getenv("USE_EXTERNAL_AGENTS") == "" {
		cfg.UseExternalAgents = true
	}
	for name, endpoint := range f.Agents.Endpoints {
		role, err := pipeline.ParseRole(name)
		if err != nil || endpoint == "" {
			continue
		}
		if cfg.AgentEndpoints[role] == "" {
			cfg.AgentEndpoints[role] = endpoint
		}
	}

	applyString("DATABASE_URL", f.Storage.DatabaseURL, &cfg.DatabaseURL)
	applyString("REDIS_URL", f.Storage.RedisURL, &cfg.RedisURL)
}

// LoadWithFile builds the configuration from an optional file plus the
// environment. A missing file falls back to environment-only configuration.
func LoadWithFile(path string) (*Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}

	file, err := LoadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	file.Apply(cfg)
	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} references.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// expandEnvVars substitutes environment variable references in the config
// file content. An unset variable without a default expands to the empty
// string.
func expandEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name, fallback := groups[1], groups[2]
		if v, ok := os.LookupEnv(name); ok && v != "" {
			return v
		}
		return fallback
	})
}
