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

package pipeline

import (
	"fmt"
)

// Role identifies one of the four analytical specializations.
type Role string

const (
	// RoleRealEstate analyzes property fundamentals.
	RoleRealEstate Role = "real_estate"

	// RoleFinancialModeling performs financial modeling and valuation.
	RoleFinancialModeling Role = "financial_modeling"

	// RoleMarketAnalysis analyzes location, market trends, and comps.
	RoleMarketAnalysis Role = "market_analysis"

	// RoleLegal reviews legal structure, zoning, title, and compliance.
	RoleLegal Role = "legal"
)

// RoleOrder is the fixed execution order of the role analyses. The order is
// significant for reproducibility of the synthesis prompt; the analyses
// themselves are independent.
func RoleOrder() []Role {
	return []Role{RoleRealEstate, RoleFinancialModeling, RoleMarketAnalysis, RoleLegal}
}

// String returns the role name.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the Role is a known value.
func (r Role) IsValid() bool {
	switch r {
	case RoleRealEstate, RoleFinancialModeling, RoleMarketAnalysis, RoleLegal:
		return true
	default:
		return false
	}
}

// ParseRole converts a role name into a Role.
func ParseRole(name string) (Role, error) {
	r := Role(name)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role: %q", name)
	}
	return r, nil
}

// DisplayName returns the human-readable agent name used in health payloads.
func (r Role) DisplayName() string {
	switch r {
	case RoleRealEstate:
		return "Real Estate Analysis Agent"
	case RoleFinancialModeling:
		return "Financial Modeling Agent"
	case RoleMarketAnalysis:
		return "Market Analysis Agent"
	case RoleLegal:
		return "Legal Analysis Agent"
	default:
		return string(r)
	}
}

// RoleConfig is the immutable per-role configuration: the fixed system
// instruction, the user-message template, and the network address of the
// role's remote agent service. Built once at startup and passed explicitly
// into each AgentProxy.
type RoleConfig struct {
	// Role is the specialization this config belongs to.
	Role Role

	// SystemPrompt is the role's fixed system instruction.
	SystemPrompt string

	// UserTemplate embeds the document text into the role's instructional
	// message. It must contain exactly one %s verb.
	UserTemplate string

	// Endpoint is the remote agent service address for external-agent mode.
	Endpoint string
}

// UserMessage renders the role's instructional message for a document.
func (c RoleConfig) UserMessage(documentText string) string {
	return fmt.Sprintf(c.UserTemplate, documentText)
}

// Default remote agent endpoints. Each is independently overridable via
// configuration.
const (
	DefaultRealEstateEndpoint        = "http://localhost:5005"
	DefaultFinancialModelingEndpoint = "http://localhost:5006"
	DefaultMarketAnalysisEndpoint    = "http://localhost:5007"
	DefaultLegalEndpoint             = "http://localhost:5008"
)

// Catalog maps each role to its configuration. It is an immutable record:
// construct it once with NewCatalog and pass it by value.
type Catalog struct {
	configs map[Role]RoleConfig
}

// EndpointOverrides carries optional per-role endpoint replacements.
type EndpointOverrides map[Role]string

// NewCatalog builds the role catalog with default prompts and endpoints,
// applying any endpoint overrides.
func NewCatalog(overrides EndpointOverrides) Catalog {
	configs := map[Role]RoleConfig{
		RoleRealEstate: {
			Role:         RoleRealEstate,
			SystemPrompt: realEstateSystemPrompt,
			UserTemplate: realEstateUserTemplate,
			Endpoint:     DefaultRealEstateEndpoint,
		},
		RoleFinancialModeling: {
			Role:         RoleFinancialModeling,
			SystemPrompt: financialModelingSystemPrompt,
			UserTemplate: financialModelingUserTemplate,
			Endpoint:     DefaultFinancialModelingEndpoint,
		},
		RoleMarketAnalysis: {
			Role:         RoleMarketAnalysis,
			SystemPrompt: marketAnalysisSystemPrompt,
			UserTemplate: marketAnalysisUserTemplate,
			Endpoint:     DefaultMarketAnalysisEndpoint,
		},
		RoleLegal: {
			Role:         RoleLegal,
			SystemPrompt: legalSystemPrompt,
			UserTemplate: legalUserTemplate,
			Endpoint:     DefaultLegalEndpoint,
		},
	}

	for role, endpoint := range overrides {
		if cfg, ok := configs[role]; ok && endpoint != "" {
			cfg.Endpoint = endpoint
			configs[role] = cfg
		}
	}

	return Catalog{configs: configs}
}

// Config returns the configuration for a role.
func (c Catalog) Config(role Role) (RoleConfig, error) {
	cfg, ok := c.configs[role]
	if !ok {
		return RoleConfig{}, fmt.Errorf("no configuration for role %q", role)
	}
	return cfg, nil
}
