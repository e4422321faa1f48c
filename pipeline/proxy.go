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
	"context"
	"errors"

	"dealdesk/platform/llm"
	"dealdesk/platform/shared/logger"
)

// AnalysisMode records how a report was produced.
type AnalysisMode string

const (
	// ModeExternalAgent means the report came from a remote agent service.
	ModeExternalAgent AnalysisMode = "external-agent"

	// ModeDirectCall means the report came from a direct model call.
	ModeDirectCall AnalysisMode = "direct-call"
)

// AnalysisReport is one role's generated analysis of one document.
// Immutable once produced.
type AnalysisReport struct {
	// Role is the specialization that produced the report.
	Role Role `json:"role"`

	// Text is the generated analysis.
	Text string `json:"text"`

	// Mode records which strategy produced the text.
	Mode AnalysisMode `json:"mode"`
}

// Analyzer produces one AnalysisReport for one document.
type Analyzer interface {
	// Role returns the specialization this analyzer serves.
	Role() Role

	// Analyze produces the role's report for the document text.
	Analyze(ctx context.Context, documentText string) (*AnalysisReport, error)
}

// remoteCaller is the subset of RemoteAgent used by the proxy (enables
// testing).
type remoteCaller interface {
	Ask(ctx context.Context, documentText string) (string, error)
}

// AgentProxy mediates between a Role and its analysis strategies. The
// strategies form an ordered list: external-agent first when configured,
// then the direct model call. Failures before the final strategy are logged
// warnings; only the final strategy's failure surfaces as AgentCallError.
type AgentProxy struct {
	cfg    RoleConfig
	model  *llm.Client
	remote remoteCaller
	log    *logger.Logger
}

// ProxyOption configures an AgentProxy.
type ProxyOption func(*AgentProxy)

// WithRemoteAgent puts the proxy in external-agent mode using the given
// remote caller. Pass NewRemoteAgent(cfg.Endpoint) for the standard client.
func WithRemoteAgent(remote remoteCaller) ProxyOption {
	return func(p *AgentProxy) {
		p.remote = remote
	}
}

// WithProxyLogger overrides the proxy's logger.
func WithProxyLogger(log *logger.Logger) ProxyOption {
	return func(p *AgentProxy) {
		p.log = log
	}
}

// NewAgentProxy creates the proxy for one role. Without WithRemoteAgent the
// proxy is direct-call only.
func NewAgentProxy(cfg RoleConfig, model *llm.Client, opts ...ProxyOption) *AgentProxy {
	p := &AgentProxy{
		cfg:   cfg,
		model: model,
		log:   logger.New("agent-proxy"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Role returns the proxy's specialization.
func (p *AgentProxy) Role() Role {
	return p.cfg.Role
}

// Analyze produces the role's report for the document text. In
// external-agent mode any remote failure degrades silently to the direct
// call; a direct-call failure is fatal and returns AgentCallError. A missing
// model credential yields the fixed not-configured text as a degraded
// success.
func (p *AgentProxy) Analyze(ctx context.Context, documentText string) (*AnalysisReport, error) {
	if p.remote != nil {
		text, err := p.remote.Ask(ctx, documentText)
		if err == nil {
			return &AnalysisReport{Role: p.cfg.Role, Text: text, Mode: ModeExternalAgent}, nil
		}
		p.log.Warn("", "", "external agent unavailable, falling back to direct call", map[string]interface{}{
			"role":     p.cfg.Role.String(),
			"endpoint": p.cfg.Endpoint,
			"error":    err.Error(),
		})
	}

	text, err := p.model.Generate(ctx, p.cfg.SystemPrompt, p.cfg.UserMessage(documentText))
	if errors.Is(err, llm.ErrNotConfigured) {
		return &AnalysisReport{Role: p.cfg.Role, Text: NotConfiguredText, Mode: ModeDirectCall}, nil
	}
	if err != nil {
		return nil, &AgentCallError{Role: p.cfg.Role, Cause: err}
	}

	return &AnalysisReport{Role: p.cfg.Role, Text: text, Mode: ModeDirectCall}, nil
}
