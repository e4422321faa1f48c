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

package routing

import (
	"context"
	"strings"

	"dealdesk/platform/llm"
)

// Classifier chooses an agent for a query. It returns the agent name (or
// NoAgent) and a confidence in [0,1]. Only agents in the network may be
// chosen.
type Classifier interface {
	Classify(ctx context.Context, query string, network *AgentNetwork) (name string, confidence float64, err error)
}

// ClassifierModel is the model used for LLM-based classification. Routing is
// a short single-token-style decision, so it runs on the small model tier.
const ClassifierModel = "gpt-4o-mini"

// routingInstruction is the fixed system instruction for the LLM classifier.
const routingInstruction = `You are a hyper-efficient, logical AI task router. Your sole purpose is to analyze a user's query and determine the most suitable specialized agent to handle the request. You must choose from the following agents, each with a specific function:

AGENT LIST:
- clado: Specializes in searching for individuals, professionals, or candidates based on specific criteria like skills, experience, or job suitability. Use for any queries about finding people, professionals, or candidates.
- branding agent: Specializes in branding, marketing, logo design, brand strategy, and visual identity. Use for any queries about branding, marketing, design, or business identity.
- legal agent: Specializes in legal advice, contract review, legal documents, and legal consultation. Use for any queries about legal matters, contracts, or legal services.

INSTRUCTIONS:
1. Analyze the user's query to understand its primary intent.
2. Match the intent to the agent whose specialization is the best fit.
3. Your response MUST be ONLY the exact agent name from the AGENT LIST (e.g., ` + "`clado`, `branding agent`, `legal agent`" + `).
4. DO NOT provide any explanation, justification, or conversational text.
5. If the query is ambiguous or does not fit any agent's function, respond with ` + "`NO_AGENT`" + `.

EXAMPLES:
Query: 'Find me a UI/UX designer with experience in Figma.'
Response: clado

Query: 'Design a logo for my startup.'
Response: branding agent

Query: 'Review this contract for me.'
Response: legal agent

Query: 'What is the weather like today?'
Response: NO_AGENT

Query: 'Tell me a joke.'
Response: NO_AGENT

Query: 'Find someone who went to Georgia State.'
Response: clado

Query: 'Create a brand strategy for my company.'
Response: branding agent

Query: 'I need legal advice about employment law.'
Response: legal agent`

// agentKeywords drives the heuristic classifier. Each hit on a query raises
// that agent's score.
var agentKeywords = map[string][]string{
	AgentClado: {
		"find", "people", "person", "professional", "professionals", "candidate",
		"candidates", "recruit", "hire", "someone", "designer", "engineer", "expert",
	},
	AgentBranding: {
		"brand", "branding", "logo", "marketing", "identity", "visual",
		"design", "strategy", "startup",
	},
	AgentLegal: {
		"legal", "law", "lawyer", "contract", "contracts", "compliance",
		"agreement", "regulation", "litigation",
	},
}

// HeuristicClassifier scores queries by keyword overlap. It is the
// classifier actually used by the router; the LLM classifier is kept as a
// drop-in alternative.
type HeuristicClassifier struct{}

// Classify picks the network agent with the highest keyword score.
// Confidence grows with the hit count and caps at 1.0; no hits means NoAgent
// at zero confidence.
func (HeuristicClassifier) Classify(ctx context.Context, query string, network *AgentNetwork) (string, float64, error) {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return NoAgent, 0, nil
	}

	present := make(map[string]bool, len(words))
	for _, w := range words {
		present[strings.Trim(w, ".,!?:;\"'()")] = true
	}

	best := NoAgent
	bestHits := 0
	for _, name := range network.Names() {
		hits := 0
		for _, kw := range agentKeywords[name] {
			if present[kw] {
				hits++
			}
		}
		if hits > bestHits {
			best = name
			bestHits = hits
		}
	}

	if bestHits == 0 {
		return NoAgent, 0, nil
	}

	confidence := 0.35 * float64(bestHits)
	if confidence > 1.0 {
		confidence = 1.0
	}
	return best, confidence, nil
}

// LLMClassifier asks the model to name the agent, using the fixed routing
// instruction. An answer outside the network is treated as NoAgent.
type LLMClassifier struct {
	model *llm.Client
}

// NewLLMClassifier creates the model-backed classifier.
func NewLLMClassifier(model *llm.Client) *LLMClassifier {
	return &LLMClassifier{model: model}
}

// Classify sends the query to the classifier model. Model answers carry no
// calibrated confidence, so a valid agent name is reported at full
// confidence.
func (c *LLMClassifier) Classify(ctx context.Context, query string, network *AgentNetwork) (string, float64, error) {
	reply, err := c.model.GenerateWithModel(ctx, ClassifierModel, routingInstruction, query)
	if err != nil {
		return NoAgent, 0, err
	}

	name := strings.Trim(strings.TrimSpace(reply), "`")
	if name == NoAgent {
		return NoAgent, 0, nil
	}
	if _, ok := network.Get(name); !ok {
		return NoAgent, 0, nil
	}
	return name, 1.0, nil
}
