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
	"fmt"

	"dealdesk/platform/shared/logger"
)

// Fixed router responses.
const (
	// NoAgentMessage is returned when classification yields NoAgent.
	NoAgentMessage = "I'm sorry, I don't have a specialized agent to handle this type of request. Please try asking about finding people or professionals."

	// LowConfidenceMessage is returned when the chosen agent's confidence
	// does not clear the threshold.
	LowConfidenceMessage = "No suitable agent found for this query (confidence too low)."
)

// ConfidenceThreshold is the hard dispatch cutoff. The comparison is
// exclusive: a confidence of exactly 0.3 is rejected.
const ConfidenceThreshold = 0.3

// RouteResult is the router's answer. Response is the agent's reply (a
// string or a decoded JSON list) or one of the fixed messages; TokenCost is
// the per-agent charge for the dispatch.
type RouteResult struct {
	Response  interface{} `json:"response"`
	TokenCost int         `json:"token_cost"`
}

// Router classifies queries and dispatches them to remote agents.
type Router struct {
	catalog    []AgentEntry
	classifier Classifier
	ask        askFunc
	log        *logger.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithClassifier overrides the default heuristic classifier.
func WithClassifier(c Classifier) RouterOption {
	return func(r *Router) {
		r.classifier = c
	}
}

// WithCatalog overrides the default agent catalog.
func WithCatalog(catalog []AgentEntry) RouterOption {
	return func(r *Router) {
		r.catalog = catalog
	}
}

// withAskFunc overrides agent dispatch. Used by tests.
func withAskFunc(ask askFunc) RouterOption {
	return func(r *Router) {
		r.ask = ask
	}
}

// NewRouter creates a router over the default catalog with the heuristic
// classifier.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		catalog:    DefaultCatalog(),
		classifier: HeuristicClassifier{},
		ask:        askAgent,
		log:        logger.New("router"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route classifies the query, applies the confidence threshold, and
// dispatches to the chosen agent. A nil allowedAgents means the full
// catalog. Route never returns an error and never panics: every internal
// failure becomes a RouteResult carrying the error text at zero cost.
func (r *Router) Route(ctx context.Context, query string, allowedAgents []string) (result RouteResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("", "", "routing panicked", map[string]interface{}{
				"panic": fmt.Sprint(rec),
			})
			result = RouteResult{Response: fmt.Sprintf("Error in routing: %v", rec), TokenCost: 0}
		}
	}()

	network := BuildNetwork(r.catalog, allowedAgents)

	name, confidence, err := r.classifier.Classify(ctx, query, network)
	if err != nil {
		return RouteResult{Response: fmt.Sprintf("Error in routing: %v", err), TokenCost: 0}
	}

	r.log.Info("", "", "query classified", map[string]interface{}{
		"agent":      name,
		"confidence": confidence,
	})

	if name == NoAgent || name == "" {
		return RouteResult{Response: NoAgentMessage, TokenCost: 0}
	}

	if confidence <= ConfidenceThreshold {
		return RouteResult{Response: LowConfidenceMessage, TokenCost: 0}
	}

	entry, ok := network.Get(name)
	if !ok {
		return RouteResult{Response: fmt.Sprintf("Error in routing: agent %q not in network", name), TokenCost: 0}
	}

	reply, err := r.ask(ctx, entry.Endpoint, query)
	if err != nil {
		return RouteResult{Response: fmt.Sprintf("Error in routing: %v", err), TokenCost: 0}
	}

	return RouteResult{Response: reply, TokenCost: tokenCost(entry, reply)}
}

// tokenCost applies the per-agent cost rules. Only the people-search agent
// has a rule: its cost scales with the number of items when the reply is a
// list. Every other agent dispatches at zero cost.
func tokenCost(entry AgentEntry, reply interface{}) int {
	if entry.Name != AgentClado {
		return 0
	}
	if list, ok := reply.([]interface{}); ok {
		return len(list) * entry.TokenCost
	}
	return entry.TokenCost
}
