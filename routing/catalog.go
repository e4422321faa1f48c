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
	"log"
)

// NoAgent is the classifier sentinel for "no suitable agent".
const NoAgent = "NO_AGENT"

// Agent names in the routing catalog.
const (
	AgentClado    = "clado"
	AgentBranding = "branding agent"
	AgentLegal    = "legal agent"
)

// AgentEntry describes one remote agent in the catalog: its name, network
// address, and per-unit token cost.
type AgentEntry struct {
	Name      string
	Endpoint  string
	TokenCost int
}

// DefaultCatalog returns the fixed name-to-address catalog of routable
// agents.
func DefaultCatalog() []AgentEntry {
	return []AgentEntry{
		{Name: AgentClado, Endpoint: "https://clado-test-agent.onrender.com", TokenCost: 1},
		{Name: AgentBranding, Endpoint: "https://branding-agent.onrender.com/", TokenCost: 1},
		{Name: AgentLegal, Endpoint: "https://legal-service-agent.onrender.com/", TokenCost: 1},
	}
}

// AgentNetwork is the set of agents a single routing call may dispatch to.
// Built fresh per call from the catalog and the caller's allow-list.
type AgentNetwork struct {
	agents map[string]AgentEntry
	order  []string
}

// BuildNetwork restricts the catalog to the allowed names. A nil allow-list
// means the full catalog. Unknown names are skipped with a log line, never an
// error.
func BuildNetwork(catalog []AgentEntry, allowed []string) *AgentNetwork {
	byName := make(map[string]AgentEntry, len(catalog))
	for _, entry := range catalog {
		byName[entry.Name] = entry
	}

	if allowed == nil {
		allowed = make([]string, 0, len(catalog))
		for _, entry := range catalog {
			allowed = append(allowed, entry.Name)
		}
	}

	network := &AgentNetwork{agents: make(map[string]AgentEntry, len(allowed))}
	for _, name := range allowed {
		entry, ok := byName[name]
		if !ok {
			log.Printf("[Router] Agent %q not found in catalog, skipping", name)
			continue
		}
		if _, seen := network.agents[name]; seen {
			continue
		}
		network.agents[name] = entry
		network.order = append(network.order, name)
	}
	return network
}

// Get returns the entry for name.
func (n *AgentNetwork) Get(name string) (AgentEntry, bool) {
	entry, ok := n.agents[name]
	return entry, ok
}

// Names returns the agent names in the network, in catalog order.
func (n *AgentNetwork) Names() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// Empty reports whether the network has no agents.
func (n *AgentNetwork) Empty() bool {
	return len(n.agents) == 0
}
