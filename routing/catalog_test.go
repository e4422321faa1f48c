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
	"testing"
)

func TestBuildNetworkFullCatalog(t *testing.T) {
	network := BuildNetwork(DefaultCatalog(), nil)

	names := network.Names()
	if len(names) != 3 {
		t.Fatalf("Expected 3 agents, got %d", len(names))
	}
	for _, name := range []string{AgentClado, AgentBranding, AgentLegal} {
		if _, ok := network.Get(name); !ok {
			t.Errorf("Missing agent %q", name)
		}
	}
}

func TestBuildNetworkSkipsUnknownNames(t *testing.T) {
	network := BuildNetwork(DefaultCatalog(), []string{AgentClado, "unknown", "ghost"})

	if len(network.Names()) != 1 {
		t.Fatalf("Expected 1 agent, got %d", len(network.Names()))
	}
	if _, ok := network.Get(AgentClado); !ok {
		t.Error("Known agent missing from network")
	}
	if _, ok := network.Get("unknown"); ok {
		t.Error("Unknown name should be skipped")
	}
}

func TestBuildNetworkEmpty(t *testing.T) {
	network := BuildNetwork(DefaultCatalog(), []string{"nobody"})
	if !network.Empty() {
		t.Error("Expected empty network")
	}
}

func TestDecodeAgentReply(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"list", `["a", "b"]`},
		{"string", `"hello"`},
		{"raw", `plain body`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeAgentReply([]byte(tt.body))
			switch tt.name {
			case "list":
				list, ok := got.([]interface{})
				if !ok || len(list) != 2 {
					t.Errorf("Expected 2-item list, got %v", got)
				}
			case "string":
				if got != "hello" {
					t.Errorf("Expected unwrapped string, got %v", got)
				}
			case "raw":
				if got != "plain body" {
					t.Errorf("Expected raw body, got %v", got)
				}
			}
		})
	}
}
