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

// Package routing dispatches free-form user queries to named remote agents.
//
// It is an entry point independent of the analysis pipeline: a query is
// classified against a fixed catalog of specialized agents, checked against a
// confidence threshold, and either forwarded to the chosen agent or answered
// with a no-agent result. Routing never returns an error to its caller —
// every internal failure is converted into a normal response payload.
package routing
