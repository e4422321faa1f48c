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

// Package agentsvc runs one role's analysis as a standalone HTTP service.
//
// Each role agent exposes an analyze endpoint answering in the segmented
// reply shape the orchestrator's remote client understands, plus a health
// probe identifying the agent. The orchestrator talks to these services in
// external-agent mode and falls back to direct model calls when they are
// unreachable.
package agentsvc
