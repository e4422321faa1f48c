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

/*
Package pipeline implements the DealDesk multi-agent investment analysis
pipeline.

# Overview

A run processes one uploaded deal document through four role-specialized
analyses (real estate fundamentals, financial modeling, market analysis,
legal review) in a fixed order, then synthesizes the four reports plus the
original document into a final recommendation. Runs are all-or-nothing: a
failed role analysis aborts the run and nothing is persisted.

# Agent proxies

Each role is served by an AgentProxy holding an ordered list of strategies.
In external-agent mode the proxy first asks the role's remote agent service
and coerces its reply to plain text; any failure there degrades silently to
a direct model call with the role's system instruction. The direct call is
the reliability floor: its failure is fatal for the run.

# Persistence

Completed runs write one plain-text report file per role plus the synthesis
report, keyed by a timestamp-derived run identifier. An optional Postgres
audit logger records run outcomes.
*/
package pipeline
