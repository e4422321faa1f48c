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
	"errors"
	"fmt"
)

// ErrEmptyDocument indicates extraction produced no text for the run.
var ErrEmptyDocument = errors.New("empty document")

// AgentCallError indicates a role's analysis could not be produced after
// exhausting every strategy. It aborts the run it occurs in.
type AgentCallError struct {
	// Role is the specialization whose analysis failed.
	Role Role

	// Cause is the final strategy's failure.
	Cause error
}

// Error implements the error interface.
func (e *AgentCallError) Error() string {
	return fmt.Sprintf("%s analysis failed: %v", e.Role, e.Cause)
}

// Unwrap returns the underlying error.
func (e *AgentCallError) Unwrap() error {
	return e.Cause
}

// PipelineError is the run-level failure: an empty document, a propagated
// AgentCallError, or a synthesis failure.
type PipelineError struct {
	// RunID identifies the aborted run, when one was assigned.
	RunID string

	// Stage names the pipeline stage that failed ("load", a role name, or
	// "synthesis").
	Stage string

	// Cause is the underlying failure.
	Cause error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("pipeline %s stage failed: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("pipeline failed: %v", e.Cause)
}

// Unwrap returns the underlying error.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}
