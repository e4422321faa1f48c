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
	"strings"
	"time"

	"dealdesk/platform/llm"
	"dealdesk/platform/loader"
	"dealdesk/platform/shared/logger"
)

// RunResult is the complete output of one successful run: every role report,
// the synthesis, and the download path of each persisted file. A failed run
// produces no RunResult and no files.
type RunResult struct {
	// RunID is the timestamp-derived run identifier.
	RunID string `json:"run_id"`

	// SourceFile is the path of the analyzed document.
	SourceFile string `json:"source_file"`

	// Reports holds the four role reports.
	Reports map[Role]*AnalysisReport `json:"-"`

	// Synthesis is the final investment recommendation.
	Synthesis string `json:"synthesis"`

	// Paths maps report suffixes (plus OrchestratorKey) to download paths.
	Paths map[string]string `json:"reports"`
}

// Pipeline runs the full analysis sequence for one document: extract text,
// invoke each role analyzer exactly once in the fixed order, synthesize, and
// persist. All-or-nothing: any stage failure aborts the run with nothing
// written.
type Pipeline struct {
	processor *loader.Processor
	analyzers []Analyzer
	model     *llm.Client
	store     *ReportStore
	metrics   *Metrics
	audit     *RunAuditLogger
	log       *logger.Logger
	now       func() time.Time
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithMetrics attaches run metrics.
func WithMetrics(m *Metrics) PipelineOption {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithAuditLogger attaches the run audit trail.
func WithAuditLogger(a *RunAuditLogger) PipelineOption {
	return func(p *Pipeline) {
		p.audit = a
	}
}

// WithPipelineLogger overrides the pipeline's logger.
func WithPipelineLogger(log *logger.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.log = log
	}
}

// withClock overrides run-ID timestamping. Used by tests.
func withClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline assembles the orchestrator. Analyzers must be given in
// execution order; model drives the synthesis call.
func NewPipeline(analyzers []Analyzer, model *llm.Client, store *ReportStore, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		processor: loader.NewProcessor(),
		analyzers: analyzers,
		model:     model,
		store:     store,
		log:       logger.New("pipeline"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full pipeline for the document at filePath. The returned
// error is always a *PipelineError; its Stage names where the run stopped.
func (p *Pipeline) Run(ctx context.Context, filePath string) (*RunResult, error) {
	runID := NewRunID(p.now())
	started := time.Now()

	p.log.Info(runID, "", "starting analysis run", map[string]interface{}{
		"file": filePath,
	})

	doc, err := p.loadStage(filePath)
	if err != nil {
		return nil, p.abort(ctx, runID, filePath, "load", started, err)
	}

	reports := make(map[Role]*AnalysisReport, len(p.analyzers))
	for _, analyzer := range p.analyzers {
		role := analyzer.Role()
		stageStart := time.Now()

		report, err := analyzer.Analyze(ctx, doc.Text)
		if err != nil {
			return nil, p.abort(ctx, runID, filePath, role.String(), started, err)
		}

		reports[role] = report
		p.metrics.ObserveStage(role.String(), time.Since(stageStart))
		p.log.InfoWithDuration(runID, "", "role analysis complete",
			float64(time.Since(stageStart).Milliseconds()), map[string]interface{}{
				"role": role.String(),
				"mode": string(report.Mode),
			})
	}

	synthesisStart := time.Now()
	synthesis, err := p.synthesize(ctx, doc.Text, reports)
	if err != nil {
		return nil, p.abort(ctx, runID, filePath, "synthesis", started, err)
	}
	p.metrics.ObserveStage("synthesis", time.Since(synthesisStart))

	persistStart := time.Now()
	paths, err := p.store.SaveRun(runID, reports, synthesis)
	if err != nil {
		return nil, p.abort(ctx, runID, filePath, "persist", started, err)
	}
	p.metrics.ObserveStage("persist", time.Since(persistStart))

	p.metrics.RunCompleted()
	p.recordAudit(ctx, RunAuditEntry{
		RunID:      runID,
		SourceFile: filePath,
		Status:     "completed",
		DurationMS: time.Since(started).Milliseconds(),
	})
	p.log.InfoWithDuration(runID, "", "analysis run complete",
		float64(time.Since(started).Milliseconds()), map[string]interface{}{
			"reports": len(paths),
		})

	return &RunResult{
		RunID:      runID,
		SourceFile: filePath,
		Reports:    reports,
		Synthesis:  synthesis,
		Paths:      paths,
	}, nil
}

// loadStage extracts the document text. An extraction that yields only
// whitespace counts as empty and aborts the run.
func (p *Pipeline) loadStage(filePath string) (*loader.Document, error) {
	doc, err := p.processor.Process(filePath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Text) == "" {
		return nil, ErrEmptyDocument
	}
	return doc, nil
}

// synthesize produces the final recommendation. Synthesis is always a direct
// model call; a missing credential degrades to the fixed not-configured text
// like any role report.
func (p *Pipeline) synthesize(ctx context.Context, documentText string, reports map[Role]*AnalysisReport) (string, error) {
	text, err := p.model.Generate(ctx, orchestratorSystemPrompt, buildSynthesisPrompt(documentText, reports))
	if errors.Is(err, llm.ErrNotConfigured) {
		return NotConfiguredText, nil
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

// abort finalizes a failed run: metrics, audit, log, and the wrapped error.
func (p *Pipeline) abort(ctx context.Context, runID, filePath, stage string, started time.Time, cause error) error {
	p.metrics.RunFailed()
	p.recordAudit(ctx, RunAuditEntry{
		RunID:        runID,
		SourceFile:   filePath,
		Status:       "failed",
		Stage:        stage,
		ErrorMessage: cause.Error(),
		DurationMS:   time.Since(started).Milliseconds(),
	})
	p.log.Error(runID, "", "analysis run aborted", map[string]interface{}{
		"stage": stage,
		"error": cause.Error(),
	})
	return &PipelineError{RunID: runID, Stage: stage, Cause: cause}
}

func (p *Pipeline) recordAudit(ctx context.Context, entry RunAuditEntry) {
	if err := p.audit.Record(ctx, entry); err != nil {
		p.log.Warn(entry.RunID, "", "failed to record audit entry", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
