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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// OrchestratorKey is the result-bundle key for the synthesis report.
const OrchestratorKey = "orchestrator"

// reportSuffixes maps each role to its report filename suffix.
var reportSuffixes = map[Role]string{
	RoleRealEstate:        "real_estate",
	RoleFinancialModeling: "financial",
	RoleMarketAnalysis:    "market",
	RoleLegal:             "legal",
}

// NewRunID derives a run identifier from a timestamp. Concurrent-run
// collision handling is limited to the uniqueness of this identifier.
func NewRunID(t time.Time) string {
	return "report_" + t.Format("20060102_150405")
}

// ReportStore persists completed runs as plain-text files, one per report,
// keyed by run identifier.
type ReportStore struct {
	dir string
}

// NewReportStore creates the store, creating dir if needed.
func NewReportStore(dir string) (*ReportStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}
	return &ReportStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *ReportStore) Dir() string {
	return s.dir
}

// SaveRun writes all five reports of a completed run and returns the
// download path for each, keyed by report suffix plus OrchestratorKey.
// It is called only for complete runs; a failed run persists nothing.
func (s *ReportStore) SaveRun(runID string, reports map[Role]*AnalysisReport, synthesis string) (map[string]string, error) {
	paths := make(map[string]string, len(reports)+1)

	for _, role := range RoleOrder() {
		report, ok := reports[role]
		if !ok {
			return nil, fmt.Errorf("missing %s report for run %s", role, runID)
		}
		filename := fmt.Sprintf("%s_%s.txt", runID, reportSuffixes[role])
		if err := s.write(filename, report.Text); err != nil {
			return nil, err
		}
		paths[reportSuffixes[role]] = "/reports/" + filename
	}

	filename := fmt.Sprintf("%s_%s.txt", runID, OrchestratorKey)
	if err := s.write(filename, synthesis); err != nil {
		return nil, err
	}
	paths[OrchestratorKey] = "/reports/" + filename

	return paths, nil
}

func (s *ReportStore) write(filename, text string) error {
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", filename, err)
	}
	return nil
}

// Path resolves a report filename to its on-disk path. It rejects names
// that escape the store directory and reports whether the file exists.
func (s *ReportStore) Path(filename string) (string, bool) {
	if filename == "" || strings.Contains(filename, "/") || strings.Contains(filename, "\\") ||
		strings.Contains(filename, "..") {
		return "", false
	}

	path := filepath.Join(s.dir, filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}
