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

package logger

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"strings"
	"testing"
)

// TestNew tests logger initialization
func TestNew(t *testing.T) {
	tests := []struct {
		name           string
		component      string
		instanceID     string
		expectedComp   string
		expectedInstID string
	}{
		{
			name:           "with instance ID set",
			component:      "pipeline-server",
			instanceID:     "instance-123",
			expectedComp:   "pipeline-server",
			expectedInstID: "instance-123",
		},
		{
			name:           "without instance ID",
			component:      "role-agent",
			instanceID:     "",
			expectedComp:   "role-agent",
			expectedInstID: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.instanceID != "" {
				t.Setenv("INSTANCE_ID", tt.instanceID)
			} else {
				if err := os.Unsetenv("INSTANCE_ID"); err != nil {
					t.Fatalf("Failed to unset INSTANCE_ID: %v", err)
				}
			}

			logger := New(tt.component)

			if logger.Component != tt.expectedComp {
				t.Errorf("Component = %q, want %q", logger.Component, tt.expectedComp)
			}
			if logger.InstanceID != tt.expectedInstID {
				t.Errorf("InstanceID = %q, want %q", logger.InstanceID, tt.expectedInstID)
			}
			if logger.Container == "" {
				t.Error("Container should not be empty")
			}
		})
	}
}

// captureOutput captures log output produced by fn
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer log.SetOutput(os.Stderr)
	defer log.SetFlags(log.LstdFlags)

	fn()
	return buf.String()
}

func TestLogEntryFields(t *testing.T) {
	logger := New("pipeline")

	out := captureOutput(t, func() {
		logger.Info("report_20250101_120000", "req-1", "analysis started", map[string]interface{}{
			"role": "real_estate",
		})
	})

	var entry LogEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v\noutput: %s", err, out)
	}

	if entry.Level != INFO {
		t.Errorf("Level = %q, want %q", entry.Level, INFO)
	}
	if entry.Component != "pipeline" {
		t.Errorf("Component = %q, want %q", entry.Component, "pipeline")
	}
	if entry.RunID != "report_20250101_120000" {
		t.Errorf("RunID = %q, want %q", entry.RunID, "report_20250101_120000")
	}
	if entry.RequestID != "req-1" {
		t.Errorf("RequestID = %q, want %q", entry.RequestID, "req-1")
	}
	if entry.Message != "analysis started" {
		t.Errorf("Message = %q, want %q", entry.Message, "analysis started")
	}
	if entry.Fields["role"] != "real_estate" {
		t.Errorf("Fields[role] = %v, want %q", entry.Fields["role"], "real_estate")
	}
}

func TestInfoWithDuration(t *testing.T) {
	logger := New("pipeline")

	out := captureOutput(t, func() {
		logger.InfoWithDuration("run-1", "", "stage complete", 123.4, nil)
	})

	var entry LogEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}

	if entry.Fields["duration_ms"] != 123.4 {
		t.Errorf("duration_ms = %v, want 123.4", entry.Fields["duration_ms"])
	}
}

func TestErrorWithCode(t *testing.T) {
	logger := New("server")

	out := captureOutput(t, func() {
		logger.ErrorWithCode("", "req-2", "pipeline failed", 500, os.ErrNotExist, nil)
	})

	var entry LogEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}

	if entry.Level != ERROR {
		t.Errorf("Level = %q, want %q", entry.Level, ERROR)
	}
	if entry.Fields["status_code"] != float64(500) {
		t.Errorf("status_code = %v, want 500", entry.Fields["status_code"])
	}
	if entry.Fields["error"] == "" {
		t.Error("error field should be set")
	}
}
