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
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

// RunAuditEntry is one row in the run audit trail.
type RunAuditEntry struct {
	RunID        string
	SourceFile   string
	Status       string // "completed" or "failed"
	Stage        string // failing stage, empty on success
	ErrorMessage string
	DurationMS   int64
}

// RunAuditLogger records pipeline run outcomes in PostgreSQL. Auditing is
// optional: a logger constructed without a database is a no-op, and audit
// failures never fail the run they describe.
type RunAuditLogger struct {
	db *sql.DB
}

// NewRunAuditLogger connects to PostgreSQL and ensures the audit table
// exists. An empty databaseURL or a connection failure yields a no-op logger.
func NewRunAuditLogger(databaseURL string) *RunAuditLogger {
	if databaseURL == "" {
		log.Printf("[RunAudit] DATABASE_URL not set, run auditing disabled")
		return &RunAuditLogger{}
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Printf("[RunAudit] Failed to open database, run auditing disabled: %v", err)
		return &RunAuditLogger{}
	}

	if err := createRunAuditTable(db); err != nil {
		log.Printf("[RunAudit] Failed to create audit table, run auditing disabled: %v", err)
		_ = db.Close()
		return &RunAuditLogger{}
	}

	log.Printf("[RunAudit] Run auditing enabled")
	return &RunAuditLogger{db: db}
}

// NewRunAuditLoggerFromDB wraps an existing connection. Used by tests.
func NewRunAuditLoggerFromDB(db *sql.DB) *RunAuditLogger {
	return &RunAuditLogger{db: db}
}

func createRunAuditTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS pipeline_runs (
			id            BIGSERIAL PRIMARY KEY,
			run_id        TEXT NOT NULL,
			source_file   TEXT NOT NULL,
			status        TEXT NOT NULL,
			stage         TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			duration_ms   BIGINT NOT NULL DEFAULT 0,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

// Enabled reports whether audit rows are being written.
func (a *RunAuditLogger) Enabled() bool {
	return a != nil && a.db != nil
}

// Record writes one audit row. No-op without a database.
func (a *RunAuditLogger) Record(ctx context.Context, entry RunAuditEntry) error {
	if !a.Enabled() {
		return nil
	}

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO pipeline_runs (run_id, source_file, status, stage, error_message, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.RunID, entry.SourceFile, entry.Status, entry.Stage, entry.ErrorMessage, entry.DurationMS)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (a *RunAuditLogger) Close() error {
	if !a.Enabled() {
		return nil
	}
	return a.db.Close()
}
