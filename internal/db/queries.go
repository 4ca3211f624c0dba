package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/vault-dashboard-tui/internal/logger"
	"github.com/j-veylop/vault-dashboard-tui/internal/models"
)

// timeLayout is how timestamps are stored as TEXT.
const timeLayout = "2006-01-02 15:04:05.000"

// InsertDiagnostic appends one diagnostic to the journal and sets its ID.
func (db *DB) InsertDiagnostic(d *models.Diagnostic) error {
	query := `
		INSERT INTO diagnostics (source, line_text, output, created_at)
		VALUES (?, ?, ?, ?)
	`

	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := db.ExecContext(context.Background(), query,
		d.Source,
		d.Line,
		d.Output,
		formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert diagnostic: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		d.ID = id
	}

	return nil
}

// RecentDiagnostics returns up to limit diagnostics, newest first. An empty
// source matches every source.
func (db *DB) RecentDiagnostics(source string, limit int) ([]models.Diagnostic, error) {
	query := `
		SELECT id, source, line_text, output, created_at
		FROM diagnostics
		WHERE (? = '' OR source = ?)
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, source, source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query diagnostics: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var diags []models.Diagnostic
	for rows.Next() {
		var d models.Diagnostic
		var createdAt string
		if err := rows.Scan(&d.ID, &d.Source, &d.Line, &d.Output, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		d.CreatedAt = parseTime(createdAt)
		diags = append(diags, d)
	}

	return diags, rows.Err()
}

// PruneDiagnostics keeps the newest keep rows and deletes the rest. It
// returns the number of deleted rows.
func (db *DB) PruneDiagnostics(keep int) (int64, error) {
	query := `
		DELETE FROM diagnostics
		WHERE id NOT IN (SELECT id FROM diagnostics ORDER BY id DESC LIMIT ?)
	`
	result, err := db.ExecContext(context.Background(), query, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune diagnostics: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned diagnostics: %w", err)
	}
	return n, nil
}

// InsertStart records a vault process start and sets its ID.
func (db *DB) InsertStart(e *models.StartEvent) error {
	query := `
		INSERT INTO vault_starts (source, version, started_at, observed_at)
		VALUES (?, ?, ?, ?)
	`

	observedAt := e.ObservedAt
	if observedAt.IsZero() {
		observedAt = time.Now()
	}

	var startedAt sql.NullString
	if !e.StartedAt.IsZero() {
		startedAt = sql.NullString{String: formatTime(e.StartedAt), Valid: true}
	}

	result, err := db.ExecContext(context.Background(), query,
		e.Source,
		e.Version,
		startedAt,
		formatTime(observedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert vault start: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		e.ID = id
	}

	return nil
}

// RecentStarts returns up to limit recorded starts of source, newest first.
func (db *DB) RecentStarts(source string, limit int) ([]models.StartEvent, error) {
	query := `
		SELECT id, source, version, started_at, observed_at
		FROM vault_starts
		WHERE source = ?
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query vault starts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var starts []models.StartEvent
	for rows.Next() {
		var e models.StartEvent
		var startedAt sql.NullString
		var observedAt string
		if err := rows.Scan(&e.ID, &e.Source, &e.Version, &startedAt, &observedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vault start: %w", err)
		}
		if startedAt.Valid {
			e.StartedAt = parseTime(startedAt.String)
		}
		e.ObservedAt = parseTime(observedAt)
		starts = append(starts, e)
	}

	return starts, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
