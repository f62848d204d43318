package store

import (
	"context"
	"fmt"
	"time"

	"portfolio-engine/internal/domain"

	"github.com/google/uuid"
)

type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Scraped    int
	Relevant   int
	UseMock    bool
	NoFilter   bool
	OutputPath string
}

// ReportRow is one stored CSV line.
type ReportRow struct {
	CompanyName string
	Website     string
	Description string
	Source      string
	LastRound   string
}

// NewRunID returns a fresh random run id.
func NewRunID() string {
	return uuid.NewString()
}

// SaveRun stores run and its rows in one transaction. An empty run.ID is
// filled in and returned.
func (d *DB) SaveRun(ctx context.Context, run Run, companies []domain.Company) (string, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO runs(id, started_at, finished_at, scraped, relevant, use_mock, no_filter, output_path)
VALUES(?,?,?,?,?,?,?,?);`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.Scraped, run.Relevant,
		boolInt(run.UseMock), boolInt(run.NoFilter),
		run.OutputPath,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO report_rows(run_id, position, company_name, website, description, source, last_round)
VALUES(?,?,?,?,?,?,?);`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, c := range companies {
		if _, err := stmt.ExecContext(ctx, run.ID, i, c.Name, c.Website, c.Description, c.Source, c.Round.String()); err != nil {
			return "", fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return run.ID, nil
}

// ListRuns returns the newest runs first.
func (d *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.Pool.QueryContext(ctx, `
SELECT id, started_at, finished_at, scraped, relevant, use_mock, no_filter, output_path
FROM runs
ORDER BY started_at DESC, rowid DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r                 Run
			started, finished string
			mock, nofilter    int
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.Scraped, &r.Relevant, &mock, &nofilter, &r.OutputPath); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		r.UseMock = mock != 0
		r.NoFilter = nofilter != 0
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RunRows returns the stored rows of one run in CSV order.
func (d *DB) RunRows(ctx context.Context, runID string) ([]ReportRow, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT company_name, website, description, source, last_round
FROM report_rows
WHERE run_id = ?
ORDER BY position ASC;`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var r ReportRow
		if err := rows.Scan(&r.CompanyName, &r.Website, &r.Description, &r.Source, &r.LastRound); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CleanupOldRuns deletes runs started before cutoff together with their rows.
func (d *DB) CleanupOldRuns(ctx context.Context, cutoff time.Time) (deleted int64, err error) {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	ts := cutoff.UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `
DELETE FROM report_rows
WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?);`, ts); err != nil {
		return 0, fmt.Errorf("cleanup old rows: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?;`, ts)
	if err != nil {
		return 0, fmt.Errorf("cleanup old runs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
