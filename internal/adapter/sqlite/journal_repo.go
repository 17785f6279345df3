package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vertextoedge/magpi-downloader/internal/domain"
)

// RunRecord is a journaled batch run
type RunRecord struct {
	ID          string
	RangeStart  int
	RangeEnd    int
	TotalBytes  int64
	Succeeded   int
	Failed      int
	Interrupted bool
	StartedAt   time.Time
	FinishedAt  *time.Time
}

// OutcomeRecord is a journaled issue outcome
type OutcomeRecord struct {
	ID           int64
	RunID        string
	IssueNumber  string
	FileName     string
	Status       domain.OutcomeStatus
	BytesWritten int64
	Reason       string
	Path         string
	Duration     time.Duration
}

// BeginRun inserts the run row
func (s *Store) BeginRun(summary *domain.BatchSummary) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, range_start, range_end, started_at)
		VALUES (?, ?, ?, ?)
	`, summary.RunID, summary.Start, summary.End, summary.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// RecordOutcome inserts one issue outcome
func (s *Store) RecordOutcome(runID string, outcome domain.DownloadOutcome) error {
	_, err := s.db.Exec(`
		INSERT INTO outcomes (run_id, issue_number, file_name, status, bytes_written, reason, path, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, outcome.Issue.Number, outcome.Issue.FileName, string(outcome.Status),
		outcome.BytesWritten, nullString(outcome.Reason), nullString(outcome.Path),
		outcome.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to insert outcome: %w", err)
	}
	return nil
}

// FinishRun stores the final totals of a run
func (s *Store) FinishRun(summary *domain.BatchSummary) error {
	finishedAt := summary.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}

	result, err := s.db.Exec(`
		UPDATE runs
		SET total_bytes = ?, succeeded = ?, failed = ?, interrupted = ?, finished_at = ?
		WHERE id = ?
	`, summary.TotalBytes, len(summary.Successes), len(summary.Failures),
		summary.Interrupted, finishedAt, summary.RunID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("run %s not found", summary.RunID)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first
func (s *Store) RecentRuns(limit int) ([]*RunRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, range_start, range_end, total_bytes, succeeded, failed, interrupted, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*RunRecord
	for rows.Next() {
		run := &RunRecord{}
		var finishedAt sql.NullTime
		if err := rows.Scan(&run.ID, &run.RangeStart, &run.RangeEnd, &run.TotalBytes,
			&run.Succeeded, &run.Failed, &run.Interrupted, &run.StartedAt, &finishedAt); err != nil {
			return nil, err
		}
		if finishedAt.Valid {
			run.FinishedAt = &finishedAt.Time
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Outcomes returns the outcomes of a run in attempt order
func (s *Store) Outcomes(runID string) ([]*OutcomeRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, issue_number, file_name, status, bytes_written, reason, path, duration_ms
		FROM outcomes
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []*OutcomeRecord
	for rows.Next() {
		o := &OutcomeRecord{}
		var status string
		var reason, path sql.NullString
		var durationMs int64
		if err := rows.Scan(&o.ID, &o.RunID, &o.IssueNumber, &o.FileName, &status,
			&o.BytesWritten, &reason, &path, &durationMs); err != nil {
			return nil, err
		}
		o.Status = domain.OutcomeStatus(status)
		if reason.Valid {
			o.Reason = reason.String
		}
		if path.Valid {
			o.Path = path.String
		}
		o.Duration = time.Duration(durationMs) * time.Millisecond
		outcomes = append(outcomes, o)
	}

	return outcomes, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
