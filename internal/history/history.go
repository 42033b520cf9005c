package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// RunStatus is the lifecycle state of a recorded run.
type RunStatus string

const (
	StatusRunning RunStatus = "running"
	StatusSuccess RunStatus = "success"
	StatusFailed  RunStatus = "failed"
)

const defaultListLimit = 50

// Run is one recorded flow execution.
type Run struct {
	ID          string
	FlowName    string
	FlowPath    string
	Status      RunStatus
	TriggeredBy string
	SessionID   string
	Error       string
	StartedAt   time.Time
	FinishedAt  time.Time
	Duration    time.Duration
}

// Finished reports whether the run has completed.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Filter narrows a List call. Zero values mean no constraint; a zero
// Limit applies the default.
type Filter struct {
	FlowName string
	Status   RunStatus
	Limit    int
}

// Service records and queries runs. All runs recorded by one Service
// share a session ID, correlating everything a single process did.
type Service struct {
	db      *sql.DB
	session string
}

// NewService returns a Service over db with a fresh session ID.
func NewService(db *sql.DB) *Service {
	return &Service{db: db, session: uuid.NewString()}
}

// SessionID returns this process's session identifier.
func (s *Service) SessionID() string { return s.session }

// RecordStart inserts a running row and returns its run ID.
func (s *Service) RecordStart(ctx context.Context, flowName, flowPath, triggeredBy string) (string, error) {
	id := ulid.Make().String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flow_runs (id, flow_name, flow_path, status, triggered_by, session_id, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, flowName, flowPath, string(StatusRunning), triggeredBy, s.session, time.Now().UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("recording run start: %w", err)
	}
	return id, nil
}

// RecordComplete finalizes a run with its terminal status. The error
// message is stored only for failures.
func (s *Service) RecordComplete(ctx context.Context, runID string, status RunStatus, errMsg string) error {
	now := time.Now().UnixMilli()

	_, err := s.db.ExecContext(ctx, `
		UPDATE flow_runs
		SET status = ?, error = ?, finished_at = ?, duration_ms = ? - started_at
		WHERE id = ?`,
		string(status), toNullString(errMsg), now, now, runID,
	)
	if err != nil {
		return fmt.Errorf("recording run completion: %w", err)
	}
	return nil
}

// Get returns the run with the given ID, accepting an unambiguous
// prefix the way short commit hashes work.
func (s *Service) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+" WHERE id = ?", id)
	run, err := scanRun(row)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("looking up run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, selectRuns+" WHERE id LIKE ? LIMIT 2", id+"%")
	if err != nil {
		return nil, fmt.Errorf("looking up run: %w", err)
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("looking up run: %w", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("looking up run: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("run %q not found", id)
	case 1:
		return matches[0], nil
	}
	return nil, fmt.Errorf("run id %q is ambiguous", id)
}

// List returns runs newest first, narrowed by f.
func (s *Service) List(ctx context.Context, f Filter) ([]Run, error) {
	query := selectRuns
	var conds []string
	var args []any

	if f.FlowName != "" {
		conds = append(conds, "flow_name = ?")
		args = append(args, f.FlowName)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += " ORDER BY started_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Prune deletes finished runs older than maxAge. It returns how many
// rows were removed.
func (s *Service) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).UnixMilli()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM flow_runs WHERE started_at < ? AND status != ?`,
		cutoff, string(StatusRunning),
	)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	return n, nil
}

const selectRuns = `
	SELECT id, flow_name, flow_path, status, triggered_by, session_id, error, started_at, finished_at, duration_ms
	FROM flow_runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		status     string
		errMsg     sql.NullString
		startedAt  int64
		finishedAt sql.NullInt64
		durationMs sql.NullInt64
	)
	err := row.Scan(
		&run.ID, &run.FlowName, &run.FlowPath, &status, &run.TriggeredBy,
		&run.SessionID, &errMsg, &startedAt, &finishedAt, &durationMs,
	)
	if err != nil {
		return nil, err
	}

	run.Status = RunStatus(status)
	run.Error = errMsg.String
	run.StartedAt = time.UnixMilli(startedAt)
	if finishedAt.Valid {
		run.FinishedAt = time.UnixMilli(finishedAt.Int64)
	}
	if durationMs.Valid {
		run.Duration = time.Duration(durationMs.Int64) * time.Millisecond
	}
	return &run, nil
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
