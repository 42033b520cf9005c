package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func connect(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Connect(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertRun(t *testing.T, db *sql.DB, id, flowName, status string, startedAt int64) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO flow_runs (id, flow_name, flow_path, status, triggered_by, session_id, started_at)
		VALUES (?, ?, ?, ?, 'manual', 'session', ?)`,
		id, flowName, flowName+".md", status, startedAt,
	)
	if err != nil {
		t.Fatal(err)
	}
}

func TestRecordStartAndComplete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(connect(t))

	id, err := svc.RecordStart(ctx, "digest", "flows/digest.md", "manual")
	if err != nil {
		t.Fatalf("RecordStart() error = %v", err)
	}
	if id == "" {
		t.Fatal("RecordStart() returned empty id")
	}

	run, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if run.Status != StatusRunning {
		t.Errorf("Status = %q, want running", run.Status)
	}
	if run.Finished() {
		t.Error("Finished() = true for a running run")
	}
	if run.FlowName != "digest" || run.FlowPath != "flows/digest.md" || run.TriggeredBy != "manual" {
		t.Errorf("run = %+v", run)
	}
	if run.SessionID != svc.SessionID() {
		t.Errorf("SessionID = %q, want %q", run.SessionID, svc.SessionID())
	}

	if err := svc.RecordComplete(ctx, id, StatusFailed, "provider down"); err != nil {
		t.Fatalf("RecordComplete() error = %v", err)
	}

	run, err = svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if run.Status != StatusFailed || run.Error != "provider down" {
		t.Errorf("run = %+v", run)
	}
	if !run.Finished() {
		t.Error("Finished() = false after completion")
	}
	if run.Duration < 0 {
		t.Errorf("Duration = %v", run.Duration)
	}
}

func TestSuccessfulRunStoresNoError(t *testing.T) {
	ctx := context.Background()
	svc := NewService(connect(t))

	id, err := svc.RecordStart(ctx, "digest", "flows/digest.md", "autorun")
	if err != nil {
		t.Fatalf("RecordStart() error = %v", err)
	}
	if err := svc.RecordComplete(ctx, id, StatusSuccess, ""); err != nil {
		t.Fatalf("RecordComplete() error = %v", err)
	}

	run, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if run.Status != StatusSuccess || run.Error != "" {
		t.Errorf("run = %+v", run)
	}
}

func TestListOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	db := connect(t)
	svc := NewService(db)

	base := time.Now().UnixMilli()
	insertRun(t, db, "run-aaa", "digest", "success", base-3000)
	insertRun(t, db, "run-bbb", "digest", "failed", base-2000)
	insertRun(t, db, "run-ccc", "review", "success", base-1000)

	runs, err := svc.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("List() returned %d runs, want 3", len(runs))
	}
	if runs[0].ID != "run-ccc" || runs[2].ID != "run-aaa" {
		t.Errorf("order = %s, %s, %s; want newest first", runs[0].ID, runs[1].ID, runs[2].ID)
	}

	runs, err = svc.List(ctx, Filter{FlowName: "digest"})
	if err != nil {
		t.Fatalf("List(flow) error = %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("List(flow=digest) returned %d runs, want 2", len(runs))
	}

	runs, err = svc.List(ctx, Filter{Status: StatusFailed})
	if err != nil {
		t.Fatalf("List(status) error = %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run-bbb" {
		t.Errorf("List(status=failed) = %+v", runs)
	}

	runs, err = svc.List(ctx, Filter{Limit: 1})
	if err != nil {
		t.Fatalf("List(limit) error = %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("List(limit=1) returned %d runs", len(runs))
	}
}

func TestGetByPrefix(t *testing.T) {
	ctx := context.Background()
	db := connect(t)
	svc := NewService(db)

	base := time.Now().UnixMilli()
	insertRun(t, db, "abc111", "digest", "success", base)
	insertRun(t, db, "abd222", "digest", "success", base)

	run, err := svc.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get(prefix) error = %v", err)
	}
	if run.ID != "abc111" {
		t.Errorf("Get(prefix) = %q", run.ID)
	}

	if _, err := svc.Get(ctx, "ab"); err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("Get(ambiguous) error = %v, want ambiguity", err)
	}

	if _, err := svc.Get(ctx, "zzz"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Get(missing) error = %v, want not found", err)
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	db := connect(t)
	svc := NewService(db)

	now := time.Now()
	insertRun(t, db, "old-done", "digest", "success", now.Add(-48*time.Hour).UnixMilli())
	insertRun(t, db, "old-running", "digest", "running", now.Add(-48*time.Hour).UnixMilli())
	insertRun(t, db, "fresh", "digest", "success", now.UnixMilli())

	n, err := svc.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Prune() removed %d rows, want 1", n)
	}

	if _, err := svc.Get(ctx, "old-done"); err == nil {
		t.Error("pruned run still present")
	}
	if _, err := svc.Get(ctx, "old-running"); err != nil {
		t.Error("running run was pruned")
	}
	if _, err := svc.Get(ctx, "fresh"); err != nil {
		t.Error("fresh run was pruned")
	}
}
