package errlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "errors.log")
	sink := NewFileSink(path)

	first := Entry{
		Time:    time.Date(2026, 8, 21, 10, 0, 0, 0, time.UTC),
		Flow:    "digest",
		Message: "completion failed",
		Stack:   "goroutine 1 [running]:\nmain.main()",
	}
	if err := sink.Record(first); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := sink.Record(Entry{Time: first.Time.Add(time.Minute), Flow: "digest", Message: "again"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	text := string(data)

	if !strings.Contains(text, `flow "digest": completion failed`) {
		t.Errorf("log missing first entry:\n%s", text)
	}
	if !strings.Contains(text, "goroutine 1 [running]:") {
		t.Errorf("log missing stack:\n%s", text)
	}
	if !strings.Contains(text, "2026-08-21T10:00:00Z") {
		t.Errorf("log missing timestamp:\n%s", text)
	}
	if strings.Index(text, "completion failed") > strings.Index(text, "again") {
		t.Errorf("entries out of order:\n%s", text)
	}
}

func TestMemoryCollects(t *testing.T) {
	var sink Memory
	if err := sink.Record(Entry{Flow: "a", Message: "boom"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	entries := sink.Entries()
	if len(entries) != 1 || entries[0].Flow != "a" || entries[0].Message != "boom" {
		t.Errorf("Entries() = %+v", entries)
	}
}
