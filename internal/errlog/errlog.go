// Package errlog is the durable record of failed flow runs: an
// append-only log a user can read after the fact to see what broke.
package errlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry is one recorded failure.
type Entry struct {
	Time    time.Time
	Flow    string
	Message string
	Stack   string
}

// Sink receives failure entries.
type Sink interface {
	Record(e Entry) error
}

// FileSink appends entries to a plain-text log file.
type FileSink struct {
	mu   sync.Mutex
	path string
}

var _ Sink = (*FileSink)(nil)

// NewFileSink returns a FileSink appending to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Record(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("recording error: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("recording error: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] flow %q: %s\n", e.Time.Format(time.RFC3339), e.Flow, e.Message)
	if e.Stack != "" {
		b.WriteString(e.Stack)
		if !strings.HasSuffix(e.Stack, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("recording error: %w", err)
	}
	return nil
}

// Memory collects entries in memory for tests.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

var _ Sink = (*Memory)(nil)

func (m *Memory) Record(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

// Entries returns the recorded entries so far.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
