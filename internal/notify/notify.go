// Package notify carries short user-facing messages out of the
// engine without binding it to a terminal.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Notifier receives user-facing notices. Implementations must be
// safe for concurrent use.
type Notifier interface {
	// Notice reports normal progress worth telling the user about.
	Notice(format string, args ...any)

	// Warn reports a recoverable problem.
	Warn(format string, args ...any)
}

var (
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#67e8f9"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
)

// CLI writes styled notices to a terminal stream.
type CLI struct {
	mu  sync.Mutex
	out io.Writer
}

// NewCLI returns a CLI notifier writing to out, stderr when nil.
func NewCLI(out io.Writer) *CLI {
	if out == nil {
		out = os.Stderr
	}
	return &CLI{out: out}
}

func (c *CLI) Notice(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, noticeStyle.Render(fmt.Sprintf(format, args...)))
}

func (c *CLI) Warn(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, warnStyle.Render("warning: "+fmt.Sprintf(format, args...)))
}

// Recorder captures notices for tests.
type Recorder struct {
	mu       sync.Mutex
	notices  []string
	warnings []string
}

func (r *Recorder) Notice(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, fmt.Sprintf(format, args...))
}

func (r *Recorder) Warn(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// Notices returns the notices recorded so far.
func (r *Recorder) Notices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notices))
	copy(out, r.notices)
	return out
}

// Warnings returns the warnings recorded so far.
func (r *Recorder) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.warnings))
	copy(out, r.warnings)
	return out
}
