// Package schedule re-runs registered autorun flows: a startup sweep
// over the registry, and a daemon that repeats the sweep on a cron
// schedule while watching flow files for edits.
package schedule

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/notesmith/autoflow/internal/errlog"
	"github.com/notesmith/autoflow/internal/flow"
	"github.com/notesmith/autoflow/internal/notify"
	"github.com/notesmith/autoflow/internal/runner"
	"github.com/notesmith/autoflow/internal/vault"
)

// Outcome classifies what the sweep did with one registered flow.
type Outcome string

const (
	OutcomeRan     Outcome = "ran"
	OutcomeSkipped Outcome = "skipped"
	OutcomeMissing Outcome = "missing"
	OutcomeInvalid Outcome = "invalid"
	OutcomeFailed  Outcome = "failed"
)

// Result is the sweep's verdict for one registered path.
type Result struct {
	Path    string
	Flow    string
	Outcome Outcome
	Err     error
}

// Sweeper walks the autorun registry and re-runs flows that are due
// today. One flow's failure never stops the rest.
type Sweeper struct {
	store    vault.Store
	runner   *runner.Runner
	registry *runner.Registry
	errors   errlog.Sink
	notifier notify.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithLogger attaches a logger for sweep diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

// NewSweeper returns a Sweeper over the given collaborators.
func NewSweeper(store vault.Store, r *runner.Runner, registry *runner.Registry, errors errlog.Sink, notifier notify.Notifier, opts ...Option) *Sweeper {
	s := &Sweeper{
		store:    store,
		runner:   r,
		registry: registry,
		errors:   errors,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notify.NewCLI(nil)
	}
	return s
}

// Sweep visits every registered flow once and returns what happened
// to each, in registry order.
func (s *Sweeper) Sweep(ctx context.Context) []Result {
	today := s.now().Format("2006-01-02")

	var results []Result
	for _, path := range s.registry.Flows() {
		res := s.sweepOne(ctx, path, today)
		if s.logger != nil {
			s.logger.Debug("sweep",
				zap.String("path", res.Path),
				zap.String("outcome", string(res.Outcome)),
				zap.Error(res.Err),
			)
		}
		results = append(results, res)
	}
	return results
}

func (s *Sweeper) sweepOne(ctx context.Context, path, today string) Result {
	info, ok := s.store.Stat(path)
	if !ok || info.Kind != vault.KindFile {
		return Result{Path: path, Outcome: OutcomeMissing}
	}

	text, err := s.store.Read(path)
	if err != nil {
		s.reportInvalid(path, err)
		return Result{Path: path, Outcome: OutcomeInvalid, Err: err}
	}

	def, err := flow.Parse(text)
	if err == nil {
		err = flow.ValidatePromptFiles(def, s.store)
	}
	if err != nil {
		s.reportInvalid(path, err)
		return Result{Path: path, Outcome: OutcomeInvalid, Err: err}
	}

	if def.LastRun == today {
		return Result{Path: path, Flow: def.Name, Outcome: OutcomeSkipped}
	}
	if !def.Autorun.DueDaily() {
		return Result{Path: path, Flow: def.Name, Outcome: OutcomeSkipped}
	}

	if err := s.runner.RunParsed(ctx, path, def, runner.TriggerAutorun); err != nil {
		return Result{Path: path, Flow: def.Name, Outcome: OutcomeFailed, Err: err}
	}
	return Result{Path: path, Flow: def.Name, Outcome: OutcomeRan}
}

func (s *Sweeper) reportInvalid(path string, err error) {
	entry := errlog.Entry{Time: s.now(), Flow: path, Message: err.Error()}
	if recErr := s.errors.Record(entry); recErr != nil {
		s.notifier.Warn("could not write error log: %v", recErr)
	}
	s.notifier.Warn("registered flow %q is invalid: %v", path, err)
}
