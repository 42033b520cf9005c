package runner

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/notesmith/autoflow/internal/engine"
	"github.com/notesmith/autoflow/internal/errlog"
	"github.com/notesmith/autoflow/internal/flow"
	"github.com/notesmith/autoflow/internal/history"
	"github.com/notesmith/autoflow/internal/notify"
	"github.com/notesmith/autoflow/internal/vault"
)

// Trigger says how a run was started.
type Trigger string

const (
	TriggerManual  Trigger = "manual"
	TriggerAutorun Trigger = "autorun"
)

// Runner drives one flow execution end to end.
type Runner struct {
	store    vault.Store
	exec     *engine.Executor
	registry *Registry
	errors   errlog.Sink
	notifier notify.Notifier
	history  *history.Service
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithHistory enables run-history recording.
func WithHistory(h *history.Service) Option {
	return func(r *Runner) {
		r.history = h
	}
}

// WithLogger attaches a logger for run-level diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// New returns a Runner over the given collaborators.
func New(store vault.Store, exec *engine.Executor, registry *Registry, errors errlog.Sink, notifier notify.Notifier, opts ...Option) *Runner {
	r := &Runner{
		store:    store,
		exec:     exec,
		registry: registry,
		errors:   errors,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.notifier == nil {
		r.notifier = notify.NewCLI(nil)
	}
	return r
}

// Run reads and parses the flow at flowPath, then executes it.
// Parse and validation errors surface to the caller directly; they
// never reach the executor or the error log.
func (r *Runner) Run(ctx context.Context, flowPath string, trigger Trigger) error {
	text, err := r.store.Read(flowPath)
	if err != nil {
		return err
	}
	def, err := flow.Parse(text)
	if err != nil {
		return err
	}
	if err := flow.ValidatePromptFiles(def, r.store); err != nil {
		return err
	}
	return r.RunParsed(ctx, flowPath, def, trigger)
}

// RunParsed executes an already parsed flow. A manual run of a flow
// declaring autorun registers its path first. A scheduled run that
// succeeds gets its lastRun marker stamped to today. Failures land
// in the error log with a stack and come back to the caller.
func (r *Runner) RunParsed(ctx context.Context, flowPath string, def *flow.FlowDefinition, trigger Trigger) error {
	if trigger == TriggerManual && def.Autorun.Declared {
		added, err := r.registry.Add(flowPath)
		switch {
		case err != nil:
			r.notifier.Warn("could not register %q for autorun: %v", def.Name, err)
		case added:
			r.notifier.Notice("registered %q for autorun", def.Name)
		}
	}

	var runID string
	if r.history != nil {
		id, err := r.history.RecordStart(ctx, def.Name, flowPath, string(trigger))
		if err != nil {
			r.notifier.Warn("run history unavailable: %v", err)
		} else {
			runID = id
		}
	}

	runErr := r.exec.Run(ctx, def)
	if runErr == nil && trigger == TriggerAutorun {
		runErr = r.stampLastRun(flowPath)
	}

	if runID != "" {
		status, msg := history.StatusSuccess, ""
		if runErr != nil {
			status, msg = history.StatusFailed, runErr.Error()
		}
		if err := r.history.RecordComplete(ctx, runID, status, msg); err != nil {
			r.notifier.Warn("run history unavailable: %v", err)
		}
	}

	if runErr != nil {
		entry := errlog.Entry{
			Time:    r.now(),
			Flow:    def.Name,
			Message: runErr.Error(),
			Stack:   string(debug.Stack()),
		}
		if err := r.errors.Record(entry); err != nil {
			r.notifier.Warn("could not write error log: %v", err)
		}
		if r.logger != nil {
			r.logger.Error("flow failed", zap.String("flow", def.Name), zap.Error(runErr))
		}
		r.notifier.Warn("flow %q failed: %v", def.Name, runErr)
		return runErr
	}

	if r.logger != nil {
		r.logger.Info("flow complete", zap.String("flow", def.Name), zap.String("trigger", string(trigger)))
	}
	r.notifier.Notice("flow %q completed", def.Name)
	return nil
}

// Registry exposes the autorun registry for the scheduler and CLI.
func (r *Runner) Registry() *Registry { return r.registry }

// stampLastRun rewrites the flow document's lastRun marker to today,
// leaving the rest of the document untouched.
func (r *Runner) stampLastRun(flowPath string) error {
	text, err := r.store.Read(flowPath)
	if err != nil {
		return err
	}
	updated, changed := flow.SetLastRun(text, r.now().Format("2006-01-02"))
	if !changed {
		return nil
	}
	return r.store.Write(flowPath, updated)
}
