package schedule

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/notesmith/autoflow/internal/errlog"
	"github.com/notesmith/autoflow/internal/flow"
	"github.com/notesmith/autoflow/internal/notify"
	"github.com/notesmith/autoflow/internal/runner"
	"github.com/notesmith/autoflow/internal/vault"
)

const (
	// DefaultCron fires the sweep shortly after midnight, when a new
	// day's lastRun comparisons come due.
	DefaultCron = "5 0 * * *"

	// watchDebounce coalesces the event bursts editors emit on save.
	watchDebounce = 400 * time.Millisecond
)

// DaemonConfig wires a Daemon. Sweeper, Registry and Store are
// required; Root is the vault's filesystem root and enables the file
// watcher when set.
type DaemonConfig struct {
	Sweeper  *Sweeper
	Registry *runner.Registry
	Store    vault.Store
	Root     string
	Cron     string
	Errors   errlog.Sink
	Notifier notify.Notifier
	Logger   *zap.Logger
}

// Daemon keeps autorun flows current: an immediate sweep, repeat
// sweeps on a cron schedule, and re-validation of registered flow
// files as they are edited.
type Daemon struct {
	cfg DaemonConfig
}

// NewDaemon validates cfg and returns a Daemon. An empty cron
// expression gets the default.
func NewDaemon(cfg DaemonConfig) (*Daemon, error) {
	if cfg.Sweeper == nil || cfg.Registry == nil || cfg.Store == nil {
		return nil, errors.New("daemon needs a sweeper, registry and store")
	}
	if cfg.Cron == "" {
		cfg.Cron = DefaultCron
	}
	if _, err := cron.ParseStandard(cfg.Cron); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", cfg.Cron, err)
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NewCLI(nil)
	}
	return &Daemon{cfg: cfg}, nil
}

// Start runs the daemon until ctx is cancelled.
func (d *Daemon) Start(ctx context.Context) error {
	d.cfg.Sweeper.Sweep(ctx)

	c := cron.New()
	if _, err := c.AddFunc(d.cfg.Cron, func() { d.cfg.Sweeper.Sweep(ctx) }); err != nil {
		return fmt.Errorf("scheduling sweep: %w", err)
	}
	c.Start()
	defer c.Stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer watcher.Close()

	watched := d.watchRegisteredDirs(watcher)

	var (
		mu     sync.Mutex
		timers = make(map[string]*time.Timer)
	)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			rel, registered := watched[filepath.Clean(ev.Name)]
			if !registered {
				continue
			}

			if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
				if removed, err := d.cfg.Registry.Remove(rel); err != nil {
					d.cfg.Notifier.Warn("could not update autorun registry: %v", err)
				} else if removed {
					d.cfg.Notifier.Notice("unregistered %q: file removed", rel)
				}
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}

			mu.Lock()
			if t, ok := timers[rel]; ok {
				t.Stop()
			}
			timers[rel] = time.AfterFunc(watchDebounce, func() {
				mu.Lock()
				delete(timers, rel)
				mu.Unlock()
				d.revalidate(rel)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if d.cfg.Logger != nil {
				d.cfg.Logger.Warn("watcher error", zap.Error(err))
			}
		}
	}
}

// watchRegisteredDirs adds each registered flow's directory to the
// watcher and returns a map from absolute file paths back to registry
// paths. Watching directories rather than files survives the
// replace-on-save dance editors do.
func (d *Daemon) watchRegisteredDirs(watcher *fsnotify.Watcher) map[string]string {
	watched := make(map[string]string)
	if d.cfg.Root == "" {
		return watched
	}

	dirs := make(map[string]bool)
	for _, rel := range d.cfg.Registry.Flows() {
		abs := filepath.Join(d.cfg.Root, filepath.FromSlash(rel))
		watched[filepath.Clean(abs)] = rel
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			d.cfg.Notifier.Warn("cannot watch %s: %v", dir, err)
		}
	}
	return watched
}

// revalidate re-parses a registered flow after an edit so the next
// sweep does not trip over it silently.
func (d *Daemon) revalidate(rel string) {
	text, err := d.cfg.Store.Read(rel)
	if err == nil {
		var def *flow.FlowDefinition
		def, err = flow.Parse(text)
		if err == nil {
			err = flow.ValidatePromptFiles(def, d.cfg.Store)
		}
	}
	if err == nil {
		if d.cfg.Logger != nil {
			d.cfg.Logger.Debug("flow revalidated", zap.String("path", rel))
		}
		return
	}

	if d.cfg.Errors != nil {
		entry := errlog.Entry{Time: time.Now(), Flow: rel, Message: err.Error()}
		if recErr := d.cfg.Errors.Record(entry); recErr != nil {
			d.cfg.Notifier.Warn("could not write error log: %v", recErr)
		}
	}
	d.cfg.Notifier.Warn("registered flow %q no longer parses: %v", rel, err)
}
