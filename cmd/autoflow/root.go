package main

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notesmith/autoflow/internal/config"
	"github.com/notesmith/autoflow/internal/engine"
	"github.com/notesmith/autoflow/internal/errlog"
	"github.com/notesmith/autoflow/internal/history"
	"github.com/notesmith/autoflow/internal/index"
	"github.com/notesmith/autoflow/internal/notify"
	"github.com/notesmith/autoflow/internal/openai"
	"github.com/notesmith/autoflow/internal/paths"
	"github.com/notesmith/autoflow/internal/runner"
	"github.com/notesmith/autoflow/internal/vault"
)

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "autoflow",
		Short: "Run markdown-defined flows over a document vault",
		Long: `Autoflow executes flows: markdown files whose steps search a
document vault, transform the results with a language model, and
write the output back into the vault. Flows marked autorun are
re-run daily by the sweep and the daemon.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", paths.ConfigFile(), "path to config file")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newRunCmd(&cfgPath, &debug),
		newListCmd(&cfgPath, &debug),
		newShowCmd(&cfgPath, &debug),
		newValidateCmd(&cfgPath, &debug),
		newNewCmd(&cfgPath, &debug),
		newIndexCmd(&cfgPath, &debug),
		newAutorunCmd(&cfgPath, &debug),
		newDaemonCmd(&cfgPath, &debug),
		newHistoryCmd(&cfgPath, &debug),
	)

	return cmd
}

// app carries the collaborators commands share. Built per invocation
// by withApp once flags are parsed.
type app struct {
	cfg      *config.Config
	store    *vault.Dir
	dataDir  string
	notifier notify.Notifier
	logger   *zap.Logger
}

func withApp(cfgPath *string, debug *bool, fn func(a *app) error) error {
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(*debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := vault.NewDir(cfg.VaultDir)
	if err != nil {
		return err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = paths.DataDir()
	}

	return fn(&app{
		cfg:      cfg,
		store:    store,
		dataDir:  dataDir,
		notifier: notify.NewCLI(nil),
		logger:   logger,
	})
}

// newLogger keeps interactive commands quiet unless --debug is set.
// The daemon builds its own production logger.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

func (a *app) dataPath(name string) string {
	return filepath.Join(a.dataDir, name)
}

func (a *app) client() *openai.Client {
	opts := []openai.Option{openai.WithTimeout(a.cfg.Timeout())}
	if a.cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(a.cfg.BaseURL))
	}
	if key := a.cfg.APIKey(); key != "" {
		opts = append(opts, openai.WithAPIKey(key))
	}
	return openai.NewClient(opts...)
}

func (a *app) loadIndex() (*index.Index, error) {
	return index.Load(a.dataPath(paths.IndexName))
}

func (a *app) loadRegistry() (*runner.Registry, error) {
	return runner.LoadRegistry(a.dataPath(paths.RegistryName))
}

// buildRunner assembles the full execution stack. The returned
// cleanup closes the history database and must always be called.
func (a *app) buildRunner(ctx context.Context) (*runner.Runner, func(), error) {
	idx, err := a.loadIndex()
	if err != nil {
		return nil, nil, err
	}
	registry, err := a.loadRegistry()
	if err != nil {
		return nil, nil, err
	}

	client := a.client()
	exec := engine.New(a.store,
		openai.NewCompletions(client, a.cfg.Model, a.cfg.Temperature),
		openai.NewEmbedder(client, a.cfg.EmbeddingModel),
		idx, a.notifier,
		engine.WithLogger(a.logger),
	)

	sink := errlog.NewFileSink(a.dataPath(paths.ErrorLogName))

	opts := []runner.Option{runner.WithLogger(a.logger)}
	cleanup := func() {}
	db, err := history.Connect(ctx, a.dataPath(paths.HistoryName))
	if err != nil {
		a.notifier.Warn("run history unavailable: %v", err)
	} else {
		opts = append(opts, runner.WithHistory(history.NewService(db)))
		cleanup = func() { db.Close() }
	}

	return runner.New(a.store, exec, registry, sink, a.notifier, opts...), cleanup, nil
}

// vaultPath normalizes a user-supplied flow path to the slash-relative
// form the store uses.
func vaultPath(arg string) string {
	p := filepath.ToSlash(arg)
	p = strings.TrimPrefix(p, "./")
	return path.Clean(p)
}
