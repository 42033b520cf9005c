package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notesmith/autoflow/internal/errlog"
	"github.com/notesmith/autoflow/internal/paths"
	"github.com/notesmith/autoflow/internal/schedule"
)

func newDaemonCmd(cfgPath *string, debug *bool) *cobra.Command {
	var cronExpr string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Sweep autorun flows on a schedule and watch them for edits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfgPath, debug, func(a *app) error {
				// A long-running process wants real logs even
				// without --debug.
				if !*debug {
					logger, err := zap.NewProduction()
					if err != nil {
						return err
					}
					defer logger.Sync()
					a.logger = logger
				}

				r, cleanup, err := a.buildRunner(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()

				sink := errlog.NewFileSink(a.dataPath(paths.ErrorLogName))
				sweeper := schedule.NewSweeper(a.store, r, r.Registry(), sink, a.notifier,
					schedule.WithLogger(a.logger))

				expr := cronExpr
				if expr == "" {
					expr = a.cfg.Cron
				}

				d, err := schedule.NewDaemon(schedule.DaemonConfig{
					Sweeper:  sweeper,
					Registry: r.Registry(),
					Store:    a.store,
					Root:     a.store.Root(),
					Cron:     expr,
					Errors:   sink,
					Notifier: a.notifier,
					Logger:   a.logger,
				})
				if err != nil {
					return err
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				a.notifier.Notice("daemon started, press ctrl-c to stop")
				if err := d.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				a.notifier.Notice("daemon stopped")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cronExpr, "cron", "", "cron expression for the sweep (default "+schedule.DefaultCron+")")

	return cmd
}
