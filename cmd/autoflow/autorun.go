package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/notesmith/autoflow/internal/errlog"
	"github.com/notesmith/autoflow/internal/flow"
	"github.com/notesmith/autoflow/internal/paths"
	"github.com/notesmith/autoflow/internal/schedule"
	"github.com/notesmith/autoflow/internal/vault"
)

func newAutorunCmd(cfgPath *string, debug *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autorun",
		Short: "Inspect and sweep the autorun registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return newAutorunListCmd(cfgPath, debug).RunE(cmd, args)
		},
	}

	cmd.AddCommand(
		newAutorunListCmd(cfgPath, debug),
		newAutorunSweepCmd(cfgPath, debug),
	)

	return cmd
}

func newAutorunListCmd(cfgPath *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered autorun flows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfgPath, debug, func(a *app) error {
				registry, err := a.loadRegistry()
				if err != nil {
					return err
				}

				flows := registry.Flows()
				if len(flows) == 0 {
					fmt.Println("No autorun flows registered.")
					return nil
				}

				cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("#67e8f9")).Bold(true)
				muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
				red := lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))

				fmt.Println()
				for _, flowPath := range flows {
					state := describeRegistered(a.store, flowPath)
					line := fmt.Sprintf("  %s  %s", cyan.Render(padRight(flowPath, 40)), muted.Render(state))
					if state == "missing" || state == "invalid" {
						line = fmt.Sprintf("  %s  %s", cyan.Render(padRight(flowPath, 40)), red.Render(state))
					}
					fmt.Println(line)
				}
				fmt.Println()
				return nil
			})
		},
	}
}

// describeRegistered summarizes a registered flow's current state
// without running it.
func describeRegistered(store vault.Store, flowPath string) string {
	info, ok := store.Stat(flowPath)
	if !ok || info.Kind != vault.KindFile {
		return "missing"
	}
	text, err := store.Read(flowPath)
	if err != nil {
		return "missing"
	}
	def, err := flow.Parse(text)
	if err != nil {
		return "invalid"
	}
	if def.LastRun == "" {
		return "never ran"
	}
	return "last ran " + def.LastRun
}

func newAutorunSweepCmd(cfgPath *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run every registered flow that is due today",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfgPath, debug, func(a *app) error {
				r, cleanup, err := a.buildRunner(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()

				sweeper := schedule.NewSweeper(a.store, r, r.Registry(),
					errlog.NewFileSink(a.dataPath(paths.ErrorLogName)),
					a.notifier,
					schedule.WithLogger(a.logger),
				)

				results := sweeper.Sweep(cmd.Context())
				outputSweepResults(results)
				return nil
			})
		},
	}
}

func outputSweepResults(results []schedule.Result) {
	if len(results) == 0 {
		fmt.Println("No autorun flows registered.")
		return
	}

	green := lipgloss.NewStyle().Foreground(lipgloss.Color("#34d399"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))

	fmt.Println()
	for _, res := range results {
		var outcome string
		switch res.Outcome {
		case schedule.OutcomeRan:
			outcome = green.Render("ran")
		case schedule.OutcomeSkipped:
			outcome = muted.Render("skipped")
		default:
			outcome = red.Render(string(res.Outcome))
		}

		line := fmt.Sprintf("  %s  %s", padRight(res.Path, 40), outcome)
		if res.Err != nil {
			line += muted.Render("  " + truncate(res.Err.Error(), 60))
		}
		fmt.Println(line)
	}
	fmt.Println()
}
