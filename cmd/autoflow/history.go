package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/notesmith/autoflow/internal/history"
	"github.com/notesmith/autoflow/internal/paths"
)

func newHistoryCmd(cfgPath *string, debug *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past flow runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return newHistoryListCmd(cfgPath, debug).RunE(cmd, args)
		},
	}

	cmd.AddCommand(
		newHistoryListCmd(cfgPath, debug),
		newHistoryShowCmd(cfgPath, debug),
		newHistoryPruneCmd(cfgPath, debug),
	)

	return cmd
}

// withHistory opens the run-history database for the duration of fn.
func withHistory(a *app, ctx context.Context, fn func(svc *history.Service) error) error {
	db, err := history.Connect(ctx, a.dataPath(paths.HistoryName))
	if err != nil {
		return fmt.Errorf("open run history: %w", err)
	}
	defer db.Close()
	return fn(history.NewService(db))
}

func newHistoryListCmd(cfgPath *string, debug *bool) *cobra.Command {
	var (
		flowName   string
		status     string
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfgPath, debug, func(a *app) error {
				return withHistory(a, cmd.Context(), func(svc *history.Service) error {
					runs, err := svc.List(cmd.Context(), history.Filter{
						FlowName: flowName,
						Status:   history.RunStatus(status),
						Limit:    limit,
					})
					if err != nil {
						return err
					}

					if jsonOutput {
						enc := json.NewEncoder(os.Stdout)
						enc.SetIndent("", "  ")
						return enc.Encode(runs)
					}

					outputRunsTable(runs)
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&flowName, "flow", "", "only runs of this flow")
	cmd.Flags().StringVar(&status, "status", "", "only runs with this status (running, success, failed)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum runs to list (default 50)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

func newHistoryShowCmd(cfgPath *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run, by full ID or unique prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfgPath, debug, func(a *app) error {
				return withHistory(a, cmd.Context(), func(svc *history.Service) error {
					run, err := svc.Get(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					outputRunDetail(run)
					return nil
				})
			})
		},
	}
}

func newHistoryPruneCmd(cfgPath *string, debug *bool) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete finished runs older than a cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfgPath, debug, func(a *app) error {
				return withHistory(a, cmd.Context(), func(svc *history.Service) error {
					pruned, err := svc.Prune(cmd.Context(), olderThan)
					if err != nil {
						return err
					}
					a.notifier.Notice("pruned %d runs", pruned)
					return nil
				})
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "delete runs older than this")

	return cmd
}

func outputRunsTable(runs []history.Run) {
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}

	purple := lipgloss.Color("#a78bfa")
	cyan := lipgloss.Color("#67e8f9")
	muted := lipgloss.Color("#6b7280")

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(purple)
	idStyle := lipgloss.NewStyle().Foreground(cyan)
	mutedStyle := lipgloss.NewStyle().Foreground(muted)

	flowWidth := 4
	for _, run := range runs {
		if len(run.FlowName) > flowWidth {
			flowWidth = len(run.FlowName)
		}
	}
	if flowWidth > 30 {
		flowWidth = 30
	}

	fmt.Println()
	fmt.Printf("  %s  %s  %s  %s  %s  %s\n",
		headerStyle.Render(padRight("ID", 10)),
		headerStyle.Render(padRight("FLOW", flowWidth)),
		headerStyle.Render(padRight("STATUS", 8)),
		headerStyle.Render(padRight("TRIGGER", 8)),
		headerStyle.Render(padRight("STARTED", 16)),
		headerStyle.Render("DURATION"),
	)

	for _, run := range runs {
		duration := "-"
		if run.Finished() {
			duration = formatDuration(run.Duration)
		}

		fmt.Printf("  %s  %s  %s  %s  %s  %s\n",
			idStyle.Render(padRight(truncate(run.ID, 10), 10)),
			padRight(truncate(run.FlowName, flowWidth), flowWidth),
			renderStatus(run.Status, 8),
			mutedStyle.Render(padRight(run.TriggeredBy, 8)),
			mutedStyle.Render(padRight(run.StartedAt.Local().Format("2006-01-02 15:04"), 16)),
			mutedStyle.Render(duration),
		)
	}
	fmt.Println()
}

func renderStatus(status history.RunStatus, width int) string {
	s := padRight(string(status), width)
	switch status {
	case history.StatusSuccess:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#34d399")).Render(s)
	case history.StatusFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Render(s)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#67e8f9")).Render(s)
	}
}

func outputRunDetail(run *history.Run) {
	purple := lipgloss.NewStyle().Foreground(lipgloss.Color("#a78bfa")).Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))

	fmt.Println()
	fmt.Printf("  %s %s\n", purple.Render("run"), run.ID)
	fmt.Printf("  %s %s %s\n", purple.Render("flow"), run.FlowName, muted.Render("("+run.FlowPath+")"))
	fmt.Printf("  %s %s\n", purple.Render("status"), renderStatus(run.Status, 0))
	fmt.Printf("  %s %s\n", purple.Render("trigger"), run.TriggeredBy)
	fmt.Printf("  %s %s\n", purple.Render("session"), run.SessionID)
	fmt.Printf("  %s %s\n", purple.Render("started"), run.StartedAt.Local().Format(time.RFC1123))
	if run.Finished() {
		fmt.Printf("  %s %s\n", purple.Render("duration"), formatDuration(run.Duration))
	}
	if run.Error != "" {
		fmt.Printf("  %s %s\n", purple.Render("error"), run.Error)
	}
	fmt.Println()
}
