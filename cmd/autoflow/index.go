package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/notesmith/autoflow/internal/openai"
	"github.com/notesmith/autoflow/internal/paths"
)

func newIndexCmd(cfgPath *string, debug *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage the embedding cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return newIndexStatusCmd(cfgPath, debug).RunE(cmd, args)
		},
	}

	cmd.AddCommand(
		newIndexRebuildCmd(cfgPath, debug),
		newIndexStatusCmd(cfgPath, debug),
		newIndexClearCmd(cfgPath, debug),
	)

	return cmd
}

func newIndexRebuildCmd(cfgPath *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild [folder]",
		Short: "Re-embed changed documents and prune deleted ones",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfgPath, debug, func(a *app) error {
				folder := ""
				if len(args) > 0 {
					folder = vaultPath(args[0])
				}

				idx, err := a.loadIndex()
				if err != nil {
					return err
				}

				embedder := openai.NewEmbedder(a.client(), a.cfg.EmbeddingModel)
				changed, err := idx.Rebuild(cmd.Context(), a.store, embedder, folder)
				if err != nil {
					return fmt.Errorf("rebuild index: %w", err)
				}

				a.notifier.Notice("embedded %d documents, %d indexed", changed, idx.Len())
				return nil
			})
		},
	}
}

func newIndexStatusCmd(cfgPath *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how many documents are indexed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfgPath, debug, func(a *app) error {
				idx, err := a.loadIndex()
				if err != nil {
					return err
				}

				muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
				fmt.Printf("%d documents indexed %s\n", idx.Len(),
					muted.Render("("+a.dataPath(paths.IndexName)+")"))
				return nil
			})
		},
	}
}

func newIndexClearCmd(cfgPath *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached embedding",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfgPath, debug, func(a *app) error {
				idx, err := a.loadIndex()
				if err != nil {
					return err
				}

				dropped := idx.Len()
				idx.Clear()
				if err := idx.Save(); err != nil {
					return fmt.Errorf("clear index: %w", err)
				}

				a.notifier.Notice("dropped %d cached embeddings", dropped)
				return nil
			})
		},
	}
}
