package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/notesmith/autoflow/internal/flow"
)

func newValidateCmd(cfgPath *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <flow-path>",
		Short: "Check that a flow parses and its prompt files exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfgPath, debug, func(a *app) error {
				return validateFlow(a, vaultPath(args[0]))
			})
		},
	}
}

func validateFlow(a *app, flowPath string) error {
	text, err := a.store.Read(flowPath)
	if err != nil {
		return fmt.Errorf("read flow: %w", err)
	}

	def, err := flow.Parse(text)
	if err == nil {
		err = flow.ValidatePromptFiles(def, a.store)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", flowPath, err)
	}

	green := lipgloss.NewStyle().Foreground(lipgloss.Color("#34d399"))
	fmt.Printf("%s %s is valid (%d steps)\n", green.Render("✓"), def.Name, len(def.Steps))
	return nil
}
