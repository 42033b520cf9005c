package main

import (
	"github.com/spf13/cobra"

	"github.com/notesmith/autoflow/internal/runner"
)

func newRunCmd(cfgPath *string, debug *bool) *cobra.Command {
	var validateOnly bool

	cmd := &cobra.Command{
		Use:   "run <flow-path>",
		Short: "Execute a flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfgPath, debug, func(a *app) error {
				flowPath := vaultPath(args[0])
				if validateOnly {
					return validateFlow(a, flowPath)
				}

				r, cleanup, err := a.buildRunner(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()

				return r.Run(cmd.Context(), flowPath, runner.TriggerManual)
			})
		},
	}

	cmd.Flags().BoolVar(&validateOnly, "validate", false, "parse and validate without executing")

	return cmd
}
