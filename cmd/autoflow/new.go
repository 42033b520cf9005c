package main

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"
)

const starterFlow = `autoflow
name: %s
description: Describe what this flow does
steps:

- type: search
  sourceFolder: notes
  query: what to look for

- type: transform
  prompt: Summarize the following notes in a few bullet points.

- type: write
  targetFile: summaries/{{date}}.md
`

func newNewCmd(cfgPath *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "new <flow-path>",
		Short: "Create a starter flow file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfgPath, debug, func(a *app) error {
				flowPath := vaultPath(args[0])
				if path.Ext(flowPath) == "" {
					flowPath += ".md"
				}

				if dir := path.Dir(flowPath); dir != "." && dir != "/" {
					if err := a.store.MkdirAll(dir); err != nil {
						return fmt.Errorf("create flow folder: %w", err)
					}
				}

				name := strings.TrimSuffix(path.Base(flowPath), path.Ext(flowPath))
				if err := a.store.Create(flowPath, fmt.Sprintf(starterFlow, name)); err != nil {
					return fmt.Errorf("create flow: %w", err)
				}

				a.notifier.Notice("created %s", flowPath)
				return nil
			})
		},
	}
}
