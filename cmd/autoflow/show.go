package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/notesmith/autoflow/internal/engine"
	"github.com/notesmith/autoflow/internal/flow"
)

func newShowCmd(cfgPath *string, debug *bool) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <flow-path>",
		Short: "Show a flow's metadata and steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfgPath, debug, func(a *app) error {
				flowPath := vaultPath(args[0])

				text, err := a.store.Read(flowPath)
				if err != nil {
					return fmt.Errorf("read flow: %w", err)
				}
				def, err := flow.Parse(text)
				if err != nil {
					return fmt.Errorf("%s: %w", flowPath, err)
				}

				if jsonOutput {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(flowDetail(flowPath, def))
				}

				outputFlowDetail(flowPath, def)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

type stepDetail struct {
	Type         string `json:"type"`
	SourceFolder string `json:"source_folder,omitempty"`
	Query        string `json:"query,omitempty"`
	Prompt       string `json:"prompt,omitempty"`
	PromptFile   string `json:"prompt_file,omitempty"`
	TargetFile   string `json:"target_file,omitempty"`
}

type flowDetailListing struct {
	Path        string       `json:"path"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Autorun     bool         `json:"autorun"`
	LastRun     string       `json:"last_run,omitempty"`
	Steps       []stepDetail `json:"steps"`
}

func flowDetail(flowPath string, def *flow.FlowDefinition) flowDetailListing {
	d := flowDetailListing{
		Path:        flowPath,
		Name:        def.Name,
		Description: def.Description,
		Autorun:     def.Autorun.DueDaily(),
		LastRun:     def.LastRun,
	}
	for _, step := range def.Steps {
		switch s := step.(type) {
		case flow.SearchStep:
			d.Steps = append(d.Steps, stepDetail{Type: "search", SourceFolder: s.SourceFolder, Query: s.Query})
		case flow.TransformStep:
			d.Steps = append(d.Steps, stepDetail{Type: "transform", Prompt: s.Prompt, PromptFile: s.PromptFile})
		case flow.WriteStep:
			d.Steps = append(d.Steps, stepDetail{Type: "write", TargetFile: s.TargetFile})
		}
	}
	return d
}

func outputFlowDetail(flowPath string, def *flow.FlowDefinition) {
	purple := lipgloss.Color("#a78bfa")
	cyan := lipgloss.Color("#67e8f9")
	muted := lipgloss.Color("#6b7280")

	nameStyle := lipgloss.NewStyle().Foreground(cyan).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(purple).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(muted)

	fmt.Println()
	fmt.Printf("  %s %s\n", nameStyle.Render(def.Name), mutedStyle.Render("("+flowPath+")"))
	fmt.Printf("  %s\n\n", def.Description)

	if def.Autorun.DueDaily() {
		lastRun := "never"
		if def.LastRun != "" {
			lastRun = def.LastRun
		}
		fmt.Printf("  %s daily, last ran %s\n\n", labelStyle.Render("autorun:"), lastRun)
	}

	fmt.Printf("  %s\n", labelStyle.Render("steps:"))
	for i, step := range def.Steps {
		switch s := step.(type) {
		case flow.SearchStep:
			detail := "all documents"
			if s.SourceFolder != "" {
				detail = s.SourceFolder
			}
			if s.Query != "" {
				detail += mutedStyle.Render(" matching ") + fmt.Sprintf("%q", s.Query)
			}
			fmt.Printf("  %d. search %s\n", i+1, detail)
		case flow.TransformStep:
			if s.PromptFile != "" {
				fmt.Printf("  %d. transform with prompt file %s\n", i+1, s.PromptFile)
			} else {
				fmt.Printf("  %d. transform %s\n", i+1, mutedStyle.Render(truncate(s.Prompt, 60)))
			}
		case flow.WriteStep:
			target := s.TargetFile
			if resolved := engine.TargetPath(s, time.Now()); resolved != target {
				target += mutedStyle.Render(" (today: " + resolved + ")")
			}
			fmt.Printf("  %d. write %s\n", i+1, target)
		}
	}
	fmt.Println()
}
