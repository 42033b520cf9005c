package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/notesmith/autoflow/internal/flow"
)

// flowListing is one discovered flow file, parsed or not.
type flowListing struct {
	Path        string `json:"path"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Steps       int    `json:"steps,omitempty"`
	Autorun     bool   `json:"autorun,omitempty"`
	LastRun     string `json:"last_run,omitempty"`
	Error       string `json:"error,omitempty"`
}

func newListCmd(cfgPath *string, debug *bool) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list [folder]",
		Short: "List flow files in the vault",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfgPath, debug, func(a *app) error {
				folder := ""
				if len(args) > 0 {
					folder = vaultPath(args[0])
				}

				listings, err := discoverFlows(a, folder)
				if err != nil {
					return err
				}

				if jsonOutput {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(listings)
				}

				outputFlowsTable(listings)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

// discoverFlows scans the vault for files whose first significant
// line is the flow header, parsing each. A file that fails to parse
// is still listed, with its error.
func discoverFlows(a *app, folder string) ([]flowListing, error) {
	refs, err := a.store.List(folder)
	if err != nil {
		return nil, fmt.Errorf("scan vault: %w", err)
	}

	var listings []flowListing
	for _, ref := range refs {
		text, err := a.store.Read(ref.Path)
		if err != nil {
			continue
		}
		if !flow.IsFlow(text) {
			continue
		}

		l := flowListing{Path: ref.Path}
		def, err := flow.Parse(text)
		if err != nil {
			l.Error = err.Error()
		} else {
			l.Name = def.Name
			l.Description = def.Description
			l.Steps = len(def.Steps)
			l.Autorun = def.Autorun.DueDaily()
			l.LastRun = def.LastRun
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func outputFlowsTable(listings []flowListing) {
	if len(listings) == 0 {
		fmt.Println("No flows found.")
		return
	}

	purple := lipgloss.Color("#a78bfa")
	cyan := lipgloss.Color("#67e8f9")
	muted := lipgloss.Color("#6b7280")
	green := lipgloss.Color("#34d399")
	red := lipgloss.Color("#ef4444")

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(purple)
	pathStyle := lipgloss.NewStyle().Foreground(cyan).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(muted)
	autorunStyle := lipgloss.NewStyle().Foreground(green)
	errStyle := lipgloss.NewStyle().Foreground(red)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#e5e7eb"))

	pathWidth := 4
	nameWidth := 4
	for _, l := range listings {
		if len(l.Path) > pathWidth {
			pathWidth = len(l.Path)
		}
		if len(l.Name) > nameWidth {
			nameWidth = len(l.Name)
		}
	}
	if pathWidth > 40 {
		pathWidth = 40
	}
	if nameWidth > 30 {
		nameWidth = 30
	}

	fmt.Println()
	fmt.Printf("  %s  %s  %s  %s  %s\n",
		headerStyle.Render(padRight("PATH", pathWidth)),
		headerStyle.Render(padRight("NAME", nameWidth)),
		headerStyle.Render(padRight("STEPS", 5)),
		headerStyle.Render(padRight("AUTORUN", 14)),
		headerStyle.Render("DESCRIPTION"),
	)

	for _, l := range listings {
		if l.Error != "" {
			fmt.Printf("  %s  %s\n",
				pathStyle.Render(padRight(truncate(l.Path, pathWidth), pathWidth)),
				errStyle.Render("invalid: "+truncate(l.Error, 60)),
			)
			continue
		}

		autorun := mutedStyle.Render(padRight("-", 14))
		if l.Autorun {
			label := "daily"
			if l.LastRun != "" {
				label = "ran " + l.LastRun
			}
			autorun = autorunStyle.Render(padRight(label, 14))
		}

		fmt.Printf("  %s  %s  %s  %s  %s\n",
			pathStyle.Render(padRight(truncate(l.Path, pathWidth), pathWidth)),
			descStyle.Render(padRight(truncate(l.Name, nameWidth), nameWidth)),
			mutedStyle.Render(padRight(strconv.Itoa(l.Steps), 5)),
			autorun,
			descStyle.Render(truncate(l.Description, 50)),
		)
	}
	fmt.Println()
}
