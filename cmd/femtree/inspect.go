package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/femtree/internal/cli"
	"github.com/aretw0/femtree/internal/presentation/graph"
	"github.com/aretw0/femtree/internal/presentation/tui"
	"github.com/aretw0/femtree/internal/validator"
	"github.com/aretw0/femtree/pkg/tree"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <project> [path]",
	Short: "Show the tree of a project or the details of a node",
	Long: `Prints a markdown outline of the project tree, rendered when stdout is a terminal.
With a path, prints the attributes of that node followed by the outline of its subtree.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, _ := cmd.Flags().GetBool("attrs")
		asJSON, _ := cmd.Flags().GetBool("json")
		path := ""
		if len(args) > 1 {
			path = args[1]
		}
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			if asJSON {
				view, err := app.Engine.Snapshot(ctx, args[0], path)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}

			var md string
			err := app.Engine.View(ctx, args[0], func(m *tree.ModelTree) error {
				n, err := m.FindPath(path)
				if err != nil {
					return err
				}
				if path == "" {
					md = tui.Outline(n, attrs)
				} else {
					md = tui.Details(n) + "\n" + tui.Outline(n, attrs)
				}
				return nil
			})
			if err != nil {
				return err
			}
			return tui.Print(cmd.OutOrStdout(), md)
		})
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph <project> [path]",
	Short: "Export the tree as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph TD) of the project tree, or of the subtree at path.
With --overlay, nodes with validation issues are highlighted and --select marks one node.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		withOverlay, _ := cmd.Flags().GetBool("overlay")
		selected, _ := cmd.Flags().GetString("select")
		path := ""
		if len(args) > 1 {
			path = args[1]
		}
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			var out string
			err := app.Engine.View(ctx, args[0], func(m *tree.ModelTree) error {
				n, err := m.FindPath(path)
				if err != nil {
					return err
				}
				var overlay *graph.Overlay
				if withOverlay || selected != "" {
					overlay = &graph.Overlay{}
					if sel, ok := relative(path, selected); ok && selected != "" {
						overlay.Selected = sel
					}
					if withOverlay {
						overlay.Issues = relativeIssues(path, validator.Validate(m))
					}
				}
				out = graph.GenerateMermaid(n, overlay)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <project>",
	Short: "Check the references between nodes",
	Long:  `Checks mesh geometry references, study physics references, component layout and material selections.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			issues, err := app.Engine.Validate(ctx, args[0])
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				tui.Success(cmd.OutOrStdout(), "project %s is valid", args[0])
				return nil
			}
			for _, issue := range issues {
				tui.Warning(cmd.OutOrStdout(), "%s", issue)
			}
			return fmt.Errorf("%w: %d issues", validator.ErrInvalidModel, len(issues))
		})
	},
}

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the entity types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			kinds := app.Engine.Kinds()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(kinds)
			}

			var sb strings.Builder
			sb.WriteString("| type | kind | children | attributes |\n|---|---|---|---|\n")
			for _, k := range kinds {
				props := make([]string, 0, len(k.Properties))
				for _, p := range k.Properties {
					s := p.Name + ": " + p.Type
					if p.ReadOnly {
						s += " (read-only)"
					}
					props = append(props, s)
				}
				fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", k.Name, k.Kind, strings.Join(k.Children, ", "), strings.Join(props, "<br>"))
			}
			return tui.Print(cmd.OutOrStdout(), sb.String())
		})
	},
}

// relative makes a path given from the model root relative to base. It
// reports false when path is outside base.
func relative(base, path string) (string, bool) {
	base, path = strings.Trim(base, "/"), strings.Trim(path, "/")
	switch {
	case base == "":
		return path, true
	case path == base:
		return "", true
	}
	return strings.CutPrefix(path, base+"/")
}

func relativeIssues(base string, issues []validator.Issue) []validator.Issue {
	var out []validator.Issue
	for _, issue := range issues {
		if p, ok := relative(base, issue.Path); ok {
			out = append(out, validator.Issue{Path: p, Message: issue.Message})
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("attrs", false, "Include attribute values in the outline")
	showCmd.Flags().Bool("json", false, "Print the node view as JSON")

	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("overlay", false, "Highlight nodes with validation issues")
	graphCmd.Flags().String("select", "", "Path of a node to highlight")

	rootCmd.AddCommand(validateCmd)

	rootCmd.AddCommand(kindsCmd)
	kindsCmd.Flags().Bool("json", false, "Print the kinds as JSON")
}
