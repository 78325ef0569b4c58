package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aretw0/femtree"
	"github.com/aretw0/femtree/internal/cli"
	"github.com/aretw0/femtree/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <project> <parent> <type> <tag> [key=value...]",
	Short: "Create a node under parent",
	Long: `Creates a node of the given type under the node at parent ("/" for the model root).
Constructor attributes are given as key=value pairs; quantities take units, e.g. a="20 mm".
Use --at to insert at a position instead of appending.`,
	Example: `  femtree add pp comp/geom rectangle r2 a="10 mm" b="5 mm"
  femtree add pp / study std2 physics_tag=cfd --at 1`,
	Args: cobra.MinimumNArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := cli.ParseArgs(args[4:])
		if err != nil {
			return err
		}
		project, parent, typeName, tag := args[0], args[1], args[2], args[3]
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			var view *femtree.NodeView
			if cmd.Flags().Changed("at") {
				pos, _ := cmd.Flags().GetInt("at")
				view, err = app.Engine.Insert(ctx, project, parent, pos, typeName, tag, attrs)
			} else {
				view, err = app.Engine.Create(ctx, project, parent, typeName, tag, attrs)
			}
			if err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "created %s (%s) at row %d", view.Path, view.Name, view.Row)
			return nil
		})
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <project> <path>",
	Short: "Remove a node and its subtree",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			parent, err := app.Engine.Remove(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "removed %s, %s has %d children", args[1], displayPath(parent.Path), len(parent.Children))
			return nil
		})
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv <project> <path> <position>",
	Short: "Move a node among its siblings",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("position: %w", err)
		}
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			view, err := app.Engine.Move(ctx, args[0], args[1], pos)
			if err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "moved %s to row %d", view.Path, view.Row)
			return nil
		})
	},
}

var setCmd = &cobra.Command{
	Use:   "set <project> <path> key=value...",
	Short: "Set attribute values of a node",
	Long: `Applies attribute values to the node at path. Every value is validated first;
either all of them are applied or none is. "key=null" unsets an optional attribute.`,
	Example: `  femtree set pp comp/geom/r1 a="120 mm" corner_radius="1 mm"`,
	Args:    cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := cli.ParseArgs(args[2:])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			view, err := app.Engine.Apply(ctx, args[0], args[1], values)
			if err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "updated %s", displayPath(view.Path))
			return nil
		})
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <project> <path> <tag>",
	Short: "Change the tag of a node",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			view, err := app.Engine.Rename(ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "renamed %s to %s", displayPath(args[1]), displayPath(view.Path))
			return nil
		})
	},
}

func displayPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().Int("at", 0, "Insert at this child position")

	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(renameCmd)
}
