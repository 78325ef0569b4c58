package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/femtree/internal/cli"
	"github.com/aretw0/femtree/internal/presentation/tui"
	"github.com/aretw0/femtree/pkg/fem"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <project>",
	Short: "Create an empty project",
	Long:  `Creates a project holding only the model root. The root is tagged after the project unless --root-tag is given.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootTag, _ := cmd.Flags().GetString("root-tag")
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			view, err := app.Engine.NewProject(ctx, args[0], rootTag)
			if err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "created project %s (model %s)", args[0], view.Tag)
			return nil
		})
	},
}

var templateCmd = &cobra.Command{
	Use:   "template <template> <project>",
	Short: "Create a project from a model template",
	Long:  `Creates a project from one of the built-in channel flow templates. Use --list to see them.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			for _, name := range templateNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			view, err := app.Engine.FromTemplate(ctx, args[1], args[0], overwrite)
			if err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "created project %s from %s (%d top level nodes)", args[1], args[0], len(view.Children))
			return nil
		})
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the stored projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			names, err := app.Engine.Projects(ctx)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <project>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			if err := app.Engine.DeleteProject(ctx, args[0]); err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "deleted project %s", args[0])
			return nil
		})
	},
}

func templateNames() []string {
	names := make([]string, 0, len(fem.Templates))
	for name := range fem.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("root-tag", "", "Tag of the model root (defaults to the project name)")

	rootCmd.AddCommand(templateCmd)
	templateCmd.Flags().Bool("list", false, "List the available templates")
	templateCmd.Flags().Bool("overwrite", false, "Replace an existing project")

	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(deleteCmd)
}
