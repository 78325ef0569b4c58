package main

import (
	"context"

	"github.com/aretw0/femtree/internal/cli"
	"github.com/aretw0/femtree/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var meshCmd = &cobra.Command{
	Use:   "mesh <project> <mesh-path>",
	Short: "Triangulate the geometry referenced by a mesh node",
	Long:  `Builds the geometry named by the mesh node's geom_tag and triangulates it at the mesh resolution.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			stats, err := app.Engine.Mesh(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "%s: %s", args[1], stats)
			return nil
		})
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve <project> <study-path>",
	Short: "Run the solver program registered for a study",
	Long: `Hands the model and the study to the external program configured for the
study's solver type (the solvers section of femtree.yaml).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			if err := app.Engine.Solve(ctx, args[0], args[1]); err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "study %s solved", args[1])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(meshCmd)
	rootCmd.AddCommand(solveCmd)
}
