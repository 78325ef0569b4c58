package main

import (
	"context"
	"os"

	"github.com/aretw0/femtree/internal/cli"
	"github.com/aretw0/femtree/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "femtree",
	Short: "femtree edits finite element model trees",
	Long: `femtree builds and edits the typed model tree of a CFD/FEM project:
components, geometry, mesh, materials, physics, studies and results.
Projects are stored as archives in the configured store.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path of the configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("store-dir", "", "Directory of the file store (overrides the configuration)")
}

// withApp loads the configuration, builds the App and runs fn with a
// context cancelled on SIGINT or SIGTERM.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *cli.App) error) error {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	storeDir, _ := cmd.Flags().GetString("store-dir")

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if storeDir != "" {
		cfg.Store.Dir = storeDir
	}

	app, err := cli.NewApp(cfg, cli.Options{Debug: debug, SolverOutput: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := cli.WithInterrupt(cmd.Context())
	defer stop()
	return fn(ctx, app)
}
