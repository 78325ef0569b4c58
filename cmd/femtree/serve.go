package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/femtree/internal/cli"
	"github.com/aretw0/femtree/internal/presentation/tui"
	femhttp "github.com/aretw0/femtree/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves the projects of the configured store as a JSON API, with mutation events over SSE and Prometheus metrics.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			port := app.Config.Server.Port
			if cmd.Flags().Changed("port") {
				port, _ = cmd.Flags().GetInt("port")
			}

			handler := femhttp.NewHandler(app.Engine,
				femhttp.WithStreams(app.Streams),
				femhttp.WithMetrics(app.Metrics),
				femhttp.WithLogger(app.Logger),
			)
			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", port),
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				serverErrors <- srv.ListenAndServe()
			}()
			if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
				tui.PrintBanner(cmd.OutOrStdout())
			}
			app.Logger.Info("HTTP server listening", "address", srv.Addr, "store", app.Config.Store.Backend)

			select {
			case err := <-serverErrors:
				return fmt.Errorf("server error: %w", err)
			case <-ctx.Done():
				app.Logger.Info("shutdown signal received", "signal", cli.Interrupted(ctx))

				// Give outstanding requests a deadline for completion.
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					app.Logger.Warn("graceful shutdown did not complete", "err", err)
					if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return fmt.Errorf("error killing server: %w", err)
					}
				}
				app.Logger.Info("HTTP server stopped")
				return nil
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides server.port)")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
