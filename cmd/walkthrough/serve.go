package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/walkthrough/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves walkthrough sessions over a JSON API with live updates over SSE.
The contract is published at /openapi.yaml and Prometheus metrics at /metrics.
Use --capture inbox to let browser clients upload their own frames.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd, false)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cli.Serve(ctx, app, app.Config.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on (or $WALKTHROUGH_ADDR)")
}
