// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-intel/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes the four flows over HTTP:

  GET  /health
  POST /paper/from-arxiv   {"arxiv_id"}
  POST /paper/similarity   {"arxiv_id", "query"}
  POST /paper/related      {"arxiv_id", "query"}
  POST /paper/chat         {"arxiv_id", "query"}

The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg.Server
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	return server.New(a.service, cfg, a.log).Run(ctx)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")

	rootCmd.AddCommand(serveCmd)
}
