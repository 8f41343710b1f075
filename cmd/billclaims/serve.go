package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gyeh/billclaims/internal/api"
	"github.com/gyeh/billclaims/internal/db"
	"github.com/gyeh/billclaims/internal/exitcode"
)

var _ api.Persister = (*db.Store)(nil)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the billing and claims upload API",
	RunE:  runServe,
}

func init() {
	addr := ":5000"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	serveCmd.Flags().StringVar(&cfg.Addr, "addr", addr, "Listen address (default :$PORT or :5000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log, engine, closer := setup()
	defer closer.Close()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store api.Persister
	if s := openStore(ctx, log); s != nil {
		store = s
	}

	e := api.NewServer(api.NewHandler(engine, store, log), log)
	if err := api.Serve(ctx, e, cfg.Addr, log); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(exitcode.UsageError)
	}
	return nil
}
