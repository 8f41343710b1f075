package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/billclaims/internal/exitcode"
	"github.com/gyeh/billclaims/internal/process"
	"github.com/gyeh/billclaims/internal/report"
)

var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "Adjudicate insurance claims from a ZIP of claims workbooks",
	RunE:  runClaims,
}

func init() {
	f := claimsCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to the claims .zip archive or a single .xlsx workbook (required)")
	f.StringVar(&cfg.OutDir, "out", "claims_output", "Directory for per-patient reports and the summary CSV")
	f.StringVar(&cfg.ParquetOut, "parquet-out", "", "Write per-patient claim summaries to this Parquet file")
	f.BoolVar(&cfg.Force, "force", false, "Persist even if this file was already loaded")
	_ = claimsCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(claimsCmd)
}

func runClaims(cmd *cobra.Command, args []string) error {
	log, engine, closer := setup()
	defer closer.Close()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	store := openStore(ctx, log)
	if skipAlreadyLoaded(ctx, store, log, "claims") {
		return nil
	}

	batch, err := process.RunClaims(ctx, log, engine, process.FromPath(cfg.FilePath))
	if err != nil {
		exitForPipeline(log, "claims", err)
	}

	written, err := report.WriteClaimFiles(cfg.OutDir, batch)
	if err != nil {
		exitForPipeline(log, "claims", &process.PipelineError{Phase: process.PhaseReport, Err: err})
	}
	for _, path := range written {
		fmt.Println(path)
	}
	if cfg.ParquetOut != "" {
		if err := report.WriteParquet(cfg.ParquetOut, batch.SummaryRows()); err != nil {
			exitForPipeline(log, "claims", &process.PipelineError{Phase: process.PhaseReport, Err: err})
		}
		log.Info().Str("path", cfg.ParquetOut).Msg("parquet export written")
	}

	if store != nil {
		start := time.Now()
		if err := store.SaveClaims(ctx, batch); err != nil {
			exitForPipeline(log, "claims", &process.PipelineError{Phase: process.PhasePersist, Err: err})
		}
		batch.Summary.DurationPersist = time.Since(start)
	}

	sum := batch.Summary
	fmt.Fprintf(os.Stderr, "Claims complete: %d workbooks, %d patients adjudicated, %d failed (%.1fs)\n",
		sum.Workbooks, sum.PatientsProcessed, len(batch.Failures), sum.DurationTotal.Seconds())
	if batch.Partial() {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}
