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

var billCmd = &cobra.Command{
	Use:   "bill",
	Short: "Compute patient bills from a billing workbook",
	RunE:  runBill,
}

func init() {
	f := billCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to the billing .xlsx workbook (required)")
	f.StringVar(&cfg.OutDir, "out", "", "Directory for Billing_Summary.csv (default: no CSV)")
	f.StringVar(&cfg.ParquetOut, "parquet-out", "", "Write per-patient totals to this Parquet file")
	f.BoolVar(&cfg.Force, "force", false, "Persist even if this file was already loaded")
	_ = billCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(billCmd)
}

func runBill(cmd *cobra.Command, args []string) error {
	log, engine, closer := setup()
	defer closer.Close()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	store := openStore(ctx, log)
	if skipAlreadyLoaded(ctx, store, log, "billing") {
		return nil
	}

	batch, err := process.RunBilling(ctx, log, engine, process.FromPath(cfg.FilePath))
	if err != nil {
		exitForPipeline(log, "billing", err)
	}

	if err := report.WriteBilling(os.Stdout, batch); err != nil {
		exitForPipeline(log, "billing", &process.PipelineError{Phase: process.PhaseReport, Err: err})
	}
	if cfg.OutDir != "" {
		path, err := report.WriteBillingFiles(cfg.OutDir, batch)
		if err != nil {
			exitForPipeline(log, "billing", &process.PipelineError{Phase: process.PhaseReport, Err: err})
		}
		log.Info().Str("path", path).Msg("billing summary written")
	}
	if cfg.ParquetOut != "" {
		if err := report.WriteParquet(cfg.ParquetOut, batch.Rows()); err != nil {
			exitForPipeline(log, "billing", &process.PipelineError{Phase: process.PhaseReport, Err: err})
		}
		log.Info().Str("path", cfg.ParquetOut).Msg("parquet export written")
	}

	if store != nil {
		start := time.Now()
		if err := store.SaveBilling(ctx, batch); err != nil {
			exitForPipeline(log, "billing", &process.PipelineError{Phase: process.PhasePersist, Err: err})
		}
		batch.Summary.DurationPersist = time.Since(start)
	}

	sum := batch.Summary
	fmt.Fprintf(os.Stderr, "Billing complete: %d patients billed, %d failed, %d duplicates dropped (%.1fs)\n",
		sum.PatientsProcessed, sum.PatientsFailed, sum.DuplicatesDropped, sum.DurationTotal.Seconds())
	if batch.Partial() {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}
