package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/billclaims/internal/billing"
	"github.com/gyeh/billclaims/internal/config"
	"github.com/gyeh/billclaims/internal/db"
	"github.com/gyeh/billclaims/internal/exitcode"
	"github.com/gyeh/billclaims/internal/logging"
	"github.com/gyeh/billclaims/internal/normalize"
	"github.com/gyeh/billclaims/internal/process"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "billclaims",
	Short: "Hospital billing and insurance claim adjudication",
	Long: "Computes patient bills from itemized charge workbooks and simulates insurance " +
		"pre-authorization for claims archives.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("BILLCLAIMS_DB_URL"), "Postgres connection string (or set BILLCLAIMS_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.AuditLog, "audit-log", "", "Append JSON audit events to this file")
	pf.StringVar(&cfg.PolicyPath, "policy", "", "YAML pre-authorization policy file (default: built-in policy)")
	pf.Uint64Var(&cfg.Seed, "seed", 0, "Seed for Required-rule approvals (0 seeds from the clock)")
}

// setup builds the logger and engine shared by every command. The returned
// closer releases the audit log.
func setup() (zerolog.Logger, *billing.Engine, io.Closer) {
	log, closer, err := logging.WithAudit(logging.Setup(cfg.LogFormat), cfg.LogFormat, cfg.AuditLog)
	if err != nil {
		log.Error().Err(err).Msg("audit log unavailable")
		os.Exit(exitcode.UsageError)
	}

	policy, err := cfg.ResolvePolicy()
	if err != nil {
		log.Error().Err(err).Msg("policy load failed")
		os.Exit(exitcode.UsageError)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Debug().Uint64("seed", seed).Msg("decider seeded")
	return log, billing.NewEngine(policy, billing.NewRandomDecider(seed, policy.ApprovalProbability())), closer
}

// openStore connects when a DSN is configured. A nil store means results
// are not persisted.
func openStore(ctx context.Context, log zerolog.Logger) *db.Store {
	if cfg.DSN == "" {
		return nil
	}
	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	return db.NewStore(pool, log)
}

// exitForPipeline logs err and exits with the code matching its phase.
func exitForPipeline(log zerolog.Logger, what string, err error) {
	var pe *process.PipelineError
	if errors.As(err, &pe) {
		log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg(what + " failed")
		switch pe.Phase {
		case process.PhaseValidate:
			os.Exit(exitcode.ValidationError)
		case process.PhasePersist:
			os.Exit(exitcode.PersistError)
		case process.PhaseReport:
			os.Exit(exitcode.ReportError)
		default:
			os.Exit(exitcode.ReadError)
		}
	}
	log.Error().Err(err).Msg(what + " failed")
	os.Exit(exitcode.ReadError)
}

// skipAlreadyLoaded reports whether a file with the same hash was already
// persisted, in which case the command prints a notice and does nothing.
func skipAlreadyLoaded(ctx context.Context, store *db.Store, log zerolog.Logger, kind string) bool {
	if store == nil || cfg.Force {
		return false
	}
	sha, err := normalize.FileHash(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash file")
		os.Exit(exitcode.ReadError)
	}
	id, ok, err := store.FindRunBySHA(ctx, kind, sha)
	if err != nil {
		log.Error().Err(err).Msg("run lookup failed")
		os.Exit(exitcode.DBConnError)
	}
	if ok {
		fmt.Printf("File already loaded as run %s (use --force to reload)\n", id)
	}
	return ok
}
