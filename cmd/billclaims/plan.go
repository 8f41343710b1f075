package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyeh/billclaims/internal/exitcode"
	"github.com/gyeh/billclaims/internal/logging"
	"github.com/gyeh/billclaims/internal/normalize"
	"github.com/gyeh/billclaims/internal/recordset"
	"github.com/gyeh/billclaims/internal/sheetread"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and stats (no engine, no writes)",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&cfg.FilePath, "file", "", "Path to a billing .xlsx or claims .zip (required)")
	_ = planCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	sha, err := normalize.FileHash(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash file")
		os.Exit(exitcode.ReadError)
	}
	stat, err := os.Stat(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to stat file")
		os.Exit(exitcode.ReadError)
	}

	fmt.Println("=== billclaims plan ===")
	fmt.Printf("File:       %s\n", cfg.FilePath)
	fmt.Printf("SHA-256:    %s\n", sha)
	fmt.Printf("Size:       %d bytes\n", stat.Size())

	valid := true
	if strings.EqualFold(filepath.Ext(cfg.FilePath), ".xlsx") {
		wb, err := sheetread.Open(cfg.FilePath)
		if err != nil {
			log.Error().Err(err).Msg("failed to open workbook")
			os.Exit(exitcode.ReadError)
		}
		defer wb.Close()

		d, err := wb.ReadBilling()
		if err != nil {
			log.Error().Err(err).Msg("schema validation failed")
			os.Exit(exitcode.ValidationError)
		}
		fmt.Println("Kind:       billing workbook")
		valid = planData(d)
	} else {
		members, err := sheetread.OpenArchive(cfg.FilePath)
		if err != nil {
			log.Error().Err(err).Msg("failed to open archive")
			os.Exit(exitcode.ReadError)
		}
		fmt.Println("Kind:       claims archive")
		fmt.Printf("Workbooks:  %d\n", len(members))
		if len(members) == 0 {
			fmt.Println("Schema validation: FAILED (no .xlsx workbooks)")
			os.Exit(exitcode.ValidationError)
		}
		for _, m := range members {
			fmt.Printf("\n--- %s ---\n", m.Name)
			wb, err := m.Open()
			if err != nil {
				fmt.Printf("  unreadable: %v\n", err)
				valid = false
				continue
			}
			d, err := wb.ReadClaims()
			wb.Close()
			if err != nil {
				fmt.Printf("  %v\n", err)
				valid = false
				continue
			}
			valid = planData(d) && valid
		}
	}

	if !valid {
		fmt.Println("\nSchema validation: FAILED")
		os.Exit(exitcode.ValidationError)
	}
	fmt.Println("\nSchema validation: OK")
	return nil
}

// planData prints row and patient counts for one workbook and reports
// whether every row parsed.
func planData(d *sheetread.Data) bool {
	rs := recordset.New(d.Input())
	fmt.Printf("  Rows read:     %d\n", d.RowsRead)
	fmt.Printf("  Charge lines:  %d\n", len(d.Charges))
	fmt.Printf("  Patients:      %d with charges, %d with patient info\n",
		len(rs.ChargeIdentifiers()), len(rs.PatientIdentifiers()))
	if orphans := rs.Orphans(); len(orphans) > 0 {
		fmt.Printf("  Without info:  %s\n", strings.Join(orphans, ", "))
	}
	for _, re := range d.RowErrors {
		fmt.Printf("  row error: %v\n", re)
	}
	return len(d.RowErrors) == 0
}
