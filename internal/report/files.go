package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gyeh/billclaims/internal/process"
)

// Output file names.
const (
	ClaimsSummaryFile  = "Insurance_Claims_Summary.csv"
	BillingSummaryFile = "Billing_Summary.csv"
)

// WriteClaimFiles writes <UHID>.txt for every adjudicated patient and the
// master claims CSV into dir, creating dir if needed. A UHID adjudicated in
// more than one workbook gets <UHID>_<workbook>.txt instead. It returns the
// paths written, CSV last.
func WriteClaimFiles(dir string, batch *process.ClaimsBatch) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	seen := make(map[string]int, len(batch.Results))
	for _, r := range batch.Results {
		seen[r.Identifier]++
	}

	var written []string
	for _, r := range batch.Results {
		name := FileName(r.Identifier)
		if seen[r.Identifier] > 1 {
			source := filepath.Base(r.SourceFile)
			name += "_" + FileName(strings.TrimSuffix(source, filepath.Ext(source)))
		}
		path := filepath.Join(dir, name+".txt")
		if err := os.WriteFile(path, []byte(ClaimText(r)), 0o644); err != nil {
			return written, fmt.Errorf("write claim report: %w", err)
		}
		written = append(written, path)
	}

	path := filepath.Join(dir, ClaimsSummaryFile)
	if err := writeFile(path, func(f *os.File) error { return WriteClaimsCSV(f, batch) }); err != nil {
		return written, err
	}
	return append(written, path), nil
}

// WriteBillingFiles writes Billing_Summary.csv into dir.
func WriteBillingFiles(dir string, batch *process.BillingBatch) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, BillingSummaryFile)
	if err := writeFile(path, func(f *os.File) error { return WriteBillingCSV(f, batch) }); err != nil {
		return "", err
	}
	return path, nil
}

func writeFile(path string, fill func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// FileName makes an identifier safe to use as a file name.
func FileName(id string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	name := strings.TrimSpace(r.Replace(id))
	if name == "" || name == "." {
		return "_"
	}
	return name
}
