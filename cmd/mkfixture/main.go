// mkfixture writes a synthetic billing workbook and claims archive for
// manual runs of billclaims.
// Usage: go run ./cmd/mkfixture --out testdata --patients 20 --per-workbook 5
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/gyeh/billclaims/internal/fixture"
)

var (
	heads    = []string{"Room Rent", "ICU", "OT/Cath Lab", "Surgery/Procedure", "Anesthesia", "Pharmacy & Consumables", "Investigations", "Nursing", "Miscellaneous"}
	insurers = []string{"Star Health", "ICICI Lombard", "HDFC Ergo", "Niva Bupa"}
	names    = []string{"Ravi Kumar", "Meera Iyer", "Asha Menon", "Arjun Rao", "Fatima Sheikh", "Vikram Singh", "Lakshmi Nair", "Kabir Das"}
)

func main() {
	out := flag.String("out", "testdata", "output directory")
	patients := flag.Int("patients", 10, "number of claims patients")
	perWorkbook := flag.Int("per-workbook", 5, "patients per claims workbook")
	seed := flag.Uint64("seed", 1, "generator seed")
	flag.Parse()

	if *patients < 1 || *perWorkbook < 1 {
		fmt.Fprintln(os.Stderr, "--patients and --per-workbook must be positive")
		os.Exit(1)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}

	billingPath := filepath.Join(*out, "billing.xlsx")
	if err := fixture.BillingWorkbook().Save(billingPath); err != nil {
		fmt.Fprintf(os.Stderr, "write billing workbook: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", billingPath)

	rng := rand.New(rand.NewPCG(*seed, *seed))
	var groups [][]fixture.ClaimPatient
	var lines int
	for i := 0; i < *patients; i++ {
		p := claimPatient(rng, i)
		lines += len(p.Lines)
		if i%*perWorkbook == 0 {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], p)
	}

	data, err := fixture.ClaimsArchive(groups...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build claims archive: %v\n", err)
		os.Exit(1)
	}
	claimsPath := filepath.Join(*out, "claims.zip")
	if err := fixture.WriteFile(claimsPath, data); err != nil {
		fmt.Fprintf(os.Stderr, "write claims archive: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s: %d workbooks, %d patients, %d claim lines\n", claimsPath, len(groups), *patients, lines)
}

// claimPatient generates one patient with 2 to 5 claim lines in whole
// rupees and an advance of up to a fifth of the bill.
func claimPatient(rng *rand.Rand, i int) fixture.ClaimPatient {
	p := fixture.ClaimPatient{
		UHID:    fmt.Sprintf("P%04d", i+1),
		Name:    names[rng.IntN(len(names))],
		Insurer: insurers[rng.IntN(len(insurers))],
	}
	var subtotal int
	for _, j := range rng.Perm(len(heads))[:2+rng.IntN(4)] {
		amount := 100 * (1 + rng.IntN(200))
		subtotal += amount
		p.Lines = append(p.Lines, [2]any{heads[j], amount})
	}
	p.Paid = float64(rng.IntN(subtotal/5 + 1))
	return p
}
