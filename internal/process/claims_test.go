package process

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/gyeh/billclaims/internal/fixture"
	"github.com/gyeh/billclaims/internal/model"
)

func TestRunClaims_Archive(t *testing.T) {
	data, err := fixture.ClaimsArchive()
	if err != nil {
		t.Fatalf("ClaimsArchive: %v", err)
	}
	batch, err := RunClaims(context.Background(), zerolog.Nop(), testEngine(), FromBytes("claims.zip", data))
	if err != nil {
		t.Fatalf("RunClaims: %v", err)
	}
	if len(batch.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", batch.Failures)
	}
	if len(batch.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(batch.Results))
	}

	p1 := batch.Results[0]
	if p1.Identifier != "P1" || p1.SourceFile != "claims_1.xlsx" || p1.Patient.Name != "Ravi Kumar" {
		t.Errorf("P1 header: %+v", p1)
	}
	if len(p1.Diagnoses) != 1 || len(p1.Lines) != 3 {
		t.Errorf("P1 diagnoses/lines: %d/%d", len(p1.Diagnoses), len(p1.Lines))
	}
	wantDec(t, "P1 AuthorizedTotal", p1.Summary.AuthorizedTotal, "2800")
	wantDec(t, "P1 BalanceDueFromInsurer", p1.Summary.BalanceDueFromInsurer, "2300")
	if p1.Summary.OverallStatus != model.StatusPartial {
		t.Errorf("P1 status: %s", p1.Summary.OverallStatus)
	}

	p2 := batch.Results[1]
	if p2.Summary.OverallStatus != model.StatusApproved {
		t.Errorf("P2 status: %s", p2.Summary.OverallStatus)
	}
	wantDec(t, "P2 BalanceDueFromInsurer", p2.Summary.BalanceDueFromInsurer, "500")

	if batch.Summary.Workbooks != 1 || batch.Summary.PatientsSeen != 2 {
		t.Errorf("summary: %+v", batch.Summary)
	}
}

func TestRunClaims_BadWorkbookIsIsolated(t *testing.T) {
	good := workbookBytes(t, fixture.ClaimsWorkbook())
	bad := workbookBytes(t, fixture.ClaimsWorkbook().Without(model.ClaimSheet.Name))
	data, err := fixture.Zip([]fixture.Member{
		{Name: "bad.xlsx", Data: bad},
		{Name: "good.xlsx", Data: good},
	})
	if err != nil {
		t.Fatalf("Zip: %v", err)
	}

	batch, err := RunClaims(context.Background(), zerolog.Nop(), testEngine(), FromBytes("claims.zip", data))
	if err != nil {
		t.Fatalf("RunClaims: %v", err)
	}
	if len(batch.Results) != 2 {
		t.Errorf("expected the good workbook's 2 results, got %d", len(batch.Results))
	}
	if len(batch.Failures) != 1 {
		t.Fatalf("expected 1 workbook failure, got %+v", batch.Failures)
	}
	f := batch.Failures[0]
	if f.SourceFile != "bad.xlsx" || f.Identifier != "" {
		t.Errorf("failure: %+v", f)
	}
	if batch.Summary.PatientsFailed != 0 {
		t.Errorf("a workbook failure is not a patient failure: %+v", batch.Summary)
	}
}

func TestRunClaims_OrphanLinesAreNotFound(t *testing.T) {
	wb := fixture.ClaimsWorkbook()
	partC := wb.Sheet(model.BillSummarySheet.Name)
	partC.Rows = append(partC.Rows, []any{"P9", "ICU", "", 100})

	batch, err := RunClaims(context.Background(), zerolog.Nop(), testEngine(), FromBytes("one.xlsx", workbookBytes(t, wb)))
	if err != nil {
		t.Fatalf("RunClaims: %v", err)
	}
	if len(batch.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(batch.Results))
	}
	if len(batch.Failures) != 1 || batch.Failures[0].Identifier != "P9" {
		t.Fatalf("expected P9 failure, got %+v", batch.Failures)
	}
	if batch.Summary.PatientsFailed != 1 {
		t.Errorf("PatientsFailed: %d", batch.Summary.PatientsFailed)
	}
}

func TestRunClaims_DuplicateLinesAndNegativeAmounts(t *testing.T) {
	patients := []fixture.ClaimPatient{
		{UHID: "D1", Name: "Dup", Lines: [][2]any{{"ICU", 1000}, {"ICU", 1000}}},
		{UHID: "N1", Name: "Neg", Lines: [][2]any{{"Nursing", -50}}},
	}
	wb := fixture.ClaimsWorkbook(patients...)

	batch, err := RunClaims(context.Background(), zerolog.Nop(), testEngine(), FromBytes("dup.xlsx", workbookBytes(t, wb)))
	if err != nil {
		t.Fatalf("RunClaims: %v", err)
	}
	if len(batch.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(batch.Results))
	}
	d1 := batch.Results[0]
	if len(d1.Lines) != 1 || len(d1.Errors) != 1 {
		t.Errorf("D1 lines/errors: %d/%v", len(d1.Lines), d1.Errors)
	}
	wantDec(t, "D1 AuthorizedTotal", d1.Summary.AuthorizedTotal, "800")
	if len(batch.Failures) != 1 || batch.Failures[0].Identifier != "N1" {
		t.Errorf("expected N1 failure, got %+v", batch.Failures)
	}
	if batch.Summary.DuplicatesDropped != 1 {
		t.Errorf("DuplicatesDropped: %d", batch.Summary.DuplicatesDropped)
	}
}

func TestRunClaims_EmptyArchive(t *testing.T) {
	data, err := fixture.Zip([]fixture.Member{{Name: "readme.txt", Data: []byte("hi")}})
	if err != nil {
		t.Fatal(err)
	}
	_, err = RunClaims(context.Background(), zerolog.Nop(), testEngine(), FromBytes("claims.zip", data))
	if !errors.Is(err, ErrNoWorkbooks) {
		t.Fatalf("expected ErrNoWorkbooks, got %v", err)
	}
}

func TestClaimsRows(t *testing.T) {
	data, err := fixture.ClaimsArchive()
	if err != nil {
		t.Fatal(err)
	}
	batch, err := RunClaims(context.Background(), zerolog.Nop(), testEngine(), FromBytes("claims.zip", data))
	if err != nil {
		t.Fatalf("RunClaims: %v", err)
	}
	sums := batch.SummaryRows()
	if len(sums) != 2 {
		t.Fatalf("expected 2 summary rows, got %d", len(sums))
	}
	if sums[0].OriginalClaimedCents != 265000 || sums[0].AuthorizedClaimedCents != 280000 || sums[0].ClaimStatus != "Partial" {
		t.Errorf("summary row: %+v", sums[0])
	}
	if d := sums[0].AdmissionDate; d == nil || d.Format("2006-01-02") != "2024-03-01" {
		t.Errorf("admission date: %v", d)
	}
	if d := sums[0].DischargeDate; d == nil || d.Format("2006-01-02") != "2024-03-05" {
		t.Errorf("discharge date: %v", d)
	}
	lines := batch.LineRows()
	if len(lines) != 5 || lines[3].UHID != "P2" || lines[3].LineNumber != 1 || lines[3].SourceFile != "claims_1.xlsx" {
		t.Errorf("line rows: %+v", lines)
	}
}

func TestRunClaims_MissingPaidColumnFailsWorkbook(t *testing.T) {
	bad := fixture.ClaimsWorkbook()
	bad.Sheet(model.ClaimSheet.Name).DropColumn(model.ColAmountPaidByPatient)
	data, err := fixture.Zip([]fixture.Member{
		{Name: "claims_1.xlsx", Data: workbookBytes(t, bad)},
		{Name: "claims_2.xlsx", Data: workbookBytes(t, fixture.ClaimsWorkbook(fixture.DefaultClaimPatients[1]))},
	})
	if err != nil {
		t.Fatalf("Zip: %v", err)
	}

	batch, err := RunClaims(context.Background(), zerolog.Nop(), testEngine(), FromBytes("claims.zip", data))
	if err != nil {
		t.Fatalf("RunClaims: %v", err)
	}
	if len(batch.Failures) != 1 {
		t.Fatalf("expected 1 workbook failure, got %+v", batch.Failures)
	}
	f := batch.Failures[0]
	if f.SourceFile != "claims_1.xlsx" || !strings.Contains(f.Reason, model.ColAmountPaidByPatient) {
		t.Errorf("failure: %+v", f)
	}
	for _, r := range batch.Results {
		if r.SourceFile == "claims_1.xlsx" {
			t.Errorf("workbook without a paid column produced a result: %+v", r.Summary)
		}
	}
	if len(batch.Results) != 1 || batch.Results[0].Identifier != "P2" {
		t.Fatalf("expected only P2 from claims_2.xlsx, got %d results", len(batch.Results))
	}
}

func TestClaimsRows_RepeatedUHIDAcrossWorkbooks(t *testing.T) {
	first := fixture.ClaimPatient{UHID: "P1", Name: "Ravi Kumar", Lines: [][2]any{{"Nursing", 100}}}
	second := fixture.ClaimPatient{UHID: "P1", Name: "Ravi Kumar", Lines: [][2]any{{"Miscellaneous", 999}}}
	data, err := fixture.ClaimsArchive([]fixture.ClaimPatient{first}, []fixture.ClaimPatient{second})
	if err != nil {
		t.Fatal(err)
	}
	batch, err := RunClaims(context.Background(), zerolog.Nop(), testEngine(), FromBytes("claims.zip", data))
	if err != nil {
		t.Fatalf("RunClaims: %v", err)
	}

	lines := batch.LineRows()
	if len(lines) != 2 {
		t.Fatalf("expected 2 line rows, got %d", len(lines))
	}
	type key struct {
		Source string
		UHID   string
		Line   int32
	}
	got := map[key]int64{}
	for _, l := range lines {
		got[key{l.SourceFile, l.UHID, l.LineNumber}] = l.AmountCents
	}
	want := map[key]int64{
		{"claims_1.xlsx", "P1", 1}: 10000,
		{"claims_2.xlsx", "P1", 1}: 99900,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("line rows by (source, uhid, line) (-want +got):\n%s", diff)
	}

	sums := batch.SummaryRows()
	if len(sums) != 2 || sums[0].SourceFile != "claims_1.xlsx" || sums[1].SourceFile != "claims_2.xlsx" {
		t.Errorf("summary rows: %+v", sums)
	}
}
