package process

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gyeh/billclaims/internal/billing"
	"github.com/gyeh/billclaims/internal/fixture"
	"github.com/gyeh/billclaims/internal/model"
)

func workbookBytes(t *testing.T, wb fixture.Workbook) []byte {
	t.Helper()
	data, err := wb.Bytes()
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	return data
}

func testEngine() *billing.Engine {
	return billing.NewEngine(nil, billing.AlwaysApprove)
}

func wantDec(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: got %s, want %s", field, got, want)
	}
}

func TestRunBilling(t *testing.T) {
	var logs bytes.Buffer
	log := zerolog.New(&logs)
	in := FromBytes("billing.xlsx", workbookBytes(t, fixture.BillingWorkbook()))

	batch, err := RunBilling(context.Background(), log, testEngine(), in)
	if err != nil {
		t.Fatalf("RunBilling: %v", err)
	}
	if len(batch.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", batch.Failures)
	}

	var ids []string
	for _, r := range batch.Results {
		ids = append(ids, r.Identifier)
	}
	if diff := cmp.Diff([]string{"UH1001", "UH1002"}, ids); diff != "" {
		t.Fatalf("result order (-want +got):\n%s", diff)
	}

	first := batch.Results[0]
	if first.PatientName != "Asha Menon" {
		t.Errorf("PatientName: got %q", first.PatientName)
	}
	wantDec(t, "Subtotal", first.Totals.Subtotal, "1500")
	wantDec(t, "GST", first.Totals.GST, "75")
	wantDec(t, "GrandTotal", first.Totals.GrandTotal, "1475")
	wantDec(t, "BalanceDue", first.Totals.BalanceDue, "975")
	if len(first.Totals.Errors) != 1 {
		t.Errorf("expected 1 diagnostic, got %v", first.Totals.Errors)
	}

	second := batch.Results[1]
	if second.PatientName != UnknownPatient {
		t.Errorf("PatientName: got %q, want %q", second.PatientName, UnknownPatient)
	}
	wantDec(t, "Subtotal", second.Totals.Subtotal, "550.5")
	wantDec(t, "GST", second.Totals.GST, "27.53")
	wantDec(t, "BalanceDue", second.Totals.BalanceDue, "578.03")

	s := batch.Summary
	if s.Kind != "billing" || s.PatientsProcessed != 2 || s.ChargeLinesRead != 5 || s.DuplicatesDropped != 1 {
		t.Errorf("summary: %+v", s)
	}
	if len(s.FileSHA256) != 64 {
		t.Errorf("FileSHA256: %q", s.FileSHA256)
	}

	out := logs.String()
	if !strings.Contains(out, `"level":"error","run_id":"`+batch.RunID+`","uhid":"UH1001"`) {
		t.Errorf("expected duplicate error event for UH1001, got:\n%s", out)
	}
	if !strings.Contains(out, `"uhid":"UH1002"`) || !strings.Contains(out, "billing processed") {
		t.Errorf("expected billing processed event for UH1002, got:\n%s", out)
	}
}

func TestRunBilling_FromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "billing.xlsx")
	if err := fixture.BillingWorkbook().Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	batch, err := RunBilling(context.Background(), zerolog.Nop(), testEngine(), FromPath(path))
	if err != nil {
		t.Fatalf("RunBilling: %v", err)
	}
	if len(batch.Results) != 2 || batch.Summary.FilePath != path {
		t.Errorf("results %d, file %q", len(batch.Results), batch.Summary.FilePath)
	}
}

func TestRunBilling_SchemaErrorIsFatal(t *testing.T) {
	wb := fixture.BillingWorkbook()
	charges := wb.Sheet(model.ChargesSheet.Name)
	charges.Header = []string{model.ColUHID, model.ColHead, model.ColDescription, model.ColQty, model.ColRate, "Total", model.ColDate}

	_, err := RunBilling(context.Background(), zerolog.Nop(), testEngine(), FromBytes("b.xlsx", workbookBytes(t, wb)))
	var pe *PipelineError
	if !errors.As(err, &pe) || pe.Phase != PhaseValidate {
		t.Fatalf("expected validate PipelineError, got %v", err)
	}
	var se *model.SchemaError
	if !errors.As(err, &se) || se.Missing[0] != model.ColAmount {
		t.Errorf("expected SchemaError naming Amount, got %v", err)
	}
}

func TestRunBilling_BadRowFailsOnlyItsPatient(t *testing.T) {
	wb := fixture.BillingWorkbook()
	charges := wb.Sheet(model.ChargesSheet.Name)
	charges.Rows[3][5] = "three hundred"

	batch, err := RunBilling(context.Background(), zerolog.Nop(), testEngine(), FromBytes("b.xlsx", workbookBytes(t, wb)))
	if err != nil {
		t.Fatalf("RunBilling: %v", err)
	}
	if len(batch.Results) != 1 || batch.Results[0].Identifier != "UH1001" {
		t.Errorf("expected only UH1001 to succeed, got %+v", batch.Results)
	}
	if len(batch.Failures) != 1 || batch.Failures[0].Identifier != "UH1002" {
		t.Fatalf("expected UH1002 failure, got %+v", batch.Failures)
	}
	if !strings.Contains(batch.Failures[0].Reason, "Amount") {
		t.Errorf("reason should name the column: %q", batch.Failures[0].Reason)
	}
	if !batch.Partial() {
		t.Error("expected Partial() to be true")
	}
}

func TestRunBilling_ReadErrors(t *testing.T) {
	ctx := context.Background()
	for name, in := range map[string]Input{
		"empty":   FromBytes("b.xlsx", nil),
		"junk":    FromBytes("b.xlsx", []byte("not a workbook")),
		"missing": FromPath(filepath.Join(t.TempDir(), "none.xlsx")),
	} {
		_, err := RunBilling(ctx, zerolog.Nop(), testEngine(), in)
		var pe *PipelineError
		if !errors.As(err, &pe) || pe.Phase != PhaseRead {
			t.Errorf("%s: expected read PipelineError, got %v", name, err)
		}
	}
}

func TestRunBilling_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunBilling(ctx, zerolog.Nop(), testEngine(), FromBytes("b.xlsx", workbookBytes(t, fixture.BillingWorkbook())))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBillingRows(t *testing.T) {
	batch, err := RunBilling(context.Background(), zerolog.Nop(), testEngine(),
		FromBytes("b.xlsx", workbookBytes(t, fixture.BillingWorkbook())))
	if err != nil {
		t.Fatalf("RunBilling: %v", err)
	}
	rows := batch.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	r := rows[0]
	if r.RunID != batch.RunID || r.SubtotalCents != 150000 || r.GSTCents != 7500 || r.BalanceDueCents != 97500 {
		t.Errorf("row: %+v", r)
	}
	if r.ChargeLines != 2 || r.Duplicates != 1 {
		t.Errorf("line counts: %d/%d", r.ChargeLines, r.Duplicates)
	}
}
