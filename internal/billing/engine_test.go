package billing

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/gyeh/billclaims/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func charge(id, head, desc, amount string) model.ChargeLine {
	return model.ChargeLine{
		Identifier:  id,
		Category:    head,
		Description: desc,
		Quantity:    dec("1"),
		Rate:        dec(amount),
		Amount:      dec(amount),
	}
}

func wantDec(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: got %s, want %s", field, got, want)
	}
}

func TestBill_DuplicateChargesScenario(t *testing.T) {
	e := NewEngine(nil, AlwaysApprove)
	charges := []model.ChargeLine{
		charge("U1", "Room Rent", "Single AC", "1000"),
		charge("U1", "Pharmacy", "Medicines", "500"),
		charge("U1", "Pharmacy", "Medicines", "500"),
	}
	summary := &model.BillingSummary{Identifier: "U1", Discount: dec("100"), AdvancePaid: dec("500")}

	totals, err := e.Bill("U1", charges, summary)
	if err != nil {
		t.Fatalf("Bill: %v", err)
	}
	wantDec(t, "Subtotal", totals.Subtotal, "1500")
	wantDec(t, "GST", totals.GST, "75")
	wantDec(t, "Discount", totals.Discount, "100")
	wantDec(t, "AdvancePaid", totals.AdvancePaid, "500")
	wantDec(t, "GrandTotal", totals.GrandTotal, "1475")
	wantDec(t, "TotalPaid", totals.TotalPaid, "500")
	wantDec(t, "BalanceDue", totals.BalanceDue, "975")

	if len(totals.Errors) != 1 {
		t.Fatalf("expected 1 duplicate diagnostic, got %d: %v", len(totals.Errors), totals.Errors)
	}
	want := "Duplicate charge 'Medicines' under head 'Pharmacy'. Kept 1, ignored 1 extra."
	if totals.Errors[0] != want {
		t.Errorf("diagnostic: got %q, want %q", totals.Errors[0], want)
	}
	if len(totals.CleanedCharges) != 2 {
		t.Errorf("expected 2 cleaned charges, got %d", len(totals.CleanedCharges))
	}
	if len(charges) != 3 {
		t.Errorf("input charges were modified: len %d", len(charges))
	}
}

func TestBill_EmptyWithoutSummary(t *testing.T) {
	e := NewEngine(nil, AlwaysApprove)
	totals, err := e.Bill("U2", nil, nil)
	if err != nil {
		t.Fatalf("Bill: %v", err)
	}
	for name, v := range map[string]decimal.Decimal{
		"Subtotal":   totals.Subtotal,
		"GST":        totals.GST,
		"GrandTotal": totals.GrandTotal,
		"BalanceDue": totals.BalanceDue,
	} {
		if !v.IsZero() {
			t.Errorf("%s: got %s, want 0", name, v)
		}
	}
	if len(totals.Errors) != 0 {
		t.Errorf("expected no diagnostics, got %v", totals.Errors)
	}
}

func TestBill_BalanceIdentity(t *testing.T) {
	e := NewEngine(nil, AlwaysApprove)
	charges := []model.ChargeLine{
		charge("U3", "ICU", "Day 1", "12345.67"),
		charge("U3", "ICU", "Day 2", "0.10"),
		charge("U3", "Nursing", "Night", "0.20"),
		charge("U3", "Nursing", "Night", "999"),
	}
	summary := &model.BillingSummary{Identifier: "U3", Discount: dec("10.01"), AdvancePaid: dec("20000")}
	totals, err := e.Bill("U3", charges, summary)
	if err != nil {
		t.Fatalf("Bill: %v", err)
	}

	wantDec(t, "Subtotal", totals.Subtotal, "12345.97")
	want := totals.Subtotal.Add(totals.GST).Sub(summary.Discount).Sub(summary.AdvancePaid)
	if !totals.BalanceDue.Equal(want) {
		t.Errorf("BalanceDue: got %s, want %s", totals.BalanceDue, want)
	}
	if !totals.BalanceDue.IsNegative() {
		t.Errorf("expected a negative balance (refund), got %s", totals.BalanceDue)
	}
}

func TestBill_SubtotalIgnoresDuplicates(t *testing.T) {
	e := NewEngine(nil, AlwaysApprove)
	charges := []model.ChargeLine{
		charge("U4", "Investigations", "CBC", "300"),
		charge("U4", "Investigations", "CBC", "900"),
		charge("U4", "Investigations", "CBC", "900"),
	}
	totals, err := e.Bill("U4", charges, nil)
	if err != nil {
		t.Fatalf("Bill: %v", err)
	}
	wantDec(t, "Subtotal", totals.Subtotal, "300")
	if totals.Errors[0] != "Duplicate charge 'CBC' under head 'Investigations'. Kept 1, ignored 2 extra." {
		t.Errorf("unexpected diagnostic %q", totals.Errors[0])
	}
}

func TestBill_RejectsForeignAndAnonymousLines(t *testing.T) {
	e := NewEngine(nil, AlwaysApprove)

	_, err := e.Bill("U1", []model.ChargeLine{charge("U2", "ICU", "x", "1")}, nil)
	if !errors.Is(err, ErrForeignLine) {
		t.Errorf("expected ErrForeignLine, got %v", err)
	}
	_, err = e.Bill("U1", []model.ChargeLine{charge("", "ICU", "x", "1")}, nil)
	if !errors.Is(err, ErrMissingIdentifier) {
		t.Errorf("expected ErrMissingIdentifier, got %v", err)
	}
	_, err = e.Bill("", nil, nil)
	if !errors.Is(err, ErrMissingIdentifier) {
		t.Errorf("expected ErrMissingIdentifier for empty uhid, got %v", err)
	}
}

func TestComputeTotals_TaxRateIsConfigurable(t *testing.T) {
	rate := dec("0.18")
	p, err := NewPolicy(PolicyOptions{TaxRate: &rate})
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}
	e := NewEngine(p, AlwaysApprove)
	totals := e.ComputeTotals([]model.ChargeLine{charge("U", "ICU", "a", "333.33")}, nil)
	wantDec(t, "GST", totals.GST, "60")
	wantDec(t, "GrandTotal", totals.GrandTotal, "393.33")

	def := NewEngine(nil, AlwaysApprove).ComputeTotals([]model.ChargeLine{charge("U", "ICU", "a", "333.33")}, nil)
	wantDec(t, "default GST", def.GST, "16.67")
}

func TestComputeTotals_ManyLinesNoDrift(t *testing.T) {
	lines := make([]model.ChargeLine, 0, 10000)
	for i := 0; i < 10000; i++ {
		lines = append(lines, charge("U", "Pharmacy", "tab", "0.10"))
	}
	totals := ComputeTotals(DefaultTaxRate, lines, nil)
	wantDec(t, "Subtotal", totals.Subtotal, "1000")
	wantDec(t, "GST", totals.GST, "50")
}

func TestAdjudicate_PartialRoomRent(t *testing.T) {
	e := NewEngine(nil, AlwaysApprove)
	status, authorized := e.AdjudicateLine("Room Rent", dec("1000"))
	if status != model.StatusPartial {
		t.Errorf("status: got %s, want Partial", status)
	}
	wantDec(t, "authorized", authorized, "800.00")
}

func TestAdjudicate_RequiredUsesDecider(t *testing.T) {
	full := NewEngine(nil, AlwaysApprove)
	status, authorized := full.AdjudicateLine("Surgery/Procedure", dec("2500.55"))
	if status != model.StatusApproved {
		t.Errorf("always-approve: got %s", status)
	}
	wantDec(t, "always-approve authorized", authorized, "2500.55")

	partial := NewEngine(nil, NeverApprove)
	status, authorized = partial.AdjudicateLine("Surgery/Procedure", dec("2500.55"))
	if status != model.StatusPartial {
		t.Errorf("never-approve: got %s", status)
	}
	wantDec(t, "never-approve authorized", authorized, "2000.44")
}

func TestAdjudicate_UnknownCategoryApproved(t *testing.T) {
	e := NewEngine(nil, NeverApprove)
	status, authorized := e.AdjudicateLine("Ambulance", dec("750"))
	if status != model.StatusApproved {
		t.Errorf("status: got %s, want Approved", status)
	}
	wantDec(t, "authorized", authorized, "750")
}

func TestAdjudicate_RejectedRule(t *testing.T) {
	p, err := NewPolicy(PolicyOptions{Rules: map[string]Rule{"Cosmetic": RuleRejected}})
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}
	status, authorized := NewEngine(p, AlwaysApprove).AdjudicateLine("Cosmetic", dec("4000"))
	if status != model.StatusRejected || !authorized.IsZero() {
		t.Errorf("got %s/%s, want Rejected/0", status, authorized)
	}
}

func TestAdjudicate_AuthorizedWithinBounds(t *testing.T) {
	seeded := NewRandomDecider(42, DefaultApprovalProbability)
	e := NewEngine(nil, seeded)
	amounts := []string{"0", "0.01", "0.02", "0.05", "1", "99.99", "1000", "123456.78"}
	for _, category := range append(DefaultPolicy().Categories(), "Unlisted") {
		for _, a := range amounts {
			status, authorized := e.AdjudicateLine(category, dec(a))
			if authorized.IsNegative() || authorized.GreaterThan(dec(a)) {
				t.Errorf("%s %s: authorized %s out of [0, amount]", category, a, authorized)
			}
			if dec(a).IsPositive() && (status == model.StatusRejected) != authorized.IsZero() {
				t.Errorf("%s %s: status %s with authorized %s", category, a, status, authorized)
			}
		}
	}
}

func TestAdjudicate_ClaimAggregation(t *testing.T) {
	e := NewEngine(nil, AlwaysApprove)
	lines := []model.ChargeLine{
		charge("P1", "Pharmacy & Consumables", "Drugs", "1200"),
		charge("P1", "Room Rent", "Ward", "1000"),
		charge("P1", "Room Rent", "Ward", "1000"),
		charge("P1", "Anesthesia", "GA", "800"),
	}
	claim := &model.ClaimRecord{Identifier: "P1", AmountPaidByPatient: dec("500")}

	got, err := e.Adjudicate("P1", lines, claim)
	if err != nil {
		t.Fatalf("Adjudicate: %v", err)
	}
	if len(got.Lines) != 3 {
		t.Fatalf("expected 3 adjudicated lines, got %d", len(got.Lines))
	}
	if len(got.Errors) != 1 {
		t.Errorf("expected 1 duplicate diagnostic, got %v", got.Errors)
	}
	wantDec(t, "AuthorizedTotal", got.Summary.AuthorizedTotal, "2800")
	wantDec(t, "BalanceDueFromInsurer", got.Summary.BalanceDueFromInsurer, "2300")
	if got.Summary.OverallStatus != model.StatusPartial {
		t.Errorf("OverallStatus: got %s, want Partial", got.Summary.OverallStatus)
	}
}

func TestAdjudicate_NegativeAmount(t *testing.T) {
	e := NewEngine(nil, AlwaysApprove)
	_, err := e.Adjudicate("P1", []model.ChargeLine{charge("P1", "ICU", "refund", "-10")}, nil)
	if !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestAdjudicate_EmptyClaimPending(t *testing.T) {
	e := NewEngine(nil, AlwaysApprove)
	got, err := e.Adjudicate("P9", nil, nil)
	if err != nil {
		t.Fatalf("Adjudicate: %v", err)
	}
	if got.Summary.OverallStatus != model.StatusPending {
		t.Errorf("OverallStatus: got %s, want Pending", got.Summary.OverallStatus)
	}
	if !got.Summary.AuthorizedTotal.IsZero() || !got.Summary.BalanceDueFromInsurer.IsZero() {
		t.Errorf("expected zero totals, got %+v", got.Summary)
	}
}

func TestAdjudicate_DoesNotMutateInput(t *testing.T) {
	e := NewEngine(nil, NeverApprove)
	lines := []model.ChargeLine{charge("P1", "ICU", "Bed", "100")}
	before := append([]model.ChargeLine(nil), lines...)
	if _, err := e.Adjudicate("P1", lines, nil); err != nil {
		t.Fatalf("Adjudicate: %v", err)
	}
	if diff := cmp.Diff(before, lines, cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("input lines changed (-before +after):\n%s", diff)
	}
}
