package models_test

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/invoicing_backend/models"
	"github.com/shopspring/decimal"
)

// NOTE: These tests are intentionally DB-free. They pin the money semantics:
// - per-line rounding (half-up to 2dp) BEFORE aggregation
// - intra-state CGST/SGST split that always sums to the exact tax total
// - balance due that is never clamped at zero

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func item(qty int, rate, taxPercent, discountPercent string) models.InvoiceItem {
	return models.InvoiceItem{
		Description:     "line",
		Quantity:        qty,
		Rate:            d(rate),
		TaxPercent:      d(taxPercent),
		DiscountPercent: d(discountPercent),
	}
}

func TestItemAmounts_DiscountThenTax(t *testing.T) {
	// 2 x 500 with 10% discount and 18% tax:
	// net = 900.00, tax = 162.00, amount = 1062.00
	line := item(2, "500", "18", "10")
	amounts, err := line.CalculateItemAmounts()
	if err != nil {
		t.Fatal(err)
	}
	if !amounts.Net.Equal(d("900.00")) {
		t.Errorf("net = %s, want 900.00", amounts.Net)
	}
	if !amounts.Tax.Equal(d("162.00")) {
		t.Errorf("tax = %s, want 162.00", amounts.Tax)
	}
	if !amounts.Amount.Equal(d("1062.00")) {
		t.Errorf("amount = %s, want 1062.00", amounts.Amount)
	}
	if !line.Amount.Equal(d("1062.00")) {
		t.Errorf("stored line amount = %s, want 1062.00", line.Amount)
	}
}

func TestItemAmounts_RoundsPerLineHalfUp(t *testing.T) {
	// 3 x 33.33 at 18%: base 99.99, tax 17.9982 -> 18.00
	line := item(3, "33.33", "18", "0")
	amounts, err := line.CalculateItemAmounts()
	if err != nil {
		t.Fatal(err)
	}
	if !amounts.Net.Equal(d("99.99")) {
		t.Errorf("net = %s, want 99.99", amounts.Net)
	}
	if !amounts.Tax.Equal(d("18.00")) {
		t.Errorf("tax = %s, want 18.00", amounts.Tax)
	}
}

func TestItemAmounts_Validation(t *testing.T) {
	cases := []struct {
		name string
		line models.InvoiceItem
	}{
		{"negative quantity", item(-1, "10", "0", "0")},
		{"negative rate", item(1, "-10", "0", "0")},
		{"tax percent over 100", item(1, "10", "101", "0")},
		{"negative discount percent", item(1, "10", "0", "-1")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.line.CalculateItemAmounts(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestInvoiceAmounts_IntraStateSplit(t *testing.T) {
	items := []models.InvoiceItem{item(2, "500", "18", "10")}
	amounts, err := models.CalculateInvoiceAmounts(items, models.TaxJurisdictionIntraState, nil, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatal(err)
	}
	if !amounts.Subtotal.Equal(d("900.00")) {
		t.Errorf("subtotal = %s, want 900.00", amounts.Subtotal)
	}
	if !amounts.Cgst.Equal(d("81.00")) || !amounts.Sgst.Equal(d("81.00")) {
		t.Errorf("cgst/sgst = %s/%s, want 81.00/81.00", amounts.Cgst, amounts.Sgst)
	}
	if !amounts.Igst.IsZero() {
		t.Errorf("igst = %s, want 0", amounts.Igst)
	}
	if !amounts.Total.Equal(d("1062.00")) {
		t.Errorf("total = %s, want 1062.00", amounts.Total)
	}
}

func TestInvoiceAmounts_SplitPreservesOddCent(t *testing.T) {
	// tax total 0.01 cannot split evenly: cgst gets the rounded half (0.01),
	// sgst the remainder (0.00); the sum must stay exactly 0.01.
	items := []models.InvoiceItem{item(1, "0.33", "3", "0")}
	amounts, err := models.CalculateInvoiceAmounts(items, models.TaxJurisdictionIntraState, nil, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatal(err)
	}
	if !amounts.Cgst.Add(amounts.Sgst).Equal(d("0.01")) {
		t.Errorf("cgst+sgst = %s, want exactly 0.01", amounts.Cgst.Add(amounts.Sgst))
	}
	if !amounts.Cgst.Equal(d("0.01")) {
		t.Errorf("cgst = %s, want 0.01 (half-up)", amounts.Cgst)
	}
}

func TestInvoiceAmounts_InterState(t *testing.T) {
	items := []models.InvoiceItem{item(2, "500", "18", "10")}
	amounts, err := models.CalculateInvoiceAmounts(items, models.TaxJurisdictionInterState, nil, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatal(err)
	}
	if !amounts.Igst.Equal(d("162.00")) {
		t.Errorf("igst = %s, want 162.00", amounts.Igst)
	}
	if !amounts.Cgst.IsZero() || !amounts.Sgst.IsZero() {
		t.Errorf("cgst/sgst = %s/%s, want zero for inter-state", amounts.Cgst, amounts.Sgst)
	}
	if !amounts.Total.Equal(d("1062.00")) {
		t.Errorf("total = %s, want 1062.00", amounts.Total)
	}
}

func TestInvoiceAmounts_TdsPercentOnSubtotal(t *testing.T) {
	// two lines of net 900.00 each: subtotal 1800.00, 5% TDS = 90.00
	items := []models.InvoiceItem{
		item(2, "500", "18", "10"),
		item(1, "900", "18", "0"),
	}
	tdsPercent := d("5")
	amounts, err := models.CalculateInvoiceAmounts(items, models.TaxJurisdictionIntraState, &tdsPercent, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatal(err)
	}
	if !amounts.Subtotal.Equal(d("1800.00")) {
		t.Errorf("subtotal = %s, want 1800.00", amounts.Subtotal)
	}
	if !amounts.Tds.Equal(d("90.00")) {
		t.Errorf("tds = %s, want 90.00", amounts.Tds)
	}
	// total = 1800 + 162 + 162 - 90 = 2034.00
	if !amounts.Total.Equal(d("2034.00")) {
		t.Errorf("total = %s, want 2034.00", amounts.Total)
	}
}

func TestInvoiceAmounts_ExplicitTdsAndDiscount(t *testing.T) {
	items := []models.InvoiceItem{item(2, "500", "18", "10")}
	amounts, err := models.CalculateInvoiceAmounts(items, models.TaxJurisdictionIntraState, nil, d("50"), d("12.00"))
	if err != nil {
		t.Fatal(err)
	}
	if !amounts.Tds.Equal(d("50.00")) {
		t.Errorf("tds = %s, want explicit 50.00", amounts.Tds)
	}
	// 900 + 81 + 81 - 50 - 12 = 1000.00
	if !amounts.Total.Equal(d("1000.00")) {
		t.Errorf("total = %s, want 1000.00", amounts.Total)
	}
}

func TestInvoiceAmounts_EmptyItems(t *testing.T) {
	amounts, err := models.CalculateInvoiceAmounts(nil, models.TaxJurisdictionIntraState, nil, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatal(err)
	}
	if !amounts.Subtotal.IsZero() || !amounts.Total.IsZero() {
		t.Errorf("empty invoice: subtotal/total = %s/%s, want 0/0", amounts.Subtotal, amounts.Total)
	}
}

func TestInvoiceAmounts_NegativeDiscountTotalRejected(t *testing.T) {
	_, err := models.CalculateInvoiceAmounts(nil, models.TaxJurisdictionIntraState, nil, decimal.Zero, d("-1"))
	if err == nil {
		t.Error("expected validation error for negative discount_total")
	}
}

func TestBalanceDue_NeverClamped(t *testing.T) {
	now := time.Now()
	payments := []models.Payment{
		{Amount: d("1000.00"), Date: now},
		{Amount: d("1000.00"), Date: now},
	}
	balance := models.CalculateBalanceDue(d("1062.00"), payments)
	if !balance.Equal(d("-938.00")) {
		t.Errorf("balance = %s, want -938.00 (overpayment stays visible)", balance)
	}
}

func TestBalanceDue_AddThenRemovePaymentRestoresBalance(t *testing.T) {
	now := time.Now()
	total := d("1062.00")
	payments := []models.Payment{{Amount: d("500.00"), Date: now}}

	before := models.CalculateBalanceDue(total, payments)
	if !before.Equal(d("562.00")) {
		t.Fatalf("balance = %s, want 562.00", before)
	}

	withExtra := append(append([]models.Payment{}, payments...), models.Payment{Amount: d("250.00"), Date: now})
	during := models.CalculateBalanceDue(total, withExtra)
	if !during.Equal(d("312.00")) {
		t.Errorf("balance with extra payment = %s, want 312.00", during)
	}

	after := models.CalculateBalanceDue(total, payments)
	if !after.Equal(before) {
		t.Errorf("balance after removing the payment = %s, want %s (back to the prior value)", after, before)
	}
}

func TestBalanceDue_PartialPayment(t *testing.T) {
	payments := []models.Payment{{Amount: d("1000.00"), Date: time.Now()}}
	balance := models.CalculateBalanceDue(d("1062.00"), payments)
	if !balance.Equal(d("62.00")) {
		t.Errorf("balance = %s, want 62.00", balance)
	}
}
