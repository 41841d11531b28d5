package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

func TestNewInvoiceItemQuantityResolution(t *testing.T) {
	cases := []struct {
		name     string
		quantity *int
		want     int
	}{
		{"omitted defaults to one", nil, 1},
		{"explicit zero is kept", intPtr(0), 0},
		{"explicit value is kept", intPtr(3), 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := NewInvoiceItem{Description: "line", Quantity: tc.quantity}
			item := input.toItem()
			if item.Quantity != tc.want {
				t.Errorf("quantity = %d, want %d", item.Quantity, tc.want)
			}
		})
	}
}

func TestZeroQuantityLineBillsNothing(t *testing.T) {
	input := NewInvoiceItem{
		Description: "free sample",
		Quantity:    intPtr(0),
		Rate:        decimal.NewFromInt(500),
		TaxPercent:  decimal.NewFromInt(18),
	}
	item := input.toItem()
	amounts, err := item.CalculateItemAmounts()
	if err != nil {
		t.Fatal(err)
	}
	if !amounts.Net.IsZero() || !amounts.Tax.IsZero() || !amounts.Amount.IsZero() {
		t.Errorf("zero-quantity line produced net/tax/amount = %s/%s/%s, want all zero",
			amounts.Net, amounts.Tax, amounts.Amount)
	}
}
