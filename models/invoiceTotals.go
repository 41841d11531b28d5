package models

import (
	"fmt"

	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"github.com/shopspring/decimal"
)

// The total engine is deliberately storage-free: it takes item values and
// payment sums as decimals and returns the derived money fields. All currency
// math is fixed-point; binary floats never touch these numbers.

var decimalOneHundred = decimal.NewFromInt(100)

type ItemAmounts struct {
	Net    decimal.Decimal // post-discount, pre-tax, rounded to 2dp
	Tax    decimal.Decimal // rounded to 2dp
	Amount decimal.Decimal // Net + Tax, the stored line amount
}

type InvoiceAmounts struct {
	Subtotal      decimal.Decimal
	Cgst          decimal.Decimal
	Sgst          decimal.Decimal
	Igst          decimal.Decimal
	Tds           decimal.Decimal
	DiscountTotal decimal.Decimal
	Total         decimal.Decimal
}

func validatePercent(name string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(decimalOneHundred) {
		return utils.NewValidationError(fmt.Sprintf("%s must be between 0 and 100", name))
	}
	return nil
}

func (item *InvoiceItem) validateAmounts() error {
	if item.Quantity < 0 {
		return utils.NewValidationError("quantity must not be negative")
	}
	if item.Rate.IsNegative() {
		return utils.NewValidationError("rate must not be negative")
	}
	if err := validatePercent("tax_percent", item.TaxPercent); err != nil {
		return err
	}
	return validatePercent("discount_percent", item.DiscountPercent)
}

// CalculateItemAmounts computes one line. Rounding happens per line, half-up
// to 2 decimals, BEFORE aggregation, so summed invoices never drift:
//
//	net = round2(qty * rate * (1 - discount/100))
//	tax = round2(qty * rate * (1 - discount/100) * taxPercent/100)
//	amount = net + tax
func (item *InvoiceItem) CalculateItemAmounts() (ItemAmounts, error) {
	if err := item.validateAmounts(); err != nil {
		return ItemAmounts{}, err
	}

	base := decimal.NewFromInt(int64(item.Quantity)).Mul(item.Rate)
	discounted := base.Mul(decimalOneHundred.Sub(item.DiscountPercent)).Div(decimalOneHundred)

	net := discounted.Round(2)
	tax := discounted.Mul(item.TaxPercent).Div(decimalOneHundred).Round(2)

	amounts := ItemAmounts{
		Net:    net,
		Tax:    tax,
		Amount: net.Add(tax),
	}
	item.Amount = amounts.Amount
	return amounts, nil
}

// CalculateInvoiceAmounts aggregates lines into the invoice money fields.
//
// subtotal = sum of line nets; the tax sum splits by jurisdiction:
// intra-state cgst = round2(tax/2), sgst = tax - cgst (their sum always equals
// the tax total exactly), inter-state igst = tax.
//
// tds comes from tdsPercent applied to the subtotal when given, otherwise the
// explicit tds amount is carried as-is. discountTotal is an explicit
// invoice-level deduction.
func CalculateInvoiceAmounts(items []InvoiceItem, jurisdiction TaxJurisdiction, tdsPercent *decimal.Decimal, tds decimal.Decimal, discountTotal decimal.Decimal) (InvoiceAmounts, error) {
	if !jurisdiction.Valid() {
		return InvoiceAmounts{}, utils.NewValidationError("invalid tax jurisdiction")
	}
	if discountTotal.IsNegative() {
		return InvoiceAmounts{}, utils.NewValidationError("discount_total must not be negative")
	}

	var subtotal, taxTotal decimal.Decimal
	for i := range items {
		amounts, err := items[i].CalculateItemAmounts()
		if err != nil {
			return InvoiceAmounts{}, err
		}
		subtotal = subtotal.Add(amounts.Net)
		taxTotal = taxTotal.Add(amounts.Tax)
	}

	result := InvoiceAmounts{
		Subtotal:      subtotal,
		DiscountTotal: discountTotal.Round(2),
	}

	if jurisdiction == TaxJurisdictionIntraState {
		result.Cgst = taxTotal.Div(decimal.NewFromInt(2)).Round(2)
		result.Sgst = taxTotal.Sub(result.Cgst)
	} else {
		result.Igst = taxTotal
	}

	if tdsPercent != nil {
		if err := validatePercent("tds_percent", *tdsPercent); err != nil {
			return InvoiceAmounts{}, err
		}
		result.Tds = subtotal.Mul(*tdsPercent).Div(decimalOneHundred).Round(2)
	} else {
		if tds.IsNegative() {
			return InvoiceAmounts{}, utils.NewValidationError("tds must not be negative")
		}
		result.Tds = tds.Round(2)
	}

	result.Total = result.Subtotal.
		Add(result.Cgst).
		Add(result.Sgst).
		Add(result.Igst).
		Sub(result.Tds).
		Sub(result.DiscountTotal)

	return result, nil
}

// CalculateBalanceDue never clamps: an overpaid invoice carries a negative
// balance so the overpayment stays visible.
func CalculateBalanceDue(total decimal.Decimal, payments []Payment) decimal.Decimal {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return total.Sub(paid)
}
