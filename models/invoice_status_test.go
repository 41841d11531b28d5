package models_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/invoicing_backend/models"
)

func TestInvoiceStatus_Transitions(t *testing.T) {
	cases := []struct {
		from    models.InvoiceStatus
		to      models.InvoiceStatus
		allowed bool
	}{
		{models.InvoiceStatusDraft, models.InvoiceStatusFinalized, true},
		{models.InvoiceStatusDraft, models.InvoiceStatusCancelled, true},
		{models.InvoiceStatusFinalized, models.InvoiceStatusCancelled, true},
		{models.InvoiceStatusFinalized, models.InvoiceStatusDraft, false},
		{models.InvoiceStatusCancelled, models.InvoiceStatusDraft, false},
		{models.InvoiceStatusCancelled, models.InvoiceStatusFinalized, false},
		{models.InvoiceStatusDraft, models.InvoiceStatusDraft, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: allowed = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestInvoiceStatus_Valid(t *testing.T) {
	for _, s := range []models.InvoiceStatus{
		models.InvoiceStatusDraft,
		models.InvoiceStatusFinalized,
		models.InvoiceStatusCancelled,
	} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if models.InvoiceStatus("paid").Valid() {
		t.Error("unknown status should not be valid")
	}
}

func TestTaxJurisdiction_Valid(t *testing.T) {
	if !models.TaxJurisdictionIntraState.Valid() || !models.TaxJurisdictionInterState.Valid() {
		t.Error("known jurisdictions should be valid")
	}
	if models.TaxJurisdiction("offshore").Valid() {
		t.Error("unknown jurisdiction should not be valid")
	}
}
