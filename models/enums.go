package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusFinalized InvoiceStatus = "finalized"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusFinalized, InvoiceStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo encodes the invoice lifecycle:
// draft -> finalized, draft -> cancelled, finalized -> cancelled.
// cancelled is terminal; nothing returns to draft.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return next == InvoiceStatusFinalized || next == InvoiceStatusCancelled
	case InvoiceStatusFinalized:
		return next == InvoiceStatusCancelled
	default:
		return false
	}
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		*s = InvoiceStatus(v)
	case string:
		*s = InvoiceStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into InvoiceStatus", value)
	}
	if !s.Valid() {
		return errors.New("invalid invoice status")
	}
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, errors.New("invalid invoice status")
	}
	return string(s), nil
}

// TaxJurisdiction selects the GST split: intra-state tax divides into
// CGST+SGST (half each), inter-state tax goes entirely to IGST.
type TaxJurisdiction string

const (
	TaxJurisdictionIntraState TaxJurisdiction = "intra"
	TaxJurisdictionInterState TaxJurisdiction = "inter"
)

func (j TaxJurisdiction) Valid() bool {
	return j == TaxJurisdictionIntraState || j == TaxJurisdictionInterState
}

func (j *TaxJurisdiction) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		*j = TaxJurisdiction(v)
	case string:
		*j = TaxJurisdiction(v)
	default:
		return fmt.Errorf("cannot scan %T into TaxJurisdiction", value)
	}
	if !j.Valid() {
		return errors.New("invalid tax jurisdiction")
	}
	return nil
}

func (j TaxJurisdiction) Value() (driver.Value, error) {
	if !j.Valid() {
		return nil, errors.New("invalid tax jurisdiction")
	}
	return string(j), nil
}
