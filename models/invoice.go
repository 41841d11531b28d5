package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/invoicing_backend/config"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Invoice struct {
	ID            int      `gorm:"primary_key" json:"id"`
	ClientId      int      `gorm:"index;not null" json:"client_id" binding:"required"`
	Client        *Client  `gorm:"constraint:OnDelete:CASCADE" json:"client,omitempty"`
	CompanyId     int      `gorm:"index;not null" json:"company_id" binding:"required"`
	Company       *Company `gorm:"constraint:OnDelete:CASCADE" json:"company,omitempty"`
	InvoiceNumber string   `gorm:"size:30;not null;uniqueIndex" json:"invoice_number" binding:"required"`

	IssueDate time.Time     `gorm:"not null" json:"issue_date" binding:"required"`
	DueDate   time.Time     `gorm:"not null" json:"due_date" binding:"required"`
	Status    InvoiceStatus `gorm:"type:enum('draft','finalized','cancelled');not null;default:'draft'" json:"status"`

	// Address snapshot copied from the client at creation time; later client
	// edits never rewrite historical invoices.
	BillingAddress  string `gorm:"type:text" json:"billing_address"`
	BillingCity     string `gorm:"size:100" json:"billing_city"`
	BillingState    string `gorm:"size:100" json:"billing_state"`
	BillingPincode  string `gorm:"size:10" json:"billing_pincode"`
	ShippingAddress string `gorm:"type:text" json:"shipping_address"`
	ShippingCity    string `gorm:"size:100" json:"shipping_city"`
	ShippingState   string `gorm:"size:100" json:"shipping_state"`
	ShippingPincode string `gorm:"size:10" json:"shipping_pincode"`
	ShippingGstin   string `gorm:"size:20" json:"shipping_gstin"`

	TaxJurisdiction TaxJurisdiction  `gorm:"type:enum('intra','inter');not null;default:'intra'" json:"tax_jurisdiction"`
	TdsPercent      *decimal.Decimal `gorm:"type:decimal(5,2);default:null" json:"tds_percent"`

	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"subtotal"`
	Cgst          decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"cgst"`
	Sgst          decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"sgst"`
	Igst          decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"igst"`
	Tds           decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"tds"`
	DiscountTotal decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discount_total"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total"`
	BalanceDue    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"balance_due"`

	Notes               string     `gorm:"type:text" json:"notes"`
	Terms               string     `gorm:"type:text" json:"terms"`
	PaymentDueDate      *time.Time `gorm:"default:null" json:"payment_due_date"`
	AuthorizedSignature string     `gorm:"size:255" json:"authorized_signature"`

	CreatedById *int     `gorm:"index;default:null" json:"created_by_id"`
	CreatedBy   *Account `gorm:"foreignKey:CreatedById;constraint:OnDelete:SET NULL" json:"-"`

	Items    []InvoiceItem `gorm:"foreignKey:InvoiceId" json:"items,omitempty"`
	Payments []Payment     `gorm:"foreignKey:InvoiceId" json:"payments,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInvoice struct {
	ClientId      int    `json:"client_id" binding:"required"`
	CompanyId     int    `json:"company_id" binding:"required"`
	InvoiceNumber string `json:"invoice_number" binding:"required"`

	IssueDate time.Time `json:"issue_date" binding:"required"`
	DueDate   time.Time `json:"due_date" binding:"required"`

	BillingAddress  string `json:"billing_address"`
	BillingCity     string `json:"billing_city"`
	BillingState    string `json:"billing_state"`
	BillingPincode  string `json:"billing_pincode"`
	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingState   string `json:"shipping_state"`
	ShippingPincode string `json:"shipping_pincode"`
	ShippingGstin   string `json:"shipping_gstin"`

	TaxJurisdiction TaxJurisdiction  `json:"tax_jurisdiction"`
	TdsPercent      *decimal.Decimal `json:"tds_percent"`
	DiscountTotal   decimal.Decimal  `json:"discount_total"`

	Notes               string     `json:"notes"`
	Terms               string     `json:"terms"`
	PaymentDueDate      *time.Time `json:"payment_due_date"`
	AuthorizedSignature string     `json:"authorized_signature"`

	Items []NewInvoiceItem `json:"items"`
}

// header fields editable while the invoice is a draft
type UpdateInvoiceInput struct {
	IssueDate *time.Time `json:"issue_date"`
	DueDate   *time.Time `json:"due_date"`

	TaxJurisdiction *TaxJurisdiction `json:"tax_jurisdiction"`
	TdsPercent      *decimal.Decimal `json:"tds_percent"`
	DiscountTotal   *decimal.Decimal `json:"discount_total"`

	Notes               *string    `json:"notes"`
	Terms               *string    `json:"terms"`
	PaymentDueDate      *time.Time `json:"payment_due_date"`
	AuthorizedSignature *string    `json:"authorized_signature"`
}

// snapshotAddressFromClient fills blank invoice address fields from the
// client record, so the invoice keeps its own copy from then on.
func (inv *Invoice) snapshotAddressFromClient(client *Client) {
	if inv.BillingAddress == "" && inv.BillingCity == "" && inv.BillingState == "" && inv.BillingPincode == "" {
		inv.BillingAddress = client.BillingAddress
		inv.BillingCity = client.BillingCity
		inv.BillingState = client.BillingState
		inv.BillingPincode = client.BillingPincode
	}
	if inv.ShippingAddress == "" && inv.ShippingCity == "" && inv.ShippingState == "" && inv.ShippingPincode == "" {
		inv.ShippingAddress = client.ShippingAddress
		inv.ShippingCity = client.ShippingCity
		inv.ShippingState = client.ShippingState
		inv.ShippingPincode = client.ShippingPincode
	}
	if inv.ShippingGstin == "" {
		inv.ShippingGstin = client.Gstin
	}
}

func (inv *Invoice) checkEditable() error {
	if inv.Status != InvoiceStatusDraft {
		return utils.NewInvalidStateError("invoice is " + string(inv.Status) + " and can no longer be edited")
	}
	return nil
}

func validateInvoiceNumberFree(tx *gorm.DB, invoiceNumber string, excludeId int) error {
	var count int64
	dbCtx := tx.Model(&Invoice{}).Where("invoice_number = ?", invoiceNumber)
	if excludeId > 0 {
		dbCtx = dbCtx.Not("id = ?", excludeId)
	}
	if err := dbCtx.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return utils.NewConflictError("invoice number already exists")
	}
	return nil
}

func CreateInvoice(ctx context.Context, input *NewInvoice) (*Invoice, error) {
	db := config.GetDB()

	var client Client
	if err := db.WithContext(ctx).First(&client, input.ClientId).Error; err != nil {
		return nil, utils.NewValidationError("client not found")
	}
	if err := utils.ValidateResourceId[Company](ctx, input.CompanyId); err != nil {
		return nil, utils.NewValidationError("company not found")
	}

	jurisdiction := input.TaxJurisdiction
	if jurisdiction == "" {
		jurisdiction = TaxJurisdictionIntraState
	}
	if !jurisdiction.Valid() {
		return nil, utils.NewValidationError("invalid tax jurisdiction")
	}

	invoice := Invoice{
		ClientId:            input.ClientId,
		CompanyId:           input.CompanyId,
		InvoiceNumber:       input.InvoiceNumber,
		IssueDate:           input.IssueDate,
		DueDate:             input.DueDate,
		Status:              InvoiceStatusDraft,
		BillingAddress:      input.BillingAddress,
		BillingCity:         input.BillingCity,
		BillingState:        input.BillingState,
		BillingPincode:      input.BillingPincode,
		ShippingAddress:     input.ShippingAddress,
		ShippingCity:        input.ShippingCity,
		ShippingState:       input.ShippingState,
		ShippingPincode:     input.ShippingPincode,
		ShippingGstin:       input.ShippingGstin,
		TaxJurisdiction:     jurisdiction,
		TdsPercent:          input.TdsPercent,
		DiscountTotal:       input.DiscountTotal,
		Notes:               input.Notes,
		Terms:               input.Terms,
		PaymentDueDate:      input.PaymentDueDate,
		AuthorizedSignature: input.AuthorizedSignature,
	}
	invoice.snapshotAddressFromClient(&client)

	if accountId, ok := utils.GetAccountIdFromContext(ctx); ok && accountId > 0 {
		invoice.CreatedById = &accountId
	}

	items := make([]InvoiceItem, 0, len(input.Items))
	for _, in := range input.Items {
		if in.Description == "" {
			return nil, utils.NewValidationError("item description is required")
		}
		items = append(items, in.toItem())
	}

	amounts, err := CalculateInvoiceAmounts(items, jurisdiction, input.TdsPercent, decimal.Zero, input.DiscountTotal)
	if err != nil {
		return nil, err
	}
	invoice.applyAmounts(amounts, decimal.Zero)
	invoice.Items = items

	tx := db.WithContext(ctx).Begin()
	defer func() { _ = tx.Rollback().Error }()

	if err := validateInvoiceNumberFree(tx, input.InvoiceNumber, 0); err != nil {
		return nil, err
	}
	if err := tx.Create(&invoice).Error; err != nil {
		return nil, utils.AsApiError(err)
	}
	if err := SaveActivity(tx, "invoice.created", map[string]interface{}{
		"invoice_id":     invoice.ID,
		"invoice_number": invoice.InvoiceNumber,
		"total":          invoice.Total,
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, utils.AsApiError(err)
	}
	return &invoice, nil
}

func (inv *Invoice) applyAmounts(amounts InvoiceAmounts, paid decimal.Decimal) {
	inv.Subtotal = amounts.Subtotal
	inv.Cgst = amounts.Cgst
	inv.Sgst = amounts.Sgst
	inv.Igst = amounts.Igst
	inv.Tds = amounts.Tds
	inv.DiscountTotal = amounts.DiscountTotal
	inv.Total = amounts.Total
	inv.BalanceDue = amounts.Total.Sub(paid)
}

// RecomputeInvoiceTotalsTx re-derives every money field of an invoice from
// its current items and payments, inside the caller's transaction. Every
// item/payment mutation must run this before commit so a reader can never
// observe a stale total alongside updated rows.
func RecomputeInvoiceTotalsTx(tx *gorm.DB, invoiceId int) (*Invoice, error) {
	var invoice Invoice
	if err := tx.First(&invoice, invoiceId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	var items []InvoiceItem
	if err := tx.Where("invoice_id = ?", invoiceId).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	var payments []Payment
	if err := tx.Where("invoice_id = ?", invoiceId).Find(&payments).Error; err != nil {
		return nil, err
	}

	amounts, err := CalculateInvoiceAmounts(items, invoice.TaxJurisdiction, invoice.TdsPercent, invoice.Tds, invoice.DiscountTotal)
	if err != nil {
		return nil, err
	}
	balanceDue := CalculateBalanceDue(amounts.Total, payments)

	updates := map[string]interface{}{
		"subtotal":       amounts.Subtotal,
		"cgst":           amounts.Cgst,
		"sgst":           amounts.Sgst,
		"igst":           amounts.Igst,
		"tds":            amounts.Tds,
		"discount_total": amounts.DiscountTotal,
		"total":          amounts.Total,
		"balance_due":    balanceDue,
	}
	if err := tx.Model(&Invoice{}).Where("id = ?", invoiceId).Updates(updates).Error; err != nil {
		return nil, err
	}

	invoice.applyAmounts(amounts, amounts.Total.Sub(balanceDue))
	invoice.Items = items
	invoice.Payments = payments
	return &invoice, nil
}

func GetInvoice(ctx context.Context, id int) (*Invoice, error) {
	db := config.GetDB()
	var result Invoice
	err := db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("invoice_items.id") }).
		Preload("Payments").
		First(&result, id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetInvoices(ctx context.Context, clientId *int, companyId *int, status *InvoiceStatus) ([]*Invoice, error) {
	db := config.GetDB()
	var results []*Invoice

	dbCtx := db.WithContext(ctx)
	if clientId != nil && *clientId > 0 {
		dbCtx = dbCtx.Where("client_id = ?", *clientId)
	}
	if companyId != nil && *companyId > 0 {
		dbCtx = dbCtx.Where("company_id = ?", *companyId)
	}
	if status != nil && *status != "" {
		if !status.Valid() {
			return nil, utils.NewValidationError("invalid invoice status")
		}
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if err := dbCtx.Order("issue_date DESC, id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateInvoiceTx edits draft header fields. Must run under the invoice
// write lock; the caller recomputes totals afterwards.
func UpdateInvoiceTx(tx *gorm.DB, id int, input *UpdateInvoiceInput) error {
	var invoice Invoice
	if err := tx.First(&invoice, id).Error; err != nil {
		return utils.ErrorRecordNotFound
	}
	if err := invoice.checkEditable(); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if input.IssueDate != nil {
		updates["issue_date"] = *input.IssueDate
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}
	if input.TaxJurisdiction != nil {
		if !input.TaxJurisdiction.Valid() {
			return utils.NewValidationError("invalid tax jurisdiction")
		}
		updates["tax_jurisdiction"] = *input.TaxJurisdiction
	}
	if input.TdsPercent != nil {
		updates["tds_percent"] = *input.TdsPercent
	}
	if input.DiscountTotal != nil {
		if input.DiscountTotal.IsNegative() {
			return utils.NewValidationError("discount_total must not be negative")
		}
		updates["discount_total"] = *input.DiscountTotal
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.Terms != nil {
		updates["terms"] = *input.Terms
	}
	if input.PaymentDueDate != nil {
		updates["payment_due_date"] = *input.PaymentDueDate
	}
	if input.AuthorizedSignature != nil {
		updates["authorized_signature"] = *input.AuthorizedSignature
	}
	if len(updates) == 0 {
		return nil
	}

	if err := tx.Model(&Invoice{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return err
	}
	return SaveActivity(tx, "invoice.updated", map[string]interface{}{"invoice_id": id})
}

// ChangeInvoiceStatusTx drives the lifecycle. Finalizing an empty or
// zero-subtotal invoice is refused.
func ChangeInvoiceStatusTx(tx *gorm.DB, id int, next InvoiceStatus) error {
	if !next.Valid() {
		return utils.NewValidationError("invalid invoice status")
	}

	var invoice Invoice
	if err := tx.First(&invoice, id).Error; err != nil {
		return utils.ErrorRecordNotFound
	}
	if !invoice.Status.CanTransitionTo(next) {
		return utils.NewInvalidStateError("cannot transition invoice from " + string(invoice.Status) + " to " + string(next))
	}

	if next == InvoiceStatusFinalized {
		var itemCount int64
		if err := tx.Model(&InvoiceItem{}).Where("invoice_id = ?", id).Count(&itemCount).Error; err != nil {
			return err
		}
		if itemCount == 0 {
			return utils.NewValidationError("cannot finalize an invoice without items")
		}
		if invoice.Subtotal.IsZero() {
			return utils.NewValidationError("cannot finalize an invoice with zero subtotal")
		}
	}

	if err := tx.Model(&Invoice{}).Where("id = ?", id).Update("status", next).Error; err != nil {
		return err
	}
	return SaveActivity(tx, "invoice."+string(next), map[string]interface{}{
		"invoice_id":     id,
		"invoice_number": invoice.InvoiceNumber,
		"from":           invoice.Status,
	})
}

func DeleteInvoice(ctx context.Context, id int) (*Invoice, error) {
	db := config.GetDB()

	var invoice Invoice
	if err := db.WithContext(ctx).First(&invoice, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	tx := db.WithContext(ctx).Begin()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.Delete(&InvoiceItem{}, "invoice_id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Delete(&Payment{}, "invoice_id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Delete(&invoice).Error; err != nil {
		return nil, err
	}
	if err := SaveActivity(tx, "invoice.deleted", map[string]interface{}{
		"invoice_id":     id,
		"invoice_number": invoice.InvoiceNumber,
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}
