package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/invoicing_backend/config"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Payment struct {
	ID        int             `gorm:"primary_key" json:"id"`
	InvoiceId int             `gorm:"index;not null" json:"invoice_id" binding:"required"`
	Invoice   *Invoice        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date      time.Time       `gorm:"not null" json:"date" binding:"required"`
	Method    string          `gorm:"size:50" json:"method"`
	Reference string          `gorm:"size:100" json:"reference"`
	Notes     string          `gorm:"type:text" json:"notes"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPayment struct {
	InvoiceId int             `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date" binding:"required"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes"`
}

// payments are recorded against drafts and finalized invoices; a cancelled
// invoice takes no more money
func invoiceAcceptsPaymentsTx(tx *gorm.DB, invoiceId int) error {
	var invoice Invoice
	if err := tx.First(&invoice, invoiceId).Error; err != nil {
		return utils.ErrorRecordNotFound
	}
	if invoice.Status == InvoiceStatusCancelled {
		return utils.NewInvalidStateError("cannot record payments against a cancelled invoice")
	}
	return nil
}

func (input *NewPayment) validate() error {
	if !input.Amount.IsPositive() {
		return utils.NewValidationError("amount must be positive")
	}
	return nil
}

// CreatePaymentTx records a payment under the invoice write lock; the caller
// recomputes the balance before commit.
func CreatePaymentTx(tx *gorm.DB, input *NewPayment) (*Payment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := invoiceAcceptsPaymentsTx(tx, input.InvoiceId); err != nil {
		return nil, err
	}

	payment := Payment{
		InvoiceId: input.InvoiceId,
		Amount:    input.Amount.Round(2),
		Date:      input.Date,
		Method:    input.Method,
		Reference: input.Reference,
		Notes:     input.Notes,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return nil, utils.AsApiError(err)
	}
	if err := SaveActivity(tx, "payment.created", map[string]interface{}{
		"invoice_id": payment.InvoiceId,
		"payment_id": payment.ID,
		"amount":     payment.Amount,
	}); err != nil {
		return nil, err
	}
	return &payment, nil
}

func UpdatePaymentTx(tx *gorm.DB, id int, input *NewPayment) (*Payment, error) {
	var payment Payment
	if err := tx.First(&payment, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := invoiceAcceptsPaymentsTx(tx, payment.InvoiceId); err != nil {
		return nil, err
	}
	if input.InvoiceId != 0 && input.InvoiceId != payment.InvoiceId {
		return nil, utils.NewValidationError("payments cannot move between invoices")
	}

	payment.Amount = input.Amount.Round(2)
	payment.Date = input.Date
	payment.Method = input.Method
	payment.Reference = input.Reference
	payment.Notes = input.Notes

	if err := tx.Save(&payment).Error; err != nil {
		return nil, err
	}
	if err := SaveActivity(tx, "payment.updated", map[string]interface{}{"invoice_id": payment.InvoiceId, "payment_id": payment.ID}); err != nil {
		return nil, err
	}
	return &payment, nil
}

func DeletePaymentTx(tx *gorm.DB, id int) (*Payment, error) {
	var payment Payment
	if err := tx.First(&payment, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := invoiceAcceptsPaymentsTx(tx, payment.InvoiceId); err != nil {
		return nil, err
	}
	if err := tx.Delete(&payment).Error; err != nil {
		return nil, err
	}
	if err := SaveActivity(tx, "payment.deleted", map[string]interface{}{"invoice_id": payment.InvoiceId, "payment_id": id}); err != nil {
		return nil, err
	}
	return &payment, nil
}

func GetPayment(ctx context.Context, id int) (*Payment, error) {
	db := config.GetDB()
	var result Payment
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetPayments(ctx context.Context, invoiceId *int) ([]*Payment, error) {
	db := config.GetDB()
	var results []*Payment

	dbCtx := db.WithContext(ctx)
	if invoiceId != nil && *invoiceId > 0 {
		dbCtx = dbCtx.Where("invoice_id = ?", *invoiceId)
	}
	if err := dbCtx.Order("date DESC, id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
