package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/invoicing_backend/config"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceItem struct {
	ID          int      `gorm:"primary_key" json:"id"`
	InvoiceId   int      `gorm:"index;not null" json:"invoice_id" binding:"required"`
	Invoice     *Invoice `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Description string   `gorm:"size:500;not null" json:"description" binding:"required"`
	HsnSac      string   `gorm:"size:20" json:"hsn_sac"`

	Quantity        int             `gorm:"not null" json:"quantity"`
	Rate            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rate"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"tax_percent"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"discount_percent"`

	// derived: net + tax after per-line rounding
	Amount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"amount"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInvoiceItem struct {
	InvoiceId   int    `json:"invoice_id"`
	Description string `json:"description" binding:"required"`
	HsnSac      string `json:"hsn_sac"`
	// pointer so an explicit 0 (free-of-charge line) is distinguishable from
	// an omitted quantity, which defaults to 1
	Quantity        *int            `json:"quantity"`
	Rate            decimal.Decimal `json:"rate"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

func (input *NewInvoiceItem) quantity() int {
	if input.Quantity == nil {
		return 1
	}
	return *input.Quantity
}

func (input *NewInvoiceItem) toItem() InvoiceItem {
	return InvoiceItem{
		InvoiceId:       input.InvoiceId,
		Description:     input.Description,
		HsnSac:          input.HsnSac,
		Quantity:        input.quantity(),
		Rate:            input.Rate,
		TaxPercent:      input.TaxPercent,
		DiscountPercent: input.DiscountPercent,
	}
}

func invoiceEditableTx(tx *gorm.DB, invoiceId int) (*Invoice, error) {
	var invoice Invoice
	if err := tx.First(&invoice, invoiceId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := invoice.checkEditable(); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CreateInvoiceItemTx adds a line to a draft invoice. Runs under the invoice
// write lock; the caller recomputes totals before commit.
func CreateInvoiceItemTx(tx *gorm.DB, input *NewInvoiceItem) (*InvoiceItem, error) {
	if input.Description == "" {
		return nil, utils.NewValidationError("description is required")
	}
	if _, err := invoiceEditableTx(tx, input.InvoiceId); err != nil {
		return nil, err
	}

	item := input.toItem()
	if _, err := item.CalculateItemAmounts(); err != nil {
		return nil, err
	}
	if err := tx.Create(&item).Error; err != nil {
		return nil, utils.AsApiError(err)
	}
	if err := SaveActivity(tx, "invoice_item.created", map[string]interface{}{"invoice_id": item.InvoiceId, "invoice_item_id": item.ID}); err != nil {
		return nil, err
	}
	return &item, nil
}

func UpdateInvoiceItemTx(tx *gorm.DB, id int, input *NewInvoiceItem) (*InvoiceItem, error) {
	var item InvoiceItem
	if err := tx.First(&item, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if _, err := invoiceEditableTx(tx, item.InvoiceId); err != nil {
		return nil, err
	}
	if input.InvoiceId != 0 && input.InvoiceId != item.InvoiceId {
		return nil, utils.NewValidationError("items cannot move between invoices")
	}

	item.Description = input.Description
	item.HsnSac = input.HsnSac
	item.Quantity = input.quantity()
	item.Rate = input.Rate
	item.TaxPercent = input.TaxPercent
	item.DiscountPercent = input.DiscountPercent
	if _, err := item.CalculateItemAmounts(); err != nil {
		return nil, err
	}

	if err := tx.Save(&item).Error; err != nil {
		return nil, err
	}
	if err := SaveActivity(tx, "invoice_item.updated", map[string]interface{}{"invoice_id": item.InvoiceId, "invoice_item_id": item.ID}); err != nil {
		return nil, err
	}
	return &item, nil
}

func DeleteInvoiceItemTx(tx *gorm.DB, id int) (*InvoiceItem, error) {
	var item InvoiceItem
	if err := tx.First(&item, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if _, err := invoiceEditableTx(tx, item.InvoiceId); err != nil {
		return nil, err
	}
	if err := tx.Delete(&item).Error; err != nil {
		return nil, err
	}
	if err := SaveActivity(tx, "invoice_item.deleted", map[string]interface{}{"invoice_id": item.InvoiceId, "invoice_item_id": id}); err != nil {
		return nil, err
	}
	return &item, nil
}

func GetInvoiceItem(ctx context.Context, id int) (*InvoiceItem, error) {
	db := config.GetDB()
	var result InvoiceItem
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetInvoiceItems(ctx context.Context, invoiceId *int) ([]*InvoiceItem, error) {
	db := config.GetDB()
	var results []*InvoiceItem

	dbCtx := db.WithContext(ctx)
	if invoiceId != nil && *invoiceId > 0 {
		dbCtx = dbCtx.Where("invoice_id = ?", *invoiceId)
	}
	if err := dbCtx.Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
