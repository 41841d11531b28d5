package handlers

import (
	"fmt"
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/invoicing_backend/models"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"bitbucket.org/mmdatafocus/invoicing_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func CreateInvoiceHandler(c *gin.Context) {
	var input models.NewInvoice
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "invoiceHandler.go", "CreateInvoiceHandler", utils.NewValidationError(err.Error()))
		return
	}
	invoice, err := models.CreateInvoice(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "invoiceHandler.go", "CreateInvoiceHandler", err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func GetInvoiceHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	invoice, err := models.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, "invoiceHandler.go", "GetInvoiceHandler", err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func ListInvoicesHandler(c *gin.Context) {
	clientId, err := queryIntPtr(c, "client_id")
	if err != nil {
		respondError(c, "invoiceHandler.go", "ListInvoicesHandler", err)
		return
	}
	companyId, err := queryIntPtr(c, "company_id")
	if err != nil {
		respondError(c, "invoiceHandler.go", "ListInvoicesHandler", err)
		return
	}
	var status *models.InvoiceStatus
	if raw := c.Query("status"); raw != "" {
		s := models.InvoiceStatus(raw)
		status = &s
	}

	invoices, err := models.GetInvoices(c.Request.Context(), clientId, companyId, status)
	if err != nil {
		respondError(c, "invoiceHandler.go", "ListInvoicesHandler", err)
		return
	}
	if invoices == nil {
		invoices = make([]*models.Invoice, 0)
	}
	c.JSON(http.StatusOK, invoices)
}

func UpdateInvoiceHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "invoiceHandler.go", "UpdateInvoiceHandler", utils.NewValidationError(err.Error()))
		return
	}
	invoice, err := workflow.WithInvoiceLock(c.Request.Context(), id, func(tx *gorm.DB) error {
		return models.UpdateInvoiceTx(tx, id, &input)
	})
	if err != nil {
		respondError(c, "invoiceHandler.go", "UpdateInvoiceHandler", err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func DeleteInvoiceHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	invoice, err := models.DeleteInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, "invoiceHandler.go", "DeleteInvoiceHandler", err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func FinalizeInvoiceHandler(c *gin.Context) {
	changeInvoiceStatus(c, models.InvoiceStatusFinalized)
}

func CancelInvoiceHandler(c *gin.Context) {
	changeInvoiceStatus(c, models.InvoiceStatusCancelled)
}

func changeInvoiceStatus(c *gin.Context, next models.InvoiceStatus) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	invoice, err := workflow.WithInvoiceLock(c.Request.Context(), id, func(tx *gorm.DB) error {
		return models.ChangeInvoiceStatusTx(tx, id, next)
	})
	if err != nil {
		respondError(c, "invoiceHandler.go", "changeInvoiceStatus", err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

var invoiceExportHeaders = []string{
	"Invoice Number", "Status", "Issue Date", "Due Date",
	"Subtotal", "CGST", "SGST", "IGST", "TDS", "Discount", "Total", "Balance Due",
}

// ExportInvoicesHandler streams the (optionally filtered) invoice list as an
// xlsx workbook.
func ExportInvoicesHandler(c *gin.Context) {
	clientId, err := queryIntPtr(c, "client_id")
	if err != nil {
		respondError(c, "invoiceHandler.go", "ExportInvoicesHandler", err)
		return
	}
	companyId, err := queryIntPtr(c, "company_id")
	if err != nil {
		respondError(c, "invoiceHandler.go", "ExportInvoicesHandler", err)
		return
	}
	var status *models.InvoiceStatus
	if raw := c.Query("status"); raw != "" {
		s := models.InvoiceStatus(raw)
		status = &s
	}

	invoices, err := models.GetInvoices(c.Request.Context(), clientId, companyId, status)
	if err != nil {
		respondError(c, "invoiceHandler.go", "ExportInvoicesHandler", err)
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Invoices"
	f.SetSheetName(f.GetSheetName(0), sheet)
	for col, header := range invoiceExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}
	for row, inv := range invoices {
		values := []interface{}{
			inv.InvoiceNumber,
			string(inv.Status),
			inv.IssueDate.Format("2006-01-02"),
			inv.DueDate.Format("2006-01-02"),
			inv.Subtotal.StringFixed(2),
			inv.Cgst.StringFixed(2),
			inv.Sgst.StringFixed(2),
			inv.Igst.StringFixed(2),
			inv.Tds.StringFixed(2),
			inv.DiscountTotal.StringFixed(2),
			inv.Total.StringFixed(2),
			inv.BalanceDue.StringFixed(2),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("invoices-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		respondError(c, "invoiceHandler.go", "ExportInvoicesHandler", err)
	}
}
