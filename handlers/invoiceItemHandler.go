package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/invoicing_backend/models"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"bitbucket.org/mmdatafocus/invoicing_backend/workflow"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func CreateInvoiceItemHandler(c *gin.Context) {
	var input models.NewInvoiceItem
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "invoiceItemHandler.go", "CreateInvoiceItemHandler", utils.NewValidationError(err.Error()))
		return
	}
	if input.InvoiceId <= 0 {
		respondError(c, "invoiceItemHandler.go", "CreateInvoiceItemHandler", utils.NewValidationError("invoice_id is required"))
		return
	}

	var item *models.InvoiceItem
	invoice, err := workflow.WithInvoiceLock(c.Request.Context(), input.InvoiceId, func(tx *gorm.DB) error {
		var err error
		item, err = models.CreateInvoiceItemTx(tx, &input)
		return err
	})
	if err != nil {
		respondError(c, "invoiceItemHandler.go", "CreateInvoiceItemHandler", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item, "invoice": invoice})
}

func GetInvoiceItemHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	item, err := models.GetInvoiceItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, "invoiceItemHandler.go", "GetInvoiceItemHandler", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func ListInvoiceItemsHandler(c *gin.Context) {
	invoiceId, err := queryIntPtr(c, "invoice_id")
	if err != nil {
		respondError(c, "invoiceItemHandler.go", "ListInvoiceItemsHandler", err)
		return
	}
	items, err := models.GetInvoiceItems(c.Request.Context(), invoiceId)
	if err != nil {
		respondError(c, "invoiceItemHandler.go", "ListInvoiceItemsHandler", err)
		return
	}
	if items == nil {
		items = make([]*models.InvoiceItem, 0)
	}
	c.JSON(http.StatusOK, items)
}

func UpdateInvoiceItemHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewInvoiceItem
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "invoiceItemHandler.go", "UpdateInvoiceItemHandler", utils.NewValidationError(err.Error()))
		return
	}

	existing, err := models.GetInvoiceItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, "invoiceItemHandler.go", "UpdateInvoiceItemHandler", err)
		return
	}

	var item *models.InvoiceItem
	invoice, err := workflow.WithInvoiceLock(c.Request.Context(), existing.InvoiceId, func(tx *gorm.DB) error {
		var err error
		item, err = models.UpdateInvoiceItemTx(tx, id, &input)
		return err
	})
	if err != nil {
		respondError(c, "invoiceItemHandler.go", "UpdateInvoiceItemHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "invoice": invoice})
}

func DeleteInvoiceItemHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	existing, err := models.GetInvoiceItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, "invoiceItemHandler.go", "DeleteInvoiceItemHandler", err)
		return
	}

	var item *models.InvoiceItem
	invoice, err := workflow.WithInvoiceLock(c.Request.Context(), existing.InvoiceId, func(tx *gorm.DB) error {
		var err error
		item, err = models.DeleteInvoiceItemTx(tx, id)
		return err
	})
	if err != nil {
		respondError(c, "invoiceItemHandler.go", "DeleteInvoiceItemHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "invoice": invoice})
}
