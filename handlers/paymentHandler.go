package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/invoicing_backend/models"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"bitbucket.org/mmdatafocus/invoicing_backend/workflow"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func CreatePaymentHandler(c *gin.Context) {
	var input models.NewPayment
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "paymentHandler.go", "CreatePaymentHandler", utils.NewValidationError(err.Error()))
		return
	}

	var payment *models.Payment
	invoice, err := workflow.WithInvoiceLock(c.Request.Context(), input.InvoiceId, func(tx *gorm.DB) error {
		var err error
		payment, err = models.CreatePaymentTx(tx, &input)
		return err
	})
	if err != nil {
		respondError(c, "paymentHandler.go", "CreatePaymentHandler", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment, "invoice": invoice})
}

func GetPaymentHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	payment, err := models.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, "paymentHandler.go", "GetPaymentHandler", err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func ListPaymentsHandler(c *gin.Context) {
	invoiceId, err := queryIntPtr(c, "invoice_id")
	if err != nil {
		respondError(c, "paymentHandler.go", "ListPaymentsHandler", err)
		return
	}
	payments, err := models.GetPayments(c.Request.Context(), invoiceId)
	if err != nil {
		respondError(c, "paymentHandler.go", "ListPaymentsHandler", err)
		return
	}
	if payments == nil {
		payments = make([]*models.Payment, 0)
	}
	c.JSON(http.StatusOK, payments)
}

func UpdatePaymentHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewPayment
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "paymentHandler.go", "UpdatePaymentHandler", utils.NewValidationError(err.Error()))
		return
	}

	existing, err := models.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, "paymentHandler.go", "UpdatePaymentHandler", err)
		return
	}

	var payment *models.Payment
	invoice, err := workflow.WithInvoiceLock(c.Request.Context(), existing.InvoiceId, func(tx *gorm.DB) error {
		var err error
		payment, err = models.UpdatePaymentTx(tx, id, &input)
		return err
	})
	if err != nil {
		respondError(c, "paymentHandler.go", "UpdatePaymentHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment, "invoice": invoice})
}

func DeletePaymentHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	existing, err := models.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, "paymentHandler.go", "DeletePaymentHandler", err)
		return
	}

	var payment *models.Payment
	invoice, err := workflow.WithInvoiceLock(c.Request.Context(), existing.InvoiceId, func(tx *gorm.DB) error {
		var err error
		payment, err = models.DeletePaymentTx(tx, id)
		return err
	})
	if err != nil {
		respondError(c, "paymentHandler.go", "DeletePaymentHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment, "invoice": invoice})
}
