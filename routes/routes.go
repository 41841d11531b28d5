package routes

import (
	"bitbucket.org/mmdatafocus/invoicing_backend/handlers"
	"bitbucket.org/mmdatafocus/invoicing_backend/middlewares"
	"github.com/gin-gonic/gin"
)

// Register wires every API route. Auth endpoints are public; everything else
// requires a valid access token.
func Register(r *gin.Engine) {
	r.POST("/register", handlers.RegisterHandler)
	r.POST("/login", handlers.LoginHandler)
	r.POST("/token/refresh", handlers.RefreshTokenHandler)

	authorized := r.Group("/", middlewares.AuthRequired())

	authorized.POST("/logout", handlers.LogoutHandler)
	authorized.GET("/me", handlers.MeHandler)
	authorized.DELETE("/me", handlers.DeleteAccountHandler)

	authorized.POST("/clients", handlers.CreateClientHandler)
	authorized.GET("/clients", handlers.ListClientsHandler)
	authorized.GET("/clients/:id", handlers.GetClientHandler)
	authorized.PUT("/clients/:id", handlers.UpdateClientHandler)
	authorized.DELETE("/clients/:id", handlers.DeleteClientHandler)

	authorized.POST("/companies", handlers.CreateCompanyHandler)
	authorized.GET("/companies", handlers.ListCompaniesHandler)
	authorized.GET("/companies/:id", handlers.GetCompanyHandler)
	authorized.PUT("/companies/:id", handlers.UpdateCompanyHandler)
	authorized.DELETE("/companies/:id", handlers.DeleteCompanyHandler)
	authorized.POST("/companies/:id/logo", handlers.UploadCompanyLogoHandler)

	authorized.POST("/bank-details", handlers.CreateBankDetailHandler)
	authorized.GET("/bank-details", handlers.ListBankDetailsHandler)
	authorized.GET("/bank-details/:id", handlers.GetBankDetailHandler)
	authorized.PUT("/bank-details/:id", handlers.UpdateBankDetailHandler)
	authorized.DELETE("/bank-details/:id", handlers.DeleteBankDetailHandler)

	authorized.POST("/invoices", handlers.CreateInvoiceHandler)
	authorized.GET("/invoices", handlers.ListInvoicesHandler)
	authorized.GET("/invoices/export", handlers.ExportInvoicesHandler)
	authorized.GET("/invoices/:id", handlers.GetInvoiceHandler)
	authorized.PUT("/invoices/:id", handlers.UpdateInvoiceHandler)
	authorized.DELETE("/invoices/:id", handlers.DeleteInvoiceHandler)
	authorized.POST("/invoices/:id/finalize", handlers.FinalizeInvoiceHandler)
	authorized.POST("/invoices/:id/cancel", handlers.CancelInvoiceHandler)

	authorized.POST("/invoice-items", handlers.CreateInvoiceItemHandler)
	authorized.GET("/invoice-items", handlers.ListInvoiceItemsHandler)
	authorized.GET("/invoice-items/:id", handlers.GetInvoiceItemHandler)
	authorized.PUT("/invoice-items/:id", handlers.UpdateInvoiceItemHandler)
	authorized.DELETE("/invoice-items/:id", handlers.DeleteInvoiceItemHandler)

	authorized.POST("/payments", handlers.CreatePaymentHandler)
	authorized.GET("/payments", handlers.ListPaymentsHandler)
	authorized.GET("/payments/:id", handlers.GetPaymentHandler)
	authorized.PUT("/payments/:id", handlers.UpdatePaymentHandler)
	authorized.DELETE("/payments/:id", handlers.DeletePaymentHandler)

	// append-only: read and create, never update or delete
	authorized.POST("/activity-logs", handlers.CreateActivityLogHandler)
	authorized.GET("/activity-logs", handlers.ListActivityLogsHandler)
	authorized.GET("/activity-logs/:id", handlers.GetActivityLogHandler)
}
