package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/edledger/edledger/internal/api/v1"
	"github.com/edledger/edledger/internal/config"
	"github.com/edledger/edledger/internal/logger"
	"github.com/edledger/edledger/internal/rest/middleware"
	"github.com/edledger/edledger/internal/types"
)

type Handlers struct {
	Invoice *v1.InvoiceHandler
	Payment *v1.PaymentHandler
	Catalog *v1.CatalogHandler
	Student *v1.StudentHandler
	Medical *v1.MedicalHandler
	Account *v1.AccountHandler
	Plan    *v1.PlanHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode == types.ModeProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.TenantMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	invoices := router.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.PUT("/:id", handlers.Invoice.UpdateInvoice)
		invoices.GET("/number/:number", handlers.Invoice.GetInvoiceByNumber)
		invoices.GET("/number/:number/allocations", handlers.Payment.ListAllocationsByInvoice)
	}

	payments := router.Group("/payments")
	{
		payments.POST("", handlers.Payment.RecordPayment)
		payments.GET("", handlers.Payment.ListPayments)
		payments.GET("/:id", handlers.Payment.GetPayment)
	}

	items := router.Group("/items")
	{
		items.POST("", handlers.Catalog.CreateItem)
		items.GET("", handlers.Catalog.ListItems)
		items.POST("/reorder", handlers.Catalog.ReorderItems)
		items.GET("/:id", handlers.Catalog.GetItem)
		items.PUT("/:id", handlers.Catalog.UpdateItem)
		items.DELETE("/:id", handlers.Catalog.DeleteItem)
	}

	students := router.Group("/students")
	{
		students.POST("", handlers.Student.CreateStudent)
		students.GET("", handlers.Student.ListStudents)
		students.GET("/admission/:admissionNumber", handlers.Student.GetStudentByAdmissionNumber)
		students.GET("/:id", handlers.Student.GetStudent)
		students.PUT("/:id", handlers.Student.UpdateStudent)
		students.DELETE("/:id", handlers.Student.DeleteStudent)

		// medical records live under the student's admission number
		students.POST("/:id/medical-records", handlers.Medical.CreateRecord)
		students.GET("/:id/medical-records", handlers.Medical.ListRecords)
		students.GET("/:id/medical-records/:recordId", handlers.Medical.GetRecord)
		students.PUT("/:id/medical-records/:recordId", handlers.Medical.UpdateRecord)
		students.DELETE("/:id/medical-records/:recordId", handlers.Medical.DeleteRecord)
	}

	paymentPlans := router.Group("/payment-plans")
	{
		paymentPlans.POST("", handlers.Plan.CreatePlan)
		paymentPlans.GET("", handlers.Plan.ListPlans)
		paymentPlans.GET("/:id", handlers.Plan.GetPlan)
		paymentPlans.PUT("/:id", handlers.Plan.UpdatePlan)
		paymentPlans.POST("/:id/cancel", handlers.Plan.CancelPlan)
		paymentPlans.DELETE("/:id", handlers.Plan.DeletePlan)
	}

	accounts := router.Group("/accounts")
	{
		accounts.POST("", handlers.Account.CreateAccount)
		accounts.GET("", handlers.Account.ListAccounts)
		accounts.GET("/:id", handlers.Account.GetAccount)
		accounts.PUT("/:id", handlers.Account.UpdateAccount)
		accounts.DELETE("/:id", handlers.Account.DeleteAccount)
	}

	paymentMethods := router.Group("/payment-methods")
	{
		paymentMethods.POST("", handlers.Account.CreatePaymentMethod)
		paymentMethods.GET("", handlers.Account.ListPaymentMethods)
		paymentMethods.GET("/:id", handlers.Account.GetPaymentMethod)
		paymentMethods.PUT("/:id", handlers.Account.UpdatePaymentMethod)
		paymentMethods.DELETE("/:id", handlers.Account.DeletePaymentMethod)
	}
}
