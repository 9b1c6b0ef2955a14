package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/edledger/edledger/internal/api"
	v1 "github.com/edledger/edledger/internal/api/v1"
	"github.com/edledger/edledger/internal/cache"
	"github.com/edledger/edledger/internal/config"
	"github.com/edledger/edledger/internal/logger"
	"github.com/edledger/edledger/internal/postgres"
	"github.com/edledger/edledger/internal/repository"
	"github.com/edledger/edledger/internal/service"
	"github.com/edledger/edledger/internal/validator"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			provideCache,

			// Postgres
			postgres.NewDB,
			postgres.NewClient,

			// Repositories
			repository.NewInvoiceRepository,
			repository.NewPaymentRepository,
			repository.NewStudentRepository,
			repository.NewCatalogRepository,
			repository.NewMedicalRepository,
			repository.NewAccountRepository,
			repository.NewPaymentMethodRepository,
			repository.NewPlanRepository,

			// Services
			service.NewServiceParams,
			service.NewInvoiceService,
			service.NewPaymentService,
			service.NewStudentService,
			service.NewCatalogService,
			service.NewMedicalService,
			service.NewAccountService,
			service.NewPlanService,

			// API
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)
	app.Run()
}

func provideCache(cfg *config.Configuration) cache.Cache {
	return cache.NewInMemoryCache(cfg)
}

func provideHandlers(
	log *logger.Logger,
	invoiceService service.InvoiceService,
	paymentService service.PaymentService,
	studentService service.StudentService,
	catalogService service.CatalogService,
	medicalService service.MedicalService,
	accountService service.AccountService,
	planService service.PlanService,
) api.Handlers {
	return api.Handlers{
		Invoice: v1.NewInvoiceHandler(invoiceService, log),
		Payment: v1.NewPaymentHandler(paymentService, log),
		Student: v1.NewStudentHandler(studentService, log),
		Catalog: v1.NewCatalogHandler(catalogService, log),
		Medical: v1.NewMedicalHandler(medicalService, log),
		Account: v1.NewAccountHandler(accountService, log),
		Plan:    v1.NewPlanHandler(planService, log),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, log)
}

func startServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}
