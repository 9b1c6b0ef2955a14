package service

import (
	"github.com/edledger/edledger/internal/cache"
	"github.com/edledger/edledger/internal/config"
	"github.com/edledger/edledger/internal/domain/account"
	"github.com/edledger/edledger/internal/domain/catalog"
	"github.com/edledger/edledger/internal/domain/invoice"
	"github.com/edledger/edledger/internal/domain/medical"
	"github.com/edledger/edledger/internal/domain/payment"
	"github.com/edledger/edledger/internal/domain/plan"
	"github.com/edledger/edledger/internal/domain/student"
	"github.com/edledger/edledger/internal/logger"
	"github.com/edledger/edledger/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	// Repositories
	InvoiceRepo       invoice.Repository
	PaymentRepo       payment.Repository
	StudentRepo       student.Repository
	CatalogRepo       catalog.Repository
	MedicalRepo       medical.Repository
	AccountRepo       account.Repository
	PaymentMethodRepo account.PaymentMethodRepository
	PlanRepo          plan.Repository
}

// NewServiceParams creates a common service params bag
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	invoiceRepo invoice.Repository,
	paymentRepo payment.Repository,
	studentRepo student.Repository,
	catalogRepo catalog.Repository,
	medicalRepo medical.Repository,
	accountRepo account.Repository,
	paymentMethodRepo account.PaymentMethodRepository,
	planRepo plan.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:            logger,
		Config:            config,
		DB:                db,
		Cache:             cache,
		InvoiceRepo:       invoiceRepo,
		PaymentRepo:       paymentRepo,
		StudentRepo:       studentRepo,
		CatalogRepo:       catalogRepo,
		MedicalRepo:       medicalRepo,
		AccountRepo:       accountRepo,
		PaymentMethodRepo: paymentMethodRepo,
		PlanRepo:          planRepo,
	}
}
