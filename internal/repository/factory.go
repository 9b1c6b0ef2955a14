package repository

import (
	"github.com/edledger/edledger/internal/domain/account"
	"github.com/edledger/edledger/internal/domain/catalog"
	"github.com/edledger/edledger/internal/domain/invoice"
	"github.com/edledger/edledger/internal/domain/medical"
	"github.com/edledger/edledger/internal/domain/payment"
	"github.com/edledger/edledger/internal/domain/plan"
	"github.com/edledger/edledger/internal/domain/student"
	"github.com/edledger/edledger/internal/logger"
	"github.com/edledger/edledger/internal/postgres"
	postgresRepo "github.com/edledger/edledger/internal/repository/postgres"
)

func NewInvoiceRepository(client postgres.IClient, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(client, logger)
}

func NewPaymentRepository(client postgres.IClient, logger *logger.Logger) payment.Repository {
	return postgresRepo.NewPaymentRepository(client, logger)
}

func NewStudentRepository(client postgres.IClient, logger *logger.Logger) student.Repository {
	return postgresRepo.NewStudentRepository(client, logger)
}

func NewCatalogRepository(client postgres.IClient, logger *logger.Logger) catalog.Repository {
	return postgresRepo.NewCatalogRepository(client, logger)
}

func NewMedicalRepository(client postgres.IClient, logger *logger.Logger) medical.Repository {
	return postgresRepo.NewMedicalRepository(client, logger)
}

func NewAccountRepository(client postgres.IClient, logger *logger.Logger) account.Repository {
	return postgresRepo.NewAccountRepository(client, logger)
}

func NewPaymentMethodRepository(client postgres.IClient, logger *logger.Logger) account.PaymentMethodRepository {
	return postgresRepo.NewPaymentMethodRepository(client, logger)
}

func NewPlanRepository(client postgres.IClient, logger *logger.Logger) plan.Repository {
	return postgresRepo.NewPlanRepository(client, logger)
}
