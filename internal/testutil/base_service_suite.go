package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

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
	"github.com/edledger/edledger/internal/types"
	"github.com/edledger/edledger/internal/validator"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	InvoiceRepo       invoice.Repository
	PaymentRepo       payment.Repository
	StudentRepo       student.Repository
	CatalogRepo       catalog.Repository
	MedicalRepo       medical.Repository
	AccountRepo       account.Repository
	PaymentMethodRepo account.PaymentMethodRepository
	PlanRepo          plan.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     postgres.IClient
	cache  cache.Cache
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := &config.Configuration{
		Logging: config.LoggingConfig{
			Level: types.LogLevelInfo,
		},
		Cache: config.CacheConfig{
			Enabled: true,
		},
	}
	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = context.Background()
	s.ctx = context.WithValue(s.ctx, types.CtxTenantID, types.DefaultTenantID)
	s.ctx = context.WithValue(s.ctx, types.CtxUserID, types.DefaultUserID)
	s.ctx = context.WithValue(s.ctx, types.CtxRequestID, types.GenerateUUID())
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		InvoiceRepo:       NewInMemoryInvoiceStore(),
		PaymentRepo:       NewInMemoryPaymentStore(),
		StudentRepo:       NewInMemoryStudentStore(),
		CatalogRepo:       NewInMemoryCatalogStore(),
		MedicalRepo:       NewInMemoryMedicalStore(),
		AccountRepo:       NewInMemoryAccountStore(),
		PaymentMethodRepo: NewInMemoryPaymentMethodStore(),
		PlanRepo:          NewInMemoryPlanStore(),
	}

	s.db = NewMockPostgresClient(s.logger)
	s.cache = cache.NewInMemoryCache(s.config)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.InvoiceRepo.(*InMemoryInvoiceStore).Clear()
	s.stores.PaymentRepo.(*InMemoryPaymentStore).Clear()
	s.stores.StudentRepo.(*InMemoryStudentStore).Clear()
	s.stores.CatalogRepo.(*InMemoryCatalogStore).Clear()
	s.stores.MedicalRepo.(*InMemoryMedicalStore).Clear()
	s.stores.AccountRepo.(*InMemoryAccountStore).Clear()
	s.stores.PaymentMethodRepo.(*InMemoryPaymentMethodStore).Clear()
	s.stores.PlanRepo.(*InMemoryPlanStore).Clear()
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the mock db client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
