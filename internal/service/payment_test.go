package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/edledger/edledger/internal/api/dto"
	"github.com/edledger/edledger/internal/domain/account"
	"github.com/edledger/edledger/internal/domain/invoice"
	"github.com/edledger/edledger/internal/domain/student"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/testutil"
	"github.com/edledger/edledger/internal/types"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  PaymentService
	testData struct {
		student       *student.Student
		account       *account.Account
		paymentMethod *account.PaymentMethod
	}
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *PaymentServiceSuite) setupService() {
	s.service = NewPaymentService(ServiceParams{
		Logger:            s.GetLogger(),
		Config:            s.GetConfig(),
		DB:                s.GetDB(),
		Cache:             s.GetCache(),
		InvoiceRepo:       s.GetStores().InvoiceRepo,
		PaymentRepo:       s.GetStores().PaymentRepo,
		StudentRepo:       s.GetStores().StudentRepo,
		CatalogRepo:       s.GetStores().CatalogRepo,
		MedicalRepo:       s.GetStores().MedicalRepo,
		AccountRepo:       s.GetStores().AccountRepo,
		PaymentMethodRepo: s.GetStores().PaymentMethodRepo,
	})
}

func (s *PaymentServiceSuite) setupTestData() {
	s.testData.student = &student.Student{
		ID:              "stud_test",
		AdmissionNumber: "ADM-001",
		FirstName:       "Kofi",
		LastName:        "Mensah",
		BaseModel:       types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().StudentRepo.Create(s.GetContext(), s.testData.student))

	s.testData.account = &account.Account{
		ID:        "acct_test",
		Name:      "School Main Account",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().AccountRepo.Create(s.GetContext(), s.testData.account))

	s.testData.paymentMethod = &account.PaymentMethod{
		ID:        "pm_test",
		Name:      "Bank Transfer",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PaymentMethodRepo.Create(s.GetContext(), s.testData.paymentMethod))
}

func (s *PaymentServiceSuite) seedInvoice(number string, dueDate time.Time, total int64) *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:              "inv_" + number,
		InvoiceNumber:   number,
		AdmissionNumber: s.testData.student.AdmissionNumber,
		StudentName:     s.testData.student.FullName(),
		InvoiceDate:     dueDate.AddDate(0, -1, 0),
		DueDate:         dueDate,
		InvoiceStatus:   types.InvoiceStatusPending,
		PaymentMade:     decimal.Zero,
		LineItems: []*invoice.LineItem{
			{
				ID:        "line_" + number,
				ItemName:  "Tuition",
				UnitPrice: decimal.NewFromInt(total),
				Quantity:  1,
				BaseModel: types.GetDefaultBaseModel(s.GetContext()),
			},
		},
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	inv.Recalculate()
	s.NoError(s.GetStores().InvoiceRepo.CreateWithLineItems(s.GetContext(), inv))
	return inv
}

func (s *PaymentServiceSuite) record(amount int64, allocations ...dto.AllocationRequest) (*dto.PaymentResponse, error) {
	return s.service.RecordPayment(s.GetContext(), &dto.CreatePaymentRequest{
		AdmissionNumber: "ADM-001",
		Amount:          decimal.NewFromInt(amount),
		AccountID:       s.testData.account.ID,
		PaymentMethodID: s.testData.paymentMethod.ID,
		Allocations:     allocations,
	})
}

func (s *PaymentServiceSuite) TestAutoAllocationSpreadsOldestFirst() {
	base := time.Now().UTC()
	s.seedInvoice("INV-A", base.AddDate(0, 0, 10), 100)
	s.seedInvoice("INV-B", base.AddDate(0, 0, 20), 150)

	resp, err := s.record(250)
	s.NoError(err)
	s.Len(resp.Allocations, 2)

	byNumber := map[string]decimal.Decimal{}
	for _, a := range resp.Allocations {
		byNumber[a.InvoiceNumber] = a.AllocatedAmount
	}
	s.True(byNumber["INV-A"].Equal(decimal.NewFromInt(100)))
	s.True(byNumber["INV-B"].Equal(decimal.NewFromInt(150)))
	s.True(resp.Unallocated.IsZero())

	// Both invoices settle
	for _, number := range []string{"INV-A", "INV-B"} {
		inv, err := s.GetStores().InvoiceRepo.GetByInvoiceNumber(s.GetContext(), number)
		s.NoError(err)
		s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
		s.True(inv.BalanceDue.IsZero())
	}
}

func (s *PaymentServiceSuite) TestAutoAllocationPartial() {
	base := time.Now().UTC()
	s.seedInvoice("INV-A", base.AddDate(0, 0, 10), 100)
	s.seedInvoice("INV-B", base.AddDate(0, 0, 20), 150)

	resp, err := s.record(50)
	s.NoError(err)
	s.Len(resp.Allocations, 1)
	s.Equal("INV-A", resp.Allocations[0].InvoiceNumber)
	s.True(resp.Allocations[0].AllocatedAmount.Equal(decimal.NewFromInt(50)))

	inv, err := s.GetStores().InvoiceRepo.GetByInvoiceNumber(s.GetContext(), "INV-A")
	s.NoError(err)
	s.Equal(types.InvoiceStatusPending, inv.InvoiceStatus)
	s.True(inv.BalanceDue.Equal(decimal.NewFromInt(50)))
	s.True(inv.PaymentMade.Equal(decimal.NewFromInt(50)))
}

func (s *PaymentServiceSuite) TestAutoAllocationOverpayment() {
	base := time.Now().UTC()
	s.seedInvoice("INV-A", base.AddDate(0, 0, 10), 100)
	s.seedInvoice("INV-B", base.AddDate(0, 0, 20), 200)

	resp, err := s.record(400)
	s.NoError(err)
	s.Len(resp.Allocations, 2)
	s.True(resp.Unallocated.Equal(decimal.NewFromInt(100)), "unallocated %s", resp.Unallocated)
}

func (s *PaymentServiceSuite) TestManualAllocation() {
	base := time.Now().UTC()
	s.seedInvoice("INV-A", base.AddDate(0, 0, 10), 100)
	s.seedInvoice("INV-B", base.AddDate(0, 0, 20), 150)

	// Pin the whole payment to the newer invoice
	resp, err := s.record(120, dto.AllocationRequest{
		InvoiceNumber:   "INV-B",
		AllocatedAmount: decimal.NewFromInt(120),
	})
	s.NoError(err)
	s.Len(resp.Allocations, 1)
	s.Equal("INV-B", resp.Allocations[0].InvoiceNumber)

	invA, err := s.GetStores().InvoiceRepo.GetByInvoiceNumber(s.GetContext(), "INV-A")
	s.NoError(err)
	s.True(invA.PaymentMade.IsZero())

	invB, err := s.GetStores().InvoiceRepo.GetByInvoiceNumber(s.GetContext(), "INV-B")
	s.NoError(err)
	s.True(invB.BalanceDue.Equal(decimal.NewFromInt(30)))
}

func (s *PaymentServiceSuite) TestNegativeOverpaymentRejected() {
	base := time.Now().UTC()
	s.seedInvoice("INV-A", base.AddDate(0, 0, 10), 100)

	// Allocations exceed the payment amount: rejected before any write
	_, err := s.record(50, dto.AllocationRequest{
		InvoiceNumber:   "INV-A",
		AllocatedAmount: decimal.NewFromInt(100),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	inv, err := s.GetStores().InvoiceRepo.GetByInvoiceNumber(s.GetContext(), "INV-A")
	s.NoError(err)
	s.True(inv.PaymentMade.IsZero())

	payments, err := s.GetStores().PaymentRepo.List(s.GetContext(), types.NewPaymentFilter())
	s.NoError(err)
	s.Empty(payments)
}

func (s *PaymentServiceSuite) TestAllocationExceedingBalanceRejected() {
	base := time.Now().UTC()
	s.seedInvoice("INV-A", base.AddDate(0, 0, 10), 100)

	_, err := s.record(500, dto.AllocationRequest{
		InvoiceNumber:   "INV-A",
		AllocatedAmount: decimal.NewFromInt(150),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentServiceSuite) TestForwardedInvoiceNotPayable() {
	base := time.Now().UTC()
	inv := s.seedInvoice("INV-FWD", base.AddDate(0, 0, -10), 100)
	s.NoError(inv.MarkForwarded())
	s.NoError(s.GetStores().InvoiceRepo.Update(s.GetContext(), inv))

	// Forwarded invoices are not outstanding, so a manual allocation against
	// one does not match any payable invoice
	_, err := s.record(100, dto.AllocationRequest{
		InvoiceNumber:   "INV-FWD",
		AllocatedAmount: decimal.NewFromInt(100),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentServiceSuite) TestRecordPaymentUnknownStudent() {
	_, err := s.service.RecordPayment(s.GetContext(), &dto.CreatePaymentRequest{
		AdmissionNumber: "ADM-404",
		Amount:          decimal.NewFromInt(100),
		AccountID:       s.testData.account.ID,
		PaymentMethodID: s.testData.paymentMethod.ID,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentServiceSuite) TestReceiptNumberAssigned() {
	base := time.Now().UTC()
	s.seedInvoice("INV-A", base.AddDate(0, 0, 10), 100)

	resp, err := s.record(100)
	s.NoError(err)
	s.NotEmpty(resp.ReceiptNumber)
	s.Contains(resp.ReceiptNumber, types.SHORT_ID_PREFIX_RECEIPT)

	got, err := s.service.GetPayment(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(resp.ReceiptNumber, got.ReceiptNumber)
}
