package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/edledger/edledger/internal/api/dto"
	"github.com/edledger/edledger/internal/domain/invoice"
	"github.com/edledger/edledger/internal/domain/student"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/testutil"
	"github.com/edledger/edledger/internal/types"
)

type PlanServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  PlanService
	testData struct {
		student *student.Student
	}
}

func TestPlanService(t *testing.T) {
	suite.Run(t, new(PlanServiceSuite))
}

func (s *PlanServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *PlanServiceSuite) setupService() {
	s.service = NewPlanService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		Cache:       s.GetCache(),
		InvoiceRepo: s.GetStores().InvoiceRepo,
		StudentRepo: s.GetStores().StudentRepo,
		PlanRepo:    s.GetStores().PlanRepo,
	})
}

func (s *PlanServiceSuite) setupTestData() {
	s.testData.student = &student.Student{
		ID:              "stud_test",
		AdmissionNumber: "ADM-001",
		FirstName:       "Amina",
		LastName:        "Okafor",
		ClassName:       "Grade 5",
		BaseModel:       types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().StudentRepo.Create(s.GetContext(), s.testData.student))
}

// seedInvoice writes an invoice directly into the store with a single line
// totalling the given amount and the given payment made.
func (s *PlanServiceSuite) seedInvoice(number string, total, paid int64, status types.InvoiceStatus) *invoice.Invoice {
	dueDate := time.Now().UTC().AddDate(0, 1, 0)
	inv := &invoice.Invoice{
		ID:              "inv_" + number,
		InvoiceNumber:   number,
		AdmissionNumber: s.testData.student.AdmissionNumber,
		StudentName:     s.testData.student.FullName(),
		InvoiceDate:     dueDate.AddDate(0, -1, 0),
		DueDate:         dueDate,
		InvoiceStatus:   status,
		PaymentMade:     decimal.NewFromInt(paid),
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

func (s *PlanServiceSuite) planRequest(number string, amounts ...int64) *dto.CreatePaymentPlanRequest {
	req := &dto.CreatePaymentPlanRequest{InvoiceNumber: number}
	due := time.Now().UTC()
	for _, amount := range amounts {
		due = due.AddDate(0, 1, 0)
		req.Installments = append(req.Installments, dto.CreatePlanInstallmentRequest{
			DueDate: due,
			Amount:  decimal.NewFromInt(amount),
		})
	}
	return req
}

func (s *PlanServiceSuite) TestCreatePlanCoversBalanceDue() {
	s.seedInvoice("INV-PLAN-1", 600, 100, types.InvoiceStatusPending)

	resp, err := s.service.CreatePlan(s.GetContext(), s.planRequest("INV-PLAN-1", 200, 300))
	s.NoError(err)
	s.Equal(types.PaymentPlanStatusActive, resp.PlanStatus)
	s.Equal("ADM-001", resp.AdmissionNumber)
	s.True(resp.TotalAmount.Equal(decimal.NewFromInt(500)), "total %s", resp.TotalAmount)
	s.Len(resp.Installments, 2)
	s.Equal(1, resp.Installments[0].Sequence)
	s.Equal(2, resp.Installments[1].Sequence)
	s.True(resp.Installments[1].Amount.Equal(decimal.NewFromInt(300)))
}

func (s *PlanServiceSuite) TestCreatePlanRejectsMismatchedTotal() {
	s.seedInvoice("INV-PLAN-2", 600, 100, types.InvoiceStatusPending)

	// 100 + 100 does not cover the 500 still owing
	_, err := s.service.CreatePlan(s.GetContext(), s.planRequest("INV-PLAN-2", 100, 100))
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PlanServiceSuite) TestCreatePlanRejectsSecondActivePlan() {
	s.seedInvoice("INV-PLAN-3", 400, 0, types.InvoiceStatusPending)

	first, err := s.service.CreatePlan(s.GetContext(), s.planRequest("INV-PLAN-3", 400))
	s.NoError(err)

	_, err = s.service.CreatePlan(s.GetContext(), s.planRequest("INV-PLAN-3", 400))
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))

	// Cancelling the first plan frees the invoice for a new schedule
	cancelled, err := s.service.CancelPlan(s.GetContext(), first.ID)
	s.NoError(err)
	s.Equal(types.PaymentPlanStatusCancelled, cancelled.PlanStatus)

	_, err = s.service.CreatePlan(s.GetContext(), s.planRequest("INV-PLAN-3", 200, 200))
	s.NoError(err)
}

func (s *PlanServiceSuite) TestCreatePlanRejectsSettledInvoice() {
	s.seedInvoice("INV-PLAN-4", 300, 300, types.InvoiceStatusPaid)

	_, err := s.service.CreatePlan(s.GetContext(), s.planRequest("INV-PLAN-4", 300))
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PlanServiceSuite) TestCreatePlanRejectsForwardedInvoice() {
	s.seedInvoice("INV-PLAN-5", 300, 0, types.InvoiceStatusForwarded)

	_, err := s.service.CreatePlan(s.GetContext(), s.planRequest("INV-PLAN-5", 300))
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PlanServiceSuite) TestCancelPlanTwiceRejected() {
	s.seedInvoice("INV-PLAN-6", 300, 0, types.InvoiceStatusPending)

	resp, err := s.service.CreatePlan(s.GetContext(), s.planRequest("INV-PLAN-6", 300))
	s.NoError(err)

	_, err = s.service.CancelPlan(s.GetContext(), resp.ID)
	s.NoError(err)

	_, err = s.service.CancelPlan(s.GetContext(), resp.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PlanServiceSuite) TestListPlansByInvoice() {
	s.seedInvoice("INV-PLAN-7", 300, 0, types.InvoiceStatusPending)
	s.seedInvoice("INV-PLAN-8", 200, 0, types.InvoiceStatusPending)

	_, err := s.service.CreatePlan(s.GetContext(), s.planRequest("INV-PLAN-7", 300))
	s.NoError(err)
	_, err = s.service.CreatePlan(s.GetContext(), s.planRequest("INV-PLAN-8", 200))
	s.NoError(err)

	filter := types.NewPaymentPlanFilter()
	filter.InvoiceNumber = "INV-PLAN-7"
	resp, err := s.service.ListPlans(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal("INV-PLAN-7", resp.Items[0].InvoiceNumber)
	s.Equal(1, resp.Pagination.Total)
}
