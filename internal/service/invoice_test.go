package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/edledger/edledger/internal/api/dto"
	"github.com/edledger/edledger/internal/domain/invoice"
	"github.com/edledger/edledger/internal/domain/student"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/testutil"
	"github.com/edledger/edledger/internal/types"
)

// reportedDetails extracts the structured details attached to an error
func reportedDetails(err error) map[string]any {
	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			if strings.HasPrefix(payload, "__json__:") {
				var details map[string]any
				if json.Unmarshal([]byte(strings.TrimPrefix(payload, "__json__:")), &details) == nil {
					return details
				}
			}
		}
	}
	return nil
}

// updateFailingInvoiceStore refuses every update, simulating a storage fault
// that hits after the new invoice has been written.
type updateFailingInvoiceStore struct {
	invoice.Repository
}

func (s *updateFailingInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	return ierr.NewError("storage unavailable").
		WithHint("Could not update invoice").
		Mark(ierr.ErrDatabase)
}

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  InvoiceService
	testData struct {
		student *student.Student
	}
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *InvoiceServiceSuite) setupService() {
	s.service = NewInvoiceService(ServiceParams{
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

func (s *InvoiceServiceSuite) setupTestData() {
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

// seedInvoice writes an invoice directly into the store with full control over
// dates, status and payment made.
func (s *InvoiceServiceSuite) seedInvoice(number string, dueDate time.Time, total, paid int64, status types.InvoiceStatus) *invoice.Invoice {
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

func (s *InvoiceServiceSuite) TestCreateInvoiceComputesTotals() {
	dueDate := time.Now().UTC().AddDate(0, 1, 0)
	resp, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		AdmissionNumber: "ADM-001",
		DueDate:         dueDate,
		LineItems: []dto.CreateInvoiceLineItemRequest{
			{ItemName: "Tuition", UnitPrice: decimal.NewFromInt(400), Quantity: 1},
			{ItemName: "Transport", UnitPrice: decimal.NewFromInt(50), Quantity: 2, DiscountPercent: decimal.NewFromInt(10)},
			{ItemName: "", UnitPrice: decimal.NewFromInt(999), Quantity: 1},
		},
	})

	s.NoError(err)
	s.NotNil(resp)
	s.Equal("Amina Okafor", resp.StudentName)
	s.Equal(types.InvoiceStatusPending, resp.InvoiceStatus)
	// 400 + 50*2*0.9 = 490; the unnamed row does not count
	s.True(resp.Subtotal.Equal(decimal.NewFromInt(490)), "subtotal %s", resp.Subtotal)
	s.True(resp.BalanceDue.Equal(decimal.NewFromInt(490)))
	s.True(resp.PaymentMade.IsZero())
	s.Len(resp.LineItems, 3)
	s.Empty(resp.Warning)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceRequiresBillableLineItem() {
	dueDate := time.Now().UTC().AddDate(0, 1, 0)

	// No line items at all
	_, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		AdmissionNumber: "ADM-001",
		DueDate:         dueDate,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	// Rows without an item name are display-only and do not bill anything
	_, err = s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		AdmissionNumber: "ADM-001",
		DueDate:         dueDate,
		LineItems: []dto.CreateInvoiceLineItemRequest{
			{ItemName: "", UnitPrice: decimal.NewFromInt(100), Quantity: 1},
		},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	// A carried-forward balance alone is enough to bill
	s.seedInvoice("INV-CARRY", time.Now().UTC().AddDate(0, 0, -20), 250, 0, types.InvoiceStatusPending)
	resp, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		AdmissionNumber:       "ADM-001",
		DueDate:               dueDate,
		IncludeBroughtForward: true,
	})
	s.NoError(err)
	s.True(resp.Subtotal.Equal(decimal.NewFromInt(250)), "subtotal %s", resp.Subtotal)
	s.Len(resp.LineItems, 1)
	s.Equal(invoice.BroughtForwardItemName, resp.LineItems[0].ItemName)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceUnknownStudent() {
	_, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		AdmissionNumber: "ADM-404",
		DueDate:         time.Now().UTC().AddDate(0, 1, 0),
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceWithBroughtForward() {
	past := time.Now().UTC().AddDate(0, 0, -30)
	s.seedInvoice("INV-OLD-1", past, 300, 0, types.InvoiceStatusPending)
	s.seedInvoice("INV-OLD-2", past.AddDate(0, 0, 5), 200, 50, types.InvoiceStatusPending)

	resp, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		AdmissionNumber:       "ADM-001",
		DueDate:               time.Now().UTC().AddDate(0, 1, 0),
		IncludeBroughtForward: true,
		LineItems: []dto.CreateInvoiceLineItemRequest{
			{ItemName: "Tuition", UnitPrice: decimal.NewFromInt(500), Quantity: 1},
		},
	})

	s.NoError(err)
	s.Empty(resp.Warning)

	// 300 + 150 carried forward on top of the 500 tuition
	s.True(resp.Subtotal.Equal(decimal.NewFromInt(950)), "subtotal %s", resp.Subtotal)
	s.Len(resp.LineItems, 2)

	var bbf *dto.InvoiceLineItemResponse
	for _, li := range resp.LineItems {
		if li.ItemName == invoice.BroughtForwardItemName {
			bbf = li
		}
	}
	s.NotNil(bbf)
	s.True(bbf.UnitPrice.Equal(decimal.NewFromInt(450)))
	s.Equal(1, bbf.Quantity)
	s.Contains(bbf.Description, "INV-OLD-1")
	s.Contains(bbf.Description, "INV-OLD-2")

	// The reserved catalog item now exists and is flagged as system
	item, err := s.GetStores().CatalogRepo.GetByName(s.GetContext(), invoice.BroughtForwardItemName)
	s.NoError(err)
	s.True(item.System)

	// Source invoices are forwarded and read-only
	for _, number := range []string{"INV-OLD-1", "INV-OLD-2"} {
		src, err := s.GetStores().InvoiceRepo.GetByInvoiceNumber(s.GetContext(), number)
		s.NoError(err)
		s.Equal(types.InvoiceStatusForwarded, src.InvoiceStatus)
	}
}

func (s *InvoiceServiceSuite) TestCreateInvoiceWithNoOverdueBalance() {
	// A future-dated pending invoice is not overdue and must not be carried
	s.seedInvoice("INV-FUTURE", time.Now().UTC().AddDate(0, 1, 0), 300, 0, types.InvoiceStatusPending)

	resp, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		AdmissionNumber:       "ADM-001",
		DueDate:               time.Now().UTC().AddDate(0, 2, 0),
		IncludeBroughtForward: true,
		LineItems: []dto.CreateInvoiceLineItemRequest{
			{ItemName: "Tuition", UnitPrice: decimal.NewFromInt(500), Quantity: 1},
		},
	})

	s.NoError(err)
	s.Len(resp.LineItems, 1)
	s.True(resp.Subtotal.Equal(decimal.NewFromInt(500)))

	src, err := s.GetStores().InvoiceRepo.GetByInvoiceNumber(s.GetContext(), "INV-FUTURE")
	s.NoError(err)
	s.Equal(types.InvoiceStatusPending, src.InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceForwardMarkFailureKeepsInvoice() {
	past := time.Now().UTC().AddDate(0, 0, -30)
	s.seedInvoice("INV-STUCK", past, 300, 0, types.InvoiceStatusPending)

	// The same service wired against a store that cannot update invoices:
	// carrying forward succeeds but marking the sources forwarded does not.
	svc := NewInvoiceService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		Cache:       s.GetCache(),
		InvoiceRepo: &updateFailingInvoiceStore{Repository: s.GetStores().InvoiceRepo},
		StudentRepo: s.GetStores().StudentRepo,
		CatalogRepo: s.GetStores().CatalogRepo,
	})

	resp, err := svc.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		AdmissionNumber:       "ADM-001",
		DueDate:               time.Now().UTC().AddDate(0, 1, 0),
		IncludeBroughtForward: true,
		LineItems: []dto.CreateInvoiceLineItemRequest{
			{ItemName: "Tuition", UnitPrice: decimal.NewFromInt(500), Quantity: 1},
		},
	})

	// The new invoice is returned with the carried balance and a warning
	s.NoError(err)
	s.NotEmpty(resp.Warning)
	s.Contains(resp.Warning, "INV-STUCK")
	s.True(resp.Subtotal.Equal(decimal.NewFromInt(800)), "subtotal %s", resp.Subtotal)

	// It also persisted, so no money was lost
	created, err := s.GetStores().InvoiceRepo.GetByInvoiceNumber(s.GetContext(), resp.InvoiceNumber)
	s.NoError(err)
	s.True(created.Subtotal.Equal(decimal.NewFromInt(800)))

	// The source kept its prior status and awaits manual correction
	src, err := s.GetStores().InvoiceRepo.GetByInvoiceNumber(s.GetContext(), "INV-STUCK")
	s.NoError(err)
	s.Equal(types.InvoiceStatusPending, src.InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceEditGuard() {
	inv := s.seedInvoice("INV-EDIT", time.Now().UTC().AddDate(0, 1, 0), 600, 500, types.InvoiceStatusPending)

	update := func(total int64) (*dto.InvoiceResponse, error) {
		return s.service.UpdateInvoice(s.GetContext(), inv.ID, &dto.UpdateInvoiceRequest{
			LineItems: []dto.CreateInvoiceLineItemRequest{
				{ItemName: "Tuition", UnitPrice: decimal.NewFromInt(total), Quantity: 1},
			},
		})
	}

	// Below the amount already paid: rejected, naming the shortfall
	_, err := update(400)
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal("100", reportedDetails(err)["shortfall"])

	// Exactly the amount paid: allowed, invoice settles
	resp, err := update(500)
	s.NoError(err)
	s.True(resp.BalanceDue.IsZero())
	s.Equal(types.InvoiceStatusPaid, resp.InvoiceStatus)

	// Above the amount paid: allowed, balance reopens
	resp, err = update(600)
	s.NoError(err)
	s.True(resp.BalanceDue.Equal(decimal.NewFromInt(100)))
	s.Equal(types.InvoiceStatusPending, resp.InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestUpdateForwardedInvoiceRejected() {
	inv := s.seedInvoice("INV-FWD", time.Now().UTC().AddDate(0, 0, -10), 300, 0, types.InvoiceStatusForwarded)

	_, err := s.service.UpdateInvoice(s.GetContext(), inv.ID, &dto.UpdateInvoiceRequest{
		LineItems: []dto.CreateInvoiceLineItemRequest{
			{ItemName: "Tuition", UnitPrice: decimal.NewFromInt(999), Quantity: 1},
		},
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestListInvoicesOverdueDisplay() {
	s.seedInvoice("INV-LATE", time.Now().UTC().AddDate(0, 0, -5), 300, 0, types.InvoiceStatusPending)
	s.seedInvoice("INV-OK", time.Now().UTC().AddDate(0, 1, 0), 200, 0, types.InvoiceStatusPending)

	filter := types.NewInvoiceFilter()
	filter.AdmissionNumber = "ADM-001"
	resp, err := s.service.ListInvoices(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 2)

	byNumber := map[string]*dto.InvoiceResponse{}
	for _, item := range resp.Items {
		byNumber[item.InvoiceNumber] = item
	}
	s.Equal(types.InvoiceStatusOverdue, byNumber["INV-LATE"].InvoiceStatus)
	s.Equal(types.InvoiceStatusPending, byNumber["INV-OK"].InvoiceStatus)
}
