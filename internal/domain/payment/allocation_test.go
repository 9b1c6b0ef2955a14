package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outstandingFixture() []OutstandingInvoice {
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	return []OutstandingInvoice{
		{InvoiceNumber: "INV-000002", DueDate: base.AddDate(0, 1, 0), BalanceDue: decimal.NewFromInt(150)},
		{InvoiceNumber: "INV-000001", DueDate: base, BalanceDue: decimal.NewFromInt(100)},
	}
}

func TestAutoAllocateSpreadsOldestFirst(t *testing.T) {
	plan := AutoAllocate(decimal.NewFromInt(250), outstandingFixture())

	require.Len(t, plan, 2)
	assert.Equal(t, "INV-000001", plan[0].InvoiceNumber)
	assert.True(t, plan[0].AllocatedAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "INV-000002", plan[1].InvoiceNumber)
	assert.True(t, plan[1].AllocatedAmount.Equal(decimal.NewFromInt(150)))
}

func TestAutoAllocatePartialAmount(t *testing.T) {
	plan := AutoAllocate(decimal.NewFromInt(50), outstandingFixture())

	require.Len(t, plan, 1)
	assert.Equal(t, "INV-000001", plan[0].InvoiceNumber)
	assert.True(t, plan[0].AllocatedAmount.Equal(decimal.NewFromInt(50)))
}

func TestAutoAllocateOverpayment(t *testing.T) {
	// 400 against 250 outstanding leaves 150 unallocated
	plan := AutoAllocate(decimal.NewFromInt(400), outstandingFixture())

	require.Len(t, plan, 2)
	assert.True(t, plan[0].AllocatedAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, plan[1].AllocatedAmount.Equal(decimal.NewFromInt(150)))

	total := plan[0].AllocatedAmount.Add(plan[1].AllocatedAmount)
	assert.True(t, total.Equal(decimal.NewFromInt(250)))
}

func TestAutoAllocateSkipsSettledInvoices(t *testing.T) {
	invoices := append(outstandingFixture(), OutstandingInvoice{
		InvoiceNumber: "INV-000003",
		DueDate:       time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		BalanceDue:    decimal.Zero,
	})

	plan := AutoAllocate(decimal.NewFromInt(100), invoices)

	require.Len(t, plan, 1)
	assert.Equal(t, "INV-000001", plan[0].InvoiceNumber)
}

func TestAutoAllocateDoesNotMutateInput(t *testing.T) {
	invoices := outstandingFixture()
	AutoAllocate(decimal.NewFromInt(250), invoices)

	// Input order unchanged
	assert.Equal(t, "INV-000002", invoices[0].InvoiceNumber)
	assert.Equal(t, "INV-000001", invoices[1].InvoiceNumber)
}

func TestAutoAllocateNoOutstanding(t *testing.T) {
	plan := AutoAllocate(decimal.NewFromInt(100), nil)
	assert.Empty(t, plan)
}

func TestValidateAllocationsAcceptsUnderAllocation(t *testing.T) {
	plan := []ProposedAllocation{
		{InvoiceNumber: "INV-000001", AllocatedAmount: decimal.NewFromInt(50)},
	}
	require.NoError(t, ValidateAllocations(decimal.NewFromInt(100), plan, outstandingFixture()))
}

func TestValidateAllocationsRejectsOverAllocation(t *testing.T) {
	plan := []ProposedAllocation{
		{InvoiceNumber: "INV-000001", AllocatedAmount: decimal.NewFromInt(100)},
		{InvoiceNumber: "INV-000002", AllocatedAmount: decimal.NewFromInt(150)},
	}
	err := ValidateAllocations(decimal.NewFromInt(200), plan, outstandingFixture())
	require.Error(t, err)
}

func TestValidateAllocationsRejectsExceedingBalance(t *testing.T) {
	plan := []ProposedAllocation{
		{InvoiceNumber: "INV-000001", AllocatedAmount: decimal.NewFromInt(120)},
	}
	err := ValidateAllocations(decimal.NewFromInt(500), plan, outstandingFixture())
	require.Error(t, err)
}

func TestValidateAllocationsRejectsUnknownInvoice(t *testing.T) {
	plan := []ProposedAllocation{
		{InvoiceNumber: "INV-999999", AllocatedAmount: decimal.NewFromInt(10)},
	}
	err := ValidateAllocations(decimal.NewFromInt(100), plan, outstandingFixture())
	require.Error(t, err)
}

func TestPaymentValidateRejectsNegativeOverpayment(t *testing.T) {
	p := &Payment{
		ID:              "pay_test",
		ReceiptNumber:   "RCT-0001",
		AdmissionNumber: "ADM-001",
		Amount:          decimal.NewFromInt(100),
		PaymentDate:     time.Now().UTC(),
		AccountID:       "acct_1",
		PaymentMethodID: "pm_1",
		Allocations: []*Allocation{
			{ID: "alloc_1", InvoiceNumber: "INV-000001", AllocatedAmount: decimal.NewFromInt(150)},
		},
	}
	require.Error(t, p.Validate())

	p.Allocations[0].AllocatedAmount = decimal.NewFromInt(100)
	require.NoError(t, p.Validate())
}
