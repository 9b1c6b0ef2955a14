package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edledger/edledger/internal/types"
)

func TestLineItemTotal(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		quantity int
		discount string
		expected string
	}{
		{
			name:     "no discount",
			price:    "250",
			quantity: 2,
			discount: "0",
			expected: "500",
		},
		{
			name:     "ten percent discount",
			price:    "100",
			quantity: 3,
			discount: "10",
			expected: "270",
		},
		{
			name:     "full discount yields zero",
			price:    "999.99",
			quantity: 5,
			discount: "100",
			expected: "0",
		},
		{
			name:     "fractional price and discount",
			price:    "33.33",
			quantity: 3,
			discount: "12.5",
			expected: "87.49125",
		},
		{
			name:     "zero quantity",
			price:    "500",
			quantity: 0,
			discount: "0",
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &LineItem{
				ItemName:        "Tuition",
				UnitPrice:       decimal.RequireFromString(tt.price),
				Quantity:        tt.quantity,
				DiscountPercent: decimal.RequireFromString(tt.discount),
			}
			assert.True(t, item.Total().Equal(decimal.RequireFromString(tt.expected)),
				"got %s want %s", item.Total(), tt.expected)
		})
	}
}

func TestLineItemCountable(t *testing.T) {
	countable := &LineItem{ItemName: "Tuition", UnitPrice: decimal.NewFromInt(100), Quantity: 1}
	assert.True(t, countable.Countable())

	emptyName := &LineItem{ItemName: "", UnitPrice: decimal.NewFromInt(100), Quantity: 1}
	assert.False(t, emptyName.Countable())

	zeroQuantity := &LineItem{ItemName: "Tuition", UnitPrice: decimal.NewFromInt(100), Quantity: 0}
	assert.False(t, zeroQuantity.Countable())
}

func TestInvoiceRecalculate(t *testing.T) {
	inv := &Invoice{
		InvoiceNumber: "INV-000001",
		InvoiceStatus: types.InvoiceStatusPending,
		PaymentMade:   decimal.NewFromInt(100),
		LineItems: []*LineItem{
			{ItemName: "Tuition", UnitPrice: decimal.NewFromInt(400), Quantity: 1},
			{ItemName: "Transport", UnitPrice: decimal.NewFromInt(50), Quantity: 2},
			{ItemName: "", UnitPrice: decimal.NewFromInt(999), Quantity: 1},
			{ItemName: "Library", UnitPrice: decimal.NewFromInt(75), Quantity: 0},
		},
	}

	inv.Recalculate()

	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(500)), "subtotal %s", inv.Subtotal)
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, inv.BalanceDue.Equal(decimal.NewFromInt(400)))

	// Recomputing on unchanged items gives the same values
	inv.Recalculate()
	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(500)))
	assert.True(t, inv.BalanceDue.Equal(decimal.NewFromInt(400)))
}

func TestInvoiceApplyPayment(t *testing.T) {
	inv := &Invoice{
		InvoiceNumber: "INV-000002",
		InvoiceStatus: types.InvoiceStatusPending,
		PaymentMade:   decimal.Zero,
		LineItems: []*LineItem{
			{ItemName: "Tuition", UnitPrice: decimal.NewFromInt(300), Quantity: 1},
		},
	}
	inv.Recalculate()

	require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(100)))
	assert.Equal(t, types.InvoiceStatusPending, inv.InvoiceStatus)
	assert.True(t, inv.BalanceDue.Equal(decimal.NewFromInt(200)))

	require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(200)))
	assert.Equal(t, types.InvoiceStatusPaid, inv.InvoiceStatus)
	assert.True(t, inv.BalanceDue.IsZero())

	err := inv.ApplyPayment(decimal.NewFromInt(1))
	require.Error(t, err)
}

func TestInvoiceOverdueIsDerived(t *testing.T) {
	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	tomorrow := time.Now().UTC().Add(24 * time.Hour)

	inv := &Invoice{
		InvoiceStatus: types.InvoiceStatusPending,
		DueDate:       yesterday,
		BalanceDue:    decimal.NewFromInt(100),
	}
	assert.True(t, inv.IsOverdue(time.Now().UTC()))
	assert.Equal(t, types.InvoiceStatusOverdue, inv.DisplayStatus(time.Now().UTC()))
	// The stored status never changes
	assert.Equal(t, types.InvoiceStatusPending, inv.InvoiceStatus)

	inv.DueDate = tomorrow
	assert.False(t, inv.IsOverdue(time.Now().UTC()))
	assert.Equal(t, types.InvoiceStatusPending, inv.DisplayStatus(time.Now().UTC()))

	paid := &Invoice{
		InvoiceStatus: types.InvoiceStatusPaid,
		DueDate:       yesterday,
		BalanceDue:    decimal.Zero,
	}
	assert.False(t, paid.IsOverdue(time.Now().UTC()))
}

func TestInvoiceEditable(t *testing.T) {
	inv := &Invoice{InvoiceStatus: types.InvoiceStatusPending}
	assert.True(t, inv.Editable())

	require.NoError(t, inv.MarkForwarded())
	assert.False(t, inv.Editable())

	// Forwarding twice is rejected
	require.Error(t, inv.MarkForwarded())
}
