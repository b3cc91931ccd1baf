package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	st, err := ParseOrderStatus(" paid ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPaid, st)

	_, err = ParseOrderStatus("shipped")
	require.ErrorIs(t, err, ErrInvalidStatus)
	require.ErrorIs(t, err, ErrValidation)
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPending, OrderStatusPaid, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusPaid, OrderStatusCompleted, true},
		{OrderStatusPaid, OrderStatusCancelled, true},
		{OrderStatusPaid, OrderStatusPending, false},
		{OrderStatusCompleted, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusPaid, false},
		{OrderStatusCompleted, OrderStatusCompleted, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-2025-000001", FormatInvoiceNumber(2025, 1))
	assert.Equal(t, "INV-2026-123456", FormatInvoiceNumber(2026, 123456))
	assert.Equal(t, "INV-2026-1234567", FormatInvoiceNumber(2026, 1234567))
}

func TestCartComputeTotal(t *testing.T) {
	c := &Cart{Lines: []CartLine{
		{ProductID: "a", Quantity: 2, Price: 1250},
		{ProductID: "b", Quantity: 3, Price: 199},
	}}
	assert.Equal(t, Money(3097), c.ComputeTotal())
	assert.False(t, c.IsEmpty())
	assert.True(t, (&Cart{}).IsEmpty())

	lines := OrderLinesFromCart(c.Lines)
	require.Len(t, lines, 2)
	assert.Equal(t, "b", lines[1].ProductID)
	assert.Equal(t, 3, lines[1].Quantity)
	assert.Equal(t, Money(199), lines[1].Price)
}

func TestMoney(t *testing.T) {
	m, err := ParseMoney("12.5")
	require.NoError(t, err)
	assert.Equal(t, Money(1250), m)
	assert.Equal(t, "12.50", m.String())
	assert.True(t, decimal.RequireFromString("12.5").Equal(m.Decimal()))

	raw, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "12.50", string(raw))

	var back Money
	require.NoError(t, back.UnmarshalJSON([]byte("3.999")))
	assert.Equal(t, Money(400), back)

	_, err = ParseMoney("abc")
	assert.Error(t, err)
}
