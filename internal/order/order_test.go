package order

import (
	"testing"

	"github.com/samusdtt/Waterflow/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	// 2 jars at 50 plus 1 box at 100
	taxAmount, total := ComputeTotals(200)
	assert.Equal(t, 36.0, taxAmount)
	assert.Equal(t, 236.0, total)
}

func TestComputeTotalsRounding(t *testing.T) {
	taxAmount, total := ComputeTotals(99.99)
	assert.Equal(t, 18.0, taxAmount)
	assert.Equal(t, 117.99, total)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.3, Round2(0.1+0.2))
	assert.Equal(t, 10.56, Round2(10.555))
	assert.Equal(t, 0.0, Round2(0))
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{model.OrderPending, model.OrderConfirmed},
		{model.OrderPending, model.OrderCancelled},
		{model.OrderConfirmed, model.OrderInProgress},
		{model.OrderConfirmed, model.OrderCancelled},
		{model.OrderInProgress, model.OrderDelivered},
		{model.OrderInProgress, model.OrderCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to string }{
		{model.OrderPending, model.OrderInProgress},
		{model.OrderPending, model.OrderDelivered},
		{model.OrderConfirmed, model.OrderDelivered},
		{model.OrderDelivered, model.OrderCancelled},
		{model.OrderDelivered, model.OrderPending},
		{model.OrderCancelled, model.OrderConfirmed},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(model.OrderDelivered))
	assert.True(t, IsTerminal(model.OrderCancelled))
	assert.False(t, IsTerminal(model.OrderPending))
	assert.False(t, IsTerminal(model.OrderConfirmed))
	assert.False(t, IsTerminal(model.OrderInProgress))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(model.PaymentMethodCash))
	assert.True(t, ValidPaymentMethod(model.PaymentMethodDue))
	assert.False(t, ValidPaymentMethod("barter"))
	assert.False(t, ValidPaymentMethod(""))
}

func TestParseSequence(t *testing.T) {
	assert.Equal(t, 7, parseSequence("WM202601150007"))
	assert.Equal(t, 9999, parseSequence("WM202601159999"))
	assert.Equal(t, 0, parseSequence("WM"))
	assert.Equal(t, 0, parseSequence("WM20260115XXXX"))
}
