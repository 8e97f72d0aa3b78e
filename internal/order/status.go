package order

import (
	"github.com/samusdtt/Waterflow/internal/model"
)

// transitions is the order status state machine. delivered and cancelled
// are terminal; cancelled is reachable from any non-terminal state.
var transitions = map[string][]string{
	model.OrderPending:    {model.OrderConfirmed, model.OrderCancelled},
	model.OrderConfirmed:  {model.OrderInProgress, model.OrderCancelled},
	model.OrderInProgress: {model.OrderDelivered, model.OrderCancelled},
}

// CanTransition reports whether the status change is allowed
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions
func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}

// ValidStatus reports whether the value is a known order status
func ValidStatus(status string) bool {
	switch status {
	case model.OrderPending, model.OrderConfirmed, model.OrderInProgress,
		model.OrderDelivered, model.OrderCancelled:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether the value is a known payment method
func ValidPaymentMethod(method string) bool {
	switch method {
	case model.PaymentMethodCash, model.PaymentMethodOnline,
		model.PaymentMethodDue, model.PaymentMethodCreditPoints:
		return true
	}
	return false
}
