// Package order implements the order lifecycle: creation from item lines,
// the status state machine, totals computation and payment application.
package order

import (
	"errors"
	"math"
)

// TaxRate is the fixed GST rate applied to every order subtotal
const TaxRate = 0.18

// NumberPrefix starts every order number
const NumberPrefix = "WM"

var (
	// ErrNoValidItems is returned when every submitted line was rejected
	ErrNoValidItems = errors.New("no valid items found")

	// ErrInvalidTransition is returned for a status change the state
	// machine does not allow
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyDelivered is returned when delivering a terminal order
	ErrAlreadyDelivered = errors.New("order already delivered or cancelled")

	// ErrOrderNotDue is returned when requesting dues verification on an
	// order that has no due payment
	ErrOrderNotDue = errors.New("order does not have due payment")
)

// Round2 rounds a monetary amount to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeTotals returns the tax and grand total for a subtotal
func ComputeTotals(subtotal float64) (taxAmount, total float64) {
	taxAmount = Round2(subtotal * TaxRate)
	total = Round2(subtotal + taxAmount)
	return taxAmount, total
}
