package order

import (
	"fmt"
	"math"
	"time"

	"github.com/samusdtt/Waterflow/internal/model"
	"gorm.io/gorm"
)

// ItemInput is one requested order line
type ItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateInput carries everything needed to create an order for a client
type CreateInput struct {
	Items           []ItemInput
	PaymentMethod   string
	DeliveryAddress string
	Notes           string
}

// Create builds and persists an order for the client. Lines whose product
// does not exist or belongs to another supplier are dropped and reported
// as warnings; when every line is dropped the whole operation fails with
// ErrNoValidItems. Unit prices are frozen into the order items at this
// instant. The order header and its items are written in one transaction.
func Create(db *gorm.DB, client *model.User, in CreateInput) (*model.Order, []string, error) {
	if client.SupplierID == nil {
		return nil, nil, ErrNoValidItems
	}

	var warnings []string
	var items []model.OrderItem
	subtotal := 0.0

	for _, line := range in.Items {
		var product model.Product
		err := db.First(&product, line.ProductID).Error
		if err != nil || product.SupplierID != *client.SupplierID {
			warnings = append(warnings, fmt.Sprintf("product %d is not available from your supplier", line.ProductID))
			continue
		}

		lineTotal := Round2(product.Price * float64(line.Quantity))
		items = append(items, model.OrderItem{
			ProductID:  product.ID,
			Quantity:   line.Quantity,
			UnitPrice:  product.Price,
			TotalPrice: lineTotal,
		})
		subtotal = Round2(subtotal + lineTotal)
	}

	if len(items) == 0 {
		return nil, warnings, ErrNoValidItems
	}

	taxAmount, total := ComputeTotals(subtotal)

	now := time.Now()
	ord := &model.Order{
		SupplierID:      *client.SupplierID,
		ClientID:        client.ID,
		Status:          model.OrderPending,
		PaymentStatus:   model.PaymentStatusPending,
		PaymentMethod:   in.PaymentMethod,
		Subtotal:        subtotal,
		TaxAmount:       taxAmount,
		TotalAmount:     total,
		DeliveryAddress: in.DeliveryAddress,
		Notes:           in.Notes,
	}
	if in.PaymentMethod == model.PaymentMethodDue {
		ord.PaymentStatus = model.PaymentStatusDue
		ord.DueAmount = total
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		number, err := GenerateNumber(tx, now)
		if err != nil {
			return err
		}
		ord.OrderNumber = number

		if err := tx.Create(ord).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = ord.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		ord.Items = items
		return nil
	})
	if err != nil {
		return nil, warnings, err
	}

	return ord, warnings, nil
}

// MarkDelivered transitions a non-terminal order to delivered, stamps the
// delivery time and stores optional delivery notes. Authorization (only
// the assigned staff) is the caller's responsibility.
func MarkDelivered(db *gorm.DB, ord *model.Order, deliveryNotes string, now time.Time) error {
	if ord.Status == model.OrderDelivered || ord.Status == model.OrderCancelled {
		return ErrAlreadyDelivered
	}

	ord.Status = model.OrderDelivered
	ord.DeliveredAt = &now
	if deliveryNotes != "" {
		ord.Notes = deliveryNotes
	}

	return db.Model(ord).Updates(map[string]interface{}{
		"status":       ord.Status,
		"delivered_at": ord.DeliveredAt,
		"notes":        ord.Notes,
	}).Error
}

// UpdateStatus applies a guarded status transition and optionally assigns
// delivery staff. Delivery through this path stamps delivered_at too.
func UpdateStatus(db *gorm.DB, ord *model.Order, newStatus string, staffID *uint, now time.Time) error {
	if !ValidStatus(newStatus) {
		return ErrInvalidTransition
	}
	if newStatus != ord.Status && !CanTransition(ord.Status, newStatus) {
		return ErrInvalidTransition
	}

	updates := map[string]interface{}{"status": newStatus}
	if staffID != nil {
		updates["staff_id"] = *staffID
		ord.StaffID = staffID
	}
	if newStatus == model.OrderDelivered && ord.DeliveredAt == nil {
		updates["delivered_at"] = now
		ord.DeliveredAt = &now
	}
	ord.Status = newStatus

	return db.Model(ord).Updates(updates).Error
}

// ApplyPayment records a completed order payment and settles it against
// the order in one transaction: paid_amount grows by the amount, due_amount
// shrinks by the same floored at zero, and payment_status becomes paid.
// The source marks the order paid even on partial payment; that behavior
// is kept for compatibility. The payment row is attributed to the paying
// client, not the admin recording it.
func ApplyPayment(db *gorm.DB, ord *model.Order, amount float64, method, notes string) (*model.Payment, error) {
	now := time.Now()
	payment := &model.Payment{
		PaymentID:  model.GeneratePaymentID(),
		OrderID:    &ord.ID,
		SupplierID: ord.SupplierID,
		UserID:     ord.ClientID,
		Type:       model.PaymentTypeOrder,
		Method:     method,
		Status:     model.PaymentCompleted,
		Amount:     amount,
		Notes:      notes,
		PaidAt:     &now,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		ord.PaymentStatus = model.PaymentStatusPaid
		ord.PaidAmount = Round2(ord.PaidAmount + amount)
		ord.DueAmount = Round2(math.Max(0, ord.DueAmount-amount))

		return tx.Model(ord).Updates(map[string]interface{}{
			"payment_status": ord.PaymentStatus,
			"paid_amount":    ord.PaidAmount,
			"due_amount":     ord.DueAmount,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}
