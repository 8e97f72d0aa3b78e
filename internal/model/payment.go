package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment types
const (
	PaymentTypeOrder        = "order_payment"
	PaymentTypeSubscription = "subscription_payment"
	PaymentTypeRefund       = "refund"
)

// Settlement statuses of a payment record
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Payment is a settlement event. OrderID is nullable: subscription and
// refund payments are not tied to an order.
type Payment struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	PaymentID  string         `json:"payment_id" gorm:"type:varchar(40);uniqueIndex;not null"`
	OrderID    *uint          `json:"order_id,omitempty" gorm:"index"`
	SupplierID uint           `json:"supplier_id" gorm:"index;not null"`
	UserID     uint           `json:"user_id" gorm:"index;not null"`
	Type       string         `json:"type" gorm:"type:varchar(30);not null"`
	Method     string         `json:"method" gorm:"type:varchar(20);not null"`
	Status     string         `json:"status" gorm:"type:varchar(20);not null"`
	Amount     float64        `json:"amount" gorm:"not null"`
	Notes      string         `json:"notes,omitempty" gorm:"type:text"`
	PaidAt     *time.Time     `json:"paid_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// GeneratePaymentID returns a unique external payment identifier
func GeneratePaymentID() string {
	return "PAY_" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:16])
}

// IsCompleted reports whether the payment has settled
func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentCompleted
}
