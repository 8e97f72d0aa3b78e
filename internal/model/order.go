package model

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderInProgress = "in_progress"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Payment statuses of an order
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusDue      = "due"
	PaymentStatusRefunded = "refunded"
)

// Payment methods
const (
	PaymentMethodCash         = "cash"
	PaymentMethodOnline       = "online"
	PaymentMethodDue          = "due"
	PaymentMethodCreditPoints = "credit_points"
)

// Order is the central aggregate: a client's order against a supplier,
// optionally assigned to delivery staff
type Order struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	OrderNumber      string         `json:"order_number" gorm:"type:varchar(20);uniqueIndex;not null"`
	SupplierID       uint           `json:"supplier_id" gorm:"index;not null"`
	ClientID         uint           `json:"client_id" gorm:"index;not null"`
	StaffID          *uint          `json:"staff_id,omitempty" gorm:"index"`
	Status           string         `json:"status" gorm:"type:varchar(20);not null;index"`
	PaymentStatus    string         `json:"payment_status" gorm:"type:varchar(20);not null"`
	PaymentMethod    string         `json:"payment_method" gorm:"type:varchar(20);not null"`
	Subtotal         float64        `json:"subtotal" gorm:"not null"`
	TaxAmount        float64        `json:"tax_amount" gorm:"default:0"`
	TotalAmount      float64        `json:"total_amount" gorm:"not null"`
	PaidAmount       float64        `json:"paid_amount" gorm:"default:0"`
	DueAmount        float64        `json:"due_amount" gorm:"default:0"`
	CreditPointsUsed int            `json:"credit_points_used" gorm:"default:0"`
	DeliveryAddress  string         `json:"delivery_address" gorm:"type:text;not null"`
	Notes            string         `json:"notes,omitempty" gorm:"type:text"`
	DeliveryDate     *time.Time     `json:"delivery_date,omitempty"`
	DeliveryTime     string         `json:"delivery_time,omitempty" gorm:"type:varchar(10)"`
	DeliveredAt      *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`

	Items    []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Client   *User       `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Staff    *User       `json:"staff,omitempty" gorm:"foreignKey:StaffID"`
	Supplier *Supplier   `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

// OrderItem is a line of an order with the unit price frozen at creation time
type OrderItem struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OrderID    uint      `json:"order_id" gorm:"index;not null"`
	ProductID  uint      `json:"product_id" gorm:"index;not null"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	UnitPrice  float64   `json:"unit_price" gorm:"not null"`
	TotalPrice float64   `json:"total_price" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// IsPending reports whether the order is still pending
func (o *Order) IsPending() bool {
	return o.Status == OrderPending
}

// IsDelivered reports whether the order has been delivered
func (o *Order) IsDelivered() bool {
	return o.Status == OrderDelivered
}

// IsPaid reports whether the order is marked paid
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// HasDueAmount reports whether there is outstanding money on the order
func (o *Order) HasDueAmount() bool {
	return o.DueAmount > 0
}
