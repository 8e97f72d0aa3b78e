package model

import (
	"time"
)

// Notification types
const (
	NotificationDuesRequest = "dues_request"
)

// Notification is an in-app message for a user or a supplier's admins,
// e.g. a staff request for payment verification
type Notification struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	UserID     *uint      `json:"user_id,omitempty" gorm:"index"`
	SupplierID *uint      `json:"supplier_id,omitempty" gorm:"index"`
	Type       string     `json:"type" gorm:"type:varchar(50);not null"`
	Title      string     `json:"title" gorm:"type:varchar(255);not null"`
	Message    string     `json:"message" gorm:"type:text"`
	Data       string     `json:"data,omitempty" gorm:"type:text"` // JSON payload
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsRead reports whether the notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// MarkAsRead stamps the notification as read now
func (n *Notification) MarkAsRead() {
	now := time.Now()
	n.ReadAt = &now
}
