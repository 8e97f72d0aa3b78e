package model

import (
	"time"

	"gorm.io/gorm"
)

// Subscription statuses for a supplier
const (
	SubscriptionActive    = "active"
	SubscriptionInactive  = "inactive"
	SubscriptionSuspended = "suspended"
	SubscriptionExpired   = "expired"
)

// Supplier represents a water-delivery business unit, the tenant of the system
type Supplier struct {
	ID                    uint           `json:"id" gorm:"primaryKey"`
	Name                  string         `json:"name" gorm:"type:varchar(255);not null"`
	Email                 string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Phone                 string         `json:"phone" gorm:"type:varchar(20)"`
	Address               string         `json:"address" gorm:"type:text"`
	City                  string         `json:"city" gorm:"type:varchar(100)"`
	State                 string         `json:"state" gorm:"type:varchar(100)"`
	Pincode               string         `json:"pincode" gorm:"type:varchar(10)"`
	GSTNumber             string         `json:"gst_number,omitempty" gorm:"type:varchar(50)"`
	PANNumber             string         `json:"pan_number,omitempty" gorm:"type:varchar(50)"`
	SubscriptionStatus    string         `json:"subscription_status" gorm:"type:varchar(20);default:'inactive'"`
	SubscriptionStartDate *time.Time     `json:"subscription_start_date,omitempty"`
	SubscriptionEndDate   *time.Time     `json:"subscription_end_date,omitempty"`
	MonthlyFee            float64        `json:"monthly_fee" gorm:"default:0"`
	IsActive              bool           `json:"is_active" gorm:"default:true"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsSubscriptionActive reports whether the supplier has a currently valid
// subscription window
func (s *Supplier) IsSubscriptionActive() bool {
	return s.SubscriptionStatus == SubscriptionActive &&
		s.SubscriptionEndDate != nil &&
		s.SubscriptionEndDate.After(time.Now())
}

// IsUsable reports whether non-super-admin actors may authenticate against
// this tenant
func (s *Supplier) IsUsable() bool {
	return s.IsActive && s.IsSubscriptionActive()
}
