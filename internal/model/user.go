package model

import (
	"time"

	"gorm.io/gorm"
)

// Actor roles
const (
	RoleClient        = "client"
	RoleStaff         = "staff"
	RoleSupplierAdmin = "supplier_admin"
	RoleSuperAdmin    = "super_admin"
)

// User represents an actor: client, delivery staff, supplier admin or super admin
type User struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Name       string         `json:"name" gorm:"type:varchar(255);not null"`
	Email      string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password   string         `json:"-" gorm:"type:varchar(255)"`
	Phone      string         `json:"phone" gorm:"type:varchar(20)"`
	Address    string         `json:"address" gorm:"type:text"`
	City       string         `json:"city" gorm:"type:varchar(100)"`
	State      string         `json:"state" gorm:"type:varchar(100)"`
	Pincode    string         `json:"pincode" gorm:"type:varchar(10)"`
	Role       string         `json:"role" gorm:"type:varchar(20);not null;index"`
	SupplierID *uint          `json:"supplier_id,omitempty" gorm:"index"`
	IsActive   bool           `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

// IsSuperAdmin reports whether the user is a super admin
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// IsSupplierAdmin reports whether the user is a supplier admin
func (u *User) IsSupplierAdmin() bool {
	return u.Role == RoleSupplierAdmin
}

// IsStaff reports whether the user is delivery staff
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}

// IsClient reports whether the user is a client
func (u *User) IsClient() bool {
	return u.Role == RoleClient
}
