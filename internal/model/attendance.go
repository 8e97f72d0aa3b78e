package model

import (
	"time"
)

// StaffAttendance is one record per staff member per calendar date with
// nullable clock-in/clock-out times
type StaffAttendance struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	StaffID        uint       `json:"staff_id" gorm:"not null;uniqueIndex:idx_staff_attendance_day"`
	SupplierID     uint       `json:"supplier_id" gorm:"index;not null"`
	AttendanceDate string     `json:"attendance_date" gorm:"type:varchar(10);not null;uniqueIndex:idx_staff_attendance_day"` // YYYY-MM-DD
	LoginTime      *time.Time `json:"login_time,omitempty"`
	LogoutTime     *time.Time `json:"logout_time,omitempty"`
	TotalHours     int        `json:"total_hours" gorm:"default:0"`
	Notes          string     `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsLoggedIn reports whether there is an open session: a login without a logout
func (a *StaffAttendance) IsLoggedIn() bool {
	return a.LoginTime != nil && a.LogoutTime == nil
}

// CalculateTotalHours returns the whole hours between login and logout.
// Fractional hours are truncated, not rounded.
func (a *StaffAttendance) CalculateTotalHours() int {
	if a.LoginTime == nil || a.LogoutTime == nil {
		return 0
	}
	diff := a.LogoutTime.Sub(*a.LoginTime)
	if diff < 0 {
		return 0
	}
	return int(diff.Hours())
}
