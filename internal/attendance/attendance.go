// Package attendance implements the staff clock-in/clock-out state machine:
// one record per staff member per calendar date, at most one open session.
package attendance

import (
	"errors"
	"time"

	"github.com/samusdtt/Waterflow/internal/model"
	"gorm.io/gorm"
)

var (
	// ErrAlreadyClockedIn is returned when clocking in with an open session
	ErrAlreadyClockedIn = errors.New("already clocked in today")

	// ErrNotClockedIn is returned when clocking out without an open session
	ErrNotClockedIn = errors.New("not clocked in today")
)

// DateKey formats a time as the attendance date key
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ClockIn opens a session for the staff member on the given day. Clocking
// in while a session is open fails; clocking in again after a clock-out
// overwrites the login time, as the source does.
func ClockIn(db *gorm.DB, staff *model.User, now time.Time) (*model.StaffAttendance, error) {
	date := DateKey(now)

	var record model.StaffAttendance
	err := db.Where("staff_id = ? AND attendance_date = ?", staff.ID, date).First(&record).Error

	if err == nil {
		if record.IsLoggedIn() {
			return nil, ErrAlreadyClockedIn
		}
		record.LoginTime = &now
		if err := db.Model(&record).Update("login_time", now).Error; err != nil {
			return nil, err
		}
		return &record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record = model.StaffAttendance{
		StaffID:        staff.ID,
		AttendanceDate: date,
		LoginTime:      &now,
	}
	if staff.SupplierID != nil {
		record.SupplierID = *staff.SupplierID
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ClockOut closes the open session for the day and stores the worked hours,
// truncated to whole hours
func ClockOut(db *gorm.DB, staff *model.User, now time.Time) (*model.StaffAttendance, error) {
	date := DateKey(now)

	var record model.StaffAttendance
	err := db.Where("staff_id = ? AND attendance_date = ? AND login_time IS NOT NULL AND logout_time IS NULL",
		staff.ID, date).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotClockedIn
		}
		return nil, err
	}

	record.LogoutTime = &now
	record.TotalHours = record.CalculateTotalHours()

	if err := db.Model(&record).Updates(map[string]interface{}{
		"logout_time": now,
		"total_hours": record.TotalHours,
	}).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
