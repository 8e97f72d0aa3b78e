package attendance

import (
	"testing"
	"time"

	"github.com/samusdtt/Waterflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*gorm.DB, *model.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.StaffAttendance{}))

	supplierID := uint(1)
	staff := model.User{
		Name:       "Suresh",
		Email:      "suresh@example.com",
		Role:       model.RoleStaff,
		SupplierID: &supplierID,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&staff).Error)
	return db, &staff
}

func TestClockInCreatesRecord(t *testing.T) {
	db, staff := setupTestDB(t)
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

	record, err := ClockIn(db, staff, now)
	require.NoError(t, err)

	assert.Equal(t, "2026-01-15", record.AttendanceDate)
	assert.Equal(t, staff.ID, record.StaffID)
	require.NotNil(t, record.LoginTime)
	assert.Nil(t, record.LogoutTime)
}

func TestDoubleClockInFails(t *testing.T) {
	db, staff := setupTestDB(t)
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

	_, err := ClockIn(db, staff, now)
	require.NoError(t, err)

	_, err = ClockIn(db, staff, now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)
}

func TestClockOutWithoutSessionFails(t *testing.T) {
	db, staff := setupTestDB(t)

	_, err := ClockOut(db, staff, time.Now())
	assert.ErrorIs(t, err, ErrNotClockedIn)
}

func TestClockOutTruncatesHours(t *testing.T) {
	db, staff := setupTestDB(t)
	login := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

	_, err := ClockIn(db, staff, login)
	require.NoError(t, err)

	// 8 hours 59 minutes counts as 8
	record, err := ClockOut(db, staff, login.Add(8*time.Hour+59*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 8, record.TotalHours)
	require.NotNil(t, record.LogoutTime)
}

func TestDoubleClockOutFails(t *testing.T) {
	db, staff := setupTestDB(t)
	login := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

	_, err := ClockIn(db, staff, login)
	require.NoError(t, err)
	_, err = ClockOut(db, staff, login.Add(8*time.Hour))
	require.NoError(t, err)

	_, err = ClockOut(db, staff, login.Add(9*time.Hour))
	assert.ErrorIs(t, err, ErrNotClockedIn)
}

func TestClockInAfterClockOutReopensDay(t *testing.T) {
	db, staff := setupTestDB(t)
	login := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

	first, err := ClockIn(db, staff, login)
	require.NoError(t, err)
	_, err = ClockOut(db, staff, login.Add(4*time.Hour))
	require.NoError(t, err)

	// Same calendar day: the login time is overwritten on the same record
	again, err := ClockIn(db, staff, login.Add(5*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, login.Add(5*time.Hour).Unix(), again.LoginTime.Unix())

	var count int64
	db.Model(&model.StaffAttendance{}).Where("staff_id = ?", staff.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestNextDayGetsOwnRecord(t *testing.T) {
	db, staff := setupTestDB(t)
	day1 := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	_, err := ClockIn(db, staff, day1)
	require.NoError(t, err)

	// Yesterday's session was never closed, but today is a fresh date key
	record, err := ClockIn(db, staff, day2)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-16", record.AttendanceDate)

	var count int64
	db.Model(&model.StaffAttendance{}).Where("staff_id = ?", staff.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}
