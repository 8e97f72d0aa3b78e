package order

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/samusdtt/Waterflow/internal/model"
	"gorm.io/gorm"
)

// GenerateNumber returns the next order number for the given instant:
// prefix + YYYYMMDD + a 4-digit sequence that resets each calendar day.
// The sequence continues from the latest order created the same day, so it
// must be called inside the transaction that inserts the order.
func GenerateNumber(tx *gorm.DB, now time.Time) (string, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	// Soft-deleted orders still reserve their number; the unique index
	// covers them too.
	var last model.Order
	err := tx.Unscoped().
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Order("id DESC").
		First(&last).Error

	sequence := 1
	if err == nil {
		if n := parseSequence(last.OrderNumber); n > 0 {
			sequence = n + 1
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	return fmt.Sprintf("%s%s%04d", NumberPrefix, now.Format("20060102"), sequence), nil
}

// parseSequence extracts the trailing 4-digit sequence from an order number
func parseSequence(orderNumber string) int {
	if len(orderNumber) < 4 {
		return 0
	}
	n, err := strconv.Atoi(orderNumber[len(orderNumber)-4:])
	if err != nil {
		return 0
	}
	return n
}
