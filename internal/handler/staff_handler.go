package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samusdtt/Waterflow/internal/attendance"
	"github.com/samusdtt/Waterflow/internal/authz"
	"github.com/samusdtt/Waterflow/internal/model"
	"github.com/samusdtt/Waterflow/internal/order"
	"github.com/samusdtt/Waterflow/pkg/database"
	"github.com/samusdtt/Waterflow/pkg/logger"
	"github.com/samusdtt/Waterflow/prometheus"
	"go.uber.org/zap"
)

// StaffOrders returns orders assigned to the staff member, optionally
// filtered by status
func StaffOrders(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	query := database.GetDB().
		Preload("Items").
		Preload("Items.Product").
		Preload("Client").
		Where("staff_id = ?", user.ID)

	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if result := query.Order("created_at DESC").Find(&orders); result.Error != nil {
		log.Error("Failed to list assigned orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve orders"})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": orders})
}

// MarkDelivered lets the assigned staff member complete a delivery
func MarkDelivered(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		DeliveryNotes string `json:"delivery_notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	var ord model.Order
	if result := database.GetDB().First(&ord, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}

	if !authz.Can(actorOf(user), authz.ActionDeliverOrder, orderTarget(&ord)) {
		log.Warn("Delivery attempt denied",
			zap.Uint("user_id", user.ID),
			zap.Uint("order_id", ord.ID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
	}

	if err := order.MarkDelivered(database.GetDB(), &ord, req.DeliveryNotes, time.Now()); err != nil {
		if errors.Is(err, order.ErrAlreadyDelivered) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "order already delivered or cancelled"})
		}
		log.Error("Failed to mark order delivered", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update order"})
	}

	prometheus.OrderDeliveredCounter.Inc()
	log.Info("Order delivered",
		zap.String("order_number", ord.OrderNumber),
		zap.Uint("staff_id", user.ID))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Order marked as delivered",
		"data":    ord,
	})
}

// RequestPaymentVerification notifies the supplier's admins that the
// assigned staff member wants a due payment verified
func RequestPaymentVerification(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var ord model.Order
	if result := database.GetDB().First(&ord, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}

	if !authz.Can(actorOf(user), authz.ActionRequestDues, orderTarget(&ord)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
	}

	if ord.PaymentStatus != model.PaymentStatusDue {
		return c.JSON(http.StatusConflict, echo.Map{"error": order.ErrOrderNotDue.Error()})
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"order_id": ord.ID,
		"staff_id": user.ID,
		"amount":   ord.DueAmount,
	})

	notification := model.Notification{
		SupplierID: &ord.SupplierID,
		Type:       model.NotificationDuesRequest,
		Title:      "Payment Verification Request",
		Message:    fmt.Sprintf("Staff %s has requested payment verification for order #%s", user.Name, ord.OrderNumber),
		Data:       string(payload),
	}
	if err := database.GetDB().Create(&notification).Error; err != nil {
		log.Error("Failed to create notification", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send request"})
	}

	log.Info("Payment verification requested",
		zap.String("order_number", ord.OrderNumber),
		zap.Uint("staff_id", user.ID),
		zap.Float64("amount", ord.DueAmount))

	return c.JSON(http.StatusOK, echo.Map{"message": "Payment verification request sent to admin"})
}

// ClockIn opens today's attendance session for the staff member
func ClockIn(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	record, err := attendance.ClockIn(database.GetDB(), user, time.Now())
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyClockedIn) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "already clocked in today"})
		}
		log.Error("Failed to clock in", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to clock in"})
	}

	prometheus.AttendanceCounter.WithLabelValues("clock_in").Inc()
	log.Info("Staff clocked in",
		zap.Uint("staff_id", user.ID),
		zap.String("date", record.AttendanceDate))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Clocked in successfully",
		"data":    record,
	})
}

// ClockOut closes today's open attendance session
func ClockOut(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	record, err := attendance.ClockOut(database.GetDB(), user, time.Now())
	if err != nil {
		if errors.Is(err, attendance.ErrNotClockedIn) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "not clocked in today"})
		}
		log.Error("Failed to clock out", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to clock out"})
	}

	prometheus.AttendanceCounter.WithLabelValues("clock_out").Inc()
	log.Info("Staff clocked out",
		zap.Uint("staff_id", user.ID),
		zap.Int("total_hours", record.TotalHours))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Clocked out successfully",
		"data": map[string]interface{}{
			"total_hours": record.TotalHours,
		},
	})
}

// ListAttendance returns the staff member's attendance history
func ListAttendance(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var records []model.StaffAttendance
	result := database.GetDB().
		Where("staff_id = ?", user.ID).
		Order("attendance_date DESC").
		Limit(30).
		Find(&records)
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve attendance"})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": records})
}

// StaffDashboard returns today's attendance, active assigned orders and
// weekly delivery statistics
func StaffDashboard(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	db := database.GetDB()
	now := time.Now()

	var todayAttendance model.StaffAttendance
	hasAttendance := db.Where("staff_id = ? AND attendance_date = ?", user.ID, attendance.DateKey(now)).
		First(&todayAttendance).Error == nil

	var assignedOrders []model.Order
	db.Preload("Client").Preload("Items").Preload("Items.Product").
		Where("staff_id = ? AND status IN ?", user.ID, []string{model.OrderConfirmed, model.OrderInProgress}).
		Order("created_at DESC").
		Find(&assignedOrders)

	// Weekly stats: Monday through Sunday of the current week
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(weekday - 1))
	weekEnd := weekStart.AddDate(0, 0, 7)

	var deliveries int64
	db.Model(&model.Order{}).
		Where("staff_id = ? AND status = ? AND delivered_at >= ? AND delivered_at < ?",
			user.ID, model.OrderDelivered, weekStart, weekEnd).
		Count(&deliveries)

	var totalHours int64
	db.Model(&model.StaffAttendance{}).
		Where("staff_id = ? AND attendance_date >= ? AND attendance_date < ?",
			user.ID, attendance.DateKey(weekStart), attendance.DateKey(weekEnd)).
		Select("COALESCE(SUM(total_hours), 0)").
		Scan(&totalHours)

	var totalEarnings float64
	db.Model(&model.Order{}).
		Where("staff_id = ? AND status = ? AND delivered_at >= ? AND delivered_at < ?",
			user.ID, model.OrderDelivered, weekStart, weekEnd).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalEarnings)

	response := echo.Map{
		"assigned_orders": assignedOrders,
		"weekly_stats": map[string]interface{}{
			"deliveries":     deliveries,
			"total_hours":    totalHours,
			"total_earnings": totalEarnings,
		},
	}
	if hasAttendance {
		response["today_attendance"] = todayAttendance
	}

	log.Info("Staff dashboard served", zap.Uint("staff_id", user.ID))
	return c.JSON(http.StatusOK, response)
}
