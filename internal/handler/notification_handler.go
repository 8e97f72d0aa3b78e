package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samusdtt/Waterflow/internal/model"
	"github.com/samusdtt/Waterflow/pkg/database"
	"github.com/samusdtt/Waterflow/pkg/logger"
	"go.uber.org/zap"
)

// ListNotifications returns the caller's notifications. Supplier admins
// additionally see their tenant's notifications, e.g. staff dues requests.
func ListNotifications(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	query := database.GetDB().Model(&model.Notification{})
	switch {
	case user.IsSuperAdmin():
		// unrestricted
	case (user.IsSupplierAdmin()) && user.SupplierID != nil:
		query = query.Where("user_id = ? OR supplier_id = ?", user.ID, *user.SupplierID)
	default:
		query = query.Where("user_id = ?", user.ID)
	}

	if unread := c.QueryParam("unread"); unread == "true" {
		query = query.Where("read_at IS NULL")
	}

	var notifications []model.Notification
	if result := query.Order("created_at DESC").Limit(50).Find(&notifications); result.Error != nil {
		log.Error("Failed to list notifications", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve notifications"})
	}

	unreadCount := 0
	for _, n := range notifications {
		if !n.IsRead() {
			unreadCount++
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data":         notifications,
		"unread_count": unreadCount,
	})
}

// MarkNotificationRead stamps a notification as read. Only the recipient
// (or an admin of the recipient tenant) may do so.
func MarkNotificationRead(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var notification model.Notification
	if result := database.GetDB().First(&notification, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
	}

	allowed := user.IsSuperAdmin() ||
		(notification.UserID != nil && *notification.UserID == user.ID) ||
		(user.IsSupplierAdmin() && notification.SupplierID != nil &&
			user.SupplierID != nil && *notification.SupplierID == *user.SupplierID)
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
	}

	if notification.IsRead() {
		return c.JSON(http.StatusOK, echo.Map{"message": "Notification already read"})
	}

	notification.MarkAsRead()
	if result := database.GetDB().Model(&notification).Update("read_at", notification.ReadAt); result.Error != nil {
		log.Error("Failed to mark notification read", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update notification"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}
