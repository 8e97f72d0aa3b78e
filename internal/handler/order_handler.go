package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samusdtt/Waterflow/internal/authz"
	"github.com/samusdtt/Waterflow/internal/model"
	"github.com/samusdtt/Waterflow/internal/order"
	"github.com/samusdtt/Waterflow/pkg/database"
	"github.com/samusdtt/Waterflow/pkg/logger"
	"github.com/samusdtt/Waterflow/prometheus"
	"go.uber.org/zap"
)

// CreateOrderRequest is the item-list order creation payload
type CreateOrderRequest struct {
	Items           []order.ItemInput `json:"items"`
	PaymentMethod   string            `json:"payment_method"`
	DeliveryAddress string            `json:"delivery_address"`
	Notes           string            `json:"notes"`
}

func validateCreateOrderRequest(req *CreateOrderRequest) map[string]string {
	fieldErrors := map[string]string{}
	if len(req.Items) == 0 {
		fieldErrors["items"] = "at least one item is required"
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			fieldErrors["items"] = "item quantities must be at least 1"
			break
		}
	}
	if !order.ValidPaymentMethod(req.PaymentMethod) {
		fieldErrors["payment_method"] = "payment_method must be cash, online, due or credit_points"
	}
	if req.DeliveryAddress == "" {
		fieldErrors["delivery_address"] = "delivery_address is required"
	}
	return fieldErrors
}

// CreateOrder creates an order from an explicit item list. Lines whose
// product is unknown or belongs to another supplier are dropped and
// returned as warnings; when every line drops the request fails.
func CreateOrder(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid order request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if fieldErrors := validateCreateOrderRequest(&req); len(fieldErrors) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": fieldErrors})
	}

	if user.SupplierID == nil || !authz.Can(actorOf(user), authz.ActionCreateOrder,
		authz.Target{SupplierID: derefUint(user.SupplierID), ClientID: user.ID}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
	}

	ord, warnings, err := order.Create(database.GetDB(), user, order.CreateInput{
		Items:           req.Items,
		PaymentMethod:   req.PaymentMethod,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		if errors.Is(err, order.ErrNoValidItems) {
			log.Warn("Order rejected: no valid items",
				zap.Uint("client_id", user.ID),
				zap.Strings("warnings", warnings))
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":    "no valid items found",
				"warnings": warnings,
			})
		}
		log.Error("Failed to create order", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
	}

	prometheus.OrderCreatedCounter.WithLabelValues(ord.PaymentMethod).Inc()
	log.Info("Order created",
		zap.String("order_number", ord.OrderNumber),
		zap.Uint("client_id", user.ID),
		zap.Float64("total_amount", ord.TotalAmount),
		zap.Int("dropped_lines", len(warnings)))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Order created successfully",
		"data":     ord,
		"warnings": warnings,
	})
}

// CheckoutRequest is the cart checkout payload
type CheckoutRequest struct {
	PaymentMethod   string `json:"payment_method"`
	DeliveryAddress string `json:"delivery_address"`
	Notes           string `json:"notes"`
}

// Checkout creates an order from the client's cart and clears the cart on
// success. An empty cart is a state conflict.
func Checkout(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if !order.ValidPaymentMethod(req.PaymentMethod) || req.DeliveryAddress == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": map[string]string{
			"payment_method":   "payment_method must be cash, online, due or credit_points",
			"delivery_address": "delivery_address is required",
		}})
	}

	ctx := c.Request().Context()
	current, err := cartStore.Get(ctx, user.ID)
	if err != nil {
		log.Error("Failed to load cart", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load cart"})
	}
	if len(current) == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "your cart is empty"})
	}

	items := make([]order.ItemInput, 0, len(current))
	for productID, quantity := range current {
		items = append(items, order.ItemInput{ProductID: productID, Quantity: quantity})
	}

	ord, warnings, err := order.Create(database.GetDB(), user, order.CreateInput{
		Items:           items,
		PaymentMethod:   req.PaymentMethod,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		if errors.Is(err, order.ErrNoValidItems) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":    "no valid items found",
				"warnings": warnings,
			})
		}
		log.Error("Failed to create order from cart", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
	}

	// Cart is destroyed on successful checkout
	if err := cartStore.Clear(ctx, user.ID); err != nil {
		log.Warn("Failed to clear cart after checkout", zap.Error(err))
	}

	prometheus.OrderCreatedCounter.WithLabelValues(ord.PaymentMethod).Inc()
	log.Info("Checkout completed",
		zap.String("order_number", ord.OrderNumber),
		zap.Uint("client_id", user.ID),
		zap.Float64("total_amount", ord.TotalAmount))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Order placed successfully",
		"data":     ord,
		"warnings": warnings,
	})
}

// ListClientOrders returns the client's order history, optionally filtered
// by status
func ListClientOrders(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	query := database.GetDB().
		Preload("Items").
		Preload("Items.Product").
		Preload("Staff").
		Where("client_id = ?", user.ID)

	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if result := query.Order("created_at DESC").Find(&orders); result.Error != nil {
		log.Error("Failed to list orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve orders"})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": orders})
}

// GetOrder returns a single order, enforcing per-order ownership
func GetOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var ord model.Order
	result := database.GetDB().
		Preload("Items").
		Preload("Items.Product").
		Preload("Staff").
		First(&ord, id)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}

	if !authz.Can(actorOf(user), authz.ActionViewOrder, orderTarget(&ord)) {
		log.Warn("Order access denied",
			zap.Uint("user_id", user.ID),
			zap.Uint("order_id", ord.ID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": ord})
}

func derefUint(p *uint) uint {
	if p == nil {
		return 0
	}
	return *p
}
