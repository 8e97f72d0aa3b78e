package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samusdtt/Waterflow/internal/cart"
	"github.com/samusdtt/Waterflow/internal/model"
	"github.com/samusdtt/Waterflow/internal/order"
	"github.com/samusdtt/Waterflow/pkg/database"
	"github.com/samusdtt/Waterflow/pkg/logger"
	"go.uber.org/zap"
)

// cartStore holds the configured cart backend (Redis or in-memory)
var cartStore cart.Store = cart.NewMemoryStore()

// SetCartStore configures the cart backend. Called once at startup.
func SetCartStore(s cart.Store) {
	cartStore = s
}

// cartLine is a resolved cart entry with live pricing
type cartLine struct {
	Product  model.Product `json:"product"`
	Quantity int           `json:"quantity"`
	Total    float64       `json:"total"`
}

// resolveCart joins cart entries against the catalog. Entries whose
// product has disappeared are skipped. Prices are read live, unlike order
// lines which freeze them.
func resolveCart(c cart.Cart) ([]cartLine, float64) {
	var lines []cartLine
	subtotal := 0.0

	for productID, quantity := range c {
		var product model.Product
		if err := database.GetDB().First(&product, productID).Error; err != nil {
			continue
		}
		total := order.Round2(product.Price * float64(quantity))
		lines = append(lines, cartLine{Product: product, Quantity: quantity, Total: total})
		subtotal = order.Round2(subtotal + total)
	}
	return lines, subtotal
}

// GetCart returns the client's cart with live totals
func GetCart(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	current, err := cartStore.Get(c.Request().Context(), user.ID)
	if err != nil {
		logger.FromEcho(c).Error("Failed to load cart", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load cart"})
	}

	lines, subtotal := resolveCart(current)
	taxAmount, total := order.ComputeTotals(subtotal)

	return c.JSON(http.StatusOK, echo.Map{
		"items":      lines,
		"cart_count": current.Count(),
		"subtotal":   subtotal,
		"tax_amount": taxAmount,
		"total":      total,
	})
}

// AddToCart adds a product to the client's cart, incrementing any
// existing quantity
func AddToCart(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.ProductID == 0 || req.Quantity < 1 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": map[string]string{
			"quantity": "quantity must be at least 1",
		}})
	}

	var product model.Product
	if err := database.GetDB().First(&product, req.ProductID).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	ctx := c.Request().Context()
	current, err := cartStore.Get(ctx, user.ID)
	if err != nil {
		log.Error("Failed to load cart", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load cart"})
	}

	current.Add(product.ID, req.Quantity)
	if err := cartStore.Save(ctx, user.ID, current); err != nil {
		log.Error("Failed to save cart", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save cart"})
	}

	log.Info("Product added to cart",
		zap.Uint("client_id", user.ID),
		zap.Uint("product_id", product.ID),
		zap.Int("quantity", req.Quantity))
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Product added to cart",
		"cart_count": current.Count(),
	})
}

// UpdateCart sets a cart line's quantity; zero removes the line
func UpdateCart(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.ProductID == 0 || req.Quantity < 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": map[string]string{
			"quantity": "quantity must be zero or more",
		}})
	}

	ctx := c.Request().Context()
	current, err := cartStore.Get(ctx, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load cart"})
	}

	current.SetQuantity(req.ProductID, req.Quantity)
	if err := cartStore.Save(ctx, user.ID, current); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save cart"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "cart_count": current.Count()})
}

// RemoveFromCart drops a product from the cart
func RemoveFromCart(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	ctx := c.Request().Context()
	current, err := cartStore.Get(ctx, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load cart"})
	}

	current.Remove(req.ProductID)
	if err := cartStore.Save(ctx, user.ID, current); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save cart"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "cart_count": current.Count()})
}
