package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/samusdtt/Waterflow/internal/authz"
	"github.com/samusdtt/Waterflow/internal/model"
	"github.com/samusdtt/Waterflow/pkg/database"
	"github.com/samusdtt/Waterflow/pkg/logger"
	"go.uber.org/zap"
)

// ListProducts returns the active products of the client's supplier,
// grouped by type
func ListProducts(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	if user.SupplierID == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no supplier access"})
	}

	var products []model.Product
	result := database.GetDB().
		Where("supplier_id = ? AND is_active = ?", *user.SupplierID, true).
		Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve products"})
	}

	grouped := map[string][]model.Product{}
	for _, p := range products {
		grouped[p.Type] = append(grouped[p.Type], p)
	}

	log.Info("Products retrieved", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, echo.Map{"data": grouped})
}

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Type          string  `json:"type"`
	Size          string  `json:"size"`
	Brand         string  `json:"brand"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	MinStockLevel int     `json:"min_stock_level"`
	IsActive      bool    `json:"is_active"`
	SupplierID    *uint   `json:"supplier_id,omitempty"` // super admin only
}

func validateProductRequest(req *ProductRequest) map[string]string {
	fieldErrors := map[string]string{}
	if req.Name == "" {
		fieldErrors["name"] = "name is required"
	}
	if req.Type != model.ProductTypeJar && req.Type != model.ProductTypeBox {
		fieldErrors["type"] = "type must be jar or box"
	}
	if req.Price <= 0 {
		fieldErrors["price"] = "price must be greater than zero"
	}
	return fieldErrors
}

// CreateProduct adds a catalog item to the admin's supplier
func CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if fieldErrors := validateProductRequest(&req); len(fieldErrors) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": fieldErrors})
	}

	supplierID := user.SupplierID
	if user.IsSuperAdmin() && req.SupplierID != nil {
		supplierID = req.SupplierID
	}
	if supplierID == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no supplier access"})
	}
	if !authz.Can(actorOf(user), authz.ActionManageProducts, authz.Target{SupplierID: *supplierID}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
	}

	product := model.Product{
		SupplierID:    *supplierID,
		Name:          req.Name,
		Description:   req.Description,
		Type:          req.Type,
		Size:          req.Size,
		Brand:         req.Brand,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
		IsActive:      req.IsActive,
	}
	if product.MinStockLevel == 0 {
		product.MinStockLevel = 10
	}

	if result := database.GetDB().Create(&product); result.Error != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create product"})
	}

	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Uint("supplier_id", product.SupplierID))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct updates an existing product. Later price changes never
// touch existing orders; unit prices are frozen into order items.
func UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if fieldErrors := validateProductRequest(&req); len(fieldErrors) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": fieldErrors})
	}

	var product model.Product
	if result := database.GetDB().First(&product, id); result.Error != nil {
		log.Warn("Product not found for update", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	if !authz.Can(actorOf(user), authz.ActionManageProducts, authz.Target{SupplierID: product.SupplierID}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
	}

	oldPrice := product.Price
	product.Name = req.Name
	product.Description = req.Description
	product.Type = req.Type
	product.Size = req.Size
	product.Brand = req.Brand
	product.Price = req.Price
	product.StockQuantity = req.StockQuantity
	product.MinStockLevel = req.MinStockLevel
	product.IsActive = req.IsActive

	if result := database.GetDB().Save(&product); result.Error != nil {
		log.Error("Failed to update product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update product"})
	}

	log.Info("Product updated",
		zap.String("product_id", id),
		zap.Float64("old_price", oldPrice),
		zap.Float64("new_price", product.Price))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product from the catalog (soft delete)
func DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var product model.Product
	if result := database.GetDB().First(&product, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	if !authz.Can(actorOf(user), authz.ActionManageProducts, authz.Target{SupplierID: product.SupplierID}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
	}

	if result := database.GetDB().Delete(&product); result.Error != nil {
		log.Error("Failed to delete product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete product"})
	}

	log.Info("Product deleted", zap.String("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// AdminListProducts returns the catalog for the admin's scope with
// low-stock and out-of-stock annotations
func AdminListProducts(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	query := database.GetDB().Model(&model.Product{})
	if supplierID := scopedSupplierID(c, user); supplierID != nil {
		query = query.Where("supplier_id = ?", *supplierID)
	}

	if isActive := c.QueryParam("is_active"); isActive != "" {
		if active, err := strconv.ParseBool(isActive); err == nil {
			query = query.Where("is_active = ?", active)
		}
	}

	var products []model.Product
	if result := query.Find(&products); result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve products"})
	}

	type productView struct {
		model.Product
		LowStock   bool `json:"low_stock"`
		OutOfStock bool `json:"out_of_stock"`
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{Product: p, LowStock: p.IsLowStock(), OutOfStock: p.IsOutOfStock()})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": views})
}
