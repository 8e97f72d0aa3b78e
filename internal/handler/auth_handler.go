package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samusdtt/Waterflow/internal/model"
	"github.com/samusdtt/Waterflow/pkg/database"
	"github.com/samusdtt/Waterflow/pkg/jwtutil"
	"github.com/samusdtt/Waterflow/pkg/logger"
	"github.com/samusdtt/Waterflow/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates an actor and issues a JWT. Non-super-admin actors
// are refused when their supplier is inactive or has no valid subscription
// window; this tenant gate applies at login only.
func Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if err := database.GetDB().Where("email = ?", req.Email).First(&user).Error; err != nil {
		log.Warn("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if !user.IsActive {
		log.Warn("Inactive account attempted login", zap.String("email", req.Email))
		prometheus.RecordAuthError("inactive_account")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "your account is inactive"})
	}

	// Tenant usability gate for everyone except super admins
	if !user.IsSuperAdmin() && user.SupplierID != nil {
		var supplier model.Supplier
		if err := database.GetDB().First(&supplier, *user.SupplierID).Error; err != nil || !supplier.IsActive {
			log.Warn("Supplier account inactive", zap.String("email", req.Email))
			prometheus.RecordAuthError("inactive_supplier")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "supplier account is inactive"})
		}
		if !supplier.IsSubscriptionActive() {
			log.Warn("Supplier subscription inactive",
				zap.String("email", req.Email),
				zap.Uint("supplier_id", supplier.ID))
			prometheus.RecordAuthError("subscription_inactive")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "supplier subscription is inactive"})
		}
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID, user.Role, user.SupplierID, user.Name)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("role", user.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": map[string]interface{}{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"role":        user.Role,
			"supplier_id": user.SupplierID,
		},
	})
}

// RegisterRequest defines the registration payload. Supplier admins also
// register their business, which stays inactive until a super admin
// activates it.
type RegisterRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Phone         string `json:"phone"`
	Role          string `json:"role"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	SupplierID    *uint  `json:"supplier_id,omitempty"`
	SupplierName  string `json:"supplier_name,omitempty"`
	SupplierEmail string `json:"supplier_email,omitempty"`
	SupplierPhone string `json:"supplier_phone,omitempty"`
}

// Register creates a client or supplier-admin account
func Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RegisterCounter.Inc()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	fieldErrors := map[string]string{}
	if req.Name == "" {
		fieldErrors["name"] = "name is required"
	}
	if req.Email == "" {
		fieldErrors["email"] = "email is required"
	}
	if req.Password == "" {
		fieldErrors["password"] = "password is required"
	}
	if req.Role != model.RoleClient && req.Role != model.RoleSupplierAdmin {
		fieldErrors["role"] = "role must be client or supplier_admin"
	}
	if req.Role == model.RoleSupplierAdmin {
		if req.SupplierName == "" {
			fieldErrors["supplier_name"] = "supplier_name is required for supplier admins"
		}
		if req.SupplierEmail == "" {
			fieldErrors["supplier_email"] = "supplier_email is required for supplier admins"
		}
	}
	if req.Role == model.RoleClient && req.SupplierID == nil {
		fieldErrors["supplier_id"] = "supplier_id is required for clients"
	}
	if len(fieldErrors) > 0 {
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": fieldErrors})
	}

	db := database.GetDB()

	var count int64
	db.Model(&model.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		log.Warn("User already exists", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	supplierID := req.SupplierID

	// Supplier admins register their business alongside the account. It is
	// created inactive and awaits activation by a super admin.
	if req.Role == model.RoleSupplierAdmin {
		supplier := model.Supplier{
			Name:               req.SupplierName,
			Email:              req.SupplierEmail,
			Phone:              req.SupplierPhone,
			Address:            req.Address,
			City:               req.City,
			State:              req.State,
			Pincode:            req.Pincode,
			SubscriptionStatus: model.SubscriptionInactive,
			IsActive:           false,
		}
		if err := db.Create(&supplier).Error; err != nil {
			log.Error("Failed to create supplier", zap.Error(err))
			prometheus.RecordAuthError("supplier_creation_failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
		}
		supplierID = &supplier.ID
	}

	user := model.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   string(hashedPassword),
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		Pincode:    req.Pincode,
		Role:       req.Role,
		SupplierID: supplierID,
		IsActive:   true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := db.Create(&user).Error; err != nil {
		log.Error("Failed to create user", zap.Error(err))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	log.Info("User registered",
		zap.String("email", user.Email),
		zap.String("role", user.Role))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user": map[string]interface{}{
			"id":          user.ID,
			"email":       user.Email,
			"role":        user.Role,
			"supplier_id": user.SupplierID,
		},
	})
}

// GetProfile returns the authenticated actor's profile
func GetProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	if user.SupplierID != nil {
		database.GetDB().Preload("Supplier").First(user, user.ID)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated actor's contact details
func UpdateProfile(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
		City    string `json:"city"`
		State   string `json:"state"`
		Pincode string `json:"pincode"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" || req.Phone == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": map[string]string{
			"name":  "name is required",
			"phone": "phone is required",
		}})
	}

	updates := map[string]interface{}{
		"name":    req.Name,
		"phone":   req.Phone,
		"address": req.Address,
		"city":    req.City,
		"state":   req.State,
		"pincode": req.Pincode,
	}
	if err := database.GetDB().Model(user).Updates(updates).Error; err != nil {
		log.Error("Failed to update profile", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}

	log.Info("Profile updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile updated successfully",
		"data":    user,
	})
}
