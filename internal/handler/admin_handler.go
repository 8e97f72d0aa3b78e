package handler

import (
	"errors"
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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Dashboard returns the operational overview for the admin's scope
func Dashboard(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	db := database.GetDB()
	supplierID := scopedSupplierID(c, user)

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	orderScope := func() *gorm.DB {
		q := db.Model(&model.Order{})
		if supplierID != nil {
			q = q.Where("supplier_id = ?", *supplierID)
		}
		return q
	}
	userScope := func() *gorm.DB {
		q := db.Model(&model.User{})
		if supplierID != nil {
			q = q.Where("supplier_id = ?", *supplierID)
		}
		return q
	}

	var todayOrders int64
	orderScope().
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Count(&todayOrders)

	var todayRevenue float64
	orderScope().
		Where("created_at >= ? AND created_at < ? AND status != ?", dayStart, dayEnd, model.OrderCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&todayRevenue)

	var pendingOrders int64
	orderScope().Where("status = ?", model.OrderPending).Count(&pendingOrders)

	var dueTotal float64
	orderScope().
		Where("payment_status = ?", model.PaymentStatusDue).
		Select("COALESCE(SUM(due_amount), 0)").
		Scan(&dueTotal)

	var clientCount, staffCount int64
	userScope().Where("role = ?", model.RoleClient).Count(&clientCount)
	userScope().Where("role = ?", model.RoleStaff).Count(&staffCount)

	productQ := db.Model(&model.Product{}).
		Where("is_active = ? AND stock_quantity <= min_stock_level", true)
	if supplierID != nil {
		productQ = productQ.Where("supplier_id = ?", *supplierID)
	}
	var lowStockProducts []model.Product
	productQ.Find(&lowStockProducts)

	response := echo.Map{
		"today_orders":       todayOrders,
		"today_revenue":      todayRevenue,
		"pending_orders":     pendingOrders,
		"total_due":          dueTotal,
		"total_clients":      clientCount,
		"total_staff":        staffCount,
		"low_stock_products": lowStockProducts,
	}

	// Super admins additionally see the tenant picture
	if user.IsSuperAdmin() {
		var totalSuppliers, activeSuppliers int64
		db.Model(&model.Supplier{}).Count(&totalSuppliers)
		db.Model(&model.Supplier{}).
			Where("is_active = ? AND subscription_status = ?", true, model.SubscriptionActive).
			Count(&activeSuppliers)

		var expiringSoon []model.Supplier
		db.Where("subscription_status = ? AND subscription_end_date < ?",
			model.SubscriptionActive, now.AddDate(0, 0, 7)).
			Find(&expiringSoon)

		response["total_suppliers"] = totalSuppliers
		response["active_suppliers"] = activeSuppliers
		response["expiring_subscriptions"] = expiringSoon
		prometheus.ActiveSuppliersGauge.Set(float64(activeSuppliers))
	}

	log.Info("Dashboard served", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, response)
}

// DailyOrders lists a day's orders across the admin's scope, optionally
// filtered by delivery location
func DailyOrders(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	day := time.Now()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": map[string]string{
				"date": "date must be in YYYY-MM-DD format",
			}})
		}
		day = parsed
	}
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := database.GetDB().
		Preload("Items").
		Preload("Items.Product").
		Preload("Client").
		Preload("Staff").
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd)

	if supplierID := scopedSupplierID(c, user); supplierID != nil {
		query = query.Where("supplier_id = ?", *supplierID)
	}
	if location := c.QueryParam("location"); location != "" {
		query = query.Where("delivery_address LIKE ?", "%"+location+"%")
	}
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if result := query.Order("created_at DESC").Find(&orders); result.Error != nil {
		log.Error("Failed to list daily orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve orders"})
	}

	var totalAmount float64
	for _, o := range orders {
		if o.Status != model.OrderCancelled {
			totalAmount = order.Round2(totalAmount + o.TotalAmount)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"date":         dayStart.Format("2006-01-02"),
		"data":         orders,
		"order_count":  len(orders),
		"total_amount": totalAmount,
	})
}

// UpdateOrderStatusRequest is the admin status change payload
type UpdateOrderStatusRequest struct {
	Status  string `json:"status"`
	StaffID *uint  `json:"staff_id,omitempty"`
}

// UpdateOrderStatus applies a guarded status transition and optionally
// assigns delivery staff
func UpdateOrderStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	var ord model.Order
	if result := database.GetDB().First(&ord, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}

	if !authz.Can(actorOf(user), authz.ActionUpdateOrder, orderTarget(&ord)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
	}

	// Assigned staff must be delivery staff of the same supplier
	if req.StaffID != nil {
		var staff model.User
		if err := database.GetDB().First(&staff, *req.StaffID).Error; err != nil ||
			!staff.IsStaff() || staff.SupplierID == nil || *staff.SupplierID != ord.SupplierID {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": map[string]string{
				"staff_id": "staff_id must reference delivery staff of the order's supplier",
			}})
		}
	}

	if err := order.UpdateStatus(database.GetDB(), &ord, req.Status, req.StaffID, time.Now()); err != nil {
		if errors.Is(err, order.ErrInvalidTransition) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "invalid status transition from " + ord.Status + " to " + req.Status,
			})
		}
		log.Error("Failed to update order status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update order"})
	}

	if ord.Status == model.OrderDelivered {
		prometheus.OrderDeliveredCounter.Inc()
	}
	log.Info("Order status updated",
		zap.String("order_number", ord.OrderNumber),
		zap.String("status", ord.Status),
		zap.Uint("updated_by", user.ID))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Order updated successfully",
		"data":    ord,
	})
}

// MarkPaymentReceivedRequest is the payment reconciliation payload
type MarkPaymentReceivedRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
	Notes  string  `json:"notes"`
}

// MarkPaymentReceived records a received payment against an order and
// settles its due balance
func MarkPaymentReceived(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req MarkPaymentReceivedRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	fieldErrors := map[string]string{}
	if req.Amount <= 0 {
		fieldErrors["amount"] = "amount must be greater than zero"
	}
	if req.Method != model.PaymentMethodCash && req.Method != model.PaymentMethodOnline {
		fieldErrors["method"] = "method must be cash or online"
	}
	if len(fieldErrors) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": fieldErrors})
	}

	var ord model.Order
	if result := database.GetDB().First(&ord, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}

	if !authz.Can(actorOf(user), authz.ActionApplyPayment, orderTarget(&ord)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
	}

	payment, err := order.ApplyPayment(database.GetDB(), &ord, req.Amount, req.Method, req.Notes)
	if err != nil {
		log.Error("Failed to record payment",
			zap.String("order_number", ord.OrderNumber),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record payment"})
	}

	prometheus.PaymentRecordedCounter.WithLabelValues(req.Method).Inc()
	log.Info("Payment recorded",
		zap.String("order_number", ord.OrderNumber),
		zap.String("payment_id", payment.PaymentID),
		zap.Float64("amount", req.Amount),
		zap.Float64("remaining_due", ord.DueAmount))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Payment recorded successfully",
		"data": map[string]interface{}{
			"payment": payment,
			"order":   ord,
		},
	})
}

// DailyAccountRequest is the ledger upsert payload
type DailyAccountRequest struct {
	AccountDate   string  `json:"account_date"`
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	IncomeNotes   string  `json:"income_notes"`
	ExpenseNotes  string  `json:"expense_notes"`
	SupplierID    *uint   `json:"supplier_id,omitempty"` // super admin only
}

// UpsertDailyAccount creates or overwrites the financial ledger entry for
// a supplier and date. Net profit is always recomputed server-side.
func UpsertDailyAccount(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req DailyAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if _, err := time.Parse("2006-01-02", req.AccountDate); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": map[string]string{
			"account_date": "account_date must be in YYYY-MM-DD format",
		}})
	}

	supplierID := user.SupplierID
	if user.IsSuperAdmin() && req.SupplierID != nil {
		supplierID = req.SupplierID
	}
	if supplierID == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no supplier access"})
	}
	if !authz.Can(actorOf(user), authz.ActionUpsertLedger, authz.Target{SupplierID: *supplierID}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
	}

	account := model.DailyAccount{
		SupplierID:    *supplierID,
		AccountDate:   req.AccountDate,
		TotalIncome:   req.TotalIncome,
		TotalExpenses: req.TotalExpenses,
		NetProfit:     order.Round2(req.TotalIncome - req.TotalExpenses),
		IncomeNotes:   req.IncomeNotes,
		ExpenseNotes:  req.ExpenseNotes,
	}

	result := database.GetDB().Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "supplier_id"}, {Name: "account_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_income", "total_expenses", "net_profit",
			"income_notes", "expense_notes", "updated_at",
		}),
	}).Create(&account)
	if result.Error != nil {
		log.Error("Failed to upsert daily account", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save daily account"})
	}

	log.Info("Daily account saved",
		zap.Uint("supplier_id", *supplierID),
		zap.String("account_date", req.AccountDate),
		zap.Float64("net_profit", account.NetProfit))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Daily account saved",
		"data":    account,
	})
}

// ListDailyAccounts returns ledger entries for the admin's scope, newest
// date first
func ListDailyAccounts(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	query := database.GetDB().Model(&model.DailyAccount{})
	if supplierID := scopedSupplierID(c, user); supplierID != nil {
		query = query.Where("supplier_id = ?", *supplierID)
	}
	if from := c.QueryParam("from"); from != "" {
		query = query.Where("account_date >= ?", from)
	}
	if to := c.QueryParam("to"); to != "" {
		query = query.Where("account_date <= ?", to)
	}

	var accounts []model.DailyAccount
	if result := query.Order("account_date DESC").Limit(90).Find(&accounts); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve daily accounts"})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": accounts})
}

// JarRecordRequest is the jar inventory upsert payload
type JarRecordRequest struct {
	RecordDate     string `json:"record_date"`
	TotalRefilling int    `json:"total_refilling"`
	EmptyJars      int    `json:"empty_jars"`
	OnboardJars    int    `json:"onboard_jars"`
	Notes          string `json:"notes"`
	SupplierID     *uint  `json:"supplier_id,omitempty"` // super admin only
}

// UpsertJarRecord creates or overwrites the jar inventory count for a
// supplier and date
func UpsertJarRecord(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req JarRecordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	fieldErrors := map[string]string{}
	if _, err := time.Parse("2006-01-02", req.RecordDate); err != nil {
		fieldErrors["record_date"] = "record_date must be in YYYY-MM-DD format"
	}
	if req.TotalRefilling < 0 || req.EmptyJars < 0 || req.OnboardJars < 0 {
		fieldErrors["counts"] = "jar counts must be zero or more"
	}
	if len(fieldErrors) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": fieldErrors})
	}

	supplierID := user.SupplierID
	if user.IsSuperAdmin() && req.SupplierID != nil {
		supplierID = req.SupplierID
	}
	if supplierID == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no supplier access"})
	}
	if !authz.Can(actorOf(user), authz.ActionUpsertLedger, authz.Target{SupplierID: *supplierID}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
	}

	record := model.JarRecord{
		SupplierID:     *supplierID,
		RecordDate:     req.RecordDate,
		TotalRefilling: req.TotalRefilling,
		EmptyJars:      req.EmptyJars,
		OnboardJars:    req.OnboardJars,
		Notes:          req.Notes,
	}

	result := database.GetDB().Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "supplier_id"}, {Name: "record_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_refilling", "empty_jars", "onboard_jars", "notes", "updated_at",
		}),
	}).Create(&record)
	if result.Error != nil {
		log.Error("Failed to upsert jar record", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save jar record"})
	}

	log.Info("Jar record saved",
		zap.Uint("supplier_id", *supplierID),
		zap.String("record_date", req.RecordDate),
		zap.Int("total_jars", record.TotalJars()))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Jar record saved",
		"data":    record,
	})
}

// ListJarRecords returns jar inventory history for the admin's scope
func ListJarRecords(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	query := database.GetDB().Model(&model.JarRecord{})
	if supplierID := scopedSupplierID(c, user); supplierID != nil {
		query = query.Where("supplier_id = ?", *supplierID)
	}
	if from := c.QueryParam("from"); from != "" {
		query = query.Where("record_date >= ?", from)
	}
	if to := c.QueryParam("to"); to != "" {
		query = query.Where("record_date <= ?", to)
	}

	var records []model.JarRecord
	if result := query.Order("record_date DESC").Limit(90).Find(&records); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve jar records"})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": records})
}

// ListStaff returns delivery staff of the admin's scope with today's
// attendance attached
func ListStaff(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	query := database.GetDB().Where("role = ?", model.RoleStaff)
	if supplierID := scopedSupplierID(c, user); supplierID != nil {
		query = query.Where("supplier_id = ?", *supplierID)
	}

	var staff []model.User
	if result := query.Find(&staff); result.Error != nil {
		log.Error("Failed to list staff", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve staff"})
	}

	today := attendance.DateKey(time.Now())
	type staffView struct {
		model.User
		TodayAttendance *model.StaffAttendance `json:"today_attendance,omitempty"`
	}
	views := make([]staffView, 0, len(staff))
	for _, s := range staff {
		view := staffView{User: s}
		var record model.StaffAttendance
		if err := database.GetDB().
			Where("staff_id = ? AND attendance_date = ?", s.ID, today).
			First(&record).Error; err == nil {
			view.TodayAttendance = &record
		}
		views = append(views, view)
	}

	return c.JSON(http.StatusOK, echo.Map{"data": views})
}

// CreateStaffRequest is the staff onboarding payload
type CreateStaffRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	SupplierID *uint  `json:"supplier_id,omitempty"` // super admin only
}

// CreateStaff onboards a delivery staff member into the admin's supplier
func CreateStaff(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req CreateStaffRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	fieldErrors := map[string]string{}
	if req.Name == "" {
		fieldErrors["name"] = "name is required"
	}
	if req.Email == "" {
		fieldErrors["email"] = "email is required"
	}
	if len(req.Password) < 6 {
		fieldErrors["password"] = "password must be at least 6 characters"
	}
	if len(fieldErrors) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": fieldErrors})
	}

	supplierID := user.SupplierID
	if user.IsSuperAdmin() && req.SupplierID != nil {
		supplierID = req.SupplierID
	}
	if supplierID == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no supplier access"})
	}
	if !authz.Can(actorOf(user), authz.ActionManageStaff, authz.Target{SupplierID: *supplierID}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
	}

	var existing model.User
	if result := database.GetDB().Where("email = ?", req.Email).First(&existing); result.Error == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create staff"})
	}

	staff := model.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   string(hashedPassword),
		Phone:      req.Phone,
		Address:    req.Address,
		Role:       model.RoleStaff,
		SupplierID: supplierID,
		IsActive:   true,
	}
	if result := database.GetDB().Create(&staff); result.Error != nil {
		log.Error("Failed to create staff", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create staff"})
	}

	log.Info("Staff created",
		zap.Uint("staff_id", staff.ID),
		zap.Uint("supplier_id", *supplierID),
		zap.Uint("created_by", user.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Staff created successfully",
		"data":    staff,
	})
}

// ListClients returns clients of the admin's scope with order aggregates
func ListClients(c echo.Context) error {
	log := logger.FromEcho(c)

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	query := database.GetDB().Where("role = ?", model.RoleClient)
	if supplierID := scopedSupplierID(c, user); supplierID != nil {
		query = query.Where("supplier_id = ?", *supplierID)
	}

	var clients []model.User
	if result := query.Find(&clients); result.Error != nil {
		log.Error("Failed to list clients", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve clients"})
	}

	type clientView struct {
		model.User
		OrderCount int64   `json:"order_count"`
		TotalDue   float64 `json:"total_due"`
	}
	views := make([]clientView, 0, len(clients))
	for _, cl := range clients {
		view := clientView{User: cl}
		database.GetDB().Model(&model.Order{}).
			Where("client_id = ?", cl.ID).
			Count(&view.OrderCount)
		database.GetDB().Model(&model.Order{}).
			Where("client_id = ? AND payment_status = ?", cl.ID, model.PaymentStatusDue).
			Select("COALESCE(SUM(due_amount), 0)").
			Scan(&view.TotalDue)
		views = append(views, view)
	}

	return c.JSON(http.StatusOK, echo.Map{"data": views})
}

// ListSuppliers returns every tenant. Super admin only.
func ListSuppliers(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	if !authz.Can(actorOf(user), authz.ActionManageTenants, authz.Target{}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
	}

	var suppliers []model.Supplier
	if result := database.GetDB().Order("created_at DESC").Find(&suppliers); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve suppliers"})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": suppliers})
}

// UpdateSubscriptionRequest is the tenant subscription payload
type UpdateSubscriptionRequest struct {
	SubscriptionStatus string     `json:"subscription_status"`
	StartDate          *time.Time `json:"subscription_start_date"`
	EndDate            *time.Time `json:"subscription_end_date"`
	MonthlyFee         *float64   `json:"monthly_fee"`
	IsActive           *bool      `json:"is_active"`
}

func validSubscriptionStatus(s string) bool {
	switch s {
	case model.SubscriptionActive, model.SubscriptionInactive,
		model.SubscriptionSuspended, model.SubscriptionExpired:
		return true
	}
	return false
}

// UpdateSupplierSubscription activates, suspends or reconfigures a
// tenant's subscription. Super admin only. Changes take effect at the
// next login; existing tokens are not revoked.
func UpdateSupplierSubscription(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	if !authz.Can(actorOf(user), authz.ActionManageTenants, authz.Target{}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
	}

	var req UpdateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.SubscriptionStatus != "" && !validSubscriptionStatus(req.SubscriptionStatus) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": map[string]string{
			"subscription_status": "subscription_status must be active, inactive, suspended or expired",
		}})
	}

	var supplier model.Supplier
	if result := database.GetDB().First(&supplier, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
	}

	updates := map[string]interface{}{}
	if req.SubscriptionStatus != "" {
		updates["subscription_status"] = req.SubscriptionStatus
		supplier.SubscriptionStatus = req.SubscriptionStatus
	}
	if req.StartDate != nil {
		updates["subscription_start_date"] = req.StartDate
		supplier.SubscriptionStartDate = req.StartDate
	}
	if req.EndDate != nil {
		updates["subscription_end_date"] = req.EndDate
		supplier.SubscriptionEndDate = req.EndDate
	}
	if req.MonthlyFee != nil {
		updates["monthly_fee"] = *req.MonthlyFee
		supplier.MonthlyFee = *req.MonthlyFee
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
		supplier.IsActive = *req.IsActive
	}
	if len(updates) == 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no fields to update"})
	}

	if result := database.GetDB().Model(&supplier).Updates(updates); result.Error != nil {
		log.Error("Failed to update supplier subscription", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update supplier"})
	}

	log.Info("Supplier subscription updated",
		zap.Uint("supplier_id", supplier.ID),
		zap.String("subscription_status", supplier.SubscriptionStatus),
		zap.Bool("is_active", supplier.IsActive))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Supplier updated successfully",
		"data":    supplier,
	})
}
