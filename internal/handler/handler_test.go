package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samusdtt/Waterflow/internal/cart"
	"github.com/samusdtt/Waterflow/internal/model"
	"github.com/samusdtt/Waterflow/pkg/config"
	"github.com/samusdtt/Waterflow/pkg/database"
	"github.com/samusdtt/Waterflow/pkg/jwtutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	supplier *model.Supplier
	client   *model.User
	staff    *model.User
	admin    *model.User
	products []model.Product
}

func setupHandlerTest(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Supplier{},
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.StaffAttendance{},
		&model.DailyAccount{},
		&model.JarRecord{},
		&model.Notification{},
	))
	database.SetDB(db)
	SetCartStore(cart.NewMemoryStore())

	supplier := &model.Supplier{Name: "AquaPure", Email: "aqua@example.com"}
	require.NoError(t, db.Create(supplier).Error)

	client := &model.User{
		Name: "Ravi", Email: "ravi@example.com",
		Role: model.RoleClient, SupplierID: &supplier.ID, IsActive: true,
	}
	staff := &model.User{
		Name: "Suresh", Email: "suresh@example.com",
		Role: model.RoleStaff, SupplierID: &supplier.ID, IsActive: true,
	}
	admin := &model.User{
		Name: "Meena", Email: "meena@example.com",
		Role: model.RoleSupplierAdmin, SupplierID: &supplier.ID, IsActive: true,
	}
	require.NoError(t, db.Create(client).Error)
	require.NoError(t, db.Create(staff).Error)
	require.NoError(t, db.Create(admin).Error)

	products := []model.Product{
		{SupplierID: supplier.ID, Name: "20L Jar", Type: model.ProductTypeJar, Price: 50, IsActive: true},
		{SupplierID: supplier.ID, Name: "1L Box Pack", Type: model.ProductTypeBox, Price: 100, IsActive: true},
	}
	require.NoError(t, db.Create(&products).Error)

	return &fixture{supplier: supplier, client: client, staff: staff, admin: admin, products: products}
}

// request builds an authenticated echo context for the given user
func request(method, path, body string, user *model.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set("user", &jwtutil.UserClaims{
			UserID:     user.ID,
			Email:      user.Email,
			Role:       user.Role,
			SupplierID: user.SupplierID,
			Name:       user.Name,
		})
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func createOrderFor(t *testing.T, f *fixture, paymentMethod string) *model.Order {
	t.Helper()
	c, rec := request(http.MethodPost, "/api/client/orders",
		`{"items":[{"product_id":`+itoa(f.products[0].ID)+`,"quantity":2},{"product_id":`+itoa(f.products[1].ID)+`,"quantity":1}],"payment_method":"`+paymentMethod+`","delivery_address":"12 Lake Road"}`,
		f.client)
	require.NoError(t, CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var ord model.Order
	require.NoError(t, database.GetDB().Order("id DESC").First(&ord).Error)
	return &ord
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func TestLoginTenantGate(t *testing.T) {
	f := setupHandlerTest(t)
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-secret", ExpirationHours: 1})

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, database.GetDB().Model(f.client).Update("password", string(hash)).Error)

	login := func() *httptest.ResponseRecorder {
		c, rec := request(http.MethodPost, "/auth/login",
			`{"email":"ravi@example.com","password":"secret123"}`, nil)
		require.NoError(t, Login(c))
		return rec
	}

	// Supplier exists but is inactive with no subscription window
	rec := login()
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Activate the tenant with a valid subscription window
	end := time.Now().Add(30 * 24 * time.Hour)
	require.NoError(t, database.GetDB().Model(f.supplier).Updates(map[string]interface{}{
		"is_active":             true,
		"subscription_status":   model.SubscriptionActive,
		"subscription_end_date": end,
	}).Error)

	rec = login()
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.NotEmpty(t, body["token"])

	// An expired subscription window closes the gate again
	require.NoError(t, database.GetDB().Model(f.supplier).
		Update("subscription_end_date", time.Now().Add(-time.Hour)).Error)
	rec = login()
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	f := setupHandlerTest(t)

	// Fill the cart: 2 jars and 1 box
	c, rec := request(http.MethodPost, "/api/client/cart/add",
		`{"product_id":`+itoa(f.products[0].ID)+`,"quantity":2}`, f.client)
	require.NoError(t, AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = request(http.MethodPost, "/api/client/cart/add",
		`{"product_id":`+itoa(f.products[1].ID)+`,"quantity":1}`, f.client)
	require.NoError(t, AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Checkout
	c, rec = request(http.MethodPost, "/api/client/checkout",
		`{"payment_method":"cash","delivery_address":"12 Lake Road"}`, f.client)
	require.NoError(t, Checkout(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var ord model.Order
	require.NoError(t, database.GetDB().Preload("Items").First(&ord).Error)
	assert.Equal(t, 200.0, ord.Subtotal)
	assert.Equal(t, 236.0, ord.TotalAmount)
	assert.Len(t, ord.Items, 2)

	// Cart is gone; a second checkout conflicts
	c, rec = request(http.MethodPost, "/api/client/checkout",
		`{"payment_method":"cash","delivery_address":"12 Lake Road"}`, f.client)
	require.NoError(t, Checkout(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "your cart is empty", decode(t, rec)["error"])
}

func TestCreateOrderReportsDroppedLines(t *testing.T) {
	f := setupHandlerTest(t)

	c, rec := request(http.MethodPost, "/api/client/orders",
		`{"items":[{"product_id":`+itoa(f.products[0].ID)+`,"quantity":1},{"product_id":9999,"quantity":1}],"payment_method":"cash","delivery_address":"12 Lake Road"}`,
		f.client)
	require.NoError(t, CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	warnings, ok := body["warnings"].([]interface{})
	require.True(t, ok)
	assert.Len(t, warnings, 1)
}

func TestCreateOrderAllLinesInvalid(t *testing.T) {
	f := setupHandlerTest(t)

	c, rec := request(http.MethodPost, "/api/client/orders",
		`{"items":[{"product_id":9999,"quantity":1}],"payment_method":"cash","delivery_address":"12 Lake Road"}`,
		f.client)
	require.NoError(t, CreateOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkDeliveredRequiresAssignment(t *testing.T) {
	f := setupHandlerTest(t)
	ord := createOrderFor(t, f, "cash")

	// Staff is not assigned to the order
	c, rec := request(http.MethodPut, "/api/staff/orders/1/deliver", "", f.staff)
	c.SetParamNames("id")
	c.SetParamValues(itoa(ord.ID))
	require.NoError(t, MarkDelivered(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Assign and retry
	require.NoError(t, database.GetDB().Model(ord).Update("staff_id", f.staff.ID).Error)

	c, rec = request(http.MethodPut, "/api/staff/orders/1/deliver",
		`{"delivery_notes":"left at gate"}`, f.staff)
	c.SetParamNames("id")
	c.SetParamValues(itoa(ord.ID))
	require.NoError(t, MarkDelivered(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated model.Order
	require.NoError(t, database.GetDB().First(&updated, ord.ID).Error)
	assert.Equal(t, model.OrderDelivered, updated.Status)
	assert.NotNil(t, updated.DeliveredAt)
}

func TestRequestPaymentVerification(t *testing.T) {
	f := setupHandlerTest(t)

	// A cash order has nothing due
	cashOrder := createOrderFor(t, f, "cash")
	require.NoError(t, database.GetDB().Model(cashOrder).Update("staff_id", f.staff.ID).Error)

	c, rec := request(http.MethodPost, "/api/staff/orders/1/request-verification", "", f.staff)
	c.SetParamNames("id")
	c.SetParamValues(itoa(cashOrder.ID))
	require.NoError(t, RequestPaymentVerification(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// A due order produces a supplier notification
	dueOrder := createOrderFor(t, f, "due")
	require.NoError(t, database.GetDB().Model(dueOrder).Update("staff_id", f.staff.ID).Error)

	c, rec = request(http.MethodPost, "/api/staff/orders/2/request-verification", "", f.staff)
	c.SetParamNames("id")
	c.SetParamValues(itoa(dueOrder.ID))
	require.NoError(t, RequestPaymentVerification(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var notification model.Notification
	require.NoError(t, database.GetDB().First(&notification).Error)
	assert.Equal(t, model.NotificationDuesRequest, notification.Type)
	require.NotNil(t, notification.SupplierID)
	assert.Equal(t, f.supplier.ID, *notification.SupplierID)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(notification.Data), &payload))
	assert.Equal(t, float64(dueOrder.ID), payload["order_id"])
	assert.Equal(t, 236.0, payload["amount"])
}

func TestMarkPaymentReceivedSettlesDue(t *testing.T) {
	f := setupHandlerTest(t)
	ord := createOrderFor(t, f, "due")

	c, rec := request(http.MethodPost, "/api/admin/orders/1/payment",
		`{"amount":100,"method":"cash"}`, f.admin)
	c.SetParamNames("id")
	c.SetParamValues(itoa(ord.ID))
	require.NoError(t, MarkPaymentReceived(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Order
	require.NoError(t, database.GetDB().First(&updated, ord.ID).Error)
	assert.Equal(t, 100.0, updated.PaidAmount)
	assert.Equal(t, 136.0, updated.DueAmount)
	assert.Equal(t, model.PaymentStatusPaid, updated.PaymentStatus)

	var payment model.Payment
	require.NoError(t, database.GetDB().First(&payment).Error)
	assert.Equal(t, ord.ClientID, payment.UserID)
	assert.Equal(t, model.PaymentCompleted, payment.Status)
}

func TestMarkPaymentReceivedValidation(t *testing.T) {
	f := setupHandlerTest(t)
	ord := createOrderFor(t, f, "due")

	c, rec := request(http.MethodPost, "/api/admin/orders/1/payment",
		`{"amount":-5,"method":"barter"}`, f.admin)
	c.SetParamNames("id")
	c.SetParamValues(itoa(ord.ID))
	require.NoError(t, MarkPaymentReceived(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDailyAccountUpsertOverwrites(t *testing.T) {
	f := setupHandlerTest(t)

	c, rec := request(http.MethodPost, "/api/admin/daily-accounts",
		`{"account_date":"2026-01-15","total_income":5000,"total_expenses":2000}`, f.admin)
	require.NoError(t, UpsertDailyAccount(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Same supplier and date again: the row is overwritten, not duplicated
	c, rec = request(http.MethodPost, "/api/admin/daily-accounts",
		`{"account_date":"2026-01-15","total_income":6000,"total_expenses":2500}`, f.admin)
	require.NoError(t, UpsertDailyAccount(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var accounts []model.DailyAccount
	require.NoError(t, database.GetDB().Find(&accounts).Error)
	require.Len(t, accounts, 1)
	assert.Equal(t, 6000.0, accounts[0].TotalIncome)
	assert.Equal(t, 3500.0, accounts[0].NetProfit)
}

func TestJarRecordUpsertOverwrites(t *testing.T) {
	f := setupHandlerTest(t)

	c, rec := request(http.MethodPost, "/api/admin/jar-records",
		`{"record_date":"2026-01-15","total_refilling":40,"empty_jars":10,"onboard_jars":5}`, f.admin)
	require.NoError(t, UpsertJarRecord(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = request(http.MethodPost, "/api/admin/jar-records",
		`{"record_date":"2026-01-15","total_refilling":45,"empty_jars":8,"onboard_jars":2}`, f.admin)
	require.NoError(t, UpsertJarRecord(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var records []model.JarRecord
	require.NoError(t, database.GetDB().Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, 45, records[0].TotalRefilling)
	assert.Equal(t, 55, records[0].TotalJars())
}

func TestUpdateOrderStatusRejectsInvalidTransition(t *testing.T) {
	f := setupHandlerTest(t)
	ord := createOrderFor(t, f, "cash")

	c, rec := request(http.MethodPut, "/api/admin/orders/1/status",
		`{"status":"delivered"}`, f.admin)
	c.SetParamNames("id")
	c.SetParamValues(itoa(ord.ID))
	require.NoError(t, UpdateOrderStatus(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Confirm with staff assignment
	c, rec = request(http.MethodPut, "/api/admin/orders/1/status",
		`{"status":"confirmed","staff_id":`+itoa(f.staff.ID)+`}`, f.admin)
	c.SetParamNames("id")
	c.SetParamValues(itoa(ord.ID))
	require.NoError(t, UpdateOrderStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated model.Order
	require.NoError(t, database.GetDB().First(&updated, ord.ID).Error)
	assert.Equal(t, model.OrderConfirmed, updated.Status)
	require.NotNil(t, updated.StaffID)
	assert.Equal(t, f.staff.ID, *updated.StaffID)
}

func TestGetOrderEnforcesOwnership(t *testing.T) {
	f := setupHandlerTest(t)
	ord := createOrderFor(t, f, "cash")

	// Another client of the same supplier may not read it
	other := &model.User{
		Name: "Kiran", Email: "kiran@example.com",
		Role: model.RoleClient, SupplierID: &f.supplier.ID, IsActive: true,
	}
	require.NoError(t, database.GetDB().Create(other).Error)

	c, rec := request(http.MethodGet, "/api/orders/1", "", other)
	c.SetParamNames("id")
	c.SetParamValues(itoa(ord.ID))
	require.NoError(t, GetOrder(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The owner can
	c, rec = request(http.MethodGet, "/api/orders/1", "", f.client)
	c.SetParamNames("id")
	c.SetParamValues(itoa(ord.ID))
	require.NoError(t, GetOrder(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNotificationVisibility(t *testing.T) {
	f := setupHandlerTest(t)

	supplierNote := model.Notification{
		SupplierID: &f.supplier.ID,
		Type:       model.NotificationDuesRequest,
		Title:      "Payment Verification Request",
	}
	require.NoError(t, database.GetDB().Create(&supplierNote).Error)

	// The tenant admin sees it
	c, rec := request(http.MethodGet, "/api/notifications", "", f.admin)
	require.NoError(t, ListNotifications(c))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["data"], 1)

	// A client of the tenant does not
	c, rec = request(http.MethodGet, "/api/notifications", "", f.client)
	require.NoError(t, ListNotifications(c))
	body = decode(t, rec)
	assert.Empty(t, body["data"])

	// The staff member cannot mark the supplier notification read
	c, rec = request(http.MethodPut, "/api/notifications/1/read", "", f.staff)
	c.SetParamNames("id")
	c.SetParamValues(itoa(supplierNote.ID))
	require.NoError(t, MarkNotificationRead(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
