package order

import (
	"fmt"
	"testing"
	"time"

	"github.com/samusdtt/Waterflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
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
	))
	return db
}

func seedClient(t *testing.T, db *gorm.DB) (*model.User, []model.Product) {
	t.Helper()

	supplier := model.Supplier{Name: "AquaPure", Email: "aqua@example.com"}
	require.NoError(t, db.Create(&supplier).Error)

	client := model.User{
		Name:       "Ravi",
		Email:      "ravi@example.com",
		Role:       model.RoleClient,
		SupplierID: &supplier.ID,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&client).Error)

	products := []model.Product{
		{SupplierID: supplier.ID, Name: "20L Jar", Type: model.ProductTypeJar, Price: 50, IsActive: true},
		{SupplierID: supplier.ID, Name: "1L Box Pack", Type: model.ProductTypeBox, Price: 100, IsActive: true},
	}
	require.NoError(t, db.Create(&products).Error)

	return &client, products
}

func TestCreateComputesTotals(t *testing.T) {
	db := setupTestDB(t)
	client, products := seedClient(t, db)

	ord, warnings, err := Create(db, client, CreateInput{
		Items: []ItemInput{
			{ProductID: products[0].ID, Quantity: 2},
			{ProductID: products[1].ID, Quantity: 1},
		},
		PaymentMethod:   model.PaymentMethodCash,
		DeliveryAddress: "12 Lake Road",
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, 200.0, ord.Subtotal)
	assert.Equal(t, 36.0, ord.TaxAmount)
	assert.Equal(t, 236.0, ord.TotalAmount)
	assert.Equal(t, model.OrderPending, ord.Status)
	assert.Equal(t, model.PaymentStatusPending, ord.PaymentStatus)
	assert.Equal(t, 0.0, ord.DueAmount)
	assert.Len(t, ord.Items, 2)

	// Unit prices are frozen into the items
	assert.Equal(t, 50.0, ord.Items[0].UnitPrice)
	assert.Equal(t, 100.0, ord.Items[0].TotalPrice)
}

func TestCreateDueMethodOpensDueBalance(t *testing.T) {
	db := setupTestDB(t)
	client, products := seedClient(t, db)

	ord, _, err := Create(db, client, CreateInput{
		Items:           []ItemInput{{ProductID: products[0].ID, Quantity: 2}, {ProductID: products[1].ID, Quantity: 1}},
		PaymentMethod:   model.PaymentMethodDue,
		DeliveryAddress: "12 Lake Road",
	})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentStatusDue, ord.PaymentStatus)
	assert.Equal(t, 236.0, ord.DueAmount)
	assert.Equal(t, 0.0, ord.PaidAmount)
}

func TestCreateDropsForeignAndUnknownLines(t *testing.T) {
	db := setupTestDB(t)
	client, products := seedClient(t, db)

	// Product belonging to another supplier
	other := model.Supplier{Name: "RivalWater", Email: "rival@example.com"}
	require.NoError(t, db.Create(&other).Error)
	foreign := model.Product{SupplierID: other.ID, Name: "Rival Jar", Type: model.ProductTypeJar, Price: 40, IsActive: true}
	require.NoError(t, db.Create(&foreign).Error)

	ord, warnings, err := Create(db, client, CreateInput{
		Items: []ItemInput{
			{ProductID: products[0].ID, Quantity: 1},
			{ProductID: foreign.ID, Quantity: 1},
			{ProductID: 9999, Quantity: 1},
		},
		PaymentMethod:   model.PaymentMethodCash,
		DeliveryAddress: "12 Lake Road",
	})
	require.NoError(t, err)

	assert.Len(t, warnings, 2)
	assert.Len(t, ord.Items, 1)
	assert.Equal(t, 50.0, ord.Subtotal)
}

func TestCreateFailsWhenEveryLineDrops(t *testing.T) {
	db := setupTestDB(t)
	client, _ := seedClient(t, db)

	_, warnings, err := Create(db, client, CreateInput{
		Items:           []ItemInput{{ProductID: 777, Quantity: 1}, {ProductID: 888, Quantity: 2}},
		PaymentMethod:   model.PaymentMethodCash,
		DeliveryAddress: "12 Lake Road",
	})
	assert.ErrorIs(t, err, ErrNoValidItems)
	assert.Len(t, warnings, 2)

	// Nothing was persisted
	var count int64
	db.Model(&model.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestOrderNumberSequence(t *testing.T) {
	db := setupTestDB(t)
	client, products := seedClient(t, db)

	day := time.Now().Format("20060102")
	for i := 1; i <= 3; i++ {
		ord, _, err := Create(db, client, CreateInput{
			Items:           []ItemInput{{ProductID: products[0].ID, Quantity: 1}},
			PaymentMethod:   model.PaymentMethodCash,
			DeliveryAddress: "12 Lake Road",
		})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("WM%s%04d", day, i), ord.OrderNumber)
	}
}

func seedNumberedOrder(t *testing.T, db *gorm.DB, number string, createdAt time.Time) *model.Order {
	t.Helper()
	ord := model.Order{
		OrderNumber:     number,
		SupplierID:      1,
		ClientID:        1,
		Status:          model.OrderPending,
		PaymentStatus:   model.PaymentStatusPending,
		PaymentMethod:   model.PaymentMethodCash,
		Subtotal:        50,
		TotalAmount:     59,
		DeliveryAddress: "12 Lake Road",
		CreatedAt:       createdAt,
	}
	require.NoError(t, db.Create(&ord).Error)
	return &ord
}

func TestOrderNumberResetsAcrossDays(t *testing.T) {
	db := setupTestDB(t)
	day1 := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	seedNumberedOrder(t, db, "WM202601150003", day1)

	// Same day continues the sequence
	next, err := GenerateNumber(db, day1)
	require.NoError(t, err)
	assert.Equal(t, "WM202601150004", next)

	// First order of the next date starts over at 1
	next, err = GenerateNumber(db, day2)
	require.NoError(t, err)
	assert.Equal(t, "WM202601160001", next)
}

func TestOrderNumberNotReissuedAfterSoftDelete(t *testing.T) {
	db := setupTestDB(t)
	day := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	ord := seedNumberedOrder(t, db, "WM202601150001", day)
	require.NoError(t, db.Delete(ord).Error)

	// The deleted order still reserves its number
	next, err := GenerateNumber(db, day)
	require.NoError(t, err)
	assert.Equal(t, "WM202601150002", next)
}

func TestMarkDelivered(t *testing.T) {
	db := setupTestDB(t)
	client, products := seedClient(t, db)

	ord, _, err := Create(db, client, CreateInput{
		Items:           []ItemInput{{ProductID: products[0].ID, Quantity: 1}},
		PaymentMethod:   model.PaymentMethodCash,
		DeliveryAddress: "12 Lake Road",
	})
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, MarkDelivered(db, ord, "left at gate", now))
	assert.Equal(t, model.OrderDelivered, ord.Status)
	require.NotNil(t, ord.DeliveredAt)
	assert.Equal(t, "left at gate", ord.Notes)

	// Delivering again is a conflict
	assert.ErrorIs(t, MarkDelivered(db, ord, "", now), ErrAlreadyDelivered)
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	db := setupTestDB(t)
	client, products := seedClient(t, db)

	ord, _, err := Create(db, client, CreateInput{
		Items:           []ItemInput{{ProductID: products[0].ID, Quantity: 1}},
		PaymentMethod:   model.PaymentMethodCash,
		DeliveryAddress: "12 Lake Road",
	})
	require.NoError(t, err)

	now := time.Now()

	// Skipping straight to delivered is not allowed
	assert.ErrorIs(t, UpdateStatus(db, ord, model.OrderDelivered, nil, now), ErrInvalidTransition)
	assert.ErrorIs(t, UpdateStatus(db, ord, "shipped", nil, now), ErrInvalidTransition)

	staffID := uint(42)
	require.NoError(t, UpdateStatus(db, ord, model.OrderConfirmed, &staffID, now))
	assert.Equal(t, model.OrderConfirmed, ord.Status)
	require.NotNil(t, ord.StaffID)
	assert.Equal(t, staffID, *ord.StaffID)

	require.NoError(t, UpdateStatus(db, ord, model.OrderInProgress, nil, now))
	require.NoError(t, UpdateStatus(db, ord, model.OrderDelivered, nil, now))
	assert.NotNil(t, ord.DeliveredAt)

	// Terminal state admits nothing further
	assert.ErrorIs(t, UpdateStatus(db, ord, model.OrderCancelled, nil, now), ErrInvalidTransition)
}

func TestApplyPaymentPartial(t *testing.T) {
	db := setupTestDB(t)
	client, products := seedClient(t, db)

	ord, _, err := Create(db, client, CreateInput{
		Items:           []ItemInput{{ProductID: products[0].ID, Quantity: 2}, {ProductID: products[1].ID, Quantity: 1}},
		PaymentMethod:   model.PaymentMethodDue,
		DeliveryAddress: "12 Lake Road",
	})
	require.NoError(t, err)
	require.Equal(t, 236.0, ord.DueAmount)

	payment, err := ApplyPayment(db, ord, 100, model.PaymentMethodCash, "")
	require.NoError(t, err)

	assert.Equal(t, 100.0, ord.PaidAmount)
	assert.Equal(t, 136.0, ord.DueAmount)
	// Marked paid even on partial payment; kept for compatibility
	assert.Equal(t, model.PaymentStatusPaid, ord.PaymentStatus)

	assert.Equal(t, model.PaymentCompleted, payment.Status)
	assert.Equal(t, ord.ClientID, payment.UserID)
	assert.Equal(t, 100.0, payment.Amount)
	assert.Contains(t, payment.PaymentID, "PAY_")
}

func TestApplyPaymentOverpaymentFloorsDueAtZero(t *testing.T) {
	db := setupTestDB(t)
	client, products := seedClient(t, db)

	ord, _, err := Create(db, client, CreateInput{
		Items:           []ItemInput{{ProductID: products[0].ID, Quantity: 1}},
		PaymentMethod:   model.PaymentMethodDue,
		DeliveryAddress: "12 Lake Road",
	})
	require.NoError(t, err)
	require.Equal(t, 59.0, ord.DueAmount)

	_, err = ApplyPayment(db, ord, 100, model.PaymentMethodOnline, "")
	require.NoError(t, err)

	assert.Equal(t, 0.0, ord.DueAmount)
	// paid_amount tracks what was actually received, uncapped
	assert.Equal(t, 100.0, ord.PaidAmount)
}
