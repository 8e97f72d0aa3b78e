package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/samusdtt/Waterflow/internal/cart"
	"github.com/samusdtt/Waterflow/internal/handler"
	"github.com/samusdtt/Waterflow/internal/middleware"
	"github.com/samusdtt/Waterflow/internal/model"
	"github.com/samusdtt/Waterflow/pkg/config"
	"github.com/samusdtt/Waterflow/pkg/database"
	"github.com/samusdtt/Waterflow/pkg/jwtutil"
	"github.com/samusdtt/Waterflow/pkg/logger"
	"github.com/samusdtt/Waterflow/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("waterflow")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting waterflow service...", zap.String("environment", cfg.Server.Env))

	// Initialize JWT utilities
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utilities initialized")

	// Initialize database and run migrations
	if _, err := database.InitDB(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(
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
	); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed",
		zap.String("db_host", cfg.DB.Host),
		zap.String("db_name", cfg.DB.DBName))

	// Cart store: Redis when configured, in-memory otherwise
	if cfg.Redis.Addr != "" {
		store := cart.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CartTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := store.Ping(ctx); err != nil {
			cancel()
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cancel()
		handler.SetCartStore(store)
		log.Info("Redis cart store initialized", zap.String("addr", cfg.Redis.Addr))
	} else {
		handler.SetCartStore(cart.NewMemoryStore())
		log.Info("In-memory cart store initialized")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)
	e.POST("/auth/register", handler.Register)
	e.POST("/auth/login", handler.Login)

	// API routes that require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	api.GET("/profile", handler.GetProfile)
	api.PUT("/profile", handler.UpdateProfile)

	// Orders visible to any role the policy allows
	api.GET("/orders/:id", handler.GetOrder)

	// Notifications
	api.GET("/notifications", handler.ListNotifications)
	api.PUT("/notifications/:id/read", handler.MarkNotificationRead)

	// Client routes
	client := api.Group("/client", middleware.RequireRole(model.RoleClient))
	client.GET("/products", handler.ListProducts)
	client.GET("/cart", handler.GetCart)
	client.POST("/cart/add", handler.AddToCart)
	client.PUT("/cart/update", handler.UpdateCart)
	client.POST("/cart/remove", handler.RemoveFromCart)
	client.POST("/checkout", handler.Checkout)
	client.POST("/orders", handler.CreateOrder)
	client.GET("/orders", handler.ListClientOrders)

	// Staff routes
	staff := api.Group("/staff", middleware.RequireRole(model.RoleStaff))
	staff.GET("/dashboard", handler.StaffDashboard)
	staff.GET("/orders", handler.StaffOrders)
	staff.PUT("/orders/:id/deliver", handler.MarkDelivered)
	staff.POST("/orders/:id/request-verification", handler.RequestPaymentVerification)
	staff.POST("/attendance/clock-in", handler.ClockIn)
	staff.POST("/attendance/clock-out", handler.ClockOut)
	staff.GET("/attendance", handler.ListAttendance)

	// Admin routes: supplier admins scoped to their tenant, super admins global
	admin := api.Group("/admin", middleware.RequireRole(model.RoleSupplierAdmin, model.RoleSuperAdmin))
	admin.GET("/dashboard", handler.Dashboard)
	admin.GET("/orders/daily", handler.DailyOrders)
	admin.PUT("/orders/:id/status", handler.UpdateOrderStatus)
	admin.POST("/orders/:id/payment", handler.MarkPaymentReceived)
	admin.GET("/products", handler.AdminListProducts)
	admin.POST("/products", handler.CreateProduct)
	admin.PUT("/products/:id", handler.UpdateProduct)
	admin.DELETE("/products/:id", handler.DeleteProduct)
	admin.GET("/staff", handler.ListStaff)
	admin.POST("/staff", handler.CreateStaff)
	admin.GET("/clients", handler.ListClients)
	admin.GET("/daily-accounts", handler.ListDailyAccounts)
	admin.POST("/daily-accounts", handler.UpsertDailyAccount)
	admin.GET("/jar-records", handler.ListJarRecords)
	admin.POST("/jar-records", handler.UpsertJarRecord)

	// Tenant management, super admin only
	suppliers := api.Group("/suppliers", middleware.RequireRole(model.RoleSuperAdmin))
	suppliers.GET("", handler.ListSuppliers)
	suppliers.PUT("/:id/subscription", handler.UpdateSupplierSubscription)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
