package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "waterflow_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "waterflow_register_total",
			Help: "Total number of user registrations",
		},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waterflow_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "invalid_password", "inactive_supplier", "db_error" etc.
	)

	// Orders created, labelled by payment method
	OrderCreatedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waterflow_orders_created_total",
			Help: "Total number of orders created",
		},
		[]string{"payment_method"},
	)

	// Deliveries completed by staff
	OrderDeliveredCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "waterflow_orders_delivered_total",
			Help: "Total number of orders marked delivered",
		},
	)

	// Payments recorded against orders
	PaymentRecordedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waterflow_payments_recorded_total",
			Help: "Total number of payments recorded",
		},
		[]string{"method"},
	)

	// Attendance events
	AttendanceCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waterflow_attendance_events_total",
			Help: "Total number of staff clock-in/clock-out events",
		},
		[]string{"event"}, // "clock_in" or "clock_out"
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waterflow_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waterflow_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waterflow_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	ActiveSuppliersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "waterflow_active_suppliers",
			Help: "Number of currently active suppliers",
		},
	)

	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "waterflow_info",
			Help: "Information about the service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(OrderCreatedCounter)
	prometheus.MustRegister(OrderDeliveredCounter)
	prometheus.MustRegister(PaymentRecordedCounter)
	prometheus.MustRegister(AttendanceCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(ActiveSuppliersGauge)
	prometheus.MustRegister(InfoGauge)

	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// RecordAuthError increments the auth error counter for the given type
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware returns an Echo middleware that records HTTP request metrics
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			HTTPRequestCounter.WithLabelValues(path, method, statusStr).Inc()
			RequestDuration.WithLabelValues(path, method, statusStr).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
