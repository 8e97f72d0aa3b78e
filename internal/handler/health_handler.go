package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samusdtt/Waterflow/prometheus"
)

// HealthCheck reports service liveness
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}

// MetricsHandler exposes Prometheus metrics
func MetricsHandler(c echo.Context) error {
	handler := prometheus.GetPrometheusHandler()
	handler.ServeHTTP(c.Response(), c.Request())
	return nil
}
