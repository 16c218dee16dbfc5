package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobreach-utils/internal/llm"
	"jobreach-utils/pkg/models"
	"jobreach-utils/pkg/utils"
)

var startTime = time.Now()

const serviceVersion = "1.0.0"

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler handles readiness probe requests, checking the
// collaborators the pipeline depends on
func ReadinessHandler(llmManager *llm.Manager, store *utils.DispositionStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{"api": "ok"}
		status := "ready"
		httpStatus := http.StatusOK

		if store != nil {
			if err := store.IsHealthy(c.Request().Context()); err != nil {
				checks["redis"] = "unavailable"
				status = "degraded"
			} else {
				checks["redis"] = "ok"
			}
		}

		if llmManager != nil {
			if llmManager.IsHealthy() {
				checks["llm"] = "ok"
			} else {
				// LLM is an optional strategy; the service still serves
				checks["llm"] = "unavailable"
			}
		}

		response := models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   serviceVersion,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		}

		return c.JSON(httpStatus, response)
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Uptime:    time.Since(startTime),
	}

	return c.JSON(http.StatusOK, response)
}

// StatusHandler provides detailed service status
func StatusHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "operational",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "operational",
		},
	}

	return c.JSON(http.StatusOK, response)
}
