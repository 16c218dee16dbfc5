package routes

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"jobreach-utils/internal/api/handlers"
	"jobreach-utils/internal/api/middleware"
	"jobreach-utils/internal/background"
	"jobreach-utils/internal/config"
	"jobreach-utils/internal/finder/workers"
	"jobreach-utils/internal/llm"
	"jobreach-utils/pkg/utils"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, poolManager *workers.PoolManager, llmManager *llm.Manager, taskManager background.TaskManager, store *utils.DispositionStore) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	e.Use(middleware.TimeoutConfig(cfg.Server.ReadTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(llmManager, store))
		health.GET("/live", handlers.LivenessHandler)
		health.GET("/workers", handlers.WorkerHealthHandler(poolManager))
	}

	// Status route
	e.GET("/status", handlers.StatusHandler)

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		v1.POST("/find-email", handlers.FindEmailHandler(cfg, poolManager))
		v1.POST("/find-email/async", handlers.AsyncFindEmailHandler(taskManager, poolManager))
		v1.GET("/tasks/:processId", handlers.TaskStatusHandler(taskManager))
		v1.GET("/dispositions", handlers.DispositionHandler(store))

		// Worker monitoring routes
		workerRoutes := v1.Group("/workers")
		{
			workerRoutes.GET("/stats", handlers.WorkerStatsHandler(poolManager))
			workerRoutes.GET("/status", handlers.DetailedWorkerStatusHandler(poolManager))
		}

		// Domain-specific routes
		domains := v1.Group("/domains")
		{
			domains.GET("/:domain/stats", handlers.DomainStatsHandler(poolManager))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"service": "JobReach Email Finder",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
