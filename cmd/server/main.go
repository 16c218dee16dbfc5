package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"jobreach-utils/internal/api/routes"
	"jobreach-utils/internal/background"
	"jobreach-utils/internal/callback"
	"jobreach-utils/internal/config"
	"jobreach-utils/internal/crawler"
	"jobreach-utils/internal/finder"
	"jobreach-utils/internal/finder/workers"
	"jobreach-utils/internal/llm"
	"jobreach-utils/internal/logging"
	"jobreach-utils/internal/resolver"
	"jobreach-utils/internal/search"
	"jobreach-utils/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting JobReach Email Finder", nil)

	// Initialize LLM manager
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.Error("Failed to start LLM manager", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize disposition store
	store := utils.NewDispositionStore(cfg)
	defer store.Close()

	// Wire the discovery pipeline
	searchClient := search.NewClient(cfg)
	domainResolver := resolver.New(cfg, resolver.WithSearcher(searchClient))
	engineFactory := crawler.NewEngineFactory(cfg)
	emailFinder := finder.New(cfg, domainResolver, engineFactory,
		finder.WithSuggester(llmManager),
		finder.WithDispositionRecorder(store),
	)

	// Initialize worker pool
	poolManager := workers.NewPoolManager(cfg, emailFinder)
	if err := poolManager.Initialize(); err != nil {
		logger.Error("Failed to start worker pool", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer poolManager.Shutdown()

	// Initialize background task manager (nil callback client disables webhooks)
	callbackClient := callback.NewClient(cfg)
	taskManager := background.NewTaskManager(cfg, callbackClient)
	if err := taskManager.Start(context.Background()); err != nil {
		logger.Error("Failed to start task manager", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize Echo
	e := echo.New()

	// Setup routes
	routes.SetupRoutes(e, cfg, poolManager, llmManager, taskManager, store)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Stopping task manager...", nil)
		if err := taskManager.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping task manager", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Stopping worker pool...", nil)
		if err := poolManager.Shutdown(); err != nil {
			logger.Error("Error stopping worker pool", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Stopping LLM manager...", nil)
		if err := llmManager.Stop(); err != nil {
			logger.Error("Error stopping LLM manager", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Stopping HTTP server...", nil)
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Server shutdown complete", nil)
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{
		"address": address,
	})

	if err := e.Start(address); err != nil {
		logger.Error("Server failed to start", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}
