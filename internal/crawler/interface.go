package crawler

import (
	"context"

	"jobreach-utils/pkg/models"
)

// Engine defines the interface for all crawl engines
type Engine interface {
	// Crawl walks the given domain and returns scored email candidates plus
	// the per-page audit trail
	Crawl(ctx context.Context, domain string, options *models.CrawlOptions) (*models.CrawlResult, error)

	// Cleanup releases any resources used by the engine
	Cleanup()

	// IsHealthy returns true if the engine is ready to process crawls
	IsHealthy() bool
}

// EngineFactory creates crawl engines based on engine type
type EngineFactory interface {
	// CreateEngine creates a new engine instance for the given engine type
	CreateEngine(engine string) (Engine, error)

	// GetSupportedEngines returns a list of supported engine types
	GetSupportedEngines() []string
}
