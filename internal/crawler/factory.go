package crawler

import (
	"fmt"

	"jobreach-utils/internal/config"
	"jobreach-utils/internal/crawler/engines/firecrawl"
	"jobreach-utils/internal/crawler/engines/native"
)

// DefaultEngineFactory implements EngineFactory
type DefaultEngineFactory struct {
	config *config.Config
}

// NewEngineFactory creates a new crawl engine factory
func NewEngineFactory(cfg *config.Config) EngineFactory {
	return &DefaultEngineFactory{config: cfg}
}

// CreateEngine creates a new engine instance for the given engine type
func (f *DefaultEngineFactory) CreateEngine(engine string) (Engine, error) {
	switch engine {
	case "native", "auto", "":
		return native.NewCrawler(f.config), nil
	case "firecrawl":
		fc := firecrawl.NewFirecrawlCrawler(f.config)
		if fc == nil {
			return nil, fmt.Errorf("firecrawl engine failed to initialize")
		}
		return fc, nil
	default:
		return nil, fmt.Errorf("unsupported crawl engine: %s", engine)
	}
}

// GetSupportedEngines returns a list of supported engine types
func (f *DefaultEngineFactory) GetSupportedEngines() []string {
	return []string{"native", "firecrawl", "auto"}
}
