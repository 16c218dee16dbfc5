// Package firecrawl implements a crawl engine backed by the Firecrawl API.
// Firecrawl renders JavaScript server-side, so this engine reaches contact
// details that the native engine cannot see on script-heavy sites. It trades
// link discovery for a fixed set of high-value paths per domain.
package firecrawl

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	fc "github.com/mendableai/firecrawl-go"

	"jobreach-utils/internal/config"
	"jobreach-utils/internal/crawler/extract"
	"jobreach-utils/internal/crawler/score"
	"jobreach-utils/internal/logging"
	"jobreach-utils/internal/logging/types"
	"jobreach-utils/pkg/models"
	"jobreach-utils/pkg/retry"
	"jobreach-utils/pkg/utils"
)

// probePaths are scraped in order until the page budget runs out. The
// homepage comes first; the rest are where contact emails usually live.
var probePaths = []string{"", "/contact", "/about", "/careers", "/jobs", "/team"}

// FirecrawlCrawler implements the crawl Engine interface using the Firecrawl API
type FirecrawlCrawler struct {
	config *config.Config
	app    *fc.FirecrawlApp
	logger types.Logger
}

// NewFirecrawlCrawler creates a new Firecrawl crawl engine instance
func NewFirecrawlCrawler(cfg *config.Config) *FirecrawlCrawler {
	logger := logging.GetGlobalLogger()

	app, err := fc.NewFirecrawlApp(cfg.Firecrawl.APIKey, cfg.Firecrawl.APIURL)
	if err != nil {
		logger.Error("Failed to initialize Firecrawl", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	logger.Info("Firecrawl crawl engine initialized", map[string]interface{}{
		"api_url": cfg.Firecrawl.APIURL,
	})

	return &FirecrawlCrawler{
		config: cfg,
		app:    app,
		logger: logger,
	}
}

// Crawl scrapes a fixed set of high-value paths on the domain through
// Firecrawl and scores every email found in the rendered content. Per-page
// failures land in the audit trail like the native engine's.
func (f *FirecrawlCrawler) Crawl(ctx context.Context, domain string, options *models.CrawlOptions) (*models.CrawlResult, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, utils.NewCrawlError("empty crawl domain")
	}
	targetHost := utils.StripWWW(utils.HostnameFromURL(domain))
	if targetHost == "" {
		targetHost = utils.StripWWW(domain)
	}

	maxPages := f.config.Crawler.MaxPages
	budget := f.config.Crawler.TimeBudget
	if options != nil {
		if options.MaxPages > 0 {
			maxPages = options.MaxPages
		}
		if options.TimeBudget > 0 {
			budget = options.TimeBudget
		}
	}

	start := time.Now()
	deadline := start.Add(budget)

	f.logger.Info("Starting Firecrawl crawl", map[string]interface{}{
		"domain":    targetHost,
		"max_pages": maxPages,
	})

	result := &models.CrawlResult{}
	candidates := make(map[string]*models.CandidateEmail)

	for _, path := range probePaths {
		if ctx.Err() != nil || result.PagesFetched >= maxPages || !time.Now().Before(deadline) {
			break
		}

		pageURL := "https://" + targetHost + path
		visit := models.PageVisit{URL: pageURL, Depth: pathDepth(path)}

		content, err := f.scrapeContent(ctx, pageURL)
		if err != nil {
			visit.Outcome = models.PageFailed
			visit.Reason = "fetch_error"
			result.Pages = append(result.Pages, visit)
			f.logger.Debug("Firecrawl page failed", map[string]interface{}{
				"url":   pageURL,
				"error": err.Error(),
			})
			continue
		}

		visit.Outcome = models.PageFetched
		result.Pages = append(result.Pages, visit)
		result.PagesFetched++

		for _, email := range extract.Emails(content) {
			points := score.Relevance(email, targetHost, pageURL, content)
			entry, ok := candidates[email]
			if !ok {
				entry = &models.CandidateEmail{Email: email}
				candidates[email] = entry
			}
			entry.Score += points
			entry.Pages = append(entry.Pages, pageURL)
		}
	}

	for _, entry := range candidates {
		result.Candidates = append(result.Candidates, *entry)
	}
	sort.SliceStable(result.Candidates, func(i, j int) bool {
		if result.Candidates[i].Score != result.Candidates[j].Score {
			return result.Candidates[i].Score > result.Candidates[j].Score
		}
		return result.Candidates[i].Email < result.Candidates[j].Email
	})

	result.Elapsed = time.Since(start)
	f.logger.Info("Firecrawl crawl finished", map[string]interface{}{
		"domain":        targetHost,
		"pages_fetched": result.PagesFetched,
		"candidates":    len(result.Candidates),
	})
	return result, nil
}

// scrapeContent performs one Firecrawl scrape with retries.
func (f *FirecrawlCrawler) scrapeContent(ctx context.Context, pageURL string) (string, error) {
	params := &fc.ScrapeParams{
		Formats: []string{"markdown"},
	}

	var content string
	policy := retry.DefaultPolicy()
	err := policy.Do(ctx, func(ctx context.Context) error {
		doc, err := f.app.ScrapeURL(pageURL, params)
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("no result returned from Firecrawl")
		}
		switch {
		case doc.Markdown != "":
			content = doc.Markdown
		case doc.HTML != "":
			content = doc.HTML
		default:
			return fmt.Errorf("no content in Firecrawl response")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

// Cleanup releases any resources used by the engine
func (f *FirecrawlCrawler) Cleanup() {
	// Firecrawl SDK holds no persistent resources
}

// IsHealthy returns true if the engine is ready to process crawls
func (f *FirecrawlCrawler) IsHealthy() bool {
	return f.app != nil && f.config.Firecrawl.APIKey != ""
}

func pathDepth(path string) int {
	if path == "" {
		return 0
	}
	return 1
}
