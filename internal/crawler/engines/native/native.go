// Package native implements the default crawl engine: a bounded breadth-first
// walk over a company site using plain HTTP and goquery. It never renders
// JavaScript; sites that need a headless browser should use the firecrawl
// engine instead.
package native

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobreach-utils/internal/config"
	"jobreach-utils/internal/crawler/extract"
	"jobreach-utils/internal/crawler/score"
	"jobreach-utils/internal/logging"
	"jobreach-utils/internal/logging/types"
	"jobreach-utils/pkg/models"
	"jobreach-utils/pkg/utils"
)

// maxBodyBytes caps how much of a page is read. Pages larger than this are
// truncated, not failed.
const maxBodyBytes = 2 << 20

// priorityPathKeywords mark links worth visiting before the rest of the
// frontier at the same depth.
var priorityPathKeywords = []string{"contact", "career", "job", "about", "team", "support"}

var skippedExtensions = []string{
	".pdf", ".zip", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp",
	".css", ".js", ".ico", ".woff", ".woff2", ".mp4", ".webm", ".xml",
}

// Crawler is the native BFS crawl engine
type Crawler struct {
	config *config.Config
	client *http.Client
	logger types.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithHTTPClient replaces the HTTP client used for page fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Crawler) {
		c.client = client
	}
}

// NewCrawler creates a new native crawl engine
func NewCrawler(cfg *config.Config, opts ...Option) *Crawler {
	c := &Crawler{
		config: cfg,
		client: &http.Client{},
		logger: logging.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type frontierItem struct {
	url   string
	depth int
}

type candidate struct {
	score int
	pages []string
	seen  map[string]bool
}

// Crawl walks the domain breadth-first within the depth, page, and wall-clock
// budgets. Per-page failures are recorded in the audit trail and never abort
// the run; the only hard errors are an unusable domain or a context already
// done before the first fetch.
func (c *Crawler) Crawl(ctx context.Context, domain string, options *models.CrawlOptions) (*models.CrawlResult, error) {
	opts := c.resolveOptions(options)

	startURL, targetHost, err := normalizeStart(domain)
	if err != nil {
		return nil, utils.NewCrawlError(fmt.Sprintf("invalid crawl domain %q: %v", domain, err))
	}

	start := time.Now()
	deadline := start.Add(opts.TimeBudget)

	c.logger.Info("Starting crawl", map[string]interface{}{
		"domain":    targetHost,
		"max_depth": opts.MaxDepth,
		"max_pages": opts.MaxPages,
		"budget":    opts.TimeBudget.String(),
	})

	result := &models.CrawlResult{}
	candidates := make(map[string]*candidate)
	queued := map[string]bool{startURL: true}
	frontier := []frontierItem{{url: startURL, depth: 0}}

	for len(frontier) > 0 {
		if ctx.Err() != nil {
			break
		}
		if result.PagesFetched >= opts.MaxPages {
			break
		}
		if !time.Now().Before(deadline) {
			break
		}

		item := frontier[0]
		frontier = frontier[1:]

		page, visit := c.fetchPage(ctx, item, opts.PageTimeout)
		result.Pages = append(result.Pages, visit)
		if visit.Outcome != models.PageFetched {
			continue
		}
		result.PagesFetched++

		for _, email := range page.emails {
			points := score.Relevance(email, targetHost, page.finalURL, page.text)
			entry, ok := candidates[email]
			if !ok {
				entry = &candidate{seen: make(map[string]bool)}
				candidates[email] = entry
			}
			entry.score += points
			if !entry.seen[page.finalURL] {
				entry.seen[page.finalURL] = true
				entry.pages = append(entry.pages, page.finalURL)
			}
		}

		if item.depth >= opts.MaxDepth {
			continue
		}

		priority, rest := partitionLinks(page.links, targetHost, queued)
		for _, link := range priority {
			frontier = append(frontier, frontierItem{url: link, depth: item.depth + 1})
		}
		for _, link := range rest {
			frontier = append(frontier, frontierItem{url: link, depth: item.depth + 1})
		}
	}

	result.Candidates = rankCandidates(candidates)
	result.Elapsed = time.Since(start)

	c.logger.Info("Crawl finished", map[string]interface{}{
		"domain":        targetHost,
		"pages_fetched": result.PagesFetched,
		"candidates":    len(result.Candidates),
		"elapsed":       result.Elapsed.String(),
	})
	return result, nil
}

type fetchedPage struct {
	finalURL string
	text     string
	emails   []string
	links    []string
}

// fetchPage retrieves one frontier URL. Every failure mode maps to a
// PageVisit so the caller gets a complete audit trail.
func (c *Crawler) fetchPage(ctx context.Context, item frontierItem, timeout time.Duration) (*fetchedPage, models.PageVisit) {
	visit := models.PageVisit{URL: item.url, Depth: item.depth}

	pageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(pageCtx, http.MethodGet, item.url, nil)
	if err != nil {
		visit.Outcome = models.PageFailed
		visit.Reason = "bad_url"
		return nil, visit
	}
	req.Header.Set("User-Agent", c.config.Crawler.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.client.Do(req)
	if err != nil {
		visit.Outcome = models.PageFailed
		visit.Reason = "fetch_error"
		c.logger.Debug("Page fetch failed", map[string]interface{}{
			"url":   item.url,
			"error": err.Error(),
		})
		return nil, visit
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		visit.Outcome = models.PageFailed
		visit.Reason = fmt.Sprintf("status_%d", resp.StatusCode)
		return nil, visit
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") {
		visit.Outcome = models.PageSkipped
		visit.Reason = "non_html"
		return nil, visit
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		visit.Outcome = models.PageFailed
		visit.Reason = "parse_error"
		return nil, visit
	}

	finalURL := item.url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	page := &fetchedPage{
		finalURL: finalURL,
		text:     doc.Text(),
	}
	page.emails = collectEmails(doc, page.text)
	page.links = collectLinks(doc, finalURL)

	visit.Outcome = models.PageFetched
	return page, visit
}

func (c *Crawler) resolveOptions(options *models.CrawlOptions) models.CrawlOptions {
	opts := models.CrawlOptions{
		MaxDepth:    c.config.Crawler.MaxDepth,
		MaxPages:    c.config.Crawler.MaxPages,
		PageTimeout: c.config.Crawler.PageTimeout,
		TimeBudget:  c.config.Crawler.TimeBudget,
	}
	if options != nil {
		if options.MaxDepth > 0 {
			opts.MaxDepth = options.MaxDepth
		}
		if options.MaxPages > 0 {
			opts.MaxPages = options.MaxPages
		}
		if options.PageTimeout > 0 {
			opts.PageTimeout = options.PageTimeout
		}
		if options.TimeBudget > 0 {
			opts.TimeBudget = options.TimeBudget
		}
	}
	return opts
}

// Cleanup releases any resources used by the engine
func (c *Crawler) Cleanup() {
	c.client.CloseIdleConnections()
}

// IsHealthy returns true if the engine is ready to process crawls
func (c *Crawler) IsHealthy() bool {
	return c.client != nil
}

// normalizeStart turns a bare domain or URL into the crawl's start URL and
// canonical target host.
func normalizeStart(domain string) (string, string, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return "", "", fmt.Errorf("empty domain")
	}
	raw := domain
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if parsed.Hostname() == "" {
		return "", "", fmt.Errorf("no hostname")
	}
	return parsed.String(), utils.StripWWW(parsed.Hostname()), nil
}

// collectEmails merges addresses found in the visible text with mailto link
// targets, which often carry addresses obfuscated out of the body.
func collectEmails(doc *goquery.Document, text string) []string {
	var mailto strings.Builder
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if strings.HasPrefix(strings.ToLower(href), "mailto:") {
			addr := strings.TrimPrefix(href[len("mailto:"):], "//")
			if idx := strings.IndexAny(addr, "?&"); idx >= 0 {
				addr = addr[:idx]
			}
			mailto.WriteString(" ")
			mailto.WriteString(addr)
		}
	})
	return extract.Emails(text + mailto.String())
}

func collectLinks(doc *goquery.Document, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		lower := strings.ToLower(href)
		if href == "" || strings.HasPrefix(lower, "mailto:") ||
			strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "tel:") ||
			strings.HasPrefix(href, "#") {
			return
		}

		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		resolved.Fragment = ""
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		for _, ext := range skippedExtensions {
			if strings.HasSuffix(strings.ToLower(resolved.Path), ext) {
				return
			}
		}

		link := resolved.String()
		if !seen[link] {
			seen[link] = true
			links = append(links, link)
		}
	})
	return links
}

// partitionLinks keeps same-domain links that are not yet queued, splitting
// off the ones whose path suggests contact or hiring content so they are
// visited first.
func partitionLinks(links []string, targetHost string, queued map[string]bool) (priority, rest []string) {
	for _, link := range links {
		parsed, err := url.Parse(link)
		if err != nil {
			continue
		}
		if utils.StripWWW(parsed.Hostname()) != targetHost {
			continue
		}
		if queued[link] {
			continue
		}
		queued[link] = true

		if hasPriorityKeyword(strings.ToLower(parsed.Path)) {
			priority = append(priority, link)
		} else {
			rest = append(rest, link)
		}
	}
	return priority, rest
}

func hasPriorityKeyword(path string) bool {
	for _, keyword := range priorityPathKeywords {
		if strings.Contains(path, keyword) {
			return true
		}
	}
	return false
}

// rankCandidates orders by accumulated score descending, then alphabetically
// so equal scores produce a stable order.
func rankCandidates(candidates map[string]*candidate) []models.CandidateEmail {
	if len(candidates) == 0 {
		return nil
	}
	ranked := make([]models.CandidateEmail, 0, len(candidates))
	for email, entry := range candidates {
		ranked = append(ranked, models.CandidateEmail{
			Email: email,
			Score: entry.score,
			Pages: entry.pages,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Email < ranked[j].Email
	})
	return ranked
}
