package models

import "time"

// FindEmailRequest represents the request payload for discovering a contact
// email for a single job record.
type FindEmailRequest struct {
	Job     JobRecord    `json:"job" validate:"required"`
	Options *FindOptions `json:"options,omitempty"`
}

// FindOptions provides per-request overrides for the discovery pipeline.
type FindOptions struct {
	Engine     string        `json:"engine,omitempty"`      // "native", "firecrawl"
	MaxDepth   int           `json:"max_depth,omitempty"`   // crawl depth override
	MaxPages   int           `json:"max_pages,omitempty"`   // page budget override
	TimeBudget time.Duration `json:"time_budget,omitempty"` // total crawl budget override
	MaxResults int           `json:"max_results,omitempty"` // cap on returned emails
}

// CrawlOptions bounds a single crawl run. Zero values mean "use the
// configured default"; engines resolve them before starting.
type CrawlOptions struct {
	MaxDepth    int
	MaxPages    int
	PageTimeout time.Duration
	TimeBudget  time.Duration
}
