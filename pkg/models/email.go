package models

import "time"

// Recommendation is the tier assigned to a validated email. Only the top two
// tiers are considered usable by the finder.
type Recommendation string

const (
	RecommendationHighlyRecommended Recommendation = "highly_recommended" // score >= 70
	RecommendationAcceptable        Recommendation = "acceptable"         // 50-69
	RecommendationLowQuality        Recommendation = "low_quality"        // 30-49
	RecommendationReject            Recommendation = "reject"             // < 30 or hard-blocked
)

// Usable reports whether the tier is good enough to send mail to.
func (r Recommendation) Usable() bool {
	return r == RecommendationHighlyRecommended || r == RecommendationAcceptable
}

// CandidateEmail is an address discovered during one crawl run, with the
// relevance score accumulated across every page it was seen on. It lives only
// for the duration of that run.
type CandidateEmail struct {
	Email string   `json:"email"`
	Score int      `json:"score"`
	Pages []string `json:"pages,omitempty"`
}

// ValidationResult is the immutable outcome of validating a single email.
type ValidationResult struct {
	Email          string         `json:"email"`
	IsValid        bool           `json:"is_valid"`
	Score          int            `json:"score"`
	Reasons        []string       `json:"reasons"`
	Recommendation Recommendation `json:"recommendation"`
}

// ValidationContext carries where a candidate was seen, which feeds the
// validator's context bonuses.
type ValidationContext struct {
	FoundOnCareersPage bool
	FromJobPosting     bool
}

// PageOutcome classifies what happened to a single page during a crawl.
// Per-page failures are data, not errors: the crawl continues past them.
type PageOutcome string

const (
	PageFetched PageOutcome = "fetched"
	PageSkipped PageOutcome = "skipped"
	PageFailed  PageOutcome = "failed"
)

// PageVisit records the disposition of one frontier URL.
type PageVisit struct {
	URL     string      `json:"url"`
	Depth   int         `json:"depth"`
	Outcome PageOutcome `json:"outcome"`
	Reason  string      `json:"reason,omitempty"`
}

// CrawlResult is the output of one bounded crawl: candidates ranked by
// accumulated score plus the page-level audit trail.
type CrawlResult struct {
	Candidates   []CandidateEmail `json:"candidates"`
	Pages        []PageVisit      `json:"pages"`
	PagesFetched int              `json:"pages_fetched"`
	Elapsed      time.Duration    `json:"elapsed"`
}
