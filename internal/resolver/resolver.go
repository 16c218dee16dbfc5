// Package resolver maps a job's company to the company's website domain.
// Strategies are tried in order of trustworthiness: the job posting's own
// URL, a direct guess from the company name, then a web search. Platform
// hosts (job boards, social networks) are never returned as company domains.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"jobreach-utils/internal/config"
	"jobreach-utils/internal/logging"
	"jobreach-utils/internal/logging/types"
	"jobreach-utils/pkg/models"
	"jobreach-utils/pkg/utils"
)

// Resolution strategies, reported back to the caller so responses can say
// where a domain came from.
const (
	StrategySourceURL   = "source_url"
	StrategyDomainGuess = "domain_guess"
	StrategySearch      = "search"
)

// ErrPlaceholderCompany marks jobs posted by anonymized clients; there is no
// real company to resolve.
var ErrPlaceholderCompany = errors.New("resolver: placeholder company name")

// ErrNotResolved means every strategy came up empty.
var ErrNotResolved = errors.New("resolver: could not resolve company domain")

// placeholderIndicators flag anonymized postings on freelance platforms.
var placeholderIndicators = []string{"client", "freelancer.com", "upwork", "guru", "fiverr", "remoteok"}

// platformHosts are hosts that can never be a company's own domain.
var platformHosts = map[string]bool{
	"linkedin.com":      true,
	"indeed.com":        true,
	"glassdoor.com":     true,
	"monster.com":       true,
	"careerbuilder.com": true,
	"ziprecruiter.com":  true,
	"upwork.com":        true,
	"freelancer.com":    true,
	"fiverr.com":        true,
	"guru.com":          true,
	"peopleperhour.com": true,
	"toptal.com":        true,
	"remoteok.com":      true,
	"99designs.com":     true,
	"facebook.com":      true,
	"twitter.com":       true,
	"instagram.com":     true,
	"tiktok.com":        true,
	"wellfound.com":     true,
	"angel.co":          true,
	"google.com":        true,
	"wikipedia.org":     true,
}

// legalSuffixes are stripped from company names before guessing domains.
var legalSuffixes = []string{
	"incorporated", "corporation", "limited", "company",
	"inc", "llc", "llp", "ltd", "corp", "gmbh", "plc", "pvt", "pte", "co",
}

// guessTLDs are tried in order when probing name-derived domains.
var guessTLDs = []string{".com", ".io", ".co", ".in", ".ai"}

// Searcher is the slice of the search client the resolver needs.
type Searcher interface {
	FirstURL(ctx context.Context, query string) (string, error)
}

// Resolution is a resolved company domain plus the strategy that produced it.
type Resolution struct {
	Domain   string
	Strategy string
}

// Resolver resolves company domains for job records
type Resolver struct {
	config   *config.Config
	client   *http.Client
	searcher Searcher
	logger   types.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient replaces the HTTP client used for domain probes.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		r.client = client
	}
}

// WithSearcher attaches a search client for the fallback strategy. Without
// one the resolver stops after the domain-guess strategy.
func WithSearcher(searcher Searcher) Option {
	return func(r *Resolver) {
		r.searcher = searcher
	}
}

// New creates a Resolver.
func New(cfg *config.Config, opts ...Option) *Resolver {
	r := &Resolver{
		config: cfg,
		client: &http.Client{Timeout: cfg.Finder.ProbeTimeout},
		logger: logging.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsPlaceholder reports whether the company name is an anonymized platform
// placeholder rather than a real company.
func IsPlaceholder(companyName string) bool {
	name := strings.ToLower(strings.TrimSpace(companyName))
	if name == "" {
		return true
	}
	if strings.Contains(name, "*") {
		return true
	}
	for _, indicator := range placeholderIndicators {
		if strings.Contains(name, indicator) {
			return true
		}
	}
	return false
}

// Resolve finds the company's website domain for a job record. It returns
// ErrPlaceholderCompany for anonymized postings and ErrNotResolved when every
// strategy fails.
func (r *Resolver) Resolve(ctx context.Context, job *models.JobRecord) (*Resolution, error) {
	if IsPlaceholder(job.CompanyName) {
		return nil, ErrPlaceholderCompany
	}

	if domain := r.fromSourceURL(job.SourceURL); domain != "" {
		r.logger.Debug("Resolved domain from job source URL", map[string]interface{}{
			"company": job.CompanyName,
			"domain":  domain,
		})
		return &Resolution{Domain: domain, Strategy: StrategySourceURL}, nil
	}

	if domain := r.fromNameGuess(ctx, job.CompanyName); domain != "" {
		r.logger.Debug("Resolved domain by name guess", map[string]interface{}{
			"company": job.CompanyName,
			"domain":  domain,
		})
		return &Resolution{Domain: domain, Strategy: StrategyDomainGuess}, nil
	}

	if domain, err := r.fromSearch(ctx, job.CompanyName); err == nil && domain != "" {
		r.logger.Debug("Resolved domain via search", map[string]interface{}{
			"company": job.CompanyName,
			"domain":  domain,
		})
		return &Resolution{Domain: domain, Strategy: StrategySearch}, nil
	}

	return nil, ErrNotResolved
}

// fromSourceURL trusts the posting's own host unless it belongs to a job
// board or social platform.
func (r *Resolver) fromSourceURL(sourceURL string) string {
	if sourceURL == "" {
		return ""
	}
	host := utils.StripWWW(utils.HostnameFromURL(sourceURL))
	if host == "" || isPlatformHost(host) {
		return ""
	}
	return host
}

// fromNameGuess derives candidate domains from the company name and keeps
// the first one that answers an HTTP probe.
func (r *Resolver) fromNameGuess(ctx context.Context, companyName string) string {
	base := domainBase(companyName)
	if base == "" {
		return ""
	}
	for _, tld := range guessTLDs {
		domain := base + tld
		if r.probe(ctx, domain) {
			return domain
		}
	}
	return ""
}

func (r *Resolver) fromSearch(ctx context.Context, companyName string) (string, error) {
	if r.searcher == nil {
		return "", nil
	}
	query := fmt.Sprintf("%s official website", companyName)
	link, err := r.searcher.FirstURL(ctx, query)
	if err != nil {
		r.logger.Debug("Search strategy failed", map[string]interface{}{
			"company": companyName,
			"error":   err.Error(),
		})
		return "", err
	}
	host := utils.StripWWW(utils.HostnameFromURL(link))
	if host == "" || isPlatformHost(host) {
		return "", nil
	}
	return host, nil
}

// probe checks whether the domain serves a real page. Only 2xx and 3xx count
// as success; a parked domain answering 404 is not the company's site.
func (r *Resolver) probe(ctx context.Context, domain string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, r.config.Finder.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, "https://"+domain, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", r.config.Crawler.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

func isPlatformHost(host string) bool {
	if platformHosts[host] {
		return true
	}
	for platform := range platformHosts {
		if strings.HasSuffix(host, "."+platform) {
			return true
		}
	}
	return false
}

// domainBase lowercases the company name, strips legal suffixes, and removes
// everything that cannot appear in a hostname label.
func domainBase(companyName string) string {
	words := strings.Fields(strings.ToLower(companyName))
	for len(words) > 0 {
		last := strings.Trim(words[len(words)-1], ".,")
		if !isLegalSuffix(last) {
			break
		}
		words = words[:len(words)-1]
	}

	var b strings.Builder
	for _, word := range words {
		for _, r := range word {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func isLegalSuffix(word string) bool {
	for _, suffix := range legalSuffixes {
		if word == suffix {
			return true
		}
	}
	return false
}
