// Package finder orchestrates the discovery pipeline: resolve the company's
// domain, crawl it for addresses, validate everything, and fall back to LLM
// suggestions and generic patterns when the crawl comes up empty. An empty
// result is a normal outcome; the only errors it returns are infrastructure
// failures.
package finder

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobreach-utils/internal/config"
	"jobreach-utils/internal/crawler"
	"jobreach-utils/internal/logging"
	"jobreach-utils/internal/logging/types"
	"jobreach-utils/internal/resolver"
	"jobreach-utils/internal/validator"
	"jobreach-utils/pkg/models"
	"jobreach-utils/pkg/utils"
)

// Strategy labels reported in responses and the disposition log.
const (
	StrategyCrawl          = "crawl"
	StrategyLLMSuggestion  = "llm_suggestion"
	StrategyGenericPattern = "generic_pattern"
	StrategyNone           = "none"
)

// genericPrefixes are tried against the resolved domain when discovery finds
// nothing, ordered by how likely a human reads the inbox.
var genericPrefixes = []string{"careers", "jobs", "hr", "recruiting", "info", "hello", "contact"}

// Suggester is the slice of the LLM manager the finder needs.
type Suggester interface {
	SuggestEmails(ctx context.Context, job *models.JobRecord, domain string) ([]string, error)
	IsHealthy() bool
}

// DomainResolver resolves a job's company to a website domain.
type DomainResolver interface {
	Resolve(ctx context.Context, job *models.JobRecord) (*resolver.Resolution, error)
}

// DispositionRecorder appends terminal outcomes to the disposition log.
type DispositionRecorder interface {
	Record(ctx context.Context, job models.JobRecord, entry utils.DispositionEntry) error
}

// Finder runs the end-to-end email discovery pipeline
type Finder struct {
	config       *config.Config
	resolver     DomainResolver
	factory      crawler.EngineFactory
	validator    *validator.Validator
	suggester    Suggester
	dispositions DispositionRecorder
	logger       types.Logger
}

// Option configures a Finder.
type Option func(*Finder)

// WithSuggester attaches an LLM suggestion source.
func WithSuggester(s Suggester) Option {
	return func(f *Finder) {
		f.suggester = s
	}
}

// WithDispositionRecorder attaches the disposition log.
func WithDispositionRecorder(r DispositionRecorder) Option {
	return func(f *Finder) {
		f.dispositions = r
	}
}

// WithValidator replaces the default validator.
func WithValidator(v *validator.Validator) Option {
	return func(f *Finder) {
		f.validator = v
	}
}

// New creates a Finder.
func New(cfg *config.Config, domainResolver DomainResolver, factory crawler.EngineFactory, opts ...Option) *Finder {
	f := &Finder{
		config:    cfg,
		resolver:  domainResolver,
		factory:   factory,
		validator: validator.New(),
		logger:    logging.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FindCompanyEmail returns the best usable emails for the job, most promising
// first. The slice is empty when nothing passes validation.
func (f *Finder) FindCompanyEmail(ctx context.Context, job *models.JobRecord) ([]string, error) {
	response, err := f.FindCompanyEmailDetailed(ctx, job, nil)
	if err != nil {
		return nil, err
	}
	return response.Emails, nil
}

// FindCompanyEmailDetailed runs the full pipeline and reports how the result
// was produced.
func (f *Finder) FindCompanyEmailDetailed(ctx context.Context, job *models.JobRecord, options *models.FindOptions) (*models.FindEmailResponse, error) {
	start := time.Now()
	response := &models.FindEmailResponse{
		Emails:      []string{},
		Disposition: models.DispositionNoResult,
		Strategy:    StrategyNone,
	}

	maxResults := f.config.Finder.MaxResults
	if options != nil && options.MaxResults > 0 {
		maxResults = options.MaxResults
	}

	resolution, err := f.resolver.Resolve(ctx, job)
	switch {
	case errors.Is(err, resolver.ErrPlaceholderCompany):
		f.logger.Info("Skipping placeholder company", map[string]interface{}{
			"company": job.CompanyName,
		})
		response.Disposition = models.DispositionSkipped
		response.ProcessingTime = time.Since(start)
		f.record(ctx, job, response)
		return response, nil
	case errors.Is(err, resolver.ErrNotResolved):
		// No domain: the crawl and generic strategies are off the table, but
		// an LLM suggestion might still name an address outright
		f.logger.Info("Company domain not resolved", map[string]interface{}{
			"company": job.CompanyName,
		})
	case err != nil:
		return nil, err
	default:
		response.Domain = resolution.Domain
	}

	if response.Domain != "" {
		results := f.crawlAndValidate(ctx, job, response.Domain, options)
		if f.apply(response, results, maxResults, StrategyCrawl) {
			response.ProcessingTime = time.Since(start)
			f.record(ctx, job, response)
			return response, nil
		}
	}

	if results := f.suggestAndValidate(ctx, job, response.Domain); f.apply(response, results, maxResults, StrategyLLMSuggestion) {
		response.ProcessingTime = time.Since(start)
		f.record(ctx, job, response)
		return response, nil
	}

	if response.Domain != "" {
		results := f.genericAndValidate(ctx, job, response.Domain)
		if f.apply(response, results, maxResults, StrategyGenericPattern) {
			response.ProcessingTime = time.Since(start)
			f.record(ctx, job, response)
			return response, nil
		}
	}

	f.logger.Info("No usable email found", map[string]interface{}{
		"company": job.CompanyName,
		"domain":  response.Domain,
	})
	response.ProcessingTime = time.Since(start)
	f.record(ctx, job, response)
	return response, nil
}

// crawlAndValidate runs the configured crawl engine over the domain and
// validates every candidate. A crawl failure is logged and treated as zero
// candidates so the fallback strategies still run.
func (f *Finder) crawlAndValidate(ctx context.Context, job *models.JobRecord, domain string, options *models.FindOptions) []models.ValidationResult {
	engineName := f.config.Crawler.Engine
	var crawlOpts *models.CrawlOptions
	if options != nil {
		engineName = utils.GetStringOrDefault(options.Engine, engineName)
		crawlOpts = &models.CrawlOptions{
			MaxDepth:   options.MaxDepth,
			MaxPages:   options.MaxPages,
			TimeBudget: options.TimeBudget,
		}
	}

	engine, err := f.factory.CreateEngine(engineName)
	if err != nil {
		f.logger.Error("Failed to create crawl engine", map[string]interface{}{
			"engine": engineName,
			"error":  err.Error(),
		})
		return nil
	}
	defer engine.Cleanup()

	crawlResult, err := engine.Crawl(ctx, domain, crawlOpts)
	if err != nil {
		f.logger.Warn("Crawl failed", map[string]interface{}{
			"domain": domain,
			"error":  err.Error(),
		})
		return nil
	}

	emails := make([]string, 0, len(crawlResult.Candidates))
	evidence := make(map[string]*models.ValidationContext, len(crawlResult.Candidates))
	for _, candidate := range crawlResult.Candidates {
		emails = append(emails, candidate.Email)
		if vctx := contextFromPages(candidate.Pages, job.SourceURL); vctx != nil {
			evidence[strings.ToLower(candidate.Email)] = vctx
		}
	}
	return f.validator.BatchValidateWithEvidence(ctx, emails, job.CompanyName, domain, evidence)
}

// contextFromPages derives validation evidence from where a candidate was
// seen: hiring-related paths earn the careers-page bonus, and an address on
// the job posting's own page earns the job-posting bonus. Returns nil when
// the pages carry no evidence.
func contextFromPages(pages []string, sourceURL string) *models.ValidationContext {
	source := strings.TrimSuffix(strings.ToLower(sourceURL), "/")
	var vctx models.ValidationContext
	for _, page := range pages {
		lower := strings.ToLower(page)
		if strings.Contains(lower, "career") || strings.Contains(lower, "job") || strings.Contains(lower, "hiring") {
			vctx.FoundOnCareersPage = true
		}
		if source != "" && strings.TrimSuffix(lower, "/") == source {
			vctx.FromJobPosting = true
		}
	}
	if !vctx.FoundOnCareersPage && !vctx.FromJobPosting {
		return nil
	}
	return &vctx
}

func (f *Finder) suggestAndValidate(ctx context.Context, job *models.JobRecord, domain string) []models.ValidationResult {
	if f.suggester == nil || !f.suggester.IsHealthy() {
		return nil
	}

	suggested, err := f.suggester.SuggestEmails(ctx, job, domain)
	if err != nil {
		f.logger.Warn("LLM suggestion failed", map[string]interface{}{
			"company": job.CompanyName,
			"error":   err.Error(),
		})
		return nil
	}
	return f.validator.BatchValidate(ctx, suggested, job.CompanyName, domain)
}

func (f *Finder) genericAndValidate(ctx context.Context, job *models.JobRecord, domain string) []models.ValidationResult {
	emails := make([]string, 0, len(genericPrefixes))
	for _, prefix := range genericPrefixes {
		emails = append(emails, prefix+"@"+domain)
	}
	return f.validator.BatchValidate(ctx, emails, job.CompanyName, domain)
}

// apply keeps the usable slice of results on the response. It returns false
// when nothing was usable so the caller moves to the next strategy.
func (f *Finder) apply(response *models.FindEmailResponse, results []models.ValidationResult, maxResults int, strategy string) bool {
	var usable []models.ValidationResult
	for _, result := range results {
		if result.Recommendation.Usable() {
			usable = append(usable, result)
		}
	}
	if len(usable) == 0 {
		return false
	}
	if len(usable) > maxResults {
		usable = usable[:maxResults]
	}

	response.Success = true
	response.Disposition = models.DispositionFound
	response.Strategy = strategy
	response.Results = usable
	response.Emails = make([]string, 0, len(usable))
	for _, result := range usable {
		response.Emails = append(response.Emails, result.Email)
	}
	return true
}

// record appends the terminal outcome to the disposition log. Logging
// failures never fail the request.
func (f *Finder) record(ctx context.Context, job *models.JobRecord, response *models.FindEmailResponse) {
	if f.dispositions == nil {
		return
	}
	entry := utils.DispositionEntry{
		Disposition: response.Disposition,
		Emails:      response.Emails,
		Strategy:    response.Strategy,
	}
	if err := f.dispositions.Record(ctx, *job, entry); err != nil {
		f.logger.Warn("Failed to record disposition", map[string]interface{}{
			"company": job.CompanyName,
			"error":   err.Error(),
		})
	}
}
