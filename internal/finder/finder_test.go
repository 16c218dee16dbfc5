package finder_test

import (
	"context"
	"net"
	"reflect"
	"testing"

	"jobreach-utils/internal/config"
	"jobreach-utils/internal/crawler"
	"jobreach-utils/internal/finder"
	"jobreach-utils/internal/resolver"
	"jobreach-utils/internal/validator"
	"jobreach-utils/pkg/models"
	"jobreach-utils/pkg/utils"
)

type stubResolver struct {
	resolution *resolver.Resolution
	err        error
}

func (s *stubResolver) Resolve(ctx context.Context, job *models.JobRecord) (*resolver.Resolution, error) {
	return s.resolution, s.err
}

type stubEngine struct {
	result *models.CrawlResult
	err    error
}

func (s *stubEngine) Crawl(ctx context.Context, domain string, options *models.CrawlOptions) (*models.CrawlResult, error) {
	return s.result, s.err
}

func (s *stubEngine) Cleanup()        {}
func (s *stubEngine) IsHealthy() bool { return true }

type stubFactory struct {
	engine  crawler.Engine
	created int
}

func (s *stubFactory) CreateEngine(engine string) (crawler.Engine, error) {
	s.created++
	return s.engine, nil
}

func (s *stubFactory) GetSupportedEngines() []string {
	return []string{"native"}
}

type stubSuggester struct {
	emails  []string
	healthy bool
}

func (s *stubSuggester) SuggestEmails(ctx context.Context, job *models.JobRecord, domain string) ([]string, error) {
	return s.emails, nil
}

func (s *stubSuggester) IsHealthy() bool { return s.healthy }

type stubRecorder struct {
	entries []utils.DispositionEntry
}

func (s *stubRecorder) Record(ctx context.Context, job models.JobRecord, entry utils.DispositionEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Crawler.Engine = "native"
	cfg.Finder.MaxResults = 3
	return cfg
}

// alwaysMX resolves every domain so tests exercise scoring, not DNS.
func alwaysMX() *validator.Validator {
	return validator.New(validator.WithMXLookup(func(ctx context.Context, domain string) ([]*net.MX, error) {
		return []*net.MX{{Host: "mx." + domain + "."}}, nil
	}))
}

func crawlResultWith(emails ...string) *models.CrawlResult {
	result := &models.CrawlResult{}
	for i, email := range emails {
		result.Candidates = append(result.Candidates, models.CandidateEmail{Email: email, Score: 100 - i})
	}
	return result
}

func TestFindCompanyEmailDetailed_PlaceholderSkips(t *testing.T) {
	factory := &stubFactory{engine: &stubEngine{result: crawlResultWith("careers@acmewidgets.com")}}
	recorder := &stubRecorder{}
	f := finder.New(testConfig(),
		&stubResolver{err: resolver.ErrPlaceholderCompany},
		factory,
		finder.WithValidator(alwaysMX()),
		finder.WithDispositionRecorder(recorder),
	)

	job := &models.JobRecord{CompanyName: "Upwork Client"}
	response, err := f.FindCompanyEmailDetailed(context.Background(), job, nil)
	if err != nil {
		t.Fatalf("FindCompanyEmailDetailed() error = %v", err)
	}
	if response.Disposition != models.DispositionSkipped {
		t.Errorf("Disposition = %s, want skipped", response.Disposition)
	}
	if response.Success {
		t.Error("Success = true for a skipped job")
	}
	if factory.created != 0 {
		t.Errorf("crawl engine created %d times for a placeholder, want 0", factory.created)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Disposition != models.DispositionSkipped {
		t.Errorf("disposition log = %+v, want one skipped entry", recorder.entries)
	}
}

func TestFindCompanyEmailDetailed_CrawlStrategy(t *testing.T) {
	factory := &stubFactory{engine: &stubEngine{
		result: crawlResultWith("careers@acmewidgets.com", "webmaster@acmewidgets.com"),
	}}
	recorder := &stubRecorder{}
	f := finder.New(testConfig(),
		&stubResolver{resolution: &resolver.Resolution{Domain: "acmewidgets.com", Strategy: resolver.StrategySourceURL}},
		factory,
		finder.WithValidator(alwaysMX()),
		finder.WithDispositionRecorder(recorder),
	)

	job := &models.JobRecord{CompanyName: "Acme Widgets", Title: "Go Engineer"}
	response, err := f.FindCompanyEmailDetailed(context.Background(), job, nil)
	if err != nil {
		t.Fatalf("FindCompanyEmailDetailed() error = %v", err)
	}
	if !response.Success || response.Disposition != models.DispositionFound {
		t.Fatalf("response = %+v, want a found disposition", response)
	}
	if response.Strategy != finder.StrategyCrawl {
		t.Errorf("Strategy = %s, want crawl", response.Strategy)
	}
	// webmaster@ fails the invalid-prefix check and must not surface
	if !reflect.DeepEqual(response.Emails, []string{"careers@acmewidgets.com"}) {
		t.Errorf("Emails = %v, want [careers@acmewidgets.com]", response.Emails)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Disposition != models.DispositionFound {
		t.Errorf("disposition log = %+v, want one found entry", recorder.entries)
	}
}

func TestFindCompanyEmailDetailed_CrawlPagesFeedContextBonuses(t *testing.T) {
	factory := &stubFactory{engine: &stubEngine{result: &models.CrawlResult{
		Candidates: []models.CandidateEmail{
			{Email: "contact@othercorp.com", Pages: []string{"https://acmewidgets.com/careers"}},
			{Email: "hello@othercorp.com", Pages: []string{"https://acmewidgets.com/jobs/42"}},
		},
	}}}
	f := finder.New(testConfig(),
		&stubResolver{resolution: &resolver.Resolution{Domain: "acmewidgets.com"}},
		factory,
		finder.WithValidator(alwaysMX()),
	)

	job := &models.JobRecord{
		CompanyName: "Acme Widgets",
		SourceURL:   "https://acmewidgets.com/jobs/42",
	}
	response, err := f.FindCompanyEmailDetailed(context.Background(), job, nil)
	if err != nil {
		t.Fatalf("FindCompanyEmailDetailed() error = %v", err)
	}
	if response.Strategy != finder.StrategyCrawl {
		t.Fatalf("Strategy = %s, want crawl", response.Strategy)
	}
	if len(response.Results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(response.Results), response.Results)
	}
	// hello@ was seen on the job posting itself (+15, and +10 for the hiring
	// path), so it overtakes contact@, which only gets the careers-page bonus
	if response.Results[0].Email != "hello@othercorp.com" || response.Results[0].Score != 94 {
		t.Errorf("Results[0] = (%s, %d), want (hello@othercorp.com, 94)",
			response.Results[0].Email, response.Results[0].Score)
	}
	if response.Results[1].Email != "contact@othercorp.com" || response.Results[1].Score != 79 {
		t.Errorf("Results[1] = (%s, %d), want (contact@othercorp.com, 79)",
			response.Results[1].Email, response.Results[1].Score)
	}
}

func TestFindCompanyEmailDetailed_LLMFallback(t *testing.T) {
	factory := &stubFactory{engine: &stubEngine{result: &models.CrawlResult{}}}
	f := finder.New(testConfig(),
		&stubResolver{resolution: &resolver.Resolution{Domain: "acmewidgets.com"}},
		factory,
		finder.WithValidator(alwaysMX()),
		finder.WithSuggester(&stubSuggester{emails: []string{"jobs@acmewidgets.com"}, healthy: true}),
	)

	job := &models.JobRecord{CompanyName: "Acme Widgets"}
	response, err := f.FindCompanyEmailDetailed(context.Background(), job, nil)
	if err != nil {
		t.Fatalf("FindCompanyEmailDetailed() error = %v", err)
	}
	if response.Strategy != finder.StrategyLLMSuggestion {
		t.Errorf("Strategy = %s, want llm_suggestion", response.Strategy)
	}
	if !reflect.DeepEqual(response.Emails, []string{"jobs@acmewidgets.com"}) {
		t.Errorf("Emails = %v, want [jobs@acmewidgets.com]", response.Emails)
	}
}

func TestFindCompanyEmailDetailed_GenericPatternFallback(t *testing.T) {
	factory := &stubFactory{engine: &stubEngine{result: &models.CrawlResult{}}}
	f := finder.New(testConfig(),
		&stubResolver{resolution: &resolver.Resolution{Domain: "acmewidgets.com"}},
		factory,
		finder.WithValidator(alwaysMX()),
	)

	job := &models.JobRecord{CompanyName: "Acme Widgets"}
	response, err := f.FindCompanyEmailDetailed(context.Background(), job, nil)
	if err != nil {
		t.Fatalf("FindCompanyEmailDetailed() error = %v", err)
	}
	if response.Strategy != finder.StrategyGenericPattern {
		t.Errorf("Strategy = %s, want generic_pattern", response.Strategy)
	}
	if len(response.Emails) != 3 {
		t.Errorf("len(Emails) = %d, want 3 (capped at MaxResults)", len(response.Emails))
	}
	if response.Emails[0] != "careers@acmewidgets.com" {
		t.Errorf("Emails[0] = %s, want careers@acmewidgets.com", response.Emails[0])
	}
}

func TestFindCompanyEmailDetailed_UnresolvedStillTriesLLM(t *testing.T) {
	factory := &stubFactory{engine: &stubEngine{result: crawlResultWith("careers@acmewidgets.com")}}
	f := finder.New(testConfig(),
		&stubResolver{err: resolver.ErrNotResolved},
		factory,
		finder.WithValidator(alwaysMX()),
		finder.WithSuggester(&stubSuggester{emails: []string{"careers@acmewidgets.com"}, healthy: true}),
	)

	job := &models.JobRecord{CompanyName: "Acme Widgets"}
	response, err := f.FindCompanyEmailDetailed(context.Background(), job, nil)
	if err != nil {
		t.Fatalf("FindCompanyEmailDetailed() error = %v", err)
	}
	if factory.created != 0 {
		t.Errorf("crawl engine created without a domain, want 0 creations")
	}
	if response.Strategy != finder.StrategyLLMSuggestion {
		t.Errorf("Strategy = %s, want llm_suggestion", response.Strategy)
	}
	if response.Domain != "" {
		t.Errorf("Domain = %q, want empty for unresolved company", response.Domain)
	}
}

func TestFindCompanyEmailDetailed_NoResult(t *testing.T) {
	factory := &stubFactory{engine: &stubEngine{result: &models.CrawlResult{}}}
	recorder := &stubRecorder{}
	// A blocked resolved domain makes every generic candidate unusable, so the
	// pipeline exhausts all strategies
	f := finder.New(testConfig(),
		&stubResolver{resolution: &resolver.Resolution{Domain: "mailinator.com"}},
		factory,
		finder.WithValidator(alwaysMX()),
		finder.WithDispositionRecorder(recorder),
	)

	job := &models.JobRecord{CompanyName: "Acme Widgets"}
	response, err := f.FindCompanyEmailDetailed(context.Background(), job, nil)
	if err != nil {
		t.Fatalf("FindCompanyEmailDetailed() error = %v", err)
	}
	if response.Success || response.Disposition != models.DispositionNoResult {
		t.Errorf("response = %+v, want no_result", response)
	}
	if response.Strategy != finder.StrategyNone {
		t.Errorf("Strategy = %s, want none", response.Strategy)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Disposition != models.DispositionNoResult {
		t.Errorf("disposition log = %+v, want one no_result entry", recorder.entries)
	}
}

func TestFindCompanyEmail_ReturnsEmailSlice(t *testing.T) {
	factory := &stubFactory{engine: &stubEngine{result: crawlResultWith("careers@acmewidgets.com")}}
	f := finder.New(testConfig(),
		&stubResolver{resolution: &resolver.Resolution{Domain: "acmewidgets.com"}},
		factory,
		finder.WithValidator(alwaysMX()),
	)

	emails, err := f.FindCompanyEmail(context.Background(), &models.JobRecord{CompanyName: "Acme Widgets"})
	if err != nil {
		t.Fatalf("FindCompanyEmail() error = %v", err)
	}
	if !reflect.DeepEqual(emails, []string{"careers@acmewidgets.com"}) {
		t.Errorf("FindCompanyEmail() = %v, want [careers@acmewidgets.com]", emails)
	}
}
