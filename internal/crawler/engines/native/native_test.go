package native_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"jobreach-utils/internal/config"
	"jobreach-utils/internal/crawler/engines/native"
	"jobreach-utils/pkg/models"
	"jobreach-utils/pkg/utils"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Crawler.UserAgent = "test-agent"
	cfg.Crawler.MaxDepth = 2
	cfg.Crawler.MaxPages = 15
	cfg.Crawler.PageTimeout = 2 * time.Second
	cfg.Crawler.TimeBudget = 10 * time.Second
	return cfg
}

func testSite() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body>
			<a href="/contact">Contact</a>
			<a href="/about">About</a>
			<a href="/broken">News</a>
			<a href="/styles.css">Styles</a>
			<p>Welcome to Acme Widgets</p>
		</body></html>`)
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="mailto:careers@acmewidgets.com?subject=hello">Apply</a>
			<p>General questions: contact@acmewidgets.com</p>
		</body></html>`)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>We make widgets.</p></body></html>`)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	return httptest.NewServer(mux)
}

func TestCrawl_FindsAndRanksEmails(t *testing.T) {
	srv := testSite()
	defer srv.Close()

	c := native.NewCrawler(testConfig())
	result, err := c.Crawl(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if result.PagesFetched != 3 {
		t.Errorf("PagesFetched = %d, want 3 (root, contact, about)", result.PagesFetched)
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(result.Candidates), result.Candidates)
	}
	// careers@ outranks contact@: priority prefix keyword scores higher
	if result.Candidates[0].Email != "careers@acmewidgets.com" {
		t.Errorf("top candidate = %s, want careers@acmewidgets.com", result.Candidates[0].Email)
	}
	if result.Candidates[1].Email != "contact@acmewidgets.com" {
		t.Errorf("second candidate = %s, want contact@acmewidgets.com", result.Candidates[1].Email)
	}
	if len(result.Candidates[0].Pages) == 0 {
		t.Error("top candidate has no source pages recorded")
	}
}

func TestCrawl_RecordsFailedPagesWithoutAborting(t *testing.T) {
	srv := testSite()
	defer srv.Close()

	c := native.NewCrawler(testConfig())
	result, err := c.Crawl(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	var failed *models.PageVisit
	for i := range result.Pages {
		if result.Pages[i].Outcome == models.PageFailed {
			failed = &result.Pages[i]
		}
	}
	if failed == nil {
		t.Fatal("expected a failed page visit for /broken")
	}
	if failed.Reason != "status_404" {
		t.Errorf("failed visit reason = %s, want status_404", failed.Reason)
	}
}

func TestCrawl_SkipsAssetLinks(t *testing.T) {
	srv := testSite()
	defer srv.Close()

	c := native.NewCrawler(testConfig())
	result, err := c.Crawl(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	for _, visit := range result.Pages {
		if visit.URL == srv.URL+"/styles.css" {
			t.Error("crawler visited a .css link; asset extensions should be skipped")
		}
	}
}

func TestCrawl_MaxPagesBudget(t *testing.T) {
	srv := testSite()
	defer srv.Close()

	c := native.NewCrawler(testConfig())
	result, err := c.Crawl(context.Background(), srv.URL, &models.CrawlOptions{MaxPages: 1})
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if result.PagesFetched != 1 {
		t.Errorf("PagesFetched = %d, want 1 with MaxPages=1", result.PagesFetched)
	}
}

func TestCrawl_MaxDepthBudget(t *testing.T) {
	srv := testSite()
	defer srv.Close()

	// A zero MaxDepth option means "use the default", so depth 0 is set on the
	// config itself
	cfg := testConfig()
	cfg.Crawler.MaxDepth = 0
	c := native.NewCrawler(cfg)
	result, err := c.Crawl(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}
	if result.PagesFetched != 1 {
		t.Errorf("PagesFetched = %d, want 1 at depth 0", result.PagesFetched)
	}
}

func TestCrawl_NeverLeavesStartingDomain(t *testing.T) {
	var externalHits int64
	external := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&externalHits, 1)
		fmt.Fprint(w, `<html><body><p>partner@othercorp.com</p></body></html>`)
	}))
	defer external.Close()

	// The external server is reachable as localhost:<port>, a different host
	// than the 127.0.0.1 crawl target, so a broken host filter would fetch it
	externalURL, err := url.Parse(external.URL)
	if err != nil {
		t.Fatal(err)
	}
	externalLink := "http://localhost:" + externalURL.Port() + "/partners"

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `<html><body>
			<a href="/contact">Contact</a>
			<a href="%s">Partners</a>
		</body></html>`, externalLink)
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>contact@acmewidgets.com</p></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := native.NewCrawler(testConfig())
	result, err := c.Crawl(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if n := atomic.LoadInt64(&externalHits); n != 0 {
		t.Errorf("external host fetched %d times, want 0", n)
	}
	for _, visit := range result.Pages {
		if strings.Contains(visit.URL, "localhost") {
			t.Errorf("off-domain link %s entered the frontier", visit.URL)
		}
	}
	for _, candidate := range result.Candidates {
		if candidate.Email == "partner@othercorp.com" {
			t.Error("candidate harvested from an off-domain page")
		}
	}
}

func TestCrawl_TimeBudgetStopsCrawl(t *testing.T) {
	// Every page is slow; the first fetch alone exhausts the wall-clock budget
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		fmt.Fprint(w, `<html><body>
			<a href="/a">A</a>
			<a href="/b">B</a>
			<a href="/c">C</a>
			<p>slow page</p>
		</body></html>`)
	}))
	defer srv.Close()

	c := native.NewCrawler(testConfig())
	result, err := c.Crawl(context.Background(), srv.URL, &models.CrawlOptions{
		TimeBudget: 75 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if result.PagesFetched != 1 {
		t.Errorf("PagesFetched = %d, want 1 once the budget is spent", result.PagesFetched)
	}
	if result.Elapsed < 75*time.Millisecond {
		t.Errorf("Elapsed = %v, expected the first slow fetch to outlast the budget", result.Elapsed)
	}
}

func TestCrawl_InvalidDomain(t *testing.T) {
	c := native.NewCrawler(testConfig())
	_, err := c.Crawl(context.Background(), "", nil)
	if err == nil {
		t.Fatal("Crawl(\"\") expected error, got nil")
	}
	var appErr *utils.CustomError
	if !errors.As(err, &appErr) {
		t.Errorf("Crawl(\"\") error = %T, want *utils.CustomError", err)
	}
}

func TestCrawl_CancelledContext(t *testing.T) {
	srv := testSite()
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := native.NewCrawler(testConfig())
	result, err := c.Crawl(ctx, srv.URL, nil)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}
	if result.PagesFetched != 0 {
		t.Errorf("PagesFetched = %d, want 0 with cancelled context", result.PagesFetched)
	}
}
