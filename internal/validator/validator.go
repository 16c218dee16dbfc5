// Package validator is the strict, authoritative gate on candidate emails.
// Crawl relevance scores only rank candidates; nothing is used for outreach
// unless it passes this pipeline: syntax, blocked-domain, MX existence,
// company-domain matching, and prefix-quality heuristics folded into a 0-100
// quality score with a recommendation tier.
package validator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"sort"
	"strings"
	"sync"

	"jobreach-utils/pkg/models"
	"jobreach-utils/pkg/utils"
)

var syntaxPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// blockedDomains covers job platforms, social networks, disposable-mail
// providers, and placeholder domains. Subdomains of these are blocked too.
var blockedDomains = map[string]bool{
	// Job platforms
	"freelancer.com":    true,
	"upwork.com":        true,
	"fiverr.com":        true,
	"guru.com":          true,
	"peopleperhour.com": true,
	"toptal.com":        true,
	"remoteok.com":      true,
	"99designs.com":     true,
	"indeed.com":        true,
	"linkedin.com":      true,
	"glassdoor.com":     true,
	"monster.com":       true,
	"careerbuilder.com": true,
	"ziprecruiter.com":  true,

	// Social media
	"facebook.com":  true,
	"twitter.com":   true,
	"instagram.com": true,
	"tiktok.com":    true,

	// Temporary / disposable
	"tempmail.com":      true,
	"10minutemail.com":  true,
	"guerrillamail.com": true,
	"mailinator.com":    true,
	"throwaway.email":   true,
	"temp-mail.org":     true,

	// Generic / invalid
	"example.com":     true,
	"test.com":        true,
	"email.com":       true,
	"mail.com":        true,
	"wix.com":         true,
	"sentry.io":       true,
	"weebly.com":      true,
	"squarespace.com": true,
}

// genericProviders are consumer mail services: penalized during company
// matching but never hard-blocked, since small clients do run on them.
var genericProviders = map[string]bool{
	"gmail.com":      true,
	"yahoo.com":      true,
	"outlook.com":    true,
	"hotmail.com":    true,
	"aol.com":        true,
	"protonmail.com": true,
	"icloud.com":     true,
	"mail.com":       true,
}

// invalidPrefixes reject addresses nobody should apply through.
var invalidPrefixes = []string{
	"noreply", "no-reply", "donotreply", "do-not-reply",
	"mailer-daemon", "postmaster", "webmaster", "admin",
	"abuse", "spam", "security", "privacy",
}

var priorityPrefixKeywords = []string{"careers", "jobs", "hr", "hiring", "recruiting", "recruitment", "talent"}

var genericPrefixKeywords = []string{"contact", "info", "hello", "support"}

const maskChar = "*"

// Quality score weights. Empirically tuned; kept as named constants rather
// than re-derived.
const (
	syntaxPoints       = 20
	notBlockedPoints   = 20
	mxPoints           = 20
	mxMissingPenalty   = -30
	companyMatchWeight = 0.4
	priorityPrefixPts  = 15
	genericPrefixPts   = 5
	careersPageBonus   = 10
	jobPostingBonus    = 15
)

// Recommendation tier thresholds.
const (
	highlyRecommendedMin = 70
	acceptableMin        = 50
	lowQualityMin        = 30
)

// MXLookupFunc resolves MX records for a domain. Injectable so tests run
// without touching DNS.
type MXLookupFunc func(ctx context.Context, domain string) ([]*net.MX, error)

type mxResult struct {
	hasMX  bool
	reason string
	record string
}

// Validator validates and scores candidate emails. The MX cache lives for the
// lifetime of one instance; it is a performance optimization only, so callers
// wanting isolation simply construct a fresh Validator per run.
type Validator struct {
	lookupMX MXLookupFunc
	mu       sync.Mutex
	mxCache  map[string]mxResult
}

// Option configures a Validator.
type Option func(*Validator)

// WithMXLookup replaces the DNS MX resolution used by VerifyMX.
func WithMXLookup(fn MXLookupFunc) Option {
	return func(v *Validator) {
		v.lookupMX = fn
	}
}

// New creates a Validator with an empty cache.
func New(opts ...Option) *Validator {
	v := &Validator{
		lookupMX: func(ctx context.Context, domain string) ([]*net.MX, error) {
			return net.DefaultResolver.LookupMX(ctx, domain)
		},
		mxCache: make(map[string]mxResult),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateSyntax checks the email's shape: regex match, no mask characters,
// no auto-reply or role prefixes. Returns (valid, reason).
func (v *Validator) ValidateSyntax(email string) (bool, string) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, "empty_email"
	}

	if !syntaxPattern.MatchString(email) {
		return false, "invalid_syntax"
	}

	if strings.Contains(email, maskChar) {
		return false, "masked_email"
	}

	prefix := utils.EmailPrefix(email)
	for _, invalid := range invalidPrefixes {
		if strings.Contains(prefix, invalid) {
			return false, "invalid_prefix"
		}
	}

	return true, "syntax_valid"
}

// CheckDomainBlocked reports whether the email's domain, or any parent domain
// of it, is on the blocklist. Returns (blocked, reason).
func (v *Validator) CheckDomainBlocked(email string) (bool, string) {
	domain := utils.EmailDomain(email)

	if blockedDomains[domain] {
		return true, "blocked_domain"
	}

	for blocked := range blockedDomains {
		if strings.HasSuffix(domain, "."+blocked) {
			return true, "blocked_subdomain"
		}
	}

	return false, "domain_ok"
}

// VerifyMX checks that the email's domain has at least one MX record.
// Presence of any record is treated as sufficient evidence the domain can
// receive mail; no SMTP probe is attempted, since many legitimate servers
// reject probe connections and a false negative costs more than accepting a
// slightly-unverified address. Returns (hasMX, reason, firstRecord).
func (v *Validator) VerifyMX(ctx context.Context, email string) (bool, string, string) {
	domain := utils.EmailDomain(email)
	if domain == "" {
		return false, "invalid_domain", ""
	}

	v.mu.Lock()
	cached, ok := v.mxCache[domain]
	v.mu.Unlock()
	if ok {
		return cached.hasMX, cached.reason, cached.record
	}

	records, err := v.lookupMX(ctx, domain)
	var result mxResult
	switch {
	case err != nil:
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			result = mxResult{hasMX: false, reason: "domain_not_exist"}
		} else {
			// Transient resolver failures are not cached; next call may succeed
			return false, "mx_check_failed", ""
		}
	case len(records) == 0:
		result = mxResult{hasMX: false, reason: "no_mx_record"}
	default:
		result = mxResult{hasMX: true, reason: "mx_valid", record: strings.TrimSuffix(records[0].Host, ".")}
	}

	v.mu.Lock()
	v.mxCache[domain] = result
	v.mu.Unlock()

	return result.hasMX, result.reason, result.record
}

// MatchCompanyDomain scores how well the email's domain matches the company
// (0-100, or -30 for a generic consumer provider).
func (v *Validator) MatchCompanyDomain(email, companyName, jobDomain string) int {
	if companyName == "" {
		return 0
	}

	emailDomain := utils.EmailDomain(email)
	companyClean := normalizeCompany(companyName)

	// Perfect match: email domain equals the job posting's domain
	if jobDomain != "" && emailDomain == strings.ToLower(jobDomain) {
		return 100
	}

	// Company name contained in the email domain
	flatDomain := strings.NewReplacer(".", "", "-", "").Replace(emailDomain)
	if companyClean != "" && strings.Contains(flatDomain, companyClean) {
		return 90
	}

	// Email domain label contained in the company name
	domainLabel := strings.SplitN(emailDomain, ".", 2)[0]
	if domainLabel != "" && strings.Contains(companyClean, domainLabel) {
		return 80
	}

	// Shared word between company name and domain label
	companyWords := tokenize(companyName)
	domainWords := tokenize(domainLabel)
	for word := range domainWords {
		if companyWords[word] {
			return 60
		}
	}

	// Penalize generic providers slightly, but don't block them
	if genericProviders[emailDomain] {
		return -30
	}

	// No match but not blocked either
	return 10
}

// QualityScore computes the overall 0-100 quality score for an email. A
// syntax failure or blocked domain short-circuits to 0.
func (v *Validator) QualityScore(ctx context.Context, email, companyName, jobDomain string, vctx *models.ValidationContext) int {
	if ok, _ := v.ValidateSyntax(email); !ok {
		return 0
	}
	if blocked, _ := v.CheckDomainBlocked(email); blocked {
		return 0
	}

	score := float64(syntaxPoints + notBlockedPoints)

	if hasMX, _, _ := v.VerifyMX(ctx, email); hasMX {
		score += mxPoints
	} else {
		score += mxMissingPenalty
	}

	if companyName != "" {
		score += companyMatchWeight * float64(v.MatchCompanyDomain(email, companyName, jobDomain))
	}

	prefix := utils.EmailPrefix(email)
	if containsAny(prefix, priorityPrefixKeywords) {
		score += priorityPrefixPts
	}
	if containsAny(prefix, genericPrefixKeywords) {
		score += genericPrefixPts
	}

	if vctx != nil {
		if vctx.FoundOnCareersPage {
			score += careersPageBonus
		}
		if vctx.FromJobPosting {
			score += jobPostingBonus
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return int(score)
}

// ValidateAndScore runs the full pipeline for one email and returns the
// immutable result.
func (v *Validator) ValidateAndScore(ctx context.Context, email, companyName, jobDomain string, vctx *models.ValidationContext) models.ValidationResult {
	result := models.ValidationResult{
		Email:          strings.ToLower(strings.TrimSpace(email)),
		Recommendation: models.RecommendationReject,
	}

	ok, reason := v.ValidateSyntax(email)
	if !ok {
		result.Reasons = append(result.Reasons, fmt.Sprintf("invalid syntax: %s", reason))
		return result
	}
	result.Reasons = append(result.Reasons, "valid syntax")

	blocked, blockReason := v.CheckDomainBlocked(email)
	if blocked {
		result.Reasons = append(result.Reasons, fmt.Sprintf("blocked domain: %s", blockReason))
		return result
	}
	result.Reasons = append(result.Reasons, "domain not blocked")

	hasMX, mxReason, mxRecord := v.VerifyMX(ctx, email)
	if hasMX {
		result.Reasons = append(result.Reasons, fmt.Sprintf("mx verified: %s", mxRecord))
	} else {
		result.Reasons = append(result.Reasons, fmt.Sprintf("mx issue: %s", mxReason))
	}

	score := v.QualityScore(ctx, email, companyName, jobDomain, vctx)
	result.Score = score

	switch {
	case score >= highlyRecommendedMin:
		result.IsValid = true
		result.Recommendation = models.RecommendationHighlyRecommended
		result.Reasons = append(result.Reasons, fmt.Sprintf("high quality score: %d/100", score))
	case score >= acceptableMin:
		result.IsValid = true
		result.Recommendation = models.RecommendationAcceptable
		result.Reasons = append(result.Reasons, fmt.Sprintf("acceptable score: %d/100", score))
	case score >= lowQualityMin:
		result.Recommendation = models.RecommendationLowQuality
		result.Reasons = append(result.Reasons, fmt.Sprintf("low quality score: %d/100", score))
	default:
		result.Recommendation = models.RecommendationReject
		result.Reasons = append(result.Reasons, fmt.Sprintf("poor quality score: %d/100", score))
	}

	return result
}

// BatchValidate validates every email, keeps only the valid ones, and returns
// them sorted by score descending (ties broken alphabetically so the output
// is stable).
func (v *Validator) BatchValidate(ctx context.Context, emails []string, companyName, jobDomain string) []models.ValidationResult {
	return v.BatchValidateWithEvidence(ctx, emails, companyName, jobDomain, nil)
}

// BatchValidateWithEvidence is BatchValidate with per-email context evidence,
// keyed by lowercase address, so candidates seen on hiring pages collect the
// careers-page and job-posting bonuses.
func (v *Validator) BatchValidateWithEvidence(ctx context.Context, emails []string, companyName, jobDomain string, evidence map[string]*models.ValidationContext) []models.ValidationResult {
	var results []models.ValidationResult
	for _, email := range emails {
		vctx := evidence[strings.ToLower(strings.TrimSpace(email))]
		result := v.ValidateAndScore(ctx, email, companyName, jobDomain, vctx)
		if result.IsValid {
			results = append(results, result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Email < results[j].Email
	})
	return results
}

func normalizeCompany(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func tokenize(s string) map[string]bool {
	words := make(map[string]bool)
	for _, word := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	}) {
		words[word] = true
	}
	return words
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
