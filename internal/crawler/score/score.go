// Package score assigns page-level relevance scores to emails discovered
// during a crawl. The values here are tuned weights, not derived ones; the
// validator applies the authoritative quality gate later, so this score only
// ranks candidates within one crawl run.
package score

import (
	"strings"

	"jobreach-utils/pkg/utils"
)

// domainMatchBonus is awarded when the email's domain belongs to the site
// being crawled.
const domainMatchBonus = 50

// spamPenalty dominates every possible bonus so auto-reply addresses always
// land at zero.
const spamPenalty = -100

const freeProviderPenalty = -10

const contextKeywordBonus = 3

type prefixKeyword struct {
	keyword string
	points  int
}

// prefixKeywords is ordered by priority: only the first (highest-value)
// matching entry is awarded.
var prefixKeywords = []prefixKeyword{
	{"careers", 30},
	{"jobs", 30},
	{"hr", 25},
	{"hiring", 25},
	{"recruiting", 20},
	{"talent", 15},
	{"contact", 15},
	{"hello", 10},
	{"info", 10},
	{"admin", 5},
	{"support", 5},
}

var contextKeywords = []string{
	"career",
	"job",
	"hiring",
	"recruit",
	"contact",
	"about",
	"team",
	"apply",
}

var spamIndicators = []string{"noreply", "no-reply", "donotreply", "webmaster"}

var freeProviders = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"outlook.com": true,
	"hotmail.com": true,
}

// Relevance scores one email sighting against the target domain and the page
// it was found on. Scores are accumulated across pages by the crawler, so the
// result has a floor of zero but no ceiling.
func Relevance(email, domain, pageURL, pageText string) int {
	email = strings.ToLower(email)
	prefix := utils.EmailPrefix(email)
	emailDomain := utils.StripWWW(utils.EmailDomain(email))
	targetDomain := utils.StripWWW(strings.ToLower(domain))

	total := 0

	if targetDomain != "" && (emailDomain == targetDomain || strings.Contains(targetDomain, emailDomain)) {
		total += domainMatchBonus
	}

	for _, entry := range prefixKeywords {
		if strings.Contains(prefix, entry.keyword) {
			total += entry.points
			break
		}
	}

	pageContext := strings.ToLower(pageURL + " " + pageText)
	for _, keyword := range contextKeywords {
		if strings.Contains(pageContext, keyword) {
			total += contextKeywordBonus
		}
	}

	for _, indicator := range spamIndicators {
		if strings.Contains(prefix, indicator) {
			total += spamPenalty
			break
		}
	}

	if freeProviders[emailDomain] {
		total += freeProviderPenalty
	}

	if total < 0 {
		return 0
	}
	return total
}
