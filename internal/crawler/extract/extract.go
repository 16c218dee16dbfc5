// Package extract pulls syntactically plausible email addresses out of raw
// text or HTML. It is pure string processing: no I/O, no errors, malformed
// input just yields an empty result.
package extract

import (
	"regexp"
	"sort"
	"strings"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// noiseMarkers filters out matches that are obviously not contact addresses:
// auto-reply prefixes, placeholder and platform domains, tracking endpoints,
// and asset filenames that happen to look like emails in minified HTML.
var noiseMarkers = []string{
	"noreply",
	"no-reply",
	"donotreply",
	"example.com",
	"example.org",
	"test.com",
	"email.com",
	"yourdomain",
	"yoursite",
	"sentry.io",
	"sentry-next.wixpress.com",
	"wixpress.com",
	"cloudfront.net",
	"unsubscribe",
	".png",
	".jpg",
	".jpeg",
	".gif",
	".svg",
	".webp",
	".css",
	".woff",
}

// Emails extracts the deduplicated set of plausible email addresses from the
// given text, lowercased and sorted for deterministic output.
func Emails(text string) []string {
	if text == "" {
		return nil
	}

	seen := make(map[string]bool)
	for _, match := range emailPattern.FindAllString(text, -1) {
		email := strings.ToLower(strings.Trim(match, "."))
		if isNoise(email) || seen[email] {
			continue
		}
		seen[email] = true
	}

	if len(seen) == 0 {
		return nil
	}

	emails := make([]string, 0, len(seen))
	for email := range seen {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	return emails
}

func isNoise(email string) bool {
	for _, marker := range noiseMarkers {
		if strings.Contains(email, marker) {
			return true
		}
	}
	return false
}
