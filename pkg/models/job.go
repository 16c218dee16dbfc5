package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// JobRecord represents a job posting handed to the discovery pipeline by the
// job-scraping collaborator. Only these fields are consumed by the finder;
// anything else the scraper collects stays upstream.
type JobRecord struct {
	Title       string   `json:"title"`
	CompanyName string   `json:"company_name"`
	Description string   `json:"description,omitempty"`
	Platform    string   `json:"platform,omitempty"`
	SourceURL   string   `json:"source_url,omitempty"`
	Skills      []string `json:"skills,omitempty"`
}

// ContentHash returns a stable identity for the record. The disposition log
// is keyed by this hash so re-scraped duplicates collapse onto one entry.
func (j JobRecord) ContentHash() string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(j.CompanyName))))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(strings.TrimSpace(j.Title))))
	h.Write([]byte{0})
	h.Write([]byte(j.SourceURL))
	return hex.EncodeToString(h.Sum(nil))
}
