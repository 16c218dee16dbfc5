package utils_test

import (
	"testing"
	"time"

	"jobreach-utils/pkg/utils"
)

func TestHostnameFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.acmewidgets.com/jobs/42", "www.acmewidgets.com"},
		{"http://ACMEWIDGETS.COM", "acmewidgets.com"},
		{"https://acmewidgets.com:8443/careers", "acmewidgets.com"},
		{"not a url at all://", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := utils.HostnameFromURL(c.url); got != c.want {
			t.Errorf("HostnameFromURL(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestStripWWW(t *testing.T) {
	cases := []struct {
		host string
		want string
	}{
		{"www.acmewidgets.com", "acmewidgets.com"},
		{"acmewidgets.com", "acmewidgets.com"},
		{"WWW.ACMEWIDGETS.COM", "acmewidgets.com"},
		{"wwwacmewidgets.com", "wwwacmewidgets.com"},
	}
	for _, c := range cases {
		if got := utils.StripWWW(c.host); got != c.want {
			t.Errorf("StripWWW(%q) = %q, want %q", c.host, got, c.want)
		}
	}
}

func TestEmailDomain(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"careers@AcmeWidgets.com", "acmewidgets.com"},
		{"no-at-sign", ""},
		{"trailing@", ""},
	}
	for _, c := range cases {
		if got := utils.EmailDomain(c.email); got != c.want {
			t.Errorf("EmailDomain(%q) = %q, want %q", c.email, got, c.want)
		}
	}
}

func TestEmailPrefix(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"Careers@acmewidgets.com", "careers"},
		{"no-at-sign", "no-at-sign"},
	}
	for _, c := range cases {
		if got := utils.EmailPrefix(c.email); got != c.want {
			t.Errorf("EmailPrefix(%q) = %q, want %q", c.email, got, c.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "500ms"},
		{2500 * time.Millisecond, "2.50s"},
		{90 * time.Second, "1.5m"},
		{2 * time.Hour, "2.0h"},
	}
	for _, c := range cases {
		if got := utils.FormatDuration(c.d); got != c.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestContains(t *testing.T) {
	engines := []string{"native", "firecrawl", "auto"}
	if !utils.Contains(engines, "firecrawl") {
		t.Error("Contains() = false for a present element")
	}
	if utils.Contains(engines, "chromium") {
		t.Error("Contains() = true for an absent element")
	}
	if utils.Contains(nil, "native") {
		t.Error("Contains(nil, ...) = true")
	}
}

func TestGetStringOrDefault(t *testing.T) {
	if got := utils.GetStringOrDefault("firecrawl", "native"); got != "firecrawl" {
		t.Errorf("GetStringOrDefault(set) = %q, want firecrawl", got)
	}
	if got := utils.GetStringOrDefault("", "native"); got != "native" {
		t.Errorf("GetStringOrDefault(empty) = %q, want the default", got)
	}
}

func TestGenerateRequestID_Unique(t *testing.T) {
	a := utils.GenerateRequestID()
	b := utils.GenerateRequestID()
	if a == "" || a == b {
		t.Errorf("GenerateRequestID() produced %q and %q, want distinct non-empty IDs", a, b)
	}
}
