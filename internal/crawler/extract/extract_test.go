package extract_test

import (
	"reflect"
	"testing"

	"jobreach-utils/internal/crawler/extract"
)

func TestEmails_Basic(t *testing.T) {
	got := extract.Emails("Reach us at careers@acmewidgets.com for roles.")
	want := []string{"careers@acmewidgets.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Emails() = %v, want %v", got, want)
	}
}

func TestEmails_LowercasesAndDeduplicates(t *testing.T) {
	got := extract.Emails("CAREERS@AcmeWidgets.com and careers@acmewidgets.com")
	want := []string{"careers@acmewidgets.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Emails() = %v, want %v", got, want)
	}
}

func TestEmails_SortedOutput(t *testing.T) {
	got := extract.Emails("hr@acmewidgets.com careers@acmewidgets.com info@acmewidgets.com")
	want := []string{"careers@acmewidgets.com", "hr@acmewidgets.com", "info@acmewidgets.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Emails() = %v, want %v", got, want)
	}
}

func TestEmails_TrimsTrailingDot(t *testing.T) {
	got := extract.Emails("Write to info@acmewidgets.com.")
	want := []string{"info@acmewidgets.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Emails() = %v, want %v", got, want)
	}
}

func TestEmails_FiltersNoise(t *testing.T) {
	noisy := []string{
		"noreply@acmewidgets.com",
		"no-reply@acmewidgets.com",
		"someone@example.com",
		"user@test.com",
		"icon@2x.png",
		"logo@3x.svg",
		"alerts@o1234.ingest.sentry.io",
	}
	for _, input := range noisy {
		if got := extract.Emails(input); got != nil {
			t.Errorf("Emails(%q) = %v, want nil (noise should be filtered)", input, got)
		}
	}
}

func TestEmails_EmptyAndGarbageInput(t *testing.T) {
	inputs := []string{"", "no emails here", "@@@", "almost@an@email"}
	for _, input := range inputs {
		if got := extract.Emails(input); got != nil {
			t.Errorf("Emails(%q) = %v, want nil", input, got)
		}
	}
}

func TestEmails_MixedSignalAndNoise(t *testing.T) {
	text := "Contact careers@acmewidgets.com, not noreply@acmewidgets.com or pic@2x.jpg"
	got := extract.Emails(text)
	want := []string{"careers@acmewidgets.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Emails() = %v, want %v", got, want)
	}
}
