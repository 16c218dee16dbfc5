package models_test

import (
	"testing"

	"jobreach-utils/pkg/models"
)

func TestContentHash_StableAcrossCaseAndWhitespace(t *testing.T) {
	a := models.JobRecord{CompanyName: "Acme Widgets", Title: "Go Engineer"}
	b := models.JobRecord{CompanyName: "  ACME WIDGETS ", Title: "go engineer"}
	if a.ContentHash() != b.ContentHash() {
		t.Error("ContentHash should be case and whitespace insensitive")
	}
}

func TestContentHash_DistinguishesRecords(t *testing.T) {
	base := models.JobRecord{CompanyName: "Acme Widgets", Title: "Go Engineer"}
	cases := []models.JobRecord{
		{CompanyName: "Acme Widgets", Title: "Rust Engineer"},
		{CompanyName: "Other Corp", Title: "Go Engineer"},
		{CompanyName: "Acme Widgets", Title: "Go Engineer", SourceURL: "https://acmewidgets.com/jobs/1"},
	}
	for _, c := range cases {
		if base.ContentHash() == c.ContentHash() {
			t.Errorf("ContentHash collision between %+v and %+v", base, c)
		}
	}
}

func TestContentHash_FieldBoundaries(t *testing.T) {
	// The separator must keep "ab"+"c" distinct from "a"+"bc"
	a := models.JobRecord{CompanyName: "ab", Title: "c"}
	b := models.JobRecord{CompanyName: "a", Title: "bc"}
	if a.ContentHash() == b.ContentHash() {
		t.Error("ContentHash collapsed adjacent fields")
	}
}

func TestRecommendation_Usable(t *testing.T) {
	cases := []struct {
		rec  models.Recommendation
		want bool
	}{
		{models.RecommendationHighlyRecommended, true},
		{models.RecommendationAcceptable, true},
		{models.RecommendationLowQuality, false},
		{models.RecommendationReject, false},
	}
	for _, c := range cases {
		if got := c.rec.Usable(); got != c.want {
			t.Errorf("%s.Usable() = %v, want %v", c.rec, got, c.want)
		}
	}
}
