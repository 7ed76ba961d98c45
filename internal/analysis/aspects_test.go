package analysis_test

import (
	"testing"

	"github.com/answer-engine/aea-workflows/internal/analysis"
	"github.com/answer-engine/aea-workflows/internal/models"
)

func aspectByName(entries []models.AspectSentiment, name string) *models.AspectSentiment {
	for i := range entries {
		if entries[i].Aspect == name {
			return &entries[i]
		}
	}
	return nil
}

func TestAnalyzeAspectsContrastClauses(t *testing.T) {
	text := "Acme is cheaper but HubSpot has better integrations."
	report := analysis.LocateMentions(text, "Acme", nil, []string{"HubSpot"})

	aspects, dominant := analysis.AnalyzeAspects(text, report.BrandMentions, "Acme", nil, []string{"HubSpot"})

	pricing := aspectByName(aspects, "pricing")
	if pricing == nil {
		t.Fatal("expected a pricing entry")
	}
	if pricing.Label != "positive" {
		t.Errorf("pricing label = %s, want positive (cheaper favors the brand)", pricing.Label)
	}

	integration := aspectByName(aspects, "integration")
	if integration == nil {
		t.Fatal("expected an integration entry")
	}
	if integration.Label != "negative" {
		t.Errorf("integration label = %s, want negative (praise of the rival reads negative)", integration.Label)
	}

	if dominant == nil || *dominant != "pricing" {
		t.Errorf("dominant = %v, want pricing by tie-break order", dominant)
	}
}

func TestAnalyzeAspectsContrastClausesNonASCII(t *testing.T) {
	// Runes whose lowercase form has a different byte length must not shift
	// the clause boundaries around the conjunction.
	text := "ȺȺȺȺȺȺȺȺ según el análisis, Acme is cheaper but HubSpot has better integrations."
	report := analysis.LocateMentions(text, "Acme", nil, []string{"HubSpot"})

	aspects, _ := analysis.AnalyzeAspects(text, report.BrandMentions, "Acme", nil, []string{"HubSpot"})

	pricing := aspectByName(aspects, "pricing")
	if pricing == nil {
		t.Fatal("expected a pricing entry")
	}
	if pricing.Label != "positive" {
		t.Errorf("pricing label = %s, want positive", pricing.Label)
	}

	integration := aspectByName(aspects, "integration")
	if integration == nil {
		t.Fatal("expected an integration entry")
	}
	if integration.Label != "negative" {
		t.Errorf("integration label = %s, want negative", integration.Label)
	}
}

func TestAnalyzeAspectsOnlyBrandSentences(t *testing.T) {
	text := "Salesforce pricing is steep. Acme has responsive support and clear documentation."
	report := analysis.LocateMentions(text, "Acme", nil, []string{"Salesforce"})

	aspects, dominant := analysis.AnalyzeAspects(text, report.BrandMentions, "Acme", nil, []string{"Salesforce"})

	if aspectByName(aspects, "pricing") != nil {
		t.Error("pricing entry should not exist, the pricing sentence never mentions the brand")
	}
	support := aspectByName(aspects, "support")
	if support == nil {
		t.Fatal("expected a support entry")
	}
	if support.Label != "positive" {
		t.Errorf("support label = %s, want positive", support.Label)
	}
	if len(support.Evidence) == 0 || len(support.Evidence) > 2 {
		t.Errorf("evidence count = %d, want 1 or 2", len(support.Evidence))
	}
	if dominant == nil || *dominant != "support" {
		t.Errorf("dominant = %v, want support", dominant)
	}
}

func TestAnalyzeAspectsValidSetAndRange(t *testing.T) {
	valid := map[string]bool{}
	for _, a := range analysis.AspectOrder {
		valid[a] = true
	}

	text := "Acme pricing is affordable. Acme security relies on encryption and the API integration is seamless. Performance is fast but the interface is confusing."
	report := analysis.LocateMentions(text, "Acme", nil, nil)
	aspects, _ := analysis.AnalyzeAspects(text, report.BrandMentions, "Acme", nil, nil)

	if len(aspects) == 0 {
		t.Fatal("expected aspect entries")
	}
	for _, a := range aspects {
		if !valid[a.Aspect] {
			t.Errorf("aspect %q is outside the fixed set", a.Aspect)
		}
		if a.Score < -1 || a.Score > 1 {
			t.Errorf("aspect %s score %v out of [-1,1]", a.Aspect, a.Score)
		}
		if a.MentionCount <= 0 {
			t.Errorf("aspect %s emitted with zero evidence", a.Aspect)
		}
	}
}

func TestAnalyzeAspectsNoMentions(t *testing.T) {
	aspects, dominant := analysis.AnalyzeAspects("Pricing everywhere is up this year.", nil, "Acme", nil, nil)
	if aspects != nil || dominant != nil {
		t.Errorf("got (%v, %v), want no aspects without brand mentions", aspects, dominant)
	}
}
