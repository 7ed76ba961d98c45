package analysis_test

import (
	"testing"

	"github.com/answer-engine/aea-workflows/internal/analysis"
	"github.com/answer-engine/aea-workflows/internal/models"
)

var acme = analysis.BrandProfile{
	Name:        "Acme Corp",
	Domain:      "acme.com",
	Aliases:     []string{"Acme"},
	Competitors: []string{"Salesforce", "HubSpot"},
}

func TestAnalyzeRankedListScenario(t *testing.T) {
	text := "1. Salesforce\n2. Acme Corp – great support\n3. HubSpot"
	result := analysis.Analyze(text, nil, acme)

	if !result.BrandMentioned || result.MentionCount != 1 {
		t.Errorf("mentioned=%v count=%d, want true/1", result.BrandMentioned, result.MentionCount)
	}
	if result.Position == nil || *result.Position != 2 {
		t.Errorf("position = %v, want 2", result.Position)
	}
	if result.TotalRecommendations != 3 {
		t.Errorf("total recommendations = %d, want 3", result.TotalRecommendations)
	}
	if result.SentimentLabel != "positive" {
		t.Errorf("sentiment = %s, want positive", result.SentimentLabel)
	}
	if result.CompetitorMentions["Salesforce"] != 1 || result.CompetitorMentions["HubSpot"] != 1 {
		t.Errorf("competitor mentions = %v", result.CompetitorMentions)
	}
}

func TestAnalyzeNoMentionInvariant(t *testing.T) {
	texts := []string{
		"",
		"Nothing about the tracked company at all.",
		"1. Salesforce\n2. HubSpot",
	}
	for _, text := range texts {
		result := analysis.Analyze(text, nil, acme)
		if result.BrandMentioned {
			t.Errorf("text %q: brand_mentioned = true, want false", text)
		}
		if result.MentionCount != 0 {
			t.Errorf("text %q: mention_count = %d, want 0", text, result.MentionCount)
		}
		if result.Position != nil {
			t.Errorf("text %q: position = %v, want nil when never mentioned", text, *result.Position)
		}
		if result.SentimentScore != 0 || result.SentimentLabel != "neutral" {
			t.Errorf("text %q: sentiment = (%v, %s), want (0, neutral)", text, result.SentimentScore, result.SentimentLabel)
		}
	}
}

func TestAnalyzeBreakdownSumsToMentionCount(t *testing.T) {
	texts := []string{
		"I recommend Acme Corp. Acme is cheaper than HubSpot. Acme Corp was founded long ago.",
		"Avoid Acme, the dashboard feature set is lacking.",
		"Acme versus Salesforce: Acme wins on pricing but Salesforce has a richer API.",
	}
	for _, text := range texts {
		result := analysis.Analyze(text, nil, acme)
		if result.MentionTypes.Total() != result.MentionCount {
			t.Errorf("text %q: breakdown total %d != mention count %d",
				text, result.MentionTypes.Total(), result.MentionCount)
		}
		sum := result.ComparisonStats.Wins + result.ComparisonStats.Losses + result.ComparisonStats.Draws
		if sum != result.ComparisonStats.Total {
			t.Errorf("text %q: w+l+d = %d != total %d", text, sum, result.ComparisonStats.Total)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	text := "Acme versus Salesforce: Acme wins on pricing but Salesforce has a richer API. See https://g2.com/reviews/acme and https://techcrunch.com/story."
	first := analysis.Analyze(text, nil, acme)
	for i := 0; i < 5; i++ {
		again := analysis.Analyze(text, nil, acme)
		if again.MentionCount != first.MentionCount ||
			again.SentimentScore != first.SentimentScore ||
			len(again.Citations) != len(first.Citations) ||
			len(again.AspectSentiments) != len(first.AspectSentiments) {
			t.Fatalf("run %d differs from first run", i)
		}
		for j := range first.AspectSentiments {
			if again.AspectSentiments[j].Aspect != first.AspectSentiments[j].Aspect {
				t.Fatalf("aspect order differs between runs")
			}
		}
	}
}

func TestFailedResult(t *testing.T) {
	result := analysis.FailedResult()
	if result.BrandMentioned || result.MentionCount != 0 || result.Position != nil {
		t.Error("failed placeholder must zero all mention figures")
	}
	if result.SentimentLabel != "neutral" || result.SentimentScore != 0 {
		t.Error("failed placeholder must be neutral")
	}
	if result.ComparisonStats.Total != 0 {
		t.Error("failed placeholder must carry empty comparison stats")
	}
	if len(result.Citations) != 0 {
		t.Error("failed placeholder must carry no citations")
	}
}

func TestAnalyzeWithHints(t *testing.T) {
	text := "Acme Corp leads most evaluations this cycle."
	hints := []models.CitationHint{
		{URL: "https://www.g2.com/reviews/acme-corp", Title: "Acme Corp Reviews"},
		{URL: "https://forbes.com/acme-profile", Title: "Profile"},
	}
	result := analysis.Analyze(text, hints, acme)

	if len(result.Citations) != 2 {
		t.Fatalf("citations = %d, want 2 from hints", len(result.Citations))
	}
	if result.Citations[0].SourceType != "review_site" || result.Citations[0].AuthorityScore != 0.95 {
		t.Errorf("first citation = %+v, want g2 review_site at 0.95", result.Citations[0])
	}
	if !result.Citations[0].BrandAttributed {
		t.Error("hint with brand name in title must be brand attributed")
	}
}
