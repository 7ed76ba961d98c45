// internal/analysis/aspects.go
package analysis

import (
	"strings"

	"github.com/answer-engine/aea-workflows/internal/models"
)

// The seven product aspects sentiment is attributed to. Order is fixed and
// doubles as the dominant-aspect tie break.
var AspectOrder = []string{
	"pricing", "features", "support", "ease_of_use",
	"performance", "integration", "security",
}

// Curated keyword sets per aspect. Matching is word-boundary,
// case-insensitive, against clauses of sentences that mention the brand.
var aspectKeywords = map[string][]string{
	"pricing": {
		"price", "prices", "pricing", "cost", "costs", "cheap", "cheaper",
		"cheapest", "expensive", "affordable", "plan", "plans",
		"subscription", "pricey", "overpriced", "budget", "fee", "fees",
	},
	"features": {
		"feature", "features", "functionality", "capability", "capabilities",
		"tool", "tools", "option", "options", "customization", "templates",
	},
	"support": {
		"support", "customer service", "help desk", "helpdesk",
		"documentation", "docs", "onboarding", "response time", "community",
	},
	"ease_of_use": {
		"easy", "easier", "ease", "intuitive", "user-friendly", "simple",
		"straightforward", "learning curve", "usability", "interface", "ui",
	},
	"performance": {
		"performance", "speed", "fast", "faster", "slow", "slower",
		"latency", "uptime", "reliability", "reliable", "stable", "scalable",
	},
	"integration": {
		"integration", "integrations", "integrate", "integrates", "api",
		"apis", "connector", "connectors", "plugin", "plugins", "webhook",
		"webhooks", "sync", "ecosystem",
	},
	"security": {
		"security", "secure", "privacy", "encryption", "encrypted",
		"compliance", "compliant", "gdpr", "soc2", "audit", "sso",
	},
}

// maxAspectEvidence caps the verbatim snippets stored per aspect.
const maxAspectEvidence = 2

// Clause separators that flip topic mid-sentence. Splitting on them keeps
// "cheaper but worse support" from bleeding one clause's polarity into the
// other.
var contrastSeparators = []string{
	" but ", " however ", " although ", " though ", " while ", " whereas ", "; ",
}

// AnalyzeAspects attributes sentiment to each of the fixed aspects, looking
// only at sentences that mention the brand. Sentences split into clauses on
// contrast conjunctions; a clause naming only a competitor has its polarity
// inverted, since praise of a rival reads negative for the brand. Aspects
// with no matched clause are omitted. The dominant aspect is the emitted
// entry with the most matched clauses, ties resolved by aspect order.
func AnalyzeAspects(text string, mentions []Mention, brandName string, aliases, competitors []string) ([]models.AspectSentiment, *string) {
	if len(mentions) == 0 {
		return nil, nil
	}

	brandNames := make([]string, 0, len(aliases)+1)
	if strings.TrimSpace(brandName) != "" {
		brandNames = append(brandNames, strings.ToLower(brandName))
	}
	for _, a := range aliases {
		if strings.TrimSpace(a) != "" {
			brandNames = append(brandNames, strings.ToLower(a))
		}
	}

	type accumulator struct {
		sum      float64
		count    int
		evidence []string
	}
	acc := map[string]*accumulator{}

	seenSentences := map[string]bool{}
	for _, m := range mentions {
		sentence := sentenceAround(text, m.Start)
		lower := strings.ToLower(sentence)
		if sentence == "" || seenSentences[lower] {
			continue
		}
		seenSentences[lower] = true

		for _, clause := range splitClauses(sentence) {
			lowerClause := strings.ToLower(clause)

			score := ScoreText(clause)
			if !namesAny(lowerClause, brandNames) && namesAnyCompetitor(lowerClause, competitors) {
				score = -score
			}

			for _, aspect := range AspectOrder {
				if !matchesAspect(lowerClause, aspectKeywords[aspect]) {
					continue
				}
				a := acc[aspect]
				if a == nil {
					a = &accumulator{}
					acc[aspect] = a
				}
				a.sum += score
				a.count++
				if len(a.evidence) < maxAspectEvidence {
					a.evidence = append(a.evidence, strings.TrimSpace(clause))
				}
			}
		}
	}

	var results []models.AspectSentiment
	var dominant *string
	dominantCount := 0
	for _, aspect := range AspectOrder {
		a := acc[aspect]
		if a == nil {
			continue
		}
		score := clamp(a.sum/float64(a.count), -1, 1)
		results = append(results, models.AspectSentiment{
			Aspect:       aspect,
			Label:        SentimentLabel(score),
			Score:        score,
			Evidence:     a.evidence,
			MentionCount: a.count,
		})
		if a.count > dominantCount {
			name := aspect
			dominant = &name
			dominantCount = a.count
		}
	}
	return results, dominant
}

// splitClauses breaks a sentence apart on contrast conjunctions.
func splitClauses(sentence string) []string {
	clauses := []string{sentence}
	for _, sep := range contrastSeparators {
		var next []string
		for _, c := range clauses {
			lower, back := foldOffsets(c)
			from, origFrom := 0, 0
			for {
				idx := strings.Index(lower[from:], sep)
				if idx < 0 {
					next = append(next, c[origFrom:])
					break
				}
				start := from + idx
				next = append(next, c[origFrom:back[start]])
				from = start + len(sep)
				origFrom = back[from]
			}
		}
		clauses = next
	}
	out := clauses[:0]
	for _, c := range clauses {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}

func matchesAspect(lowerClause string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(kw, " ") || strings.Contains(kw, "-") {
			if strings.Contains(lowerClause, kw) {
				return true
			}
			continue
		}
		if containsWord(lowerClause, kw) {
			return true
		}
	}
	return false
}

func namesAny(lowerClause string, lowerNames []string) bool {
	for _, n := range lowerNames {
		if containsWord(lowerClause, n) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
