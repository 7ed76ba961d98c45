// internal/analysis/comparison.go
package analysis

import (
	"strings"

	"github.com/answer-engine/aea-workflows/internal/models"
)

// Directional cue lexicon for comparison outcomes. Like the polarity lists
// this is fixed configuration: a favorable cue scores a point for whichever
// name is its subject, and the side with more points takes the sentence.
// Unfavorable cues score a point for the opposing side.
var favorableCues = map[string]bool{
	"better": true, "best": true, "superior": true, "stronger": true,
	"cheaper": true, "faster": true, "easier": true, "preferred": true,
	"wins": true, "leads": true, "excels": true, "outperforms": true,
	"beats": true, "richer": true, "smoother": true,
}

var unfavorableCues = map[string]bool{
	"worse": true, "worst": true, "inferior": true, "weaker": true,
	"pricier": true, "slower": true, "harder": true, "lags": true,
	"loses": true, "trails": true, "costlier": true, "clunkier": true,
}

// hasComparativeCue reports whether a lowercase sentence carries any
// directional comparison language.
func hasComparativeCue(lowerSentence string) bool {
	for _, token := range tokenize(lowerSentence) {
		if favorableCues[token] || unfavorableCues[token] {
			return true
		}
	}
	return false
}

// AnalyzeComparisons classifies each comparison sentence as a win, loss or
// draw for the brand. The opposing competitor is the one mentioned nearest
// the brand in the same sentence. Each directional cue credits the nearest
// preceding name in the sentence; the brand wins when it out-scores the
// competitor, loses when out-scored, and draws otherwise, including when the
// two are merely listed together with no directional cue.
func AnalyzeComparisons(text string, mentions []Mention, competitors []string) models.ComparisonStats {
	stats := models.ComparisonStats{Targets: map[string]int{}}

	seenSentences := map[string]bool{}
	for _, m := range mentions {
		sentence := sentenceAround(text, m.Start)
		lower := strings.ToLower(sentence)
		if seenSentences[lower] {
			continue
		}

		target := nearestCompetitor(lower, strings.ToLower(m.Name), competitors)
		if target == "" {
			continue
		}
		if !hasComparativeCue(lower) && !containsAny(lower, comparisonCues) {
			continue
		}
		seenSentences[lower] = true

		stats.Total++
		stats.Targets[target]++

		brandPoints, compPoints := scoreDirection(lower, strings.ToLower(m.Name), strings.ToLower(target))
		switch {
		case brandPoints > compPoints:
			stats.Wins++
		case compPoints > brandPoints:
			stats.Losses++
		default:
			stats.Draws++
		}
	}
	return stats
}

// nearestCompetitor finds the competitor named closest to the brand inside a
// lowercase sentence, or "" when none appears.
func nearestCompetitor(lowerSentence, lowerBrand string, competitors []string) string {
	brandIdx := strings.Index(lowerSentence, lowerBrand)
	best := ""
	bestDist := -1
	for _, c := range competitors {
		needle := strings.ToLower(strings.TrimSpace(c))
		if needle == "" || !containsWord(lowerSentence, needle) {
			continue
		}
		idx := strings.Index(lowerSentence, needle)
		dist := idx - brandIdx
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best = c
			bestDist = dist
		}
	}
	return best
}

// scoreDirection walks the sentence's directional cues and credits each to
// the nearest preceding name. A favorable cue is a point for its subject; an
// unfavorable cue is a point for the opposing side.
func scoreDirection(lowerSentence, lowerBrand, lowerTarget string) (brandPoints, compPoints int) {
	brandOffsets := wordOffsets(lowerSentence, lowerBrand)
	targetOffsets := wordOffsets(lowerSentence, lowerTarget)

	offset := 0
	for _, token := range strings.Fields(lowerSentence) {
		idx := strings.Index(lowerSentence[offset:], token)
		tokenStart := offset + idx
		offset = tokenStart + len(token)

		word := strings.Trim(token, ".,;:!?()'\"")
		favorable := favorableCues[word]
		unfavorable := unfavorableCues[word]
		if !favorable && !unfavorable {
			continue
		}

		subjectIsBrand, ok := nearestPrecedingSubject(tokenStart, brandOffsets, targetOffsets)
		if !ok {
			continue
		}
		if favorable == subjectIsBrand {
			brandPoints++
		} else {
			compPoints++
		}
	}
	return brandPoints, compPoints
}

// wordOffsets collects word-boundary occurrence offsets of needle.
func wordOffsets(haystack, needle string) []int {
	var offsets []int
	from := 0
	for {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return offsets
		}
		start := from + idx
		if wordBoundary(haystack, start, start+len(needle)) {
			offsets = append(offsets, start)
		}
		from = start + 1
	}
}

// nearestPrecedingSubject resolves which name a cue refers to: the closest
// brand or target occurrence before the cue, falling back to the closest one
// anywhere in the sentence.
func nearestPrecedingSubject(cuePos int, brandOffsets, targetOffsets []int) (isBrand, ok bool) {
	bestDist := -1
	found := false
	pick := func(offsets []int, brand bool) {
		for _, o := range offsets {
			if o >= cuePos {
				continue
			}
			dist := cuePos - o
			if bestDist < 0 || dist < bestDist {
				bestDist = dist
				isBrand = brand
				found = true
			}
		}
	}
	pick(brandOffsets, true)
	pick(targetOffsets, false)
	if found {
		return isBrand, true
	}

	// No preceding name ("better than Acme is HubSpot" style phrasing):
	// fall back to whichever name sits closest after the cue.
	pickAfter := func(offsets []int, brand bool) {
		for _, o := range offsets {
			dist := o - cuePos
			if dist < 0 {
				continue
			}
			if bestDist < 0 || dist < bestDist {
				bestDist = dist
				isBrand = brand
				found = true
			}
		}
	}
	pickAfter(brandOffsets, true)
	pickAfter(targetOffsets, false)
	return isBrand, found
}
