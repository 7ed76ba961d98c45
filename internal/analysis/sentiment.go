// internal/analysis/sentiment.go
package analysis

import (
	"strings"
	"unicode"

	"github.com/answer-engine/aea-workflows/internal/models"
)

// Sentiment labels and the score thresholds that produce them. A score above
// positiveThreshold labels positive, below negativeThreshold negative,
// anything between is neutral. The same thresholds label aspect scores.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"

	positiveThreshold = 0.2
	negativeThreshold = -0.2
)

// mentionContextWindow is the span of characters on each side of a mention
// that contributes to its sentiment.
const mentionContextWindow = 100

// negationLookback is how many tokens before a polarity word we scan for a
// negator that flips it.
const negationLookback = 3

// Polarity lexicons. These are tuned configuration, not derived rules: the
// positive set covers praise, endorsement and favorable comparatives, the
// negative set criticism and unfavorable comparatives.
var positiveWords = map[string]bool{
	"good": true, "great": true, "excellent": true, "amazing": true,
	"wonderful": true, "fantastic": true, "best": true, "love": true,
	"loved": true, "recommend": true, "recommended": true, "reliable": true,
	"easy": true, "fast": true, "faster": true, "efficient": true,
	"professional": true, "quality": true, "impressive": true,
	"outstanding": true, "superb": true, "perfect": true, "brilliant": true,
	"top": true, "leading": true, "innovative": true, "powerful": true,
	"useful": true, "helpful": true, "effective": true, "affordable": true,
	"better": true, "superior": true, "cheaper": true, "stronger": true,
	"easier": true, "preferred": true, "robust": true, "seamless": true,
	"intuitive": true, "responsive": true, "secure": true,
}

var negativeWords = map[string]bool{
	"bad": true, "terrible": true, "awful": true, "horrible": true,
	"poor": true, "worst": true, "hate": true, "disappointing": true,
	"disappointed": true, "unreliable": true, "expensive": true,
	"slow": true, "slower": true, "difficult": true, "complicated": true,
	"frustrating": true, "annoying": true, "confusing": true, "buggy": true,
	"broken": true, "useless": true, "overpriced": true, "lacking": true,
	"mediocre": true, "subpar": true, "avoid": true, "scam": true,
	"waste": true, "problems": true, "issues": true, "worse": true,
	"inferior": true, "weaker": true, "pricier": true, "harder": true,
	"clunky": true, "limited": true,
}

var negationWords = map[string]bool{
	"not": true, "no": true, "never": true, "neither": true,
	"nobody": true, "nothing": true, "without": true, "hardly": true,
}

// tokenize lowercases text and splits it into word tokens, keeping
// apostrophes inside words so contractions survive ("doesn't").
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// isNegator reports whether a token negates what follows it. Contractions
// ending in "n't" count.
func isNegator(token string) bool {
	return negationWords[token] || strings.HasSuffix(token, "n't")
}

// ScoreText computes the lexical polarity of a text span in [-1,1]:
// (positive hits - negative hits) / total hits, with a negator within the
// preceding 3 tokens flipping a hit's polarity. Zero hits score 0.
func ScoreText(text string) float64 {
	tokens := tokenize(text)
	positive, negative := 0, 0

	for i, token := range tokens {
		negated := false
		for j := i - 1; j >= 0 && j >= i-negationLookback; j-- {
			if isNegator(tokens[j]) {
				negated = true
				break
			}
		}
		switch {
		case positiveWords[token]:
			if negated {
				negative++
			} else {
				positive++
			}
		case negativeWords[token]:
			if negated {
				positive++
			} else {
				negative++
			}
		}
	}

	total := positive + negative
	if total == 0 {
		return 0
	}
	return float64(positive-negative) / float64(total)
}

// SentimentLabel maps a score to its label under the fixed thresholds.
func SentimentLabel(score float64) string {
	switch {
	case score > positiveThreshold:
		return SentimentPositive
	case score < negativeThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// ScoreMentions computes response-level sentiment: the mean of per-mention
// context-window scores. Zero mentions score 0.0 with label neutral.
func ScoreMentions(text string, mentions []Mention) (float64, string) {
	if len(mentions) == 0 {
		return 0, SentimentNeutral
	}
	sum := 0.0
	for _, m := range mentions {
		sum += ScoreText(contextWindow(text, m))
	}
	score := sum / float64(len(mentions))
	return score, SentimentLabel(score)
}

// contextWindow slices the fixed-span neighborhood around one mention.
func contextWindow(text string, m Mention) string {
	start := m.Start - mentionContextWindow
	if start < 0 {
		start = 0
	}
	end := m.End + mentionContextWindow
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

// Phrase cues for mention-type classification.
var (
	recommendationCues = []string{
		"recommend", "best choice", "go with", "top pick", "great option",
		"ideal for", "best option", "should try", "worth trying",
	}
	criticismCues = []string{
		"avoid", "too expensive", "lacking", "falls short", "not worth",
		"stay away", "disappointing", "major drawback", "downside",
	}
	comparisonCues = []string{
		"vs", "versus", "compared to", "comparison", "better than",
		"worse than", "cheaper than", "alternative to", "instead of",
	}
	featureCues = []string{
		"feature", "integration", "api", "dashboard", "analytics",
		"automation", "reporting", "capability", "supports", "offers",
	}
)

// ClassifyMentions assigns each brand mention exactly one type so the
// breakdown counts sum to the mention count. Priority when several cues
// match: comparison > criticism > recommendation > feature_highlight >
// neutral. A comparison additionally requires a competitor name inside the
// mention's sentence.
func ClassifyMentions(text string, mentions []Mention, competitors []string) models.MentionTypeBreakdown {
	var breakdown models.MentionTypeBreakdown
	for _, m := range mentions {
		window := strings.ToLower(contextWindow(text, m))
		sentence := strings.ToLower(sentenceAround(text, m.Start))
		switch {
		case namesAnyCompetitor(sentence, competitors) && (containsAny(sentence, comparisonCues) || hasComparativeCue(sentence)):
			breakdown.Comparison++
		case containsAny(window, criticismCues):
			breakdown.Criticism++
		case containsAny(window, recommendationCues):
			breakdown.Recommendation++
		case containsAny(window, featureCues):
			breakdown.FeatureHighlight++
		default:
			breakdown.Neutral++
		}
	}
	return breakdown
}

func containsAny(lower string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

func namesAnyCompetitor(lowerSentence string, competitors []string) bool {
	for _, c := range competitors {
		c = strings.TrimSpace(c)
		if c != "" && containsWord(lowerSentence, strings.ToLower(c)) {
			return true
		}
	}
	return false
}

// sentenceAround returns the sentence containing byte offset pos, delimited
// by sentence terminators or newlines.
func sentenceAround(text string, pos int) string {
	if pos > len(text) {
		pos = len(text)
	}
	start := pos
	for start > 0 && !isSentenceBreak(text[start-1]) {
		start--
	}
	end := pos
	for end < len(text) && !isSentenceBreak(text[end]) {
		end++
	}
	return strings.TrimSpace(text[start:end])
}

func isSentenceBreak(b byte) bool {
	return b == '.' || b == '!' || b == '?' || b == '\n'
}
