// internal/analysis/mentions.go
package analysis

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mention is one located occurrence of a tracked name in response text.
// Start and End are byte offsets into the original text, so slicing the
// original with them always yields the matched occurrence.
type Mention struct {
	Name    string // canonical name the occurrence was matched under
	Start   int
	End     int
	IsBrand bool
}

// MentionReport is the output of locating brand and competitor names in one
// response.
type MentionReport struct {
	BrandMentions      []Mention      // ordered by position in text
	MentionCount       int            // len(BrandMentions)
	CompetitorMentions map[string]int // competitor name -> count, only names that appear
}

// LocateMentions finds every non-overlapping occurrence of the brand (name
// plus alias keywords) and each competitor. Matching is case-insensitive with
// word-boundary checks. Longer names are matched first so a brand that is a
// substring of a competitor name (or vice versa) is never double counted.
func LocateMentions(text, brandName string, aliases, competitors []string) MentionReport {
	type pattern struct {
		canonical string
		needle    string
		isBrand   bool
	}

	var patterns []pattern
	addPattern := func(canonical, name string, isBrand bool) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		patterns = append(patterns, pattern{canonical: canonical, needle: strings.ToLower(name), isBrand: isBrand})
	}

	addPattern(brandName, brandName, true)
	for _, a := range aliases {
		addPattern(brandName, a, true)
	}
	for _, c := range competitors {
		addPattern(c, c, false)
	}

	// Longest needle first so overlapping names resolve to the longer one.
	sort.SliceStable(patterns, func(i, j int) bool {
		return len(patterns[i].needle) > len(patterns[j].needle)
	})

	lower, back := foldOffsets(text)
	claimed := make([]bool, len(lower))
	var mentions []Mention

	for _, p := range patterns {
		from := 0
		for {
			idx := strings.Index(lower[from:], p.needle)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(p.needle)
			from = start + 1

			if !wordBoundary(lower, start, end) {
				continue
			}
			if rangeClaimed(claimed, start, end) {
				continue
			}
			for i := start; i < end; i++ {
				claimed[i] = true
			}
			mentions = append(mentions, Mention{Name: p.canonical, Start: back[start], End: back[end], IsBrand: p.isBrand})
		}
	}

	sort.Slice(mentions, func(i, j int) bool { return mentions[i].Start < mentions[j].Start })

	report := MentionReport{CompetitorMentions: map[string]int{}}
	for _, m := range mentions {
		if m.IsBrand {
			report.BrandMentions = append(report.BrandMentions, m)
		} else {
			report.CompetitorMentions[m.Name]++
		}
	}
	report.MentionCount = len(report.BrandMentions)
	return report
}

// foldOffsets lowercases text rune by rune and records, for every byte of
// the lowered copy (plus one past-the-end entry), the offset of the
// originating rune in text. Case mapping can change a rune's encoded length,
// so match offsets against the lowered copy cannot index the original
// directly.
func foldOffsets(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	back := make([]int, 0, len(text)+1)
	for i, r := range text {
		lr := unicode.ToLower(r)
		for j := 0; j < utf8.RuneLen(lr); j++ {
			back = append(back, i)
		}
		b.WriteRune(lr)
	}
	back = append(back, len(text))
	return b.String(), back
}

// wordBoundary reports whether text[start:end] is delimited by non-word
// characters on both sides.
func wordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func rangeClaimed(claimed []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}

var (
	numberedItemPattern = regexp.MustCompile(`^\s*(?:(\d+)[.)]|#(\d+)[:\s]|(\d+)\s*[-–])\s*`)
	bulletItemPattern   = regexp.MustCompile(`^\s*[-*•]\s+`)
)

var ordinalRanks = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
}

// ListPosition scans the response for an enumerated recommendation list and
// returns the brand's 1-based rank in it plus the total item count. Numeric
// markers carry their own rank; bullets and ordinal words rank by order of
// appearance. When the same name appears at several ranks the lowest (best)
// wins. Position is nil when the text has no detectable list structure, even
// if the brand is mentioned.
func ListPosition(text, brandName string, aliases []string) (*int, int) {
	names := make([]string, 0, len(aliases)+1)
	if strings.TrimSpace(brandName) != "" {
		names = append(names, strings.ToLower(brandName))
	}
	for _, a := range aliases {
		if strings.TrimSpace(a) != "" {
			names = append(names, strings.ToLower(a))
		}
	}

	var best *int
	total := 0
	bulletRank := 0

	consider := func(rank int, line string) {
		lower := strings.ToLower(line)
		for _, name := range names {
			if containsWord(lower, name) {
				if best == nil || rank < *best {
					r := rank
					best = &r
				}
				return
			}
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if m := numberedItemPattern.FindStringSubmatch(line); m != nil {
			rank := 0
			for _, g := range m[1:] {
				if g != "" {
					rank = atoiSafe(g)
					break
				}
			}
			if rank > 0 {
				total++
				bulletRank = rank
				consider(rank, line)
			}
			continue
		}
		if bulletItemPattern.MatchString(line) {
			total++
			bulletRank++
			consider(bulletRank, line)
			continue
		}
		if rank, ok := leadingOrdinal(line); ok {
			total++
			bulletRank = rank
			consider(rank, line)
		}
	}

	return best, total
}

// containsWord reports a word-boundary occurrence of needle in haystack.
// Both arguments must already be lowercase.
func containsWord(haystack, needle string) bool {
	from := 0
	for {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return false
		}
		start := from + idx
		if wordBoundary(haystack, start, start+len(needle)) {
			return true
		}
		from = start + 1
	}
}

// leadingOrdinal detects lines opening with an ordinal word ("First, ...").
func leadingOrdinal(line string) (int, bool) {
	trimmed := strings.TrimLeft(strings.ToLower(line), " \t")
	for word, rank := range ordinalRanks {
		if strings.HasPrefix(trimmed, word) {
			rest := trimmed[len(word):]
			if rest == "" || !unicode.IsLetter(rune(rest[0])) {
				return rank, true
			}
		}
	}
	return 0, false
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
