// internal/analysis/citations.go
package analysis

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/answer-engine/aea-workflows/internal/models"
)

var (
	urlPattern      = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\])(']+`)
	markdownPattern = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)]+)\)`)
)

// Domains that show up in AI answers as filler, never as real sources.
var excludedDomains = map[string]bool{
	"example.com":     true,
	"localhost":       true,
	"127.0.0.1":       true,
	"test.com":        true,
	"placeholder.com": true,
}

// ExtractCitations pulls every source reference out of a response: markdown
// links, bare URLs, and vendor-supplied citation hints. Hints win when both
// describe the same URL because they carry title metadata. The result is
// ordered by first appearance, deduplicated by normalized domain+path, with
// source type and authority attached. Malformed URLs are skipped.
func ExtractCitations(text string, hints []models.CitationHint, brandName, brandDomain string) []models.Citation {
	type rawCitation struct {
		url   string
		title string
	}

	var ordered []rawCitation
	seen := map[string]int{} // dedupe key -> index in ordered

	add := func(raw, title string) {
		u := strings.TrimRight(raw, ".,;:!?)")
		domain, path, ok := normalizeURL(u)
		if !ok || excludedDomains[domain] {
			return
		}
		key := domain + path
		if idx, dup := seen[key]; dup {
			if title != "" && ordered[idx].title == "" {
				ordered[idx].title = title
			}
			return
		}
		seen[key] = len(ordered)
		ordered = append(ordered, rawCitation{url: u, title: title})
	}

	for _, h := range hints {
		add(h.URL, h.Title)
	}
	for _, m := range markdownPattern.FindAllStringSubmatch(text, -1) {
		add(m[2], m[1])
	}
	for _, u := range urlPattern.FindAllString(text, -1) {
		add(u, "")
	}

	citations := make([]models.Citation, 0, len(ordered))
	for _, rc := range ordered {
		domain, _, _ := normalizeURL(rc.url)
		sourceType := ClassifySource(domain, brandDomain)
		citations = append(citations, models.Citation{
			URL:             rc.url,
			Domain:          domain,
			Title:           rc.title,
			SourceType:      sourceType,
			AuthorityScore:  AuthorityScore(domain, sourceType),
			BrandAttributed: isBrandAttributed(text, rc.url, rc.title, brandName),
		})
	}
	return citations
}

// normalizeURL reduces a URL to a bare lowercase domain (scheme, "www." and
// port stripped) plus a trailing-slash-trimmed path.
func normalizeURL(raw string) (domain, path string, ok bool) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", "", false
	}
	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", "", false
	}
	return host, strings.TrimRight(parsed.Path, "/"), true
}

// citationNeighborhood is how far around a URL occurrence we look for the
// brand name when deciding attribution.
const citationNeighborhood = 200

// isBrandAttributed reports whether a citation is tied to the brand: the
// brand name appears near the URL in the text, or in the URL or title itself.
func isBrandAttributed(text, rawURL, title, brandName string) bool {
	if brandName == "" {
		return false
	}
	brand := strings.ToLower(brandName)
	if strings.Contains(strings.ToLower(rawURL), strings.ReplaceAll(brand, " ", "")) ||
		strings.Contains(strings.ToLower(rawURL), brand) {
		return true
	}
	if title != "" && strings.Contains(strings.ToLower(title), brand) {
		return true
	}
	idx := strings.Index(text, rawURL)
	if idx < 0 {
		return false
	}
	start := idx - citationNeighborhood
	if start < 0 {
		start = 0
	}
	end := idx + len(rawURL) + citationNeighborhood
	if end > len(text) {
		end = len(text)
	}
	return strings.Contains(strings.ToLower(text[start:end]), brand)
}
