// internal/analysis/authority.go
package analysis

import "strings"

// Source type labels attached to citations.
const (
	SourceReviewSite = "review_site"
	SourceNews       = "news"
	SourceCommunity  = "community"
	SourceBlog       = "blog"
	SourceOfficial   = "official"
	SourceGeneral    = "general"
)

// authorityScores is the static domain trust table. Scores live in [0,1].
// Unlisted domains fall back by source type: news-like 0.75, blog-like 0.45,
// everything else 0.5.
var authorityScores = map[string]float64{
	// Review platforms
	"g2.com":             0.95,
	"gartner.com":        0.95,
	"capterra.com":       0.90,
	"trustradius.com":    0.88,
	"trustpilot.com":     0.85,
	"softwareadvice.com": 0.82,
	"getapp.com":         0.80,

	// News and analysis
	"reuters.com":          0.92,
	"bloomberg.com":        0.92,
	"wsj.com":              0.90,
	"nytimes.com":          0.90,
	"forbes.com":           0.88,
	"techcrunch.com":       0.85,
	"theverge.com":         0.82,
	"wired.com":            0.82,
	"zdnet.com":            0.78,
	"cnet.com":             0.78,
	"businessinsider.com":  0.75,
	"venturebeat.com":      0.75,

	// Reference and community
	"wikipedia.org":       0.90,
	"stackoverflow.com":   0.80,
	"github.com":          0.80,
	"news.ycombinator.com": 0.72,
	"reddit.com":          0.70,
	"quora.com":           0.60,

	// Blog hosts
	"medium.com":    0.55,
	"substack.com":  0.50,
	"dev.to":        0.50,
	"wordpress.com": 0.40,
	"blogspot.com":  0.35,
}

const (
	defaultNewsAuthority = 0.75
	defaultBlogAuthority = 0.45
	defaultAuthority     = 0.50
)

// AuthorityScore returns the trust weight for a domain. The lookup is
// case-insensitive and falls back to a source-type default for unlisted
// domains.
func AuthorityScore(domain, sourceType string) float64 {
	if score, ok := authorityScores[strings.ToLower(domain)]; ok {
		return score
	}
	switch sourceType {
	case SourceNews:
		return defaultNewsAuthority
	case SourceBlog:
		return defaultBlogAuthority
	default:
		return defaultAuthority
	}
}

var reviewSiteDomains = map[string]bool{
	"g2.com":             true,
	"capterra.com":       true,
	"trustpilot.com":     true,
	"gartner.com":        true,
	"trustradius.com":    true,
	"softwareadvice.com": true,
	"getapp.com":         true,
}

var newsDomains = map[string]bool{
	"forbes.com":          true,
	"techcrunch.com":      true,
	"reuters.com":         true,
	"bloomberg.com":       true,
	"wsj.com":             true,
	"nytimes.com":         true,
	"theverge.com":        true,
	"wired.com":           true,
	"zdnet.com":           true,
	"cnet.com":            true,
	"businessinsider.com": true,
	"venturebeat.com":     true,
}

var communityDomains = map[string]bool{
	"reddit.com":           true,
	"stackoverflow.com":    true,
	"news.ycombinator.com": true,
	"quora.com":            true,
}

var blogDomains = map[string]bool{
	"medium.com":    true,
	"substack.com":  true,
	"dev.to":        true,
	"hashnode.com":  true,
	"wordpress.com": true,
	"blogspot.com":  true,
}

// ClassifySource maps a normalized domain to a source type. brandDomain is
// the monitored brand's own site; a match (exact or subdomain) classifies as
// official.
func ClassifySource(domain, brandDomain string) string {
	d := strings.ToLower(domain)
	if brandDomain != "" {
		b := strings.ToLower(strings.TrimPrefix(brandDomain, "www."))
		if d == b || strings.HasSuffix(d, "."+b) {
			return SourceOfficial
		}
	}
	switch {
	case matchDomain(d, reviewSiteDomains):
		return SourceReviewSite
	case matchDomain(d, newsDomains):
		return SourceNews
	case matchDomain(d, communityDomains):
		return SourceCommunity
	case matchDomain(d, blogDomains) || strings.Contains(d, "blog"):
		return SourceBlog
	default:
		return SourceGeneral
	}
}

// matchDomain reports whether d equals or is a subdomain of any entry.
func matchDomain(d string, set map[string]bool) bool {
	if set[d] {
		return true
	}
	for base := range set {
		if strings.HasSuffix(d, "."+base) {
			return true
		}
	}
	return false
}
