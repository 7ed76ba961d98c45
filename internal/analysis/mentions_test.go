package analysis_test

import (
	"strings"
	"testing"

	"github.com/answer-engine/aea-workflows/internal/analysis"
)

func TestLocateMentionsWordBoundaries(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		brand       string
		aliases     []string
		competitors []string
		wantCount   int
		wantComps   map[string]int
	}{
		{
			name:      "simple mention",
			text:      "I would recommend Acme for this.",
			brand:     "Acme",
			wantCount: 1,
			wantComps: map[string]int{},
		},
		{
			name:      "case insensitive",
			text:      "ACME and acme and Acme.",
			brand:     "Acme",
			wantCount: 3,
			wantComps: map[string]int{},
		},
		{
			name:      "no match inside compound token",
			text:      "ZohoCRM is popular.",
			brand:     "Zoho",
			wantCount: 0,
			wantComps: map[string]int{},
		},
		{
			name:      "alias counts as brand",
			text:      "Acme Corporation, also sold as AcmeCRM, is solid.",
			brand:     "Acme Corporation",
			aliases:   []string{"AcmeCRM"},
			wantCount: 2,
			wantComps: map[string]int{},
		},
		{
			name:        "longest name wins over substring brand",
			text:        "ZohoCRM Pro beats everything, even Zoho itself.",
			brand:       "Zoho",
			competitors: []string{"ZohoCRM Pro"},
			wantCount:   1,
			wantComps:   map[string]int{"ZohoCRM Pro": 1},
		},
		{
			name:        "competitor counts independent",
			text:        "Salesforce and HubSpot are both mentioned, HubSpot twice.",
			brand:       "Acme",
			competitors: []string{"Salesforce", "HubSpot"},
			wantCount:   0,
			wantComps:   map[string]int{"Salesforce": 1, "HubSpot": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := analysis.LocateMentions(tt.text, tt.brand, tt.aliases, tt.competitors)
			if report.MentionCount != tt.wantCount {
				t.Errorf("MentionCount = %d, want %d", report.MentionCount, tt.wantCount)
			}
			if len(report.CompetitorMentions) != len(tt.wantComps) {
				t.Errorf("CompetitorMentions = %v, want %v", report.CompetitorMentions, tt.wantComps)
			}
			for name, want := range tt.wantComps {
				if got := report.CompetitorMentions[name]; got != want {
					t.Errorf("CompetitorMentions[%s] = %d, want %d", name, got, want)
				}
			}
		})
	}
}

func TestLocateMentionsCaseChangingRunes(t *testing.T) {
	// Lowercasing can change a rune's byte length (Ⱥ grows 2 to 3 bytes,
	// İ shrinks 2 to 1), so offsets must survive the case fold.
	tests := []struct {
		name string
		text string
	}{
		{"growing case mapping", strings.Repeat("Ⱥ ", 10) + "Acme is solid."},
		{"shrinking case mapping", strings.Repeat("İ", 10) + " Acme leads here."},
		{"accented prose", "Según varios análisis, Acme está muy bien valorada."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := analysis.LocateMentions(tt.text, "Acme", nil, nil)
			if report.MentionCount != 1 {
				t.Fatalf("MentionCount = %d, want 1", report.MentionCount)
			}
			m := report.BrandMentions[0]
			if got := tt.text[m.Start:m.End]; got != "Acme" {
				t.Errorf("text[%d:%d] = %q, want %q", m.Start, m.End, got, "Acme")
			}
		})
	}
}

func TestListPosition(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		brand     string
		wantPos   *int
		wantTotal int
	}{
		{
			name:      "numbered list",
			text:      "1. Salesforce\n2. Acme Corp – great support\n3. HubSpot",
			brand:     "Acme Corp",
			wantPos:   intPtr(2),
			wantTotal: 3,
		},
		{
			name:      "paren numbering",
			text:      "1) HubSpot\n2) Acme\n3) Zoho",
			brand:     "Acme",
			wantPos:   intPtr(2),
			wantTotal: 3,
		},
		{
			name:      "hash rank marker",
			text:      "#1: Salesforce\n#2: Acme\n#3: Zoho",
			brand:     "Acme",
			wantPos:   intPtr(2),
			wantTotal: 3,
		},
		{
			name:      "dash rank marker",
			text:      "1 – Salesforce\n2 – Acme",
			brand:     "Acme",
			wantPos:   intPtr(2),
			wantTotal: 2,
		},
		{
			name:      "bullets rank by order",
			text:      "- Salesforce\n- HubSpot\n- Acme",
			brand:     "Acme",
			wantPos:   intPtr(3),
			wantTotal: 3,
		},
		{
			name:      "ordinal word lines",
			text:      "First, Salesforce leads.\nSecond, Acme follows closely.",
			brand:     "Acme",
			wantPos:   intPtr(2),
			wantTotal: 2,
		},
		{
			name:      "mentioned but no list",
			text:      "Acme is a fine choice for most teams.",
			brand:     "Acme",
			wantPos:   nil,
			wantTotal: 0,
		},
		{
			name:      "lowest rank wins on repeat",
			text:      "1. Acme\n2. Salesforce\n3. Acme again",
			brand:     "Acme",
			wantPos:   intPtr(1),
			wantTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, total := analysis.ListPosition(tt.text, tt.brand, nil)
			if (pos == nil) != (tt.wantPos == nil) {
				t.Fatalf("position = %v, want %v", fmtPos(pos), fmtPos(tt.wantPos))
			}
			if pos != nil && *pos != *tt.wantPos {
				t.Errorf("position = %d, want %d", *pos, *tt.wantPos)
			}
			if total != tt.wantTotal {
				t.Errorf("total = %d, want %d", total, tt.wantTotal)
			}
		})
	}
}

func intPtr(v int) *int { return &v }

func fmtPos(p *int) interface{} {
	if p == nil {
		return "nil"
	}
	return *p
}
