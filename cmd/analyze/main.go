package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/answer-engine/aea-workflows/internal/analysis"
	"github.com/answer-engine/aea-workflows/internal/models"
)

// Standalone analysis tool: run the full pass sequence over one response
// text file and print the resulting record as JSON. Useful for tuning the
// lexicons against real responses without touching the database.
func main() {
	var (
		file        = flag.String("file", "", "path to a file containing the response text (default: stdin)")
		brandName   = flag.String("brand", "", "brand name (required)")
		brandDomain = flag.String("domain", "", "brand domain, e.g. acme.com")
		aliases     = flag.String("aliases", "", "comma-separated alias names")
		competitors = flag.String("competitors", "", "comma-separated competitor names")
		hintsJSON   = flag.String("hints", "", "optional JSON array of {url, title} citation hints")
	)
	flag.Parse()

	if *brandName == "" {
		flag.Usage()
		log.Fatal("brand name is required")
	}

	var text []byte
	var err error
	if *file != "" {
		text, err = os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *file, err)
		}
	} else {
		text, err = os.ReadFile("/dev/stdin")
		if err != nil {
			log.Fatalf("Failed to read stdin: %v", err)
		}
	}

	var hints []models.CitationHint
	if *hintsJSON != "" {
		if err := json.Unmarshal([]byte(*hintsJSON), &hints); err != nil {
			log.Fatalf("Failed to parse citation hints: %v", err)
		}
	}

	result := analysis.Analyze(string(text), hints, analysis.BrandProfile{
		Name:        *brandName,
		Domain:      *brandDomain,
		Aliases:     splitList(*aliases),
		Competitors: splitList(*competitors),
	})

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(out))
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
