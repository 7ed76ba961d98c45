package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/answer-engine/aea-workflows/internal/config"
	"github.com/answer-engine/aea-workflows/internal/store"
	"github.com/answer-engine/aea-workflows/services"
)

// Standalone backfill tool: recompute daily metrics for one brand over a
// date range. Aggregation is idempotent, so rerunning a range is safe.
func main() {
	var (
		brandArg = flag.String("brand", "", "brand UUID (required)")
		fromArg  = flag.String("from", "", "start date YYYY-MM-DD (required)")
		toArg    = flag.String("to", "", "end date YYYY-MM-DD, inclusive (default: from)")
	)
	flag.Parse()

	if *brandArg == "" || *fromArg == "" {
		flag.Usage()
		log.Fatal("brand and from are required")
	}

	brandID, err := uuid.Parse(*brandArg)
	if err != nil {
		log.Fatalf("Invalid brand UUID: %v", err)
	}
	from, err := time.Parse("2006-01-02", *fromArg)
	if err != nil {
		log.Fatalf("Invalid from date: %v", err)
	}
	to := from
	if *toArg != "" {
		to, err = time.Parse("2006-01-02", *toArg)
		if err != nil {
			log.Fatalf("Invalid to date: %v", err)
		}
	}
	if to.Before(from) {
		log.Fatalf("to date %s precedes from date %s", *toArg, *fromArg)
	}

	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("dev.env"); err == nil {
			log.Printf("Loaded dev.env file")
		}
	}
	cfg := config.Load()

	ctx := context.Background()
	dbClient, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbClient.Close()

	repos := services.NewRepositoryManager(dbClient)
	metricsService := services.NewMetricsService(repos)

	days := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		metrics, err := metricsService.ComputeDailyMetrics(ctx, brandID, day)
		if err != nil {
			log.Fatalf("Failed to recompute %s: %v", day.Format("2006-01-02"), err)
		}
		log.Printf("%s: visibility=%.1f sov=%.1f mentions=%d queries=%d",
			day.Format("2006-01-02"), metrics.VisibilityScore, metrics.ShareOfVoice,
			metrics.MentionCount, metrics.TotalQueries)
		days++
	}

	log.Printf("Backfill complete: %d day(s) recomputed for brand %s", days, brandID)
}
