// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/inngest/inngestgo"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/answer-engine/aea-workflows/internal/api"
	"github.com/answer-engine/aea-workflows/internal/config"
	"github.com/answer-engine/aea-workflows/internal/store"
	"github.com/answer-engine/aea-workflows/services"
	"github.com/answer-engine/aea-workflows/workflows"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("dev.env"); err != nil {
			log.Printf("Note: No .env or dev.env file loaded: %v", err)
		} else {
			log.Printf("Loaded dev.env file for local development")
		}
	} else {
		log.Printf("Loaded .env file")
	}

	cfg := config.Load()

	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Port: %s", cfg.Port)
	log.Printf("Database Host: %s", cfg.Database.Host)
	log.Printf("Database Name: %s", cfg.Database.Name)

	if cfg.OpenAIAPIKey == "" {
		log.Printf("WARNING: OpenAI API key not loaded!")
	}
	if cfg.AnthropicAPIKey == "" {
		log.Printf("WARNING: Anthropic API key not loaded!")
	}
	if cfg.PerplexityAPIKey == "" {
		log.Printf("WARNING: Perplexity API key not loaded!")
	}
	if cfg.GoogleAIAPIKey == "" {
		log.Printf("WARNING: Google AI API key not loaded!")
	}

	ctx := context.Background()
	dbClient, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbClient.Close()
	log.Printf("Successfully connected to database, migrations applied")

	repoManager := services.NewRepositoryManager(dbClient)
	log.Printf("Repository manager initialized")

	if cfg.Environment == "development" || cfg.Environment == "" {
		os.Unsetenv("INNGEST_SIGNING_KEY")
		cfg.InngestSigningKey = ""
		log.Printf("Running in development mode - signing key verification disabled")
	}

	// Services
	costService := services.NewCostService()
	providers := []services.AIProvider{
		services.NewOpenAIProvider(cfg, costService),
		services.NewAnthropicProvider(cfg, costService),
		services.NewPerplexityProvider(cfg, costService),
		services.NewGeminiProvider(cfg, costService),
	}
	analysisService := services.NewAnalysisService(repoManager)
	metricsService := services.NewMetricsService(repoManager)
	questionRunnerService := services.NewQuestionRunnerService(cfg, repoManager, analysisService, providers)
	questionGeneratorService := services.NewQuestionGeneratorService(cfg, repoManager)
	log.Printf("Services initialized with %d AI providers", len(providers))

	// Create Inngest client
	client, err := inngestgo.NewClient(
		inngestgo.ClientOpts{
			AppID:    "aea-workflows",
			EventKey: inngestgo.StrPtr(cfg.InngestEventKey),
			Env:      inngestgo.StrPtr(cfg.Environment),
		},
	)
	if err != nil {
		log.Fatalf("Failed to create Inngest client: %v", err)
	}

	// Initialize and register workflows
	log.Printf("Initializing and registering workflows...")

	brandProcessor := workflows.NewBrandProcessor(repoManager, questionRunnerService, metricsService, cfg)
	brandProcessor.SetClient(client)
	brandProcessor.AnalyzeBrand()

	scheduledProcessor := workflows.NewScheduledProcessor(repoManager)
	scheduledProcessor.SetClient(client)
	scheduledProcessor.DailyBrandProcessor()

	metricsProcessor := workflows.NewMetricsProcessor(metricsService)
	metricsProcessor.SetClient(client)
	metricsProcessor.RecomputeMetrics()

	questionProcessor := workflows.NewQuestionProcessor(repoManager, questionGeneratorService)
	questionProcessor.SetClient(client)
	questionProcessor.GenerateQuestions()

	log.Printf("All processors initialized and functions registered")

	// Inngest handler plus the dashboard read API on one mux
	h := client.Serve()
	mux := http.NewServeMux()
	mux.Handle("/api/inngest", h)

	apiServer := api.NewServer(repoManager, metricsService, cfg)
	mux.Handle("/", apiServer.Routes())

	mux.HandleFunc("/test/trigger-brand", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		brandID := r.URL.Query().Get("brand_id")
		if brandID == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"brand_id query parameter required"}`))
			return
		}
		evt := inngestgo.Event{
			Name: "brand.analyze",
			Data: map[string]interface{}{"brand_id": brandID, "triggered_by": "manual_test"},
		}
		result, err := client.Send(r.Context(), evt)
		if err != nil {
			log.Printf("Failed to send test event: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(fmt.Sprintf(`{"error":"Failed to send event: %v"}`, err)))
			return
		}
		log.Printf("Test event sent successfully: %+v", result)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(fmt.Sprintf(`{"status":"success","message":"Analysis triggered for brand %s"}`, brandID)))
	})

	port := cfg.Port
	log.Printf("Starting AEA Workflows service on port %s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal(err)
	}
}
