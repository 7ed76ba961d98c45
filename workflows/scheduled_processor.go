// workflows/scheduled_processor.go
package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"

	"github.com/answer-engine/aea-workflows/internal/models"
	"github.com/answer-engine/aea-workflows/services"
)

type ScheduledProcessor struct {
	repos  *services.RepositoryManager
	client inngestgo.Client
}

func NewScheduledProcessor(repos *services.RepositoryManager) *ScheduledProcessor {
	return &ScheduledProcessor{repos: repos}
}

func (p *ScheduledProcessor) SetClient(client inngestgo.Client) {
	p.client = client
}

// DailyBrandProcessor fans out one brand.analyze event per active brand
// every day. Each send is its own step so a retry only resends the ones
// that did not go out.
func (p *ScheduledProcessor) DailyBrandProcessor() inngestgo.ServableFunction {
	fn, err := inngestgo.CreateFunction(
		p.client,
		inngestgo.FunctionOpts{
			ID:   "daily-brand-processor",
			Name: "Daily Brand Processor",
		},
		inngestgo.CronTrigger("0 2 * * *"), // Every day at 2 AM UTC
		func(ctx context.Context, input inngestgo.Input[any]) (any, error) {
			now := time.Now().UTC()

			brands, err := step.Run(ctx, "list-active-brands", func(ctx context.Context) ([]*models.Brand, error) {
				return p.repos.BrandRepo.ListActive(ctx)
			})
			if err != nil {
				return nil, fmt.Errorf("failed to list active brands: %w", err)
			}

			if len(brands) == 0 {
				return map[string]interface{}{
					"execution_date":     now.Format("2006-01-02"),
					"total_brands_found": 0,
					"message":            "No active brands to analyze",
				}, nil
			}

			triggered := 0
			for _, brand := range brands {
				stepName := fmt.Sprintf("trigger-analyze-%s", brand.ID)

				_, err := step.Run(ctx, stepName, func(ctx context.Context) (interface{}, error) {
					evt := inngestgo.Event{
						Name: "brand.analyze",
						Data: map[string]interface{}{
							"brand_id":     brand.ID.String(),
							"triggered_by": "daily_scheduler",
						},
					}
					return p.client.Send(ctx, evt)
				})
				if err != nil {
					fmt.Printf("Warning: Failed to send event for brand %s: %v\n", brand.ID, err)
					continue
				}
				triggered++
			}

			return map[string]interface{}{
				"execution_date":     now.Format("2006-01-02"),
				"total_brands_found": len(brands),
				"brands_triggered":   triggered,
				"message":            fmt.Sprintf("Triggered %d brand analysis pipelines", triggered),
			}, nil
		},
	)
	if err != nil {
		panic(fmt.Errorf("failed to create DailyBrandProcessor function: %w", err))
	}
	return fn
}
