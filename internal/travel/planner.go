package travel

import (
	"context"
	"fmt"

	"github.com/rahul/wayfarer/internal/observability"
)

// Planner produces the ordered execution strategy for a trip. A model
// failure degrades to a fixed template; missing requirements are a
// precondition violation and propagate as an error.
type Planner struct {
	llm     Invoker
	logger  *observability.Logger
	metrics *observability.Metrics
}

func NewPlanner(llm Invoker, logger *observability.Logger, metrics *observability.Metrics) *Planner {
	return &Planner{llm: llm, logger: logger, metrics: metrics}
}

func (p *Planner) Plan(ctx context.Context, req *Requirements) (*Strategy, error) {
	if req == nil {
		return nil, fmt.Errorf("trip requirements are required for strategy generation")
	}
	if req.Destination == "" || req.TotalBudget == "" || req.NumberOfDays == "" {
		return nil, fmt.Errorf("missing required trip data fields")
	}

	requestID := observability.RequestID(ctx)

	prompt := fmt.Sprintf(`Create a travel planning strategy for a %s-day %s trip to %s for %s people with budget %s.
Return JSON with a "plan_steps" array. Each step has "step_id" (number), "description" (string), "tool_required" (string from: transport_search_api, hotel_search_api, activity_recommender, cost_calculator, optimization_engine, itinerary_generator).
Ensure logic flows: Transport -> Hotel -> Activities -> Cost Check -> Optimization -> Final Itinerary.`,
		req.NumberOfDays, req.TravelType, req.Destination, req.NumberOfPeople, req.TotalBudget)

	result, err := p.llm.Invoke(ctx, prompt, "You are a Travel Strategy Agent. Create logical execution steps. Respond in valid JSON only.")
	if err == nil && result != nil {
		if steps := parsePlanSteps(result["plan_steps"]); len(steps) > 0 {
			p.logger.LogStage(requestID, "planner", StatusPlanCreated)
			return &Strategy{Status: StatusPlanCreated, PlanSteps: steps}, nil
		}
	}

	p.logger.LogFallback(requestID, "planner", "model unavailable or unusable, using template strategy")
	p.metrics.StageFallbacks.WithLabelValues("planner").Inc()

	strategy := p.templateStrategy(req)
	p.logger.LogStage(requestID, "planner", StatusPlanCreated)
	return strategy, nil
}

// parsePlanSteps accepts the model's steps verbatim when plan_steps is a
// non-empty array of objects; anything else is unusable.
func parsePlanSteps(v any) []PlanStep {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	var steps []PlanStep
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		steps = append(steps, PlanStep{
			StepID:       int(numberField(m, "step_id")),
			Description:  stringField(m, "description"),
			ToolRequired: stringField(m, "tool_required"),
		})
	}
	return steps
}

func (p *Planner) templateStrategy(req *Requirements) *Strategy {
	steps := []PlanStep{
		{
			Description:  fmt.Sprintf("Search for flight/train options to %s for %s people.", req.Destination, req.NumberOfPeople),
			ToolRequired: ToolTransportSearch,
		},
		{
			Description:  fmt.Sprintf("Find accommodation in %s within budget allocation (approx 40%% of %s).", req.Destination, req.TotalBudget),
			ToolRequired: ToolHotelSearch,
		},
		{
			Description:  fmt.Sprintf("Identify top rated activities for a %s trip in %s.", req.TravelType, req.Destination),
			ToolRequired: ToolActivityRecommender,
		},
		{
			Description:  fmt.Sprintf("Calculate daily expenses to ensure total stays under %s.", req.TotalBudget),
			ToolRequired: ToolCostCalculator,
		},
	}

	if days, ok := leadingInt(req.NumberOfDays); ok && days > 3 {
		steps = append(steps, PlanStep{
			Description:  "Optimize itinerary for a longer stay (include day trips or relaxation days).",
			ToolRequired: ToolOptimizationEngine,
		})
	}

	steps = append(steps, PlanStep{
		Description:  "Compile final day-by-day itinerary with time slots.",
		ToolRequired: ToolItineraryGenerator,
	})

	// Step ids stay sequential with no gaps whether or not the optional
	// optimization step is present.
	for i := range steps {
		steps[i].StepID = i + 1
	}

	return &Strategy{Status: StatusPlanCreated, PlanSteps: steps}
}
