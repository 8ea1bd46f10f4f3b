package travel

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rahul/wayfarer/internal/observability"
)

// Fixed costs used by the deterministic execution mocks.
const (
	mockTransportCost = 5000
	mockHotelCost     = 8000
	mockActivityCost  = 1500
	mockExpenseCost   = 2000
)

// Executor simulates running each plan step. Steps have no ordering
// dependency on each other's external calls, so they fan out concurrently;
// results are assembled by step index so the plan order is preserved.
type Executor struct {
	llm     Invoker
	logger  *observability.Logger
	metrics *observability.Metrics
}

func NewExecutor(llm Invoker, logger *observability.Logger, metrics *observability.Metrics) *Executor {
	return &Executor{llm: llm, logger: logger, metrics: metrics}
}

func (e *Executor) Execute(ctx context.Context, strategy *Strategy, req *Requirements) (*Execution, error) {
	if strategy == nil || len(strategy.PlanSteps) == 0 {
		return nil, fmt.Errorf("execution failed: strategy has no plan steps")
	}
	if req == nil {
		return nil, fmt.Errorf("execution failed: trip requirements are required")
	}

	requestID := observability.RequestID(ctx)

	results := make([]ExecutedStep, len(strategy.PlanSteps))
	var wg sync.WaitGroup
	for i, step := range strategy.PlanSteps {
		wg.Add(1)
		go func(i int, step PlanStep) {
			defer wg.Done()
			results[i] = e.executeStep(ctx, step, req)
		}(i, step)
	}
	wg.Wait()

	e.logger.LogStage(requestID, "executor", StatusExecutionComplete)
	return &Execution{Status: StatusExecutionComplete, Results: results}, nil
}

// executeStep runs one plan step through the model; any failure or unusable
// answer is replaced by the keyword-matched mock so a single bad call never
// sinks the rest of the plan.
func (e *Executor) executeStep(ctx context.Context, step PlanStep, req *Requirements) ExecutedStep {
	prompt := fmt.Sprintf(`Context: Planning a trip to %s for %s people. Budget: %s.
Task: Execute this step: %q
Tool: %s

Output: Return a JSON object with:
- "status": "COMPLETED"
- "data": A short realistic summary of what was found (e.g., "Found Indigo Flight 6E-123 at ₹4,500/person", "Selected Hotel Paradise at ₹2,000/night").
- "cost": Estimated cost for this step (number).`,
		req.Destination, req.NumberOfPeople, req.TotalBudget, step.Description, step.ToolRequired)

	result, err := e.llm.Invoke(ctx, prompt, "You are a Travel Executor Agent. Simulate realistic travel booking results. Return JSON.")

	data := stringField(result, "data")
	cost := numberField(result, "cost")
	if err != nil || data == "" {
		e.logger.LogFallback(observability.RequestID(ctx), "executor",
			fmt.Sprintf("step %d: model unavailable or unusable, using mock result", step.StepID))
		e.metrics.StageFallbacks.WithLabelValues("executor").Inc()
		data, cost = mockStepResult(step, req.Destination)
	}
	if cost < 0 {
		cost = 0
	}

	return ExecutedStep{
		StepID:      step.StepID,
		Description: step.Description,
		Status:      "COMPLETED",
		Result:      data,
		Cost:        cost,
	}
}

// mockStepResult picks a canned outcome by keyword match against the step
// description. First matching category wins; match order is fixed.
func mockStepResult(step PlanStep, destination string) (string, float64) {
	desc := strings.ToLower(step.Description)

	switch {
	case strings.Contains(desc, "flight"), strings.Contains(desc, "train"), strings.Contains(desc, "transport"):
		return fmt.Sprintf("Found flights to %s via AirlineXYZ starting at ₹5,000 round trip per person.", destination), mockTransportCost
	case strings.Contains(desc, "hotel"), strings.Contains(desc, "accommodation"), strings.Contains(desc, "stay"):
		return fmt.Sprintf("Identified 3 highly rated hotels in %s (AVG: 4.5 stars). Recommended: 'City Center Inn'.", destination), mockHotelCost
	case strings.Contains(desc, "activity"), strings.Contains(desc, "places"):
		return "Added sightseeing: Famous Museum, City Park, and Local Market tour.", mockActivityCost
	case strings.Contains(desc, "cost"), strings.Contains(desc, "expense"):
		return "Estimated daily food and local travel expenses calculated.", mockExpenseCost
	default:
		return "Step executed successfully.", 0
	}
}
