package travel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(inv Invoker) *Executor {
	logger, metrics := testDeps()
	return NewExecutor(inv, logger, metrics)
}

func TestExecutor_RejectsEmptyStrategy(t *testing.T) {
	e := newTestExecutor(&stubInvoker{})
	req := testRequirements("Goa", "20000", "4")

	_, err := e.Execute(context.Background(), nil, req)
	assert.Error(t, err)

	_, err = e.Execute(context.Background(), &Strategy{Status: StatusPlanCreated}, req)
	assert.Error(t, err)
}

func TestExecutor_MockFallbackPerStep(t *testing.T) {
	e := newTestExecutor(&stubInvoker{})
	req := testRequirements("Goa", "20000", "4")
	p := newTestPlanner(&stubInvoker{})

	strategy, err := p.Plan(context.Background(), req)
	require.NoError(t, err)

	execution, err := e.Execute(context.Background(), strategy, req)
	require.NoError(t, err)

	assert.Equal(t, StatusExecutionComplete, execution.Status)
	require.Len(t, execution.Results, len(strategy.PlanSteps))

	// The cost-check and optimization descriptions both contain "stay", so
	// the accommodation mock wins for them; the compile step matches nothing.
	wantCosts := []float64{mockTransportCost, mockHotelCost, mockActivityCost, mockHotelCost, mockHotelCost, 0}
	for i, step := range execution.Results {
		assert.Equal(t, strategy.PlanSteps[i].StepID, step.StepID)
		assert.Equal(t, strategy.PlanSteps[i].Description, step.Description)
		assert.Equal(t, "COMPLETED", step.Status)
		assert.NotEmpty(t, step.Result)
		assert.Equal(t, wantCosts[i], step.Cost)
	}
}

func TestExecutor_MockKeywordCategories(t *testing.T) {
	tests := []struct {
		desc string
		want float64
	}{
		{"Search train schedules", mockTransportCost},
		{"Reserve a hotel room", mockHotelCost},
		{"Shortlist activity options and places", mockActivityCost},
		{"Estimate expense totals", mockExpenseCost},
		{"Compile final day-by-day itinerary with time slots.", 0},
	}

	for _, tt := range tests {
		data, cost := mockStepResult(PlanStep{Description: tt.desc}, "Goa")
		assert.Equal(t, tt.want, cost, tt.desc)
		assert.NotEmpty(t, data)
	}
}

func TestExecutor_MockMentionsDestination(t *testing.T) {
	data, _ := mockStepResult(PlanStep{Description: "Search for flight options"}, "Lisbon")
	assert.Contains(t, data, "Lisbon")
}

func TestExecutor_ModelResultsUsed(t *testing.T) {
	inv := invokerFunc(func(ctx context.Context, prompt, system string) (map[string]any, error) {
		return map[string]any{"status": "COMPLETED", "data": "Booked it.", "cost": 1234.0}, nil
	})
	e := newTestExecutor(inv)
	req := testRequirements("Goa", "20000", "2")

	strategy := &Strategy{Status: StatusPlanCreated, PlanSteps: []PlanStep{
		{StepID: 1, Description: "Find transport", ToolRequired: ToolTransportSearch},
		{StepID: 2, Description: "Find hotel", ToolRequired: ToolHotelSearch},
	}}

	execution, err := e.Execute(context.Background(), strategy, req)
	require.NoError(t, err)

	for _, step := range execution.Results {
		assert.Equal(t, "Booked it.", step.Result)
		assert.Equal(t, 1234.0, step.Cost)
	}
}

func TestExecutor_FailingStepDoesNotAbortOthers(t *testing.T) {
	inv := invokerFunc(func(ctx context.Context, prompt, system string) (map[string]any, error) {
		if strings.Contains(prompt, "Find hotel") {
			return nil, errors.New("rate limited")
		}
		return map[string]any{"data": "Booked it.", "cost": 100.0}, nil
	})
	e := newTestExecutor(inv)
	req := testRequirements("Goa", "20000", "2")

	strategy := &Strategy{Status: StatusPlanCreated, PlanSteps: []PlanStep{
		{StepID: 1, Description: "Find transport", ToolRequired: ToolTransportSearch},
		{StepID: 2, Description: "Find hotel", ToolRequired: ToolHotelSearch},
		{StepID: 3, Description: "Find transport again", ToolRequired: ToolTransportSearch},
	}}

	execution, err := e.Execute(context.Background(), strategy, req)
	require.NoError(t, err)
	require.Len(t, execution.Results, 3)

	assert.Equal(t, "Booked it.", execution.Results[0].Result)
	assert.Equal(t, float64(mockHotelCost), execution.Results[1].Cost, "failed step falls back to its mock")
	assert.Equal(t, "Booked it.", execution.Results[2].Result)
}

func TestExecutor_OrderPreservedUnderConcurrency(t *testing.T) {
	inv := invokerFunc(func(ctx context.Context, prompt, system string) (map[string]any, error) {
		return map[string]any{"data": prompt, "cost": 1.0}, nil
	})
	e := newTestExecutor(inv)
	req := testRequirements("Goa", "20000", "2")

	var steps []PlanStep
	for i := 1; i <= 24; i++ {
		steps = append(steps, PlanStep{
			StepID:       i,
			Description:  fmt.Sprintf("marker-%03d", i),
			ToolRequired: ToolActivityRecommender,
		})
	}
	strategy := &Strategy{Status: StatusPlanCreated, PlanSteps: steps}

	execution, err := e.Execute(context.Background(), strategy, req)
	require.NoError(t, err)
	require.Len(t, execution.Results, len(steps))

	for i, step := range execution.Results {
		assert.Equal(t, i+1, step.StepID)
		assert.Contains(t, step.Result, fmt.Sprintf("marker-%03d", i+1))
	}
}

func TestExecutor_MissingCostDefaultsToZero(t *testing.T) {
	inv := invokerFunc(func(ctx context.Context, prompt, system string) (map[string]any, error) {
		return map[string]any{"data": "Done."}, nil
	})
	e := newTestExecutor(inv)
	req := testRequirements("Goa", "20000", "2")

	strategy := &Strategy{Status: StatusPlanCreated, PlanSteps: []PlanStep{
		{StepID: 1, Description: "Find transport", ToolRequired: ToolTransportSearch},
	}}

	execution, err := e.Execute(context.Background(), strategy, req)
	require.NoError(t, err)
	assert.Zero(t, execution.Results[0].Cost)
}
