package travel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanner(inv Invoker) *Planner {
	logger, metrics := testDeps()
	return NewPlanner(inv, logger, metrics)
}

func planTools(s *Strategy) []string {
	tools := make([]string, 0, len(s.PlanSteps))
	for _, step := range s.PlanSteps {
		tools = append(tools, step.ToolRequired)
	}
	return tools
}

func TestPlanner_MissingRequirements(t *testing.T) {
	p := newTestPlanner(&stubInvoker{})

	_, err := p.Plan(context.Background(), nil)
	assert.Error(t, err)

	_, err = p.Plan(context.Background(), testRequirements("Goa", "", "4"))
	assert.Error(t, err)

	_, err = p.Plan(context.Background(), testRequirements("", "20000", "4"))
	assert.Error(t, err)
}

func TestPlanner_TemplateLongStay(t *testing.T) {
	p := newTestPlanner(&stubInvoker{})

	strategy, err := p.Plan(context.Background(), testRequirements("Goa", "20000", "4"))
	require.NoError(t, err)

	assert.Equal(t, StatusPlanCreated, strategy.Status)
	require.Len(t, strategy.PlanSteps, 6)
	assert.Equal(t, []string{
		ToolTransportSearch,
		ToolHotelSearch,
		ToolActivityRecommender,
		ToolCostCalculator,
		ToolOptimizationEngine,
		ToolItineraryGenerator,
	}, planTools(strategy))

	for i, step := range strategy.PlanSteps {
		assert.Equal(t, i+1, step.StepID)
		assert.NotEmpty(t, step.Description)
	}
}

func TestPlanner_TemplateShortStay(t *testing.T) {
	p := newTestPlanner(&stubInvoker{})

	strategy, err := p.Plan(context.Background(), testRequirements("Goa", "20000", "2"))
	require.NoError(t, err)

	require.Len(t, strategy.PlanSteps, 5)
	assert.NotContains(t, planTools(strategy), ToolOptimizationEngine)
	assert.Equal(t, ToolItineraryGenerator, strategy.PlanSteps[4].ToolRequired)

	// No gaps in numbering even with the optional step omitted.
	for i, step := range strategy.PlanSteps {
		assert.Equal(t, i+1, step.StepID)
	}
}

func TestPlanner_TemplateNonNumericDays(t *testing.T) {
	p := newTestPlanner(&stubInvoker{})

	strategy, err := p.Plan(context.Background(), testRequirements("Goa", "20000", "a few"))
	require.NoError(t, err)
	assert.Len(t, strategy.PlanSteps, 5)
}

func TestPlanner_TemplateIdempotent(t *testing.T) {
	p := newTestPlanner(&stubInvoker{})
	req := testRequirements("Goa", "20000", "4")

	first, err := p.Plan(context.Background(), req)
	require.NoError(t, err)
	second, err := p.Plan(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPlanner_ModelStepsAcceptedVerbatim(t *testing.T) {
	inv := &stubInvoker{result: map[string]any{
		"plan_steps": []any{
			map[string]any{"step_id": 1.0, "description": "Book the ferry.", "tool_required": "transport_search_api"},
			map[string]any{"step_id": 2.0, "description": "Draft the itinerary.", "tool_required": "itinerary_generator"},
		},
	}}
	p := newTestPlanner(inv)

	strategy, err := p.Plan(context.Background(), testRequirements("Goa", "20000", "4"))
	require.NoError(t, err)

	require.Len(t, strategy.PlanSteps, 2)
	assert.Equal(t, "Book the ferry.", strategy.PlanSteps[0].Description)
	assert.Equal(t, 2, strategy.PlanSteps[1].StepID)
}

func TestPlanner_ModelUnusableShapeFallsBack(t *testing.T) {
	inv := &stubInvoker{result: map[string]any{"plan_steps": "not an array"}}
	p := newTestPlanner(inv)

	strategy, err := p.Plan(context.Background(), testRequirements("Goa", "20000", "2"))
	require.NoError(t, err)
	assert.Len(t, strategy.PlanSteps, 5)
}
