package travel

import "context"

// Result statuses, one per stage variant.
const (
	StatusReady             = "READY"
	StatusNeedsInfo         = "NEEDS_INFO"
	StatusError             = "ERROR"
	StatusPlanCreated       = "PLAN_CREATED"
	StatusExecutionComplete = "EXECUTION_COMPLETE"
	StatusReviewComplete    = "REVIEW_COMPLETE"
	StatusSuccess           = "SUCCESS"
)

// Stage tags carried on ERROR results.
const (
	StageCollectingInfo = "COLLECTING_INFO"
)

// Canonical requirement field names reported in NEEDS_INFO results.
const (
	FieldDestination  = "destination"
	FieldTotalBudget  = "total_budget"
	FieldNumberOfDays = "number_of_days"
)

// Budget verdicts produced by the Reviewer.
const (
	BudgetOK   = "OK"
	BudgetOver = "OVER_BUDGET"
)

// Tools a plan step may require.
const (
	ToolTransportSearch     = "transport_search_api"
	ToolHotelSearch         = "hotel_search_api"
	ToolActivityRecommender = "activity_recommender"
	ToolCostCalculator      = "cost_calculator"
	ToolOptimizationEngine  = "optimization_engine"
	ToolItineraryGenerator  = "itinerary_generator"
)

// Invoker is the slice of the model invocation layer the stages depend on.
// A (nil, nil) return means no provider is configured and the stage should
// run its deterministic fallback.
type Invoker interface {
	Invoke(ctx context.Context, prompt, system string) (map[string]any, error)
}

// Requirements is the structured trip request produced by the Analyzer.
// Numeric fields stay strings until a stage needs to interpret them.
type Requirements struct {
	Destination             string `json:"destination"`
	TotalBudget             string `json:"total_budget"`
	NumberOfDays            string `json:"number_of_days"`
	TravelType              string `json:"travel_type"`
	NumberOfPeople          string `json:"number_of_people"`
	AccommodationPreference string `json:"accommodation_preference"`
	TransportPreference     string `json:"transport_preference"`
}

// Analysis is the Analyzer's tagged result. Exactly one of the variants is
// populated: READY carries Data, NEEDS_INFO carries MissingFields, ERROR
// carries Message and Stage.
type Analysis struct {
	Status        string        `json:"status"`
	Data          *Requirements `json:"data,omitempty"`
	MissingFields []string      `json:"missing_fields,omitempty"`
	Message       string        `json:"message,omitempty"`
	Stage         string        `json:"stage,omitempty"`
}

func ReadyAnalysis(req *Requirements) Analysis {
	return Analysis{Status: StatusReady, Data: req}
}

func NeedsInfoAnalysis(missing []string) Analysis {
	return Analysis{Status: StatusNeedsInfo, MissingFields: missing}
}

func ErrorAnalysis(message, stage string) Analysis {
	return Analysis{Status: StatusError, Message: message, Stage: stage}
}

// PlanStep is one unit of planned work. Order is meaningful.
type PlanStep struct {
	StepID       int    `json:"step_id"`
	Description  string `json:"description"`
	ToolRequired string `json:"tool_required"`
}

// Strategy is the Planner's result.
type Strategy struct {
	Status    string     `json:"status"`
	PlanSteps []PlanStep `json:"plan_steps"`
}

// ExecutedStep is the simulated outcome for one plan step.
type ExecutedStep struct {
	StepID      int     `json:"step_id"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Result      string  `json:"result"`
	Cost        float64 `json:"cost"`
}

// Execution is the Executor's result, one entry per plan step, same order.
type Execution struct {
	Status  string         `json:"status"`
	Results []ExecutedStep `json:"results"`
}

// FinalPlan is the reviewed itinerary returned to the caller.
type FinalPlan struct {
	Destination        string   `json:"destination"`
	Duration           string   `json:"duration"`
	TotalEstimatedCost float64  `json:"total_estimated_cost"`
	BudgetStatus       string   `json:"budget_status"`
	ItinerarySteps     []string `json:"itinerary_steps"`
	AgentNotes         string   `json:"agent_notes"`
	ConfidenceScore    int      `json:"confidence_score"`
}

// Review is the Reviewer's result.
type Review struct {
	Status    string    `json:"status"`
	FinalPlan FinalPlan `json:"final_plan"`
}

// Outcome is the pipeline's aggregate SUCCESS result.
type Outcome struct {
	Status          string        `json:"status"`
	OriginalRequest *Requirements `json:"original_request"`
	Strategy        *Strategy     `json:"strategy"`
	Execution       *Execution    `json:"execution"`
	FinalItinerary  *Review       `json:"final_itinerary"`
}
