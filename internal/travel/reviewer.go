package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/rahul/wayfarer/internal/observability"
)

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// Reviewer finalizes the itinerary: sums costs, checks them against the
// budget, and formats the day-by-day plan, with a fixed template standing in
// when the model layer has nothing to offer.
type Reviewer struct {
	llm     Invoker
	logger  *observability.Logger
	metrics *observability.Metrics
}

func NewReviewer(llm Invoker, logger *observability.Logger, metrics *observability.Metrics) *Reviewer {
	return &Reviewer{llm: llm, logger: logger, metrics: metrics}
}

func (r *Reviewer) Review(ctx context.Context, execution *Execution, req *Requirements) (*Review, error) {
	if execution == nil {
		return nil, fmt.Errorf("review failed: execution results are required")
	}
	if req == nil {
		return nil, fmt.Errorf("review failed: trip requirements are required")
	}

	requestID := observability.RequestID(ctx)

	var total float64
	for _, step := range execution.Results {
		total += step.Cost
	}

	withinBudget := false
	if budget, err := strconv.ParseFloat(nonNumeric.ReplaceAllString(req.TotalBudget, ""), 64); err == nil {
		withinBudget = total <= budget
	}

	budgetStatus := BudgetOver
	budgetText := "Over Budget"
	if withinBudget {
		budgetStatus = BudgetOK
		budgetText = "Within Budget"
	}

	itinerary, notes, confidence, ok := r.reviewWithModel(ctx, execution, req, budgetText, total)
	if !ok {
		r.logger.LogFallback(requestID, "reviewer", "model unavailable or unusable, using template itinerary")
		r.metrics.StageFallbacks.WithLabelValues("reviewer").Inc()
		itinerary, notes, confidence = templateItinerary(req.Destination, withinBudget)
	}

	r.logger.LogStage(requestID, "reviewer", StatusReviewComplete)

	return &Review{
		Status: StatusReviewComplete,
		FinalPlan: FinalPlan{
			Destination:        req.Destination,
			Duration:           req.NumberOfDays,
			TotalEstimatedCost: total,
			BudgetStatus:       budgetStatus,
			ItinerarySteps:     itinerary,
			AgentNotes:         notes,
			ConfidenceScore:    confidence,
		},
	}, nil
}

func (r *Reviewer) reviewWithModel(ctx context.Context, execution *Execution, req *Requirements, budgetText string, total float64) ([]string, string, int, bool) {
	executed, err := json.Marshal(execution.Results)
	if err != nil {
		return nil, "", 0, false
	}

	prompt := fmt.Sprintf(`Task: Create a final day-by-day itinerary for a trip to %s (%s days).
Input Data (What was found/booked): %s
Budget Status: %s (Total: %g)

Output: Return a JSON object with:
- "itinerary": Day-by-day breakdown (Array of strings, e.g. "Day 1: Arrive...").
- "agent_notes": Tips or warnings based on the budget/plan.
- "confidence_score": 0-100 (based on completeness of data).`,
		req.Destination, req.NumberOfDays, executed, budgetText, total)

	result, err := r.llm.Invoke(ctx, prompt, "You are a Travel Reviewer Agent. Format the final output clearly. Return JSON.")
	if err != nil || result == nil {
		return nil, "", 0, false
	}

	items, ok := result["itinerary"].([]any)
	if !ok || len(items) == 0 {
		return nil, "", 0, false
	}
	itinerary := make([]string, 0, len(items))
	for _, item := range items {
		line, ok := item.(string)
		if !ok {
			return nil, "", 0, false
		}
		itinerary = append(itinerary, line)
	}

	confidence := int(numberField(result, "confidence_score"))
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	return itinerary, stringField(result, "agent_notes"), confidence, true
}

func templateItinerary(destination string, withinBudget bool) ([]string, string, int) {
	itinerary := []string{
		fmt.Sprintf("Day 1: Arrival in %s. Check-in to hotel.", destination),
		"Day 2: Sightseeing tour based on recommended activities.",
		"Day 3: Departure.",
	}

	notes := "Warning: This plan might exceed your initial budget."
	if withinBudget {
		notes = "Great! Your plan fits the budget."
	}

	return itinerary, notes, 85
}
