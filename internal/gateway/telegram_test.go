package gateway

import (
	"errors"
	"testing"

	"github.com/rahul/wayfarer/internal/travel"
	"github.com/stretchr/testify/assert"
)

func TestFormatOutcome_SuccessPlan(t *testing.T) {
	out := &travel.Outcome{
		Status: travel.StatusSuccess,
		FinalItinerary: &travel.Review{
			Status: travel.StatusReviewComplete,
			FinalPlan: travel.FinalPlan{
				Destination:        "Goa",
				Duration:           "4",
				TotalEstimatedCost: 30500,
				BudgetStatus:       travel.BudgetOver,
				ItinerarySteps: []string{
					"Day 1: Arrival in Goa. Check-in to hotel.",
					"Day 2: Sightseeing tour based on recommended activities.",
					"Day 3: Departure.",
				},
				AgentNotes:      "Warning: This plan might exceed your initial budget.",
				ConfidenceScore: 85,
			},
		},
	}

	reply := formatOutcome(out, nil)
	assert.Contains(t, reply, "*Trip to Goa* (4 days)")
	assert.Contains(t, reply, "Day 2: Sightseeing tour based on recommended activities.")
	assert.Contains(t, reply, "30500")
	assert.Contains(t, reply, travel.BudgetOver)
	assert.Contains(t, reply, "_Warning: This plan might exceed your initial budget._")
}

func TestFormatOutcome_NeedsInfoListsFields(t *testing.T) {
	analysis := travel.NeedsInfoAnalysis([]string{travel.FieldDestination, travel.FieldTotalBudget})

	reply := formatOutcome(analysis, nil)
	assert.Contains(t, reply, "destination, total_budget")
	assert.Contains(t, reply, "Plan a 3-day trip to Goa", "reply should show a usable example request")
}

func TestFormatOutcome_ErrorAnalysis(t *testing.T) {
	analysis := travel.ErrorAnalysis("input is required", travel.StageCollectingInfo)

	reply := formatOutcome(analysis, nil)
	assert.Contains(t, reply, "couldn't understand")
}

func TestFormatOutcome_DispatchError(t *testing.T) {
	reply := formatOutcome(nil, errors.New("execution stage: strategy has no plan steps"))
	assert.Contains(t, reply, "couldn't plan that trip")
	assert.NotContains(t, reply, "strategy has no plan steps", "internal errors stay out of chat replies")
}

func TestFormatOutcome_UnknownShape(t *testing.T) {
	reply := formatOutcome(map[string]any{"status": "???"}, nil)
	assert.NotEmpty(t, reply)
}
