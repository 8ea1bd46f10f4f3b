package travel

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rahul/wayfarer/internal/observability"
)

// Analyzer turns a raw request payload into structured trip requirements.
// It prefers the model layer for free-text input and falls back to regex
// heuristics so a missing provider never blocks a request.
type Analyzer struct {
	llm     Invoker
	logger  *observability.Logger
	metrics *observability.Metrics
}

func NewAnalyzer(llm Invoker, logger *observability.Logger, metrics *observability.Metrics) *Analyzer {
	return &Analyzer{llm: llm, logger: logger, metrics: metrics}
}

var (
	dayPattern    = regexp.MustCompile(`(?i)(\d+)\s*-?\s*day`)
	budgetPattern = regexp.MustCompile(`(?i)(?:under|budget|cost|for)\s*(?:₹|INR|Rs\.?|\$|€|Euros?)?\s*(\d[\d,]*)`)
	nonLetter     = regexp.MustCompile(`[^a-zA-Z]`)
)

// Cue phrases for destination extraction. First phrase found in the text
// wins; order is fixed and deliberate so fallback results stay reproducible.
var destinationCues = []string{"trip to", "visit", "in", "tour of"}

func (a *Analyzer) Analyze(ctx context.Context, payload map[string]any) Analysis {
	requestID := observability.RequestID(ctx)

	if len(payload) == 0 {
		a.logger.LogStage(requestID, "analyzer", StatusError)
		return ErrorAnalysis("input is required", StageCollectingInfo)
	}

	// Structured input (dropdown-style payload) carries a destination key.
	if _, ok := payload[FieldDestination]; ok {
		return a.analyzeStructured(requestID, payload)
	}

	text := stringField(payload, "text")
	if text == "" {
		a.logger.LogStage(requestID, "analyzer", StatusError)
		return ErrorAnalysis("invalid input format", StageCollectingInfo)
	}

	if analysis, ok := a.analyzeWithModel(ctx, text); ok {
		a.logger.LogStage(requestID, "analyzer", analysis.Status)
		return analysis
	}

	a.logger.LogFallback(requestID, "analyzer", "model unavailable or unusable, using regex heuristics")
	a.metrics.StageFallbacks.WithLabelValues("analyzer").Inc()

	analysis := a.analyzeWithHeuristics(text, payload)
	a.logger.LogStage(requestID, "analyzer", analysis.Status)
	return analysis
}

func (a *Analyzer) analyzeStructured(requestID string, payload map[string]any) Analysis {
	dest := stringField(payload, "destination")
	budget := stringField(payload, "budget")
	days := stringField(payload, "days")

	if missing := missingRequired(dest, budget, days); len(missing) > 0 {
		a.logger.LogStage(requestID, "analyzer", StatusNeedsInfo)
		return NeedsInfoAnalysis(missing)
	}

	a.logger.LogStage(requestID, "analyzer", StatusReady)
	return ReadyAnalysis(newRequirements(dest, budget, days, stringField(payload, "type"), ""))
}

func (a *Analyzer) analyzeWithModel(ctx context.Context, text string) (Analysis, bool) {
	prompt := fmt.Sprintf(`Extract travel requirements from this text: %q.
Return JSON with fields: destination, total_budget, number_of_days, travel_type, number_of_people.
If missing, return null for that field.
Budget should be a number (remove currency symbols).`, text)

	result, err := a.llm.Invoke(ctx, prompt, "You are a Travel Requirement Analyzer Agent. Output valid JSON only.")
	if err != nil || result == nil {
		return Analysis{}, false
	}

	dest := stringField(result, FieldDestination)
	if dest == "" {
		// A result without a destination is unusable; heuristics take over.
		return Analysis{}, false
	}

	budget := stringField(result, FieldTotalBudget)
	days := stringField(result, FieldNumberOfDays)

	if missing := missingRequired(dest, budget, days); len(missing) > 0 {
		return NeedsInfoAnalysis(missing), true
	}

	return ReadyAnalysis(newRequirements(dest, budget, days,
		stringField(result, "travel_type"), stringField(result, "number_of_people"))), true
}

func (a *Analyzer) analyzeWithHeuristics(text string, payload map[string]any) Analysis {
	var dest string
	lower := strings.ToLower(text)
	for _, cue := range destinationCues {
		idx := strings.Index(lower, cue)
		if idx == -1 {
			continue
		}
		after := strings.TrimSpace(text[idx+len(cue):])
		if words := strings.Fields(after); len(words) > 0 {
			dest = nonLetter.ReplaceAllString(words[0], "")
		}
		break
	}

	var budget string
	if m := budgetPattern.FindStringSubmatch(text); m != nil {
		budget = strings.ReplaceAll(m[1], ",", "")
	}

	var days string
	if m := dayPattern.FindStringSubmatch(text); m != nil {
		days = m[1]
	}

	// Structured sibling fields on the same payload backfill what the
	// regexes could not resolve.
	if dest == "" {
		dest = stringField(payload, "destination")
	}
	if budget == "" {
		budget = stringField(payload, "budget")
	}
	if days == "" {
		days = stringField(payload, "days")
	}

	if missing := missingRequired(dest, budget, days); len(missing) > 0 {
		return NeedsInfoAnalysis(missing)
	}

	return ReadyAnalysis(newRequirements(dest, budget, days, "", ""))
}

// missingRequired reports the canonical names of absent required fields, in
// a fixed order.
func missingRequired(dest, budget, days string) []string {
	var missing []string
	if dest == "" {
		missing = append(missing, FieldDestination)
	}
	if budget == "" {
		missing = append(missing, FieldTotalBudget)
	}
	if days == "" {
		missing = append(missing, FieldNumberOfDays)
	}
	return missing
}

func newRequirements(dest, budget, days, travelType, people string) *Requirements {
	if travelType == "" {
		travelType = "Solo"
	}
	if people == "" {
		people = "1"
	}
	return &Requirements{
		Destination:             dest,
		TotalBudget:             budget,
		NumberOfDays:            days,
		TravelType:              travelType,
		NumberOfPeople:          people,
		AccommodationPreference: "Any",
		TransportPreference:     "Any",
	}
}
