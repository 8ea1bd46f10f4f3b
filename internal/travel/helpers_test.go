package travel

import (
	"context"
	"sync"

	"github.com/rahul/wayfarer/internal/observability"
)

// stubInvoker returns a fixed result/error and counts calls. A zero value
// behaves like the "no provider configured" signal. Safe for the executor's
// concurrent step fan-out.
type stubInvoker struct {
	result map[string]any
	err    error

	mu    sync.Mutex
	calls int
}

func (s *stubInvoker) Invoke(ctx context.Context, prompt, system string) (map[string]any, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.result, s.err
}

func (s *stubInvoker) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// invokerFunc lets a test vary behavior per prompt.
type invokerFunc func(ctx context.Context, prompt, system string) (map[string]any, error)

func (f invokerFunc) Invoke(ctx context.Context, prompt, system string) (map[string]any, error) {
	return f(ctx, prompt, system)
}

func testDeps() (*observability.Logger, *observability.Metrics) {
	return observability.NewLogger(), observability.NewMetrics()
}

func testRequirements(dest, budget, days string) *Requirements {
	return &Requirements{
		Destination:             dest,
		TotalBudget:             budget,
		NumberOfDays:            days,
		TravelType:              "Friends",
		NumberOfPeople:          "1",
		AccommodationPreference: "Any",
		TransportPreference:     "Any",
	}
}
