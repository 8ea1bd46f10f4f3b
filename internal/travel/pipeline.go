package travel

import (
	"context"
	"fmt"

	"github.com/rahul/wayfarer/internal/observability"
)

// TaskType is the name this pipeline registers under.
const TaskType = "travel"

// Pipeline composes the four agent stages into the travel task. It
// short-circuits when the analyzer reports missing information and otherwise
// runs Analyzer -> Planner -> Executor -> Reviewer in strict sequence.
type Pipeline struct {
	analyzer *Analyzer
	planner  *Planner
	executor *Executor
	reviewer *Reviewer
	logger   *observability.Logger
}

func NewPipeline(llm Invoker, logger *observability.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		analyzer: NewAnalyzer(llm, logger, metrics),
		planner:  NewPlanner(llm, logger, metrics),
		executor: NewExecutor(llm, logger, metrics),
		reviewer: NewReviewer(llm, logger, metrics),
		logger:   logger,
	}
}

func (p *Pipeline) Type() string {
	return TaskType
}

func (p *Pipeline) Execute(ctx context.Context, payload map[string]any) (any, error) {
	analysis := p.analyzer.Analyze(ctx, payload)
	if analysis.Status != StatusReady {
		return analysis, nil
	}

	strategy, err := p.planner.Plan(ctx, analysis.Data)
	if err != nil {
		return nil, fmt.Errorf("strategy stage: %w", err)
	}

	execution, err := p.executor.Execute(ctx, strategy, analysis.Data)
	if err != nil {
		return nil, fmt.Errorf("execution stage: %w", err)
	}

	review, err := p.reviewer.Review(ctx, execution, analysis.Data)
	if err != nil {
		return nil, fmt.Errorf("review stage: %w", err)
	}

	return &Outcome{
		Status:          StatusSuccess,
		OriginalRequest: analysis.Data,
		Strategy:        strategy,
		Execution:       execution,
		FinalItinerary:  review,
	}, nil
}
