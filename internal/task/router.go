package task

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rahul/wayfarer/internal/observability"
)

// ErrUnknownTask is returned by Dispatch when no task is registered under
// the requested type. Callers surface it as a bad request, never a default.
var ErrUnknownTask = errors.New("unknown task type")

// Task is the capability interface every task type implements. Conformance
// is checked at registration time; the router never inspects a task again
// at call time.
type Task interface {
	// Type is the name the task registers under.
	Type() string
	// Execute runs the task pipeline for one request-scoped payload.
	Execute(ctx context.Context, payload map[string]any) (any, error)
}

// Router maps task-type names to registered task pipelines. The registry is
// populated once at startup and read-only afterwards, so concurrent
// dispatches need no locking.
type Router struct {
	tasks   map[string]Task
	logger  *observability.Logger
	metrics *observability.Metrics
}

func NewRouter(logger *observability.Logger, metrics *observability.Metrics) *Router {
	return &Router{
		tasks:   make(map[string]Task),
		logger:  logger,
		metrics: metrics,
	}
}

// Register adds a task to the registry. Adding a new task type is one call
// here from startup wiring; the router itself never changes.
func (r *Router) Register(t Task) error {
	if t == nil {
		return fmt.Errorf("task must not be nil")
	}
	name := t.Type()
	if name == "" {
		return fmt.Errorf("task type must not be empty")
	}
	if _, exists := r.tasks[name]; exists {
		return fmt.Errorf("task type %q already registered", name)
	}
	r.tasks[name] = t
	r.logger.LogRegistration(name)
	return nil
}

// Types returns the registered task-type names, sorted.
func (r *Router) Types() []string {
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch forwards the payload to the task registered under taskType.
func (r *Router) Dispatch(ctx context.Context, taskType string, payload map[string]any) (any, error) {
	requestID := observability.RequestID(ctx)

	t, ok := r.tasks[taskType]
	if !ok {
		r.metrics.TaskDispatches.WithLabelValues(taskType, "unknown").Inc()
		r.logger.LogDispatch(requestID, taskType, "unknown")
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, taskType)
	}

	start := time.Now()
	out, err := t.Execute(ctx, payload)
	r.metrics.RequestDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	r.metrics.TaskDispatches.WithLabelValues(taskType, status).Inc()
	r.logger.LogDispatch(requestID, taskType, status)

	return out, err
}
