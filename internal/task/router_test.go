package task

import (
	"context"
	"errors"
	"testing"

	"github.com/rahul/wayfarer/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTask struct {
	name string
	out  any
	err  error
}

func (f *fakeTask) Type() string { return f.name }

func (f *fakeTask) Execute(ctx context.Context, payload map[string]any) (any, error) {
	return f.out, f.err
}

func newTestRouter() *Router {
	return NewRouter(observability.NewLogger(), observability.NewMetrics())
}

func TestRouter_RegisterAndDispatch(t *testing.T) {
	r := newTestRouter()
	require.NoError(t, r.Register(&fakeTask{name: "travel", out: "done"}))

	out, err := r.Dispatch(context.Background(), "travel", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "done", out)
}

func TestRouter_UnknownTaskType(t *testing.T) {
	r := newTestRouter()
	require.NoError(t, r.Register(&fakeTask{name: "travel"}))

	_, err := r.Dispatch(context.Background(), "unknown_type", map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTask)
	assert.Contains(t, err.Error(), "unknown_type")
}

func TestRouter_RegistrationChecks(t *testing.T) {
	r := newTestRouter()

	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(&fakeTask{name: ""}))

	require.NoError(t, r.Register(&fakeTask{name: "travel"}))
	assert.Error(t, r.Register(&fakeTask{name: "travel"}), "duplicate registration must fail")
}

func TestRouter_TaskErrorsPropagate(t *testing.T) {
	r := newTestRouter()
	boom := errors.New("stage exploded")
	require.NoError(t, r.Register(&fakeTask{name: "travel", err: boom}))

	_, err := r.Dispatch(context.Background(), "travel", map[string]any{})
	assert.ErrorIs(t, err, boom)
}

func TestRouter_Types(t *testing.T) {
	r := newTestRouter()
	require.NoError(t, r.Register(&fakeTask{name: "travel"}))
	require.NoError(t, r.Register(&fakeTask{name: "dining"}))

	assert.Equal(t, []string{"dining", "travel"}, r.Types())
}
