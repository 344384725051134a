package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/autoflow/internal/runtime"
	"github.com/aretw0/autoflow/internal/testutils"
	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/dsl"
	"github.com/aretw0/autoflow/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, g *graph.Graph, opts ...runtime.EngineOption) (*testutils.RecordingExecutor, *domain.RunReport) {
	t.Helper()
	exec := testutils.NewRecordingExecutor()
	report, err := runtime.NewEngine(exec, opts...).Run(context.Background(), g)
	require.NoError(t, err)
	return exec, report
}

func TestEngine_PreRunErrors(t *testing.T) {
	engine := runtime.NewEngine(testutils.NewRecordingExecutor())

	_, err := engine.Run(context.Background(), graph.New())
	assert.ErrorIs(t, err, domain.ErrEmptyGraph)

	_, err = engine.Run(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyGraph)

	cycle := dsl.New().
		Add("a", domain.TypeWait).Go("b").
		Add("b", domain.TypeWait).Go("a").
		Builder().MustBuild()
	_, err = engine.Run(context.Background(), cycle)
	assert.ErrorIs(t, err, domain.ErrNoStartNodes)
}

func TestEngine_DiamondMergeRunsOnce(t *testing.T) {
	g := dsl.New().
		Add("A", domain.TypeWait).Seconds(1).Go("B", "C").
		Add("B", domain.TypeScroll).Go("D").
		Add("C", domain.TypeHotkey).Keys("ctrl + shift+ s").Go("D").
		Add("D", domain.TypeClickLeft).Image("done.png").
		Builder().MustBuild()

	exec, report := run(t, g)

	assert.Equal(t, []string{
		"wait 1s",
		"scroll 100 x1",
		"click done.png x1 left retry=1",
		"hotkey ctrl|shift|s x1",
	}, exec.Calls(), "depth first, successors in connection order, merge point once")
	assert.Equal(t, []string{"A", "B", "D", "C"}, report.Dispatched)
	assert.True(t, report.Succeeded())
	assert.NotEmpty(t, report.RunID)
}

func TestEngine_MultipleStartNodes(t *testing.T) {
	g := dsl.New().
		Add("a", domain.TypeWait).Go("shared").
		Add("b", domain.TypeScroll).Go("shared").
		Add("shared", domain.TypeHotkey).
		Builder().MustBuild()

	_, report := run(t, g)
	assert.Equal(t, []string{"a", "b"}, report.StartNodes)
	assert.Equal(t, []string{"a", "shared", "b"}, report.Dispatched)
}

func TestEngine_ClickVariants(t *testing.T) {
	g := dsl.New().
		Add("l", domain.TypeClickLeft).Image("a.png").Param("retry", 3).Go("d").
		Add("d", domain.TypeDoubleClick).Image("b.png").Go("r").
		Add("r", domain.TypeClickRight).Image("c.png").
		Builder().MustBuild()

	exec, _ := run(t, g)
	assert.Equal(t, []string{
		"click a.png x1 left retry=3",
		"click b.png x2 left retry=1",
		"click c.png x1 right retry=1",
	}, exec.Calls())
}

func TestEngine_InputText(t *testing.T) {
	g := dsl.New().
		Add("empty", domain.TypeInputText).Param("clear", true).Go("full").
		Add("full", domain.TypeInputText).Text("héllo").Param("clear", "true").
		Builder().MustBuild()

	exec, report := run(t, g)
	assert.Equal(t, []string{`input "héllo" clear=true`}, exec.Calls(), "empty text dispatches nothing")
	assert.Equal(t, []string{"empty", "full"}, report.Dispatched)
}

func TestEngine_FailureIsolation(t *testing.T) {
	g := dsl.New().
		Add("a", domain.TypeClickLeft).Image("missing.png").Go("b").
		Add("b", domain.TypeWait).Seconds(0.25).Go("c").
		Add("c", domain.TypeScroll).Param("amount", -300).Go("d").
		Add("d", domain.TypeHotkey).Keys("alt+tab").
		Builder().MustBuild()

	exec := testutils.NewRecordingExecutor()
	exec.FailOn["missing.png"] = errors.New("image not found")
	exec.PanicOn = "scroll"

	var failed []*domain.ActionErrorEvent
	hooks := domain.LifecycleHooks{
		OnActionError: func(_ context.Context, e *domain.ActionErrorEvent) {
			failed = append(failed, e)
		},
	}

	report, err := runtime.NewEngine(exec, runtime.WithLifecycleHooks(hooks)).Run(context.Background(), g)
	require.NoError(t, err)

	assert.Equal(t, 1, exec.Count("hotkey alt|tab"), "successors of failing nodes still run")
	require.Len(t, report.Failures, 2)
	assert.Equal(t, "a", report.Failures[0].NodeID)
	assert.Equal(t, domain.TypeClickLeft, report.Failures[0].NodeType)
	assert.Contains(t, report.Failures[1].Error, "panic")
	assert.False(t, report.Succeeded())

	require.Len(t, failed, 2)
	var actionErr *domain.ActionError
	require.ErrorAs(t, failed[0].Err, &actionErr)
	assert.Equal(t, "a", actionErr.NodeID)
	assert.EqualError(t, errors.Unwrap(actionErr), "image not found")
}

func TestEngine_InvalidParams(t *testing.T) {
	g := dsl.New().
		Add("a", domain.TypeClickLeft).Param("retry", 0).Go("b").
		Add("b", domain.TypeWait).Param("seconds", "soon").Go("c").
		Add("c", domain.TypeHotkey).Keys(" + ").Go("d").
		Add("d", domain.TypeScroll).Param("repeat", "2").
		Builder().MustBuild()

	exec, report := run(t, g)

	assert.Equal(t, []string{"scroll 100 x2"}, exec.Calls(), "weakly typed values still decode")
	require.Len(t, report.Failures, 3)
	assert.Equal(t, "a", report.Failures[0].NodeID)
	assert.Equal(t, "b", report.Failures[1].NodeID)
	assert.Equal(t, "c", report.Failures[2].NodeID)
}

func TestEngine_Hooks(t *testing.T) {
	g := dsl.New().
		Add("a", domain.TypeWait).Go("end").
		Add("end", domain.TypeLoopEnd).Param("end_name", "tail").
		Builder().MustBuild()

	var events []string
	var started, finished *domain.RunEvent
	hooks := domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			started = e
			events = append(events, "start")
		},
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			finished = e
			events = append(events, "finish")
		},
		OnNodeDispatch: func(_ context.Context, e *domain.NodeEvent) {
			events = append(events, "dispatch "+e.NodeID)
		},
		OnLoopMarker: func(_ context.Context, e *domain.MarkerEvent) {
			events = append(events, "marker "+e.Name)
		},
	}

	_, report := run(t, g, runtime.WithLifecycleHooks(hooks))

	assert.Equal(t, []string{"start", "dispatch a", "dispatch end", "marker tail", "finish"}, events)
	assert.Equal(t, []string{"a"}, started.StartNodes)
	assert.Same(t, report, finished.Report)
	assert.Equal(t, report.RunID, started.RunID)
	assert.Equal(t, domain.EventRunFinish, finished.Type)
}
