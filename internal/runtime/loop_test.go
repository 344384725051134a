package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/autoflow/internal/runtime"
	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RepeatsBodyThenContinuesOnce(t *testing.T) {
	g := dsl.New().
		Add("L", domain.TypeLoopStart).Times(3).Go("X").
		Add("X", domain.TypeClickLeft).Image("x.png").Go("E").
		Add("E", domain.TypeLoopEnd).Go("after").
		Add("after", domain.TypeHotkey).Keys("ctrl+s").
		Builder().MustBuild()

	var iterations []int
	hooks := domain.LifecycleHooks{
		OnLoopIteration: func(_ context.Context, e *domain.LoopEvent) {
			iterations = append(iterations, e.Iteration)
			assert.Equal(t, 3, e.Count)
			assert.Equal(t, "loop", e.Name)
		},
	}

	exec, report := run(t, g, runtime.WithLifecycleHooks(hooks))

	assert.Equal(t, 3, exec.Count("x.png"))
	assert.Equal(t, 1, exec.Count("hotkey"))
	assert.Equal(t, 3, report.Count("X"))
	assert.Equal(t, 0, report.Count("E"), "loop_end is never dispatched from a body")
	assert.Equal(t, 1, report.Count("after"))
	assert.Equal(t, []int{1, 2, 3}, iterations)
}

func TestLoop_SharedLoopEndBranches(t *testing.T) {
	g := dsl.New().
		Add("L", domain.TypeLoopStart).Times(2).Go("X", "Y").
		Add("X", domain.TypeWait).Go("E").
		Add("Y", domain.TypeScroll).Go("E").
		Add("E", domain.TypeLoopEnd).Go("after").
		Add("after", domain.TypeHotkey).
		Builder().MustBuild()

	_, report := run(t, g)

	assert.Equal(t, []string{"X", "Y", "X", "Y", "after"}, report.Dispatched)
}

func TestLoop_OverlapIsNotDeduplicated(t *testing.T) {
	// L -> A -> C -> E and L -> B -> C: C runs once per branch per iteration.
	g := dsl.New().
		Add("L", domain.TypeLoopStart).Times(2).Go("A", "B").
		Add("A", domain.TypeWait).Go("C").
		Add("B", domain.TypeWait).Go("C").
		Add("C", domain.TypeScroll).Go("E").
		Add("E", domain.TypeLoopEnd).
		Builder().MustBuild()

	_, report := run(t, g)
	assert.Equal(t, 4, report.Count("C"))
	assert.Equal(t, 2, report.Count("A"))
	assert.Equal(t, 2, report.Count("B"))
}

func TestLoop_WithoutSuccessors(t *testing.T) {
	g := dsl.New().
		Add("L", domain.TypeLoopStart).Times(5).
		Builder().MustBuild()

	exec, report := run(t, g)
	assert.Empty(t, exec.Calls())
	assert.Empty(t, report.Dispatched)
	assert.True(t, report.Succeeded())
}

func TestLoop_DeadEndBodyHasNoContinuation(t *testing.T) {
	// No loop_end is reachable: the body still repeats, nothing resumes after it.
	g := dsl.New().
		Add("L", domain.TypeLoopStart).Times(2).Go("X").
		Add("X", domain.TypeWait).
		Builder().MustBuild()

	_, report := run(t, g)
	assert.Equal(t, []string{"X", "X"}, report.Dispatched)
}

func TestLoop_CountEdgeCases(t *testing.T) {
	build := func(count any) *dsl.Builder {
		return dsl.New().
			Add("L", domain.TypeLoopStart).Param("loop_count", count).Go("X").
			Add("X", domain.TypeWait).Go("E").
			Add("E", domain.TypeLoopEnd).Go("after").
			Add("after", domain.TypeScroll).
			Builder()
	}

	t.Run("Zero", func(t *testing.T) {
		_, report := run(t, build(0).MustBuild())
		assert.Equal(t, []string{"after"}, report.Dispatched)
	})

	t.Run("Negative", func(t *testing.T) {
		_, report := run(t, build(-2).MustBuild())
		assert.Equal(t, []string{"after"}, report.Dispatched)
		assert.True(t, report.Succeeded())
	})

	t.Run("String Number", func(t *testing.T) {
		_, report := run(t, build("2").MustBuild())
		assert.Equal(t, 2, report.Count("X"))
	})

	t.Run("Undecodable", func(t *testing.T) {
		_, report := run(t, build("many").MustBuild())
		assert.Equal(t, []string{"after"}, report.Dispatched)
		require.Len(t, report.Failures, 1)
		assert.Equal(t, "L", report.Failures[0].NodeID)
	})
}

func TestLoop_ContinuationSkipsExecutedLoopEnd(t *testing.T) {
	// S reaches E through the main traversal before the loop does.
	g := dsl.New().
		Add("S", domain.TypeWait).Go("E").
		Add("L", domain.TypeLoopStart).Times(1).Go("X").
		Add("X", domain.TypeScroll).Go("E").
		Add("E", domain.TypeLoopEnd).Go("after").
		Add("after", domain.TypeHotkey).
		Builder().MustBuild()

	_, report := run(t, g)
	assert.Equal(t, []string{"S", "E", "after", "X"}, report.Dispatched)
}

func TestLoop_Nested(t *testing.T) {
	// The inner for_loop is only a marker inside the outer body; its body nodes are
	// part of the outer paths. The main traversal never enters the inner loop itself.
	g := dsl.New().
		Add("outer", domain.TypeLoopStart).Times(2).Go("inner").
		Add("inner", domain.TypeLoopStart).Times(10).Go("X").
		Add("X", domain.TypeWait).Go("E1").
		Add("E1", domain.TypeLoopEnd).Go("after").
		Add("after", domain.TypeScroll).
		Builder().MustBuild()

	_, report := run(t, g)
	assert.Equal(t, []string{"inner", "X", "inner", "X", "after"}, report.Dispatched)
}

func TestLoop_BodyNodesStayRunnableFromMainTraversal(t *testing.T) {
	// X belongs to the loop body and is also reachable from another start node.
	g := dsl.New().
		Add("L", domain.TypeLoopStart).Times(2).Go("X").
		Add("X", domain.TypeWait).Go("E").
		Add("E", domain.TypeLoopEnd).
		Add("S", domain.TypeScroll).Go("X").
		Builder().MustBuild()

	_, report := run(t, g)
	assert.Equal(t, []string{"X", "X", "S", "X"}, report.Dispatched)
}
