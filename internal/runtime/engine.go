package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/autoflow/internal/logging"
	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/graph"
	"github.com/aretw0/autoflow/pkg/ports"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Engine runs workflow graphs against an ActionExecutor.
// An Engine holds no per-run state and may run several graphs concurrently.
type Engine struct {
	executor ports.ActionExecutor
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	validate *validator.Validate
	handlers map[domain.NodeType]handler
	now      func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithClock replaces time.Now for report timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine dispatching primitive actions to exec.
func NewEngine(exec ports.ActionExecutor, opts ...EngineOption) *Engine {
	e := &Engine{
		executor: exec,
		logger:   logging.NewNop(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		handlers: dispatchTable(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// run is the state of a single execution. The executed set only tracks the main
// traversal; loop bodies never add to it.
type run struct {
	*Engine
	ctx      context.Context
	g        *graph.Graph
	executed map[string]struct{}
	report   *domain.RunReport
}

// Run executes g once: a depth-first traversal from every start node, in order.
//
// Errors are only returned before anything is dispatched (empty graph, no start
// node). Failing actions are reported in the RunReport and never stop the run.
// ctx is handed to the executor; the engine itself does not abort on cancellation.
func (e *Engine) Run(ctx context.Context, g *graph.Graph) (*domain.RunReport, error) {
	if g == nil || g.Len() == 0 {
		return nil, domain.ErrEmptyGraph
	}
	starts := g.StartNodes()
	if len(starts) == 0 {
		return nil, domain.ErrNoStartNodes
	}

	r := &run{
		Engine:   e,
		ctx:      ctx,
		g:        g,
		executed: make(map[string]struct{}, g.Len()),
		report: &domain.RunReport{
			RunID:      uuid.NewString(),
			StartedAt:  e.now(),
			StartNodes: starts,
			Dispatched: []string{},
		},
	}

	e.logger.Info("run started", "run_id", r.report.RunID, "start_nodes", starts)
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{
			EventBase:  r.event(domain.EventRunStart),
			StartNodes: starts,
		})
	}

	for _, id := range starts {
		r.visit(id)
	}

	r.report.FinishedAt = e.now()
	e.logger.Info("run finished",
		"run_id", r.report.RunID,
		"dispatched", len(r.report.Dispatched),
		"failures", len(r.report.Failures),
		"duration", r.report.Duration(),
	)
	if e.hooks.OnRunFinish != nil {
		e.hooks.OnRunFinish(ctx, &domain.RunEvent{
			EventBase: r.event(domain.EventRunFinish),
			Report:    r.report,
		})
	}
	return r.report, nil
}

func (r *run) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: r.now(), Type: t, RunID: r.report.RunID}
}

// visit is the main traversal step.
func (r *run) visit(id string) {
	if _, done := r.executed[id]; done {
		return
	}
	node, ok := r.g.Node(id)
	if !ok {
		return
	}
	r.executed[id] = struct{}{}

	if node.Type == domain.TypeLoopStart {
		r.loop(node)
		return
	}

	r.dispatch(node, false)
	for _, next := range r.g.Successors(id) {
		r.visit(next)
	}
}

// loop repeats the body paths of a for_loop node, then resumes after every
// loop_end reachable from it that the main traversal has not executed yet.
func (r *run) loop(node *domain.Node) {
	var params domain.LoopStartParams
	if err := r.decode(node, &params); err != nil {
		r.fail(node, err)
	}

	paths := graph.BodyPaths(r.g, node.ID)
	r.logger.Debug("loop body", "node_id", node.ID, "paths", paths)

	for i := 0; i < params.Count; i++ {
		r.logger.Info("loop iteration", "node_id", node.ID, "name", params.Name, "iteration", i+1, "count", params.Count)
		if r.hooks.OnLoopIteration != nil {
			r.hooks.OnLoopIteration(r.ctx, &domain.LoopEvent{
				EventBase: r.event(domain.EventLoopIteration),
				NodeID:    node.ID,
				Name:      params.Name,
				Iteration: i + 1,
				Count:     params.Count,
			})
		}

		for _, path := range paths {
			for _, id := range path {
				body, ok := r.g.Node(id)
				if !ok || body.Type == domain.TypeLoopEnd {
					continue
				}
				r.dispatch(body, true)
			}
		}
	}

	for _, end := range graph.LoopEnds(r.g, node.ID) {
		if _, done := r.executed[end]; done {
			continue
		}
		r.executed[end] = struct{}{}
		for _, next := range r.g.Successors(end) {
			r.visit(next)
		}
	}
}
