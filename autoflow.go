package autoflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/autoflow/internal/logging"
	"github.com/aretw0/autoflow/internal/runtime"
	"github.com/aretw0/autoflow/pkg/adapters/dryrun"
	"github.com/aretw0/autoflow/pkg/adapters/memory"
	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/graph"
	"github.com/aretw0/autoflow/pkg/ports"
	"github.com/aretw0/autoflow/pkg/workflow"
)

// DefaultLockTTL bounds how long a stored workflow stays locked if a holder dies.
const DefaultLockTTL = 10 * time.Minute

// Engine is the high-level entry point for the autoflow library.
// It wraps the internal runtime together with a store and a locker for named workflows.
type Engine struct {
	runtime  *runtime.Engine
	executor ports.ActionExecutor
	store    ports.WorkflowStore
	locker   ports.Locker
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	lockTTL  time.Duration
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithExecutor sets the executor primitive actions are dispatched to.
// Defaults to a dry-run executor that only logs.
func WithExecutor(exec ports.ActionExecutor) Option {
	return func(e *Engine) {
		e.executor = exec
	}
}

// WithStore sets where named workflows are kept. Defaults to an in-memory store.
func WithStore(store ports.WorkflowStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker sets the locker serializing runs and edits of named workflows.
// Defaults to an in-process locker.
func WithLocker(locker ports.Locker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.lockTTL = ttl
	}
}

// WithLifecycleHooks registers observability hooks. Calling it several times merges the hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{lockTTL: DefaultLockTTL}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.executor == nil {
		eng.executor = dryrun.New(dryrun.WithLogger(eng.logger))
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.locker == nil {
		eng.locker = memory.NewLocker()
	}

	eng.runtime = runtime.NewEngine(eng.executor,
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)
	return eng
}

// Run executes g. The caller must not mutate g until Run returns.
func (e *Engine) Run(ctx context.Context, g *graph.Graph) (*domain.RunReport, error) {
	return e.runtime.Run(ctx, g)
}

// RunDocument builds a graph from doc and runs it.
func (e *Engine) RunDocument(ctx context.Context, doc *workflow.Document) (*domain.RunReport, error) {
	g, err := doc.Graph()
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, g)
}

// RunFile reads a workflow file (JSON, YAML or msgpack by extension) and runs it.
func (e *Engine) RunFile(ctx context.Context, path string) (*domain.RunReport, error) {
	doc, err := workflow.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.RunDocument(ctx, doc)
}

// RunStored runs the workflow saved under name while holding its lock, so that
// no concurrent Save of the same name can interleave with the run.
func (e *Engine) RunStored(ctx context.Context, name string) (*domain.RunReport, error) {
	var report *domain.RunReport
	err := e.withLock(ctx, name, func() error {
		doc, err := e.store.Load(ctx, name)
		if err != nil {
			return err
		}
		report, err = e.RunDocument(ctx, doc)
		return err
	})
	return report, err
}

// Save stores doc under name. It waits for any run of the same name to finish.
// The document is checked by building its graph first.
func (e *Engine) Save(ctx context.Context, name string, doc *workflow.Document) error {
	if _, err := doc.Graph(); err != nil {
		return err
	}
	return e.withLock(ctx, name, func() error {
		return e.store.Save(ctx, name, doc)
	})
}

// Load returns the workflow stored under name.
func (e *Engine) Load(ctx context.Context, name string) (*workflow.Document, error) {
	return e.store.Load(ctx, name)
}

// Delete removes the workflow stored under name.
func (e *Engine) Delete(ctx context.Context, name string) error {
	return e.withLock(ctx, name, func() error {
		return e.store.Delete(ctx, name)
	})
}

// List returns the names of stored workflows.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.store.List(ctx)
}

// Store returns the underlying workflow store.
func (e *Engine) Store() ports.WorkflowStore {
	return e.store
}

func (e *Engine) withLock(ctx context.Context, name string, fn func() error) error {
	unlock, err := e.locker.Lock(ctx, name, e.lockTTL)
	if err != nil {
		return fmt.Errorf("failed to lock workflow %s: %w", name, err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			e.logger.Warn("failed to release workflow lock", "workflow", name, "error", err)
		}
	}()
	return fn()
}
