// Package dryrun provides an action executor that only logs and records what it would do.
package dryrun

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/autoflow/internal/logging"
)

// Call is one recorded executor invocation.
type Call struct {
	Action string
	Args   []any
}

func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Action + "(" + strings.Join(parts, ", ") + ")"
}

// Executor implements ports.ActionExecutor without touching the desktop.
// Safe for concurrent use.
type Executor struct {
	logger *slog.Logger

	mu    sync.Mutex
	calls []Call
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger each action is reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// New creates a dry-run executor.
func New(opts ...Option) *Executor {
	e := &Executor{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) record(action string, attrs ...any) {
	args := make([]any, 0, len(attrs)/2)
	for i := 1; i < len(attrs); i += 2 {
		args = append(args, attrs[i])
	}

	e.mu.Lock()
	e.calls = append(e.calls, Call{Action: action, Args: args})
	e.mu.Unlock()

	e.logger.Info("dry-run "+action, attrs...)
}

// Calls returns a copy of the recorded invocations, in order.
func (e *Executor) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}

// Reset forgets the recorded invocations.
func (e *Executor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

func (e *Executor) Click(ctx context.Context, img string, retry int, clicks int, button string) error {
	e.record("click", "img", img, "retry", retry, "clicks", clicks, "button", button)
	return nil
}

func (e *Executor) InputText(ctx context.Context, text string, clear bool) error {
	e.record("input_text", "text", text, "clear", clear)
	return nil
}

func (e *Executor) Wait(ctx context.Context, seconds float64) error {
	e.record("wait", "seconds", seconds)
	return nil
}

func (e *Executor) Scroll(ctx context.Context, amount int, repeat int) error {
	e.record("scroll", "amount", amount, "repeat", repeat)
	return nil
}

func (e *Executor) Hotkey(ctx context.Context, keys []string, repeat int) error {
	e.record("hotkey", "keys", strings.Join(keys, "+"), "repeat", repeat)
	return nil
}
