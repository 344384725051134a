package autoflow

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/autoflow/pkg/domain"
)

// Runner presents runs on a writer. Register its Hooks with WithLifecycleHooks;
// the engine itself never writes to the terminal.
type Runner struct {
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer

	mu sync.Mutex
}

// ContentRenderer is a function that transforms markdown before it is written.
// This allows TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner writing to out.
func NewRunner(out io.Writer) *Runner {
	return &Runner{Output: out}
}

func (r *Runner) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.Output, format, args...)
}

// Hooks returns lifecycle hooks that print progress. In headless mode only the
// final summary is printed.
func (r *Runner) Hooks() domain.LifecycleHooks {
	hooks := domain.LifecycleHooks{
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			r.printSummary(e.Report)
		},
	}
	if r.Headless {
		return hooks
	}

	hooks.OnRunStart = func(_ context.Context, e *domain.RunEvent) {
		r.printf("--- run %s (start: %s) ---\n", e.RunID, strings.Join(e.StartNodes, ", "))
	}
	hooks.OnNodeDispatch = func(_ context.Context, e *domain.NodeEvent) {
		indent := ""
		if e.InLoop {
			indent = "  "
		}
		r.printf("%s> %s (%s)\n", indent, e.NodeID, e.NodeType)
	}
	hooks.OnLoopIteration = func(_ context.Context, e *domain.LoopEvent) {
		r.printf("loop %s %d/%d\n", e.Name, e.Iteration, e.Count)
	}
	hooks.OnLoopMarker = func(_ context.Context, e *domain.MarkerEvent) {
		r.printf("loop end: %s\n", e.Name)
	}
	hooks.OnActionError = func(_ context.Context, e *domain.ActionErrorEvent) {
		r.printf("! %v\n", e.Err)
	}
	return hooks
}

func (r *Runner) printSummary(report *domain.RunReport) {
	if report == nil {
		return
	}
	md := Summary(report)
	if r.Renderer != nil {
		if rendered, err := r.Renderer(md); err == nil {
			md = rendered
		}
	}
	r.printf("%s\n", strings.TrimRight(md, "\n"))
}

// Summary formats a run report as markdown.
func Summary(report *domain.RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Run %s\n\n", report.RunID)
	fmt.Fprintf(&b, "- Dispatched: %d\n", len(report.Dispatched))
	fmt.Fprintf(&b, "- Failures: %d\n", len(report.Failures))
	fmt.Fprintf(&b, "- Duration: %s\n", report.Duration().Round(time.Millisecond))

	if len(report.Failures) > 0 {
		b.WriteString("\n| Node | Type | Error |\n|---|---|---|\n")
		for _, f := range report.Failures {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", f.NodeID, f.NodeType, strings.ReplaceAll(f.Error, "|", `\|`))
		}
	}
	return b.String()
}
