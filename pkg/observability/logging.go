package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/autoflow/pkg/domain"
)

// LoggingHooks returns hooks that write every engine event to logger.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start", "run_id", e.RunID, "start_nodes", e.StartNodes)
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			attrs := []any{"run_id", e.RunID}
			if e.Report != nil {
				attrs = append(attrs,
					"dispatched", len(e.Report.Dispatched),
					"failures", len(e.Report.Failures),
					"duration", e.Report.Duration(),
				)
			}
			logger.InfoContext(ctx, "run_finish", attrs...)
		},
		OnNodeDispatch: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_dispatch",
				"run_id", e.RunID,
				"node_id", e.NodeID,
				"type", e.NodeType,
				"in_loop", e.InLoop,
			)
		},
		OnActionError: func(ctx context.Context, e *domain.ActionErrorEvent) {
			logger.WarnContext(ctx, "action_error",
				"run_id", e.RunID,
				"node_id", e.NodeID,
				"type", e.NodeType,
				"error", e.Err,
			)
		},
		OnLoopIteration: func(ctx context.Context, e *domain.LoopEvent) {
			logger.DebugContext(ctx, "loop_iteration",
				"run_id", e.RunID,
				"node_id", e.NodeID,
				"loop", e.Name,
				"iteration", e.Iteration,
				"count", e.Count,
			)
		},
		OnLoopMarker: func(ctx context.Context, e *domain.MarkerEvent) {
			logger.DebugContext(ctx, "loop_marker", "run_id", e.RunID, "node_id", e.NodeID, "name", e.Name)
		},
	}
}
