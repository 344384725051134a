package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart      EventType = "run_start"
	EventRunFinish     EventType = "run_finish"
	EventNodeDispatch  EventType = "node_dispatch"
	EventActionError   EventType = "action_error"
	EventLoopIteration EventType = "loop_iteration"
	EventLoopMarker    EventType = "loop_marker"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// RunEvent marks the beginning or the end of a run.
type RunEvent struct {
	EventBase
	StartNodes []string   `json:"start_nodes,omitempty"`
	Report     *RunReport `json:"report,omitempty"`
}

// NodeEvent is emitted right before a node is handed to the action executor.
// InLoop is set when the dispatch comes from a loop body rather than the main traversal.
type NodeEvent struct {
	EventBase
	NodeID   string   `json:"node_id"`
	NodeType NodeType `json:"node_type"`
	InLoop   bool     `json:"in_loop,omitempty"`
}

// ActionErrorEvent reports a node whose dispatch failed.
type ActionErrorEvent struct {
	EventBase
	NodeID   string   `json:"node_id"`
	NodeType NodeType `json:"node_type"`
	Err      error    `json:"-"`
}

// LoopEvent is emitted at the start of every loop iteration.
type LoopEvent struct {
	EventBase
	NodeID    string `json:"node_id"`
	Name      string `json:"name"`
	Iteration int    `json:"iteration"`
	Count     int    `json:"count"`
}

// MarkerEvent reports a loop_end reached directly by the main traversal.
type MarkerEvent struct {
	EventBase
	NodeID string `json:"node_id"`
	Name   string `json:"name"`
}

// LifecycleHooks defines callbacks for engine observability.
// Presentation layers subscribe to OnRunStart/OnRunFinish instead of being driven by the engine.
type LifecycleHooks struct {
	OnRunStart      func(context.Context, *RunEvent)
	OnRunFinish     func(context.Context, *RunEvent)
	OnNodeDispatch  func(context.Context, *NodeEvent)
	OnActionError   func(context.Context, *ActionErrorEvent)
	OnLoopIteration func(context.Context, *LoopEvent)
	OnLoopMarker    func(context.Context, *MarkerEvent)
}

// Merge returns hooks that invoke h first and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart:      chain(h.OnRunStart, other.OnRunStart),
		OnRunFinish:     chain(h.OnRunFinish, other.OnRunFinish),
		OnNodeDispatch:  chain(h.OnNodeDispatch, other.OnNodeDispatch),
		OnActionError:   chain(h.OnActionError, other.OnActionError),
		OnLoopIteration: chain(h.OnLoopIteration, other.OnLoopIteration),
		OnLoopMarker:    chain(h.OnLoopMarker, other.OnLoopMarker),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
