package domain

import (
	"errors"
	"fmt"
)

// ErrWorkflowNotFound is returned when a workflow name cannot be found in a store.
var ErrWorkflowNotFound = errors.New("workflow not found")

// ErrEmptyGraph is returned when a run is requested on a graph without nodes.
var ErrEmptyGraph = errors.New("graph has no nodes")

// ErrNoStartNodes is returned when every node has an incoming connection.
var ErrNoStartNodes = errors.New("graph has no start node")

// ErrNonConformingID is returned when a loaded node id does not follow the "node_<n>" convention.
var ErrNonConformingID = errors.New("node id does not match node_<integer>")

// UnknownNodeTypeError reports a type tag outside the closed set.
type UnknownNodeTypeError struct {
	Type string
}

func (e *UnknownNodeTypeError) Error() string {
	return fmt.Sprintf("unknown node type %q", e.Type)
}

// ActionError wraps a failure raised while dispatching a single node.
// The engine reports it and keeps executing the node's successors.
type ActionError struct {
	NodeID   string
	NodeType NodeType
	Cause    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("node %s (%s) failed: %v", e.NodeID, e.NodeType, e.Cause)
}

func (e *ActionError) Unwrap() error {
	return e.Cause
}

// ErrMalformedDocument is returned when a persisted workflow cannot be decoded.
var ErrMalformedDocument = errors.New("malformed workflow document")
