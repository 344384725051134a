package domain

// NodeType is the closed set of node kinds a workflow can contain.
type NodeType string

const (
	// TypeClickLeft single-clicks the left button on a located image.
	TypeClickLeft NodeType = "click_left"
	// TypeDoubleClick double-clicks the left button on a located image.
	TypeDoubleClick NodeType = "double_click"
	// TypeClickRight single-clicks the right button on a located image.
	TypeClickRight NodeType = "click_right"
	// TypeInputText pastes text into the focused control.
	TypeInputText NodeType = "input_text"
	// TypeWait pauses for a number of seconds.
	TypeWait NodeType = "wait"
	// TypeScroll turns the mouse wheel.
	TypeScroll NodeType = "scroll"
	// TypeHotkey presses a key combination.
	TypeHotkey NodeType = "hotkey"

	// TypeLoopStart marks the beginning of a repeated sub-graph.
	TypeLoopStart NodeType = "for_loop"
	// TypeLoopEnd marks where a repeated sub-graph terminates.
	TypeLoopEnd NodeType = "loop_end"
)

var nodeTypes = []NodeType{
	TypeClickLeft,
	TypeDoubleClick,
	TypeClickRight,
	TypeInputText,
	TypeWait,
	TypeScroll,
	TypeHotkey,
	TypeLoopStart,
	TypeLoopEnd,
}

// NodeTypes returns every known node type in palette order.
func NodeTypes() []NodeType {
	out := make([]NodeType, len(nodeTypes))
	copy(out, nodeTypes)
	return out
}

// Valid reports whether t belongs to the closed set of node types.
func (t NodeType) Valid() bool {
	for _, known := range nodeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsControl reports whether t is a loop marker rather than a primitive action.
func (t NodeType) IsControl() bool {
	return t == TypeLoopStart || t == TypeLoopEnd
}

// ParseNodeType converts a wire tag into a NodeType.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(s)
	if !t.Valid() {
		return "", &UnknownNodeTypeError{Type: s}
	}
	return t, nil
}

// Node dimensions used for hit-testing on the editor canvas.
const (
	NodeWidth  = 120
	NodeHeight = 60
)

// Node is a typed unit of work or control marker in a workflow graph.
// Position is cosmetic and never affects execution.
type Node struct {
	ID     string         `json:"id" yaml:"id"`
	Type   NodeType       `json:"type" yaml:"type"`
	X      int            `json:"x" yaml:"x"`
	Y      int            `json:"y" yaml:"y"`
	Params map[string]any `json:"params" yaml:"params"`
}

// Contains reports whether the point lies inside the node's bounding box (edges inclusive).
func (n *Node) Contains(x, y int) bool {
	return n.X <= x && x <= n.X+NodeWidth &&
		n.Y <= y && y <= n.Y+NodeHeight
}

// Clone returns a copy whose params map can be mutated independently.
func (n *Node) Clone() *Node {
	c := *n
	c.Params = CloneParams(n.Params)
	return &c
}

// CloneParams makes a shallow copy of a parameter map. A nil map yields an empty one.
func CloneParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// Connection is a directed "executes after" edge.
type Connection struct {
	From string `json:"from" yaml:"from" msgpack:"from"`
	To   string `json:"to" yaml:"to" msgpack:"to"`
}
