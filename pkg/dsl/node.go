package dsl

import "github.com/aretw0/autoflow/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	id      string
	typ     domain.NodeType
	x, y    int
	params  map[string]any
	targets []string
	builder *Builder
}

// Param sets one parameter.
func (n *NodeBuilder) Param(key string, value any) *NodeBuilder {
	n.params[key] = value
	return n
}

// At places the node on the canvas.
func (n *NodeBuilder) At(x, y int) *NodeBuilder {
	n.x, n.y = x, y
	return n
}

// Image sets the image a click node looks for.
func (n *NodeBuilder) Image(img string) *NodeBuilder {
	return n.Param(domain.ParamImg, img)
}

// Text sets the text an input_text node types.
func (n *NodeBuilder) Text(text string) *NodeBuilder {
	return n.Param(domain.ParamText, text)
}

// Seconds sets the duration of a wait node.
func (n *NodeBuilder) Seconds(s float64) *NodeBuilder {
	return n.Param(domain.ParamSeconds, s)
}

// Keys sets the "+"-joined combination of a hotkey node.
func (n *NodeBuilder) Keys(keys string) *NodeBuilder {
	return n.Param(domain.ParamKeys, keys)
}

// Repeat sets how many times a scroll or hotkey node repeats.
func (n *NodeBuilder) Repeat(times int) *NodeBuilder {
	return n.Param(domain.ParamRepeat, times)
}

// Times sets the iteration count of a for_loop node.
func (n *NodeBuilder) Times(count int) *NodeBuilder {
	return n.Param(domain.ParamLoopCount, count)
}

// Go adds a connection from this node to each target.
func (n *NodeBuilder) Go(targets ...string) *NodeBuilder {
	n.targets = append(n.targets, targets...)
	return n
}

// Add starts the next node, allowing whole graphs to be written as one chain.
func (n *NodeBuilder) Add(id string, t domain.NodeType) *NodeBuilder {
	return n.builder.Add(id, t)
}

// Builder returns the builder this node belongs to.
func (n *NodeBuilder) Builder() *Builder {
	return n.builder
}
