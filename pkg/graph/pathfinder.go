package graph

import "github.com/aretw0/autoflow/pkg/domain"

// frame is one pending step of the body walk. visited holds the nodes already on
// path and is never mutated once the frame is built.
type frame struct {
	id      string
	path    []string
	visited map[string]struct{}
}

// BodyPaths discovers the loop body of the for_loop node loopID.
//
// Each direct successor starts an independent depth-first walk. A path ends at a
// loop_end (included), or at a node without successors. A walk that meets a node
// already on its own path is dropped. Branches share prefixes but not visited sets,
// so one node may appear in several paths. When nothing is emitted the result is a
// single empty path.
func BodyPaths(g *Graph, loopID string) [][]string {
	var paths [][]string

	for _, start := range g.Successors(loopID) {
		stack := []frame{{id: start, visited: map[string]struct{}{}}}

		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if _, seen := f.visited[f.id]; seen {
				continue
			}
			node, ok := g.Node(f.id)
			if !ok {
				continue
			}

			path := append(append(make([]string, 0, len(f.path)+1), f.path...), f.id)
			if node.Type == domain.TypeLoopEnd {
				paths = append(paths, path)
				continue
			}

			next := g.Successors(f.id)
			if len(next) == 0 {
				paths = append(paths, path)
				continue
			}

			visited := make(map[string]struct{}, len(f.visited)+1)
			for id := range f.visited {
				visited[id] = struct{}{}
			}
			visited[f.id] = struct{}{}

			// Reverse push keeps emission in connection order.
			for i := len(next) - 1; i >= 0; i-- {
				stack = append(stack, frame{id: next[i], path: path, visited: visited})
			}
		}
	}

	if len(paths) == 0 {
		return [][]string{{}}
	}
	return paths
}

// LoopEnds finds the loop_end nodes reachable from loopID. The walk visits each
// node at most once and does not continue past a loop_end. The result decides
// where execution resumes after the loop, not what the loop body is.
func LoopEnds(g *Graph, loopID string) []string {
	var ends []string
	visited := make(map[string]struct{})
	stack := []string{loopID}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[id]; seen {
			continue
		}
		node, ok := g.Node(id)
		if !ok {
			continue
		}
		visited[id] = struct{}{}

		if node.Type == domain.TypeLoopEnd {
			ends = append(ends, id)
			continue
		}

		next := g.Successors(id)
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, next[i])
		}
	}
	return ends
}
