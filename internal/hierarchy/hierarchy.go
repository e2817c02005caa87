// Package hierarchy resolves closures over polymorphic parent/child
// relations, such as documentation chapter trees.
package hierarchy

import "errors"

// ErrCycleDetected is returned when the edge set contains a cycle reachable
// from the requested root.
var ErrCycleDetected = errors.New("hierarchy: cycle detected")

// Edge links a node to its parent. A zero ParentID marks a root.
type Edge struct {
	ID       int64
	ParentID int64
}

// Closure returns rootID plus every descendant reachable by following
// parent links transitively. The walk is iterative with a visited set, so
// malformed data fails with ErrCycleDetected instead of recursing without
// bound. Result order is depth-first and deterministic for a given edge order.
func Closure(rootID int64, edges []Edge) ([]int64, error) {
	children := make(map[int64][]int64, len(edges))
	for _, edge := range edges {
		if edge.ParentID == 0 {
			continue
		}
		children[edge.ParentID] = append(children[edge.ParentID], edge.ID)
	}

	visited := make(map[int64]struct{})
	closure := make([]int64, 0, 1+len(edges))
	stack := []int64{rootID}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[id]; seen {
			return nil, ErrCycleDetected
		}
		visited[id] = struct{}{}
		closure = append(closure, id)

		kids := children[id]
		// Push in reverse so the walk visits children in edge order.
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}

	return closure, nil
}
