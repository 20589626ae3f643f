package menu

import "sort"

// Node is a menu item with its children populated for tree output.
type Node struct {
	*MenuItem
	Children []*Node `json:"children"`
}

// Flatten returns items as a flat sequence in the order they were given.
func Flatten(items []*MenuItem) []*MenuItem {
	out := make([]*MenuItem, len(items))
	copy(out, items)
	return out
}

// ToForest arranges items into trees. Items without a parent, or whose
// parent is not in items, become roots. Items that no root reaches, such as
// members of a stored cycle, are also emitted as roots so every item appears
// exactly once. Roots and siblings are ordered by Position; ties keep the
// input order.
func ToForest(items []*MenuItem) []*Node {
	present := make(map[string]struct{}, len(items))
	for _, item := range items {
		present[item.ID] = struct{}{}
	}

	var roots []*MenuItem
	children := make(map[string][]*MenuItem)
	for _, item := range items {
		if _, ok := present[item.ParentID]; item.ParentID == "" || !ok {
			roots = append(roots, item)
			continue
		}
		children[item.ParentID] = append(children[item.ParentID], item)
	}

	visited := make(map[string]struct{}, len(items))
	var build func(level []*MenuItem) []*Node
	build = func(level []*MenuItem) []*Node {
		sorted := make([]*MenuItem, 0, len(level))
		for _, item := range level {
			if _, seen := visited[item.ID]; !seen {
				visited[item.ID] = struct{}{}
				sorted = append(sorted, item)
			}
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Position < sorted[j].Position
		})
		nodes := make([]*Node, 0, len(sorted))
		for _, item := range sorted {
			nodes = append(nodes, &Node{
				MenuItem: item,
				Children: build(children[item.ID]),
			})
		}
		return nodes
	}

	forest := build(roots)
	if len(visited) == len(items) {
		return forest
	}

	// Cycle members: take each unreached item in input order as a root so
	// the rest of its loop hangs beneath it.
	for _, item := range items {
		if _, seen := visited[item.ID]; !seen {
			forest = append(forest, build([]*MenuItem{item})...)
		}
	}
	return forest
}

// Walk visits every node of the forest depth-first, parents before children.
func Walk(forest []*Node, fn func(n *Node)) {
	stack := make([]*Node, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		stack = append(stack, forest[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// FlattenForest returns the items of forest in depth-first order.
func FlattenForest(forest []*Node) []*MenuItem {
	var items []*MenuItem
	Walk(forest, func(n *Node) {
		items = append(items, n.MenuItem)
	})
	return items
}
