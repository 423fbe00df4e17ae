package tree

import "fmt"

// Build returns a complete tree of the given depth (root is depth 1) where
// every internal node has width children. Nodes are labelled in level
// order as "<prefix>_<n>", the root being n = 0.
func Build(depth, width int, prefix string) *Node[string] {
	if depth < 1 {
		return nil
	}

	type pending struct {
		node  *Node[string]
		depth int
	}

	root := New(fmt.Sprintf("%s_0", prefix))
	counter := 1
	queue := []pending{{root, 1}}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p.depth == depth {
			continue
		}
		for range width {
			child := p.node.Add(fmt.Sprintf("%s_%d", prefix, counter))
			counter++
			queue = append(queue, pending{child, p.depth + 1})
		}
	}
	return root
}

// Size returns the number of nodes reachable from root.
func Size[T comparable](root *Node[T]) int {
	if root == nil {
		return 0
	}
	n := 0
	stack := []*Node[T]{root}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, top.children...)
	}
	return n
}
