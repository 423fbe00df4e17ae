// Package tree provides depth-first and breadth-first exact-value search
// over rooted, ordered trees.
package tree

import "slices"

// Node is a value-bearing tree node with ordered children. A node does not
// reference its parent.
type Node[T comparable] struct {
	Value    T
	children []*Node[T]
}

// New returns a leaf node holding value.
func New[T comparable](value T) *Node[T] {
	return &Node[T]{Value: value}
}

// Children returns a snapshot of the node's children. It is never nil, and
// modifying it does not affect the node.
func (n *Node[T]) Children() []*Node[T] {
	if len(n.children) == 0 {
		return []*Node[T]{}
	}
	return slices.Clone(n.children)
}

// SetChildren replaces the children with a copy of children.
func (n *Node[T]) SetChildren(children []*Node[T]) {
	n.children = slices.Clone(children)
}

// AddChild appends child and returns it.
func (n *Node[T]) AddChild(child *Node[T]) *Node[T] {
	n.children = append(n.children, child)
	return child
}

// Add appends a new leaf holding value and returns it.
func (n *Node[T]) Add(value T) *Node[T] {
	return n.AddChild(New(value))
}

// Len returns the number of children.
func (n *Node[T]) Len() int {
	return len(n.children)
}

// DFS returns the first node in pre-order whose value equals target, or
// nil.
func DFS[T comparable](root *Node[T], target T) *Node[T] {
	return DFSVisit(root, target, nil)
}

// DFSVisit is DFS calling visit on every node it examines, in order.
//
// The traversal uses an explicit stack, so tree depth is bounded only by
// memory. Children are pushed in reverse so the leftmost subtree is fully
// explored before its next sibling.
func DFSVisit[T comparable](root *Node[T], target T, visit func(*Node[T])) *Node[T] {
	if root == nil {
		return nil
	}

	stack := []*Node[T]{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack[len(stack)-1] = nil
		stack = stack[:len(stack)-1]

		if visit != nil {
			visit(n)
		}
		if n.Value == target {
			return n
		}

		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return nil
}

// BFS returns the shallowest node whose value equals target, leftmost
// first among equals, or nil.
func BFS[T comparable](root *Node[T], target T) *Node[T] {
	return BFSVisit(root, target, nil)
}

// BFSVisit is BFS calling visit on every node it dequeues, in order.
func BFSVisit[T comparable](root *Node[T], target T, visit func(*Node[T])) *Node[T] {
	if root == nil {
		return nil
	}

	queue := []*Node[T]{root}
	for len(queue) > 0 {
		n := queue[0]
		queue[0] = nil
		queue = queue[1:]

		if visit != nil {
			visit(n)
		}
		if n.Value == target {
			return n
		}

		if children := n.Children(); len(children) > 0 {
			queue = append(queue, children...)
		}
	}
	return nil
}
