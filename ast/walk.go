package ast

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with the visitor w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node *Node) (w Visitor)
}

// Walk traverses an AST in depth-first order: It starts by calling
// v.Visit(node); node must not be nil. If the visitor w returned by
// v.Visit(node) is not nil, Walk is invoked recursively with visitor
// w for each of the children of node, followed by a call of
// w.Visit(nil).
func Walk(v Visitor, node *Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range node.Children {
		if child != nil {
			Walk(v, child)
		}
	}
	v.Visit(nil)
}

type inspector func(*Node) bool

func (f inspector) Visit(node *Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the children of node, followed by a call of
// f(nil).
func Inspect(node *Node, f func(*Node) bool) {
	Walk(inspector(f), node)
}

// Count returns the number of nodes in the tree rooted at node.
func Count(node *Node) (n int) {
	if node == nil {
		return 0
	}
	Inspect(node, func(c *Node) bool {
		if c != nil {
			n++
		}
		return true
	})
	return n
}

// Collect returns all nodes of the given kind in depth-first order.
func Collect(node *Node, kind Kind) []*Node {
	var found []*Node
	if node == nil {
		return nil
	}
	Inspect(node, func(c *Node) bool {
		if c != nil && c.Kind == kind {
			found = append(found, c)
		}
		return true
	})
	return found
}
