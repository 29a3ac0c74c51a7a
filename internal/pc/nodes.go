package pc

import "fmt"

// Children returns the ordered children of a node, overrides included.
// Text nodes have none.
func Children(n Node) []Node {
	switch node := n.(type) {
	case *Component:
		return node.Children
	case *Element:
		return node.Children
	case *ComponentInstance:
		return node.Children
	case *Fragment:
		return node.Children
	case *Override:
		return node.Children
	case *TextNode:
		return nil
	default:
		panic(fmt.Sprintf("pc: unknown node type %T", n))
	}
}

// VisibleChildren returns the children that render, i.e. everything
// except override declarations.
func VisibleChildren(n Node) []Node {
	children := Children(n)
	visible := make([]Node, 0, len(children))
	for _, child := range children {
		if _, ok := child.(*Override); !ok {
			visible = append(visible, child)
		}
	}
	return visible
}

// Overrides returns the override declarations that are direct children of n.
func Overrides(n Node) []*Override {
	var overrides []*Override
	for _, child := range Children(n) {
		if o, ok := child.(*Override); ok {
			overrides = append(overrides, o)
		}
	}
	return overrides
}

// DeclaresExtension reports whether n substitutes another component's
// body: every instance does, a component only when it extends one.
func DeclaresExtension(n Node) bool {
	switch node := n.(type) {
	case *ComponentInstance:
		return true
	case *Component:
		return node.Extends
	default:
		return false
	}
}

// Reference returns the component name n refers to, if any.
func Reference(n Node) (string, bool) {
	if !DeclaresExtension(n) {
		return "", false
	}
	switch node := n.(type) {
	case *ComponentInstance:
		return node.Is, true
	case *Component:
		return node.Is, true
	}
	return "", false
}

// BaseOf returns the shared fields of a visible node, or nil for
// fragments and overrides.
func BaseOf(n Node) *Base {
	switch node := n.(type) {
	case *Component:
		return &node.Base
	case *Element:
		return &node.Base
	case *ComponentInstance:
		return &node.Base
	case *TextNode:
		return &node.Base
	case *Fragment, *Override:
		return nil
	default:
		panic(fmt.Sprintf("pc: unknown node type %T", n))
	}
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's subtree.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, fn)
	}
}

// Find returns the first node in the module whose id matches.
func (m *Module) Find(id string) (Node, bool) {
	var found Node
	for _, child := range m.Children {
		Walk(child, func(n Node) bool {
			if found != nil {
				return false
			}
			if n.NodeID() == id {
				found = n
				return false
			}
			return true
		})
		if found != nil {
			return found, true
		}
	}
	return nil, false
}

// Components returns the top-level component definitions of the module.
func (m *Module) Components() []*Component {
	var components []*Component
	for _, child := range m.Children {
		if c, ok := child.(*Component); ok {
			components = append(components, c)
		}
	}
	return components
}
