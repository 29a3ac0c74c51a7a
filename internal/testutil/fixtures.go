package testutil

import (
	"github.com/roach88/synth/internal/graph"
	"github.com/roach88/synth/internal/pc"
)

// URIFor is the source URI the fixture helpers assign to moduleID.
func URIFor(moduleID string) string {
	return "file:///proj/" + moduleID + ".pc"
}

// Dependency wraps module with the URI given by URIFor.
func Dependency(module *pc.Module) *graph.Dependency {
	return &graph.Dependency{URI: URIFor(module.ID), Module: module}
}

// Graph builds a graph over modules, each at URIFor(module.ID).
func Graph(modules ...*pc.Module) *graph.Graph {
	deps := make([]*graph.Dependency, 0, len(modules))
	for _, m := range modules {
		deps = append(deps, Dependency(m))
	}
	return graph.New(deps...)
}

// Module builds a module.
func Module(id string, children ...pc.Node) *pc.Module {
	return &pc.Module{ID: id, Children: children}
}

// Component builds a component definition rendering as tag.
func Component(id, tag string, children ...pc.Node) *pc.Component {
	return &pc.Component{Base: pc.Base{ID: id}, Is: tag, Children: children}
}

// Extending builds a component that extends the component named base.
func Extending(id, base string, children ...pc.Node) *pc.Component {
	return &pc.Component{Base: pc.Base{ID: id}, Is: base, Extends: true, Children: children}
}

// Element builds an element.
func Element(id, tag string, children ...pc.Node) *pc.Element {
	return &pc.Element{Base: pc.Base{ID: id}, Is: tag, Children: children}
}

// Instance builds an instance of the component named component.
func Instance(id, component string, children ...pc.Node) *pc.ComponentInstance {
	return &pc.ComponentInstance{Base: pc.Base{ID: id}, Is: component, Children: children}
}

// Text builds a text node.
func Text(id, value string) *pc.TextNode {
	return &pc.TextNode{Base: pc.Base{ID: id}, Value: value}
}

// Override builds an override declaration targeting the node reached by
// target relative to its owner.
func Override(id string, prop pc.PropertyName, value any, target ...string) *pc.Override {
	return &pc.Override{ID: id, PropertyName: prop, Value: value, TargetIDPath: target}
}

// ChildrenOverride builds a children override carrying children.
func ChildrenOverride(id string, target []string, children ...pc.Node) *pc.Override {
	return &pc.Override{ID: id, PropertyName: pc.PropChildren, TargetIDPath: target, Children: children}
}

// Styled sets the inline style of n and returns it.
func Styled[N pc.Node](n N, style pc.KeyValue) N {
	pc.BaseOf(n).Style = style
	return n
}

// WithAttributes sets the attributes of n and returns it.
func WithAttributes[N pc.Node](n N, attributes pc.KeyValue) N {
	pc.BaseOf(n).Attributes = attributes
	return n
}
