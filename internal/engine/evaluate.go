package engine

import (
	"fmt"

	"github.com/roach88/synth/internal/pc"
	"github.com/roach88/synth/internal/synthetic"
)

// evaluation is the per-content-node context: the override registry and
// the pre-resolved extension table. It lives for one top-level call.
type evaluation struct {
	evaluator  *Evaluator
	overrides  *Registry
	extensions *extensionTable
	depth      int
}

// evaluateComponentInstance expands instance by walking the extension
// chain that starts at node. node == instance for a self-instantiating
// component definition and for an instance reached from a parent.
func (ev *evaluation) evaluateComponentInstance(
	node, instance pc.Node,
	instancePath InstancePath,
	immutable, isCreatedFromComponent bool,
	sourceURI string,
) (*synthetic.Element, error) {
	chain, err := ev.extensions.chainFor(node, sourceURI)
	if err != nil {
		return nil, err
	}

	ev.depth += len(chain)
	defer func() { ev.depth -= len(chain) }()
	if ev.depth > ev.evaluator.maxDepth {
		return nil, NewDepthError(instance.NodeID(), ev.depth, ev.evaluator.maxDepth)
	}

	selfPath := instancePath.Append(instance.NodeID())
	_, isComponentInstance := instance.(*pc.ComponentInstance)

	for _, link := range chain {
		childrenAreImmutable := immutable || link.node != instance
		if err := ev.registerOverrides(link.node, instancePath, selfPath, childrenAreImmutable, link.sourceURI); err != nil {
			return nil, err
		}
	}

	terminal := chain[len(chain)-1]
	if len(chain) > 1 {
		isCreatedFromComponent = true
	}
	component, ok := terminal.node.(*pc.Component)
	if !ok {
		panic(fmt.Sprintf("engine: extension chain of %q ends at %T", instance.NodeID(), terminal.node))
	}

	children, _ := ev.overrides.Children(selfPath)
	instanceBase := pc.BaseOf(instance)

	return synthetic.NewElement(
		component.Is,
		ev.source(instance),
		ev.overrides.resolveMap(component.Style, selfPath, pc.PropStyle),
		ev.evaluateAttributes(component.Is, component.Attributes, selfPath, terminal.sourceURI),
		children,
		ev.overrides.resolveLabel(instanceBase.Label, selfPath),
		synthetic.Flags{
			IsCreatedFromComponent: isCreatedFromComponent,
			IsComponentInstance:    isComponentInstance,
			Immutable:              immutable,
		},
		instanceBase.Metadata,
	), nil
}

// registerOverrides registers, for one chain link, the override
// declarations it owns, its inline style and attributes, and (for
// components and instances) its evaluated visible children.
//
// Instance children are evaluated relative to the caller (instancePath);
// component-definition children relative to the definition (selfPath).
func (ev *evaluation) registerOverrides(
	node pc.Node,
	instancePath, selfPath InstancePath,
	immutable bool,
	sourceURI string,
) error {
	childPath := instancePath
	if _, isComponent := node.(*pc.Component); isComponent {
		childPath = selfPath
	}

	for _, o := range pc.Overrides(node) {
		target := selfPath.Join(o.TargetIDPath...)
		if o.PropertyName != pc.PropChildren {
			ev.overrides.Register(o.VariantID, o.PropertyName, o.Value, target)
			continue
		}
		if len(o.Children) == 0 {
			continue
		}
		children, err := ev.evaluateChildren(o, childPath, immutable, true, sourceURI)
		if err != nil {
			return err
		}
		ev.overrides.Register(o.VariantID, pc.PropChildren, children, target)
	}

	base := pc.BaseOf(node)
	if len(base.Style) > 0 {
		ev.overrides.Register("", pc.PropStyle, base.Style, selfPath)
	}
	if len(base.Attributes) > 0 {
		ev.overrides.Register("", pc.PropAttributes, base.Attributes, selfPath)
	}

	switch node.(type) {
	case *pc.Component, *pc.ComponentInstance:
		if len(pc.VisibleChildren(node)) == 0 {
			return nil
		}
		children, err := ev.evaluateChildren(node, childPath, immutable, true, sourceURI)
		if err != nil {
			return err
		}
		ev.overrides.Register("", pc.PropChildren, children, selfPath)
	}
	return nil
}

// evaluateVisibleNode dispatches on the static node variant.
func (ev *evaluation) evaluateVisibleNode(
	node pc.Node,
	instancePath InstancePath,
	immutable, isCreatedFromComponent bool,
	sourceURI string,
) (synthetic.VisibleNode, error) {
	switch n := node.(type) {
	case *pc.Element:
		return ev.evaluateElement(n, instancePath, immutable, isCreatedFromComponent, sourceURI)
	case *pc.ComponentInstance:
		return ev.evaluateComponentInstance(n, n, instancePath, immutable, isCreatedFromComponent, sourceURI)
	case *pc.TextNode:
		return ev.evaluateText(n, instancePath, immutable, isCreatedFromComponent), nil
	case *pc.Component, *pc.Fragment, *pc.Override:
		panic(fmt.Sprintf("engine: %s %q is not a visible child", n.Kind(), n.NodeID()))
	default:
		panic(fmt.Sprintf("engine: unknown node type %T", node))
	}
}

func (ev *evaluation) evaluateElement(
	el *pc.Element,
	instancePath InstancePath,
	immutable, isCreatedFromComponent bool,
	sourceURI string,
) (*synthetic.Element, error) {
	selfPath := instancePath.Append(el.ID)

	children, err := ev.evaluateChildren(el, instancePath, immutable, isCreatedFromComponent, sourceURI)
	if err != nil {
		return nil, err
	}

	return synthetic.NewElement(
		el.Is,
		ev.source(el),
		ev.overrides.resolveMap(el.Style, selfPath, pc.PropStyle),
		ev.evaluateAttributes(el.Is, el.Attributes, selfPath, sourceURI),
		children,
		ev.overrides.resolveLabel(el.Label, selfPath),
		synthetic.Flags{
			IsCreatedFromComponent: isCreatedFromComponent,
			Immutable:              immutable,
		},
		el.Metadata,
	), nil
}

func (ev *evaluation) evaluateText(
	text *pc.TextNode,
	instancePath InstancePath,
	immutable, isCreatedFromComponent bool,
) *synthetic.Text {
	selfPath := instancePath.Append(text.ID)

	return synthetic.NewText(
		ev.overrides.resolveText(text.Value, selfPath),
		ev.source(text),
		ev.overrides.resolveMap(text.Style, selfPath, pc.PropStyle),
		ev.overrides.resolveLabel(text.Label, selfPath),
		synthetic.Flags{
			IsCreatedFromComponent: isCreatedFromComponent,
			Immutable:              immutable,
		},
		text.Metadata,
	)
}

// evaluateChildren returns the registered children for parent's path if
// any, otherwise evaluates its visible children. Fragments are spliced.
func (ev *evaluation) evaluateChildren(
	parent pc.Node,
	instancePath InstancePath,
	immutable, isCreatedFromComponent bool,
	sourceURI string,
) ([]synthetic.VisibleNode, error) {
	selfPath := instancePath.Append(parent.NodeID())
	if children, ok := ev.overrides.Children(selfPath); ok {
		return children, nil
	}

	visible := flattenFragments(pc.VisibleChildren(parent))
	children := make([]synthetic.VisibleNode, 0, len(visible))
	for _, child := range visible {
		node, err := ev.evaluateVisibleNode(child, instancePath, immutable, isCreatedFromComponent, sourceURI)
		if err != nil {
			return nil, err
		}
		children = append(children, node)
	}
	return children, nil
}

func (ev *evaluation) evaluateAttributes(tag string, own pc.KeyValue, selfPath InstancePath, sourceURI string) pc.KeyValue {
	attributes := ev.overrides.resolveMap(own, selfPath, pc.PropAttributes)
	return rewriteResourcePaths(tag, attributes, sourceURI)
}

func (ev *evaluation) source(node pc.Node) *synthetic.Source {
	return ev.evaluator.cache.source(node, node.NodeID())
}
