package pc

// Kind names a static node variant.
type Kind string

const (
	KindComponent Kind = "component"
	KindElement   Kind = "element"
	KindInstance  Kind = "instance"
	KindText      Kind = "text"
	KindFragment  Kind = "fragment"
	KindOverride  Kind = "override"
)

// KeyValue is a style, attribute or metadata map.
type KeyValue = map[string]any

// PropertyName identifies the property an Override replaces or merges.
type PropertyName string

const (
	PropStyle      PropertyName = "style"
	PropAttributes PropertyName = "attributes"
	PropChildren   PropertyName = "children"
	PropVariant    PropertyName = "variant"
	PropText       PropertyName = "text"
	PropLabel      PropertyName = "label"
)

// ValidProperties defines the overridable property names.
var ValidProperties = map[PropertyName]bool{
	PropStyle:      true,
	PropAttributes: true,
	PropChildren:   true,
	PropVariant:    true,
	PropText:       true,
	PropLabel:      true,
}

// Node is a sealed interface over the static node variants.
// Only *Component, *Element, *ComponentInstance, *TextNode, *Fragment and
// *Override implement it.
type Node interface {
	NodeID() string
	Kind() Kind
	pcNode()
}

// Base holds the fields shared by every visible node.
type Base struct {
	ID         string   `json:"id"`
	Style      KeyValue `json:"style,omitempty"`
	Attributes KeyValue `json:"attributes,omitempty"`
	Metadata   KeyValue `json:"metadata,omitempty"`
	Label      string   `json:"label,omitempty"`
}

// NodeID returns the node id.
func (b *Base) NodeID() string { return b.ID }

// Component is a reusable definition. When Extends is set, Is names
// another component whose body is substituted in place ("is-a");
// otherwise Is is the rendered tag.
type Component struct {
	Base
	Is       string `json:"is"`
	Extends  bool   `json:"extends,omitempty"`
	Children []Node `json:"children,omitempty"`
}

func (*Component) Kind() Kind { return KindComponent }
func (*Component) pcNode()    {}

// Element is a plain tagged element.
type Element struct {
	Base
	Is       string `json:"is"`
	Children []Node `json:"children,omitempty"`
}

func (*Element) Kind() Kind { return KindElement }
func (*Element) pcNode()    {}

// ComponentInstance places a component. Is is the component name.
// Visible children become the instance's slot content; Override children
// rewrite properties of the expanded component.
type ComponentInstance struct {
	Base
	Is       string `json:"is"`
	Children []Node `json:"children,omitempty"`
}

func (*ComponentInstance) Kind() Kind { return KindInstance }
func (*ComponentInstance) pcNode()    {}

// TextNode is a literal text leaf.
type TextNode struct {
	Base
	Value string `json:"value"`
}

func (*TextNode) Kind() Kind { return KindText }
func (*TextNode) pcNode()    {}

// Fragment groups children without introducing an element; its children
// are spliced into the parent.
type Fragment struct {
	ID       string `json:"id"`
	Children []Node `json:"children,omitempty"`
}

func (f *Fragment) NodeID() string { return f.ID }
func (*Fragment) Kind() Kind       { return KindFragment }
func (*Fragment) pcNode()          {}

// Override declares a property replacement for the node addressed by
// TargetIDPath, relative to the node that declares it.
//
// Value holds a KeyValue for style/attributes, a string for text/label and
// a []string for variant. Children is used only when PropertyName is
// PropChildren.
type Override struct {
	ID           string       `json:"id"`
	VariantID    string       `json:"variant_id,omitempty"`
	TargetIDPath []string     `json:"target_id_path"`
	PropertyName PropertyName `json:"property_name"`
	Value        any          `json:"value,omitempty"`
	Children     []Node       `json:"children,omitempty"`
}

func (o *Override) NodeID() string { return o.ID }
func (*Override) Kind() Kind       { return KindOverride }
func (*Override) pcNode()          {}

// Module is a parsed document: an ordered list of top-level content nodes.
type Module struct {
	ID       string `json:"id"`
	Children []Node `json:"children"`
}
