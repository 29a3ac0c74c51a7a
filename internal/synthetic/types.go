package synthetic

import "maps"

// Kind tags a synthetic node variant.
type Kind string

const (
	KindDocument Kind = "document"
	KindElement  Kind = "element"
	KindText     Kind = "text"
)

// KeyValue is a style, attribute or metadata map.
type KeyValue = map[string]any

// Node is a sealed interface over Document, Element and Text.
type Node interface {
	Kind() Kind
	NodeSource() *Source
	syntheticNode()
}

// VisibleNode is a node that can appear as a child: Element or Text.
type VisibleNode interface {
	Node
	visibleNode()
}

// Source records provenance: the id of the static node a synthetic node
// was evaluated from.
type Source struct {
	NodeID string `json:"node_id"`
}

// Document is the root of an evaluated module.
type Document struct {
	Source   *Source       `json:"source"`
	Children []VisibleNode `json:"children"`
}

func (*Document) Kind() Kind            { return KindDocument }
func (d *Document) NodeSource() *Source { return d.Source }
func (*Document) syntheticNode()        {}

// Element is an evaluated element or component instance.
type Element struct {
	Is                     string        `json:"is"`
	Source                 *Source       `json:"source"`
	Style                  KeyValue      `json:"style"`
	Attributes             KeyValue      `json:"attributes"`
	Children               []VisibleNode `json:"children"`
	Label                  string        `json:"label,omitempty"`
	IsContentNode          bool          `json:"is_content_node"`
	IsCreatedFromComponent bool          `json:"is_created_from_component"`
	IsComponentInstance    bool          `json:"is_component_instance"`
	Immutable              bool          `json:"immutable"`
	Metadata               KeyValue      `json:"metadata,omitempty"`
}

func (*Element) Kind() Kind            { return KindElement }
func (e *Element) NodeSource() *Source { return e.Source }
func (*Element) syntheticNode()        {}
func (*Element) visibleNode()          {}

// Text is an evaluated text leaf.
type Text struct {
	Value                  string   `json:"value"`
	Source                 *Source  `json:"source"`
	Style                  KeyValue `json:"style"`
	Label                  string   `json:"label,omitempty"`
	IsContentNode          bool     `json:"is_content_node"`
	IsCreatedFromComponent bool     `json:"is_created_from_component"`
	Immutable              bool     `json:"immutable"`
	Metadata               KeyValue `json:"metadata,omitempty"`
}

func (*Text) Kind() Kind            { return KindText }
func (t *Text) NodeSource() *Source { return t.Source }
func (*Text) syntheticNode()        {}
func (*Text) visibleNode()          {}

// Flags are the boolean markers shared by Element and Text.
type Flags struct {
	IsContentNode          bool
	IsCreatedFromComponent bool
	IsComponentInstance    bool
	Immutable              bool
}

// NewDocument creates a document.
func NewDocument(source *Source, children []VisibleNode) *Document {
	return &Document{
		Source:   source,
		Children: copyChildren(children),
	}
}

// NewElement creates an element. Maps and children are copied.
func NewElement(is string, source *Source, style, attributes KeyValue, children []VisibleNode, label string, flags Flags, metadata KeyValue) *Element {
	return &Element{
		Is:                     is,
		Source:                 source,
		Style:                  copyMap(style),
		Attributes:             copyMap(attributes),
		Children:               copyChildren(children),
		Label:                  label,
		IsContentNode:          flags.IsContentNode,
		IsCreatedFromComponent: flags.IsCreatedFromComponent,
		IsComponentInstance:    flags.IsComponentInstance,
		Immutable:              flags.Immutable,
		Metadata:               metadataMap(metadata),
	}
}

// NewText creates a text node. The style map is copied.
// Flags.IsComponentInstance is ignored; text is never an instance.
func NewText(value string, source *Source, style KeyValue, label string, flags Flags, metadata KeyValue) *Text {
	return &Text{
		Value:                  value,
		Source:                 source,
		Style:                  copyMap(style),
		Label:                  label,
		IsContentNode:          flags.IsContentNode,
		IsCreatedFromComponent: flags.IsCreatedFromComponent,
		Immutable:              flags.Immutable,
		Metadata:               metadataMap(metadata),
	}
}

func copyMap(m KeyValue) KeyValue {
	if m == nil {
		return KeyValue{}
	}
	return maps.Clone(m)
}

func metadataMap(m KeyValue) KeyValue {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(m)
}

func copyChildren(children []VisibleNode) []VisibleNode {
	out := make([]VisibleNode, len(children))
	copy(out, children)
	return out
}

// AsContentNode returns a copy of n marked as a root content node.
// Descendants are shared, not copied, and keep their own flags.
func AsContentNode(n VisibleNode) VisibleNode {
	switch node := n.(type) {
	case *Element:
		marked := *node
		marked.IsContentNode = true
		return &marked
	case *Text:
		marked := *node
		marked.IsContentNode = true
		return &marked
	default:
		panic("synthetic: unknown visible node type")
	}
}
