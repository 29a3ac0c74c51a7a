package synthetic

// At walks child indices from the document root and returns the node
// reached, or nil if any index is out of range or passes through a text
// node.
func At(doc *Document, indices ...int) VisibleNode {
	if doc == nil || len(indices) == 0 {
		return nil
	}
	children := doc.Children
	var current VisibleNode
	for _, idx := range indices {
		if idx < 0 || idx >= len(children) {
			return nil
		}
		current = children[idx]
		el, ok := current.(*Element)
		if !ok {
			children = nil
			continue
		}
		children = el.Children
	}
	return current
}

// ChildrenOf returns the children of an element, or nil for text.
func ChildrenOf(n VisibleNode) []VisibleNode {
	if el, ok := n.(*Element); ok {
		return el.Children
	}
	return nil
}
