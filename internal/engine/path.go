package engine

import "strings"

// PathSeparator joins node ids into an instance path token.
const PathSeparator = " "

// InstancePath addresses one position in the expanded tree: the ids of the
// enclosing component instances followed by the node's own id. The same
// static node reached through two different instances has two different
// paths.
type InstancePath string

// Append returns p extended by id. An empty side yields the other
// verbatim, so the root path of a content node is its own id.
func (p InstancePath) Append(id string) InstancePath {
	if p != "" && id != "" {
		return p + PathSeparator + InstancePath(id)
	}
	return InstancePath(id)
}

// Join appends a relative id path. An empty ids list addresses p itself.
func (p InstancePath) Join(ids ...string) InstancePath {
	if len(ids) == 0 {
		return p
	}
	return p.Append(strings.Join(ids, PathSeparator))
}

// Segments splits the path back into node ids.
func (p InstancePath) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), PathSeparator)
}
