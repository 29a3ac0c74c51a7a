package engine

import (
	"maps"
	"slices"

	"github.com/roach88/synth/internal/pc"
	"github.com/roach88/synth/internal/synthetic"
)

// EvalOverride is the pending override record for one instance path.
// A nil map or pointer slot means nothing was registered for it.
type EvalOverride struct {
	Style       pc.KeyValue
	Attributes  pc.KeyValue
	Children    []synthetic.VisibleNode
	HasChildren bool
	Variant     []string
	Text        *string
	Label       *string
}

// Registry maps instance paths to pending overrides.
//
// A Registry is allocated per content-node evaluation and only mutated by
// that evaluation's call stack. It is not safe for concurrent use.
type Registry struct {
	entries map[InstancePath]*EvalOverride
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[InstancePath]*EvalOverride)}
}

// Register merges value into the entry for path.
//
// Merge policy per property:
//   - style, attributes: shallow merge; keys already present win over the
//     new registration
//   - children, text, label: first registration wins
//   - variant: reserved, not resolved (no-op)
//
// Values of the wrong shape for their property are ignored.
func (r *Registry) Register(variantID string, prop pc.PropertyName, value any, path InstancePath) {
	// TODO: gate registration on variantID once variant selection lands
	if prop == pc.PropVariant {
		return
	}

	entry := r.entry(path)

	switch prop {
	case pc.PropStyle:
		if kv, ok := value.(pc.KeyValue); ok {
			entry.Style = mergeExistingWins(kv, entry.Style)
		}
	case pc.PropAttributes:
		if kv, ok := value.(pc.KeyValue); ok {
			entry.Attributes = mergeExistingWins(kv, entry.Attributes)
		}
	case pc.PropChildren:
		if entry.HasChildren {
			return
		}
		if children, ok := value.([]synthetic.VisibleNode); ok {
			entry.Children = children
			entry.HasChildren = true
		}
	case pc.PropText:
		if entry.Text != nil {
			return
		}
		if s, ok := value.(string); ok {
			entry.Text = &s
		}
	case pc.PropLabel:
		if entry.Label != nil {
			return
		}
		if s, ok := value.(string); ok {
			entry.Label = &s
		}
	}
}

// entry returns the record for path, creating it on first use. Records
// are only ever merged into, never replaced.
func (r *Registry) entry(path InstancePath) *EvalOverride {
	e, ok := r.entries[path]
	if !ok {
		e = &EvalOverride{}
		r.entries[path] = e
	}
	return e
}

// Lookup returns the record for path. The record must not be modified.
func (r *Registry) Lookup(path InstancePath) (*EvalOverride, bool) {
	e, ok := r.entries[path]
	return e, ok
}

// Children returns the registered children for path.
func (r *Registry) Children(path InstancePath) ([]synthetic.VisibleNode, bool) {
	e, ok := r.entries[path]
	if !ok || !e.HasChildren {
		return nil, false
	}
	return e.Children, true
}

// Paths returns every registered path in sorted order.
func (r *Registry) Paths() []InstancePath {
	paths := make([]InstancePath, 0, len(r.entries))
	for p := range r.entries {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Len returns the number of registered paths.
func (r *Registry) Len() int {
	return len(r.entries)
}

// resolveMap returns own overlaid with the registered map for prop at
// path. Registered keys win over the node's own values.
func (r *Registry) resolveMap(own pc.KeyValue, path InstancePath, prop pc.PropertyName) pc.KeyValue {
	e, ok := r.entries[path]
	if !ok {
		return own
	}
	var override pc.KeyValue
	switch prop {
	case pc.PropStyle:
		override = e.Style
	case pc.PropAttributes:
		override = e.Attributes
	}
	if override == nil {
		return own
	}
	merged := make(pc.KeyValue, len(own)+len(override))
	maps.Copy(merged, own)
	maps.Copy(merged, override)
	return merged
}

// resolveText returns the registered text for path, falling back to
// value when none (or an empty one) was registered.
func (r *Registry) resolveText(value string, path InstancePath) string {
	if e, ok := r.entries[path]; ok && e.Text != nil && *e.Text != "" {
		return *e.Text
	}
	return value
}

// resolveLabel mirrors resolveText for labels.
func (r *Registry) resolveLabel(label string, path InstancePath) string {
	if e, ok := r.entries[path]; ok && e.Label != nil && *e.Label != "" {
		return *e.Label
	}
	return label
}

// mergeExistingWins returns the union of incoming and existing where
// existing keys take precedence.
func mergeExistingWins(incoming, existing pc.KeyValue) pc.KeyValue {
	merged := make(pc.KeyValue, len(incoming)+len(existing))
	maps.Copy(merged, incoming)
	maps.Copy(merged, existing)
	return merged
}
