package graph

import (
	"fmt"
	"slices"
	"sync"

	"github.com/roach88/synth/internal/pc"
)

// Dependency is one module in the graph together with its canonical URI.
type Dependency struct {
	URI    string
	Module *pc.Module
}

// ComponentRef is a resolved component reference.
type ComponentRef struct {
	Component *pc.Component
	SourceURI string
}

// Graph is a set of dependencies indexed by module id.
//
// Thread-safety: all methods are safe for concurrent use.
type Graph struct {
	mu         sync.RWMutex
	deps       map[string]*Dependency
	components map[string]ComponentRef
	refs       map[pc.Node]*ComponentMap
	generation Generation
}

// New creates a graph from the given dependencies.
func New(deps ...*Dependency) *Graph {
	g := &Graph{
		deps: make(map[string]*Dependency, len(deps)),
	}
	for _, dep := range deps {
		g.deps[dep.Module.ID] = dep
	}
	g.reindex()
	g.generation.Advance()
	return g
}

// Add inserts or replaces a dependency and advances the generation.
func (g *Graph) Add(dep *Dependency) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.deps[dep.Module.ID] = dep
	g.reindex()
	return g.generation.Advance()
}

// Generation returns the graph's current revision.
func (g *Graph) Generation() uint64 {
	return g.generation.Current()
}

// ResolveModule returns the dependency registered under moduleID.
func (g *Graph) ResolveModule(moduleID string) (*Dependency, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	dep, ok := g.deps[moduleID]
	if !ok {
		return nil, &NotFoundError{ModuleID: moduleID}
	}
	return dep, nil
}

// ModuleIDs returns the ids of all modules in sorted order.
func (g *Graph) ModuleIDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return sortedModuleIDs(g.deps)
}

// Component looks up a component by name across the whole graph.
func (g *Graph) Component(name string) (ComponentRef, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ref, ok := g.components[name]
	return ref, ok
}

// ComponentRefs returns the reference map for node's subtree.
//
// The map is memoized per node for the current generation, so repeated
// calls return the same *ComponentMap and its identity can be used as a
// cache key.
func (g *Graph) ComponentRefs(node pc.Node) *ComponentMap {
	g.mu.RLock()
	cm, ok := g.refs[node]
	g.mu.RUnlock()
	if ok {
		return cm
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if cm, ok := g.refs[node]; ok {
		return cm
	}
	cm = g.collectRefs(node)
	g.refs[node] = cm
	return cm
}

// reindex rebuilds the component index. Caller must hold mu (or own g).
//
// When two modules define a component with the same id, the module with
// the smallest id wins so resolution stays deterministic.
func (g *Graph) reindex() {
	g.components = make(map[string]ComponentRef)
	g.refs = make(map[pc.Node]*ComponentMap)

	for _, id := range sortedModuleIDs(g.deps) {
		dep := g.deps[id]
		for _, c := range dep.Module.Components() {
			if _, exists := g.components[c.ID]; exists {
				continue
			}
			g.components[c.ID] = ComponentRef{Component: c, SourceURI: dep.URI}
		}
	}
}

// collectRefs resolves every component name reachable from node,
// following referenced components transitively. Caller must hold mu.
func (g *Graph) collectRefs(node pc.Node) *ComponentMap {
	cm := &ComponentMap{refs: make(map[string]ComponentRef)}
	visited := make(map[*pc.Component]bool)

	var visit func(pc.Node)
	visit = func(root pc.Node) {
		pc.Walk(root, func(n pc.Node) bool {
			name, ok := pc.Reference(n)
			if !ok {
				return true
			}
			ref, found := g.components[name]
			if !found {
				return true
			}
			cm.refs[name] = ref
			if !visited[ref.Component] {
				visited[ref.Component] = true
				visit(ref.Component)
			}
			return true
		})
	}
	visit(node)

	return cm
}

func sortedModuleIDs(deps map[string]*Dependency) []string {
	ids := make([]string, 0, len(deps))
	for id := range deps {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ComponentMap maps reference names to resolved components.
// It is read-only once returned by ComponentRefs.
type ComponentMap struct {
	refs map[string]ComponentRef
}

// NewComponentMap builds a map directly, mostly for tests.
func NewComponentMap(refs map[string]ComponentRef) *ComponentMap {
	copied := make(map[string]ComponentRef, len(refs))
	for k, v := range refs {
		copied[k] = v
	}
	return &ComponentMap{refs: copied}
}

// Lookup returns the component registered under name.
func (m *ComponentMap) Lookup(name string) (ComponentRef, bool) {
	if m == nil {
		return ComponentRef{}, false
	}
	ref, ok := m.refs[name]
	return ref, ok
}

// Names returns the reference names in sorted order.
func (m *ComponentMap) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.refs))
	for name := range m.refs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of resolved references.
func (m *ComponentMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.refs)
}

// String implements fmt.Stringer.
func (m *ComponentMap) String() string {
	return fmt.Sprintf("ComponentMap%v", m.Names())
}
