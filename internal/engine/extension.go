package engine

import (
	"github.com/roach88/synth/internal/graph"
	"github.com/roach88/synth/internal/pc"
)

// chainLink is one step of an extension chain: the node whose overrides
// are registered and the module URI its relative references resolve
// against.
type chainLink struct {
	node      pc.Node
	sourceURI string
}

// extensionTable holds the flattened, cycle-checked extension chain of
// every component in one component map. It is computed once per map,
// before any tree evaluation, and is read-only afterwards.
type extensionTable struct {
	components *graph.ComponentMap
	chains     map[string][]graph.ComponentRef
	errs       map[string]error
}

// analyzeExtensions resolves the extension chain of every named component.
//
// A chain starts at the named component and follows Is while the current
// component extends another. Resolution failures are recorded per name
// and only surface when an evaluation actually walks that chain.
func analyzeExtensions(cm *graph.ComponentMap) *extensionTable {
	t := &extensionTable{
		components: cm,
		chains:     make(map[string][]graph.ComponentRef),
		errs:       make(map[string]error),
	}

	for _, name := range cm.Names() {
		start, _ := cm.Lookup(name)
		chain, err := flattenChain(start, cm)
		if err != nil {
			t.errs[name] = err
			continue
		}
		t.chains[name] = chain
	}

	return t
}

// flattenChain follows extensions from start until a component that does
// not extend anything. Component identity is the (source URI, id) pair so
// equal ids in different modules are distinct.
func flattenChain(start graph.ComponentRef, cm *graph.ComponentMap) ([]graph.ComponentRef, error) {
	type identity struct{ uri, id string }

	var (
		chain   []graph.ComponentRef
		ids     []string
		visited = make(map[identity]bool)
		current = start
	)

	for {
		key := identity{current.SourceURI, current.Component.ID}
		if visited[key] {
			return nil, NewCyclicExtensionError(append(ids, current.Component.ID))
		}
		visited[key] = true
		chain = append(chain, current)
		ids = append(ids, current.Component.ID)

		if !current.Component.Extends {
			return chain, nil
		}
		next, ok := cm.Lookup(current.Component.Is)
		if !ok {
			return nil, NewUnresolvedExtensionError(current.Component.ID, current.Component.Is)
		}
		current = next
	}
}

// chainFor returns the links to walk when evaluating node: node itself,
// followed by the chain of the component it references (if any).
func (t *extensionTable) chainFor(node pc.Node, sourceURI string) ([]chainLink, error) {
	links := []chainLink{{node: node, sourceURI: sourceURI}}

	ref, ok := pc.Reference(node)
	if !ok {
		return links, nil
	}
	if err, failed := t.errs[ref]; failed {
		return nil, err
	}
	chain, found := t.chains[ref]
	if !found {
		return nil, NewUnresolvedExtensionError(node.NodeID(), ref)
	}

	for _, r := range chain {
		if r.Component == node {
			// node is a component whose own chain leads back to it.
			return nil, NewCyclicExtensionError(cycleIDs(node, chain))
		}
		links = append(links, chainLink{node: r.Component, sourceURI: r.SourceURI})
	}
	return links, nil
}

func cycleIDs(start pc.Node, chain []graph.ComponentRef) []string {
	ids := []string{start.NodeID()}
	for _, r := range chain {
		ids = append(ids, r.Component.ID)
		if r.Component == start {
			break
		}
	}
	return ids
}
