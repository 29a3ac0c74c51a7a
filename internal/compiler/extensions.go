package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/synth/internal/graph"
)

// ExtensionCycle is a set of components whose extension chains loop.
type ExtensionCycle struct {
	Path    []string `json:"path"`    // e.g. ["X", "Y", "X"]
	Message string   `json:"message"` // human-readable description
}

// AnalyzeExtensions finds extension cycles across the whole graph.
//
// It builds a component → extended-component graph over the components
// that won name resolution and reports every strongly connected component
// of size > 1, plus self-extensions. Evaluating an instance of any
// component on a cycle fails, so these are errors rather than warnings.
//
// Results are sorted by their first path element. A graph without cycles
// returns an empty list.
func AnalyzeExtensions(g *graph.Graph) []ExtensionCycle {
	edges := buildExtensionGraph(g)

	var cycles []ExtensionCycle
	for _, scc := range tarjanSCC(edges) {
		if len(scc) > 1 || hasSelfLoop(scc[0], edges) {
			cycles = append(cycles, sccToCycle(scc, edges))
		}
	}

	slices.SortFunc(cycles, func(a, b ExtensionCycle) int {
		return strings.Compare(a.Path[0], b.Path[0])
	})
	if cycles == nil {
		return []ExtensionCycle{}
	}
	return cycles
}

// extensionGraph maps component name → names it extends. Each component
// extends at most one other, but the slice form keeps Tarjan generic.
type extensionGraph map[string][]string

func buildExtensionGraph(g *graph.Graph) extensionGraph {
	edges := make(extensionGraph)

	for _, id := range g.ModuleIDs() {
		dep, err := g.ResolveModule(id)
		if err != nil {
			continue
		}
		for _, c := range dep.Module.Components() {
			winner, _ := g.Component(c.ID)
			if winner.Component != c {
				continue
			}
			if edges[c.ID] == nil {
				edges[c.ID] = []string{}
			}
			if !c.Extends {
				continue
			}
			if _, ok := g.Component(c.Is); ok {
				edges[c.ID] = append(edges[c.ID], c.Is)
			}
		}
	}

	return edges
}

func hasSelfLoop(node string, edges extensionGraph) bool {
	return slices.Contains(edges[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in sorted order so output is deterministic.
func tarjanSCC(edges extensionGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range edges[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(edges))
	for node := range edges {
		nodes = append(nodes, node)
	}
	slices.Sort(nodes)

	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// sccToCycle walks extension edges from the smallest member of scc until
// it returns to the start.
func sccToCycle(scc []string, edges extensionGraph) ExtensionCycle {
	members := make(map[string]bool, len(scc))
	for _, n := range scc {
		members[n] = true
	}

	start := slices.Min(scc)
	path := []string{start}
	visited := map[string]bool{start: true}
	for current := start; ; {
		var next string
		for _, w := range edges[current] {
			if members[w] && (!visited[w] || w == start) {
				next = w
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		visited[next] = true
		current = next
	}

	if len(path) == 2 && path[0] == path[1] {
		return ExtensionCycle{
			Path:    path,
			Message: fmt.Sprintf("component extends itself: %s → %s", start, start),
		}
	}
	return ExtensionCycle{
		Path:    path,
		Message: fmt.Sprintf("extension cycle: %s", strings.Join(path, " → ")),
	}
}
