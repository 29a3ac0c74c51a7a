package graph

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/synth/internal/pc"
)

func buttonModule() *Dependency {
	return &Dependency{
		URI: "file:///proj/components/button.pc",
		Module: &pc.Module{
			ID: "button",
			Children: []pc.Node{
				&pc.Component{Base: pc.Base{ID: "Button"}, Is: "button"},
				&pc.Component{Base: pc.Base{ID: "Primary"}, Is: "Button", Extends: true},
			},
		},
	}
}

func homeModule() *Dependency {
	return &Dependency{
		URI: "file:///proj/pages/home.pc",
		Module: &pc.Module{
			ID: "home",
			Children: []pc.Node{
				&pc.Element{
					Base: pc.Base{ID: "root"},
					Is:   "div",
					Children: []pc.Node{
						&pc.ComponentInstance{Base: pc.Base{ID: "cta"}, Is: "Primary"},
						&pc.ComponentInstance{Base: pc.Base{ID: "ghost"}, Is: "Missing"},
					},
				},
			},
		},
	}
}

func TestResolveModule(t *testing.T) {
	g := New(buttonModule(), homeModule())

	dep, err := g.ResolveModule("home")
	require.NoError(t, err)
	assert.Equal(t, "file:///proj/pages/home.pc", dep.URI)

	_, err = g.ResolveModule("nope")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestComponentRefs_Transitive(t *testing.T) {
	g := New(buttonModule(), homeModule())
	home, err := g.ResolveModule("home")
	require.NoError(t, err)

	refs := g.ComponentRefs(home.Module.Children[0])

	// Primary is referenced directly, Button through Primary's extension.
	assert.Equal(t, []string{"Button", "Primary"}, refs.Names())

	ref, ok := refs.Lookup("Button")
	require.True(t, ok)
	assert.Equal(t, "file:///proj/components/button.pc", ref.SourceURI)

	_, ok = refs.Lookup("Missing")
	assert.False(t, ok, "unresolved names are absent")
}

func TestComponentRefs_MemoizedPerGeneration(t *testing.T) {
	g := New(buttonModule(), homeModule())
	home, _ := g.ResolveModule("home")
	node := home.Module.Children[0]

	first := g.ComponentRefs(node)
	assert.Same(t, first, g.ComponentRefs(node))

	gen := g.Generation()
	next := g.Add(&Dependency{URI: "file:///proj/extra.pc", Module: &pc.Module{ID: "extra"}})
	assert.Greater(t, next, gen)
	assert.NotSame(t, first, g.ComponentRefs(node), "Add invalidates memoized maps")
}

func TestComponentRefs_CyclicComponentsTerminate(t *testing.T) {
	g := New(&Dependency{
		URI: "file:///proj/cycle.pc",
		Module: &pc.Module{
			ID: "cycle",
			Children: []pc.Node{
				&pc.Component{Base: pc.Base{ID: "X"}, Is: "Y", Extends: true},
				&pc.Component{Base: pc.Base{ID: "Y"}, Is: "X", Extends: true},
			},
		},
	})
	refs := g.ComponentRefs(&pc.ComponentInstance{Base: pc.Base{ID: "i"}, Is: "X"})
	assert.Equal(t, []string{"X", "Y"}, refs.Names())
}

func TestComponentIndex_SmallestModuleWins(t *testing.T) {
	a := &Dependency{URI: "file:///a.pc", Module: &pc.Module{ID: "a", Children: []pc.Node{
		&pc.Component{Base: pc.Base{ID: "Card"}, Is: "section"},
	}}}
	b := &Dependency{URI: "file:///b.pc", Module: &pc.Module{ID: "b", Children: []pc.Node{
		&pc.Component{Base: pc.Base{ID: "Card"}, Is: "article"},
	}}}
	g := New(b, a)

	ref, ok := g.Component("Card")
	require.True(t, ok)
	assert.Equal(t, "file:///a.pc", ref.SourceURI)
	assert.Equal(t, []string{"a", "b"}, g.ModuleIDs())
}

func TestComponentMap_NilSafe(t *testing.T) {
	var m *ComponentMap
	_, ok := m.Lookup("x")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Names())
}

func TestComponentRefs_ConcurrentCallers(t *testing.T) {
	g := New(buttonModule(), homeModule())
	home, _ := g.ResolveModule("home")
	node := home.Module.Children[0]

	results := make([]*ComponentMap, 32)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = g.ComponentRefs(node)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}
