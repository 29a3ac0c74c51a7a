package engine

import (
	"sync"

	"github.com/roach88/synth/internal/graph"
	"github.com/roach88/synth/internal/pc"
	"github.com/roach88/synth/internal/synthetic"
)

// Cache memoizes evaluation results by input identity.
//
// Each distinct key is computed at most once, even under concurrent
// lookups: entries are created under the mutex and computed outside it
// through a per-entry sync.Once. Errors are memoized with their key, since
// evaluation is a pure function of its inputs.
//
// Inputs must not be mutated in place while a cached entry refers to
// them. Use graph.Add (which advances the generation) together with
// EvictBefore or Purge to invalidate.
//
// Thread-safety: Cache is safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	documents  map[documentKey]*entry[*synthetic.Document]
	content    map[contentKey]*entry[synthetic.VisibleNode]
	extensions map[*graph.ComponentMap]*entry[*extensionTable]
	sources    map[any]*synthetic.Source
	metrics    *Metrics
}

type documentKey struct {
	module     *pc.Module
	graph      *graph.Graph
	generation uint64
}

type contentKey struct {
	node       pc.Node
	components *graph.ComponentMap
	sourceURI  string
}

type entry[V any] struct {
	once       sync.Once
	value      V
	err        error
	generation uint64
}

// NewCache creates an empty cache with unregistered metrics.
func NewCache() *Cache {
	return NewCacheWithMetrics(NewMetrics(defaultMetricsConfig()))
}

// NewCacheWithMetrics creates an empty cache reporting lookups to m.
func NewCacheWithMetrics(m *Metrics) *Cache {
	c := &Cache{metrics: m}
	c.reset()
	return c
}

// Metrics returns the collectors the cache reports lookups to.
func (c *Cache) Metrics() *Metrics {
	return c.metrics
}

func (c *Cache) reset() {
	c.documents = make(map[documentKey]*entry[*synthetic.Document])
	c.content = make(map[contentKey]*entry[synthetic.VisibleNode])
	c.extensions = make(map[*graph.ComponentMap]*entry[*extensionTable])
	c.sources = make(map[any]*synthetic.Source)
}

// Purge drops every cached entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// EvictBefore drops document and content entries computed for a graph
// generation older than generation and returns how many were removed.
// Content entries evaluated outside a module evaluation carry generation
// 0 and are always evicted. Extension tables are dropped wholesale; they
// are rebuilt on demand.
func (c *Cache) EvictBefore(generation uint64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k := range c.documents {
		if k.generation < generation {
			delete(c.documents, k)
			removed++
		}
	}
	for k, e := range c.content {
		if e.generation < generation {
			delete(c.content, k)
			removed++
		}
	}
	c.extensions = make(map[*graph.ComponentMap]*entry[*extensionTable])
	return removed
}

// Len returns the number of cached documents and content nodes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.documents) + len(c.content)
}

// source returns the provenance object for a static node (or module),
// memoized by the identity of owner.
func (c *Cache) source(owner any, nodeID string) *synthetic.Source {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.sources[owner]; ok {
		return s
	}
	s := &synthetic.Source{NodeID: nodeID}
	c.sources[owner] = s
	return s
}

func (c *Cache) document(key documentKey, compute func() (*synthetic.Document, error)) (*synthetic.Document, bool, error) {
	return load(c, func() map[documentKey]*entry[*synthetic.Document] { return c.documents }, key, key.generation, lookupDocument, compute)
}

func (c *Cache) contentNode(key contentKey, generation uint64, compute func() (synthetic.VisibleNode, error)) (synthetic.VisibleNode, bool, error) {
	return load(c, func() map[contentKey]*entry[synthetic.VisibleNode] { return c.content }, key, generation, lookupContent, compute)
}

func (c *Cache) extensionTable(cm *graph.ComponentMap) *extensionTable {
	pick := func() map[*graph.ComponentMap]*entry[*extensionTable] { return c.extensions }
	t, _, _ := load(c, pick, cm, 0, lookupExtensions, func() (*extensionTable, error) {
		return analyzeExtensions(cm), nil
	})
	return t
}

// load returns the entry for key, computing it on first request.
// pick selects the map under the lock so Purge cannot race a lookup.
// The returned bool reports a cache hit.
func load[K comparable, V any](c *Cache, pick func() map[K]*entry[V], key K, generation uint64, kind string, compute func() (V, error)) (V, bool, error) {
	c.mu.Lock()
	m := pick()
	e, hit := m[key]
	if !hit {
		e = &entry[V]{generation: generation}
		m[key] = e
	}
	c.mu.Unlock()

	c.metrics.observeLookup(kind, hit)
	e.once.Do(func() {
		e.value, e.err = compute()
	})
	return e.value, hit, e.err
}
