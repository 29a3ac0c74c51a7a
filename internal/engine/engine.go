package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/synth/internal/graph"
	"github.com/roach88/synth/internal/pc"
	"github.com/roach88/synth/internal/synthetic"
)

// DefaultMaxDepth bounds instancing nesting plus extension chain length.
const DefaultMaxDepth = 256

// Config holds Evaluator settings.
type Config struct {
	// Logger receives debug output. Default: slog.Default().
	Logger *slog.Logger

	// MaxDepth bounds nested instance expansion. Default: DefaultMaxDepth.
	MaxDepth int

	// Cache is shared memoization state. Default: a fresh Cache.
	Cache *Cache

	// Metrics configures the Prometheus collectors.
	Metrics MetricsConfig
}

// Option configures an Evaluator.
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMaxDepth sets the instancing depth bound.
func WithMaxDepth(depth int) Option {
	return func(c *Config) {
		c.MaxDepth = depth
	}
}

// WithCache shares an existing cache between evaluators.
func WithCache(cache *Cache) Option {
	return func(c *Config) {
		c.Cache = cache
	}
}

// WithMetrics sets the metrics configuration.
func WithMetrics(cfg MetricsConfig) Option {
	return func(c *Config) {
		c.Metrics = cfg
	}
}

// Evaluator turns static modules into synthetic documents.
//
// Thread-safety: an Evaluator is safe for concurrent use. Each evaluation
// allocates its own Registry; the Cache is the only shared state.
type Evaluator struct {
	logger   *slog.Logger
	maxDepth int
	cache    *Cache
	metrics  *Metrics
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	cfg := Config{
		MaxDepth: DefaultMaxDepth,
		Metrics:  defaultMetricsConfig(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	metrics := NewMetrics(cfg.Metrics)
	if cfg.Cache == nil {
		cfg.Cache = NewCacheWithMetrics(metrics)
	}

	return &Evaluator{
		logger:   cfg.Logger,
		maxDepth: cfg.MaxDepth,
		cache:    cfg.Cache,
		metrics:  metrics,
	}
}

// Cache returns the evaluator's cache.
func (e *Evaluator) Cache() *Cache {
	return e.cache
}

// Metrics returns the evaluator's collectors.
func (e *Evaluator) Metrics() *Metrics {
	return e.metrics
}

// EvaluateModule evaluates every top-level child of module as a content
// node and returns the document. Results are memoized on the identity of
// module and g and on g's generation, so repeated calls with unchanged
// inputs return the same *synthetic.Document.
func (e *Evaluator) EvaluateModule(module *pc.Module, g *graph.Graph) (*synthetic.Document, error) {
	key := documentKey{module: module, graph: g, generation: g.Generation()}

	doc, hit, err := e.cache.document(key, func() (*synthetic.Document, error) {
		start := time.Now()
		doc, err := e.evaluateModule(module, g, key.generation)
		e.metrics.observeEvaluation(start, err)
		return doc, err
	})
	if hit {
		e.logger.Debug("document cache hit", "module", module.ID, "generation", key.generation)
	}
	return doc, err
}

// EvaluateModuleID resolves moduleID through g and evaluates it.
func (e *Evaluator) EvaluateModuleID(moduleID string, g *graph.Graph) (*synthetic.Document, error) {
	dep, err := g.ResolveModule(moduleID)
	if err != nil {
		return nil, NewResolutionError(moduleID, err)
	}
	return e.EvaluateModule(dep.Module, g)
}

func (e *Evaluator) evaluateModule(module *pc.Module, g *graph.Graph, generation uint64) (*synthetic.Document, error) {
	dep, err := g.ResolveModule(module.ID)
	if err != nil {
		return nil, NewResolutionError(module.ID, err)
	}

	e.logger.Debug("evaluating module",
		"module", module.ID,
		"uri", dep.URI,
		"generation", generation,
	)

	contentNodes := flattenFragments(module.Children)
	children := make([]synthetic.VisibleNode, 0, len(contentNodes))
	for _, child := range contentNodes {
		node, err := e.evaluateContentNode(child, g.ComponentRefs(child), dep.URI, generation)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", module.ID, err)
		}
		children = append(children, node)
	}

	return synthetic.NewDocument(e.cache.source(module, module.ID), children), nil
}

// EvaluateContentNode evaluates one top-level node. Results are memoized
// on the identity of node and componentMap and on sourceURI.
func (e *Evaluator) EvaluateContentNode(node pc.Node, componentMap *graph.ComponentMap, sourceURI string) (synthetic.VisibleNode, error) {
	return e.evaluateContentNode(node, componentMap, sourceURI, 0)
}

func (e *Evaluator) evaluateContentNode(node pc.Node, componentMap *graph.ComponentMap, sourceURI string, generation uint64) (synthetic.VisibleNode, error) {
	key := contentKey{node: node, components: componentMap, sourceURI: sourceURI}

	result, hit, err := e.cache.contentNode(key, generation, func() (synthetic.VisibleNode, error) {
		ev := &evaluation{
			evaluator:  e,
			overrides:  NewRegistry(),
			extensions: e.cache.extensionTable(componentMap),
		}

		var (
			result synthetic.VisibleNode
			err    error
		)
		if _, isComponent := node.(*pc.Component); isComponent {
			result, err = ev.evaluateComponentInstance(node, node, "", false, true, sourceURI)
		} else {
			result, err = ev.evaluateVisibleNode(node, "", false, false, sourceURI)
		}
		if err != nil {
			return nil, err
		}

		e.logger.Debug("content node evaluated",
			"node", node.NodeID(),
			"overrides", ev.overrides.Len(),
		)
		return synthetic.AsContentNode(result), nil
	})
	if hit {
		e.logger.Debug("content cache hit", "node", node.NodeID())
	}
	return result, err
}

// flattenFragments splices fragment children into the surrounding list
// and drops override declarations, which never render on their own.
func flattenFragments(nodes []pc.Node) []pc.Node {
	out := make([]pc.Node, 0, len(nodes))
	for _, n := range nodes {
		switch node := n.(type) {
		case *pc.Fragment:
			out = append(out, flattenFragments(node.Children)...)
		case *pc.Override:
		default:
			out = append(out, n)
		}
	}
	return out
}
