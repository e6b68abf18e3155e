// Package engine exposes the query operations over an immutable graph
// snapshot: fused search, intent-aware search, goal discovery, capability
// assessment, composition planning, structural similarity, impact and path
// analysis, and dimension filtering.
//
// An Engine is bound to exactly one snapshot. Snapshots never mutate, so
// every operation is safe for unbounded concurrent use without locking;
// swapping in fresh graph data means building a new Engine.
package engine

import (
	"encoding/json"

	"github.com/compass-ai/compass/pkg/ai"
	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/graph"
	"github.com/compass-ai/compass/pkg/intent"
	"github.com/compass-ai/compass/pkg/retrieval"
)

// Engine binds the retrieval mechanisms to one snapshot. The BM25 index is
// built once at construction since the snapshot cannot change underneath it.
type Engine struct {
	snap       *graph.Snapshot
	bm25       *retrieval.BM25
	embedder   ai.EmbeddingClient
	decomposer DecompositionStrategy
	tracer     Tracer
}

// Options carries the optional collaborators of an Engine. Every field may
// be nil: without an Embedder the vector signal degrades and its weight is
// redistributed, without a Decomposer the rule-based splitter is used, and
// without a Tracer tracing is a no-op.
type Options struct {
	Embedder   ai.EmbeddingClient
	Decomposer DecompositionStrategy
	Tracer     Tracer
}

// New builds an Engine over the snapshot and indexes it for BM25.
func New(snap *graph.Snapshot, opts Options) *Engine {
	decomposer := opts.Decomposer
	if decomposer == nil {
		decomposer = RuleBasedDecomposer{}
	}
	return &Engine{
		snap:       snap,
		bm25:       retrieval.NewBM25(snap),
		embedder:   opts.Embedder,
		decomposer: decomposer,
		tracer:     opts.Tracer,
	}
}

// newTrace starts a per-query trace. When an engine-level tracer is
// configured, events fan out to it as well.
func (e *Engine) newTrace() (*QueryTrace, Tracer) {
	qt := NewQueryTrace()
	if e.tracer != nil {
		return qt, MultiTracer{qt, e.tracer}
	}
	return qt, qt
}

// Snapshot returns the bound snapshot.
func (e *Engine) Snapshot() *graph.Snapshot {
	return e.snap
}

// ClassifyIntent exposes the intent classifier as a standalone operation.
func (e *Engine) ClassifyIntent(query string) []intent.Intent {
	return intent.Classify(query)
}

// nodeTokens is the token set a node is matched against for intent affinity
// and capability lookups: name, type, and serialized properties.
func nodeTokens(n common.Node) map[string]struct{} {
	text := n.Name + " " + n.Type
	if len(n.Properties) > 0 {
		if raw, err := json.Marshal(n.Properties); err == nil {
			text += " " + string(raw)
		}
	}
	return retrieval.TokenSet(text)
}
