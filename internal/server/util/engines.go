package util

import (
	"context"
	"sync"

	"github.com/compass-ai/compass/pkg/ai"
	"github.com/compass-ai/compass/pkg/engine"
	"github.com/compass-ai/compass/pkg/graph"
	"github.com/compass-ai/compass/pkg/store"
)

// EngineCache memoizes one engine per cached snapshot. Building an engine
// indexes the whole snapshot for BM25, so it must not happen per request;
// when the snapshot cache hands out a fresh snapshot (after invalidation)
// the engine is rebuilt.
type EngineCache struct {
	snapshots *store.Cache
	embedder  ai.EmbeddingClient

	mu      sync.Mutex
	entries map[string]*engineEntry
}

type engineEntry struct {
	snap *graph.Snapshot
	eng  *engine.Engine
}

func NewEngineCache(snapshots *store.Cache, embedder ai.EmbeddingClient) *EngineCache {
	return &EngineCache{
		snapshots: snapshots,
		embedder:  embedder,
		entries:   make(map[string]*engineEntry),
	}
}

// Engine resolves ref through the snapshot cache and returns the engine
// bound to that snapshot, building it on first use per snapshot generation.
func (ec *EngineCache) Engine(ctx context.Context, ref string) (*engine.Engine, error) {
	snap, err := ec.snapshots.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	ec.mu.Lock()
	defer ec.mu.Unlock()

	if entry, ok := ec.entries[ref]; ok && entry.snap == snap {
		return entry.eng, nil
	}

	eng := engine.New(snap, engine.Options{Embedder: ec.embedder})
	ec.entries[ref] = &engineEntry{snap: snap, eng: eng}
	return eng, nil
}
