package store

import (
	"context"
	"errors"
	"sync"

	"github.com/compass-ai/compass/internal/util"
	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/graph"
	"github.com/compass-ai/compass/pkg/logger"
)

const loadRetries = 3

// Cache keeps loaded snapshots in memory keyed by ref. Snapshots are
// immutable, so a cached entry stays valid until the storage collaborator
// publishes an invalidation and Evict is called.
//
// Cache is safe for concurrent use; concurrent Gets for the same ref share
// one load.
type Cache struct {
	source SnapshotSource

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	once sync.Once
	snap *graph.Snapshot
	err  error
}

// NewCache wraps a SnapshotSource with an in-memory cache.
func NewCache(source SnapshotSource) *Cache {
	return &Cache{
		source:  source,
		entries: make(map[string]*cacheEntry),
	}
}

// Get returns the snapshot for ref, loading it through the source at most
// once per cached generation. Transient load failures are retried; not-found
// and failed loads are not cached, so a ref that appears later is picked up.
func (c *Cache) Get(ctx context.Context, ref string) (*graph.Snapshot, error) {
	c.mu.Lock()
	entry, ok := c.entries[ref]
	if !ok {
		entry = &cacheEntry{}
		c.entries[ref] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.snap, entry.err = util.RetryWithContext(ctx, loadRetries,
			func(ctx context.Context) (*graph.Snapshot, error) {
				return c.source.LoadSnapshot(ctx, ref)
			})
		if entry.err != nil {
			var nf *common.NotFoundError
			if !errors.As(entry.err, &nf) {
				logger.Error("[Store] Failed to load snapshot", "ref", ref, "err", entry.err)
			}
		} else if entry.snap.IntegrityWarnings() > 0 {
			logger.Warn(
				"[Store] Snapshot loaded with dangling edges",
				"ref", ref,
				"count", entry.snap.IntegrityWarnings(),
			)
		}
	})

	if entry.err != nil {
		c.Evict(ref)
		return nil, entry.err
	}
	return entry.snap, nil
}

// Evict drops the cached snapshot for ref. The next Get reloads from the
// source.
func (c *Cache) Evict(ref string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[ref]; ok {
		delete(c.entries, ref)
		logger.Info("[Store] Evicted snapshot from cache", "ref", ref)
	}
}
