package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/graph"
)

type fakeSource struct {
	loads    atomic.Int64
	failures int
	known    map[string]bool
}

func (f *fakeSource) LoadSnapshot(_ context.Context, ref string) (*graph.Snapshot, error) {
	n := f.loads.Add(1)
	if int(n) <= f.failures {
		return nil, fmt.Errorf("transient load failure %d", n)
	}
	if f.known != nil && !f.known[ref] {
		return nil, common.NewGraphNotFound(ref)
	}
	return graph.NewSnapshot(ref, []common.Node{{ID: "n", Type: "tool", Name: "n"}}, nil), nil
}

func TestCacheLoadsOnce(t *testing.T) {
	src := &fakeSource{}
	c := NewCache(src)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Get(context.Background(), "g1"); err != nil {
				t.Errorf("Get failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := src.loads.Load(); got != 1 {
		t.Fatalf("expected 1 load, got %d", got)
	}
}

func TestCacheEvictReloads(t *testing.T) {
	src := &fakeSource{}
	c := NewCache(src)

	first, err := c.Get(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	c.Evict("g1")
	second, err := c.Get(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Get after evict failed: %v", err)
	}
	if first == second {
		t.Fatal("expected a fresh snapshot after eviction")
	}
	if got := src.loads.Load(); got != 2 {
		t.Fatalf("expected 2 loads, got %d", got)
	}
}

func TestCacheRetriesTransientFailures(t *testing.T) {
	src := &fakeSource{failures: 2}
	c := NewCache(src)

	snap, err := c.Get(context.Background(), "g1")
	if err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}
	if snap.ID() != "g1" {
		t.Fatalf("unexpected snapshot id %q", snap.ID())
	}
	if got := src.loads.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestCacheDoesNotCacheNotFound(t *testing.T) {
	src := &fakeSource{known: map[string]bool{}}
	c := NewCache(src)

	_, err := c.Get(context.Background(), "missing")
	var nf *common.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	src.known["missing"] = true
	if _, err := c.Get(context.Background(), "missing"); err != nil {
		t.Fatalf("expected the ref to load once it exists, got %v", err)
	}
}
