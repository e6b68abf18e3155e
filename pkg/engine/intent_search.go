package engine

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/fuse"
	"github.com/compass-ai/compass/pkg/intent"
	"github.com/compass-ai/compass/pkg/retrieval"
)

// IntentSearch is the master operation: it classifies the query, fans the
// retrieval mechanisms out concurrently, boosts graph neighbors of the top
// candidates, fuses everything into one ranking, and attaches a composition
// plan when the query decomposes into multiple sub-goals.
//
// Cancelling the context aborts every in-flight mechanism.
func (e *Engine) IntentSearch(ctx context.Context, query string, cfg Config) (*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, common.NewValidationError("query", "must not be blank")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	qt, trace := e.newTrace()
	intents := e.ClassifyIntent(query)
	goalTerms := intent.GoalTerms(query)

	var (
		mu       sync.Mutex
		vector   retrieval.Scores
		bm25     retrieval.Scores
		token    retrieval.Scores
		substr   retrieval.Scores
		affinity retrieval.Scores
	)

	group, gCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		embedding := e.embedQuery(gCtx, trace, query)
		scores, err := e.timedVector(gCtx, trace, embedding)
		if err != nil {
			return err
		}
		mu.Lock()
		vector = scores
		mu.Unlock()
		return nil
	})
	group.Go(func() error {
		scores, err := e.timedBM25(gCtx, trace, query, goalTerms)
		if err != nil {
			return err
		}
		mu.Lock()
		bm25 = scores
		mu.Unlock()
		return nil
	})
	group.Go(func() error {
		scores, err := e.timedToken(gCtx, trace, query)
		if err != nil {
			return err
		}
		mu.Lock()
		token = scores
		mu.Unlock()
		return nil
	})
	group.Go(func() error {
		scores, err := e.timedSubstring(gCtx, trace, query)
		if err != nil {
			return err
		}
		mu.Lock()
		substr = scores
		mu.Unlock()
		return nil
	})
	group.Go(func() error {
		scores, err := e.intentAffinity(gCtx, trace, intents)
		if err != nil {
			return err
		}
		mu.Lock()
		affinity = scores
		mu.Unlock()
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	text := mergeMax(token, substr)
	seeds := topSeeds(bm25, text, vector)
	for id := range seeds {
		recordSeedIDs(trace, id)
	}

	boost, boostEdges, err := retrieval.GraphBoost(ctx, e.snap, seeds, cfg.BoostTypes)
	if err != nil {
		return nil, err
	}
	recordBoostEdges(trace, len(boostEdges))

	inputs := fuse.Inputs{
		Embedding: vector,
		BM25:      bm25,
		Token:     text,
		Graph:     boost,
		Intent:    affinity,
	}
	ranked := fuse.Combine(inputs, cfg.Weights, 0)
	results, err := e.materialize(ctx, ranked, cfg, boostEdges)
	if err != nil {
		return nil, err
	}

	expansion, err := e.expand(ctx, results, cfg.ExpandDepth)
	if err != nil {
		return nil, err
	}

	out := &SearchResult{
		TraceID:           qt.ID(),
		Intents:           intents,
		Results:           results,
		Edges:             expansion,
		IntegrityWarnings: e.snap.IntegrityWarnings(),
	}

	subGoals, err := e.decomposer.Decompose(ctx, query)
	if err != nil {
		recordDegraded(trace, "decompose", err.Error())
	} else if len(subGoals) >= 2 {
		plan, err := e.ComposeFor(ctx, query, 0)
		if err == nil {
			out.CompositionPlan = plan
		}
	}
	return out, nil
}

// expand walks outward from the result nodes to the requested depth and
// collects the traversed edges for the caller, deduplicated by triple.
func (e *Engine) expand(ctx context.Context, results []RankedResult, depth int) ([]EdgeAnnotation, error) {
	if depth <= 0 || len(results) == 0 {
		return nil, nil
	}

	seen := make(map[EdgeAnnotation]struct{})
	var out []EdgeAnnotation

	frontier := make([]string, 0, len(results))
	visited := make(map[string]struct{}, len(results))
	for _, r := range results {
		frontier = append(frontier, r.Node.ID)
		visited[r.Node.ID] = struct{}{}
	}

	for d := 0; d < depth && len(frontier) > 0; d++ {
		var next []string
		for _, id := range frontier {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			for _, edge := range e.snap.Neighbors(id, common.DirectionBoth) {
				ann := annotate(edge)
				if _, ok := seen[ann]; ok {
					continue
				}
				seen[ann] = struct{}{}
				out = append(out, ann)

				other := edge.TargetID
				if other == id {
					other = edge.SourceID
				}
				if _, ok := visited[other]; !ok {
					visited[other] = struct{}{}
					next = append(next, other)
				}
			}
		}
		frontier = next
	}
	return out, nil
}
