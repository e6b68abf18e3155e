package engine

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/fuse"
	"github.com/compass-ai/compass/pkg/intent"
	"github.com/compass-ai/compass/pkg/retrieval"
)

// seedCount bounds how many top text/vector candidates seed the graph boost.
const seedCount = 16

// Search is the plain fused search primitive: text and vector signals only,
// no intent classification, no graph expansion. The intent weight is zeroed
// so the formula reduces to the three-weight form.
func (e *Engine) Search(ctx context.Context, query string, cfg Config) (*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, common.NewValidationError("query", "must not be blank")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	cfg.Weights.Intent = 0

	qt, trace := e.newTrace()

	embedding := e.embedQuery(ctx, trace, query)
	vector, err := e.timedVector(ctx, trace, embedding)
	if err != nil {
		return nil, err
	}
	bm25, err := e.timedBM25(ctx, trace, query, nil)
	if err != nil {
		return nil, err
	}
	token, err := e.timedToken(ctx, trace, query)
	if err != nil {
		return nil, err
	}
	substr, err := e.timedSubstring(ctx, trace, query)
	if err != nil {
		return nil, err
	}

	inputs := fuse.Inputs{
		Embedding: vector,
		BM25:      bm25,
		Token:     mergeMax(token, substr),
	}
	ranked := fuse.Combine(inputs, cfg.Weights, 0)
	results, err := e.materialize(ctx, ranked, cfg, nil)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		TraceID:           qt.ID(),
		Results:           results,
		IntegrityWarnings: e.snap.IntegrityWarnings(),
	}, nil
}

// embedQuery turns the query into a vector through the configured embedder.
// Any failure degrades the vector signal instead of failing the search; the
// score combiner redistributes the embedding weight.
func (e *Engine) embedQuery(ctx context.Context, trace Tracer, query string) []float32 {
	if e.embedder == nil {
		recordDegraded(trace, "vector", "no embedder configured")
		return nil
	}
	embedding, err := e.embedder.GenerateEmbedding(ctx, []byte(query))
	if err != nil {
		recordDegraded(trace, "vector", err.Error())
		return nil
	}
	return embedding
}

func (e *Engine) timedVector(ctx context.Context, trace Tracer, embedding []float32) (retrieval.Scores, error) {
	start := time.Now()
	scores, err := retrieval.Vector(ctx, e.snap, embedding)
	recordMechanism(trace, "vector", time.Since(start).Milliseconds(), err)
	return scores, err
}

func (e *Engine) timedBM25(ctx context.Context, trace Tracer, query string, intentTerms map[string]struct{}) (retrieval.Scores, error) {
	start := time.Now()
	scores, err := e.bm25.Score(ctx, query, intentTerms)
	recordMechanism(trace, "bm25", time.Since(start).Milliseconds(), err)
	return scores, err
}

func (e *Engine) timedToken(ctx context.Context, trace Tracer, query string) (retrieval.Scores, error) {
	start := time.Now()
	scores, err := retrieval.TokenMatch(ctx, e.snap, query)
	recordMechanism(trace, "token", time.Since(start).Milliseconds(), err)
	return scores, err
}

func (e *Engine) timedSubstring(ctx context.Context, trace Tracer, query string) (retrieval.Scores, error) {
	start := time.Now()
	scores, err := retrieval.Substring(ctx, e.snap, query)
	recordMechanism(trace, "substring", time.Since(start).Milliseconds(), err)
	return scores, err
}

// intentAffinity scores every node against the classified intents: each
// category keyword found in the node's token set contributes the intent's
// confidence. Nodes unrelated to every intent stay unscored.
func (e *Engine) intentAffinity(ctx context.Context, trace Tracer, intents []intent.Intent) (retrieval.Scores, error) {
	start := time.Now()

	out := make(retrieval.Scores)
	if len(intents) == 0 {
		recordMechanism(trace, "intent", time.Since(start).Milliseconds(), nil)
		return out, nil
	}

	for n := range e.snap.All() {
		if err := ctx.Err(); err != nil {
			recordMechanism(trace, "intent", time.Since(start).Milliseconds(), err)
			return nil, err
		}

		tokens := nodeTokens(n)
		score := 0.0
		for _, in := range intents {
			for _, kw := range intent.KeywordsFor(in.Category) {
				if _, ok := tokens[kw]; ok {
					score += in.Score
				}
			}
		}
		if score > 0 {
			out[n.ID] = score
		}
	}

	recordMechanism(trace, "intent", time.Since(start).Milliseconds(), nil)
	return out, nil
}

// materialize resolves ranked ids into nodes, applies the dimension
// pre-filter, attaches per-node boost edges, and cuts to the limit.
func (e *Engine) materialize(ctx context.Context, ranked []fuse.Ranked, cfg Config, boostEdges []common.Edge) ([]RankedResult, error) {
	edgesByNode := make(map[string][]EdgeAnnotation)
	for _, edge := range boostEdges {
		edgesByNode[edge.TargetID] = append(edgesByNode[edge.TargetID], annotate(edge))
		edgesByNode[edge.SourceID] = append(edgesByNode[edge.SourceID], annotate(edge))
	}

	out := make([]RankedResult, 0, min(len(ranked), cfg.Limit))
	for _, r := range ranked {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		node, err := e.snap.GetNode(r.NodeID)
		if err != nil {
			continue
		}
		if !matchesDimensions(node, cfg.Dimensions) {
			continue
		}

		out = append(out, RankedResult{
			Node:       node,
			Score:      r.Score,
			Components: r.Components,
			Edges:      edgesByNode[r.NodeID],
		})
		if cfg.Limit > 0 && len(out) >= cfg.Limit {
			break
		}
	}
	return out, nil
}

func matchesDimensions(n common.Node, filters map[string]retrieval.DimensionRange) bool {
	for name, r := range filters {
		if !r.Matches(n, name) {
			return false
		}
	}
	return true
}

// mergeMax unions two score sets keeping the per-node maximum.
func mergeMax(a, b retrieval.Scores) retrieval.Scores {
	out := make(retrieval.Scores, len(a)+len(b))
	for id, v := range a {
		out[id] = v
	}
	for id, v := range b {
		if v > out[id] {
			out[id] = v
		}
	}
	return out
}

// topSeeds picks the highest-scoring ids from the union of the normalized
// text and vector signals to seed the graph boost. Ties break by id so the
// seed set is deterministic.
func topSeeds(sets ...retrieval.Scores) retrieval.Scores {
	union := make(retrieval.Scores)
	for _, s := range sets {
		for id, v := range s.Normalize() {
			if v > union[id] {
				union[id] = v
			}
		}
	}
	if len(union) <= seedCount {
		return union
	}

	type pair struct {
		id    string
		score float64
	}
	pairs := make([]pair, 0, len(union))
	for id, v := range union {
		pairs = append(pairs, pair{id, v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score == pairs[j].score {
			return pairs[i].id < pairs[j].id
		}
		return pairs[i].score > pairs[j].score
	})

	out := make(retrieval.Scores, seedCount)
	for _, p := range pairs[:seedCount] {
		out[p.id] = p.score
	}
	return out
}
