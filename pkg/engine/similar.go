package engine

import (
	"context"
	"sort"

	"github.com/compass-ai/compass/pkg/retrieval"
)

// SimilarTo ranks every other node by structural similarity to the given
// node: shared neighbors dominate, same type and name overlap refine. The
// reference node itself is excluded. A limit <= 0 returns all scored nodes.
func (e *Engine) SimilarTo(ctx context.Context, nodeID string, limit int) ([]SimilarResult, error) {
	ref, err := e.snap.GetNode(nodeID)
	if err != nil {
		return nil, err
	}

	var out []SimilarResult
	for n := range e.snap.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if n.ID == ref.ID {
			continue
		}

		sim := retrieval.Similarity(e.snap, ref, n)
		if sim.Combined <= 0 {
			continue
		}
		out = append(out, SimilarResult{
			Node:        n,
			Score:       sim.Combined,
			Jaccard:     sim.Jaccard,
			TypeMatch:   sim.TypeMatch,
			NameOverlap: sim.NameOverlap,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Node.ID < out[j].Node.ID
		}
		return out[i].Score > out[j].Score
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
