package retrieval

import (
	"context"
	"math"

	"github.com/compass-ai/compass/pkg/graph"
)

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths or zero vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Vector scores nodes by cosine similarity between the query embedding and
// each node embedding. Nodes without embeddings are skipped; an absent query
// embedding yields an empty score set rather than an error, letting the score
// combiner renormalize the remaining weights.
func Vector(ctx context.Context, s *graph.Snapshot, queryEmbedding []float32) (Scores, error) {
	if len(queryEmbedding) == 0 || !s.HasEmbeddings() {
		return Scores{}, nil
	}

	out := make(Scores)
	for n := range s.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(n.Embedding) == 0 {
			continue
		}

		sim := CosineSimilarity(queryEmbedding, n.Embedding)
		if sim > 0 {
			out[n.ID] = sim
		}
	}
	return out, nil
}
