// Package fuse combines independently normalized retrieval signals into one
// ranked list via a weighted linear formula. It is pure: identical inputs
// produce byte-identical rankings, including tie-break order.
package fuse

import (
	"sort"

	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/retrieval"
)

// Weights holds the four fusion weights. They need not sum to 1; Combine
// normalizes by the active total. With Intent set to 0 the formula reduces
// exactly to the older 3-weight form.
type Weights struct {
	Embedding float64 `json:"embedding"`
	Text      float64 `json:"text"`
	Graph     float64 `json:"graph"`
	Intent    float64 `json:"intent"`
}

// DefaultWeights returns the tuned production defaults.
func DefaultWeights() Weights {
	return Weights{
		Embedding: 0.35,
		Text:      0.40,
		Graph:     0.15,
		Intent:    0.10,
	}
}

// Validate rejects negative weights and an all-zero weight set.
func (w Weights) Validate() error {
	switch {
	case w.Embedding < 0:
		return common.NewValidationError("weights.embedding", "must be non-negative")
	case w.Text < 0:
		return common.NewValidationError("weights.text", "must be non-negative")
	case w.Graph < 0:
		return common.NewValidationError("weights.graph", "must be non-negative")
	case w.Intent < 0:
		return common.NewValidationError("weights.intent", "must be non-negative")
	}
	if w.Embedding+w.Text+w.Graph+w.Intent == 0 {
		return common.NewValidationError("weights", "at least one weight must be positive")
	}
	return nil
}

// ComponentScores retains the pre-fusion normalized values per signal so
// callers can explain a ranking.
type ComponentScores struct {
	Embedding float64 `json:"embedding"`
	Text      float64 `json:"text"`
	Graph     float64 `json:"graph"`
	Intent    float64 `json:"intent"`
}

// Ranked is one fused result: a node id, its combined score, and the
// component breakdown.
type Ranked struct {
	NodeID     string          `json:"node_id"`
	Score      float64         `json:"score"`
	Components ComponentScores `json:"components"`
}

// Inputs carries the raw per-mechanism score sets into Combine. The two text
// signals stay separate here; Combine takes their per-node max since they are
// redundant measurements of the same thing and summing would double-count.
type Inputs struct {
	Embedding retrieval.Scores
	BM25      retrieval.Scores
	Token     retrieval.Scores
	Graph     retrieval.Scores
	Intent    retrieval.Scores
}

// Combine normalizes each score set, fuses them with the weighted linear
// formula, and returns the ranked results in descending score order, ties
// broken by node id. When the embedding signal is empty its weight is
// redistributed across the remaining signals rather than silently shrinking
// every score. A limit <= 0 returns all scored nodes.
func Combine(in Inputs, weights Weights, limit int) []Ranked {
	embedding := in.Embedding.Normalize()
	bm25 := in.BM25.Normalize()
	token := in.Token.Normalize()
	graphScores := in.Graph.Normalize()
	intentScores := in.Intent.Normalize()

	active := weights
	if len(embedding) == 0 {
		active.Embedding = 0
	}
	total := active.Embedding + active.Text + active.Graph + active.Intent
	if total == 0 {
		return nil
	}

	ids := make(map[string]struct{})
	for _, set := range []retrieval.Scores{embedding, bm25, token, graphScores, intentScores} {
		for id := range set {
			ids[id] = struct{}{}
		}
	}

	out := make([]Ranked, 0, len(ids))
	for id := range ids {
		text := max(bm25[id], token[id])
		components := ComponentScores{
			Embedding: embedding[id],
			Text:      text,
			Graph:     graphScores[id],
			Intent:    intentScores[id],
		}

		score := (active.Embedding*components.Embedding +
			active.Text*components.Text +
			active.Graph*components.Graph +
			active.Intent*components.Intent) / total

		out = append(out, Ranked{NodeID: id, Score: score, Components: components})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].NodeID < out[j].NodeID
		}
		return out[i].Score > out[j].Score
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
