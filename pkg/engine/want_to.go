package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/intent"
	"github.com/compass-ai/compass/pkg/retrieval"
)

// Edge types that express goal support. A node connected to a textual match
// through one of these is a means to the goal even when its own text never
// mentions it.
var goalEdgeTypes = []string{"enables", "requires", "optimizes", "achieves", "supports"}

const (
	goalTextWeight  = 0.6
	goalGraphWeight = 0.4
)

// WantTo discovers the nodes that help achieve a stated goal. Text relevance
// with the 5x goal-verb multiplier finds the direct matches; a graph boost
// over goal-support edges pulls in the capabilities behind them. Each result
// carries the edges that connected it to the goal.
func (e *Engine) WantTo(ctx context.Context, goal string, cfg Config) ([]GoalResult, error) {
	if strings.TrimSpace(goal) == "" {
		return nil, common.NewValidationError("goal", "must not be blank")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	goalTerms := intent.GoalTerms(goal)
	bm25, err := e.bm25.Score(ctx, goal, goalTerms)
	if err != nil {
		return nil, err
	}
	token, err := retrieval.TokenMatch(ctx, e.snap, goal)
	if err != nil {
		return nil, err
	}
	text := mergeMax(bm25.Normalize(), token.Normalize())

	boostTypes := cfg.BoostTypes
	if len(boostTypes) == 0 {
		boostTypes = goalEdgeTypes
	}
	boost, edges, err := retrieval.GraphBoost(ctx, e.snap, topSeeds(text), boostTypes)
	if err != nil {
		return nil, err
	}

	edgesByNode := make(map[string][]EdgeAnnotation)
	for _, edge := range edges {
		edgesByNode[edge.SourceID] = append(edgesByNode[edge.SourceID], annotate(edge))
		edgesByNode[edge.TargetID] = append(edgesByNode[edge.TargetID], annotate(edge))
	}

	combined := make(retrieval.Scores)
	for id, v := range text {
		combined[id] += goalTextWeight * v
	}
	for id, v := range boost {
		combined[id] += goalGraphWeight * v
	}

	ids := make([]string, 0, len(combined))
	for id := range combined {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if combined[ids[i]] == combined[ids[j]] {
			return ids[i] < ids[j]
		}
		return combined[ids[i]] > combined[ids[j]]
	})

	out := make([]GoalResult, 0, min(len(ids), cfg.Limit))
	for _, id := range ids {
		node, err := e.snap.GetNode(id)
		if err != nil {
			continue
		}
		if !matchesDimensions(node, cfg.Dimensions) {
			continue
		}
		out = append(out, GoalResult{
			Node:  node,
			Score: combined[id],
			Path:  edgesByNode[id],
		})
		if cfg.Limit > 0 && len(out) >= cfg.Limit {
			break
		}
	}
	return out, nil
}
