package retrieval

import (
	"context"

	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/graph"
)

const (
	outgoingBoostWeight = 0.5
	incomingBoostWeight = 0.3
)

// GraphBoost amplifies neighbors of an already-relevant seed set. Outgoing
// edges contribute 0.5 and incoming edges 0.3, each scaled by the seed's score
// and the edge weight, optionally restricted to boostTypes. The accumulated
// scores are normalized by the maximum boost observed. The contributing edges
// are returned alongside the scores so results can explain why a node was
// boosted.
//
// The snapshot already deduplicates (source, target, type) triples, so a
// duplicated edge in the raw graph never double-counts here.
func GraphBoost(
	ctx context.Context,
	s *graph.Snapshot,
	seeds Scores,
	boostTypes []string,
) (Scores, []common.Edge, error) {
	if len(seeds) == 0 {
		return Scores{}, nil, nil
	}

	raw := make(Scores)
	var contributing []common.Edge

	for seedID, seedScore := range seeds {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if seedScore <= 0 {
			continue
		}

		for _, e := range s.Neighbors(seedID, common.DirectionOutgoing, boostTypes...) {
			raw[e.TargetID] += outgoingBoostWeight * seedScore * e.Weight
			contributing = append(contributing, e)
		}
		for _, e := range s.Neighbors(seedID, common.DirectionIncoming, boostTypes...) {
			raw[e.SourceID] += incomingBoostWeight * seedScore * e.Weight
			contributing = append(contributing, e)
		}
	}

	return raw.Normalize(), contributing, nil
}
