package retrieval

import (
	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/graph"
)

const (
	jaccardWeight     = 0.70
	typeMatchWeight   = 0.20
	nameOverlapWeight = 0.10
)

// StructuralSimilarity breaks down how alike two nodes are by graph shape
// rather than semantics: shared neighbors, same type, and name token overlap.
type StructuralSimilarity struct {
	Jaccard     float64 `json:"jaccard"`
	TypeMatch   float64 `json:"type_match"`
	NameOverlap float64 `json:"name_overlap"`
	Combined    float64 `json:"combined"`
}

// Jaccard computes |intersection| / |union| of the two nodes' neighbor sets,
// counting neighbors in both directions. Two isolated nodes score 0.
func Jaccard(s *graph.Snapshot, a, b string) float64 {
	na := s.NeighborIDs(a, common.DirectionBoth)
	nb := s.NeighborIDs(b, common.DirectionBoth)
	if len(na) == 0 && len(nb) == 0 {
		return 0
	}

	intersection := 0
	for id := range na {
		if _, ok := nb[id]; ok {
			intersection++
		}
	}
	union := len(na) + len(nb) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Similarity combines jaccard, type match, and name token overlap into the
// weighted structural score: 0.70*jaccard + 0.20*sameType + 0.10*nameOverlap.
func Similarity(s *graph.Snapshot, a, b common.Node) StructuralSimilarity {
	sim := StructuralSimilarity{
		Jaccard:     Jaccard(s, a.ID, b.ID),
		NameOverlap: nameTokenOverlap(a.Name, b.Name),
	}
	if a.Type == b.Type && a.Type != "" {
		sim.TypeMatch = 1.0
	}

	sim.Combined = jaccardWeight*sim.Jaccard +
		typeMatchWeight*sim.TypeMatch +
		nameOverlapWeight*sim.NameOverlap
	return sim
}

func nameTokenOverlap(a, b string) float64 {
	ta := TokenSet(a)
	tb := TokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	intersection := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	return float64(intersection) / float64(union)
}
