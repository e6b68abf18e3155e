package retrieval

import (
	"context"

	"github.com/compass-ai/compass/pkg/graph"
)

// TokenMatch scores nodes by the fraction of query tokens present in the
// node's text. A node containing every query token scores 1.0 raw.
func TokenMatch(ctx context.Context, s *graph.Snapshot, query string) (Scores, error) {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return Scores{}, nil
	}

	out := make(Scores)
	for n := range s.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		nodeTokens := TokenSet(nodeText(n))
		matched := 0
		for _, tok := range queryTokens {
			if _, ok := nodeTokens[tok]; ok {
				matched++
			}
		}

		if matched > 0 {
			out[n.ID] = float64(matched) / float64(len(queryTokens))
		}
	}
	return out, nil
}
