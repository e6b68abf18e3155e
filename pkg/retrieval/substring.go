package retrieval

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/compass-ai/compass/pkg/graph"
)

// Substring scores nodes by case-insensitive containment of the query in
// their name, type, and serialized properties. Each matching field adds 1.0,
// so a node matching on all three fields scores 3.0 raw.
func Substring(ctx context.Context, s *graph.Snapshot, query string) (Scores, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return Scores{}, nil
	}

	out := make(Scores)
	for n := range s.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		score := 0.0
		if strings.Contains(strings.ToLower(n.Name), needle) {
			score += 1.0
		}
		if strings.Contains(strings.ToLower(n.Type), needle) {
			score += 1.0
		}
		if len(n.Properties) > 0 {
			if raw, err := json.Marshal(n.Properties); err == nil {
				if strings.Contains(strings.ToLower(string(raw)), needle) {
					score += 1.0
				}
			}
		}

		if score > 0 {
			out[n.ID] = score
		}
	}
	return out, nil
}
