package retrieval

import (
	"context"
	"math"

	"github.com/compass-ai/compass/pkg/graph"
)

const (
	// Standard BM25 parameters.
	defaultK1 = 1.5
	defaultB  = 0.75

	// DefaultIntentTermWeight is the multiplier applied to query terms the
	// intent classifier recognizes as goal verbs. Without it, goal verbs like
	// "reduce" or "optimize" are drowned out by high-frequency nouns.
	DefaultIntentTermWeight = 5.0
)

// BM25 is a term-relevance scorer built once per snapshot. The index holds
// per-node token frequencies, document frequencies, and length statistics.
// It is immutable after NewBM25 and safe for concurrent Score calls.
type BM25 struct {
	K1               float64
	B                float64
	IntentTermWeight float64

	docs      map[string]map[string]int // node id -> term -> frequency
	docLen    map[string]int
	docFreq   map[string]int
	totalDocs int
	avgDocLen float64
}

// NewBM25 indexes every node of the snapshot with the standard k1=1.5,
// b=0.75 parameters and the default 5x intent-term multiplier.
func NewBM25(s *graph.Snapshot) *BM25 {
	idx := &BM25{
		K1:               defaultK1,
		B:                defaultB,
		IntentTermWeight: DefaultIntentTermWeight,
		docs:             make(map[string]map[string]int),
		docLen:           make(map[string]int),
		docFreq:          make(map[string]int),
	}

	totalLen := 0
	for n := range s.All() {
		tokens := Tokenize(nodeText(n))
		freqs := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			freqs[tok]++
		}
		idx.docs[n.ID] = freqs
		idx.docLen[n.ID] = len(tokens)
		totalLen += len(tokens)
		for term := range freqs {
			idx.docFreq[term]++
		}
		idx.totalDocs++
	}

	if idx.totalDocs > 0 {
		idx.avgDocLen = float64(totalLen) / float64(idx.totalDocs)
	}
	return idx
}

// Score ranks every indexed node against the query. Terms present in
// intentTerms receive the intent-term multiplier; everything else weighs 1.0.
func (idx *BM25) Score(ctx context.Context, query string, intentTerms map[string]struct{}) (Scores, error) {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 || idx.totalDocs == 0 {
		return Scores{}, nil
	}

	out := make(Scores)
	for id, freqs := range idx.docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		score := 0.0
		dl := float64(idx.docLen[id])
		for _, term := range queryTokens {
			tf := float64(freqs[term])
			if tf == 0 {
				continue
			}

			df := float64(idx.docFreq[term])
			idf := math.Log(1.0 + (float64(idx.totalDocs)-df+0.5)/(df+0.5))

			norm := tf * (idx.K1 + 1) / (tf + idx.K1*(1-idx.B+idx.B*dl/idx.avgDocLen))

			termWeight := 1.0
			if _, ok := intentTerms[term]; ok {
				termWeight = idx.IntentTermWeight
			}
			score += idf * norm * termWeight
		}

		if score > 0 {
			out[id] = score
		}
	}
	return out, nil
}
