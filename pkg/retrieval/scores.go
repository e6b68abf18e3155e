// Package retrieval implements the independent scoring mechanisms the query
// engine fans out over a graph snapshot: substring match, tokenized text
// match, BM25 term relevance, vector similarity, graph boosting, structural
// similarity, and dimension filtering. Each mechanism produces its own raw
// score set; normalization and fusion happen downstream.
package retrieval

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/compass-ai/compass/pkg/common"
)

// Scores maps node ids to raw mechanism scores. Each mechanism's set is
// normalized independently before fusion.
type Scores map[string]float64

// Normalize divides every score by the set's maximum so the best node scores
// exactly 1.0. A zero-max set passes through unchanged to avoid a divide by
// zero, which also preserves the all-zero semantics.
func (s Scores) Normalize() Scores {
	maxScore := 0.0
	for _, v := range s {
		if v > maxScore {
			maxScore = v
		}
	}
	if maxScore == 0 {
		return s
	}

	out := make(Scores, len(s))
	for id, v := range s {
		out[id] = v / maxScore
	}
	return out
}

// Max returns the highest raw score in the set, 0 for an empty set.
func (s Scores) Max() float64 {
	maxScore := 0.0
	for _, v := range s {
		if v > maxScore {
			maxScore = v
		}
	}
	return maxScore
}

// Tokenize lowercases the input and splits it on non-alphanumeric boundaries.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TokenSet returns the deduplicated token set of the input.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}

// nodeText flattens a node into the searchable text the text mechanisms index:
// name, type, and the JSON-serialized properties. json.Marshal sorts map keys,
// so the serialization is deterministic.
func nodeText(n common.Node) string {
	var b strings.Builder
	b.WriteString(n.Name)
	b.WriteByte(' ')
	b.WriteString(n.Type)
	if len(n.Properties) > 0 {
		if raw, err := json.Marshal(n.Properties); err == nil {
			b.WriteByte(' ')
			b.Write(raw)
		}
	}
	return b.String()
}
