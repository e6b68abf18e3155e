package common

import "encoding/json"

// Node represents a single entry in a knowledge graph snapshot. A node can be
// a tool, pattern, goal, concept or any other open-vocabulary type; Type is a
// plain string on purpose so that new vocabularies are data additions, not
// code additions.
//
// Properties is a free-form key/value map. A reserved subset of keys (the
// dimensions, see the engine's dimension catalog) carries float values
// constrained to [0.0, 1.0]. Embedding is only present when the snapshot was
// built with an embedding model.
type Node struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`
	Embedding  []float32      `json:"embedding,omitempty"`
}

// Dimension returns the named dimension value from the node's properties.
// The second return is false when the key is absent or not numeric.
func (n Node) Dimension(name string) (float64, bool) {
	if n.Properties == nil {
		return 0, false
	}
	switch v := n.Properties[name].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Edge is a directed, typed relation between two nodes. EdgeType is an open
// string vocabulary (requires, enables, feeds_into, has_limitation,
// has_workaround, conflicts_with, similar_to, ...). Weight defaults to 1.0
// when the snapshot carries no explicit strength.
type Edge struct {
	SourceID string  `json:"source_id"`
	TargetID string  `json:"target_id"`
	EdgeType string  `json:"edge_type"`
	Weight   float64 `json:"weight,omitempty"`
}

// Direction selects which edges a traversal follows relative to a node.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
	DirectionBoth     Direction = "both"
)

// ParseDirection maps a wire string to a Direction, defaulting to both.
func ParseDirection(s string) Direction {
	switch s {
	case string(DirectionOutgoing), "forward", "out":
		return DirectionOutgoing
	case string(DirectionIncoming), "backward", "in":
		return DirectionIncoming
	default:
		return DirectionBoth
	}
}
