package graph

import (
	"iter"

	"github.com/compass-ai/compass/pkg/common"
)

// Snapshot is a read-only view over one knowledge graph: nodes, typed directed
// edges, and the adjacency indexes the retrieval mechanisms traverse. It is
// immutable after construction and therefore safe for unbounded concurrent
// readers. The underlying data is owned by the external storage collaborator;
// nothing in this package mutates it.
type Snapshot struct {
	id    string
	nodes map[string]common.Node
	// Insertion-ordered node ids, kept for deterministic iteration.
	order []string

	outgoing map[string][]common.Edge
	incoming map[string][]common.Edge

	edgeCount    int
	danglingSkip int
	hasEmbedding bool
}

// NewSnapshot builds a Snapshot from raw nodes and edges. Duplicate
// (source, target, type) triples collapse to a single edge so that boosting
// never double-counts. Edges referencing a missing node are skipped and
// counted as integrity anomalies; they never surface as errors.
func NewSnapshot(id string, nodes []common.Node, edges []common.Edge) *Snapshot {
	s := &Snapshot{
		id:       id,
		nodes:    make(map[string]common.Node, len(nodes)),
		order:    make([]string, 0, len(nodes)),
		outgoing: make(map[string][]common.Edge),
		incoming: make(map[string][]common.Edge),
	}

	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		if _, exists := s.nodes[n.ID]; exists {
			continue
		}
		s.nodes[n.ID] = n
		s.order = append(s.order, n.ID)
		if len(n.Embedding) > 0 {
			s.hasEmbedding = true
		}
	}

	seen := make(map[[3]string]struct{}, len(edges))
	for _, e := range edges {
		if _, ok := s.nodes[e.SourceID]; !ok {
			s.danglingSkip++
			continue
		}
		if _, ok := s.nodes[e.TargetID]; !ok {
			s.danglingSkip++
			continue
		}

		key := [3]string{e.SourceID, e.TargetID, e.EdgeType}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if e.Weight == 0 {
			e.Weight = 1.0
		}
		s.outgoing[e.SourceID] = append(s.outgoing[e.SourceID], e)
		s.incoming[e.TargetID] = append(s.incoming[e.TargetID], e)
		s.edgeCount++
	}

	return s
}

// ID returns the opaque graph reference this snapshot was loaded for.
func (s *Snapshot) ID() string {
	return s.id
}

// GetNode resolves a node by id. A missing id yields a NotFoundError value.
func (s *Snapshot) GetNode(id string) (common.Node, error) {
	n, ok := s.nodes[id]
	if !ok {
		return common.Node{}, common.NewNodeNotFound(id)
	}
	return n, nil
}

// HasNode reports whether the id resolves without allocating an error.
func (s *Snapshot) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// Neighbors returns the edges touching a node in the given direction,
// optionally restricted to a set of edge types. The result slice is freshly
// allocated; callers may reorder it.
func (s *Snapshot) Neighbors(id string, dir common.Direction, edgeTypes ...string) []common.Edge {
	var out []common.Edge
	match := func(e common.Edge) bool {
		if len(edgeTypes) == 0 {
			return true
		}
		for _, t := range edgeTypes {
			if e.EdgeType == t {
				return true
			}
		}
		return false
	}

	if dir == common.DirectionOutgoing || dir == common.DirectionBoth {
		for _, e := range s.outgoing[id] {
			if match(e) {
				out = append(out, e)
			}
		}
	}
	if dir == common.DirectionIncoming || dir == common.DirectionBoth {
		for _, e := range s.incoming[id] {
			if match(e) {
				out = append(out, e)
			}
		}
	}
	return out
}

// NeighborIDs returns the deduplicated ids of nodes adjacent to id in the
// given direction. Used by the structural similarity mechanism.
func (s *Snapshot) NeighborIDs(id string, dir common.Direction) map[string]struct{} {
	out := make(map[string]struct{})
	if dir == common.DirectionOutgoing || dir == common.DirectionBoth {
		for _, e := range s.outgoing[id] {
			out[e.TargetID] = struct{}{}
		}
	}
	if dir == common.DirectionIncoming || dir == common.DirectionBoth {
		for _, e := range s.incoming[id] {
			out[e.SourceID] = struct{}{}
		}
	}
	return out
}

// Degree returns the number of edges touching a node in both directions.
func (s *Snapshot) Degree(id string) int {
	return len(s.outgoing[id]) + len(s.incoming[id])
}

// All iterates every node in insertion order. Deterministic iteration keeps
// score sets reproducible across runs.
func (s *Snapshot) All() iter.Seq[common.Node] {
	return func(yield func(common.Node) bool) {
		for _, id := range s.order {
			if !yield(s.nodes[id]) {
				return
			}
		}
	}
}

// ScanNodes returns all nodes accepted by the filter, in insertion order.
func (s *Snapshot) ScanNodes(filter func(common.Node) bool) []common.Node {
	var out []common.Node
	for n := range s.All() {
		if filter == nil || filter(n) {
			out = append(out, n)
		}
	}
	return out
}

// NodeCount returns the number of resolvable nodes.
func (s *Snapshot) NodeCount() int {
	return len(s.order)
}

// EdgeCount returns the number of deduplicated, resolvable edges.
func (s *Snapshot) EdgeCount() int {
	return s.edgeCount
}

// IntegrityWarnings returns the count of dangling edges skipped during
// construction. Surfaced as diagnostics metadata alongside query results.
func (s *Snapshot) IntegrityWarnings() int {
	return s.danglingSkip
}

// HasEmbeddings reports whether any node in the snapshot carries an embedding
// vector. When false the vector mechanism contributes nothing and the score
// combiner renormalizes the remaining weights.
func (s *Snapshot) HasEmbeddings() bool {
	return s.hasEmbedding
}
