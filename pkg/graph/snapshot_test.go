package graph

import (
	"errors"
	"testing"

	"github.com/compass-ai/compass/pkg/common"
)

func testNodes() []common.Node {
	return []common.Node{
		{ID: "a", Type: "tool", Name: "Alpha"},
		{ID: "b", Type: "pattern", Name: "Beta"},
		{ID: "c", Type: "goal", Name: "Gamma"},
	}
}

func TestNewSnapshot_DedupesEdgeTriples(t *testing.T) {
	edges := []common.Edge{
		{SourceID: "a", TargetID: "b", EdgeType: "enables"},
		{SourceID: "a", TargetID: "b", EdgeType: "enables"},
		{SourceID: "a", TargetID: "b", EdgeType: "requires"},
	}
	s := NewSnapshot("g1", testNodes(), edges)

	if s.EdgeCount() != 2 {
		t.Fatalf("expected 2 deduplicated edges, got %d", s.EdgeCount())
	}
	if got := len(s.Neighbors("a", common.DirectionOutgoing)); got != 2 {
		t.Fatalf("expected 2 outgoing edges for a, got %d", got)
	}
}

func TestNewSnapshot_CountsDanglingEdges(t *testing.T) {
	edges := []common.Edge{
		{SourceID: "a", TargetID: "missing", EdgeType: "enables"},
		{SourceID: "ghost", TargetID: "b", EdgeType: "requires"},
		{SourceID: "a", TargetID: "b", EdgeType: "enables"},
	}
	s := NewSnapshot("g1", testNodes(), edges)

	if s.IntegrityWarnings() != 2 {
		t.Fatalf("expected 2 integrity warnings, got %d", s.IntegrityWarnings())
	}
	if s.EdgeCount() != 1 {
		t.Fatalf("expected 1 valid edge, got %d", s.EdgeCount())
	}
}

func TestGetNode_NotFoundIsTyped(t *testing.T) {
	s := NewSnapshot("g1", testNodes(), nil)

	_, err := s.GetNode("nope")
	var nf *common.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.ID != "nope" {
		t.Fatalf("expected id nope, got %s", nf.ID)
	}
}

func TestNeighbors_EdgeTypeFilterAndDirection(t *testing.T) {
	edges := []common.Edge{
		{SourceID: "a", TargetID: "b", EdgeType: "enables"},
		{SourceID: "a", TargetID: "c", EdgeType: "requires"},
		{SourceID: "b", TargetID: "a", EdgeType: "feeds_into"},
	}
	s := NewSnapshot("g1", testNodes(), edges)

	out := s.Neighbors("a", common.DirectionOutgoing, "enables")
	if len(out) != 1 || out[0].TargetID != "b" {
		t.Fatalf("expected one enables edge to b, got %v", out)
	}

	in := s.Neighbors("a", common.DirectionIncoming)
	if len(in) != 1 || in[0].SourceID != "b" {
		t.Fatalf("expected one incoming edge from b, got %v", in)
	}

	both := s.Neighbors("a", common.DirectionBoth)
	if len(both) != 3 {
		t.Fatalf("expected 3 edges in both directions, got %d", len(both))
	}
}

func TestAll_DeterministicOrder(t *testing.T) {
	s := NewSnapshot("g1", testNodes(), nil)

	var first, second []string
	for n := range s.All() {
		first = append(first, n.ID)
	}
	for n := range s.All() {
		second = append(second, n.ID)
	}

	if len(first) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("iteration order differs at %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestDegree(t *testing.T) {
	edges := []common.Edge{
		{SourceID: "a", TargetID: "b", EdgeType: "enables"},
		{SourceID: "c", TargetID: "a", EdgeType: "requires"},
	}
	s := NewSnapshot("g1", testNodes(), edges)

	if s.Degree("a") != 2 {
		t.Fatalf("expected degree 2 for a, got %d", s.Degree("a"))
	}
	if s.Degree("b") != 1 {
		t.Fatalf("expected degree 1 for b, got %d", s.Degree("b"))
	}
}
