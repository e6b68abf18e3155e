package retrieval

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/graph"
)

func fixtureSnapshot() *graph.Snapshot {
	nodes := []common.Node{
		{ID: "cache", Type: "tool", Name: "Query Cache", Properties: map[string]any{
			"description": "caches expensive query results to reduce cost",
			"cost":        0.2,
			"maturity":    0.9,
		}},
		{ID: "batcher", Type: "pattern", Name: "Request Batcher", Properties: map[string]any{
			"description": "batches requests to reduce cost and latency",
			"cost":        0.4,
		}},
		{ID: "profiler", Type: "tool", Name: "Latency Profiler", Properties: map[string]any{
			"description": "profiles request latency for debugging",
			"maturity":    0.5,
		}},
		{ID: "goal", Type: "goal", Name: "Reduce Spend"},
	}
	edges := []common.Edge{
		{SourceID: "cache", TargetID: "goal", EdgeType: "enables"},
		{SourceID: "batcher", TargetID: "goal", EdgeType: "enables"},
		{SourceID: "profiler", TargetID: "batcher", EdgeType: "feeds_into"},
	}
	return graph.NewSnapshot("fixture", nodes, edges)
}

func TestNormalize_MaxIsExactlyOne(t *testing.T) {
	s := Scores{"a": 2.0, "b": 1.0, "c": 0.5}
	n := s.Normalize()

	if n["a"] != 1.0 {
		t.Fatalf("expected max normalized score 1.0, got %f", n["a"])
	}
	for id, v := range n {
		if v < 0 || v > 1 {
			t.Fatalf("normalized score out of range for %s: %f", id, v)
		}
	}
}

func TestNormalize_ZeroMaxPassesThrough(t *testing.T) {
	s := Scores{"a": 0, "b": 0}
	n := s.Normalize()
	if n["a"] != 0 || n["b"] != 0 {
		t.Fatalf("expected zero-max set unchanged, got %v", n)
	}
}

func TestTokenize_SplitsOnNonAlphanumeric(t *testing.T) {
	got := Tokenize("Reduce API-costs, fast!")
	want := []string{"reduce", "api", "costs", "fast"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestSubstring_MatchesNameTypeProperties(t *testing.T) {
	s := fixtureSnapshot()

	scores, err := Substring(context.Background(), s, "cache")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "cache" appears in the name and in the description property.
	if scores["cache"] != 2.0 {
		t.Fatalf("expected raw score 2.0 for cache, got %f", scores["cache"])
	}
	if _, ok := scores["goal"]; ok {
		t.Fatal("goal should not match substring cache")
	}
}

func TestTokenMatch_FractionOfQueryTokens(t *testing.T) {
	s := fixtureSnapshot()

	scores, err := TokenMatch(context.Background(), s, "reduce latency")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// batcher's description contains both "reduce" and "latency".
	if scores["batcher"] != 1.0 {
		t.Fatalf("expected full token match for batcher, got %f", scores["batcher"])
	}
	// profiler contains only "latency".
	if scores["profiler"] != 0.5 {
		t.Fatalf("expected half token match for profiler, got %f", scores["profiler"])
	}
}

func TestBM25_IntentTermMultiplierChangesRanking(t *testing.T) {
	s := fixtureSnapshot()
	idx := NewBM25(s)

	plain, err := idx.Score(context.Background(), "reduce cost", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boosted, err := idx.Score(context.Background(), "reduce cost", map[string]struct{}{"reduce": {}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for id := range plain {
		if boosted[id] < plain[id] {
			t.Fatalf("intent multiplier must never lower a score: %s %f -> %f", id, plain[id], boosted[id])
		}
	}
	// The goal node only matches on "reduce"; the multiplier must raise its
	// score relative to its own unboosted value by roughly the multiplier.
	if boosted["goal"] <= plain["goal"] {
		t.Fatalf("expected goal score raised by intent term, got %f -> %f", plain["goal"], boosted["goal"])
	}
}

func TestBM25_Deterministic(t *testing.T) {
	s := fixtureSnapshot()
	idx := NewBM25(s)

	a, _ := idx.Score(context.Background(), "reduce cost", nil)
	b, _ := idx.Score(context.Background(), "reduce cost", nil)
	if len(a) != len(b) {
		t.Fatalf("score set sizes differ: %d vs %d", len(a), len(b))
	}
	for id, v := range a {
		if b[id] != v {
			t.Fatalf("score for %s differs across runs: %f vs %f", id, v, b[id])
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := CosineSimilarity([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("identical vectors should score 1.0, got %f", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Fatalf("orthogonal vectors should score 0, got %f", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{1}); got != 0 {
		t.Fatalf("mismatched lengths should score 0, got %f", got)
	}
}

func TestVector_DegradesWithoutEmbeddings(t *testing.T) {
	s := fixtureSnapshot()

	scores, err := Vector(context.Background(), s, []float32{1, 2, 3})
	if err != nil {
		t.Fatalf("expected graceful degradation, got %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected empty score set without embeddings, got %v", scores)
	}
}

func TestVector_ScoresEmbeddedNodes(t *testing.T) {
	nodes := []common.Node{
		{ID: "a", Type: "tool", Name: "A", Embedding: []float32{1, 0}},
		{ID: "b", Type: "tool", Name: "B", Embedding: []float32{0, 1}},
		{ID: "c", Type: "tool", Name: "C"},
	}
	s := graph.NewSnapshot("emb", nodes, nil)

	scores, err := Vector(context.Background(), s, []float32{1, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(scores["a"]-1.0) > 1e-9 {
		t.Fatalf("expected a to score 1.0, got %f", scores["a"])
	}
	if _, ok := scores["c"]; ok {
		t.Fatal("node without embedding must not be scored")
	}
}

func TestGraphBoost_DirectionWeightsAndNormalization(t *testing.T) {
	s := fixtureSnapshot()

	scores, edges, err := GraphBoost(context.Background(), s, Scores{"goal": 1.0}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// goal has two incoming enables edges; both neighbors get the same
	// incoming boost, so both normalize to 1.0.
	if scores["cache"] != 1.0 || scores["batcher"] != 1.0 {
		t.Fatalf("expected both incoming neighbors normalized to 1.0, got %v", scores)
	}
	if len(edges) != 2 {
		t.Fatalf("expected 2 contributing edges, got %d", len(edges))
	}
}

func TestGraphBoost_BoostTypeRestriction(t *testing.T) {
	s := fixtureSnapshot()

	scores, _, err := GraphBoost(context.Background(), s, Scores{"batcher": 1.0}, []string{"enables"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := scores["profiler"]; ok {
		t.Fatal("feeds_into edge must be excluded by boost type restriction")
	}
	if scores["goal"] != 1.0 {
		t.Fatalf("expected enables target boosted, got %v", scores)
	}
}

func TestJaccard_SharedNeighbors(t *testing.T) {
	nodes := []common.Node{
		{ID: "x", Type: "tool", Name: "X"},
		{ID: "y", Type: "tool", Name: "Y"},
		{ID: "n1", Type: "c", Name: "N1"},
		{ID: "n2", Type: "c", Name: "N2"},
		{ID: "n3", Type: "c", Name: "N3"},
		{ID: "n4", Type: "c", Name: "N4"},
	}
	edges := []common.Edge{
		{SourceID: "x", TargetID: "n1", EdgeType: "uses"},
		{SourceID: "x", TargetID: "n2", EdgeType: "uses"},
		{SourceID: "x", TargetID: "n3", EdgeType: "uses"},
		{SourceID: "y", TargetID: "n1", EdgeType: "uses"},
		{SourceID: "y", TargetID: "n2", EdgeType: "uses"},
		{SourceID: "y", TargetID: "n3", EdgeType: "uses"},
		{SourceID: "y", TargetID: "n4", EdgeType: "uses"},
	}
	s := graph.NewSnapshot("j", nodes, edges)

	// 3 shared of 4 distinct neighbors.
	if got := Jaccard(s, "x", "y"); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("expected jaccard 0.75, got %f", got)
	}
}

func TestSimilarity_CombinedWeights(t *testing.T) {
	nodes := []common.Node{
		{ID: "x", Type: "tool", Name: "Stream Processor"},
		{ID: "y", Type: "tool", Name: "Batch Processor"},
		{ID: "z", Type: "goal", Name: "Unrelated"},
		{ID: "n1", Type: "c", Name: "N1"},
	}
	edges := []common.Edge{
		{SourceID: "x", TargetID: "n1", EdgeType: "uses"},
		{SourceID: "y", TargetID: "n1", EdgeType: "uses"},
	}
	s := graph.NewSnapshot("sim", nodes, edges)

	nx, _ := s.GetNode("x")
	ny, _ := s.GetNode("y")
	nz, _ := s.GetNode("z")

	simXY := Similarity(s, nx, ny)
	simXZ := Similarity(s, nx, nz)

	// x and y share their only neighbor and their type.
	want := 0.70*1.0 + 0.20*1.0 + 0.10*simXY.NameOverlap
	if math.Abs(simXY.Combined-want) > 1e-9 {
		t.Fatalf("expected combined %f, got %f", want, simXY.Combined)
	}
	if simXZ.Combined >= simXY.Combined {
		t.Fatalf("node with no shared neighbors must rank below: %f vs %f", simXZ.Combined, simXY.Combined)
	}
}

func TestDimensionFilter_RangeAndValidation(t *testing.T) {
	s := fixtureSnapshot()
	min := 0.3

	nodes, err := DimensionFilter(context.Background(), s, map[string]DimensionRange{
		"maturity": {Min: &min},
	}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes with maturity >= 0.3, got %d", len(nodes))
	}

	// min > max must be rejected before any scan.
	bad := 0.9
	low := 0.1
	_, err = DimensionFilter(context.Background(), s, map[string]DimensionRange{
		"maturity": {Min: &bad, Max: &low},
	}, 0)
	var ve *common.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestMechanisms_ObserveCancellation(t *testing.T) {
	s := fixtureSnapshot()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Substring(ctx, s, "cache"); err == nil {
		t.Fatal("substring must observe cancellation")
	}
	if _, err := TokenMatch(ctx, s, "cache"); err == nil {
		t.Fatal("token match must observe cancellation")
	}
	if _, err := NewBM25(s).Score(ctx, "cache", nil); err == nil {
		t.Fatal("bm25 must observe cancellation")
	}
	if _, _, err := GraphBoost(ctx, s, Scores{"goal": 1}, nil); err == nil {
		t.Fatal("graph boost must observe cancellation")
	}
}
