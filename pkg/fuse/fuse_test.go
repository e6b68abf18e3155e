package fuse

import (
	"math"
	"testing"

	"github.com/compass-ai/compass/pkg/retrieval"
)

func TestCombine_TextIsMaxNotSum(t *testing.T) {
	in := Inputs{
		BM25:  retrieval.Scores{"a": 1.0},
		Token: retrieval.Scores{"a": 1.0},
	}
	ranked := Combine(in, Weights{Text: 1.0}, 0)

	if len(ranked) != 1 {
		t.Fatalf("expected 1 result, got %d", len(ranked))
	}
	if ranked[0].Components.Text != 1.0 {
		t.Fatalf("text component must be max of the two signals, got %f", ranked[0].Components.Text)
	}
	if ranked[0].Score != 1.0 {
		t.Fatalf("expected score 1.0, got %f", ranked[0].Score)
	}
}

func TestCombine_WeightReduction(t *testing.T) {
	in := Inputs{
		Embedding: retrieval.Scores{"a": 0.9, "b": 0.3},
		BM25:      retrieval.Scores{"a": 0.2, "b": 0.8},
		Graph:     retrieval.Scores{"b": 0.5},
	}

	four := Combine(in, Weights{Embedding: 0.35, Text: 0.40, Graph: 0.15, Intent: 0}, 0)
	three := Combine(in, Weights{Embedding: 0.35 / 0.9, Text: 0.40 / 0.9, Graph: 0.15 / 0.9}, 0)

	if len(four) != len(three) {
		t.Fatalf("result sizes differ: %d vs %d", len(four), len(three))
	}
	for i := range four {
		if four[i].NodeID != three[i].NodeID {
			t.Fatalf("ranking differs at %d: %s vs %s", i, four[i].NodeID, three[i].NodeID)
		}
		if math.Abs(four[i].Score-three[i].Score) > 1e-9 {
			t.Fatalf("scores differ at %d: %f vs %f", i, four[i].Score, three[i].Score)
		}
	}
}

func TestCombine_MissingEmbeddingRenormalizes(t *testing.T) {
	in := Inputs{
		BM25: retrieval.Scores{"a": 1.0},
	}
	ranked := Combine(in, DefaultWeights(), 0)

	if len(ranked) != 1 {
		t.Fatalf("expected 1 result, got %d", len(ranked))
	}
	// With the embedding signal absent, a full text match should still be
	// able to reach text/(text+graph+intent) of the total, not be dragged
	// down by the dead embedding weight.
	want := 0.40 / (0.40 + 0.15 + 0.10)
	if math.Abs(ranked[0].Score-want) > 1e-9 {
		t.Fatalf("expected renormalized score %f, got %f", want, ranked[0].Score)
	}
}

func TestCombine_TieBreakByNodeID(t *testing.T) {
	in := Inputs{
		BM25: retrieval.Scores{"zeta": 1.0, "alpha": 1.0, "mid": 1.0},
	}

	for i := 0; i < 10; i++ {
		ranked := Combine(in, Weights{Text: 1.0}, 0)
		if ranked[0].NodeID != "alpha" || ranked[1].NodeID != "mid" || ranked[2].NodeID != "zeta" {
			t.Fatalf("tie-break order not deterministic: %+v", ranked)
		}
	}
}

func TestCombine_Limit(t *testing.T) {
	in := Inputs{
		BM25: retrieval.Scores{"a": 1.0, "b": 0.5, "c": 0.25},
	}
	ranked := Combine(in, Weights{Text: 1.0}, 2)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ranked))
	}
	if ranked[0].NodeID != "a" {
		t.Fatalf("expected a first, got %s", ranked[0].NodeID)
	}
}

func TestCombine_ComponentScoresRetained(t *testing.T) {
	in := Inputs{
		Embedding: retrieval.Scores{"a": 0.8},
		BM25:      retrieval.Scores{"a": 0.4},
		Graph:     retrieval.Scores{"a": 0.2},
		Intent:    retrieval.Scores{"a": 0.1},
	}
	ranked := Combine(in, DefaultWeights(), 0)

	c := ranked[0].Components
	// Every set contains a single node, so each normalizes to 1.0.
	if c.Embedding != 1.0 || c.Text != 1.0 || c.Graph != 1.0 || c.Intent != 1.0 {
		t.Fatalf("expected all components normalized to 1.0, got %+v", c)
	}
}

func TestWeights_Validate(t *testing.T) {
	if err := (Weights{Embedding: -1}).Validate(); err == nil {
		t.Fatal("negative weight must be rejected")
	}
	if err := (Weights{}).Validate(); err == nil {
		t.Fatal("all-zero weights must be rejected")
	}
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights must validate, got %v", err)
	}
}
