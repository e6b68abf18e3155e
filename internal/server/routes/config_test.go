package routes

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/engine"
	"github.com/compass-ai/compass/pkg/fuse"
)

func TestToConfigNilPayloadUsesDefaults(t *testing.T) {
	var p *configPayload

	cfg, err := p.toConfig()
	if err != nil {
		t.Fatalf("toConfig() error = %v", err)
	}
	if cfg.Limit != engine.DefaultConfig().Limit {
		t.Fatalf("limit = %d, want default %d", cfg.Limit, engine.DefaultConfig().Limit)
	}
	if cfg.Weights != fuse.DefaultWeights() {
		t.Fatalf("weights = %+v, want defaults", cfg.Weights)
	}
}

func TestToConfigOverrides(t *testing.T) {
	p := &configPayload{
		Weights:     &fuse.Weights{Embedding: 0, Text: 1, Graph: 0, Intent: 0},
		Limit:       25,
		ExpandDepth: 2,
		BoostTypes:  []string{"requires"},
	}

	cfg, err := p.toConfig()
	if err != nil {
		t.Fatalf("toConfig() error = %v", err)
	}
	if cfg.Limit != 25 || cfg.ExpandDepth != 2 {
		t.Fatalf("limit/depth = %d/%d, want 25/2", cfg.Limit, cfg.ExpandDepth)
	}
	if cfg.Weights.Text != 1 {
		t.Fatalf("text weight = %v, want 1", cfg.Weights.Text)
	}
	if len(cfg.BoostTypes) != 1 || cfg.BoostTypes[0] != "requires" {
		t.Fatalf("boost types = %v, want [requires]", cfg.BoostTypes)
	}
}

func TestToConfigSloppyDimensions(t *testing.T) {
	p := &configPayload{
		Dimensions: json.RawMessage(`{complexity: {min: 0.1, max: 0.5}}`),
	}

	cfg, err := p.toConfig()
	if err != nil {
		t.Fatalf("toConfig() error = %v", err)
	}
	r, ok := cfg.Dimensions["complexity"]
	if !ok {
		t.Fatalf("complexity range missing from %+v", cfg.Dimensions)
	}
	if r.Min == nil || r.Max == nil || *r.Min != 0.1 || *r.Max != 0.5 {
		t.Fatalf("range = %+v, want min 0.1 max 0.5", r)
	}
}

func TestToConfigUnrecoverableDimensions(t *testing.T) {
	p := &configPayload{
		Dimensions: json.RawMessage(`totally not json`),
	}

	_, err := p.toConfig()
	var vErr *common.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("toConfig() error = %v, want ValidationError", err)
	}
	if vErr.Field != "dimensions" {
		t.Fatalf("field = %q, want %q", vErr.Field, "dimensions")
	}
}
