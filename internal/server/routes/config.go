package routes

import (
	"encoding/json"

	"github.com/compass-ai/compass/pkg/ai"
	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/engine"
	"github.com/compass-ai/compass/pkg/fuse"
	"github.com/compass-ai/compass/pkg/retrieval"
)

// configPayload is the wire form of the per-query retrieval configuration.
// Dimensions arrive as raw JSON and go through the flexible decoder because
// LLM-driven callers routinely double-encode or slightly malform them.
type configPayload struct {
	Weights     *fuse.Weights   `json:"weights"`
	Limit       int             `json:"limit" validate:"gte=0"`
	ExpandDepth int             `json:"expand_depth" validate:"gte=0"`
	BoostTypes  []string        `json:"boost_types"`
	Dimensions  json.RawMessage `json:"dimensions"`
}

func (p *configPayload) toConfig() (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if p == nil {
		return cfg, nil
	}

	if p.Weights != nil {
		cfg.Weights = *p.Weights
	}
	if p.Limit > 0 {
		cfg.Limit = p.Limit
	}
	cfg.ExpandDepth = p.ExpandDepth
	cfg.BoostTypes = p.BoostTypes

	if len(p.Dimensions) > 0 && string(p.Dimensions) != "null" {
		dims := make(map[string]retrieval.DimensionRange)
		if err := ai.UnmarshalFlexible(string(p.Dimensions), &dims); err != nil {
			return cfg, common.NewValidationError("dimensions", "malformed dimension filters: %v", err)
		}
		cfg.Dimensions = dims
	}

	return cfg, nil
}
