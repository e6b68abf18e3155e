package engine

import (
	"strings"

	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/fuse"
	"github.com/compass-ai/compass/pkg/retrieval"
)

const (
	maxResultLimit   = 500
	maxExpandDepth   = 5
	maxTraverseDepth = 25
)

// Config is the per-query retrieval configuration. It is an explicit
// immutable value passed through every call path; there is no process-wide
// mutable default. Zero fields fall back to DefaultConfig values during
// normalization, so callers can set only what they tune.
type Config struct {
	Weights     fuse.Weights                        `json:"weights"`
	Limit       int                                 `json:"limit"`
	ExpandDepth int                                 `json:"expand_depth"`
	BoostTypes  []string                            `json:"boost_types,omitempty"`
	Dimensions  map[string]retrieval.DimensionRange `json:"dimensions,omitempty"`
}

// DefaultConfig returns the tuned defaults: 0.35/0.40/0.15/0.10 weights and
// a result limit of 10.
func DefaultConfig() Config {
	return Config{
		Weights: fuse.DefaultWeights(),
		Limit:   10,
	}
}

// Validate rejects malformed configuration before any graph access: negative
// weights, out-of-range limits and depths, blank boost types, and invalid
// dimension ranges. The returned error names the offending field.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.Limit < 0 || c.Limit > maxResultLimit {
		return common.NewValidationError("limit", "must be within [0,%d]", maxResultLimit)
	}
	if c.ExpandDepth < 0 || c.ExpandDepth > maxExpandDepth {
		return common.NewValidationError("expand_depth", "must be within [0,%d]", maxExpandDepth)
	}
	for _, t := range c.BoostTypes {
		if strings.TrimSpace(t) == "" {
			return common.NewValidationError("boost_types", "edge type must not be blank")
		}
	}
	if err := retrieval.ValidateDimensionFilters(c.Dimensions); err != nil {
		return err
	}
	return nil
}

// withDefaults fills unset fields from DefaultConfig.
func (c Config) withDefaults() Config {
	zero := fuse.Weights{}
	if c.Weights == zero {
		c.Weights = fuse.DefaultWeights()
	}
	if c.Limit == 0 {
		c.Limit = DefaultConfig().Limit
	}
	return c
}

func clampDepth(depth int) int {
	if depth <= 0 {
		return 1
	}
	if depth > maxTraverseDepth {
		return maxTraverseDepth
	}
	return depth
}
