package retrieval

import (
	"context"
	"math"

	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/graph"
)

const exactTolerance = 1e-9

// DimensionRange is a threshold predicate over one reserved dimension key.
// Exact takes precedence over Min/Max when set.
type DimensionRange struct {
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Exact *float64 `json:"exact,omitempty"`
}

// Validate rejects malformed ranges before any graph access: bounds outside
// [0,1] and min > max.
func (r DimensionRange) Validate(name string) error {
	check := func(v *float64) bool {
		return v != nil && (*v < 0 || *v > 1)
	}
	if check(r.Min) || check(r.Max) || check(r.Exact) {
		return common.NewValidationError(name, "dimension bounds must be within [0,1]")
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return common.NewValidationError(name, "min %v exceeds max %v", *r.Min, *r.Max)
	}
	if r.Min == nil && r.Max == nil && r.Exact == nil {
		return common.NewValidationError(name, "empty dimension range")
	}
	return nil
}

// Matches evaluates the predicate against a node. Nodes lacking the dimension
// never match; the filter is exclusionary by design.
func (r DimensionRange) Matches(n common.Node, name string) bool {
	v, ok := n.Dimension(name)
	if !ok {
		return false
	}

	if r.Exact != nil {
		return math.Abs(v-*r.Exact) <= exactTolerance
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// ValidateDimensionFilters checks every range in a filter set, returning the
// first offending field.
func ValidateDimensionFilters(filters map[string]DimensionRange) error {
	for name, r := range filters {
		if err := r.Validate(name); err != nil {
			return err
		}
	}
	return nil
}

// DimensionFilter scans the snapshot for nodes whose dimensions satisfy every
// range in the filter set. It is a pre-filter, not a scorer: non-matching
// nodes are excluded outright. A limit <= 0 returns all matches.
func DimensionFilter(
	ctx context.Context,
	s *graph.Snapshot,
	filters map[string]DimensionRange,
	limit int,
) ([]common.Node, error) {
	if err := ValidateDimensionFilters(filters); err != nil {
		return nil, err
	}

	var out []common.Node
	for n := range s.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matchesAll := true
		for name, r := range filters {
			if !r.Matches(n, name) {
				matchesAll = false
				break
			}
		}
		if !matchesAll {
			continue
		}

		out = append(out, n)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
