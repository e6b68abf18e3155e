package engine

import (
	"context"
	"sync"

	"github.com/compass-ai/compass/pkg/ai"
	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/retrieval"
)

// DimensionInfo describes one reserved dimension key: what the [0,1] value
// means and how many nodes of the bound snapshot carry it.
type DimensionInfo struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Coverage    int    `json:"coverage"`
}

// DimensionCatalogResult is the static dimension metadata plus the JSON
// schema of a filter range, so callers can construct valid filters without
// guessing the wire shape.
type DimensionCatalogResult struct {
	Dimensions  []DimensionInfo `json:"dimensions"`
	RangeSchema any             `json:"range_schema"`
}

// reservedDimensions is the closed catalog of dimension keys. All other
// property keys are opaque data the engine never interprets numerically.
var reservedDimensions = []DimensionInfo{
	{Name: "complexity", Category: "effort", Description: "how involved adopting the node is, 0 trivial to 1 expert-only"},
	{Name: "learning_curve", Category: "effort", Description: "ramp-up steepness for a newcomer"},
	{Name: "cost", Category: "economics", Description: "relative monetary cost of use, 0 free to 1 premium"},
	{Name: "maturity", Category: "quality", Description: "production readiness, 0 experimental to 1 battle-tested"},
	{Name: "reliability", Category: "quality", Description: "observed stability under load"},
	{Name: "performance", Category: "quality", Description: "relative speed or throughput within its peer group"},
	{Name: "popularity", Category: "adoption", Description: "community adoption and ecosystem size"},
	{Name: "risk", Category: "adoption", Description: "chance that adopting the node backfires"},
}

var (
	rangeSchemaOnce sync.Once
	rangeSchema     any
)

// Catalog reports the reserved dimensions and the filter range schema
// without binding to a snapshot. Coverage counts stay zero.
func Catalog() DimensionCatalogResult {
	rangeSchemaOnce.Do(func() {
		rangeSchema = ai.GenerateSchema(retrieval.DimensionRange{})
	})

	out := DimensionCatalogResult{
		Dimensions:  make([]DimensionInfo, len(reservedDimensions)),
		RangeSchema: rangeSchema,
	}
	copy(out.Dimensions, reservedDimensions)
	return out
}

// DimensionCatalog reports every reserved dimension with its per-snapshot
// coverage count and the filter range schema.
func (e *Engine) DimensionCatalog() DimensionCatalogResult {
	rangeSchemaOnce.Do(func() {
		rangeSchema = ai.GenerateSchema(retrieval.DimensionRange{})
	})

	out := DimensionCatalogResult{
		Dimensions:  make([]DimensionInfo, len(reservedDimensions)),
		RangeSchema: rangeSchema,
	}
	copy(out.Dimensions, reservedDimensions)

	for n := range e.snap.All() {
		for i := range out.Dimensions {
			if _, ok := n.Dimension(out.Dimensions[i].Name); ok {
				out.Dimensions[i].Coverage++
			}
		}
	}
	return out
}

// DimensionFilter returns the nodes whose reserved dimensions satisfy every
// given range. Unknown dimension names are rejected before any graph access.
func (e *Engine) DimensionFilter(ctx context.Context, filters map[string]retrieval.DimensionRange, limit int) ([]common.Node, error) {
	if len(filters) == 0 {
		return nil, common.NewValidationError("filters", "at least one dimension range is required")
	}
	if limit < 0 || limit > maxResultLimit {
		return nil, common.NewValidationError("limit", "must be within [0,%d]", maxResultLimit)
	}
	for name := range filters {
		if !isReservedDimension(name) {
			return nil, common.NewValidationError(name, "unknown dimension")
		}
	}
	return retrieval.DimensionFilter(ctx, e.snap, filters, limit)
}

func isReservedDimension(name string) bool {
	for _, d := range reservedDimensions {
		if d.Name == name {
			return true
		}
	}
	return false
}
