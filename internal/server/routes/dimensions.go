package routes

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/compass-ai/compass/internal/server/middleware"
	sutil "github.com/compass-ai/compass/internal/server/util"
	"github.com/compass-ai/compass/pkg/ai"
	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/engine"
	"github.com/compass-ai/compass/pkg/retrieval"
)

// DimensionCatalogHandler serves the static dimension catalog. It needs no
// graph, so clients can discover the filter vocabulary before loading one.
func DimensionCatalogHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, engine.Catalog())
}

// GraphDimensionCatalogHandler is the per-graph variant with coverage counts.
func GraphDimensionCatalogHandler(c echo.Context) error {
	type catalogParams struct {
		GraphID string `param:"id" validate:"required"`
	}

	params := new(catalogParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	eng, err := app.Engines.Engine(ctx, params.GraphID)
	if err != nil {
		return sutil.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, eng.DimensionCatalog())
}

func DimensionFilterHandler(c echo.Context) error {
	type filterParams struct {
		GraphID string          `param:"id" validate:"required"`
		Filters json.RawMessage `json:"filters" validate:"required"`
		Limit   int             `json:"limit" validate:"gte=0"`
	}

	params := new(filterParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	filters := make(map[string]retrieval.DimensionRange)
	if err := ai.UnmarshalFlexible(string(params.Filters), &filters); err != nil {
		return sutil.RespondError(c, common.NewValidationError("filters", "malformed dimension filters: %v", err))
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	eng, err := app.Engines.Engine(ctx, params.GraphID)
	if err != nil {
		return sutil.RespondError(c, err)
	}

	nodes, err := eng.DimensionFilter(ctx, filters, params.Limit)
	if err != nil {
		return sutil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"results": nodes})
}
