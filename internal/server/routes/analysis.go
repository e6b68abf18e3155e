package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/compass-ai/compass/internal/server/middleware"
	sutil "github.com/compass-ai/compass/internal/server/util"
	"github.com/compass-ai/compass/pkg/common"
)

func SimilarToHandler(c echo.Context) error {
	type similarParams struct {
		GraphID string `param:"id" validate:"required"`
		NodeID  string `param:"node" validate:"required"`
		K       int    `query:"k" validate:"gte=0"`
	}

	params := new(similarParams)
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

	res, err := eng.SimilarTo(ctx, params.NodeID, params.K)
	if err != nil {
		return sutil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"results": res})
}

func ImpactHandler(c echo.Context) error {
	type impactParams struct {
		GraphID   string `param:"id" validate:"required"`
		NodeID    string `param:"node" validate:"required"`
		Direction string `query:"direction"`
		MaxDepth  int    `query:"max_depth" validate:"gte=0"`
	}

	params := new(impactParams)
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

	res, err := eng.ImpactAnalysis(ctx, params.NodeID, common.ParseDirection(params.Direction), params.MaxDepth)
	if err != nil {
		return sutil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func TracePathHandler(c echo.Context) error {
	type pathParams struct {
		GraphID  string `param:"id" validate:"required"`
		From     string `query:"from" validate:"required"`
		To       string `query:"to" validate:"required"`
		MaxDepth int    `query:"max_depth" validate:"gte=0"`
	}

	params := new(pathParams)
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

	res, err := eng.TracePath(ctx, params.From, params.To, params.MaxDepth)
	if err != nil {
		return sutil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func ExploreHandler(c echo.Context) error {
	type exploreParams struct {
		GraphID string `param:"id" validate:"required"`
		NodeID  string `param:"node" validate:"required"`
		Depth   int    `query:"depth" validate:"gte=0"`
	}

	params := new(exploreParams)
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

	res, err := eng.ExploreSmart(ctx, params.NodeID, params.Depth)
	if err != nil {
		return sutil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
