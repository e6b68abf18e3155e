package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/compass-ai/compass/internal/server/middleware"
	sutil "github.com/compass-ai/compass/internal/server/util"
)

func IntentSearchHandler(c echo.Context) error {
	type intentSearchParams struct {
		GraphID string         `param:"id" validate:"required"`
		Query   string         `json:"query" validate:"required"`
		Config  *configPayload `json:"config"`
	}

	params := new(intentSearchParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	cfg, err := params.Config.toConfig()
	if err != nil {
		return sutil.RespondError(c, err)
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	eng, err := app.Engines.Engine(ctx, params.GraphID)
	if err != nil {
		return sutil.RespondError(c, err)
	}

	res, err := eng.IntentSearch(ctx, params.Query, cfg)
	if err != nil {
		return sutil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func SearchHandler(c echo.Context) error {
	type searchParams struct {
		GraphID string         `param:"id" validate:"required"`
		Query   string         `json:"query" validate:"required"`
		Config  *configPayload `json:"config"`
	}

	params := new(searchParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	cfg, err := params.Config.toConfig()
	if err != nil {
		return sutil.RespondError(c, err)
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	eng, err := app.Engines.Engine(ctx, params.GraphID)
	if err != nil {
		return sutil.RespondError(c, err)
	}

	res, err := eng.Search(ctx, params.Query, cfg)
	if err != nil {
		return sutil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func ClassifyIntentHandler(c echo.Context) error {
	type classifyParams struct {
		GraphID string `param:"id" validate:"required"`
		Query   string `json:"query" validate:"required"`
	}

	params := new(classifyParams)
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

	return c.JSON(http.StatusOK, map[string]any{
		"intents": eng.ClassifyIntent(params.Query),
	})
}
