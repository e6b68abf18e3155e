package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/compass-ai/compass/internal/server/middleware"
	sutil "github.com/compass-ai/compass/internal/server/util"
)

func WantToHandler(c echo.Context) error {
	type wantToParams struct {
		GraphID string         `param:"id" validate:"required"`
		Goal    string         `json:"goal" validate:"required"`
		Config  *configPayload `json:"config"`
	}

	params := new(wantToParams)
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

	res, err := eng.WantTo(ctx, params.Goal, cfg)
	if err != nil {
		return sutil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"results": res})
}

func CanItHandler(c echo.Context) error {
	type canItParams struct {
		GraphID    string `param:"id" validate:"required"`
		Capability string `json:"capability" validate:"required"`
	}

	params := new(canItParams)
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

	res, err := eng.CanIt(ctx, params.Capability)
	if err != nil {
		return sutil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func ComposeHandler(c echo.Context) error {
	type composeParams struct {
		GraphID  string `param:"id" validate:"required"`
		Goal     string `json:"goal" validate:"required"`
		MaxTools int    `json:"max_tools" validate:"gte=0"`
	}

	params := new(composeParams)
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

	plan, err := eng.ComposeFor(ctx, params.Goal, params.MaxTools)
	if err != nil {
		return sutil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, plan)
}
