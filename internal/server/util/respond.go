package util

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/compass-ai/compass/pkg/common"
)

// RespondError maps engine and storage errors onto HTTP status codes:
// validation errors carry the offending field in a 400, typed not-found
// becomes 404, everything else is a 500 without leaking internals.
func RespondError(c echo.Context, err error) error {
	var vErr *common.ValidationError
	if errors.As(err, &vErr) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": vErr.Reason,
			"field": vErr.Field,
		})
	}

	var nf *common.NotFoundError
	if errors.As(err, &nf) {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": nf.Error(),
		})
	}

	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": "Internal server error",
	})
}
