package routes

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/compass-ai/compass/internal/queue"
	"github.com/compass-ai/compass/internal/server/middleware"
	"github.com/compass-ai/compass/pkg/logger"
)

// InvalidateGraphHandler publishes an invalidation for the given graph. The
// eviction itself happens in the queue consumer, so invalidations issued over
// HTTP and by the storage collaborator take the same path.
func InvalidateGraphHandler(c echo.Context) error {
	type invalidateParams struct {
		GraphID string `param:"id" validate:"required"`
		Reason  string `json:"reason"`
	}

	params := new(invalidateParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App

	msg, err := json.Marshal(queue.InvalidateMsg{
		GraphID: params.GraphID,
		Reason:  params.Reason,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	if err := queue.PublishFIFO(app.Queue, queue.InvalidateQueue, msg); err != nil {
		logger.Error("[Routes] Failed to publish invalidation", "graph_id", params.GraphID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
}
