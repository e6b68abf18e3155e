package server

import (
	"github.com/compass-ai/compass/internal/server/middleware"
	"github.com/compass-ai/compass/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Dimension vocabulary, independent of any graph
	apiRoutes.GET("/dimensions", routes.DimensionCatalogHandler)

	// Query routes
	apiRoutes.POST("/graphs/:id/intent-search", routes.IntentSearchHandler, middleware.RequirePermission("query.run"))
	apiRoutes.POST("/graphs/:id/search", routes.SearchHandler, middleware.RequirePermission("query.run"))
	apiRoutes.POST("/graphs/:id/classify", routes.ClassifyIntentHandler, middleware.RequirePermission("query.run"))

	// Goal routes
	apiRoutes.POST("/graphs/:id/want-to", routes.WantToHandler, middleware.RequirePermission("query.run"))
	apiRoutes.POST("/graphs/:id/can-it", routes.CanItHandler, middleware.RequirePermission("query.run"))
	apiRoutes.POST("/graphs/:id/compose", routes.ComposeHandler, middleware.RequirePermission("query.run"))

	// Graph analysis routes
	apiRoutes.GET("/graphs/:id/similar/:node", routes.SimilarToHandler, middleware.RequirePermission("graph.view"))
	apiRoutes.GET("/graphs/:id/impact/:node", routes.ImpactHandler, middleware.RequirePermission("graph.view"))
	apiRoutes.GET("/graphs/:id/path", routes.TracePathHandler, middleware.RequirePermission("graph.view"))
	apiRoutes.GET("/graphs/:id/explore/:node", routes.ExploreHandler, middleware.RequirePermission("graph.view"))

	// Dimension routes
	apiRoutes.GET("/graphs/:id/dimensions", routes.GraphDimensionCatalogHandler, middleware.RequirePermission("graph.view"))
	apiRoutes.POST("/graphs/:id/dimension-filter", routes.DimensionFilterHandler, middleware.RequirePermission("query.run"))

	// Cache management routes
	apiRoutes.POST("/graphs/:id/invalidate", routes.InvalidateGraphHandler, middleware.RequirePermission("graph.invalidate"))
}
