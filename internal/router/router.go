package router

import (
	"github.com/gin-gonic/gin"

	"salesfeed/internal/handler"
	"salesfeed/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	workspaceH *handler.WorkspaceHandler,
	reportH *handler.ReportHandler,
	summaryH *handler.SummaryHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Workspace routes
	workspaces := v1.Group("/workspaces")
	workspaces.POST("", workspaceH.Create)
	workspaces.GET("", workspaceH.List)
	workspaces.GET("/:workspace_id", workspaceH.GetByID)

	// Report routes (workspace-scoped)
	workspaces.POST("/:workspace_id/reports", reportH.Upload)
	workspaces.GET("/:workspace_id/reports", reportH.List)

	// Summary routes
	workspaces.GET("/:workspace_id/summaries/products", summaryH.ProductSummaries)
	workspaces.GET("/:workspace_id/summaries/categories", summaryH.CategorySummaries)

	// Report control surface
	reports := v1.Group("/reports")
	reports.GET("/:id", reportH.GetByID)
	reports.PATCH("/:id", reportH.Update)
	reports.GET("/:id/lines", reportH.Lines)
	reports.GET("/:id/suggestions", reportH.Suggestions)
	reports.POST("/:id/auto-map", reportH.AutoMap)

	return r
}
