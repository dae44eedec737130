package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MhisterKhing6/shortly/internal/api/handler"
	"github.com/MhisterKhing6/shortly/internal/api/middleware"
	"github.com/MhisterKhing6/shortly/internal/auth"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	tokens *auth.TokenService,
	assignmentHandler *handler.AssignmentHandler,
	reconciliationHandler *handler.ReconciliationHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints, all behind bearer auth
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Authenticate(logger, tokens))
	{
		// Assignment operations
		assignments := v1.Group("/assignments")
		{
			assignments.POST("", assignmentHandler.Create)
			assignments.GET("", assignmentHandler.List)
			assignments.GET("/cancelled", assignmentHandler.ListCancelled)
			assignments.GET("/cancellation-reasons", assignmentHandler.ListReasons)
			assignments.GET("/rider", assignmentHandler.ListMine)
			assignments.GET("/rider/:riderId", assignmentHandler.ListByRider)
			assignments.PATCH("/:id/status", assignmentHandler.UpdateStatus)
			assignments.PATCH("/:id/status/override", assignmentHandler.OverrideStatus)
			assignments.POST("/:id/resend-code", assignmentHandler.ResendCode)
		}

		// Settlement operations
		reconciliations := v1.Group("/reconciliations")
		{
			reconciliations.POST("", reconciliationHandler.Reconcile)
			reconciliations.POST("/:assignmentId", reconciliationHandler.ReconcileOne)
			reconciliations.GET("/stats", reconciliationHandler.Stats)
			reconciliations.GET("/rider/:riderId", reconciliationHandler.ListRiderRecords)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
