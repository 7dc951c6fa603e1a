package routes

import (
	"time"

	"driveline/handlers"
	"driveline/middleware"
	"driveline/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterOpsRoutes registers the operational endpoints: manual job replay
// and queue statistics.
func RegisterOpsRoutes(r *gin.Engine, oh *handlers.OpsHandler) {
	ops := r.Group("/api/ops")
	{
		ops.Use(middleware.RateLimitMiddleware())
		ops.POST("/jobs/:type/trigger", oh.TriggerJobHandler)
		ops.GET("/queues/stats", oh.QueueStatsHandler)
	}
}

// RegisterEventRoutes registers the domain-event ingress the other platform
// services post to.
func RegisterEventRoutes(r *gin.Engine, eh *handlers.EventsHandler) {
	events := r.Group("/api/events")
	{
		events.Use(middleware.RateLimitMiddleware())
		events.POST("/booking", eh.BookingEventHandler)
		events.POST("/account", eh.AccountEventHandler)
	}
}

// RegisterHealthRoute registers the readiness endpoint.
func RegisterHealthRoute(r *gin.Engine, oh *handlers.OpsHandler) {
	r.GET("/health", oh.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, oh *handlers.OpsHandler, eh *handlers.EventsHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(utils.ErrorHandler())

	RegisterOpsRoutes(r, oh)
	RegisterEventRoutes(r, eh)
	RegisterHealthRoute(r, oh)
}
