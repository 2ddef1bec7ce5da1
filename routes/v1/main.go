package v1

import (
	"net/http"

	"api/handlers/attempts"
	"api/handlers/auth"
	"api/handlers/challenges"
	"api/middleware"
	"api/realtime"
	"api/services"

	"github.com/gin-gonic/gin"
)

// Register the endpoints for the v1 API
func Register(r *gin.Engine, attemptService *services.AttemptService, hub *realtime.Hub) {
	v1 := r.Group("/api/v1")

	// Add metrics middleware to all routes
	v1.Use(middleware.MetricsMiddleware())

	rateLimiter := middleware.NewRateLimiter(10000, 1500)
	v1.Use(middleware.RateLimiterMiddleware(rateLimiter))

	RegisterPingRoutes(v1)
	auth.RegisterRoutes(v1)
	challenges.RegisterRoutes(v1)
	attempts.RegisterRoutes(v1, attemptService, hub)

	// Register metrics endpoint
	RegisterMetricsRoutes(v1)
}

// RegisterPingRoutes registers the liveness endpoint
func RegisterPingRoutes(r *gin.RouterGroup) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}
