package attempts

import (
	"api/realtime"
	"api/services"

	"github.com/gin-gonic/gin"
)

var (
	service *services.AttemptService
	hub     *realtime.Hub
)

// RegisterRoutes registers all routes related to challenge attempts
// r: the RouterGroup to which routes are added
func RegisterRoutes(r *gin.RouterGroup, attemptService *services.AttemptService, eventHub *realtime.Hub) {
	service = attemptService
	hub = eventHub

	group := r.Group("/attempts")
	{
		group.POST("/join", JoinChallenge)
		group.POST("/:id/submit", SubmitVerification)
		group.POST("/:id/verify", ManualVerify)
		group.POST("/:id/skip", SkipAttempt)
		group.GET("/progress", GetProgress)
		group.GET("/review-queue", GetReviewQueue)
		group.GET("/ws", AttemptsWebSocket)
	}
}
