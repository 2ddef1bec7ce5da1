package challenges

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to the challenge catalog
// r: the RouterGroup to which routes are added
func RegisterRoutes(r *gin.RouterGroup) {

	challenges := r.Group("/challenges")
	{
		challenges.GET("", ListChallenges)
		challenges.GET("/:id", GetChallenge)
		challenges.POST("", CreateChallenge)
		challenges.PUT("/:id", UpdateChallenge)
	}
}
