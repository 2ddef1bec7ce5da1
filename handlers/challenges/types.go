package challenges

import (
	"api/utils/response"

	"github.com/gin-gonic/gin"
)

// Error message constants
const (
	ErrChallengeNotFound  = "Challenge not found"
	ErrChallengeFetchFail = "Failed to fetch challenges"
	ErrChallengeSaveFail  = "Failed to save challenge"
)

// CreateChallengeRequest model for creating a catalog entry
type CreateChallengeRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description" binding:"required"`
	PointsAvailable int     `json:"points_available" binding:"required,gt=0"`
	WasteKg         float64 `json:"waste_kg" binding:"gte=0"`
	IsActive        *bool   `json:"is_active"`
}

// UpdateChallengeRequest model for updating a catalog entry
type UpdateChallengeRequest struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	PointsAvailable *int     `json:"points_available"`
	WasteKg         *float64 `json:"waste_kg"`
	IsActive        *bool    `json:"is_active"`
}

func respondWithError(c *gin.Context, status int, message string) {
	response.Error(c, status, message)
}
