package attempts

import (
	"net/http"

	"api/middleware"

	"github.com/gin-gonic/gin"
)

// JoinChallenge starts an attempt on a challenge
// @Summary Join a challenge
// @Description Create an in_progress attempt for the calling user
// @Tags Attempts
// @Accept json
// @Produce json
// @Param request body JoinRequest true "Challenge to join"
// @Success 201 {object} models.ChallengeAttempt
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /attempts/join [post]
// @Security Bearer
func JoinChallenge(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	attempt, err := service.Join(c.Request.Context(), user.ID, req.ChallengeID)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attempt)
}

// SubmitVerification submits a proof of completion for an attempt
// @Summary Submit proof for verification
// @Description Move the attempt to pending_verification and schedule the automated judge
// @Tags Attempts
// @Accept json
// @Produce json
// @Param id path string true "Attempt ID"
// @Param request body SubmitRequest true "Proof submission"
// @Success 200 {object} models.ChallengeAttempt
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /attempts/{id}/submit [post]
// @Security Bearer
func SubmitVerification(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	attempt, err := service.SubmitProof(c.Param("id"), user.ID, req.ProofReference, req.Description)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// GetProgress returns the calling user's current attempt for a challenge
// @Summary Get attempt progress
// @Description Get the caller's most recent attempt for the given challenge
// @Tags Attempts
// @Produce json
// @Param challenge_id query string true "Challenge ID"
// @Success 200 {object} models.ChallengeAttempt
// @Failure 404 {object} map[string]string
// @Router /attempts/progress [get]
// @Security Bearer
func GetProgress(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	challengeID := c.Query("challenge_id")
	if challengeID == "" {
		respondWithError(c, http.StatusBadRequest, "challenge_id is required")
		return
	}

	attempt, err := service.GetProgress(user.ID, challengeID)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// SkipAttempt abandons an attempt that was never submitted
// @Summary Skip an attempt
// @Description Remove an in_progress attempt without penalty
// @Tags Attempts
// @Accept json
// @Produce json
// @Param id path string true "Attempt ID"
// @Param request body SkipRequest true "Reason for skipping"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /attempts/{id}/skip [post]
// @Security Bearer
func SkipAttempt(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	var req SkipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := service.Skip(c.Param("id"), user.ID, req.Reason); err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attempt skipped"})
}
