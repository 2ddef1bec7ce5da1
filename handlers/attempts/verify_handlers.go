package attempts

import (
	"net/http"

	"api/config"
	"api/middleware"

	"github.com/gin-gonic/gin"
)

// ManualVerify records a reviewer's verdict on a pending attempt
// @Summary Manually verify an attempt
// @Description Approve or reject a pending attempt. Approval awards full points. Admin only.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param id path string true "Attempt ID"
// @Param request body ManualVerifyRequest true "Verdict"
// @Success 200 {object} models.ChallengeAttempt
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /attempts/{id}/verify [post]
// @Security Bearer
func ManualVerify(c *gin.Context) {
	reviewer, err := middleware.GetAdminFromRequest(c)
	if err != nil {
		return
	}

	var req ManualVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	attempt, err := service.ApplyManualVerdict(c.Param("id"), reviewer.ID, req.Approved, req.Notes)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// GetReviewQueue lists pending attempts waiting for a human verdict
// @Summary Get the manual review queue
// @Description List attempts stuck in pending_verification beyond the review window. Admin only.
// @Tags Attempts
// @Produce json
// @Success 200 {array} models.ChallengeAttempt
// @Failure 403 {object} map[string]string
// @Router /attempts/review-queue [get]
// @Security Bearer
func GetReviewQueue(c *gin.Context) {
	if _, err := middleware.GetAdminFromRequest(c); err != nil {
		return
	}

	queue, err := service.ReviewQueue(config.DefaultJudgeRetryConfig.PendingWindow)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrReviewQueueFailed)
		return
	}

	c.JSON(http.StatusOK, queue)
}
