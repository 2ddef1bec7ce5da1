package attempts

import (
	"errors"
	"net/http"

	"api/models"
	"api/services"
	"api/utils/response"

	"github.com/gin-gonic/gin"
)

// Error message constants
const (
	ErrReviewQueueFailed = "Failed to fetch review queue"
)

// JoinRequest model for joining a challenge
type JoinRequest struct {
	ChallengeID string `json:"challenge_id" binding:"required"`
}

// SubmitRequest model for submitting a proof of completion.
// DeclaredPoints is advisory; the catalog is authoritative for the award.
type SubmitRequest struct {
	ProofReference string `json:"proof_reference" binding:"required"`
	Description    string `json:"description"`
	DeclaredPoints int    `json:"declared_points"`
}

// ManualVerifyRequest model for a reviewer's verdict
type ManualVerifyRequest struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes"`
}

// SkipRequest model for abandoning an unsubmitted attempt
type SkipRequest struct {
	Reason string `json:"reason"`
}

func respondWithError(c *gin.Context, status int, message string) {
	response.Error(c, status, message)
}

// respondWithServiceError maps workflow errors onto HTTP status codes
func respondWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAttemptNotFound), errors.Is(err, services.ErrChallengeNotFound):
		respondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotAttemptOwner):
		respondWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrAlreadyFinalized), errors.Is(err, services.ErrAlreadyJoined):
		respondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrChallengeInactive),
		errors.Is(err, services.ErrInvalidProofReference),
		errors.Is(err, models.ErrAlreadyPendingOrCompleted),
		errors.Is(err, models.ErrNotPending),
		errors.Is(err, models.ErrNotInProgress),
		errors.Is(err, models.ErrRejectionNotesRequired):
		respondWithError(c, http.StatusBadRequest, err.Error())
	default:
		respondWithError(c, http.StatusInternalServerError, err.Error())
	}
}
