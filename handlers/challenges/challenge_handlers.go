package challenges

import (
	"net/http"

	"api/database"
	"api/middleware"
	"api/models"
	"api/services"

	"github.com/gin-gonic/gin"
)

// ListChallenges retrieves the challenge catalog
// @Summary List challenges
// @Description Get the challenge catalog. Non-admin callers only see active challenges.
// @Tags Challenges
// @Produce json
// @Success 200 {array} models.Challenge
// @Failure 401 {object} map[string]string
// @Router /challenges [get]
// @Security Bearer
func ListChallenges(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	challenges, err := services.ListChallenges(!user.IsAdmin)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrChallengeFetchFail)
		return
	}

	c.JSON(http.StatusOK, challenges)
}

// GetChallenge retrieves a single challenge
// @Summary Get a challenge
// @Description Get a challenge by its ID
// @Tags Challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} models.Challenge
// @Failure 404 {object} map[string]string
// @Router /challenges/{id} [get]
// @Security Bearer
func GetChallenge(c *gin.Context) {
	if _, err := middleware.GetUserFromRequest(c); err != nil {
		return
	}

	challenge, err := services.GetChallengeByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, http.StatusNotFound, ErrChallengeNotFound)
		return
	}

	c.JSON(http.StatusOK, challenge)
}

// CreateChallenge adds a catalog entry
// @Summary Create a challenge
// @Description Add a challenge to the catalog. Admin only.
// @Tags Challenges
// @Accept json
// @Produce json
// @Param request body CreateChallengeRequest true "Challenge details"
// @Success 201 {object} models.Challenge
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /challenges [post]
// @Security Bearer
func CreateChallenge(c *gin.Context) {
	if _, err := middleware.GetAdminFromRequest(c); err != nil {
		return
	}

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	challenge := models.Challenge{
		Title:           req.Title,
		Description:     req.Description,
		PointsAvailable: req.PointsAvailable,
		WasteKg:         req.WasteKg,
		IsActive:        true,
	}
	if req.IsActive != nil {
		challenge.IsActive = *req.IsActive
	}

	if err := services.CreateChallenge(&challenge); err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrChallengeSaveFail)
		return
	}

	c.JSON(http.StatusCreated, challenge)
}

// UpdateChallenge edits a catalog entry. Edits never retroactively change
// attempts that were already scored against the previous values.
// @Summary Update a challenge
// @Description Update a catalog entry. Admin only.
// @Tags Challenges
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param request body UpdateChallengeRequest true "Fields to update"
// @Success 200 {object} models.Challenge
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /challenges/{id} [put]
// @Security Bearer
func UpdateChallenge(c *gin.Context) {
	if _, err := middleware.GetAdminFromRequest(c); err != nil {
		return
	}

	var challenge models.Challenge
	if err := database.DB.First(&challenge, "id = ?", c.Param("id")).Error; err != nil {
		respondWithError(c, http.StatusNotFound, ErrChallengeNotFound)
		return
	}

	var req UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.Title != nil {
		challenge.Title = *req.Title
	}
	if req.Description != nil {
		challenge.Description = *req.Description
	}
	if req.PointsAvailable != nil {
		challenge.PointsAvailable = *req.PointsAvailable
	}
	if req.WasteKg != nil {
		challenge.WasteKg = *req.WasteKg
	}
	if req.IsActive != nil {
		challenge.IsActive = *req.IsActive
	}

	if err := services.UpdateChallenge(c.Request.Context(), &challenge); err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrChallengeSaveFail)
		return
	}

	c.JSON(http.StatusOK, challenge)
}
