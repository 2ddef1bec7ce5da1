package auth

import (
	"net/http"
	"time"

	"api/config"
	"api/database"
	"api/middleware"
	"api/models"
	"api/utils"
	"api/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func generateToken(userID string, rememberMe bool) (string, error) {
	ttl := 24 * time.Hour
	if rememberMe {
		ttl = 30 * 24 * time.Hour
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

func authResponse(user *models.User, token string) AuthResponse {
	return AuthResponse{
		Token:         token,
		UserID:        user.ID,
		Email:         user.Email,
		Firstname:     user.Firstname,
		Lastname:      user.Lastname,
		IsAdmin:       user.IsAdmin,
		TotalPoints:   user.TotalPoints,
		LastConnected: user.LastConnected,
	}
}

// Login authenticates a user and sets the auth cookie
// @Summary Login
// @Description Authenticate with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, "email = ?", req.Email).Error; err != nil {
		response.Error(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		response.Error(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if user.Blocked {
		response.Error(c, http.StatusUnauthorized, ErrAccountBlocked)
		return
	}

	token, err := generateToken(user.ID, req.RememberMe)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrTokenGenerateFailed)
		return
	}

	now := time.Now()
	user.LastConnected = &now
	database.DB.Model(&user).Update("last_connected", now)

	setCookieToken(c, token, req.RememberMe)
	c.JSON(http.StatusOK, authResponse(&user, token))
}

// RegisterUser creates a new account
// @Summary Register
// @Description Create a new user account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var count int64
	database.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		response.Error(c, http.StatusBadRequest, ErrEmailInUse)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrHashPasswordFailed)
		return
	}

	user := models.User{
		Email:     req.Email,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Password:  hashed,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, ErrUserCreateFailed)
		return
	}

	token, err := generateToken(user.ID, false)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrTokenGenerateFailed)
		return
	}

	setCookieToken(c, token, false)
	c.JSON(http.StatusCreated, authResponse(&user, token))
}

// CheckAuth returns the authenticated user's profile
// @Summary Check authentication
// @Description Return the profile for the current auth token
// @Tags Auth
// @Produce json
// @Success 200 {object} AuthResponse
// @Failure 401 {object} map[string]string
// @Router /auth/check [get]
// @Security Bearer
func CheckAuth(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, authResponse(user, ""))
}

// Logout clears the auth cookie
// @Summary Logout
// @Description Clear the authentication cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("auth_token", "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"message": ErrLogoutSuccess})
}
