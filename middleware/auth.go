package middleware

import (
	"errors"
	"net/http"
	"strings"

	"api/config"
	"api/database"
	"api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var ErrUnauthorized = errors.New("unauthorized")

// extractToken reads the auth token from the auth_token cookie, falling back
// to a Bearer Authorization header
func extractToken(c *gin.Context) string {
	if token, err := c.Cookie("auth_token"); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// parseUserID validates the token signature and expiry and returns the subject
func parseUserID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrUnauthorized
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrUnauthorized
	}
	return userID, nil
}

// GetUserFromRequest resolves the authenticated user for a request. On failure
// it writes the 401 response itself, so callers only need to return.
func GetUserFromRequest(c *gin.Context) (*models.User, error) {
	tokenString := extractToken(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return nil, ErrUnauthorized
	}

	userID, err := parseUserID(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return nil, err
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return nil, ErrUnauthorized
	}

	if user.Blocked {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Your account has been blocked"})
		return nil, ErrUnauthorized
	}

	return &user, nil
}

// GetAdminFromRequest is GetUserFromRequest restricted to admin accounts
func GetAdminFromRequest(c *gin.Context) (*models.User, error) {
	user, err := GetUserFromRequest(c)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return nil, ErrUnauthorized
	}
	return user, nil
}
