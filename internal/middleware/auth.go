package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/auth"
)

const (
	// AuthContextKey is the gin context key carrying the authenticated user id.
	AuthContextKey = "user_id"

	accessTokenCookie = "accessToken"
)

// failure is the error response envelope.
type failure struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, failure{
		StatusCode: http.StatusUnauthorized,
		Message:    message,
		Success:    false,
		Errors:     []string{},
	})
	c.Abort()
}

// extractToken pulls the access token from the accessToken cookie or, failing
// that, from a Bearer Authorization header.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(accessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// RequireAuth validates the access token and stores the user id in the
// context. Requests without a valid token are rejected.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			abortUnauthorized(c, "unauthorized request")
			return
		}

		claims, err := tokens.VerifyAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "invalid access token")
			return
		}

		c.Set(AuthContextKey, claims.UserID)
		c.Next()
	}
}

// OptionalAuth stores the user id when a valid token is present but lets
// anonymous requests through. Listing endpoints use it so owners can see
// their own unpublished records.
func OptionalAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := extractToken(c); tokenString != "" {
			if claims, err := tokens.VerifyAccessToken(tokenString); err == nil {
				c.Set(AuthContextKey, claims.UserID)
			}
		}
		c.Next()
	}
}

// GetUserID retrieves the authenticated user id from the context.
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(AuthContextKey)
	if !exists {
		return "", false
	}

	userIDStr, ok := userID.(string)
	return userIDStr, ok
}
