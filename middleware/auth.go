package middleware

import (
	"net/http"
	"strings"

	"artisthub/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
	ContextEmail  = "email"
)

// TokenValidator verifies a bearer token.
type TokenValidator interface {
	ValidateToken(token string) (*utils.Claims, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
		Code:    utils.CodeUnauthorized,
		Message: message,
	})
}

// JWTAuthMiddleware accepts a valid bearer token whose role is one of roles
// and stores the caller's id, email and role in the request context.
func JWTAuthMiddleware(tokens TokenValidator, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			unauthorized(c, "Missing or invalid Authorization header")
			return
		}

		// Validate the token signature and expiration.
		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			unauthorized(c, "Invalid token")
			return
		}
		if !hasRole(claims.Role, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{
				Code:    utils.CodeUnauthorized,
				Message: "Insufficient authorization",
			})
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

func hasRole(role string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
