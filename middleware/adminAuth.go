package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware guards admin routes with the configured static admin token.
func AdminAuthMiddleware(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			unauthorized(c, "Missing or invalid Authorization header")
			return
		}

		// Validate against fixed static admin token.
		if subtle.ConstantTimeCompare([]byte(tokenString), []byte(adminToken)) != 1 {
			unauthorized(c, "Unauthorized admin access")
			return
		}

		c.Set("isAdmin", true)
		c.Next()
	}
}
