package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"teamjob-backend/internal/auth"
)

// ClaimsKey is the gin context key under which verified claims are stored.
const ClaimsKey = "authClaims"

// RequireAuth rejects requests lacking a valid bearer token and stores the
// verified claims on the context for handlers.
func RequireAuth(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
