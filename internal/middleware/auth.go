package middleware

import (
	"net/http"
	"strings"

	jwtpkg "couples-gallery/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const ContextUsername = "username"

// AdminAuth guards the admin surface: a Bearer access token signed with the
// shared secret. The public gallery surface never passes through here; its
// capability is the share token in the URL.
func AdminAuth(accessSecret string) gin.HandlerFunc {
	secret := []byte(accessSecret)
	return func(c *gin.Context) {
		auth := strings.TrimSpace(c.GetHeader("Authorization"))
		if auth == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			c.Abort()
			return
		}

		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			c.Abort()
			return
		}

		claims, err := jwtpkg.ParseToken(strings.TrimSpace(parts[1]), secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}
