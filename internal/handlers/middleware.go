package handlers

import (
	"net/http"
	"strings"

	"ecommerce_api/internal/models"
	"ecommerce_api/internal/token"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthRequired validates the bearer token once and stores the resolved
// identity in the request context for handlers to read. Handlers never see
// the raw token.
func AuthRequired(tokens *token.Maker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing or invalid authorization header"})
			return
		}

		identity, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		c.Set(identityKey, *identity)
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentIdentity(c).Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "access denied, admins only"})
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) token.Identity {
	identity, _ := c.Get(identityKey)
	ident, _ := identity.(token.Identity)
	return ident
}
