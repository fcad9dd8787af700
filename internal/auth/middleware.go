package auth

import (
	"net/http"
	"strings"

	"real-estate-crm/internal/models"

	"github.com/gin-gonic/gin"
)

// claimsKey is the gin context key the verified claims are stored under.
const claimsKey = "auth.claims"

// RequireAuth verifies the bearer token on every request and stores the
// claims in the context. Requests without a valid session get 401, the
// API equivalent of the SPA's login redirect.
func RequireAuth(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := tm.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole gates a route on the session's role claim. Admins pass
// every role check. Authenticated sessions lacking the role get 403,
// the API equivalent of the SPA's default-view redirect.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if claims.Role != role && claims.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the verified claims stored by RequireAuth, or nil.
func ClaimsFrom(c *gin.Context) *Claims {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*Claims)
	return claims
}

// ActorID returns the acting user's id for audit stamping, or "system"
// when the request carries no session (CLI and scheduler paths).
func ActorID(c *gin.Context) string {
	if claims := ClaimsFrom(c); claims != nil {
		return claims.UserID()
	}
	return "system"
}
