package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sped-tracker-api/internal/models"
	appErrors "github.com/noah-isme/sped-tracker-api/pkg/errors"
	"github.com/noah-isme/sped-tracker-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// TokenValidator verifies access tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// Authenticate attaches the caller's claims when a bearer token is sent.
// Requests without an Authorization header continue as anonymous and the
// services decide what an anonymous caller may do; a malformed or invalid
// token is rejected outright.
func Authenticate(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// Identity returns the caller attached by Authenticate, or the anonymous
// identity.
func Identity(c *gin.Context) models.Identity {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return models.Identity{}
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return models.Identity{}
	}
	return claims.Identity()
}
