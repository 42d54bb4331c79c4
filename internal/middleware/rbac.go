package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sped-tracker-api/pkg/errors"
	"github.com/noah-isme/sped-tracker-api/pkg/response"
)

// RequireLogin rejects anonymous callers with 401.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Identity(c).Anonymous() {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "login required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStaff rejects anonymous callers with 401 and non-staff with 403.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := Identity(c)
		if identity.Anonymous() {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "login required"))
			c.Abort()
			return
		}
		if !identity.IsStaff {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "staff access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
