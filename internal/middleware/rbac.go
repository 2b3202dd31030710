package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/educontrol/educontrol-api/internal/models"
	appErrors "github.com/educontrol/educontrol-api/pkg/errors"
	"github.com/educontrol/educontrol-api/pkg/response"
)

// StaffOnly rejects student sessions.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Session(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !isStaff(claims) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffOrOwnMatricula lets staff through and students only when the route's matricula
// parameter is their own.
func StaffOrOwnMatricula(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Session(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if isStaff(claims) {
			c.Next()
			return
		}
		if claims.Matricula != "" && claims.Matricula == c.Param(param) {
			c.Next()
			return
		}
		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

// RequireRoles restricts a route to staff sessions holding one of the roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Session(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok || !isStaff(claims) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func isStaff(claims *models.SessionClaims) bool {
	return claims.Kind == models.IdentityStaff && claims.Role.IsStaff()
}
