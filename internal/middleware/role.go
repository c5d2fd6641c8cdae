package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/pkg/response"
)

// RequireRole admits callers whose role is at least min.
func RequireRole(min models.Role) gin.HandlerFunc {
	return gate(func(r models.Role) bool { return r.AtLeast(min) }, notAuthorizedMessage)
}

// Authorize admits callers whose role is one of roles.
func Authorize(roles ...models.Role) gin.HandlerFunc {
	return gate(func(r models.Role) bool { return r.In(roles...) }, notAuthorizedMessage)
}

func IsAdmin() gin.HandlerFunc {
	return gate(models.Role.IsAdmin, func(models.Role) string {
		return "Access denied. Admin privileges required."
	})
}

func IsOwner() gin.HandlerFunc {
	return gate(models.Role.IsOwner, func(models.Role) string {
		return "Access denied. Owner privileges required."
	})
}

func notAuthorizedMessage(role models.Role) string {
	return fmt.Sprintf("User role '%s' is not authorized to access this route", role)
}

// gate 未认证或角色未知时一律拒绝
func gate(allowed func(models.Role) bool, message func(models.Role) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Fail(c, http.StatusForbidden, message(""))
			return
		}

		role, ok := models.ParseRole(string(user.Role))
		if !ok || !allowed(role) {
			response.Fail(c, http.StatusForbidden, message(user.Role))
			return
		}
		c.Next()
	}
}
