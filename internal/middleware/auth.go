package middleware

import (
	"net/http"

	"completions-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

// RequireAuth rejects requests without a live session. The profile is
// looked up by InjectUser, so a deleted user is treated as logged out.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Debe iniciar sesión"})
			return
		}
		c.Next()
	}
}

func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Debe iniciar sesión"})
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Acceso denegado"})
			return
		}
		c.Next()
	}
}

// RequirePermission checks the profile's page list. Admins always pass.
func RequirePermission(page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Debe iniciar sesión"})
			return
		}

		if !user.CanAccess(page) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No tiene permiso para acceder a esta sección"})
			return
		}
		c.Next()
	}
}
