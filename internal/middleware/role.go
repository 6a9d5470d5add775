package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dlezama/banca_simple_app/internal/core/domain"
)

// RequireRole creates a Gin middleware that only lets through identities
// holding exactly the required role. A request without a resolved identity
// (AuthMiddleware not applied) is denied as well.
func RequireRole(required domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRoleFromContext(c)
		if !ok || role != required {
			GetLoggerFromCtx(c.Request.Context()).Warn("Role check failed", "required", string(required), "got", string(role))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Acceso denegado: No tienes los permisos necesarios"})
			return
		}
		c.Next()
	}
}
