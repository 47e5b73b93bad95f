package middleware

import (
	"github.com/gin-gonic/gin"

	"bookgraph/internal/shared/response"
	"bookgraph/pkg/jwt"
)

// AdminMiddleware checks if the caller has admin role
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set by AuthMiddleware
		role, ok := c.Get("role")
		if !ok || role != jwt.RoleAdmin {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
