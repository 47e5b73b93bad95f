package middleware

import (
	"github.com/gin-gonic/gin"

	"bookgraph/internal/domains/resolver/loader"
)

// LoaderFactory creates a fresh set of batch loaders.
type LoaderFactory func() *loader.Loaders

// Loaders attaches request-scoped batch loaders to the request context.
// Nothing cached by one request is visible to another.
func Loaders(newLoaders LoaderFactory) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := loader.WithLoaders(c.Request.Context(), newLoaders())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
