package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookgraph/internal/shared/middleware"
	"bookgraph/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.Loaders(c.Resolver.NewLoaders),
	)

	admin := []gin.HandlerFunc{
		middleware.AuthMiddleware(c.JWTManager),
		middleware.AdminMiddleware(),
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupBookRoutes(v1, c, admin)
		setupInventoryRoutes(v1, c)
		setupAuthorRoutes(v1, c, admin)
		setupIntegrityRoutes(v1, c, admin)
	}

	return router
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container, admin []gin.HandlerFunc) {
	books := v1.Group("/books")
	{
		// Public
		books.GET("", c.BookHandler.ListBooks)
		books.GET("/export", c.BookHandler.ExportBooks)
		books.GET("/:id", c.BookHandler.GetBook)
		books.GET("/:id/author", c.BookHandler.GetBookAuthor)
		books.GET("/:id/inventory", c.BookHandler.GetBookInventory)
	}

	adminBooks := v1.Group("/books", admin...)
	{
		adminBooks.POST("", c.BookHandler.CreateBook)
		adminBooks.POST("/reprice", c.BookHandler.RepriceAll)
		adminBooks.PATCH("/:id", c.BookHandler.UpdateBook)
		adminBooks.DELETE("/:id", c.BookHandler.DeleteBook)
		adminBooks.PUT("/:id/stock", c.BookHandler.SetStock)
	}
}

// ========================================
// INVENTORY ROUTES
// ========================================
func setupInventoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/inventory/low-stock", c.BookHandler.ListLowStock)
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(v1 *gin.RouterGroup, c *container.Container, admin []gin.HandlerFunc) {
	authors := v1.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.GetAll)
		authors.GET("/:id", c.AuthorHandler.GetByID)
		authors.GET("/:id/books", c.AuthorHandler.GetBooks)
	}

	adminAuthors := v1.Group("/authors", admin...)
	{
		adminAuthors.POST("", c.AuthorHandler.Create)
		adminAuthors.POST("/cleanup", c.AuthorHandler.DeleteAuthorsWithoutBooks)
		adminAuthors.PATCH("/:id", c.AuthorHandler.Update)
		adminAuthors.DELETE("/:id", c.AuthorHandler.Delete)
		adminAuthors.POST("/:id/books/unavailable", c.BookHandler.MarkAuthorBooksUnavailable)
	}
}

// ========================================
// INTEGRITY ROUTES (admin)
// ========================================
func setupIntegrityRoutes(v1 *gin.RouterGroup, c *container.Container, admin []gin.HandlerFunc) {
	integrity := v1.Group("/integrity", admin...)
	{
		integrity.GET("/dangling", c.IntegrityHandler.FindDangling)
		integrity.GET("/last", c.IntegrityHandler.LastReport)
		integrity.POST("/audit", c.IntegrityHandler.EnqueueAudit)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		services := appCtx.HealthCheck(c.Request.Context())

		status := "ok"
		for _, s := range services {
			if s == "down" {
				status = "degraded"
			}
		}

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  services,
		})
	}
}
