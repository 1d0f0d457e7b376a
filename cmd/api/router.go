package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blogcms-backend/internal/shared/middleware"
	"blogcms-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupPostRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.AuthHandler.Login)
	}
}

// ========================================
// PUBLIC POST ROUTES
// ========================================
func setupPostRoutes(v1 *gin.RouterGroup, c *container.Container) {
	posts := v1.Group("/posts")
	{
		posts.GET("", c.PostHandler.ListPosts)
		posts.GET("/:slug", c.PostHandler.GetPost)
		posts.GET("/:slug/related", c.PostHandler.GetRelatedPosts)
	}

	// Search lives outside /posts so slugs never shadow it
	v1.GET("/search", c.PostHandler.SearchPosts)
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		admin.GET("/posts", c.PostHandler.ListAdminPosts)
		admin.POST("/posts", c.PostHandler.CreatePost)
		admin.PATCH("/posts/:id", c.PostHandler.UpdatePost)
		admin.DELETE("/posts/:id", c.PostHandler.DeletePost)
		admin.GET("/posts/:id/sync-state", c.PostHandler.GetSyncState)
		admin.POST("/posts/:id/publish", c.PostHandler.PublishPost)
		admin.POST("/media", c.PostHandler.UploadMedia)
		admin.DELETE("/media/*key", c.PostHandler.DeleteMedia)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			dbStatus = "down"
		}

		cacheStatus := "ok"
		if err := c.Cache.Ping(checkCtx); err != nil {
			cacheStatus = "down"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":   dbStatus,
			"database": dbStatus,
			"cache":    cacheStatus,
			"version":  c.Config.App.Version,
		})
	}
}
