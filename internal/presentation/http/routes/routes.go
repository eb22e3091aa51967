// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/devlog-go/internal/application/container"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/devlog-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORSMiddleware(config.CORSAllowedOrigins))

	r.GET("/healthz", handlers.Health)

	settings := container.Settings
	blogHandlers := handlers.NewBlogHandlers(
		container.PostService,
		container.ContentRenderer,
		container.Pages,
		handlers.Site{Name: settings.SiteName, Revalidate: settings.PublishedRevalidate},
		container.Logger,
		container.PerfTracker,
	)
	previewHandlers := handlers.NewPreviewHandlers(
		container.PostService,
		container.ResponseCache,
		settings.PreviewCookieSecret,
		settings.PreviewCookieTTL,
		container.Logger,
	)

	site := r.Group("/")
	site.Use(middleware.PreviewMiddleware(settings.PreviewCookieSecret, container.Logger))
	{
		site.GET("/", blogHandlers.Home)
		site.GET("/blog", blogHandlers.List)
		site.GET("/blog/:slug", blogHandlers.Post)
		site.GET("/blog/:slug/markdown", blogHandlers.Markdown)
		site.GET("/blog/tag/:tag", blogHandlers.Tag)
	}

	preview := r.Group("/api/preview")
	{
		preview.GET("", previewHandlers.Enable)
		preview.GET("/exit", previewHandlers.Exit)
	}

	return r
}
