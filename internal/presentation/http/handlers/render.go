// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates/pages"
)

// Site carries the page chrome settings shared by the HTML handlers
type Site struct {
	Name       string
	Revalidate time.Duration
}

// pageRenderer executes page templates into a buffer so a template failure
// still produces a clean 500
type pageRenderer struct {
	tmpl   *template.Template
	site   Site
	logger *logging.ChanneledLogger
}

func (r *pageRenderer) chrome(c *gin.Context, title string) pages.Site {
	return pages.Site{
		Name:    r.site.Name,
		Title:   title,
		Preview: middleware.IsPreview(c),
	}
}

func (r *pageRenderer) render(c *gin.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.WithContext(logging.ChannelContent, c.Request.Context()).Error("Failed to render page", "template", name, "error", err.Error())
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte("<h1>Internal Server Error</h1>"))
		return
	}
	r.setCacheHeaders(c, status)
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (r *pageRenderer) renderError(c *gin.Context, status int, title, message string) {
	r.render(c, status, pages.ErrorTemplate, pages.ErrorPage{
		Site:    r.chrome(c, title),
		Status:  status,
		Title:   title,
		Message: message,
	})
}

// setCacheHeaders marks published pages as shared-cacheable for the
// revalidation window; preview pages and errors are never stored
func (r *pageRenderer) setCacheHeaders(c *gin.Context, status int) {
	if middleware.IsPreview(c) || status >= http.StatusInternalServerError {
		c.Header("Cache-Control", "private, no-store")
		return
	}
	c.Header("Cache-Control", publishedCacheControl(r.site.Revalidate))
}

func publishedCacheControl(revalidate time.Duration) string {
	return fmt.Sprintf("public, max-age=0, s-maxage=%d, stale-while-revalidate", int(revalidate.Seconds()))
}

func scopeOf(c *gin.Context) string {
	if middleware.IsPreview(c) {
		return "preview"
	}
	return "published"
}
