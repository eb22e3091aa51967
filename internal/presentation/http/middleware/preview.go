package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/security"
)

const (
	// PreviewCookieName is the cookie that turns draft mode on
	PreviewCookieName = "__prerender_bypass"
	previewKey        = "preview"
)

// PreviewMiddleware reads the preview cookie and records on the context
// whether draft content may be shown. An invalid or expired cookie is cleared.
func PreviewMiddleware(secret string, logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(previewKey, false)

		token, err := c.Cookie(PreviewCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := security.ValidatePreviewToken(token, secret)
		if err != nil {
			logger.WithContext(logging.ChannelPreview, c.Request.Context()).Debug("Clearing invalid preview cookie", "error", err.Error())
			ClearPreviewCookie(c)
			c.Next()
			return
		}

		c.Set(previewKey, claims.Preview)
		c.Next()
	}
}

// IsPreview reports whether the request runs in preview mode
func IsPreview(c *gin.Context) bool {
	return c.GetBool(previewKey)
}

// SetPreviewCookie stores a signed preview token
func SetPreviewCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(PreviewCookieName, token, maxAge, "/", "", gin.Mode() != gin.DebugMode, true)
}

// ClearPreviewCookie expires the preview cookie
func ClearPreviewCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(PreviewCookieName, "", -1, "/", "", gin.Mode() != gin.DebugMode, true)
}
