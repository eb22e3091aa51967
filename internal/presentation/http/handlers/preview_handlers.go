package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/devlog-go/internal/application/services"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/http/middleware"
)

// PreviewCache drops cached draft responses
type PreviewCache interface {
	InvalidateByVariant(variant stores.Variant) int
}

// PreviewHandlers turn draft mode on and off
type PreviewHandlers struct {
	postService  *services.PostService
	cache        PreviewCache
	cookieSecret string
	cookieTTL    time.Duration
	logger       *logging.ChanneledLogger
}

// NewPreviewHandlers creates preview handlers with injected dependencies
func NewPreviewHandlers(postService *services.PostService, cache PreviewCache, cookieSecret string, cookieTTL time.Duration, logger *logging.ChanneledLogger) *PreviewHandlers {
	if cookieTTL <= 0 {
		cookieTTL = time.Hour
	}
	return &PreviewHandlers{
		postService:  postService,
		cache:        cache,
		cookieSecret: cookieSecret,
		cookieTTL:    cookieTTL,
		logger:       logger,
	}
}

// Enable checks the secret and slug, sets the preview cookie and redirects
// to the draft post
func (h *PreviewHandlers) Enable(c *gin.Context) {
	log := h.logger.WithContext(logging.ChannelPreview, c.Request.Context())
	log.Debug("Received preview request", "slug", c.Query("slug"))

	slug, err := h.postService.ValidatePreview(c.Request.Context(), c.Query("secret"), c.Query("slug"))
	switch {
	case errors.Is(err, services.ErrInvalidPreviewToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	case errors.Is(err, services.ErrInvalidPreviewSlug):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid slug"})
		return
	case err != nil:
		log.Error("Preview check failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify preview request"})
		return
	}

	token, err := security.SignPreviewToken(slug, h.cookieSecret, h.cookieTTL)
	if err != nil {
		log.Error("Failed to sign preview token", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enable preview"})
		return
	}

	middleware.SetPreviewCookie(c, token, int(h.cookieTTL.Seconds()))
	c.Header("Cache-Control", "private, no-store")
	c.Redirect(http.StatusTemporaryRedirect, "/blog/"+url.PathEscape(slug))
}

// Exit clears the preview cookie
func (h *PreviewHandlers) Exit(c *gin.Context) {
	dropped := 0
	if h.cache != nil {
		dropped = h.cache.InvalidateByVariant(stores.VariantPreview)
	}
	h.logger.WithContext(logging.ChannelPreview, c.Request.Context()).Info("Preview disabled", "droppedResponses", dropped)
	middleware.ClearPreviewCookie(c)
	c.Header("Cache-Control", "private, no-store")
	c.Redirect(http.StatusTemporaryRedirect, "/blog")
}

// Health reports liveness
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
