package handlers

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/devlog-go/internal/application/services"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates/pages"
)

// BlogHandlers serves the listing, post, tag and markdown export pages
type BlogHandlers struct {
	postService *services.PostService
	content     *templates.ContentRenderer
	pages       *pageRenderer
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewBlogHandlers creates blog handlers with injected dependencies
func NewBlogHandlers(postService *services.PostService, content *templates.ContentRenderer, tmpl *template.Template, site Site, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *BlogHandlers {
	return &BlogHandlers{
		postService: postService,
		content:     content,
		pages:       &pageRenderer{tmpl: tmpl, site: site, logger: logger},
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Home sends visitors to the listing
func (h *BlogHandlers) Home(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, "/blog")
}

// List renders every post, newest first
func (h *BlogHandlers) List(c *gin.Context) {
	start := time.Now()
	preview := middleware.IsPreview(c)
	log := h.logger.WithContext(logging.ChannelContent, c.Request.Context())
	log.Debug("Received post list request", "preview", preview)

	marker := h.perfTracker.StartOperation("post_list_request", scopeOf(c))
	defer marker.Complete()

	posts, err := h.postService.ListPosts(c.Request.Context(), preview)
	if err != nil {
		marker.SetError(err)
		log.Error("Failed to list posts", "error", err.Error())
		h.pages.renderError(c, http.StatusInternalServerError, "Something went wrong", "The posts could not be loaded. Please try again shortly.")
		return
	}

	tags, err := h.postService.ListTags(c.Request.Context(), preview)
	if err != nil {
		marker.SetError(err)
		log.Error("Failed to list tags", "error", err.Error())
		h.pages.renderError(c, http.StatusInternalServerError, "Something went wrong", "The posts could not be loaded. Please try again shortly.")
		return
	}

	h.pages.render(c, http.StatusOK, pages.ListTemplate, pages.ListPage{
		Site:  h.pages.chrome(c, "Blog"),
		Cards: pages.Cards(posts, h.content.ExcerptFor),
		Tags:  tags,
	})

	marker.AddMetadata("posts", len(posts))
	log.Info("Post list request completed", "count", len(posts), "duration", time.Since(start))
}

// Post renders a single post
func (h *BlogHandlers) Post(c *gin.Context) {
	start := time.Now()
	slug := c.Param("slug")
	preview := middleware.IsPreview(c)
	log := h.logger.WithContext(logging.ChannelContent, c.Request.Context())
	log.Debug("Received post request", "slug", slug, "preview", preview)

	marker := h.perfTracker.StartOperation("post_page_request", scopeOf(c))
	defer marker.Complete()
	marker.AddMetadata("slug", slug)

	post, err := h.postService.GetPost(c.Request.Context(), slug, preview)
	if err != nil {
		marker.SetError(err)
		log.Error("Failed to load post", "slug", slug, "error", err.Error())
		h.pages.renderError(c, http.StatusInternalServerError, "Something went wrong", "The post could not be loaded. Please try again shortly.")
		return
	}
	if post == nil {
		log.Info("Post not found", "slug", slug)
		h.pages.renderError(c, http.StatusNotFound, "Post not found", "There is no post at this address.")
		return
	}

	h.pages.render(c, http.StatusOK, pages.PostTemplate, pages.PostPage{
		Site: h.pages.chrome(c, post.Heading),
		Post: post,
		Body: h.content.RenderBody(post.Body),
	})

	log.Info("Post request completed", "slug", slug, "duration", time.Since(start))
}

// Tag renders the posts carrying one tag
func (h *BlogHandlers) Tag(c *gin.Context) {
	start := time.Now()
	tagSlug := c.Param("tag")
	preview := middleware.IsPreview(c)
	log := h.logger.WithContext(logging.ChannelContent, c.Request.Context())
	log.Debug("Received tag request", "tag", tagSlug, "preview", preview)

	marker := h.perfTracker.StartOperation("tag_page_request", scopeOf(c))
	defer marker.Complete()

	posts, displayTag, err := h.postService.ListPostsByTag(c.Request.Context(), tagSlug, preview)
	if err != nil {
		marker.SetError(err)
		log.Error("Failed to list posts by tag", "tag", tagSlug, "error", err.Error())
		h.pages.renderError(c, http.StatusInternalServerError, "Something went wrong", "The posts could not be loaded. Please try again shortly.")
		return
	}

	h.pages.render(c, http.StatusOK, pages.TagTemplate, pages.TagPage{
		Site:  h.pages.chrome(c, "#"+displayTag),
		Tag:   displayTag,
		Cards: pages.Cards(posts, h.content.ExcerptFor),
	})

	log.Info("Tag request completed", "tag", displayTag, "count", len(posts), "duration", time.Since(start))
}

// Markdown returns the post as a markdown document
func (h *BlogHandlers) Markdown(c *gin.Context) {
	slug := c.Param("slug")
	preview := middleware.IsPreview(c)
	log := h.logger.WithContext(logging.ChannelContent, c.Request.Context())
	log.Debug("Received markdown export request", "slug", slug, "preview", preview)

	marker := h.perfTracker.StartOperation("markdown_export_request", scopeOf(c))
	defer marker.Complete()

	post, err := h.postService.GetPost(c.Request.Context(), slug, preview)
	if err != nil {
		marker.SetError(err)
		log.Error("Failed to load post for export", "slug", slug, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load post"})
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	md, err := h.content.ExportMarkdown(post)
	if err != nil {
		marker.SetError(err)
		log.Error("Failed to export post as markdown", "slug", slug, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export post"})
		return
	}

	h.pages.setCacheHeaders(c, http.StatusOK)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}
