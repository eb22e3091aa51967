// Package repositories defines the interfaces for accessing blog content.
package repositories

import (
	"context"

	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/blog"
)

// PostRepository reads blog posts from the content backend. When preview is
// true, draft content is returned as well.
type PostRepository interface {
	// FindAll returns every post, newest first
	FindAll(ctx context.Context, preview bool) ([]*blog.Post, error)
	// FindBySlug returns nil, nil when no post has the slug
	FindBySlug(ctx context.Context, slug string, preview bool) (*blog.Post, error)
	// SlugExists checks draft content for an entry of contentType with slug
	SlugExists(ctx context.Context, contentType, slug string) (bool, error)
}
