// Package services provides application-level services that orchestrate
// business logic and coordinate between repositories and domain entities.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/blog"
	"github.com/AtRiskMedia/devlog-go/internal/domain/repositories"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/security"
)

var (
	// ErrInvalidPreviewToken is returned when the preview secret or slug is missing or wrong
	ErrInvalidPreviewToken = errors.New("invalid token")
	// ErrInvalidPreviewSlug is returned when no draft entry has the requested slug
	ErrInvalidPreviewSlug = errors.New("invalid slug")
)

// PostService orchestrates blog post reads for the page handlers
type PostService struct {
	postRepo      repositories.PostRepository
	contentType   string
	previewSecret string
	logger        *logging.ChanneledLogger
}

// NewPostService creates a new post application service
func NewPostService(postRepo repositories.PostRepository, contentType, previewSecret string, logger *logging.ChanneledLogger) *PostService {
	if contentType == "" {
		contentType = blog.ContentTypeID
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &PostService{
		postRepo:      postRepo,
		contentType:   contentType,
		previewSecret: previewSecret,
		logger:        logger,
	}
}

// ListPosts returns all posts, newest first
func (s *PostService) ListPosts(ctx context.Context, preview bool) ([]*blog.Post, error) {
	posts, err := s.postRepo.FindAll(ctx, preview)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	// the backend already orders; posts without a date sink to the end
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].DatePublished.After(posts[j].DatePublished)
	})
	return posts, nil
}

// GetPost returns the post with slug, or nil when there is none
func (s *PostService) GetPost(ctx context.Context, slug string, preview bool) (*blog.Post, error) {
	if slug == "" {
		return nil, fmt.Errorf("post slug cannot be empty")
	}

	post, err := s.postRepo.FindBySlug(ctx, slug, preview)
	if err != nil {
		return nil, fmt.Errorf("failed to get post %s: %w", slug, err)
	}
	return post, nil
}

// ListPostsByTag returns the posts carrying the tag addressed by tagSlug and
// the tag as the first matching post spells it
func (s *PostService) ListPostsByTag(ctx context.Context, tagSlug string, preview bool) ([]*blog.Post, string, error) {
	posts, err := s.ListPosts(ctx, preview)
	if err != nil {
		return nil, "", err
	}

	displayTag := blog.TagFromSlug(tagSlug)
	matched := make([]*blog.Post, 0, len(posts))
	for _, post := range posts {
		if !post.HasTag(tagSlug) {
			continue
		}
		if len(matched) == 0 {
			if spelled, ok := post.MatchingTag(tagSlug); ok {
				displayTag = spelled
			}
		}
		matched = append(matched, post)
	}
	return matched, displayTag, nil
}

// ListTags returns the distinct tags across posts. The first spelling seen
// wins; the result is sorted case-insensitively.
func (s *PostService) ListTags(ctx context.Context, preview bool) ([]string, error) {
	posts, err := s.ListPosts(ctx, preview)
	if err != nil {
		return nil, err
	}
	return DistinctTags(posts), nil
}

// DistinctTags collects tags from posts, deduplicated case-insensitively
func DistinctTags(posts []*blog.Post) []string {
	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, post := range posts {
		for _, tag := range post.Tags {
			tag = strings.TrimSpace(tag)
			key := strings.ToLower(tag)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			tags = append(tags, tag)
		}
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return strings.ToLower(tags[i]) < strings.ToLower(tags[j])
	})
	return tags
}

// ValidatePreview checks a preview request and returns the slug to redirect to
func (s *PostService) ValidatePreview(ctx context.Context, secret, slug string) (string, error) {
	if s.previewSecret == "" || slug == "" || !security.SecretsEqual(secret, s.previewSecret) {
		s.logger.Preview().Warn("Preview request rejected", "reason", "token", "slug", slug)
		return "", ErrInvalidPreviewToken
	}

	contentTypes := []string{s.contentType}
	if s.contentType != blog.LegacyContentTypeID {
		contentTypes = append(contentTypes, blog.LegacyContentTypeID)
	}
	for _, contentType := range contentTypes {
		exists, err := s.postRepo.SlugExists(ctx, contentType, slug)
		if err != nil && contentType != s.contentType {
			// spaces without the legacy type reject the lookup outright
			s.logger.Preview().Debug("Legacy preview lookup failed", "slug", slug, "error", err.Error())
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to check preview slug %s: %w", slug, err)
		}
		if exists {
			s.logger.Preview().Info("Preview enabled", "slug", slug, "contentType", contentType)
			return slug, nil
		}
	}

	s.logger.Preview().Warn("Preview request rejected", "reason", "slug", "slug", slug)
	return "", ErrInvalidPreviewSlug
}
