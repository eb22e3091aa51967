// Package services provides startup warming orchestration
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/caching/cleanup"
)

// WarmingService fetches the published content once at startup so the
// Contentful response cache is hot before the first visitor arrives
type WarmingService struct {
	posts    *PostService
	reporter *cleanup.Reporter
}

// NewWarmingService creates a new warming service
func NewWarmingService(posts *PostService, reporter *cleanup.Reporter) *WarmingService {
	return &WarmingService{
		posts:    posts,
		reporter: reporter,
	}
}

// WarmPublished loads the published listing and every post by slug. A failing
// post is reported and skipped; the error names how many failed.
func (ws *WarmingService) WarmPublished(ctx context.Context) error {
	start := time.Now()
	ws.reporter.LogHeader("Cache Warming")

	posts, err := ws.posts.ListPosts(ctx, false)
	if err != nil {
		ws.reporter.LogError("Failed to load post listing", err)
		return fmt.Errorf("failed to warm post listing: %w", err)
	}
	ws.reporter.LogStage("Listing loaded with %d posts", len(posts))
	ws.reporter.LogInfo("Listing carries %d distinct tags", len(DistinctTags(posts)))

	var failed, skipped int
	for _, post := range posts {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if post.Slug == "" {
			ws.reporter.LogWarning("Skipping post %s without a slug", post.ID)
			skipped++
			continue
		}
		if _, err := ws.posts.GetPost(ctx, post.Slug, false); err != nil {
			ws.reporter.LogError(fmt.Sprintf("Failed to warm post %s", post.Slug), err)
			failed++
		}
	}

	ws.reporter.LogSuccess("Warmed %d/%d posts in %v", len(posts)-failed-skipped, len(posts), time.Since(start).Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("warming failed for %d posts", failed)
	}
	return nil
}
