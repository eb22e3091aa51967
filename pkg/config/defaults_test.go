package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CONTENTFUL_API", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	Load()

	assert.Equal(t, "8080", Port)
	assert.Equal(t, ContentfulAPIGraphQL, ContentfulAPI)
	assert.Equal(t, BodyFormatMarkdown, ContentfulBodyFormat)
	assert.Equal(t, "blogPost", BlogContentType)
	assert.Equal(t, time.Hour, PublishedRevalidate)
	assert.Equal(t, 5*time.Second, PreviewRevalidate)
	assert.Contains(t, CORSAllowedOrigins, "http://localhost:3000")
}

func TestLoadOverrides(t *testing.T) {
	// registered first so it runs after the environment is restored
	t.Cleanup(Load)
	t.Setenv("PORT", "9090")
	t.Setenv("CONTENTFUL_API", "REST")
	t.Setenv("PREVIEW_REVALIDATE", "30s")
	t.Setenv("MARKDOWN_ALLOW_HTML", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("CACHE_CLEANUP_INTERVAL", "not-a-duration")
	Load()

	assert.Equal(t, "9090", Port)
	assert.Equal(t, ContentfulAPIREST, ContentfulAPI)
	assert.Equal(t, 30*time.Second, PreviewRevalidate)
	assert.True(t, MarkdownAllowHTML)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, CORSAllowedOrigins)
	assert.Equal(t, 5*time.Minute, CacheCleanupInterval)
}
