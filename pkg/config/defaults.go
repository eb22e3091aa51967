// Package config provides centralized default values for devlog-go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if _, err := os.Stat(".env"); err != nil {
			return
		}

		log.Println("Loading configuration overrides from .env file...")
		// godotenv.Load never overrides variables already present in the environment
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("WARNING: Failed to parse .env file: %v", err)
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

// getEnvSecret behaves like getEnvString but never echoes the value
func getEnvSecret(key string) string {
	val := os.Getenv(key)
	if val != "" {
		log.Printf("Config override: %s=****", key)
	}
	return val
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	log.Printf("Config override: %s=%s", key, strings.Join(out, ","))
	return out
}

const (
	ContentfulAPIREST    = "rest"
	ContentfulAPIGraphQL = "graphql"

	BodyFormatMarkdown = "markdown"
	BodyFormatRichText = "richtext"
)

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string

	// Contentful
	ContentfulSpaceID            string
	ContentfulEnvironment        string
	ContentfulAccessToken        string
	ContentfulPreviewAccessToken string
	ContentfulPreviewSecret      string
	ContentfulAPI                string
	ContentfulCDAHost            string
	ContentfulPreviewHost        string
	ContentfulGraphQLURL         string
	ContentfulBodyFormat         string
	ContentfulHTTPTimeout        time.Duration
	BlogContentType              string

	// Site
	SiteName   string
	SiteDomain string

	// Revalidation windows for cached Contentful responses
	PublishedRevalidate time.Duration
	PreviewRevalidate   time.Duration

	// Cleanup
	CacheCleanupInterval time.Duration
	CacheCleanupVerbose  bool
	WarmCacheOnStartup   bool

	// Preview cookie
	PreviewCookieSecret string
	PreviewCookieTTL    time.Duration

	// Rendering
	MarkdownAllowHTML  bool
	CodeHighlightStyle string

	// Logging
	LogLevel         string
	LogJSON          bool
	LogDirectory     string
	LogChannelLevels []string
)

func init() {
	Load()
}

// Load (re)reads every setting from the environment
func Load() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://[::1]:3000",
	})

	// Contentful
	ContentfulSpaceID = getEnvString("CONTENTFUL_SPACE_ID", "")
	ContentfulEnvironment = getEnvString("CONTENTFUL_ENVIRONMENT", "master")
	ContentfulAccessToken = getEnvSecret("CONTENTFUL_ACCESS_TOKEN")
	ContentfulPreviewAccessToken = getEnvSecret("CONTENTFUL_PREVIEW_ACCESS_TOKEN")
	ContentfulPreviewSecret = getEnvSecret("CONTENTFUL_PREVIEW_SECRET")
	ContentfulAPI = strings.ToLower(getEnvString("CONTENTFUL_API", ContentfulAPIGraphQL))
	ContentfulCDAHost = getEnvString("CONTENTFUL_CDA_HOST", "cdn.contentful.com")
	ContentfulPreviewHost = getEnvString("CONTENTFUL_PREVIEW_HOST", "preview.contentful.com")
	ContentfulGraphQLURL = getEnvString("CONTENTFUL_GRAPHQL_URL", "https://graphql.contentful.com")
	ContentfulBodyFormat = strings.ToLower(getEnvString("CONTENTFUL_BODY_FORMAT", BodyFormatMarkdown))
	ContentfulHTTPTimeout = getEnvDuration("CONTENTFUL_HTTP_TIMEOUT", 10*time.Second)
	BlogContentType = getEnvString("BLOG_CONTENT_TYPE", "blogPost")

	// Site
	SiteName = getEnvString("SITE_NAME", "DevLog")
	SiteDomain = getEnvString("SITE_DOMAIN", "localhost")

	// Revalidation
	PublishedRevalidate = getEnvDuration("PUBLISHED_REVALIDATE", time.Hour)
	PreviewRevalidate = getEnvDuration("PREVIEW_REVALIDATE", 5*time.Second)

	// Cleanup
	CacheCleanupInterval = getEnvDuration("CACHE_CLEANUP_INTERVAL", 5*time.Minute)
	CacheCleanupVerbose = getEnvBool("CACHE_CLEANUP_VERBOSE", false)
	WarmCacheOnStartup = getEnvBool("WARM_CACHE_ON_STARTUP", true)

	// Preview cookie
	PreviewCookieSecret = getEnvSecret("PREVIEW_COOKIE_SECRET")
	PreviewCookieTTL = getEnvDuration("PREVIEW_COOKIE_TTL", time.Hour)

	// Rendering
	MarkdownAllowHTML = getEnvBool("MARKDOWN_ALLOW_HTML", false)
	CodeHighlightStyle = getEnvString("CODE_HIGHLIGHT_STYLE", "onedark")

	// Logging
	LogLevel = strings.ToLower(getEnvString("LOG_LEVEL", "info"))
	LogJSON = getEnvBool("LOG_JSON", true)
	LogDirectory = getEnvString("LOG_DIRECTORY", "")
	LogChannelLevels = getEnvList("LOG_CHANNEL_LEVELS", nil)
}
