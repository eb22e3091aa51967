// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/AtRiskMedia/devlog-go/internal/application/services"
	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/blog"
	"github.com/AtRiskMedia/devlog-go/internal/domain/repositories"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/caching/cleanup"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/contentful"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/contentful/delivery"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/contentful/graphql"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates/markdown"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates/pages"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates/richtext"
	"github.com/AtRiskMedia/devlog-go/pkg/config"
)

// Settings are the values the container wires into services and handlers
type Settings struct {
	SiteName            string
	SiteDomain          string
	ContentType         string
	PreviewSecret       string
	PreviewCookieSecret string
	PreviewCookieTTL    time.Duration
	PublishedRevalidate time.Duration
	MarkdownAllowHTML   bool
	CodeHighlightStyle  string
}

// SettingsFromEnv reads Settings from the centralized config package
func SettingsFromEnv() Settings {
	return Settings{
		SiteName:            config.SiteName,
		SiteDomain:          config.SiteDomain,
		ContentType:         config.BlogContentType,
		PreviewSecret:       config.ContentfulPreviewSecret,
		PreviewCookieSecret: config.PreviewCookieSecret,
		PreviewCookieTTL:    config.PreviewCookieTTL,
		PublishedRevalidate: config.PublishedRevalidate,
		MarkdownAllowHTML:   config.MarkdownAllowHTML,
		CodeHighlightStyle:  config.CodeHighlightStyle,
	}
}

// Deps are the infrastructure pieces Assemble builds on. Nil members get
// in-memory defaults.
type Deps struct {
	PostRepo      repositories.PostRepository
	Logger        *logging.ChanneledLogger
	PerfTracker   *performance.Tracker
	ResponseCache *stores.ResponseStore
	Transport     *contentful.Transport
}

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	Settings Settings

	// Application services
	PostService    *services.PostService
	WarmingService *services.WarmingService

	// Rendering
	ContentRenderer *templates.ContentRenderer
	Pages           *template.Template

	// Infrastructure
	PostRepo      repositories.PostRepository
	Transport     *contentful.Transport
	ResponseCache *stores.ResponseStore
	Logger        *logging.ChanneledLogger
	PerfTracker   *performance.Tracker
}

// NewContainer creates the logger, the Contentful repository selected by
// configuration, and everything built on top of them
func NewContainer() (*Container, error) {
	logger, err := logging.NewChanneledLogger(loggerConfigFromEnv())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	for _, err := range ApplyChannelLevels(logger, config.LogChannelLevels) {
		logger.System().Warn("Ignoring channel level override", "error", err.Error())
	}

	cfg := contentful.NewConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cache := stores.NewResponseStore()
	perf := performance.NewTracker(nil, logger.Perf())
	transport := contentful.NewTransport(cfg, nil, cache, logger, perf)

	settings := SettingsFromEnv()
	repo, err := NewPostRepository(config.ContentfulAPI, config.ContentfulBodyFormat, transport, settings.ContentType, logger)
	if err != nil {
		return nil, err
	}

	return Assemble(Deps{
		PostRepo:      repo,
		Logger:        logger,
		PerfTracker:   perf,
		ResponseCache: cache,
		Transport:     transport,
	}, settings)
}

// NewPostRepository picks the REST or GraphQL repository
func NewPostRepository(api, bodyFormat string, transport *contentful.Transport, contentType string, logger *logging.ChanneledLogger) (repositories.PostRepository, error) {
	switch api {
	case config.ContentfulAPIREST:
		return delivery.NewRepository(transport, contentType, logger), nil
	case config.ContentfulAPIGraphQL:
		switch bodyFormat {
		case config.BodyFormatMarkdown, config.BodyFormatRichText:
		default:
			return nil, fmt.Errorf("unsupported body format %q", bodyFormat)
		}
		return graphql.NewRepository(transport, contentType, bodyFormat == config.BodyFormatRichText, logger)
	default:
		return nil, fmt.Errorf("unsupported contentful api %q", api)
	}
}

// Assemble wires services, renderers and templates around deps
func Assemble(deps Deps, settings Settings) (*Container, error) {
	if deps.PostRepo == nil {
		return nil, fmt.Errorf("post repository is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	perf := deps.PerfTracker
	if perf == nil {
		perf = performance.NewTracker(nil, logger.Perf())
	}
	cache := deps.ResponseCache
	if cache == nil {
		cache = stores.NewResponseStore()
	}
	if settings.ContentType == "" {
		settings.ContentType = blog.ContentTypeID
	}

	if settings.PreviewCookieSecret == "" {
		secret, err := security.GenerateSecureKey(64)
		if err != nil {
			return nil, err
		}
		settings.PreviewCookieSecret = secret
		logger.Startup().Warn("PREVIEW_COOKIE_SECRET not set, preview cookies will not survive a restart")
	}

	pageTemplates, err := pages.Parse()
	if err != nil {
		return nil, err
	}

	postService := services.NewPostService(deps.PostRepo, settings.ContentType, settings.PreviewSecret, logger)
	contentRenderer := templates.NewContentRenderer(
		richtext.NewRenderer(richtext.Options{
			SiteDomain: settings.SiteDomain,
			Logger:     logger,
		}),
		markdown.NewRenderer(markdown.Options{
			SiteDomain: settings.SiteDomain,
			AllowHTML:  settings.MarkdownAllowHTML,
			CodeStyle:  settings.CodeHighlightStyle,
			Logger:     logger,
		}),
	)

	return &Container{
		Settings:        settings,
		PostService:     postService,
		WarmingService:  services.NewWarmingService(postService, cleanup.NewReporter(cache)),
		ContentRenderer: contentRenderer,
		Pages:           pageTemplates,
		PostRepo:        deps.PostRepo,
		Transport:       deps.Transport,
		ResponseCache:   cache,
		Logger:          logger,
		PerfTracker:     perf,
	}, nil
}

// ApplyChannelLevels sets per-channel levels from "channel=level" entries and
// returns one error per entry it could not apply
func ApplyChannelLevels(logger *logging.ChanneledLogger, entries []string) []error {
	var errs []error
	for _, entry := range entries {
		channel, level, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(level) == "" {
			errs = append(errs, fmt.Errorf("malformed channel level %q", entry))
			continue
		}
		channel = strings.ToLower(strings.TrimSpace(channel))
		if err := logger.SetChannelLevel(logging.Channel(channel), logging.ParseLevel(level)); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func loggerConfigFromEnv() *logging.LoggerConfig {
	cfg := logging.DefaultLoggerConfig()
	cfg.DefaultLevel = logging.ParseLevel(config.LogLevel)
	cfg.JSONFormat = config.LogJSON
	cfg.LogDirectory = config.LogDirectory
	return cfg
}
