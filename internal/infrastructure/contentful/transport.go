// Package contentful provides the shared HTTP transport, response caching and
// link resolution used by the REST and GraphQL repositories.
package contentful

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/devlog-go/pkg/config"
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 16 << 20

// Config describes how to reach a Contentful space
type Config struct {
	SpaceID            string
	Environment        string
	AccessToken        string
	PreviewAccessToken string
	CDAHost            string
	PreviewHost        string
	GraphQLURL         string
	Timeout            time.Duration
	PublishedTTL       time.Duration
	PreviewTTL         time.Duration
}

// NewConfigFromEnv builds a Config from the centralized config package
func NewConfigFromEnv() Config {
	return Config{
		SpaceID:            config.ContentfulSpaceID,
		Environment:        config.ContentfulEnvironment,
		AccessToken:        config.ContentfulAccessToken,
		PreviewAccessToken: config.ContentfulPreviewAccessToken,
		CDAHost:            config.ContentfulCDAHost,
		PreviewHost:        config.ContentfulPreviewHost,
		GraphQLURL:         config.ContentfulGraphQLURL,
		Timeout:            config.ContentfulHTTPTimeout,
		PublishedTTL:       config.PublishedRevalidate,
		PreviewTTL:         config.PreviewRevalidate,
	}
}

// Token returns the access token for the requested mode
func (c Config) Token(preview bool) string {
	if preview {
		return c.PreviewAccessToken
	}
	return c.AccessToken
}

// Validate reports missing settings
func (c Config) Validate() error {
	if c.SpaceID == "" {
		return fmt.Errorf("contentful space id is not configured")
	}
	if c.AccessToken == "" {
		return fmt.Errorf("contentful access token is not configured")
	}
	return nil
}

// Transport performs authenticated JSON requests and caches successful
// responses for the published or preview revalidation window
type Transport struct {
	client *http.Client
	cache  *stores.ResponseStore
	cfg    Config
	logger *logging.ChanneledLogger
	perf   *performance.Tracker
}

// NewTransport creates a transport. cache may be nil to disable caching.
func NewTransport(cfg Config, client *http.Client, cache *stores.ResponseStore, logger *logging.ChanneledLogger, perf *performance.Tracker) *Transport {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if perf == nil {
		perf = performance.NewTracker(nil, nil)
	}
	return &Transport{
		client: client,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
		perf:   perf,
	}
}

// Config returns the transport configuration
func (t *Transport) Config() Config {
	return t.cfg
}

// GetJSON issues a GET and decodes the JSON response into out
func (t *Transport) GetJSON(ctx context.Context, url string, preview bool, out any) error {
	body, err := t.do(ctx, http.MethodGet, url, nil, preview)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode contentful response: %w", err)
	}
	return nil
}

// PostJSON encodes payload, issues a POST and decodes the JSON response into out
func (t *Transport) PostJSON(ctx context.Context, url string, payload any, preview bool, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode contentful request: %w", err)
	}
	body, err := t.do(ctx, http.MethodPost, url, encoded, preview)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode contentful response: %w", err)
	}
	return nil
}

func (t *Transport) do(ctx context.Context, method, url string, payload []byte, preview bool) ([]byte, error) {
	variant, ttl := stores.VariantPublished, t.cfg.PublishedTTL
	if preview {
		variant, ttl = stores.VariantPreview, t.cfg.PreviewTTL
	}
	key := stores.BuildResponseKey(variant, method, url, payload)
	logger := t.logger.WithContext(logging.ChannelContentful, ctx)

	if t.cache != nil {
		lookupStart := time.Now()
		if cached, ok := t.cache.Get(key); ok {
			t.logger.LogCacheOperation("contentful_response", key, true, time.Since(lookupStart))
			return cached, nil
		}
		t.logger.LogCacheOperation("contentful_response", key, false, time.Since(lookupStart))
	}

	marker := t.perf.StartOperation("contentful:"+method, string(variant))
	defer marker.Complete()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to build contentful request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.cfg.Token(preview))
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		marker.SetError(err)
		logger.Error("Contentful request failed", "method", method, "url", url, "error", err)
		return nil, fmt.Errorf("contentful request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to read contentful response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, body)
		marker.SetError(apiErr)
		logger.Warn("Contentful returned an error status", "method", method, "url", url, "status", resp.StatusCode, "error", apiErr.Message)
		return nil, apiErr
	}

	logger.Debug("Contentful request completed", "method", method, "url", url, "status", resp.StatusCode, "duration", time.Since(start), "preview", preview)

	if t.cache != nil {
		if hasErrorPayload(body) {
			logger.Debug("Skipping cache for response carrying errors", "method", method, "url", url)
		} else {
			t.cache.Set(key, variant, body, ttl)
		}
	}
	return body, nil
}
