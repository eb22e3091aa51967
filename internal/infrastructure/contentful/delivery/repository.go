// Package delivery implements the post repository on the Contentful Content
// Delivery and Content Preview REST APIs.
package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/blog"
	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/richtext"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/contentful"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/logging"
)

// listLimit is the delivery API page size maximum
const listLimit = 1000

// Repository reads blog posts over the REST APIs
type Repository struct {
	transport   *contentful.Transport
	contentType string
	logger      *logging.ChanneledLogger
}

// NewRepository creates a REST post repository for contentType
func NewRepository(transport *contentful.Transport, contentType string, logger *logging.ChanneledLogger) *Repository {
	if contentType == "" {
		contentType = blog.ContentTypeID
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Repository{
		transport:   transport,
		contentType: contentType,
		logger:      logger,
	}
}

// FindAll returns every post, newest first
func (r *Repository) FindAll(ctx context.Context, preview bool) ([]*blog.Post, error) {
	params := url.Values{}
	params.Set("content_type", r.contentType)
	params.Set("order", "-fields.datePublished")
	params.Set("include", "2")
	params.Set("limit", strconv.Itoa(listLimit))

	var collection entryCollection
	if err := r.transport.GetJSON(ctx, r.entriesURL(preview, params), preview, &collection); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	idx := newIncludeIndex(collection.Includes)
	posts := make([]*blog.Post, 0, len(collection.Items))
	for _, item := range collection.Items {
		post, err := idx.decodePost(item)
		if err != nil {
			r.logger.WithContext(logging.ChannelContentful, ctx).Warn("Skipping undecodable post", "entryId", item.Sys.ID, "error", err)
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// FindBySlug returns the post with slug, or nil when there is none
func (r *Repository) FindBySlug(ctx context.Context, slug string, preview bool) (*blog.Post, error) {
	params := url.Values{}
	params.Set("content_type", r.contentType)
	params.Set("fields.slug", slug)
	params.Set("include", "2")
	params.Set("limit", "1")

	var collection entryCollection
	if err := r.transport.GetJSON(ctx, r.entriesURL(preview, params), preview, &collection); err != nil {
		return nil, fmt.Errorf("failed to fetch post %s: %w", slug, err)
	}
	if len(collection.Items) == 0 {
		return nil, nil
	}

	post, err := newIncludeIndex(collection.Includes).decodePost(collection.Items[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode post %s: %w", slug, err)
	}
	return post, nil
}

// SlugExists asks the preview API whether an entry of contentType has slug
func (r *Repository) SlugExists(ctx context.Context, contentType, slug string) (bool, error) {
	params := url.Values{}
	params.Set("content_type", contentType)
	params.Set("fields.slug", slug)
	params.Set("select", "sys.id")
	params.Set("limit", "1")

	var collection entryCollection
	if err := r.transport.GetJSON(ctx, r.entriesURL(true, params), true, &collection); err != nil {
		return false, fmt.Errorf("failed to check slug %s: %w", slug, err)
	}
	return len(collection.Items) > 0, nil
}

func (r *Repository) entriesURL(preview bool, params url.Values) string {
	cfg := r.transport.Config()
	host := cfg.CDAHost
	if preview {
		host = cfg.PreviewHost
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		strings.TrimRight(host, "/"),
		url.PathEscape(cfg.SpaceID),
		url.PathEscape(cfg.Environment),
		params.Encode())
}

type entryCollection struct {
	Total    int        `json:"total"`
	Items    []rawEntry `json:"items"`
	Includes includes   `json:"includes"`
}

type includes struct {
	Entry []json.RawMessage `json:"Entry"`
	Asset []json.RawMessage `json:"Asset"`
}

type rawEntry struct {
	Sys struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"sys"`
	Fields map[string]json.RawMessage `json:"fields"`
}

type link struct {
	Sys struct {
		ID       string `json:"id"`
		LinkType string `json:"linkType"`
	} `json:"sys"`
}

func (l *link) target() *richtext.EmbeddedTarget {
	if l == nil {
		return nil
	}
	return &richtext.EmbeddedTarget{ID: l.Sys.ID, Type: richtext.TargetLink, LinkType: l.Sys.LinkType}
}

type postFields struct {
	Heading         string          `json:"heading"`
	Slug            string          `json:"slug"`
	Text            json.RawMessage `json:"text"`
	Excerpt         string          `json:"excerpt"`
	DatePublished   string          `json:"datePublished"`
	DateLastUpdated string          `json:"dateLastUpdated"`
	Tags            []string        `json:"tags"`
	FeaturedImage   *link           `json:"blogPostFeaturedImage"`
	Author          *link           `json:"author"`
}

type authorFields struct {
	Name   string `json:"name"`
	Image  *link  `json:"image"`
	Joined string `json:"joined"`
}

// includeIndex resolves links against the includes block of one response
type includeIndex struct {
	resolver *contentful.Resolver
	entries  map[string]map[string]json.RawMessage
}

func newIncludeIndex(inc includes) *includeIndex {
	idx := &includeIndex{
		resolver: contentful.NewResolver(),
		entries:  make(map[string]map[string]json.RawMessage),
	}
	for _, raw := range append(append([]json.RawMessage{}, inc.Entry...), inc.Asset...) {
		var target richtext.EmbeddedTarget
		if err := json.Unmarshal(raw, &target); err != nil {
			continue
		}
		idx.resolver.Add(&target)

		if target.Type == richtext.TargetEntry {
			var entry rawEntry
			if err := json.Unmarshal(raw, &entry); err == nil {
				idx.entries[entry.Sys.ID] = entry.Fields
			}
		}
	}
	return idx
}

func (idx *includeIndex) decodePost(item rawEntry) (*blog.Post, error) {
	encoded, err := json.Marshal(item.Fields)
	if err != nil {
		return nil, err
	}
	var fields postFields
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil, fmt.Errorf("unexpected post fields: %w", err)
	}

	body, err := blog.DecodeBody(fields.Text)
	if err != nil {
		return nil, err
	}
	if doc, ok := body.(blog.DocumentBody); ok {
		idx.resolver.ResolveDocument(&doc.Root)
		body = doc
	}

	post := &blog.Post{
		ID:              item.Sys.ID,
		Heading:         fields.Heading,
		Slug:            fields.Slug,
		Body:            body,
		Excerpt:         fields.Excerpt,
		DatePublished:   contentful.ParseDate(fields.DatePublished),
		DateLastUpdated: contentful.ParseDate(fields.DateLastUpdated),
		Tags:            fields.Tags,
		FeaturedImage:   contentful.AssetFromTarget(idx.resolver.Lookup(fields.FeaturedImage.target())),
		Author:          idx.author(fields.Author),
	}
	return post, nil
}

func (idx *includeIndex) author(l *link) *blog.Author {
	if l == nil {
		return nil
	}
	raw, ok := idx.entries[l.Sys.ID]
	if !ok {
		return nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var fields authorFields
	if err := json.Unmarshal(encoded, &fields); err != nil || fields.Name == "" {
		return nil
	}
	return &blog.Author{
		Name:   fields.Name,
		Image:  contentful.AssetFromTarget(idx.resolver.Lookup(fields.Image.target())),
		Joined: contentful.ParseDate(fields.Joined),
	}
}
