// Package graphql implements the post repository on the Contentful GraphQL
// Content API.
package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/blog"
	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/richtext"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/contentful"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/logging"
)

// QueryError carries the errors array of a GraphQL response
type QueryError struct {
	Messages []string
}

func (e *QueryError) Error() string {
	return "contentful graphql: " + strings.Join(e.Messages, "; ")
}

// Repository reads blog posts over GraphQL
type Repository struct {
	transport *contentful.Transport
	queries   *queryBuilder
	logger    *logging.ChanneledLogger
}

// NewRepository creates a GraphQL post repository. richText selects the
// document body shape instead of the markdown string.
func NewRepository(transport *contentful.Transport, contentType string, richText bool, logger *logging.ChanneledLogger) (*Repository, error) {
	if contentType == "" {
		contentType = blog.ContentTypeID
	}
	queries, err := newQueryBuilder(contentType, richText)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Repository{
		transport: transport,
		queries:   queries,
		logger:    logger,
	}, nil
}

// FindAll returns every post, newest first
func (r *Repository) FindAll(ctx context.Context, preview bool) ([]*blog.Post, error) {
	var data postsData
	if err := r.query(ctx, r.queries.listQuery(), map[string]any{"preview": preview}, preview, &data); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]*blog.Post, 0, len(data.Posts.Items))
	for _, item := range data.Posts.Items {
		post, err := item.toPost()
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
	var data postsData
	vars := map[string]any{"slug": slug, "preview": preview}
	if err := r.query(ctx, r.queries.slugQuery(), vars, preview, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch post %s: %w", slug, err)
	}
	if len(data.Posts.Items) == 0 {
		return nil, nil
	}

	post, err := data.Posts.Items[0].toPost()
	if err != nil {
		return nil, fmt.Errorf("failed to decode post %s: %w", slug, err)
	}
	return post, nil
}

// SlugExists asks the preview API whether an entry of contentType has slug
func (r *Repository) SlugExists(ctx context.Context, contentType, slug string) (bool, error) {
	q, err := existsQuery(contentType)
	if err != nil {
		return false, err
	}
	var data struct {
		Matches *struct {
			Total int `json:"total"`
		} `json:"matches"`
	}
	if err := r.query(ctx, q, map[string]any{"slug": slug}, true, &data); err != nil {
		return false, fmt.Errorf("failed to check slug %s: %w", slug, err)
	}
	return data.Matches != nil && data.Matches.Total > 0, nil
}

func (r *Repository) query(ctx context.Context, query string, vars map[string]any, preview bool, out any) error {
	payload := map[string]any{"query": query, "variables": vars}

	var resp struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := r.transport.PostJSON(ctx, r.endpoint(), payload, preview, &resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		qe := &QueryError{}
		for _, e := range resp.Errors {
			qe.Messages = append(qe.Messages, e.Message)
		}
		return qe
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return &QueryError{Messages: []string{"response carried no data"}}
	}
	return json.Unmarshal(resp.Data, out)
}

func (r *Repository) endpoint() string {
	cfg := r.transport.Config()
	return fmt.Sprintf("%s/content/v1/spaces/%s/environments/%s",
		strings.TrimRight(cfg.GraphQLURL, "/"),
		url.PathEscape(cfg.SpaceID),
		url.PathEscape(cfg.Environment))
}

type postsData struct {
	Posts struct {
		Items []postItem `json:"items"`
	} `json:"posts"`
}

type sys struct {
	ID string `json:"id"`
}

type postItem struct {
	Sys             sys             `json:"sys"`
	Heading         string          `json:"heading"`
	Slug            string          `json:"slug"`
	Text            json.RawMessage `json:"text"`
	Excerpt         string          `json:"excerpt"`
	DatePublished   string          `json:"datePublished"`
	DateLastUpdated string          `json:"dateLastUpdated"`
	Tags            []string        `json:"tags"`
	FeaturedImage   *asset          `json:"blogPostFeaturedImage"`
	Author          *author         `json:"author"`
}

type asset struct {
	Sys         sys    `json:"sys"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Size        int64  `json:"size"`
}

type author struct {
	Name   string `json:"name"`
	Image  *asset `json:"image"`
	Joined string `json:"joined"`
}

type entry struct {
	Typename string `json:"__typename"`
	Sys      sys    `json:"sys"`
	Slug     string `json:"slug"`
	Heading  string `json:"heading"`
}

type richTextField struct {
	JSON  json.RawMessage `json:"json"`
	Links struct {
		Entries struct {
			Block     []entry `json:"block"`
			Inline    []entry `json:"inline"`
			Hyperlink []entry `json:"hyperlink"`
		} `json:"entries"`
		Assets struct {
			Block     []asset `json:"block"`
			Hyperlink []asset `json:"hyperlink"`
		} `json:"assets"`
	} `json:"links"`
}

func (p postItem) toPost() (*blog.Post, error) {
	body, err := decodeText(p.Text)
	if err != nil {
		return nil, err
	}

	post := &blog.Post{
		ID:              p.Sys.ID,
		Heading:         p.Heading,
		Slug:            p.Slug,
		Body:            body,
		Excerpt:         p.Excerpt,
		DatePublished:   contentful.ParseDate(p.DatePublished),
		DateLastUpdated: contentful.ParseDate(p.DateLastUpdated),
		Tags:            p.Tags,
		FeaturedImage:   p.FeaturedImage.toBlogAsset(),
	}
	if p.Author != nil && p.Author.Name != "" {
		post.Author = &blog.Author{
			Name:   p.Author.Name,
			Image:  p.Author.Image.toBlogAsset(),
			Joined: contentful.ParseDate(p.Author.Joined),
		}
	}
	return post, nil
}

// decodeText accepts either the markdown string or the {json, links} object
func decodeText(raw json.RawMessage) (blog.Body, error) {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "{") {
		return blog.DecodeBody(raw)
	}

	var field richTextField
	if err := json.Unmarshal(raw, &field); err != nil {
		return nil, fmt.Errorf("unexpected rich text field: %w", err)
	}
	if len(field.JSON) == 0 {
		return blog.DecodeBody(raw)
	}

	body, err := blog.DecodeBody(field.JSON)
	if err != nil {
		return nil, err
	}
	doc, ok := body.(blog.DocumentBody)
	if !ok {
		return body, nil
	}

	resolver := contentful.NewResolver()
	links := field.Links
	for _, group := range [][]entry{links.Entries.Block, links.Entries.Inline, links.Entries.Hyperlink} {
		for _, e := range group {
			resolver.Add(e.toTarget())
		}
	}
	for _, group := range [][]asset{links.Assets.Block, links.Assets.Hyperlink} {
		for _, a := range group {
			resolver.Add(a.toTarget())
		}
	}
	resolver.ResolveDocument(&doc.Root)
	return doc, nil
}

func (e entry) toTarget() *richtext.EmbeddedTarget {
	return &richtext.EmbeddedTarget{
		ID:            e.Sys.ID,
		Type:          richtext.TargetEntry,
		ContentTypeID: contentful.ContentTypeFromTypename(e.Typename),
		Fields:        richtext.TargetFields{Slug: e.Slug, Heading: e.Heading},
	}
}

func (a asset) toTarget() *richtext.EmbeddedTarget {
	target := &richtext.EmbeddedTarget{
		ID:   a.Sys.ID,
		Type: richtext.TargetAsset,
		Fields: richtext.TargetFields{
			Title:       a.Title,
			Description: a.Description,
		},
	}
	if a.URL != "" {
		file := &richtext.AssetFile{URL: a.URL, FileName: a.FileName, ContentType: a.ContentType}
		if a.Size > 0 || a.Width > 0 || a.Height > 0 {
			file.Details = &richtext.FileDetails{Size: a.Size}
			if a.Width > 0 || a.Height > 0 {
				file.Details.Image = &richtext.ImageDetails{Width: a.Width, Height: a.Height}
			}
		}
		target.Fields.File = file
	}
	return target
}

func (a *asset) toBlogAsset() *blog.Asset {
	if a == nil || a.URL == "" {
		return nil
	}
	return &blog.Asset{
		URL:         a.URL,
		Title:       a.Title,
		Description: a.Description,
		Width:       a.Width,
		Height:      a.Height,
	}
}
