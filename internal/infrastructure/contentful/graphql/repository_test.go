package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/blog"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/contentful"
)

type capturedRequest struct {
	Path      string
	Auth      string
	Query     string
	Variables map[string]any
}

func newTestRepository(t *testing.T, richText bool, reply string, captured *capturedRequest) *Repository {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		if captured != nil {
			*captured = capturedRequest{
				Path:      r.URL.Path,
				Auth:      r.Header.Get("Authorization"),
				Query:     payload.Query,
				Variables: payload.Variables,
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)

	cfg := contentful.Config{
		SpaceID:            "space",
		Environment:        "master",
		AccessToken:        "cda",
		PreviewAccessToken: "cpa",
		GraphQLURL:         server.URL + "/",
		Timeout:            time.Second,
	}
	repo, err := NewRepository(contentful.NewTransport(cfg, server.Client(), nil, nil, nil), "blogPost", richText, nil)
	require.NoError(t, err)
	return repo
}

func TestFindAllMarkdown(t *testing.T) {
	var req capturedRequest
	repo := newTestRepository(t, false, `{"data":{"posts":{"items":[
		{"sys":{"id":"p1"},"heading":"Hello","slug":"hello","text":"**hi**","datePublished":"2024-03-01T00:00:00.000Z","tags":["Go"],
		 "blogPostFeaturedImage":{"url":"https://images.ctfassets.net/a.png","title":"A","width":640,"height":480},
		 "author":{"name":"Grace","image":null,"joined":"2019-05-01"}}
	]}}}`, &req)

	posts, err := repo.FindAll(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	assert.Equal(t, "/content/v1/spaces/space/environments/master", req.Path)
	assert.Equal(t, "Bearer cpa", req.Auth)
	assert.Equal(t, true, req.Variables["preview"])
	assert.Contains(t, req.Query, "blogPostCollection(order: datePublished_DESC")
	assert.NotContains(t, req.Query, "fragment")

	post := posts[0]
	assert.Equal(t, blog.MarkdownBody{Source: "**hi**"}, post.Body)
	assert.Equal(t, 2024, post.DatePublished.Year())
	require.NotNil(t, post.FeaturedImage)
	assert.Equal(t, 640, post.FeaturedImage.Width)
	require.NotNil(t, post.Author)
	assert.Nil(t, post.Author.Image)
	assert.Equal(t, "G", post.Author.Initial())
}

func TestFindBySlugRichTextResolvesLinks(t *testing.T) {
	var req capturedRequest
	repo := newTestRepository(t, true, `{"data":{"posts":{"items":[
		{"sys":{"id":"p1"},"heading":"Hello","slug":"hello",
		 "text":{
		   "json":{"nodeType":"document","data":{},"content":[
		     {"nodeType":"embedded-asset-block","content":[],"data":{"target":{"sys":{"id":"img","type":"Link","linkType":"Asset"}}}},
		     {"nodeType":"paragraph","data":{},"content":[
		       {"nodeType":"entry-hyperlink","data":{"target":{"sys":{"id":"other","type":"Link","linkType":"Entry"}}},
		        "content":[{"nodeType":"text","value":"see","marks":[],"data":{}}]}
		     ]}
		   ]},
		   "links":{
		     "entries":{"block":[],"inline":[],"hyperlink":[{"__typename":"BlogPost","sys":{"id":"other"},"slug":"other-post"}]},
		     "assets":{"block":[{"sys":{"id":"img"},"url":"//images.ctfassets.net/img.png","title":"Diagram","contentType":"image/png","width":1024,"height":768}],"hyperlink":[]}
		   }
		 }}
	]}}}`, &req)

	post, err := repo.FindBySlug(context.Background(), "hello", false)
	require.NoError(t, err)
	require.NotNil(t, post)

	assert.Equal(t, "hello", req.Variables["slug"])
	assert.Equal(t, "Bearer cda", req.Auth)
	assert.Contains(t, req.Query, "where: { slug: $slug }")
	assert.Contains(t, req.Query, "... on BlogPost { slug heading }")

	doc, ok := post.Body.(blog.DocumentBody)
	require.True(t, ok)

	img := doc.Root.Content[0].Data.Target
	require.True(t, img.IsResolved())
	assert.True(t, img.IsImage())
	w, h := img.ImageSize(800, 600)
	assert.Equal(t, []int{1024, 768}, []int{w, h})

	link := doc.Root.Content[1].Content[0].Data.Target
	require.True(t, link.IsResolved())
	assert.Equal(t, "blogPost", link.ContentTypeID)
	assert.Equal(t, "other-post", link.Fields.Slug)
}

func TestFindBySlugNotFound(t *testing.T) {
	repo := newTestRepository(t, false, `{"data":{"posts":{"items":[]}}}`, nil)

	post, err := repo.FindBySlug(context.Background(), "missing", false)
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestQueryErrorsAreJoined(t *testing.T) {
	repo := newTestRepository(t, false, `{"data":null,"errors":[{"message":"Unknown field"},{"message":"Bad slug"}]}`, nil)

	_, err := repo.FindAll(context.Background(), false)
	var qe *QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, "contentful graphql: Unknown field; Bad slug", qe.Error())
}

func TestSlugExists(t *testing.T) {
	var req capturedRequest
	repo := newTestRepository(t, false, `{"data":{"matches":{"total":1}}}`, &req)

	exists, err := repo.SlugExists(context.Background(), "post", "draft")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Contains(t, req.Query, "postCollection(where: { slug: $slug }, preview: true")
	assert.Equal(t, "Bearer cpa", req.Auth)

	_, err = repo.SlugExists(context.Background(), "post) { evil }", "x")
	assert.Error(t, err)
}

func TestNewRepositoryRejectsBadContentType(t *testing.T) {
	_, err := NewRepository(nil, "blog-post", false, nil)
	assert.Error(t, err)
}

func TestTypenameFor(t *testing.T) {
	assert.Equal(t, "BlogPost", typenameFor("blogPost"))
	assert.Equal(t, "Post", typenameFor("post"))
	assert.True(t, isIdentifier("blog_post2"))
	assert.False(t, isIdentifier("2post"))
	assert.False(t, isIdentifier(""))
}
