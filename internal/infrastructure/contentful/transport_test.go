package contentful

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/richtext"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/caching/stores"
)

func testConfig(server *httptest.Server) Config {
	return Config{
		SpaceID:            "space",
		Environment:        "master",
		AccessToken:        "cda-token",
		PreviewAccessToken: "preview-token",
		CDAHost:            server.URL,
		PreviewHost:        server.URL,
		GraphQLURL:         server.URL + "/graphql",
		Timeout:            time.Second,
		PublishedTTL:       time.Hour,
		PreviewTTL:         5 * time.Second,
	}
}

func TestTransportSendsTokenForMode(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	tr := NewTransport(testConfig(server), server.Client(), nil, nil, nil)
	var out map[string]bool
	require.NoError(t, tr.GetJSON(context.Background(), server.URL+"/a", false, &out))
	require.NoError(t, tr.GetJSON(context.Background(), server.URL+"/a", true, &out))

	assert.Equal(t, []string{"Bearer cda-token", "Bearer preview-token"}, seen)
	assert.True(t, out["ok"])
}

func TestTransportCachesPerVariant(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cache := stores.NewResponseStore()
	tr := NewTransport(testConfig(server), server.Client(), cache, nil, nil)
	var out map[string]any

	for i := 0; i < 3; i++ {
		require.NoError(t, tr.GetJSON(context.Background(), server.URL+"/entries", false, &out))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	require.NoError(t, tr.GetJSON(context.Background(), server.URL+"/entries", true, &out))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "preview must not reuse the published entry")

	require.NoError(t, tr.PostJSON(context.Background(), server.URL+"/graphql", map[string]string{"q": "a"}, false, &out))
	require.NoError(t, tr.PostJSON(context.Background(), server.URL+"/graphql", map[string]string{"q": "b"}, false, &out))
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls), "different bodies are different keys")
}

func TestTransportReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"sys":{"type":"Error","id":"AccessTokenInvalid"},"message":"The access token you sent could not be found or is invalid."}`))
	}))
	defer server.Close()

	cache := stores.NewResponseStore()
	tr := NewTransport(testConfig(server), server.Client(), cache, nil, nil)
	var out map[string]any
	err := tr.GetJSON(context.Background(), server.URL+"/entries", false, &out)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "AccessTokenInvalid", apiErr.ErrorID)
	assert.Contains(t, apiErr.Error(), "could not be found")
	assert.Equal(t, 0, cache.Summary()["entries"], "errors are not cached")
}

func TestTransportSkipsCachingQueryErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"data":null,"errors":[{"message":"Cannot query field \"postCollection\" on type \"Query\"."}]}`))
	}))
	defer server.Close()

	cache := stores.NewResponseStore()
	tr := NewTransport(testConfig(server), server.Client(), cache, nil, nil)
	var out map[string]any

	for i := 0; i < 2; i++ {
		require.NoError(t, tr.PostJSON(context.Background(), server.URL+"/graphql", map[string]string{"query": "{ postCollection { total } }"}, false, &out))
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 0, cache.Summary()["entries"])
}

func TestHasErrorPayload(t *testing.T) {
	assert.True(t, hasErrorPayload([]byte(`{"errors":[{"message":"x"}]}`)))
	assert.False(t, hasErrorPayload([]byte(`{"data":{},"errors":[]}`)))
	assert.False(t, hasErrorPayload([]byte(`{"items":[]}`)))
	assert.False(t, hasErrorPayload([]byte(`not json`)))
}

func TestNewAPIErrorJoinsGraphQLErrors(t *testing.T) {
	err := newAPIError(http.StatusBadRequest, []byte(`{"errors":[{"message":"first"},{"message":"second"}]}`))
	assert.Equal(t, "first; second", err.Message)

	err = newAPIError(http.StatusBadGateway, []byte(`<html>`))
	assert.Equal(t, "Bad Gateway", err.Message)
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{SpaceID: "s"}.Validate())
	assert.NoError(t, Config{SpaceID: "s", AccessToken: "t"}.Validate())
}

func TestResolveDocumentReplacesLinks(t *testing.T) {
	r := NewResolver()
	r.Add(&richtext.EmbeddedTarget{ID: "img", Type: richtext.TargetAsset, Fields: richtext.TargetFields{Title: "Diagram"}})
	r.Add(&richtext.EmbeddedTarget{ID: "post", Type: richtext.TargetEntry, ContentTypeID: "blogPost", Fields: richtext.TargetFields{Slug: "other"}})

	doc := richtext.Node{
		NodeType: richtext.NodeDocument,
		Content: []richtext.Node{
			{NodeType: richtext.NodeEmbeddedAsset, Data: richtext.NodeData{Target: &richtext.EmbeddedTarget{ID: "img", Type: richtext.TargetLink, LinkType: "Asset"}}},
			{NodeType: richtext.NodeParagraph, Content: []richtext.Node{
				{NodeType: richtext.NodeEntryHyperlink, Data: richtext.NodeData{Target: &richtext.EmbeddedTarget{ID: "post", Type: richtext.TargetLink, LinkType: "Entry"}}},
			}},
			{NodeType: richtext.NodeEmbeddedEntry, Data: richtext.NodeData{Target: &richtext.EmbeddedTarget{ID: "missing", Type: richtext.TargetLink, LinkType: "Entry"}}},
		},
	}
	r.ResolveDocument(&doc)

	assert.Equal(t, "Diagram", doc.Content[0].Data.Target.Fields.Title)
	assert.Equal(t, "other", doc.Content[1].Content[0].Data.Target.Fields.Slug)
	assert.False(t, doc.Content[2].Data.Target.IsResolved())
}

func TestContentTypeFromTypename(t *testing.T) {
	assert.Equal(t, "blogPost", ContentTypeFromTypename("BlogPost"))
	assert.Equal(t, "videoEmbed", ContentTypeFromTypename("VideoEmbed"))
	assert.Equal(t, "", ContentTypeFromTypename(""))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-01T10:30:00Z", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"2024-03-01T10:30+00:00", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"yesterday", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, tt.want.Equal(ParseDate(tt.in)), "got %v", ParseDate(tt.in))
		})
	}
}

func TestAssetFromTarget(t *testing.T) {
	assert.Nil(t, AssetFromTarget(nil))
	assert.Nil(t, AssetFromTarget(&richtext.EmbeddedTarget{Type: richtext.TargetAsset}))

	asset := AssetFromTarget(&richtext.EmbeddedTarget{
		Type: richtext.TargetAsset,
		Fields: richtext.TargetFields{
			Title: "Cover",
			File: &richtext.AssetFile{
				URL:     "//images.ctfassets.net/cover.png",
				Details: &richtext.FileDetails{Image: &richtext.ImageDetails{Width: 1200, Height: 630}},
			},
		},
	})
	require.NotNil(t, asset)
	assert.Equal(t, "Cover", asset.Title)
	assert.Equal(t, 1200, asset.Width)
	assert.Equal(t, "https://images.ctfassets.net/cover.png", asset.AbsoluteURL())
}
