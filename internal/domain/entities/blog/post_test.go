package blog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/richtext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagSlug(t *testing.T) {
	assert.Equal(t, "web-development", TagSlug("Web Development"))
	assert.Equal(t, "go", TagSlug("  Go "))
	assert.Equal(t, "c%23-tips", TagSlug("C# \t tips"))
}

func TestTagFromSlug(t *testing.T) {
	assert.Equal(t, "web development", TagFromSlug("web-development"))
	assert.Equal(t, "c# tips", TagFromSlug("c%23-tips"))
	assert.Equal(t, "", TagFromSlug(""))
}

func TestPostHasTag(t *testing.T) {
	post := &Post{Tags: []string{"Web Development", "Go"}}

	assert.True(t, post.HasTag("web-development"))
	assert.True(t, post.HasTag("WEB-DEVELOPMENT"))
	assert.True(t, post.HasTag("go"))
	assert.False(t, post.HasTag("rust"))
	assert.False(t, post.HasTag(""))

	tag, ok := post.MatchingTag("web-development")
	require.True(t, ok)
	assert.Equal(t, "Web Development", tag)
}

func TestPostWasUpdated(t *testing.T) {
	published := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	assert.False(t, (&Post{DatePublished: published}).WasUpdated())
	assert.False(t, (&Post{DatePublished: published, DateLastUpdated: published.Add(2 * time.Hour)}).WasUpdated())
	assert.True(t, (&Post{DatePublished: published, DateLastUpdated: published.AddDate(0, 0, 3)}).WasUpdated())
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://images.ctfassets.net/a.png", AbsoluteURL("//images.ctfassets.net/a.png"))
	assert.Equal(t, "https://example.com/a.png", AbsoluteURL("https://example.com/a.png"))
	assert.Equal(t, "https://images.ctfassets.net/a.png", AbsoluteURL("images.ctfassets.net/a.png"))
	assert.Equal(t, "/static/a.png", AbsoluteURL("/static/a.png"))
	assert.Equal(t, "", AbsoluteURL(""))
}

func TestAuthorInitial(t *testing.T) {
	assert.Equal(t, "V", (&Author{Name: "vuko"}).Initial())
	assert.Equal(t, "", (&Author{}).Initial())
	var nilAuthor *Author
	assert.Equal(t, "", nilAuthor.Initial())
}

func TestDecodeBody(t *testing.T) {
	t.Run("document", func(t *testing.T) {
		body, err := DecodeBody(json.RawMessage(`{"nodeType":"document","data":{},"content":[{"nodeType":"hr","data":{},"content":[]}]}`))
		require.NoError(t, err)
		doc, ok := body.(DocumentBody)
		require.True(t, ok)
		assert.Equal(t, richtext.NodeDocument, doc.Root.NodeType)
		require.Len(t, doc.Root.Content, 1)
		assert.Equal(t, richtext.NodeHR, doc.Root.Content[0].NodeType)
	})

	t.Run("markdown", func(t *testing.T) {
		body, err := DecodeBody(json.RawMessage(`"# Title\n\ntext"`))
		require.NoError(t, err)
		assert.Equal(t, MarkdownBody{Source: "# Title\n\ntext"}, body)
	})

	t.Run("null is empty markdown", func(t *testing.T) {
		body, err := DecodeBody(json.RawMessage(`null`))
		require.NoError(t, err)
		assert.Equal(t, MarkdownBody{}, body)

		body, err = DecodeBody(nil)
		require.NoError(t, err)
		assert.Equal(t, MarkdownBody{}, body)
	})

	t.Run("other shapes are rejected", func(t *testing.T) {
		_, err := DecodeBody(json.RawMessage(`[1,2]`))
		assert.Error(t, err)
	})
}
