package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/blog"
	rt "github.com/AtRiskMedia/devlog-go/internal/domain/entities/richtext"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates/markdown"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates/richtext"
)

func newContentRenderer() *ContentRenderer {
	return NewContentRenderer(
		richtext.NewRenderer(richtext.Options{SiteDomain: "devlog.example.com"}),
		markdown.NewRenderer(markdown.Options{SiteDomain: "devlog.example.com"}),
	)
}

func text(value string, marks ...rt.MarkType) rt.Node {
	n := rt.Node{NodeType: rt.NodeText, Value: value}
	for _, m := range marks {
		n.Marks = append(n.Marks, rt.Mark{Type: m})
	}
	return n
}

func document(children ...rt.Node) blog.DocumentBody {
	return blog.DocumentBody{Root: rt.Node{NodeType: rt.NodeDocument, Content: children}}
}

func paragraph(children ...rt.Node) rt.Node {
	return rt.Node{NodeType: rt.NodeParagraph, Content: children}
}

func TestRenderBodyDispatchesOnVariant(t *testing.T) {
	cr := newContentRenderer()

	doc := string(cr.RenderBody(document(paragraph(text("from a document", rt.MarkBold)))))
	assert.Contains(t, doc, `<div class="rich-text">`)
	assert.Contains(t, doc, "<strong>from a document</strong>")

	md := string(cr.RenderBody(blog.MarkdownBody{Source: "from *markdown*"}))
	assert.Contains(t, md, `<div class="markdown-content">`)
	assert.Contains(t, md, "<em>markdown</em>")

	assert.Empty(t, cr.RenderBody(nil))
}

func TestExcerptPrefersStoredValue(t *testing.T) {
	cr := newContentRenderer()
	post := &blog.Post{
		Excerpt: "  Hand written summary ",
		Body:    blog.MarkdownBody{Source: "Body text that should not appear"},
	}
	assert.Equal(t, "Hand written summary", cr.ExcerptFor(post))
	assert.Empty(t, cr.ExcerptFor(nil))
}

func TestExcerptDerivedFromBody(t *testing.T) {
	cr := newContentRenderer()
	post := &blog.Post{
		Body: blog.MarkdownBody{Source: "# Intro\n\nFirst   words here.\n\n```go\nfmt.Println(\"skip me\")\n```\n"},
	}

	excerpt := cr.ExcerptFor(post)
	assert.Equal(t, "Intro First words here.", excerpt)
	assert.NotContains(t, excerpt, "skip me")
	assert.NotContains(t, excerpt, "Copy")
}

func TestExcerptIsTruncatedAtWordBoundary(t *testing.T) {
	cr := newContentRenderer()
	post := &blog.Post{Body: blog.MarkdownBody{Source: strings.Repeat("lorem ipsum ", 40)}}

	excerpt := cr.ExcerptFor(post)
	assert.True(t, strings.HasSuffix(excerpt, "…"))
	assert.LessOrEqual(t, len([]rune(excerpt)), ExcerptLength+1)
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(excerpt, "…"), " "))
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "short", truncateWords("short", 10))
	assert.Equal(t, "one two…", truncateWords("one two three", 9))
	assert.Equal(t, "abcdefgh…", truncateWords("abcdefghijkl", 8))
}

func TestExportMarkdownPassesSourceThrough(t *testing.T) {
	cr := newContentRenderer()
	post := &blog.Post{
		Heading: "Hello",
		Body:    blog.MarkdownBody{Source: "\nSome **bold** text.\n\n"},
	}

	out, err := cr.ExportMarkdown(post)
	require.NoError(t, err)
	assert.Equal(t, "# Hello\n\nSome **bold** text.\n", out)
}

func TestExportMarkdownConvertsDocument(t *testing.T) {
	cr := newContentRenderer()
	post := &blog.Post{
		Heading: "Converted",
		Body: document(
			rt.Node{NodeType: rt.NodeHeading2, Content: []rt.Node{text("Section")}},
			paragraph(text("plain and "), text("strong", rt.MarkBold)),
		),
	}

	out, err := cr.ExportMarkdown(post)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Converted\n\n"))
	assert.Contains(t, out, "## Section")
	assert.Contains(t, out, "**strong**")
	assert.NotContains(t, out, "<p")
}

func TestExportMarkdownRejectsNil(t *testing.T) {
	_, err := newContentRenderer().ExportMarkdown(nil)
	assert.Error(t, err)
}
