// Package templates turns posts into page-ready HTML: body rendering, excerpts
// and markdown export
package templates

import (
	"fmt"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/blog"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates/markdown"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates/richtext"
)

// ExcerptLength is the rune budget for derived excerpts
const ExcerptLength = 160

// ContentRenderer picks the renderer for a post body variant
type ContentRenderer struct {
	richText *richtext.Renderer
	markdown *markdown.Renderer
}

// NewContentRenderer creates a content renderer
func NewContentRenderer(richText *richtext.Renderer, md *markdown.Renderer) *ContentRenderer {
	return &ContentRenderer{
		richText: richText,
		markdown: md,
	}
}

// RenderBody renders a decoded body. The variant was fixed when the post was
// decoded; nothing here looks at the raw field again.
func (cr *ContentRenderer) RenderBody(body blog.Body) template.HTML {
	switch b := body.(type) {
	case blog.DocumentBody:
		return cr.richText.Render(b.Root)
	case blog.MarkdownBody:
		return cr.markdown.Render(b.Source)
	default:
		return ""
	}
}

// ExcerptFor returns the stored excerpt, or one derived from the rendered body
func (cr *ContentRenderer) ExcerptFor(post *blog.Post) string {
	if post == nil {
		return ""
	}
	if excerpt := strings.TrimSpace(post.Excerpt); excerpt != "" {
		return excerpt
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(cr.RenderBody(post.Body))))
	if err != nil {
		return ""
	}
	doc.Find("pre, figure, iframe, table, .code-block").Remove()
	return truncateWords(strings.Join(strings.Fields(doc.Text()), " "), ExcerptLength)
}

// ExportMarkdown returns the post as a markdown document headed by its title
func (cr *ContentRenderer) ExportMarkdown(post *blog.Post) (string, error) {
	if post == nil {
		return "", fmt.Errorf("no post to export")
	}

	body, err := cr.BodyMarkdown(post.Body)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(post.Heading)
	sb.WriteString("\n\n")
	sb.WriteString(body)
	return sb.String(), nil
}

// BodyMarkdown returns markdown bodies as-is and converts rendered documents
func (cr *ContentRenderer) BodyMarkdown(body blog.Body) (string, error) {
	var md string
	switch b := body.(type) {
	case blog.MarkdownBody:
		md = b.Source
	case blog.DocumentBody:
		converted, err := htmlToMarkdown(string(cr.richText.Render(b.Root)))
		if err != nil {
			return "", err
		}
		md = converted
	}
	return strings.TrimSpace(md) + "\n", nil
}

// htmlToMarkdown drops the code block chrome before converting
func htmlToMarkdown(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing rendered body: %w", err)
	}
	doc.Find(".code-block-header").Remove()

	cleaned, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serializing rendered body: %w", err)
	}

	md, err := htmltomarkdown.ConvertString(cleaned)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return md, nil
}

// truncateWords cuts s at the last word boundary within limit runes
func truncateWords(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
