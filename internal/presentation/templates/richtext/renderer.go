// Package richtext renders Contentful rich-text documents to HTML
package richtext

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/blog"
	rt "github.com/AtRiskMedia/devlog-go/internal/domain/entities/richtext"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates/elements"
)

const (
	defaultImageWidth  = 800
	defaultImageHeight = 600
)

// nodeRenderFunc maps a node and its already-rendered children to markup
type nodeRenderFunc func(n rt.Node, children template.HTML) template.HTML

// Options configures a Renderer
type Options struct {
	// SiteDomain decides which absolute hyperlinks count as internal
	SiteDomain string
	Logger     *logging.ChanneledLogger
}

// Renderer turns document trees into HTML. It holds no per-render state and
// is safe for concurrent use.
type Renderer struct {
	siteDomain string
	logger     *logging.ChanneledLogger
	handlers   map[rt.NodeType]nodeRenderFunc
}

// NewRenderer builds the dispatch table once
func NewRenderer(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	r := &Renderer{
		siteDomain: opts.SiteDomain,
		logger:     logger,
	}
	r.handlers = map[rt.NodeType]nodeRenderFunc{
		rt.NodeText:                r.renderText,
		rt.NodeParagraph:           r.renderParagraph,
		rt.NodeHeading1:            r.renderHeading,
		rt.NodeHeading2:            r.renderHeading,
		rt.NodeHeading3:            r.renderHeading,
		rt.NodeHeading4:            r.renderHeading,
		rt.NodeHeading5:            r.renderHeading,
		rt.NodeHeading6:            r.renderHeading,
		rt.NodeUnorderedList:       wrap(`<ul class="`+elements.ClassUnorderedList+`">`, `</ul>`),
		rt.NodeOrderedList:         wrap(`<ol class="`+elements.ClassOrderedList+`">`, `</ol>`),
		rt.NodeListItem:            wrap(`<li class="`+elements.ClassListItem+`">`, `</li>`),
		rt.NodeBlockquote:          wrap(`<blockquote class="`+elements.ClassBlockquote+`">`, `</blockquote>`),
		rt.NodeHR:                  renderHR,
		rt.NodeHyperlink:           r.renderHyperlink,
		rt.NodeEntryHyperlink:      r.renderEntryHyperlink,
		rt.NodeAssetHyperlink:      r.renderAssetHyperlink,
		rt.NodeEmbeddedAsset:       r.renderEmbeddedAsset,
		rt.NodeEmbeddedEntry:       r.renderEmbeddedEntry,
		rt.NodeEmbeddedEntryInline: r.renderEmbeddedEntryInline,
		rt.NodeTable:               wrap(`<div class="`+elements.ClassTableWrapper+`"><table class="`+elements.ClassTable+`"><tbody>`, `</tbody></table></div>`),
		rt.NodeTableRow:            wrap(`<tr class="`+elements.ClassTableRow+`">`, `</tr>`),
		rt.NodeTableCell:           renderTableCell,
		rt.NodeTableHeaderCell:     renderTableCell,
	}
	return r
}

// RenderFragments renders each child of root in document order
func (r *Renderer) RenderFragments(root rt.Node) []template.HTML {
	fragments := make([]template.HTML, 0, len(root.Content))
	for _, child := range root.Content {
		fragments = append(fragments, r.renderNode(child))
	}
	return fragments
}

// Render renders a whole document inside the rich-text container
func (r *Renderer) Render(root rt.Node) template.HTML {
	var sb strings.Builder
	sb.WriteString(`<div class="rich-text">`)
	for _, fragment := range r.RenderFragments(root) {
		sb.WriteString(string(fragment))
	}
	sb.WriteString(`</div>`)
	return template.HTML(sb.String())
}

// renderNode renders children first, then applies the handler for the kind.
// Kinds without a handler contribute nothing.
func (r *Renderer) renderNode(n rt.Node) template.HTML {
	handler, ok := r.handlers[n.NodeType]
	if !ok {
		r.logger.Debug().Debug("Rich text node miss", "nodeType", string(n.NodeType))
		return ""
	}

	var children strings.Builder
	for _, child := range n.Content {
		children.WriteString(string(r.renderNode(child)))
	}
	return handler(n, template.HTML(children.String()))
}

func wrap(openTag, closeTag string) nodeRenderFunc {
	return func(_ rt.Node, children template.HTML) template.HTML {
		return template.HTML(openTag) + children + template.HTML(closeTag)
	}
}

func renderHR(rt.Node, template.HTML) template.HTML {
	return `<hr class="` + elements.ClassRule + `">`
}

var markOrder = []struct {
	mark  rt.MarkType
	open  string
	close string
}{
	{rt.MarkBold, `<strong class="font-bold">`, `</strong>`},
	{rt.MarkItalic, `<em class="italic">`, `</em>`},
	{rt.MarkUnderline, `<u class="underline">`, `</u>`},
	{rt.MarkCode, `<code class="bg-gray-100 p-1 rounded font-mono text-sm">`, `</code>`},
}

// renderText escapes the value and applies marks with bold innermost and
// code outermost
func (r *Renderer) renderText(n rt.Node, _ template.HTML) template.HTML {
	out := template.HTMLEscapeString(n.Value)
	for _, m := range markOrder {
		if n.HasMark(m.mark) {
			out = m.open + out + m.close
		}
	}
	return template.HTML(out)
}

func (r *Renderer) renderParagraph(n rt.Node, children template.HTML) template.HTML {
	if rt.IsCodeParagraph(n) {
		return `<pre class="bg-gray-100 p-4 rounded-md my-4 overflow-x-auto"><code class="font-mono text-sm">` + children + `</code></pre>`
	}
	return `<p class="` + elements.ClassParagraph + `">` + children + `</p>`
}

func (r *Renderer) renderHeading(n rt.Node, children template.HTML) template.HTML {
	level := n.HeadingLevel()
	if level < 1 || level > 6 {
		return children
	}
	tag := "h" + strconv.Itoa(level)
	return template.HTML(`<`+tag+` class="`+elements.HeadingClass(level)+`">`) + children + template.HTML(`</`+tag+`>`)
}

func (r *Renderer) renderHyperlink(n rt.Node, children template.HTML) template.HTML {
	if n.Data.URI == "" {
		return children
	}
	return elements.RenderLink(n.Data.URI, children, r.siteDomain)
}

func (r *Renderer) renderEntryHyperlink(n rt.Node, children template.HTML) template.HTML {
	target := n.Data.Target
	if !target.IsResolved() || !blog.IsPostContentType(target.ContentTypeID) || target.Fields.Slug == "" {
		return children
	}
	if children == "" {
		children = template.HTML(template.HTMLEscapeString(firstNonEmpty(target.Fields.Heading, "Read more")))
	}
	return elements.RenderLink("/blog/"+target.Fields.Slug, children, r.siteDomain)
}

func (r *Renderer) renderAssetHyperlink(n rt.Node, children template.HTML) template.HTML {
	target := n.Data.Target
	if !target.IsResolved() || target.Fields.File == nil || target.Fields.File.URL == "" {
		return children
	}
	return elements.RenderLink(blog.AbsoluteURL(target.Fields.File.URL), children, r.siteDomain)
}

func (r *Renderer) renderEmbeddedAsset(n rt.Node, _ template.HTML) template.HTML {
	target := n.Data.Target
	if !target.IsResolved() || target.Fields.File == nil || target.Fields.File.URL == "" {
		return ""
	}
	src := blog.AbsoluteURL(target.Fields.File.URL)

	if target.IsImage() {
		width, height := target.ImageSize(defaultImageWidth, defaultImageHeight)
		return elements.RenderImage(elements.Image{
			Src:     src,
			Alt:     firstNonEmpty(target.Fields.Description, target.Fields.Title, "Embedded image"),
			Width:   width,
			Height:  height,
			Caption: target.Fields.Title,
		})
	}
	return elements.RenderDownload(src, firstNonEmpty(target.Fields.Title, target.Fields.File.FileName, "Download file"))
}

func (r *Renderer) renderEmbeddedEntry(n rt.Node, _ template.HTML) template.HTML {
	target := n.Data.Target
	if !target.IsResolved() {
		return ""
	}
	switch target.ContentTypeID {
	case "videoEmbed":
		if target.Fields.EmbedURL == "" {
			return ""
		}
		return elements.RenderVideoEmbed(target.Fields.EmbedURL, target.Fields.Title)
	default:
		return ""
	}
}

// renderEmbeddedEntryInline links inline references to other posts by heading
func (r *Renderer) renderEmbeddedEntryInline(n rt.Node, _ template.HTML) template.HTML {
	target := n.Data.Target
	if !target.IsResolved() || !blog.IsPostContentType(target.ContentTypeID) || target.Fields.Slug == "" {
		return ""
	}
	label := template.HTML(template.HTMLEscapeString(firstNonEmpty(target.Fields.Heading, target.Fields.Slug)))
	return elements.RenderLink("/blog/"+target.Fields.Slug, label, r.siteDomain)
}

func renderTableCell(n rt.Node, children template.HTML) template.HTML {
	if rt.IsHeaderCell(n) {
		return `<th class="` + elements.ClassTableHeaderCell + `">` + children + `</th>`
	}
	return `<td class="` + elements.ClassTableCell + `">` + children + `</td>`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
