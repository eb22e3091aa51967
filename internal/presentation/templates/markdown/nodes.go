package markdown

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates/elements"
)

// nodeRenderer replaces the goldmark HTML output for the kinds the site
// styles itself. Everything else falls through to the default renderer.
type nodeRenderer struct {
	siteDomain string
	codeStyle  string
	// sanitizer is nil unless raw HTML is allowed
	sanitizer *bluemonday.Policy
	logger    *logging.ChanneledLogger
}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindParagraph, r.renderParagraph)
	reg.Register(ast.KindList, r.renderList)
	reg.Register(ast.KindListItem, r.renderListItem)
	reg.Register(ast.KindBlockquote, r.renderBlockquote)
	reg.Register(ast.KindThematicBreak, r.renderThematicBreak)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
	reg.Register(ast.KindImage, r.renderImage)
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindHTMLBlock, r.renderHTMLBlock)
	reg.Register(ast.KindRawHTML, r.renderRawHTML)

	reg.Register(east.KindTable, r.renderTable)
	reg.Register(east.KindTableHeader, r.renderTableHeader)
	reg.Register(east.KindTableRow, r.renderTableRow)
	reg.Register(east.KindTableCell, r.renderTableCell)
}

func (r *nodeRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	tag := "h" + strconv.Itoa(n.Level)
	if !entering {
		_, _ = w.WriteString("</" + tag + ">\n")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString("<" + tag)
	if id, ok := n.AttributeString("id"); ok {
		if value := attributeBytes(id); len(value) > 0 {
			_, _ = w.WriteString(` id="`)
			_, _ = w.Write(util.EscapeHTML(value))
			_ = w.WriteByte('"')
		}
	}
	_, _ = w.WriteString(` class="` + elements.HeadingClass(n.Level) + `">`)
	return ast.WalkContinue, nil
}

// renderParagraph drops the wrapper around a lone image so the figure block
// is not nested inside a paragraph
func (r *nodeRenderer) renderParagraph(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if fc := node.FirstChild(); fc != nil && fc.Kind() == ast.KindImage && isLoneImage(fc) {
		return ast.WalkContinue, nil
	}
	if entering {
		_, _ = w.WriteString(`<p class="` + elements.ClassParagraph + `">`)
	} else {
		_, _ = w.WriteString("</p>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderList(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.List)
	tag, class := "ul", elements.ClassUnorderedList
	if n.IsOrdered() {
		tag, class = "ol", elements.ClassOrderedList
	}
	if !entering {
		_, _ = w.WriteString("</" + tag + ">\n")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString("<" + tag)
	if n.IsOrdered() && n.Start != 1 {
		_, _ = w.WriteString(` start="` + strconv.Itoa(n.Start) + `"`)
	}
	_, _ = w.WriteString(` class="` + class + "\">\n")
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderListItem(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</li>\n")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<li class="` + elements.ClassListItem + `">`)
	if fc := node.FirstChild(); fc != nil {
		if _, ok := fc.(*ast.TextBlock); !ok {
			_ = w.WriteByte('\n')
		}
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderBlockquote(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<blockquote class="` + elements.ClassBlockquote + "\">\n")
	} else {
		_, _ = w.WriteString("</blockquote>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderThematicBreak(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<hr class="` + elements.ClassRule + "\">\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if entering {
		_, _ = w.WriteString(string(elements.RenderLinkOpen(string(n.Destination), string(n.Title), r.siteDomain)))
	} else {
		_, _ = w.WriteString("</a>")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderAutoLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.AutoLink)
	href := string(n.URL(source))
	if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(href), "mailto:") {
		href = "mailto:" + href
	}

	_, _ = w.WriteString(string(elements.RenderLinkOpen(href, "", r.siteDomain)))
	_, _ = w.Write(util.EscapeHTML(n.Label(source)))
	_, _ = w.WriteString("</a>")
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)
	img := imageFor(string(n.Destination), altText(n, source))
	if isLoneImage(n) {
		_, _ = w.WriteString(string(elements.RenderImage(img)))
	} else {
		_, _ = w.WriteString(string(elements.RenderInlineImage(img)))
	}
	return ast.WalkSkipChildren, nil
}

// isLoneImage reports whether the image is the only content of its paragraph
func isLoneImage(n ast.Node) bool {
	parent := n.Parent()
	return parent != nil && parent.Kind() == ast.KindParagraph && parent.ChildCount() == 1
}

func (r *nodeRenderer) renderCodeSpan(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</code>")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<code class="inline-code">`)
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*ast.Text)
		if !ok {
			continue
		}
		value := t.Segment.Value(source)
		if bytes.HasSuffix(value, []byte("\n")) {
			_, _ = w.Write(util.EscapeHTML(value[:len(value)-1]))
			_ = w.WriteByte(' ')
		} else {
			_, _ = w.Write(util.EscapeHTML(value))
		}
	}
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	language := string(n.Language(source))
	code := strings.TrimSuffix(linesText(n.Lines(), source), "\n")

	_, _ = w.WriteString(string(elements.RenderCodeBlock(language, r.highlight(language, code))))
	_ = w.WriteByte('\n')
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	code := strings.TrimSuffix(linesText(node.Lines(), source), "\n")

	_, _ = w.WriteString(string(elements.RenderCodeBlock("", elements.RenderPlainCode("", code))))
	_ = w.WriteByte('\n')
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.HTMLBlock)
	raw := linesText(n.Lines(), source)
	if n.HasClosure() {
		raw += string(n.ClosureLine.Value(source))
	}

	if r.sanitizer != nil {
		_, _ = w.Write(r.sanitizer.SanitizeBytes([]byte(raw)))
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<p class="` + elements.ClassParagraph + `">`)
	_, _ = w.Write(util.EscapeHTML([]byte(strings.TrimSuffix(raw, "\n"))))
	_, _ = w.WriteString("</p>\n")
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	var raw bytes.Buffer
	for i := 0; i < n.Segments.Len(); i++ {
		segment := n.Segments.At(i)
		raw.Write(segment.Value(source))
	}

	if r.sanitizer != nil {
		_, _ = w.Write(r.sanitizer.SanitizeBytes(raw.Bytes()))
	} else {
		_, _ = w.Write(util.EscapeHTML(raw.Bytes()))
	}
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderTable(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<div class="` + elements.ClassTableWrapper + `"><table class="` + elements.ClassTable + "\">\n")
		return ast.WalkContinue, nil
	}
	if last := node.LastChild(); last != nil && last.Kind() == east.KindTableRow {
		_, _ = w.WriteString("</tbody>\n")
	}
	_, _ = w.WriteString("</table></div>\n")
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderTableHeader(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<thead><tr class="` + elements.ClassTableRow + "\">\n")
	} else {
		_, _ = w.WriteString("</tr></thead>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderTableRow(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</tr>\n")
		return ast.WalkContinue, nil
	}
	if prev := node.PreviousSibling(); prev == nil || prev.Kind() == east.KindTableHeader {
		_, _ = w.WriteString("<tbody>\n")
	}
	_, _ = w.WriteString(`<tr class="` + elements.ClassTableRow + "\">\n")
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderTableCell(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*east.TableCell)
	tag, class := "td", elements.ClassTableCell
	if parent := node.Parent(); parent != nil && parent.Kind() == east.KindTableHeader {
		tag, class = "th", elements.ClassTableHeaderCell
	}
	if !entering {
		_, _ = w.WriteString("</" + tag + ">\n")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString("<" + tag)
	if n.Alignment != east.AlignNone {
		_, _ = w.WriteString(` style="text-align: ` + n.Alignment.String() + `"`)
	}
	_, _ = w.WriteString(` class="` + class + `">`)
	return ast.WalkContinue, nil
}

func linesText(lines *text.Segments, source []byte) string {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		sb.Write(segment.Value(source))
	}
	return sb.String()
}

// altText collects the plain text of an image description
func altText(node ast.Node, source []byte) string {
	var sb strings.Builder
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(altText(c, source))
		}
	}
	return sb.String()
}

func attributeBytes(v any) []byte {
	switch value := v.(type) {
	case []byte:
		return value
	case string:
		return []byte(value)
	}
	return nil
}
