// Package markdown renders markdown post bodies to HTML with goldmark
package markdown

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/logging"
)

// DefaultCodeStyle is the chroma style used for fenced code
const DefaultCodeStyle = "onedark"

// Options configures a Renderer
type Options struct {
	SiteDomain string
	// AllowHTML passes raw HTML through the UGC sanitizer instead of
	// escaping it
	AllowHTML bool
	CodeStyle string
	Logger    *logging.ChanneledLogger
}

// Renderer converts markdown source to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
	// balance re-parses the output so closing tags left behind by the
	// sanitizer cannot escape their block
	balance bool
	logger  *logging.ChanneledLogger
}

// NewRenderer builds a GFM goldmark pipeline with the site node renderer
// registered ahead of the default HTML renderer
func NewRenderer(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	style := opts.CodeStyle
	if style == "" {
		style = DefaultCodeStyle
	}

	nodes := &nodeRenderer{
		siteDomain: opts.SiteDomain,
		codeStyle:  style,
		logger:     logger,
	}
	if opts.AllowHTML {
		nodes.sanitizer = bluemonday.UGCPolicy()
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(util.Prioritized(nodes, 100)),
		),
	)

	return &Renderer{md: md, balance: opts.AllowHTML, logger: logger}
}

// Render converts source and wraps it in the markdown container. A failed
// conversion degrades to the escaped source.
func (r *Renderer) Render(source string) template.HTML {
	var body bytes.Buffer
	err := r.md.Convert([]byte(source), &body)
	if err == nil && r.balance {
		var balanced []byte
		if balanced, err = balanceHTML(body.Bytes()); err == nil {
			body.Reset()
			body.Write(balanced)
		}
	}
	if err != nil {
		r.logger.Content().Warn("Markdown conversion failed, rendering source as text", "error", err)
		var fallback strings.Builder
		fallback.WriteString(`<div class="markdown-content"><p class="mb-4">`)
		fallback.WriteString(template.HTMLEscapeString(source))
		fallback.WriteString(`</p></div>`)
		return template.HTML(fallback.String())
	}

	return template.HTML(`<div class="markdown-content">` + body.String() + `</div>`)
}

// balanceHTML runs fragment through the HTML5 tree builder, which drops end
// tags without a matching open element and closes anything left open
func balanceHTML(fragment []byte) ([]byte, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(bytes.NewReader(fragment), context)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
