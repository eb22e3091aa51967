package markdown

import (
	"bytes"
	"html/template"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates/elements"
)

var codeFormatter = chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4))

// highlight renders code with inline chroma styles. Code without a language,
// or that chroma cannot tokenise, is rendered plain.
func (r *nodeRenderer) highlight(language, code string) template.HTML {
	if language == "" {
		return elements.RenderPlainCode("", code)
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(r.codeStyle)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		r.logger.Content().Warn("Failed to tokenise code block", "language", language, "error", err)
		return elements.RenderPlainCode(language, code)
	}

	var buf bytes.Buffer
	if err := codeFormatter.Format(&buf, style, iterator); err != nil {
		r.logger.Content().Warn("Failed to format code block", "language", language, "error", err)
		return elements.RenderPlainCode(language, code)
	}
	return template.HTML(buf.String())
}
