package elements

import (
	"bytes"
	"html/template"
	"log"
)

// codeBlockTmpl wraps highlighted or plain code. The layout script copies the
// text of the sibling pre when a [data-copy-code] button is clicked.
var codeBlockTmpl = template.Must(template.New("codeBlock").Parse(
	`<div class="code-block relative my-4" data-language="{{.Language}}">` +
		`<div class="code-block-header flex justify-between items-center text-xs px-4 py-1">` +
		`<span class="code-block-language">{{if .Language}}{{.Language}}{{else}}text{{end}}</span>` +
		`<button type="button" class="code-block-copy" data-copy-code aria-label="Copy code">Copy</button>` +
		`</div>{{.Body}}</div>`,
))

// RenderCodeBlock renders the copyable code container around body, which is
// either a chroma-highlighted pre or a plain pre/code pair
func RenderCodeBlock(language string, body template.HTML) template.HTML {
	var buf bytes.Buffer
	err := codeBlockTmpl.Execute(&buf, struct {
		Language string
		Body     template.HTML
	}{language, body})
	if err != nil {
		log.Printf("ERROR: Failed to execute code block template: %v", err)
		return `<!-- error rendering code block -->`
	}
	return template.HTML(buf.String())
}

var plainCodeTmpl = template.Must(template.New("plainCode").Parse(
	`<pre class="bg-gray-100 p-4 rounded-md overflow-x-auto"><code{{if .Language}} class="language-{{.Language}}"{{end}}>{{.Code}}</code></pre>`,
))

// RenderPlainCode renders unhighlighted code with HTML escaping
func RenderPlainCode(language, code string) template.HTML {
	var buf bytes.Buffer
	if err := plainCodeTmpl.Execute(&buf, struct{ Language, Code string }{language, code}); err != nil {
		log.Printf("ERROR: Failed to execute plain code template: %v", err)
		return `<!-- error rendering code -->`
	}
	return template.HTML(buf.String())
}
