package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "nodeType": "document",
  "data": {},
  "content": [
    {"nodeType": "heading-2", "data": {}, "content": [{"nodeType": "text", "value": "Intro", "marks": [], "data": {}}]},
    {"nodeType": "paragraph", "data": {}, "content": [
      {"nodeType": "text", "value": "Hello ", "marks": [], "data": {}},
      {"nodeType": "text", "value": "world", "marks": [{"type": "bold"}], "data": {}}
    ]}
  ]
}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "devlog-go "+Version+"\n", out)
}

func TestRenderDocumentFromStdin(t *testing.T) {
	out, err := run(t, sampleDocument, "render")
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="rich-text">`)
	assert.Contains(t, out, "<strong>world</strong>")
}

func TestRenderMarkdownFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.md")
	require.NoError(t, os.WriteFile(path, []byte("[docs](/blog/docs) and `code`"), 0o644))

	out, err := run(t, "", "render", path, "--site-domain", "devlog.example.com")
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="markdown-content">`)
	assert.Contains(t, out, `href="/blog/docs" hx-boost="true"`)
	assert.Contains(t, out, `<code class="inline-code">code</code>`)
}

func TestRenderForcedMarkdownKeepsBraces(t *testing.T) {
	out, err := run(t, "{not json}", "render", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "{not json}")
}

func TestRenderDocumentToMarkdown(t *testing.T) {
	out, err := run(t, sampleDocument, "render", "--markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "## Intro")
	assert.Contains(t, out, "Hello **world**")
}

func TestRenderRejectsBadInput(t *testing.T) {
	_, err := run(t, "# markdown", "render", "--format", "document")
	assert.Error(t, err)

	_, err = run(t, "{", "render")
	assert.Error(t, err)

	_, err = run(t, "x", "render", "--format", "html")
	assert.Error(t, err)

	_, err = run(t, "", "render", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
