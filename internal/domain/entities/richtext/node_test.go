package richtext

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(value string, marks ...MarkType) Node {
	n := Node{NodeType: NodeText, Value: value}
	for _, m := range marks {
		n.Marks = append(n.Marks, Mark{Type: m})
	}
	return n
}

func TestIsHeaderCell(t *testing.T) {
	boldCell := Node{NodeType: NodeTableCell, Content: []Node{
		{NodeType: NodeParagraph, Content: []Node{text("Name", MarkBold)}},
	}}
	plainCell := Node{NodeType: NodeTableCell, Content: []Node{
		{NodeType: NodeParagraph, Content: []Node{text("Name")}},
	}}
	nestedBold := Node{NodeType: NodeTableCell, Content: []Node{
		{NodeType: NodeParagraph, Content: []Node{
			{NodeType: NodeHyperlink, Data: NodeData{URI: "/x"}, Content: []Node{text("Name", MarkBold)}},
			text(" rest"),
		}},
	}}
	boldInSecondParagraph := Node{NodeType: NodeTableCell, Content: []Node{
		{NodeType: NodeParagraph, Content: []Node{text("plain")}},
		{NodeType: NodeParagraph, Content: []Node{text("bold", MarkBold)}},
	}}

	assert.True(t, IsHeaderCell(boldCell))
	assert.False(t, IsHeaderCell(plainCell))
	assert.True(t, IsHeaderCell(nestedBold))
	assert.False(t, IsHeaderCell(boldInSecondParagraph))
	assert.False(t, IsHeaderCell(Node{NodeType: NodeTableCell}))
	assert.True(t, IsHeaderCell(Node{NodeType: NodeTableHeaderCell}))

	leadingEmptyRun := Node{NodeType: NodeTableCell, Content: []Node{
		{NodeType: NodeParagraph, Content: []Node{text(""), text("H", MarkBold)}},
	}}
	assert.True(t, IsHeaderCell(leadingEmptyRun))
}

func TestIsCodeParagraph(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want bool
	}{
		{"single code run", Node{NodeType: NodeParagraph, Content: []Node{text("x := 1", MarkCode)}}, true},
		{"mixed runs", Node{NodeType: NodeParagraph, Content: []Node{text("x", MarkCode), text(" y")}}, false},
		{"empty runs ignored", Node{NodeType: NodeParagraph, Content: []Node{text(""), text("x", MarkCode), text("")}}, true},
		{"only empty runs", Node{NodeType: NodeParagraph, Content: []Node{text("")}}, false},
		{"not a paragraph", Node{NodeType: NodeHeading1, Content: []Node{text("x", MarkCode)}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCodeParagraph(tt.node))
		})
	}
}

func TestHeadingLevel(t *testing.T) {
	assert.Equal(t, 1, Node{NodeType: NodeHeading1}.HeadingLevel())
	assert.Equal(t, 6, Node{NodeType: NodeHeading6}.HeadingLevel())
	assert.Equal(t, 0, Node{NodeType: NodeParagraph}.HeadingLevel())
	assert.Equal(t, 0, Node{NodeType: "heading-9"}.HeadingLevel())
}

func TestPlainText(t *testing.T) {
	n := Node{NodeType: NodeParagraph, Content: []Node{
		text("Hello "),
		{NodeType: NodeHyperlink, Content: []Node{text("world")}},
	}}
	assert.Equal(t, "Hello world", n.PlainText())
}

func TestDecodeDocument(t *testing.T) {
	raw := `{
		"nodeType": "document",
		"data": {},
		"content": [
			{"nodeType": "paragraph", "data": {}, "content": [
				{"nodeType": "text", "value": "Hi", "marks": [{"type": "bold"}], "data": {}}
			]},
			{"nodeType": "embedded-asset-block", "content": [], "data": {"target": {
				"sys": {"id": "a1", "type": "Asset"},
				"fields": {
					"title": "Diagram",
					"file": {"url": "//images.ctfassets.net/x.png", "contentType": "image/png",
						"details": {"size": 10, "image": {"width": 640, "height": 480}}}
				}
			}}},
			{"nodeType": "embedded-entry-block", "content": [], "data": {"target": {
				"sys": {"id": "e1", "type": "Link", "linkType": "Entry"}
			}}},
			{"nodeType": "entry-hyperlink", "content": [], "data": {"target": {
				"sys": {"id": "e2", "type": "Entry", "contentType": {"sys": {"id": "blogPost"}}},
				"fields": {"slug": "hello", "heading": {"unexpected": true}}
			}}}
		]
	}`

	var doc Node
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	require.Len(t, doc.Content, 4)

	assert.True(t, doc.Content[0].Content[0].HasMark(MarkBold))

	asset := doc.Content[1].Data.Target
	require.NotNil(t, asset)
	assert.True(t, asset.IsResolved())
	assert.True(t, asset.IsImage())
	w, h := asset.ImageSize(800, 600)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	link := doc.Content[2].Data.Target
	require.NotNil(t, link)
	assert.False(t, link.IsResolved())
	assert.Equal(t, "Entry", link.LinkType)

	entry := doc.Content[3].Data.Target
	require.NotNil(t, entry)
	assert.Equal(t, "blogPost", entry.ContentTypeID)
	assert.Equal(t, "hello", entry.Fields.Slug)
	assert.Empty(t, entry.Fields.Heading)
}

func TestImageSizeDefaults(t *testing.T) {
	target := &EmbeddedTarget{Type: TargetAsset, Fields: TargetFields{File: &AssetFile{URL: "//x", ContentType: "image/jpeg"}}}
	w, h := target.ImageSize(800, 600)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}
