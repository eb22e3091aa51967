// Package richtext defines the Contentful rich-text document tree
package richtext

import "strings"

// NodeType is the wire name of a rich-text node kind
type NodeType string

const (
	NodeDocument            NodeType = "document"
	NodeParagraph           NodeType = "paragraph"
	NodeHeading1            NodeType = "heading-1"
	NodeHeading2            NodeType = "heading-2"
	NodeHeading3            NodeType = "heading-3"
	NodeHeading4            NodeType = "heading-4"
	NodeHeading5            NodeType = "heading-5"
	NodeHeading6            NodeType = "heading-6"
	NodeUnorderedList       NodeType = "unordered-list"
	NodeOrderedList         NodeType = "ordered-list"
	NodeListItem            NodeType = "list-item"
	NodeBlockquote          NodeType = "blockquote"
	NodeHR                  NodeType = "hr"
	NodeEmbeddedAsset       NodeType = "embedded-asset-block"
	NodeEmbeddedEntry       NodeType = "embedded-entry-block"
	NodeEmbeddedEntryInline NodeType = "embedded-entry-inline"
	NodeTable               NodeType = "table"
	NodeTableRow            NodeType = "table-row"
	NodeTableCell           NodeType = "table-cell"
	NodeTableHeaderCell     NodeType = "table-header-cell"
	NodeHyperlink           NodeType = "hyperlink"
	NodeEntryHyperlink      NodeType = "entry-hyperlink"
	NodeAssetHyperlink      NodeType = "asset-hyperlink"
	NodeText                NodeType = "text"
)

// MarkType is an inline style annotation on a text node
type MarkType string

const (
	MarkBold      MarkType = "bold"
	MarkItalic    MarkType = "italic"
	MarkUnderline MarkType = "underline"
	MarkCode      MarkType = "code"
)

// Mark wraps a mark type the way the delivery API encodes it
type Mark struct {
	Type MarkType `json:"type"`
}

// Node is one element of a rich-text document
type Node struct {
	NodeType NodeType `json:"nodeType"`
	Content  []Node   `json:"content,omitempty"`
	Marks    []Mark   `json:"marks,omitempty"`
	Data     NodeData `json:"data"`
	Value    string   `json:"value,omitempty"`
}

// NodeData carries the kind-specific payload of a node
type NodeData struct {
	URI    string          `json:"uri,omitempty"`
	Target *EmbeddedTarget `json:"target,omitempty"`
}

// HasMark reports whether a text node carries the given mark
func (n Node) HasMark(mark MarkType) bool {
	for _, m := range n.Marks {
		if m.Type == mark {
			return true
		}
	}
	return false
}

// IsText reports whether n is a text leaf
func (n Node) IsText() bool {
	return n.NodeType == NodeText
}

// HeadingLevel returns 1-6 for heading kinds and 0 otherwise
func (n Node) HeadingLevel() int {
	if !strings.HasPrefix(string(n.NodeType), "heading-") || len(n.NodeType) != len("heading-1") {
		return 0
	}
	level := int(n.NodeType[len(n.NodeType)-1] - '0')
	if level < 1 || level > 6 {
		return 0
	}
	return level
}

// PlainText concatenates the values of all text leaves under n
func (n Node) PlainText() string {
	var sb strings.Builder
	n.walkText(func(t Node) bool {
		sb.WriteString(t.Value)
		return true
	})
	return sb.String()
}

// walkText visits text leaves depth-first until fn returns false
func (n Node) walkText(fn func(Node) bool) bool {
	if n.IsText() {
		return fn(n)
	}
	for _, child := range n.Content {
		if !child.walkText(fn) {
			return false
		}
	}
	return true
}

// IsHeaderCell decides whether a table cell should render as a header cell.
// The rich-text schema has no header flag on table-cell, so a cell counts as a
// header when the first non-empty text run inside its first child is bold.
func IsHeaderCell(cell Node) bool {
	if cell.NodeType == NodeTableHeaderCell {
		return true
	}
	if len(cell.Content) == 0 {
		return false
	}
	bold := false
	cell.Content[0].walkText(func(t Node) bool {
		if t.Value == "" {
			return true
		}
		bold = t.HasMark(MarkBold)
		return false
	})
	return bold
}

// IsCodeParagraph decides whether a paragraph should render as a code block:
// it needs at least one non-empty text run and every non-empty text run must
// carry the code mark. Empty runs surround inline nodes and are ignored.
func IsCodeParagraph(p Node) bool {
	if p.NodeType != NodeParagraph {
		return false
	}
	found := false
	for _, child := range p.Content {
		if !child.IsText() || child.Value == "" {
			continue
		}
		if !child.HasMark(MarkCode) {
			return false
		}
		found = true
	}
	return found
}
