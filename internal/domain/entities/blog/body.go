package blog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/richtext"
)

// Body is the content of a post: either a rich-text document or markdown.
// The variant is chosen once when the post is decoded.
type Body interface {
	isBody()
}

// DocumentBody holds a rich-text document tree
type DocumentBody struct {
	Root richtext.Node
}

// MarkdownBody holds markdown source
type MarkdownBody struct {
	Source string
}

func (DocumentBody) isBody() {}
func (MarkdownBody) isBody() {}

// DecodeBody chooses the body variant from the JSON shape of the field:
// an object is a rich-text document, a string (or null) is markdown.
func DecodeBody(raw json.RawMessage) (Body, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return MarkdownBody{}, nil
	}

	switch trimmed[0] {
	case '{':
		var root richtext.Node
		if err := json.Unmarshal(trimmed, &root); err != nil {
			return nil, fmt.Errorf("failed to decode rich text body: %w", err)
		}
		return DocumentBody{Root: root}, nil
	case '"':
		var source string
		if err := json.Unmarshal(trimmed, &source); err != nil {
			return nil, fmt.Errorf("failed to decode markdown body: %w", err)
		}
		return MarkdownBody{Source: source}, nil
	default:
		return nil, fmt.Errorf("unsupported body shape starting with %q", trimmed[0])
	}
}
