package contentful

import (
	"unicode"
	"unicode/utf8"

	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/richtext"
)

// Resolver indexes included entries and assets so document links can be
// replaced with their targets while a response is being decoded
type Resolver struct {
	entries map[string]*richtext.EmbeddedTarget
	assets  map[string]*richtext.EmbeddedTarget
}

// NewResolver creates an empty resolver
func NewResolver() *Resolver {
	return &Resolver{
		entries: make(map[string]*richtext.EmbeddedTarget),
		assets:  make(map[string]*richtext.EmbeddedTarget),
	}
}

// Add indexes a resolved target by its type and id
func (r *Resolver) Add(target *richtext.EmbeddedTarget) {
	if target == nil || target.ID == "" {
		return
	}
	switch target.Type {
	case richtext.TargetAsset:
		r.assets[target.ID] = target
	case richtext.TargetEntry:
		r.entries[target.ID] = target
	}
}

// Lookup returns the resolved target for a link, or nil
func (r *Resolver) Lookup(link *richtext.EmbeddedTarget) *richtext.EmbeddedTarget {
	if link == nil {
		return nil
	}
	if link.IsResolved() {
		return link
	}
	switch link.LinkType {
	case string(richtext.TargetAsset):
		return r.assets[link.ID]
	case string(richtext.TargetEntry):
		return r.entries[link.ID]
	}
	return nil
}

// ResolveDocument swaps link targets in a freshly decoded tree for the
// indexed entries and assets. Unknown links are left as links.
func (r *Resolver) ResolveDocument(n *richtext.Node) {
	if n.Data.Target != nil && !n.Data.Target.IsResolved() {
		if resolved := r.Lookup(n.Data.Target); resolved != nil {
			n.Data.Target = resolved
		}
	}
	for i := range n.Content {
		r.ResolveDocument(&n.Content[i])
	}
}

// ContentTypeFromTypename maps a GraphQL __typename ("BlogPost") to the
// content type id ("blogPost")
func ContentTypeFromTypename(typename string) string {
	if typename == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(typename)
	return string(unicode.ToLower(r)) + typename[size:]
}
