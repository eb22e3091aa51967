package graphql

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const markdownBodySelection = `text`

// richTextBodySelection asks for the document JSON plus everything its links
// can point at. Entry fields are only selected on the post type itself since
// fragments on types missing from the space schema fail validation.
const richTextBodySelection = `text {
      json
      links {
        entries {
          block { ...linkedEntry }
          inline { ...linkedEntry }
          hyperlink { ...linkedEntry }
        }
        assets {
          block { ...linkedAsset }
          hyperlink { ...linkedAsset }
        }
      }
    }`

const linkFragments = `
fragment linkedEntry on Entry {
  __typename
  sys { id }
  ... on %[1]s { slug heading }
}

fragment linkedAsset on Asset {
  sys { id }
  url
  title
  description
  fileName
  contentType
  width
  height
  size
}
`

const postSelection = `
      sys { id }
      heading
      slug
      %[1]s
      excerpt
      datePublished
      dateLastUpdated
      tags
      blogPostFeaturedImage { url title description width height }
      author {
        sys { id }
        name
        image { url title description width height }
        joined
      }`

// queryBuilder renders the queries for one content type and body format
type queryBuilder struct {
	collection string
	typename   string
	richText   bool
}

func newQueryBuilder(contentType string, richText bool) (*queryBuilder, error) {
	if !isIdentifier(contentType) {
		return nil, fmt.Errorf("invalid content type id %q", contentType)
	}
	return &queryBuilder{
		collection: contentType + "Collection",
		typename:   typenameFor(contentType),
		richText:   richText,
	}, nil
}

func (q *queryBuilder) selection() string {
	body := markdownBodySelection
	if q.richText {
		body = richTextBodySelection
	}
	return fmt.Sprintf(postSelection, body)
}

func (q *queryBuilder) fragments() string {
	if !q.richText {
		return ""
	}
	return fmt.Sprintf(linkFragments, q.typename)
}

// listQuery selects all posts newest first
func (q *queryBuilder) listQuery() string {
	return fmt.Sprintf(`query ListPosts($preview: Boolean = false, $limit: Int = 1000) {
  posts: %s(order: datePublished_DESC, preview: $preview, limit: $limit) {
    items {%s
    }
  }
}
%s`, q.collection, q.selection(), q.fragments())
}

// slugQuery selects at most one post by slug
func (q *queryBuilder) slugQuery() string {
	return fmt.Sprintf(`query GetPostBySlug($slug: String!, $preview: Boolean = false) {
  posts: %s(where: { slug: $slug }, preview: $preview, limit: 1) {
    items {%s
    }
  }
}
%s`, q.collection, q.selection(), q.fragments())
}

// existsQuery counts drafts and published entries of contentType with a slug
func existsQuery(contentType string) (string, error) {
	if !isIdentifier(contentType) {
		return "", fmt.Errorf("invalid content type id %q", contentType)
	}
	return fmt.Sprintf(`query SlugExists($slug: String!) {
  matches: %sCollection(where: { slug: $slug }, preview: true, limit: 1) {
    total
  }
}`, contentType), nil
}

// typenameFor maps a content type id ("blogPost") to its GraphQL type ("BlogPost")
func typenameFor(contentType string) string {
	r, size := utf8.DecodeRuneInString(contentType)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r)) + contentType[size:]
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
	}) < 0 && !unicode.IsDigit(rune(s[0]))
}
