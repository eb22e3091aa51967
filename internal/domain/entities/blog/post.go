// Package blog defines the blog post entities served by the site
package blog

import (
	"net/url"
	"strings"
	"time"
	"unicode"
)

// Post is a blog post as fetched from the content backend. It is built fresh
// for every request and never stored.
type Post struct {
	ID              string
	Heading         string
	Slug            string
	Body            Body
	Excerpt         string
	DatePublished   time.Time
	DateLastUpdated time.Time
	Tags            []string
	FeaturedImage   *Asset
	Author          *Author
}

// Asset is a media file attached to a post or author
type Asset struct {
	URL         string
	Title       string
	Description string
	Width       int
	Height      int
}

// Author is the person credited on a post
type Author struct {
	Name   string
	Image  *Asset
	Joined time.Time
}

// AbsoluteURL returns the asset URL with a scheme. The delivery API hands out
// protocol-relative URLs ("//images.ctfassets.net/...").
func (a *Asset) AbsoluteURL() string {
	if a == nil {
		return ""
	}
	return AbsoluteURL(a.URL)
}

// AltText returns the best available alternative text
func (a *Asset) AltText(fallback string) string {
	if a == nil {
		return fallback
	}
	if a.Description != "" {
		return a.Description
	}
	if a.Title != "" {
		return a.Title
	}
	return fallback
}

// AbsoluteURL prefixes https: to protocol-relative or scheme-less URLs
func AbsoluteURL(raw string) string {
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"), strings.HasPrefix(raw, "/"):
		return raw
	default:
		return "https://" + raw
	}
}

// Initial returns the upper-cased first letter of the author name
func (a *Author) Initial() string {
	if a == nil {
		return ""
	}
	for _, r := range strings.TrimSpace(a.Name) {
		return string(unicode.ToUpper(r))
	}
	return ""
}

// HasTag reports whether the post carries the tag addressed by tagSlug.
// Comparison is case-insensitive on the tag text.
func (p *Post) HasTag(tagSlug string) bool {
	want := TagFromSlug(tagSlug)
	if want == "" {
		return false
	}
	for _, tag := range p.Tags {
		if strings.ToLower(strings.TrimSpace(tag)) == want {
			return true
		}
	}
	return false
}

// MatchingTag returns the post's own spelling of the tag addressed by tagSlug
func (p *Post) MatchingTag(tagSlug string) (string, bool) {
	want := TagFromSlug(tagSlug)
	for _, tag := range p.Tags {
		if strings.ToLower(strings.TrimSpace(tag)) == want {
			return tag, true
		}
	}
	return "", false
}

// WasUpdated reports whether the post has a last-updated date on a different
// day than its publish date
func (p *Post) WasUpdated() bool {
	if p.DateLastUpdated.IsZero() {
		return false
	}
	py, pm, pd := p.DatePublished.Date()
	uy, um, ud := p.DateLastUpdated.Date()
	return py != uy || pm != um || pd != ud
}

// TagSlug turns a tag into its URL form: lower case, whitespace runs become
// a single dash, then path-escaped
func TagSlug(tag string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(tag)), "-")
	return url.PathEscape(slug)
}

// TagFromSlug reverses TagSlug as far as possible: dashes become spaces and
// the result is lower-cased for comparison
func TagFromSlug(slug string) string {
	if unescaped, err := url.PathUnescape(slug); err == nil {
		slug = unescaped
	}
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(slug, "-", " ")))
}

const (
	// ContentTypeID is the canonical content type of blog posts
	ContentTypeID = "blogPost"
	// LegacyContentTypeID is the id older spaces used for blog posts
	LegacyContentTypeID = "post"
)

// IsPostContentType reports whether a content type id denotes a blog post
func IsPostContentType(id string) bool {
	return id == ContentTypeID || id == LegacyContentTypeID
}
