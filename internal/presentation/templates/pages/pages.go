// Package pages holds the full-page templates and the data each one renders
package pages

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/blog"
)

//go:embed html/*.html
var files embed.FS

// Template names
const (
	ListTemplate  = "list"
	PostTemplate  = "post"
	TagTemplate   = "tag"
	ErrorTemplate = "error"
)

// Site is the chrome shared by every page
type Site struct {
	Name        string
	Title       string
	Description string
	Preview     bool
}

// Card is one post in a grid
type Card struct {
	Post    *blog.Post
	Excerpt string
}

type ListPage struct {
	Site  Site
	Cards []Card
	Tags  []string
}

type PostPage struct {
	Site Site
	Post *blog.Post
	Body template.HTML
}

type TagPage struct {
	Site  Site
	Tag   string
	Cards []Card
}

type ErrorPage struct {
	Site    Site
	Status  int
	Title   string
	Message string
}

// Funcs returns the helpers available to every page template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"tagSlug":    blog.TagSlug,
		"formatDate": FormatDate,
		"shortDate":  ShortDate,
		"year":       func() int { return time.Now().Year() },
	}
}

// FormatDate renders t as "Jan 2, 2006"; the zero time renders empty
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// ShortDate renders t as "1/2/2006"
func ShortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("1/2/2006")
}

// Parse loads the embedded page set. The result is safe for concurrent
// execution and is handed to gin once at startup.
func Parse() (*template.Template, error) {
	tmpl, err := template.New("pages").Funcs(Funcs()).ParseFS(files, "html/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	for _, name := range []string{ListTemplate, PostTemplate, TagTemplate, ErrorTemplate} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("page template %q is not defined", name)
		}
	}
	return tmpl, nil
}

// Cards pairs each post with its excerpt
func Cards(posts []*blog.Post, excerpt func(*blog.Post) string) []Card {
	cards := make([]Card, 0, len(posts))
	for _, post := range posts {
		if post == nil {
			continue
		}
		cards = append(cards, Card{Post: post, Excerpt: excerpt(post)})
	}
	return cards
}
