// Package elements provides the pre-parsed HTML fragments shared by the rich
// text and markdown renderers
package elements

import (
	"bytes"
	"html/template"
	"log"
	"net/url"
	"strings"
)

// linkOpenTmpl renders internal links as boosted same-tab anchors and
// external links in a new context without opener or referrer
var linkOpenTmpl = template.Must(template.New("linkOpen").Parse(
	`{{if .Internal}}<a href="{{.Href}}" hx-boost="true"` +
		`{{else}}<a href="{{.Href}}" target="_blank" rel="noopener noreferrer"{{end}}` +
		`{{if .Title}} title="{{.Title}}"{{end}} class="text-blue-600 hover:underline">`,
))

type linkData struct {
	Href     string
	Title    string
	Internal bool
}

// IsInternalLink reports whether uri points back into this site: a rooted
// path, a fragment, or an absolute URL on siteDomain or one of its subdomains
func IsInternalLink(uri, siteDomain string) bool {
	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return false
	case strings.HasPrefix(uri, "//"):
		return hostMatches(uri, siteDomain)
	case strings.HasPrefix(uri, "/"), strings.HasPrefix(uri, "#"):
		return true
	}
	return hostMatches(uri, siteDomain)
}

func hostMatches(uri, siteDomain string) bool {
	siteDomain = strings.ToLower(strings.TrimSpace(siteDomain))
	if siteDomain == "" {
		return false
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	return host == siteDomain || strings.HasSuffix(host, "."+siteDomain)
}

// RenderLinkOpen renders the opening anchor tag for href
func RenderLinkOpen(href, title, siteDomain string) template.HTML {
	data := linkData{
		Href:     href,
		Title:    title,
		Internal: IsInternalLink(href, siteDomain),
	}

	var buf bytes.Buffer
	if err := linkOpenTmpl.Execute(&buf, data); err != nil {
		log.Printf("ERROR: Failed to execute link template for %s: %v", href, err)
		return `<a href="#">`
	}
	return template.HTML(buf.String())
}

// RenderLink renders an anchor around already-rendered children
func RenderLink(href string, children template.HTML, siteDomain string) template.HTML {
	return RenderLinkOpen(href, "", siteDomain) + children + `</a>`
}

var downloadTmpl = template.Must(template.New("download").Parse(
	`<div class="my-4"><a href="{{.Href}}" target="_blank" rel="noopener noreferrer" class="text-blue-600 hover:underline">{{.Label}}</a></div>`,
))

// RenderDownload renders a download link block for a non-image asset
func RenderDownload(href, label string) template.HTML {
	var buf bytes.Buffer
	err := downloadTmpl.Execute(&buf, struct{ Href, Label string }{href, label})
	if err != nil {
		log.Printf("ERROR: Failed to execute download template for %s: %v", href, err)
		return `<!-- error rendering download -->`
	}
	return template.HTML(buf.String())
}
