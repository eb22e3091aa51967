package elements

import (
	"bytes"
	"html/template"
	"log"
)

const imgTag = `<img src="{{.Src}}" alt="{{.Alt}}" width="{{.Width}}" height="{{.Height}}"{{if .Style}} style="{{.Style}}"{{end}} loading="lazy" class="rounded-lg`

var figureTmpl = template.Must(template.New("figure").Parse(
	`<figure class="my-6">` + imgTag + `">` +
		`{{if .Caption}}<figcaption class="text-sm text-gray-500 mt-2">{{.Caption}}</figcaption>{{end}}` +
		`</figure>`,
))

var inlineImageTmpl = template.Must(template.New("inlineImage").Parse(imgTag + ` inline-block align-middle">`))

// Image describes an image block
type Image struct {
	Src     string
	Alt     string
	Width   int
	Height  int
	Caption string
	Style   template.CSS
}

// RenderImage renders an image with explicit dimensions and an optional caption
func RenderImage(img Image) template.HTML {
	var buf bytes.Buffer
	if err := figureTmpl.Execute(&buf, img); err != nil {
		log.Printf("ERROR: Failed to execute figure template for %s: %v", img.Src, err)
		return `<!-- error rendering image -->`
	}
	return template.HTML(buf.String())
}

// RenderInlineImage renders an image that sits in running text, where a
// figure block would break the enclosing paragraph
func RenderInlineImage(img Image) template.HTML {
	var buf bytes.Buffer
	if err := inlineImageTmpl.Execute(&buf, img); err != nil {
		log.Printf("ERROR: Failed to execute inline image template for %s: %v", img.Src, err)
		return `<!-- error rendering image -->`
	}
	return template.HTML(buf.String())
}

var videoEmbedTmpl = template.Must(template.New("videoEmbed").Parse(
	`<div class="my-6"><iframe src="{{.Src}}" title="{{.Title}}" class="w-full aspect-video rounded-lg" frameborder="0" ` +
		`allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen></iframe></div>`,
))

// RenderVideoEmbed renders a responsive iframe for an embedded video
func RenderVideoEmbed(src, title string) template.HTML {
	if title == "" {
		title = "Embedded video"
	}

	var buf bytes.Buffer
	err := videoEmbedTmpl.Execute(&buf, struct{ Src, Title string }{src, title})
	if err != nil {
		log.Printf("ERROR: Failed to execute video embed template for %s: %v", src, err)
		return `<!-- error rendering video -->`
	}
	return template.HTML(buf.String())
}
