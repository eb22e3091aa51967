package markdown

import (
	"html/template"
	"regexp"
	"strconv"
	"strings"

	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates/elements"
)

const (
	defaultImageWidth  = 800
	defaultImageHeight = 450
	defaultAspectRatio = "aspect-ratio: 16 / 9"
)

// dimensionSuffix matches the "[WIDTHxHEIGHT]" convention at the end of alt text
var dimensionSuffix = regexp.MustCompile(`\s*\[(\d+)x(\d+)\]\s*$`)

// parseDimensions strips a trailing [WxH] from alt and returns the caption and
// the parsed size. ok is false when there is no usable suffix.
func parseDimensions(alt string) (caption string, width, height int, ok bool) {
	match := dimensionSuffix.FindStringSubmatchIndex(alt)
	if match == nil {
		return strings.TrimSpace(alt), 0, 0, false
	}

	w, errW := strconv.Atoi(alt[match[2]:match[3]])
	h, errH := strconv.Atoi(alt[match[4]:match[5]])
	caption = strings.TrimSpace(alt[:match[0]])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return caption, 0, 0, false
	}
	return caption, w, h, true
}

func imageFor(src, alt string) elements.Image {
	if strings.HasPrefix(src, "//") {
		src = "https:" + src
	}
	caption, width, height, ok := parseDimensions(alt)

	img := elements.Image{
		Src:     src,
		Alt:     caption,
		Width:   width,
		Height:  height,
		Caption: caption,
	}
	if img.Alt == "" {
		img.Alt = "Image"
	}
	if !ok {
		img.Width = defaultImageWidth
		img.Height = defaultImageHeight
		img.Style = template.CSS(defaultAspectRatio)
	}
	return img
}
