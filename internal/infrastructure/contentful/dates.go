package contentful

import (
	"strings"
	"time"

	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/blog"
	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/richtext"
)

// dateLayouts are the shapes Contentful date fields come in, depending on
// whether the editor enabled time and timezone
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04-07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses a Contentful date field; empty or malformed input gives the zero time
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// AssetFromTarget converts a resolved asset target into a blog asset
func AssetFromTarget(target *richtext.EmbeddedTarget) *blog.Asset {
	if target == nil || target.Fields.File == nil || target.Fields.File.URL == "" {
		return nil
	}
	asset := &blog.Asset{
		URL:         target.Fields.File.URL,
		Title:       target.Fields.Title,
		Description: target.Fields.Description,
	}
	if details := target.Fields.File.Details; details != nil && details.Image != nil {
		asset.Width = details.Image.Width
		asset.Height = details.Image.Height
	}
	return asset
}
