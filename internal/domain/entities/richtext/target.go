package richtext

import (
	"encoding/json"
	"strings"
)

// TargetType tells resolved entries and assets apart from unresolved links
type TargetType string

const (
	TargetEntry TargetType = "Entry"
	TargetAsset TargetType = "Asset"
	TargetLink  TargetType = "Link"
)

// EmbeddedTarget is a content item referenced from inside a document.
// The fetch layer owns it; renderers only read it.
type EmbeddedTarget struct {
	ID            string
	Type          TargetType
	LinkType      string
	ContentTypeID string
	Fields        TargetFields
}

// TargetFields is the subset of entry and asset fields the renderers use
type TargetFields struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Slug        string     `json:"slug,omitempty"`
	Heading     string     `json:"heading,omitempty"`
	EmbedURL    string     `json:"embedUrl,omitempty"`
	File        *AssetFile `json:"file,omitempty"`
}

// AssetFile describes the binary behind an asset
type AssetFile struct {
	URL         string       `json:"url"`
	FileName    string       `json:"fileName,omitempty"`
	ContentType string       `json:"contentType,omitempty"`
	Details     *FileDetails `json:"details,omitempty"`
}

// FileDetails holds size and, for images, dimensions
type FileDetails struct {
	Size  int64         `json:"size,omitempty"`
	Image *ImageDetails `json:"image,omitempty"`
}

// ImageDetails holds intrinsic image dimensions
type ImageDetails struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsResolved reports whether the target carries fields rather than a bare link
func (t *EmbeddedTarget) IsResolved() bool {
	return t != nil && t.Type != TargetLink && t.Type != ""
}

// IsImage reports whether an asset target points at an image file
func (t *EmbeddedTarget) IsImage() bool {
	return t != nil && t.Fields.File != nil && strings.Contains(t.Fields.File.ContentType, "image")
}

// ImageSize returns the image dimensions or the given defaults
func (t *EmbeddedTarget) ImageSize(defaultWidth, defaultHeight int) (int, int) {
	if t == nil || t.Fields.File == nil || t.Fields.File.Details == nil || t.Fields.File.Details.Image == nil {
		return defaultWidth, defaultHeight
	}
	img := t.Fields.File.Details.Image
	w, h := img.Width, img.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

type sysLink struct {
	Sys struct {
		ID string `json:"id"`
	} `json:"sys"`
}

type wireSys struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	LinkType    string   `json:"linkType,omitempty"`
	ContentType *sysLink `json:"contentType,omitempty"`
}

type wireTarget struct {
	Sys    wireSys                    `json:"sys"`
	Fields map[string]json.RawMessage `json:"fields,omitempty"`
}

// UnmarshalJSON decodes the delivery API {sys, fields} shape. Fields with an
// unexpected type are ignored so one odd content type cannot break a document.
func (t *EmbeddedTarget) UnmarshalJSON(data []byte) error {
	var raw wireTarget
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = EmbeddedTarget{
		ID:       raw.Sys.ID,
		Type:     TargetType(raw.Sys.Type),
		LinkType: raw.Sys.LinkType,
	}
	if raw.Sys.ContentType != nil {
		t.ContentTypeID = raw.Sys.ContentType.Sys.ID
	}

	t.Fields = DecodeTargetFields(raw.Fields)
	return nil
}

// DecodeTargetFields picks the known fields out of a raw field map
func DecodeTargetFields(fields map[string]json.RawMessage) TargetFields {
	var out TargetFields
	lenientString(fields["title"], &out.Title)
	lenientString(fields["description"], &out.Description)
	lenientString(fields["slug"], &out.Slug)
	lenientString(fields["heading"], &out.Heading)
	lenientString(fields["embedUrl"], &out.EmbedURL)

	if raw, ok := fields["file"]; ok {
		var file AssetFile
		if err := json.Unmarshal(raw, &file); err == nil && file.URL != "" {
			out.File = &file
		}
	}
	return out
}

func lenientString(raw json.RawMessage, dst *string) {
	if len(raw) == 0 {
		return
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		*dst = s
	}
}
