package render

import (
	"bytes"
	"encoding/json"
	"html/template"
)

// DefaultCover is the output-relative image used when a post has none.
const DefaultCover = "static/default-cover.png"

// DefaultLogo is the output-relative publisher logo.
const DefaultLogo = "static/logo.png"

type jsonldThing struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
	ID   string `json:"@id,omitempty"`
}

type jsonldPublisher struct {
	Type string      `json:"@type"`
	Name string      `json:"name"`
	Logo jsonldThing `json:"logo"`
}

type blogPosting struct {
	Context          string          `json:"@context"`
	Type             string          `json:"@type"`
	Headline         string          `json:"headline"`
	Image            string          `json:"image"`
	DatePublished    string          `json:"datePublished"`
	DateModified     string          `json:"dateModified"`
	Author           jsonldThing     `json:"author"`
	Publisher        jsonldPublisher `json:"publisher"`
	Description      string          `json:"description"`
	MainEntityOfPage jsonldThing     `json:"mainEntityOfPage"`
}

// PostingInput describes the post a BlogPosting object is built for.
type PostingInput struct {
	Title       string
	Description string
	Published   string // YYYY-MM-DD
	Modified    string // YYYY-MM-DD, defaults to Published
	Link        string // output-relative
	FirstImage  string
	Author      string
	SiteTitle   string
}

// BlogPosting returns the schema.org JSON-LD object for a post, safe to embed in a
// script element.
func BlogPosting(u URLs, in PostingInput) (template.JS, error) {
	image := u.AbsoluteAsset(DefaultCover)
	if in.FirstImage != "" {
		image = u.AbsoluteAsset(in.FirstImage)
	}
	modified := in.Modified
	if modified == "" {
		modified = in.Published
	}
	obj := blogPosting{
		Context:       "https://schema.org",
		Type:          "BlogPosting",
		Headline:      in.Title,
		Image:         image,
		DatePublished: in.Published,
		DateModified:  modified,
		Author:        jsonldThing{Type: "Person", Name: in.Author},
		Publisher: jsonldPublisher{
			Type: "Organization",
			Name: in.SiteTitle,
			Logo: jsonldThing{Type: "ImageObject", URL: u.AbsoluteAsset(DefaultLogo)},
		},
		Description:      in.Description,
		MainEntityOfPage: jsonldThing{Type: "WebPage", ID: u.Absolute(in.Link)},
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	enc.SetIndent("", "  ")
	if err := enc.Encode(obj); err != nil {
		return "", err
	}
	return template.JS(bytes.TrimRight(buf.Bytes(), "\n")), nil // #nosec G203 -- JSON encoded with HTML escaping
}
