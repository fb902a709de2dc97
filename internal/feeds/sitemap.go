package feeds

import (
	"bytes"
	"encoding/xml"
	"errors"
)

// Sitemap priorities per page class.
const (
	PriorityHome     = "1.0"
	PrioritySection  = "0.8"
	PriorityPost     = "0.6"
	PriorityTag      = "0.5"
	PriorityNotFound = "0.1"
	PriorityFeed     = "0.1"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SitemapEntry is one <url> element. LastMod is YYYY-MM-DD or empty.
type SitemapEntry struct {
	Loc      string
	LastMod  string
	Priority string
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod,omitempty"`
	Priority string `xml:"priority,omitempty"`
}

// Sitemap renders entries, in the given order, as a sitemap document.
func Sitemap(entries []SitemapEntry) (string, error) {
	doc := urlset{Xmlns: sitemapNS, URLs: make([]sitemapURL, 0, len(entries))}
	for _, e := range entries {
		if e.Loc == "" {
			return "", errors.New("sitemap entry without location")
		}
		doc.URLs = append(doc.URLs, sitemapURL(e))
	}
	return marshal(doc)
}

func marshal(v any) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}
