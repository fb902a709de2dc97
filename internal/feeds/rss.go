package feeds

import (
	"encoding/xml"
	"time"
)

const atomNS = "http://www.w3.org/2005/Atom"

// Channel describes the feed itself. Link and SelfLink are absolute URLs.
type Channel struct {
	Title       string
	Link        string
	Description string
	Language    string
	SelfLink    string
	// MaxItems caps the number of items; zero keeps all of them.
	MaxItems int
}

// Item is one post in the feed. Content is the rendered HTML body.
type Item struct {
	Title     string
	Link      string
	Published time.Time
	Content   string
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	AtomLink      atomLink  `xml:"atom:link"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	PubDate     string  `xml:"pubDate"`
	GUID        rssGUID `xml:"guid"`
	Description cdata   `xml:"description"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

// RSS renders an RSS 2.0 feed. Items are expected newest first; ts is the build time.
func RSS(ch Channel, items []Item, ts time.Time) (string, error) {
	if ch.MaxItems > 0 && len(items) > ch.MaxItems {
		items = items[:ch.MaxItems]
	}
	doc := rssDoc{
		Version: "2.0",
		Atom:    atomNS,
		Channel: rssChannel{
			Title:         ch.Title,
			Link:          ch.Link,
			Description:   ch.Description,
			Language:      ch.Language,
			AtomLink:      atomLink{Href: ch.SelfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: ts.UTC().Format(time.RFC1123Z),
			Items:         make([]rssItem, 0, len(items)),
		},
	}
	for _, it := range items {
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       it.Title,
			Link:        it.Link,
			PubDate:     it.Published.UTC().Format(time.RFC1123Z),
			GUID:        rssGUID{IsPermaLink: "true", Value: it.Link},
			Description: cdata{Text: it.Content},
		})
	}
	return marshal(doc)
}
