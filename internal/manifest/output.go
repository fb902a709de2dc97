package manifest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags what a document produces in the output tree.
type Kind int

const (
	// KindUnknown is the zero value: the manifest recorded no output for the document.
	KindUnknown Kind = iota
	// KindIndexed documents have a standalone, linkable output location.
	KindIndexed
	// KindHidden documents produce no indexed URL (drafts kept out of listings, the about page).
	KindHidden
	// KindNotFound is the site's 404 page.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindIndexed:
		return "indexed"
	case KindHidden:
		return "hidden"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// On-disk encodings of the non-indexed kinds.
const (
	hiddenLink   = "hidden"
	notFoundLink = "404.html"
)

// Output is the tagged output of a document. Only Indexed outputs carry a link, so
// cleanup code cannot mistake a marker for a path.
type Output struct {
	kind Kind
	link string
}

// Indexed returns an output at link, an output-relative location such as "posts/hello/".
// An empty link yields the unknown output.
func Indexed(link string) Output {
	link = strings.TrimSpace(link)
	if link == "" {
		return Output{}
	}
	return Output{kind: KindIndexed, link: link}
}

// Hidden returns the output of a document that has no indexed URL.
func Hidden() Output { return Output{kind: KindHidden} }

// NotFound returns the output of the 404 page.
func NotFound() Output { return Output{kind: KindNotFound} }

// ParseOutput decodes the on-disk string form.
func ParseOutput(s string) Output {
	switch strings.TrimSpace(s) {
	case "":
		return Output{}
	case hiddenLink:
		return Hidden()
	case notFoundLink:
		return NotFound()
	default:
		return Indexed(s)
	}
}

func (o Output) Kind() Kind { return o.kind }

// Known reports whether the manifest recorded an output at all.
func (o Output) Known() bool { return o.kind != KindUnknown }

// Link returns the location of an Indexed output; ok is false for every other kind.
func (o Output) Link() (link string, ok bool) {
	if o.kind != KindIndexed {
		return "", false
	}
	return o.link, true
}

// String returns the on-disk encoding.
func (o Output) String() string {
	switch o.kind {
	case KindIndexed:
		return o.link
	case KindHidden:
		return hiddenLink
	case KindNotFound:
		return notFoundLink
	default:
		return ""
	}
}

func (o Output) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Output) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Output{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode output link: %w", err)
	}
	*o = ParseOutput(s)
	return nil
}
