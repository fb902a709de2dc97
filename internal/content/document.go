package content

import (
	"fmt"
	"os"
	"strings"

	cerrors "git.home.luguber.info/inful/blogbuilder/internal/content/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/blogbuilder/internal/incremental"
)

// Kind is the role a document plays in the site.
type Kind int

const (
	KindPost Kind = iota
	KindNotFound
	KindAbout
	KindHidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAbout:
		return "about"
	case KindHidden:
		return "hidden"
	default:
		return "post"
	}
}

// NotFoundSlug is the slug (and file name stem) of the site's 404 page.
const NotFoundSlug = "404"

// AboutSlug makes a hidden document the about page regardless of its file name.
const AboutSlug = "about"

// Document is a source file read and classified for this run.
type Document struct {
	Source
	Raw  []byte
	Hash string
	Meta Metadata
	Body []byte
	Kind Kind
	// Warnings are per-document problems that did not stop it from loading.
	Warnings []string
}

// LoadOptions controls document classification.
type LoadOptions struct {
	// AboutPage is the file name of the hidden about page.
	AboutPage string
}

// Load reads, hashes and parses src. Malformed front matter is a warning: the document is
// then treated as having none.
func Load(src Source, opts LoadOptions) (*Document, error) {
	raw, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", cerrors.ErrFileReadFailed, src.RelPath, err)
	}
	return Parse(src, raw, opts), nil
}

// Parse builds a document from bytes already read.
func Parse(src Source, raw []byte, opts LoadOptions) *Document {
	doc := &Document{Source: src, Raw: raw, Hash: incremental.HashBytes(raw)}

	fields, body, err := frontmatter.Parse(raw)
	if err != nil {
		doc.Warnings = append(doc.Warnings, fmt.Sprintf("front matter ignored: %v", err))
	}
	doc.Body = body

	var warns []string
	doc.Meta, warns = ParseMetadata(fields, src.Name())
	doc.Warnings = append(doc.Warnings, warns...)
	doc.Kind = classify(doc, opts)
	return doc
}

func classify(doc *Document, opts LoadOptions) Kind {
	name := doc.Name()
	stem := strings.TrimSuffix(name, ".md")
	switch {
	case doc.Meta.Slug == NotFoundSlug || stem == NotFoundSlug:
		return KindNotFound
	case doc.Meta.Hidden && (doc.Meta.Slug == AboutSlug || (opts.AboutPage != "" && name == opts.AboutPage)):
		return KindAbout
	case doc.Meta.Hidden:
		return KindHidden
	default:
		return KindPost
	}
}

// Publishable reports why a post cannot be published, or nil. Special pages are always
// publishable.
func (d *Document) Publishable() error {
	if d.Kind != KindPost {
		return nil
	}
	if strings.TrimSpace(d.Meta.Title) == "" {
		return cerrors.ErrMissingTitle
	}
	if !d.Meta.HasDate() {
		return cerrors.ErrMissingDate
	}
	return nil
}

// Listed reports whether the document appears on aggregate pages and in navigation.
func (d *Document) Listed() bool {
	return d.Kind == KindPost && !d.Meta.Draft() && d.Publishable() == nil
}

// Rendered reports whether the document has a page of its own.
func (d *Document) Rendered() bool {
	return d.Kind != KindHidden && d.Publishable() == nil
}
