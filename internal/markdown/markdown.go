// Package markdown renders post bodies to HTML.
package markdown

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md   goldmark.Markdown
	opts Options
}

// New builds a renderer with GFM, footnotes, definition lists and typographic quotes.
// Raw HTML in documents is passed through.
func New(opts Options) *Renderer {
	opts = opts.withDefaults()
	rendererOpts := []renderer.Option{gmhtml.WithUnsafe()}
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, gmhtml.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			extension.Typographer,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &Renderer{md: md, opts: opts}
}

// Render converts a Markdown body (front matter already removed).
func (r *Renderer) Render(src []byte) (Result, error) {
	var ctxOpts []parser.ContextOption
	if r.opts.Slugify != nil {
		ctxOpts = append(ctxOpts, parser.WithIDs(newHeadingIDs(r.opts.Slugify)))
	}
	ctx := parser.NewContext(ctxOpts...)
	root := r.md.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))

	headings := collectHeadings(root, src)

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, root); err != nil {
		return Result{}, fmt.Errorf("render markdown: %w", err)
	}

	out, firstImage, err := postProcess(buf.String())
	if err != nil {
		return Result{}, err
	}

	return Result{
		HTML:       out,
		TOC:        buildTOC(headings, r.opts.TOCMinLevel, r.opts.TOCMaxLevel),
		Headings:   headings,
		FirstImage: firstImage,
	}, nil
}

func collectHeadings(root gmast.Node, src []byte) []Heading {
	var headings []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		var id string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		headings = append(headings, Heading{Level: h.Level, ID: id, Text: plainText(h, src)})
		return gmast.WalkSkipChildren, nil
	})
	return headings
}

// plainText concatenates the text of n's inline descendants.
func plainText(n gmast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(gmast.Node)
	walk = func(n gmast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *gmast.Text:
				buf.Write(t.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte(' ')
				}
			case *gmast.String:
				if t.IsCode() {
					buf.WriteString(html.UnescapeString(string(t.Value)))
				} else {
					buf.Write(t.Value)
				}
			case *gmast.RawHTML:
				// Inline tags carry no heading text.
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return string(bytes.TrimSpace(buf.Bytes()))
}
