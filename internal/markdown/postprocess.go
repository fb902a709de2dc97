package markdown

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const tableWrapperClass = "table-wrapper"

// postProcess lazy-loads images, wraps tables for horizontal scrolling and reports the
// first image source. Documents without images or tables are returned unchanged.
func postProcess(s string) (string, string, error) {
	if !strings.Contains(s, "<img") && !strings.Contains(s, "<table") {
		return s, "", nil
	}

	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", "", fmt.Errorf("parse rendered html: %w", err)
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	var firstImage string
	var tables []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Img:
				if _, ok := attr(n, "loading"); !ok {
					n.Attr = append(n.Attr, html.Attribute{Key: "loading", Val: "lazy"})
				}
				if src, ok := attr(n, "src"); ok && firstImage == "" {
					firstImage = src
				}
			case atom.Table:
				tables = append(tables, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(container)

	for _, t := range tables {
		wrapTable(t)
	}

	var buf bytes.Buffer
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", "", fmt.Errorf("render html: %w", err)
		}
	}
	return buf.String(), firstImage, nil
}

func wrapTable(t *html.Node) {
	parent := t.Parent
	if parent == nil || isTableWrapper(parent) {
		return
	}
	wrapper := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "class", Val: tableWrapperClass}},
	}
	parent.InsertBefore(wrapper, t)
	parent.RemoveChild(t)
	wrapper.AppendChild(t)
}

func isTableWrapper(n *html.Node) bool {
	class, ok := attr(n, "class")
	return ok && n.DataAtom == atom.Div && slices.Contains(strings.Fields(class), tableWrapperClass)
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
