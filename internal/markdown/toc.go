package markdown

import (
	"html"
	"strings"
)

// buildTOC renders headings within [minLevel, maxLevel] as nested lists. A deeper
// heading opens one nested list regardless of how many levels it skips.
func buildTOC(headings []Heading, minLevel, maxLevel int) string {
	var b strings.Builder
	var stack []int
	for _, h := range headings {
		if h.Level < minLevel || h.Level > maxLevel || h.ID == "" {
			continue
		}
		switch {
		case len(stack) == 0:
			b.WriteString("<ul>\n<li>")
			stack = append(stack, h.Level)
		case h.Level > stack[len(stack)-1]:
			b.WriteString("\n<ul>\n<li>")
			stack = append(stack, h.Level)
		default:
			for len(stack) > 1 && h.Level < stack[len(stack)-1] {
				b.WriteString("</li>\n</ul>\n")
				stack = stack[:len(stack)-1]
			}
			b.WriteString("</li>\n<li>")
		}
		b.WriteString(`<a href="#`)
		b.WriteString(html.EscapeString(h.ID))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(h.Text))
		b.WriteString("</a>")
	}
	for range stack {
		b.WriteString("</li>\n</ul>\n")
	}
	return b.String()
}
