package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"

	"git.home.luguber.info/inful/blogbuilder/internal/build"
)

type printer struct {
	w      io.Writer
	green  *color.Color
	yellow *color.Color
	red    *color.Color
	cyan   *color.Color
}

// newPrinter writes to w. Color also stays off when NO_COLOR is set or w is not a terminal.
func newPrinter(w io.Writer, noColor bool) *printer {
	p := &printer{
		w:      w,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed, color.Bold),
		cyan:   color.New(color.FgCyan),
	}
	if noColor {
		for _, c := range []*color.Color{p.green, p.yellow, p.red, p.cyan} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) summary(r *build.Report) {
	if r == nil {
		return
	}
	switch r.Outcome {
	case build.OutcomeSuccess:
		_, _ = p.green.Fprintf(p.w, "✓ Build %s\n", r.Outcome)
	case build.OutcomeWarning:
		_, _ = p.yellow.Fprintf(p.w, "⚠ Build finished with warnings\n")
	default:
		_, _ = p.red.Fprintf(p.w, "✗ Build %s\n", r.Outcome)
	}

	_, _ = fmt.Fprintf(p.w, "  documents  %d (%d excluded)\n", r.Documents, r.Excluded)
	_, _ = fmt.Fprintf(p.w, "  rendered   %d, skipped %d, failed %d\n", r.RenderedPages, r.Skipped, r.FailedPages)
	_, _ = fmt.Fprintf(p.w, "  deleted    %d\n", r.Deleted)
	if r.ThemeChanged {
		_, _ = p.cyan.Fprintf(p.w, "  theme      changed (%d dependencies)\n", len(r.ThemeChangedKeys))
	}
	if r.AggregatesRebuilt {
		_, _ = p.cyan.Fprintf(p.w, "  aggregates rebuilt %v\n", r.AggregateReasons)
	} else {
		_, _ = fmt.Fprintf(p.w, "  aggregates up to date\n")
	}
	if len(r.Reasons) > 0 {
		keys := make([]string, 0, len(r.Reasons))
		for k := range r.Reasons {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(p.w, "    %-16s %d\n", k, r.Reasons[k])
		}
	}
	for _, is := range r.Issues {
		c := p.yellow
		if is.Severity == build.SeverityError {
			c = p.red
		}
		line := is.Message
		if is.Path != "" {
			line = is.Path + ": " + line
		}
		_, _ = c.Fprintf(p.w, "  %s %s\n", is.Code, line)
	}
	_, _ = fmt.Fprintf(p.w, "  took       %s\n", r.End.Sub(r.Start).Truncate(time.Millisecond))
}
