package content

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/normalization"
)

// Status is the publication state of a document.
type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
)

var statusNormalizer = normalization.NewNormalizer("status", map[string]Status{
	"published": StatusPublished,
	"publish":   StatusPublished,
	"public":    StatusPublished,
	"draft":     StatusDraft,
	"drafts":    StatusDraft,
	"wip":       StatusDraft,
}, StatusPublished)

// DateFormat is the day-level format stored in the manifest and shown on pages.
const DateFormat = "2006-01-02"

var dateLayouts = []string{
	DateFormat,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
}

var datedName = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.*)$`)

// Tag is a tag as written plus its URL slug.
type Tag struct {
	Name string
	Slug string
}

// Metadata is the normalized front matter of a document.
type Metadata struct {
	Title   string
	Date    time.Time // zero when unknown
	Updated time.Time // zero when unset
	Tags    []Tag
	Slug    string
	Status  Status
	Hidden  bool
	Excerpt string
}

// HasDate reports whether a date was found.
func (m Metadata) HasDate() bool { return !m.Date.IsZero() }

// DateString formats the date for the manifest, "" when unknown.
func (m Metadata) DateString() string {
	if m.Date.IsZero() {
		return ""
	}
	return m.Date.Format(DateFormat)
}

// Draft reports whether the document is kept out of listings.
func (m Metadata) Draft() bool { return m.Status == StatusDraft }

// TagNames returns the tag names in front-matter order.
func (m Metadata) TagNames() []string {
	out := make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		out = append(out, t.Name)
	}
	return out
}

// ParseMetadata normalizes front-matter fields of the document stored in filename. The
// returned warnings describe values that were ignored.
func ParseMetadata(fields map[string]any, filename string) (Metadata, []string) {
	var warns []string
	warnf := func(format string, args ...any) { warns = append(warns, fmt.Sprintf(format, args...)) }

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	datePrefix, nameSlug := "", base
	if m := datedName.FindStringSubmatch(base); m != nil && m[2] != "" {
		datePrefix, nameSlug = m[1], m[2]
	}

	var md Metadata

	md.Slug = strings.ToLower(nameSlug)
	if raw, ok := fields["slug"]; ok && raw != nil {
		s := strings.ToLower(strings.TrimSpace(fmt.Sprint(raw)))
		if s != "" {
			md.Slug = s
		}
	}
	if strings.ContainsAny(md.Slug, `/\`) || md.Slug == "." || md.Slug == ".." {
		safe := Slugify(md.Slug)
		warnf("slug %q is not a path segment, using %q", md.Slug, safe)
		md.Slug = safe
	}

	if raw, ok := fields["title"]; ok && raw != nil {
		md.Title = strings.TrimSpace(fmt.Sprint(raw))
	}
	if md.Title == "" {
		md.Title = titleFromSlug(md.Slug)
	}

	if raw, ok := fields["date"]; ok && raw != nil {
		d, err := parseDate(raw)
		if err != nil {
			warnf("date: %v", err)
		} else {
			md.Date = d
		}
	}
	if md.Date.IsZero() && datePrefix != "" {
		if d, err := time.Parse(DateFormat, datePrefix); err == nil {
			md.Date = d
		}
	}

	if raw, ok := fields["updated"]; ok && raw != nil {
		d, err := parseDate(raw)
		if err != nil {
			warnf("updated: %v", err)
		} else {
			md.Updated = d
		}
	}

	md.Tags = parseTags(fields["tags"], warnf)

	md.Status = StatusPublished
	if raw, ok := fields["status"]; ok && raw != nil {
		s, err := statusNormalizer.NormalizeWithError(fmt.Sprint(raw))
		if err != nil {
			warnf("%v", err)
		} else {
			md.Status = s
		}
	}
	if raw, ok := fields["draft"]; ok {
		if b, ok := asBool(raw); ok && b {
			md.Status = StatusDraft
		}
	}

	if raw, ok := fields["hidden"]; ok && raw != nil {
		b, ok := asBool(raw)
		if !ok {
			warnf("hidden: %v is not a boolean", raw)
		}
		md.Hidden = b
	}

	for _, key := range []string{"summary", "excerpt", "description"} {
		if raw, ok := fields[key]; ok && raw != nil {
			if s := strings.TrimSpace(fmt.Sprint(raw)); s != "" {
				md.Excerpt = s
				break
			}
		}
	}

	return md, warns
}

func titleFromSlug(slug string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(slug, "-", " "))
}

func parseDate(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %v", raw)
	}
}

func parseTags(raw any, warnf func(string, ...any)) []Tag {
	var names []string
	switch v := raw.(type) {
	case nil:
	case string:
		names = strings.Split(v, ",")
	case []any:
		for _, item := range v {
			if item == nil {
				continue
			}
			names = append(names, fmt.Sprint(item))
		}
	case []string:
		names = v
	default:
		warnf("tags: unsupported value %v", raw)
	}

	tags := make([]Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		slug := Slugify(n)
		if slug == "" {
			warnf("tag %q has no usable characters", n)
			continue
		}
		// Tags that share a page are one tag; the first spelling wins.
		if seen[slug] {
			continue
		}
		seen[slug] = true
		tags = append(tags, Tag{Name: n, Slug: slug})
	}
	return tags
}

func asBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1":
			return true, true
		case "false", "no", "off", "0", "":
			return false, true
		}
	case int:
		return v != 0, true
	}
	return false, false
}
