package manifest

import (
	"maps"
	"slices"
)

// Entry is the persisted record of one source document at its last regeneration.
type Entry struct {
	ContentHash string   `json:"hash"`
	Title       string   `json:"title"`
	Date        string   `json:"date_str"`
	Output      Output   `json:"link"`
	Tags        []string `json:"tags_list"`
	Hidden      bool     `json:"hidden"`
	Status      string   `json:"status"`
}

// Manifest is the only state carried between builds.
type Manifest struct {
	Posts       map[string]Entry  `json:"posts"`
	StaticFiles map[string]string `json:"staticFiles"`
	// Templates holds hashes of every theme dependency: templates, the stylesheet, the
	// configuration and the builder itself.
	Templates map[string]string `json:"templates"`
}

// New returns an empty manifest, the state of a first build.
func New() *Manifest {
	return &Manifest{
		Posts:       map[string]Entry{},
		StaticFiles: map[string]string{},
		Templates:   map[string]string{},
	}
}

// IsEmpty reports whether there is no prior history at all.
func (m *Manifest) IsEmpty() bool {
	return m == nil || len(m.Posts) == 0 && len(m.StaticFiles) == 0 && len(m.Templates) == 0
}

// Entry looks up a post entry.
func (m *Manifest) Entry(path string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	e, ok := m.Posts[path]
	return e, ok
}

// Clone returns a deep copy.
func (m *Manifest) Clone() *Manifest {
	out := New()
	if m == nil {
		return out
	}
	for k, e := range m.Posts {
		e.Tags = slices.Clone(e.Tags)
		out.Posts[k] = e
	}
	maps.Copy(out.StaticFiles, m.StaticFiles)
	maps.Copy(out.Templates, m.Templates)
	return out
}

// normalize replaces nil maps and tag slices so the encoded document is stable.
func (m *Manifest) normalize() {
	if m.Posts == nil {
		m.Posts = map[string]Entry{}
	}
	if m.StaticFiles == nil {
		m.StaticFiles = map[string]string{}
	}
	if m.Templates == nil {
		m.Templates = map[string]string{}
	}
	for k, e := range m.Posts {
		if e.Tags == nil {
			e.Tags = []string{}
			m.Posts[k] = e
		}
	}
}
