package markdown

// Options controls Markdown rendering. The zero value renders with goldmark's own heading
// IDs and a table of contents over levels 2 to 4.
type Options struct {
	// Slugify derives heading IDs from heading text; nil uses goldmark's ASCII-only IDs.
	Slugify func(string) string
	// TOCMinLevel and TOCMaxLevel bound the headings listed in the table of contents.
	TOCMinLevel int
	TOCMaxLevel int
	// HardWraps renders soft line breaks as <br>.
	HardWraps bool
}

func (o Options) withDefaults() Options {
	if o.TOCMinLevel <= 0 {
		o.TOCMinLevel = 2
	}
	if o.TOCMaxLevel <= 0 {
		o.TOCMaxLevel = 4
	}
	if o.TOCMaxLevel < o.TOCMinLevel {
		o.TOCMaxLevel = o.TOCMinLevel
	}
	return o
}

// Heading is a heading found while rendering.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Result is a rendered document.
type Result struct {
	HTML       string
	TOC        string
	Headings   []Heading
	FirstImage string
}
