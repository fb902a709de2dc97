package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var bom = []byte("\xef\xbb\xbf")

// ErrMissingClosingDelimiter indicates the document opened a YAML front matter block but
// never closed it.
var ErrMissingClosingDelimiter = errors.New("yaml front matter start delimiter found but closing delimiter is missing")

// Split separates `---` delimited YAML front matter from the Markdown body.
//
// A UTF-8 byte order mark and trailing blanks on delimiter lines are tolerated, as is a
// closing delimiter on the last line without a newline. If the document does not start
// with a delimiter, had is false and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	content = bytes.TrimPrefix(content, bom)

	first, rest, _ := cutLine(content)
	if !isDelimiter(first) {
		return nil, content, false, nil
	}

	start := len(content) - len(rest)
	pos := start
	for pos <= len(content) {
		line, next, _ := cutLine(content[pos:])
		if isDelimiter(line) {
			bodyStart := len(content) - len(next)
			return content[start:pos], content[bodyStart:], true, nil
		}
		if len(next) == 0 {
			break
		}
		pos = len(content) - len(next)
	}
	return nil, nil, false, ErrMissingClosingDelimiter
}

// ParseYAML parses raw YAML front matter (without delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Parse splits and decodes a whole document. It never fails hard: on a malformed header
// the metadata is empty, the body is the full input, and the returned error explains why
// so the caller can log it.
func Parse(raw []byte) (map[string]any, []byte, error) {
	fm, body, had, err := Split(raw)
	if err != nil {
		return map[string]any{}, bytes.TrimPrefix(raw, bom), err
	}
	if !had {
		return map[string]any{}, body, nil
	}
	fields, err := ParseYAML(fm)
	if err != nil {
		return map[string]any{}, bytes.TrimPrefix(raw, bom), fmt.Errorf("parse front matter: %w", err)
	}
	return fields, body, nil
}

// cutLine returns the first line without its terminator, the remainder after it, and
// whether a terminator was found.
func cutLine(b []byte) (line, rest []byte, found bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil, false
	}
	line = b[:i]
	return bytes.TrimSuffix(line, []byte("\r")), b[i+1:], true
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, " \t\r")) == "---"
}
