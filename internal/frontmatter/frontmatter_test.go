package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\nkey: value\n---\n# Title\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, had, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\r\nkey: value\r\n---\r\n# Title\r\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	fm, body, had, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_TolerantDelimiters(t *testing.T) {
	input := []byte("\xef\xbb\xbf---  \ntitle: x\n--- \nbody")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Equal(t, []byte("body"), body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, had, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Empty(t, body)
}

func TestSplit_HorizontalRuleInBodyIsNotFrontmatter(t *testing.T) {
	input := []byte("Intro\n---\nMore\n")
	_, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Equal(t, input, body)
}

func TestParseYAML(t *testing.T) {
	fields, err := ParseYAML([]byte("title: abc\ntags:\n  - one\n"))
	require.NoError(t, err)
	require.Equal(t, "abc", fields["title"])
	require.Equal(t, []any{"one"}, fields["tags"])

	fields, err = ParseYAML(nil)
	require.NoError(t, err)
	require.Empty(t, fields)

	_, err = ParseYAML([]byte(": not yaml"))
	require.Error(t, err)
}

func TestParse_GracefulOnMalformedHeader(t *testing.T) {
	raw := []byte("---\ntitle: [unclosed\n---\nBody text\n")

	fields, body, err := Parse(raw)
	require.Error(t, err)
	require.Empty(t, fields)
	require.Equal(t, raw, body)
}

func TestParse_MissingClosingDelimiterKeepsWholeInput(t *testing.T) {
	raw := []byte("---\ntitle: x\nBody\n")

	fields, body, err := Parse(raw)
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.Empty(t, fields)
	require.Equal(t, raw, body)
}

func TestParse_Valid(t *testing.T) {
	fields, body, err := Parse([]byte("---\ntitle: Hello\nhidden: true\n---\n\nText\n"))
	require.NoError(t, err)
	require.Equal(t, "Hello", fields["title"])
	require.Equal(t, true, fields["hidden"])
	require.Equal(t, []byte("\nText\n"), body)
}
