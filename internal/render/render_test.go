package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() Document {
	doc := Document{Title: "note.png"}
	doc.Add("Recognized Text", "Hello *world*")
	doc.Add("Translated Text", "Bonjour le monde")
	return doc
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"Markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{" html ", FormatHTML, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatText, sampleDoc()))

	assert.Equal(t, "Recognized Text: Hello *world*\nTranslated Text: Bonjour le monde\n", buf.String())
}

func TestRender_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatMarkdown, sampleDoc()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# note.png\n\n"))
	assert.Contains(t, out, "## Recognized Text\n\nHello \\*world\\*\n\n")
	assert.Contains(t, out, "## Translated Text\n\nBonjour le monde\n\n")
}

func TestRender_MarkdownEmptySection(t *testing.T) {
	doc := Document{}
	doc.Add("Recognized Text", "  ")

	assert.Equal(t, "## Recognized Text\n\n_(empty)_\n\n", Markdown(doc))
}

func TestRender_HTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatHTML, sampleDoc()))

	out := buf.String()
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<h2")
	assert.Contains(t, out, "Hello *world*")
	assert.NotContains(t, out, "<em>")
}

func TestToHTML_Link(t *testing.T) {
	out := ToHTML([]byte("[site](https://example.com)"))
	assert.Contains(t, out, `target="_blank"`)
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, Format("pdf"), sampleDoc()))
}
