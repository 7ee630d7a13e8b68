// Package render formats recognition and translation results for output.
package render

import (
	"fmt"
	"io"
	"strings"
)

type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown format %q (use text, markdown or html)", s)
	}
}

type Section struct {
	Heading string
	Body    string
}

type Document struct {
	Title    string
	Sections []Section
}

func (d *Document) Add(heading, body string) {
	d.Sections = append(d.Sections, Section{Heading: heading, Body: body})
}

// Render writes doc to w. Text output is one "Heading: body" line per
// section; markdown and html add a title and one heading per section.
func Render(w io.Writer, f Format, doc Document) error {
	var out string
	switch f {
	case FormatText, "":
		out = Text(doc)
	case FormatMarkdown:
		out = Markdown(doc)
	case FormatHTML:
		out = ToHTML([]byte(Markdown(doc)))
	default:
		return fmt.Errorf("unknown format %q", f)
	}
	_, err := io.WriteString(w, out)
	return err
}

func Text(doc Document) string {
	var b strings.Builder
	for _, s := range doc.Sections {
		fmt.Fprintf(&b, "%s: %s\n", s.Heading, s.Body)
	}
	return b.String()
}

func Markdown(doc Document) string {
	var b strings.Builder
	if doc.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", Escape(doc.Title))
	}
	for _, s := range doc.Sections {
		fmt.Fprintf(&b, "## %s\n\n", Escape(s.Heading))
		body := strings.TrimSpace(s.Body)
		if body == "" {
			b.WriteString("_(empty)_\n\n")
			continue
		}
		fmt.Fprintf(&b, "%s\n\n", Escape(body))
	}
	return b.String()
}
