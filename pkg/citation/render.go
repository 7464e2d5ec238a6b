package citation

import (
	"fmt"
	"strings"
)

// Rendered holds the four citation forms for one reference.
type Rendered struct {
	Full     string
	Short    string
	InText   string
	Footnote string
}

// Renderer produces the four AGLC4-style citation forms. The zero value
// renders footnotes on the full reference.
type Renderer struct {
	footnoteStyle FootnoteStyle
}

// NewRenderer creates a renderer with the given footnote style.
func NewRenderer(style FootnoteStyle) *Renderer {
	return &Renderer{footnoteStyle: style}
}

// RenderAll produces all four forms for a reference.
func (r *Renderer) RenderAll(ref Reference) Rendered {
	return Rendered{
		Full:     r.Full(ref),
		Short:    r.Short(ref),
		InText:   r.InText(ref),
		Footnote: r.Footnote(ref),
	}
}

// Full renders "{title} {version-year}, {kindAbbrev} {number}{suffix}",
// e.g. "National Construction Code 2025, s 3.2.1 (Qld)". The jurisdiction
// suffix is omitted when the title already embeds it.
func (r *Renderer) Full(ref Reference) string {
	return r.render(titleWithYear(ref.Title, yearFromCode(ref.DocumentCode)), ref)
}

// Short renders the same shape using the document code in place of the
// title, e.g. "NCC 2025, s 3.2.1".
func (r *Renderer) Short(ref Reference) string {
	return r.render(ref.DocumentCode, ref)
}

// InText wraps the short form in parentheses, with an optional trailing
// page number or year: "(NCC 2025, s 3.2.1, 12)".
func (r *Renderer) InText(ref Reference) string {
	body := r.Short(ref)
	switch {
	case ref.PageNumber > 0:
		body += fmt.Sprintf(", %d", ref.PageNumber)
	case ref.Year > 0:
		body += fmt.Sprintf(", %d", ref.Year)
	}
	return "(" + body + ")"
}

// Footnote renders the full or short form (per the configured style),
// inserting "[page]" before the quote when a page number is supplied and
// appending quoted text in single quotes:
// "NCC 2025, s 3.2.1 [12] 'moisture content must not exceed ...'".
func (r *Renderer) Footnote(ref Reference) string {
	body := r.Full(ref)
	if r.footnoteStyle == FootnoteShort {
		body = r.Short(ref)
	}
	if ref.PageNumber > 0 {
		body += fmt.Sprintf(" [%d]", ref.PageNumber)
	}
	if ref.QuotedText != "" {
		body += " '" + strings.TrimSpace(ref.QuotedText) + "'"
	}
	return body
}

// render assembles "{name}, {kindAbbrev} {number}{jurisdictionSuffix}".
func (r *Renderer) render(name string, ref Reference) string {
	citation := fmt.Sprintf("%s, %s %s", name, KindAbbrev(ref.Token), FormatTokenNumber(ref.Token))
	if !ref.Jurisdiction.IsNational() && !strings.Contains(name, ref.Jurisdiction.Suffix()) {
		citation += ref.Jurisdiction.Suffix()
	}
	return citation
}

// titleWithYear appends the version year from the document code unless
// the title already ends with it.
func titleWithYear(title, year string) string {
	if year == "" || strings.HasSuffix(title, year) {
		return title
	}
	return title + " " + year
}
