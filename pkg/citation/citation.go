// Package citation implements the AGLC4-style citation grammar: document
// name normalization, section token parsing, rendering of full / short /
// in-text / footnote forms, and format validation of externally-authored
// citation strings.
package citation

import (
	"errors"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

// EnDash is the range separator the grammar requires. A plain hyphen in a
// rendered range is a formatting error.
const EnDash = "–"

// ErrUnknownDocument is returned when a document name cannot be resolved
// to a canonical document code. The normalizer never guesses.
var ErrUnknownDocument = errors.New("citation: unknown document")

// ErrUnparseableSectionToken is returned when a section notation does not
// match any recognized form.
var ErrUnparseableSectionToken = errors.New("citation: unparseable section token")

// NormalizedDocument is the outcome of resolving a free-form document name
// against the known-document table.
type NormalizedDocument struct {
	DocumentCode string
	Title        string
	Jurisdiction types.Jurisdiction
}

// Reference carries everything the renderer needs to produce the four
// citation forms for one document/section pairing.
type Reference struct {
	DocumentCode string
	Title        string
	Jurisdiction types.Jurisdiction
	Token        types.SectionToken

	// QuotedText, if set, is appended to the footnote form in single
	// quotes.
	QuotedText string

	// PageNumber, if positive, renders as ", N" in the in-text form and
	// "[N]" in the footnote form.
	PageNumber int

	// Year, if positive and PageNumber is absent, renders as ", YYYY" in
	// the in-text form.
	Year int
}

// FootnoteStyle selects whether footnotes are built on the full or the
// short reference.
type FootnoteStyle int

const (
	FootnoteFull FootnoteStyle = iota
	FootnoteShort
)

// kindAbbrevs maps each section kind to its AGLC4 abbreviation.
var kindAbbrevs = map[types.SectionKind]string{
	types.KindSection:  "s",
	types.KindChapter:  "ch",
	types.KindSchedule: "Sch",
	types.KindDivision: "Div",
	types.KindClause:   "cl",
	types.KindPart:     "pt",
}

// pluralKindAbbrevs holds the abbreviations used when a token spans a
// range.
var pluralKindAbbrevs = map[types.SectionKind]string{
	types.KindSection:  "ss",
	types.KindChapter:  "chs",
	types.KindSchedule: "Schs",
	types.KindDivision: "Divs",
	types.KindClause:   "cls",
	types.KindPart:     "pts",
}

// KindAbbrev returns the grammar's abbreviation for a section kind,
// pluralized when the token is a range.
func KindAbbrev(token types.SectionToken) string {
	if token.IsRange() {
		if abbrev, ok := pluralKindAbbrevs[token.Kind]; ok {
			return abbrev
		}
	}
	if abbrev, ok := kindAbbrevs[token.Kind]; ok {
		return abbrev
	}
	return string(token.Kind)
}
