package types

// SectionKind is the closed set of structural reference kinds a section
// token may carry. Using a tagged kind rather than a free string keeps the
// renderer total over its inputs.
type SectionKind string

const (
	KindSection  SectionKind = "section"
	KindChapter  SectionKind = "chapter"
	KindSchedule SectionKind = "schedule"
	KindDivision SectionKind = "division"
	KindClause   SectionKind = "clause"
	KindPart     SectionKind = "part"
)

// Valid reports whether the kind is one of the closed set.
func (k SectionKind) Valid() bool {
	switch k {
	case KindSection, KindChapter, KindSchedule, KindDivision, KindClause, KindPart:
		return true
	}
	return false
}

// SectionToken addresses one structural unit within a document, e.g.
// {section, "3.2.1"} or the range {section, "3.2", "3.4"}.
type SectionToken struct {
	Kind   SectionKind `json:"kind" yaml:"kind"`
	Number string      `json:"number" yaml:"number"`

	// RangeEnd is set when the token covers a numeric range; renderers
	// pluralize the kind keyword and join with an en-dash.
	RangeEnd string `json:"range_end,omitempty" yaml:"range_end,omitempty"`
}

// IsRange reports whether the token spans a range of numbers.
func (t SectionToken) IsRange() bool {
	return t.RangeEnd != ""
}

// CandidateCitation is an in-flight, not-yet-validated citation produced
// by extraction from reasoning text. It is discarded after validation.
type CandidateCitation struct {
	// DocumentCodeRaw is the document name exactly as the reasoning text
	// wrote it, before normalization.
	DocumentCodeRaw string `json:"document_code_raw"`

	// SectionTokenRaw is the section notation as written, e.g. "s 3.2.1".
	SectionTokenRaw string `json:"section_token_raw"`

	// SourceSpan is the excerpt of reasoning text the candidate was
	// extracted from; it becomes the resolved citation's quoted text.
	SourceSpan string `json:"source_span"`
}

// ResolvedCitation is the engine's output unit: a validated, scored,
// fully-rendered citation. Immutable after creation; the engine does not
// persist it.
type ResolvedCitation struct {
	DocumentCode string       `json:"document_code"`
	SectionToken SectionToken `json:"section_token"`
	Category     Category     `json:"category"`
	Jurisdiction Jurisdiction `json:"jurisdiction,omitempty"`

	FullReference    string `json:"full_reference"`
	ShortReference   string `json:"short_reference"`
	InTextCitation   string `json:"in_text_citation"`
	FootnoteCitation string `json:"footnote_citation"`

	QuotedText string `json:"quoted_text,omitempty"`

	// Confidence is 0-100. When Validated is false it is capped below the
	// configured trust ceiling.
	Confidence int  `json:"confidence"`
	Validated  bool `json:"validated"`
}
