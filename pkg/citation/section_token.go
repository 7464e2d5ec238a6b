package citation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

// tokenPattern matches one section notation:
//   - Optional kind prefix: "s", "ss", "Section", "ch", "Chapter", "Sch",
//     "Schedule", "Div", "Division", "cl", "Clause", "pt", "Part", each
//     with an optional trailing period. A bare number means section.
//   - Number: dotted numeric ("3.2.1"), a bare letter ("A"), or a numeric
//     range joined by a hyphen or en-dash ("3.2-3.4", "3.2–3.4").
//
// Captures: (1) optional prefix, (2) range start or sole number,
// (3) optional range end.
var tokenPattern = regexp.MustCompile(
	`(?i)^\s*(ss|s|sections?|sec|chapters?|ch|schedules?|sch|divisions?|div|clauses?|cl|parts?|pt)?\.?\s*` +
		`(\d+(?:\.\d+)*|[A-Za-z])\s*(?:[-\x{2013}]\s*(\d+(?:\.\d+)*))?\s*$`)

// prefixKinds maps every accepted prefix spelling (lowercased, no period)
// to its section kind.
var prefixKinds = map[string]types.SectionKind{
	"s":         types.KindSection,
	"ss":        types.KindSection,
	"sec":       types.KindSection,
	"section":   types.KindSection,
	"sections":  types.KindSection,
	"ch":        types.KindChapter,
	"chapter":   types.KindChapter,
	"chapters":  types.KindChapter,
	"sch":       types.KindSchedule,
	"schedule":  types.KindSchedule,
	"schedules": types.KindSchedule,
	"div":       types.KindDivision,
	"division":  types.KindDivision,
	"divisions": types.KindDivision,
	"cl":        types.KindClause,
	"clause":    types.KindClause,
	"clauses":   types.KindClause,
	"pt":        types.KindPart,
	"part":      types.KindPart,
	"parts":     types.KindPart,
}

// ParseSectionToken parses a section notation such as "s 3.2.1",
// "Schedule 7", "3.2-3.4", or "A" into a structured token. Input ranges
// may use a hyphen; rendering always uses an en-dash. Unparseable input
// returns ErrUnparseableSectionToken, never a silent fallback.
func ParseSectionToken(input string) (types.SectionToken, error) {
	match := tokenPattern.FindStringSubmatch(input)
	if match == nil {
		return types.SectionToken{}, fmt.Errorf("%w: %q", ErrUnparseableSectionToken, input)
	}

	kind := types.KindSection
	if prefix := strings.ToLower(match[1]); prefix != "" {
		resolved, ok := prefixKinds[prefix]
		if !ok {
			return types.SectionToken{}, fmt.Errorf("%w: unrecognized prefix in %q", ErrUnparseableSectionToken, input)
		}
		kind = resolved
	}

	token := types.SectionToken{
		Kind:     kind,
		Number:   match[2],
		RangeEnd: match[3],
	}

	// Bare-letter numbers are uppercase in the grammar ("Schedule A");
	// a lone lowercase letter is far more likely stray prose.
	if len(token.Number) == 1 && token.Number[0] >= 'a' && token.Number[0] <= 'z' {
		return types.SectionToken{}, fmt.Errorf("%w: %q", ErrUnparseableSectionToken, input)
	}

	// A single letter is a valid number ("Schedule A") but a letter range
	// is not part of the grammar.
	if token.IsRange() && !isDottedNumeric(token.Number) {
		return types.SectionToken{}, fmt.Errorf("%w: range start %q is not numeric", ErrUnparseableSectionToken, token.Number)
	}

	return token, nil
}

// FormatTokenNumber renders a token's number, joining ranges with an
// en-dash. This is the only place range separators are produced.
func FormatTokenNumber(token types.SectionToken) string {
	if token.IsRange() {
		return token.Number + EnDash + token.RangeEnd
	}
	return token.Number
}

// isDottedNumeric reports whether s consists of digit groups joined by
// periods.
func isDottedNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, group := range strings.Split(s, ".") {
		if group == "" {
			return false
		}
		for _, r := range group {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
