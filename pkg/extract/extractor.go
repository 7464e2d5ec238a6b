// Package extract parses structured citation candidates out of the
// reasoning service's free-text judgements. It scans for section tokens
// co-located with recognizable document names from the candidate set; all
// other text is ignored.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/citation"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/selector"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

// Window sizes around a document-name match, in bytes. Section tokens
// outside the window are not attributed to the document.
const (
	windowBefore = 60
	windowAfter  = 120
)

// sourceSpanLimit caps the excerpt carried on each candidate.
const sourceSpanLimit = 240

// prefixedTokenPattern finds section notations with an explicit kind
// prefix, e.g. "s 3.2.1", "ss 3.2-3.4", "Schedule 7", "cl. 12.4".
// Captures: (1) prefix, (2) number or range start, (3) optional range
// end.
var prefixedTokenPattern = regexp.MustCompile(
	`(?i)\b(ss|s|sections?|sec|chapters?|ch|schedules?|sch|divisions?|div|clauses?|cl|parts?|pt)\.?\s+` +
		`(\d+(?:\.\d+)*|[A-Z])\b(?:\s*[-\x{2013}]\s*(\d+(?:\.\d+)*))?`)

// bareTokenPattern finds dotted section numbers with no prefix, e.g.
// "3.2.1". At least one dot is required so years and counts do not
// match.
var bareTokenPattern = regexp.MustCompile(`\b\d+(?:\.\d+)+\b(?:\s*[-\x{2013}]\s*\d+(?:\.\d+)*)?`)

// Extractor matches reasoning text against one candidate set.
type Extractor struct {
	names []documentName
}

// documentName is one recognizable spelling of a candidate document.
type documentName struct {
	spelling     string // lowercased
	documentCode string
}

// New builds an extractor for a candidate set. Each candidate document is
// recognizable by its code, its title, and any alias in the grammar's
// alias table that resolves to it.
func New(candidates selector.CandidateSet) *Extractor {
	var names []documentName
	for _, candidate := range candidates.Candidates {
		document := candidate.Document
		add := func(spelling string) {
			trimmed := lowerASCII(strings.TrimSpace(spelling))
			if trimmed == "" {
				return
			}
			names = append(names, documentName{spelling: trimmed, documentCode: document.DocumentCode})
		}
		add(document.DocumentCode)
		add(document.Title)

		titleKey := citation.NormalizeNameKey(document.Title)
		codeKey := citation.NormalizeNameKey(document.DocumentCode)
		for alias, expansion := range citation.DefaultAliases {
			if strings.Contains(titleKey, expansion) || strings.Contains(codeKey, expansion) {
				add(alias)
			}
		}
	}

	// Longest spellings first so "National Construction Code" wins over
	// a shorter alias overlapping the same text. Equal lengths order
	// alphabetically so extraction order never depends on map iteration.
	sort.SliceStable(names, func(i, j int) bool {
		if len(names[i].spelling) != len(names[j].spelling) {
			return len(names[i].spelling) > len(names[j].spelling)
		}
		return names[i].spelling < names[j].spelling
	})
	return &Extractor{names: names}
}

// Extract scans reasoning text for candidate citations. A text naming no
// recognizable document yields an empty slice; that is a valid outcome,
// not an error.
func (e *Extractor) Extract(reasoningText string) []types.CandidateCitation {
	if reasoningText == "" || len(e.names) == 0 {
		return []types.CandidateCitation{}
	}

	// ASCII-only fold: byte positions in the folded text must line up
	// with the original, and strings.ToLower can change byte lengths.
	textLower := lowerASCII(reasoningText)
	candidates := []types.CandidateCitation{}
	emitted := make(map[string]bool)
	claimed := make([]bool, len(reasoningText))

	for _, name := range e.names {
		for _, nameStart := range findAll(textLower, name.spelling) {
			nameEnd := nameStart + len(name.spelling)
			if !wordBounded(textLower, nameStart, nameEnd) {
				continue
			}
			if rangeClaimed(claimed, nameStart, nameEnd) {
				continue
			}
			markClaimed(claimed, nameStart, nameEnd)

			windowStart := max(0, nameStart-windowBefore)
			windowEnd := min(len(reasoningText), nameEnd+windowAfter)
			window := reasoningText[windowStart:windowEnd]

			tokens := prefixedTokenPattern.FindAllString(window, -1)
			if len(tokens) == 0 {
				tokens = bareTokenPattern.FindAllString(window, -1)
			}

			for _, tokenRaw := range tokens {
				key := name.documentCode + "|" + citation.NormalizeNameKey(tokenRaw)
				if emitted[key] {
					continue
				}
				emitted[key] = true
				candidates = append(candidates, types.CandidateCitation{
					DocumentCodeRaw: reasoningText[nameStart:nameEnd],
					SectionTokenRaw: strings.TrimSpace(tokenRaw),
					SourceSpan:      sourceSpan(reasoningText, windowStart, windowEnd),
				})
			}
		}
	}

	return candidates
}

// findAll returns every occurrence of needle in haystack.
func findAll(haystack, needle string) []int {
	var positions []int
	offset := 0
	for {
		index := strings.Index(haystack[offset:], needle)
		if index < 0 {
			return positions
		}
		positions = append(positions, offset+index)
		offset += index + len(needle)
	}
}

// sourceSpan trims a window to sentence-ish boundaries and caps its
// length. The span becomes the resolved citation's quoted text.
func sourceSpan(text string, start, end int) string {
	// Widen to the enclosing sentence where one is nearby.
	if idx := strings.LastIndex(text[:start], ". "); idx >= 0 && start-idx < 80 {
		start = idx + 2
	}
	if idx := strings.Index(text[end:], ". "); idx >= 0 && idx < 80 {
		end += idx + 1
	}
	// Window offsets are byte counts and can land inside a rune; snap
	// to boundaries so the quoted text stays valid UTF-8.
	for start < len(text) && !utf8.RuneStart(text[start]) {
		start++
	}
	if end < len(text) {
		for end > start && !utf8.RuneStart(text[end]) {
			end--
		}
	}
	span := strings.TrimSpace(text[start:end])
	if len(span) > sourceSpanLimit {
		cut := sourceSpanLimit
		for cut > 0 && !utf8.RuneStart(span[cut]) {
			cut--
		}
		span = span[:cut]
	}
	return span
}

// lowerASCII lowercases ASCII letters byte for byte, leaving everything
// else untouched so offsets into the result index the input too.
func lowerASCII(s string) string {
	lowered := []byte(s)
	changed := false
	for i := 0; i < len(lowered); i++ {
		if c := lowered[i]; c >= 'A' && c <= 'Z' {
			lowered[i] = c + 'a' - 'A'
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(lowered)
}

// wordBounded reports whether text[start:end] sits on word boundaries,
// so the alias "ncc" cannot match inside an unrelated word.
func wordBounded(text string, start, end int) bool {
	isWord := func(b byte) bool {
		return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
	}
	if start > 0 && isWord(text[start-1]) && isWord(text[start]) {
		return false
	}
	if end < len(text) && isWord(text[end-1]) && isWord(text[end]) {
		return false
	}
	return true
}

func rangeClaimed(claimed []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}

func markClaimed(claimed []bool, start, end int) {
	for i := start; i < end; i++ {
		claimed[i] = true
	}
}
