package citation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

// Normalizer resolves free-form document names to canonical document
// codes. It is built once from the known-document table and is safe for
// concurrent use after construction.
type Normalizer struct {
	// documents holds every known document keyed by its code.
	documents map[string]types.RegulatoryDocument

	// nameIndex maps a normalized name key (from code, title, or alias)
	// to the codes it can resolve to. Multiple codes under one key means
	// multiple versions; resolution prefers the most recently effective.
	nameIndex map[string][]string

	// docTokens caches each document's keyword token set for partial
	// matching.
	docTokens map[string]map[string]bool
}

// DefaultAliases is the single table of known abbreviations and common
// misspellings, keyed by normalized alias form. Values are expansions
// resolved against document titles at construction time, so adding a new
// document alias is one table entry.
var DefaultAliases = map[string]string{
	"ncc":                        "national construction code",
	"bca":                        "national construction code",
	"building code of australia": "national construction code",
	"wiring rules":               "as nzs 3000",
	"australian wiring rules":    "as nzs 3000",
	"s500":                       "iicrc s500",
	"s520":                       "iicrc s520",
	"acl":                        "australian consumer law",
	"plumbing code":              "plumbing code of australia",
	"pca":                        "plumbing code of australia",
}

// yearPattern extracts the version year embedded in a document code, e.g.
// "NCC 2025" or "AS/NZS 3000:2023".
var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// NewNormalizer builds a normalizer over the given documents, indexing
// each by code, title, and the default alias table.
func NewNormalizer(documents []types.RegulatoryDocument) *Normalizer {
	normalizer := &Normalizer{
		documents: make(map[string]types.RegulatoryDocument, len(documents)),
		nameIndex: make(map[string][]string),
		docTokens: make(map[string]map[string]bool),
	}
	for _, document := range documents {
		normalizer.index(document)
	}
	return normalizer
}

// index registers one document under its code, title, and any matching
// default aliases.
func (n *Normalizer) index(document types.RegulatoryDocument) {
	code := document.DocumentCode
	n.documents[code] = document

	tokens := make(map[string]bool)
	addKey := func(name string) {
		key := NormalizeNameKey(name)
		if key == "" {
			return
		}
		n.nameIndex[key] = appendUnique(n.nameIndex[key], code)
		for _, token := range strings.Fields(key) {
			tokens[token] = true
		}
	}

	addKey(code)
	addKey(document.Title)
	if year := yearFromCode(code); year != "" {
		addKey(document.Title + " " + year)
	}

	titleKey := NormalizeNameKey(document.Title)
	codeKey := NormalizeNameKey(code)
	for alias, expansion := range DefaultAliases {
		if strings.Contains(titleKey, expansion) || strings.Contains(codeKey, expansion) {
			addKey(alias)
		}
	}

	n.docTokens[code] = tokens
}

// AddAlias registers an extra alias for an already-indexed document code.
func (n *Normalizer) AddAlias(alias, documentCode string) error {
	if _, ok := n.documents[documentCode]; !ok {
		return fmt.Errorf("citation: cannot alias unknown document code %q", documentCode)
	}
	key := NormalizeNameKey(alias)
	if key == "" {
		return fmt.Errorf("citation: empty alias")
	}
	n.nameIndex[key] = appendUnique(n.nameIndex[key], documentCode)
	for _, token := range strings.Fields(key) {
		n.docTokens[documentCode][token] = true
	}
	return nil
}

// NormalizeDocumentName resolves input to exactly one known document.
// Matching is case-insensitive and tolerant of punctuation and spacing
// variance; partial names resolve by longest-keyword-match. Version ties
// resolve to the most recently effective document, then lexicographically
// by code. Unrecognized input returns ErrUnknownDocument.
func (n *Normalizer) NormalizeDocumentName(input string) (NormalizedDocument, error) {
	key := NormalizeNameKey(input)
	if key == "" {
		return NormalizedDocument{}, fmt.Errorf("%w: empty name", ErrUnknownDocument)
	}

	if codes := n.nameIndex[key]; len(codes) > 0 {
		return n.resolved(n.pickBest(codes)), nil
	}

	// Partial match: every input token must appear in the document's
	// token set; among matches the highest matched-token count wins.
	inputTokens := strings.Fields(key)
	bestScore := 0
	var matches []string
	for code, tokens := range n.docTokens {
		matched := 0
		for _, token := range inputTokens {
			if !tokens[token] {
				matched = -1
				break
			}
			matched++
		}
		if matched <= 0 {
			continue
		}
		if matched > bestScore {
			bestScore = matched
			matches = matches[:0]
		}
		if matched == bestScore {
			matches = append(matches, code)
		}
	}
	if len(matches) == 0 {
		return NormalizedDocument{}, fmt.Errorf("%w: %q", ErrUnknownDocument, input)
	}
	return n.resolved(n.pickBest(matches)), nil
}

// Document returns the known document for a canonical code.
func (n *Normalizer) Document(code string) (types.RegulatoryDocument, bool) {
	document, ok := n.documents[code]
	return document, ok
}

// resolved converts a winning code to the caller-facing outcome.
func (n *Normalizer) resolved(code string) NormalizedDocument {
	document := n.documents[code]
	return NormalizedDocument{
		DocumentCode: document.DocumentCode,
		Title:        document.Title,
		Jurisdiction: document.Jurisdiction,
	}
}

// pickBest orders candidate codes by most recent effective date, then
// lexicographically by code, and returns the winner.
func (n *Normalizer) pickBest(codes []string) string {
	sorted := make([]string, len(codes))
	copy(sorted, codes)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := n.documents[sorted[i]], n.documents[sorted[j]]
		if !a.EffectiveDate.Equal(b.EffectiveDate) {
			return a.EffectiveDate.After(b.EffectiveDate)
		}
		return a.DocumentCode < b.DocumentCode
	})
	return sorted[0]
}

// NormalizeNameKey lowercases a document name and collapses all
// punctuation and whitespace runs to single spaces, so "AS/NZS 3000:2023"
// and "as nzs 3000 2023" share one key.
func NormalizeNameKey(name string) string {
	var builder strings.Builder
	builder.Grow(len(name))
	lastSpace := true
	for _, r := range strings.ToLower(name) {
		isWord := r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
		if isWord {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			builder.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(builder.String())
}

// yearFromCode extracts the last four-digit year embedded in a document
// code, or "" when the code carries no year.
func yearFromCode(code string) string {
	years := yearPattern.FindAllString(code, -1)
	if len(years) == 0 {
		return ""
	}
	return years[len(years)-1]
}

func appendUnique(codes []string, code string) []string {
	for _, existing := range codes {
		if existing == code {
			return codes
		}
	}
	return append(codes, code)
}
