// Package selector chooses a bounded, ranked subset of regulatory
// documents and sections relevant to one situational query. It is the
// first stage of citation resolution: its output frames the prompt sent
// to the reasoning service.
package selector

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/store"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

// Bounds on a candidate set. The reasoning prompt must stay small enough
// to judge reliably.
const (
	MaxDocuments           = 8
	MaxSectionsPerDocument = 3
)

// Candidate pairs one document with its highest-ranked sections.
type Candidate struct {
	Document types.RegulatoryDocument
	Sections []types.RegulatorySection

	// Score is the summed keyword overlap across the kept sections.
	Score int
}

// CandidateSet is the selector's output: ranked candidates plus derived
// guidance notes. Err marks a degraded (store-unreachable) result; a
// degraded set is still usable, just empty.
type CandidateSet struct {
	Candidates   []Candidate
	DerivedNotes string
	Err          bool
}

// Empty reports whether the set holds no candidates.
func (c CandidateSet) Empty() bool {
	return len(c.Candidates) == 0
}

// categoryImplications maps a damage/work type to the document categories
// it pulls in. Unlisted work types fall back to defaultCategories.
var categoryImplications = map[string][]types.Category{
	"water":  {types.CategoryBuilding, types.CategoryPlumbing, types.CategorySafety},
	"fire":   {types.CategoryBuilding, types.CategorySafety, types.CategoryHVAC},
	"mould":  {types.CategorySafety, types.CategoryHVAC, types.CategoryBuilding},
	"storm":  {types.CategoryBuilding, types.CategorySafety, types.CategoryInsurance},
	"sewage": {types.CategoryPlumbing, types.CategorySafety},
	"smoke":  {types.CategoryHVAC, types.CategorySafety},
}

var defaultCategories = []types.Category{types.CategoryBuilding, types.CategorySafety}

// Selector ranks store contents against situational queries.
type Selector struct {
	store store.Store
	log   zerolog.Logger
}

// New creates a selector over the given store.
func New(documentStore store.Store, log zerolog.Logger) *Selector {
	return &Selector{store: documentStore, log: log}
}

// Select returns the ranked, bounded candidate set for a query. It never
// returns an error: if the store is unreachable the result is an empty
// set with Err set, logged and otherwise silent per the degraded-coverage
// policy.
func (s *Selector) Select(ctx context.Context, query types.SituationalQuery) CandidateSet {
	categories := impliedCategories(query)
	keywords := searchKeywords(query)

	var candidates []Candidate
	seen := make(map[string]bool)
	degraded := false

	appendDocuments := func(documents []types.RegulatoryDocument) {
		for _, document := range documents {
			if seen[document.DocumentCode] {
				continue
			}
			seen[document.DocumentCode] = true
			candidate, ok := s.rankSections(ctx, document, keywords)
			if !ok {
				degraded = true
				continue
			}
			candidates = append(candidates, candidate)
		}
	}

	for _, category := range categories {
		// National documents always apply.
		national, err := s.store.FindDocumentsByCategoryAndJurisdiction(ctx, category, types.JurisdictionNational)
		if err != nil {
			s.log.Warn().Err(err).Str("category", string(category)).
				Msg("document store unreachable; regulatory coverage degraded")
			degraded = true
			continue
		}
		appendDocuments(national)

		// Jurisdiction-specific documents join them when a jurisdiction is
		// known.
		if !query.Jurisdiction.IsNational() {
			local, err := s.store.FindDocumentsByCategoryAndJurisdiction(ctx, category, query.Jurisdiction)
			if err != nil {
				s.log.Warn().Err(err).Str("category", string(category)).
					Str("jurisdiction", string(query.Jurisdiction)).
					Msg("document store unreachable; regulatory coverage degraded")
				degraded = true
				continue
			}
			appendDocuments(local)
		}
	}

	rankCandidates(candidates)
	if len(candidates) > MaxDocuments {
		candidates = candidates[:MaxDocuments]
	}

	return CandidateSet{
		Candidates:   candidates,
		DerivedNotes: deriveNotes(query),
		Err:          degraded && len(candidates) == 0,
	}
}

// rankSections fetches a document's sections, scores each against the
// query keywords, and keeps the top MaxSectionsPerDocument. ok is false
// when the store call failed.
func (s *Selector) rankSections(ctx context.Context, document types.RegulatoryDocument, keywords []string) (Candidate, bool) {
	sections, err := s.store.FindSectionsByDocument(ctx, document.DocumentCode, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("document", document.DocumentCode).
			Msg("section lookup failed; regulatory coverage degraded")
		return Candidate{}, false
	}

	type scored struct {
		section types.RegulatorySection
		score   int
	}
	ranked := make([]scored, 0, len(sections))
	for _, section := range sections {
		ranked = append(ranked, scored{section: section, score: overlapScore(section, keywords)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > MaxSectionsPerDocument {
		ranked = ranked[:MaxSectionsPerDocument]
	}

	candidate := Candidate{Document: document}
	for _, entry := range ranked {
		candidate.Sections = append(candidate.Sections, entry.section)
		candidate.Score += entry.score
	}
	return candidate, true
}

// rankCandidates orders by keyword overlap, breaking ties by most
// recently effective document, then lexicographically by code so equal
// candidates rank identically across runs.
func rankCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Document.EffectiveDate.Equal(b.Document.EffectiveDate) {
			return a.Document.EffectiveDate.After(b.Document.EffectiveDate)
		}
		return a.Document.DocumentCode < b.Document.DocumentCode
	})
}

// impliedCategories expands the query's work type into document
// categories, honouring the electrical-work flag and the insurer field.
func impliedCategories(query types.SituationalQuery) []types.Category {
	implied, ok := categoryImplications[strings.ToLower(strings.TrimSpace(query.Category))]
	if !ok {
		implied = defaultCategories
	}

	categories := make([]types.Category, 0, len(implied)+3)
	seen := make(map[types.Category]bool)
	add := func(category types.Category) {
		if !seen[category] {
			seen[category] = true
			categories = append(categories, category)
		}
	}
	for _, category := range implied {
		add(category)
	}
	if query.RequiresElectricalWork {
		add(types.CategoryElectrical)
	}
	if query.Insurer != "" {
		add(types.CategoryInsurance)
	}
	add(types.CategoryConsumerProtection)
	return categories
}

// searchKeywords builds the keyword list a query ranks against: the
// caller-supplied keywords plus terms derived from the work type and
// severity tier.
func searchKeywords(query types.SituationalQuery) []string {
	keywords := make([]string, 0, len(query.Keywords)+2)
	keywords = append(keywords, query.Keywords...)
	if query.Category != "" {
		keywords = append(keywords, query.Category)
	}
	if query.SeverityTier != "" {
		keywords = append(keywords, "category "+query.SeverityTier)
	}
	return keywords
}

// overlapScore counts query keywords found in a section's topics and
// keywords. Matching is case-insensitive; multi-word terms match on
// substring in either direction.
func overlapScore(section types.RegulatorySection, keywords []string) int {
	score := 0
	for _, keyword := range keywords {
		keywordLower := strings.ToLower(strings.TrimSpace(keyword))
		if keywordLower == "" {
			continue
		}
		if matchesAny(keywordLower, section.Topics) || matchesAny(keywordLower, section.Keywords) {
			score++
		}
	}
	return score
}

func matchesAny(keyword string, terms []string) bool {
	for _, term := range terms {
		termLower := strings.ToLower(term)
		if termLower == keyword {
			return true
		}
		// Longer terms match on containment so "structural drying of
		// walls" still hits the "structural drying" keyword.
		if len(keyword) > 3 && len(termLower) > 3 &&
			(strings.Contains(termLower, keyword) || strings.Contains(keyword, termLower)) {
			return true
		}
	}
	return false
}
