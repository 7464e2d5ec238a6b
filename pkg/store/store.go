// Package store provides read access to the regulatory document corpus:
// documents, their sections, and the lookups the relevance selector runs.
// The engine never writes through this package; ingestion happens
// upstream.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

// MaxResults bounds every query result. Callers never receive more than
// this many documents or sections from one call.
const MaxResults = 50

// Store is the read-only document store contract the engine consumes.
// Implementations must be safe for concurrent use.
type Store interface {
	// FindDocumentsByCategoryAndJurisdiction returns documents in the
	// given category scoped to the given jurisdiction. An empty
	// jurisdiction selects national documents.
	FindDocumentsByCategoryAndJurisdiction(ctx context.Context, category types.Category, jurisdiction types.Jurisdiction) ([]types.RegulatoryDocument, error)

	// FindSectionsByDocument returns sections of one document, optionally
	// filtered to those touching any of the given topics.
	FindSectionsByDocument(ctx context.Context, documentCode string, topics []string) ([]types.RegulatorySection, error)

	// ListDocuments returns every document in the corpus, superseded
	// versions included. Used to build the name normalizer.
	ListDocuments(ctx context.Context) ([]types.RegulatoryDocument, error)
}

// MemoryStore is an in-memory Store, used in tests and for the built-in
// corpus when no database is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	documents []types.RegulatoryDocument
	sections  map[string][]types.RegulatorySection
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sections: make(map[string][]types.RegulatorySection)}
}

// AddDocument registers a document and its sections.
func (s *MemoryStore) AddDocument(document types.RegulatoryDocument, sections ...types.RegulatorySection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, document)
	s.sections[document.DocumentCode] = append(s.sections[document.DocumentCode], sections...)
}

// FindDocumentsByCategoryAndJurisdiction implements Store.
func (s *MemoryStore) FindDocumentsByCategoryAndJurisdiction(ctx context.Context, category types.Category, jurisdiction types.Jurisdiction) ([]types.RegulatoryDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]types.RegulatoryDocument, 0)
	for _, document := range s.documents {
		if document.Category != category || document.Jurisdiction != jurisdiction {
			continue
		}
		matched = append(matched, document)
	}
	// Sort before truncating so the bound keeps the most recently
	// effective documents, matching the SQL store's ORDER BY ... LIMIT.
	sortDocuments(matched)
	if len(matched) > MaxResults {
		matched = matched[:MaxResults]
	}
	return matched, nil
}

// FindSectionsByDocument implements Store.
func (s *MemoryStore) FindSectionsByDocument(ctx context.Context, documentCode string, topics []string) ([]types.RegulatorySection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sections := s.sections[documentCode]
	matched := make([]types.RegulatorySection, 0, len(sections))
	for _, section := range sections {
		if len(topics) > 0 && !sectionTouchesTopics(section, topics) {
			continue
		}
		matched = append(matched, section)
		if len(matched) == MaxResults {
			break
		}
	}
	return matched, nil
}

// ListDocuments implements Store.
func (s *MemoryStore) ListDocuments(ctx context.Context) ([]types.RegulatoryDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	documents := make([]types.RegulatoryDocument, len(s.documents))
	copy(documents, s.documents)
	sortDocuments(documents)
	return documents, nil
}

// sectionTouchesTopics reports whether a section's topics or keywords
// intersect the requested topics, case-insensitively.
func sectionTouchesTopics(section types.RegulatorySection, topics []string) bool {
	for _, want := range topics {
		wantLower := strings.ToLower(want)
		for _, topic := range section.Topics {
			if strings.ToLower(topic) == wantLower {
				return true
			}
		}
		for _, keyword := range section.Keywords {
			if strings.ToLower(keyword) == wantLower {
				return true
			}
		}
	}
	return false
}

// sortDocuments orders documents by most recent effective date, then by
// code, for stable results.
func sortDocuments(documents []types.RegulatoryDocument) {
	sort.Slice(documents, func(i, j int) bool {
		if !documents[i].EffectiveDate.Equal(documents[j].EffectiveDate) {
			return documents[i].EffectiveDate.After(documents[j].EffectiveDate)
		}
		return documents[i].DocumentCode < documents[j].DocumentCode
	})
}
