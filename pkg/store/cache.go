package store

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

// CachedStore wraps a Store with a read-only LRU snapshot of frequently
// used lookups. Resolution requests are stateless, so the cache is the
// only shared state in the engine and it holds immutable slices only.
type CachedStore struct {
	inner     Store
	documents *lru.Cache[string, []types.RegulatoryDocument]
	sections  *lru.Cache[string, []types.RegulatorySection]
}

// NewCachedStore wraps inner with an LRU of the given size per lookup
// kind.
func NewCachedStore(inner Store, size int) (*CachedStore, error) {
	documents, err := lru.New[string, []types.RegulatoryDocument](size)
	if err != nil {
		return nil, fmt.Errorf("creating document cache: %w", err)
	}
	sections, err := lru.New[string, []types.RegulatorySection](size)
	if err != nil {
		return nil, fmt.Errorf("creating section cache: %w", err)
	}
	return &CachedStore{inner: inner, documents: documents, sections: sections}, nil
}

// Purge drops every cached entry. Called when the corpus is refreshed.
func (c *CachedStore) Purge() {
	c.documents.Purge()
	c.sections.Purge()
}

// FindDocumentsByCategoryAndJurisdiction implements Store.
func (c *CachedStore) FindDocumentsByCategoryAndJurisdiction(ctx context.Context, category types.Category, jurisdiction types.Jurisdiction) ([]types.RegulatoryDocument, error) {
	key := "docs|" + string(category) + "|" + string(jurisdiction)
	if cached, ok := c.documents.Get(key); ok {
		return cached, nil
	}
	documents, err := c.inner.FindDocumentsByCategoryAndJurisdiction(ctx, category, jurisdiction)
	if err != nil {
		return nil, err
	}
	c.documents.Add(key, documents)
	return documents, nil
}

// FindSectionsByDocument implements Store. Only unfiltered lookups are
// cached; topic-filtered lookups vary per query and pass through.
func (c *CachedStore) FindSectionsByDocument(ctx context.Context, documentCode string, topics []string) ([]types.RegulatorySection, error) {
	if len(topics) > 0 {
		return c.inner.FindSectionsByDocument(ctx, documentCode, topics)
	}
	if cached, ok := c.sections.Get(documentCode); ok {
		return cached, nil
	}
	sections, err := c.inner.FindSectionsByDocument(ctx, documentCode, nil)
	if err != nil {
		return nil, err
	}
	c.sections.Add(documentCode, sections)
	return sections, nil
}

// ListDocuments implements Store, passing through uncached: it is called
// once at engine construction.
func (c *CachedStore) ListDocuments(ctx context.Context) ([]types.RegulatoryDocument, error) {
	return c.inner.ListDocuments(ctx)
}
