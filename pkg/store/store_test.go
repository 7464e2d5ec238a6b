package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

func seededMemoryStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	SeedMemory(s, DefaultCorpus())
	return s
}

func TestMemoryStoreFindDocuments(t *testing.T) {
	s := seededMemoryStore(t)
	ctx := context.Background()

	national, err := s.FindDocumentsByCategoryAndJurisdiction(ctx, types.CategoryBuilding, types.JurisdictionNational)
	require.NoError(t, err)
	require.NotEmpty(t, national)
	for _, document := range national {
		assert.Equal(t, types.CategoryBuilding, document.Category)
		assert.True(t, document.Jurisdiction.IsNational())
	}
	// Most recently effective version first.
	assert.Equal(t, "NCC 2025", national[0].DocumentCode)

	qld, err := s.FindDocumentsByCategoryAndJurisdiction(ctx, types.CategoryElectrical, types.JurisdictionQLD)
	require.NoError(t, err)
	require.Len(t, qld, 1)
	assert.Equal(t, "Electrical Safety Act 2002", qld[0].DocumentCode)
}

func TestMemoryStoreFindSections(t *testing.T) {
	s := seededMemoryStore(t)
	ctx := context.Background()

	all, err := s.FindSectionsByDocument(ctx, "NCC 2025", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := s.FindSectionsByDocument(ctx, "NCC 2025", []string{"moisture"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "3.2.1", filtered[0].Token.Number)

	none, err := s.FindSectionsByDocument(ctx, "no such document", nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStoreBoundsResults(t *testing.T) {
	s := NewMemoryStore()
	// Inserted oldest first, so a bound applied before sorting would
	// keep the stalest documents.
	for i := 0; i < MaxResults+10; i++ {
		s.AddDocument(types.RegulatoryDocument{
			DocumentCode:  fmt.Sprintf("DOC %03d", i),
			Title:         "Synthetic Document",
			Category:      types.CategorySafety,
			EffectiveDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
		})
	}

	documents, err := s.FindDocumentsByCategoryAndJurisdiction(context.Background(), types.CategorySafety, types.JurisdictionNational)
	require.NoError(t, err)
	require.Len(t, documents, MaxResults)
	assert.Equal(t, fmt.Sprintf("DOC %03d", MaxResults+9), documents[0].DocumentCode,
		"bound keeps the most recently effective documents")
	for _, document := range documents {
		assert.False(t, document.EffectiveDate.Before(time.Date(2020, 1, 11, 0, 0, 0, 0, time.UTC)),
			"the ten oldest documents should fall outside the bound")
	}
}

func TestMemoryStoreHonorsCancellation(t *testing.T) {
	s := seededMemoryStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.FindDocumentsByCategoryAndJurisdiction(ctx, types.CategoryBuilding, types.JurisdictionNational)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, Seed(ctx, s, DefaultCorpus()))

	documents, err := s.FindDocumentsByCategoryAndJurisdiction(ctx, types.CategoryBuilding, types.JurisdictionNational)
	require.NoError(t, err)
	require.NotEmpty(t, documents)
	assert.Equal(t, "NCC 2025", documents[0].DocumentCode)

	// Superseded versions stay queryable.
	all, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	codes := make(map[string]bool)
	for _, document := range all {
		codes[document.DocumentCode] = true
	}
	assert.True(t, codes["NCC 2022"], "archived version should remain resolvable")

	sections, err := s.FindSectionsByDocument(ctx, "AS/NZS 3000:2023", []string{"water damage"})
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "2.4", sections[0].Token.Number)
	assert.Equal(t, types.KindSection, sections[0].Token.Kind)

	expired, err := s.FindSectionsByDocument(ctx, "NCC 2022", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, expired)
}

func TestCachedStoreServesSnapshots(t *testing.T) {
	inner := seededMemoryStore(t)
	cached, err := NewCachedStore(inner, 16)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := cached.FindDocumentsByCategoryAndJurisdiction(ctx, types.CategoryBuilding, types.JurisdictionNational)
	require.NoError(t, err)

	// Mutating the inner store is invisible until the cache is purged.
	inner.AddDocument(types.RegulatoryDocument{
		DocumentCode:  "NCC 2028",
		Title:         "National Construction Code",
		Category:      types.CategoryBuilding,
		EffectiveDate: time.Date(2028, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	second, err := cached.FindDocumentsByCategoryAndJurisdiction(ctx, types.CategoryBuilding, types.JurisdictionNational)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	cached.Purge()
	third, err := cached.FindDocumentsByCategoryAndJurisdiction(ctx, types.CategoryBuilding, types.JurisdictionNational)
	require.NoError(t, err)
	assert.Len(t, third, len(first)+1)
}

func TestLoadCorpusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	corpus := `
documents:
  - document:
      document_code: "TEST 2025"
      title: "Test Standard"
      category: safety
      version: "2025"
      effective_date: 2025-01-01T00:00:00Z
    sections:
      - token: {kind: section, number: "1.1"}
        title: "Scope"
        topics: [testing]
`
	require.NoError(t, os.WriteFile(path, []byte(corpus), 0o644))

	loaded, err := LoadCorpusFile(path)
	require.NoError(t, err)
	require.Len(t, loaded.Documents, 1)
	entry := loaded.Documents[0]
	assert.Equal(t, "TEST 2025", entry.Document.DocumentCode)
	require.Len(t, entry.Sections, 1)
	// Owner code is stamped onto sections at load time.
	assert.Equal(t, "TEST 2025", entry.Sections[0].DocumentCode)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("documents:\n  - document:\n      title: nameless\n"), 0o644))
	_, err = LoadCorpusFile(bad)
	assert.Error(t, err)
}
