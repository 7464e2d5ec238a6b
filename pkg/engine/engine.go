// Package engine orchestrates citation resolution: candidate selection,
// reasoning-service judgement, extraction, store validation, confidence
// scoring, and rendering. It exposes the surfaces the report renderer
// consumes.
package engine

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/citation"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/confidence"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/extract"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/reasoning"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/selector"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/store"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

// ErrMissingTaskDescription is the facade's only fatal input error: an
// empty task description is a programmer error, raised synchronously.
var ErrMissingTaskDescription = errors.New("engine: task description is required")

// Options tune one engine instance. Zero values take the defaults below.
type Options struct {
	PerCallTimeout time.Duration
	BatchTimeout   time.Duration
	MaxConcurrent  int
	FootnoteStyle  citation.FootnoteStyle
	UnvalidatedCap int
	HighThreshold  int
}

const (
	defaultPerCallTimeout = 5 * time.Second
	defaultBatchTimeout   = 10 * time.Second
	defaultMaxConcurrent  = 5
)

// Engine resolves regulatory citations for task descriptions. Safe for
// concurrent use: all mutable state is per-call.
type Engine struct {
	store      store.Store
	selector   *selector.Selector
	reasoner   reasoning.Client
	scorer     *confidence.Scorer
	normalizer *citation.Normalizer
	renderer   *citation.Renderer
	log        zerolog.Logger

	perCallTimeout time.Duration
	batchTimeout   time.Duration
	maxConcurrent  int
}

// New builds an engine over a document store and a reasoning client. The
// document-name normalizer snapshots the corpus at construction; an
// unreachable store degrades to an empty normalizer rather than failing,
// matching the engine's fail-closed posture.
func New(ctx context.Context, documentStore store.Store, reasoner reasoning.Client, opts Options, log zerolog.Logger) *Engine {
	if opts.PerCallTimeout <= 0 {
		opts.PerCallTimeout = defaultPerCallTimeout
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = defaultBatchTimeout
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaultMaxConcurrent
	}

	scorer := confidence.NewScorer()
	if opts.UnvalidatedCap > 0 {
		scorer.UnvalidatedCap = opts.UnvalidatedCap
	}
	if opts.HighThreshold > 0 {
		scorer.HighThreshold = opts.HighThreshold
	}

	documents, err := documentStore.ListDocuments(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("corpus snapshot unavailable; document normalization degraded")
		documents = nil
	}

	return &Engine{
		store:          documentStore,
		selector:       selector.New(documentStore, log),
		reasoner:       reasoner,
		scorer:         scorer,
		normalizer:     citation.NewNormalizer(documents),
		renderer:       citation.NewRenderer(opts.FootnoteStyle),
		log:            log,
		perCallTimeout: opts.PerCallTimeout,
		batchTimeout:   opts.BatchTimeout,
		maxConcurrent:  opts.MaxConcurrent,
	}
}

// Resolve returns the ranked, fully-rendered citations for one task. A
// degraded store or reasoning service yields an empty (never nil) list,
// not an error; the only error is a missing task description.
func (e *Engine) Resolve(ctx context.Context, taskDescription string, query types.SituationalQuery) ([]types.ResolvedCitation, error) {
	if strings.TrimSpace(taskDescription) == "" {
		return nil, ErrMissingTaskDescription
	}

	candidates := e.selector.Select(ctx, query)
	if candidates.Empty() {
		if candidates.Err {
			e.log.Warn().Str("task", taskDescription).
				Msg("no candidates: document store degraded")
		}
		return []types.ResolvedCitation{}, nil
	}

	judgeCtx, cancel := context.WithTimeout(ctx, e.perCallTimeout)
	defer cancel()
	judgement, err := e.reasoner.Judge(judgeCtx, taskDescription, candidates)
	if err != nil {
		e.log.Warn().Err(err).Str("task", taskDescription).
			Msg("reasoning unavailable; task yields no citations")
		return []types.ResolvedCitation{}, nil
	}

	extracted := extract.New(candidates).Extract(judgement.ReasoningText)
	resolved := make([]types.ResolvedCitation, 0, len(extracted))
	seen := make(map[string]bool)
	for _, candidate := range extracted {
		result, ok := e.resolveCandidate(ctx, candidate, query, judgement.SelfReportedConfidence)
		if !ok {
			continue
		}
		key := result.DocumentCode + "|" + string(result.SectionToken.Kind) + "|" +
			result.SectionToken.Number + "|" + result.SectionToken.RangeEnd
		if seen[key] {
			continue
		}
		seen[key] = true
		resolved = append(resolved, result)
	}

	orderCitations(resolved)
	return resolved, nil
}

// resolveCandidate validates one extracted candidate against the store,
// scores it, and renders its citation forms. ok is false when the
// candidate cannot produce a citation at all (unknown document or
// unparseable token), per the drop-or-flag policy the caller gets to see
// only resolvable candidates.
func (e *Engine) resolveCandidate(ctx context.Context, candidate types.CandidateCitation, query types.SituationalQuery, aiRelevance *float64) (types.ResolvedCitation, bool) {
	normalized, err := e.normalizer.NormalizeDocumentName(candidate.DocumentCodeRaw)
	if err != nil {
		e.log.Debug().Err(err).Str("raw", candidate.DocumentCodeRaw).
			Msg("dropping candidate: unknown document")
		return types.ResolvedCitation{}, false
	}

	token, err := citation.ParseSectionToken(candidate.SectionTokenRaw)
	if err != nil {
		e.log.Debug().Err(err).Str("raw", candidate.SectionTokenRaw).
			Msg("dropping candidate: unparseable section token")
		return types.ResolvedCitation{}, false
	}

	document, known := e.normalizer.Document(normalized.DocumentCode)
	sectionExists, matchedSection, storeOK := e.sectionExists(ctx, normalized.DocumentCode, token)

	// Validated means the citation was re-confirmed against a reachable
	// store, not merely recognized from the construction-time snapshot.
	validated := known && storeOK
	jurisdictionMatch := document.Jurisdiction.IsNational() ||
		document.Jurisdiction == query.Jurisdiction

	factors := confidence.Factors{
		AIRelevance:        aiRelevance,
		Validated:          validated,
		SectionExists:      sectionExists,
		JurisdictionMatch:  jurisdictionMatch,
		DirectKeywordMatch: keywordMatch(query, matchedSection, candidate.SourceSpan),
	}

	rendered := e.renderer.RenderAll(citation.Reference{
		DocumentCode: normalized.DocumentCode,
		Title:        normalized.Title,
		Jurisdiction: normalized.Jurisdiction,
		Token:        token,
		QuotedText:   candidate.SourceSpan,
	})

	return types.ResolvedCitation{
		DocumentCode:     normalized.DocumentCode,
		SectionToken:     token,
		Category:         document.Category,
		Jurisdiction:     normalized.Jurisdiction,
		FullReference:    rendered.Full,
		ShortReference:   rendered.Short,
		InTextCitation:   rendered.InText,
		FootnoteCitation: rendered.Footnote,
		QuotedText:       candidate.SourceSpan,
		Confidence:       e.scorer.Score(factors),
		Validated:        validated,
	}, true
}

// sectionExists checks the store for the exact (document, token) pair,
// returning the matched section for keyword scoring. Store failure
// degrades the factor to false and marks the citation unvalidated,
// rather than erroring.
func (e *Engine) sectionExists(ctx context.Context, documentCode string, token types.SectionToken) (exists bool, section *types.RegulatorySection, storeOK bool) {
	sections, err := e.store.FindSectionsByDocument(ctx, documentCode, nil)
	if err != nil {
		e.log.Warn().Err(err).Str("document", documentCode).
			Msg("section validation unavailable")
		return false, nil, false
	}
	for i := range sections {
		if sections[i].Token == token {
			return true, &sections[i], true
		}
	}
	return false, nil, true
}

// keywordMatch reports whether a query keyword appears in the matched
// section's topics/keywords or in the extraction's source span.
func keywordMatch(query types.SituationalQuery, section *types.RegulatorySection, sourceSpan string) bool {
	spanLower := strings.ToLower(sourceSpan)
	for _, keyword := range query.Keywords {
		keywordLower := strings.ToLower(strings.TrimSpace(keyword))
		if keywordLower == "" {
			continue
		}
		if strings.Contains(spanLower, keywordLower) {
			return true
		}
		if section == nil {
			continue
		}
		for _, topic := range section.Topics {
			if strings.EqualFold(topic, keywordLower) || strings.Contains(strings.ToLower(topic), keywordLower) {
				return true
			}
		}
		for _, word := range section.Keywords {
			if strings.EqualFold(word, keywordLower) || strings.Contains(strings.ToLower(word), keywordLower) {
				return true
			}
		}
	}
	return false
}

// orderCitations sorts by descending confidence, then by the fixed
// category order, then by document code, then by section token, so
// identical inputs always produce identical output order. The token
// tiebreak matters when one document is cited at several sections with
// equal confidence.
func orderCitations(citations []types.ResolvedCitation) {
	sort.SliceStable(citations, func(i, j int) bool {
		a, b := citations[i], citations[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Category.Order() != b.Category.Order() {
			return a.Category.Order() < b.Category.Order()
		}
		if a.DocumentCode != b.DocumentCode {
			return a.DocumentCode < b.DocumentCode
		}
		return tokenSortKey(a.SectionToken) < tokenSortKey(b.SectionToken)
	})
}

func tokenSortKey(token types.SectionToken) string {
	return string(token.Kind) + "|" + token.Number + "|" + token.RangeEnd
}

// ValidateCitationString checks an externally-authored citation string
// against the grammar. Stateless; usable without a store or reasoning
// client.
func (e *Engine) ValidateCitationString(s string) citation.ValidationResult {
	return citation.Validate(s)
}

// AggregateConfidence is the mean confidence across a result set, 0 for
// an empty set. Reports surface it as the batch-level figure.
func AggregateConfidence(citations []types.ResolvedCitation) int {
	if len(citations) == 0 {
		return 0
	}
	total := 0
	for _, c := range citations {
		total += c.Confidence
	}
	return int(float64(total)/float64(len(citations)) + 0.5)
}
