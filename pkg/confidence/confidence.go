// Package confidence combines extraction, validation, and match signals
// into a single 0-100 score per citation.
package confidence

import "math"

// Weights of each factor. They sum to 100.
const (
	WeightAIRelevance        = 40
	WeightValidated          = 25
	WeightSectionExists      = 15
	WeightJurisdictionMatch  = 10
	WeightDirectKeywordMatch = 10
)

// DefaultAIRelevance is assumed when the reasoning service reports no
// certainty of its own.
const DefaultAIRelevance = 0.6

// Defaults for the trust ceiling: an unvalidated citation never reaches
// the high-confidence threshold.
const (
	DefaultUnvalidatedCap = 69
	DefaultHighThreshold  = 70
)

// Factors are the binary and graded inputs to one score.
type Factors struct {
	// AIRelevance is the reasoning service's self-reported certainty in
	// [0,1]; nil applies DefaultAIRelevance.
	AIRelevance *float64

	// Validated means the document resolved against the store.
	Validated bool

	// SectionExists means the exact section token was found in the
	// store.
	SectionExists bool

	// JurisdictionMatch means the document's jurisdiction suits the
	// query (national always suits).
	JurisdictionMatch bool

	// DirectKeywordMatch means a query keyword appears in the matched
	// section.
	DirectKeywordMatch bool
}

// Scorer computes scores under a configurable trust ceiling.
type Scorer struct {
	// UnvalidatedCap is the hard ceiling applied when Validated is
	// false.
	UnvalidatedCap int

	// HighThreshold is the score at which a citation counts as high
	// confidence.
	HighThreshold int
}

// NewScorer returns a scorer with the default cap and threshold.
func NewScorer() *Scorer {
	return &Scorer{
		UnvalidatedCap: DefaultUnvalidatedCap,
		HighThreshold:  DefaultHighThreshold,
	}
}

// Score applies the weighted formula and the unvalidated ceiling. The
// result is always in [0,100].
func (s *Scorer) Score(factors Factors) int {
	aiRelevance := DefaultAIRelevance
	if factors.AIRelevance != nil {
		aiRelevance = clamp01(*factors.AIRelevance)
	}

	raw := aiRelevance * WeightAIRelevance
	if factors.Validated {
		raw += WeightValidated
	}
	if factors.SectionExists {
		raw += WeightSectionExists
	}
	if factors.JurisdictionMatch {
		raw += WeightJurisdictionMatch
	}
	if factors.DirectKeywordMatch {
		raw += WeightDirectKeywordMatch
	}

	score := int(math.Round(raw))
	if !factors.Validated && score > s.UnvalidatedCap {
		score = s.UnvalidatedCap
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// IsHigh reports whether a score crosses the high-confidence threshold.
func (s *Scorer) IsHigh(score int) bool {
	return score >= s.HighThreshold
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
