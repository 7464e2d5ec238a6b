package confidence

import "testing"

func floatPtr(v float64) *float64 { return &v }

func TestScoreFormula(t *testing.T) {
	scorer := NewScorer()

	cases := []struct {
		name     string
		factors  Factors
		expected int
	}{
		{
			name: "all_factors_full_certainty",
			factors: Factors{
				AIRelevance:        floatPtr(1.0),
				Validated:          true,
				SectionExists:      true,
				JurisdictionMatch:  true,
				DirectKeywordMatch: true,
			},
			expected: 100,
		},
		{
			name:     "nothing_matches",
			factors:  Factors{AIRelevance: floatPtr(0)},
			expected: 0,
		},
		{
			name: "default_ai_relevance",
			factors: Factors{
				Validated:          true,
				SectionExists:      true,
				JurisdictionMatch:  true,
				DirectKeywordMatch: true,
			},
			// 0.6*40 + 25 + 15 + 10 + 10 = 84
			expected: 84,
		},
		{
			name: "graded_relevance_rounds_to_nearest",
			factors: Factors{
				AIRelevance: floatPtr(0.85),
				Validated:   true,
			},
			// 0.85*40 + 25 = 59
			expected: 59,
		},
		{
			name: "validated_section_missing",
			factors: Factors{
				AIRelevance:   floatPtr(0.5),
				Validated:     true,
				SectionExists: false,
			},
			expected: 45,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if score := scorer.Score(tc.factors); score != tc.expected {
				t.Errorf("Score(%+v) = %d, expected %d", tc.factors, score, tc.expected)
			}
		})
	}
}

func TestScoreCapsUnvalidated(t *testing.T) {
	scorer := NewScorer()

	factors := Factors{
		AIRelevance:        floatPtr(1.0),
		Validated:          false,
		SectionExists:      true,
		JurisdictionMatch:  true,
		DirectKeywordMatch: true,
	}
	score := scorer.Score(factors)
	if score > DefaultUnvalidatedCap {
		t.Errorf("unvalidated score %d exceeds cap %d", score, DefaultUnvalidatedCap)
	}
	if scorer.IsHigh(score) {
		t.Error("unvalidated citation must never be high confidence")
	}
}

func TestScoreClampsOutOfRangeRelevance(t *testing.T) {
	scorer := NewScorer()

	high := scorer.Score(Factors{AIRelevance: floatPtr(5.0), Validated: true})
	if high != 65 {
		t.Errorf("clamped relevance: expected 65, got %d", high)
	}
	low := scorer.Score(Factors{AIRelevance: floatPtr(-2.0), Validated: true})
	if low != 25 {
		t.Errorf("clamped relevance: expected 25, got %d", low)
	}
}

func TestIsHighThreshold(t *testing.T) {
	scorer := NewScorer()
	if scorer.IsHigh(69) {
		t.Error("69 is below the default high threshold")
	}
	if !scorer.IsHigh(70) {
		t.Error("70 meets the default high threshold")
	}
}
