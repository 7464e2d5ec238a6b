package reasoning

import (
	"strings"
	"testing"
	"time"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/selector"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

func promptCandidates() selector.CandidateSet {
	return selector.CandidateSet{
		Candidates: []selector.Candidate{
			{
				Document: types.RegulatoryDocument{
					DocumentCode:  "NCC 2025",
					Title:         "National Construction Code",
					Category:      types.CategoryBuilding,
					EffectiveDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
				},
				Sections: []types.RegulatorySection{
					{
						Token: types.SectionToken{Kind: types.KindSection, Number: "3.2.1"},
						Title: "Moisture management in building elements",
					},
				},
			},
			{
				Document: types.RegulatoryDocument{
					DocumentCode: "Electrical Safety Act 2002",
					Title:        "Electrical Safety Act 2002 (Qld)",
					Category:     types.CategoryElectrical,
					Jurisdiction: types.JurisdictionQLD,
				},
			},
		},
		DerivedNotes: "Climate zone subtropical: expected structural drying window 4\u20136 days.",
	}
}

func TestBuildPromptNamesEveryCandidate(t *testing.T) {
	prompt := BuildPrompt("Structural drying, Category 2 water damage", promptCandidates())

	for _, expected := range []string{
		"Structural drying, Category 2 water damage",
		"NCC 2025",
		"s 3.2.1",
		"Electrical Safety Act 2002",
		"[Qld]",
		"subtropical",
		`"confidence"`,
	} {
		if !strings.Contains(prompt, expected) {
			t.Errorf("prompt missing %q:\n%s", expected, prompt)
		}
	}
}

func TestParseEnvelope(t *testing.T) {
	cases := []struct {
		name               string
		text               string
		expectedReasoning  string
		expectedConfidence *float64
	}{
		{
			name:               "well_formed",
			text:               `{"reasoning": "NCC 2025 s 3.2.1 applies.", "confidence": 0.85}`,
			expectedReasoning:  "NCC 2025 s 3.2.1 applies.",
			expectedConfidence: Float(0.85),
		},
		{
			name:              "missing_confidence",
			text:              `{"reasoning": "nothing applies"}`,
			expectedReasoning: "nothing applies",
		},
		{
			name:              "plain_text_fallback",
			text:              "The NCC applies, see s 3.2.1.",
			expectedReasoning: "The NCC applies, see s 3.2.1.",
		},
		{
			name:              "out_of_range_confidence_dropped",
			text:              `{"reasoning": "r", "confidence": 7.5}`,
			expectedReasoning: "r",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			judgement := parseEnvelope(tc.text)
			if judgement.ReasoningText != tc.expectedReasoning {
				t.Errorf("reasoning = %q, expected %q", judgement.ReasoningText, tc.expectedReasoning)
			}
			switch {
			case tc.expectedConfidence == nil && judgement.SelfReportedConfidence != nil:
				t.Errorf("expected no confidence, got %v", *judgement.SelfReportedConfidence)
			case tc.expectedConfidence != nil && judgement.SelfReportedConfidence == nil:
				t.Errorf("expected confidence %v, got nil", *tc.expectedConfidence)
			case tc.expectedConfidence != nil && *judgement.SelfReportedConfidence != *tc.expectedConfidence:
				t.Errorf("confidence = %v, expected %v", *judgement.SelfReportedConfidence, *tc.expectedConfidence)
			}
		})
	}
}
