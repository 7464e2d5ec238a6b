package citation

import (
	"errors"
	"testing"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

func TestParseSectionToken(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected types.SectionToken
	}{
		{
			name:     "bare_dotted_number",
			input:    "3.2.1",
			expected: types.SectionToken{Kind: types.KindSection, Number: "3.2.1"},
		},
		{
			name:     "s_prefix",
			input:    "s 3.2.1",
			expected: types.SectionToken{Kind: types.KindSection, Number: "3.2.1"},
		},
		{
			name:     "section_word",
			input:    "Section 114",
			expected: types.SectionToken{Kind: types.KindSection, Number: "114"},
		},
		{
			name:     "ss_range_hyphen",
			input:    "ss 3.2-3.4",
			expected: types.SectionToken{Kind: types.KindSection, Number: "3.2", RangeEnd: "3.4"},
		},
		{
			name:     "range_en_dash",
			input:    "3.2–3.4",
			expected: types.SectionToken{Kind: types.KindSection, Number: "3.2", RangeEnd: "3.4"},
		},
		{
			name:     "chapter",
			input:    "Chapter 7",
			expected: types.SectionToken{Kind: types.KindChapter, Number: "7"},
		},
		{
			name:     "ch_abbrev",
			input:    "ch 2",
			expected: types.SectionToken{Kind: types.KindChapter, Number: "2"},
		},
		{
			name:     "schedule",
			input:    "Schedule 7",
			expected: types.SectionToken{Kind: types.KindSchedule, Number: "7"},
		},
		{
			name:     "sch_abbrev",
			input:    "Sch 1",
			expected: types.SectionToken{Kind: types.KindSchedule, Number: "1"},
		},
		{
			name:     "division",
			input:    "Div 4",
			expected: types.SectionToken{Kind: types.KindDivision, Number: "4"},
		},
		{
			name:     "clause",
			input:    "cl 12.4",
			expected: types.SectionToken{Kind: types.KindClause, Number: "12.4"},
		},
		{
			name:     "part",
			input:    "pt 3",
			expected: types.SectionToken{Kind: types.KindPart, Number: "3"},
		},
		{
			name:     "bare_letter",
			input:    "A",
			expected: types.SectionToken{Kind: types.KindSection, Number: "A"},
		},
		{
			name:     "schedule_letter",
			input:    "Schedule A",
			expected: types.SectionToken{Kind: types.KindSchedule, Number: "A"},
		},
		{
			name:     "prefix_with_period",
			input:    "cl. 5",
			expected: types.SectionToken{Kind: types.KindClause, Number: "5"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := ParseSectionToken(tc.input)
			if err != nil {
				t.Fatalf("ParseSectionToken(%q) returned error: %v", tc.input, err)
			}
			if token != tc.expected {
				t.Errorf("ParseSectionToken(%q) = %+v, expected %+v", tc.input, token, tc.expected)
			}
		})
	}
}

func TestParseSectionTokenRejectsGarbage(t *testing.T) {
	inputs := []string{
		"",
		"the quick brown fox",
		"s",
		"xyz 3.2.1 extra trailing words",
		"A-B",
	}
	for _, input := range inputs {
		if _, err := ParseSectionToken(input); !errors.Is(err, ErrUnparseableSectionToken) {
			t.Errorf("ParseSectionToken(%q) expected ErrUnparseableSectionToken, got %v", input, err)
		}
	}
}

func TestFormatTokenNumberUsesEnDash(t *testing.T) {
	token, err := ParseSectionToken("3.2-3.4")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	formatted := FormatTokenNumber(token)
	if formatted != "3.2–3.4" {
		t.Errorf("expected en-dash range, got %q", formatted)
	}
}

func TestKindAbbrevPluralizesRanges(t *testing.T) {
	single := types.SectionToken{Kind: types.KindSection, Number: "3.2"}
	if abbrev := KindAbbrev(single); abbrev != "s" {
		t.Errorf("expected \"s\", got %q", abbrev)
	}
	ranged := types.SectionToken{Kind: types.KindSection, Number: "3.2", RangeEnd: "3.4"}
	if abbrev := KindAbbrev(ranged); abbrev != "ss" {
		t.Errorf("expected \"ss\", got %q", abbrev)
	}
}
