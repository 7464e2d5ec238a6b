package citation

import (
	"strings"
	"testing"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

func nccReference() Reference {
	return Reference{
		DocumentCode: "NCC 2025",
		Title:        "National Construction Code",
		Token:        types.SectionToken{Kind: types.KindSection, Number: "3.2.1"},
	}
}

func TestRenderFull(t *testing.T) {
	renderer := NewRenderer(FootnoteFull)

	cases := []struct {
		name     string
		ref      Reference
		expected string
	}{
		{
			name:     "national_document",
			ref:      nccReference(),
			expected: "National Construction Code 2025, s 3.2.1",
		},
		{
			name: "jurisdiction_suffix",
			ref: Reference{
				DocumentCode: "AS/NZS 3000:2023",
				Title:        "Electrical Installations (Wiring Rules)",
				Jurisdiction: types.JurisdictionQLD,
				Token:        types.SectionToken{Kind: types.KindSection, Number: "2.4"},
			},
			expected: "Electrical Installations (Wiring Rules) 2023, s 2.4 (Qld)",
		},
		{
			name: "jurisdiction_already_in_title",
			ref: Reference{
				DocumentCode: "Electrical Safety Act 2002",
				Title:        "Electrical Safety Act 2002 (Qld)",
				Jurisdiction: types.JurisdictionQLD,
				Token:        types.SectionToken{Kind: types.KindSection, Number: "24"},
			},
			expected: "Electrical Safety Act 2002 (Qld), s 24",
		},
		{
			name: "schedule",
			ref: Reference{
				DocumentCode: "NCC 2025",
				Title:        "National Construction Code",
				Token:        types.SectionToken{Kind: types.KindSchedule, Number: "7"},
			},
			expected: "National Construction Code 2025, Sch 7",
		},
		{
			name: "section_range",
			ref: Reference{
				DocumentCode: "NCC 2025",
				Title:        "National Construction Code",
				Token:        types.SectionToken{Kind: types.KindSection, Number: "3.2", RangeEnd: "3.4"},
			},
			expected: "National Construction Code 2025, ss 3.2–3.4",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if full := renderer.Full(tc.ref); full != tc.expected {
				t.Errorf("Full() = %q, expected %q", full, tc.expected)
			}
		})
	}
}

func TestRenderShort(t *testing.T) {
	renderer := NewRenderer(FootnoteFull)
	if short := renderer.Short(nccReference()); short != "NCC 2025, s 3.2.1" {
		t.Errorf("Short() = %q", short)
	}
}

func TestRenderInText(t *testing.T) {
	renderer := NewRenderer(FootnoteFull)

	plain := renderer.InText(nccReference())
	if plain != "(NCC 2025, s 3.2.1)" {
		t.Errorf("InText() = %q", plain)
	}

	withPage := nccReference()
	withPage.PageNumber = 12
	if cited := renderer.InText(withPage); cited != "(NCC 2025, s 3.2.1, 12)" {
		t.Errorf("InText() with page = %q", cited)
	}

	withYear := nccReference()
	withYear.Year = 2025
	if cited := renderer.InText(withYear); cited != "(NCC 2025, s 3.2.1, 2025)" {
		t.Errorf("InText() with year = %q", cited)
	}
}

func TestRenderFootnote(t *testing.T) {
	ref := nccReference()
	ref.QuotedText = "moisture content must not exceed prescribed limits"
	ref.PageNumber = 12

	full := NewRenderer(FootnoteFull).Footnote(ref)
	expectedFull := "National Construction Code 2025, s 3.2.1 [12] 'moisture content must not exceed prescribed limits'"
	if full != expectedFull {
		t.Errorf("Footnote(full) = %q, expected %q", full, expectedFull)
	}

	short := NewRenderer(FootnoteShort).Footnote(ref)
	expectedShort := "NCC 2025, s 3.2.1 [12] 'moisture content must not exceed prescribed limits'"
	if short != expectedShort {
		t.Errorf("Footnote(short) = %q, expected %q", short, expectedShort)
	}
}

func TestRangeRenderingNeverUsesHyphen(t *testing.T) {
	token, err := ParseSectionToken("3.2-3.4")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ref := nccReference()
	ref.Token = token

	full := NewRenderer(FootnoteFull).Full(ref)
	if !strings.Contains(full, "–") {
		t.Errorf("rendered range missing en-dash: %q", full)
	}
	if strings.Contains(full, "-") {
		t.Errorf("rendered range contains hyphen: %q", full)
	}
	if !strings.Contains(full, "ss ") {
		t.Errorf("range keyword not pluralized: %q", full)
	}
}
