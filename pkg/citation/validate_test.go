package citation

import (
	"strings"
	"testing"
)

func TestValidateAcceptsWellFormed(t *testing.T) {
	valid := []string{
		"National Construction Code 2025, s 3.2.1",
		"NCC 2025, s 3.2.1",
		"NCC 2025, ss 3.2–3.4",
		"Electrical Safety Act 2002 (Qld), s 24",
		"National Construction Code 2025, Sch 7",
		"NCC 2025, cl 12.4",
		"NCC 2025, ch 2",
	}
	for _, citation := range valid {
		result := Validate(citation)
		if !result.IsValid || len(result.Issues) != 0 {
			t.Errorf("Validate(%q) = invalid with issues %v, expected valid", citation, result.Issues)
		}
	}
}

func TestValidateFlagsSectionWord(t *testing.T) {
	result := Validate("National Construction Code 2025 Sec. 3.2.1")
	if result.IsValid {
		t.Fatal("expected invalid result for \"Sec.\" form")
	}
	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue, `"s"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an issue referencing the required \"s\" form, got %v", result.Issues)
	}
}

func TestValidateFlagsHyphenRange(t *testing.T) {
	result := Validate("NCC 2025, ss 3.2-3.4")
	if result.IsValid {
		t.Fatal("expected invalid result for hyphen range")
	}
	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue, "en-dash") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an en-dash issue, got %v", result.Issues)
	}
}

func TestValidateFlagsSingularWithRange(t *testing.T) {
	result := Validate("NCC 2025, s 3.2–3.4")
	if result.IsValid {
		t.Fatal("expected invalid result for singular keyword with range")
	}
	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue, `"ss"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an issue suggesting \"ss\", got %v", result.Issues)
	}
}

func TestValidateFlagsPluralWithSingleSection(t *testing.T) {
	result := Validate("NCC 2025, ss 3.2.1")
	if result.IsValid {
		t.Fatal("expected invalid result for plural keyword with single section")
	}
}

func TestValidateFlagsFullStructuralWords(t *testing.T) {
	cases := map[string]string{
		"NCC 2025, Schedule 7": "Sch",
		"NCC 2025, Chapter 2":  "ch",
		"NCC 2025, Clause 4":   "cl",
		"NCC 2025, Part 3":     "pt",
		"NCC 2025, Division 1": "Div",
	}
	for citation, abbrev := range cases {
		result := Validate(citation)
		if result.IsValid {
			t.Errorf("Validate(%q) expected invalid", citation)
			continue
		}
		found := false
		for _, issue := range result.Issues {
			if strings.Contains(issue, abbrev) {
				found = true
			}
		}
		if !found {
			t.Errorf("Validate(%q) expected issue suggesting %q, got %v", citation, abbrev, result.Issues)
		}
	}
}

func TestValidateIsTotal(t *testing.T) {
	// Validation never panics or errors, whatever the input.
	inputs := []string{
		"",
		strings.Repeat("s ", 10000),
		"\x00\xff garbage –––",
		"((((((",
	}
	for _, input := range inputs {
		_ = Validate(input)
	}
}
