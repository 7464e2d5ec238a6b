package citation

import "regexp"

// ValidationResult reports grammar issues found in a citation string.
// IsValid is true exactly when Issues is empty.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Issues  []string `json:"issues"`
}

// substitutionRule flags a known anti-pattern and carries its correction
// hint.
type substitutionRule struct {
	pattern *regexp.Regexp
	issue   string
}

// substitutionRules is the table of keyword anti-patterns. Each entry
// pairs the offending form with the AGLC4 form that replaces it.
var substitutionRules = []substitutionRule{
	{
		// "Sec. 3.2.1", "Section 114", "sections 12-14"
		pattern: regexp.MustCompile(`(?i)\bsec\.|\bsec\b|\bsections?\b`),
		issue:   `uses "Sec."/"Section" where "s" is required: write "s 3.2.1" (or "ss" for a range)`,
	},
	{
		pattern: regexp.MustCompile(`(?i)\bchapters?\b`),
		issue:   `uses "Chapter" where the abbreviation "ch" is required`,
	},
	{
		pattern: regexp.MustCompile(`(?i)\bschedules?\b`),
		issue:   `uses "Schedule" where the abbreviation "Sch" is required`,
	},
	{
		pattern: regexp.MustCompile(`(?i)\bdivisions?\b`),
		issue:   `uses "Division" where the abbreviation "Div" is required`,
	},
	{
		pattern: regexp.MustCompile(`(?i)\bclauses?\b`),
		issue:   `uses "Clause" where the abbreviation "cl" is required`,
	},
	{
		pattern: regexp.MustCompile(`(?i)\bparts?\b`),
		issue:   `uses "Part" where the abbreviation "pt" is required`,
	},
}

// hyphenRangePattern matches a numeric range joined by a plain hyphen
// after a section keyword, e.g. "ss 3.2-3.4".
var hyphenRangePattern = regexp.MustCompile(`\b(?:ss?|chs?|Schs?|Divs?|cls?|pts?)\s+\d+(?:\.\d+)*\s*-\s*\d`)

// singularRangePattern matches singular "s" used with a range number.
var singularRangePattern = regexp.MustCompile(`\bs\s+\d+(?:\.\d+)*\s*[-\x{2013}]\s*\d`)

// pluralSinglePattern matches "ss" followed by a number; a rule below
// checks whether a range separator follows.
var pluralSinglePattern = regexp.MustCompile(`\bss\s+\d+(?:\.\d+)*`)

// rangeContinuation tests whether the text immediately after a matched
// number continues into a range.
var rangeContinuation = regexp.MustCompile(`^\s*[-\x{2013}]`)

// Validate checks a citation string against the grammar's substitution
// rules. It is total: malformed input yields issues, never a panic or an
// error. Each issue carries a human-readable correction hint.
func Validate(citationString string) ValidationResult {
	var issues []string

	for _, rule := range substitutionRules {
		if rule.pattern.MatchString(citationString) {
			issues = append(issues, rule.issue)
		}
	}

	if hyphenRangePattern.MatchString(citationString) {
		issues = append(issues, `range uses a hyphen ("-"); ranges must use an en-dash ("`+EnDash+`")`)
	}

	if singularRangePattern.MatchString(citationString) {
		issues = append(issues, `singular "s" used with a range; write "ss" for consecutive sections`)
	}

	for _, match := range pluralSinglePattern.FindAllStringIndex(citationString, -1) {
		if !rangeContinuation.MatchString(citationString[match[1]:]) {
			issues = append(issues, `plural "ss" used with a single section; write "s"`)
			break
		}
	}

	return ValidationResult{IsValid: len(issues) == 0, Issues: issues}
}
