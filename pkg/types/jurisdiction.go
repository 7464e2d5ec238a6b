package types

import "strings"

// Jurisdiction identifies the state or territory a regulatory document is
// scoped to. The empty value means national (Commonwealth) scope.
type Jurisdiction string

// Australian state and territory codes, as they appear in AGLC4
// jurisdiction parentheticals.
const (
	JurisdictionNational Jurisdiction = ""
	JurisdictionQLD      Jurisdiction = "Qld"
	JurisdictionNSW      Jurisdiction = "NSW"
	JurisdictionVIC      Jurisdiction = "Vic"
	JurisdictionWA       Jurisdiction = "WA"
	JurisdictionSA       Jurisdiction = "SA"
	JurisdictionTAS      Jurisdiction = "Tas"
	JurisdictionACT      Jurisdiction = "ACT"
	JurisdictionNT       Jurisdiction = "NT"
)

// allJurisdictions maps uppercase forms to canonical codes so that caller
// input like "QLD" or "qld" resolves to "Qld".
var allJurisdictions = map[string]Jurisdiction{
	"QLD": JurisdictionQLD,
	"NSW": JurisdictionNSW,
	"VIC": JurisdictionVIC,
	"WA":  JurisdictionWA,
	"SA":  JurisdictionSA,
	"TAS": JurisdictionTAS,
	"ACT": JurisdictionACT,
	"NT":  JurisdictionNT,
}

// ParseJurisdiction resolves a caller-supplied jurisdiction string to its
// canonical code. Empty input means national scope. Unknown input returns
// false; callers treat that as national rather than guessing.
func ParseJurisdiction(input string) (Jurisdiction, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return JurisdictionNational, true
	}
	code, ok := allJurisdictions[strings.ToUpper(trimmed)]
	return code, ok
}

// IsNational reports whether the jurisdiction is Commonwealth-wide.
func (j Jurisdiction) IsNational() bool {
	return j == JurisdictionNational
}

// Suffix returns the AGLC4 parenthetical suffix, e.g. " (Qld)", or the
// empty string for national scope.
func (j Jurisdiction) Suffix() string {
	if j.IsNational() {
		return ""
	}
	return " (" + string(j) + ")"
}
