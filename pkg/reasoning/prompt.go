package reasoning

import (
	"fmt"
	"strings"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/citation"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/selector"
)

// BuildPrompt renders the structured prompt for one judgement call: the
// task description followed by every candidate document and section. The
// model is asked to cite documents by their exact codes so extraction can
// match them back.
func BuildPrompt(taskDescription string, candidates selector.CandidateSet) string {
	var prompt strings.Builder

	prompt.WriteString("You are assessing which Australian regulatory provisions apply to a restoration task.\n\n")
	fmt.Fprintf(&prompt, "Task: %s\n\n", taskDescription)

	prompt.WriteString("Candidate provisions:\n")
	for _, candidate := range candidates.Candidates {
		document := candidate.Document
		fmt.Fprintf(&prompt, "- %s (%s)", document.DocumentCode, document.Title)
		if !document.Jurisdiction.IsNational() {
			fmt.Fprintf(&prompt, " [%s]", document.Jurisdiction)
		}
		prompt.WriteString("\n")
		for _, section := range candidate.Sections {
			fmt.Fprintf(&prompt, "    %s %s: %s\n",
				citation.KindAbbrev(section.Token),
				citation.FormatTokenNumber(section.Token),
				section.Title)
		}
	}

	if candidates.DerivedNotes != "" {
		fmt.Fprintf(&prompt, "\nContext notes: %s\n", candidates.DerivedNotes)
	}

	prompt.WriteString(`
Respond with JSON: {"reasoning": "...", "confidence": 0.0-1.0}.
In the reasoning, name each applicable document by its exact code above
and give the section as written (e.g. "s 3.2.1"), explaining briefly why
it applies. Ignore candidates that do not apply.
`)
	return prompt.String()
}
