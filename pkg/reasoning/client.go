// Package reasoning abstracts the external natural-language reasoning
// service that judges which candidate regulations apply to a task. The
// service's output is untrusted free text; downstream stages only
// pattern-match over it.
package reasoning

import (
	"context"
	"errors"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/selector"
)

// ErrUnavailable wraps any transport or service failure. Callers recover
// by skipping extraction for the affected task.
var ErrUnavailable = errors.New("reasoning: service unavailable")

// Judgement is the service's relevance assessment for one task.
type Judgement struct {
	// ReasoningText is free text naming the candidates that apply and
	// why. It is never executed or templated, only scanned.
	ReasoningText string

	// SelfReportedConfidence is the service's own certainty in [0,1],
	// nil when the service did not report one.
	SelfReportedConfidence *float64
}

// Client is the reasoning service contract. Implementations must honour
// context cancellation: batch timeouts abort in-flight calls through it.
type Client interface {
	Judge(ctx context.Context, taskDescription string, candidates selector.CandidateSet) (Judgement, error)
}
