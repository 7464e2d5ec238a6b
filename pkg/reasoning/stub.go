package reasoning

import (
	"context"
	"sync"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/selector"
)

// StubClient is a deterministic Client for tests and offline use. It
// returns canned judgements keyed by task description, with an optional
// fallback and per-task errors.
type StubClient struct {
	// Judgements maps task descriptions to their canned judgement.
	Judgements map[string]Judgement

	// Errs maps task descriptions to a forced failure.
	Errs map[string]error

	// Fallback is returned for tasks with no canned judgement.
	Fallback Judgement

	// Delay, when set, simulates service latency while still honouring
	// cancellation.
	Delay func(ctx context.Context) error

	// Calls records the task descriptions judged. Batches call Judge
	// concurrently, so access is mutex-guarded.
	Calls []string

	mu sync.Mutex
}

// Judge implements Client.
func (s *StubClient) Judge(ctx context.Context, taskDescription string, _ selector.CandidateSet) (Judgement, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, taskDescription)
	s.mu.Unlock()
	if s.Delay != nil {
		if err := s.Delay(ctx); err != nil {
			return Judgement{}, err
		}
	}
	if err, ok := s.Errs[taskDescription]; ok {
		return Judgement{}, err
	}
	if judgement, ok := s.Judgements[taskDescription]; ok {
		return judgement, nil
	}
	return s.Fallback, nil
}

// Float is a convenience for building self-reported confidences.
func Float(v float64) *float64 {
	return &v
}
