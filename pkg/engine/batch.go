package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

// BatchItem is one task in a batch resolution.
type BatchItem struct {
	TaskDescription  string                 `json:"task_description" yaml:"task_description"`
	SituationalQuery types.SituationalQuery `json:"situational_query" yaml:"situational_query"`
}

// ResolveBatch resolves every item concurrently and returns result lists
// index-aligned with the input. Items are independent: a reasoning
// failure or timeout on one item empties that item's list and leaves the
// others intact. The whole batch is bounded by the batch timeout;
// cancellation abandons in-flight calls but already-completed results
// are still returned.
//
// The only error is malformed input: every item must carry a task
// description, checked up front at the call boundary.
func (e *Engine) ResolveBatch(ctx context.Context, items []BatchItem) ([][]types.ResolvedCitation, error) {
	for _, item := range items {
		if strings.TrimSpace(item.TaskDescription) == "" {
			return nil, ErrMissingTaskDescription
		}
	}

	results := make([][]types.ResolvedCitation, len(items))
	if len(items) == 0 {
		return results, nil
	}

	batchCtx, cancel := context.WithTimeout(ctx, e.batchTimeout)
	defer cancel()

	semaphore := make(chan struct{}, e.maxConcurrent)
	var wg sync.WaitGroup
	for i, item := range items {
		results[i] = []types.ResolvedCitation{}

		wg.Add(1)
		go func(index int, item BatchItem) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-batchCtx.Done():
				// Timed out waiting for a slot; this item stays empty.
				return
			}

			resolved, err := e.Resolve(batchCtx, item.TaskDescription, item.SituationalQuery)
			if err != nil {
				// Inputs were checked above, so this is a cancellation
				// surfacing through a lower layer. Partial success:
				// leave the item empty.
				return
			}
			results[index] = resolved
		}(i, item)
	}
	wg.Wait()

	return results, nil
}
