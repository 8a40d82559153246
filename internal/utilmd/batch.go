package utilmd

import (
	"runtime"
	"sync"

	"example.com/edigate/internal/edifact"
)

// BatchResult pairs the aggregates for one input with its isolated error
// and the number of malformed segments skipped while parsing it. A
// malformed interchange never affects the other results of a batch.
type BatchResult struct {
	Transactions []Transaction
	Malformed    int
	Err          error
}

// ConvertBatch parses each input with a freshly constructed, wholly private
// coordinator, running up to concurrency inputs in parallel. The result
// slice preserves input order regardless of completion order.
func ConvertBatch(inputs [][]byte, v FormatVersion, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	results := make([]BatchResult, len(inputs))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input []byte) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			c, err := NewCoordinator(v)
			if err != nil {
				results[i] = BatchResult{Err: err}
				return
			}
			edifact.Scan(input, c)
			res := BatchResult{Malformed: c.MalformedSegments()}
			if err := c.Err(); err != nil {
				res.Err = err
			} else {
				res.Transactions = c.Transactions()
			}
			results[i] = res
		}(i, input)
	}
	wg.Wait()
	return results
}
