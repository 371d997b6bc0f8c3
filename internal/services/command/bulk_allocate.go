package command

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultBulkConcurrency is the default ceiling on simultaneously in-flight
// SKU groups for BulkAllocate (spec §4.3, bulk.allocation.concurrency).
const DefaultBulkConcurrency = 8

// AllocationRequest is one line of a bulk allocation batch.
type AllocationRequest struct {
	SKU     string
	Qty     int64
	OrderID string
}

// AllocationResult is the per-line outcome of a BulkAllocate call. Err is
// nil when the line's allocation succeeded.
type AllocationResult struct {
	Request AllocationRequest
	Err     error
}

// BulkAllocateResult is the aggregate outcome of a BulkAllocate call (spec
// §4.3 step 4, §6.1, §8 scenario 3): per-line outcomes plus the summary
// counters callers report back to whoever submitted the batch.
type BulkAllocateResult struct {
	SuccessCount int
	FailureCount int
	ProcessingMs int64
	Outcomes     []AllocationResult
}

// BulkAllocate processes a batch of allocation requests with partial-success
// semantics (spec §4.3): requests are grouped by SKU so that same-SKU lines
// execute strictly in submission order against a single CAS-retried stream,
// while distinct SKU groups run concurrently, bounded by concurrency (0 uses
// DefaultBulkConcurrency). One request's failure never aborts the others.
func (s *Service) BulkAllocate(ctx context.Context, requests []AllocationRequest, operatorID string, concurrency int) BulkAllocateResult {
	start := time.Now()

	if concurrency <= 0 {
		concurrency = DefaultBulkConcurrency
	}

	results := make([]AllocationResult, len(requests))

	groups := make(map[string][]int) // sku -> indexes into requests, in order
	order := make([]string, 0)

	for i, r := range requests {
		if _, seen := groups[r.SKU]; !seen {
			order = append(order, r.SKU)
		}

		groups[r.SKU] = append(groups[r.SKU], i)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, sku := range order {
		sku := sku
		indexes := groups[sku]

		g.Go(func() error {
			// One line failing (insufficient stock, invariant violation, ...)
			// never stops the rest of this SKU's queue: each line's outcome
			// is recorded independently and the group always returns nil so
			// errgroup keeps the other SKU groups running (spec §4.3
			// partial-success semantics).
			for _, idx := range indexes {
				req := requests[idx]

				_, err := s.Allocate(gctx, req.SKU, req.Qty, req.OrderID, operatorID)
				results[idx] = AllocationResult{Request: req, Err: err}
			}

			return nil
		})
	}

	_ = g.Wait()

	result := BulkAllocateResult{Outcomes: results, ProcessingMs: time.Since(start).Milliseconds()}

	for _, r := range results {
		if r.Err != nil {
			result.FailureCount++
		} else {
			result.SuccessCount++
		}
	}

	return result
}
