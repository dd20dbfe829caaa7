// Package bench is the before/after benchmark harness §1 names as an
// external collaborator: run a workload against a driver, create the
// recommended indexes, run it again, and report the duration delta.
// It sits outside recommend's hard core deliberately — nothing here
// feeds back into scoring or selection.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/sneller-labs/mindexer/query"
	"github.com/sneller-labs/mindexer/recommend"
)

// Result is the before/after timing of one recommendation set.
type Result struct {
	Indexes []recommend.Recommendation
	Before  time.Duration
	After   time.Duration
}

// Speedup is Before/After as a ratio, or 0 if After is zero (so a
// caller doesn't divide by zero rendering a report).
func (r Result) Speedup() float64 {
	if r.After == 0 {
		return 0
	}
	return float64(r.Before) / float64(r.After)
}

func (r Result) String() string {
	return fmt.Sprintf("before=%s after=%s speedup=%.2fx (%d index(es) created)",
		r.Before, r.After, r.Speedup(), len(r.Indexes))
}

// driver.Driver is the full interface; Run only needs the two
// methods that drive a workload and build an index, so it depends on
// this narrower view for testability.
type indexDriver interface {
	CreateIndex(ctx context.Context, fields []string) error
	ExecuteWorkload(ctx context.Context, wl []query.Query) (time.Duration, error)
}

// Run executes wl against d once before recs are applied and once
// after, creating every index in recs via d.CreateIndex in between.
// An index creation failure aborts the run — a partially applied
// recommendation set makes the "after" timing meaningless.
func Run(ctx context.Context, d indexDriver, wl []query.Query, recs []recommend.Recommendation) (Result, error) {
	before, err := d.ExecuteWorkload(ctx, wl)
	if err != nil {
		return Result{}, fmt.Errorf("bench: before run: %w", err)
	}

	for _, rec := range recs {
		if err := d.CreateIndex(ctx, rec.Fields); err != nil {
			return Result{}, fmt.Errorf("bench: creating index %v: %w", rec.Fields, err)
		}
	}

	after, err := d.ExecuteWorkload(ctx, wl)
	if err != nil {
		return Result{}, fmt.Errorf("bench: after run: %w", err)
	}

	return Result{Indexes: recs, Before: before, After: after}, nil
}
