// Package estimate turns a normalized Query into a scale-up cardinality
// estimate against a materialized sample, per §4.3, and memoizes estimates
// by structural Query equality so the Scorer never re-runs a sample pass
// for the same (query, candidate) shape twice.
package estimate

import (
	"context"

	"github.com/sneller-labs/mindexer/driver"
	"github.com/sneller-labs/mindexer/query"
	"github.com/sneller-labs/mindexer/sample"
)

// Estimator computes Horvitz-Thompson-style scale-up estimates against a
// materialized sample.
type Estimator struct {
	sample *sample.Handle
}

// New returns an Estimator backed by h.
func New(h *sample.Handle) *Estimator {
	return &Estimator{sample: h}
}

// Estimate executes q's filter against the sample, obtaining a matching
// sample count m, and returns the scaled estimate m·(N/n). q.filter being
// empty is not special-cased here: the Scorer never calls Estimate on a
// query whose index_intersect produced an empty filter (§4.5 step 1).
func (e *Estimator) Estimate(ctx context.Context, q query.Query) (float64, error) {
	m, err := e.sample.Driver().CountDocuments(ctx, q.FilterDoc())
	if err != nil {
		return 0, driver.Wrap("estimate", err)
	}
	return e.scaleUp(m), nil
}

// EstimateKeyCount executes ekq (as built by Query.IndexNumberKeyQuery)
// and returns the scaled number of index keys the scan touches.
//
// When the last retained field kept its original Equality predicate,
// IndexNumberKeyQuery leaves ekq identical to index_intersect's result,
// and the open question in §9 over the two queries' relationship is
// resolved as an equivalence: one index entry exists per matching
// document, so the key count is just the matching document count.
//
// When the last retained field was widened to "any value", a matching
// document count would count the whole equality-prefix subtree — it
// ignores that the widened field still partitions the subtree into one
// entry per distinct value. EstimateKeyCount instead counts distinct
// tuples of ekq's retained fields within the un-widened prefix's scope.
func (e *Estimator) EstimateKeyCount(ctx context.Context, ekq query.Query) (float64, error) {
	if !ekq.LastPredicateWidened() {
		m, err := e.sample.Driver().CountDocuments(ctx, ekq.FilterDoc())
		if err != nil {
			return 0, driver.Wrap("estimate_key_count", err)
		}
		return e.scaleUp(m), nil
	}
	m, err := e.sample.Driver().DistinctCount(ctx, ekq.Fields(), ekq.FilterDocExcludingExists())
	if err != nil {
		return 0, driver.Wrap("estimate_key_count", err)
	}
	return e.scaleUp(m), nil
}

func (e *Estimator) scaleUp(m int64) float64 {
	n := e.sample.Size()
	if n == 0 {
		return 0
	}
	return float64(m) * (float64(e.sample.Cardinality()) / float64(n))
}
