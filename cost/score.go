// Package cost implements the §4.5 scoring model: for each (query,
// candidate) pair, the estimated benefit of building that candidate as a
// compound index, in cost units relative to a full collection scan.
package cost

import (
	"context"
	"math"

	"github.com/sneller-labs/mindexer/query"
)

// Constants are the §6 cost-model tunables.
type Constants struct {
	IxscanCost     float64
	IndexFieldCost float64
	FetchCost      float64
	SortCost       float64
}

// DefaultConstants are §6's documented defaults.
func DefaultConstants() Constants {
	return Constants{
		IxscanCost:     0.4,
		IndexFieldCost: 0.05,
		FetchCost:      9.5,
		SortCost:       10,
	}
}

// Estimator is the subset of estimate.CachedEstimator the Scorer needs —
// accepted as an interface so the scoring math can be tested without a
// sample or a driver.
type Estimator interface {
	Estimate(ctx context.Context, q query.Query) (float64, error)
	EstimateKeyCount(ctx context.Context, q query.Query) (float64, error)
}

// Score computes benefit(q, c) per §4.5's three-step algorithm: reduce q
// to its usable filter prefix, cost the index scan plus any document
// fetch, then add a sort-elimination bonus when c lets the index produce
// q's requested order.
func Score(ctx context.Context, q query.Query, candidate []string, n int64, est Estimator, cfg Constants) (float64, error) {
	fq := q.IndexIntersect(candidate)
	if fq.NumFilterFields() == 0 {
		return 0, nil
	}

	docEst, err := est.Estimate(ctx, fq)
	if err != nil {
		return 0, err
	}

	ekq := q.IndexNumberKeyQuery(candidate)
	keyEst, err := est.EstimateKeyCount(ctx, ekq)
	if err != nil {
		return 0, err
	}

	if limit, ok := q.Limit(); ok && q.IsSubset(candidate) {
		if docEst > float64(limit) {
			docEst = float64(limit)
		}
		if keyEst > float64(limit) {
			keyEst = float64(limit)
		}
	}

	indexCost := (cfg.IxscanCost + float64(len(candidate)-1)*cfg.IndexFieldCost) * keyEst
	if !q.IsCovered(candidate) {
		indexCost += cfg.FetchCost * docEst
	}

	benefit := float64(n) - indexCost

	if q.CanUseSort(candidate) {
		e, err := est.Estimate(ctx, q)
		if err != nil {
			return 0, err
		}
		if e < 1 {
			e = 1
		}
		benefit += e * math.Log2(e) * cfg.SortCost
	}

	return benefit, nil
}
