package cost

import (
	"context"

	"github.com/sneller-labs/mindexer/query"
)

// Matrix is the base benefit matrix B of §4.6: rows are workload queries
// in ingested order, columns are candidates in enumeration order.
type Matrix struct {
	Candidates [][]string
	Scores     [][]float64 // Scores[q][c] = benefit(workload[q], Candidates[c])
}

// Batcher is the optional fan-out extension of Estimator (implemented by
// estimate.CachedEstimator): resolving every candidate's index_intersect
// estimate for one query row touches disjoint sample data per candidate,
// which §5 permits running concurrently. BuildMatrix uses it to warm the
// estimator's cache for a whole row before scoring it; Score's own calls
// then hit the cache instead of running a sample pass one candidate at a
// time.
type Batcher interface {
	BatchEstimate(ctx context.Context, qs []query.Query) ([]float64, error)
}

// BuildMatrix scores every (query, candidate) pair in workload ×
// candidates, in workload order and candidate order, matching §5's
// ordering guarantee.
func BuildMatrix(ctx context.Context, workload []query.Query, candidates [][]string, n int64, est Estimator, cfg Constants) (*Matrix, error) {
	m := &Matrix{
		Candidates: candidates,
		Scores:     make([][]float64, len(workload)),
	}
	batcher, canBatch := est.(Batcher)
	for qi, q := range workload {
		if canBatch {
			if err := warmRow(ctx, batcher, q, candidates); err != nil {
				return nil, err
			}
		}
		row := make([]float64, len(candidates))
		for ci, c := range candidates {
			b, err := Score(ctx, q, c, n, est, cfg)
			if err != nil {
				return nil, err
			}
			row[ci] = b
		}
		m.Scores[qi] = row
	}
	return m, nil
}

// warmRow fans every candidate's index_intersect query for q out through
// batcher in one call, so the row's subsequent sequential Score calls
// find their Estimate results already cached.
func warmRow(ctx context.Context, batcher Batcher, q query.Query, candidates [][]string) error {
	qs := make([]query.Query, 0, len(candidates))
	for _, c := range candidates {
		fq := q.IndexIntersect(c)
		if fq.NumFilterFields() == 0 {
			continue
		}
		qs = append(qs, fq)
	}
	if len(qs) == 0 {
		return nil
	}
	_, err := batcher.BatchEstimate(ctx, qs)
	return err
}
