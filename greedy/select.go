// Package greedy implements the §4.6 selector: a submodular-style greedy
// pass over a benefit matrix that picks the highest-total candidate each
// round, then re-credits every query row by the marginal improvement a
// new candidate would offer over its best already-chosen index.
package greedy

import (
	"github.com/sneller-labs/mindexer/cost"
)

// Recommendation pairs a chosen candidate with the round total benefit
// that won it selection.
type Recommendation struct {
	Fields []string
	Total  float64
}

// Select runs the greedy pass over m, choosing at most maxIndexes
// candidates (0 = unlimited), per §4.6. Column order (tie-breaking on
// argmax) is m.Candidates' own order — the first-seen enumeration order
// from the candidate generator.
func Select(m *cost.Matrix, maxIndexes int) []Recommendation {
	numCandidates := len(m.Candidates)
	numQueries := len(m.Scores)

	base := cloneMatrix(m.Scores, numQueries, numCandidates)
	working := cloneMatrix(m.Scores, numQueries, numCandidates)
	eligible := make([]bool, numCandidates)
	for c := range eligible {
		eligible[c] = true
	}

	var result []Recommendation
	var chosenCols []int
	for {
		cBest, total := argmaxColumn(working, eligible, numQueries, numCandidates)
		if cBest < 0 || total <= 0 {
			break
		}

		result = append(result, Recommendation{
			Fields: m.Candidates[cBest],
			Total:  total,
		})
		chosenCols = append(chosenCols, cBest)
		eligible[cBest] = false

		if maxIndexes > 0 && len(result) == maxIndexes {
			break
		}

		recredit(base, working, eligible, chosenCols, numQueries, numCandidates)
	}
	return result
}

// argmaxColumn returns the eligible column with the largest column total
// over working, and that total. Ties go to the lowest column index
// (first-seen candidate order), making runs deterministic. Returns
// (-1, 0) if no eligible column remains.
func argmaxColumn(working [][]float64, eligible []bool, numQueries, numCandidates int) (int, float64) {
	best := -1
	var bestTotal float64
	for c := 0; c < numCandidates; c++ {
		if !eligible[c] {
			continue
		}
		var total float64
		for q := 0; q < numQueries; q++ {
			total += working[q][c]
		}
		if best < 0 || total > bestTotal {
			best, bestTotal = c, total
		}
	}
	return best, bestTotal
}

// recredit applies §4.6 step 5: for each query row, find the best base
// score among already-chosen candidates that could serve it (a nonzero
// base entry); set every remaining eligible column's working score to its
// base score minus that best, floored at zero, so a second index only gets
// credit for improving on the best already-chosen one.
func recredit(base, working [][]float64, eligible []bool, chosenCols []int, numQueries, numCandidates int) {
	for q := 0; q < numQueries; q++ {
		var best float64
		var any bool
		for _, c := range chosenCols {
			v := base[q][c]
			if v == 0 {
				continue
			}
			if !any || v > best {
				best, any = v, true
			}
		}
		if !any {
			continue
		}
		for c := 0; c < numCandidates; c++ {
			if !eligible[c] {
				continue
			}
			v := base[q][c] - best
			if v < 0 {
				v = 0
			}
			working[q][c] = v
		}
	}
}

func cloneMatrix(src [][]float64, rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		row := make([]float64, cols)
		copy(row, src[r])
		out[r] = row
	}
	return out
}
