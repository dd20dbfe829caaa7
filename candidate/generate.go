// Package candidate enumerates index candidates from a workload, per
// spec.md §4.4: for each query, for each length 1..min(|fields|,
// MaxIndexFields), emit all permutations of that length of the
// query's filter fields, accumulated into a deduplicated,
// deterministically ordered set with ("_id",) excluded.
package candidate

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/sneller-labs/mindexer/query"
)

// idField is the degenerate single-field candidate excluded from the
// candidate set (§3: "the degenerate (\"_id\",) is excluded").
const idField = "_id"

// Generate returns the deterministic, first-seen-order enumeration of
// index candidates for workload, bounded at maxFields fields per
// candidate (§6's max_index_fields tunable).
func Generate(workload []query.Query, maxFields int) [][]string {
	seen := make(map[string]struct{})
	var out [][]string
	for _, q := range workload {
		fields := q.Fields()
		upper := len(fields)
		if maxFields < upper {
			upper = maxFields
		}
		for k := 1; k <= upper; k++ {
			permute(fields, k, func(c []string) {
				if len(c) == 1 && c[0] == idField {
					return
				}
				key := strings.Join(c, "\x00")
				if _, ok := seen[key]; ok {
					return
				}
				seen[key] = struct{}{}
				out = append(out, slices.Clone(c))
			})
		}
	}
	return out
}

// permute calls emit once for every ordered k-length selection of
// distinct elements from fields (permutations, not combinations:
// (a,b) and (b,a) are both emitted — §4.4 is explicit that
// "permutation order matters").
func permute(fields []string, k int, emit func([]string)) {
	n := len(fields)
	if k == 0 || k > n {
		return
	}
	used := make([]bool, n)
	cur := make([]string, 0, k)
	var rec func()
	rec = func() {
		if len(cur) == k {
			emit(cur)
			return
		}
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			used[i] = true
			cur = append(cur, fields[i])
			rec()
			cur = cur[:len(cur)-1]
			used[i] = false
		}
	}
	rec()
}
