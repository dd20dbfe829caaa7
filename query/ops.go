package query

// IndexIntersect returns a new Query whose filter is the
// prefix-intersection of this query's filter with candidate: walk
// candidate left to right, keeping exactly those fields that appear
// in q's filter, stopping at the first candidate field absent from
// the filter (§4.1). Sort/Limit/Projection are copied unchanged.
func (q Query) IndexIntersect(candidate []string) Query {
	out := q.withoutFilter()
	for _, field := range candidate {
		pred, ok := q.Predicate(field)
		if !ok {
			break
		}
		out.add(field, pred)
	}
	return out
}

// IndexNumberKeyQuery returns the query representing the index keys
// that must be scanned: the same prefix-intersection as
// IndexIntersect, but the predicate on the last retained field is
// widened to an existence predicate unless it is a pure Equality
// (§4.1, and the Open Question in §9 resolved in DESIGN.md).
func (q Query) IndexNumberKeyQuery(candidate []string) Query {
	out := q.IndexIntersect(candidate)
	n := len(out.filter)
	if n == 0 {
		return out
	}
	out.filter[n-1].Pred = widen(out.filter[n-1].Pred)
	return out
}

// IsSubset reports whether every filter field of q appears somewhere
// in candidate (order does not matter). Used to decide whether Limit
// caps the result cardinality (§4.1, §4.5).
func (q Query) IsSubset(candidate []string) bool {
	set := toSet(candidate)
	for _, e := range q.filter {
		if _, ok := set[e.Field]; !ok {
			return false
		}
	}
	return true
}

// IsCovered reports whether every field read by the query (filter ∪
// sort ∪ projection) appears in candidate. A covered query needs no
// document fetch (§4.1).
//
// An empty Projection means the query reads the whole document (no
// include-list was given), which no candidate can ever cover — §8's S4
// scenario charges a fetch cost to a query with a matching filter field
// and no projection, so coverage requires an explicit projection.
func (q Query) IsCovered(candidate []string) bool {
	if len(q.projection) == 0 {
		return false
	}
	set := toSet(candidate)
	for _, e := range q.filter {
		if _, ok := set[e.Field]; !ok {
			return false
		}
	}
	for _, f := range q.sort {
		if _, ok := set[f]; !ok {
			return false
		}
	}
	for f := range q.projection {
		if _, ok := set[f]; !ok {
			return false
		}
	}
	return true
}

// CanUseSort reports whether candidate can produce q's requested sort
// order without an in-memory sort (§4.1): let E be the set of
// candidate fields whose predicate in q is Equality; strip a maximal
// prefix of E from candidate; the remaining candidate fields must
// equal q.Sort exactly.
//
// A query with no Sort never receives a sort bonus (DESIGN.md),
// so CanUseSort is unconditionally false when q.Sort is empty.
func (q Query) CanUseSort(candidate []string) bool {
	if len(q.sort) == 0 {
		return false
	}
	i := 0
	for i < len(candidate) {
		pred, ok := q.Predicate(candidate[i])
		if !ok || pred.kind() != kindEquality {
			break
		}
		i++
	}
	remainder := candidate[i:]
	if len(remainder) != len(q.sort) {
		return false
	}
	for k, f := range remainder {
		if f != q.sort[k] {
			return false
		}
	}
	return true
}

// LastPredicateWidened reports whether q's last filter entry is the
// internal Exists marker IndexNumberKeyQuery produces when the last
// retained field's predicate was not a pure Equality. Only ever true for
// a Query returned by IndexNumberKeyQuery.
func (q Query) LastPredicateWidened() bool {
	if len(q.filter) == 0 {
		return false
	}
	return q.filter[len(q.filter)-1].Pred.kind() == kindExists
}

func (q Query) withoutFilter() Query {
	return Query{
		byField:    map[string]int{},
		sort:       q.sort,
		limit:      q.limit,
		projection: q.projection,
	}
}

func (q *Query) add(field string, pred Predicate) {
	q.byField[field] = len(q.filter)
	q.filter = append(q.filter, fieldEntry{Field: field, Pred: pred})
}

func toSet(fields []string) map[string]struct{} {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
