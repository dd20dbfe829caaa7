// Package query implements the normalized query representation of
// spec.md §3-§4: a structural filter (equality, range, $in, and
// conjunctions of those), sort/limit/projection metadata, and the
// derived operations the cost model needs (index_intersect,
// index_number_key_query, is_subset, is_covered, can_use_sort).
package query

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

type fieldEntry struct {
	Field string
	Pred  Predicate
}

// Query is a normalized, immutable representation of one read
// request. Construct it with FromFilter; all derived operations
// return new Query values rather than mutating the receiver.
type Query struct {
	filter     []fieldEntry
	byField    map[string]int
	sort       []string
	limit      int // 0 means unset
	projection map[string]struct{}
}

// Sort returns the requested sort field sequence (direction ignored).
func (q Query) Sort() []string { return q.sort }

// Limit returns the query's limit and whether one was set.
func (q Query) Limit() (int, bool) { return q.limit, q.limit > 0 }

// Projection returns the set of fields the query reads via an
// include-projection. A nil/empty result means "no projection" (the
// query reads whatever fields the filter/sort imply plus, implicitly,
// the whole document).
func (q Query) Projection() map[string]struct{} { return q.projection }

// Predicate returns the predicate on the given filter field, if any.
func (q Query) Predicate(field string) (Predicate, bool) {
	idx, ok := q.byField[field]
	if !ok {
		return nil, false
	}
	return q.filter[idx].Pred, true
}

// Fields returns the ordered sequence of filter field names, in the
// insertion order of the original filter expression (§3).
func (q Query) Fields() []string {
	out := make([]string, len(q.filter))
	for i, e := range q.filter {
		out[i] = e.Field
	}
	return out
}

// NumFilterFields returns the number of distinct fields in the filter.
func (q Query) NumFilterFields() int { return len(q.filter) }

// FromFilter constructs a Query from a database filter expression
// (§4.1). filter is an ordered BSON document; $and is flattened
// (recursively) and repeated fields across $and arms are combined
// into a Conjunction, matching the worked example in §3
// ("x > 3 AND x < 10"). Unsupported operators return
// *UnsupportedQueryError, which the caller (profile ingester) is
// expected to catch and skip per §7.
func FromFilter(filter bson.D, sort []string, limit int, projection []string) (Query, error) {
	b := &builder{byField: map[string]int{}}
	if err := b.process(filter); err != nil {
		return Query{}, err
	}

	q := Query{
		filter:  b.entries,
		byField: b.byField,
		sort:    append([]string(nil), sort...),
		limit:   limit,
	}
	if len(projection) > 0 {
		q.projection = make(map[string]struct{}, len(projection))
		for _, f := range projection {
			q.projection[f] = struct{}{}
		}
	}
	return q, nil
}

type builder struct {
	entries []fieldEntry
	byField map[string]int
}

func (b *builder) process(doc bson.D) error {
	for _, el := range doc {
		if el.Key == "$and" {
			arms, ok := asDocSlice(el.Value)
			if !ok {
				return unsupportedf("$and", "$and", "expected an array of sub-filters")
			}
			for _, arm := range arms {
				if err := b.process(arm); err != nil {
					return err
				}
			}
			continue
		}
		pred, err := parseFieldValue(el.Key, el.Value)
		if err != nil {
			return err
		}
		b.add(el.Key, pred)
	}
	return nil
}

func (b *builder) add(field string, pred Predicate) {
	if idx, ok := b.byField[field]; ok {
		b.entries[idx].Pred = conjoin(b.entries[idx].Pred, pred)
		return
	}
	b.byField[field] = len(b.entries)
	b.entries = append(b.entries, fieldEntry{Field: field, Pred: pred})
}

func conjoin(existing, next Predicate) Predicate {
	var preds []Predicate
	if c, ok := existing.(Conjunction); ok {
		preds = append(preds, c.Preds...)
	} else {
		preds = append(preds, existing)
	}
	if c, ok := next.(Conjunction); ok {
		preds = append(preds, c.Preds...)
	} else {
		preds = append(preds, next)
	}
	return Conjunction{Preds: preds}
}

func asDocSlice(v any) ([]bson.D, bool) {
	switch arr := v.(type) {
	case bson.A:
		out := make([]bson.D, 0, len(arr))
		for _, item := range arr {
			d, ok := item.(bson.D)
			if !ok {
				return nil, false
			}
			out = append(out, d)
		}
		return out, true
	case []bson.D:
		return arr, true
	default:
		return nil, false
	}
}

// parseFieldValue parses the value half of one filter entry: either a
// bare scalar (implicit Equality) or an operator document recognizing
// =, $eq, $in, $gt, $gte, $lt, $lte (§4.1).
func parseFieldValue(field string, v any) (Predicate, error) {
	doc, ok := v.(bson.D)
	if !ok {
		val, ok := FromAny(v)
		if !ok {
			return nil, unsupportedf(field, "", "unrecognized value type %T", v)
		}
		return Equality{Value: val}, nil
	}

	var (
		hasEq          bool
		eqVal          Value
		hasIn          bool
		inVals         []Value
		hasRange       bool
		lo, hi         *Value
		loIncl, hiIncl bool
	)
	for _, op := range doc {
		switch op.Key {
		case "$eq", "=":
			val, ok := FromAny(op.Value)
			if !ok {
				return nil, unsupportedf(field, op.Key, "unrecognized value type %T", op.Value)
			}
			hasEq, eqVal = true, val
		case "$in":
			items, ok := asAnySlice(op.Value)
			if !ok {
				return nil, unsupportedf(field, "$in", "expected a non-empty array")
			}
			if len(items) == 0 {
				return nil, unsupportedf(field, "$in", "$in requires at least one value")
			}
			inVals = make([]Value, 0, len(items))
			for _, item := range items {
				val, ok := FromAny(item)
				if !ok {
					return nil, unsupportedf(field, "$in", "unrecognized value type %T", item)
				}
				inVals = append(inVals, val)
			}
			hasIn = true
		case "$gt", "$gte":
			val, ok := FromAny(op.Value)
			if !ok {
				return nil, unsupportedf(field, op.Key, "unrecognized value type %T", op.Value)
			}
			lo = &val
			loIncl = op.Key == "$gte"
			hasRange = true
		case "$lt", "$lte":
			val, ok := FromAny(op.Value)
			if !ok {
				return nil, unsupportedf(field, op.Key, "unrecognized value type %T", op.Value)
			}
			hi = &val
			hiIncl = op.Key == "$lte"
			hasRange = true
		default:
			return nil, unsupportedf(field, op.Key, "operator not recognized")
		}
	}
	switch {
	case hasEq:
		return Equality{Value: eqVal}, nil
	case hasIn:
		return In{Values: inVals}, nil
	case hasRange:
		return Range{Lo: lo, Hi: hi, LoIncl: loIncl, HiIncl: hiIncl}, nil
	default:
		return nil, unsupportedf(field, "", "empty operator expression")
	}
}

func asAnySlice(v any) ([]any, bool) {
	switch arr := v.(type) {
	case bson.A:
		return []any(arr), true
	case []any:
		return arr, true
	default:
		return nil, false
	}
}
