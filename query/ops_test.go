package query

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestIndexIntersectStopsAtFirstMiss(t *testing.T) {
	q := mustQuery(t, bson.D{
		{Key: "a", Value: int32(1)},
		{Key: "b", Value: int32(2)},
	}, nil, 0, nil)

	fq := q.IndexIntersect([]string{"a", "c", "b"})
	if got := fq.Fields(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("Fields() = %v, want [a] (stop at c)", got)
	}
}

func TestIndexIntersectEmptyWhenFirstFieldMissing(t *testing.T) {
	q := mustQuery(t, bson.D{{Key: "a", Value: int32(1)}}, nil, 0, nil)
	fq := q.IndexIntersect([]string{"z", "a"})
	if len(fq.Fields()) != 0 {
		t.Fatalf("Fields() = %v, want empty", fq.Fields())
	}
}

func TestIndexNumberKeyQueryWidensInOnLastField(t *testing.T) {
	q := mustQuery(t, bson.D{
		{Key: "a", Value: int32(1)},
		{Key: "b", Value: bson.D{{Key: "$in", Value: bson.A{int32(1), int32(2)}}}},
	}, nil, 0, nil)

	ekq := q.IndexNumberKeyQuery([]string{"a", "b"})
	pred, ok := ekq.Predicate("b")
	if !ok {
		t.Fatal("missing predicate for b")
	}
	if pred.kind() != kindExists {
		t.Fatalf("last-field predicate = %#v, want widened to exists", pred)
	}
	// the first field is untouched.
	first, _ := ekq.Predicate("a")
	if first.kind() != kindEquality {
		t.Fatalf("first-field predicate = %#v, want Equality preserved", first)
	}
}

func TestIndexNumberKeyQueryKeepsPureEqualityEquivalent(t *testing.T) {
	q := mustQuery(t, bson.D{{Key: "a", Value: int32(1)}}, nil, 0, nil)
	fq := q.IndexIntersect([]string{"a"})
	ekq := q.IndexNumberKeyQuery([]string{"a"})
	if !fq.Equals(ekq) {
		t.Fatal("equality-only prefix should leave index_intersect and index_number_key_query equivalent (§9 open question)")
	}
}

func TestLastPredicateWidened(t *testing.T) {
	q := mustQuery(t, bson.D{
		{Key: "a", Value: int32(1)},
		{Key: "b", Value: bson.D{{Key: "$in", Value: bson.A{int32(1), int32(2)}}}},
	}, nil, 0, nil)

	widened := q.IndexNumberKeyQuery([]string{"a", "b"})
	if !widened.LastPredicateWidened() {
		t.Fatal("want LastPredicateWidened true: b's In predicate was widened to Exists")
	}

	notWidened := q.IndexNumberKeyQuery([]string{"a"})
	if notWidened.LastPredicateWidened() {
		t.Fatal("want LastPredicateWidened false: a's Equality predicate is untouched")
	}

	var empty Query
	if empty.LastPredicateWidened() {
		t.Fatal("want LastPredicateWidened false on an empty filter")
	}
}

func TestIsSubset(t *testing.T) {
	q := mustQuery(t, bson.D{
		{Key: "a", Value: int32(1)},
		{Key: "b", Value: int32(2)},
	}, nil, 0, nil)
	if !q.IsSubset([]string{"b", "a", "c"}) {
		t.Fatal("want IsSubset true: all filter fields present, order irrelevant")
	}
	if q.IsSubset([]string{"a"}) {
		t.Fatal("want IsSubset false: b missing")
	}
}

func TestIsCovered(t *testing.T) {
	q, err := FromFilter(bson.D{{Key: "a", Value: int32(1)}}, []string{"b"}, 0, []string{"c"})
	if err != nil {
		t.Fatal(err)
	}
	if q.IsCovered([]string{"a", "b"}) {
		t.Fatal("want IsCovered false: c (projection) missing")
	}
	if !q.IsCovered([]string{"a", "b", "c"}) {
		t.Fatal("want IsCovered true: all of filter+sort+projection present")
	}
}

func TestCanUseSortStripsEqualityPrefix(t *testing.T) {
	// §8 S3: filter={a:1}, sort=(b,); candidate (a,b) strips a, remainder
	// (b,) matches sort.
	q, err := FromFilter(bson.D{{Key: "a", Value: int32(1)}}, []string{"b"}, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !q.CanUseSort([]string{"a", "b"}) {
		t.Fatal("want CanUseSort true for (a,b)")
	}
	if q.CanUseSort([]string{"a"}) {
		t.Fatal("want CanUseSort false for (a,): no field left to satisfy sort")
	}
}

func TestCanUseSortFalseWhenNoSortRequested(t *testing.T) {
	q := mustQuery(t, bson.D{{Key: "a", Value: int32(1)}}, nil, 0, nil)
	if q.CanUseSort([]string{"a"}) {
		t.Fatal("want CanUseSort false: query requested no sort")
	}
}

func TestCanUseSortRequiresExactRemainderMatch(t *testing.T) {
	q, err := FromFilter(bson.D{{Key: "a", Value: int32(1)}}, []string{"b", "c"}, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if q.CanUseSort([]string{"a", "b"}) {
		t.Fatal("want CanUseSort false: remainder (b) != sort (b,c)")
	}
	if !q.CanUseSort([]string{"a", "b", "c"}) {
		t.Fatal("want CanUseSort true: remainder (b,c) == sort (b,c)")
	}
}
