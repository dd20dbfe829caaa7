package recommend

import (
	"context"
	"strconv"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/sneller-labs/mindexer/config"
	"github.com/sneller-labs/mindexer/driver"
	"github.com/sneller-labs/mindexer/query"
)

// fakeDriver is an in-memory driver.Driver backed by a fixed document
// slice, so Engine.Run can be exercised end to end without a live
// MongoDB server.
type fakeDriver struct {
	ns   driver.Namespace
	docs []bson.D
}

func (f *fakeDriver) Namespace() driver.Namespace { return f.ns }
func (f *fakeDriver) WithNamespace(ns driver.Namespace) driver.Driver {
	return &fakeDriver{ns: ns, docs: f.docs}
}
func (f *fakeDriver) Count(ctx context.Context) (int64, error) { return int64(len(f.docs)), nil }
func (f *fakeDriver) Find(ctx context.Context, filter bson.D) (*mongo.Cursor, error) {
	return nil, nil
}
func (f *fakeDriver) Drop(ctx context.Context) error                        { return nil }
func (f *fakeDriver) CreateIndex(ctx context.Context, fields []string) error { return nil }
func (f *fakeDriver) ExecuteWorkload(ctx context.Context, wl []query.Query) (time.Duration, error) {
	return 0, nil
}
func (f *fakeDriver) MaterializeSample(ctx context.Context, dest driver.Namespace, size int64) (driver.Driver, error) {
	return &fakeDriver{ns: dest, docs: f.docs}, nil
}

func (f *fakeDriver) CountDocuments(ctx context.Context, filter bson.D) (int64, error) {
	n := int64(0)
	for _, d := range f.docs {
		if matches(d, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakeDriver) DistinctCount(ctx context.Context, fields []string, filter bson.D) (int64, error) {
	seen := map[string]struct{}{}
	for _, d := range f.docs {
		if !matches(d, filter) {
			continue
		}
		key := ""
		for _, field := range fields {
			key += field + "=" + toKey(lookup(d, field)) + ";"
		}
		seen[key] = struct{}{}
	}
	return int64(len(seen)), nil
}

func matches(d bson.D, filter bson.D) bool {
	for _, f := range filter {
		if !matchOne(lookup(d, f.Key), f.Value) {
			return false
		}
	}
	return true
}

func matchOne(v any, cond any) bool {
	doc, ok := cond.(bson.D)
	if !ok {
		return v == cond
	}
	for _, op := range doc {
		switch op.Key {
		case "$exists":
			if v == nil {
				return false
			}
		case "$gt":
			if !(toF(v) > toF(op.Value)) {
				return false
			}
		case "$gte":
			if !(toF(v) >= toF(op.Value)) {
				return false
			}
		case "$lt":
			if !(toF(v) < toF(op.Value)) {
				return false
			}
		case "$lte":
			if !(toF(v) <= toF(op.Value)) {
				return false
			}
		}
	}
	return true
}

func toF(v any) float64 {
	f, _ := v.(float64)
	return f
}

func toKey(v any) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		return t
	default:
		return "?"
	}
}

func lookup(d bson.D, key string) any {
	for _, e := range d {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

func genDocs(n int, selective int) []bson.D {
	docs := make([]bson.D, n)
	for i := 0; i < n; i++ {
		a := float64(0)
		if i < selective {
			a = 1
		}
		docs[i] = bson.D{{Key: "a", Value: a}}
	}
	return docs
}

func TestEngineRunRecommendsSelectiveEqualityIndex(t *testing.T) {
	docs := genDocs(10000, 100)
	src := &fakeDriver{ns: driver.Namespace{DB: "app", Collection: "orders"}, docs: docs}

	cfg := config.Default()
	cfg.SampleRatio = 1.0 // sample everything so estimates are exact

	q, err := query.FromFilter(bson.D{{Key: "a", Value: float64(1)}}, nil, 0, nil)
	if err != nil {
		t.Fatal(err)
	}

	e := New(src, cfg)
	recs, err := e.Run(context.Background(), []query.Query{q})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Fields[0] != "a" {
		t.Fatalf("Run() = %v, want a single recommendation on field a", recs)
	}
	spec := recs[0].IndexSpec()
	if len(spec) != 1 || spec[0].Key != "a" || spec[0].Value != 1 {
		t.Fatalf("IndexSpec() = %v, want {a: 1}", spec)
	}
}

func TestEngineRunRejectsSameSampleDB(t *testing.T) {
	src := &fakeDriver{ns: driver.Namespace{DB: "app", Collection: "orders"}, docs: genDocs(10, 10)}
	cfg := config.Default()
	cfg.SampleDB = "app"
	e := New(src, cfg)
	_, err := e.Run(context.Background(), nil)
	if err != driver.ErrSampleDBNotDistinct {
		t.Fatalf("Run() err = %v, want ErrSampleDBNotDistinct", err)
	}
}

func TestEngineRunFailsOnEmptyCollection(t *testing.T) {
	src := &fakeDriver{ns: driver.Namespace{DB: "app", Collection: "orders"}, docs: nil}
	e := New(src, config.Default())
	_, err := e.Run(context.Background(), nil)
	if err != driver.ErrEmptyCollection {
		t.Fatalf("Run() err = %v, want ErrEmptyCollection", err)
	}
}
