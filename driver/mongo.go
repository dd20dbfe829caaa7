package driver

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/sneller-labs/mindexer/query"
)

// MongoDriver implements Driver against a live *mongo.Client, bound to one
// namespace at a time.
type MongoDriver struct {
	client *mongo.Client
	ns     Namespace
}

// NewMongoDriver returns a Driver bound to ns over client.
func NewMongoDriver(client *mongo.Client, ns Namespace) *MongoDriver {
	return &MongoDriver{client: client, ns: ns}
}

func (d *MongoDriver) coll() *mongo.Collection {
	return d.client.Database(d.ns.DB).Collection(d.ns.Collection)
}

func (d *MongoDriver) Namespace() Namespace {
	return d.ns
}

func (d *MongoDriver) WithNamespace(ns Namespace) Driver {
	return &MongoDriver{client: d.client, ns: ns}
}

func (d *MongoDriver) Count(ctx context.Context) (int64, error) {
	n, err := d.coll().EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, Wrap("count", err)
	}
	return n, nil
}

func (d *MongoDriver) Find(ctx context.Context, filter bson.D) (*mongo.Cursor, error) {
	cur, err := d.coll().Find(ctx, normalizeFilter(filter))
	if err != nil {
		return nil, Wrap("find", err)
	}
	return cur, nil
}

func (d *MongoDriver) CountDocuments(ctx context.Context, filter bson.D) (int64, error) {
	n, err := d.coll().CountDocuments(ctx, normalizeFilter(filter))
	if err != nil {
		return 0, Wrap("count_documents", err)
	}
	return n, nil
}

// DistinctCount returns the number of distinct tuples of fields among
// documents matching filter. For a single field this is a plain $distinct;
// for a compound field list it runs a $group-over-the-tuple aggregation,
// since the driver's Distinct only operates on one field at a time.
func (d *MongoDriver) DistinctCount(ctx context.Context, fields []string, filter bson.D) (int64, error) {
	if len(fields) == 1 {
		var values []any
		if err := d.coll().Distinct(ctx, fields[0], normalizeFilter(filter)).Decode(&values); err != nil {
			return 0, Wrap("distinct_count", err)
		}
		return int64(len(values)), nil
	}

	groupID := bson.D{}
	for _, f := range fields {
		groupID = append(groupID, bson.E{Key: f, Value: "$" + f})
	}
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: normalizeFilter(filter)}},
		bson.D{{Key: "$group", Value: bson.D{{Key: "_id", Value: groupID}}}},
		bson.D{{Key: "$count", Value: "n"}},
	}
	cur, err := d.coll().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, Wrap("distinct_count", err)
	}
	defer cur.Close(ctx)
	var out struct {
		N int64 `bson:"n"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&out); err != nil {
			return 0, Wrap("distinct_count", err)
		}
	}
	return out.N, nil
}

// MaterializeSample pulls a uniform random sample of size documents from
// the bound collection via $sample and writes it to dest with $out.
func (d *MongoDriver) MaterializeSample(ctx context.Context, dest Namespace, size int64) (Driver, error) {
	pipeline := bson.A{
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: size}}}},
		bson.D{{Key: "$out", Value: bson.D{
			{Key: "db", Value: dest.DB},
			{Key: "coll", Value: dest.Collection},
		}}},
	}
	cur, err := d.coll().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, ErrSampleUnavailable
	}
	cur.Close(ctx)
	return d.WithNamespace(dest), nil
}

func (d *MongoDriver) Drop(ctx context.Context) error {
	if err := d.coll().Drop(ctx); err != nil {
		return Wrap("drop", err)
	}
	return nil
}

func (d *MongoDriver) CreateIndex(ctx context.Context, fields []string) error {
	keys := bson.D{}
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	_, err := d.coll().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: keys,
	})
	if err != nil {
		return Wrap("create_index", err)
	}
	return nil
}

// ExecuteWorkload runs each query's filter (with its sort/limit/projection)
// against the bound collection in sequence and reports total wall-clock
// time — the benchmark harness's before/after timing primitive.
func (d *MongoDriver) ExecuteWorkload(ctx context.Context, workload []query.Query) (time.Duration, error) {
	start := time.Now()
	for _, q := range workload {
		opts := options.Find()
		if sort := q.Sort(); len(sort) > 0 {
			sortDoc := bson.D{}
			for _, f := range sort {
				sortDoc = append(sortDoc, bson.E{Key: f, Value: 1})
			}
			opts.SetSort(sortDoc)
		}
		if limit, ok := q.Limit(); ok {
			opts.SetLimit(int64(limit))
		}
		if proj := q.Projection(); len(proj) > 0 {
			projDoc := bson.D{}
			for f := range proj {
				projDoc = append(projDoc, bson.E{Key: f, Value: 1})
			}
			opts.SetProjection(projDoc)
		}
		cur, err := d.coll().Find(ctx, q.FilterDoc(), opts)
		if err != nil {
			return 0, Wrap("execute_workload", err)
		}
		for cur.Next(ctx) {
		}
		err = cur.Err()
		cur.Close(ctx)
		if err != nil {
			return 0, Wrap("execute_workload", err)
		}
	}
	return time.Since(start), nil
}

// normalizeFilter maps a nil filter to an empty match-all document.
func normalizeFilter(filter bson.D) bson.D {
	if filter == nil {
		return bson.D{}
	}
	return filter
}

