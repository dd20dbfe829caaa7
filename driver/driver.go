// Package driver defines the database driver contract the engine is built
// against (§6) and the concrete MongoDB implementation of it. Every
// suspension point in the engine's core (sample materialization, per-query
// counts, workload execution) crosses this boundary — nothing above it
// blocks on I/O directly.
package driver

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/sneller-labs/mindexer/query"
)

// Namespace names a database.collection pair, mirroring the teacher's
// db/tenant.go notion of an owned, addressable storage location distinct
// from any in-memory handle to it.
type Namespace struct {
	DB         string
	Collection string
}

func (n Namespace) String() string {
	return n.DB + "." + n.Collection
}

// Driver is the database contract consumed by the engine (§6). A Driver
// value is bound to one "current" namespace (the collection Count/Find/
// CountDocuments/DistinctCount operate against); WithNamespace returns a
// Driver bound to a different one, which is how the Estimator queries the
// sample collection with the same interface it used for the source.
type Driver interface {
	// Namespace reports the collection this Driver is currently bound to.
	Namespace() Namespace

	// WithNamespace returns a Driver bound to ns, sharing the underlying
	// connection.
	WithNamespace(ns Namespace) Driver

	// Count returns the total document count of the bound collection.
	Count(ctx context.Context) (int64, error)

	// Find returns a cursor over documents matching filter in the bound
	// collection; implementations may push the filter server-side. The
	// Sampler and Estimator in this module do not call it: they count
	// through CountDocuments and DistinctCount.
	Find(ctx context.Context, filter bson.D) (*mongo.Cursor, error)

	// CountDocuments returns the number of documents in the bound
	// collection matching filter.
	CountDocuments(ctx context.Context, filter bson.D) (int64, error)

	// DistinctCount returns the number of distinct tuples of fields among
	// documents matching filter, for key-count queries.
	DistinctCount(ctx context.Context, fields []string, filter bson.D) (int64, error)

	// MaterializeSample asks the database for a uniform random sample of
	// size documents from the bound collection, written into dest and
	// returned as a Driver bound to it.
	MaterializeSample(ctx context.Context, dest Namespace, size int64) (Driver, error)

	// Drop deletes the bound collection. Idempotent: dropping a
	// collection that does not exist is not an error.
	Drop(ctx context.Context) error

	// CreateIndex builds a compound index over fields, in order, on the
	// bound collection. Used only by the benchmark harness.
	CreateIndex(ctx context.Context, fields []string) error

	// ExecuteWorkload runs every query in workload against the bound
	// collection and returns the wall-clock duration. Benchmark harness
	// only.
	ExecuteWorkload(ctx context.Context, workload []query.Query) (time.Duration, error)
}
