package sample

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/sneller-labs/mindexer/driver"
)

// MinSampleSize is §6's MIN_SAMPLE_SIZE tunable default.
const MinSampleSize = 1000

// Handle is an owned, lifecycle-managed sample collection distinct from
// its source, in the spirit of the teacher's Tenant: the Sampler holds
// exclusive ownership of it for the engine's lifetime (§5).
type Handle struct {
	source      driver.Driver // bound to the source namespace
	sample      driver.Driver // bound to the materialized sample namespace
	n           int64         // sample size
	cardinality int64         // source collection size (N)
}

// Cardinality returns the original collection's document count.
func (h *Handle) Cardinality() int64 {
	return h.cardinality
}

// Size returns the materialized sample's document count.
func (h *Handle) Size() int64 {
	return h.n
}

// Driver returns the Driver bound to the materialized sample namespace,
// for the Estimator to query.
func (h *Handle) Driver() driver.Driver {
	return h.sample
}

// Drop deletes the persisted sample. Idempotent.
func (h *Handle) Drop(ctx context.Context) error {
	return h.sample.Drop(ctx)
}

// NewHandleForTest builds a Handle directly from a driver and known
// cardinality/size, bypassing Materialize's sizing and reuse logic. For
// tests in other packages (notably estimate) that need a Handle wired to
// a fake Driver without a live database.
func NewHandleForTest(d driver.Driver, cardinality, size int64) *Handle {
	return &Handle{source: d, sample: d, n: size, cardinality: cardinality}
}

// ResolveSize implements §4.2's sizing rule. A positive explicitSize takes
// precedence over ratio and is capped at N; otherwise the ratio is applied
// and clamped up to min(N, minSampleSize) when it would fall at or below
// minSampleSize.
func ResolveSize(n int64, ratio float64, explicitSize int64, minSampleSize int64) int64 {
	if explicitSize > 0 {
		if explicitSize > n {
			return n
		}
		return explicitSize
	}
	target := float64(n) * ratio
	if target <= float64(minSampleSize) {
		if n < minSampleSize {
			return n
		}
		return minSampleSize
	}
	return int64(math.Ceil(target))
}

// Materialize sizes and builds (or reuses) a sample of src into sampleDB,
// per §4.2. explicitSize of 0 means "use ratio". minSampleSize is the
// caller's configured MIN_SAMPLE_SIZE (§6); pass MinSampleSize to get the
// documented default.
func Materialize(ctx context.Context, src driver.Driver, sampleDB string, ratio float64, explicitSize, minSampleSize int64) (*Handle, error) {
	n, err := src.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, driver.ErrEmptyCollection
	}

	size := ResolveSize(n, ratio, explicitSize, minSampleSize)
	fp := fingerprint(src.Namespace(), size)
	dest := driver.Namespace{DB: sampleDB, Collection: "sample_" + fp}

	if existing, ok := reuse(ctx, src, dest, size); ok {
		return &Handle{source: src, sample: existing, n: size, cardinality: n}, nil
	}

	sampleDriver, err := src.MaterializeSample(ctx, dest, size)
	if err != nil {
		return nil, driver.ErrSampleUnavailable
	}
	return &Handle{source: src, sample: sampleDriver, n: size, cardinality: n}, nil
}

// reuse probes dest for a previously materialized sample of exactly size
// documents. A namespace is only ever written by Materialize under its own
// fingerprinted name, so a size match is sufficient evidence of
// compatibility — nothing else could have produced that name with a
// different size.
func reuse(ctx context.Context, src driver.Driver, dest driver.Namespace, size int64) (driver.Driver, bool) {
	d := src.WithNamespace(dest)
	count, err := d.CountDocuments(ctx, bson.D{})
	if err != nil || count != size {
		return nil, false
	}
	return d, true
}
