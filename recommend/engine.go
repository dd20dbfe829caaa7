// Package recommend wires the Sampler, candidate generator, Scorer, and
// Selector into the single orchestrator §2's data-flow diagram implies:
// workload in, recommendations out, sample dropped when done.
package recommend

import (
	"context"
	"log"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/sneller-labs/mindexer/candidate"
	"github.com/sneller-labs/mindexer/config"
	"github.com/sneller-labs/mindexer/cost"
	"github.com/sneller-labs/mindexer/driver"
	"github.com/sneller-labs/mindexer/estimate"
	"github.com/sneller-labs/mindexer/greedy"
	"github.com/sneller-labs/mindexer/query"
	"github.com/sneller-labs/mindexer/sample"
)

// Recommendation is one chosen candidate index paired with the round
// total benefit that won it selection.
type Recommendation struct {
	Fields []string
	Total  float64
}

// IndexSpec renders r as the ordered {field: 1, ...} document MongoDB's
// own createIndex expects (§6).
func (r Recommendation) IndexSpec() bson.D {
	spec := make(bson.D, 0, len(r.Fields))
	for _, f := range r.Fields {
		spec = append(spec, bson.E{Key: f, Value: 1})
	}
	return spec
}

// Engine runs the full recommendation pipeline against one source
// collection.
type Engine struct {
	src driver.Driver
	cfg config.EngineConfig
}

// New returns an Engine over src, configured by cfg.
func New(src driver.Driver, cfg config.EngineConfig) *Engine {
	return &Engine{src: src, cfg: cfg}
}

// Run executes the full pipeline: validate configuration, materialize a
// sample, build candidates from workload, score them, select a greedy
// set, and drop the sample before returning.
func (e *Engine) Run(ctx context.Context, wl []query.Query) ([]Recommendation, error) {
	runID := uuid.NewString()

	if err := e.cfg.Validate(e.src.Namespace()); err != nil {
		return nil, err
	}

	h, err := sample.Materialize(ctx, e.src, e.cfg.SampleDB, e.cfg.SampleRatio, 0, e.cfg.MinSampleSize)
	if err != nil {
		return nil, err
	}
	defer func() {
		if dropErr := h.Drop(ctx); dropErr != nil {
			log.Printf("recommend: run %s: failed to drop sample: %v", runID, dropErr)
		}
	}()

	log.Printf("recommend: run %s: sampled %d/%d documents", runID, h.Size(), h.Cardinality())

	cachedEst := estimate.NewCached(estimate.New(h), estimate.NewCache())

	cands := candidate.Generate(wl, e.cfg.MaxIndexFields)
	log.Printf("recommend: run %s: %d candidates from %d queries", runID, len(cands), len(wl))

	matrix, err := cost.BuildMatrix(ctx, wl, cands, h.Cardinality(), cachedEst, e.cfg.CostConstants())
	if err != nil {
		return nil, err
	}

	chosen := greedy.Select(matrix, e.cfg.MaxIndexes)
	out := make([]Recommendation, len(chosen))
	for i, r := range chosen {
		out[i] = Recommendation{Fields: r.Fields, Total: r.Total}
	}

	log.Printf("recommend: run %s: selected %d indexes", runID, len(out))
	return out, nil
}
