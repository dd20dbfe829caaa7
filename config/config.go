// Package config holds the engine's tunables as an explicit value
// threaded through construction (§9: "no process-level state").
package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/sneller-labs/mindexer/cost"
	"github.com/sneller-labs/mindexer/driver"
)

// EngineConfig is the §6 tunables object. All fields are optional at
// load time; Default fills in the documented defaults.
type EngineConfig struct {
	SampleRatio    float64 `json:"sample_ratio"`
	SampleDB       string  `json:"sample_db"`
	MaxIndexFields int     `json:"max_index_fields"`
	MaxIndexes     int     `json:"max_indexes"`

	IxscanCost     float64 `json:"ixscan_cost"`
	IndexFieldCost float64 `json:"index_field_cost"`
	FetchCost      float64 `json:"fetch_cost"`
	SortCost       float64 `json:"sort_cost"`
	MinSampleSize  int64   `json:"min_sample_size"`
}

// Default returns §6's documented default configuration.
func Default() EngineConfig {
	return EngineConfig{
		SampleRatio:    0.001,
		SampleDB:       "mindexer_samples",
		MaxIndexFields: 3,
		MaxIndexes:     0,
		IxscanCost:     0.4,
		IndexFieldCost: 0.05,
		FetchCost:      9.5,
		SortCost:       10,
		MinSampleSize:  1000,
	}
}

// Load reads an EngineConfig from a YAML file at path, starting from
// Default and overlaying whatever fields the file sets.
func Load(path string) (EngineConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks engine-startup invariants against the resolved source
// namespace: the sample database must not equal the source database
// (§5: "the engine must refuse to run if the configured sample database
// equals the source database").
func (c EngineConfig) Validate(source driver.Namespace) error {
	if c.SampleDB == source.DB {
		return driver.ErrSampleDBNotDistinct
	}
	return nil
}

// CostConstants projects the cost-model subset of cfg into a
// cost.Constants value.
func (c EngineConfig) CostConstants() cost.Constants {
	return cost.Constants{
		IxscanCost:     c.IxscanCost,
		IndexFieldCost: c.IndexFieldCost,
		FetchCost:      c.FetchCost,
		SortCost:       c.SortCost,
	}
}
