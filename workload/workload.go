// Package workload reads profile-log entries into the normalized Query
// sequence the engine consumes (§6's "workload ingestion contract").
package workload

import "github.com/sneller-labs/mindexer/query"

// Workload is a finite, ordered sequence of Query values extracted from
// profile logs, in ingested order (§5's ordering guarantee, GLOSSARY).
type Workload []query.Query
