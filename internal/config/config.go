// Package config defines the canonical, JSON-serializable configuration model
// for a pipeline run. It is intentionally small, explicit, and dependency-
// free so that run files can be loaded from disk and passed through the
// program without additional glue code.
//
// Design goals:
//
//  1. Stability: changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: field names in Go mirror the JSON structure used in run files
//     under configs/*.json.
//  3. Minimalism: no third-party config libraries; decoding is performed by
//     the standard library.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Run describes one full pipeline invocation: where the seven corpus tables
// live, how the optional revenue enrichment behaves, and how the run is
// labeled for metrics.
type Run struct {
	// Job labels the run for metrics and log lines.
	Job string `json:"job"`

	// Datasets locates the corpus source tables on the local filesystem.
	Datasets Datasets `json:"datasets"`

	// Enrich configures the optional Wikidata revenue backfill pass.
	Enrich Enrich `json:"enrich"`
}

// Datasets holds the local paths of the corpus source tables. All seven are
// required for a full run.
type Datasets struct {
	// MovieMetadata is the tab-separated movie table (ids, title, date,
	// revenue, runtime, and the three embedded label-set columns).
	MovieMetadata string `json:"movie_metadata"`

	// CharacterMetadata is the tab-separated character table (one row per
	// character appearance).
	CharacterMetadata string `json:"character_metadata"`

	// NameClusters is the headerless two-column name-cluster table.
	NameClusters string `json:"name_clusters"`

	// PlotSummaries is the headerless two-column plot-summary table.
	PlotSummaries string `json:"plot_summaries"`

	// TropeClusters is the headerless trope table whose second column is a
	// nested JSON object requiring a secondary decode.
	TropeClusters string `json:"trope_clusters"`

	// Crosswalk is the Freebase-to-Wikidata identifier mapping table.
	Crosswalk string `json:"crosswalk"`

	// Supplementary is the comma-separated title/release-date/revenue table
	// used to backfill missing movie metadata.
	Supplementary string `json:"supplementary"`
}

// Enrich configures the Wikidata revenue backfill. The pass is skipped
// entirely when Enabled is false.
type Enrich struct {
	Enabled bool `json:"enabled"`

	// Endpoint is the Wikidata API base URL. Empty selects the public API.
	Endpoint string `json:"endpoint"`

	// Workers bounds the enrichment fan-out. Zero selects a runtime default.
	Workers int `json:"workers"`

	// TimeoutSeconds is the per-request timeout. Zero selects the client
	// default.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// Load reads and decodes a run configuration from path.
func Load(path string) (Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return Run{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var r Run
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return Run{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return r, nil
}
