// Package pipeline wires the corpus stages into one run: load, crosswalk,
// normalize, aggregate, optional revenue enrichment, and feature derivation.
// Each stage is timed and counted; the run either returns a complete feature
// table or fails on an unrecoverable source error. There is no partial
// result.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"filmetl/internal/aggregate"
	"filmetl/internal/config"
	"filmetl/internal/corpus"
	"filmetl/internal/crosswalk"
	"filmetl/internal/enrich/wikidata"
	"filmetl/internal/features"
	"filmetl/internal/metrics"
	"filmetl/internal/normalize"
	"filmetl/internal/schema"
)

// Summary aggregates per-stage accounting for one run.
type Summary struct {
	MoviesLoaded     int
	CharactersLoaded int
	PlotsLoaded      int
	NameClusters     int
	TropeClusters    int
	Supplementary    int

	Crosswalk  crosswalk.Stats
	Movies     normalize.MovieStats
	Characters normalize.CharacterStats
	Aggregate  aggregate.Stats
	Enrich     wikidata.BackfillStats
	Features   features.Stats

	Duration time.Duration
}

// Result is the output of one run: the feature table plus its accounting.
type Result struct {
	Features []schema.FeatureRow
	Summary  Summary
}

// Run executes the full pipeline for one configuration. The returned error
// is always a source-scoped failure; resolution misses and value-level parse
// problems surface in the Summary, never as errors.
func Run(ctx context.Context, cfg config.Run) (*Result, error) {
	start := time.Now()
	var sum Summary

	loader := corpus.NewLoader(cfg.Datasets)

	// Stage 1: load everything up front; any unreadable source is fatal.
	loadStart := time.Now()
	movies, err := loader.Movies(ctx)
	if err == nil {
		sum.MoviesLoaded = len(movies)
	}
	var chars []schema.RawCharacter
	if err == nil {
		chars, err = loader.Characters(ctx)
		sum.CharactersLoaded = len(chars)
	}
	var plots []schema.PlotSummary
	if err == nil {
		plots, err = loader.PlotSummaries(ctx)
		sum.PlotsLoaded = len(plots)
	}
	var names []schema.NameCluster
	if err == nil {
		names, err = loader.NameClusters(ctx)
		sum.NameClusters = len(names)
	}
	var tropes []schema.TropeCluster
	if err == nil {
		tropes, err = loader.Tropes(ctx)
		sum.TropeClusters = len(tropes)
	}
	var xwalkRows []schema.CrosswalkEntry
	if err == nil {
		xwalkRows, err = loader.CrosswalkEntries(ctx)
	}
	var supp []schema.SupplementaryMovie
	if err == nil {
		supp, err = loader.Supplementary(ctx)
		sum.Supplementary = len(supp)
	}
	metrics.RecordStage(cfg.Job, "load", err, time.Since(loadStart))
	if err != nil {
		return nil, fmt.Errorf("pipeline: load: %w", err)
	}
	metrics.RecordRows(cfg.Job, "movies_loaded", int64(sum.MoviesLoaded))
	metrics.RecordRows(cfg.Job, "characters_loaded", int64(sum.CharactersLoaded))

	// Stage 2: crosswalk index.
	stageStart := time.Now()
	ix := crosswalk.Build(xwalkRows)
	sum.Crosswalk = ix.Stats()
	metrics.RecordStage(cfg.Job, "crosswalk", nil, time.Since(stageStart))
	metrics.RecordRows(cfg.Job, "crosswalk_duplicates", int64(sum.Crosswalk.ExactDuplicateRows))
	metrics.RecordRows(cfg.Job, "crosswalk_conflicts", int64(sum.Crosswalk.ConflictRows))

	// Stages 3 and 4: normalize both tables.
	stageStart = time.Now()
	normChars, charStats := normalize.Characters(chars, ix)
	sum.Characters = charStats
	normMovies, movieStats := normalize.Movies(movies, supp, ix)
	sum.Movies = movieStats
	metrics.RecordStage(cfg.Job, "normalize", nil, time.Since(stageStart))
	metrics.RecordRows(cfg.Job, "movies_kept", int64(movieStats.Kept))

	// Stage 5: aggregate characters into movies, attach plots.
	stageStart = time.Now()
	aggregated, aggStats := aggregate.Movies(normMovies, normChars, plots)
	sum.Aggregate = aggStats
	metrics.RecordStage(cfg.Job, "aggregate", nil, time.Since(stageStart))

	// Optional enrichment between aggregation and feature derivation.
	if cfg.Enrich.Enabled {
		stageStart = time.Now()
		client := wikidata.NewClient(wikidata.Config{
			Endpoint: cfg.Enrich.Endpoint,
			Timeout:  time.Duration(cfg.Enrich.TimeoutSeconds) * time.Second,
		})
		st, err := client.Backfill(ctx, aggregated, cfg.Enrich.Workers)
		sum.Enrich = st
		metrics.RecordStage(cfg.Job, "enrich", err, time.Since(stageStart))
		if err != nil {
			// Only context cancellation aborts the pass; individual lookup
			// failures are already absorbed per row.
			return nil, fmt.Errorf("pipeline: enrich: %w", err)
		}
		metrics.RecordLookups(cfg.Job, "filled", st.Filled)
		metrics.RecordLookups(cfg.Job, "miss", st.Misses)
		metrics.RecordLookups(cfg.Job, "failure", st.Failures)
	}

	// Stage 6: derive the feature table.
	stageStart = time.Now()
	rows, featStats := features.Derive(aggregated)
	sum.Features = featStats
	metrics.RecordStage(cfg.Job, "features", nil, time.Since(stageStart))
	metrics.RecordRows(cfg.Job, "features_kept", int64(featStats.Kept))

	sum.Duration = time.Since(start)
	logSummary(cfg.Job, sum)
	return &Result{Features: rows, Summary: sum}, nil
}

// logSummary emits the end-of-run accounting on one screenful.
func logSummary(job string, s Summary) {
	log.Printf("pipeline %s: loaded movies=%d characters=%d plots=%d name_clusters=%d tropes=%d supplementary=%d",
		job, s.MoviesLoaded, s.CharactersLoaded, s.PlotsLoaded, s.NameClusters, s.TropeClusters, s.Supplementary)
	log.Printf("pipeline %s: crosswalk keys=%d duplicate_keys=%d exact_dups=%d conflicts=%d",
		job, s.Crosswalk.Keys, s.Crosswalk.DuplicateKeys, s.Crosswalk.ExactDuplicateRows, s.Crosswalk.ConflictRows)
	log.Printf("pipeline %s: movies kept=%d dropped_no_year=%d dropped_out_of_window=%d backfilled_revenue=%d",
		job, s.Movies.Kept, s.Movies.DroppedNoYear, s.Movies.DroppedOutOfWindow, s.Movies.BackfilledRevenue)
	log.Printf("pipeline %s: aggregated movies=%d orphaned_characters=%d enriched filled=%d misses=%d failures=%d",
		job, s.Aggregate.Movies, s.Aggregate.OrphanedCharacter, s.Enrich.Filled, s.Enrich.Misses, s.Enrich.Failures)
	log.Printf("pipeline %s: features kept=%d dropped missing=%d zero_revenue=%d no_gender=%d filtered=%d in %s",
		job, s.Features.Kept, s.Features.DroppedMissing, s.Features.DroppedZeroRevenue,
		s.Features.DroppedNoGender, s.Features.DroppedByFilter, s.Duration.Truncate(time.Millisecond))
}
