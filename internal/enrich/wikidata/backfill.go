package wikidata

import (
	"context"
	"log"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"filmetl/internal/schema"
)

// BackfillStats counts per-row outcomes of one backfill pass. Counters are
// updated atomically by the worker pool.
type BackfillStats struct {
	Eligible int64 // rows with a nil revenue and a resolvable Wikidata id
	Filled   int64 // rows that received a positive revenue
	Misses   int64 // lookups that found no usable claim (absent or zero)
	Failures int64 // lookups that errored; the row keeps its nil revenue
}

// Backfill fills nil revenues in place from Wikidata, fanning lookups out
// over a bounded worker pool. Each task owns exactly one row's revenue cell,
// so tasks never contend. A failed or empty lookup leaves its row untouched
// and never aborts siblings; only context cancellation stops the pass early.
//
// A claim of exactly zero is treated as missing: the feature deriver would
// drop the row anyway, and a zero claim usually means "unknown" upstream.
func (c *Client) Backfill(ctx context.Context, movies []schema.AggregatedMovie, workers int) (BackfillStats, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var st BackfillStats
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range movies {
		m := &movies[i]
		if m.Revenue != nil || m.WikidataMovieID == nil {
			continue
		}
		atomic.AddInt64(&st.Eligible, 1)

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			revenue, err := c.Revenue(ctx, *m.WikidataMovieID)
			switch {
			case err != nil:
				atomic.AddInt64(&st.Failures, 1)
			case revenue == nil || *revenue == 0:
				atomic.AddInt64(&st.Misses, 1)
			default:
				m.Revenue = revenue
				atomic.AddInt64(&st.Filled, 1)
			}
			return nil
		})
	}

	err := g.Wait()
	log.Printf("enrich: revenue backfill: eligible=%d filled=%d misses=%d failures=%d",
		st.Eligible, st.Filled, st.Misses, st.Failures)
	return st, err
}
