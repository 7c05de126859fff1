// Package aggregate collapses the character table into one row per movie.
// The join with the movie table is inner: a movie with no character rows and
// a character whose movie id is unknown both vanish here. Plot summaries
// attach by left join afterwards, so a missing plot never costs a row.
package aggregate

import (
	"log"

	"filmetl/internal/schema"
)

// Stats counts join outcomes over an aggregation.
type Stats struct {
	CharacterRows     int
	OrphanedCharacter int // character rows whose movie id is not in the movie table
	Movies            int
	WithPlot          int
}

// Movies groups character rows by movie id, in the order each movie id first
// appears in the character table, and attaches movie scalars and the optional
// plot. Within a movie the cast preserves character-table row order.
//
// Movie scalars follow first-non-nil semantics across duplicate movie rows:
// the first row introduces the movie and later duplicates only fill fields
// the earlier rows left nil.
func Movies(movies []schema.NormalizedMovie, chars []schema.NormalizedCharacter, plots []schema.PlotSummary) ([]schema.AggregatedMovie, Stats) {
	movieByID := make(map[int64]schema.NormalizedMovie, len(movies))
	for _, m := range movies {
		prev, exists := movieByID[m.WikipediaMovieID]
		if !exists {
			movieByID[m.WikipediaMovieID] = m
			continue
		}
		movieByID[m.WikipediaMovieID] = fillScalars(prev, m)
	}

	plotByID := make(map[int64]string, len(plots))
	for _, p := range plots {
		if _, exists := plotByID[p.WikipediaMovieID]; !exists {
			plotByID[p.WikipediaMovieID] = p.Plot
		}
	}

	var st Stats
	groupOf := make(map[int64]int, len(movieByID))
	out := make([]schema.AggregatedMovie, 0, len(movieByID))

	for _, c := range chars {
		st.CharacterRows++
		m, ok := movieByID[c.WikipediaMovieID]
		if !ok {
			st.OrphanedCharacter++
			continue
		}

		gi, seen := groupOf[c.WikipediaMovieID]
		if !seen {
			gi = len(out)
			groupOf[c.WikipediaMovieID] = gi

			agg := schema.AggregatedMovie{
				WikipediaMovieID: m.WikipediaMovieID,
				WikidataMovieID:  m.WikidataMovieID,
				Name:             m.Name,
				ReleaseYear:      m.ReleaseYear,
				Revenue:          m.Revenue,
				Languages:        m.Languages,
				Countries:        m.Countries,
				Genres:           m.Genres,
			}
			if plot, ok := plotByID[c.WikipediaMovieID]; ok {
				agg.Plot = &plot
				st.WithPlot++
			}
			out = append(out, agg)
			st.Movies++
		}

		out[gi].Characters = append(out[gi].Characters, schema.CharacterEntry{
			Name:         c.CharacterName,
			Gender:       c.ActorGender,
			HeightMeters: c.ActorHeightMeters,
			AgeAtRelease: c.ActorAgeAtRelease,
			Ethnicity:    c.Ethnicity,
		})
	}

	log.Printf("aggregate: %d character rows into %d movies, orphaned=%d with-plot=%d",
		st.CharacterRows, st.Movies, st.OrphanedCharacter, st.WithPlot)
	return out, st
}

// fillScalars merges a duplicate movie row into an earlier one, filling only
// nil fields.
func fillScalars(first, dup schema.NormalizedMovie) schema.NormalizedMovie {
	if first.WikidataMovieID == nil {
		first.WikidataMovieID = dup.WikidataMovieID
	}
	if first.Name == nil {
		first.Name = dup.Name
	}
	if first.Revenue == nil {
		first.Revenue = dup.Revenue
	}
	if first.Languages == nil {
		first.Languages = dup.Languages
	}
	if first.Countries == nil {
		first.Countries = dup.Countries
	}
	if first.Genres == nil {
		first.Genres = dup.Genres
	}
	return first
}
