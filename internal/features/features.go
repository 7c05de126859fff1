// Package features derives the model-ready table from aggregated movies: one
// FeatureRow per surviving movie, with the revenue target, gender ratio, age
// and height ranges, the 5-year period bucket, category indicators, and the
// composite ethnic score.
//
// The derivation is a fixed transform chain. Rows fall out for documented
// reasons only: a missing or zero revenue, a missing label column, a cast
// with no gendered entries, or a country/language set that misses the
// US/English filter. Every drop reason is counted.
package features

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"filmetl/internal/categories"
	"filmetl/internal/schema"
)

// The corpus filter labels. Matching is exact against the decoded label
// tokens, never substring.
const (
	countryFilter  = "United States of America"
	languageFilter = "English Language"
)

// heightReference is the centimeter baseline heights are re-centered on.
const heightReference = 160.0

// Stats counts derivation outcomes.
type Stats struct {
	Rows                int
	Kept                int
	DroppedMissing      int // nil revenue or label column
	DroppedZeroRevenue  int
	DroppedNoGender     int // zero M and zero F entries
	DroppedByFilter     int // country/language filter
	UnmappedEthnicities int
	UnmappedGenres      int
}

// Derive produces feature rows from aggregated movies, sorted by release
// year. Movies with no gendered cast entries are excluded: the gender ratio
// is undefined there and a silent 0/0 would poison downstream numerics.
func Derive(movies []schema.AggregatedMovie) ([]schema.FeatureRow, Stats) {
	var st Stats
	out := make([]schema.FeatureRow, 0, len(movies))

	for i := range movies {
		m := &movies[i]
		st.Rows++

		if m.Languages == nil || m.Countries == nil || m.Genres == nil || m.Revenue == nil {
			st.DroppedMissing++
			continue
		}
		if *m.Revenue == 0 {
			st.DroppedZeroRevenue++
			continue
		}

		males, females := genderCounts(m.Characters)
		if males+females == 0 {
			st.DroppedNoGender++
			continue
		}

		if !containsLabel(*m.Countries, countryFilter) || !containsLabel(*m.Languages, languageFilter) {
			st.DroppedByFilter++
			continue
		}

		red := categories.Reduce(m.Ethnicities(), *m.Genres)
		st.UnmappedEthnicities += red.UnmappedEthnicities
		st.UnmappedGenres += red.UnmappedGenres

		row := schema.FeatureRow{
			Revenue:         *m.Revenue,
			ReleaseYear:     m.ReleaseYear,
			Period:          PeriodLabel(m.ReleaseYear),
			MaleCount:       males,
			FemaleCount:     females,
			FRatio:          float64(females) / float64(females+males),
			GenreFlags:      red.GenreFlags,
			EthnicityCounts: red.EthnicityCounts,
			EthnicScore:     sum(red.EthnicityCounts),
		}
		row.AgeMin, row.AgeMax = rangeOf(m.Characters, func(c schema.CharacterEntry) *float64 { return c.AgeAtRelease })
		row.HeightMin, row.HeightMax = rangeOf(m.Characters, func(c schema.CharacterEntry) *float64 { return c.HeightMeters })
		rescaleHeight(row.HeightMin)
		rescaleHeight(row.HeightMax)

		out = append(out, row)
		st.Kept++
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ReleaseYear < out[j].ReleaseYear })

	log.Printf("features: %d rows in, %d kept, dropped missing=%d zero-revenue=%d no-gender=%d filtered=%d",
		st.Rows, st.Kept, st.DroppedMissing, st.DroppedZeroRevenue, st.DroppedNoGender, st.DroppedByFilter)
	return out, st
}

// PeriodLabel buckets a year into its 5-year period, labeled "{start}-{end}".
func PeriodLabel(year int) string {
	start := year - year%5
	return fmt.Sprintf("%d-%d", start, start+4)
}

func genderCounts(cast []schema.CharacterEntry) (males, females int) {
	for _, c := range cast {
		if c.Gender == nil {
			continue
		}
		switch strings.TrimSpace(*c.Gender) {
		case "M":
			males++
		case "F":
			females++
		}
	}
	return males, females
}

// containsLabel reports whether a ", "-joined label string contains the exact
// label as one of its tokens.
func containsLabel(joined, label string) bool {
	for _, tok := range strings.Split(joined, ",") {
		if strings.TrimSpace(tok) == label {
			return true
		}
	}
	return false
}

// rangeOf computes min and max over the cast's non-nil values of one
// attribute; both are nil when no value exists.
func rangeOf(cast []schema.CharacterEntry, get func(schema.CharacterEntry) *float64) (min, max *float64) {
	for _, c := range cast {
		v := get(c)
		if v == nil {
			continue
		}
		if min == nil || *v < *min {
			val := *v
			min = &val
		}
		if max == nil || *v > *max {
			val := *v
			max = &val
		}
	}
	return min, max
}

// rescaleHeight converts meters to a centimeter offset from the reference
// point, in place.
func rescaleHeight(v *float64) {
	if v != nil {
		*v = *v*100 - heightReference
	}
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
