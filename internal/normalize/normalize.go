// Package normalize turns raw corpus rows into canonical per-table rows: the
// character table gets its four identifier resolutions, and the movie table
// gets label decoding, the supplementary backfill, and the release-year
// window. Normalization never invents values; anything unresolvable stays nil
// and is counted.
package normalize

import (
	"log"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"filmetl/internal/crosswalk"
	"filmetl/internal/schema"
)

// Release years outside this window are dropped: earlier years are data-entry
// noise, later ones fall outside the corpus snapshot.
const (
	MinReleaseYear = 1910
	MaxReleaseYear = 2012
)

// CharacterStats counts resolution outcomes over a character normalization.
type CharacterStats struct {
	Rows               int
	MissingEthnicity   int // no ethnicity id, or id absent from the crosswalk
	MissingMovieID     int
	MissingCharacterID int
	MissingActorID     int
}

// Characters resolves each character row's four Freebase identifiers against
// the crosswalk and renames the surviving columns. The raw release date and
// map id are dropped: the movie table is the date authority, and the map id
// exists only to key the trope and name-cluster tables.
func Characters(rows []schema.RawCharacter, ix *crosswalk.Index) ([]schema.NormalizedCharacter, CharacterStats) {
	out := make([]schema.NormalizedCharacter, 0, len(rows))
	var st CharacterStats

	for _, r := range rows {
		n := schema.NormalizedCharacter{
			WikipediaMovieID:  r.WikipediaMovieID,
			WikidataMovieID:   ix.WikidataID(r.FreebaseMovieID),
			CharacterName:     r.CharacterName,
			ActorDateOfBirth:  r.ActorDateOfBirth,
			ActorGender:       r.ActorGender,
			ActorHeightMeters: r.ActorHeightMeters,
			ActorName:         r.ActorName,
			ActorAgeAtRelease: r.ActorAgeAtRelease,
		}
		if r.EthnicityFreebaseID != nil {
			n.Ethnicity = ix.Label(*r.EthnicityFreebaseID)
		}
		if r.FreebaseCharacterID != nil {
			n.WikidataCharacterID = ix.WikidataID(*r.FreebaseCharacterID)
		}
		if r.FreebaseActorID != nil {
			n.WikidataActorID = ix.WikidataID(*r.FreebaseActorID)
		}

		st.Rows++
		if n.Ethnicity == nil {
			st.MissingEthnicity++
		}
		if n.WikidataMovieID == nil {
			st.MissingMovieID++
		}
		if n.WikidataCharacterID == nil {
			st.MissingCharacterID++
		}
		if n.WikidataActorID == nil {
			st.MissingActorID++
		}
		out = append(out, n)
	}

	log.Printf("normalize: characters: %d rows, unresolved ethnicity=%d movie=%d character=%d actor=%d",
		st.Rows, st.MissingEthnicity, st.MissingMovieID, st.MissingCharacterID, st.MissingActorID)
	return out, st
}

// MovieStats counts decode, backfill, and filter outcomes over a movie
// normalization.
type MovieStats struct {
	Rows               int
	Kept               int
	DroppedNoYear      int // no coercible release year after backfill
	DroppedOutOfWindow int
	BackfilledRevenue  int
	BackfilledDate     int
	MalformedLabelMaps int // label columns that failed to decode
}

// Movies normalizes the movie table: attaches the Wikidata movie id, decodes
// the three label-map columns, backfills missing revenue and release date
// from the supplementary table by exact title, reduces the date to a year,
// and keeps only rows whose year lands inside the corpus window. Runtime is
// dropped; nothing downstream consumes it.
func Movies(rows []schema.RawMovie, supp []schema.SupplementaryMovie, ix *crosswalk.Index) ([]schema.NormalizedMovie, MovieStats) {
	byTitle := make(map[string]schema.SupplementaryMovie, len(supp))
	for _, s := range supp {
		if _, exists := byTitle[s.Title]; !exists {
			byTitle[s.Title] = s
		}
	}

	out := make([]schema.NormalizedMovie, 0, len(rows))
	var st MovieStats

	for _, r := range rows {
		st.Rows++

		n := schema.NormalizedMovie{
			WikipediaMovieID: r.WikipediaMovieID,
			WikidataMovieID:  ix.WikidataID(r.FreebaseMovieID),
			Name:             r.Name,
			Revenue:          r.Revenue,
		}
		n.Languages = decodeLabelMap(r.LanguagesJSON, &st)
		n.Countries = decodeLabelMap(r.CountriesJSON, &st)
		n.Genres = decodeLabelMap(r.GenresJSON, &st)

		date := r.ReleaseDate
		if r.Name != nil {
			if s, ok := byTitle[*r.Name]; ok {
				if n.Revenue == nil && s.Revenue != nil {
					n.Revenue = s.Revenue
					st.BackfilledRevenue++
				}
				if date == nil && s.ReleaseDate != nil {
					date = s.ReleaseDate
					st.BackfilledDate++
				}
			}
		}

		year, ok := coerceYear(date)
		if !ok {
			st.DroppedNoYear++
			continue
		}
		if year < MinReleaseYear || year > MaxReleaseYear {
			st.DroppedOutOfWindow++
			continue
		}
		n.ReleaseYear = year

		st.Kept++
		out = append(out, n)
	}

	log.Printf("normalize: movies: %d rows in, %d kept, dropped no-year=%d out-of-window=%d, backfilled revenue=%d date=%d",
		st.Rows, st.Kept, st.DroppedNoYear, st.DroppedOutOfWindow, st.BackfilledRevenue, st.BackfilledDate)
	return out, st
}

// coerceYear reduces a date string to a year. The "1010" entry is a known
// typo for 2010 in the source and is rewritten rather than dropped.
func coerceYear(date *string) (int, bool) {
	if date == nil || len(*date) < 4 {
		return 0, false
	}
	y := (*date)[:4]
	if y == "1010" {
		y = "2010"
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return 0, false
	}
	return year, true
}

// decodeLabelMap decodes an embedded {id: label} JSON object into its labels
// joined with ", ", preserving document order. Absent or undecodable columns
// become nil; an empty object becomes an empty string, which is a different
// downstream fact (present but empty) than nil (never present).
func decodeLabelMap(raw *string, st *MovieStats) *string {
	if raw == nil {
		return nil
	}
	labels, ok := labelValues(*raw)
	if !ok {
		st.MalformedLabelMaps++
		return nil
	}
	joined := strings.Join(labels, ", ")
	return &joined
}

// labelValues walks a one-level JSON object and returns its string values in
// document order. Map decoding would lose that order.
func labelValues(raw string) ([]string, bool) {
	dec := json.NewDecoder(strings.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, false
	}

	var labels []string
	for dec.More() {
		if _, err := dec.Token(); err != nil { // key
			return nil, false
		}
		val, err := dec.Token()
		if err != nil {
			return nil, false
		}
		s, ok := val.(string)
		if !ok {
			return nil, false
		}
		labels = append(labels, s)
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, false
	}
	return labels, true
}
