// Package corpus loads the seven source tables of the movie corpus into
// typed rows. Each loader binds one dataset path to one parser configuration
// and one row mapping; nothing here joins, filters, or derives.
//
// Cell conversion is lenient for values and strict for structure: an
// unparsable numeric cell becomes nil and the row continues, while a row
// whose key id cannot be parsed is skipped and counted. Structural problems
// (unreadable file, wrong column count) fail the whole load.
package corpus

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"filmetl/internal/config"
	"filmetl/internal/datasource/file"
	"filmetl/internal/parser/tsv"
	"filmetl/internal/schema"
)

// openFn is the data-source seam; tests substitute it to feed fixtures.
var openFn = file.Open

// Loader reads the corpus tables named by a Datasets config.
type Loader struct {
	datasets config.Datasets
}

// NewLoader binds a Loader to dataset paths.
func NewLoader(d config.Datasets) *Loader {
	return &Loader{datasets: d}
}

// movieColumns names the headerless movie metadata table.
var movieColumns = []string{
	"wikipedia_movie_id", "freebase_movie_id", "name", "release_date",
	"revenue", "runtime", "languages", "countries", "genres",
}

// characterColumns names the headerless character metadata table.
var characterColumns = []string{
	"wikipedia_movie_id", "freebase_movie_id", "release_date",
	"character_name", "actor_dob", "actor_gender", "actor_height",
	"ethnicity_freebase_id", "actor_name", "actor_age_at_release",
	"freebase_map_id", "freebase_character_id", "freebase_actor_id",
}

// Movies loads the movie metadata table. The three label-set columns stay
// verbatim JSON; the normalizer decodes them.
func (l *Loader) Movies(ctx context.Context) ([]schema.RawMovie, error) {
	t, err := l.parse(ctx, l.datasets.MovieMetadata, tsv.Options{
		Comma: '\t', Names: movieColumns, LazyQuotes: true,
	})
	if err != nil {
		return nil, fmt.Errorf("movie metadata: %w", err)
	}

	rows := make([]schema.RawMovie, 0, len(t.Rows))
	skipped := 0
	for _, row := range t.Rows {
		id, ok := parseID(t.Field(row, "wikipedia_movie_id"))
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, schema.RawMovie{
			WikipediaMovieID: id,
			FreebaseMovieID:  t.Field(row, "freebase_movie_id"),
			Name:             optString(t.Field(row, "name")),
			ReleaseDate:      optString(t.Field(row, "release_date")),
			Revenue:          optFloat(t.Field(row, "revenue")),
			Runtime:          optFloat(t.Field(row, "runtime")),
			LanguagesJSON:    optString(t.Field(row, "languages")),
			CountriesJSON:    optString(t.Field(row, "countries")),
			GenresJSON:       optString(t.Field(row, "genres")),
		})
	}
	if skipped > 0 {
		log.Printf("corpus: movie metadata: skipped %d rows with unparsable ids", skipped)
	}
	return rows, nil
}

// Characters loads the character metadata table.
func (l *Loader) Characters(ctx context.Context) ([]schema.RawCharacter, error) {
	t, err := l.parse(ctx, l.datasets.CharacterMetadata, tsv.Options{
		Comma: '\t', Names: characterColumns, LazyQuotes: true,
	})
	if err != nil {
		return nil, fmt.Errorf("character metadata: %w", err)
	}

	rows := make([]schema.RawCharacter, 0, len(t.Rows))
	skipped := 0
	for _, row := range t.Rows {
		id, ok := parseID(t.Field(row, "wikipedia_movie_id"))
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, schema.RawCharacter{
			WikipediaMovieID:    id,
			FreebaseMovieID:     t.Field(row, "freebase_movie_id"),
			ReleaseDate:         optString(t.Field(row, "release_date")),
			CharacterName:       optString(t.Field(row, "character_name")),
			ActorDateOfBirth:    optString(t.Field(row, "actor_dob")),
			ActorGender:         optString(t.Field(row, "actor_gender")),
			ActorHeightMeters:   optFloat(t.Field(row, "actor_height")),
			EthnicityFreebaseID: optString(t.Field(row, "ethnicity_freebase_id")),
			ActorName:           optString(t.Field(row, "actor_name")),
			ActorAgeAtRelease:   optFloat(t.Field(row, "actor_age_at_release")),
			FreebaseMapID:       optString(t.Field(row, "freebase_map_id")),
			FreebaseCharacterID: optString(t.Field(row, "freebase_character_id")),
			FreebaseActorID:     optString(t.Field(row, "freebase_actor_id")),
		})
	}
	if skipped > 0 {
		log.Printf("corpus: character metadata: skipped %d rows with unparsable ids", skipped)
	}
	return rows, nil
}

// PlotSummaries loads the headerless id/plot table.
func (l *Loader) PlotSummaries(ctx context.Context) ([]schema.PlotSummary, error) {
	t, err := l.parse(ctx, l.datasets.PlotSummaries, tsv.Options{
		Comma: '\t', Names: []string{"wikipedia_movie_id", "plot"}, LazyQuotes: true,
	})
	if err != nil {
		return nil, fmt.Errorf("plot summaries: %w", err)
	}

	rows := make([]schema.PlotSummary, 0, len(t.Rows))
	skipped := 0
	for _, row := range t.Rows {
		id, ok := parseID(t.Field(row, "wikipedia_movie_id"))
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, schema.PlotSummary{
			WikipediaMovieID: id,
			Plot:             t.Field(row, "plot"),
		})
	}
	if skipped > 0 {
		log.Printf("corpus: plot summaries: skipped %d rows with unparsable ids", skipped)
	}
	return rows, nil
}

// NameClusters loads the headerless character-name/map-id table.
func (l *Loader) NameClusters(ctx context.Context) ([]schema.NameCluster, error) {
	t, err := l.parse(ctx, l.datasets.NameClusters, tsv.Options{
		Comma: '\t', Names: []string{"character_name", "freebase_map_id"}, LazyQuotes: true,
	})
	if err != nil {
		return nil, fmt.Errorf("name clusters: %w", err)
	}

	rows := make([]schema.NameCluster, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, schema.NameCluster{
			CharacterName: t.Field(row, "character_name"),
			FreebaseMapID: t.Field(row, "freebase_map_id"),
		})
	}
	return rows, nil
}

// tropeDetails is the nested JSON object in the trope table's second column.
type tropeDetails struct {
	Char  string `json:"char"`
	Movie string `json:"movie"`
	ID    string `json:"id"`
	Actor string `json:"actor"`
}

// Tropes loads the headerless trope table. The second column is a JSON
// object requiring a secondary decode; rows whose object does not decode keep
// the trope name with nil detail fields and are counted.
func (l *Loader) Tropes(ctx context.Context) ([]schema.TropeCluster, error) {
	t, err := l.parse(ctx, l.datasets.TropeClusters, tsv.Options{
		Comma: '\t', Names: []string{"trope", "details"}, LazyQuotes: true,
	})
	if err != nil {
		return nil, fmt.Errorf("trope clusters: %w", err)
	}

	rows := make([]schema.TropeCluster, 0, len(t.Rows))
	malformed := 0
	for _, row := range t.Rows {
		rec := schema.TropeCluster{Trope: t.Field(row, "trope")}
		var d tropeDetails
		if err := json.Unmarshal([]byte(t.Field(row, "details")), &d); err != nil {
			malformed++
		} else {
			rec.CharacterName = optString(d.Char)
			rec.MovieName = optString(d.Movie)
			rec.FreebaseMapID = optString(d.ID)
			rec.ActorName = optString(d.Actor)
		}
		rows = append(rows, rec)
	}
	if malformed > 0 {
		log.Printf("corpus: trope clusters: %d rows with undecodable details", malformed)
	}
	return rows, nil
}

// CrosswalkEntries loads the Freebase-to-Wikidata mapping table. Empty cells
// become nil so the crosswalk index can distinguish absent targets.
func (l *Loader) CrosswalkEntries(ctx context.Context) ([]schema.CrosswalkEntry, error) {
	t, err := l.parse(ctx, l.datasets.Crosswalk, tsv.Options{
		Comma: '\t', HasHeader: true, LazyQuotes: true,
	})
	if err != nil {
		return nil, fmt.Errorf("crosswalk: %w", err)
	}

	rows := make([]schema.CrosswalkEntry, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, schema.CrosswalkEntry{
			FreebaseID: t.Field(row, "freebase_id"),
			WikidataID: optString(t.Field(row, "wikidata_id")),
			Label:      optString(t.Field(row, "label")),
		})
	}
	return rows, nil
}

// Supplementary loads the comma-separated title/date/revenue table. Release
// dates are reduced to their leading year here so the backfill deals only in
// years; other columns in the source are ignored.
func (l *Loader) Supplementary(ctx context.Context) ([]schema.SupplementaryMovie, error) {
	t, err := l.parse(ctx, l.datasets.Supplementary, tsv.Options{
		HasHeader: true, LazyQuotes: true,
	})
	if err != nil {
		return nil, fmt.Errorf("supplementary: %w", err)
	}

	rows := make([]schema.SupplementaryMovie, 0, len(t.Rows))
	for _, row := range t.Rows {
		title := t.Field(row, "title")
		if title == "" {
			continue
		}
		rows = append(rows, schema.SupplementaryMovie{
			Title:       title,
			ReleaseDate: yearPrefix(t.Field(row, "release_date")),
			Revenue:     optFloat(t.Field(row, "revenue")),
		})
	}
	return rows, nil
}

func (l *Loader) parse(ctx context.Context, path string, opt tsv.Options) (*tsv.Table, error) {
	rc, err := openFn(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return tsv.NewParser(opt).Parse(rc)
}

// parseID parses a Wikipedia movie id cell.
func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// optString maps an empty cell to nil.
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// optFloat parses a numeric cell, mapping empty or unparsable cells to nil.
func optFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// yearPrefix reduces a date string to its leading four characters, nil when
// the cell is shorter than a year.
func yearPrefix(s string) *string {
	if len(s) < 4 {
		return nil
	}
	y := s[:4]
	return &y
}
