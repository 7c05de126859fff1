// Package schema defines the typed row models exchanged between pipeline
// stages. Each stage consumes one row type and produces the next; no stage
// shares mutable state with another.
//
// Nullable columns are pointer fields. A nil pointer always means "missing or
// unresolved", never "invalid": resolution misses and value-scoped parse
// failures flow forward as nils and are filtered (or rendered) by later
// stages.
package schema

// RawMovie is one movie row as sourced from the movie metadata table. The
// three label-set columns hold the embedded {freebase id: name} JSON objects
// verbatim; decoding happens in the movie normalizer.
type RawMovie struct {
	WikipediaMovieID int64
	FreebaseMovieID  string
	Name             *string
	ReleaseDate      *string // possibly partial: year-only, full date, or missing
	Revenue          *float64
	Runtime          *float64
	LanguagesJSON    *string
	CountriesJSON    *string
	GenresJSON       *string
}

// RawCharacter is one character appearance as sourced from the character
// metadata table. The Freebase sub-identifiers each require crosswalk
// resolution. ReleaseDate is carried only so the normalizer can drop it: the
// movie table is the sole authority for release dates.
type RawCharacter struct {
	WikipediaMovieID    int64
	FreebaseMovieID     string
	ReleaseDate         *string
	CharacterName       *string
	ActorDateOfBirth    *string
	ActorGender         *string
	ActorHeightMeters   *float64
	EthnicityFreebaseID *string
	ActorName           *string
	ActorAgeAtRelease   *float64
	FreebaseMapID       *string
	FreebaseCharacterID *string
	FreebaseActorID     *string
}

// CrosswalkEntry maps one Freebase identifier to a Wikidata identifier and/or
// a human-readable label. Either target may be missing in the source.
type CrosswalkEntry struct {
	FreebaseID string
	WikidataID *string
	Label      *string
}

// PlotSummary is one plot text keyed by Wikipedia movie id.
type PlotSummary struct {
	WikipediaMovieID int64
	Plot             string
}

// NameCluster links a character name to a Freebase character/actor map id.
type NameCluster struct {
	CharacterName string
	FreebaseMapID string
}

// TropeCluster is one trope assignment. The source encodes everything but the
// trope name in a nested JSON object; the corpus loader performs that
// secondary decode.
type TropeCluster struct {
	Trope         string
	CharacterName *string
	MovieName     *string
	FreebaseMapID *string
	ActorName     *string
}

// SupplementaryMovie is one row of the supplementary title/date/revenue
// table used to backfill missing movie metadata. Matching is by exact title
// string equality.
type SupplementaryMovie struct {
	Title       string
	ReleaseDate *string // already year-truncated by the corpus loader
	Revenue     *float64
}

// NormalizedCharacter is a character row after the four crosswalk joins and
// canonical renaming. All resolved columns are nil on a lookup miss.
type NormalizedCharacter struct {
	WikipediaMovieID    int64
	WikidataMovieID     *string
	CharacterName       *string
	ActorDateOfBirth    *string
	ActorGender         *string
	ActorHeightMeters   *float64
	ActorName           *string
	ActorAgeAtRelease   *float64
	Ethnicity           *string
	WikidataCharacterID *string
	WikidataActorID     *string
}

// NormalizedMovie is a movie row after label decoding, date reduction, and
// the supplementary backfill. Rows surviving normalization always carry a
// release year in [1910, 2012]; rows with an uncoercible or out-of-window
// year are excluded, not represented.
//
// A nil label string means the source had no label map at all, which is
// distinct from an empty label set downstream.
type NormalizedMovie struct {
	WikipediaMovieID int64
	WikidataMovieID  *string
	Name             *string
	ReleaseYear      int
	Revenue          *float64
	Languages        *string
	Countries        *string
	Genres           *string
}

// CharacterEntry is one cast member's attributes inside an AggregatedMovie.
// Keeping the five attributes together in one sub-record (rather than five
// independently concatenated strings) makes cross-column alignment hold by
// construction.
type CharacterEntry struct {
	Name         *string
	Gender       *string
	HeightMeters *float64
	AgeAtRelease *float64
	Ethnicity    *string
}

// AggregatedMovie is one row per movie id after the inner join with
// characters and the per-column reduction. Characters preserves the join's
// row order; movies with no characters do not exist at this stage.
type AggregatedMovie struct {
	WikipediaMovieID int64
	WikidataMovieID  *string
	Name             *string
	ReleaseYear      int
	Revenue          *float64
	Languages        *string
	Countries        *string
	Genres           *string
	Characters       []CharacterEntry
	Plot             *string
}

// FeatureRow is the final per-movie record consumed by regression and
// visualization. Indicator columns are fixed-width vectors ordered by the
// category tables in the categories package; the set never varies per row.
//
// AgeMin/AgeMax and HeightMin/HeightMax are nil when no parsable value
// existed for the movie's cast. Heights are centimeter offsets from the
// 160 cm reference point.
type FeatureRow struct {
	Revenue         float64
	ReleaseYear     int
	Period          string
	MaleCount       int
	FemaleCount     int
	FRatio          float64
	AgeMin          *float64
	AgeMax          *float64
	HeightMin       *float64
	HeightMax       *float64
	GenreFlags      []int
	EthnicityCounts []int
	EthnicScore     int
}
