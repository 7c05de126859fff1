package normalize

import (
	"testing"

	"filmetl/internal/crosswalk"
	"filmetl/internal/schema"
)

func sp(s string) *string   { return &s }
func fp(f float64) *float64 { return &f }

func testIndex() *crosswalk.Index {
	return crosswalk.Build([]schema.CrosswalkEntry{
		{FreebaseID: "/m/03vyhn", WikidataID: sp("Q851654"), Label: sp("Ghosts of Mars")},
		{FreebaseID: "/m/044038p", WikidataID: sp("Q1371954"), Label: sp("African Americans")},
		{FreebaseID: "/m/0bgcj3x", WikidataID: sp("Q30381723")},
		{FreebaseID: "/m/03wcfv7", WikidataID: sp("Q239411")},
	})
}

func TestCharacters(t *testing.T) {
	t.Parallel()

	raw := []schema.RawCharacter{
		{
			WikipediaMovieID:    975900,
			FreebaseMovieID:     "/m/03vyhn",
			ReleaseDate:         sp("2001-08-24"),
			CharacterName:       sp("Akooshay"),
			ActorGender:         sp("F"),
			ActorHeightMeters:   fp(1.62),
			EthnicityFreebaseID: sp("/m/044038p"),
			ActorName:           sp("Wanda De Jesus"),
			ActorAgeAtRelease:   fp(42),
			FreebaseMapID:       sp("/m/0bgchxw"),
			FreebaseCharacterID: sp("/m/0bgcj3x"),
			FreebaseActorID:     sp("/m/03wcfv7"),
		},
		{
			WikipediaMovieID:    975900,
			FreebaseMovieID:     "/m/unmapped",
			EthnicityFreebaseID: sp("/m/unmapped_eth"),
		},
	}

	out, st := Characters(raw, testIndex())
	if len(out) != 2 {
		t.Fatalf("rows=%d", len(out))
	}

	c := out[0]
	if c.WikidataMovieID == nil || *c.WikidataMovieID != "Q851654" {
		t.Fatalf("movie id=%v", c.WikidataMovieID)
	}
	if c.Ethnicity == nil || *c.Ethnicity != "African Americans" {
		t.Fatalf("ethnicity=%v", c.Ethnicity)
	}
	if c.WikidataCharacterID == nil || *c.WikidataCharacterID != "Q30381723" {
		t.Fatalf("character id=%v", c.WikidataCharacterID)
	}
	if c.WikidataActorID == nil || *c.WikidataActorID != "Q239411" {
		t.Fatalf("actor id=%v", c.WikidataActorID)
	}

	// Misses flow forward as nil, never as errors.
	m := out[1]
	if m.WikidataMovieID != nil || m.Ethnicity != nil {
		t.Fatalf("unresolved ids must stay nil: %+v", m)
	}
	if st.MissingEthnicity != 1 || st.MissingMovieID != 1 {
		t.Fatalf("stats=%+v", st)
	}
}

func TestMoviesDecodeAndWindow(t *testing.T) {
	t.Parallel()

	raw := []schema.RawMovie{
		{
			WikipediaMovieID: 975900,
			FreebaseMovieID:  "/m/03vyhn",
			Name:             sp("Ghosts of Mars"),
			ReleaseDate:      sp("2001-08-24"),
			Revenue:          fp(14010832),
			Runtime:          fp(98),
			LanguagesJSON:    sp(`{"/m/02h40lc": "English Language"}`),
			CountriesJSON:    sp(`{"/m/09c7w0": "United States of America"}`),
			GenresJSON:       sp(`{"/m/01jfsb": "Thriller", "/m/03npn": "Horror"}`),
		},
		{WikipediaMovieID: 1, Name: sp("Undated")},
		{WikipediaMovieID: 2, Name: sp("Too Early"), ReleaseDate: sp("1890-01-01")},
		{WikipediaMovieID: 3, Name: sp("Too Late"), ReleaseDate: sp("2013-06-01")},
		{WikipediaMovieID: 4, Name: sp("Typo Year"), ReleaseDate: sp("1010-12-02")},
	}

	out, st := Movies(raw, nil, testIndex())
	if len(out) != 2 {
		t.Fatalf("kept=%d, want 2", len(out))
	}

	m := out[0]
	if m.ReleaseYear != 2001 {
		t.Fatalf("year=%d", m.ReleaseYear)
	}
	if m.WikidataMovieID == nil || *m.WikidataMovieID != "Q851654" {
		t.Fatalf("wikidata id=%v", m.WikidataMovieID)
	}
	if m.Genres == nil || *m.Genres != "Thriller, Horror" {
		t.Fatalf("genres=%v (document order must hold)", m.Genres)
	}
	if m.Languages == nil || *m.Languages != "English Language" {
		t.Fatalf("languages=%v", m.Languages)
	}

	// "1010" is rewritten to 2010, inside the window.
	if out[1].ReleaseYear != 2010 {
		t.Fatalf("typo year=%d, want 2010", out[1].ReleaseYear)
	}

	if st.DroppedNoYear != 1 || st.DroppedOutOfWindow != 2 {
		t.Fatalf("stats=%+v", st)
	}
}

func TestMoviesSupplementaryBackfill(t *testing.T) {
	t.Parallel()

	raw := []schema.RawMovie{
		{WikipediaMovieID: 10, Name: sp("Nova"), ReleaseDate: sp("1999-03-01")},
		{WikipediaMovieID: 11, Name: sp("Nova Undated")},
		{WikipediaMovieID: 12, Name: sp("Kept Revenue"), ReleaseDate: sp("2000"), Revenue: fp(500)},
	}
	supp := []schema.SupplementaryMovie{
		{Title: "Nova", ReleaseDate: sp("1999"), Revenue: fp(123456)},
		{Title: "Nova", ReleaseDate: sp("1980"), Revenue: fp(1)}, // later duplicate loses
		{Title: "Nova Undated", ReleaseDate: sp("1995")},
		{Title: "Kept Revenue", Revenue: fp(999999)},
	}

	out, st := Movies(raw, supp, testIndex())
	if len(out) != 3 {
		t.Fatalf("kept=%d", len(out))
	}

	if out[0].Revenue == nil || *out[0].Revenue != 123456 {
		t.Fatalf("backfilled revenue=%v", out[0].Revenue)
	}
	if out[1].ReleaseYear != 1995 {
		t.Fatalf("backfilled year=%d", out[1].ReleaseYear)
	}
	// Backfill fills only missing values.
	if *out[2].Revenue != 500 {
		t.Fatalf("present revenue overwritten: %v", *out[2].Revenue)
	}
	if st.BackfilledRevenue != 1 || st.BackfilledDate != 1 {
		t.Fatalf("stats=%+v", st)
	}
}

func TestDecodeLabelMapEdges(t *testing.T) {
	t.Parallel()

	var st MovieStats

	if got := decodeLabelMap(nil, &st); got != nil {
		t.Fatalf("nil column => nil, got %v", got)
	}
	if got := decodeLabelMap(sp("{}"), &st); got == nil || *got != "" {
		t.Fatalf("empty object => empty string, got %v", got)
	}
	if got := decodeLabelMap(sp("not json"), &st); got != nil {
		t.Fatalf("malformed => nil, got %v", got)
	}
	if got := decodeLabelMap(sp(`{"a": 3}`), &st); got != nil {
		t.Fatalf("non-string label => nil, got %v", got)
	}
	if st.MalformedLabelMaps != 2 {
		t.Fatalf("malformed count=%d", st.MalformedLabelMaps)
	}
}
