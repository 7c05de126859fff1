package corpus

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"filmetl/internal/config"
)

// stubSources points openFn at in-memory fixtures for the duration of a test.
func stubSources(t *testing.T, fixtures map[string]string) {
	t.Helper()
	orig := openFn
	openFn = func(_ context.Context, path string) (io.ReadCloser, error) {
		body, ok := fixtures[path]
		if !ok {
			return nil, fmt.Errorf("no fixture for %s", path)
		}
		return io.NopCloser(strings.NewReader(body)), nil
	}
	t.Cleanup(func() { openFn = orig })
}

func TestMovies(t *testing.T) {
	stubSources(t, map[string]string{
		"movies.tsv": "975900\t/m/03vyhn\tGhosts of Mars\t2001-08-24\t14010832\t98.0\t" +
			`{"/m/02h40lc": "English Language"}` + "\t" +
			`{"/m/09c7w0": "United States of America"}` + "\t" +
			`{"/m/01jfsb": "Thriller"}` + "\n" +
			"3196793\t/m/08yl5d\tGetting Away with Murder\t\t\t\t{}\t{}\t{}\n" +
			"notanid\t/m/xxxx\tBroken Row\t\t\t\t{}\t{}\t{}\n",
	})

	l := NewLoader(config.Datasets{MovieMetadata: "movies.tsv"})
	rows, err := l.Movies(context.Background())
	if err != nil {
		t.Fatalf("Movies: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d, want 2 (bad-id row skipped)", len(rows))
	}

	m := rows[0]
	if m.WikipediaMovieID != 975900 || m.FreebaseMovieID != "/m/03vyhn" {
		t.Fatalf("ids=%d %q", m.WikipediaMovieID, m.FreebaseMovieID)
	}
	if m.Revenue == nil || *m.Revenue != 14010832 {
		t.Fatalf("revenue=%v", m.Revenue)
	}
	if m.LanguagesJSON == nil || !strings.Contains(*m.LanguagesJSON, "English Language") {
		t.Fatalf("languages=%v", m.LanguagesJSON)
	}

	if rows[1].Revenue != nil || rows[1].ReleaseDate != nil {
		t.Fatalf("empty cells must be nil: %+v", rows[1])
	}
}

func TestCharacters(t *testing.T) {
	stubSources(t, map[string]string{
		"chars.tsv": "975900\t/m/03vyhn\t2001-08-24\tAkooshay\t1958-08-26\tF\t1.62\t/m/044038p\tWanda De Jesus\t42.0\t/m/0bgchxw\t/m/0bgcj3x\t/m/03wcfv7\n" +
			"975900\t/m/03vyhn\t2001-08-24\t\t\t\tbadheight\t\tUnnamed\t\t\t\t\n",
	})

	l := NewLoader(config.Datasets{CharacterMetadata: "chars.tsv"})
	rows, err := l.Characters(context.Background())
	if err != nil {
		t.Fatalf("Characters: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d", len(rows))
	}

	c := rows[0]
	if c.CharacterName == nil || *c.CharacterName != "Akooshay" {
		t.Fatalf("character=%v", c.CharacterName)
	}
	if c.ActorHeightMeters == nil || *c.ActorHeightMeters != 1.62 {
		t.Fatalf("height=%v", c.ActorHeightMeters)
	}
	if c.EthnicityFreebaseID == nil || *c.EthnicityFreebaseID != "/m/044038p" {
		t.Fatalf("ethnicity id=%v", c.EthnicityFreebaseID)
	}

	// Unparsable numeric cells degrade to nil without dropping the row.
	if rows[1].ActorHeightMeters != nil {
		t.Fatalf("bad height should be nil, got %v", rows[1].ActorHeightMeters)
	}
	if rows[1].ActorName == nil || *rows[1].ActorName != "Unnamed" {
		t.Fatalf("actor=%v", rows[1].ActorName)
	}
}

func TestTropes(t *testing.T) {
	stubSources(t, map[string]string{
		"tropes.tsv": "absent_minded_professor\t" +
			`{"char": "Professor Brainard", "movie": "Flubber", "id": "/m/0jy9q3", "actor": "Robin Williams"}` + "\n" +
			"broken_row\tnot json\n",
	})

	l := NewLoader(config.Datasets{TropeClusters: "tropes.tsv"})
	rows, err := l.Tropes(context.Background())
	if err != nil {
		t.Fatalf("Tropes: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d", len(rows))
	}

	good := rows[0]
	if good.Trope != "absent_minded_professor" {
		t.Fatalf("trope=%q", good.Trope)
	}
	if good.MovieName == nil || *good.MovieName != "Flubber" {
		t.Fatalf("movie=%v", good.MovieName)
	}
	if good.ActorName == nil || *good.ActorName != "Robin Williams" {
		t.Fatalf("actor=%v", good.ActorName)
	}

	bad := rows[1]
	if bad.Trope != "broken_row" {
		t.Fatalf("trope=%q", bad.Trope)
	}
	if bad.CharacterName != nil || bad.MovieName != nil || bad.FreebaseMapID != nil || bad.ActorName != nil {
		t.Fatalf("malformed details must leave nil fields: %+v", bad)
	}
}

func TestCrosswalkEntries(t *testing.T) {
	stubSources(t, map[string]string{
		"xwalk.tsv": "freebase_id\twikidata_id\tlabel\n" +
			"/m/02h40lc\tQ1860\tEnglish Language\n" +
			"/m/0345h\t\tGermany\n",
	})

	l := NewLoader(config.Datasets{Crosswalk: "xwalk.tsv"})
	rows, err := l.CrosswalkEntries(context.Background())
	if err != nil {
		t.Fatalf("CrosswalkEntries: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[0].WikidataID == nil || *rows[0].WikidataID != "Q1860" {
		t.Fatalf("wikidata=%v", rows[0].WikidataID)
	}
	if rows[1].WikidataID != nil {
		t.Fatalf("empty wikidata cell must be nil: %v", rows[1].WikidataID)
	}
	if rows[1].Label == nil || *rows[1].Label != "Germany" {
		t.Fatalf("label=%v", rows[1].Label)
	}
}

func TestSupplementary(t *testing.T) {
	stubSources(t, map[string]string{
		"supp.csv": "title,release_date,revenue,vote_average\n" +
			"Toy Story,1995-10-30,373554033,7.7\n" +
			"No Date,,0,5.0\n" +
			",1999-01-01,100,6.0\n",
	})

	l := NewLoader(config.Datasets{Supplementary: "supp.csv"})
	rows, err := l.Supplementary(context.Background())
	if err != nil {
		t.Fatalf("Supplementary: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d, want 2 (untitled row skipped)", len(rows))
	}

	ts := rows[0]
	if ts.ReleaseDate == nil || *ts.ReleaseDate != "1995" {
		t.Fatalf("release date must be year-truncated, got %v", ts.ReleaseDate)
	}
	if ts.Revenue == nil || *ts.Revenue != 373554033 {
		t.Fatalf("revenue=%v", ts.Revenue)
	}
	if rows[1].ReleaseDate != nil {
		t.Fatalf("empty date must be nil: %v", rows[1].ReleaseDate)
	}
	if rows[1].Revenue == nil || *rows[1].Revenue != 0 {
		t.Fatalf("zero revenue is loaded as-is: %v", rows[1].Revenue)
	}
}

func TestPlotSummariesAndNameClusters(t *testing.T) {
	stubSources(t, map[string]string{
		"plots.tsv": "975900\tOn Mars in 2176 a police squad is sent to a mining outpost.\n",
		"names.tsv": "Dr. Watson\t/m/02q_lkr\n",
	})

	l := NewLoader(config.Datasets{PlotSummaries: "plots.tsv", NameClusters: "names.tsv"})

	plots, err := l.PlotSummaries(context.Background())
	if err != nil {
		t.Fatalf("PlotSummaries: %v", err)
	}
	if len(plots) != 1 || plots[0].WikipediaMovieID != 975900 {
		t.Fatalf("plots=%+v", plots)
	}
	if !strings.HasPrefix(plots[0].Plot, "On Mars") {
		t.Fatalf("plot=%q", plots[0].Plot)
	}

	names, err := l.NameClusters(context.Background())
	if err != nil {
		t.Fatalf("NameClusters: %v", err)
	}
	if len(names) != 1 || names[0].CharacterName != "Dr. Watson" || names[0].FreebaseMapID != "/m/02q_lkr" {
		t.Fatalf("names=%+v", names)
	}
}

func TestLoaderPropagatesOpenError(t *testing.T) {
	stubSources(t, map[string]string{})

	l := NewLoader(config.Datasets{MovieMetadata: "missing.tsv"})
	if _, err := l.Movies(context.Background()); err == nil {
		t.Fatal("expected error for unreadable source")
	}
}
