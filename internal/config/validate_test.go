package config

import (
	"strings"
	"testing"
)

func fullDatasets() Datasets {
	return Datasets{
		MovieMetadata:     "datasets/movie.metadata.tsv",
		CharacterMetadata: "datasets/character.metadata.tsv",
		NameClusters:      "datasets/name.clusters.tsv",
		PlotSummaries:     "datasets/plot_summaries.tsv",
		TropeClusters:     "datasets/tvtropes.clusters.tsv",
		Crosswalk:         "datasets/freebase_wikidata_mapping.tsv",
		Supplementary:     "datasets/tmdb/movies_metadata.csv",
	}
}

func countSeverity(issues []Issue, s IssueSeverity) int {
	n := 0
	for _, i := range issues {
		if i.Severity == s {
			n++
		}
	}
	return n
}

func TestValidateRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		run          Run
		wantErrors   int
		wantWarnings int
		wantPath     string
	}{
		{
			name:       "valid run has no issues",
			run:        Run{Job: "corpus", Datasets: fullDatasets()},
			wantErrors: 0,
		},
		{
			name:       "empty job is an error",
			run:        Run{Datasets: fullDatasets()},
			wantErrors: 1,
			wantPath:   "job",
		},
		{
			name: "missing dataset paths are errors",
			run: Run{Job: "corpus", Datasets: Datasets{
				MovieMetadata: "datasets/movie.metadata.tsv",
			}},
			wantErrors: 6,
		},
		{
			name: "negative workers is an error",
			run: Run{Job: "corpus", Datasets: fullDatasets(),
				Enrich: Enrich{Workers: -1}},
			wantErrors: 1,
			wantPath:   "enrich.workers",
		},
		{
			name: "enabled enrichment without endpoint warns",
			run: Run{Job: "corpus", Datasets: fullDatasets(),
				Enrich: Enrich{Enabled: true}},
			wantErrors:   0,
			wantWarnings: 1,
			wantPath:     "enrich.endpoint",
		},
		{
			name: "endpoint without enablement warns",
			run: Run{Job: "corpus", Datasets: fullDatasets(),
				Enrich: Enrich{Endpoint: "https://www.wikidata.org/w/api.php"}},
			wantErrors:   0,
			wantWarnings: 1,
			wantPath:     "enrich.endpoint",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			issues := ValidateRun(tc.run)
			if got := countSeverity(issues, SeverityError); got != tc.wantErrors {
				t.Fatalf("errors=%d want %d (issues: %v)", got, tc.wantErrors, issues)
			}
			if got := countSeverity(issues, SeverityWarning); got != tc.wantWarnings {
				t.Fatalf("warnings=%d want %d (issues: %v)", got, tc.wantWarnings, issues)
			}
			if tc.wantPath != "" {
				found := false
				for _, i := range issues {
					if i.Path == tc.wantPath {
						found = true
					}
				}
				if !found {
					t.Fatalf("no issue at path %q in %v", tc.wantPath, issues)
				}
			}
		})
	}
}

func TestIssueError(t *testing.T) {
	t.Parallel()

	i := Issue{Severity: SeverityError, Path: "job", Message: "job must not be empty"}
	if !strings.Contains(i.Error(), "error at job:") {
		t.Fatalf("Error()=%q", i.Error())
	}
}
