// This file adds a lightweight linter/validator for Run values. It performs
// static checks over a decoded Run and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Run.
//
// Path is a dotted path into the config (e.g. "datasets.movie_metadata").
// Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidateRun performs static validation / linting of a Run. It does not
// mutate the run. Callers decide whether warnings are fatal.
func ValidateRun(r Run) []Issue {
	var issues []Issue

	if strings.TrimSpace(r.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}

	issues = append(issues, validateDatasets(r.Datasets)...)
	issues = append(issues, validateEnrich(r.Enrich)...)

	return issues
}

// validateDatasets checks that every corpus table has a path. Existence is
// not checked here; the loader reports unreadable files at run time.
func validateDatasets(d Datasets) []Issue {
	var issues []Issue

	required := []struct {
		path  string
		value string
	}{
		{"datasets.movie_metadata", d.MovieMetadata},
		{"datasets.character_metadata", d.CharacterMetadata},
		{"datasets.name_clusters", d.NameClusters},
		{"datasets.plot_summaries", d.PlotSummaries},
		{"datasets.trope_clusters", d.TropeClusters},
		{"datasets.crosswalk", d.Crosswalk},
		{"datasets.supplementary", d.Supplementary},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     f.path,
				Message:  "dataset path must not be empty",
			})
		}
	}

	return issues
}

// validateEnrich checks the enrichment settings for obvious misconfigurations.
func validateEnrich(e Enrich) []Issue {
	var issues []Issue

	if e.Workers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "enrich.workers",
			Message:  "workers must not be negative",
		})
	}
	if e.TimeoutSeconds < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "enrich.timeout_seconds",
			Message:  "timeout_seconds must not be negative",
		})
	}
	if e.Enabled && strings.TrimSpace(e.Endpoint) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "enrich.endpoint",
			Message:  "endpoint is empty; the public Wikidata API will be used",
		})
	}
	if !e.Enabled && e.Endpoint != "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "enrich.endpoint",
			Message:  "endpoint is set but enrichment is disabled; it will be ignored",
		})
	}

	return issues
}
