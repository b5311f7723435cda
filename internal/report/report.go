// Package report accumulates per-run icon resolution results and serializes them.
package report

import (
	"time"

	"github.com/google/uuid"

	"focusgfx/internal/resolve"
)

// FoundIcon records an identifier whose icon exists in the mod.
type FoundIcon struct {
	ID           string `json:"id" yaml:"id"`
	Pattern      string `json:"pattern" yaml:"pattern"`
	Extension    string `json:"extension" yaml:"extension"`
	FullPath     string `json:"full_path" yaml:"full_path"`
	RelativePath string `json:"relative_path" yaml:"relative_path"`
}

// MissingIcon records an identifier no candidate matched for.
type MissingIcon struct {
	ID              string   `json:"id" yaml:"id"`
	SearchPath      string   `json:"search_path" yaml:"search_path"`
	PatternsTried   []string `json:"patterns_tried" yaml:"patterns_tried"`
	ExtensionsTried []string `json:"extensions_tried" yaml:"extensions_tried"`
}

// Placeholder records a placeholder copy of the default image.
type Placeholder struct {
	ID          string `json:"id" yaml:"id"`
	IconPath    string `json:"icon_path" yaml:"icon_path"`
	SourceImage string `json:"source_image" yaml:"source_image"`
	Reused      bool   `json:"reused,omitempty" yaml:"reused,omitempty"`
}

// Stats are the headline counts of a run.
type Stats struct {
	Found               int `json:"total_found" yaml:"total_found"`
	Missing             int `json:"total_missing" yaml:"total_missing"`
	PlaceholdersCreated int `json:"total_placeholders_created" yaml:"total_placeholders_created"`
	PlaceholdersPlanned int `json:"total_placeholders_planned,omitempty" yaml:"total_placeholders_planned,omitempty"`
}

// Report is the run accumulator. The pipeline creates one per run and records every
// resolution into it; nothing else reads or writes it concurrently.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Source     string
	Output     string
	DryRun     bool

	IDs        []string
	Duplicates []string

	Found        []FoundIcon
	Missing      []MissingIcon
	Placeholders []Placeholder
	Planned      []string

	// Arguments are the effective options of the run, echoed into json/yaml reports.
	Arguments map[string]any
}

// New starts a report for one run.
func New(source, output string, started time.Time) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: started,
		Source:    source,
		Output:    output,
	}
}

// Record adds one resolution to the report.
func (r *Report) Record(res resolve.Resolution, iconsPath string) {
	if res.Found {
		r.Found = append(r.Found, FoundIcon{
			ID:           res.ID,
			Pattern:      res.Match.Pattern,
			Extension:    res.Match.Extension,
			FullPath:     res.FullPath,
			RelativePath: res.Path,
		})
		return
	}

	r.Missing = append(r.Missing, MissingIcon{
		ID:              res.ID,
		SearchPath:      iconsPath,
		PatternsTried:   uniquePatterns(res.Attempts),
		ExtensionsTried: uniqueExtensions(res.Attempts),
	})

	switch {
	case res.Placeholder:
		r.Placeholders = append(r.Placeholders, Placeholder{
			ID:          res.ID,
			IconPath:    res.Path,
			SourceImage: res.PlaceholderSource,
			Reused:      res.PlaceholderReused,
		})
	case res.PlaceholderPlanned:
		r.Planned = append(r.Planned, res.ID)
	}
}

// Finish stamps the end of the run.
func (r *Report) Finish(at time.Time) {
	r.FinishedAt = at
}

// Duration is the wall time between start and finish.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Stats returns the headline counts.
func (r *Report) Stats() Stats {
	return Stats{
		Found:               len(r.Found),
		Missing:             len(r.Missing),
		PlaceholdersCreated: len(r.Placeholders),
		PlaceholdersPlanned: len(r.Planned),
	}
}

// MissingIDs lists identifiers without an icon, in processing order.
func (r *Report) MissingIDs() []string {
	ids := make([]string, 0, len(r.Missing))
	for _, m := range r.Missing {
		ids = append(ids, m.ID)
	}
	return ids
}

func uniquePatterns(cands []resolve.Candidate) []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range cands {
		if !seen[c.Pattern] {
			seen[c.Pattern] = true
			out = append(out, c.Pattern)
		}
	}
	return out
}

func uniqueExtensions(cands []resolve.Candidate) []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range cands {
		if !seen[c.Extension] {
			seen[c.Extension] = true
			out = append(out, c.Extension)
		}
	}
	return out
}
