package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"focusgfx/internal/fsutil"
)

// Format is a report serialization format.
type Format string

const (
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatYAML     Format = "yaml"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatMarkdown, FormatYAML}

// ParseFormat validates a format name. Empty means txt.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown report format %q (valid: txt, json, csv, md, yaml)", s)
}

// maxPatternsShown caps the pattern list in the human-readable formats.
const maxPatternsShown = 3

// document is the json/yaml shape of a report.
type document struct {
	RunID           string         `json:"run_id" yaml:"run_id"`
	Timestamp       string         `json:"timestamp" yaml:"timestamp"`
	DurationSeconds float64        `json:"duration_seconds" yaml:"duration_seconds"`
	SourceFile      string         `json:"source_file" yaml:"source_file"`
	OutputFile      string         `json:"output_file" yaml:"output_file"`
	DryRun          bool           `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	TotalFocuses    int            `json:"total_focuses" yaml:"total_focuses"`
	FocusIDs        []string       `json:"focus_ids" yaml:"focus_ids"`
	Duplicates      []string       `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	IconStatistics  Stats          `json:"icon_statistics" yaml:"icon_statistics"`
	FoundIcons      []FoundIcon    `json:"found_icons" yaml:"found_icons"`
	MissingIcons    []MissingIcon  `json:"missing_icons" yaml:"missing_icons"`
	Placeholders    []Placeholder  `json:"placeholders_created" yaml:"placeholders_created"`
	Arguments       map[string]any `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

func (r *Report) document() document {
	return document{
		RunID:           r.RunID,
		Timestamp:       r.timestamp(),
		DurationSeconds: r.durationSeconds(),
		SourceFile:      r.Source,
		OutputFile:      r.Output,
		DryRun:          r.DryRun,
		TotalFocuses:    len(r.IDs),
		FocusIDs:        nonNil(r.IDs),
		Duplicates:      r.Duplicates,
		IconStatistics:  r.Stats(),
		FoundIcons:      nonNilSlice(r.Found),
		MissingIcons:    nonNilSlice(r.Missing),
		Placeholders:    nonNilSlice(r.Placeholders),
		Arguments:       r.Arguments,
	}
}

func (r *Report) timestamp() string {
	at := r.FinishedAt
	if at.IsZero() {
		at = r.StartedAt
	}
	return at.Format(time.RFC3339)
}

func (r *Report) durationSeconds() float64 {
	return math.Round(r.Duration().Seconds()*100) / 100
}

// Write serializes the report to w in the given format.
func (r *Report) Write(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.document())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r.document()); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return r.writeCSV(w)
	case FormatMarkdown:
		_, err := io.WriteString(w, r.Markdown())
		return err
	case FormatText, "":
		_, err := io.WriteString(w, r.Text())
		return err
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteFile serializes the report to path, replacing any previous report atomically.
func (r *Report) WriteFile(path string, format Format) error {
	var buf bytes.Buffer
	if err := r.Write(&buf, format); err != nil {
		return fmt.Errorf("failed to render %s report: %w", format, err)
	}
	if err := fsutil.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

func (r *Report) writeCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"Focus ID", "Status", "Icon Path", "Notes"}}
	for _, f := range r.Found {
		rows = append(rows, []string{f.ID, "FOUND", f.RelativePath, "Pattern: " + f.Pattern})
	}
	for _, m := range r.Missing {
		rows = append(rows, []string{m.ID, "MISSING", "", fmt.Sprintf("Tried %d patterns", len(m.PatternsTried))})
	}
	for _, p := range r.Placeholders {
		note := "Cloned from default image"
		if p.Reused {
			note = "Existing file reused"
		}
		rows = append(rows, []string{p.ID, "PLACEHOLDER_CREATED", p.IconPath, note})
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func patternSummary(patterns []string) string {
	if len(patterns) <= maxPatternsShown {
		return strings.Join(patterns, ", ")
	}
	return strings.Join(patterns[:maxPatternsShown], ", ") +
		fmt.Sprintf(" ... (+%d more)", len(patterns)-maxPatternsShown)
}

// Text renders the plain-text report.
func (r *Report) Text() string {
	var sb strings.Builder
	rule := strings.Repeat("=", 60)
	sub := strings.Repeat("-", 40)
	stats := r.Stats()

	sb.WriteString("focusgfx Report\n")
	sb.WriteString(rule + "\n\n")
	fmt.Fprintf(&sb, "Run ID: %s\n", r.RunID)
	fmt.Fprintf(&sb, "Timestamp: %s\n", r.timestamp())
	fmt.Fprintf(&sb, "Duration: %.2f seconds\n", r.durationSeconds())
	fmt.Fprintf(&sb, "Source: %s\n", r.Source)
	fmt.Fprintf(&sb, "Output: %s\n", r.Output)
	fmt.Fprintf(&sb, "Total Focuses: %d\n\n", len(r.IDs))

	sb.WriteString("ICON STATISTICS:\n" + sub + "\n")
	fmt.Fprintf(&sb, "Icons Found: %d\n", stats.Found)
	fmt.Fprintf(&sb, "Icons Missing: %d\n", stats.Missing)
	fmt.Fprintf(&sb, "Placeholders Created: %d\n\n", stats.PlaceholdersCreated)

	if len(r.Missing) > 0 {
		sb.WriteString("MISSING ICONS:\n" + sub + "\n")
		for _, m := range r.Missing {
			fmt.Fprintf(&sb, "  %s:\n", m.ID)
			fmt.Fprintf(&sb, "    Search path: %s\n", m.SearchPath)
			fmt.Fprintf(&sb, "    Patterns tried: %s\n", patternSummary(m.PatternsTried))
		}
		sb.WriteString("\n")
	}
	if len(r.Found) > 0 {
		sb.WriteString("FOUND ICONS:\n" + sub + "\n")
		for _, f := range r.Found {
			fmt.Fprintf(&sb, "  %s:\n", f.ID)
			fmt.Fprintf(&sb, "    Pattern: %s\n", f.Pattern)
			fmt.Fprintf(&sb, "    Path: %s\n", f.RelativePath)
		}
		sb.WriteString("\n")
	}
	if len(r.Placeholders) > 0 {
		sb.WriteString("PLACEHOLDERS CREATED:\n" + sub + "\n")
		for _, p := range r.Placeholders {
			fmt.Fprintf(&sb, "  %s: %s\n", p.ID, p.IconPath)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(rule + "\n")
	return sb.String()
}

// Markdown renders the report as a markdown document.
func (r *Report) Markdown() string {
	var sb strings.Builder
	stats := r.Stats()

	sb.WriteString("# focusgfx Report\n\n")
	fmt.Fprintf(&sb, "**Run ID**: %s\n", r.RunID)
	fmt.Fprintf(&sb, "**Timestamp**: %s\n", r.timestamp())
	fmt.Fprintf(&sb, "**Duration**: %.2f seconds\n", r.durationSeconds())
	fmt.Fprintf(&sb, "**Source**: %s\n", r.Source)
	fmt.Fprintf(&sb, "**Output**: %s\n", r.Output)
	fmt.Fprintf(&sb, "**Total Focuses**: %d\n\n", len(r.IDs))

	sb.WriteString("## Icon Statistics\n\n")
	fmt.Fprintf(&sb, "- **Icons Found**: %d\n", stats.Found)
	fmt.Fprintf(&sb, "- **Icons Missing**: %d\n", stats.Missing)
	fmt.Fprintf(&sb, "- **Placeholders Created**: %d\n", stats.PlaceholdersCreated)
	if r.DryRun && stats.PlaceholdersPlanned > 0 {
		fmt.Fprintf(&sb, "- **Placeholders Planned**: %d\n", stats.PlaceholdersPlanned)
	}
	sb.WriteString("\n")

	if len(r.Missing) > 0 {
		sb.WriteString("## Missing Icons\n\n")
		sb.WriteString("| Focus ID | Patterns Tried |\n")
		sb.WriteString("|----------|----------------|\n")
		for _, m := range r.Missing {
			fmt.Fprintf(&sb, "| `%s` | %s |\n", m.ID, patternSummary(m.PatternsTried))
		}
		sb.WriteString("\n")
	}
	if len(r.Found) > 0 {
		sb.WriteString("## Found Icons\n\n")
		sb.WriteString("| Focus ID | Icon Path | Pattern |\n")
		sb.WriteString("|----------|-----------|---------|\n")
		for _, f := range r.Found {
			fmt.Fprintf(&sb, "| `%s` | `%s` | %s |\n", f.ID, f.RelativePath, f.Pattern)
		}
		sb.WriteString("\n")
	}
	if len(r.Placeholders) > 0 {
		sb.WriteString("## Placeholders Created\n\n")
		sb.WriteString("| Focus ID | Placeholder Path |\n")
		sb.WriteString("|----------|------------------|\n")
		for _, p := range r.Placeholders {
			fmt.Fprintf(&sb, "| `%s` | `%s` |\n", p.ID, p.IconPath)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
