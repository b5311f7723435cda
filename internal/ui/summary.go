package ui

import (
	"fmt"
	"strconv"
	"strings"

	"focusgfx/internal/diff"
	"focusgfx/internal/report"
)

// Summary renders the icon statistics and the missing identifiers of a run.
func Summary(r *report.Report, styles Styles) string {
	stats := r.Stats()

	var sb strings.Builder
	t := NewTable("Icon statistics", "Metric", "Count")
	t.AddRow("Identifiers", strconv.Itoa(len(r.IDs)))
	t.AddRow("Icons found", strconv.Itoa(stats.Found))
	t.AddRow("Icons missing", strconv.Itoa(stats.Missing))
	if r.DryRun {
		t.AddRow("Placeholders to create", strconv.Itoa(stats.PlaceholdersPlanned))
	} else {
		t.AddRow("Placeholders created", strconv.Itoa(stats.PlaceholdersCreated))
	}
	if len(r.Duplicates) > 0 {
		t.AddRow("Duplicates skipped", strconv.Itoa(len(r.Duplicates)))
	}
	sb.WriteString(t.View(styles))

	if len(r.Missing) > 0 {
		sb.WriteString("\n")
		sb.WriteString(styles.Warning.Render(fmt.Sprintf("Missing icons (%d):", len(r.Missing))))
		sb.WriteString("\n")
		for _, id := range r.MissingIDs() {
			sb.WriteString("  - " + id + "\n")
		}
	}
	return sb.String()
}

// Diff renders a unified diff with added, removed and hunk lines coloured.
func Diff(fd *diff.FileDiff, styles Styles) string {
	if fd.Empty() {
		return styles.Muted.Render("No changes.") + "\n"
	}

	var sb strings.Builder
	for _, line := range strings.SplitAfter(fd.Unified(), "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			sb.WriteString(styles.Bold.Render(text))
		case strings.HasPrefix(text, "@@"):
			sb.WriteString(styles.Hunk.Render(text))
		case strings.HasPrefix(text, "+"):
			sb.WriteString(styles.Added.Render(text))
		case strings.HasPrefix(text, "-"):
			sb.WriteString(styles.Removed.Render(text))
		default:
			sb.WriteString(styles.Body.Render(text))
		}
		sb.WriteString("\n")
	}

	added, removed := fd.Stats()
	sb.WriteString(styles.Muted.Render(fmt.Sprintf("%d insertion(s), %d deletion(s)", added, removed)))
	sb.WriteString("\n")
	return sb.String()
}
