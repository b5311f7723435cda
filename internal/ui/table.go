package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders static rows with padded columns.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewTable creates a new Table with the given title and headers.
func NewTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers}
}

// AddRow adds a row. Cells beyond the header count are dropped.
func (t *Table) AddRow(cells ...string) {
	if len(cells) > len(t.Headers) {
		cells = cells[:len(t.Headers)]
	}
	t.Rows = append(t.Rows, cells)
}

// widths returns the display width of each column, padding included.
func (t *Table) widths() []int {
	w := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		w[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			w[i] = max(w[i], lipgloss.Width(cell))
		}
	}
	for i := range w {
		w[i] += 2
	}
	return w
}

// View renders the table. A table without rows renders as "".
func (t *Table) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	widths := t.widths()
	headerStyle := styles.Bold.Padding(0, 1)
	cellStyle := styles.Body.Padding(0, 1)
	sep := styles.Muted.Render("|")

	renderRow := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = style.Width(widths[i]).Render(cell)
		}
		return strings.Join(parts, sep)
	}

	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}
	sb.WriteString(renderRow(t.Headers, headerStyle))
	sb.WriteString("\n")
	sb.WriteString(styles.Muted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")
	for _, row := range t.Rows {
		sb.WriteString(renderRow(row, cellStyle))
		sb.WriteString("\n")
	}
	return sb.String()
}
