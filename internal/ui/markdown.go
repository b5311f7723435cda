package ui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders md for the terminal with the glamour style matching styles:
// "notty" for plain styles, otherwise "dark" or "light" after the theme.
func RenderMarkdown(md string, width int, styles Styles) (string, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(width),
		glamour.WithStandardStyle(markdownStyle(styles)),
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

func markdownStyle(styles Styles) string {
	switch {
	case styles.Plain:
		return "notty"
	case styles.Theme.IsDark:
		return "dark"
	default:
		return "light"
	}
}
