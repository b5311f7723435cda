package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ErrNotInteractive is returned when a prompt is requested without a terminal.
var ErrNotInteractive = errors.New("interactive prompt requires a terminal")

// Confirm asks a yes/no question. Aborting the prompt (ctrl+c, esc) answers no.
func Confirm(title, description string) (bool, error) {
	if !CanPrompt() {
		return false, ErrNotInteractive
	}

	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return ok, nil
}
