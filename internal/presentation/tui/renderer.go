package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// On a terminal the style follows the background; otherwise the notty
// style keeps the output free of escape sequences.
func NewRenderer(tty bool) (func(string) (string, error), error) {
	opt := glamour.WithStandardStyle("notty")
	if tty {
		opt = glamour.WithAutoStyle() // Automatically detect light/dark background
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return nil, err
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}
