package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tickfsm banner to w.
func PrintBanner(w io.Writer, p termenv.Profile) {
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	lines := []struct{ text, color string }{
		{" _   _      _    __", "#818cf8"},
		{"| |_(_) ___| | _/ _|___ _ __ ___", "#a78bfa"},
		{"| __| |/ __| |/ / |_/ __| '_ ` _ \\", "#c084fc"},
		{"| |_| | (__|   <|  _\\__ \\ | | | | |", "#e879f9"},
		{" \\__|_|\\___|_|\\_\\_| |___/_| |_| |_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
