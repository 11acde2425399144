package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Profile picks the colour profile for w. mode is auto, always or never;
// auto colours terminals only.
func Profile(w io.Writer, mode string) termenv.Profile {
	switch mode {
	case "never":
		return termenv.Ascii
	case "always":
		return termenv.ANSI
	}
	if !IsTerminal(w) {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// Printer writes diagnostics one per line:
//
//	file:line:col: severity[class/code]: message
type Printer struct {
	out     io.Writer
	profile termenv.Profile
}

// NewPrinter returns a printer writing to w with the given profile.
func NewPrinter(w io.Writer, profile termenv.Profile) *Printer {
	return &Printer{out: w, profile: profile}
}

// Diagnostics prints every entry of l in order.
func (p *Printer) Diagnostics(l diag.List) {
	for _, d := range l {
		sev := p.profile.String(d.Severity.String()).Bold()
		if d.Severity == diag.SeverityError {
			sev = sev.Foreground(p.profile.Color("#ef4444"))
		} else {
			sev = sev.Foreground(p.profile.Color("#f59e0b"))
		}
		pos := p.profile.String(d.Pos.String()).Faint()
		fmt.Fprintf(p.out, "%s: %s[%s/%s]: %s\n", pos, sev, d.Class, d.Code, d.Message)
	}
}

// Summary prints the closing line of a run.
func (p *Printer) Summary(l diag.List, machines int) {
	errs, warns := len(l.Errors()), len(l.Warnings())
	if errs > 0 {
		msg := p.profile.String(fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)).Foreground(p.profile.Color("#ef4444"))
		fmt.Fprintln(p.out, msg)
		return
	}
	msg := p.profile.String(fmt.Sprintf("%d machine(s) ok, %d warning(s)", machines, warns)).Foreground(p.profile.Color("#22c55e"))
	fmt.Fprintln(p.out, msg)
}
