package diag

import (
	"fmt"
	"slices"

	"github.com/aretw0/tickfsm/pkg/domain"
)

// Severity separates fatal diagnostics from advisory ones.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Class is the pipeline stage that produced a diagnostic.
type Class string

const (
	ClassExtraction Class = "extraction"
	ClassResolution Class = "resolution"
	ClassValidation Class = "validation"
	ClassEmission   Class = "emission"
)

// Code identifies the kind of problem independently of its message.
type Code string

// Extraction codes.
const (
	CodeSyntax        Code = "syntax"
	CodeMissingField  Code = "missing-field"
	CodeUnknownField  Code = "unknown-field"
	CodeBadValue      Code = "bad-value"
	CodeBadReference  Code = "bad-reference"
	CodeUnboundName   Code = "unbound-name"
	CodeUncheckedHost Code = "unchecked-host"
)

// Resolution codes.
const (
	CodeUnresolvedState Code = "unresolved-state"
)

// Validation codes.
const (
	CodeNoInitial           Code = "no-initial"
	CodeMultipleInitial     Code = "multiple-initial"
	CodeUnreachable         Code = "unreachable"
	CodeTerminalTransitions Code = "terminal-transitions"
	CodeAmbiguous           Code = "ambiguous"
	CodeDangling            Code = "dangling"
	CodeDuplicateState      Code = "duplicate-state"
	CodeDuplicateTransition Code = "duplicate-transition"

	CodeShadowed   Code = "shadowed"
	CodeDeadEnd    Code = "dead-end"
	CodeNoTerminal Code = "no-terminal"
)

// Emission codes.
const (
	CodeNameCollision Code = "name-collision"
)

// Diagnostic is a single message anchored to a source position.
type Diagnostic struct {
	Severity Severity
	Class    Class
	Code     Code
	Message  string
	Pos      domain.Position
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Pos, d.Message)
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// Errorf appends a fatal diagnostic.
func (l *List) Errorf(class Class, code Code, pos domain.Position, format string, args ...any) {
	*l = append(*l, Diagnostic{
		Severity: SeverityError,
		Class:    class,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// Warnf appends an advisory diagnostic.
func (l *List) Warnf(class Class, code Code, pos domain.Position, format string, args ...any) {
	*l = append(*l, Diagnostic{
		Severity: SeverityWarning,
		Class:    class,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// Append adds all diagnostics of other.
func (l *List) Append(other List) {
	*l = append(*l, other...)
}

// HasErrors reports whether any diagnostic is fatal.
func (l List) HasErrors() bool {
	return slices.ContainsFunc(l, func(d Diagnostic) bool {
		return d.Severity == SeverityError
	})
}

// Errors returns the fatal diagnostics.
func (l List) Errors() List {
	return l.filter(SeverityError)
}

// Warnings returns the advisory diagnostics.
func (l List) Warnings() List {
	return l.filter(SeverityWarning)
}

func (l List) filter(s Severity) List {
	var out List
	for _, d := range l {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}

// Codes returns the codes in list order. Handy in tests.
func (l List) Codes() []Code {
	out := make([]Code, len(l))
	for i, d := range l {
		out[i] = d.Code
	}
	return out
}

// Sorted returns a copy ordered by position. The sort is stable, so
// diagnostics at the same position keep the order they were reported in.
func (l List) Sorted() List {
	out := slices.Clone(l)
	slices.SortStableFunc(out, func(a, b Diagnostic) int {
		return a.Pos.Compare(b.Pos)
	})
	return out
}

// Err returns an *Error holding the sorted fatal diagnostics, or nil.
func (l List) Err() error {
	errs := l.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &Error{Diagnostics: errs.Sorted()}
}
