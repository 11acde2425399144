package gosource

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
)

const prefix = "//tickfsm:"

// field is a whitespace-separated word of a directive with its column.
type field struct {
	text string
	col  int
}

// splitFields splits s into words, recording each word's column relative to
// base (the column of s[0]).
func splitFields(s string, base int) []field {
	var out []field
	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				out = append(out, field{text: s[start:i], col: base + start})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, field{text: s[start:], col: base + start})
	}
	return out
}

// directive is one //tickfsm: comment line.
type directive struct {
	verb   string
	args   []field
	pos    domain.Position
	column func(field) domain.Position
}

// parseDirective recognizes a comment line. ok is false for ordinary comments.
func parseDirective(text string, pos domain.Position) (directive, bool) {
	if !strings.HasPrefix(text, prefix) {
		return directive{}, false
	}
	words := splitFields(text, pos.Column)
	d := directive{
		verb: strings.TrimPrefix(words[0].text, prefix),
		args: words[1:],
		pos:  pos,
	}
	d.column = func(f field) domain.Position {
		p := pos
		p.Column = f.col
		return p
	}
	return d, true
}

// parseState reads `Name [initial] [terminal] [entry=X] [periodic=X] [exit=X]`.
func (d directive) parseState(diags *diag.List) (domain.StateDecl, bool) {
	if len(d.args) == 0 {
		diags.Errorf(diag.ClassExtraction, diag.CodeMissingField, d.pos,
			"state directive has no name")
		return domain.StateDecl{}, false
	}
	name := d.args[0]
	s := domain.StateDecl{Name: name.text, Pos: d.column(name)}
	if !domain.IsIdentifier(name.text) {
		diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, s.Pos,
			"state name %q is not a Go identifier", name.text)
		return s, false
	}

	ok := true
	for _, f := range d.args[1:] {
		key, value, hasValue := strings.Cut(f.text, "=")
		var target *string
		switch key {
		case "initial":
			s.Initial = true
		case "terminal":
			s.Terminal = true
		case "entry":
			target = &s.Entry
		case "periodic":
			target = &s.Periodic
		case "exit":
			target = &s.Exit
		default:
			diags.Errorf(diag.ClassExtraction, diag.CodeUnknownField, d.column(f),
				"state %s: unknown option %q", s.Name, key)
			ok = false
			continue
		}
		if target == nil {
			if hasValue {
				diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, d.column(f),
					"state %s: option %s takes no value", s.Name, key)
				ok = false
			}
			continue
		}
		action, err := domain.ParseAction(value)
		if err == nil && action == "" {
			err = domain.ErrEmptyReference
		}
		if err != nil {
			diags.Errorf(diag.ClassExtraction, diag.CodeBadReference, d.column(f),
				"state %s: %s action: %v", s.Name, key, err)
			ok = false
			continue
		}
		*target = action
	}
	return s, ok
}

// parseTransition reads `From -> To guard=X [action=X] [priority=N] [id=X]`.
func (d directive) parseTransition(diags *diag.List) (domain.TransitionDecl, bool) {
	if len(d.args) < 3 || d.args[1].text != "->" {
		diags.Errorf(diag.ClassExtraction, diag.CodeSyntax, d.pos,
			"transition directive must read <From> -> <To> guard=<ref>")
		return domain.TransitionDecl{}, false
	}
	t := domain.TransitionDecl{
		From: d.args[0].text,
		To:   d.args[2].text,
		Pos:  d.column(d.args[0]),
	}

	ok := true
	guarded := false
	for _, f := range d.args[3:] {
		key, value, _ := strings.Cut(f.text, "=")
		switch key {
		case "guard":
			g, err := domain.ParseGuard(value)
			if err != nil {
				diags.Errorf(diag.ClassExtraction, diag.CodeBadReference, d.column(f),
					"transition %s -> %s: %v", t.From, t.To, err)
				ok = false
			}
			t.Guard = g
			guarded = true
		case "action":
			action, err := domain.ParseAction(value)
			if err == nil && action == "" {
				err = domain.ErrEmptyReference
			}
			if err != nil {
				diags.Errorf(diag.ClassExtraction, diag.CodeBadReference, d.column(f),
					"transition %s -> %s: action: %v", t.From, t.To, err)
				ok = false
				continue
			}
			t.Action = action
		case "priority":
			p, err := strconv.Atoi(value)
			if err != nil || p < 0 {
				diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, d.column(f),
					"transition %s -> %s: priority %q is not a non-negative integer", t.From, t.To, value)
				ok = false
				continue
			}
			t.Priority = p
			t.PriorityExplicit = true
		case "id":
			if value == "" {
				diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, d.column(f),
					"transition %s -> %s: empty id", t.From, t.To)
				ok = false
				continue
			}
			t.ID = value
		default:
			diags.Errorf(diag.ClassExtraction, diag.CodeUnknownField, d.column(f),
				"transition %s -> %s: unknown option %q", t.From, t.To, key)
			ok = false
		}
	}
	if !guarded {
		diags.Errorf(diag.ClassExtraction, diag.CodeMissingField, t.Pos,
			"transition %s -> %s has no guard", t.From, t.To)
		ok = false
	}
	return t, ok
}
