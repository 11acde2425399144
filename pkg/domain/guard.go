package domain

import (
	"fmt"
	"go/token"
	"strings"
)

// Guard is the textual reference gating a transition. Two guards are the
// same guard only when their text is byte-identical.
type Guard string

// GuardAlways is the canonical always-true guard.
const GuardAlways Guard = "always"

// ParseGuard validates a guard reference. Accepted forms are "always" (or
// "true"), a Go identifier naming a host method, and "!" followed by one.
func ParseGuard(s string) (Guard, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return "", ErrEmptyReference
	case "always", "true":
		return GuardAlways, nil
	}
	name := strings.TrimPrefix(s, "!")
	if !token.IsIdentifier(name) {
		return "", fmt.Errorf("%w: guard %q", ErrBadReference, s)
	}
	return Guard(s), nil
}

// IsAlways reports whether the guard is unconditionally true.
func (g Guard) IsAlways() bool {
	return g == GuardAlways
}

// Negated reports whether the guard inverts its method's result.
func (g Guard) Negated() bool {
	return strings.HasPrefix(string(g), "!")
}

// Method returns the host method the guard calls, or "" for always.
func (g Guard) Method() string {
	if g.IsAlways() {
		return ""
	}
	return strings.TrimPrefix(string(g), "!")
}

func (g Guard) String() string {
	return string(g)
}

// ParseAction validates an action reference. The empty string means no
// action and is accepted.
func ParseAction(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if !token.IsIdentifier(s) {
		return "", fmt.Errorf("%w: action %q", ErrBadReference, s)
	}
	return s, nil
}

// IsIdentifier reports whether s can name a state, machine or host.
func IsIdentifier(s string) bool {
	return token.IsIdentifier(s)
}
