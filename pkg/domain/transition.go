package domain

import "fmt"

// TransitionDecl is a transition as written by the author, before resolution.
type TransitionDecl struct {
	// ID is the explicit identifier, or the derived From->To[guard] form
	// when the author gave none (see DeriveID).
	ID   string
	From string
	To   string

	Guard Guard

	// Action, when set, names a host method run after the source's exit
	// action and before the target's entry action.
	Action string

	// Priority orders transitions that share a source; lower runs first.
	// When PriorityExplicit is false it holds the declaration index.
	Priority         int
	PriorityExplicit bool

	Pos Position
}

// DeriveID builds the identifier used for transitions declared without one.
func DeriveID(from, to string, guard Guard) string {
	return fmt.Sprintf("%s->%s[%s]", from, to, guard)
}
