package domain

// StateDecl is a state as written by the author, before resolution.
type StateDecl struct {
	Name     string
	Initial  bool
	Terminal bool

	// Action references name host methods. Empty means no action.
	Entry    string
	Periodic string
	Exit     string

	Pos Position
}

// Actions returns the non-empty action references of the state in
// entry, periodic, exit order.
func (s StateDecl) Actions() []string {
	var out []string
	for _, a := range []string{s.Entry, s.Periodic, s.Exit} {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}
