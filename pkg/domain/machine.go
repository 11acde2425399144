package domain

// Format names the front-end a declaration came from.
type Format string

const (
	FormatGo   Format = "go"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
	FormatDSL  Format = "dsl"
)

// Host is the Go type the generated machine drives. Actions and guards are
// methods on it.
type Host struct {
	Name string
	// Pointer reports whether the machine holds *Name rather than Name.
	Pointer bool
}

// TypeExpr returns the host type as it appears in generated code.
func (h Host) TypeExpr() string {
	if h.Pointer {
		return "*" + h.Name
	}
	return h.Name
}

// ParseHost reads a host type expression such as "Robot" or "*Robot".
func ParseHost(expr string) Host {
	if len(expr) > 0 && expr[0] == '*' {
		return Host{Name: expr[1:], Pointer: true}
	}
	return Host{Name: expr}
}

// MachineDecl is the unvalidated specification of a single state machine.
type MachineDecl struct {
	Name    string
	Package string
	Host    Host
	Format  Format

	// Source is the file the declaration was read from.
	Source string

	States      []StateDecl
	Transitions []TransitionDecl

	Pos Position
}
