package emitter

const fileTemplate = `// Code generated by tickfsm from {{.Source}}. DO NOT EDIT.
// Source fingerprint: {{printf "%016x" .Fingerprint}}

package {{.Package}}

import "strconv"
{{range $m := .Machines}}
// {{.StateType}} identifies a state of {{.Name}}.
type {{.StateType}} int

const (
{{- range $i, $s := .States}}
	{{$s.Const}}{{if eq $i 0}} {{$m.StateType}} = iota{{end}}
{{- end}}
)

func (s {{.StateType}}) String() string {
	switch s {
{{- range .States}}
	case {{.Const}}:
		return {{printf "%q" .Name}}
{{- end}}
	}
	return "{{.StateType}}(" + strconv.Itoa(int(s)) + ")"
}

type {{.PhaseType}} uint8

const (
	{{.Uninitialized}} {{.PhaseType}} = iota
	{{.Running}}
	{{.Retired}}
)

// {{.Name}} drives a {{.HostType}} through its states. It satisfies
// lifecycle.Command.
type {{.Name}} struct {
	host    {{.HostType}}
	current {{.StateType}}
	phase   {{.PhaseType}}
	ticking bool
}

// {{.Constructor}} returns a {{.Name}} for host. Call Initialize before Execute.
func {{.Constructor}}(host {{.HostType}}) *{{.Name}} {
	return &{{.Name}}{host: host}
}

// State returns the current state.
func (m *{{.Name}}) State() {{.StateType}} {
	return m.current
}

// Initialize enters {{.InitialName}}. It may be called again after End to
// restart the machine.
func (m *{{.Name}}) Initialize() {
	if m.ticking {
		panic("{{.Name}}: re-entrant Initialize")
	}
	m.ticking = true
	defer func() { m.ticking = false }()

	m.current = {{.Initial}}
	m.phase = {{.Running}}
	m.enter(m.current)
}

// Execute runs one tick: the periodic action of the current state, then the
// first transition whose guard holds.
func (m *{{.Name}}) Execute() {
	if m.phase != {{.Running}} {
		return
	}
	if m.ticking {
		panic("{{.Name}}: re-entrant Execute")
	}
	m.ticking = true
	defer func() { m.ticking = false }()

	switch m.current {
{{- range .States}}{{if or .Periodic .Branches}}
	case {{.Const}}:
{{- if .Periodic}}
		m.host.{{.Periodic}}()
{{- end}}
{{- range $i, $b := .Branches}}
{{- if not $b.Cond}}
{{- if eq $i 0}}
		{{- template "fire" $b}}
{{- else}}
		} else {
			{{- template "fire" $b}}
		}
{{- end}}
{{- else}}
{{- if eq $i 0}}
		if {{$b.Cond}} {
{{- else}}
		} else if {{$b.Cond}} {
{{- end}}
			{{- template "fire" $b}}
{{- if $b.Last}}
		}
{{- end}}
{{- end}}
{{- end}}
{{- end}}{{end}}
	}
}

// IsFinished reports whether the machine has reached a terminal state.
func (m *{{.Name}}) IsFinished() bool {
	if m.phase == {{.Uninitialized}} {
		return false
	}
	switch m.current {
{{- range .Terminals}}
	case {{.}}:
		return true
{{- end}}
	}
	return false
}

// End runs the exit action of the current state and retires the machine.
// interrupted reports whether the scheduler stopped it before it finished.
func (m *{{.Name}}) End(interrupted bool) {
	if m.phase != {{.Running}} {
		return
	}
	if m.ticking {
		panic("{{.Name}}: re-entrant End")
	}
	m.ticking = true
	defer func() { m.ticking = false }()

	m.exit(m.current)
	m.phase = {{.Retired}}
}

func (m *{{.Name}}) fire(to {{.StateType}}) {
	m.exit(m.current)
	m.current = to
	m.enter(to)
}

func (m *{{.Name}}) enter(s {{.StateType}}) {
	switch s {
{{- range .States}}{{if .Entry}}
	case {{.Const}}:
		m.host.{{.Entry}}()
{{- end}}{{end}}
	}
}

func (m *{{.Name}}) exit(s {{.StateType}}) {
	switch s {
{{- range .States}}{{if .Exit}}
	case {{.Const}}:
		m.host.{{.Exit}}()
{{- end}}{{end}}
	}
}
{{end}}
{{- define "fire"}}
{{- if .Action}}
	m.exit(m.current)
	m.host.{{.Action}}()
	m.current = {{.Target}}
	m.enter({{.Target}})
{{- else}}
	m.fire({{.Target}})
{{- end}}
{{- end}}`
