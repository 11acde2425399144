// Package yamlspec extracts machine declarations from YAML documents, one
// machine per document.
package yamlspec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

type machineDoc struct {
	Machine     string `mapstructure:"machine"`
	Package     string `mapstructure:"package"`
	Host        string `mapstructure:"host"`
	States      any    `mapstructure:"states"`
	Transitions any    `mapstructure:"transitions"`
}

type stateDoc struct {
	Name     string `mapstructure:"name"`
	Initial  bool   `mapstructure:"initial"`
	Terminal bool   `mapstructure:"terminal"`
	Entry    string `mapstructure:"entry"`
	Periodic string `mapstructure:"periodic"`
	Exit     string `mapstructure:"exit"`
}

type transitionDoc struct {
	ID       string `mapstructure:"id"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
	Guard    string `mapstructure:"guard"`
	Action   string `mapstructure:"action"`
	Priority *int   `mapstructure:"priority"`
}

// Extractor implements ports.Extractor for YAML files.
type Extractor struct {
	logger *slog.Logger
}

// New creates a YAML extractor. A nil logger discards output.
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{logger: logger}
}

// Match reports whether path has a YAML extension.
func (e *Extractor) Match(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Extract decodes every document of src.
func (e *Extractor) Extract(_ context.Context, path string, src []byte) ([]*domain.MachineDecl, diag.List) {
	p := &docParser{path: path}
	var decls []*domain.MachineDecl

	dec := yaml.NewDecoder(bytes.NewReader(src))
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			p.syntax(err)
			break
		}
		if len(doc.Content) == 0 || doc.Content[0].Tag == "!!null" {
			continue
		}
		if decl := p.machine(doc.Content[0]); decl != nil {
			decls = append(decls, decl)
		}
	}

	e.logger.Debug("Extracted YAML documents", "path", path, "machines", len(decls))
	return decls, p.diags
}

type docParser struct {
	path  string
	diags diag.List
}

func (p *docParser) pos(n *yaml.Node) domain.Position {
	return domain.Position{File: p.path, Line: n.Line, Column: n.Column}
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

func (p *docParser) syntax(err error) {
	pos := domain.Position{File: p.path}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		pos.Line, _ = strconv.Atoi(m[1])
	}
	p.diags.Errorf(diag.ClassExtraction, diag.CodeSyntax, pos, "%s", strings.TrimPrefix(err.Error(), "yaml: "))
}

// decode converts a mapping node into out. Unknown keys and type mismatches
// are reported at the node that caused them. decoded is false when out could
// not be filled at all; clean is false when anything was reported.
func (p *docParser) decode(n *yaml.Node, what string, out any) (decoded, clean bool) {
	if n.Kind != yaml.MappingNode {
		p.diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, p.pos(n), "%s must be a mapping", what)
		return false, false
	}
	var raw map[string]any
	if err := n.Decode(&raw); err != nil {
		p.diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, p.pos(n), "%s: %s", what, strings.TrimPrefix(err.Error(), "yaml: "))
		return false, false
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		Metadata:   &md,
		DecodeHook: mapstructure.DecodeHookFuncKind(scalarText),
	})
	if err != nil {
		panic(fmt.Sprintf("yamlspec: %v", err))
	}

	if err := dec.Decode(raw); err != nil {
		var me *mapstructure.Error
		if !errors.As(err, &me) {
			me = &mapstructure.Error{Errors: []string{err.Error()}}
		}
		for _, msg := range me.Errors {
			p.diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, p.pos(p.keyNode(n, msg)), "%s: %s", what, msg)
		}
		return true, false
	}

	sort.Strings(md.Unused)
	for _, key := range md.Unused {
		p.diags.Errorf(diag.ClassExtraction, diag.CodeUnknownField, p.pos(p.keyNode(n, "'"+key+"'")),
			"%s: unknown key %q", what, key)
	}
	return true, len(md.Unused) == 0
}

// scalarText lets unquoted scalars such as `guard: true` or `from: 1`
// fill string fields with their YAML text.
func scalarText(from, to reflect.Kind, data any) (any, error) {
	if to != reflect.String {
		return data, nil
	}
	switch from {
	case reflect.Bool, reflect.Int, reflect.Int64, reflect.Uint64, reflect.Float64:
		return fmt.Sprint(data), nil
	}
	return data, nil
}

// keyNode returns the key node of n quoted in msg, falling back to n.
func (p *docParser) keyNode(n *yaml.Node, msg string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if strings.Contains(msg, "'"+n.Content[i].Value+"'") {
			return n.Content[i]
		}
	}
	return n
}

// value returns the value node stored under key in mapping n.
func value(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func (p *docParser) require(n *yaml.Node, what, key, got string) bool {
	if got != "" {
		return true
	}
	if v := value(n, key); v != nil && v.Kind != yaml.ScalarNode {
		return false // reported by decode
	}
	p.diags.Errorf(diag.ClassExtraction, diag.CodeMissingField, p.pos(n), "%s: missing %q", what, key)
	return false
}

func (p *docParser) machine(n *yaml.Node) *domain.MachineDecl {
	var doc machineDoc
	decoded, ok := p.decode(n, "machine", &doc)
	if !decoded {
		return nil
	}

	ok = p.require(n, "machine", "machine", doc.Machine) && ok
	ok = p.require(n, "machine "+doc.Machine, "host", doc.Host) && ok
	if doc.Machine != "" && !domain.IsIdentifier(doc.Machine) {
		p.diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, p.pos(value(n, "machine")),
			"machine name %q is not a Go identifier", doc.Machine)
		ok = false
	}
	host := domain.ParseHost(doc.Host)
	if doc.Host != "" && !domain.IsIdentifier(host.Name) {
		p.diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, p.pos(value(n, "host")),
			"host %q is not a Go type name", doc.Host)
		ok = false
	}

	decl := &domain.MachineDecl{
		Name:    doc.Machine,
		Package: doc.Package,
		Host:    host,
		Format:  domain.FormatYAML,
		Source:  p.path,
		Pos:     p.pos(n),
	}

	if states := value(n, "states"); states != nil {
		items, good := p.items(states, "states")
		ok = good && ok
		for _, item := range items {
			if s, good := p.state(item); good {
				decl.States = append(decl.States, s)
			} else {
				ok = false
			}
		}
	}
	if transitions := value(n, "transitions"); transitions != nil {
		items, good := p.items(transitions, "transitions")
		ok = good && ok
		for _, item := range items {
			if t, good := p.transition(item); good {
				decl.Transitions = append(decl.Transitions, t)
			} else {
				ok = false
			}
		}
	}

	if !ok {
		return nil
	}
	return decl
}

func (p *docParser) items(n *yaml.Node, key string) ([]*yaml.Node, bool) {
	if n.Kind != yaml.SequenceNode {
		p.diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, p.pos(n), "%s must be a list", key)
		return nil, false
	}
	return n.Content, true
}

func (p *docParser) state(n *yaml.Node) (domain.StateDecl, bool) {
	var doc stateDoc
	decoded, ok := p.decode(n, "state", &doc)
	if !decoded {
		return domain.StateDecl{}, false
	}
	ok = p.require(n, "state", "name", doc.Name) && ok
	if doc.Name != "" && !domain.IsIdentifier(doc.Name) {
		p.diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, p.pos(value(n, "name")),
			"state name %q is not a Go identifier", doc.Name)
		ok = false
	}

	s := domain.StateDecl{
		Name:     doc.Name,
		Initial:  doc.Initial,
		Terminal: doc.Terminal,
		Pos:      p.pos(n),
	}
	for _, a := range []struct {
		key    string
		raw    string
		target *string
	}{
		{"entry", doc.Entry, &s.Entry},
		{"periodic", doc.Periodic, &s.Periodic},
		{"exit", doc.Exit, &s.Exit},
	} {
		action, err := domain.ParseAction(a.raw)
		if err != nil {
			p.diags.Errorf(diag.ClassExtraction, diag.CodeBadReference, p.pos(value(n, a.key)),
				"state %s: %s action: %v", doc.Name, a.key, err)
			ok = false
			continue
		}
		*a.target = action
	}
	return s, ok
}

func (p *docParser) transition(n *yaml.Node) (domain.TransitionDecl, bool) {
	var doc transitionDoc
	decoded, ok := p.decode(n, "transition", &doc)
	if !decoded {
		return domain.TransitionDecl{}, false
	}
	ok = p.require(n, "transition", "from", doc.From) && ok
	ok = p.require(n, "transition", "to", doc.To) && ok

	t := domain.TransitionDecl{
		ID:   doc.ID,
		From: doc.From,
		To:   doc.To,
		Pos:  p.pos(n),
	}
	if g := value(n, "guard"); g == nil {
		p.diags.Errorf(diag.ClassExtraction, diag.CodeMissingField, t.Pos,
			"transition %s -> %s: missing \"guard\"", t.From, t.To)
		ok = false
	} else if g.Kind != yaml.ScalarNode {
		ok = false // reported by decode
	} else if guard, err := domain.ParseGuard(doc.Guard); err != nil {
		p.diags.Errorf(diag.ClassExtraction, diag.CodeBadReference, p.pos(g),
			"transition %s -> %s: %v", t.From, t.To, err)
		ok = false
	} else {
		t.Guard = guard
	}
	if action, err := domain.ParseAction(doc.Action); err != nil {
		p.diags.Errorf(diag.ClassExtraction, diag.CodeBadReference, p.pos(value(n, "action")),
			"transition %s -> %s: action: %v", t.From, t.To, err)
		ok = false
	} else {
		t.Action = action
	}
	if doc.Priority != nil {
		if *doc.Priority < 0 {
			p.diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, p.pos(value(n, "priority")),
				"transition %s -> %s: priority %d is negative", t.From, t.To, *doc.Priority)
			ok = false
		}
		t.Priority = *doc.Priority
		t.PriorityExplicit = true
	}
	return t, ok
}
