// Package hclspec extracts machine declarations from HCL files:
//
//	machine "DriveMachine" {
//	  package = "robot"
//	  host    = "*Robot"
//
//	  state "Idle" {
//	    initial = true
//	    entry   = "resetOdometer"
//	  }
//
//	  transition {
//	    from  = "Idle"
//	    to    = "Moving"
//	    guard = "always"
//	  }
//
//	  transition {
//	    from   = "Moving"
//	    to     = "Done"
//	    guard  = "distanceReached"
//	    action = "logArrival"
//	  }
//	}
package hclspec

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "machine", LabelNames: []string{"name"}},
	},
}

var machineSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "package"},
		{Name: "host", Required: true},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "state", LabelNames: []string{"name"}},
		{Type: "transition"},
	},
}

var stateSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "initial"},
		{Name: "terminal"},
		{Name: "entry"},
		{Name: "periodic"},
		{Name: "exit"},
	},
}

var transitionSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "id"},
		{Name: "from", Required: true},
		{Name: "to", Required: true},
		{Name: "guard", Required: true},
		{Name: "action"},
		{Name: "priority"},
	},
}

// Extractor implements ports.Extractor for HCL files.
type Extractor struct {
	logger *slog.Logger
}

// New creates an HCL extractor. A nil logger discards output.
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{logger: logger}
}

// Match reports whether path has the .hcl extension.
func (e *Extractor) Match(path string) bool {
	return filepath.Ext(path) == ".hcl"
}

// Extract parses src and decodes every machine block.
func (e *Extractor) Extract(_ context.Context, path string, src []byte) ([]*domain.MachineDecl, diag.List) {
	var diags diag.List

	file, hdiags := hclparse.NewParser().ParseHCL(src, path)
	diags.Append(fromHCL(hdiags))
	if hdiags.HasErrors() {
		return nil, diags
	}

	content, hdiags := file.Body.Content(fileSchema)
	diags.Append(fromHCL(hdiags))

	var decls []*domain.MachineDecl
	for _, block := range content.Blocks {
		d := &decoder{path: path}
		if decl := d.machine(block); decl != nil && !d.diags.HasErrors() {
			decls = append(decls, decl)
		}
		diags.Append(d.diags)
	}

	e.logger.Debug("Extracted HCL machines", "path", path, "machines", len(decls))
	return decls, diags
}

type decoder struct {
	path  string
	diags diag.List
}

func pos(r hcl.Range) domain.Position {
	return domain.Position{File: r.Filename, Line: r.Start.Line, Column: r.Start.Column}
}

func (d *decoder) content(body hcl.Body, schema *hcl.BodySchema) *hcl.BodyContent {
	content, hdiags := body.Content(schema)
	d.diags.Append(fromHCL(hdiags))
	return content
}

// str decodes an optional string attribute. ok is false when the attribute
// is absent or could not be decoded.
func (d *decoder) str(attrs hcl.Attributes, name string) (v string, r hcl.Range, ok bool) {
	attr, present := attrs[name]
	if !present {
		return "", hcl.Range{}, false
	}
	hdiags := gohcl.DecodeExpression(attr.Expr, nil, &v)
	d.diags.Append(fromHCL(hdiags))
	return v, attr.Expr.Range(), !hdiags.HasErrors()
}

// flag decodes an optional bool attribute.
func (d *decoder) flag(attrs hcl.Attributes, name string) bool {
	attr, ok := attrs[name]
	if !ok {
		return false
	}
	var v bool
	d.diags.Append(fromHCL(gohcl.DecodeExpression(attr.Expr, nil, &v)))
	return v
}

func (d *decoder) machine(block *hcl.Block) *domain.MachineDecl {
	content := d.content(block.Body, machineSchema)
	if content == nil {
		return nil
	}

	name := block.Labels[0]
	if !domain.IsIdentifier(name) {
		d.diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, pos(block.LabelRanges[0]),
			"machine name %q is not a Go identifier", name)
	}
	pkg, _, _ := d.str(content.Attributes, "package")
	hostExpr, hostRange, ok := d.str(content.Attributes, "host")
	host := domain.ParseHost(hostExpr)
	if ok && !domain.IsIdentifier(host.Name) {
		d.diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, pos(hostRange),
			"host %q is not a Go type name", hostExpr)
	}

	decl := &domain.MachineDecl{
		Name:    name,
		Package: pkg,
		Host:    host,
		Format:  domain.FormatHCL,
		Source:  d.path,
		Pos:     pos(block.DefRange),
	}

	for _, b := range content.Blocks {
		switch b.Type {
		case "state":
			decl.States = append(decl.States, d.state(b))
		case "transition":
			decl.Transitions = append(decl.Transitions, d.transition(b))
		}
	}
	return decl
}

func (d *decoder) state(block *hcl.Block) domain.StateDecl {
	s := domain.StateDecl{Name: block.Labels[0], Pos: pos(block.DefRange)}
	if !domain.IsIdentifier(s.Name) {
		d.diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, pos(block.LabelRanges[0]),
			"state name %q is not a Go identifier", s.Name)
	}

	content := d.content(block.Body, stateSchema)
	if content == nil {
		return s
	}
	s.Initial = d.flag(content.Attributes, "initial")
	s.Terminal = d.flag(content.Attributes, "terminal")
	for _, a := range []struct {
		name   string
		target *string
	}{
		{"entry", &s.Entry}, {"periodic", &s.Periodic}, {"exit", &s.Exit},
	} {
		raw, r, ok := d.str(content.Attributes, a.name)
		if !ok {
			continue
		}
		action, err := domain.ParseAction(raw)
		if err != nil {
			d.diags.Errorf(diag.ClassExtraction, diag.CodeBadReference, pos(r),
				"state %s: %s action: %v", s.Name, a.name, err)
			continue
		}
		*a.target = action
	}
	return s
}

func (d *decoder) transition(block *hcl.Block) domain.TransitionDecl {
	t := domain.TransitionDecl{Pos: pos(block.DefRange)}

	content := d.content(block.Body, transitionSchema)
	if content == nil {
		return t
	}
	t.ID, _, _ = d.str(content.Attributes, "id")
	t.From, _, _ = d.str(content.Attributes, "from")
	t.To, _, _ = d.str(content.Attributes, "to")

	if raw, r, ok := d.str(content.Attributes, "guard"); ok {
		guard, err := domain.ParseGuard(raw)
		if err != nil {
			d.diags.Errorf(diag.ClassExtraction, diag.CodeBadReference, pos(r),
				"transition %s -> %s: %v", t.From, t.To, err)
		}
		t.Guard = guard
	}
	if raw, r, ok := d.str(content.Attributes, "action"); ok {
		action, err := domain.ParseAction(raw)
		if err != nil {
			d.diags.Errorf(diag.ClassExtraction, diag.CodeBadReference, pos(r),
				"transition %s -> %s: action: %v", t.From, t.To, err)
		}
		t.Action = action
	}

	if attr, ok := content.Attributes["priority"]; ok {
		var p int
		hdiags := gohcl.DecodeExpression(attr.Expr, nil, &p)
		d.diags.Append(fromHCL(hdiags))
		switch {
		case hdiags.HasErrors():
		case p < 0:
			d.diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, pos(attr.Expr.Range()),
				"transition %s -> %s: priority %d is negative", t.From, t.To, p)
		default:
			t.Priority = p
			t.PriorityExplicit = true
		}
	}
	return t
}

// fromHCL converts parser and decoder diagnostics, keeping their ranges.
func fromHCL(hdiags hcl.Diagnostics) diag.List {
	var out diag.List
	for _, hd := range hdiags {
		var p domain.Position
		if hd.Subject != nil {
			p = pos(*hd.Subject)
		}
		msg := hd.Summary
		if hd.Detail != "" {
			msg += "; " + hd.Detail
		}
		code := codeFor(hd.Summary)
		if hd.Severity == hcl.DiagWarning {
			out.Warnf(diag.ClassExtraction, code, p, "%s", msg)
			continue
		}
		out.Errorf(diag.ClassExtraction, code, p, "%s", msg)
	}
	return out
}

var summaryCodes = map[string]diag.Code{
	"Unsupported argument":           diag.CodeUnknownField,
	"Unsupported block type":         diag.CodeUnknownField,
	"Missing required argument":      diag.CodeMissingField,
	"Incorrect attribute value type": diag.CodeBadValue,
	"Unsuitable value type":          diag.CodeBadValue,
}

func codeFor(summary string) diag.Code {
	if c, ok := summaryCodes[summary]; ok {
		return c
	}
	return diag.CodeSyntax
}
