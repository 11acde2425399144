package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/tickfsm/pkg/machine"
)

// Describe renders g as a Markdown document: a header, a state table and
// the transitions in evaluation order.
func Describe(g *machine.Graph) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", g.Name)
	fmt.Fprintf(&sb, "- Package: `%s`\n", g.Package)
	if host := g.Host.TypeExpr(); host != "" {
		fmt.Fprintf(&sb, "- Host: `%s`\n", host)
	}
	if g.Source != "" {
		fmt.Fprintf(&sb, "- Source: `%s` (%s)\n", g.Source, g.Format)
	}
	fmt.Fprintf(&sb, "- Fingerprint: `%016x`\n", g.Fingerprint())

	sb.WriteString("\n## States\n\n")
	sb.WriteString("| State | Kind | Entry | Periodic | Exit |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, s := range g.Unique() {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			s.Name, kind(s), cell(s.Entry), cell(s.Periodic), cell(s.Exit))
	}

	sb.WriteString("\n## Transitions\n\n")
	if len(g.Transitions) == 0 {
		sb.WriteString("None.\n")
		return sb.String()
	}
	sb.WriteString("| From | Rank | To | Guard | Priority | ID | Action |\n")
	sb.WriteString("|---|---|---|---|---|---|---|\n")
	for _, s := range g.Unique() {
		for i, t := range s.Out {
			action := "-"
			if t.Action != "" {
				action = "`" + t.Action + "`"
			}
			fmt.Fprintf(&sb, "| %s | %d | %s | `%s` | %d | %s | %s |\n",
				t.From, i+1, t.To, t.Guard, t.Priority, t.ID, action)
		}
	}
	return sb.String()
}

func kind(s *machine.State) string {
	var parts []string
	if s.Initial {
		parts = append(parts, "initial")
	}
	if s.Terminal {
		parts = append(parts, "terminal")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func cell(action string) string {
	if action == "" {
		return "-"
	}
	return "`" + action + "`"
}
