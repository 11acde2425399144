package emitter

import (
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
)

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[n:]
}

// names tracks the package-level identifiers a file declares.
type names struct {
	owners map[string]string
	diags  *diag.List
}

func newNames(diags *diag.List) *names {
	return &names{owners: make(map[string]string), diags: diags}
}

// declare records ident as generated for owner, reporting a collision at pos
// when another owner already produced it.
func (n *names) declare(ident, owner string, pos domain.Position) {
	if prev, ok := n.owners[ident]; ok {
		n.diags.Errorf(diag.ClassEmission, diag.CodeNameCollision, pos,
			"generated identifier %s for %s collides with %s", ident, owner, prev)
		return
	}
	n.owners[ident] = owner
}
