package ports

import (
	"context"

	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
)

// Extractor reads machine declarations from one input file.
// Implementations report every problem they find as extraction
// diagnostics instead of stopping at the first one. Declarations are
// returned even when diagnostics are present, so callers can keep
// collecting errors from other inputs.
type Extractor interface {
	// Extract parses src, which was read from path.
	Extract(ctx context.Context, path string, src []byte) ([]*domain.MachineDecl, diag.List)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, path string, src []byte) ([]*domain.MachineDecl, diag.List)

func (f ExtractorFunc) Extract(ctx context.Context, path string, src []byte) ([]*domain.MachineDecl, diag.List) {
	return f(ctx, path, src)
}

// Matcher is implemented by extractors that recognize their inputs by name.
type Matcher interface {
	Match(path string) bool
}
