package compiler

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/tickfsm/internal/emitter"
	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
)

type input struct {
	path      string
	extractor Extractor
}

func (c *Compiler) extractorFor(path string) Extractor {
	if strings.HasSuffix(path, c.suffix) {
		return nil // our own output
	}
	for _, e := range c.extractors {
		if e.Match(path) {
			return e
		}
	}
	return nil
}

// expand resolves paths to the files the compiler reads, sorted and without
// duplicates. Directories are walked; hidden directories and testdata are
// skipped. A file named explicitly that no extractor reads is an error.
func (c *Compiler) expand(paths []string) ([]input, diag.List) {
	var diags diag.List
	seen := make(map[string]bool)
	var out []input

	add := func(path string, e Extractor) {
		if seen[path] {
			return
		}
		seen[path] = true
		out = append(out, input{path: path, extractor: e})
	}

	for _, path := range paths {
		path = filepath.Clean(path)
		info, err := os.Stat(path)
		if err != nil {
			diags.Errorf(diag.ClassExtraction, diag.CodeSyntax, domain.Position{File: path}, "%v", err)
			continue
		}

		if !info.IsDir() {
			e := c.extractorFor(path)
			if e == nil {
				diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, domain.Position{File: path},
					"no front-end reads %s", filepath.Base(path))
				continue
			}
			add(path, e)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if p != path && (strings.HasPrefix(name, ".") || name == "testdata" || name == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			if e := c.extractorFor(p); e != nil {
				add(p, e)
			}
			return nil
		})
		if err != nil {
			diags.Errorf(diag.ClassExtraction, diag.CodeSyntax, domain.Position{File: path}, "%v", err)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out, diags
}

func (c *Compiler) outputPath(source string) string {
	dir := filepath.Dir(source)
	if c.outputDir != "" {
		dir = c.outputDir
	}
	return filepath.Join(dir, emitter.OutputName(source, c.suffix))
}
