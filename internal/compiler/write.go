package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotEmitted is returned when writing a result that Emit did not fill.
var ErrNotEmitted = errors.New("compiler: result has not been emitted")

// Write stores the generated code of every unit. Files whose content is
// unchanged are left alone. It returns the paths it wrote.
func (c *Compiler) Write(res *Result) ([]string, error) {
	if err := res.Err(); err != nil {
		return nil, err
	}
	for _, u := range res.Units {
		if u.Code == nil {
			return nil, ErrNotEmitted
		}
	}

	var written []string
	for _, u := range res.Units {
		changed, err := writeIfChanged(u.Output, u.Code)
		if err != nil {
			return written, err
		}
		if changed {
			written = append(written, u.Output)
			c.logger.Info("Generated", "source", u.Source, "output", u.Output, "machines", len(u.Graphs))
		} else {
			c.logger.Debug("Up to date", "output", u.Output)
		}
	}
	return written, nil
}

// Stale returns the outputs whose content on disk differs from res.
func (c *Compiler) Stale(res *Result) ([]string, error) {
	if err := res.Err(); err != nil {
		return nil, err
	}
	var stale []string
	for _, u := range res.Units {
		if u.Code == nil {
			return nil, ErrNotEmitted
		}
		current, err := os.ReadFile(u.Output)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if !bytes.Equal(current, u.Code) {
			stale = append(stale, u.Output)
		}
	}
	return stale, nil
}

// writeIfChanged replaces path with data through a temporary file in the
// same directory, so readers never see a partial file.
func writeIfChanged(path string, data []byte) (bool, error) {
	if current, err := os.ReadFile(path); err == nil && bytes.Equal(current, data) {
		return false, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tickfsm-*.go")
	if err != nil {
		return false, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return true, nil
}
