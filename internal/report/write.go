package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile renders r with renderer and writes it to path atomically via a
// temp file and os.Rename in the same directory.
func WriteFile(path string, r *Report, renderer Renderer) (err error) {
	data, err := renderer.Render(r)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "tomo-*.tmp")
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ReadFile loads the report at path, choosing the parser by extension.
func ReadFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, err
	}
	return ParserFor(path).Parse(data)
}
