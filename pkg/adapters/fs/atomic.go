package fs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// TempFilePrefix marks in-flight writes. The inbox ignores files carrying it.
	TempFilePrefix = "smartnotes-tmp-"
)

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// replaceFile streams write into a temp file next to filename, syncs it and renames it
// over filename. It returns the size of the new file. On failure filename is untouched.
func replaceFile(filename string, perm os.FileMode, write func(io.Writer) error) (int64, error) {
	name := filepath.Base(filename)
	tmp, err := os.CreateTemp(filepath.Dir(filename), TempFilePrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	cw := &countingWriter{w: tmp}
	if err := write(cw); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return 0, fmt.Errorf("failed to chmod temp file for %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("failed to sync temp file for %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return 0, fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	committed = true
	return cw.n, nil
}

// writeJSONAtomic replaces filename with v as two-space indented JSON.
func writeJSONAtomic(filename string, v any) (int64, error) {
	return replaceFile(filename, 0644, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

// readJSON decodes filename into v. The boolean is false when the file does not exist.
func readJSON(filename string, v any) (bool, error) {
	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", filepath.Base(filename), err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", filepath.Base(filename), err)
	}
	return true, nil
}
